package services

import (
	"go.uber.org/zap"

	"challengehub/internal/cache"
	"challengehub/internal/config"
	"challengehub/internal/events"
	"challengehub/internal/repositories"
)

// Collection bundles every service for wiring into the router.
type Collection struct {
	Users    *UserService
	Auth     *AuthService
	Missions *MissionService
	Opinions *OpinionService
	Badges   *BadgeService
	AI       *AIService
}

// Repositories bundles the repository implementations the services run on.
type Repositories struct {
	Users    repositories.UserRepository
	Missions repositories.MissionRepository
	Opinions repositories.OpinionRepository
	Badges   repositories.BadgeRepository
}

// NewCollection wires all services and subscribes badge evaluation to the
// activity events.
func NewCollection(repos Repositories, c cache.Cache, bus events.EventBus, cfg *config.Config, logger *zap.Logger) *Collection {
	badgeSvc := NewBadgeService(repos.Badges, repos.Missions, repos.Users, logger.Named("badges"))
	events.RegisterBadgeListener(bus, badgeSvc, logger.Named("badge-listener"))

	return &Collection{
		Users:    NewUserService(repos.Users, cfg.Auth.BCryptCost, logger.Named("users")),
		Auth:     NewAuthService(repos.Users, c, cfg.Auth, logger.Named("auth")),
		Missions: NewMissionService(repos.Missions, repos.Users, bus, logger.Named("missions")),
		Opinions: NewOpinionService(repos.Opinions, repos.Missions, bus, logger.Named("opinions")),
		Badges:   badgeSvc,
		AI:       NewAIService(repos.Opinions, cfg.OpenAI, logger.Named("ai")),
	}
}
