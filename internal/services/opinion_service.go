package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"challengehub/internal/events"
	"challengehub/internal/models"
	"challengehub/internal/repositories"
)

// OpinionService records reflections on completed missions.
type OpinionService struct {
	opinionRepo repositories.OpinionRepository
	missionRepo repositories.MissionRepository
	eventBus    events.EventBus
	logger      *zap.Logger
}

// NewOpinionService creates a new opinion service
func NewOpinionService(
	opinionRepo repositories.OpinionRepository,
	missionRepo repositories.MissionRepository,
	eventBus events.EventBus,
	logger *zap.Logger,
) *OpinionService {
	return &OpinionService{
		opinionRepo: opinionRepo,
		missionRepo: missionRepo,
		eventBus:    eventBus,
		logger:      logger,
	}
}

// CreateOpinionInput carries the fields of a new reflection.
type CreateOpinionInput struct {
	MissionID  int64
	Difficulty string
	Impression string
	Reaction   string
}

// Create records a reflection on one of the writer's completed missions.
func (s *OpinionService) Create(ctx context.Context, writerID int64, input CreateOpinionInput) (*models.Opinion, error) {
	if strings.TrimSpace(input.Impression) == "" {
		return nil, NewValidationError("impression is required", nil)
	}

	mission, err := s.missionRepo.GetByIDAndWriter(ctx, input.MissionID, writerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load mission: %w", err)
	}
	if mission == nil {
		return nil, EntityNotFoundError("mission", input.MissionID)
	}
	if mission.Status != models.MissionCompleted {
		return nil, NewBusinessError("mission must be completed before reflecting on it", "MISSION_NOT_COMPLETED")
	}

	opinion := &models.Opinion{
		MissionID:  input.MissionID,
		Difficulty: input.Difficulty,
		Impression: strings.TrimSpace(input.Impression),
		Reaction:   input.Reaction,
	}
	if err := s.opinionRepo.Create(ctx, opinion); err != nil {
		return nil, fmt.Errorf("failed to create opinion: %w", err)
	}

	event := events.NewOpinionCreatedEvent(writerID, input.MissionID, opinion.ID)
	if err := s.eventBus.PublishAsync(ctx, event); err != nil {
		s.logger.Warn("Failed to publish opinion created event",
			zap.Int64("opinion_id", opinion.ID),
			zap.Error(err),
		)
	}

	s.logger.Info("Opinion recorded",
		zap.Int64("opinion_id", opinion.ID),
		zap.Int64("mission_id", input.MissionID),
		zap.Int64("writer_id", writerID),
	)
	return opinion, nil
}

// ListByMission returns the reflections on one of the writer's missions,
// oldest first.
func (s *OpinionService) ListByMission(ctx context.Context, writerID, missionID int64) ([]*models.Opinion, error) {
	mission, err := s.missionRepo.GetByIDAndWriter(ctx, missionID, writerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load mission: %w", err)
	}
	if mission == nil {
		return nil, EntityNotFoundError("mission", missionID)
	}

	opinions, err := s.opinionRepo.ListByMission(ctx, missionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list opinions: %w", err)
	}
	return opinions, nil
}
