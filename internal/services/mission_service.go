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

// MissionService manages the mission lifecycle. Completing a mission
// publishes the event that drives badge evaluation.
type MissionService struct {
	missionRepo repositories.MissionRepository
	userRepo    repositories.UserRepository
	eventBus    events.EventBus
	logger      *zap.Logger
}

// NewMissionService creates a new mission service
func NewMissionService(
	missionRepo repositories.MissionRepository,
	userRepo repositories.UserRepository,
	eventBus events.EventBus,
	logger *zap.Logger,
) *MissionService {
	return &MissionService{
		missionRepo: missionRepo,
		userRepo:    userRepo,
		eventBus:    eventBus,
		logger:      logger,
	}
}

// CreateMissionInput carries the fields of a new mission.
type CreateMissionInput struct {
	Content     string
	Level       int
	IsPrivate   bool
	AIGenerated bool
}

// Create records a new in-progress mission for writerID.
func (s *MissionService) Create(ctx context.Context, writerID int64, input CreateMissionInput) (*models.Mission, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, NewValidationError("mission content is required", nil)
	}
	if input.Level < 0 || input.Level > 5 {
		return nil, NewValidationError("mission level must be between 0 and 5", nil)
	}
	if err := s.requireUser(ctx, writerID); err != nil {
		return nil, err
	}

	mission := &models.Mission{
		WriterID:    writerID,
		Content:     content,
		Level:       input.Level,
		IsPrivate:   input.IsPrivate,
		AIGenerated: input.AIGenerated,
		Status:      models.MissionInProgress,
	}
	if err := s.missionRepo.Create(ctx, mission); err != nil {
		return nil, fmt.Errorf("failed to create mission: %w", err)
	}

	s.logger.Info("Mission created",
		zap.Int64("mission_id", mission.ID),
		zap.Int64("writer_id", writerID),
		zap.Int("level", mission.Level),
	)
	return mission, nil
}

// Complete marks the writer's mission as completed and publishes the
// completion event. Completing an already completed mission is rejected.
func (s *MissionService) Complete(ctx context.Context, writerID, missionID int64) (*models.Mission, error) {
	mission, err := s.missionRepo.GetByIDAndWriter(ctx, missionID, writerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load mission: %w", err)
	}
	if mission == nil {
		return nil, EntityNotFoundError("mission", missionID)
	}
	if mission.Status == models.MissionCompleted {
		return nil, NewBusinessError("mission is already completed", "MISSION_ALREADY_COMPLETED")
	}

	if err := s.missionRepo.SetStatus(ctx, missionID, models.MissionCompleted); err != nil {
		return nil, fmt.Errorf("failed to complete mission: %w", err)
	}
	mission.Status = models.MissionCompleted

	event := events.NewMissionCompletedEvent(writerID, missionID)
	if err := s.eventBus.PublishAsync(ctx, event); err != nil {
		// The completion itself is committed; a lost event only delays
		// badge evaluation until the next activity.
		s.logger.Warn("Failed to publish mission completed event",
			zap.Int64("mission_id", missionID),
			zap.Error(err),
		)
	}

	s.logger.Info("Mission completed",
		zap.Int64("mission_id", missionID),
		zap.Int64("writer_id", writerID),
	)
	return mission, nil
}

// ListMine returns the writer's missions filtered by status.
func (s *MissionService) ListMine(ctx context.Context, writerID int64, status models.MissionStatus) ([]*models.Mission, error) {
	if status != models.MissionInProgress && status != models.MissionCompleted {
		return nil, NewValidationError(fmt.Sprintf("unknown mission status: %s", status), nil)
	}
	missions, err := s.missionRepo.ListByWriterAndStatus(ctx, writerID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list missions: %w", err)
	}
	return missions, nil
}

// ListPublic returns every non-private mission across all users.
func (s *MissionService) ListPublic(ctx context.Context) ([]*models.Mission, error) {
	missions, err := s.missionRepo.ListPublic(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list public missions: %w", err)
	}
	return missions, nil
}

// Get returns the writer's mission by id.
func (s *MissionService) Get(ctx context.Context, writerID, missionID int64) (*models.Mission, error) {
	mission, err := s.missionRepo.GetByIDAndWriter(ctx, missionID, writerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load mission: %w", err)
	}
	if mission == nil {
		return nil, EntityNotFoundError("mission", missionID)
	}
	return mission, nil
}

func (s *MissionService) requireUser(ctx context.Context, userID int64) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load user %d: %w", userID, err)
	}
	if user == nil {
		return EntityNotFoundError("user", userID)
	}
	return nil
}
