package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"challengehub/internal/badges"
	"challengehub/internal/models"
	"challengehub/internal/repositories"
)

// BadgeService evaluates badge conditions and persists grants. Evaluation
// is idempotent: re-running it for the same user state grants nothing new.
type BadgeService struct {
	badgeRepo   repositories.BadgeRepository
	missionRepo repositories.MissionRepository
	userRepo    repositories.UserRepository
	logger      *zap.Logger
}

// NewBadgeService creates a new badge service
func NewBadgeService(
	badgeRepo repositories.BadgeRepository,
	missionRepo repositories.MissionRepository,
	userRepo repositories.UserRepository,
	logger *zap.Logger,
) *BadgeService {
	return &BadgeService{
		badgeRepo:   badgeRepo,
		missionRepo: missionRepo,
		userRepo:    userRepo,
		logger:      logger,
	}
}

// EvaluateAndGrant recomputes the user's metrics, checks every catalog
// badge the user does not own yet, and grants the ones whose condition is
// met. Grants stamped by a concurrent evaluation are skipped silently.
func (s *BadgeService) EvaluateAndGrant(ctx context.Context, userID int64) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load user %d: %w", userID, err)
	}
	if user == nil {
		return EntityNotFoundError("user", userID)
	}

	metrics, err := s.computeMetrics(ctx, userID)
	if err != nil {
		return err
	}

	owned, err := s.badgeRepo.OwnedTypes(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load owned badges: %w", err)
	}

	grantedAt := startOfDay(time.Now())
	for _, def := range badges.Catalog() {
		if _, has := owned[def.ID]; has {
			continue
		}
		if !badges.Met(def.Condition, metrics) {
			continue
		}

		grant := &models.BadgeGrant{
			UserID:    userID,
			BadgeID:   def.ID,
			GrantedAt: grantedAt,
		}
		if err := s.badgeRepo.Insert(ctx, grant); err != nil {
			if errors.Is(err, repositories.ErrAlreadyGranted) {
				continue
			}
			return fmt.Errorf("failed to grant badge %s: %w", def.ID, err)
		}

		s.logger.Info("Badge granted",
			zap.Int64("user_id", userID),
			zap.String("badge", string(def.ID)),
		)
	}

	return nil
}

// ListOwned returns the user's earned badges in catalog order.
func (s *BadgeService) ListOwned(ctx context.Context, userID int64) ([]*models.OwnedBadge, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	granted, err := s.badgeRepo.OwnedWithTimestamps(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load owned badges: %w", err)
	}

	result := make([]*models.OwnedBadge, 0, len(granted))
	for _, def := range badges.Catalog() {
		at, has := granted[def.ID]
		if !has {
			continue
		}
		result = append(result, &models.OwnedBadge{
			Title:       def.Title,
			Description: def.Description,
			GrantedAt:   at,
		})
	}
	return result, nil
}

// ListProgress returns every catalog badge with the user's progress toward
// it. Progress is always derived from current metrics; ownership only sets
// achieved and grantedAt, so an owned streak badge whose streak lapsed
// reports the regressed value.
func (s *BadgeService) ListProgress(ctx context.Context, userID int64) ([]*models.BadgeProgress, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	metrics, err := s.computeMetrics(ctx, userID)
	if err != nil {
		return nil, err
	}
	granted, err := s.badgeRepo.OwnedWithTimestamps(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load owned badges: %w", err)
	}

	result := make([]*models.BadgeProgress, 0, len(badges.Catalog()))
	for _, def := range badges.Catalog() {
		entry := &models.BadgeProgress{
			Title:       def.Title,
			Description: def.Description,
			Progress:    badges.Progress(def.Condition, metrics),
		}
		if at, has := granted[def.ID]; has {
			grantedAt := at
			entry.Achieved = true
			entry.GrantedAt = &grantedAt
		}
		result = append(result, entry)
	}
	return result, nil
}

// computeMetrics gathers the three activity inputs and derives the
// user's metric snapshot. All three reads see independent snapshots; the
// grant path tolerates the skew because evaluation re-runs on the next
// activity event.
func (s *BadgeService) computeMetrics(ctx context.Context, userID int64) (badges.UserMetrics, error) {
	count, err := s.missionRepo.CountByWriter(ctx, userID)
	if err != nil {
		return badges.UserMetrics{}, fmt.Errorf("failed to count missions: %w", err)
	}
	dates, err := s.missionRepo.DistinctMissionDates(ctx, userID)
	if err != nil {
		return badges.UserMetrics{}, fmt.Errorf("failed to load mission dates: %w", err)
	}
	counts, err := s.missionRepo.AllUserMissionCounts(ctx)
	if err != nil {
		return badges.UserMetrics{}, fmt.Errorf("failed to load ranking counts: %w", err)
	}
	return badges.ComputeMetrics(userID, count, dates, counts), nil
}

func (s *BadgeService) requireUser(ctx context.Context, userID int64) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load user %d: %w", userID, err)
	}
	if user == nil {
		return EntityNotFoundError("user", userID)
	}
	return nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
