package repositories

import (
	"context"
	"errors"
	"time"

	"challengehub/internal/badges"
	"challengehub/internal/models"
)

// ErrAlreadyGranted is returned by BadgeRepository.Insert when the
// (user, badge) pair already exists. Callers treat it as success: the
// unique constraint is the concurrency backstop, not an error condition.
var ErrAlreadyGranted = errors.New("badge already granted")

// UserRepository provides access to user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

// MissionRepository provides access to missions, including the activity
// queries the badge engine reads: per-user mission count, distinct
// activity dates, and the global ranking snapshot.
type MissionRepository interface {
	Create(ctx context.Context, mission *models.Mission) error
	GetByIDAndWriter(ctx context.Context, id, writerID int64) (*models.Mission, error)
	ListByWriterAndStatus(ctx context.Context, writerID int64, status models.MissionStatus) ([]*models.Mission, error)
	ListPublic(ctx context.Context) ([]*models.Mission, error)
	SetStatus(ctx context.Context, id int64, status models.MissionStatus) error

	CountByWriter(ctx context.Context, writerID int64) (int64, error)
	DistinctMissionDates(ctx context.Context, writerID int64) ([]time.Time, error)
	AllUserMissionCounts(ctx context.Context) ([]badges.UserActivityCount, error)
}

// OpinionRepository provides access to mission reflections.
type OpinionRepository interface {
	Create(ctx context.Context, opinion *models.Opinion) error
	ListByMission(ctx context.Context, missionID int64) ([]*models.Opinion, error)
	ListRecentByWriter(ctx context.Context, writerID int64, limit int) ([]*models.Opinion, error)
}

// BadgeRepository persists badge grants.
type BadgeRepository interface {
	OwnedTypes(ctx context.Context, userID int64) (map[badges.BadgeID]struct{}, error)
	OwnedWithTimestamps(ctx context.Context, userID int64) (map[badges.BadgeID]time.Time, error)
	Insert(ctx context.Context, grant *models.BadgeGrant) error
}
