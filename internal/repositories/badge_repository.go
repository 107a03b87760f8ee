package repositories

import (
	"context"
	"fmt"
	"time"

	"challengehub/internal/badges"
	"challengehub/internal/database"
	"challengehub/internal/models"

	"go.uber.org/zap"
)

type badgeRepository struct {
	*BaseRepository
}

// NewBadgeRepository creates a new instance of BadgeRepository
func NewBadgeRepository(db *database.Manager, logger *zap.Logger) BadgeRepository {
	return &badgeRepository{BaseRepository: NewBaseRepository(db, logger)}
}

func (r *badgeRepository) OwnedTypes(ctx context.Context, userID int64) (map[badges.BadgeID]struct{}, error) {
	rows, err := r.QueryContext(ctx,
		`SELECT type FROM badges WHERE user_id = $1`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query owned badges: %w", err)
	}
	defer rows.Close()

	owned := make(map[badges.BadgeID]struct{})
	for rows.Next() {
		var id badges.BadgeID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan badge type: %w", err)
		}
		owned[id] = struct{}{}
	}
	return owned, rows.Err()
}

func (r *badgeRepository) OwnedWithTimestamps(ctx context.Context, userID int64) (map[badges.BadgeID]time.Time, error) {
	rows, err := r.QueryContext(ctx,
		`SELECT type, granted_at FROM badges WHERE user_id = $1`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query owned badges: %w", err)
	}
	defer rows.Close()

	owned := make(map[badges.BadgeID]time.Time)
	for rows.Next() {
		var id badges.BadgeID
		var grantedAt time.Time
		if err := rows.Scan(&id, &grantedAt); err != nil {
			return nil, fmt.Errorf("failed to scan badge grant: %w", err)
		}
		owned[id] = grantedAt
	}
	return owned, rows.Err()
}

// Insert persists a grant. A unique-constraint violation on
// (user_id, type) maps to ErrAlreadyGranted: when two evaluations race,
// the loser's insert is a no-op, not a failure.
func (r *badgeRepository) Insert(ctx context.Context, grant *models.BadgeGrant) error {
	query := `
		INSERT INTO badges (user_id, type, granted_at)
		VALUES ($1, $2, $3)
		RETURNING id`

	err := r.QueryRowContext(ctx, query, grant.UserID, grant.BadgeID, grant.GrantedAt).
		Scan(&grant.ID)
	if err != nil {
		if r.IsUniqueViolation(err) {
			return ErrAlreadyGranted
		}
		return fmt.Errorf("failed to insert badge grant: %w", err)
	}

	r.GetLogger().Info("Badge granted",
		zap.Int64("user_id", grant.UserID),
		zap.String("badge", string(grant.BadgeID)),
	)
	return nil
}
