package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"challengehub/internal/database"
	"challengehub/internal/models"

	"go.uber.org/zap"
)

type opinionRepository struct {
	*BaseRepository
}

// NewOpinionRepository creates a new instance of OpinionRepository
func NewOpinionRepository(db *database.Manager, logger *zap.Logger) OpinionRepository {
	return &opinionRepository{BaseRepository: NewBaseRepository(db, logger)}
}

func (r *opinionRepository) Create(ctx context.Context, opinion *models.Opinion) error {
	query := `
		INSERT INTO opinions (mission_id, difficulty, impression, reaction)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	err := r.QueryRowContext(ctx, query,
		opinion.MissionID, opinion.Difficulty, opinion.Impression, opinion.Reaction,
	).Scan(&opinion.ID, &opinion.CreatedAt, &opinion.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create opinion: %w", err)
	}

	r.GetLogger().Info("Opinion created",
		zap.Int64("opinion_id", opinion.ID),
		zap.Int64("mission_id", opinion.MissionID),
	)
	return nil
}

func (r *opinionRepository) ListByMission(ctx context.Context, missionID int64) ([]*models.Opinion, error) {
	query := `
		SELECT id, mission_id, difficulty, impression, reaction, created_at, updated_at
		FROM opinions
		WHERE mission_id = $1
		ORDER BY created_at ASC`

	rows, err := r.QueryContext(ctx, query, missionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list opinions: %w", err)
	}
	defer rows.Close()
	return scanOpinions(rows)
}

// ListRecentByWriter returns the writer's most recent opinions across all
// their missions, newest first. Feeds the AI suggestion prompt.
func (r *opinionRepository) ListRecentByWriter(ctx context.Context, writerID int64, limit int) ([]*models.Opinion, error) {
	query := `
		SELECT o.id, o.mission_id, o.difficulty, o.impression, o.reaction, o.created_at, o.updated_at
		FROM opinions o
		INNER JOIN missions m ON o.mission_id = m.id
		WHERE m.writer_id = $1
		ORDER BY o.created_at DESC
		LIMIT $2`

	rows, err := r.QueryContext(ctx, query, writerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent opinions: %w", err)
	}
	defer rows.Close()
	return scanOpinions(rows)
}

func scanOpinions(rows *sql.Rows) ([]*models.Opinion, error) {
	var opinions []*models.Opinion
	for rows.Next() {
		var o models.Opinion
		if err := rows.Scan(
			&o.ID, &o.MissionID, &o.Difficulty, &o.Impression, &o.Reaction,
			&o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan opinion: %w", err)
		}
		opinions = append(opinions, &o)
	}
	return opinions, rows.Err()
}
