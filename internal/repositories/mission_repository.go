package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"challengehub/internal/badges"
	"challengehub/internal/database"
	"challengehub/internal/models"

	"go.uber.org/zap"
)

type missionRepository struct {
	*BaseRepository
}

// NewMissionRepository creates a new instance of MissionRepository
func NewMissionRepository(db *database.Manager, logger *zap.Logger) MissionRepository {
	return &missionRepository{BaseRepository: NewBaseRepository(db, logger)}
}

func (r *missionRepository) Create(ctx context.Context, mission *models.Mission) error {
	query := `
		INSERT INTO missions (writer_id, content, level, is_private, ai_generated, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	err := r.QueryRowContext(ctx, query,
		mission.WriterID, mission.Content, mission.Level,
		mission.IsPrivate, mission.AIGenerated, mission.Status,
	).Scan(&mission.ID, &mission.CreatedAt, &mission.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create mission: %w", err)
	}

	r.GetLogger().Info("Mission created",
		zap.Int64("mission_id", mission.ID),
		zap.Int64("writer_id", mission.WriterID),
	)
	return nil
}

func (r *missionRepository) GetByIDAndWriter(ctx context.Context, id, writerID int64) (*models.Mission, error) {
	query := `
		SELECT id, writer_id, content, level, is_private, ai_generated, status, created_at, updated_at
		FROM missions WHERE id = $1 AND writer_id = $2`

	var m models.Mission
	err := r.QueryRowContext(ctx, query, id, writerID).Scan(
		&m.ID, &m.WriterID, &m.Content, &m.Level, &m.IsPrivate,
		&m.AIGenerated, &m.Status, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if r.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get mission: %w", err)
	}
	return &m, nil
}

func (r *missionRepository) ListByWriterAndStatus(ctx context.Context, writerID int64, status models.MissionStatus) ([]*models.Mission, error) {
	query := `
		SELECT id, writer_id, content, level, is_private, ai_generated, status, created_at, updated_at
		FROM missions
		WHERE writer_id = $1 AND status = $2
		ORDER BY created_at DESC`

	rows, err := r.QueryContext(ctx, query, writerID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list missions: %w", err)
	}
	defer rows.Close()
	return scanMissions(rows)
}

func (r *missionRepository) ListPublic(ctx context.Context) ([]*models.Mission, error) {
	query := `
		SELECT id, writer_id, content, level, is_private, ai_generated, status, created_at, updated_at
		FROM missions
		WHERE is_private = false
		ORDER BY created_at DESC`

	rows, err := r.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list public missions: %w", err)
	}
	defer rows.Close()
	return scanMissions(rows)
}

func (r *missionRepository) SetStatus(ctx context.Context, id int64, status models.MissionStatus) error {
	result, err := r.ExecContext(ctx,
		`UPDATE missions SET status = $2, updated_at = CURRENT_TIMESTAMP WHERE id = $1`,
		id, status,
	)
	if err != nil {
		return fmt.Errorf("failed to update mission status: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("mission %d not found", id)
	}
	return nil
}

// CountByWriter is the activity count the badge engine reads.
func (r *missionRepository) CountByWriter(ctx context.Context, writerID int64) (int64, error) {
	var count int64
	err := r.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM missions WHERE writer_id = $1`, writerID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count missions: %w", err)
	}
	return count, nil
}

// DistinctMissionDates returns the distinct calendar dates the writer
// created missions on, used for streak computation.
func (r *missionRepository) DistinctMissionDates(ctx context.Context, writerID int64) ([]time.Time, error) {
	rows, err := r.QueryContext(ctx,
		`SELECT DISTINCT DATE(created_at) FROM missions WHERE writer_id = $1`, writerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query mission dates: %w", err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("failed to scan mission date: %w", err)
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

// AllUserMissionCounts returns the global ranking snapshot: one row per
// user who has written at least one mission.
func (r *missionRepository) AllUserMissionCounts(ctx context.Context) ([]badges.UserActivityCount, error) {
	rows, err := r.QueryContext(ctx,
		`SELECT writer_id, COUNT(*) FROM missions GROUP BY writer_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query user mission counts: %w", err)
	}
	defer rows.Close()

	var counts []badges.UserActivityCount
	for rows.Next() {
		var c badges.UserActivityCount
		if err := rows.Scan(&c.UserID, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan mission count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func scanMissions(rows *sql.Rows) ([]*models.Mission, error) {
	var missions []*models.Mission
	for rows.Next() {
		var m models.Mission
		if err := rows.Scan(
			&m.ID, &m.WriterID, &m.Content, &m.Level, &m.IsPrivate,
			&m.AIGenerated, &m.Status, &m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan mission: %w", err)
		}
		missions = append(missions, &m)
	}
	return missions, rows.Err()
}
