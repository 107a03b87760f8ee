package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"challengehub/internal/database"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

const slowQueryThreshold = 100 * time.Millisecond

// BaseRepository provides common database operations with query logging.
type BaseRepository struct {
	db     *database.Manager
	logger *zap.Logger
}

// NewBaseRepository creates a new base repository
func NewBaseRepository(db *database.Manager, logger *zap.Logger) *BaseRepository {
	return &BaseRepository{db: db, logger: logger}
}

// ExecContext executes a statement, logging failures and slow queries.
func (r *BaseRepository) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	result, err := r.db.ExecContext(ctx, query, args...)

	if d := time.Since(start); d > slowQueryThreshold {
		r.logger.Warn("Slow query detected", zap.String("query", truncateQuery(query)), zap.Duration("duration", d))
	}
	if err != nil {
		r.logger.Error("Query execution failed", zap.String("query", truncateQuery(query)), zap.Error(err))
	}
	return result, err
}

// QueryContext executes a query that returns rows.
func (r *BaseRepository) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := r.db.QueryContext(ctx, query, args...)

	if d := time.Since(start); d > slowQueryThreshold {
		r.logger.Warn("Slow query detected", zap.String("query", truncateQuery(query)), zap.Duration("duration", d))
	}
	if err != nil {
		r.logger.Error("Query execution failed", zap.String("query", truncateQuery(query)), zap.Error(err))
	}
	return rows, err
}

// QueryRowContext executes a query that returns a single row.
func (r *BaseRepository) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return r.db.QueryRowContext(ctx, query, args...)
}

// GetLogger returns the repository logger.
func (r *BaseRepository) GetLogger() *zap.Logger {
	return r.logger
}

// IsNotFound reports whether err means no rows were returned.
func (r *BaseRepository) IsNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// IsUniqueViolation reports whether err is a Postgres unique-constraint
// violation (class 23505).
func (r *BaseRepository) IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func truncateQuery(query string) string {
	const max = 200
	if len(query) <= max {
		return query
	}
	return query[:max] + "..."
}
