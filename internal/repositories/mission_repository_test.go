package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"challengehub/internal/database"
	"challengehub/internal/models"
)

func newMockMissionRepo(t *testing.T) (MissionRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	manager := database.NewFromDB(db, zap.NewNop())
	return NewMissionRepository(manager, zap.NewNop()), mock
}

func missionColumns() []string {
	return []string{
		"id", "writer_id", "content", "level", "is_private",
		"ai_generated", "status", "created_at", "updated_at",
	}
}

func TestMissionRepositoryListByWriterAndStatus(t *testing.T) {
	repo, mock := newMockMissionRepo(t)

	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT .+ FROM missions`).
		WithArgs(int64(1), "IN_PROGRESS").
		WillReturnRows(sqlmock.NewRows(missionColumns()).
			AddRow(int64(2), int64(1), "cook a new recipe", 2, false, false, "IN_PROGRESS", now, now).
			AddRow(int64(1), int64(1), "run 5km", 3, true, false, "IN_PROGRESS", now, now))

	missions, err := repo.ListByWriterAndStatus(context.Background(), 1, models.MissionInProgress)
	require.NoError(t, err)
	require.Len(t, missions, 2)
	assert.Equal(t, "cook a new recipe", missions[0].Content)
	assert.Equal(t, int64(1), missions[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMissionRepositoryAllUserMissionCounts(t *testing.T) {
	repo, mock := newMockMissionRepo(t)

	mock.ExpectQuery(`SELECT writer_id, COUNT`).
		WillReturnRows(sqlmock.NewRows([]string{"writer_id", "count"}).
			AddRow(int64(1), int64(4)).
			AddRow(int64(2), int64(9)))

	counts, err := repo.AllUserMissionCounts(context.Background())
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, int64(9), counts[1].Count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
