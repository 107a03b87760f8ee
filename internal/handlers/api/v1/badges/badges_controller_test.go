package badges

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	badgecatalog "challengehub/internal/badges"
	"challengehub/internal/contextutils"
	"challengehub/internal/models"
	"challengehub/internal/response"
	"challengehub/internal/services"
)

// Minimal repository stubs: one user who owns the first badge and has a
// single mission today.
type stubUserRepo struct{}

func (stubUserRepo) Create(ctx context.Context, user *models.User) error { return nil }
func (stubUserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if id == 1 {
		return &models.User{ID: 1, Username: "alice"}, nil
	}
	return nil, nil
}
func (stubUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return nil, nil
}
func (stubUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return false, nil
}

type stubMissionRepo struct{}

func (stubMissionRepo) Create(ctx context.Context, mission *models.Mission) error { return nil }
func (stubMissionRepo) GetByIDAndWriter(ctx context.Context, id, writerID int64) (*models.Mission, error) {
	return nil, nil
}
func (stubMissionRepo) ListByWriterAndStatus(ctx context.Context, writerID int64, status models.MissionStatus) ([]*models.Mission, error) {
	return nil, nil
}
func (stubMissionRepo) ListPublic(ctx context.Context) ([]*models.Mission, error) { return nil, nil }
func (stubMissionRepo) SetStatus(ctx context.Context, id int64, status models.MissionStatus) error {
	return nil
}
func (stubMissionRepo) CountByWriter(ctx context.Context, writerID int64) (int64, error) {
	return 1, nil
}
func (stubMissionRepo) DistinctMissionDates(ctx context.Context, writerID int64) ([]time.Time, error) {
	return []time.Time{time.Now().UTC().Truncate(24 * time.Hour)}, nil
}
func (stubMissionRepo) AllUserMissionCounts(ctx context.Context) ([]badgecatalog.UserActivityCount, error) {
	return []badgecatalog.UserActivityCount{{UserID: 1, Count: 1}, {UserID: 2, Count: 9}}, nil
}

type stubBadgeRepo struct{}

func (stubBadgeRepo) OwnedTypes(ctx context.Context, userID int64) (map[badgecatalog.BadgeID]struct{}, error) {
	return map[badgecatalog.BadgeID]struct{}{badgecatalog.FirstChallenger: {}}, nil
}
func (stubBadgeRepo) OwnedWithTimestamps(ctx context.Context, userID int64) (map[badgecatalog.BadgeID]time.Time, error) {
	return map[badgecatalog.BadgeID]time.Time{
		badgecatalog.FirstChallenger: time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
	}, nil
}
func (stubBadgeRepo) Insert(ctx context.Context, grant *models.BadgeGrant) error { return nil }

func newTestController() *Controller {
	svc := services.NewBadgeService(stubBadgeRepo{}, stubMissionRepo{}, stubUserRepo{}, zap.NewNop())
	return NewController(svc, zap.NewNop())
}

func authedRequest(method, target string, userID int64) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	return req.WithContext(contextutils.WithUserID(req.Context(), userID))
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) *response.APIResponse {
	t.Helper()
	var envelope response.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return &envelope
}

func TestListOwned(t *testing.T) {
	controller := newTestController()

	rec := httptest.NewRecorder()
	controller.ListOwned(rec, authedRequest(http.MethodGet, "/api/v1/badges", 1))

	assert.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.True(t, envelope.Success)

	owned, ok := envelope.Data.([]interface{})
	require.True(t, ok)
	require.Len(t, owned, 1)
	first := owned[0].(map[string]interface{})
	assert.Equal(t, "첫 도전자", first["title"])
}

func TestListOwnedUnknownUser(t *testing.T) {
	controller := newTestController()

	rec := httptest.NewRecorder()
	controller.ListOwned(rec, authedRequest(http.MethodGet, "/api/v1/badges", 99))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.False(t, envelope.Success)
	assert.Equal(t, "NOT_FOUND", envelope.Error.Type)
}

func TestListProgress(t *testing.T) {
	controller := newTestController()

	rec := httptest.NewRecorder()
	controller.ListProgress(rec, authedRequest(http.MethodGet, "/api/v1/badges/progress", 1))

	assert.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec)

	progress, ok := envelope.Data.([]interface{})
	require.True(t, ok)
	require.Len(t, progress, 7)

	first := progress[0].(map[string]interface{})
	assert.Equal(t, true, first["achieved"])
	assert.EqualValues(t, 100, first["progress"])
}
