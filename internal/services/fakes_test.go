package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"challengehub/internal/badges"
	"challengehub/internal/events"
	"challengehub/internal/models"
	"challengehub/internal/repositories"
)

// In-memory repository fakes shared by the service tests.

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[int64]*models.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*models.User), nextID: 1}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = r.nextID
	r.nextID++
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[id], nil
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	u, _ := r.GetByUsername(ctx, username)
	return u != nil, nil
}

func (r *fakeUserRepo) add(id int64, username string) *models.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := &models.User{ID: id, Username: username, CreatedAt: time.Now()}
	r.users[id] = u
	if id >= r.nextID {
		r.nextID = id + 1
	}
	return u
}

type fakeMissionRepo struct {
	mu       sync.Mutex
	missions map[int64]*models.Mission
	nextID   int64
}

func newFakeMissionRepo() *fakeMissionRepo {
	return &fakeMissionRepo{missions: make(map[int64]*models.Mission), nextID: 1}
}

func (r *fakeMissionRepo) Create(ctx context.Context, mission *models.Mission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	mission.ID = r.nextID
	r.nextID++
	if mission.CreatedAt.IsZero() {
		mission.CreatedAt = time.Now()
	}
	mission.UpdatedAt = mission.CreatedAt
	r.missions[mission.ID] = mission
	return nil
}

func (r *fakeMissionRepo) GetByIDAndWriter(ctx context.Context, id, writerID int64) (*models.Mission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.missions[id]
	if !ok || m.WriterID != writerID {
		return nil, nil
	}
	return m, nil
}

func (r *fakeMissionRepo) ListByWriterAndStatus(ctx context.Context, writerID int64, status models.MissionStatus) ([]*models.Mission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*models.Mission
	for _, m := range r.missions {
		if m.WriterID == writerID && m.Status == status {
			result = append(result, m)
		}
	}
	return result, nil
}

func (r *fakeMissionRepo) ListPublic(ctx context.Context) ([]*models.Mission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*models.Mission
	for _, m := range r.missions {
		if !m.IsPrivate {
			result = append(result, m)
		}
	}
	return result, nil
}

func (r *fakeMissionRepo) SetStatus(ctx context.Context, id int64, status models.MissionStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.missions[id]
	if !ok {
		return fmt.Errorf("mission %d not found", id)
	}
	m.Status = status
	m.UpdatedAt = time.Now()
	return nil
}

func (r *fakeMissionRepo) CountByWriter(ctx context.Context, writerID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, m := range r.missions {
		if m.WriterID == writerID {
			n++
		}
	}
	return n, nil
}

func (r *fakeMissionRepo) DistinctMissionDates(ctx context.Context, writerID int64) ([]time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := make(map[time.Time]struct{})
	for _, m := range r.missions {
		if m.WriterID != writerID {
			continue
		}
		d := m.CreatedAt.UTC().Truncate(24 * time.Hour)
		seen[d] = struct{}{}
	}
	dates := make([]time.Time, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	return dates, nil
}

func (r *fakeMissionRepo) AllUserMissionCounts(ctx context.Context) ([]badges.UserActivityCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	byUser := make(map[int64]int64)
	for _, m := range r.missions {
		byUser[m.WriterID]++
	}
	counts := make([]badges.UserActivityCount, 0, len(byUser))
	for id, n := range byUser {
		counts = append(counts, badges.UserActivityCount{UserID: id, Count: n})
	}
	return counts, nil
}

// addMissions seeds count missions for writerID, one per day counting back
// from anchor.
func (r *fakeMissionRepo) addMissions(writerID int64, count int, anchor time.Time) {
	for i := 0; i < count; i++ {
		_ = r.Create(context.Background(), &models.Mission{
			WriterID:  writerID,
			Content:   "seeded",
			Level:     1,
			Status:    models.MissionCompleted,
			CreatedAt: anchor.AddDate(0, 0, -i),
		})
	}
}

type fakeOpinionRepo struct {
	mu       sync.Mutex
	opinions map[int64]*models.Opinion
	writers  map[int64]int64 // opinion id -> writer id
	nextID   int64
}

func newFakeOpinionRepo() *fakeOpinionRepo {
	return &fakeOpinionRepo{
		opinions: make(map[int64]*models.Opinion),
		writers:  make(map[int64]int64),
		nextID:   1,
	}
}

func (r *fakeOpinionRepo) Create(ctx context.Context, opinion *models.Opinion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	opinion.ID = r.nextID
	r.nextID++
	opinion.CreatedAt = time.Now()
	opinion.UpdatedAt = opinion.CreatedAt
	r.opinions[opinion.ID] = opinion
	return nil
}

func (r *fakeOpinionRepo) ListByMission(ctx context.Context, missionID int64) ([]*models.Opinion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*models.Opinion
	for _, o := range r.opinions {
		if o.MissionID == missionID {
			result = append(result, o)
		}
	}
	return result, nil
}

func (r *fakeOpinionRepo) ListRecentByWriter(ctx context.Context, writerID int64, limit int) ([]*models.Opinion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*models.Opinion
	for id := r.nextID - 1; id >= 1 && len(result) < limit; id-- {
		o, ok := r.opinions[id]
		if !ok {
			continue
		}
		if r.writers[id] == writerID {
			result = append(result, o)
		}
	}
	return result, nil
}

// seed inserts an opinion attributed to writerID, bypassing the service.
func (r *fakeOpinionRepo) seed(writerID int64, opinion *models.Opinion) {
	_ = r.Create(context.Background(), opinion)
	r.mu.Lock()
	r.writers[opinion.ID] = writerID
	r.mu.Unlock()
}

type fakeBadgeRepo struct {
	mu     sync.Mutex
	grants map[int64]map[badges.BadgeID]time.Time
}

func newFakeBadgeRepo() *fakeBadgeRepo {
	return &fakeBadgeRepo{grants: make(map[int64]map[badges.BadgeID]time.Time)}
}

func (r *fakeBadgeRepo) OwnedTypes(ctx context.Context, userID int64) (map[badges.BadgeID]struct{}, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	owned := make(map[badges.BadgeID]struct{})
	for id := range r.grants[userID] {
		owned[id] = struct{}{}
	}
	return owned, nil
}

func (r *fakeBadgeRepo) OwnedWithTimestamps(ctx context.Context, userID int64) (map[badges.BadgeID]time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	owned := make(map[badges.BadgeID]time.Time, len(r.grants[userID]))
	for id, at := range r.grants[userID] {
		owned[id] = at
	}
	return owned, nil
}

func (r *fakeBadgeRepo) Insert(ctx context.Context, grant *models.BadgeGrant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	byBadge := r.grants[grant.UserID]
	if byBadge == nil {
		byBadge = make(map[badges.BadgeID]time.Time)
		r.grants[grant.UserID] = byBadge
	}
	if _, exists := byBadge[grant.BadgeID]; exists {
		return repositories.ErrAlreadyGranted
	}
	byBadge[grant.BadgeID] = grant.GrantedAt
	return nil
}

// fakeEventBus records published events for assertion.
type fakeEventBus struct {
	mu        sync.Mutex
	published []events.Event
}

func (b *fakeEventBus) Publish(ctx context.Context, event events.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = append(b.published, event)
	return nil
}

func (b *fakeEventBus) PublishAsync(ctx context.Context, event events.Event) error {
	return b.Publish(ctx, event)
}

func (b *fakeEventBus) Subscribe(eventType string, handler events.EventHandler) {}
func (b *fakeEventBus) Start(ctx context.Context) error                         { return nil }
func (b *fakeEventBus) Stop(ctx context.Context) error                          { return nil }

func (b *fakeEventBus) types() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	types := make([]string, 0, len(b.published))
	for _, e := range b.published {
		types = append(types, e.GetEventType())
	}
	return types
}
