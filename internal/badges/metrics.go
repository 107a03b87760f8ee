package badges

import (
	"sort"
	"time"
)

// UserActivityCount is one row of the global ranking snapshot.
type UserActivityCount struct {
	UserID int64
	Count  int64
}

// UserMetrics holds everything the condition evaluator needs for one user.
// Recomputed on every evaluation; never cached across calls, so a
// concurrent mission write is at worst picked up by the next trigger.
type UserMetrics struct {
	UserID       int64
	MissionCount int64
	StreakDays   int
	Rank         int // 1-based position in the activity ranking, 0 if absent
	TotalUsers   int
	RankPercent  float64 // in (0,100]; 100 (worst) when unranked
}

// ComputeMetrics derives the metrics for userID from raw query results:
// the user's lifetime mission count, the distinct calendar dates of their
// missions, and the global per-user mission counts.
func ComputeMetrics(userID, missionCount int64, dates []time.Time, counts []UserActivityCount) UserMetrics {
	rank, total := RankAmong(userID, counts)
	return UserMetrics{
		UserID:       userID,
		MissionCount: missionCount,
		StreakDays:   StreakDays(dates),
		Rank:         rank,
		TotalUsers:   total,
		RankPercent:  rankPercent(rank, total),
	}
}

// StreakDays computes the current consecutive-day streak ending at the
// most recent activity date. The streak is anchored to that date, not to
// today: a dormant user keeps their last streak length. That matches the
// upstream behavior this service replaces; see the tests before changing it.
func StreakDays(dates []time.Time) int {
	if len(dates) == 0 {
		return 0
	}

	seen := make(map[time.Time]struct{}, len(dates))
	days := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		days = append(days, day)
	}

	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	streak := 1
	current := days[0]
	for _, day := range days[1:] {
		if !day.Equal(current.AddDate(0, 0, -1)) {
			break
		}
		streak++
		current = day
	}
	return streak
}

// RankAmong returns the 1-based rank of userID in counts ordered by count
// descending, and the total number of ranked users. Ties keep the snapshot
// order (stable sort), which is all the ranking contract promises. A user
// absent from the snapshot gets rank 0.
func RankAmong(userID int64, counts []UserActivityCount) (rank, total int) {
	total = len(counts)
	if total == 0 {
		return 0, 0
	}

	sorted := make([]UserActivityCount, total)
	copy(sorted, counts)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Count > sorted[j].Count })

	for i, c := range sorted {
		if c.UserID == userID {
			return i + 1, total
		}
	}
	return 0, total
}

// rankPercent converts a rank into a percentile in (0,100]. Unranked users
// (empty snapshot, or not present in it) are treated as worst rather than
// best: the percentile feeds progress display, and an unranked user has
// made no progress toward a top-percent badge.
func rankPercent(rank, total int) float64 {
	if rank <= 0 || total <= 0 {
		return 100
	}
	return float64(rank) / float64(total) * 100
}
