package badges

// Met reports whether the user's metrics satisfy cond.
//
// TopPercent uses the rank-threshold form: the cutoff is
// max(1, floor(totalUsers * percent / 100)), so a 10-user population with
// percent=10 admits exactly the rank-1 user. The progress display below
// compares percentiles directly; both agree everywhere except that the
// threshold form never rounds a small population down to zero winners.
func Met(cond Condition, m UserMetrics) bool {
	switch cond.Kind {
	case MissionCount:
		return m.MissionCount >= int64(cond.Threshold)
	case Streak:
		return m.StreakDays >= cond.Days
	case TopPercent:
		if m.TotalUsers == 0 || m.Rank <= 0 {
			return false
		}
		threshold := int(float64(m.TotalUsers) * cond.Percent / 100)
		if threshold < 1 {
			threshold = 1
		}
		return m.Rank <= threshold
	}
	return false
}

// Progress returns how far the user is toward cond as an integer 0..100.
// Counted conditions scale linearly and truncate (1 of 3 days is 33, not
// 34); TopPercent is binary since rank movement is not partial credit.
func Progress(cond Condition, m UserMetrics) int {
	switch cond.Kind {
	case MissionCount:
		return scaled(m.MissionCount, int64(cond.Threshold))
	case Streak:
		return scaled(int64(m.StreakDays), int64(cond.Days))
	case TopPercent:
		if m.RankPercent <= cond.Percent {
			return 100
		}
		return 0
	}
	return 0
}

func scaled(value, threshold int64) int {
	if threshold <= 0 {
		return 0
	}
	p := int(float64(value) / float64(threshold) * 100)
	if p > 100 {
		return 100
	}
	return p
}
