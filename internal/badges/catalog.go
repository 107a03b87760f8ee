package badges

// BadgeID is the stable key of a catalog entry. Stored as-is in the
// badges table, so renaming a constant is a data migration.
type BadgeID string

const (
	FirstChallenger        BadgeID = "FIRST_CHALLENGER"
	ConsistentChallenger   BadgeID = "CONSISTENT_CHALLENGER"
	PassionateChallenger   BadgeID = "PASSIONATE_CHALLENGER"
	IntermediateChallenger BadgeID = "INTERMEDIATE_CHALLENGER"
	BoldChallenger         BadgeID = "BOLD_CHALLENGER"
	MasterChallenger       BadgeID = "MASTER_CHALLENGER"
	ChallengeLeader        BadgeID = "CHALLENGE_LEADER"
)

// ConditionKind discriminates the Condition union.
type ConditionKind int

const (
	// MissionCount is satisfied once the user's lifetime mission count
	// reaches Threshold.
	MissionCount ConditionKind = iota
	// Streak is satisfied once the user's current consecutive-day streak
	// reaches Days.
	Streak
	// TopPercent is satisfied while the user ranks within the top Percent
	// of all users by mission count.
	TopPercent
)

// Condition is a closed tagged union. Evaluation lives in evaluator.go as
// a single switch per operation so the whole rule table stays reviewable
// in one place.
type Condition struct {
	Kind      ConditionKind
	Threshold int     // MissionCount
	Days      int     // Streak
	Percent   float64 // TopPercent, in (0,100]
}

// Definition is one immutable catalog entry.
type Definition struct {
	ID          BadgeID
	Title       string
	Description string
	Condition   Condition
}

// catalog is fixed at process start. Order matters: listing endpoints
// report progress in this order.
var catalog = []Definition{
	{
		ID:          FirstChallenger,
		Title:       "첫 도전자",
		Description: "한 발짝 내딘은 당신",
		Condition:   Condition{Kind: MissionCount, Threshold: 1},
	},
	{
		ID:          ConsistentChallenger,
		Title:       "꾸준한 도전자",
		Description: "습관이 되어가는 중",
		Condition:   Condition{Kind: Streak, Days: 3},
	},
	{
		ID:          PassionateChallenger,
		Title:       "열정 도전자",
		Description: "열정이 쌓이고 있다",
		Condition:   Condition{Kind: MissionCount, Threshold: 10},
	},
	{
		ID:          IntermediateChallenger,
		Title:       "도전 중급자",
		Description: "중간 단계까지 왔어요",
		Condition:   Condition{Kind: Streak, Days: 5},
	},
	{
		ID:          BoldChallenger,
		Title:       "한계를 넘은 자",
		Description: "당신은 이제 용기의 상징",
		Condition:   Condition{Kind: Streak, Days: 7},
	},
	{
		ID:          MasterChallenger,
		Title:       "도전 마스터",
		Description: "무서움을 이긴 자",
		Condition:   Condition{Kind: MissionCount, Threshold: 25},
	},
	{
		ID:          ChallengeLeader,
		Title:       "챌린지 리더",
		Description: "당신은 모두의 롤모델",
		Condition:   Condition{Kind: TopPercent, Percent: 10},
	},
}

// Catalog returns the fixed, ordered badge catalog. Callers must not
// mutate the returned slice.
func Catalog() []Definition {
	return catalog
}

// Lookup returns the definition for id, or false if no such badge exists.
func Lookup(id BadgeID) (Definition, bool) {
	for _, d := range catalog {
		if d.ID == id {
			return d, true
		}
	}
	return Definition{}, false
}
