package badges

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogIsFixedAndOrdered(t *testing.T) {
	got := Catalog()
	require.Len(t, got, 7)

	wantOrder := []BadgeID{
		FirstChallenger,
		ConsistentChallenger,
		PassionateChallenger,
		IntermediateChallenger,
		BoldChallenger,
		MasterChallenger,
		ChallengeLeader,
	}
	for i, d := range got {
		assert.Equal(t, wantOrder[i], d.ID)
		assert.NotEmpty(t, d.Title)
		assert.NotEmpty(t, d.Description)
	}

	// Ordering must be stable across calls.
	again := Catalog()
	for i := range got {
		assert.Equal(t, got[i].ID, again[i].ID)
	}
}

func TestCatalogConditions(t *testing.T) {
	byID := map[BadgeID]Condition{}
	for _, d := range Catalog() {
		byID[d.ID] = d.Condition
	}

	assert.Equal(t, Condition{Kind: MissionCount, Threshold: 1}, byID[FirstChallenger])
	assert.Equal(t, Condition{Kind: Streak, Days: 3}, byID[ConsistentChallenger])
	assert.Equal(t, Condition{Kind: MissionCount, Threshold: 10}, byID[PassionateChallenger])
	assert.Equal(t, Condition{Kind: Streak, Days: 5}, byID[IntermediateChallenger])
	assert.Equal(t, Condition{Kind: Streak, Days: 7}, byID[BoldChallenger])
	assert.Equal(t, Condition{Kind: MissionCount, Threshold: 25}, byID[MasterChallenger])
	assert.Equal(t, Condition{Kind: TopPercent, Percent: 10}, byID[ChallengeLeader])
}

func TestLookup(t *testing.T) {
	d, ok := Lookup(MasterChallenger)
	require.True(t, ok)
	assert.Equal(t, "도전 마스터", d.Title)

	_, ok = Lookup(BadgeID("NO_SUCH_BADGE"))
	assert.False(t, ok)
}
