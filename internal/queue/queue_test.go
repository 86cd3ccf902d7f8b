package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/habitrpg/internal/domain"
)

func action(id string, state domain.LifecycleState, priority int) domain.ActionUnit {
	return domain.ActionUnit{ID: id, Title: id, Track: domain.TrackLife, State: state, Priority: priority}
}

func session(id string, state domain.LifecycleState, priority int) domain.LearningSession {
	return domain.LearningSession{ID: id, GoalID: "goal_1", Title: id, State: state, Priority: priority}
}

func ids(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.UnitID
	}
	return out
}

func TestLifeOnlyRanking(t *testing.T) {
	actions := []domain.ActionUnit{
		action("ready_high", domain.StateReady, 180),
		action("active_low", domain.StateActive, 10),
		action("done", domain.StateCompleted, 999),
		action("paused", domain.StatePaused, 50),
	}
	sessions := []domain.LearningSession{session("s1", domain.StateActive, 100)}

	got := NewService().Build(actions, sessions, FilterLifeOnly, DefaultMaxItems)

	require.Len(t, got, 3)
	assert.Equal(t, []string{"active_low", "ready_high", "paused"}, ids(got))
	for _, it := range got {
		assert.Equal(t, domain.TrackLife, it.Track)
		assert.Equal(t, SourceActionUnit, it.SourceKind)
	}
}

func TestLearningOnlyExcludesLife(t *testing.T) {
	actions := []domain.ActionUnit{action("a1", domain.StateActive, 100)}
	sessions := []domain.LearningSession{
		session("s1", domain.StateReady, 100),
		session("s2", domain.StateCompleted, 100),
		session("s3", domain.StateCheckpointCandidate, 100),
	}

	got := NewService().Build(actions, sessions, FilterLearningOnly, DefaultMaxItems)

	assert.Equal(t, []string{"s1", "s3"}, ids(got))
	for _, it := range got {
		assert.Equal(t, domain.TrackLearning, it.Track)
		assert.Equal(t, "goal_1", it.ParentID)
	}
}

func TestMixedAlternates(t *testing.T) {
	actions := []domain.ActionUnit{
		action("life_150", domain.StateReady, 150),
		action("life_120", domain.StateReady, 120),
		action("life_90", domain.StateReady, 90),
	}
	sessions := []domain.LearningSession{
		session("learn_ready_100", domain.StateReady, 100),
		session("learn_active", domain.StateActive, 110),
		session("learn_ready_80", domain.StateReady, 80),
	}

	got := NewService().Build(actions, sessions, FilterMixed, 6)

	require.Len(t, got, 6)
	assert.Equal(t, "learn_active", got[0].UnitID)
	for i := 1; i < len(got); i++ {
		assert.NotEqual(t, got[i-1].Track, got[i].Track, "items %d and %d share a track", i-1, i)
	}
	assert.Equal(t, []string{
		"learn_active", "life_150", "learn_ready_100", "life_120", "learn_ready_80", "life_90",
	}, ids(got))
}

func TestMixedFallsBackWhenTrackExhausted(t *testing.T) {
	actions := []domain.ActionUnit{
		action("a1", domain.StateReady, 300),
		action("a2", domain.StateReady, 200),
		action("a3", domain.StateReady, 100),
	}
	sessions := []domain.LearningSession{session("s1", domain.StateReady, 0)}

	got := NewService().Build(actions, sessions, FilterMixed, 10)
	assert.Equal(t, []string{"a1", "s1", "a2", "a3"}, ids(got))
}

func TestMixedTieStartsWithLife(t *testing.T) {
	actions := []domain.ActionUnit{action("z_life", domain.StateReady, 100)}
	sessions := []domain.LearningSession{session("a_learn", domain.StateReady, 100)}

	got := NewService().Build(actions, sessions, FilterMixed, 2)
	assert.Equal(t, []string{"z_life", "a_learn"}, ids(got))
}

func TestBuildBounds(t *testing.T) {
	svc := NewService()
	actions := []domain.ActionUnit{action("a1", domain.StateReady, 1), action("a2", domain.StateReady, 2)}
	sessions := []domain.LearningSession{session("s1", domain.StateReady, 1)}

	for _, f := range []Filter{FilterMixed, FilterLifeOnly, FilterLearningOnly} {
		assert.Empty(t, svc.Build(actions, sessions, f, 0), f)
	}
	assert.Len(t, svc.Build(actions, sessions, FilterMixed, 2), 2)
	assert.Len(t, svc.Build(actions, nil, FilterMixed, 1), 1)
	assert.Empty(t, svc.Build(nil, nil, FilterMixed, DefaultMaxItems))
}

func TestBuildDoesNotMutateInputs(t *testing.T) {
	actions := []domain.ActionUnit{action("b", domain.StateReady, 1), action("a", domain.StateActive, 1)}
	NewService().Build(actions, nil, FilterLifeOnly, DefaultMaxItems)
	assert.Equal(t, "b", actions[0].ID)
	assert.Equal(t, domain.StateReady, actions[0].State)
}

func TestHigherPriorityTieBreak(t *testing.T) {
	a := Item{UnitID: "b", Track: domain.TrackLife, State: domain.StateReady, Priority: 10}
	b := Item{UnitID: "a", Track: domain.TrackLearning, State: domain.StateReady, Priority: 10}
	assert.True(t, HigherPriority(a, b))
	assert.False(t, HigherPriority(b, a))

	c := Item{UnitID: "a", Track: domain.TrackLife, State: domain.StateReady, Priority: 10}
	assert.True(t, HigherPriority(c, a))
}

func TestStateWeights(t *testing.T) {
	order := []domain.LifecycleState{
		domain.StateActive, domain.StatePartial, domain.StateReady,
		domain.StateCheckpointCandidate, domain.StateMissed, domain.StatePaused, domain.StateCompleted,
	}
	for i := 1; i < len(order); i++ {
		assert.Greater(t, StateWeight(order[i-1]), StateWeight(order[i]))
	}
	assert.Equal(t, 810, RankScore(domain.StateActive, 110))
}

func TestParseFilter(t *testing.T) {
	f, err := ParseFilter("life_only")
	require.NoError(t, err)
	assert.Equal(t, FilterLifeOnly, f)
	_, err = ParseFilter("both")
	assert.Error(t, err)
}
