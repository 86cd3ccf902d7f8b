package flow

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/habitrpg/internal/domain"
	"github.com/abhisek/habitrpg/internal/rewards"
)

var testNow = time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC)

func newTestService() *Service {
	n := 0
	ids := func(prefix string) string {
		n++
		return fmt.Sprintf("%s_%d", prefix, n)
	}
	clock := func() time.Time { return testNow }
	engine := rewards.NewEngine(rewards.DefaultConfig(), rewards.WithClock(clock), rewards.WithIDFunc(ids))
	return NewService(engine, WithClock(clock), WithIDFunc(ids))
}

func activeCount(actions []domain.ActionUnit, sessions []domain.LearningSession) int {
	n := 0
	for _, a := range actions {
		if a.State == domain.StateActive {
			n++
		}
	}
	for _, s := range sessions {
		if s.State == domain.StateActive {
			n++
		}
	}
	return n
}

func TestCreateLifeAction(t *testing.T) {
	svc := newTestService()

	a := svc.CreateLifeAction("habit_1", "Stretch", -4, time.Time{})
	assert.Equal(t, "action_1", a.ID)
	assert.Equal(t, "habit_1", a.ParentID)
	assert.Equal(t, domain.TrackLife, a.Track)
	assert.Equal(t, domain.StatusTodo, a.Status)
	assert.Equal(t, domain.StateReady, a.State)
	assert.Equal(t, 0, a.Priority)
	assert.True(t, a.StartedAt.IsZero())
	assert.True(t, a.CompletedAt.IsZero())
}

func TestCreateLearningGoalAndSession(t *testing.T) {
	svc := newTestService()

	g := svc.CreateLearningGoal("Go", "Ship a CLI", time.Time{})
	assert.Equal(t, testNow, g.CreatedAt)
	assert.Equal(t, 0, g.Confidence)

	at := testNow.Add(-time.Hour)
	s := svc.CreateLearningSession(SessionInput{
		GoalID: g.ID, Title: "Read", DurationMinutes: -10, Priority: 110, ArtifactKind: "note", ArtifactRef: "n1",
	}, at)
	assert.Equal(t, g.ID, s.GoalID)
	assert.Equal(t, domain.StateReady, s.State)
	assert.Equal(t, 0, s.DurationMinutes)
	assert.Equal(t, 110, s.Priority)
	assert.Equal(t, at, s.StartedAt)
}

func TestSingleActiveAcrossTracks(t *testing.T) {
	svc := newTestService()
	actions := []domain.ActionUnit{
		svc.CreateLifeAction("", "A", 100, time.Time{}),
		svc.CreateLifeAction("", "B", 100, time.Time{}),
	}
	sessions := []domain.LearningSession{
		svc.CreateLearningSession(SessionInput{GoalID: "goal_x", Title: "S"}, time.Time{}),
	}
	a, b, s := actions[0].ID, actions[1].ID, sessions[0].ID

	require.True(t, svc.StartActionUnit(a, actions, sessions))
	assert.Equal(t, domain.StateActive, actions[0].State)
	assert.Equal(t, domain.StatusInProgress, actions[0].Status)
	assert.Equal(t, testNow, actions[0].StartedAt)
	assert.Equal(t, 1, activeCount(actions, sessions))

	require.True(t, svc.StartLearningSession(s, actions, sessions))
	assert.Equal(t, domain.StatePaused, actions[0].State)
	assert.Equal(t, domain.StatusTodo, actions[0].Status)
	assert.Equal(t, domain.StateActive, sessions[0].State)
	assert.Equal(t, 1, activeCount(actions, sessions))

	require.True(t, svc.StartActionUnit(b, actions, sessions))
	assert.Equal(t, domain.StatePaused, sessions[0].State)
	assert.Equal(t, domain.StateActive, actions[1].State)
	assert.Equal(t, 1, activeCount(actions, sessions))

	// Restarting the active unit keeps it active.
	require.True(t, svc.StartActionUnit(b, actions, sessions))
	assert.Equal(t, domain.StateActive, actions[1].State)
	assert.Equal(t, 1, activeCount(actions, sessions))
}

func TestStartBackfillsOnlyEmptyStart(t *testing.T) {
	svc := newTestService()
	earlier := testNow.Add(-24 * time.Hour)
	actions := []domain.ActionUnit{svc.CreateLifeAction("", "A", 1, earlier)}

	require.True(t, svc.StartActionUnit(actions[0].ID, actions, nil))
	assert.Equal(t, earlier, actions[0].StartedAt)
}

func TestUnknownIDsReturnFalse(t *testing.T) {
	svc := newTestService()
	state := domain.NewUserState()
	var ledger []domain.RewardEvent

	assert.False(t, svc.StartActionUnit("missing", nil, nil))
	assert.False(t, svc.StartLearningSession("missing", nil, nil))
	assert.False(t, svc.CheckpointLearningSession("missing", "note", nil))
	assert.False(t, svc.CompleteActionUnit("missing", nil, &state, &ledger))
	assert.False(t, svc.CompleteLearningSession("missing", nil, &state, &ledger))
	assert.False(t, svc.PromoteMilestoneCheckpointToConfirmed("missing", nil, &state, &ledger))
	assert.False(t, svc.RejectMilestoneCheckpoint("missing", "", nil))
	assert.Empty(t, ledger)
	assert.Equal(t, domain.NewUserState(), state)
}

func TestNilOutputsPanic(t *testing.T) {
	svc := newTestService()
	var ledger []domain.RewardEvent
	state := domain.NewUserState()
	assert.Panics(t, func() { svc.CompleteActionUnit("x", nil, nil, &ledger) })
	assert.Panics(t, func() { svc.CompleteLearningSession("x", nil, &state, nil) })
	assert.Panics(t, func() { svc.PromoteMilestoneCheckpointToConfirmed("x", nil, nil, nil) })
}

func TestCheckpointLearningSession(t *testing.T) {
	svc := newTestService()
	sessions := []domain.LearningSession{svc.CreateLearningSession(SessionInput{Title: "S"}, time.Time{})}

	require.True(t, svc.CheckpointLearningSession(sessions[0].ID, "wrote notes", sessions))
	assert.Equal(t, domain.StateCheckpointCandidate, sessions[0].State)
	assert.Equal(t, "wrote notes", sessions[0].CheckpointNote)
	assert.Equal(t, testNow, sessions[0].StartedAt)
}

func TestCompleteActionUnit(t *testing.T) {
	svc := newTestService()
	actions := []domain.ActionUnit{svc.CreateLifeAction("", "A", 1, time.Time{})}
	state := domain.NewUserState()
	var ledger []domain.RewardEvent

	require.True(t, svc.CompleteActionUnit(actions[0].ID, actions, &state, &ledger))
	assert.Equal(t, domain.StateCompleted, actions[0].State)
	assert.Equal(t, domain.StatusCompleted, actions[0].Status)
	assert.Equal(t, testNow, actions[0].StartedAt)
	assert.Equal(t, testNow, actions[0].CompletedAt)

	require.Len(t, ledger, 1)
	assert.Equal(t, actions[0].ID, ledger[0].SourceID)
	assert.Equal(t, domain.TrackLife, ledger[0].Track)
	assert.Equal(t, 12, state.TotalXP)
	assert.Equal(t, 12, state.LifeXP)
	assert.Equal(t, 0, state.LearningXP)
}

func TestCompleteLearningSession(t *testing.T) {
	svc := newTestService()
	sessions := []domain.LearningSession{
		svc.CreateLearningSession(SessionInput{Title: "S", DurationMinutes: 45}, time.Time{}),
	}
	state := domain.NewUserState()
	var ledger []domain.RewardEvent

	require.True(t, svc.CompleteLearningSession(sessions[0].ID, sessions, &state, &ledger))
	assert.Equal(t, domain.StateCompleted, sessions[0].State)
	require.Len(t, ledger, 1)
	assert.Equal(t, 16+4*2, ledger[0].XPDelta)
	assert.Equal(t, 24, state.LearningXP)
	assert.Equal(t, 0, state.LifeXP)
}

func TestCreateMilestoneCheckpointCandidate(t *testing.T) {
	svc := newTestService()
	session := domain.LearningSession{ID: "session_9", GoalID: "goal_3"}

	cp := svc.CreateMilestoneCheckpointCandidate(session, CandidateInput{
		MilestoneKey: "m1", EvidenceKind: domain.EvidenceSnippet, EvidenceRef: "gist", Confidence: 11, Reason: "done",
	}, time.Time{})

	assert.Equal(t, "goal_3", cp.GoalID)
	assert.Equal(t, "session_9", cp.SessionID)
	assert.Equal(t, domain.CheckpointCandidate, cp.State)
	assert.Equal(t, 5, cp.Confidence)
	assert.Empty(t, cp.RewardEventID)
	assert.Equal(t, testNow, cp.SubmittedAt)
	assert.Equal(t, testNow, cp.CreatedAt)
	assert.Equal(t, testNow, cp.UpdatedAt)
	assert.True(t, cp.ConfirmedAt.IsZero())

	low := svc.CreateMilestoneCheckpointCandidate(session, CandidateInput{Confidence: -2}, time.Time{})
	assert.Equal(t, 1, low.Confidence)
	assert.Equal(t, domain.EvidenceNote, low.EvidenceKind)
}

func TestPromoteIsIdempotent(t *testing.T) {
	svc := newTestService()
	session := domain.LearningSession{ID: "session_1", GoalID: "goal_1"}
	checkpoints := []domain.MilestoneCheckpoint{
		svc.CreateMilestoneCheckpointCandidate(session, CandidateInput{Confidence: 3}, time.Time{}),
	}
	state := domain.NewUserState()
	var ledger []domain.RewardEvent

	require.True(t, svc.PromoteMilestoneCheckpointToConfirmed(checkpoints[0].ID, checkpoints, &state, &ledger))
	assert.False(t, svc.PromoteMilestoneCheckpointToConfirmed(checkpoints[0].ID, checkpoints, &state, &ledger))

	require.Len(t, ledger, 1)
	assert.Equal(t, 24, state.TotalXP)
	assert.Equal(t, domain.CheckpointConfirmed, checkpoints[0].State)
	assert.Equal(t, "reward_milestone_"+checkpoints[0].ID, checkpoints[0].RewardEventID)
	assert.Equal(t, checkpoints[0].RewardEventID, ledger[0].ID)
	assert.Equal(t, testNow, checkpoints[0].ConfirmedAt)
	assert.Equal(t, testNow, checkpoints[0].ReviewedAt)
}

func TestPromoteWithExistingLedgerEntry(t *testing.T) {
	svc := newTestService()
	checkpoints := []domain.MilestoneCheckpoint{{
		ID:            "checkpoint_pre",
		State:         domain.CheckpointCandidate,
		RewardEventID: "reward_pre",
		Confidence:    2,
	}}
	state := domain.NewUserState()
	ledger := []domain.RewardEvent{{ID: "reward_pre", Track: domain.TrackLearning, XPDelta: 24}}

	require.True(t, svc.PromoteMilestoneCheckpointToConfirmed("checkpoint_pre", checkpoints, &state, &ledger))
	assert.Len(t, ledger, 1)
	assert.Equal(t, 0, state.TotalXP)
	assert.Equal(t, domain.CheckpointConfirmed, checkpoints[0].State)
	assert.Equal(t, "reward_pre", checkpoints[0].RewardEventID)
}

func TestRejectMilestoneCheckpoint(t *testing.T) {
	svc := newTestService()
	session := domain.LearningSession{ID: "session_1", GoalID: "goal_1"}
	checkpoints := []domain.MilestoneCheckpoint{
		svc.CreateMilestoneCheckpointCandidate(session, CandidateInput{Reason: "first try"}, time.Time{}),
		svc.CreateMilestoneCheckpointCandidate(session, CandidateInput{}, time.Time{}),
	}
	state := domain.NewUserState()
	var ledger []domain.RewardEvent

	require.True(t, svc.RejectMilestoneCheckpoint(checkpoints[0].ID, "", checkpoints))
	assert.Equal(t, domain.CheckpointRejected, checkpoints[0].State)
	assert.Equal(t, "first try", checkpoints[0].CandidateReason)
	assert.Equal(t, testNow, checkpoints[0].RejectedAt)

	require.True(t, svc.PromoteMilestoneCheckpointToConfirmed(checkpoints[1].ID, checkpoints, &state, &ledger))
	assert.False(t, svc.RejectMilestoneCheckpoint(checkpoints[1].ID, "too late", checkpoints))
	assert.Equal(t, domain.CheckpointConfirmed, checkpoints[1].State)
}
