package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/habitrpg/internal/config"
	"github.com/abhisek/habitrpg/internal/domain"
	"github.com/abhisek/habitrpg/internal/flow"
	"github.com/abhisek/habitrpg/internal/prefs"
	"github.com/abhisek/habitrpg/internal/queue"
	"github.com/abhisek/habitrpg/internal/rewards"
	"github.com/abhisek/habitrpg/internal/store"
)

var testNow = time.Date(2026, 3, 9, 7, 30, 0, 0, time.UTC)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "habitrpg.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

// newTestRuntime returns a loaded runtime with a fixed clock. seq is
// shared so reloaded runtimes keep minting distinct ids.
func newTestRuntime(t *testing.T, repo Repository, seq *int) *Runtime {
	t.Helper()
	ids := func(prefix string) string {
		*seq++
		return fmt.Sprintf("%s_%03d", prefix, *seq)
	}
	rt := New(repo, config.DefaultConfig(),
		WithClock(func() time.Time { return testNow }),
		WithIDFunc(ids),
	)
	require.NoError(t, rt.Load(context.Background()))
	return rt
}

func TestLoadSeedsDefaults(t *testing.T) {
	var seq int
	rt := newTestRuntime(t, openTestStore(t), &seq)

	require.Len(t, rt.Goals, 1)
	assert.Equal(t, "C++ Momentum", rt.Goals[0].Title)
	assert.Equal(t, "Complete one short C++ coding exercise with notes", rt.Goals[0].Milestone)

	require.Len(t, rt.Actions, 1)
	assert.Equal(t, "habit.seed", rt.Actions[0].ParentID)
	assert.Equal(t, 120, rt.Actions[0].Priority)
	assert.Equal(t, domain.StateReady, rt.Actions[0].State)

	require.Len(t, rt.Sessions, 1)
	s := rt.Sessions[0]
	assert.Equal(t, rt.Goals[0].ID, s.GoalID)
	assert.Equal(t, 25, s.DurationMinutes)
	assert.Equal(t, 110, s.Priority)
	assert.Equal(t, "seed-session", s.ArtifactRef)

	require.Len(t, rt.Queue, 2)
	assert.Equal(t, rt.Actions[0].ID, rt.Queue[0].UnitID, "620 outranks 610")
	assert.Equal(t, s.ID, rt.Queue[1].UnitID)

	assert.Empty(t, rt.ActiveUnitID)
	assert.EqualValues(t, 3, rt.MutationRevision)
	assert.False(t, rt.Dirty())
	assert.Equal(t, 1, rt.State.Level)
}

func TestPersistAndReload(t *testing.T) {
	st := openTestStore(t)
	var seq int
	rt := newTestRuntime(t, st, &seq)
	ctx := context.Background()

	actionID := rt.Actions[0].ID
	require.NoError(t, rt.Start(actionID))
	ev, err := rt.Complete(actionID)
	require.NoError(t, err)
	assert.Equal(t, 12, ev.XPDelta)
	assert.Equal(t, 12, rt.LastReward.XP)
	assert.Equal(t, rewards.KindActionCompletion, rt.LastReward.Kind)
	assert.Empty(t, rt.ActiveUnitID)
	require.True(t, rt.Dirty())

	require.NoError(t, rt.Persist(ctx))
	assert.False(t, rt.Dirty())

	again := newTestRuntime(t, st, &seq)
	if diff := cmp.Diff(rt.Actions, again.Actions); diff != "" {
		t.Errorf("actions mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(rt.Goals, again.Goals); diff != "" {
		t.Errorf("goals mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(rt.Sessions, again.Sessions); diff != "" {
		t.Errorf("sessions mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(rt.Ledger, again.Ledger); diff != "" {
		t.Errorf("ledger mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, rt.State, again.State)
	assert.EqualValues(t, 0, again.MutationRevision, "no reseed")
}

func TestLedgerLoadsInCreationOrder(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	var seq int
	clock := testNow
	rt := New(st, config.DefaultConfig(),
		WithClock(func() time.Time { return clock }),
		WithIDFunc(func(prefix string) string {
			seq++
			return fmt.Sprintf("%s_%03d", prefix, seq)
		}),
	)
	require.NoError(t, rt.Load(ctx))

	_, err := rt.Complete(rt.Sessions[0].ID)
	require.NoError(t, err)
	clock = clock.Add(time.Minute)
	_, err = rt.Complete(rt.Actions[0].ID)
	require.NoError(t, err)
	require.NoError(t, rt.Persist(ctx))

	again := newTestRuntime(t, st, &seq)
	require.Len(t, again.Ledger, 2)
	assert.Equal(t, domain.TrackLearning, again.Ledger[0].Track)
	assert.Equal(t, domain.TrackLife, again.Ledger[1].Track)
}

func TestClockTruncatedToStoredPrecision(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	var seq int
	local := time.FixedZone("IST", 5*3600+1800)
	rt := New(st, config.DefaultConfig(),
		WithClock(func() time.Time { return testNow.Add(750 * time.Millisecond).In(local) }),
		WithIDFunc(func(prefix string) string {
			seq++
			return fmt.Sprintf("%s_%03d", prefix, seq)
		}),
	)
	require.NoError(t, rt.Load(ctx))

	a := rt.AddLifeAction("Water plants", 90)
	assert.Equal(t, testNow, a.StartedAt)
	_, err := rt.Complete(a.ID)
	require.NoError(t, err)
	require.NoError(t, rt.Persist(ctx))

	again := newTestRuntime(t, st, &seq)
	if diff := cmp.Diff(rt.Actions, again.Actions); diff != "" {
		t.Errorf("actions mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(rt.Ledger, again.Ledger); diff != "" {
		t.Errorf("ledger mismatch (-want +got):\n%s", diff)
	}
}

func TestActiveUnitDetectedOnLoad(t *testing.T) {
	st := openTestStore(t)
	var seq int
	rt := newTestRuntime(t, st, &seq)
	ctx := context.Background()

	sessionID := rt.Sessions[0].ID
	require.NoError(t, rt.Start(rt.Actions[0].ID))
	require.NoError(t, rt.Start(sessionID))
	assert.Equal(t, domain.StatePaused, rt.Actions[0].State)
	assert.Equal(t, sessionID, rt.ActiveUnitID)
	require.NoError(t, rt.Persist(ctx))

	again := newTestRuntime(t, st, &seq)
	assert.Equal(t, sessionID, again.ActiveUnitID)
	assert.Equal(t, domain.TrackLearning, again.ActiveTrack)
	assert.Equal(t, domain.StateActive, again.Queue[0].State)
}

func TestMarkClearsActive(t *testing.T) {
	var seq int
	rt := newTestRuntime(t, openTestStore(t), &seq)

	id := rt.Actions[0].ID
	require.NoError(t, rt.Start(id))
	require.NoError(t, rt.Mark(id, domain.StatePartial))
	assert.Empty(t, rt.ActiveUnitID)
	assert.Equal(t, domain.StatusTodo, rt.Actions[0].Status)
	assert.Equal(t, 600+120, rt.Queue[0].Score())

	assert.Error(t, rt.Mark(id, domain.StateCompleted))
}

func TestCheckpointConfirmReject(t *testing.T) {
	var seq int
	rt := newTestRuntime(t, openTestStore(t), &seq)
	sessionID := rt.Sessions[0].ID

	c, err := rt.Checkpoint(sessionID, "", flow.CandidateInput{})
	require.NoError(t, err)
	assert.Equal(t, domain.StateCheckpointCandidate, rt.Sessions[0].State)
	assert.Equal(t, "Checkpoint candidate logged", rt.Sessions[0].CheckpointNote)
	assert.Equal(t, "default", c.MilestoneKey)
	assert.Equal(t, domain.EvidenceSnippet, c.EvidenceKind)
	assert.Equal(t, "seed-session", c.EvidenceRef)
	assert.Equal(t, 2, c.Confidence)
	assert.Equal(t, "manual_candidate", c.CandidateReason)

	again, err := rt.Checkpoint(sessionID, "", flow.CandidateInput{Reason: "second look"})
	require.NoError(t, err)
	assert.Equal(t, c.ID, again.ID)
	require.Len(t, rt.Checkpoints, 1)
	assert.Equal(t, "second look", rt.Checkpoints[0].CandidateReason)

	ev, err := rt.ConfirmCheckpoint(c.ID)
	require.NoError(t, err)
	require.NotNil(t, ev)
	assert.Equal(t, 24, ev.XPDelta)
	assert.Equal(t, rewards.MilestoneRewardID(c.ID), ev.ID)
	assert.Equal(t, 24, rt.State.TotalXP)

	_, err = rt.ConfirmCheckpoint(c.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, rt.RejectCheckpoint(c.ID, "late"), ErrNotFound)
	assert.Len(t, rt.Ledger, 1)
}

func TestRejectCheckpoint(t *testing.T) {
	var seq int
	rt := newTestRuntime(t, openTestStore(t), &seq)

	c, err := rt.Checkpoint(rt.Sessions[0].ID, "notes", flow.CandidateInput{Confidence: 4})
	require.NoError(t, err)
	require.NoError(t, rt.RejectCheckpoint(c.ID, "too thin"))
	assert.Equal(t, domain.CheckpointRejected, rt.Checkpoints[0].State)
	assert.Equal(t, "too thin", rt.Checkpoints[0].CandidateReason)

	// A rejected checkpoint is no longer open, so a new one is opened.
	next, err := rt.Checkpoint(rt.Sessions[0].ID, "", flow.CandidateInput{})
	require.NoError(t, err)
	assert.NotEqual(t, c.ID, next.ID)
	assert.Len(t, rt.Checkpoints, 2)
}

func TestUnknownIDsAreNotFound(t *testing.T) {
	var seq int
	rt := newTestRuntime(t, openTestStore(t), &seq)
	rev := rt.MutationRevision

	assert.ErrorIs(t, rt.Start("nope"), ErrNotFound)
	assert.ErrorIs(t, rt.Mark("nope", domain.StatePaused), ErrNotFound)
	_, err := rt.Complete("nope")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = rt.Checkpoint("nope", "", flow.CandidateInput{})
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = rt.ConfirmCheckpoint("nope")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, rt.RejectCheckpoint("nope", ""), ErrNotFound)

	assert.Equal(t, rev, rt.MutationRevision)
}

func TestCompletedUnitsAreTerminal(t *testing.T) {
	var seq int
	rt := newTestRuntime(t, openTestStore(t), &seq)

	for _, id := range []string{rt.Actions[0].ID, rt.Sessions[0].ID} {
		_, err := rt.Complete(id)
		require.NoError(t, err)
		xp, ledger, rev := rt.State.TotalXP, len(rt.Ledger), rt.MutationRevision

		_, err = rt.Complete(id)
		assert.ErrorIs(t, err, ErrAlreadyCompleted)
		assert.ErrorIs(t, rt.Mark(id, domain.StatePartial), ErrAlreadyCompleted)
		assert.ErrorIs(t, rt.Start(id), ErrAlreadyCompleted)
		_, err = rt.Complete(id)
		assert.ErrorIs(t, err, ErrAlreadyCompleted)

		assert.Equal(t, xp, rt.State.TotalXP)
		assert.Len(t, rt.Ledger, ledger)
		assert.Equal(t, rev, rt.MutationRevision)
		assert.Empty(t, rt.ActiveUnitID)
	}
	assert.Equal(t, domain.StateCompleted, rt.Actions[0].State)
	assert.Equal(t, domain.StateCompleted, rt.Sessions[0].State)

	_, err := rt.Checkpoint(rt.Sessions[0].ID, "", flow.CandidateInput{})
	assert.ErrorIs(t, err, ErrAlreadyCompleted)
	assert.Empty(t, rt.Checkpoints)
}

func TestAddGoalAndSession(t *testing.T) {
	var seq int
	rt := newTestRuntime(t, openTestStore(t), &seq)

	_, err := rt.AddLearningGoal("C++ Momentum", "again")
	assert.ErrorIs(t, err, ErrDuplicateGoal)
	assert.Len(t, rt.Goals, 1)

	g, err := rt.AddLearningGoal("Rust", "Write a CLI")
	require.NoError(t, err)
	assert.Equal(t, testNow, g.CreatedAt)

	s, err := rt.AddLearningSession(flow.SessionInput{Title: "Ownership", DurationMinutes: 40})
	require.NoError(t, err)
	assert.Equal(t, rt.Goals[0].ID, s.GoalID, "empty goal id attaches to first goal")

	s, err = rt.AddLearningSession(flow.SessionInput{GoalID: g.ID, Title: "Lifetimes"})
	require.NoError(t, err)
	assert.Len(t, rt.SessionsForGoal(g.ID), 1)

	_, err = rt.AddLearningSession(flow.SessionInput{GoalID: "goal_missing", Title: "x"})
	assert.ErrorIs(t, err, ErrNotFound)

	a := rt.AddLifeAction("Call the bank", 150)
	assert.Equal(t, ManualParentID, a.ParentID)
	assert.Equal(t, a.ID, rt.Queue[0].UnitID)
}

func TestSetQueueMode(t *testing.T) {
	var seq int
	rt := newTestRuntime(t, openTestStore(t), &seq)

	rt.SetQueueMode(queue.FilterLearningOnly)
	require.Len(t, rt.Queue, 1)
	assert.Equal(t, domain.TrackLearning, rt.Queue[0].Track)

	rev := rt.MutationRevision
	rt.SetQueueMode(queue.FilterLearningOnly)
	assert.Equal(t, rev, rt.MutationRevision)

	items := rt.BuildQueue(queue.FilterLifeOnly, 0)
	require.Len(t, items, 1)
	assert.Equal(t, domain.TrackLife, items[0].Track)
}

func TestLoadReappliesStoredPreset(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	p := prefs.Default()
	p.PresetMode = prefs.PresetSpark
	p.MotionLevel, p.SoundLevel, p.DensityLevel = 2, 2, 0
	require.NoError(t, st.Preferences().Save(ctx, p))

	var seq int
	rt := newTestRuntime(t, st, &seq)
	assert.Equal(t, prefs.PresetSpark, rt.Prefs.PresetMode)
	assert.Equal(t, []int{1, 1, 1}, []int{rt.Prefs.MotionLevel, rt.Prefs.SoundLevel, rt.Prefs.DensityLevel})
	assert.Equal(t, prefs.PresetSpark, rt.Prefs.LastNonCustomPreset)

	p.PresetMode = prefs.PresetCustom
	p.MotionLevel, p.SoundLevel, p.DensityLevel = 7, -1, 1
	require.NoError(t, st.Preferences().Save(ctx, p))

	rt = newTestRuntime(t, st, &seq)
	assert.Equal(t, prefs.PresetCustom, rt.Prefs.PresetMode)
	assert.Equal(t, []int{2, 0, 1}, []int{rt.Prefs.MotionLevel, rt.Prefs.SoundLevel, rt.Prefs.DensityLevel})
}

func TestPreferenceMutationsAndRewardTier(t *testing.T) {
	st := openTestStore(t)
	var seq int
	rt := newTestRuntime(t, st, &seq)
	ctx := context.Background()

	rt.ApplyPreset(prefs.PresetSpark)
	_, err := rt.Complete(rt.Actions[0].ID)
	require.NoError(t, err)
	assert.Equal(t, prefs.EffectLow, rt.LastReward.Tier)

	rt.OverrideSensory(2, 0, 1)
	assert.Equal(t, prefs.PresetCustom, rt.Prefs.PresetMode)
	_, err = rt.Complete(rt.Sessions[0].ID)
	require.NoError(t, err)
	assert.Equal(t, prefs.EffectFull, rt.LastReward.Tier)

	rt.RestorePreset()
	assert.Equal(t, prefs.PresetSpark, rt.Prefs.PresetMode)
	require.NoError(t, rt.Persist(ctx))

	again := newTestRuntime(t, st, &seq)
	assert.Equal(t, prefs.PresetSpark, again.Prefs.PresetMode)
	assert.Equal(t, testNow, again.Prefs.UpdatedAt)
}

var errDisk = errors.New("disk full")

type flakyRepo struct {
	*store.Store
	fail bool
}

func (f *flakyRepo) UserState() store.UserStateRepo {
	return flakyUserState{UserStateRepo: f.Store.UserState(), repo: f}
}

type flakyUserState struct {
	store.UserStateRepo
	repo *flakyRepo
}

func (u flakyUserState) Save(ctx context.Context, s domain.UserState) error {
	if u.repo.fail {
		return errDisk
	}
	return u.UserStateRepo.Save(ctx, s)
}

func TestPersistFailureHoldsRetry(t *testing.T) {
	repo := &flakyRepo{Store: openTestStore(t), fail: true}
	var seq int
	rt := newTestRuntime(t, repo, &seq)
	ctx := context.Background()

	rt.AddLifeAction("Water plants", 90)
	err := rt.Persist(ctx)
	require.ErrorIs(t, err, errDisk)
	assert.True(t, rt.SavePendingRetry)
	assert.Contains(t, rt.LastSaveError, "disk full")
	assert.True(t, rt.Dirty())

	attempted, err := rt.PersistIfDirty(ctx)
	assert.False(t, attempted, "pending retry suppresses automatic saves")
	assert.NoError(t, err)

	repo.fail = false
	rt.RetrySave()
	assert.False(t, rt.SavePendingRetry)

	attempted, err = rt.PersistIfDirty(ctx)
	assert.True(t, attempted)
	require.NoError(t, err)
	assert.Empty(t, rt.LastSaveError)
	assert.False(t, rt.Dirty())

	attempted, err = rt.PersistIfDirty(ctx)
	assert.False(t, attempted)
	assert.NoError(t, err)
}

func TestStartupCheck(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "habitrpg.db")
	require.NoError(t, StartupCheck(ctx, path, nil))

	st, err := store.Open(ctx, path)
	require.NoError(t, err)
	bad := domain.NewUserState()
	bad.Level = 0
	require.NoError(t, st.UserState().Save(ctx, bad))
	require.NoError(t, st.Close())

	assert.ErrorContains(t, StartupCheck(ctx, path, nil), "invalid initial user state level")
}
