// Package app owns the in-memory runtime state and its persistence
// cycle. Commands load a Runtime, apply mutations through it, then persist.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/habitrpg/internal/config"
	"github.com/abhisek/habitrpg/internal/domain"
	"github.com/abhisek/habitrpg/internal/flow"
	"github.com/abhisek/habitrpg/internal/logging"
	"github.com/abhisek/habitrpg/internal/prefs"
	"github.com/abhisek/habitrpg/internal/queue"
	"github.com/abhisek/habitrpg/internal/rewards"
	"github.com/abhisek/habitrpg/internal/store"
)

var (
	// ErrNotFound is returned when a unit, goal or checkpoint id is
	// unknown or the transition does not apply to it.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateGoal is returned when a goal with the same title exists.
	ErrDuplicateGoal = errors.New("a goal with this title already exists")

	// ErrAlreadyCompleted is returned when a completed unit is started,
	// marked, checkpointed or completed again.
	ErrAlreadyCompleted = errors.New("unit already completed")

	// ErrNoGoal is returned when a session is added before any goal.
	ErrNoGoal = errors.New("no learning goal to attach the session to")
)

// Default parent for life actions created outside the seed.
const ManualParentID = "habit.manual"

// Repository is the persistence surface the runtime needs. *store.Store
// satisfies it.
type Repository interface {
	Actions() store.ActionRepo
	Goals() store.GoalRepo
	Sessions() store.SessionRepo
	Checkpoints() store.CheckpointRepo
	Rewards() store.RewardRepo
	UserState() store.UserStateRepo
	Preferences() store.PreferencesRepo
}

// LastReward describes the most recent grant for feedback rendering.
type LastReward struct {
	XP   int
	Kind rewards.Kind
	Tier prefs.EffectTier
}

// Runtime holds the loaded collections. The exported slices are owned by
// the runtime; read them freely but mutate only through its methods so
// revisions stay accurate.
type Runtime struct {
	repo     Repository
	engine   *rewards.Engine
	flow     *flow.Service
	queue    *queue.Service
	log      *logging.Logger
	now      func() time.Time
	maxItems int

	State       domain.UserState
	Prefs       prefs.Preferences
	Actions     []domain.ActionUnit
	Goals       []domain.LearningGoal
	Sessions    []domain.LearningSession
	Checkpoints []domain.MilestoneCheckpoint
	Ledger      []domain.RewardEvent
	Queue       []queue.Item

	ActiveUnitID string
	ActiveTrack  domain.TrackType
	LastReward   LastReward

	MutationRevision  uint64
	PersistedRevision uint64
	SavePendingRetry  bool
	LastSaveError     string
}

type options struct {
	log   *logging.Logger
	now   func() time.Time
	newID func(prefix string) string
}

// Option configures a Runtime.
type Option func(*options)

// WithLogger routes runtime logs to l.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithClock overrides the timestamp source for the runtime and its services.
// Readings are truncated to the second in UTC.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithIDFunc overrides identity generation for the runtime and its services.
func WithIDFunc(fn func(prefix string) string) Option {
	return func(o *options) { o.newID = fn }
}

// New creates an empty Runtime over repo. Call Load before use.
func New(repo Repository, cfg config.Config, opts ...Option) *Runtime {
	o := options{log: logging.Nop(), now: domain.Now, newID: domain.NewID}
	for _, opt := range opts {
		opt(&o)
	}
	clock := o.now
	o.now = func() time.Time { return clock().UTC().Truncate(time.Second) }

	engine := rewards.NewEngine(cfg.Rewards, rewards.WithClock(o.now), rewards.WithIDFunc(o.newID))
	maxItems := cfg.Queue.MaxItems
	if maxItems <= 0 {
		maxItems = queue.DefaultMaxItems
	}
	return &Runtime{
		repo:     repo,
		engine:   engine,
		flow:     flow.NewService(engine, flow.WithClock(o.now), flow.WithIDFunc(o.newID)),
		queue:    queue.NewService(),
		log:      o.log,
		now:      o.now,
		maxItems: maxItems,
		State:    domain.NewUserState(),
		Prefs:    prefs.Default(),
	}
}

// Load reads every collection, re-applies the stored preset bundle,
// seeds defaults into empty ones, rebuilds the queue and detects the
// active unit. Seeded rows count as persisted until the next Persist
// writes them.
func (r *Runtime) Load(ctx context.Context) error {
	var err error
	if r.State, err = r.repo.UserState().Load(ctx); err != nil {
		return fmt.Errorf("load user state: %w", err)
	}
	if r.Prefs, err = r.repo.Preferences().Load(ctx); err != nil {
		return fmt.Errorf("load preferences: %w", err)
	}
	if r.Actions, err = r.repo.Actions().ListByTrack(ctx, domain.TrackLife); err != nil {
		return fmt.Errorf("load life actions: %w", err)
	}
	if r.Goals, err = r.repo.Goals().List(ctx); err != nil {
		return fmt.Errorf("load learning goals: %w", err)
	}
	if r.Sessions, err = r.repo.Sessions().List(ctx); err != nil {
		return fmt.Errorf("load learning sessions: %w", err)
	}
	if r.Checkpoints, err = r.repo.Checkpoints().List(ctx); err != nil {
		return fmt.Errorf("load checkpoints: %w", err)
	}

	if r.Ledger, err = r.repo.Rewards().List(ctx); err != nil {
		return fmt.Errorf("load rewards: %w", err)
	}

	stored := r.Prefs
	r.Prefs.ApplyPreset(r.Prefs.PresetMode)
	if r.Prefs != stored {
		r.markMutated()
	}

	r.seedDefaults()
	r.RefreshQueue()
	r.detectActive()
	r.PersistedRevision = r.MutationRevision

	r.log.Debug("runtime loaded",
		"actions", len(r.Actions),
		"goals", len(r.Goals),
		"sessions", len(r.Sessions),
		"checkpoints", len(r.Checkpoints),
		"rewards", len(r.Ledger),
	)
	return nil
}

func (r *Runtime) seedDefaults() {
	if len(r.Goals) == 0 {
		r.Goals = append(r.Goals, r.flow.CreateLearningGoal(
			"C++ Momentum",
			"Complete one short C++ coding exercise with notes",
			time.Time{},
		))
		r.markMutated()
	}
	if len(r.Actions) == 0 {
		r.Actions = append(r.Actions, r.flow.CreateLifeAction(
			"habit.seed", "Pick one high-impact life task", 120, r.now(),
		))
		r.markMutated()
	}
	if len(r.Sessions) == 0 && len(r.Goals) > 0 {
		r.Sessions = append(r.Sessions, r.flow.CreateLearningSession(flow.SessionInput{
			GoalID:          r.Goals[0].ID,
			Title:           "C++ focused practice",
			DurationMinutes: 25,
			Priority:        110,
			ArtifactKind:    "note",
			ArtifactRef:     "seed-session",
		}, r.now()))
		r.markMutated()
	}
}

// detectActive picks the first active life action, then the first active
// learning session.
func (r *Runtime) detectActive() {
	r.ActiveUnitID = ""
	for _, a := range r.Actions {
		if a.State == domain.StateActive {
			r.ActiveUnitID, r.ActiveTrack = a.ID, domain.TrackLife
			return
		}
	}
	for _, s := range r.Sessions {
		if s.State == domain.StateActive {
			r.ActiveUnitID, r.ActiveTrack = s.ID, domain.TrackLearning
			return
		}
	}
}

// RefreshQueue rebuilds the Today Queue from the current collections and
// queue mode.
func (r *Runtime) RefreshQueue() {
	r.Queue = r.queue.Build(r.Actions, r.Sessions, r.Prefs.QueueMode, r.maxItems)
}

// BuildQueue composes a queue with an explicit filter and bound without
// touching the runtime's own queue. A maxItems of 0 uses the configured
// bound.
func (r *Runtime) BuildQueue(filter queue.Filter, maxItems int) []queue.Item {
	if maxItems <= 0 {
		maxItems = r.maxItems
	}
	return r.queue.Build(r.Actions, r.Sessions, filter, maxItems)
}

// Dirty reports whether there are unpersisted mutations.
func (r *Runtime) Dirty() bool {
	return r.MutationRevision != r.PersistedRevision
}

func (r *Runtime) markMutated() {
	r.SavePendingRetry = false
	r.MutationRevision++
}

func (r *Runtime) mutated() {
	r.markMutated()
	r.RefreshQueue()
}

// Persist writes user state, preferences, every collection and the
// ledger. On failure the runtime flags a pending retry and keeps the
// error text; the in-memory state is left untouched.
func (r *Runtime) Persist(ctx context.Context) error {
	if err := r.persist(ctx); err != nil {
		r.SavePendingRetry = true
		r.LastSaveError = err.Error()
		r.log.Warn("persist failed", "revision", r.MutationRevision, "error", err)
		return err
	}
	r.SavePendingRetry = false
	r.LastSaveError = ""
	r.PersistedRevision = r.MutationRevision
	return nil
}

// PersistIfDirty persists only when there are unsaved mutations and no
// earlier failure is waiting for a retry. The bool reports whether a
// write was attempted.
func (r *Runtime) PersistIfDirty(ctx context.Context) (bool, error) {
	if !r.Dirty() || r.SavePendingRetry {
		return false, nil
	}
	return true, r.Persist(ctx)
}

// RetrySave clears a pending retry so the next PersistIfDirty writes again.
func (r *Runtime) RetrySave() {
	r.markMutated()
}

func (r *Runtime) persist(ctx context.Context) error {
	if err := r.repo.UserState().Save(ctx, r.State); err != nil {
		return fmt.Errorf("save user state: %w", err)
	}

	p := r.Prefs
	p.UpdatedAt = r.now()
	if err := r.repo.Preferences().Save(ctx, p); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	r.Prefs.UpdatedAt = p.UpdatedAt

	for _, a := range r.Actions {
		if err := r.repo.Actions().Upsert(ctx, a); err != nil {
			return fmt.Errorf("save action %s: %w", a.ID, err)
		}
	}
	for _, g := range r.Goals {
		if err := r.repo.Goals().Upsert(ctx, g); err != nil {
			return fmt.Errorf("save goal %s: %w", g.ID, err)
		}
	}
	for _, s := range r.Sessions {
		if err := r.repo.Sessions().Upsert(ctx, s); err != nil {
			return fmt.Errorf("save session %s: %w", s.ID, err)
		}
	}
	for _, c := range r.Checkpoints {
		if err := r.repo.Checkpoints().Upsert(ctx, c); err != nil {
			return fmt.Errorf("save checkpoint %s: %w", c.ID, err)
		}
	}
	for _, ev := range r.Ledger {
		if err := r.repo.Rewards().Append(ctx, ev); err != nil {
			return fmt.Errorf("append reward %s: %w", ev.ID, err)
		}
	}
	return nil
}

// StartupCheck opens and migrates the database at path and verifies the
// stored user state is usable.
func StartupCheck(ctx context.Context, path string, log *logging.Logger) error {
	if log == nil {
		log = logging.Nop()
	}
	st, err := store.Open(ctx, path, store.WithLogger(log))
	if err != nil {
		return err
	}
	defer st.Close()

	us, err := st.UserState().Load(ctx)
	if err != nil {
		return fmt.Errorf("load user state: %w", err)
	}
	if us.Level < 1 {
		return fmt.Errorf("invalid initial user state level %d", us.Level)
	}
	return nil
}
