package rewards

import (
	"time"

	"github.com/abhisek/habitrpg/internal/domain"
)

// Engine builds reward events from completed work and applies them to
// user progress. It holds no mutable state.
type Engine struct {
	cfg   Config
	now   func() time.Time
	newID func(prefix string) string
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDFunc overrides identity generation.
func WithIDFunc(fn func(prefix string) string) Option {
	return func(e *Engine) { e.newID = fn }
}

// NewEngine creates an Engine with the given config.
func NewEngine(cfg Config, opts ...Option) *Engine {
	e := &Engine{cfg: cfg, now: domain.Now, newID: domain.NewID}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Config returns the engine's reward table.
func (e *Engine) Config() Config {
	return e.cfg
}

// SessionXP returns base + floor(duration/10) * per-ten-minutes.
func (e *Engine) SessionXP(durationMinutes int) int {
	return e.cfg.SessionBaseXP + max(durationMinutes, 0)/10*e.cfg.SessionPerTenMinXP
}

// BuildActionCompletion returns the reward for completing an action at
// the given time. A zero time uses the engine clock.
func (e *Engine) BuildActionCompletion(a domain.ActionUnit, at time.Time) domain.RewardEvent {
	return domain.RewardEvent{
		ID:         e.newID("reward"),
		SourceType: SourceActionUnit,
		SourceID:   a.ID,
		Track:      a.Track,
		XPDelta:    e.cfg.ActionCompletionXP,
		Kind:       string(KindActionCompletion),
		CreatedAt:  e.stamp(at),
	}
}

// BuildSessionCompletion returns the reward for completing a learning session.
func (e *Engine) BuildSessionCompletion(s domain.LearningSession, at time.Time) domain.RewardEvent {
	return domain.RewardEvent{
		ID:         e.newID("reward"),
		SourceType: SourceLearningSession,
		SourceID:   s.ID,
		Track:      domain.TrackLearning,
		XPDelta:    e.SessionXP(s.DurationMinutes),
		Kind:       string(KindSessionCompletion),
		CreatedAt:  e.stamp(at),
	}
}

// BuildMilestoneConfirmed returns the reward for a confirmed checkpoint.
// An empty rewardID derives the id from the checkpoint id.
func (e *Engine) BuildMilestoneConfirmed(c domain.MilestoneCheckpoint, at time.Time, rewardID string) domain.RewardEvent {
	if rewardID == "" {
		rewardID = MilestoneRewardID(c.ID)
	}
	return domain.RewardEvent{
		ID:         rewardID,
		SourceType: SourceMilestoneCheckpoint,
		SourceID:   c.ID,
		Track:      domain.TrackLearning,
		XPDelta:    e.cfg.MilestoneConfirmedXP,
		Kind:       string(KindMilestoneConfirmed),
		CreatedAt:  e.stamp(at),
	}
}

func (e *Engine) stamp(at time.Time) time.Time {
	if at.IsZero() {
		return e.now()
	}
	return at
}

// Apply adds the reward's delta to the total and track buckets of state
// and recomputes the level. It is the only mutator of UserState.
func Apply(ev domain.RewardEvent, state *domain.UserState) {
	if state == nil {
		panic("rewards: Apply called with nil state")
	}
	state.TotalXP += ev.XPDelta
	if ev.Track == domain.TrackLife {
		state.LifeXP += ev.XPDelta
	} else {
		state.LearningXP += ev.XPDelta
	}
	state.Level = domain.LevelForXP(state.TotalXP)
}

// Totals sums ledger XP by kind.
func Totals(events []domain.RewardEvent) map[Kind]int {
	out := make(map[Kind]int, len(AllKinds()))
	for _, ev := range events {
		out[Kind(ev.Kind)] += ev.XPDelta
	}
	return out
}
