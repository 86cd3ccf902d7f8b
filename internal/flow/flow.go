// Package flow orchestrates lifecycle transitions of action units,
// learning sessions, and milestone checkpoints. It holds no state of its
// own: every operation works on collections owned by the caller.
package flow

import (
	"time"

	"github.com/abhisek/habitrpg/internal/domain"
	"github.com/abhisek/habitrpg/internal/rewards"
)

// Service applies lifecycle transitions and emits rewards on terminal ones.
type Service struct {
	engine *rewards.Engine
	now    func() time.Time
	newID  func(prefix string) string
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDFunc overrides identity generation.
func WithIDFunc(fn func(prefix string) string) Option {
	return func(s *Service) { s.newID = fn }
}

// NewService creates a Service that rewards through engine.
func NewService(engine *rewards.Engine, opts ...Option) *Service {
	if engine == nil {
		panic("flow: NewService called with nil engine")
	}
	s := &Service{engine: engine, now: domain.Now, newID: domain.NewID}
	for _, o := range opts {
		o(s)
	}
	return s
}

// CreateLifeAction builds a Ready life action. createdAt becomes the
// start timestamp and may be zero.
func (s *Service) CreateLifeAction(parentID, title string, priority int, createdAt time.Time) domain.ActionUnit {
	return domain.ActionUnit{
		ID:        s.newID("action"),
		ParentID:  parentID,
		Title:     title,
		Track:     domain.TrackLife,
		Status:    domain.StatusTodo,
		State:     domain.StateReady,
		Priority:  domain.ClampPriority(priority),
		StartedAt: createdAt,
	}
}

// CreateLearningGoal builds a goal with zero confidence. A zero createdAt
// is stamped with the current time.
func (s *Service) CreateLearningGoal(title, milestone string, createdAt time.Time) domain.LearningGoal {
	return domain.LearningGoal{
		ID:        s.newID("goal"),
		Title:     title,
		Milestone: milestone,
		CreatedAt: s.stamp(createdAt),
	}
}

// SessionInput describes a learning session to create.
type SessionInput struct {
	GoalID          string
	Title           string
	DurationMinutes int
	Priority        int
	ArtifactKind    string
	ArtifactRef     string
}

// CreateLearningSession builds a Ready session. createdAt becomes the
// start timestamp and may be zero.
func (s *Service) CreateLearningSession(in SessionInput, createdAt time.Time) domain.LearningSession {
	return domain.LearningSession{
		ID:              s.newID("session"),
		GoalID:          in.GoalID,
		Title:           in.Title,
		State:           domain.StateReady,
		Priority:        domain.ClampPriority(in.Priority),
		DurationMinutes: max(in.DurationMinutes, 0),
		ArtifactKind:    in.ArtifactKind,
		ArtifactRef:     in.ArtifactRef,
		StartedAt:       createdAt,
	}
}

// StartActionUnit makes the action the single active unit, pausing every
// other active action and session. Returns false if id is unknown.
func (s *Service) StartActionUnit(id string, actions []domain.ActionUnit, sessions []domain.LearningSession) bool {
	a := findAction(actions, id)
	if a == nil {
		return false
	}
	pauseActions(actions, id)
	pauseSessions(sessions, "")

	a.State = domain.StateActive
	a.Status = domain.StatusInProgress
	if a.StartedAt.IsZero() {
		a.StartedAt = s.now()
	}
	return true
}

// StartLearningSession makes the session the single active unit, pausing
// every other active action and session. Returns false if id is unknown.
func (s *Service) StartLearningSession(id string, actions []domain.ActionUnit, sessions []domain.LearningSession) bool {
	ls := findSession(sessions, id)
	if ls == nil {
		return false
	}
	pauseActions(actions, "")
	pauseSessions(sessions, id)

	ls.State = domain.StateActive
	if ls.StartedAt.IsZero() {
		ls.StartedAt = s.now()
	}
	return true
}

// CheckpointLearningSession marks the session as a checkpoint candidate
// and records note. The session need not be active.
func (s *Service) CheckpointLearningSession(id, note string, sessions []domain.LearningSession) bool {
	ls := findSession(sessions, id)
	if ls == nil {
		return false
	}
	ls.State = domain.StateCheckpointCandidate
	ls.CheckpointNote = note
	if ls.StartedAt.IsZero() {
		ls.StartedAt = s.now()
	}
	return true
}

// CompleteActionUnit completes the action and rewards it. state and
// ledger must be non-nil.
func (s *Service) CompleteActionUnit(
	id string,
	actions []domain.ActionUnit,
	state *domain.UserState,
	ledger *[]domain.RewardEvent,
) bool {
	mustOutputs(state, ledger)
	a := findAction(actions, id)
	if a == nil {
		return false
	}
	now := s.now()
	a.State = domain.StateCompleted
	a.Status = domain.StatusCompleted
	if a.StartedAt.IsZero() {
		a.StartedAt = now
	}
	a.CompletedAt = now

	s.grant(s.engine.BuildActionCompletion(*a, a.CompletedAt), state, ledger)
	return true
}

// CompleteLearningSession completes the session and rewards it by
// duration. state and ledger must be non-nil.
func (s *Service) CompleteLearningSession(
	id string,
	sessions []domain.LearningSession,
	state *domain.UserState,
	ledger *[]domain.RewardEvent,
) bool {
	mustOutputs(state, ledger)
	ls := findSession(sessions, id)
	if ls == nil {
		return false
	}
	now := s.now()
	ls.State = domain.StateCompleted
	if ls.StartedAt.IsZero() {
		ls.StartedAt = now
	}
	ls.CompletedAt = now

	s.grant(s.engine.BuildSessionCompletion(*ls, ls.CompletedAt), state, ledger)
	return true
}

func (s *Service) grant(ev domain.RewardEvent, state *domain.UserState, ledger *[]domain.RewardEvent) {
	rewards.Apply(ev, state)
	*ledger = append(*ledger, ev)
}

func (s *Service) stamp(t time.Time) time.Time {
	if t.IsZero() {
		return s.now()
	}
	return t
}

func mustOutputs(state *domain.UserState, ledger *[]domain.RewardEvent) {
	if state == nil {
		panic("flow: nil user state")
	}
	if ledger == nil {
		panic("flow: nil reward ledger")
	}
}

func pauseActions(actions []domain.ActionUnit, exceptID string) {
	for i := range actions {
		a := &actions[i]
		if a.ID != exceptID && a.State == domain.StateActive {
			a.State = domain.StatePaused
			a.Status = domain.StatusTodo
		}
	}
}

func pauseSessions(sessions []domain.LearningSession, exceptID string) {
	for i := range sessions {
		ls := &sessions[i]
		if ls.ID != exceptID && ls.State == domain.StateActive {
			ls.State = domain.StatePaused
		}
	}
}

func findAction(actions []domain.ActionUnit, id string) *domain.ActionUnit {
	for i := range actions {
		if actions[i].ID == id {
			return &actions[i]
		}
	}
	return nil
}

func findSession(sessions []domain.LearningSession, id string) *domain.LearningSession {
	for i := range sessions {
		if sessions[i].ID == id {
			return &sessions[i]
		}
	}
	return nil
}
