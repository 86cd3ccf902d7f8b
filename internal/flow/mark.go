package flow

import (
	"fmt"

	"github.com/abhisek/habitrpg/internal/domain"
)

// Markable reports whether a unit may be moved to state by hand. Active
// and Completed have dedicated transitions; Ready and CheckpointCandidate
// are entered only through creation and checkpointing.
func Markable(state domain.LifecycleState) bool {
	switch state {
	case domain.StatePartial, domain.StatePaused, domain.StateMissed:
		return true
	}
	return false
}

// MarkActionUnit moves the action to a Partial, Paused or Missed state.
// The legacy status returns to todo. Returns false if id is unknown.
func (s *Service) MarkActionUnit(id string, state domain.LifecycleState, actions []domain.ActionUnit) bool {
	mustMarkable(state)
	a := findAction(actions, id)
	if a == nil {
		return false
	}
	a.State = state
	a.Status = domain.StatusTodo
	return true
}

// MarkLearningSession moves the session to a Partial, Paused or Missed
// state. Returns false if id is unknown.
func (s *Service) MarkLearningSession(id string, state domain.LifecycleState, sessions []domain.LearningSession) bool {
	mustMarkable(state)
	ls := findSession(sessions, id)
	if ls == nil {
		return false
	}
	ls.State = state
	return true
}

func mustMarkable(state domain.LifecycleState) {
	if !Markable(state) {
		panic(fmt.Sprintf("flow: %q cannot be set by hand", state))
	}
}
