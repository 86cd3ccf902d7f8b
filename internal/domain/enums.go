package domain

import (
	"errors"
	"fmt"
)

// ErrUnknownValue is matched by every ParseError.
var ErrUnknownValue = errors.New("unknown enum value")

// ParseError reports a stored string that does not decode to a known enum.
type ParseError struct {
	Kind  string
	Value string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unknown %s: %q", e.Kind, e.Value)
}

func (e *ParseError) Is(target error) bool {
	return target == ErrUnknownValue
}

// TrackType identifies which of the two tracks a unit belongs to.
type TrackType string

const (
	TrackLife     TrackType = "life"
	TrackLearning TrackType = "learning"
)

// ParseTrackType decodes a stored track type.
func ParseTrackType(s string) (TrackType, error) {
	switch t := TrackType(s); t {
	case TrackLife, TrackLearning:
		return t, nil
	}
	return "", &ParseError{Kind: "track type", Value: s}
}

// ActionStatus is the legacy tri-state kept beside the lifecycle state.
type ActionStatus string

const (
	StatusTodo       ActionStatus = "todo"
	StatusInProgress ActionStatus = "in_progress"
	StatusCompleted  ActionStatus = "completed"
)

// ParseActionStatus decodes a stored action status.
func ParseActionStatus(s string) (ActionStatus, error) {
	switch st := ActionStatus(s); st {
	case StatusTodo, StatusInProgress, StatusCompleted:
		return st, nil
	}
	return "", &ParseError{Kind: "action status", Value: s}
}

// StatusFor returns the legacy status that mirrors a lifecycle state.
func StatusFor(state LifecycleState) ActionStatus {
	switch state {
	case StateCompleted:
		return StatusCompleted
	case StateActive:
		return StatusInProgress
	default:
		return StatusTodo
	}
}

// LifecycleFromStatus derives a lifecycle state from a legacy status.
func LifecycleFromStatus(status ActionStatus) LifecycleState {
	switch status {
	case StatusCompleted:
		return StateCompleted
	case StatusInProgress:
		return StateActive
	default:
		return StateReady
	}
}

// LifecycleState is the primary state of an action unit or learning session.
type LifecycleState string

const (
	StateReady               LifecycleState = "ready"
	StateActive              LifecycleState = "active"
	StatePartial             LifecycleState = "partial"
	StateMissed              LifecycleState = "missed"
	StatePaused              LifecycleState = "paused"
	StateCompleted           LifecycleState = "completed"
	StateCheckpointCandidate LifecycleState = "checkpoint_candidate"
)

// LifecycleStates lists every lifecycle state in declaration order.
var LifecycleStates = []LifecycleState{
	StateReady,
	StateActive,
	StatePartial,
	StateMissed,
	StatePaused,
	StateCompleted,
	StateCheckpointCandidate,
}

// ParseLifecycleState decodes a stored lifecycle state.
func ParseLifecycleState(s string) (LifecycleState, error) {
	for _, st := range LifecycleStates {
		if string(st) == s {
			return st, nil
		}
	}
	return "", &ParseError{Kind: "lifecycle state", Value: s}
}

// Pending reports whether the state still belongs in a work queue.
func (s LifecycleState) Pending() bool {
	return s != StateCompleted
}

// CheckpointState is the review state of a milestone checkpoint.
type CheckpointState string

const (
	CheckpointCandidate CheckpointState = "candidate"
	CheckpointConfirmed CheckpointState = "confirmed"
	CheckpointRejected  CheckpointState = "rejected"
)

// ParseCheckpointState decodes a stored checkpoint state.
func ParseCheckpointState(s string) (CheckpointState, error) {
	switch st := CheckpointState(s); st {
	case CheckpointCandidate, CheckpointConfirmed, CheckpointRejected:
		return st, nil
	}
	return "", &ParseError{Kind: "milestone checkpoint state", Value: s}
}

// EvidenceKind classifies what a checkpoint's evidence ref points at.
type EvidenceKind string

const (
	EvidenceNote      EvidenceKind = "note"
	EvidenceSnippet   EvidenceKind = "snippet"
	EvidenceExercise  EvidenceKind = "exercise"
	EvidenceReference EvidenceKind = "reference"
)

// ParseEvidenceKind decodes a stored evidence kind.
func ParseEvidenceKind(s string) (EvidenceKind, error) {
	switch k := EvidenceKind(s); k {
	case EvidenceNote, EvidenceSnippet, EvidenceExercise, EvidenceReference:
		return k, nil
	}
	return "", &ParseError{Kind: "evidence kind", Value: s}
}
