package app

import (
	"fmt"

	"github.com/abhisek/habitrpg/internal/domain"
	"github.com/abhisek/habitrpg/internal/flow"
	"github.com/abhisek/habitrpg/internal/prefs"
	"github.com/abhisek/habitrpg/internal/queue"
	"github.com/abhisek/habitrpg/internal/rewards"
)

// AddLifeAction appends a Ready life action under the manual parent.
func (r *Runtime) AddLifeAction(title string, priority int) domain.ActionUnit {
	a := r.flow.CreateLifeAction(ManualParentID, title, priority, r.now())
	r.Actions = append(r.Actions, a)
	r.mutated()
	return a
}

// AddLearningGoal appends a goal unless one with the same title exists.
func (r *Runtime) AddLearningGoal(title, milestone string) (domain.LearningGoal, error) {
	for _, g := range r.Goals {
		if g.Title == title {
			return domain.LearningGoal{}, fmt.Errorf("%q: %w", title, ErrDuplicateGoal)
		}
	}
	g := r.flow.CreateLearningGoal(title, milestone, r.now())
	r.Goals = append(r.Goals, g)
	r.mutated()
	return g, nil
}

// AddLearningSession appends a Ready session. An empty GoalID attaches
// the session to the first goal.
func (r *Runtime) AddLearningSession(in flow.SessionInput) (domain.LearningSession, error) {
	if in.GoalID == "" {
		if len(r.Goals) == 0 {
			return domain.LearningSession{}, ErrNoGoal
		}
		in.GoalID = r.Goals[0].ID
	} else if r.findGoal(in.GoalID) == nil {
		return domain.LearningSession{}, fmt.Errorf("goal %s: %w", in.GoalID, ErrNotFound)
	}
	s := r.flow.CreateLearningSession(in, r.now())
	r.Sessions = append(r.Sessions, s)
	r.mutated()
	return s, nil
}

// Start makes the unit with id the single active unit, whichever track
// it belongs to.
func (r *Runtime) Start(id string) error {
	track, err := r.pendingTrack(id)
	if err != nil {
		return err
	}
	switch track {
	case domain.TrackLife:
		r.flow.StartActionUnit(id, r.Actions, r.Sessions)
	case domain.TrackLearning:
		r.flow.StartLearningSession(id, r.Actions, r.Sessions)
	}
	r.ActiveUnitID, r.ActiveTrack = id, track
	r.mutated()
	return nil
}

// Mark moves the unit with id to Partial, Paused or Missed.
func (r *Runtime) Mark(id string, state domain.LifecycleState) error {
	if !flow.Markable(state) {
		return fmt.Errorf("state %q cannot be set directly", state)
	}
	track, err := r.pendingTrack(id)
	if err != nil {
		return err
	}
	switch track {
	case domain.TrackLife:
		r.flow.MarkActionUnit(id, state, r.Actions)
	case domain.TrackLearning:
		r.flow.MarkLearningSession(id, state, r.Sessions)
	}
	if r.ActiveUnitID == id {
		r.ActiveUnitID = ""
	}
	r.mutated()
	return nil
}

// Complete finishes the unit with id and returns the granted reward.
func (r *Runtime) Complete(id string) (domain.RewardEvent, error) {
	track, err := r.pendingTrack(id)
	if err != nil {
		return domain.RewardEvent{}, err
	}
	switch track {
	case domain.TrackLife:
		r.flow.CompleteActionUnit(id, r.Actions, &r.State, &r.Ledger)
	case domain.TrackLearning:
		r.flow.CompleteLearningSession(id, r.Sessions, &r.State, &r.Ledger)
	}
	ev := r.Ledger[len(r.Ledger)-1]
	r.noteReward(ev)
	if r.ActiveUnitID == id {
		r.ActiveUnitID = ""
	}
	r.mutated()
	return ev, nil
}

// Checkpoint marks the session as a checkpoint candidate and opens a
// milestone candidate for it. An existing open candidate for the session
// is refreshed instead of duplicated.
func (r *Runtime) Checkpoint(sessionID, note string, in flow.CandidateInput) (domain.MilestoneCheckpoint, error) {
	if note == "" {
		note = "Checkpoint candidate logged"
	}
	if s := r.findSession(sessionID); s != nil && !s.State.Pending() {
		return domain.MilestoneCheckpoint{}, fmt.Errorf("session %s: %w", sessionID, ErrAlreadyCompleted)
	}
	if !r.flow.CheckpointLearningSession(sessionID, note, r.Sessions) {
		return domain.MilestoneCheckpoint{}, fmt.Errorf("session %s: %w", sessionID, ErrNotFound)
	}
	if r.ActiveUnitID == sessionID {
		r.ActiveUnitID = ""
	}
	session := *r.findSession(sessionID)

	if in.Reason == "" {
		in.Reason = "manual_candidate"
	}
	if c := r.openCandidate(sessionID); c != nil {
		c.CandidateReason = in.Reason
		c.UpdatedAt = r.now()
		r.mutated()
		return *c, nil
	}

	if in.MilestoneKey == "" {
		in.MilestoneKey = "default"
	}
	if in.EvidenceKind == "" {
		in.EvidenceKind = domain.EvidenceSnippet
	}
	if in.EvidenceRef == "" {
		in.EvidenceRef = session.ArtifactRef
	}
	if in.Confidence == 0 {
		in.Confidence = 2
	}
	c := r.flow.CreateMilestoneCheckpointCandidate(session, in, r.now())
	r.Checkpoints = append(r.Checkpoints, c)
	r.mutated()
	return c, nil
}

// ConfirmCheckpoint promotes the checkpoint and returns the reward it
// granted, if any. Confirming twice is ErrNotFound.
func (r *Runtime) ConfirmCheckpoint(id string) (*domain.RewardEvent, error) {
	before := len(r.Ledger)
	if !r.flow.PromoteMilestoneCheckpointToConfirmed(id, r.Checkpoints, &r.State, &r.Ledger) {
		return nil, fmt.Errorf("checkpoint %s: %w", id, ErrNotFound)
	}
	r.mutated()
	if len(r.Ledger) == before {
		return nil, nil
	}
	ev := r.Ledger[len(r.Ledger)-1]
	r.noteReward(ev)
	return &ev, nil
}

// RejectCheckpoint rejects an unconfirmed checkpoint.
func (r *Runtime) RejectCheckpoint(id, reason string) error {
	if !r.flow.RejectMilestoneCheckpoint(id, reason, r.Checkpoints) {
		return fmt.Errorf("checkpoint %s: %w", id, ErrNotFound)
	}
	r.mutated()
	return nil
}

// ApplyPreset switches to a preset bundle.
func (r *Runtime) ApplyPreset(mode prefs.PresetMode) {
	r.Prefs.ApplyPreset(mode)
	r.markMutated()
}

// OverrideSensory sets explicit levels and switches to the custom preset.
func (r *Runtime) OverrideSensory(motion, sound, density int) {
	r.Prefs.ApplySensoryOverride(motion, sound, density)
	r.markMutated()
}

// RestorePreset returns to the last non-custom preset.
func (r *Runtime) RestorePreset() {
	r.Prefs.RestoreLastNonCustomPreset()
	r.markMutated()
}

// SetQueueMode changes the persisted queue filter. Setting the current
// mode is not a mutation.
func (r *Runtime) SetQueueMode(f queue.Filter) {
	if r.Prefs.QueueMode == f {
		return
	}
	r.Prefs.QueueMode = f
	r.mutated()
}

// SessionsForGoal returns the goal's sessions in load order.
func (r *Runtime) SessionsForGoal(goalID string) []domain.LearningSession {
	var out []domain.LearningSession
	for _, s := range r.Sessions {
		if s.GoalID == goalID {
			out = append(out, s)
		}
	}
	return out
}

func (r *Runtime) noteReward(ev domain.RewardEvent) {
	r.LastReward = LastReward{
		XP:   ev.XPDelta,
		Kind: rewards.Kind(ev.Kind),
		Tier: prefs.RewardEffectTier(r.Prefs.MotionLevel, r.Prefs.SoundLevel),
	}
}

// pendingTrack returns the track of a unit that can still change state.
func (r *Runtime) pendingTrack(id string) (domain.TrackType, error) {
	track, state, ok := r.unitState(id)
	if !ok {
		return "", fmt.Errorf("unit %s: %w", id, ErrNotFound)
	}
	if !state.Pending() {
		return "", fmt.Errorf("unit %s: %w", id, ErrAlreadyCompleted)
	}
	return track, nil
}

func (r *Runtime) unitState(id string) (domain.TrackType, domain.LifecycleState, bool) {
	for _, a := range r.Actions {
		if a.ID == id {
			return domain.TrackLife, a.State, true
		}
	}
	if s := r.findSession(id); s != nil {
		return domain.TrackLearning, s.State, true
	}
	return "", "", false
}

func (r *Runtime) findGoal(id string) *domain.LearningGoal {
	for i := range r.Goals {
		if r.Goals[i].ID == id {
			return &r.Goals[i]
		}
	}
	return nil
}

func (r *Runtime) findSession(id string) *domain.LearningSession {
	for i := range r.Sessions {
		if r.Sessions[i].ID == id {
			return &r.Sessions[i]
		}
	}
	return nil
}

func (r *Runtime) openCandidate(sessionID string) *domain.MilestoneCheckpoint {
	for i := range r.Checkpoints {
		c := &r.Checkpoints[i]
		if c.SessionID == sessionID && c.State == domain.CheckpointCandidate {
			return c
		}
	}
	return nil
}
