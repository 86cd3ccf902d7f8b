package flow

import (
	"time"

	"github.com/abhisek/habitrpg/internal/domain"
	"github.com/abhisek/habitrpg/internal/rewards"
)

// CandidateInput describes evidence submitted for a milestone.
type CandidateInput struct {
	MilestoneKey string
	EvidenceKind domain.EvidenceKind
	EvidenceRef  string
	Confidence   int
	Reason       string
}

// CreateMilestoneCheckpointCandidate builds a Candidate checkpoint against
// a session snapshot. Confidence is clamped into [1, 5] and evidence kind
// defaults to note. A zero createdAt is stamped with the current time.
func (s *Service) CreateMilestoneCheckpointCandidate(
	session domain.LearningSession,
	in CandidateInput,
	createdAt time.Time,
) domain.MilestoneCheckpoint {
	now := s.stamp(createdAt)
	kind := in.EvidenceKind
	if kind == "" {
		kind = domain.EvidenceNote
	}
	return domain.MilestoneCheckpoint{
		ID:              s.newID("checkpoint"),
		GoalID:          session.GoalID,
		SessionID:       session.ID,
		MilestoneKey:    in.MilestoneKey,
		State:           domain.CheckpointCandidate,
		EvidenceKind:    kind,
		EvidenceRef:     in.EvidenceRef,
		Confidence:      domain.ClampConfidence(in.Confidence),
		CandidateReason: in.Reason,
		SubmittedAt:     now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// PromoteMilestoneCheckpointToConfirmed confirms the checkpoint and grants
// the milestone reward at most once.
//
// It returns false if the checkpoint is unknown or already confirmed with
// a reward reference. When the ledger already holds the reward id, the
// checkpoint is confirmed without granting again.
func (s *Service) PromoteMilestoneCheckpointToConfirmed(
	id string,
	checkpoints []domain.MilestoneCheckpoint,
	state *domain.UserState,
	ledger *[]domain.RewardEvent,
) bool {
	mustOutputs(state, ledger)
	cp := findCheckpoint(checkpoints, id)
	if cp == nil {
		return false
	}
	if cp.State == domain.CheckpointConfirmed && cp.RewardEventID != "" {
		return false
	}

	now := s.now()
	cp.State = domain.CheckpointConfirmed
	cp.ReviewedAt = now
	cp.ConfirmedAt = now
	cp.UpdatedAt = now
	if cp.RewardEventID == "" {
		cp.RewardEventID = rewards.MilestoneRewardID(cp.ID)
	}

	if ledgerHas(*ledger, cp.RewardEventID) {
		return true
	}
	s.grant(s.engine.BuildMilestoneConfirmed(*cp, cp.ConfirmedAt, cp.RewardEventID), state, ledger)
	return true
}

// RejectMilestoneCheckpoint rejects a checkpoint that has not been
// confirmed. A non-empty reason replaces the candidate reason.
func (s *Service) RejectMilestoneCheckpoint(id, reason string, checkpoints []domain.MilestoneCheckpoint) bool {
	cp := findCheckpoint(checkpoints, id)
	if cp == nil || cp.State == domain.CheckpointConfirmed {
		return false
	}
	now := s.now()
	cp.State = domain.CheckpointRejected
	cp.ReviewedAt = now
	cp.RejectedAt = now
	cp.UpdatedAt = now
	if reason != "" {
		cp.CandidateReason = reason
	}
	return true
}

func findCheckpoint(checkpoints []domain.MilestoneCheckpoint, id string) *domain.MilestoneCheckpoint {
	for i := range checkpoints {
		if checkpoints[i].ID == id {
			return &checkpoints[i]
		}
	}
	return nil
}

func ledgerHas(ledger []domain.RewardEvent, id string) bool {
	for _, ev := range ledger {
		if ev.ID == id {
			return true
		}
	}
	return false
}
