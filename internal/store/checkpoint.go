package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/habitrpg/internal/domain"
)

var checkpointColumns = []string{
	"id", "goal_id", "learning_session_id", "milestone_key", "state",
	"evidence_kind", "evidence_ref", "confidence_level", "candidate_reason", "reward_event_id",
	"submitted_at", "reviewed_at", "confirmed_at", "rejected_at", "created_at", "updated_at",
}

// checkpointRepo implements CheckpointRepo.
type checkpointRepo struct {
	db *sql.DB
}

// Upsert binds an empty reward_event_id as NULL: the column is UNIQUE and
// any number of unconfirmed checkpoints may exist at once.
func (r *checkpointRepo) Upsert(ctx context.Context, c domain.MilestoneCheckpoint) error {
	ins := builder().Insert("milestone_checkpoints").
		Columns(checkpointColumns...).
		Values(
			c.ID, c.GoalID, c.SessionID, c.MilestoneKey, string(c.State),
			string(c.EvidenceKind), nullString(c.EvidenceRef), domain.ClampConfidence(c.Confidence),
			nullString(c.CandidateReason), nullString(c.RewardEventID),
			formatTime(c.SubmittedAt), nullTime(c.ReviewedAt), nullTime(c.ConfirmedAt), nullTime(c.RejectedAt),
			formatTime(c.CreatedAt), formatTime(c.UpdatedAt),
		).
		OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWithNewValues())
	if err := execInsert(ctx, r.db, ins); err != nil {
		return fmt.Errorf("upsert milestone checkpoint %s: %w", c.ID, err)
	}
	return nil
}

func (r *checkpointRepo) Find(ctx context.Context, id string) (*domain.MilestoneCheckpoint, error) {
	b := builder()
	sel := b.Select(checkpointColumns...).From(b.Table("milestone_checkpoints")).Where(entsql.EQ("id", id))
	c, err := queryOne(ctx, r.db, sel, scanCheckpoint)
	if err != nil {
		return nil, fmt.Errorf("find milestone checkpoint %s: %w", id, err)
	}
	return c, nil
}

func (r *checkpointRepo) ListByGoal(ctx context.Context, goalID string) ([]domain.MilestoneCheckpoint, error) {
	b := builder()
	sel := b.Select(checkpointColumns...).From(b.Table("milestone_checkpoints")).
		Where(entsql.EQ("goal_id", goalID)).
		OrderBy(entsql.Asc("submitted_at"), entsql.Asc("id"))
	out, err := queryAll(ctx, r.db, sel, scanCheckpoint)
	if err != nil {
		return nil, fmt.Errorf("list milestone checkpoints for goal %s: %w", goalID, err)
	}
	return out, nil
}

func (r *checkpointRepo) List(ctx context.Context) ([]domain.MilestoneCheckpoint, error) {
	b := builder()
	sel := b.Select(checkpointColumns...).From(b.Table("milestone_checkpoints")).
		OrderBy(entsql.Asc("submitted_at"), entsql.Asc("id"))
	out, err := queryAll(ctx, r.db, sel, scanCheckpoint)
	if err != nil {
		return nil, fmt.Errorf("list milestone checkpoints: %w", err)
	}
	return out, nil
}

func scanCheckpoint(row rowScanner) (domain.MilestoneCheckpoint, error) {
	var (
		c                             domain.MilestoneCheckpoint
		state, kind                   string
		ref, reason, rewardID         sql.NullString
		submitted, created, updated   string
		reviewed, confirmed, rejected sql.NullString
	)
	if err := row.Scan(
		&c.ID, &c.GoalID, &c.SessionID, &c.MilestoneKey, &state,
		&kind, &ref, &c.Confidence, &reason, &rewardID,
		&submitted, &reviewed, &confirmed, &rejected, &created, &updated,
	); err != nil {
		return c, err
	}

	var err error
	if c.State, err = domain.ParseCheckpointState(state); err != nil {
		return c, err
	}
	if c.EvidenceKind, err = domain.ParseEvidenceKind(kind); err != nil {
		return c, err
	}
	c.EvidenceRef = ref.String
	c.CandidateReason = reason.String
	c.RewardEventID = rewardID.String

	var tp timeParser
	c.SubmittedAt = tp.text(submitted)
	c.ReviewedAt = tp.parse(reviewed)
	c.ConfirmedAt = tp.parse(confirmed)
	c.RejectedAt = tp.parse(rejected)
	c.CreatedAt = tp.text(created)
	c.UpdatedAt = tp.text(updated)
	return c, tp.err
}
