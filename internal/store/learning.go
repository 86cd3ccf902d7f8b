package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/habitrpg/internal/domain"
)

var goalColumns = []string{"id", "title", "milestone", "confidence_level", "created_at"}

// goalRepo implements GoalRepo.
type goalRepo struct {
	db *sql.DB
}

func (r *goalRepo) Upsert(ctx context.Context, g domain.LearningGoal) error {
	ins := builder().Insert("learning_goals").
		Columns(goalColumns...).
		Values(g.ID, g.Title, g.Milestone, g.Confidence, formatTime(g.CreatedAt)).
		OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWithNewValues())
	if err := execInsert(ctx, r.db, ins); err != nil {
		return fmt.Errorf("upsert learning goal %s: %w", g.ID, err)
	}
	return nil
}

func (r *goalRepo) Find(ctx context.Context, id string) (*domain.LearningGoal, error) {
	b := builder()
	sel := b.Select(goalColumns...).From(b.Table("learning_goals")).Where(entsql.EQ("id", id))
	g, err := queryOne(ctx, r.db, sel, scanGoal)
	if err != nil {
		return nil, fmt.Errorf("find learning goal %s: %w", id, err)
	}
	return g, nil
}

func (r *goalRepo) List(ctx context.Context) ([]domain.LearningGoal, error) {
	b := builder()
	sel := b.Select(goalColumns...).From(b.Table("learning_goals")).
		OrderBy(entsql.Asc("created_at"), entsql.Asc("id"))
	out, err := queryAll(ctx, r.db, sel, scanGoal)
	if err != nil {
		return nil, fmt.Errorf("list learning goals: %w", err)
	}
	return out, nil
}

func scanGoal(row rowScanner) (domain.LearningGoal, error) {
	var (
		g       domain.LearningGoal
		created string
	)
	if err := row.Scan(&g.ID, &g.Title, &g.Milestone, &g.Confidence, &created); err != nil {
		return g, err
	}
	var tp timeParser
	g.CreatedAt = tp.text(created)
	return g, tp.err
}

var sessionColumns = []string{
	"id", "goal_id", "title", "lifecycle_state", "priority_score", "duration_minutes",
	"artifact_kind", "artifact_ref", "checkpoint_note", "started_at", "completed_at",
}

// sessionRepo implements SessionRepo.
type sessionRepo struct {
	db *sql.DB
}

func (r *sessionRepo) Upsert(ctx context.Context, s domain.LearningSession) error {
	state := s.State
	if state == "" {
		state = domain.StateReady
	}
	ins := builder().Insert("learning_sessions").
		Columns(sessionColumns...).
		Values(
			s.ID, s.GoalID, s.Title, string(state), domain.ClampPriority(s.Priority), max(s.DurationMinutes, 0),
			nullString(s.ArtifactKind), nullString(s.ArtifactRef), nullString(s.CheckpointNote),
			nullTime(s.StartedAt), nullTime(s.CompletedAt),
		).
		OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWithNewValues())
	if err := execInsert(ctx, r.db, ins); err != nil {
		return fmt.Errorf("upsert learning session %s: %w", s.ID, err)
	}
	return nil
}

func (r *sessionRepo) Find(ctx context.Context, id string) (*domain.LearningSession, error) {
	b := builder()
	sel := b.Select(sessionColumns...).From(b.Table("learning_sessions")).Where(entsql.EQ("id", id))
	s, err := queryOne(ctx, r.db, sel, scanSession)
	if err != nil {
		return nil, fmt.Errorf("find learning session %s: %w", id, err)
	}
	return s, nil
}

func (r *sessionRepo) ListByGoal(ctx context.Context, goalID string) ([]domain.LearningSession, error) {
	b := builder()
	sel := b.Select(sessionColumns...).From(b.Table("learning_sessions")).
		Where(entsql.EQ("goal_id", goalID)).
		OrderExpr(entsql.Expr("COALESCE(completed_at, started_at, id)")).
		OrderBy(entsql.Asc("id"))
	out, err := queryAll(ctx, r.db, sel, scanSession)
	if err != nil {
		return nil, fmt.Errorf("list learning sessions for goal %s: %w", goalID, err)
	}
	return out, nil
}

func (r *sessionRepo) List(ctx context.Context) ([]domain.LearningSession, error) {
	b := builder()
	sel := b.Select(sessionColumns...).From(b.Table("learning_sessions")).
		OrderBy(entsql.Asc("id"))
	out, err := queryAll(ctx, r.db, sel, scanSession)
	if err != nil {
		return nil, fmt.Errorf("list learning sessions: %w", err)
	}
	return out, nil
}

func scanSession(row rowScanner) (domain.LearningSession, error) {
	var (
		s                  domain.LearningSession
		state              sql.NullString
		kind, ref, note    sql.NullString
		started, completed sql.NullString
	)
	if err := row.Scan(
		&s.ID, &s.GoalID, &s.Title, &state, &s.Priority, &s.DurationMinutes,
		&kind, &ref, &note, &started, &completed,
	); err != nil {
		return s, err
	}

	st, err := decodeSessionState(state)
	if err != nil {
		return s, err
	}
	s.State = st
	s.ArtifactKind = kind.String
	s.ArtifactRef = ref.String
	s.CheckpointNote = note.String

	var tp timeParser
	s.StartedAt = tp.parse(started)
	s.CompletedAt = tp.parse(completed)
	return s, tp.err
}

// decodeSessionState reads lifecycle_state; rows written before sessions
// had a lifecycle were always completed ones.
func decodeSessionState(ns sql.NullString) (domain.LifecycleState, error) {
	if !ns.Valid || ns.String == "" {
		return domain.StateCompleted, nil
	}
	return domain.ParseLifecycleState(ns.String)
}
