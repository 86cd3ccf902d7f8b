package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/habitrpg/internal/domain"
)

var actionColumns = []string{
	"id", "parent_id", "title", "track_type", "status",
	"runtime_state", "priority_score", "started_at", "completed_at",
}

// actionRepo implements ActionRepo.
type actionRepo struct {
	db *sql.DB
}

func (r *actionRepo) Upsert(ctx context.Context, a domain.ActionUnit) error {
	track := a.Track
	if track == "" {
		track = domain.TrackLife
	}
	state := a.State
	if state == "" {
		state = domain.LifecycleFromStatus(a.Status)
	}
	ins := builder().Insert("action_units").
		Columns(actionColumns...).
		Values(
			a.ID, a.ParentID, a.Title, string(track), string(domain.StatusFor(state)),
			string(state), domain.ClampPriority(a.Priority), nullTime(a.StartedAt), nullTime(a.CompletedAt),
		).
		OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWithNewValues())
	if err := execInsert(ctx, r.db, ins); err != nil {
		return fmt.Errorf("upsert action unit %s: %w", a.ID, err)
	}
	return nil
}

func (r *actionRepo) Find(ctx context.Context, id string) (*domain.ActionUnit, error) {
	b := builder()
	sel := b.Select(actionColumns...).From(b.Table("action_units")).Where(entsql.EQ("id", id))
	a, err := queryOne(ctx, r.db, sel, scanAction)
	if err != nil {
		return nil, fmt.Errorf("find action unit %s: %w", id, err)
	}
	return a, nil
}

func (r *actionRepo) ListByTrack(ctx context.Context, track domain.TrackType) ([]domain.ActionUnit, error) {
	b := builder()
	sel := b.Select(actionColumns...).From(b.Table("action_units")).
		Where(entsql.EQ("track_type", string(track))).
		OrderBy(entsql.Asc("id"))
	out, err := queryAll(ctx, r.db, sel, scanAction)
	if err != nil {
		return nil, fmt.Errorf("list %s action units: %w", track, err)
	}
	return out, nil
}

func scanAction(row rowScanner) (domain.ActionUnit, error) {
	var (
		a                  domain.ActionUnit
		track, status      string
		runtimeState       sql.NullString
		started, completed sql.NullString
	)
	if err := row.Scan(
		&a.ID, &a.ParentID, &a.Title, &track, &status,
		&runtimeState, &a.Priority, &started, &completed,
	); err != nil {
		return a, err
	}

	var err error
	if a.Track, err = domain.ParseTrackType(track); err != nil {
		return a, err
	}
	if a.Status, err = domain.ParseActionStatus(status); err != nil {
		return a, err
	}
	if a.State, err = decodeActionState(runtimeState, a.Status); err != nil {
		return a, err
	}

	var tp timeParser
	a.StartedAt = tp.parse(started)
	a.CompletedAt = tp.parse(completed)
	return a, tp.err
}

// decodeActionState reads runtime_state, deriving it from the legacy
// status only when the column is empty.
func decodeActionState(runtimeState sql.NullString, status domain.ActionStatus) (domain.LifecycleState, error) {
	if !runtimeState.Valid || runtimeState.String == "" {
		return domain.LifecycleFromStatus(status), nil
	}
	return domain.ParseLifecycleState(runtimeState.String)
}
