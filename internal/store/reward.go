package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/habitrpg/internal/domain"
)

var rewardColumns = []string{"id", "source_type", "source_id", "track_type", "xp_delta", "reward_kind", "created_at"}

// rewardRepo implements RewardRepo.
type rewardRepo struct {
	db *sql.DB
}

func (r *rewardRepo) Append(ctx context.Context, ev domain.RewardEvent) error {
	ins := builder().Insert("reward_events").
		Columns(rewardColumns...).
		Values(ev.ID, ev.SourceType, ev.SourceID, string(ev.Track), ev.XPDelta, ev.Kind, formatTime(ev.CreatedAt)).
		OnConflict(entsql.ConflictColumns("id"), entsql.DoNothing())
	if err := execInsert(ctx, r.db, ins); err != nil {
		return fmt.Errorf("append reward event %s: %w", ev.ID, err)
	}
	return nil
}

func (r *rewardRepo) Exists(ctx context.Context, id string) (bool, error) {
	b := builder()
	sel := b.Select("id").From(b.Table("reward_events")).Where(entsql.EQ("id", id))
	got, err := queryOne(ctx, r.db, sel, func(row rowScanner) (string, error) {
		var s string
		return s, row.Scan(&s)
	})
	if err != nil {
		return false, fmt.Errorf("check reward event %s: %w", id, err)
	}
	return got != nil, nil
}

func (r *rewardRepo) ListByTrack(ctx context.Context, track domain.TrackType) ([]domain.RewardEvent, error) {
	b := builder()
	sel := b.Select(rewardColumns...).From(b.Table("reward_events")).
		Where(entsql.EQ("track_type", string(track))).
		OrderBy(entsql.Asc("created_at"), entsql.Asc("id"))
	out, err := queryAll(ctx, r.db, sel, scanReward)
	if err != nil {
		return nil, fmt.Errorf("list %s reward events: %w", track, err)
	}
	return out, nil
}

func (r *rewardRepo) List(ctx context.Context) ([]domain.RewardEvent, error) {
	b := builder()
	sel := b.Select(rewardColumns...).From(b.Table("reward_events")).
		OrderBy(entsql.Asc("created_at"), entsql.Asc("id"))
	out, err := queryAll(ctx, r.db, sel, scanReward)
	if err != nil {
		return nil, fmt.Errorf("list reward events: %w", err)
	}
	return out, nil
}

func scanReward(row rowScanner) (domain.RewardEvent, error) {
	var (
		ev             domain.RewardEvent
		track, created string
	)
	if err := row.Scan(&ev.ID, &ev.SourceType, &ev.SourceID, &track, &ev.XPDelta, &ev.Kind, &created); err != nil {
		return ev, err
	}
	t, err := domain.ParseTrackType(track)
	if err != nil {
		return ev, err
	}
	ev.Track = t
	var tp timeParser
	ev.CreatedAt = tp.text(created)
	return ev, tp.err
}
