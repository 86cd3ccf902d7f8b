package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/habitrpg/internal/domain"
)

var habitColumns = []string{"id", "title", "cadence", "is_active", "created_at"}

// habitRepo implements HabitRepo.
type habitRepo struct {
	db *sql.DB
}

func (r *habitRepo) Upsert(ctx context.Context, h domain.Habit) error {
	ins := builder().Insert("habits").
		Columns(habitColumns...).
		Values(h.ID, h.Title, h.Cadence, h.IsActive, formatTime(h.CreatedAt)).
		OnConflict(
			entsql.ConflictColumns("id"),
			entsql.ResolveWith(func(u *entsql.UpdateSet) {
				u.SetExcluded("title")
				u.SetExcluded("cadence")
				u.SetExcluded("is_active")
			}),
		)
	if err := execInsert(ctx, r.db, ins); err != nil {
		return fmt.Errorf("upsert habit %s: %w", h.ID, err)
	}
	return nil
}

func (r *habitRepo) Find(ctx context.Context, id string) (*domain.Habit, error) {
	b := builder()
	sel := b.Select(habitColumns...).From(b.Table("habits")).Where(entsql.EQ("id", id))
	h, err := queryOne(ctx, r.db, sel, scanHabit)
	if err != nil {
		return nil, fmt.Errorf("find habit %s: %w", id, err)
	}
	return h, nil
}

func (r *habitRepo) List(ctx context.Context) ([]domain.Habit, error) {
	b := builder()
	sel := b.Select(habitColumns...).From(b.Table("habits")).
		OrderBy(entsql.Asc("created_at"), entsql.Asc("id"))
	out, err := queryAll(ctx, r.db, sel, scanHabit)
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	return out, nil
}

func scanHabit(row rowScanner) (domain.Habit, error) {
	var (
		h       domain.Habit
		created string
	)
	if err := row.Scan(&h.ID, &h.Title, &h.Cadence, &h.IsActive, &created); err != nil {
		return h, err
	}
	var tp timeParser
	h.CreatedAt = tp.text(created)
	return h, tp.err
}

var questColumns = []string{"id", "title", "track_type", "is_completed", "created_at"}

// questRepo implements QuestRepo.
type questRepo struct {
	db *sql.DB
}

func (r *questRepo) Upsert(ctx context.Context, q domain.Quest) error {
	ins := builder().Insert("quests").
		Columns(questColumns...).
		Values(q.ID, q.Title, string(q.Track), q.IsCompleted, formatTime(q.CreatedAt)).
		OnConflict(
			entsql.ConflictColumns("id"),
			entsql.ResolveWith(func(u *entsql.UpdateSet) {
				u.SetExcluded("title")
				u.SetExcluded("track_type")
				u.SetExcluded("is_completed")
			}),
		)
	if err := execInsert(ctx, r.db, ins); err != nil {
		return fmt.Errorf("upsert quest %s: %w", q.ID, err)
	}
	return nil
}

func (r *questRepo) Find(ctx context.Context, id string) (*domain.Quest, error) {
	b := builder()
	sel := b.Select(questColumns...).From(b.Table("quests")).Where(entsql.EQ("id", id))
	q, err := queryOne(ctx, r.db, sel, scanQuest)
	if err != nil {
		return nil, fmt.Errorf("find quest %s: %w", id, err)
	}
	return q, nil
}

func (r *questRepo) List(ctx context.Context) ([]domain.Quest, error) {
	b := builder()
	sel := b.Select(questColumns...).From(b.Table("quests")).
		OrderBy(entsql.Asc("created_at"), entsql.Asc("id"))
	out, err := queryAll(ctx, r.db, sel, scanQuest)
	if err != nil {
		return nil, fmt.Errorf("list quests: %w", err)
	}
	return out, nil
}

func scanQuest(row rowScanner) (domain.Quest, error) {
	var (
		q              domain.Quest
		track, created string
	)
	if err := row.Scan(&q.ID, &q.Title, &track, &q.IsCompleted, &created); err != nil {
		return q, err
	}
	t, err := domain.ParseTrackType(track)
	if err != nil {
		return q, err
	}
	q.Track = t
	var tp timeParser
	q.CreatedAt = tp.text(created)
	return q, tp.err
}
