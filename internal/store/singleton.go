package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/habitrpg/internal/domain"
	"github.com/abhisek/habitrpg/internal/prefs"
	"github.com/abhisek/habitrpg/internal/queue"
)

// singletonID keys the user_state and ui_preferences rows.
const singletonID = 1

var userStateColumns = []string{"id", "level", "total_xp", "life_xp", "learning_xp", "recovery_tokens"}

// userStateRepo implements UserStateRepo.
type userStateRepo struct {
	db *sql.DB
}

func (r *userStateRepo) Load(ctx context.Context) (domain.UserState, error) {
	b := builder()
	sel := b.Select(userStateColumns[1:]...).From(b.Table("user_state")).Where(entsql.EQ("id", singletonID))
	got, err := queryOne(ctx, r.db, sel, func(row rowScanner) (domain.UserState, error) {
		var s domain.UserState
		err := row.Scan(&s.Level, &s.TotalXP, &s.LifeXP, &s.LearningXP, &s.RecoveryTokens)
		return s, err
	})
	if err != nil {
		return domain.UserState{}, fmt.Errorf("load user state: %w", err)
	}
	if got == nil {
		return domain.NewUserState(), nil
	}
	return *got, nil
}

func (r *userStateRepo) Save(ctx context.Context, s domain.UserState) error {
	ins := builder().Insert("user_state").
		Columns(userStateColumns...).
		Values(singletonID, s.Level, s.TotalXP, s.LifeXP, s.LearningXP, s.RecoveryTokens).
		OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWithNewValues())
	if err := execInsert(ctx, r.db, ins); err != nil {
		return fmt.Errorf("save user state: %w", err)
	}
	return nil
}

var preferenceColumns = []string{
	"id", "preset_mode", "last_non_custom_preset", "motion_level", "sound_level", "density_level",
	"queue_mode", "prompt_concurrency_limit", "nudge_cooldown_seconds", "updated_at",
}

// preferencesRepo implements PreferencesRepo.
type preferencesRepo struct {
	db *sql.DB
}

func (r *preferencesRepo) Load(ctx context.Context) (prefs.Preferences, error) {
	b := builder()
	sel := b.Select(preferenceColumns[1:]...).From(b.Table("ui_preferences")).Where(entsql.EQ("id", singletonID))
	got, err := queryOne(ctx, r.db, sel, scanPreferences)
	if err != nil {
		return prefs.Preferences{}, fmt.Errorf("load ui preferences: %w", err)
	}
	if got == nil {
		return prefs.Default(), nil
	}
	return *got, nil
}

// Save writes p. A Custom last-non-custom preset is stored as Calm since
// the column only admits the two bundles.
func (r *preferencesRepo) Save(ctx context.Context, p prefs.Preferences) error {
	last := p.LastNonCustomPreset
	if last != prefs.PresetSpark {
		last = prefs.PresetCalm
	}
	ins := builder().Insert("ui_preferences").
		Columns(preferenceColumns...).
		Values(
			singletonID, string(p.PresetMode), string(last),
			p.MotionLevel, p.SoundLevel, p.DensityLevel, string(p.QueueMode),
			p.PromptConcurrencyLimit, p.NudgeCooldownSeconds, formatTime(p.UpdatedAt),
		).
		OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWithNewValues())
	if err := execInsert(ctx, r.db, ins); err != nil {
		return fmt.Errorf("save ui preferences: %w", err)
	}
	return nil
}

func scanPreferences(row rowScanner) (prefs.Preferences, error) {
	var (
		p                  prefs.Preferences
		preset, last, mode string
		updated            string
	)
	if err := row.Scan(
		&preset, &last, &p.MotionLevel, &p.SoundLevel, &p.DensityLevel,
		&mode, &p.PromptConcurrencyLimit, &p.NudgeCooldownSeconds, &updated,
	); err != nil {
		return p, err
	}

	var err error
	if p.PresetMode, err = prefs.ParsePresetMode(preset); err != nil {
		return p, err
	}
	if p.LastNonCustomPreset, err = prefs.ParsePresetMode(last); err != nil {
		return p, err
	}
	if p.LastNonCustomPreset == prefs.PresetCustom {
		p.LastNonCustomPreset = prefs.PresetCalm
	}
	if p.QueueMode, err = queue.ParseFilter(mode); err != nil {
		return p, err
	}
	var tp timeParser
	p.UpdatedAt = tp.text(updated)
	return p, tp.err
}
