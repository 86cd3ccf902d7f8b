package store

import (
	"context"

	"github.com/abhisek/habitrpg/internal/domain"
	"github.com/abhisek/habitrpg/internal/prefs"
)

// Every write maps to one statement. Find methods return nil when the id
// is unknown. List methods return a deterministic order.
//
// Timestamps are stored in UTC at second precision. A value with a
// sub-second part or another location reads back truncated and in UTC;
// use domain.Now for values that must round-trip unchanged.

// HabitRepo persists habits.
type HabitRepo interface {
	// Upsert inserts or updates a habit. created_at is never rewritten.
	Upsert(ctx context.Context, h domain.Habit) error
	Find(ctx context.Context, id string) (*domain.Habit, error)
	// List returns all habits ordered by created_at, then id.
	List(ctx context.Context) ([]domain.Habit, error)
}

// QuestRepo persists quests.
type QuestRepo interface {
	// Upsert inserts or updates a quest. created_at is never rewritten.
	Upsert(ctx context.Context, q domain.Quest) error
	Find(ctx context.Context, id string) (*domain.Quest, error)
	// List returns all quests ordered by created_at, then id.
	List(ctx context.Context) ([]domain.Quest, error)
}

// ActionRepo persists action units.
type ActionRepo interface {
	// Upsert writes the action, deriving the legacy status from its
	// lifecycle state and clamping priority to >= 0.
	Upsert(ctx context.Context, a domain.ActionUnit) error
	Find(ctx context.Context, id string) (*domain.ActionUnit, error)
	// ListByTrack returns the track's actions ordered by id.
	ListByTrack(ctx context.Context, track domain.TrackType) ([]domain.ActionUnit, error)
}

// GoalRepo persists learning goals.
type GoalRepo interface {
	Upsert(ctx context.Context, g domain.LearningGoal) error
	Find(ctx context.Context, id string) (*domain.LearningGoal, error)
	// List returns all goals ordered by created_at, then id.
	List(ctx context.Context) ([]domain.LearningGoal, error)
}

// SessionRepo persists learning sessions.
type SessionRepo interface {
	Upsert(ctx context.Context, s domain.LearningSession) error
	Find(ctx context.Context, id string) (*domain.LearningSession, error)
	// ListByGoal returns a goal's sessions ordered by completion time,
	// falling back to start time, then id.
	ListByGoal(ctx context.Context, goalID string) ([]domain.LearningSession, error)
	// List returns all sessions ordered by id.
	List(ctx context.Context) ([]domain.LearningSession, error)
}

// CheckpointRepo persists milestone checkpoints.
type CheckpointRepo interface {
	// Upsert writes the checkpoint, clamping confidence into [1, 5].
	Upsert(ctx context.Context, c domain.MilestoneCheckpoint) error
	Find(ctx context.Context, id string) (*domain.MilestoneCheckpoint, error)
	// ListByGoal returns a goal's checkpoints ordered by submitted_at, then id.
	ListByGoal(ctx context.Context, goalID string) ([]domain.MilestoneCheckpoint, error)
	// List returns all checkpoints ordered by submitted_at, then id.
	List(ctx context.Context) ([]domain.MilestoneCheckpoint, error)
}

// RewardRepo is the append-only reward ledger.
type RewardRepo interface {
	// Append inserts ev. Appending an existing id is a no-op.
	Append(ctx context.Context, ev domain.RewardEvent) error
	Exists(ctx context.Context, id string) (bool, error)
	// ListByTrack returns the track's events ordered by created_at, then id.
	ListByTrack(ctx context.Context, track domain.TrackType) ([]domain.RewardEvent, error)
	// List returns all events ordered by created_at, then id.
	List(ctx context.Context) ([]domain.RewardEvent, error)
}

// UserStateRepo persists the singleton user state row.
type UserStateRepo interface {
	// Load returns the stored state, or the default when no row exists.
	Load(ctx context.Context) (domain.UserState, error)
	Save(ctx context.Context, s domain.UserState) error
}

// PreferencesRepo persists the singleton UI preferences row.
type PreferencesRepo interface {
	// Load returns the stored preferences, or the defaults when no row exists.
	Load(ctx context.Context) (prefs.Preferences, error)
	Save(ctx context.Context, p prefs.Preferences) error
}
