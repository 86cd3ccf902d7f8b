package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/abhisek/habitrpg/internal/logging"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store holds the single database handle and provides access to
// repositories.
type Store struct {
	db  *sql.DB
	log *logging.Logger
}

type options struct {
	log    *logging.Logger
	target int
}

// Option configures Open.
type Option func(*options)

// WithLogger routes migration and store logs to l.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithMigrationTarget migrates to version v instead of CurrentSchemaVersion.
// A target of 0 opens the database without applying any step.
func WithMigrationTarget(v int) Option {
	return func(o *options) { o.target = v }
}

// Open creates a new Store connected to the SQLite database at dsn.
// It applies recommended pragmas and migrates the schema to the target
// version. Migration errors are fatal and returned as is.
func Open(ctx context.Context, dsn string, opts ...Option) (*Store, error) {
	o := options{log: logging.Nop(), target: CurrentSchemaVersion}
	for _, opt := range opts {
		opt(&o)
	}

	db, err := OpenDB(dsn)
	if err != nil {
		return nil, err
	}

	s := &Store{db: db, log: o.log}
	if err := s.Migrator().RunMigrations(ctx, o.target); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// OpenDB opens the raw database handle with pragmas applied and no
// migrations run. The handle is limited to one connection: the process is
// the only writer and pragmas are per connection.
func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	return db, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Migrator returns the migration engine bound to this store's handle.
func (s *Store) Migrator() *Migrator {
	return NewMigrator(s.db, s.log)
}

// Habits returns a HabitRepo backed by this store.
func (s *Store) Habits() HabitRepo { return &habitRepo{db: s.db} }

// Quests returns a QuestRepo backed by this store.
func (s *Store) Quests() QuestRepo { return &questRepo{db: s.db} }

// Actions returns an ActionRepo backed by this store.
func (s *Store) Actions() ActionRepo { return &actionRepo{db: s.db} }

// Goals returns a GoalRepo backed by this store.
func (s *Store) Goals() GoalRepo { return &goalRepo{db: s.db} }

// Sessions returns a SessionRepo backed by this store.
func (s *Store) Sessions() SessionRepo { return &sessionRepo{db: s.db} }

// Checkpoints returns a CheckpointRepo backed by this store.
func (s *Store) Checkpoints() CheckpointRepo { return &checkpointRepo{db: s.db} }

// Rewards returns a RewardRepo backed by this store.
func (s *Store) Rewards() RewardRepo { return &rewardRepo{db: s.db} }

// UserState returns a UserStateRepo backed by this store.
func (s *Store) UserState() UserStateRepo { return &userStateRepo{db: s.db} }

// Preferences returns a PreferencesRepo backed by this store.
func (s *Store) Preferences() PreferencesRepo { return &preferencesRepo{db: s.db} }

// applyPragmas configures SQLite for single-user use. Foreign keys stay
// off so legacy rows that reference missing goals survive the table
// rebuilds done by migrations.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. HABITRPG_DB environment variable
// 2. $XDG_DATA_HOME/habitrpg/habitrpg.db
// 3. ~/.local/share/habitrpg/habitrpg.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("HABITRPG_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "habitrpg", "habitrpg.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
