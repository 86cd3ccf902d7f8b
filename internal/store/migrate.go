package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/habitrpg/internal/logging"
)

// Schema versions:
// v1: habits, quests, action_units, learning_goals, learning_sessions,
//     reward_events, user_state
// v2: action_units lifecycle columns; learning_sessions rebuilt with
//     title, lifecycle_state, priority_score, checkpoint_note, started_at
// v3: milestone_checkpoints and ui_preferences
const CurrentSchemaVersion = 3

var (
	// ErrMigrationFailed wraps an error from a step whose transaction was
	// rolled back.
	ErrMigrationFailed = errors.New("schema migration failed")

	// ErrMigrationIncomplete means the stored version is below the target
	// after every eligible step ran.
	ErrMigrationIncomplete = errors.New("database schema migration incomplete")
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// step is one versioned schema change. apply runs inside the step's
// transaction and must tolerate partially applied legacy shapes.
type step struct {
	version int
	name    string
	apply   func(ctx context.Context, tx *sql.Tx) error
}

// steps lists every migration in version order.
var steps = []step{
	{1, "base tables", applyV1},
	{2, "lifecycle columns", applyV2},
	{3, "checkpoints and preferences", applyV3},
}

// Migrator evolves the schema of a database through ordered steps.
type Migrator struct {
	db  *sql.DB
	log *logging.Logger
}

// NewMigrator creates a Migrator for db. A nil logger discards output.
func NewMigrator(db *sql.DB, log *logging.Logger) *Migrator {
	if log == nil {
		log = logging.Nop()
	}
	return &Migrator{db: db, log: log.With("component", "migrate")}
}

// ReadSchemaVersion returns the stored schema version, creating the meta
// row at version 0 on first use.
func (m *Migrator) ReadSchemaVersion(ctx context.Context) (int, error) {
	if _, err := m.db.ExecContext(ctx, ddlSchemaMeta); err != nil {
		return 0, fmt.Errorf("create schema_meta: %w", err)
	}
	if _, err := m.db.ExecContext(ctx,
		`INSERT INTO schema_meta(id, version) VALUES(1, 0) ON CONFLICT(id) DO NOTHING`); err != nil {
		return 0, fmt.Errorf("seed schema_meta: %w", err)
	}

	var version int
	err := m.db.QueryRowContext(ctx, `SELECT version FROM schema_meta WHERE id = 1`).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return version, nil
}

// RunMigrations applies every step with current < version <= target.
func (m *Migrator) RunMigrations(ctx context.Context, target int) error {
	if target < 0 {
		return fmt.Errorf("migration target must be >= 0, got %d", target)
	}

	current, err := m.ReadSchemaVersion(ctx)
	if err != nil {
		return err
	}

	for _, st := range steps {
		if current >= st.version || target < st.version {
			m.log.Debug("migration skipped", "version", st.version, "name", st.name, "current", current)
			continue
		}
		if err := m.runStep(ctx, st); err != nil {
			m.log.Error("migration failed", "version", st.version, "name", st.name, "error", err)
			return fmt.Errorf("%w: v%d (%s): %w", ErrMigrationFailed, st.version, st.name, err)
		}
		m.log.Info("migration applied", "version", st.version, "name", st.name)

		if current, err = m.ReadSchemaVersion(ctx); err != nil {
			return err
		}
	}

	final, err := m.ReadSchemaVersion(ctx)
	if err != nil {
		return err
	}
	if final < target {
		return fmt.Errorf("%w: at v%d, want v%d", ErrMigrationIncomplete, final, target)
	}
	return nil
}

func (m *Migrator) runStep(ctx context.Context, st step) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := st.apply(ctx, tx); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE schema_meta SET version = ? WHERE id = 1`, st.version); err != nil {
		return fmt.Errorf("set version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func applyV1(ctx context.Context, tx *sql.Tx) error {
	return execAll(ctx, tx, ddlV1)
}

func applyV2(ctx context.Context, tx *sql.Tx) error {
	for _, c := range actionUnitColumnsV2 {
		has, err := columnExists(ctx, tx, "action_units", c.Column)
		if err != nil {
			return err
		}
		if has {
			continue
		}
		q := fmt.Sprintf("ALTER TABLE action_units ADD COLUMN %s %s", c.Column, c.Def)
		if _, err := tx.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("add action_units.%s: %w", c.Column, err)
		}
	}
	if _, err := tx.ExecContext(ctx, backfillRuntimeStateV2); err != nil {
		return fmt.Errorf("backfill runtime_state: %w", err)
	}
	return rebuildSessionsV2(ctx, tx)
}

// rebuildSessionsV2 copies learning_sessions into the v2 shape, computing
// defaults for missing legacy columns. The new table is built under a
// temporary name and renamed after the old one is dropped so references
// from other tables keep naming learning_sessions.
func rebuildSessionsV2(ctx context.Context, tx *sql.Tx) error {
	cols, err := tableColumns(ctx, tx, "learning_sessions")
	if err != nil {
		return err
	}
	complete := true
	for _, c := range sessionColumnsV2 {
		if !cols[c] {
			complete = false
			break
		}
	}
	if complete {
		return nil
	}

	pick := func(col, present, absent string) string {
		if cols[col] {
			return present
		}
		return absent
	}
	copySQL := "INSERT INTO learning_sessions_v2(" +
		"id, goal_id, title, lifecycle_state, priority_score, duration_minutes, artifact_kind, artifact_ref, " +
		"checkpoint_note, started_at, completed_at) SELECT id, goal_id, " +
		strings.Join([]string{
			pick("title", "COALESCE(title, 'Learning Session')", "'Learning Session'"),
			pick("lifecycle_state", "COALESCE(lifecycle_state, 'completed')", "'completed'"),
			pick("priority_score", "COALESCE(priority_score, 100)", "100"),
			"duration_minutes",
			"artifact_kind",
			"artifact_ref",
			pick("checkpoint_note", "checkpoint_note", "NULL"),
			pick("started_at", "started_at", "completed_at"),
			"completed_at",
		}, ", ") +
		" FROM learning_sessions"

	return execAll(ctx, tx, []string{
		`DROP TABLE IF EXISTS learning_sessions_v2`,
		fmt.Sprintf(ddlSessionsV2, "learning_sessions_v2"),
		copySQL,
		`DROP TABLE learning_sessions`,
		`ALTER TABLE learning_sessions_v2 RENAME TO learning_sessions`,
	})
}

func applyV3(ctx context.Context, tx *sql.Tx) error {
	return execAll(ctx, tx, ddlV3)
}

func execAll(ctx context.Context, q querier, stmts []string) error {
	for _, s := range stmts {
		if _, err := q.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("exec %q: %w", firstLine(s), err)
		}
	}
	return nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// tableColumns returns the column names of table using PRAGMA table_info.
func tableColumns(ctx context.Context, q querier, table string) (map[string]bool, error) {
	rows, err := q.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return nil, fmt.Errorf("table_info(%s): %w", table, err)
	}
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var (
			cid       int
			name      string
			ctype     string
			notnull   int
			dfltValue any
			pk        int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dfltValue, &pk); err != nil {
			return nil, fmt.Errorf("scan table_info(%s): %w", table, err)
		}
		cols[name] = true
	}
	return cols, rows.Err()
}

// columnExists reports whether table has column.
func columnExists(ctx context.Context, q querier, table, column string) (bool, error) {
	cols, err := tableColumns(ctx, q, table)
	if err != nil {
		return false, err
	}
	return cols[column], nil
}
