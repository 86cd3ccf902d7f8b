package store

// DDL for each schema version. Statements are executed one at a time.

const ddlSchemaMeta = `CREATE TABLE IF NOT EXISTS schema_meta (
	id INTEGER PRIMARY KEY CHECK(id = 1),
	version INTEGER NOT NULL
)`

var ddlV1 = []string{
	`CREATE TABLE IF NOT EXISTS habits (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		cadence TEXT NOT NULL,
		is_active INTEGER NOT NULL,
		created_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS quests (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		track_type TEXT NOT NULL CHECK(track_type IN ('life', 'learning')),
		is_completed INTEGER NOT NULL,
		created_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS action_units (
		id TEXT PRIMARY KEY,
		parent_id TEXT NOT NULL,
		title TEXT NOT NULL,
		track_type TEXT NOT NULL CHECK(track_type IN ('life', 'learning')),
		status TEXT NOT NULL CHECK(status IN ('todo', 'in_progress', 'completed')),
		completed_at TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS learning_goals (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		milestone TEXT NOT NULL,
		confidence_level INTEGER NOT NULL,
		created_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS learning_sessions (
		id TEXT PRIMARY KEY,
		goal_id TEXT NOT NULL,
		duration_minutes INTEGER NOT NULL,
		artifact_kind TEXT,
		artifact_ref TEXT,
		completed_at TEXT NOT NULL,
		FOREIGN KEY(goal_id) REFERENCES learning_goals(id)
	)`,
	`CREATE TABLE IF NOT EXISTS reward_events (
		id TEXT PRIMARY KEY,
		source_type TEXT NOT NULL,
		source_id TEXT NOT NULL,
		track_type TEXT NOT NULL CHECK(track_type IN ('life', 'learning')),
		xp_delta INTEGER NOT NULL,
		reward_kind TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS user_state (
		id INTEGER PRIMARY KEY CHECK(id = 1),
		level INTEGER NOT NULL,
		total_xp INTEGER NOT NULL,
		life_xp INTEGER NOT NULL,
		learning_xp INTEGER NOT NULL,
		recovery_tokens INTEGER NOT NULL
	)`,
	`INSERT INTO user_state(id, level, total_xp, life_xp, learning_xp, recovery_tokens)
		VALUES(1, 1, 0, 0, 0, 3)
		ON CONFLICT(id) DO NOTHING`,
}

// actionUnitColumnsV2 are added to action_units when missing.
var actionUnitColumnsV2 = []struct {
	Column string
	Def    string
}{
	{"runtime_state", "TEXT NOT NULL DEFAULT 'ready'"},
	{"priority_score", "INTEGER NOT NULL DEFAULT 100"},
	{"started_at", "TEXT"},
}

const backfillRuntimeStateV2 = `UPDATE action_units
	SET runtime_state = CASE
		WHEN status = 'completed' THEN 'completed'
		WHEN status = 'in_progress' THEN 'active'
		ELSE 'ready'
	END`

// sessionColumnsV2 must all be present for learning_sessions to have the
// v2 shape.
var sessionColumnsV2 = []string{"title", "lifecycle_state", "priority_score", "checkpoint_note", "started_at"}

const ddlSessionsV2 = `CREATE TABLE %s (
	id TEXT PRIMARY KEY,
	goal_id TEXT NOT NULL,
	title TEXT NOT NULL,
	lifecycle_state TEXT NOT NULL CHECK(
		lifecycle_state IN (
			'ready',
			'active',
			'partial',
			'missed',
			'paused',
			'completed',
			'checkpoint_candidate'
		)
	),
	priority_score INTEGER NOT NULL,
	duration_minutes INTEGER NOT NULL,
	artifact_kind TEXT,
	artifact_ref TEXT,
	checkpoint_note TEXT,
	started_at TEXT,
	completed_at TEXT,
	FOREIGN KEY(goal_id) REFERENCES learning_goals(id)
)`

var ddlV3 = []string{
	`CREATE TABLE IF NOT EXISTS milestone_checkpoints (
		id TEXT PRIMARY KEY,
		goal_id TEXT NOT NULL,
		learning_session_id TEXT NOT NULL,
		milestone_key TEXT NOT NULL,
		state TEXT NOT NULL CHECK(state IN ('candidate', 'confirmed', 'rejected')),
		evidence_kind TEXT NOT NULL CHECK(evidence_kind IN ('note', 'snippet', 'exercise', 'reference')),
		evidence_ref TEXT,
		confidence_level INTEGER NOT NULL CHECK(confidence_level BETWEEN 1 AND 5),
		candidate_reason TEXT,
		reward_event_id TEXT UNIQUE,
		submitted_at TEXT NOT NULL,
		reviewed_at TEXT,
		confirmed_at TEXT,
		rejected_at TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		FOREIGN KEY(goal_id) REFERENCES learning_goals(id),
		FOREIGN KEY(learning_session_id) REFERENCES learning_sessions(id)
	)`,
	`CREATE TABLE IF NOT EXISTS ui_preferences (
		id INTEGER PRIMARY KEY CHECK(id = 1),
		preset_mode TEXT NOT NULL CHECK(preset_mode IN ('calm', 'spark', 'custom')),
		last_non_custom_preset TEXT NOT NULL CHECK(last_non_custom_preset IN ('calm', 'spark')),
		motion_level INTEGER NOT NULL CHECK(motion_level BETWEEN 0 AND 2),
		sound_level INTEGER NOT NULL CHECK(sound_level BETWEEN 0 AND 2),
		density_level INTEGER NOT NULL CHECK(density_level BETWEEN 0 AND 2),
		queue_mode TEXT NOT NULL CHECK(queue_mode IN ('mixed', 'life_only', 'learning_only')),
		prompt_concurrency_limit INTEGER NOT NULL,
		nudge_cooldown_seconds INTEGER NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`INSERT INTO ui_preferences(
		id, preset_mode, last_non_custom_preset, motion_level, sound_level, density_level,
		queue_mode, prompt_concurrency_limit, nudge_cooldown_seconds, updated_at
	)
	VALUES(1, 'calm', 'calm', 0, 0, 2, 'mixed', 2, 30, '1970-01-01T00:00:00Z')
	ON CONFLICT(id) DO NOTHING`,
}
