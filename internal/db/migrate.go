package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// schemaVersion is recorded in PRAGMA user_version after a successful run.
const schemaVersion = 1

// Migrate runs all schema migrations. Statements are idempotent so the whole
// list is replayed on every open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return fmt.Errorf("recording schema version: %w", err)
	}
	return nil
}

// SchemaVersion reads the recorded schema version.
func SchemaVersion(db *sql.DB) (int, error) {
	var v int
	if err := db.QueryRow("PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("reading user_version: %w", err)
	}
	return v, nil
}

var migrations = []string{
	// Tenants and identities

	`CREATE TABLE IF NOT EXISTS companies (
		id                        INTEGER PRIMARY KEY,
		name                      TEXT NOT NULL,
		owner_id                  TEXT NOT NULL DEFAULT '',
		headquarter_id            INTEGER,
		ticket_email              TEXT NOT NULL DEFAULT '',
		default_ticket_analyst_id TEXT NOT NULL DEFAULT '',
		financial_management      INTEGER NOT NULL DEFAULT 0,
		default_hourly_rate       REAL NOT NULL DEFAULT 0,
		default_phase_effort      INTEGER NOT NULL DEFAULT 0,
		task_create_policy        TEXT NOT NULL DEFAULT 'everyone'
		                          CHECK(task_create_policy IN ('everyone','admin_and_creator_only')),
		team_profile              TEXT NOT NULL DEFAULT 'in_house',
		default_language          TEXT NOT NULL DEFAULT 'pt-BR',
		enable_gen_ai             INTEGER NOT NULL DEFAULT 0,
		workdays                  TEXT NOT NULL DEFAULT '',
		created_at                TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS company_holidays (
		company_id INTEGER NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
		holiday    TEXT NOT NULL,
		PRIMARY KEY (company_id, holiday)
	)`,

	`CREATE TABLE IF NOT EXISTS company_subscriptions (
		id         INTEGER PRIMARY KEY,
		company_id INTEGER NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
		plan_id    INTEGER NOT NULL,
		deleted_at TEXT
	)`,

	`CREATE TABLE IF NOT EXISTS users (
		id             TEXT PRIMARY KEY,
		email          TEXT NOT NULL UNIQUE COLLATE NOCASE,
		name           TEXT NOT NULL DEFAULT '',
		platform_admin INTEGER NOT NULL DEFAULT 0,
		created_at     TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS user_companies (
		user_id      TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		company_id   INTEGER NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
		profile      TEXT NOT NULL
		             CHECK(profile IN ('admin_owner','admin','editor','guest')),
		workspace_id INTEGER,
		hourly_rate  REAL NOT NULL DEFAULT 0,
		PRIMARY KEY (user_id, company_id)
	)`,

	`CREATE TABLE IF NOT EXISTS squads (
		id         INTEGER PRIMARY KEY,
		company_id INTEGER NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
		name       TEXT NOT NULL,
		deleted_at TEXT
	)`,

	// Workspaces and catalog

	`CREATE TABLE IF NOT EXISTS workspaces (
		id                  INTEGER PRIMARY KEY,
		company_id          INTEGER NOT NULL REFERENCES companies(id),
		name                TEXT NOT NULL,
		description         TEXT NOT NULL DEFAULT '',
		active              INTEGER NOT NULL DEFAULT 1,
		deleted_at          TEXT,
		ticket_analyst_id   TEXT NOT NULL DEFAULT '',
		default_language    TEXT NOT NULL DEFAULT '',
		enable_gen_ai       INTEGER NOT NULL DEFAULT 0,
		share_audiences     INTEGER NOT NULL DEFAULT 0,
		share_channels      INTEGER NOT NULL DEFAULT 0,
		avatar_id           INTEGER,
		squad_id            INTEGER,
		external_id         TEXT NOT NULL DEFAULT '',
		is_default_template INTEGER NOT NULL DEFAULT 0,
		created_at          TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_workspaces_company ON workspaces(company_id)`,

	`CREATE TABLE IF NOT EXISTS company_workspaces (
		company_id   INTEGER NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
		workspace_id INTEGER NOT NULL REFERENCES workspaces(id) ON DELETE CASCADE,
		active       INTEGER NOT NULL DEFAULT 1,
		PRIMARY KEY (company_id, workspace_id)
	)`,

	`CREATE TABLE IF NOT EXISTS tags (
		id         INTEGER PRIMARY KEY,
		company_id INTEGER NOT NULL,
		name       TEXT NOT NULL,
		type       TEXT NOT NULL CHECK(type IN ('task','project'))
	)`,

	`CREATE INDEX IF NOT EXISTS idx_tags_company_type ON tags(company_id, type)`,

	`CREATE TABLE IF NOT EXISTS workspace_tags (
		workspace_id INTEGER NOT NULL REFERENCES workspaces(id) ON DELETE CASCADE,
		tag_id       INTEGER NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
		PRIMARY KEY (workspace_id, tag_id)
	)`,

	`CREATE TABLE IF NOT EXISTS channels (
		id           INTEGER PRIMARY KEY,
		workspace_id INTEGER NOT NULL REFERENCES workspaces(id) ON DELETE CASCADE,
		media_id     INTEGER NOT NULL,
		name         TEXT NOT NULL DEFAULT '',
		deleted_at   TEXT
	)`,

	`CREATE INDEX IF NOT EXISTS idx_channels_workspace_media ON channels(workspace_id, media_id)`,

	`CREATE TABLE IF NOT EXISTS checklists (
		id         INTEGER PRIMARY KEY,
		company_id INTEGER NOT NULL,
		name       TEXT NOT NULL,
		active     INTEGER NOT NULL DEFAULT 1,
		deleted_at TEXT
	)`,

	`CREATE TABLE IF NOT EXISTS checklist_items (
		id           INTEGER PRIMARY KEY,
		checklist_id INTEGER NOT NULL REFERENCES checklists(id) ON DELETE CASCADE,
		name         TEXT NOT NULL,
		description  TEXT NOT NULL DEFAULT '',
		sequential   INTEGER NOT NULL DEFAULT 0
	)`,

	`CREATE TABLE IF NOT EXISTS forms (
		id         INTEGER PRIMARY KEY,
		company_id INTEGER NOT NULL,
		name       TEXT NOT NULL,
		active     INTEGER NOT NULL DEFAULT 1,
		free_plan  INTEGER NOT NULL DEFAULT 0,
		deleted_at TEXT
	)`,

	`CREATE TABLE IF NOT EXISTS form_fields (
		id      INTEGER PRIMARY KEY,
		form_id INTEGER NOT NULL REFERENCES forms(id) ON DELETE CASCADE,
		label   TEXT NOT NULL DEFAULT '',
		role    TEXT NOT NULL DEFAULT '',
		options TEXT NOT NULL DEFAULT '[]'
	)`,

	// Workflow definitions

	`CREATE TABLE IF NOT EXISTS phases (
		id   INTEGER PRIMARY KEY,
		name TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS task_types (
		id                 INTEGER PRIMARY KEY,
		company_id         INTEGER NOT NULL,
		workflow_shared    INTEGER NOT NULL DEFAULT 0,
		name               TEXT NOT NULL,
		description        TEXT NOT NULL DEFAULT '',
		allocation         TEXT NOT NULL CHECK(allocation IN ('agile','workload')),
		default_effort     INTEGER NOT NULL DEFAULT 0,
		lead_time          INTEGER NOT NULL DEFAULT 0,
		phase_start_policy TEXT NOT NULL DEFAULT 'template'
		                   CHECK(phase_start_policy IN ('template','next_day_after_previous_phase')),
		deleted_at         TEXT
	)`,

	`CREATE TABLE IF NOT EXISTS task_type_phases (
		id                INTEGER PRIMARY KEY,
		task_type_id      INTEGER NOT NULL REFERENCES task_types(id) ON DELETE CASCADE,
		phase_id          INTEGER NOT NULL,
		sequential        INTEGER NOT NULL,
		first_phase       INTEGER NOT NULL DEFAULT 0,
		last_phase        INTEGER NOT NULL DEFAULT 0,
		next_phase_id     INTEGER,
		previous_phase_id INTEGER,
		co_phase_id       INTEGER,
		duration          INTEGER NOT NULL DEFAULT 0,
		effort            INTEGER NOT NULL DEFAULT 0,
		executor_id       TEXT NOT NULL DEFAULT '',
		checklist_id      INTEGER,
		days_to_start     INTEGER,
		active            INTEGER NOT NULL DEFAULT 1,
		deleted_at        TEXT
	)`,

	`CREATE INDEX IF NOT EXISTS idx_task_type_phases_type ON task_type_phases(task_type_id, sequential)`,

	`CREATE TABLE IF NOT EXISTS task_type_media (
		task_type_id INTEGER NOT NULL REFERENCES task_types(id) ON DELETE CASCADE,
		media_id     INTEGER NOT NULL,
		PRIMARY KEY (task_type_id, media_id)
	)`,

	`CREATE TABLE IF NOT EXISTS task_type_tags (
		task_type_id INTEGER NOT NULL REFERENCES task_types(id) ON DELETE CASCADE,
		tag_id       INTEGER NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
		PRIMARY KEY (task_type_id, tag_id)
	)`,

	`CREATE TABLE IF NOT EXISTS task_type_forms (
		task_type_id INTEGER NOT NULL REFERENCES task_types(id) ON DELETE CASCADE,
		form_id      INTEGER NOT NULL,
		amount       INTEGER NOT NULL DEFAULT 1,
		PRIMARY KEY (task_type_id, form_id)
	)`,

	`CREATE TABLE IF NOT EXISTS team_members (
		id           INTEGER PRIMARY KEY,
		company_id   INTEGER NOT NULL,
		phase_id     INTEGER NOT NULL,
		workspace_id INTEGER,
		user_id      TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		deleted_at   TEXT
	)`,

	`CREATE INDEX IF NOT EXISTS idx_team_members_lookup ON team_members(company_id, phase_id, workspace_id)`,

	`CREATE TABLE IF NOT EXISTS ticket_phases (
		id         INTEGER PRIMARY KEY,
		name       TEXT NOT NULL,
		sequential INTEGER NOT NULL,
		active     INTEGER NOT NULL DEFAULT 1
	)`,

	// Projects

	`CREATE TABLE IF NOT EXISTS projects (
		id            INTEGER PRIMARY KEY,
		workspace_id  INTEGER NOT NULL REFERENCES workspaces(id),
		name          TEXT NOT NULL,
		alias         TEXT NOT NULL DEFAULT '',
		description   TEXT NOT NULL DEFAULT '',
		start_date    TEXT,
		budget_method TEXT NOT NULL DEFAULT 'calculated'
		              CHECK(budget_method IN ('calculated','informed_in_project')),
		hourly_budget REAL NOT NULL DEFAULT 0,
		is_model      INTEGER NOT NULL DEFAULT 0,
		created_by_id TEXT NOT NULL DEFAULT '',
		created_at    TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS project_tags (
		project_id INTEGER NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		tag_id     INTEGER NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
		PRIMARY KEY (project_id, tag_id)
	)`,

	`CREATE TABLE IF NOT EXISTS project_history (
		id         INTEGER PRIMARY KEY,
		project_id INTEGER NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		task_id    INTEGER,
		user_id    TEXT NOT NULL,
		action     TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,

	// Tasks

	`CREATE TABLE IF NOT EXISTS tasks (
		id                 INTEGER PRIMARY KEY,
		company_id         INTEGER NOT NULL,
		workspace_id       INTEGER NOT NULL REFERENCES workspaces(id),
		project_id         INTEGER REFERENCES projects(id),
		task_type_id       INTEGER NOT NULL,
		planned            INTEGER NOT NULL DEFAULT 1,
		title              TEXT NOT NULL,
		description        TEXT NOT NULL DEFAULT '',
		allocation         TEXT NOT NULL CHECK(allocation IN ('agile','workload')),
		situation          TEXT NOT NULL DEFAULT 'active',
		quantity           INTEGER,
		estimated_time     INTEGER NOT NULL DEFAULT 0,
		priority_group     INTEGER NOT NULL DEFAULT 0,
		priority           TEXT NOT NULL,
		start_date         TEXT NOT NULL,
		due_date           TEXT NOT NULL,
		original_due_date  TEXT NOT NULL,
		phase_start_date   TEXT,
		phase_due_date     TEXT,
		days_to_start      INTEGER NOT NULL DEFAULT 0,
		days_to_complete   INTEGER NOT NULL DEFAULT 0,
		phase_id           INTEGER NOT NULL DEFAULT 0,
		executor_id        TEXT NOT NULL DEFAULT '',
		co_phase_id        INTEGER,
		co_executor_id     TEXT NOT NULL DEFAULT '',
		hourly_rate        REAL,
		hourly_budget      REAL,
		hourly_rate_origin TEXT NOT NULL DEFAULT '',
		placement_start    TEXT,
		placement_end      TEXT,
		set_placement_end  INTEGER NOT NULL DEFAULT 0,
		created_by_id      TEXT NOT NULL,
		created_at         TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id)`,

	`CREATE TABLE IF NOT EXISTS task_flow_phases (
		id                INTEGER PRIMARY KEY,
		task_id           INTEGER NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		phase_id          INTEGER NOT NULL,
		sequential        INTEGER NOT NULL,
		first_phase       INTEGER NOT NULL DEFAULT 0,
		last_phase        INTEGER NOT NULL DEFAULT 0,
		next_phase_id     INTEGER,
		previous_phase_id INTEGER,
		co_phase_id       INTEGER,
		active            INTEGER NOT NULL DEFAULT 1,
		duration          INTEGER NOT NULL DEFAULT 0,
		effort            INTEGER NOT NULL DEFAULT 0,
		executor_id       TEXT NOT NULL DEFAULT '',
		days_to_start     INTEGER,
		start_date        TEXT,
		due_date          TEXT,
		hourly_rate       REAL,
		rate_origin       TEXT NOT NULL DEFAULT ''
	)`,

	`CREATE INDEX IF NOT EXISTS idx_task_flow_task ON task_flow_phases(task_id, sequential)`,

	`CREATE TABLE IF NOT EXISTS task_tags (
		task_id INTEGER NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		tag_id  INTEGER NOT NULL,
		PRIMARY KEY (task_id, tag_id)
	)`,

	`CREATE TABLE IF NOT EXISTS task_channels (
		task_id    INTEGER NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		channel_id INTEGER NOT NULL,
		PRIMARY KEY (task_id, channel_id)
	)`,

	`CREATE TABLE IF NOT EXISTS task_checklists (
		id           INTEGER PRIMARY KEY,
		task_id      INTEGER NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		phase_id     INTEGER NOT NULL,
		checklist_id INTEGER NOT NULL,
		name         TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS task_checklist_items (
		id                INTEGER PRIMARY KEY,
		task_checklist_id INTEGER NOT NULL REFERENCES task_checklists(id) ON DELETE CASCADE,
		name              TEXT NOT NULL,
		description       TEXT NOT NULL DEFAULT '',
		sequential        INTEGER NOT NULL DEFAULT 0
	)`,

	`CREATE TABLE IF NOT EXISTS task_forms (
		id                INTEGER PRIMARY KEY,
		task_id           INTEGER NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		form_id           INTEGER NOT NULL,
		form_name         TEXT NOT NULL,
		payload           TEXT NOT NULL,
		placement_start   TEXT,
		placement_end     TEXT,
		set_placement_end INTEGER NOT NULL DEFAULT 0,
		created_by_id     TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS task_iterations (
		id          INTEGER PRIMARY KEY,
		task_id     INTEGER NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		user_id     TEXT NOT NULL,
		field       TEXT NOT NULL DEFAULT '',
		value       TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL
	)`,

	// Tickets

	`CREATE TABLE IF NOT EXISTS tickets (
		id               INTEGER PRIMARY KEY,
		company_id       INTEGER NOT NULL REFERENCES companies(id),
		workspace_id     INTEGER,
		project_id       INTEGER,
		requester_id     TEXT NOT NULL,
		created_by_id    TEXT NOT NULL,
		subject          TEXT NOT NULL DEFAULT '',
		message          TEXT NOT NULL DEFAULT '',
		type             INTEGER NOT NULL,
		status           TEXT NOT NULL,
		source           TEXT NOT NULL,
		priority         TEXT NOT NULL,
		priority_group   INTEGER NOT NULL DEFAULT 0,
		first_due_date   TEXT,
		expect_due_date  TEXT,
		analyst_id       TEXT NOT NULL DEFAULT '',
		executor_id      TEXT NOT NULL DEFAULT '',
		read             INTEGER NOT NULL DEFAULT 0,
		requester_read   INTEGER NOT NULL DEFAULT 0,
		current_phase_id INTEGER NOT NULL DEFAULT 0,
		created_at       TEXT NOT NULL,
		last_comment_at  TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS ticket_flow_phases (
		id              INTEGER PRIMARY KEY,
		ticket_id       INTEGER NOT NULL REFERENCES tickets(id) ON DELETE CASCADE,
		ticket_phase_id INTEGER NOT NULL,
		sequential      INTEGER NOT NULL,
		executor_id     TEXT NOT NULL DEFAULT ''
	)`,

	`CREATE TABLE IF NOT EXISTS ticket_cc (
		ticket_id INTEGER NOT NULL REFERENCES tickets(id) ON DELETE CASCADE,
		user_id   TEXT NOT NULL,
		email     TEXT NOT NULL,
		PRIMARY KEY (ticket_id, user_id)
	)`,

	`CREATE TABLE IF NOT EXISTS ticket_history (
		id         INTEGER PRIMARY KEY,
		ticket_id  INTEGER NOT NULL REFERENCES tickets(id) ON DELETE CASCADE,
		user_id    TEXT NOT NULL,
		action     TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,

	// Boards and notes

	`CREATE TABLE IF NOT EXISTS boards (
		id            INTEGER PRIMARY KEY,
		workspace_id  INTEGER NOT NULL REFERENCES workspaces(id),
		title         TEXT NOT NULL,
		description   TEXT NOT NULL DEFAULT '',
		active        INTEGER NOT NULL DEFAULT 1,
		start_date    TEXT NOT NULL,
		created_by_id TEXT NOT NULL,
		created_at    TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS note_categories (
		id         INTEGER PRIMARY KEY,
		board_id   INTEGER NOT NULL REFERENCES boards(id) ON DELETE CASCADE,
		title      TEXT NOT NULL,
		sequential INTEGER NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS notes (
		id            INTEGER PRIMARY KEY,
		board_id      INTEGER NOT NULL REFERENCES boards(id) ON DELETE CASCADE,
		category_id   INTEGER NOT NULL REFERENCES note_categories(id),
		title         TEXT NOT NULL DEFAULT '',
		description   TEXT NOT NULL DEFAULT '',
		content       TEXT NOT NULL DEFAULT '',
		active        INTEGER NOT NULL DEFAULT 1,
		created_by_id TEXT NOT NULL,
		created_at    TEXT NOT NULL
	)`,

	// Extracted inline attachments

	`CREATE TABLE IF NOT EXISTS artifacts (
		id            TEXT PRIMARY KEY,
		context       TEXT NOT NULL,
		workspace_id  INTEGER NOT NULL DEFAULT 0,
		object_key    TEXT NOT NULL,
		url           TEXT NOT NULL,
		content_type  TEXT NOT NULL,
		size_bytes    INTEGER NOT NULL DEFAULT 0,
		created_by_id TEXT NOT NULL,
		created_at    TEXT NOT NULL
	)`,
}
