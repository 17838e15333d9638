package db

import (
	"database/sql"
	"fmt"
)

// SchemaSQL is the complete schema for fresh installs.
//
// This is the SINGLE SOURCE OF TRUTH for the database schema. Tests load it
// via GetSchemaSQL() instead of hardcoding CREATE TABLE statements, so any
// drift between repository code and schema fails immediately with
// "no such column" at test time.
//
// When adding columns or tables:
//  1. Add a migration in migrations.go
//  2. Update SchemaSQL here
const SchemaSQL = `
-- Ledger entries (one running balance per workspace user)
CREATE TABLE IF NOT EXISTS ledger_entries (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	workspace_id TEXT NOT NULL,
	user_id TEXT NOT NULL,
	balance INTEGER NOT NULL DEFAULT 0,
	last_link TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	UNIQUE(workspace_id, user_id)
);

CREATE INDEX IF NOT EXISTS idx_ledger_workspace ON ledger_entries(workspace_id);

-- Weekly report slots (at most one per workspace; day follows time.Weekday, Sunday=0)
CREATE TABLE IF NOT EXISTS report_schedules (
	workspace_id TEXT PRIMARY KEY,
	report_day INTEGER NOT NULL CHECK(report_day BETWEEN 0 AND 6),
	report_hour INTEGER NOT NULL CHECK(report_hour BETWEEN 0 AND 23),
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Monthly reset policy (at most one per workspace)
CREATE TABLE IF NOT EXISTS reset_modes (
	workspace_id TEXT PRIMARY KEY,
	mode TEXT NOT NULL CHECK(mode IN ('manual', 'automatic')),
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Checklist templates (reusable named lists, unique per workspace)
CREATE TABLE IF NOT EXISTS checklist_templates (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	workspace_id TEXT NOT NULL,
	name TEXT NOT NULL,
	created_by TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	UNIQUE(workspace_id, name)
);

-- Template items; position is the immutable ordering within the template
CREATE TABLE IF NOT EXISTS checklist_items (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	template_id INTEGER NOT NULL,
	item_text TEXT NOT NULL,
	position INTEGER NOT NULL,
	FOREIGN KEY (template_id) REFERENCES checklist_templates(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_checklist_items_template ON checklist_items(template_id);

-- One instance per posting of a template into a channel; never deleted on its own
CREATE TABLE IF NOT EXISTS checklist_instances (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	template_id INTEGER NOT NULL,
	channel_id TEXT NOT NULL,
	message_ts TEXT,
	is_complete INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	completed_at DATETIME,
	FOREIGN KEY (template_id) REFERENCES checklist_templates(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_checklist_instances_template ON checklist_instances(template_id);

-- Fixed set of status rows per instance, seeded at instance creation
CREATE TABLE IF NOT EXISTS checklist_item_statuses (
	instance_id INTEGER NOT NULL,
	item_id INTEGER NOT NULL,
	is_checked INTEGER NOT NULL DEFAULT 0,
	checked_by TEXT,
	checked_at DATETIME,
	PRIMARY KEY (instance_id, item_id),
	FOREIGN KEY (instance_id) REFERENCES checklist_instances(id) ON DELETE CASCADE,
	FOREIGN KEY (item_id) REFERENCES checklist_items(id) ON DELETE CASCADE
);
`

// InitSchema brings the database schema up to date. Fresh installs get the
// modern schema directly and are stamped at the latest migration version;
// existing databases run any pending migrations.
func InitSchema(database *sql.DB) error {
	var tableCount int
	err := database.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableCount)
	if err != nil {
		return fmt.Errorf("failed to inspect schema: %w", err)
	}

	if tableCount == 0 {
		if _, err := database.Exec(SchemaSQL); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
		if _, err := database.Exec(`
			CREATE TABLE IF NOT EXISTS schema_version (
				version INTEGER PRIMARY KEY,
				applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
			)
		`); err != nil {
			return fmt.Errorf("failed to create schema_version: %w", err)
		}
		// Fresh installs already carry every migration's end state.
		for _, m := range migrations {
			if _, err := database.Exec("INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
				return fmt.Errorf("failed to stamp schema version %d: %w", m.Version, err)
			}
		}
		return nil
	}

	return RunMigrations(database)
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}
