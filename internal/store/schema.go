package store

import (
	"context"
	"database/sql"
	"fmt"
)

// SchemaVersion is the current schema version.
const SchemaVersion = 1

// schemaV1 is the initial schema for the SQLite store. Nested structures
// (goal, config, simulation results, sensitivity dimensions) are stored as
// JSON; the columns that queries filter or sort on are first-class.
const schemaV1 = `
CREATE TABLE IF NOT EXISTS explorations (
    id TEXT PRIMARY KEY,
    experiment_id TEXT NOT NULL,
    baseline_analysis_id TEXT,
    goal TEXT NOT NULL,          -- JSON
    config TEXT NOT NULL,        -- JSON
    status TEXT NOT NULL,
    current_depth INTEGER NOT NULL DEFAULT 0,
    total_nodes INTEGER NOT NULL DEFAULT 0,
    total_llm_calls INTEGER NOT NULL DEFAULT 0,
    best_success_rate REAL NOT NULL DEFAULT 0,
    started_at TEXT NOT NULL,
    completed_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_explorations_experiment ON explorations(experiment_id);

CREATE TABLE IF NOT EXISTS scenario_nodes (
    id TEXT PRIMARY KEY,
    exploration_id TEXT NOT NULL REFERENCES explorations(id) ON DELETE CASCADE,
    parent_id TEXT REFERENCES scenario_nodes(id),
    depth INTEGER NOT NULL,
    scorecard_params TEXT NOT NULL,   -- JSON
    simulation_results TEXT,          -- JSON
    action_applied TEXT,
    action_category TEXT,
    rationale TEXT,
    execution_time_seconds REAL NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_nodes_exploration ON scenario_nodes(exploration_id);
CREATE INDEX IF NOT EXISTS idx_nodes_parent ON scenario_nodes(parent_id);

CREATE TABLE IF NOT EXISTS sensitivity_results (
    id TEXT PRIMARY KEY,
    experiment_id TEXT NOT NULL,
    result TEXT NOT NULL,             -- JSON
    created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sensitivity_experiment ON sensitivity_results(experiment_id);

CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TEXT NOT NULL
);
`

// InitSchema initializes the database schema.
// It creates all tables and applies migrations as needed.
func InitSchema(ctx context.Context, db *sql.DB) error {
	currentVersion, err := getSchemaVersion(ctx, db)
	if err != nil {
		// Schema version table doesn't exist yet, create fresh schema
		if err := createSchema(ctx, db); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
		return nil
	}

	if currentVersion < SchemaVersion {
		if err := migrateSchema(ctx, db, currentVersion); err != nil {
			return fmt.Errorf("failed to migrate schema: %w", err)
		}
	}

	return nil
}

// getSchemaVersion returns the current schema version from the database.
// Returns 0 and an error if the schema_version table doesn't exist.
func getSchemaVersion(ctx context.Context, db *sql.DB) (int, error) {
	var version int
	err := db.QueryRowContext(ctx, `SELECT MAX(version) FROM schema_version`).Scan(&version)
	if err != nil {
		return 0, err
	}
	return version, nil
}

// createSchema creates the initial database schema.
func createSchema(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, schemaV1); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_version (version, applied_at) VALUES (?, datetime('now'))`,
		SchemaVersion); err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}

	return tx.Commit()
}

// migrateSchema applies migrations from currentVersion to SchemaVersion.
func migrateSchema(ctx context.Context, db *sql.DB, currentVersion int) error {
	// Currently only one version, no migrations needed
	// When we add v2, migrations go here
	_ = currentVersion
	return nil
}
