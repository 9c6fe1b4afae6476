// pkg/store/schema.go
package store

import "database/sql"

// Schema for the validation run database.
const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	source TEXT NOT NULL,
	started_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS results (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id INTEGER NOT NULL REFERENCES runs(id),
	secret_hash TEXT NOT NULL,
	kind TEXT NOT NULL,
	checker TEXT NOT NULL,
	status TEXT NOT NULL,
	message TEXT NOT NULL DEFAULT '',
	elapsed_ns INTEGER NOT NULL DEFAULT 0,
	notify_error TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_results_run ON results(run_id);
CREATE INDEX IF NOT EXISTS idx_results_hash ON results(secret_hash);
`

// CreateSchema initializes the database schema.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
