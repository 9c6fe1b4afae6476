// pkg/store/sqlite.go
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/praetorian-inc/vouch/pkg/types"
)

// SQLiteStore implements Store using the CGO-free modernc SQLite driver.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a SQLite-backed store at the given file path.
func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := CreateSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// BeginRun records the start of a batch run.
func (s *SQLiteStore) BeginRun(source string) (int64, error) {
	res, err := s.db.Exec("INSERT INTO runs (source) VALUES (?)", source)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	return res.LastInsertId()
}

// AddRecord stores one outcome record; the secret is hashed first.
func (s *SQLiteStore) AddRecord(runID int64, record *types.Record) error {
	_, err := s.db.Exec(`
		INSERT INTO results (run_id, secret_hash, kind, checker, status, message, elapsed_ns, notify_error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		runID,
		HashSecret(record.Secret),
		record.Kind,
		record.Checker,
		string(record.Outcome.Status),
		record.Outcome.Message,
		record.Elapsed.Nanoseconds(),
		record.NotifyError,
	)
	if err != nil {
		return fmt.Errorf("inserting result: %w", err)
	}
	return nil
}

// GetResults retrieves all results for a run in insertion order.
func (s *SQLiteStore) GetResults(runID int64) ([]*Result, error) {
	rows, err := s.db.Query(`
		SELECT run_id, secret_hash, kind, checker, status, message, elapsed_ns, notify_error, created_at
		FROM results
		WHERE run_id = ?
		ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying results: %w", err)
	}
	defer rows.Close()

	var results []*Result
	for rows.Next() {
		var r Result
		var status, createdAt string
		var elapsedNS int64

		err := rows.Scan(
			&r.RunID,
			&r.SecretHash,
			&r.Kind,
			&r.Checker,
			&status,
			&r.Message,
			&elapsedNS,
			&r.NotifyError,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}

		r.Status = types.Status(status)
		r.Elapsed = time.Duration(elapsedNS)
		// SQLite stores CURRENT_TIMESTAMP as "YYYY-MM-DD HH:MM:SS" text.
		r.CreatedAt, _ = time.Parse("2006-01-02 15:04:05", createdAt)
		results = append(results, &r)
	}

	return results, rows.Err()
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
