// pkg/store/store.go
package store

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/praetorian-inc/vouch/pkg/types"
)

// Store provides persistence for validation runs.
// This interface abstracts the underlying storage implementation,
// allowing for different backends (SQLite, in-memory).
type Store interface {
	// BeginRun records the start of a batch run and returns its ID.
	BeginRun(source string) (int64, error)

	// AddRecord stores one outcome record under a run. Only a hash of
	// the secret is persisted, never the secret itself.
	AddRecord(runID int64, record *types.Record) error

	// GetResults retrieves all stored results for a run, in insertion
	// order.
	GetResults(runID int64) ([]*Result, error)

	// Close closes the underlying database.
	Close() error
}

// Result is one persisted validation outcome.
type Result struct {
	RunID       int64         `json:"run_id"`
	SecretHash  string        `json:"secret_hash"`
	Kind        string        `json:"kind"`
	Checker     string        `json:"checker"`
	Status      types.Status  `json:"status"`
	Message     string        `json:"message,omitempty"`
	Elapsed     time.Duration `json:"elapsed_ns"`
	NotifyError string        `json:"notify_error,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}

// Config for store initialization.
type Config struct {
	// Path is the database file path.
	// Use ":memory:" for an in-memory store (useful for testing).
	Path string
}

// New creates a new Store. ":memory:" selects the in-memory backend,
// anything else a SQLite file (CGO-free driver).
func New(cfg Config) (Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("path is required")
	}

	if cfg.Path == ":memory:" {
		return NewMemory(), nil
	}

	return NewSQLite(cfg.Path)
}

// HashSecret returns the SHA256 hex digest under which a secret is
// persisted. Raw secrets never reach the database.
func HashSecret(secret string) string {
	h := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(h[:])
}
