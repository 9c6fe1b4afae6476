// pkg/store/memory.go
package store

import (
	"fmt"
	"sync"
	"time"

	"github.com/praetorian-inc/vouch/pkg/types"
)

// MemoryStore implements Store in memory, for tests and one-shot runs.
type MemoryStore struct {
	mu      sync.RWMutex
	nextRun int64
	runs    map[int64]string
	results map[int64][]*Result
}

// NewMemory creates a new in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		nextRun: 1,
		runs:    make(map[int64]string),
		results: make(map[int64][]*Result),
	}
}

// BeginRun records the start of a batch run.
func (s *MemoryStore) BeginRun(source string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextRun
	s.nextRun++
	s.runs[id] = source
	return id, nil
}

// AddRecord stores one outcome record; the secret is hashed first.
func (s *MemoryStore) AddRecord(runID int64, record *types.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[runID]; !ok {
		return fmt.Errorf("unknown run: %d", runID)
	}

	s.results[runID] = append(s.results[runID], &Result{
		RunID:       runID,
		SecretHash:  HashSecret(record.Secret),
		Kind:        record.Kind,
		Checker:     record.Checker,
		Status:      record.Outcome.Status,
		Message:     record.Outcome.Message,
		Elapsed:     record.Elapsed,
		NotifyError: record.NotifyError,
		CreatedAt:   time.Now(),
	})
	return nil
}

// GetResults retrieves all results for a run in insertion order.
func (s *MemoryStore) GetResults(runID int64) ([]*Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]*Result, len(s.results[runID]))
	copy(results, s.results[runID])
	return results, nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}
