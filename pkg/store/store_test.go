// pkg/store/store_test.go
package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/praetorian-inc/vouch/pkg/types"
)

func sampleRecord(secret string, status types.Status) *types.Record {
	return &types.Record{
		Secret:  secret,
		Kind:    "google_api_key",
		Checker: "google_api_key",
		Outcome: types.Outcome{Status: status, Message: "probe result"},
		Elapsed: 120 * time.Millisecond,
	}
}

func roundtrip(t *testing.T, s Store) {
	t.Helper()

	runID, err := s.BeginRun("File: leaked.txt")
	assert.NoError(t, err)

	assert.NoError(t, s.AddRecord(runID, sampleRecord("secret-a", types.StatusValid)))
	assert.NoError(t, s.AddRecord(runID, sampleRecord("secret-b", types.StatusInvalid)))
	assert.NoError(t, s.AddRecord(runID, sampleRecord("secret-c", types.StatusError)))

	results, err := s.GetResults(runID)
	assert.NoError(t, err)
	assert.Len(t, results, 3)

	assert.Equal(t, HashSecret("secret-a"), results[0].SecretHash)
	assert.Equal(t, types.StatusValid, results[0].Status)
	assert.Equal(t, types.StatusInvalid, results[1].Status)
	assert.Equal(t, types.StatusError, results[2].Status)
	assert.Equal(t, "google_api_key", results[0].Kind)
	assert.Equal(t, 120*time.Millisecond, results[0].Elapsed)

	// Raw secrets never land in the store.
	for _, r := range results {
		assert.NotContains(t, r.SecretHash, "secret-")
		assert.Len(t, r.SecretHash, 64)
	}
}

func TestMemoryStore_Roundtrip(t *testing.T) {
	s := NewMemory()
	defer s.Close()
	roundtrip(t, s)
}

func TestSQLiteStore_Roundtrip(t *testing.T) {
	s, err := NewSQLite(filepath.Join(t.TempDir(), "vouch.db"))
	assert.NoError(t, err)
	defer s.Close()
	roundtrip(t, s)
}

func TestSQLiteStore_RunsAreIsolated(t *testing.T) {
	s, err := NewSQLite(filepath.Join(t.TempDir(), "vouch.db"))
	assert.NoError(t, err)
	defer s.Close()

	first, err := s.BeginRun("run-1")
	assert.NoError(t, err)
	second, err := s.BeginRun("run-2")
	assert.NoError(t, err)
	assert.NotEqual(t, first, second)

	assert.NoError(t, s.AddRecord(first, sampleRecord("a", types.StatusValid)))
	assert.NoError(t, s.AddRecord(second, sampleRecord("b", types.StatusInvalid)))

	results, err := s.GetResults(first)
	assert.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, types.StatusValid, results[0].Status)
}

func TestSQLiteStore_ReopenPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vouch.db")

	s, err := NewSQLite(path)
	assert.NoError(t, err)
	runID, err := s.BeginRun("run")
	assert.NoError(t, err)
	assert.NoError(t, s.AddRecord(runID, sampleRecord("a", types.StatusValid)))
	assert.NoError(t, s.Close())

	reopened, err := NewSQLite(path)
	assert.NoError(t, err)
	defer reopened.Close()

	results, err := reopened.GetResults(runID)
	assert.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestMemoryStore_UnknownRun(t *testing.T) {
	s := NewMemory()
	err := s.AddRecord(99, sampleRecord("a", types.StatusValid))
	assert.Error(t, err)
}

func TestNew_SelectsBackend(t *testing.T) {
	mem, err := New(Config{Path: ":memory:"})
	assert.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, mem)

	file, err := New(Config{Path: filepath.Join(t.TempDir(), "x.db")})
	assert.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, file)
	file.Close()

	_, err = New(Config{})
	assert.Error(t, err)
}

func TestHashSecret(t *testing.T) {
	assert.Equal(t, HashSecret("x"), HashSecret("x"))
	assert.NotEqual(t, HashSecret("x"), HashSecret("y"))
	assert.Len(t, HashSecret("anything"), 64)
}
