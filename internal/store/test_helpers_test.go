package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/deepclone/internal/clone"
)

// createTestStore creates a new store in a temp directory for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRun creates a passing run with minimal required fields.
func createTestRun(id, fixture, mode string) Run {
	return Run{
		ID:                id,
		CallID:            "call-" + id,
		Command:           "verify",
		Fixture:           fixture,
		Mode:              mode,
		Stats:             clone.Stats{Visited: 4},
		SourceFingerprint: "src",
		CloneFingerprint:  "src",
		Pass:              true,
	}
}
