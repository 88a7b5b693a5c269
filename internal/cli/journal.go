package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/roach88/deepclone/internal/store"
)

// openJournal opens the run journal named by --journal. It returns a nil
// store when journaling is off.
func openJournal(opts *RootOptions, f *OutputFormatter) (*store.Store, error) {
	if opts.Journal == "" {
		return nil, nil
	}
	j, err := store.Open(opts.Journal)
	if err != nil {
		return nil, f.Fail(ErrCodeJournal, err.Error(), map[string]any{"journal": opts.Journal})
	}
	f.VerboseLog("Journaling runs to %s", opts.Journal)
	return j, nil
}

// journalKey is the fixture identity used in the journal: the absolute
// path when it can be resolved.
func journalKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// recordRun appends run to j under a fresh id. A nil journal is a no-op.
func recordRun(ctx context.Context, j *store.Store, f *OutputFormatter, run store.Run) error {
	if j == nil {
		return nil
	}
	run.ID = uuid.Must(uuid.NewV7()).String()
	seq, err := j.WriteRun(ctx, run)
	if err != nil {
		return f.Fail(ErrCodeJournal, err.Error(), nil)
	}
	f.VerboseLog("Journaled %s run #%d for %s", run.Command, seq, run.Fixture)
	return nil
}

// closeJournal closes j if journaling is on.
func closeJournal(j *store.Store) {
	if j != nil {
		j.Close()
	}
}

func driftDetail(prev store.Run) string {
	return fmt.Sprintf("clone fingerprint changed since run #%d", prev.Seq)
}
