package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// WriteRun appends a run to the journal and returns its seq.
// Writing an id that already exists is a no-op that returns the existing
// seq, so retried writes are idempotent.
func (s *Store) WriteRun(ctx context.Context, run Run) (int64, error) {
	if run.ID == "" {
		return 0, fmt.Errorf("write run: id is required")
	}

	errsJSON, err := marshalErrors(run.Errors)
	if err != nil {
		return 0, fmt.Errorf("write run: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("write run: begin: %w", err)
	}
	defer tx.Rollback()

	var seq int64
	err = tx.QueryRowContext(ctx, `SELECT seq FROM runs WHERE id = ?`, run.ID).Scan(&seq)
	switch {
	case err == nil:
		return seq, nil
	case !errors.Is(err, sql.ErrNoRows):
		return 0, fmt.Errorf("write run: lookup: %w", err)
	}

	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM runs`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("write run: next seq: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, seq, call_id, command, fixture, mode,
		 visited, rebuilt, shared, fallbacks, skipped,
		 source_fingerprint, clone_fingerprint, pass, errors)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		seq,
		run.CallID,
		run.Command,
		run.Fixture,
		run.Mode,
		run.Stats.Visited,
		run.Stats.Rebuilt,
		run.Stats.Shared,
		run.Stats.Fallbacks,
		run.Stats.Skipped,
		run.SourceFingerprint,
		run.CloneFingerprint,
		boolToInt(run.Pass),
		errsJSON,
	)
	if err != nil {
		return 0, fmt.Errorf("write run: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("write run: commit: %w", err)
	}
	return seq, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
