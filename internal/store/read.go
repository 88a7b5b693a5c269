package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

const runColumns = `id, seq, call_id, command, fixture, mode,
	visited, rebuilt, shared, fallbacks, skipped,
	source_fingerprint, clone_fingerprint, pass, errors`

// ReadRuns returns the runs matching f ordered by seq ASC, id ASC.
//
// Returns an empty slice (not nil) if nothing matches.
func (s *Store) ReadRuns(ctx context.Context, f Filter) ([]Run, error) {
	var (
		where []string
		args  []any
	)
	if f.Fixture != "" {
		where = append(where, "fixture = ?")
		args = append(args, f.Fixture)
	}
	if f.Mode != "" {
		where = append(where, "mode = ?")
		args = append(args, f.Mode)
	}
	if f.Command != "" {
		where = append(where, "command = ?")
		args = append(args, f.Command)
	}

	query := "SELECT " + runColumns + " FROM runs"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	if f.Limit > 0 {
		// Take the newest N, then restore ascending order.
		query = "SELECT * FROM (" + query + " ORDER BY seq DESC LIMIT ?)"
		args = append(args, f.Limit)
	}
	query += " ORDER BY seq ASC, id COLLATE BINARY ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// Latest returns the most recent run for a fixture, mode and command.
// ok is false when none has been journaled.
func (s *Store) Latest(ctx context.Context, fixture, mode, command string) (run Run, ok bool, err error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+runColumns+`
		FROM runs
		WHERE fixture = ? AND mode = ? AND command = ?
		ORDER BY seq DESC
		LIMIT 1
	`, fixture, mode, command)

	run, err = scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, false, nil
	}
	if err != nil {
		return Run{}, false, err
	}
	return run, true, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var (
		run      Run
		pass     int
		errsJSON string
	)
	err := row.Scan(
		&run.ID,
		&run.Seq,
		&run.CallID,
		&run.Command,
		&run.Fixture,
		&run.Mode,
		&run.Stats.Visited,
		&run.Stats.Rebuilt,
		&run.Stats.Shared,
		&run.Stats.Fallbacks,
		&run.Stats.Skipped,
		&run.SourceFingerprint,
		&run.CloneFingerprint,
		&pass,
		&errsJSON,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, err
	}
	if err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}

	run.Pass = pass != 0
	if run.Errors, err = unmarshalErrors(errsJSON); err != nil {
		return Run{}, err
	}
	return run, nil
}
