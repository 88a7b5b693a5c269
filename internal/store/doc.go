// Package store provides a SQLite-backed journal of clone runs.
//
// Each clone, verify or scenario run executed by the CLI can be recorded
// with its statistics and the fingerprints of the source and the clone.
// The journal never holds the graphs themselves.
//
// # Ordering
//
//   - Runs are ordered by seq, a logical clock assigned on insert, never
//     by wall time
//   - Ties are broken by id COLLATE BINARY so reads are deterministic
//
// # Drift
//
// Comparing a new run with the latest journaled run for the same fixture,
// mode and command shows when a clone's structure changed while the
// source did not.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
