// Package clone duplicates value graphs while preserving aliasing and cycles.
//
// ARCHITECTURE:
//
// A call to Clone owns one Tracker, one worklist and one Stats. Nothing is
// shared between calls, so a Cloner is safe for concurrent use.
//
// Traversal:
//  1. The root is classified; non-containers come back unchanged.
//  2. Each newly seen container gets an empty (or shallow) target shell.
//  3. The shell is registered in the Tracker BEFORE any member is visited.
//     Any later reference to the same source resolves to that shell, which
//     is what closes cycles and keeps aliases aliased.
//  4. The shell is pushed onto an explicit worklist; members are filled in
//     when it is popped. Stack depth is bounded regardless of graph depth.
//
// Modes:
//
//   - ModeAlias duplicates records and sequences. Every other nested
//     container (maps, sets, dates, patterns, buffers, views) is shared.
//   - ModeCopy additionally rebuilds every special container through its
//     handler, including map and set entries and buffer views, so the
//     result owns independent storage throughout.
//
// Opaque handles are returned by reference in both modes.
package clone
