package store

import "github.com/roach88/deepclone/internal/clone"

// Run is one journaled clone run.
type Run struct {
	ID                string      `json:"id"`
	Seq               int64       `json:"seq"`
	CallID            string      `json:"call_id,omitempty"`
	Command           string      `json:"command"`
	Fixture           string      `json:"fixture"`
	Mode              string      `json:"mode"`
	Stats             clone.Stats `json:"stats"`
	SourceFingerprint string      `json:"source_fingerprint"`
	CloneFingerprint  string      `json:"clone_fingerprint"`
	Pass              bool        `json:"pass"`
	Errors            []string    `json:"errors,omitempty"`
}

// Drifted reports whether r cloned the same source as prev into a
// differently shaped graph.
func (r Run) Drifted(prev Run) bool {
	return r.SourceFingerprint == prev.SourceFingerprint &&
		r.CloneFingerprint != prev.CloneFingerprint
}

// Filter narrows ReadRuns. Empty fields match everything.
type Filter struct {
	Fixture string
	Mode    string
	Command string
	Limit   int // most recent N runs, still returned in seq order; 0 is unlimited
}
