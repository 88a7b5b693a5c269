package clone

import "github.com/roach88/deepclone/internal/value"

// Tracker maps source containers to the targets created for them during a
// single clone call.
//
// Keys are interface values holding pointers, so lookups use reference
// identity: two structurally equal sources are two entries. Every newly
// registered source is also given a monotonically increasing id.
//
// A Tracker is not safe for concurrent use. It is meant to live exactly as
// long as one call.
type Tracker struct {
	ids     map[value.Value]uint64
	targets []value.Value // targets[id-1]
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{ids: make(map[value.Value]uint64)}
}

// Lookup returns the target registered for src.
func (t *Tracker) Lookup(src value.Value) (value.Value, bool) {
	id, ok := t.ids[src]
	if !ok {
		return nil, false
	}
	return t.targets[id-1], true
}

// Register records target for src and returns src's id.
// A source is registered at most once; later calls return the existing id
// and keep the first target.
func (t *Tracker) Register(src, target value.Value) uint64 {
	if id, ok := t.ids[src]; ok {
		return id
	}
	t.targets = append(t.targets, target)
	id := uint64(len(t.targets))
	t.ids[src] = id
	return id
}

// ID returns the id allocated to src.
func (t *Tracker) ID(src value.Value) (uint64, bool) {
	id, ok := t.ids[src]
	return id, ok
}

// Len returns the number of registered sources.
func (t *Tracker) Len() int {
	return len(t.targets)
}
