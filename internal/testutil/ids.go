package testutil

import (
	"strconv"
	"sync"
)

// SequentialIDs provides deterministic call ids for tests.
//
// Unlike the UUIDv7 default, SequentialIDs can be reset for test reuse so
// the same scenario logs identical ids every run.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type SequentialIDs struct {
	mu     sync.Mutex
	prefix string
	seq    int
}

// NewSequentialIDs creates a generator whose first id is prefix + "-1".
// An empty prefix defaults to "call".
func NewSequentialIDs(prefix string) *SequentialIDs {
	if prefix == "" {
		prefix = "call"
	}
	return &SequentialIDs{prefix: prefix}
}

// Next returns the next id. Suitable for clone.WithCallID.
func (g *SequentialIDs) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	return g.prefix + "-" + strconv.Itoa(g.seq)
}

// Count returns how many ids have been handed out.
func (g *SequentialIDs) Count() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.seq
}

// Reset restarts the sequence.
func (g *SequentialIDs) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq = 0
}
