package clone

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/roach88/deepclone/internal/value"
)

// Stats summarizes one clone call.
type Stats struct {
	Visited   int `json:"visited"`   // sources registered in the tracker
	Rebuilt   int `json:"rebuilt"`   // special containers rebuilt by a handler
	Shared    int `json:"shared"`    // containers and opaque handles passed by reference
	Fallbacks int `json:"fallbacks"` // failed rebuilds degraded to sharing
	Skipped   int `json:"skipped"`   // detached views omitted
}

// Cloner clones value graphs. The zero value is not usable; call New.
//
// Thread-safety: a Cloner holds configuration only. Every call allocates
// its own tracker, so Clone may be called concurrently.
type Cloner struct {
	mode   Mode
	logger *slog.Logger
	callID func() string
}

// Option configures a Cloner.
type Option func(*Cloner)

// WithMode sets the clone mode. Unknown modes behave as ModeAlias.
func WithMode(m Mode) Option {
	return func(c *Cloner) {
		c.mode = m.normalize()
	}
}

// WithLogger sets the structured logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Cloner) {
		c.logger = l
	}
}

// WithCallID sets the generator for per-call correlation ids.
// Default: UUIDv7 strings.
func WithCallID(fn func() string) Option {
	return func(c *Cloner) {
		c.callID = fn
	}
}

// New creates a Cloner. Options are applied in order.
func New(opts ...Option) *Cloner {
	c := &Cloner{
		mode:   ModeAlias,
		callID: newCallID,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func newCallID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Mode returns the configured mode.
func (c *Cloner) Mode() Mode {
	return c.mode
}

// Clone returns a copy of root.
//
//   - A nil root (no value supplied) yields a new empty Record.
//   - A root that is not cloneable is returned unchanged.
//   - Otherwise a new graph is returned, with every alias and cycle of
//     root reproduced among the new containers.
//
// The only error is INVALID_INPUT, for a typed-nil container anywhere in
// the graph.
func (c *Cloner) Clone(root value.Value) (value.Value, error) {
	out, _, err := c.CloneWithStats(root)
	return out, err
}

// CloneWithStats is Clone that also reports what the call did.
func (c *Cloner) CloneWithStats(root value.Value) (value.Value, Stats, error) {
	if root == nil {
		return value.NewRecord(), Stats{}, nil
	}
	if !IsCloneable(root) {
		return root, Stats{}, nil
	}
	if value.IsNil(root) {
		return nil, Stats{}, NewInvalidInputError(root.Kind())
	}

	logger := c.logger
	if logger == nil {
		logger = slog.Default()
	}
	cl := &call{
		mode: c.mode.normalize(),
		refs: NewTracker(),
		log:  logger.With("call_id", c.callID()),
	}

	cl.log.Debug("clone started", "mode", cl.mode.String(), "root", root.Kind().String())

	out, err := cl.run(root)
	cl.stats.Visited = cl.refs.Len()
	if err != nil {
		cl.log.Error("clone failed", "error", err)
		return nil, cl.stats, err
	}

	cl.log.Debug("clone finished",
		"visited", cl.stats.Visited,
		"rebuilt", cl.stats.Rebuilt,
		"shared", cl.stats.Shared,
		"fallbacks", cl.stats.Fallbacks,
		"skipped", cl.stats.Skipped,
	)
	return out, cl.stats, nil
}

// Clone clones v with a default Cloner. The optional mode defaults to
// ModeAlias; only the first mode argument is used.
func Clone(v value.Value, mode ...Mode) (value.Value, error) {
	m := ModeAlias
	if len(mode) > 0 {
		m = mode[0]
	}
	return New(WithMode(m)).Clone(v)
}
