package harness

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/deepclone/internal/clone"
	"github.com/roach88/deepclone/internal/fixture"
	"github.com/roach88/deepclone/internal/graphcheck"
	"github.com/roach88/deepclone/internal/testutil"
	"github.com/roach88/deepclone/internal/value"
)

// Harness is the scenario execution engine.
type Harness struct {
	logger *slog.Logger
	ids    *testutil.SequentialIDs
}

// Option configures a Harness.
type Option func(*Harness)

// WithLogger routes clone logs to l. Default: discarded.
func WithLogger(l *slog.Logger) Option {
	return func(h *Harness) {
		h.logger = l
	}
}

// New creates a Harness.
func New(opts ...Option) *Harness {
	h := &Harness{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		ids:    testutil.NewSequentialIDs("scenario"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run executes a scenario with a default Harness.
func Run(scenario *Scenario) (*Result, error) {
	return New().Run(scenario)
}

// Run loads the scenario's fixture, clones it and evaluates the assertions.
//
// Execution flow:
// 1. Build the source graph from the inline fixture or fixture file
// 2. Clone it in the scenario's mode
// 3. Evaluate assertions against source and clone
//
// An error is returned when the scenario cannot execute; failed assertions
// are reported through Result.Errors.
func (h *Harness) Run(scenario *Scenario) (*Result, error) {
	src, err := loadFixture(scenario)
	if err != nil {
		return nil, fmt.Errorf("failed to load fixture: %w", err)
	}

	mode := clone.ParseMode(scenario.Mode)
	var callID string
	c := clone.New(
		clone.WithMode(mode),
		clone.WithLogger(h.logger.With("scenario", scenario.Name)),
		clone.WithCallID(func() string {
			callID = h.ids.Next()
			return callID
		}),
	)
	dst, stats, err := c.CloneWithStats(src)
	if err != nil {
		return nil, fmt.Errorf("failed to clone fixture: %w", err)
	}

	result := NewResult(scenario.Name)
	result.Mode = mode.String()
	result.CallID = callID
	result.Stats = stats
	result.Source = src
	result.Clone = dst
	result.SourceFingerprint = graphcheck.Fingerprint(src)
	result.CloneFingerprint = graphcheck.Fingerprint(dst)

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

func loadFixture(s *Scenario) (value.Value, error) {
	if s.FixtureFile != "" {
		return fixture.LoadFile(s.FixtureFile)
	}
	return fixture.DecodeNode(&s.Fixture, s.Name)
}
