package harness

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/deepclone/internal/render"
)

// Snapshot renders a result deterministically: a header with the mode and
// statistics, then the clone as a tree.
func Snapshot(r *Result) []byte {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s (%s)\n", r.Name, r.Mode)
	fmt.Fprintf(&sb, "visited=%d rebuilt=%d shared=%d fallbacks=%d skipped=%d\n",
		r.Stats.Visited, r.Stats.Rebuilt, r.Stats.Shared, r.Stats.Fallbacks, r.Stats.Skipped)
	sb.WriteString(render.String(r.Clone))
	return []byte(sb.String())
}

// RunWithGolden executes a scenario and compares its snapshot against a
// golden file stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	AssertGolden(t, scenario.Name, result)
	return result, nil
}

// AssertGolden compares an existing result against its golden file.
func AssertGolden(t *testing.T, name string, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, Snapshot(result))
}
