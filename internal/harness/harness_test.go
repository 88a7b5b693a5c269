package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/deepclone/internal/graphcheck"
	"github.com/roach88/deepclone/internal/value"
)

func TestScenarios(t *testing.T) {
	scenarios, err := LoadScenarios(filepath.Join("testdata", "scenarios"))
	require.NoError(t, err)
	require.Len(t, scenarios, 6)

	for _, s := range scenarios {
		t.Run(s.Name, func(t *testing.T) {
			result, err := Run(s)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
			assert.Empty(t, result.Errors)
		})
	}
}

func TestRunWithGolden(t *testing.T) {
	for _, name := range []string{"copy_kitchen", "detached_view"} {
		t.Run(name, func(t *testing.T) {
			s, err := LoadScenario(filepath.Join("testdata", "scenarios", name+".yaml"))
			require.NoError(t, err)

			result, err := RunWithGolden(t, s)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestRun_RootAnchorCycle(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: root_cycle
description: alias back to the fixture root
fixture: &top
  me: *top
assertions:
  - type: same
    paths: ["", me]
`))
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)

	self, err := graphcheck.Resolve(result.Source, "me")
	require.NoError(t, err)
	assert.Same(t, result.Source, self)
	assert.Equal(t, result.SourceFingerprint, result.CloneFingerprint)
}

func TestRun_FailingAssertions(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: failing
description: every assertion here fails
fixture:
  bar: {x: 1}
  map: !map [[a, 1], [b, 2]]
  buf: !buffer ff
assertions:
  - type: distinct
    path: map
  - type: shared
    path: bar
  - type: order
    path: map
    keys: [b, a]
  - type: absent
    path: bar
  - type: independent
    path: buf
  - type: same
    paths: [bar, map]
  - type: stats
    expect: {visited: 99}
  - type: distinct
    path: bar.x
`))
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 8)
	assert.Contains(t, result.Errors[0], "Assertion failed: distinct at \"map\"")
	assert.Contains(t, result.Errors[2], "Expected: [b, a]")
	assert.Contains(t, result.Errors[2], "Actual: [a, b]")
	assert.Contains(t, result.Errors[4], "Assertion failed: independent")
	assert.Contains(t, result.Errors[6], "visited=2 (want 99)")
	assert.Contains(t, result.Errors[7], "Expected: a reference")

	buf, err := graphcheck.Resolve(result.Source, "buf")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff}, buf.(*value.Buffer).Bytes(), "independent restores the source byte")
}

func TestRun_Errors(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: bad_fixture
description: the fixture does not load
fixture:
  re: !regexp /(/
assertions:
  - type: equal
`))
	require.NoError(t, err)

	_, err = Run(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load fixture")
}

func TestParseScenario_Validation(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"missing name", "description: d\nfixture: {}\nassertions: [{type: equal}]", "name is required"},
		{"missing description", "name: n\nfixture: {}\nassertions: [{type: equal}]", "description is required"},
		{"bad mode", "name: n\ndescription: d\nmode: deep\nfixture: {}\nassertions: [{type: equal}]", "mode must be alias or copy"},
		{"no fixture", "name: n\ndescription: d\nassertions: [{type: equal}]", "exactly one of fixture and fixture_file"},
		{"both fixtures", "name: n\ndescription: d\nfixture: {}\nfixture_file: f.yaml\nassertions: [{type: equal}]", "exactly one of fixture and fixture_file"},
		{"no assertions", "name: n\ndescription: d\nfixture: {}", "assertions list is required"},
		{"missing type", "name: n\ndescription: d\nfixture: {}\nassertions: [{path: a}]", "type is required"},
		{"unknown type", "name: n\ndescription: d\nfixture: {}\nassertions: [{type: deep}]", "unknown assertion type"},
		{"same with one path", "name: n\ndescription: d\nfixture: {}\nassertions: [{type: same, paths: [a]}]", "at least two paths"},
		{"distinct without path", "name: n\ndescription: d\nfixture: {}\nassertions: [{type: distinct}]", "path is required"},
		{"order without keys", "name: n\ndescription: d\nfixture: {}\nassertions: [{type: order, path: m}]", "path and keys are required"},
		{"unknown stat", "name: n\ndescription: d\nfixture: {}\nassertions: [{type: stats, expect: {copies: 1}}]", "unknown stat"},
		{"typo field", "name: n\ndescription: d\nfixture: {}\nassertion: [{type: equal}]", "failed to parse YAML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadScenario_FixtureFile(t *testing.T) {
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", "copy_kitchen.yaml"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("testdata", "fixtures", "kitchen.yaml"), s.FixtureFile)
	assert.False(t, s.HasFixture())

	_, err = LoadScenario(filepath.Join("testdata", "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestHarness_CallIDsAreSequential(t *testing.T) {
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", "pojo.yaml"))
	require.NoError(t, err)

	h := New()
	first, err := h.Run(s)
	require.NoError(t, err)
	second, err := h.Run(s)
	require.NoError(t, err)

	assert.Equal(t, "scenario-1", first.CallID)
	assert.Equal(t, "scenario-2", second.CallID)
}
