package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Scenario defines a clone conformance scenario.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Mode is "alias" (default) or "copy".
	Mode string `yaml:"mode,omitempty"`

	// Fixture is the inline source graph.
	Fixture yaml.Node `yaml:"fixture,omitempty"`

	// FixtureFile names a fixture document instead of an inline one.
	// Relative paths are resolved against the scenario file's directory.
	FixtureFile string `yaml:"fixture_file,omitempty"`

	// Assertions validate the clone against the source.
	Assertions []Assertion `yaml:"assertions"`
}

// Assertion is one check of a clone against its source.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Path locates the value under test (graphcheck.Resolve syntax).
	Path string `yaml:"path,omitempty"`

	// Paths lists clone paths that must share one reference (same).
	Paths []string `yaml:"paths,omitempty"`

	// Keys is the expected iteration order (order).
	Keys []any `yaml:"keys,omitempty"`

	// Expect holds expected statistics (stats).
	Expect map[string]int `yaml:"expect,omitempty"`
}

// Assertion type constants.
const (
	AssertSame        = "same"
	AssertDistinct    = "distinct"
	AssertShared      = "shared"
	AssertEqual       = "equal"
	AssertIndependent = "independent"
	AssertOrder       = "order"
	AssertAbsent      = "absent"
	AssertStats       = "stats"
)

// HasFixture reports whether the scenario carries an inline fixture.
func (s *Scenario) HasFixture() bool {
	return s.Fixture.Kind != 0
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	s, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	if s.FixtureFile != "" && !filepath.IsAbs(s.FixtureFile) {
		s.FixtureFile = filepath.Join(filepath.Dir(path), s.FixtureFile)
	}
	if s.FixtureFile != "" {
		if _, err := os.Stat(s.FixtureFile); err != nil {
			return nil, fmt.Errorf("invalid scenario: fixture file not found: %s", s.FixtureFile)
		}
	}
	return s, nil
}

// ParseScenario parses scenario YAML. Unknown fields are rejected.
func ParseScenario(data []byte) (*Scenario, error) {
	var s Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := validateScenario(&s); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &s, nil
}

// LoadScenarios loads every *.yaml and *.yml scenario in dir, sorted by
// file name.
func LoadScenarios(dir string) ([]*Scenario, error) {
	var paths []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		paths = append(paths, matches...)
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(p), err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	switch s.Mode {
	case "", "alias", "copy":
	default:
		return fmt.Errorf("mode must be alias or copy, got %q", s.Mode)
	}
	if s.HasFixture() == (s.FixtureFile != "") {
		return fmt.Errorf("exactly one of fixture and fixture_file is required")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}
	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertSame:
		if len(a.Paths) < 2 {
			return fmt.Errorf("assertions[%d]: same needs at least two paths", index)
		}
	case AssertDistinct, AssertShared, AssertIndependent, AssertAbsent:
		if a.Path == "" {
			return fmt.Errorf("assertions[%d]: path is required for %s", index, a.Type)
		}
	case AssertOrder:
		if a.Path == "" || len(a.Keys) == 0 {
			return fmt.Errorf("assertions[%d]: path and keys are required for order", index)
		}
	case AssertStats:
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for stats", index)
		}
		for k := range a.Expect {
			if _, ok := statFields[k]; !ok {
				return fmt.Errorf("assertions[%d]: unknown stat %q", index, k)
			}
		}
	case AssertEqual:
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
