package harness

import (
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/deepclone/internal/clone"
	"github.com/roach88/deepclone/internal/graphcheck"
	"github.com/roach88/deepclone/internal/render"
	"github.com/roach88/deepclone/internal/value"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Path     string // Path under test, if any
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s", e.Type)
	if e.Path != "" {
		fmt.Fprintf(&buf, " at %q", e.Path)
	}
	buf.WriteString("\n")
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)
	return buf.String()
}

var statFields = map[string]func(clone.Stats) int{
	"visited":   func(s clone.Stats) int { return s.Visited },
	"rebuilt":   func(s clone.Stats) int { return s.Rebuilt },
	"shared":    func(s clone.Stats) int { return s.Shared },
	"fallbacks": func(s clone.Stats) int { return s.Fallbacks },
	"skipped":   func(s clone.Stats) int { return s.Skipped },
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errors []string

	for i, a := range assertions {
		var err error

		switch a.Type {
		case AssertSame:
			err = assertSame(result, a)
		case AssertDistinct:
			err = assertIdentity(result, a, false)
		case AssertShared:
			err = assertIdentity(result, a, true)
		case AssertEqual:
			err = assertEqual(result, a)
		case AssertIndependent:
			err = assertIndependent(result, a)
		case AssertOrder:
			err = assertOrder(result, a)
		case AssertAbsent:
			err = assertAbsent(result, a)
		case AssertStats:
			err = assertStats(result, a)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, a.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}

func assertSame(r *Result, a Assertion) error {
	first, err := graphcheck.Resolve(r.Clone, a.Paths[0])
	if err != nil {
		return err
	}
	for _, p := range a.Paths[1:] {
		v, err := graphcheck.Resolve(r.Clone, p)
		if err != nil {
			return err
		}
		if v != first {
			return &AssertionError{
				Type:     AssertSame,
				Path:     p,
				Expected: fmt.Sprintf("the reference at %q", a.Paths[0]),
				Actual:   "a different value",
			}
		}
	}
	return nil
}

// assertIdentity checks that the clone holds (shared) or does not hold
// (distinct) the source's reference at a.Path.
func assertIdentity(r *Result, a Assertion, wantShared bool) error {
	src, err := graphcheck.Resolve(r.Source, a.Path)
	if err != nil {
		return err
	}
	dst, err := graphcheck.Resolve(r.Clone, a.Path)
	if err != nil {
		return err
	}
	if !value.IsContainer(src) && value.KindOf(src) != value.KindOpaque {
		return &AssertionError{
			Type:     a.Type,
			Path:     a.Path,
			Expected: "a reference",
			Actual:   value.KindOf(src).String(),
		}
	}
	if (src == dst) == wantShared {
		return nil
	}
	expected, actual := "a new reference", "the source reference"
	if wantShared {
		expected, actual = actual, expected
	}
	return &AssertionError{Type: a.Type, Path: a.Path, Expected: expected, Actual: actual}
}

func assertEqual(r *Result, a Assertion) error {
	src, dst := r.Source, r.Clone
	if a.Path != "" {
		var err error
		if src, err = graphcheck.Resolve(src, a.Path); err != nil {
			return err
		}
		if dst, err = graphcheck.Resolve(dst, a.Path); err != nil {
			return err
		}
	}
	if graphcheck.Equal(src, dst) {
		return nil
	}
	return &AssertionError{
		Type:     AssertEqual,
		Path:     a.Path,
		Expected: "\n" + render.String(src),
		Actual:   "\n" + render.String(dst),
	}
}

// assertIndependent flips the first byte of the source buffer at a.Path,
// checks the clone did not see the write, and restores the byte.
func assertIndependent(r *Result, a Assertion) error {
	src, err := graphcheck.Resolve(r.Source, a.Path)
	if err != nil {
		return err
	}
	dst, err := graphcheck.Resolve(r.Clone, a.Path)
	if err != nil {
		return err
	}
	srcBytes, ok := bytesOf(src)
	if !ok || len(srcBytes) == 0 {
		return &AssertionError{Type: AssertIndependent, Path: a.Path, Expected: "a non-empty buffer or view", Actual: value.KindOf(src).String()}
	}
	dstBytes, ok := bytesOf(dst)
	if !ok || len(dstBytes) == 0 {
		return &AssertionError{Type: AssertIndependent, Path: a.Path, Expected: "a non-empty buffer or view in the clone", Actual: value.KindOf(dst).String()}
	}

	before := dstBytes[0]
	srcBytes[0] = ^srcBytes[0]
	after := dstBytes[0]
	srcBytes[0] = ^srcBytes[0]

	if before != after {
		return &AssertionError{
			Type:     AssertIndependent,
			Path:     a.Path,
			Expected: fmt.Sprintf("clone byte 0 to stay %#02x", before),
			Actual:   fmt.Sprintf("%#02x after writing the source", after),
		}
	}
	return nil
}

func bytesOf(v value.Value) ([]byte, bool) {
	switch x := v.(type) {
	case *value.Buffer:
		return x.Bytes(), true
	case *value.BufferView:
		return x.Bytes(), !x.Detached()
	}
	return nil, false
}

func assertOrder(r *Result, a Assertion) error {
	v, err := graphcheck.Resolve(r.Clone, a.Path)
	if err != nil {
		return err
	}
	var keys []value.Value
	switch x := v.(type) {
	case *value.OrderedMap:
		keys = x.Keys()
	case *value.OrderedSet:
		keys = x.Values()
	default:
		return &AssertionError{Type: AssertOrder, Path: a.Path, Expected: "a map or set", Actual: value.KindOf(v).String()}
	}

	got := make([]string, len(keys))
	for i, k := range keys {
		got[i] = scalarText(k)
	}
	want := make([]string, len(a.Keys))
	for i, k := range a.Keys {
		want[i] = plainText(k)
	}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		return &AssertionError{
			Type:     AssertOrder,
			Path:     a.Path,
			Expected: "[" + strings.Join(want, ", ") + "]",
			Actual:   "[" + strings.Join(got, ", ") + "]",
		}
	}
	return nil
}

// scalarText renders a primitive the way YAML scalars are compared.
func scalarText(v value.Value) string {
	switch x := v.(type) {
	case value.String:
		return string(x)
	case value.Number:
		return x.String()
	case value.Bool:
		return fmt.Sprint(bool(x))
	case value.Null:
		return "null"
	}
	return "<" + value.KindOf(v).String() + ">"
}

func plainText(k any) string {
	switch x := k.(type) {
	case nil:
		return "null"
	case int:
		return value.Number(float64(x)).String()
	case float64:
		return value.Number(x).String()
	}
	return fmt.Sprint(k)
}

func assertAbsent(r *Result, a Assertion) error {
	v, err := graphcheck.Resolve(r.Clone, a.Path)
	if err != nil {
		return nil
	}
	return &AssertionError{Type: AssertAbsent, Path: a.Path, Expected: "no value", Actual: value.KindOf(v).String()}
}

func assertStats(r *Result, a Assertion) error {
	var diffs []string
	for name, want := range a.Expect {
		field, ok := statFields[name]
		if !ok {
			diffs = append(diffs, fmt.Sprintf("%s unknown", name))
			continue
		}
		if got := field(r.Stats); got != want {
			diffs = append(diffs, fmt.Sprintf("%s=%d (want %d)", name, got, want))
		}
	}
	if len(diffs) == 0 {
		return nil
	}
	sort.Strings(diffs)
	return &AssertionError{
		Type:     AssertStats,
		Expected: fmt.Sprint(a.Expect),
		Actual:   strings.Join(diffs, ", "),
	}
}
