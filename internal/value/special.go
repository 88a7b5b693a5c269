package value

import (
	"math"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
)

// maxTimeMillis bounds a valid DateStamp to ±100,000,000 days around the epoch.
const maxTimeMillis = 8.64e15

// DateStamp is a single instant in milliseconds since the Unix epoch.
// A NaN instant is an invalid date.
type DateStamp struct {
	ms float64
}

func (*DateStamp) Kind() Kind { return KindDate }
func (*DateStamp) value()     {}

// NewDate creates a DateStamp at ms. Non-finite or out-of-range instants
// are rejected.
func NewDate(ms float64) (*DateStamp, error) {
	if math.IsNaN(ms) || math.IsInf(ms, 0) || math.Abs(ms) > maxTimeMillis {
		return nil, constructionErrorf("date instant %v out of range", ms)
	}
	return &DateStamp{ms: math.Trunc(ms) + 0}, nil
}

// DateOf creates a DateStamp from t, truncated to the millisecond.
// Unlike NewDate it does not range-check: a host may hand over an instant
// beyond ±8.64e15 ms, which is kept as is but cannot be rebuilt by NewDate.
func DateOf(t time.Time) *DateStamp {
	return &DateStamp{ms: float64(t.UnixMilli())}
}

// InvalidDate creates a DateStamp holding no valid instant.
func InvalidDate() *DateStamp {
	return &DateStamp{ms: math.NaN()}
}

// Millis returns the instant; NaN for an invalid date.
func (d *DateStamp) Millis() float64 { return d.ms }

// Valid reports whether d holds an instant.
func (d *DateStamp) Valid() bool { return !math.IsNaN(d.ms) }

// Time returns the instant in UTC. The zero time is returned for an invalid date.
func (d *DateStamp) Time() time.Time {
	if !d.Valid() {
		return time.Time{}
	}
	return time.UnixMilli(int64(d.ms)).UTC()
}

// String renders an ISO 8601 timestamp, or "Invalid Date".
func (d *DateStamp) String() string {
	if !d.Valid() {
		return "Invalid Date"
	}
	return d.Time().Format("2006-01-02T15:04:05.000Z")
}

// patternFlags lists the accepted flag characters.
const patternFlags = "dgimsuvy"

// Pattern is a regular expression given by source text and flags.
type Pattern struct {
	source string
	flags  string
	re     *regexp2.Regexp
}

func (*Pattern) Kind() Kind { return KindPattern }
func (*Pattern) value()     {}

// NewPattern validates flags and compiles source with ECMAScript semantics.
func NewPattern(source, flags string) (*Pattern, error) {
	if err := checkFlags(flags); err != nil {
		return nil, err
	}
	opts := regexp2.RegexOptions(regexp2.ECMAScript)
	if strings.ContainsRune(flags, 'i') {
		opts |= regexp2.IgnoreCase
	}
	if strings.ContainsRune(flags, 'm') {
		opts |= regexp2.Multiline
	}
	re, err := regexp2.Compile(source, opts)
	if err != nil {
		return nil, constructionErrorf("pattern /%s/%s: %v", source, flags, err)
	}
	return &Pattern{source: source, flags: flags, re: re}, nil
}

// MustPattern is NewPattern that panics on error. Intended for literals.
func MustPattern(source, flags string) *Pattern {
	p, err := NewPattern(source, flags)
	if err != nil {
		panic(err)
	}
	return p
}

// ForeignPattern wraps a pattern produced by a host whose syntax has not
// been checked. It is compiled lazily on first Match.
func ForeignPattern(source, flags string) *Pattern {
	return &Pattern{source: source, flags: flags}
}

func checkFlags(flags string) error {
	var seen [128]bool
	for _, c := range flags {
		if c >= 128 || !strings.ContainsRune(patternFlags, c) {
			return constructionErrorf("invalid pattern flag %q", c)
		}
		if seen[c] {
			return constructionErrorf("duplicate pattern flag %q", c)
		}
		seen[c] = true
	}
	if seen['u'] && seen['v'] {
		return constructionErrorf("pattern flags u and v are exclusive")
	}
	return nil
}

// Source returns the pattern text.
func (p *Pattern) Source() string { return p.source }

// Flags returns the flag string.
func (p *Pattern) Flags() string { return p.flags }

// Match reports whether s contains a match.
func (p *Pattern) Match(s string) (bool, error) {
	if p.re == nil {
		compiled, err := NewPattern(p.source, p.flags)
		if err != nil {
			return false, err
		}
		p.re = compiled.re
	}
	return p.re.MatchString(s)
}

// String renders the pattern as /source/flags.
func (p *Pattern) String() string {
	src := p.source
	if src == "" {
		src = "(?:)"
	}
	return "/" + src + "/" + p.flags
}
