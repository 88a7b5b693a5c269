package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/deepclone/internal/testutil"
	"github.com/roach88/deepclone/internal/value"
)

func golden(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestString_Golden(t *testing.T) {
	a, _ := testutil.MutualCycle()
	tests := []struct {
		name string
		v    value.Value
	}{
		{"kitchen", testutil.Kitchen()},
		{"mutual_cycle", a},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			golden(t).Assert(t, tt.name, []byte(String(tt.v)))
		})
	}
}

func TestString_SelfCycle(t *testing.T) {
	out := String(testutil.SelfCycle())
	assert.Equal(t, "Record &1\n  name: \"a\"\n  self: *1\n", out)
}

func TestString_Aliases(t *testing.T) {
	shared := value.NewRecord(value.Field("v", value.Number(1)))
	root := value.NewSequence(shared, shared, value.NewRecord())

	want := strings.Join([]string{
		"Sequence(3)",
		"  [0]: Record &1",
		"    v: 1",
		"  [1]: *1",
		"  [2]: Record",
		"",
	}, "\n")
	assert.Equal(t, want, String(root))
}

func TestString_Scalars(t *testing.T) {
	tests := []struct {
		v    value.Value
		want string
	}{
		{nil, "undefined\n"},
		{value.Undefined{}, "undefined\n"},
		{value.Null{}, "null\n"},
		{value.String("a\tb"), "\"a\\tb\"\n"},
		{value.Number(3.14), "3.14\n"},
		{value.Bool(true), "true\n"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, String(tt.v))
	}
}

func TestString_Details(t *testing.T) {
	proto := value.NewRecord()
	rec := value.NewRecord(value.HiddenField("secret", value.Number(1)))
	rec.Proto = proto

	buf := value.NewBuffer(40)
	gone := value.BufferFrom([]byte{1})
	gone.Detach()
	orphan, err := value.NewView(value.Uint16, nil, 0, 2)
	require.NoError(t, err)

	root := value.NewRecord(
		value.Field("rec", rec),
		value.Field("big", buf),
		value.Field("empty", value.NewBuffer(0)),
		value.Field("gone", gone),
		value.Field("orphan", orphan),
		value.Field("bad", value.InvalidDate()),
	)
	out := String(root)

	assert.Contains(t, out, "  rec: Record (proto)\n    secret (hidden): 1\n")
	assert.Contains(t, out, "big: Buffer(40) "+strings.Repeat("00", maxHexBytes)+"...\n")
	assert.Contains(t, out, "empty: Buffer(0)\n")
	assert.Contains(t, out, "gone: Buffer(detached)\n")
	assert.Contains(t, out, "orphan: View(uint16 offset=0 len=2 detached)\n")
	assert.Contains(t, out, "bad: Date(Invalid Date)\n")
}

func TestString_SharedOpaque(t *testing.T) {
	fn := value.Func("f", nil)
	out := String(value.NewRecord(value.Field("a", fn), value.Field("b", fn)))
	assert.Equal(t, "Record\n  a: Opaque(function:f) &1\n  b: *1\n", out)
}

func TestString_DeepNesting(t *testing.T) {
	const depth = 2_000
	out := String(testutil.Nested(depth))
	assert.Equal(t, depth+1, strings.Count(out, "\n"))
}

func TestWrite_Styled(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, testutil.SelfCycle(), Options{Styled: true}))

	out := buf.String()
	assert.Contains(t, out, "Record")
	assert.Contains(t, out, "&1")
	assert.Contains(t, out, "*1")
}
