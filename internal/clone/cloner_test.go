package clone

import (
	"bytes"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/deepclone/internal/graphcheck"
	"github.com/roach88/deepclone/internal/testutil"
	"github.com/roach88/deepclone/internal/value"
)

// quiet returns a Cloner that discards logs.
func quiet(mode Mode, opts ...Option) *Cloner {
	base := []Option{
		WithMode(mode),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}
	return New(append(base, opts...)...)
}

func mustClone(t *testing.T, v value.Value, mode Mode) value.Value {
	t.Helper()
	out, err := quiet(mode).Clone(v)
	require.NoError(t, err)
	return out
}

func at(t *testing.T, root value.Value, path string) value.Value {
	t.Helper()
	v, err := graphcheck.Resolve(root, path)
	require.NoError(t, err)
	return v
}

func TestClone_PlainRecord(t *testing.T) {
	for _, mode := range []Mode{ModeAlias, ModeCopy} {
		t.Run(mode.String(), func(t *testing.T) {
			src := testutil.POJO()
			dst := mustClone(t, src, mode)

			assert.True(t, graphcheck.Equal(src, dst))
			assert.NotSame(t, src, dst)
			for _, path := range []string{"bar", "bar.baz", "qux", "qux[3]"} {
				assert.NotSame(t, at(t, src, path), at(t, dst, path), path)
			}
			assert.Empty(t, graphcheck.SharedContainers(src, dst))
		})
	}
}

func TestClone_SelfReference(t *testing.T) {
	src := testutil.SelfCycle()
	dst := mustClone(t, src, ModeAlias)

	assert.NotSame(t, src, dst)
	assert.Same(t, dst, at(t, dst, "self"))
	assert.True(t, graphcheck.Equal(src, dst))
}

func TestClone_MutualCycle(t *testing.T) {
	a, b := testutil.MutualCycle()
	dst := mustClone(t, a, ModeAlias)

	assert.Same(t, dst, at(t, dst, "next.next"))
	assert.NotSame(t, b, at(t, dst, "next"))
	assert.Equal(t, value.String("b"), at(t, dst, "next.name"))
}

func TestClone_CircularThroughNested(t *testing.T) {
	src := value.NewRecord(
		value.Field("foo", value.String("bar")),
		value.Field("bar", value.NewRecord()),
	)
	at(t, src, "bar").(*value.Record).Set("baz", src)

	dst := mustClone(t, src, ModeCopy)

	assert.NotSame(t, src, dst)
	assert.Equal(t, value.String("bar"), at(t, dst, "foo"))
	assert.Same(t, dst, at(t, dst, "bar.baz"))
	assert.NotSame(t, src, at(t, dst, "bar.baz"))
}

func TestClone_PreservesAliases(t *testing.T) {
	shared := value.NewRecord(value.Field("v", value.Number(1)))
	src := value.NewRecord(
		value.Field("x", shared),
		value.Field("y", shared),
		value.Field("list", value.NewSequence(shared)),
	)

	dst := mustClone(t, src, ModeAlias)

	x := at(t, dst, "x")
	assert.NotSame(t, shared, x)
	assert.Same(t, x, at(t, dst, "y"))
	assert.Same(t, x, at(t, dst, "list[0]"))
}

func TestClone_EmptyContainerAliases(t *testing.T) {
	for _, mode := range []Mode{ModeAlias, ModeCopy} {
		t.Run(mode.String(), func(t *testing.T) {
			empty := value.NewRecord()
			src := value.NewRecord(value.Field("a", empty), value.Field("b", empty))

			dst := mustClone(t, src, mode)

			assert.NotSame(t, empty, at(t, dst, "a"))
			assert.Same(t, at(t, dst, "a"), at(t, dst, "b"))
		})
	}
}

func TestClone_DistinctEqualSources(t *testing.T) {
	src := value.NewRecord(value.Field("a", value.NewRecord()), value.Field("b", value.NewRecord()))
	dst := mustClone(t, src, ModeAlias)

	assert.NotSame(t, at(t, dst, "a"), at(t, dst, "b"))
}

func TestClone_Scalars(t *testing.T) {
	src := testutil.Scalars()
	dst := mustClone(t, src, ModeAlias)

	for _, key := range src.Own().Keys() {
		want, _ := src.Get(key)
		assert.Equal(t, want, at(t, dst, key), key)
	}
}

func TestClone_NonContainerRootsUnchanged(t *testing.T) {
	for _, v := range []value.Value{
		value.Undefined{}, value.Null{}, value.Number(3.14), value.Number(123),
		value.String("foobar"), value.Bool(true),
	} {
		out, err := Clone(v)
		require.NoError(t, err)
		assert.Equal(t, v, out)
	}

	fn := value.Func("f", nil)
	out, err := Clone(fn, ModeCopy)
	require.NoError(t, err)
	assert.Same(t, fn, out)
}

func TestClone_NoValueYieldsEmptyRecord(t *testing.T) {
	first, err := Clone(nil)
	require.NoError(t, err)
	rec, ok := first.(*value.Record)
	require.True(t, ok)
	assert.Equal(t, 0, rec.Own().Len())

	second, err := Clone(nil)
	require.NoError(t, err)
	assert.NotSame(t, first, second)
}

func TestClone_OpaquePassthrough(t *testing.T) {
	for _, mode := range []Mode{ModeAlias, ModeCopy} {
		t.Run(mode.String(), func(t *testing.T) {
			src := testutil.Uncopiable()
			dst, stats, err := quiet(mode).CloneWithStats(src)
			require.NoError(t, err)

			for _, key := range src.Own().Keys() {
				want, _ := src.Get(key)
				assert.Same(t, want, at(t, dst, key), key)
			}
			assert.Equal(t, len(value.OpaqueCategories), stats.Shared)
		})
	}
}

func TestClone_AliasModeSharesSpecials(t *testing.T) {
	src := testutil.Kitchen()
	dst := mustClone(t, src, ModeAlias)

	for _, key := range []string{"map", "set", "date", "re", "buf", "raw", "f32", "fn"} {
		assert.Same(t, at(t, src, key), at(t, dst, key), key)
	}
	assert.True(t, graphcheck.Equal(src, dst))
}

func TestClone_UnknownModeIsAlias(t *testing.T) {
	src := testutil.Kitchen()
	dst, err := Clone(src, Mode(42))
	require.NoError(t, err)

	assert.Same(t, at(t, src, "map"), at(t, dst, "map"))
}

func TestClone_CopyMap(t *testing.T) {
	src := value.NewRecord(
		value.Field("foo", value.String("bar")),
		value.Field("bar", value.Number(123)),
		value.Field("baz", value.NewOrderedMap(
			value.Entry{Key: value.Number(1), Value: value.Number(2)},
			value.Entry{Key: value.Number(2), Value: value.Number(3)},
			value.Entry{Key: value.Number(3), Value: value.Number(4)},
		)),
	)

	dst := mustClone(t, src, ModeCopy)

	srcMap := at(t, src, "baz").(*value.OrderedMap)
	dstMap := at(t, dst, "baz").(*value.OrderedMap)
	assert.NotSame(t, srcMap, dstMap)
	assert.Equal(t, srcMap.Entries(), dstMap.Entries())
	assert.True(t, graphcheck.Equal(src, dst))
}

func TestClone_CopyMapOrder(t *testing.T) {
	src := testutil.Kitchen()
	dst := mustClone(t, src, ModeCopy)

	dstMap := at(t, dst, "map").(*value.OrderedMap)
	assert.Equal(t, []value.Value{value.String("k1"), value.String("k2"), value.String("k3")}, dstMap.Keys())

	dstSet := at(t, dst, "set").(*value.OrderedSet)
	assert.Equal(t, []value.Value{value.Number(1), value.Number(2), value.Number(3)}, dstSet.Values())
}

func TestClone_CopyMapEntriesAreCloned(t *testing.T) {
	key := value.NewRecord(value.Field("id", value.Number(1)))
	val := value.NewRecord(value.Field("deep", value.Bool(true)))
	m := value.NewOrderedMap(value.Entry{Key: key, Value: val})
	src := value.NewRecord(value.Field("m", m), value.Field("key", key))

	dst := mustClone(t, src, ModeCopy)

	dstMap := at(t, dst, "m").(*value.OrderedMap)
	require.Equal(t, 1, dstMap.Len())
	entry := dstMap.Entries()[0]
	assert.NotSame(t, key, entry.Key)
	assert.NotSame(t, val, entry.Value)
	assert.Same(t, at(t, dst, "key"), entry.Key, "map keys keep their aliases")
	assert.True(t, graphcheck.Equal(src, dst))
}

func TestClone_CopyMapSelfCycle(t *testing.T) {
	m := value.NewOrderedMap()
	m.Set(value.String("self"), m)
	src := value.NewRecord(value.Field("m", m))

	dst := mustClone(t, src, ModeCopy)

	dstMap := at(t, dst, "m").(*value.OrderedMap)
	assert.NotSame(t, m, dstMap)
	self, ok := dstMap.Get(value.String("self"))
	require.True(t, ok)
	assert.Same(t, dstMap, self)
}

func TestClone_CopySubclassedMapAndSet(t *testing.T) {
	mapProto := value.NewRecord(value.Field("get", value.Func("get", nil)))
	m := value.NewOrderedMap(
		value.Entry{Key: value.Number(1), Value: value.Number(2)},
		value.Entry{Key: value.Number(2), Value: value.Number(3)},
	)
	m.Proto = mapProto
	m.Own().Set("myCustomProperty", value.String("someValue"))
	m.Own().Set("meta", value.NewRecord())

	setProto := value.NewRecord(value.Field("has", value.Func("has", nil)))
	s := value.NewOrderedSet(value.Number(1), value.Number(2))
	s.Proto = setProto
	s.Own().Set("myCustomProperty", value.String("someValue"))

	src := value.NewRecord(value.Field("m", m), value.Field("s", s))
	dst := mustClone(t, src, ModeCopy)

	dm := at(t, dst, "m").(*value.OrderedMap)
	assert.NotSame(t, m, dm)
	assert.Same(t, mapProto, dm.Proto)
	assert.Equal(t, value.String("someValue"), at(t, dst, "m.myCustomProperty"))
	assert.NotSame(t, at(t, src, "m.meta"), at(t, dst, "m.meta"))

	ds := at(t, dst, "s").(*value.OrderedSet)
	assert.NotSame(t, s, ds)
	assert.Same(t, setProto, ds.Proto)
	assert.Equal(t, value.String("someValue"), at(t, dst, "s.myCustomProperty"))
	assert.Equal(t, s.Values(), ds.Values())
}

func TestClone_CopyBufferIndependence(t *testing.T) {
	b := value.BufferFrom([]byte{0xAA, 0x01, 0x02})
	src := value.NewRecord(value.Field("buf", b))

	dst := mustClone(t, src, ModeCopy)
	c := at(t, dst, "buf").(*value.Buffer)
	require.NotSame(t, b, c)

	b.Bytes()[0] = 0xFF
	assert.Equal(t, byte(0xAA), c.Bytes()[0])
	assert.Equal(t, 3, c.ByteLen())
}

func TestClone_CopyViews(t *testing.T) {
	kinds := []value.ElemKind{
		value.Float32, value.Float64, value.Int8, value.Int16, value.Int32,
		value.Uint8, value.Uint16, value.Uint32, value.Uint8Clamped,
	}
	for _, kind := range kinds {
		t.Run(kind.String(), func(t *testing.T) {
			raw := make([]byte, 24)
			for i := range raw {
				raw[i] = byte(i*7 + 1)
			}
			buf := value.BufferFrom(raw)
			view, err := value.NewView(kind, buf, 0, 24/kind.Size())
			require.NoError(t, err)
			src := value.NewRecord(value.Field("foo", value.String("bar")), value.Field("baz", view))

			aliased := mustClone(t, src, ModeAlias)
			assert.Same(t, view, at(t, aliased, "baz"))

			copied := mustClone(t, src, ModeCopy)
			dv := at(t, copied, "baz").(*value.BufferView)
			assert.NotSame(t, view, dv)
			assert.NotSame(t, buf, dv.Buffer())
			assert.Equal(t, kind, dv.ElemKind())
			assert.Equal(t, view.Len(), dv.Len())
			assert.Equal(t, view.Bytes(), dv.Bytes())

			buf.Bytes()[0] = 0
			assert.Equal(t, byte(1), dv.Bytes()[0])
		})
	}
}

func TestClone_CopyKeepsRawBytesMarker(t *testing.T) {
	buf := value.BufferFrom([]byte{1, 2, 3})
	plain, err := value.NewView(value.Uint8, buf, 0, 3)
	require.NoError(t, err)
	src := value.NewRecord(value.Field("raw", value.RawBytes(buf)), value.Field("plain", plain))

	dst := mustClone(t, src, ModeCopy)

	assert.True(t, at(t, dst, "raw").(*value.BufferView).IsRawBytes())
	assert.False(t, at(t, dst, "plain").(*value.BufferView).IsRawBytes())
}

func TestClone_CopyViewsShareCopiedBuffer(t *testing.T) {
	src := testutil.Kitchen()
	dst := mustClone(t, src, ModeCopy)

	buf := at(t, dst, "buf").(*value.Buffer)
	raw := at(t, dst, "raw").(*value.BufferView)
	f32 := at(t, dst, "f32").(*value.BufferView)

	assert.NotSame(t, at(t, src, "buf"), buf)
	assert.Same(t, buf, raw.Buffer())
	assert.Same(t, buf, f32.Buffer())
	assert.Equal(t, 4, f32.Offset())
	assert.True(t, graphcheck.Equal(src, dst))
	assert.Empty(t, graphcheck.SharedOfKind(src, dst, value.KindBuffer))
}

func TestClone_CopyOmitsDetachedViews(t *testing.T) {
	buf := value.BufferFrom([]byte{1, 2})
	view := value.RawBytes(buf)
	buf.Detach()
	orphan, err := value.NewView(value.Uint8, nil, 0, 4)
	require.NoError(t, err)

	src := value.NewRecord(
		value.Field("keep", value.Number(1)),
		value.Field("view", view),
		value.Field("list", value.NewSequence(view, value.Number(2))),
		value.Field("orphan", orphan),
	)

	dst, stats, err := quiet(ModeCopy).CloneWithStats(src)
	require.NoError(t, err)

	rec := dst.(*value.Record)
	assert.Equal(t, []string{"keep", "list"}, rec.Own().Keys())
	assert.Equal(t, value.Undefined{}, at(t, dst, "list[0]"))
	assert.Equal(t, value.Number(2), at(t, dst, "list[1]"))
	assert.Equal(t, 3, stats.Skipped)

	aliased := mustClone(t, src, ModeAlias)
	assert.Same(t, view, at(t, aliased, "view"))
}

func TestClone_CopyDates(t *testing.T) {
	d := value.DateOf(testutil.Epoch())
	src := value.NewRecord(value.Field("d", d), value.Field("bad", value.InvalidDate()))

	dst := mustClone(t, src, ModeCopy)

	dd := at(t, dst, "d").(*value.DateStamp)
	assert.NotSame(t, d, dd)
	assert.Equal(t, d.Millis(), dd.Millis())
	assert.False(t, at(t, dst, "bad").(*value.DateStamp).Valid())
}

func TestClone_CopyPattern(t *testing.T) {
	re := value.MustPattern("^foobar", "ig")
	src := value.NewRecord(value.Field("re", re))

	dst := mustClone(t, src, ModeCopy)

	dre := at(t, dst, "re").(*value.Pattern)
	assert.NotSame(t, re, dre)
	assert.Equal(t, re.String(), dre.String())
}

func TestClone_SpecialRoots(t *testing.T) {
	re := value.MustPattern("a+", "g")
	out, err := Clone(re)
	require.NoError(t, err)
	assert.NotSame(t, re, out)
	assert.Equal(t, "a+", out.(*value.Pattern).Source())
	assert.Equal(t, "g", out.(*value.Pattern).Flags())

	d := value.DateOf(testutil.Epoch())
	out, err = Clone(d)
	require.NoError(t, err)
	assert.NotSame(t, d, out)
	assert.Equal(t, d.Millis(), out.(*value.DateStamp).Millis())

	buf := value.BufferFrom([]byte{1, 2})
	out, err = Clone(buf)
	require.NoError(t, err)
	assert.NotSame(t, buf, out)
	assert.Equal(t, buf.Bytes(), out.(*value.Buffer).Bytes())

	view := value.RawBytes(buf)
	out, err = Clone(view)
	require.NoError(t, err)
	assert.NotSame(t, view, out)
	assert.Same(t, buf, out.(*value.BufferView).Buffer(), "alias mode keeps the buffer")

	out, err = Clone(view, ModeCopy)
	require.NoError(t, err)
	assert.NotSame(t, buf, out.(*value.BufferView).Buffer())
}

func TestClone_MapRootInAliasMode(t *testing.T) {
	rec := value.NewRecord()
	buf := value.NewBuffer(1)
	m := value.NewOrderedMap(
		value.Entry{Key: value.String("rec"), Value: rec},
		value.Entry{Key: value.String("buf"), Value: buf},
	)

	out, err := Clone(m)
	require.NoError(t, err)

	dm := out.(*value.OrderedMap)
	assert.NotSame(t, m, dm)
	gotRec, _ := dm.Get(value.String("rec"))
	assert.NotSame(t, rec, gotRec)
	gotBuf, _ := dm.Get(value.String("buf"))
	assert.Same(t, buf, gotBuf)
}

func TestClone_DetachedRootReturnedUnchanged(t *testing.T) {
	buf := value.NewBuffer(4)
	view := value.RawBytes(buf)
	buf.Detach()

	out, err := Clone(view, ModeCopy)
	require.NoError(t, err)
	assert.Same(t, view, out)
}

func TestClone_PatternFallback(t *testing.T) {
	var logs bytes.Buffer
	c := New(WithMode(ModeCopy), WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))

	foreign := value.ForeignPattern("(", "")
	src := value.NewRecord(value.Field("re", foreign), value.Field("again", foreign))

	dst, stats, err := c.CloneWithStats(src)
	require.NoError(t, err)

	assert.Same(t, foreign, at(t, dst, "re"))
	assert.Same(t, foreign, at(t, dst, "again"))
	assert.Equal(t, 1, stats.Fallbacks)
	assert.Contains(t, logs.String(), "rebuild failed")
	assert.Contains(t, logs.String(), string(ErrCodeConstructionFailed))

	out, err := Clone(foreign)
	require.NoError(t, err)
	assert.Same(t, foreign, out)
}

func TestClone_DateFallback(t *testing.T) {
	var logs bytes.Buffer
	c := New(WithMode(ModeCopy), WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))

	far := value.DateOf(time.Date(300000, 1, 1, 0, 0, 0, 0, time.UTC))
	src := value.NewRecord(value.Field("when", far))

	dst, stats, err := c.CloneWithStats(src)
	require.NoError(t, err)

	assert.NotSame(t, src, dst)
	assert.Same(t, far, at(t, dst, "when"))
	assert.Equal(t, 1, stats.Fallbacks)
	assert.Contains(t, logs.String(), string(ErrCodeConstructionFailed))
	assert.Contains(t, logs.String(), "out of range")
}

func TestClone_TypedNilIsInvalidInput(t *testing.T) {
	var rec *value.Record
	_, err := Clone(rec)
	require.Error(t, err)
	assert.True(t, IsInvalidInput(err))
	assert.False(t, IsConstructionFailed(err))

	var seq *value.Sequence
	src := value.NewRecord(value.Field("bad", seq))
	for _, mode := range []Mode{ModeAlias, ModeCopy} {
		_, err = Clone(src, mode)
		assert.True(t, IsInvalidInput(err), mode.String())

		var ce *CloneError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, value.KindSequence, ce.Kind)
	}
}

func TestClone_HiddenMembersShared(t *testing.T) {
	secret := value.NewRecord()
	src := value.NewRecord(value.Field("vis", value.NewRecord()), value.HiddenField("secret", secret))

	dst := mustClone(t, src, ModeCopy)

	rec := dst.(*value.Record)
	assert.Equal(t, []string{"vis"}, rec.Own().Keys())
	assert.Same(t, secret, at(t, dst, "secret"))
	assert.NotSame(t, at(t, src, "vis"), at(t, dst, "vis"))
}

func TestClone_PrototypeShared(t *testing.T) {
	proto := value.NewRecord(value.Field("greet", value.Func("greet", nil)))
	src := value.NewRecord(value.Field("name", value.String("x")))
	src.Proto = proto

	dst := mustClone(t, src, ModeCopy).(*value.Record)

	assert.Same(t, proto, dst.Proto)
	assert.False(t, dst.Own().Has("greet"), "inherited members are never copied")
}

func TestClone_SequenceNamedMembers(t *testing.T) {
	src := value.NewSequence(value.NewRecord())
	src.Own().Set("meta", value.NewRecord())

	dst := mustClone(t, src, ModeAlias)

	assert.NotSame(t, at(t, src, "meta"), at(t, dst, "meta"))
	assert.NotSame(t, at(t, src, "[0]"), at(t, dst, "[0]"))
}

func TestClone_DeepNestingUsesBoundedStack(t *testing.T) {
	const depth = 200_000
	src := testutil.Nested(depth)

	dst, stats, err := quiet(ModeAlias).CloneWithStats(src)
	require.NoError(t, err)
	assert.Equal(t, depth+1, stats.Visited)

	s, d := value.Value(src), dst
	for i := 0; i < depth; i++ {
		require.NotSame(t, s, d)
		s, _ = s.(*value.Record).Get("child")
		d, _ = d.(*value.Record).Get("child")
	}
	assert.Equal(t, 0, d.(*value.Record).Own().Len())
}

func TestClone_Stats(t *testing.T) {
	_, stats, err := quiet(ModeCopy).CloneWithStats(testutil.Kitchen())
	require.NoError(t, err)
	assert.Equal(t, Stats{Visited: 9, Rebuilt: 7, Shared: 1}, stats)

	_, stats, err = quiet(ModeAlias).CloneWithStats(testutil.Kitchen())
	require.NoError(t, err)
	assert.Equal(t, Stats{Visited: 1, Shared: 8}, stats)
}

func TestClone_IndependentCalls(t *testing.T) {
	src := testutil.POJO()
	c := quiet(ModeAlias)

	first, err := c.Clone(src)
	require.NoError(t, err)
	second, err := c.Clone(src)
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.NotSame(t, at(t, first, "bar"), at(t, second, "bar"))
}

func TestClone_CallIDLogged(t *testing.T) {
	var logs bytes.Buffer
	ids := testutil.NewSequentialIDs("t")
	c := New(
		WithLogger(slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))),
		WithCallID(ids.Next),
	)

	_, err := c.Clone(testutil.POJO())
	require.NoError(t, err)

	assert.Contains(t, logs.String(), `"call_id":"t-1"`)
	assert.Contains(t, logs.String(), "clone finished")
	assert.Equal(t, ModeAlias, c.Mode())
}

func TestCloneError_Format(t *testing.T) {
	err := NewInvalidInputError(value.KindMap)
	assert.Equal(t, "INVALID_INPUT: container has no reference identity (map)", err.Error())

	cause := value.ErrConstruction
	wrapped := NewConstructionError(value.KindPattern, cause)
	assert.ErrorIs(t, wrapped, value.ErrConstruction)
	assert.True(t, IsConstructionFailed(wrapped))
}
