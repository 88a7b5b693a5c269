// Package testutil provides deterministic ids and sample value graphs
// shared by tests across packages.
package testutil

import "github.com/roach88/deepclone/internal/value"

// POJO returns a small acyclic record mixing scalars and nested containers.
//
//	{foo: "bar", bar: {baz: {qux: "qux"}}, qux: [1, "foo", 3.14, {bar: "baz"}]}
func POJO() *value.Record {
	return value.NewRecord(
		value.Field("foo", value.String("bar")),
		value.Field("bar", value.NewRecord(
			value.Field("baz", value.NewRecord(value.Field("qux", value.String("qux")))),
		)),
		value.Field("qux", value.NewSequence(
			value.Number(1),
			value.String("foo"),
			value.Number(3.14),
			value.NewRecord(value.Field("bar", value.String("baz"))),
		)),
	)
}

// SelfCycle returns a record whose "self" member is itself.
func SelfCycle() *value.Record {
	a := value.NewRecord(value.Field("name", value.String("a")))
	a.Set("self", a)
	return a
}

// MutualCycle returns a where a.next = b and b.next = a.
func MutualCycle() (a, b *value.Record) {
	a = value.NewRecord(value.Field("name", value.String("a")))
	b = value.NewRecord(value.Field("name", value.String("b")), value.Field("next", a))
	a.Set("next", b)
	return a, b
}

// Scalars returns a record holding one of every primitive.
func Scalars() *value.Record {
	return value.NewRecord(
		value.Field("str", value.String("foobar")),
		value.Field("int", value.Number(123)),
		value.Field("float", value.Number(3.14)),
		value.Field("bool", value.Bool(false)),
		value.Field("nil", value.Null{}),
		value.Field("undef", value.Undefined{}),
	)
}

// Uncopiable returns a record holding one opaque handle per category.
func Uncopiable() *value.Record {
	r := value.NewRecord()
	for _, c := range value.OpaqueCategories {
		r.Set(string(c), value.NewOpaque(c, string(c), nil))
	}
	return r
}

// Kitchen returns a record holding every container kind, with a view and
// a raw byte view sharing one buffer.
func Kitchen() *value.Record {
	buf := value.BufferFrom([]byte{0xAA, 1, 2, 3, 4, 5, 6, 7})
	f32, err := value.NewView(value.Float32, buf, 4, 1)
	if err != nil {
		panic(err)
	}
	return value.NewRecord(
		value.Field("foo", value.String("bar")),
		value.Field("map", value.NewOrderedMap(
			value.Entry{Key: value.String("k1"), Value: value.Number(1)},
			value.Entry{Key: value.String("k2"), Value: value.NewRecord(value.Field("deep", value.Bool(true)))},
			value.Entry{Key: value.String("k3"), Value: value.Number(3)},
		)),
		value.Field("set", value.NewOrderedSet(value.Number(1), value.Number(2), value.Number(3))),
		value.Field("date", value.DateOf(testEpoch)),
		value.Field("re", value.MustPattern("^foobar", "gi")),
		value.Field("buf", buf),
		value.Field("raw", value.RawBytes(buf)),
		value.Field("f32", f32),
		value.Field("fn", value.Func("handler", nil)),
	)
}

// Nested returns a chain of depth records, each holding the next under "child".
func Nested(depth int) *value.Record {
	root := value.NewRecord()
	cur := root
	for i := 0; i < depth; i++ {
		next := value.NewRecord()
		cur.Set("child", next)
		cur = next
	}
	return root
}
