// Package value defines the in-memory value graph cloned by package clone.
//
// This package contains type definitions only. All other internal packages
// import value; value imports nothing internal.
//
// Value is a sealed interface: primitives (Undefined, Null, String, Number,
// Bool) are Go value types and compare by content, while every container
// (Record, Sequence, OrderedMap, OrderedSet, DateStamp, Pattern, Buffer,
// BufferView) and every Opaque handle is a pointer and compares by
// reference. Reference identity is what aliasing and cycles are made of.
//
// Key design constraints:
//   - Own members keep insertion order; hidden members are own but never enumerated
//   - Prototypes hold inherited members and are never copied, only referenced
//   - OrderedMap and OrderedSet keys use SameValueZero equality
//   - A BufferView over a missing or detached Buffer has no backing storage
package value
