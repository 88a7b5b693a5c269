// Package fixture loads value graphs from YAML, JSON and CUE documents.
//
// YAML is the primary format because anchors and aliases express shared
// references and cycles directly:
//
//	shared: &s {v: 1}
//	a: *s
//	b: *s
//	self: &me {name: loop, next: *me}
//
// Custom tags select the special container kinds:
//
//	!map       sequence of [key, value] pairs, or a mapping with string keys
//	!set       sequence of elements
//	!date      epoch milliseconds, RFC 3339 text, or "invalid"
//	!regexp    /source/flags, compiled on load
//	!foreign-regexp  /source/flags, never validated
//	!buffer    hex bytes, or a mapping {bytes: hex, detached: bool}
//	!view      mapping {kind, buffer, offset, length, marker, raw}
//	!opaque    category or category:name
//	!undefined the no-value sentinel
//	!hidden    on a mapping value: the member is own but not enumerable
//
// JSON documents go through the YAML parser. CUE files describe acyclic
// graphs only; CUE hidden fields (_name) load as hidden members.
package fixture
