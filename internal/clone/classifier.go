package clone

import "github.com/roach88/deepclone/internal/value"

// IsCloneable is the strict rule applied to roots: v is any container
// variant. Atomic values, opaque handles and nil are not cloneable.
func IsCloneable(v value.Value) bool {
	switch v.(type) {
	case *value.Record, *value.Sequence,
		*value.OrderedMap, *value.OrderedSet,
		*value.DateStamp, *value.Pattern,
		*value.Buffer, *value.BufferView:
		return true
	default:
		return false
	}
}

// IsCloneableNested is the loose rule applied to members once the special
// containers have been dispatched to their handlers (or, in alias mode,
// shared). Only structural containers remain; opaque and external handles
// are excluded.
func IsCloneableNested(v value.Value) bool {
	switch v.(type) {
	case *value.Record, *value.Sequence:
		return true
	default:
		return false
	}
}

// isSpecial reports whether v needs a type handler rather than a shell.
func isSpecial(v value.Value) bool {
	return IsCloneable(v) && !IsCloneableNested(v)
}
