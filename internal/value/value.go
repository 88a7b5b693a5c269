package value

import (
	"math"
	"strconv"
)

// Value is a sealed interface over every variant of the data model.
// Only the types in this package implement it.
type Value interface {
	Kind() Kind
	value() // Sealed
}

// Kind tags a Value variant.
type Kind int

const (
	KindUndefined Kind = iota
	KindNull
	KindString
	KindNumber
	KindBool
	KindRecord
	KindSequence
	KindMap
	KindSet
	KindDate
	KindPattern
	KindBuffer
	KindView
	KindOpaque
)

var kindNames = [...]string{
	KindUndefined: "undefined",
	KindNull:      "null",
	KindString:    "string",
	KindNumber:    "number",
	KindBool:      "bool",
	KindRecord:    "record",
	KindSequence:  "sequence",
	KindMap:       "map",
	KindSet:       "set",
	KindDate:      "date",
	KindPattern:   "pattern",
	KindBuffer:    "buffer",
	KindView:      "view",
	KindOpaque:    "opaque",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// IsContainer reports whether values of this kind are reference containers
// that a clone may duplicate. Opaque is a reference but never a container.
func (k Kind) IsContainer() bool {
	return k >= KindRecord && k < KindOpaque
}

// Undefined is the "no value" sentinel held by a member slot.
type Undefined struct{}

func (Undefined) Kind() Kind { return KindUndefined }
func (Undefined) value()     {}

// Null is the explicit null value.
type Null struct{}

func (Null) Kind() Kind { return KindNull }
func (Null) value()     {}

// String is a string primitive.
type String string

func (String) Kind() Kind { return KindString }
func (String) value()     {}

// Number is a float64 primitive.
type Number float64

func (Number) Kind() Kind { return KindNumber }
func (Number) value()     {}

// String renders the number the shortest way that round-trips.
func (n Number) String() string {
	f := float64(n)
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Bool is a boolean primitive.
type Bool bool

func (Bool) Kind() Kind { return KindBool }
func (Bool) value()     {}

// KindOf returns the kind of v. A nil Value reports KindUndefined.
func KindOf(v Value) Kind {
	if v == nil {
		return KindUndefined
	}
	return v.Kind()
}

// IsContainer reports whether v is a container variant.
func IsContainer(v Value) bool {
	return KindOf(v).IsContainer()
}

// IsNil reports whether v is a typed nil pointer. Such a value has a
// container kind but no reference identity.
func IsNil(v Value) bool {
	switch x := v.(type) {
	case *Record:
		return x == nil
	case *Sequence:
		return x == nil
	case *OrderedMap:
		return x == nil
	case *OrderedSet:
		return x == nil
	case *DateStamp:
		return x == nil
	case *Pattern:
		return x == nil
	case *Buffer:
		return x == nil
	case *BufferView:
		return x == nil
	case *Opaque:
		return x == nil
	default:
		return false
	}
}
