package value

import (
	"encoding/binary"
	"math"
)

// Buffer is fixed-length contiguous byte storage.
type Buffer struct {
	data     []byte
	detached bool
}

func (*Buffer) Kind() Kind { return KindBuffer }
func (*Buffer) value()     {}

// NewBuffer allocates a zeroed Buffer of n bytes.
func NewBuffer(n int) *Buffer {
	return &Buffer{data: make([]byte, n)}
}

// BufferFrom creates a Buffer holding a copy of b.
func BufferFrom(b []byte) *Buffer {
	data := make([]byte, len(b))
	copy(data, b)
	return &Buffer{data: data}
}

// Bytes returns the live storage. Writes through it are visible to every
// view over the buffer.
func (b *Buffer) Bytes() []byte { return b.data }

// ByteLen returns the length in bytes; zero once detached.
func (b *Buffer) ByteLen() int { return len(b.data) }

// Detach releases the storage, as when ownership is transferred elsewhere.
func (b *Buffer) Detach() {
	b.data = nil
	b.detached = true
}

// Detached reports whether the storage has been released.
func (b *Buffer) Detached() bool { return b.detached }

// ElemKind is the element type of a BufferView.
type ElemKind int

const (
	Int8 ElemKind = iota
	Uint8
	Uint8Clamped
	Int16
	Uint16
	Int32
	Uint32
	Float32
	Float64
)

var elemKinds = [...]struct {
	name string
	size int
}{
	Int8:         {"int8", 1},
	Uint8:        {"uint8", 1},
	Uint8Clamped: {"uint8clamped", 1},
	Int16:        {"int16", 2},
	Uint16:       {"uint16", 2},
	Int32:        {"int32", 4},
	Uint32:       {"uint32", 4},
	Float32:      {"float32", 4},
	Float64:      {"float64", 8},
}

// Size returns the element width in bytes.
func (k ElemKind) Size() int {
	if !k.valid() {
		return 0
	}
	return elemKinds[k].size
}

func (k ElemKind) String() string {
	if !k.valid() {
		return "invalid"
	}
	return elemKinds[k].name
}

func (k ElemKind) valid() bool {
	return k >= Int8 && int(k) < len(elemKinds)
}

// ParseElemKind resolves an element kind by name.
func ParseElemKind(name string) (ElemKind, bool) {
	for k, ek := range elemKinds {
		if ek.name == name {
			return ElemKind(k), true
		}
	}
	return 0, false
}

// MarkerRawBytes tags the raw byte-buffer specialization of a uint8 view.
const MarkerRawBytes = "raw-bytes"

// BufferView is a typed projection over a Buffer.
type BufferView struct {
	elem   ElemKind
	buf    *Buffer
	offset int
	length int
	marker string
}

func (*BufferView) Kind() Kind { return KindView }
func (*BufferView) value()     {}

// NewView creates a view of length elements of kind starting offset bytes
// into buf. A nil buf yields a view without backing storage.
func NewView(kind ElemKind, buf *Buffer, offset, length int) (*BufferView, error) {
	return NewMarkedView(kind, buf, offset, length, "")
}

// NewMarkedView is NewView with a specialization marker.
func NewMarkedView(kind ElemKind, buf *Buffer, offset, length int, marker string) (*BufferView, error) {
	if !kind.valid() {
		return nil, constructionErrorf("invalid element kind %d", int(kind))
	}
	if offset < 0 || length < 0 {
		return nil, constructionErrorf("negative view geometry (offset %d, length %d)", offset, length)
	}
	if offset%kind.Size() != 0 {
		return nil, constructionErrorf("%s view offset %d is not aligned", kind, offset)
	}
	if buf != nil && !buf.detached && offset+length*kind.Size() > len(buf.data) {
		return nil, constructionErrorf("%s view [%d:+%d] exceeds buffer of %d bytes", kind, offset, length, len(buf.data))
	}
	return &BufferView{elem: kind, buf: buf, offset: offset, length: length, marker: marker}, nil
}

// RawBytes creates a uint8 view over all of buf carrying MarkerRawBytes.
func RawBytes(buf *Buffer) *BufferView {
	return &BufferView{elem: Uint8, buf: buf, length: buf.ByteLen(), marker: MarkerRawBytes}
}

// ElemKind returns the element type.
func (v *BufferView) ElemKind() ElemKind { return v.elem }

// Buffer returns the backing buffer, possibly nil.
func (v *BufferView) Buffer() *Buffer { return v.buf }

// Offset returns the byte offset into the buffer.
func (v *BufferView) Offset() int { return v.offset }

// Len returns the element count.
func (v *BufferView) Len() int { return v.length }

// ByteLen returns the projected window size in bytes.
func (v *BufferView) ByteLen() int { return v.length * v.elem.Size() }

// Marker returns the specialization marker, if any.
func (v *BufferView) Marker() string { return v.marker }

// IsRawBytes reports whether v is the raw byte-buffer specialization.
func (v *BufferView) IsRawBytes() bool { return v.elem == Uint8 && v.marker == MarkerRawBytes }

// Detached reports whether the view lacks backing storage.
func (v *BufferView) Detached() bool { return v.buf == nil || v.buf.detached }

// Bytes returns the live projected window, or nil when detached.
func (v *BufferView) Bytes() []byte {
	if v.Detached() {
		return nil
	}
	return v.buf.data[v.offset : v.offset+v.ByteLen()]
}

// At decodes element i (little-endian).
func (v *BufferView) At(i int) float64 {
	b := v.element(i)
	switch v.elem {
	case Int8:
		return float64(int8(b[0]))
	case Uint8, Uint8Clamped:
		return float64(b[0])
	case Int16:
		return float64(int16(binary.LittleEndian.Uint16(b)))
	case Uint16:
		return float64(binary.LittleEndian.Uint16(b))
	case Int32:
		return float64(int32(binary.LittleEndian.Uint32(b)))
	case Uint32:
		return float64(binary.LittleEndian.Uint32(b))
	case Float32:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
	default:
		return math.Float64frombits(binary.LittleEndian.Uint64(b))
	}
}

// SetAt encodes x into element i (little-endian). Integer kinds wrap;
// Uint8Clamped saturates and rounds half to even.
func (v *BufferView) SetAt(i int, x float64) {
	b := v.element(i)
	switch v.elem {
	case Int8, Uint8:
		b[0] = byte(wrapInt(x))
	case Uint8Clamped:
		b[0] = clamp(x)
	case Int16, Uint16:
		binary.LittleEndian.PutUint16(b, uint16(wrapInt(x)))
	case Int32, Uint32:
		binary.LittleEndian.PutUint32(b, uint32(wrapInt(x)))
	case Float32:
		binary.LittleEndian.PutUint32(b, math.Float32bits(float32(x)))
	default:
		binary.LittleEndian.PutUint64(b, math.Float64bits(x))
	}
}

func (v *BufferView) element(i int) []byte {
	if v.Detached() || i < 0 || i >= v.length {
		panic("value: view index out of range")
	}
	size := v.elem.Size()
	start := v.offset + i*size
	return v.buf.data[start : start+size]
}

func wrapInt(x float64) int64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return int64(math.Mod(math.Trunc(x), 1<<32))
}

func clamp(x float64) byte {
	switch {
	case math.IsNaN(x) || x <= 0:
		return 0
	case x >= 255:
		return 255
	}
	return byte(math.RoundToEven(x))
}
