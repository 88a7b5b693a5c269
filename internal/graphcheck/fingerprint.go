package graphcheck

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"strconv"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/deepclone/internal/value"
)

// DomainGraph prefixes every fingerprint. The version suffix allows the
// walk to change without colliding with older fingerprints.
const DomainGraph = "deepclone/graph/v1"

// Fingerprint returns the hex SHA-256 of v's canonical walk.
// Strings are NFC-normalized before hashing.
func Fingerprint(v value.Value) string {
	f := &fingerprinter{h: sha256.New(), ids: make(map[value.Value]int)}
	f.h.Write([]byte(DomainGraph))
	f.h.Write([]byte{0x00})
	f.walk(v)
	return hex.EncodeToString(f.h.Sum(nil))
}

// Equal reports whether a and b have the same fingerprint.
func Equal(a, b value.Value) bool {
	return Fingerprint(a) == Fingerprint(b)
}

type fingerprinter struct {
	h   hash.Hash
	ids map[value.Value]int
}

// write emits each part followed by a NUL separator.
func (f *fingerprinter) write(parts ...string) {
	for _, p := range parts {
		f.h.Write([]byte(p))
		f.h.Write([]byte{0x00})
	}
}

func (f *fingerprinter) walk(v value.Value) {
	switch x := v.(type) {
	case nil:
		f.write("u")
		return
	case value.Undefined:
		f.write("u")
		return
	case value.Null:
		f.write("n")
		return
	case value.String:
		f.write("s", norm.NFC.String(string(x)))
		return
	case value.Number:
		f.write("d", x.String())
		return
	case value.Bool:
		f.write("b", strconv.FormatBool(bool(x)))
		return
	}

	if value.IsNil(v) {
		f.write("nil", v.Kind().String())
		return
	}
	if id, ok := f.ids[v]; ok {
		f.write("@", strconv.Itoa(id))
		return
	}
	id := len(f.ids) + 1
	f.ids[v] = id
	f.write("#", strconv.Itoa(id), v.Kind().String())

	switch x := v.(type) {
	case *value.Record:
		f.proto(x.Proto)
		f.props(x.Own())
	case *value.Sequence:
		f.write("elems", strconv.Itoa(x.Len()))
		for _, e := range x.Elems {
			f.walk(e)
		}
		f.props(x.Own())
	case *value.OrderedMap:
		f.proto(x.Proto)
		f.write("entries", strconv.Itoa(x.Len()))
		for _, e := range x.Entries() {
			f.walk(e.Key)
			f.walk(e.Value)
		}
		f.props(x.Own())
	case *value.OrderedSet:
		f.proto(x.Proto)
		f.write("elems", strconv.Itoa(x.Len()))
		for _, e := range x.Values() {
			f.walk(e)
		}
		f.props(x.Own())
	case *value.DateStamp:
		f.write(value.Number(x.Millis()).String())
	case *value.Pattern:
		f.write(x.Source(), x.Flags())
	case *value.Buffer:
		f.write(strconv.FormatBool(x.Detached()), hex.EncodeToString(x.Bytes()))
	case *value.BufferView:
		f.write(x.ElemKind().String(), strconv.Itoa(x.Offset()), strconv.Itoa(x.Len()), x.Marker())
		if x.Buffer() == nil {
			f.write("nobuf")
		} else {
			f.walk(x.Buffer())
		}
	case *value.Opaque:
		f.write(string(x.Category), x.Name)
	}
}

func (f *fingerprinter) proto(p *value.Record) {
	if p == nil {
		f.write("noproto")
		return
	}
	f.walk(p)
}

func (f *fingerprinter) props(p *value.Props) {
	f.write("props", strconv.Itoa(p.Len()))
	for _, m := range p.Members() {
		f.write("m", m.Key, strconv.FormatBool(m.Hidden))
		f.walk(m.Value)
	}
}
