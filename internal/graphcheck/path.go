package graphcheck

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/deepclone/internal/value"
)

// PathError reports a path that does not resolve.
type PathError struct {
	Path    string
	Segment string
	Message string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("path %q at %q: %s", e.Path, e.Segment, e.Message)
}

type segment struct {
	kind byte // '.', '[' or '{'
	text string
}

// Resolve follows path from root.
//
// Syntax: "" or "$" is the root; ".name" (leading dot optional) selects an
// own member or a view's "buffer"; "[n]" selects the n-th element of a
// sequence or set or the n-th value of a map; "{key}" selects a map value
// by string key, then by numeric key.
// Example: "items[0].tags{primary}"
func Resolve(root value.Value, path string) (value.Value, error) {
	segs, err := parsePath(path)
	if err != nil {
		return nil, err
	}
	cur := root
	for _, s := range segs {
		next, err := step(cur, s)
		if err != nil {
			return nil, &PathError{Path: path, Segment: string(s.kind) + s.text, Message: err.Error()}
		}
		cur = next
	}
	return cur, nil
}

func parsePath(path string) ([]segment, error) {
	p := strings.TrimPrefix(path, "$")
	var segs []segment
	for i := 0; i < len(p); {
		switch c := p[i]; c {
		case '[', '{':
			closer := byte(']')
			if c == '{' {
				closer = '}'
			}
			end := strings.IndexByte(p[i:], closer)
			if end < 0 {
				return nil, &PathError{Path: path, Segment: p[i:], Message: "unterminated segment"}
			}
			segs = append(segs, segment{kind: c, text: p[i+1 : i+end]})
			i += end + 1
		case '.':
			i++
		default:
			end := strings.IndexAny(p[i:], ".[{")
			if end < 0 {
				end = len(p) - i
			}
			segs = append(segs, segment{kind: '.', text: p[i : i+end]})
			i += end
		}
	}
	return segs, nil
}

func step(cur value.Value, s segment) (value.Value, error) {
	if value.IsNil(cur) {
		return nil, fmt.Errorf("nil %s", cur.Kind())
	}
	switch s.kind {
	case '[':
		n, err := strconv.Atoi(s.text)
		if err != nil {
			return nil, fmt.Errorf("bad index %q", s.text)
		}
		var elems []value.Value
		switch x := cur.(type) {
		case *value.Sequence:
			elems = x.Elems
		case *value.OrderedSet:
			elems = x.Values()
		case *value.OrderedMap:
			for _, e := range x.Entries() {
				elems = append(elems, e.Value)
			}
		default:
			return nil, fmt.Errorf("cannot index %s", value.KindOf(cur))
		}
		if n < 0 || n >= len(elems) {
			return nil, fmt.Errorf("index %d out of range [0,%d)", n, len(elems))
		}
		return elems[n], nil

	case '{':
		m, ok := cur.(*value.OrderedMap)
		if !ok {
			return nil, fmt.Errorf("cannot key into %s", value.KindOf(cur))
		}
		if v, ok := m.Get(value.String(s.text)); ok {
			return v, nil
		}
		if f, err := strconv.ParseFloat(s.text, 64); err == nil {
			if v, ok := m.Get(value.Number(f)); ok {
				return v, nil
			}
		}
		return nil, fmt.Errorf("no entry %q", s.text)

	default:
		var props *value.Props
		switch x := cur.(type) {
		case *value.Record:
			props = x.Own()
		case *value.Sequence:
			props = x.Own()
		case *value.OrderedMap:
			props = x.Own()
		case *value.OrderedSet:
			props = x.Own()
		case *value.BufferView:
			if s.text == "buffer" && x.Buffer() != nil {
				return x.Buffer(), nil
			}
			return nil, fmt.Errorf("view has no member %q", s.text)
		default:
			return nil, fmt.Errorf("%s has no members", value.KindOf(cur))
		}
		if v, ok := props.Get(s.text); ok {
			return v, nil
		}
		return nil, fmt.Errorf("no member %q", s.text)
	}
}
