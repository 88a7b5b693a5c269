package fixture

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/deepclone/internal/value"
)

// Custom YAML tags.
const (
	TagMap           = "!map"
	TagSet           = "!set"
	TagDate          = "!date"
	TagRegexp        = "!regexp"
	TagForeignRegexp = "!foreign-regexp"
	TagBuffer        = "!buffer"
	TagView          = "!view"
	TagOpaque        = "!opaque"
	TagUndefined     = "!undefined"
	TagHidden        = "!hidden"
)

// LoadYAML decodes the first document in data. name appears in errors.
func LoadYAML(data []byte, name string) (value.Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &LoadError{Code: ErrCodeSyntax, Message: err.Error(), File: name, Err: err}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, &LoadError{Code: ErrCodeEmpty, Message: "document is empty", File: name}
	}
	return DecodeNode(doc.Content[0], name)
}

// DecodeNode builds a graph from an already parsed YAML node. Harness
// scenarios embed fixtures this way.
func DecodeNode(n *yaml.Node, name string) (value.Value, error) {
	if n.Kind == yaml.DocumentNode {
		if len(n.Content) == 0 {
			return nil, &LoadError{Code: ErrCodeEmpty, Message: "document is empty", File: name}
		}
		n = n.Content[0]
	}
	d := &decoder{
		name:     name,
		seen:     make(map[*yaml.Node]value.Value),
		redirect: make(map[*yaml.Node]*yaml.Node),
	}
	if n.Anchor != "" {
		d.relinkRoot(n)
	}
	return d.decode(n)
}

// relinkRoot points aliases at root when they target another node with
// the same anchor and position. yaml.v3 copies a node decoded into a
// struct field, so aliases inside the copy still reference the original.
func (d *decoder) relinkRoot(root *yaml.Node) {
	stack := []*yaml.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n.Kind == yaml.AliasNode {
			t := n.Alias
			if t != nil && t != root && t.Anchor == root.Anchor && t.Line == root.Line && t.Column == root.Column {
				d.redirect[t] = root
			}
			continue
		}
		stack = append(stack, n.Content...)
	}
}

// decoder turns YAML nodes into values. Every node that yields a reference
// is recorded in seen before its children are decoded, so an alias back to
// an enclosing anchor closes a cycle instead of recursing.
type decoder struct {
	name string
	seen map[*yaml.Node]value.Value
	// redirect maps a !hidden node to its untagged copy.
	redirect map[*yaml.Node]*yaml.Node
}

func (d *decoder) errorf(n *yaml.Node, code, format string, args ...any) *LoadError {
	return &LoadError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		File:    d.name,
		Line:    n.Line,
		Column:  n.Column,
	}
}

func (d *decoder) decode(n *yaml.Node) (value.Value, error) {
	if n.Kind == yaml.AliasNode {
		target := n.Alias
		if r, ok := d.redirect[target]; ok {
			target = r
		}
		if v, ok := d.seen[target]; ok {
			return v, nil
		}
		return d.decode(target)
	}
	if v, ok := d.seen[n]; ok {
		return v, nil
	}

	switch tag := n.ShortTag(); tag {
	case "!!map":
		return d.record(n)
	case "!!seq":
		return d.sequence(n)
	case TagMap:
		return d.orderedMap(n)
	case TagSet:
		return d.orderedSet(n)
	case TagBuffer:
		return d.buffer(n)
	case TagView:
		return d.view(n)
	case TagHidden:
		return nil, d.errorf(n, ErrCodeTag, "%s is only allowed on a mapping value", TagHidden)
	default:
		if n.Kind != yaml.ScalarNode {
			return nil, d.errorf(n, ErrCodeTag, "unsupported tag %s on a %s", tag, kindName(n.Kind))
		}
		v, err := d.scalar(n, tag)
		if err != nil {
			return nil, err
		}
		if value.IsContainer(v) || v.Kind() == value.KindOpaque {
			d.seen[n] = v
		}
		return v, nil
	}
}

// member decodes a mapping value, unwrapping a !hidden tag.
func (d *decoder) member(n *yaml.Node) (value.Value, bool, error) {
	if n.Kind == yaml.AliasNode || n.ShortTag() != TagHidden {
		v, err := d.decode(n)
		return v, false, err
	}
	plain := *n
	plain.Tag = ""
	plain.Style &^= yaml.TaggedStyle
	d.redirect[n] = &plain
	v, err := d.decode(&plain)
	return v, true, err
}

func (d *decoder) record(n *yaml.Node) (value.Value, error) {
	rec := value.NewRecord()
	d.seen[n] = rec
	for i := 0; i+1 < len(n.Content); i += 2 {
		k := n.Content[i]
		if k.Kind != yaml.ScalarNode {
			return nil, d.errorf(k, ErrCodeTag, "record keys must be scalars, got a %s", kindName(k.Kind))
		}
		v, hidden, err := d.member(n.Content[i+1])
		if err != nil {
			return nil, err
		}
		rec.Own().Define(value.Member{Key: k.Value, Value: v, Hidden: hidden})
	}
	return rec, nil
}

func (d *decoder) sequence(n *yaml.Node) (value.Value, error) {
	seq := value.NewSequence()
	d.seen[n] = seq
	for _, c := range n.Content {
		v, err := d.decode(c)
		if err != nil {
			return nil, err
		}
		seq.Append(v)
	}
	return seq, nil
}

func (d *decoder) orderedMap(n *yaml.Node) (value.Value, error) {
	m := value.NewOrderedMap()
	d.seen[n] = m

	switch n.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, err := d.decode(n.Content[i])
			if err != nil {
				return nil, err
			}
			v, err := d.decode(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			m.Set(k, v)
		}
	case yaml.SequenceNode:
		for _, pair := range n.Content {
			if pair.Kind != yaml.SequenceNode || len(pair.Content) != 2 {
				return nil, d.errorf(pair, ErrCodeTag, "%s entries must be [key, value] pairs", TagMap)
			}
			k, err := d.decode(pair.Content[0])
			if err != nil {
				return nil, err
			}
			v, err := d.decode(pair.Content[1])
			if err != nil {
				return nil, err
			}
			m.Set(k, v)
		}
	default:
		return nil, d.errorf(n, ErrCodeTag, "%s needs a mapping or a sequence of pairs", TagMap)
	}
	return m, nil
}

func (d *decoder) orderedSet(n *yaml.Node) (value.Value, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, d.errorf(n, ErrCodeTag, "%s needs a sequence", TagSet)
	}
	s := value.NewOrderedSet()
	d.seen[n] = s
	for _, c := range n.Content {
		v, err := d.decode(c)
		if err != nil {
			return nil, err
		}
		s.Add(v)
	}
	return s, nil
}

func (d *decoder) buffer(n *yaml.Node) (value.Value, error) {
	text := n.Value
	detached := false

	switch n.Kind {
	case yaml.ScalarNode:
	case yaml.MappingNode:
		fields := fieldsOf(n)
		if f, ok := fields["bytes"]; ok {
			text = f.Value
		}
		if f, ok := fields["detached"]; ok {
			if err := f.Decode(&detached); err != nil {
				return nil, d.errorf(f, ErrCodeTag, "detached: %v", err)
			}
		}
	default:
		return nil, d.errorf(n, ErrCodeTag, "%s needs hex text or a mapping", TagBuffer)
	}

	data, err := hex.DecodeString(strings.Join(strings.Fields(text), ""))
	if err != nil {
		return nil, d.errorf(n, ErrCodeTag, "%s: %v", TagBuffer, err)
	}
	buf := value.BufferFrom(data)
	if detached {
		buf.Detach()
	}
	d.seen[n] = buf
	return buf, nil
}

func (d *decoder) view(n *yaml.Node) (value.Value, error) {
	if n.Kind != yaml.MappingNode {
		return nil, d.errorf(n, ErrCodeTag, "%s needs a mapping", TagView)
	}
	fields := fieldsOf(n)

	var raw bool
	if f, ok := fields["raw"]; ok {
		if err := f.Decode(&raw); err != nil {
			return nil, d.errorf(f, ErrCodeTag, "raw: %v", err)
		}
	}

	kind := value.Uint8
	if f, ok := fields["kind"]; ok {
		k, known := value.ParseElemKind(f.Value)
		if !known {
			return nil, d.errorf(f, ErrCodeTag, "unknown view kind %q", f.Value)
		}
		kind = k
	} else if !raw {
		return nil, d.errorf(n, ErrCodeTag, "%s needs a kind", TagView)
	}

	var buf *value.Buffer
	if f, ok := fields["buffer"]; ok {
		v, err := d.decode(f)
		if err != nil {
			return nil, err
		}
		b, isBuf := v.(*value.Buffer)
		if !isBuf {
			return nil, d.errorf(f, ErrCodeValue, "view buffer must be a %s, got %s", TagBuffer, value.KindOf(v))
		}
		buf = b
	}

	offset, err := intField(fields, "offset", 0)
	if err != nil {
		return nil, d.errorf(n, ErrCodeTag, "%v", err)
	}
	length := 0
	if buf != nil {
		length = (buf.ByteLen() - offset) / kind.Size()
	}
	if length, err = intField(fields, "length", length); err != nil {
		return nil, d.errorf(n, ErrCodeTag, "%v", err)
	}

	marker := ""
	if f, ok := fields["marker"]; ok {
		marker = f.Value
	}
	if raw {
		marker = value.MarkerRawBytes
	}

	view, err := value.NewMarkedView(kind, buf, offset, length, marker)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeValue, Message: err.Error(), File: d.name, Line: n.Line, Column: n.Column, Err: err}
	}
	d.seen[n] = view
	return view, nil
}

func (d *decoder) scalar(n *yaml.Node, tag string) (value.Value, error) {
	switch tag {
	case "!!null":
		return value.Null{}, nil
	case "!!str":
		return value.String(n.Value), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, d.errorf(n, ErrCodeTag, "%v", err)
		}
		return value.Bool(b), nil
	case "!!int", "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, d.errorf(n, ErrCodeTag, "%v", err)
		}
		return value.Number(f), nil
	case "!!timestamp":
		var t time.Time
		if err := n.Decode(&t); err != nil {
			return nil, d.errorf(n, ErrCodeTag, "%v", err)
		}
		return value.DateOf(t), nil
	case "!!binary":
		data, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(n.Value), ""))
		if err != nil {
			return nil, d.errorf(n, ErrCodeTag, "!!binary: %v", err)
		}
		return value.BufferFrom(data), nil
	case TagUndefined:
		return value.Undefined{}, nil
	case TagDate:
		return d.date(n)
	case TagRegexp:
		return d.pattern(n, false)
	case TagForeignRegexp:
		return d.pattern(n, true)
	case TagOpaque:
		cat, name, _ := strings.Cut(n.Value, ":")
		category := value.OpaqueCategory(cat)
		if !value.ValidOpaqueCategory(category) {
			return nil, d.errorf(n, ErrCodeTag, "unknown opaque category %q", cat)
		}
		if name == "" {
			name = cat
		}
		return value.NewOpaque(category, name, nil), nil
	default:
		return nil, d.errorf(n, ErrCodeTag, "unsupported tag %s", tag)
	}
}

func (d *decoder) date(n *yaml.Node) (value.Value, error) {
	text := strings.TrimSpace(n.Value)
	if text == "invalid" || text == "NaN" {
		return value.InvalidDate(), nil
	}
	if ms, err := strconv.ParseFloat(text, 64); err == nil {
		dt, err := value.NewDate(ms)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeValue, Message: err.Error(), File: d.name, Line: n.Line, Column: n.Column, Err: err}
		}
		return dt, nil
	}
	t, err := time.Parse(time.RFC3339Nano, text)
	if err != nil {
		return nil, d.errorf(n, ErrCodeTag, "%s wants epoch milliseconds or RFC 3339, got %q", TagDate, text)
	}
	return value.DateOf(t), nil
}

func (d *decoder) pattern(n *yaml.Node, foreign bool) (value.Value, error) {
	text := n.Value
	end := strings.LastIndexByte(text, '/')
	if !strings.HasPrefix(text, "/") || end == 0 {
		return nil, d.errorf(n, ErrCodeTag, "pattern must look like /source/flags, got %q", text)
	}
	source, flags := text[1:end], text[end+1:]
	if foreign {
		return value.ForeignPattern(source, flags), nil
	}
	p, err := value.NewPattern(source, flags)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeValue, Message: err.Error(), File: d.name, Line: n.Line, Column: n.Column, Err: err}
	}
	return p, nil
}

func fieldsOf(n *yaml.Node) map[string]*yaml.Node {
	fields := make(map[string]*yaml.Node, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		fields[n.Content[i].Value] = n.Content[i+1]
	}
	return fields
}

func intField(fields map[string]*yaml.Node, key string, def int) (int, error) {
	f, ok := fields[key]
	if !ok {
		return def, nil
	}
	var n int
	if err := f.Decode(&n); err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	}
	return "node"
}
