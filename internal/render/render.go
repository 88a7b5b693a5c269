// Package render prints a value graph as an indented tree.
//
// A container reached more than once is printed in full at its first
// occurrence, tagged &N, and every later occurrence prints *N. Cycles
// therefore terminate and aliasing is visible:
//
//	Record &1
//	  name: "a"
//	  self: *1
//
// Traversal uses an explicit stack, so arbitrarily deep graphs render
// without growing the goroutine stack.
package render

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/roach88/deepclone/internal/value"
)

// maxHexBytes bounds the bytes shown inline for a buffer.
const maxHexBytes = 32

var (
	accentColor    = lipgloss.Color("#3B82F6")
	scalarColor    = lipgloss.Color("#10B981")
	mutedColor     = lipgloss.Color("#6B7280")
	highlightColor = lipgloss.Color("#F59E0B")
)

// Options controls rendering.
type Options struct {
	// Styled colors kinds, labels and anchors. The color profile is taken
	// from the destination writer, so non-terminals get plain text.
	Styled bool
}

// Write renders v to w.
func Write(w io.Writer, v value.Value, opts Options) error {
	bw := bufio.NewWriter(w)
	p := &printer{
		out:     bw,
		indeg:   inDegrees(v),
		anchors: make(map[value.Value]int),
	}
	if opts.Styled {
		p.styled = true
		p.st = newStyles(lipgloss.NewRenderer(w))
	}
	p.run(v)
	if p.err != nil {
		return p.err
	}
	return bw.Flush()
}

// String renders v without styling.
func String(v value.Value) string {
	var sb strings.Builder
	_ = Write(&sb, v, Options{})
	return sb.String()
}

type styles struct {
	label  lipgloss.Style
	kind   lipgloss.Style
	scalar lipgloss.Style
	ref    lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		label:  r.NewStyle().Foreground(mutedColor),
		kind:   r.NewStyle().Bold(true).Foreground(accentColor),
		scalar: r.NewStyle().Foreground(scalarColor),
		ref:    r.NewStyle().Foreground(highlightColor),
	}
}

// edge is a labelled child of a container.
type edge struct {
	label string
	v     value.Value
}

type item struct {
	edge
	depth int
	root  bool
}

type printer struct {
	out     *bufio.Writer
	styled  bool
	st      styles
	indeg   map[value.Value]int
	anchors map[value.Value]int
	err     error
}

func (p *printer) paint(s lipgloss.Style, text string) string {
	if !p.styled {
		return text
	}
	return s.Render(text)
}

func (p *printer) run(root value.Value) {
	stack := []item{{edge: edge{v: root}, root: true}}
	for len(stack) > 0 && p.err == nil {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		text, children := p.describe(it.v)

		var sb strings.Builder
		sb.WriteString(strings.Repeat("  ", it.depth))
		if !it.root {
			sb.WriteString(p.paint(p.st.label, it.label))
			sb.WriteString(": ")
		}
		sb.WriteString(text)
		sb.WriteByte('\n')
		if _, err := p.out.WriteString(sb.String()); err != nil {
			p.err = err
			return
		}

		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, item{edge: children[i], depth: it.depth + 1})
		}
	}
}

// describe returns the line text for v and, on the first visit of a
// container, its children.
func (p *printer) describe(v value.Value) (string, []edge) {
	if v == nil || !isRef(v) {
		return p.paint(p.st.scalar, scalar(v)), nil
	}
	if id, seen := p.anchors[v]; seen {
		return p.paint(p.st.ref, "*"+strconv.Itoa(id)), nil
	}

	text := p.paint(p.st.kind, header(v))
	if p.indeg[v] > 1 {
		id := len(p.anchors) + 1
		p.anchors[v] = id
		text += " " + p.paint(p.st.ref, "&"+strconv.Itoa(id))
	}
	return text, edges(v)
}

// inDegrees counts references to every container reachable from root.
// The root itself counts one extra reference.
func inDegrees(root value.Value) map[value.Value]int {
	indeg := make(map[value.Value]int)
	if root == nil || !isRef(root) {
		return indeg
	}
	indeg[root] = 1
	visited := map[value.Value]bool{root: true}
	stack := []value.Value{root}
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, e := range edges(v) {
			if e.v == nil || !isRef(e.v) {
				continue
			}
			indeg[e.v]++
			if !visited[e.v] {
				visited[e.v] = true
				stack = append(stack, e.v)
			}
		}
	}
	return indeg
}

func isRef(v value.Value) bool {
	return value.IsContainer(v) || v.Kind() == value.KindOpaque
}

func edges(v value.Value) []edge {
	if value.IsNil(v) {
		return nil
	}
	var out []edge
	props := func(p *value.Props) {
		for _, m := range p.Members() {
			label := m.Key
			if m.Hidden {
				label += " (hidden)"
			}
			out = append(out, edge{label: label, v: m.Value})
		}
	}
	switch x := v.(type) {
	case *value.Record:
		props(x.Own())
	case *value.Sequence:
		for i, e := range x.Elems {
			out = append(out, edge{label: "[" + strconv.Itoa(i) + "]", v: e})
		}
		props(x.Own())
	case *value.OrderedMap:
		for i, e := range x.Entries() {
			n := strconv.Itoa(i)
			out = append(out, edge{label: "key[" + n + "]", v: e.Key}, edge{label: "val[" + n + "]", v: e.Value})
		}
		props(x.Own())
	case *value.OrderedSet:
		for i, e := range x.Values() {
			out = append(out, edge{label: "[" + strconv.Itoa(i) + "]", v: e})
		}
		props(x.Own())
	case *value.BufferView:
		if x.Buffer() != nil {
			out = append(out, edge{label: "buffer", v: x.Buffer()})
		}
	}
	return out
}

func header(v value.Value) string {
	if value.IsNil(v) {
		return "nil " + v.Kind().String()
	}
	switch x := v.(type) {
	case *value.Record:
		return withProto("Record", x.Proto != nil)
	case *value.Sequence:
		return fmt.Sprintf("Sequence(%d)", x.Len())
	case *value.OrderedMap:
		return withProto(fmt.Sprintf("Map(%d)", x.Len()), x.Proto != nil)
	case *value.OrderedSet:
		return withProto(fmt.Sprintf("Set(%d)", x.Len()), x.Proto != nil)
	case *value.DateStamp:
		return "Date(" + x.String() + ")"
	case *value.Pattern:
		return "Pattern(" + x.String() + ")"
	case *value.Buffer:
		return bufferHeader(x)
	case *value.BufferView:
		return viewHeader(x)
	case *value.Opaque:
		return fmt.Sprintf("Opaque(%s:%s)", x.Category, x.Name)
	}
	return v.Kind().String()
}

func withProto(s string, has bool) string {
	if has {
		return s + " (proto)"
	}
	return s
}

func bufferHeader(b *value.Buffer) string {
	if b.Detached() {
		return "Buffer(detached)"
	}
	data := b.Bytes()
	if len(data) == 0 {
		return "Buffer(0)"
	}
	shown := data
	if len(shown) > maxHexBytes {
		shown = shown[:maxHexBytes]
	}
	s := fmt.Sprintf("Buffer(%d) %s", len(data), hex.EncodeToString(shown))
	if len(shown) < len(data) {
		s += "..."
	}
	return s
}

func viewHeader(v *value.BufferView) string {
	var sb strings.Builder
	sb.WriteString("View(")
	sb.WriteString(v.ElemKind().String())
	if m := v.Marker(); m != "" {
		sb.WriteString(" " + m)
	}
	fmt.Fprintf(&sb, " offset=%d len=%d", v.Offset(), v.Len())
	if v.Detached() {
		sb.WriteString(" detached")
	}
	sb.WriteString(")")
	return sb.String()
}

func scalar(v value.Value) string {
	switch x := v.(type) {
	case nil, value.Undefined:
		return "undefined"
	case value.Null:
		return "null"
	case value.String:
		return strconv.Quote(string(x))
	case value.Number:
		return x.String()
	case value.Bool:
		return strconv.FormatBool(bool(x))
	}
	return v.Kind().String()
}
