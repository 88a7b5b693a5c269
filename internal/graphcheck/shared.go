package graphcheck

import "github.com/roach88/deepclone/internal/value"

// Children returns every value directly referenced by v: prototype, own
// members (hidden ones included), elements, entries and backing buffer.
func Children(v value.Value) []value.Value {
	if value.IsNil(v) {
		return nil
	}
	var out []value.Value
	props := func(p *value.Props) {
		for _, m := range p.Members() {
			out = append(out, m.Value)
		}
	}
	switch x := v.(type) {
	case *value.Record:
		if x.Proto != nil {
			out = append(out, x.Proto)
		}
		props(x.Own())
	case *value.Sequence:
		out = append(out, x.Elems...)
		props(x.Own())
	case *value.OrderedMap:
		if x.Proto != nil {
			out = append(out, x.Proto)
		}
		for _, e := range x.Entries() {
			out = append(out, e.Key, e.Value)
		}
		props(x.Own())
	case *value.OrderedSet:
		if x.Proto != nil {
			out = append(out, x.Proto)
		}
		out = append(out, x.Values()...)
		props(x.Own())
	case *value.BufferView:
		if x.Buffer() != nil {
			out = append(out, x.Buffer())
		}
	}
	return out
}

// Containers returns every container reachable from root, root included,
// in first-visit depth-first order.
func Containers(root value.Value) []value.Value {
	var out []value.Value
	seen := make(map[value.Value]bool)
	stack := []value.Value{root}
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !value.IsContainer(v) || value.IsNil(v) || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
		children := Children(v)
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
	return out
}

// SharedContainers returns the containers reachable from both a and b,
// in b's visit order.
func SharedContainers(a, b value.Value) []value.Value {
	inA := make(map[value.Value]bool)
	for _, c := range Containers(a) {
		inA[c] = true
	}
	var out []value.Value
	for _, c := range Containers(b) {
		if inA[c] {
			out = append(out, c)
		}
	}
	return out
}

// SharedOfKind filters SharedContainers(a, b) to one kind.
func SharedOfKind(a, b value.Value, kind value.Kind) []value.Value {
	var out []value.Value
	for _, c := range SharedContainers(a, b) {
		if c.Kind() == kind {
			out = append(out, c)
		}
	}
	return out
}

// VisibleChildren is Children without prototypes and hidden members:
// the edges a clone traverses.
func VisibleChildren(v value.Value) []value.Value {
	if value.IsNil(v) {
		return nil
	}
	var out []value.Value
	props := func(p *value.Props) {
		for _, m := range p.Visible() {
			out = append(out, m.Value)
		}
	}
	switch x := v.(type) {
	case *value.Record:
		props(x.Own())
	case *value.Sequence:
		out = append(out, x.Elems...)
		props(x.Own())
	case *value.OrderedMap:
		for _, e := range x.Entries() {
			out = append(out, e.Key, e.Value)
		}
		props(x.Own())
	case *value.OrderedSet:
		out = append(out, x.Values()...)
		props(x.Own())
	case *value.BufferView:
		if x.Buffer() != nil {
			out = append(out, x.Buffer())
		}
	}
	return out
}

// Walk returns the containers reachable from root through visible edges,
// in first-visit depth-first order. A container's children are followed
// only when expand reports true for it; root is always expanded.
func Walk(root value.Value, expand func(value.Value) bool) []value.Value {
	var out []value.Value
	seen := make(map[value.Value]bool)
	stack := []value.Value{root}
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !value.IsContainer(v) || value.IsNil(v) || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
		if v != root && !expand(v) {
			continue
		}
		children := VisibleChildren(v)
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
	return out
}
