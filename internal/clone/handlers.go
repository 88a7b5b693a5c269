package clone

import "github.com/roach88/deepclone/internal/value"

// special dispatches a special container to its handler. keep is false
// when the value has no backing storage and must be omitted.
func (cl *call) special(src value.Value) (value.Value, bool) {
	switch s := src.(type) {
	case *value.Pattern:
		return cl.pattern(s), true
	case *value.DateStamp:
		return cl.date(s), true
	case *value.OrderedMap:
		dst := s.Shell()
		cl.refs.Register(s, dst)
		cl.push(s, dst)
		cl.stats.Rebuilt++
		return dst, true
	case *value.OrderedSet:
		dst := s.Shell()
		cl.refs.Register(s, dst)
		cl.push(s, dst)
		cl.stats.Rebuilt++
		return dst, true
	case *value.Buffer:
		return cl.buffer(s), true
	case *value.BufferView:
		return cl.view(s)
	default:
		return src, true
	}
}

// rebuilt registers a freshly constructed target.
func (cl *call) rebuilt(src, dst value.Value) value.Value {
	cl.refs.Register(src, dst)
	cl.stats.Rebuilt++
	return dst
}

// fallback degrades a failed rebuild to sharing the source.
func (cl *call) fallback(src value.Value, err error) value.Value {
	cerr := NewConstructionError(src.Kind(), err)
	cl.log.Warn("rebuild failed, sharing original",
		"kind", src.Kind().String(),
		"error", cerr,
	)
	cl.refs.Register(src, src)
	cl.stats.Fallbacks++
	return src
}

func (cl *call) pattern(src *value.Pattern) value.Value {
	dst, err := value.NewPattern(src.Source(), src.Flags())
	if err != nil {
		return cl.fallback(src, err)
	}
	return cl.rebuilt(src, dst)
}

func (cl *call) date(src *value.DateStamp) value.Value {
	if !src.Valid() {
		return cl.rebuilt(src, value.InvalidDate())
	}
	dst, err := value.NewDate(src.Millis())
	if err != nil {
		return cl.fallback(src, err)
	}
	return cl.rebuilt(src, dst)
}

// buffer copies src byte for byte. Buffers reached both directly and
// through views are copied once.
func (cl *call) buffer(src *value.Buffer) *value.Buffer {
	if dst, ok := cl.refs.Lookup(src); ok {
		return dst.(*value.Buffer)
	}
	dst := value.BufferFrom(src.Bytes())
	if src.Detached() {
		dst.Detach()
	}
	cl.rebuilt(src, dst)
	return dst
}

// view builds a new view with the same element kind, offset, length and
// marker. In copy mode it projects over the copied buffer; a special root
// in alias mode keeps the original buffer.
func (cl *call) view(src *value.BufferView) (value.Value, bool) {
	if src.Detached() {
		cl.stats.Skipped++
		cl.log.Debug("skipping view without backing buffer",
			"elem", src.ElemKind().String(),
		)
		return nil, false
	}

	buf := src.Buffer()
	if cl.mode == ModeCopy {
		buf = cl.buffer(buf)
	}
	dst, err := value.NewMarkedView(src.ElemKind(), buf, src.Offset(), src.Len(), src.Marker())
	if err != nil {
		return cl.fallback(src, err), true
	}
	return cl.rebuilt(src, dst), true
}
