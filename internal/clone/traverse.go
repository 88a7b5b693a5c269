package clone

import (
	"log/slog"

	"github.com/roach88/deepclone/internal/value"
)

// frame is a registered target whose members are not yet filled in.
type frame struct {
	src value.Value
	dst value.Value
}

// call is the state of one Clone invocation.
type call struct {
	mode  Mode
	refs  *Tracker
	work  []frame
	stats Stats
	log   *slog.Logger
}

// run clones a cloneable root and drains the worklist.
func (cl *call) run(root value.Value) (value.Value, error) {
	var dst value.Value
	if IsCloneableNested(root) {
		dst = cl.shell(root)
	} else {
		// A special root is always rebuilt: asking to clone it must not
		// return the same reference. Its members follow the mode.
		out, keep := cl.special(root)
		if !keep {
			return root, nil
		}
		dst = out
	}
	if err := cl.drain(); err != nil {
		return nil, err
	}
	return dst, nil
}

func (cl *call) push(src, dst value.Value) {
	cl.work = append(cl.work, frame{src: src, dst: dst})
}

func (cl *call) drain() error {
	for len(cl.work) > 0 {
		f := cl.work[len(cl.work)-1]
		cl.work = cl.work[:len(cl.work)-1]
		if err := cl.fill(f); err != nil {
			return err
		}
	}
	return nil
}

// shell allocates the target for a record or sequence and registers it
// before any member is visited. Containers without visible members are
// registered but never queued.
func (cl *call) shell(src value.Value) value.Value {
	var (
		dst     value.Value
		members int
	)
	switch s := src.(type) {
	case *value.Record:
		dst = s.Shell()
		members = s.Own().VisibleLen()
	case *value.Sequence:
		dst = s.Shell()
		members = s.Len() + s.Own().VisibleLen()
	default:
		return src
	}
	cl.refs.Register(src, dst)
	if members > 0 {
		cl.push(src, dst)
	}
	return dst
}

// member resolves one member value to what the target should hold.
// keep is false when the member must be omitted from the target.
func (cl *call) member(v value.Value) (out value.Value, keep bool, err error) {
	switch {
	case v == nil:
		return v, true, nil
	case v.Kind() == value.KindOpaque:
		cl.stats.Shared++
		return v, true, nil
	case !value.IsContainer(v):
		return v, true, nil
	case value.IsNil(v):
		return nil, false, NewInvalidInputError(v.Kind())
	}

	if dst, ok := cl.refs.Lookup(v); ok {
		return dst, true, nil
	}
	if IsCloneableNested(v) {
		return cl.shell(v), true, nil
	}
	if cl.mode == ModeAlias {
		cl.stats.Shared++
		return v, true, nil
	}
	out, keep = cl.special(v)
	return out, keep, nil
}

// fill populates a registered target from its source.
func (cl *call) fill(f frame) error {
	switch dst := f.dst.(type) {
	case *value.Record:
		return cl.fillProps(f.src.(*value.Record).Own(), dst.Own())

	case *value.Sequence:
		src := f.src.(*value.Sequence)
		for i, elem := range src.Elems {
			out, keep, err := cl.member(elem)
			if err != nil {
				return err
			}
			if !keep {
				out = value.Undefined{}
			}
			dst.Elems[i] = out
		}
		return cl.fillProps(src.Own(), dst.Own())

	case *value.OrderedMap:
		src := f.src.(*value.OrderedMap)
		for _, e := range src.Entries() {
			k, keepKey, err := cl.member(e.Key)
			if err != nil {
				return err
			}
			v, keepVal, err := cl.member(e.Value)
			if err != nil {
				return err
			}
			if keepKey && keepVal {
				dst.Set(k, v)
			}
		}
		return cl.fillProps(src.Own(), dst.Own())

	case *value.OrderedSet:
		src := f.src.(*value.OrderedSet)
		for _, elem := range src.Values() {
			out, keep, err := cl.member(elem)
			if err != nil {
				return err
			}
			if keep {
				dst.Add(out)
			}
		}
		return cl.fillProps(src.Own(), dst.Own())
	}
	return nil
}

// fillProps processes the visible own members of src into dst. dst already
// holds a shallow copy of every member, so hidden members stay shared.
func (cl *call) fillProps(src, dst *value.Props) error {
	for _, m := range src.Visible() {
		out, keep, err := cl.member(m.Value)
		if err != nil {
			return err
		}
		if !keep {
			dst.Delete(m.Key)
			continue
		}
		dst.Set(m.Key, out)
	}
	return nil
}
