package value

// Record is a plain record: ordered own members plus an optional
// prototype holding inherited members.
type Record struct {
	own Props

	// Proto holds inherited members. It is never enumerated and never
	// copied; clones reference the same prototype.
	Proto *Record
}

func (*Record) Kind() Kind { return KindRecord }
func (*Record) value()     {}

// NewRecord creates a Record holding the given members in order.
func NewRecord(members ...Member) *Record {
	r := &Record{}
	for _, m := range members {
		r.own.Define(m)
	}
	return r
}

// Own returns the record's own members.
func (r *Record) Own() *Props { return &r.own }

// Get returns an own member.
func (r *Record) Get(key string) (Value, bool) { return r.own.Get(key) }

// Set stores a visible own member.
func (r *Record) Set(key string, v Value) { r.own.Set(key, v) }

// Lookup resolves key through own members first, then the prototype chain.
func (r *Record) Lookup(key string) (Value, bool) {
	seen := map[*Record]bool{}
	for cur := r; cur != nil && !seen[cur]; cur = cur.Proto {
		if v, ok := cur.own.Get(key); ok {
			return v, true
		}
		seen[cur] = true
	}
	return nil, false
}

// Shell returns a new Record with the same prototype and a shallow copy
// of every own member, hidden ones included.
func (r *Record) Shell() *Record {
	return &Record{own: r.own.shallow(), Proto: r.Proto}
}

// Sequence is an ordered list of elements. Elements are its integer-keyed
// own members; named own members live in Own().
type Sequence struct {
	Elems []Value
	own   Props
}

func (*Sequence) Kind() Kind { return KindSequence }
func (*Sequence) value()     {}

// NewSequence creates a Sequence holding elems.
func NewSequence(elems ...Value) *Sequence {
	s := &Sequence{Elems: make([]Value, len(elems))}
	copy(s.Elems, elems)
	return s
}

// Own returns the sequence's named own members.
func (s *Sequence) Own() *Props { return &s.own }

// Len returns the number of elements.
func (s *Sequence) Len() int { return len(s.Elems) }

// Append adds elements at the end.
func (s *Sequence) Append(vals ...Value) { s.Elems = append(s.Elems, vals...) }

// Shell returns a new Sequence with a shallow copy of the elements and
// of every named own member.
func (s *Sequence) Shell() *Sequence {
	out := &Sequence{Elems: make([]Value, len(s.Elems)), own: s.own.shallow()}
	copy(out.Elems, s.Elems)
	return out
}
