package value

import "math"

// Entry is a single OrderedMap pair.
type Entry struct {
	Key   Value
	Value Value
}

// nanKey stands in for every NaN so NaN keys collapse to one slot.
type nanKey struct{}

// sameValueZero maps a key to a comparable Go value such that two keys
// are SameValueZero-equal iff their mapped values are ==. Containers and
// opaque handles are pointers and therefore compare by reference.
func sameValueZero(k Value) any {
	switch x := k.(type) {
	case nil:
		return Undefined{}
	case Number:
		f := float64(x)
		if math.IsNaN(f) {
			return nanKey{}
		}
		if f == 0 {
			return Number(0)
		}
		return x
	default:
		return k
	}
}

// OrderedMap maps keys to values in insertion order.
// It may carry extra own members and a subclass prototype.
type OrderedMap struct {
	entries []Entry
	index   map[any]int
	own     Props

	// Proto marks a subclass and holds its inherited members.
	Proto *Record
}

func (*OrderedMap) Kind() Kind { return KindMap }
func (*OrderedMap) value()     {}

// NewOrderedMap creates an OrderedMap from entries, in order.
func NewOrderedMap(entries ...Entry) *OrderedMap {
	m := &OrderedMap{}
	for _, e := range entries {
		m.Set(e.Key, e.Value)
	}
	return m
}

// Own returns the map's extra own members.
func (m *OrderedMap) Own() *Props { return &m.own }

// Len returns the number of entries.
func (m *OrderedMap) Len() int { return len(m.entries) }

// Get returns the value stored under key.
func (m *OrderedMap) Get(key Value) (Value, bool) {
	i, ok := m.index[sameValueZero(key)]
	if !ok {
		return nil, false
	}
	return m.entries[i].Value, true
}

// Has reports whether key is present.
func (m *OrderedMap) Has(key Value) bool {
	_, ok := m.index[sameValueZero(key)]
	return ok
}

// Set stores value under key. An existing key keeps its position.
func (m *OrderedMap) Set(key, val Value) {
	k := sameValueZero(key)
	if i, ok := m.index[k]; ok {
		m.entries[i].Value = val
		return
	}
	if m.index == nil {
		m.index = make(map[any]int)
	}
	if n, ok := key.(Number); ok && float64(n) == 0 {
		key = Number(0)
	}
	m.index[k] = len(m.entries)
	m.entries = append(m.entries, Entry{Key: key, Value: val})
}

// Delete removes key and reports whether it was present.
func (m *OrderedMap) Delete(key Value) bool {
	k := sameValueZero(key)
	i, ok := m.index[k]
	if !ok {
		return false
	}
	m.entries = append(m.entries[:i], m.entries[i+1:]...)
	delete(m.index, k)
	for j := i; j < len(m.entries); j++ {
		m.index[sameValueZero(m.entries[j].Key)] = j
	}
	return true
}

// Entries returns the entries in insertion order.
func (m *OrderedMap) Entries() []Entry {
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Keys returns the keys in insertion order.
func (m *OrderedMap) Keys() []Value {
	out := make([]Value, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.Key
	}
	return out
}

// Shell returns an empty OrderedMap with the same prototype and a shallow
// copy of every extra own member.
func (m *OrderedMap) Shell() *OrderedMap {
	return &OrderedMap{own: m.own.shallow(), Proto: m.Proto}
}

// OrderedSet holds distinct elements in insertion order.
// It may carry extra own members and a subclass prototype.
type OrderedSet struct {
	elems []Value
	index map[any]int
	own   Props

	// Proto marks a subclass and holds its inherited members.
	Proto *Record
}

func (*OrderedSet) Kind() Kind { return KindSet }
func (*OrderedSet) value()     {}

// NewOrderedSet creates an OrderedSet from elems, dropping duplicates.
func NewOrderedSet(elems ...Value) *OrderedSet {
	s := &OrderedSet{}
	for _, e := range elems {
		s.Add(e)
	}
	return s
}

// Own returns the set's extra own members.
func (s *OrderedSet) Own() *Props { return &s.own }

// Len returns the number of elements.
func (s *OrderedSet) Len() int { return len(s.elems) }

// Has reports whether elem is present.
func (s *OrderedSet) Has(elem Value) bool {
	_, ok := s.index[sameValueZero(elem)]
	return ok
}

// Add inserts elem if absent and reports whether it was inserted.
func (s *OrderedSet) Add(elem Value) bool {
	k := sameValueZero(elem)
	if _, ok := s.index[k]; ok {
		return false
	}
	if s.index == nil {
		s.index = make(map[any]int)
	}
	if n, ok := elem.(Number); ok && float64(n) == 0 {
		elem = Number(0)
	}
	s.index[k] = len(s.elems)
	s.elems = append(s.elems, elem)
	return true
}

// Delete removes elem and reports whether it was present.
func (s *OrderedSet) Delete(elem Value) bool {
	k := sameValueZero(elem)
	i, ok := s.index[k]
	if !ok {
		return false
	}
	s.elems = append(s.elems[:i], s.elems[i+1:]...)
	delete(s.index, k)
	for j := i; j < len(s.elems); j++ {
		s.index[sameValueZero(s.elems[j])] = j
	}
	return true
}

// Values returns the elements in insertion order.
func (s *OrderedSet) Values() []Value {
	out := make([]Value, len(s.elems))
	copy(out, s.elems)
	return out
}

// Shell returns an empty OrderedSet with the same prototype and a shallow
// copy of every extra own member.
func (s *OrderedSet) Shell() *OrderedSet {
	return &OrderedSet{own: s.own.shallow(), Proto: s.Proto}
}
