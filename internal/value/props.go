package value

// Member is a single own property of a container.
// Hidden members are own but not enumerable.
type Member struct {
	Key    string
	Value  Value
	Hidden bool
}

// Field is a shorthand for a visible Member.
// Example: NewRecord(Field("name", String("cart")), Field("count", Number(5)))
func Field(key string, v Value) Member {
	return Member{Key: key, Value: v}
}

// HiddenField is a shorthand for a hidden Member.
func HiddenField(key string, v Value) Member {
	return Member{Key: key, Value: v, Hidden: true}
}

// Props is an insertion-ordered set of own members.
// The zero value is an empty Props ready to use.
type Props struct {
	members []Member
	index   map[string]int
}

// Len returns the number of own members, hidden ones included.
func (p *Props) Len() int {
	return len(p.members)
}

// Get returns the own member stored under key.
func (p *Props) Get(key string) (Value, bool) {
	i, ok := p.index[key]
	if !ok {
		return nil, false
	}
	return p.members[i].Value, true
}

// Has reports whether key is an own member.
func (p *Props) Has(key string) bool {
	_, ok := p.index[key]
	return ok
}

// Set stores a visible member. An existing key keeps its position and
// its hidden flag.
func (p *Props) Set(key string, v Value) {
	if i, ok := p.index[key]; ok {
		p.members[i].Value = v
		return
	}
	p.add(Member{Key: key, Value: v})
}

// SetHidden stores a hidden member, or hides an existing one.
func (p *Props) SetHidden(key string, v Value) {
	if i, ok := p.index[key]; ok {
		p.members[i].Value = v
		p.members[i].Hidden = true
		return
	}
	p.add(Member{Key: key, Value: v, Hidden: true})
}

// Define stores m as-is, replacing any member with the same key in place.
func (p *Props) Define(m Member) {
	if i, ok := p.index[m.Key]; ok {
		p.members[i] = m
		return
	}
	p.add(m)
}

func (p *Props) add(m Member) {
	if p.index == nil {
		p.index = make(map[string]int)
	}
	p.index[m.Key] = len(p.members)
	p.members = append(p.members, m)
}

// Delete removes key and reports whether it was present.
func (p *Props) Delete(key string) bool {
	i, ok := p.index[key]
	if !ok {
		return false
	}
	p.members = append(p.members[:i], p.members[i+1:]...)
	delete(p.index, key)
	for j := i; j < len(p.members); j++ {
		p.index[p.members[j].Key] = j
	}
	return true
}

// Keys returns the visible member keys in insertion order.
func (p *Props) Keys() []string {
	keys := make([]string, 0, len(p.members))
	for _, m := range p.members {
		if !m.Hidden {
			keys = append(keys, m.Key)
		}
	}
	return keys
}

// Visible returns the visible members in insertion order.
func (p *Props) Visible() []Member {
	out := make([]Member, 0, len(p.members))
	for _, m := range p.members {
		if !m.Hidden {
			out = append(out, m)
		}
	}
	return out
}

// Members returns every own member in insertion order.
func (p *Props) Members() []Member {
	out := make([]Member, len(p.members))
	copy(out, p.members)
	return out
}

// VisibleLen returns the number of enumerable members.
func (p *Props) VisibleLen() int {
	n := 0
	for _, m := range p.members {
		if !m.Hidden {
			n++
		}
	}
	return n
}

// shallow returns an independent Props holding the same member values.
func (p *Props) shallow() Props {
	if len(p.members) == 0 {
		return Props{}
	}
	out := Props{
		members: make([]Member, len(p.members)),
		index:   make(map[string]int, len(p.members)),
	}
	copy(out.members, p.members)
	for i, m := range out.members {
		out.index[m.Key] = i
	}
	return out
}
