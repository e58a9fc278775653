package order

import (
	"encoding/binary"
	"slices"
)

// Set is a sorted, duplicate-free constraint collection. The zero value is an
// empty set. Sets have value semantics only through Clone: Add mutates in place.
type Set struct {
	items []Constraint
}

// NewSet builds a set from cs, dropping duplicates.
func NewSet(cs ...Constraint) Set {
	var s Set
	s.items = make([]Constraint, 0, len(cs))
	for _, c := range cs {
		s.Add(c)
	}

	return s
}

// Clone returns an independent copy with room for extra more constraints.
func (s Set) Clone(extra int) Set {
	items := make([]Constraint, len(s.items), len(s.items)+extra)
	copy(items, s.items)

	return Set{items: items}
}

// Add inserts c keeping the order; it reports false if c was already present.
func (s *Set) Add(c Constraint) bool {
	i, found := slices.BinarySearchFunc(s.items, c, compare)
	if found {
		return false
	}
	s.items = slices.Insert(s.items, i, c)

	return true
}

// Contains reports whether c is in the set.
func (s Set) Contains(c Constraint) bool {
	_, found := slices.BinarySearchFunc(s.items, c, compare)

	return found
}

// Len returns the number of constraints.
func (s Set) Len() int { return len(s.items) }

// Items returns a copy of the constraints in canonical order.
func (s Set) Items() []Constraint { return slices.Clone(s.items) }

// Equal reports whether both sets hold the same constraints.
func (s Set) Equal(o Set) bool { return slices.Equal(s.items, o.items) }

// ForVar returns the constraints on variable k (a view; do not modify).
func (s Set) ForVar(k int) []Constraint {
	lo, _ := slices.BinarySearchFunc(s.items, Constraint{Var: k, Hi: -1, Lo: -1}, compare)
	hi := lo
	for hi < len(s.items) && s.items[hi].Var == k {
		hi++
	}

	return s.items[lo:hi]
}

// Key returns the canonical signature of the set: equal sets give equal keys,
// whatever order their constraints were added in.
func (s Set) Key() string {
	buf := make([]byte, 0, len(s.items)*6)
	for _, c := range s.items {
		buf = binary.AppendUvarint(buf, uint64(c.Var))
		buf = binary.AppendUvarint(buf, uint64(c.Hi))
		buf = binary.AppendUvarint(buf, uint64(c.Lo))
	}

	return string(buf)
}
