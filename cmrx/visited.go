package cmrx

// VisitedSet deduplicates trials by their canonical constraint signature.
type VisitedSet struct {
	keys map[string]struct{}
}

// NewVisitedSet returns an empty set.
func NewVisitedSet() *VisitedSet {
	return &VisitedSet{keys: make(map[string]struct{})}
}

// Contains reports whether a trial with the same effective constraints was added.
func (v *VisitedSet) Contains(t *Trial) bool {
	_, ok := v.keys[t.cons.Key()]

	return ok
}

// Add records t and reports whether it was new.
func (v *VisitedSet) Add(t *Trial) bool {
	k := t.cons.Key()
	if _, ok := v.keys[k]; ok {
		return false
	}
	v.keys[k] = struct{}{}

	return true
}

// Len returns the number of distinct signatures.
func (v *VisitedSet) Len() int { return len(v.keys) }
