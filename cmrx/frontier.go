package cmrx

import (
	"math"

	"github.com/google/btree"
)

// frontierDegree is the B-tree node degree.
const frontierDegree = 32

// frontier is the open set ordered by (bound, insertion sequence), so
// equal bounds pop in insertion order.
type frontier struct {
	tree *btree.BTreeG[*Trial]
	seq  uint64
}

func lessTrial(a, b *Trial) bool {
	if a.bound != b.bound {
		return a.bound < b.bound
	}

	return a.seq < b.seq
}

func newFrontier() *frontier {
	return &frontier{tree: btree.NewG(frontierDegree, lessTrial)}
}

// push stamps t with the next sequence number and inserts it.
func (f *frontier) push(t *Trial) {
	f.seq++
	t.seq = f.seq
	f.tree.ReplaceOrInsert(t)
}

// pop removes and returns the smallest-bound trial.
func (f *frontier) pop() (*Trial, bool) {
	return f.tree.DeleteMin()
}

// minBound returns the smallest bound, or +Inf when empty.
func (f *frontier) minBound() float64 {
	t, ok := f.tree.Min()
	if !ok {
		return math.Inf(1)
	}

	return t.bound
}

// maxBound returns the largest bound, or empty when there is none.
func (f *frontier) maxBound(empty float64) float64 {
	t, ok := f.tree.Max()
	if !ok {
		return empty
	}

	return t.bound
}

// pruneAbove removes every trial whose bound exceeds limit, scanning from
// the worst end. It returns the number removed.
func (f *frontier) pruneAbove(limit float64) int {
	n := 0
	for {
		t, ok := f.tree.Max()
		if !ok || t.bound <= limit {
			return n
		}
		f.tree.DeleteMax()
		n++
	}
}

func (f *frontier) len() int { return f.tree.Len() }
