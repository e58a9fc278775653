package cmrx

import (
	"github.com/katalvlaran/cmrx/order"
	"github.com/katalvlaran/cmrx/zone"
)

// branch is one candidate child of an expanded trial. grew is false when
// the covector disagreed only where it has a zero entry, so the child's
// constraint set equals its parent's.
type branch struct {
	trial *Trial
	grew  bool
}

// brancher turns a violation into child trials, one per covector with a
// nonempty disagreement set.
type brancher struct {
	covectors [][]int
	cache     *zone.DecodeCache
	dis       []int // scratch for zone.Disagreement
	nextID    int
}

func newBrancher(nvar int, covectors [][]int) *brancher {
	return &brancher{
		covectors: covectors,
		cache:     zone.NewDecodeCache(nvar),
		dis:       make([]int, 0, nvar),
	}
}

// expand builds the children of t for violation v.
//
// For a disagreeing variable k the covector sign picks the direction:
// c[k] > 0 requires the row condition above the column condition, c[k] < 0
// the reverse, c[k] == 0 adds nothing.
func (b *brancher) expand(t *Trial, v zone.Violation) []branch {
	signs := b.cache.Signs(v.Zone)
	out := make([]branch, 0, len(b.covectors))

	var (
		k     int
		child *Trial
		grew  bool
		added bool
		c     order.Constraint
	)
	for _, cov := range b.covectors {
		b.dis = zone.Disagreement(b.dis, signs, cov)
		if len(b.dis) == 0 {
			continue
		}
		b.nextID++
		child = t.Split(b.nextID)
		grew = false
		for _, k = range b.dis {
			switch {
			case cov[k] > 0:
				c = order.Constraint{Var: k, Hi: v.Row, Lo: v.Column}
			case cov[k] < 0:
				c = order.Constraint{Var: k, Hi: v.Column, Lo: v.Row}
			default:
				continue
			}
			// child is fresh, AddConstraint cannot fail here.
			added, _ = child.AddConstraint(c)
			grew = grew || added
		}
		out = append(out, branch{trial: child, grew: grew})
	}

	return out
}
