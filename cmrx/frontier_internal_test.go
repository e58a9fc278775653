package cmrx

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/cmrx/order"
)

func trialAt(id int, bound float64) *Trial {
	return &Trial{id: id, bound: bound, cons: order.NewSet()}
}

func TestFrontier_TiesPopInInsertionOrder(t *testing.T) {
	f := newFrontier()
	require.True(t, math.IsInf(f.minBound(), 1))
	require.Equal(t, 7.0, f.maxBound(7))

	f.push(trialAt(1, 2))
	f.push(trialAt(2, 1))
	f.push(trialAt(3, 1))
	f.push(trialAt(4, 2))
	require.Equal(t, 4, f.len())
	require.Equal(t, 1.0, f.minBound())
	require.Equal(t, 2.0, f.maxBound(-1))

	var got []int
	for f.len() > 0 {
		tr, ok := f.pop()
		require.True(t, ok)
		got = append(got, tr.id)
	}
	require.Equal(t, []int{2, 3, 1, 4}, got)
}

func TestFrontier_PruneAboveKeepsBoundary(t *testing.T) {
	f := newFrontier()
	for i, b := range []float64{0.1, 0.5, 0.5, 0.9, 3} {
		f.push(trialAt(i, b))
	}
	require.Equal(t, 2, f.pruneAbove(0.5))
	require.Equal(t, 3, f.len())
	require.Zero(t, f.pruneAbove(10))
}
