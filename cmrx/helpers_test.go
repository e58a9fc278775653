package cmrx_test

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/cmrx/cmrx"
	"github.com/katalvlaran/cmrx/mr"
	"github.com/katalvlaran/cmrx/order"
	"github.com/katalvlaran/cmrx/zone"
)

var errBoom = errors.New("boom")

// failingSolver fails every call.
type failingSolver struct{}

func (failingSolver) Solve(context.Context, mr.Request) (mr.Fit, error) {
	return mr.Fit{}, errBoom
}

// cyclicSolver rejects every request as cyclic.
type cyclicSolver struct{}

func (cyclicSolver) Solve(context.Context, mr.Request) (mr.Fit, error) {
	return mr.Fit{}, mr.ErrCyclicConstraints
}

// golden is the two-variable monotone model on two conditions whose means
// cross: var0 = [1,2], var1 = [2,1], weights I and 4I. Pooling var0 costs
// 0.5, pooling var1 costs 2, so the optimum is 0.5 with var0 = [1.5,1.5].
func golden() *cmrx.Problem {
	w0 := mat.NewSymDense(2, []float64{1, 0, 0, 1})
	w1 := mat.NewSymDense(2, []float64{4, 0, 0, 4})

	return &cmrx.Problem{
		Means:           [][]float64{{1, 2}, {2, 1}},
		Weights:         []mat.Symmetric{w0, w1},
		Covectors:       zone.Monotone(2),
		InfeasibleZones: []int{2},
	}
}

// randomMonotone draws a two-variable monotone problem with positive
// diagonal weights.
func randomMonotone(rng *rand.Rand, ncond int) *cmrx.Problem {
	means := make([][]float64, 2)
	weights := make([]mat.Symmetric, 2)
	for k := range means {
		means[k] = make([]float64, ncond)
		w := mat.NewSymDense(ncond, nil)
		for i := 0; i < ncond; i++ {
			means[k][i] = rng.Float64()
			w.SetSym(i, i, 0.5+rng.Float64())
		}
		weights[k] = w
	}
	zones, _ := zone.Infeasible(2, zone.Monotone(2))

	return &cmrx.Problem{
		Means:           means,
		Weights:         weights,
		Covectors:       zone.Monotone(2),
		InfeasibleZones: zones,
	}
}

// bruteForce returns the two-variable monotone optimum as the best fit over
// every common ordering of the conditions.
func bruteForce(p *cmrx.Problem) float64 {
	n := p.NCond()
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	best := math.Inf(1)
	solver := mr.NewActiveSet()
	for {
		var cs []order.Constraint
		for i := 0; i+1 < n; i++ {
			for k := 0; k < 2; k++ {
				cs = append(cs, order.Constraint{Var: k, Hi: perm[i+1], Lo: perm[i]})
			}
		}
		fit, err := solver.Solve(context.Background(), mr.Request{
			Means:       p.Means,
			Weights:     p.Weights,
			Constraints: order.NewSet(cs...),
		})
		if err == nil && fit.Objective < best {
			best = fit.Objective
		}
		if !nextPermutation(perm) {
			return best
		}
	}
}

// nextPermutation advances p to the next lexicographic permutation.
func nextPermutation(p []int) bool {
	i := len(p) - 2
	for i >= 0 && p[i] >= p[i+1] {
		i--
	}
	if i < 0 {
		return false
	}
	j := len(p) - 1
	for p[j] <= p[i] {
		j--
	}
	p[i], p[j] = p[j], p[i]
	for l, r := i+1, len(p)-1; l < r; l, r = l+1, r-1 {
		p[l], p[r] = p[r], p[l]
	}

	return true
}
