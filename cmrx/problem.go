package cmrx

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/cmrx/order"
	"github.com/katalvlaran/cmrx/zone"
)

// Problem is the immutable input of Solve.
type Problem struct {
	// Means is nvar×ncond: Means[k][i] is the observed mean of variable k in condition i.
	Means [][]float64

	// Weights holds one symmetric positive semi-definite ncond×ncond matrix per variable.
	Weights []mat.Symmetric

	// Base lists the order constraints that are always enforced.
	Base []order.Constraint

	// Covectors are the admissible joint directions, entries in {-1,0,+1}.
	Covectors [][]int

	// InfeasibleZones are the absolute zone codes that count as violations.
	InfeasibleZones []int

	// Offset is an additive constant folded into the reported objective.
	Offset float64
}

// NVar returns the number of variables.
func (p *Problem) NVar() int { return len(p.Means) }

// NCond returns the number of conditions.
func (p *Problem) NCond() int {
	if len(p.Means) == 0 {
		return 0
	}

	return len(p.Means[0])
}

// symTol is the absolute tolerance for the weight symmetry check.
const symTol = 1e-9

// Validate checks every structural invariant of the problem. All failures
// wrap ErrInvalidProblem.
//
// Complexity: O(nvar·ncond² + |covectors|·nvar + |Base|).
func (p *Problem) Validate() error {
	if p == nil {
		return fmt.Errorf("%w: nil problem", ErrInvalidProblem)
	}
	nvar, ncond := p.NVar(), p.NCond()
	if nvar < 1 || nvar > zone.MaxVars || ncond < 1 {
		return fmt.Errorf("%w: shape %dx%d", ErrInvalidProblem, nvar, ncond)
	}

	// 1) Means: rectangular and finite.
	var k, i, j int
	for k = 0; k < nvar; k++ {
		if len(p.Means[k]) != ncond {
			return fmt.Errorf("%w: means row %d has %d columns, want %d", ErrInvalidProblem, k, len(p.Means[k]), ncond)
		}
		for i = 0; i < ncond; i++ {
			if v := p.Means[k][i]; math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: means[%d][%d] is not finite", ErrInvalidProblem, k, i)
			}
		}
	}

	// 2) Weights: one symmetric matrix per variable with a non-negative diagonal.
	if len(p.Weights) != nvar {
		return fmt.Errorf("%w: %d weight matrices for %d variables", ErrInvalidProblem, len(p.Weights), nvar)
	}
	for k = 0; k < nvar; k++ {
		w := p.Weights[k]
		if w == nil || w.SymmetricDim() != ncond {
			return fmt.Errorf("%w: weight matrix %d is not %dx%d", ErrInvalidProblem, k, ncond, ncond)
		}
		for i = 0; i < ncond; i++ {
			if w.At(i, i) < 0 {
				return fmt.Errorf("%w: weight matrix %d has a negative diagonal", ErrInvalidProblem, k)
			}
			for j = i + 1; j < ncond; j++ {
				if math.Abs(w.At(i, j)-w.At(j, i)) > symTol {
					return fmt.Errorf("%w: weight matrix %d is not symmetric", ErrInvalidProblem, k)
				}
			}
		}
	}

	// 3) Base constraints inside the shape.
	for _, c := range p.Base {
		if err := c.Validate(nvar, ncond); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidProblem, err)
		}
	}

	// 4) Covectors: right length, ternary entries, pairwise distinct.
	seen := make(map[int]struct{}, len(p.Covectors))
	for ci, c := range p.Covectors {
		if err := zone.ValidateCovector(c, nvar); err != nil {
			return fmt.Errorf("%w: covector %d: %w", ErrInvalidProblem, ci, err)
		}
		code := zone.Encode(c)
		if _, dup := seen[code]; dup {
			return fmt.Errorf("%w: covector %d is a duplicate", ErrInvalidProblem, ci)
		}
		seen[code] = struct{}{}
	}
	if len(p.InfeasibleZones) > 0 && len(p.Covectors) == 0 {
		return fmt.Errorf("%w: infeasible zones without covectors", ErrInvalidProblem)
	}

	// 5) Zones in range (checked again by zone.NewDetector; reported here first).
	hi := zone.MaxCode(nvar)
	for _, z := range p.InfeasibleZones {
		if z < 1 || z > hi {
			return fmt.Errorf("%w: %w: %d", ErrInvalidProblem, zone.ErrZoneOutOfRange, z)
		}
	}

	return nil
}

// baseSet returns the always-enforced constraints as a canonical set.
func (p *Problem) baseSet() order.Set { return order.NewSet(p.Base...) }

// Identity returns nvar identity weight matrices of order ncond.
func Identity(nvar, ncond int) []mat.Symmetric {
	out := make([]mat.Symmetric, nvar)
	for k := range out {
		w := mat.NewSymDense(ncond, nil)
		for i := 0; i < ncond; i++ {
			w.SetSym(i, i, 1)
		}
		out[k] = w
	}

	return out
}
