package mr

import (
	"context"
	"errors"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/cmrx/order"
)

// Default tolerances of the reference solver.
const (
	DefaultTolerance1 = 1e-10
	DefaultTolerance2 = 1e-7
)

var (
	// ErrCyclicConstraints is returned when a variable's constraint graph has
	// a directed cycle and the request does not allow cyclic problems.
	ErrCyclicConstraints = errors.New("mr: cyclic order constraints")

	// ErrNotConverged is returned when the iteration budget is exhausted.
	ErrNotConverged = errors.New("mr: solver did not converge")

	// ErrSingularSystem is returned when a KKT system cannot be factorised.
	ErrSingularSystem = errors.New("mr: singular KKT system")

	// ErrBadRequest indicates mismatched shapes in a Request.
	ErrBadRequest = errors.New("mr: malformed request")
)

// Tolerance carries the two precision knobs forwarded to the solver.
// Zero values select DefaultTolerance1 / DefaultTolerance2.
type Tolerance struct {
	Primary  float64
	Fallback float64
}

// withDefaults fills zero fields.
func (t Tolerance) withDefaults() Tolerance {
	if t.Primary <= 0 {
		t.Primary = DefaultTolerance1
	}
	if t.Fallback <= 0 {
		t.Fallback = DefaultTolerance2
	}

	return t
}

// Request is one weighted monotone-regression problem.
type Request struct {
	// Means is the nvar×ncond matrix of observed means. It is never modified.
	Means [][]float64

	// Weights holds one ncond×ncond symmetric weight matrix per variable.
	Weights []mat.Symmetric

	// Constraints is the full effective constraint set.
	Constraints order.Set

	Tolerance Tolerance

	// AllowCyclic lets constraint graphs with directed cycles through; the
	// conditions on a cycle are then fitted as equal.
	AllowCyclic bool
}

// Fit is a successful solver answer.
type Fit struct {
	Means     [][]float64
	Objective float64
}

// Solver is the port the engine calls once per search node. Implementations
// must be idempotent and free of side effects visible to the caller, so that
// memoising a node's answer is sound.
type Solver interface {
	Solve(ctx context.Context, req Request) (Fit, error)
}
