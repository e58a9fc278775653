package cmrx

import (
	"context"
	"errors"
	"math"
	"slices"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/cmrx/mr"
	"github.com/katalvlaran/cmrx/order"
)

// OutcomeKind tags the three possible answers of Trial.Evaluate.
type OutcomeKind int

const (
	// Pending means the trial has not been evaluated yet.
	Pending OutcomeKind = iota

	// Fitted carries fitted means and an objective.
	Fitted

	// Cyclic means the solver rejected the constraint set as cyclic.
	Cyclic

	// Failed means the solver reported any other error.
	Failed
)

// String returns a short label for logs.
func (k OutcomeKind) String() string {
	switch k {
	case Pending:
		return "pending"
	case Fitted:
		return "fitted"
	case Cyclic:
		return "cyclic"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is the memoised result of one solver call.
type Outcome struct {
	Kind      OutcomeKind
	Means     [][]float64
	Objective float64
	Err       error
}

// Evaluator binds the fixed solver inputs of one Solve call.
// The call counter is not safe for concurrent use; Solve is single-threaded.
type Evaluator struct {
	Solver      mr.Solver
	Means       [][]float64
	Weights     []mat.Symmetric
	Tolerance   mr.Tolerance
	AllowCyclic bool

	calls int
}

// Calls returns the number of solver invocations made through e.
func (e *Evaluator) Calls() int { return e.calls }

// Trial is one search node: an effective constraint set (base plus
// accumulated constraints) and its lazily computed fit.
type Trial struct {
	id    int
	bound float64
	seq   uint64
	cons  order.Set

	outcome Outcome
}

// NewTrial returns the root trial over base. Its bound is 0.
func NewTrial(base order.Set) *Trial {
	return &Trial{cons: base.Clone(0)}
}

// ID returns the identifier given at creation.
func (t *Trial) ID() int { return t.id }

// Bound returns the objective when evaluated and fitted, otherwise the
// lower bound inherited from the parent.
func (t *Trial) Bound() float64 { return t.bound }

// Evaluated reports whether Evaluate has run.
func (t *Trial) Evaluated() bool { return t.outcome.Kind != Pending }

// Outcome returns the memoised outcome (Kind Pending before Evaluate).
func (t *Trial) Outcome() Outcome { return t.outcome }

// Adjacency returns a copy of the full effective constraint set.
func (t *Trial) Adjacency() []order.Constraint { return t.cons.Items() }

// Constraints returns the canonical constraint set; callers must not mutate it.
func (t *Trial) Constraints() order.Set { return t.cons }

// Split returns an unevaluated child inheriting t's constraints. The child's
// bound is t's current bound: constraints only shrink the feasible region.
func (t *Trial) Split(id int) *Trial {
	return &Trial{
		id:    id,
		bound: t.bound,
		cons:  t.cons.Clone(1),
	}
}

// AddConstraint appends c. It returns false when c was already present and
// ErrTrialEvaluated once the trial has been evaluated.
func (t *Trial) AddConstraint(c order.Constraint) (bool, error) {
	if t.Evaluated() {
		return false, ErrTrialEvaluated
	}

	return t.cons.Add(c), nil
}

// Evaluate calls the solver once and memoises the answer. An empty
// constraint set is settled with the raw means and objective 0, without
// a solver call.
func (t *Trial) Evaluate(ctx context.Context, e *Evaluator) Outcome {
	if t.Evaluated() {
		return t.outcome
	}
	if t.cons.Len() == 0 {
		t.outcome = Outcome{Kind: Fitted, Means: cloneMeans(e.Means), Objective: 0}
		t.bound = 0

		return t.outcome
	}

	e.calls++
	fit, err := e.Solver.Solve(ctx, mr.Request{
		Means:       e.Means,
		Weights:     e.Weights,
		Constraints: t.cons,
		Tolerance:   e.Tolerance,
		AllowCyclic: e.AllowCyclic,
	})
	switch {
	case errors.Is(err, mr.ErrCyclicConstraints):
		t.outcome = Outcome{Kind: Cyclic, Objective: math.Inf(1), Err: err}
	case err != nil:
		t.outcome = Outcome{Kind: Failed, Objective: math.Inf(1), Err: err}
	default:
		t.outcome = Outcome{Kind: Fitted, Means: fit.Means, Objective: fit.Objective}
		// Never report less than the inherited bound; the solver is only
		// accurate to its tolerance.
		if fit.Objective > t.bound {
			t.bound = fit.Objective
		}
	}

	return t.outcome
}

// cloneMeans copies every row of m.
func cloneMeans(m [][]float64) [][]float64 {
	out := make([][]float64, len(m))
	for k, row := range m {
		out[k] = slices.Clone(row)
	}

	return out
}
