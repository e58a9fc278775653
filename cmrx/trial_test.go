package cmrx_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/cmrx/cmrx"
	"github.com/katalvlaran/cmrx/mr"
	"github.com/katalvlaran/cmrx/order"
)

func newEvaluator(p *cmrx.Problem) *cmrx.Evaluator {
	return &cmrx.Evaluator{
		Solver:      mr.NewActiveSet(),
		Means:       p.Means,
		Weights:     p.Weights,
		AllowCyclic: true,
	}
}

func TestTrial_RootSettlesWithoutSolver(t *testing.T) {
	p := golden()
	ev := newEvaluator(p)
	root := cmrx.NewTrial(order.Set{})

	out := root.Evaluate(context.Background(), ev)
	require.Equal(t, cmrx.Fitted, out.Kind)
	require.Zero(t, out.Objective)
	require.Equal(t, p.Means, out.Means)
	require.Zero(t, ev.Calls())
	require.True(t, root.Evaluated())
}

func TestTrial_SplitInheritsConstraintsAndBound(t *testing.T) {
	p := golden()
	ev := newEvaluator(p)
	base := order.NewSet(order.Constraint{Var: 0, Hi: 0, Lo: 1})
	parent := cmrx.NewTrial(base)
	parent.Evaluate(context.Background(), ev)
	require.InDelta(t, 0.5, parent.Bound(), 1e-9)

	child := parent.Split(7)
	require.Equal(t, 7, child.ID())
	require.False(t, child.Evaluated())
	require.Equal(t, parent.Bound(), child.Bound())
	require.Equal(t, parent.Adjacency(), child.Adjacency())

	added, err := child.AddConstraint(order.Constraint{Var: 1, Hi: 1, Lo: 0})
	require.NoError(t, err)
	require.True(t, added)
	added, err = child.AddConstraint(order.Constraint{Var: 1, Hi: 1, Lo: 0})
	require.NoError(t, err)
	require.False(t, added, "duplicate constraints are idempotent")
	require.Len(t, child.Adjacency(), 2)
	require.Len(t, parent.Adjacency(), 1, "parent is not affected by the child")
}

func TestTrial_EvaluateIsMemoised(t *testing.T) {
	p := golden()
	ev := newEvaluator(p)
	tr := cmrx.NewTrial(order.NewSet(order.Constraint{Var: 1, Hi: 1, Lo: 0}))

	first := tr.Evaluate(context.Background(), ev)
	second := tr.Evaluate(context.Background(), ev)
	require.Equal(t, cmrx.Fitted, first.Kind)
	require.InDelta(t, 2.0, first.Objective, 1e-9)
	require.Equal(t, first, second)
	require.Equal(t, 1, ev.Calls())

	_, err := tr.AddConstraint(order.Constraint{Var: 0, Hi: 0, Lo: 1})
	require.ErrorIs(t, err, cmrx.ErrTrialEvaluated)
}

func TestTrial_ChildObjectiveNeverBelowParent(t *testing.T) {
	p := golden()
	ev := newEvaluator(p)
	parent := cmrx.NewTrial(order.NewSet(order.Constraint{Var: 0, Hi: 0, Lo: 1}))
	parent.Evaluate(context.Background(), ev)

	child := parent.Split(1)
	_, err := child.AddConstraint(order.Constraint{Var: 1, Hi: 1, Lo: 0})
	require.NoError(t, err)
	out := child.Evaluate(context.Background(), ev)
	require.Equal(t, cmrx.Fitted, out.Kind)
	require.GreaterOrEqual(t, out.Objective, parent.Outcome().Objective)
	require.InDelta(t, 2.5, out.Objective, 1e-9)
}

func TestTrial_SolverErrorsAreClassified(t *testing.T) {
	p := golden()
	ev := &cmrx.Evaluator{Solver: cyclicSolver{}, Means: p.Means, Weights: p.Weights}
	tr := cmrx.NewTrial(order.NewSet(order.Constraint{Var: 0, Hi: 0, Lo: 1}))
	require.Equal(t, cmrx.Cyclic, tr.Evaluate(context.Background(), ev).Kind)

	ev = &cmrx.Evaluator{Solver: failingSolver{}, Means: p.Means, Weights: p.Weights}
	tr = cmrx.NewTrial(order.NewSet(order.Constraint{Var: 0, Hi: 0, Lo: 1}))
	out := tr.Evaluate(context.Background(), ev)
	require.Equal(t, cmrx.Failed, out.Kind)
	require.ErrorIs(t, out.Err, errBoom)
}

func TestVisitedSet_IgnoresInsertionOrder(t *testing.T) {
	a := order.Constraint{Var: 0, Hi: 0, Lo: 1}
	b := order.Constraint{Var: 1, Hi: 2, Lo: 0}

	left := cmrx.NewTrial(order.NewSet(a)).Split(1)
	_, _ = left.AddConstraint(b)
	right := cmrx.NewTrial(order.NewSet(b)).Split(2)
	_, _ = right.AddConstraint(a)
	_, _ = right.AddConstraint(a)

	v := cmrx.NewVisitedSet()
	require.True(t, v.Add(left))
	require.True(t, v.Contains(right))
	require.False(t, v.Add(right))
	require.Equal(t, 1, v.Len())
}
