package mr

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/cmrx/order"
)

// ActiveSet is the reference Solver. The zero value is ready to use and safe
// for concurrent calls; only the call counter is shared.
type ActiveSet struct {
	// MaxIter bounds the iterations of the first attempt per variable.
	// Zero selects 20·(ncond + constraints) + 100. The fallback attempt gets four times as many.
	MaxIter int

	calls atomic.Int64
}

// NewActiveSet returns an ActiveSet with default settings.
func NewActiveSet() *ActiveSet { return &ActiveSet{} }

// Calls returns how many times Solve has been invoked.
func (s *ActiveSet) Calls() int64 { return s.calls.Load() }

// Solve fits req variable by variable.
//
// Errors: ErrBadRequest, ErrCyclicConstraints (when !req.AllowCyclic),
// ErrNotConverged / ErrSingularSystem after both attempts failed, or the
// context error.
func (s *ActiveSet) Solve(ctx context.Context, req Request) (Fit, error) {
	s.calls.Add(1)

	nvar, ncond, err := checkShape(req)
	if err != nil {
		return Fit{}, err
	}
	tol := req.Tolerance.withDefaults()

	var (
		k   int
		out = Fit{Means: make([][]float64, nvar)}
	)
	for k = 0; k < nvar; k++ {
		cs := req.Constraints.ForVar(k)
		if !req.AllowCyclic {
			if cyc := order.FindCycle(ncond, cs); cyc != nil {
				return Fit{}, fmt.Errorf("%w: variable %d, conditions %v", ErrCyclicConstraints, k, cyc)
			}
		}
		if err = ctx.Err(); err != nil {
			return Fit{}, err
		}

		budget := s.MaxIter
		if budget <= 0 {
			budget = 20*(ncond+len(cs)) + 100
		}

		// 1) Primary attempt.
		q := newQP(req.Means[k], req.Weights[k], cs, tol.Primary, budget, 0)
		x, f, qerr := q.solve()
		if qerr != nil {
			// 2) Fallback: looser tolerance, bigger budget, small ridge.
			q = newQP(req.Means[k], req.Weights[k], cs, tol.Fallback, 4*budget, tol.Fallback)
			x, f, qerr = q.solve()
			if qerr != nil {
				return Fit{}, fmt.Errorf("variable %d: %w", k, qerr)
			}
		}
		out.Means[k] = x
		out.Objective += f
	}

	return out, nil
}

// checkShape validates the request dimensions and returns (nvar, ncond).
func checkShape(req Request) (int, int, error) {
	nvar := len(req.Means)
	if nvar == 0 || len(req.Weights) != nvar {
		return 0, 0, fmt.Errorf("%w: %d mean rows, %d weight matrices", ErrBadRequest, nvar, len(req.Weights))
	}
	ncond := len(req.Means[0])
	if ncond == 0 {
		return 0, 0, fmt.Errorf("%w: no conditions", ErrBadRequest)
	}
	for k := 0; k < nvar; k++ {
		if len(req.Means[k]) != ncond {
			return 0, 0, fmt.Errorf("%w: row %d has %d conditions, want %d", ErrBadRequest, k, len(req.Means[k]), ncond)
		}
		if req.Weights[k] == nil || req.Weights[k].SymmetricDim() != ncond {
			return 0, 0, fmt.Errorf("%w: weight matrix %d is not %dx%d", ErrBadRequest, k, ncond, ncond)
		}
	}
	for _, c := range req.Constraints.Items() {
		if err := c.Validate(nvar, ncond); err != nil {
			return 0, 0, fmt.Errorf("%w: %w", ErrBadRequest, err)
		}
	}

	return nvar, ncond, nil
}

// qp is the single-variable problem min (x−y)ᵀW(x−y) s.t. x[hi] ≥ x[lo].
type qp struct {
	n       int
	y       []float64
	w       mat.Symmetric
	wFit    mat.Symmetric // w, possibly with a ridge; used for the iterations only
	cons    []order.Constraint
	tolStep float64
	tolMult float64
	maxIter int

	x         []float64
	working   []int
	inWorking []bool
}

// newQP prepares a problem; ridge > 0 adds ridge·mean(diag W) to the diagonal.
func newQP(y []float64, w mat.Symmetric, cons []order.Constraint, tol float64, maxIter int, ridge float64) *qp {
	n := len(y)
	scale := 1.0
	for _, v := range y {
		scale = math.Max(scale, math.Abs(v))
	}
	q := &qp{
		n:         n,
		y:         y,
		w:         w,
		wFit:      w,
		cons:      cons,
		tolStep:   tol * scale,
		tolMult:   10 * tol * scale,
		maxIter:   maxIter,
		inWorking: make([]bool, len(cons)),
	}
	if ridge > 0 {
		var trace float64
		for i := 0; i < n; i++ {
			trace += w.At(i, i)
		}
		eps := ridge * math.Max(trace/float64(n), 1)
		r := mat.NewSymDense(n, nil)
		r.CopySym(w)
		for i := 0; i < n; i++ {
			r.SetSym(i, i, r.At(i, i)+eps)
		}
		q.wFit = r
		q.tolMult *= math.Max(trace/float64(n), 1)
	}

	// Constant start: every order constraint holds with equality.
	var mean float64
	for _, v := range y {
		mean += v
	}
	mean /= float64(n)
	q.x = make([]float64, n)
	for i := range q.x {
		q.x[i] = mean
	}

	return q
}

// solve runs the primal active-set iterations and returns (x, objective).
func (q *qp) solve() ([]float64, float64, error) {
	if len(q.cons) == 0 {
		x := append([]float64(nil), q.y...)

		return x, 0, nil
	}

	var (
		it   int
		p    = make([]float64, q.n)
		lam  []float64
		err  error
		step float64
	)
	for it = 0; it < q.maxIter; it++ {
		// 1) Equality-constrained step for the current working set.
		lam, err = q.kktStep(p)
		if err != nil {
			return nil, 0, err
		}

		step = 0
		for _, v := range p {
			step = math.Max(step, math.Abs(v))
		}

		if step <= q.tolStep {
			// 2) Stationary on the working set: optimal unless a multiplier is negative.
			j, minLam := -1, -q.tolMult
			for r, l := range lam {
				if l < minLam {
					j, minLam = r, l
				}
			}
			if j < 0 {
				return q.x, q.objective(), nil
			}
			q.inWorking[q.working[j]] = false
			q.working = append(q.working[:j], q.working[j+1:]...)

			continue
		}

		// 3) Ratio test over constraints outside the working set.
		alpha, block := 1.0, -1
		for i, c := range q.cons {
			if q.inWorking[i] {
				continue
			}
			ap := p[c.Hi] - p[c.Lo]
			if ap >= -q.tolStep {
				continue
			}
			slack := math.Max(q.x[c.Hi]-q.x[c.Lo], 0)
			if t := slack / -ap; t < alpha {
				alpha, block = t, i
			}
		}
		for i := range q.x {
			q.x[i] += alpha * p[i]
		}
		if block >= 0 {
			q.inWorking[block] = true
			q.working = append(q.working, block)
		}
	}

	return nil, 0, ErrNotConverged
}

// kktStep solves
//
//	[ 2W  −Aᵀ ] [p]   [−g]
//	[ A    0  ] [λ] = [ 0]
//
// with g = 2W(x−y) and A the working-set rows eₕᵢ − eₗₒ. It writes p and
// returns the multipliers in working-set order.
func (q *qp) kktStep(p []float64) ([]float64, error) {
	var (
		n    = q.n
		m    = len(q.working)
		size = n + m
		i, j int
	)

	d := mat.NewVecDense(n, nil)
	for i = 0; i < n; i++ {
		d.SetVec(i, q.x[i]-q.y[i])
	}
	var g mat.VecDense
	g.MulVec(q.wFit, d)

	kkt := mat.NewDense(size, size, nil)
	rhs := mat.NewVecDense(size, nil)
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			kkt.Set(i, j, 2*q.wFit.At(i, j))
		}
		rhs.SetVec(i, -2*g.AtVec(i))
	}
	for r, idx := range q.working {
		c := q.cons[idx]
		kkt.Set(n+r, c.Hi, 1)
		kkt.Set(n+r, c.Lo, -1)
		kkt.Set(c.Hi, n+r, -1)
		kkt.Set(c.Lo, n+r, 1)
	}

	var sol mat.VecDense
	if err := sol.SolveVec(kkt, rhs); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) || math.IsInf(float64(cond), 0) {
			return nil, fmt.Errorf("%w: %v", ErrSingularSystem, err)
		}
	}

	for i = 0; i < n; i++ {
		p[i] = sol.AtVec(i)
	}
	lam := make([]float64, m)
	for r := 0; r < m; r++ {
		lam[r] = sol.AtVec(n + r)
	}

	return lam, nil
}

// objective evaluates (x−y)ᵀW(x−y) with the caller's weights.
func (q *qp) objective() float64 {
	d := mat.NewVecDense(q.n, nil)
	for i := 0; i < q.n; i++ {
		d.SetVec(i, q.x[i]-q.y[i])
	}

	return mat.Inner(d, q.w, d)
}
