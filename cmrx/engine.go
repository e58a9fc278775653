package cmrx

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/katalvlaran/cmrx/mr"
	"github.com/katalvlaran/cmrx/order"
	"github.com/katalvlaran/cmrx/zone"
)

// engine holds the state of one Solve call. Nothing in it outlives the call.
type engine struct {
	opts   Options
	offset float64
	target float64 // Options.Target minus the offset; valid when opts.Target != nil
	log    *slog.Logger

	det     *zone.Detector
	ev      *Evaluator
	br      *brancher
	front   *frontier
	visited *VisitedSet

	// Incumbent.
	best    float64
	bestFit [][]float64
	bestAdj []order.Constraint

	iters         []IterationRecord
	improvements  int
	collisions    int
	cyclicAvoided int
	cancelled     bool
	targetHit     bool
}

// Solve runs branch-and-bound on p and returns the least-squares fit whose
// every condition pair lies outside the infeasible zones.
//
// A nil solver selects mr.NewActiveSet(). Cancellation through ctx or the
// listener is not an error: the best incumbent so far is returned with
// Result.Cancelled set.
//
// Errors:
//   - ErrInvalidProblem for malformed input (no search is attempted).
//   - ErrBadOptions for out-of-range options.
//   - ErrSolverAborted when a solver call fails and opts.EasyFail is set.
//   - ErrNoFeasibleSolution when every branch failed; the partial Result
//     is returned alongside for diagnostics.
func Solve(ctx context.Context, p *Problem, solver mr.Solver, opts Options) (*Result, error) {
	// 1) Validate input and options.
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := validateOptions(opts); err != nil {
		return nil, err
	}
	det, err := zone.NewDetector(p.NVar(), p.NCond(), p.InfeasibleZones)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidProblem, err)
	}
	if solver == nil {
		solver = mr.NewActiveSet()
	}
	if opts.ProgressEvery == 0 {
		opts.ProgressEvery = DefaultProgressEvery
	}

	// 2) Build the engine.
	start := time.Now()
	runID := uuid.NewString()
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	e := &engine{
		opts:   opts,
		offset: p.Offset,
		log:    logger.With(slog.String("run_id", runID)),
		det:    det,
		ev: &Evaluator{
			Solver:      solver,
			Means:       p.Means,
			Weights:     p.Weights,
			Tolerance:   mr.Tolerance{Primary: opts.SolverTolerance1, Fallback: opts.SolverTolerance2},
			AllowCyclic: opts.AllowCyclic,
		},
		br:      newBrancher(p.NVar(), p.Covectors),
		front:   newFrontier(),
		visited: NewVisitedSet(),
		best:    math.Inf(1),
	}
	if opts.Target != nil {
		e.target = *opts.Target - p.Offset
	}
	e.log.Info("solve started",
		slog.Int("nvar", p.NVar()), slog.Int("ncond", p.NCond()),
		slog.Int("covectors", len(p.Covectors)), slog.Int("zones", len(p.InfeasibleZones)),
		slog.String("seeding", opts.Seeding.String()))

	// 3) Raw means already feasible: nothing to fit.
	if _, bad := det.Check(p.Means); !bad {
		e.best = 0
		e.bestFit = cloneMeans(p.Means)
		e.bestAdj = p.baseSet().Items()

		return e.finish(runID, start, false)
	}

	// 4) Root: base constraints only.
	root := NewTrial(p.baseSet())
	e.visited.Add(root)
	out := root.Evaluate(ctx, e.ev)
	if out.Kind != Fitted {
		if opts.EasyFail {
			return nil, fmt.Errorf("%w: root: %w", ErrSolverAborted, out.Err)
		}
		e.countFailure(root, out)

		return e.finish(runID, start, false)
	}
	if _, bad := det.Check(out.Means); !bad {
		e.improve(root)

		return e.finish(runID, start, false)
	}

	// 5) Seed the incumbent.
	var seed *Trial
	switch opts.Seeding {
	case SeedGreedy:
		seed, err = e.seedGreedy(ctx, root)
	case SeedSurvivors:
		seed, err = e.seedSurvivors(ctx, root)
	}
	if err != nil {
		return nil, err
	}
	if seed != nil {
		e.setIncumbent(seed)
		e.improvements++
		e.log.Debug("incumbent seeded", slog.Float64("objective", e.best), slog.Int("solver_calls", e.ev.Calls()))
	}
	if opts.Target != nil && e.best < e.target {
		return e.targetExit(runID, start), nil
	}

	// 6) Best-first loop.
	e.front.push(root)
	if err = e.loop(ctx); err != nil {
		return nil, err
	}
	if e.targetHit {
		return e.targetExit(runID, start), nil
	}

	return e.finish(runID, start, true)
}

// gap returns the bound at which the search may stop.
func (e *engine) gap() float64 { return e.best * (1 - e.opts.Tolerance) }

// loop pops trials until the frontier empties, the gap closes, a target
// query is resolved or the search is cancelled.
func (e *engine) loop(ctx context.Context) error {
	var (
		t     *Trial
		out   Outcome
		floor float64
		v     zone.Violation
		bad   bool
	)
	for e.front.len() > 0 && e.front.minBound() < e.gap() {
		if ctx.Err() != nil {
			e.cancelled = true

			return nil
		}
		t, _ = e.front.pop()
		floor = t.bound

		// a) Periodic progress and cancellation.
		if e.opts.Listener != nil && len(e.iters)%e.opts.ProgressEvery == 0 {
			if !e.opts.Listener.Update(e.progress(floor)) {
				e.cancelled = true
				e.log.Info("search stopped by listener", slog.Int("iteration", len(e.iters)))

				return nil
			}
		}

		// b) Target query resolved by the bound.
		if e.opts.Target != nil && e.targetResolved(floor) {
			e.targetHit = true

			return nil
		}

		// c) Iteration record.
		e.iters = append(e.iters, IterationRecord{
			LowerBound: floor,
			Incumbent:  e.best,
			NextBound:  e.front.maxBound(floor),
			Frontier:   e.front.len(),
		})

		// d) Evaluate.
		out = t.Evaluate(ctx, e.ev)
		if ctx.Err() != nil {
			e.cancelled = true

			return nil
		}
		if out.Kind != Fitted {
			if e.opts.EasyFail {
				return fmt.Errorf("%w: trial %d: %w", ErrSolverAborted, t.ID(), out.Err)
			}
			e.countFailure(t, out)
			continue
		}
		if out.Objective >= e.best {
			continue
		}
		v, bad = e.det.Check(out.Means)
		if !bad {
			e.improve(t)
			continue
		}

		// e) Branch on the most significant violation.
		for _, br := range e.br.expand(t, v) {
			if !e.visited.Add(br.trial) {
				e.collisions++
				continue
			}
			e.front.push(br.trial)
		}
	}

	return nil
}

// targetResolved reports whether the side of the target is known.
func (e *engine) targetResolved(floor float64) bool {
	return e.best < e.target || (floor >= e.target && e.best >= e.target)
}

// setIncumbent records t as the best feasible trial.
func (e *engine) setIncumbent(t *Trial) {
	e.best = t.outcome.Objective
	e.bestFit = t.outcome.Means
	e.bestAdj = t.Adjacency()
}

// improve installs a better incumbent and prunes the frontier.
func (e *engine) improve(t *Trial) {
	e.setIncumbent(t)
	e.improvements++
	pruned := e.front.pruneAbove(e.best)
	e.log.Debug("incumbent improved",
		slog.Int("trial", t.ID()), slog.Float64("objective", e.best),
		slog.Int("pruned", pruned), slog.Int("frontier", e.front.len()))
}

// countFailure drops a failed trial. Failures count as avoided cycles when
// cyclic sets are disallowed.
func (e *engine) countFailure(t *Trial, out Outcome) {
	if !e.opts.AllowCyclic {
		e.cyclicAvoided++
	}
	e.log.Debug("branch dropped",
		slog.Int("trial", t.ID()), slog.String("kind", out.Kind.String()), slog.Any("err", out.Err))
}

func (e *engine) progress(floor float64) Progress {
	return Progress{
		LowerBound:    floor,
		Incumbent:     e.best,
		NextBound:     e.front.maxBound(floor),
		Frontier:      e.front.len(),
		Iteration:     len(e.iters),
		Improvements:  e.improvements,
		CyclicAvoided: e.cyclicAvoided,
	}
}

// result assembles the counters shared by every exit path.
func (e *engine) result(runID string, start time.Time) *Result {
	return &Result{
		RunID:         runID,
		Objective:     e.best + e.offset,
		Iterations:    e.iters,
		SolverCalls:   e.ev.Calls(),
		Improvements:  e.improvements,
		Collisions:    e.collisions,
		CyclicAvoided: e.cyclicAvoided,
		Cancelled:     e.cancelled,
		Elapsed:       time.Since(start),
	}
}

// targetExit reports only the objective and which side of the target it is on.
func (e *engine) targetExit(runID string, start time.Time) *Result {
	res := e.result(runID, start)
	res.TargetReached = e.best < e.target
	e.log.Info("target query resolved",
		slog.Bool("below_target", res.TargetReached), slog.Float64("objective", res.Objective))

	return res
}

// finish notifies the listener and builds the full result. closing appends
// the final record and is set only when the loop has run.
func (e *engine) finish(runID string, start time.Time, closing bool) (*Result, error) {
	if closing {
		e.iters = append(e.iters, IterationRecord{
			LowerBound: e.best,
			Incumbent:  e.best,
			NextBound:  e.best,
			Frontier:   e.front.len(),
		})
	}
	res := e.result(runID, start)
	res.Means = e.bestFit
	res.Adjacency = e.bestAdj
	if e.opts.Target != nil {
		res.TargetReached = e.best < e.target
	}
	if e.opts.Listener != nil {
		e.opts.Listener.Finished(res)
	}
	e.log.Info("solve finished",
		slog.Float64("objective", res.Objective), slog.Int("iterations", len(e.iters)),
		slog.Int("solver_calls", res.SolverCalls), slog.Int("improvements", res.Improvements),
		slog.Bool("cancelled", res.Cancelled), slog.Duration("elapsed", res.Elapsed))

	if !res.Feasible() && !res.Cancelled {
		return res, ErrNoFeasibleSolution
	}

	return res, nil
}
