package cmrx

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
)

// seedGreedy walks from root, keeping the single best fitted child at
// every step, until the fit is feasible. It returns nil when some
// violation leaves no fitted child.
//
// Every step adds at least one constraint, so the walk ends after at most
// nvar·ncond·(ncond−1) steps.
func (e *engine) seedGreedy(ctx context.Context, root *Trial) (*Trial, error) {
	cur := root
	for {
		if ctx.Err() != nil {
			return nil, nil
		}
		v, bad := e.det.Check(cur.outcome.Means)
		if !bad {
			return cur, nil
		}

		var best *Trial
		for _, br := range e.br.expand(cur, v) {
			if !br.grew {
				continue
			}
			out := br.trial.Evaluate(ctx, e.ev)
			if out.Kind != Fitted {
				if e.opts.EasyFail {
					return nil, fmt.Errorf("%w: seeding: %w", ErrSolverAborted, out.Err)
				}
				continue
			}
			if best == nil || out.Objective < best.outcome.Objective {
				best = br.trial
			}
		}
		if best == nil {
			e.log.Debug("greedy seed stuck", slog.Int("row", v.Row), slog.Int("column", v.Column), slog.Int("zone", v.Zone))

			return nil, nil
		}
		cur = best
	}
}

// seedSurvivors keeps up to width fitted nodes per level and returns the
// best feasible one met on the way, or nil.
func (e *engine) seedSurvivors(ctx context.Context, root *Trial) (*Trial, error) {
	width := e.opts.Beam
	if width == 0 {
		width = len(e.br.covectors)
	}
	seen := NewVisitedSet()
	seen.Add(root)

	var (
		seed  *Trial
		level = []*Trial{root}
		next  []*Trial
	)
	for len(level) > 0 {
		next = next[:0]
		for _, t := range level {
			if ctx.Err() != nil {
				return seed, nil
			}
			if seed != nil && t.outcome.Objective >= seed.outcome.Objective {
				continue
			}
			v, bad := e.det.Check(t.outcome.Means)
			if !bad {
				seed = t
				continue
			}
			for _, br := range e.br.expand(t, v) {
				if !br.grew || !seen.Add(br.trial) {
					continue
				}
				out := br.trial.Evaluate(ctx, e.ev)
				if out.Kind != Fitted {
					if e.opts.EasyFail {
						return nil, fmt.Errorf("%w: seeding: %w", ErrSolverAborted, out.Err)
					}
					continue
				}
				next = append(next, br.trial)
			}
		}
		slices.SortStableFunc(next, func(a, b *Trial) int {
			switch {
			case a.outcome.Objective < b.outcome.Objective:
				return -1
			case a.outcome.Objective > b.outcome.Objective:
				return 1
			default:
				return 0
			}
		})
		if len(next) > width {
			next = next[:width]
		}
		level, next = next, level
	}

	return seed, nil
}
