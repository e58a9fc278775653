// Package cmrx is the root of a conjoint monotone regression toolkit: given
// condition means for several variables, find the closest (weighted least
// squares) means such that every pair of conditions is ordered the same way
// across variables, up to an admissible set of joint directions.
//
// The work is split into small packages:
//
//	zone/        base-3 violation signatures, detection, infeasible-zone derivation
//	order/       pairwise order constraints, canonical sets, cycle detection
//	mr/          the monotone-regression solver port and an active-set solver
//	cmrx/        Problem, Trial, VisitedSet and the Branch-and-Bound engine
//	progress/    listeners: slog, Prometheus, iteration budget, fan-out
//	problemfile/ YAML/JSON problem files
//	logging/     slog logger construction
//	cmd/cmrx/    the command-line front end (solve, check, zones)
//
// Quick start:
//
//	p := &cmrx.Problem{
//		Means:           [][]float64{{1, 2}, {2, 1}},
//		Weights:         cmrx.Identity(2, 2),
//		Covectors:       zone.Monotone(2),
//		InfeasibleZones: []int{2},
//	}
//	res, err := cmrx.Solve(ctx, p, nil, cmrx.DefaultOptions())
package cmrx
