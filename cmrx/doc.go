// Package cmrx finds the weighted least-squares closest set of condition
// means that is monotone across conditions for every variable, where the
// admissible joint orderings are given by a finite list of covectors.
//
// The search is a best-first Branch-and-Bound over sets of pairwise order
// constraints:
//
//  1. A search node (Trial) is a constraint set. Evaluating it calls the
//     monotone-regression solver (mr.Solver) once; the fitted objective is a
//     valid lower bound for every descendant, because adding constraints
//     only shrinks the feasible region.
//  2. The fitted means are checked with a zone.Detector. A feasible fit is a
//     candidate incumbent. An infeasible one is split on its most significant
//     violating condition pair: for each covector, the variables whose sign
//     disagrees with the covector receive one new constraint each.
//  3. Unevaluated children inherit the parent's objective as bound and wait
//     in a frontier ordered by (bound, insertion sequence). Children whose
//     constraint set was already produced elsewhere are dropped (VisitedSet).
//  4. Before the loop a greedy depth-first heuristic seeds the incumbent so
//     that pruning starts early. When the incumbent improves, every frontier
//     node with a larger bound is discarded.
//  5. The loop stops when the frontier is empty or the relative gap closes:
//     lowerBound ≥ incumbent·(1 − Tolerance).
//
// Options select fatal vs. recoverable solver failures (EasyFail), whether
// cyclic constraint sets are allowed (AllowCyclic), the optimality gap, the
// seeding heuristic, and an optional Target for fast "is the optimum below
// t?" queries. A ProgressListener can observe the search and stop it; the
// best incumbent is then returned as a best-effort result.
//
// The search is single-threaded; there is exactly one solver call in flight.
package cmrx
