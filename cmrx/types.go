package cmrx

import (
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/katalvlaran/cmrx/order"
)

var (
	// ErrInvalidProblem is returned when the problem cannot even be checked:
	// shapes, weights, covectors or infeasible zones are malformed.
	ErrInvalidProblem = errors.New("cmrx: invalid problem")

	// ErrBadOptions indicates an Options value outside its documented range.
	ErrBadOptions = errors.New("cmrx: invalid options")

	// ErrTrialEvaluated is returned by Trial.AddConstraint after evaluation.
	ErrTrialEvaluated = errors.New("cmrx: trial already evaluated")

	// ErrSolverAborted is returned when a solver call fails and EasyFail is set.
	ErrSolverAborted = errors.New("cmrx: solver failure aborted the search")

	// ErrNoFeasibleSolution is returned when the search ended without any
	// feasible incumbent (every branch failed or was cyclic).
	ErrNoFeasibleSolution = errors.New("cmrx: no feasible solution found")
)

// SeedAlgo selects the heuristic that seeds the incumbent before the search.
type SeedAlgo int

const (
	// SeedGreedy follows the single best child at every step.
	SeedGreedy SeedAlgo = iota

	// SeedSurvivors keeps up to Beam surviving children per step.
	SeedSurvivors

	// SeedNone starts the search without an incumbent.
	SeedNone
)

// String returns the flag spelling of the algorithm.
func (a SeedAlgo) String() string {
	switch a {
	case SeedGreedy:
		return "greedy"
	case SeedSurvivors:
		return "survivors"
	case SeedNone:
		return "none"
	default:
		return "unknown"
	}
}

// ParseSeedAlgo is the inverse of SeedAlgo.String.
func ParseSeedAlgo(s string) (SeedAlgo, error) {
	switch s {
	case "greedy", "":
		return SeedGreedy, nil
	case "survivors":
		return SeedSurvivors, nil
	case "none":
		return SeedNone, nil
	default:
		return 0, ErrBadOptions
	}
}

// DefaultProgressEvery is the listener period, in iterations.
const DefaultProgressEvery = 100

// Options configures Solve.
type Options struct {
	// EasyFail aborts the whole search on the first failed solver call
	// (ErrSolverAborted). Otherwise the failing branch is dropped.
	EasyFail bool

	// AllowCyclic lets the solver accept constraint sets with directed cycles.
	// When false such branches fail and are counted in Result.CyclicAvoided.
	AllowCyclic bool

	// Tolerance is the relative optimality gap in [0, 1); 0 means exact.
	Tolerance float64

	// SolverTolerance1 and SolverTolerance2 are forwarded to the solver as its
	// primary and fallback precision; 0 keeps the solver defaults.
	SolverTolerance1 float64
	SolverTolerance2 float64

	// Seeding picks the incumbent heuristic.
	Seeding SeedAlgo

	// Beam is the SeedSurvivors width; 0 means one per covector.
	Beam int

	// Target, when set, turns Solve into a query against *Target: the search
	// stops as soon as it is known on which side of the target the optimum
	// lies, and only the objective is reported.
	Target *float64

	// Listener receives progress every ProgressEvery iterations and may stop the search.
	Listener      ProgressListener
	ProgressEvery int

	// Logger receives Debug/Info events; nil discards them.
	Logger *slog.Logger
}

// DefaultOptions returns exact search, recoverable failures, cyclic sets
// allowed and greedy seeding.
func DefaultOptions() Options {
	return Options{
		EasyFail:      false,
		AllowCyclic:   true,
		Tolerance:     0,
		Seeding:       SeedGreedy,
		ProgressEvery: DefaultProgressEvery,
	}
}

// Progress is the status snapshot handed to a ProgressListener.
type Progress struct {
	LowerBound float64
	Incumbent  float64

	// NextBound is the worst bound still open, or LowerBound when the
	// frontier is empty.
	NextBound     float64
	Frontier      int
	Iteration     int
	Improvements  int
	CyclicAvoided int
}

// ProgressListener observes a running search.
type ProgressListener interface {
	// Update is called periodically; returning false stops the search and
	// the current incumbent is returned as a best-effort result.
	Update(p Progress) bool

	// Finished is called once with the final result (not on early target
	// exits or aborts).
	Finished(r *Result)
}

// IterationRecord is one row of the iteration log. NextBound follows
// Progress.NextBound.
type IterationRecord struct {
	LowerBound float64 `json:"lower_bound"`
	Incumbent  float64 `json:"incumbent"`
	NextBound  float64 `json:"next_bound"`
	Frontier   int     `json:"frontier"`
}

// Result is the outcome of Solve.
type Result struct {
	RunID string `json:"run_id"`

	// Objective includes the problem's additive constant.
	Objective float64 `json:"objective"`

	// Means and Adjacency are nil when only a bound was requested (Target)
	// or no feasible solution was found.
	Means     [][]float64        `json:"means,omitempty"`
	Adjacency []order.Constraint `json:"adjacency,omitempty"`

	Iterations []IterationRecord `json:"iterations,omitempty"`

	SolverCalls   int `json:"solver_calls"`
	Improvements  int `json:"improvements"`
	Collisions    int `json:"collisions"`
	CyclicAvoided int `json:"cyclic_avoided"`

	// Cancelled marks a best-effort result stopped by the listener or context.
	Cancelled bool `json:"cancelled"`

	// TargetReached reports, in Target mode, whether the objective is below the target.
	TargetReached bool `json:"target_reached"`

	Elapsed time.Duration `json:"elapsed"`
}

// Seconds returns the wall-clock time of the run in seconds.
func (r *Result) Seconds() float64 { return r.Elapsed.Seconds() }

// Feasible reports whether the result carries a finite objective.
func (r *Result) Feasible() bool { return !math.IsInf(r.Objective, 0) && !math.IsNaN(r.Objective) }
