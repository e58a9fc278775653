package cmrx

import "fmt"

// validateOptions checks Options ranges without looking at the problem.
//
// Complexity: O(1).
func validateOptions(opts Options) error {
	// 1 − Tolerance multiplies the incumbent; it must stay positive.
	if opts.Tolerance < 0 || opts.Tolerance >= 1 {
		return fmt.Errorf("%w: tolerance %g not in [0,1)", ErrBadOptions, opts.Tolerance)
	}
	if opts.SolverTolerance1 < 0 || opts.SolverTolerance2 < 0 {
		return fmt.Errorf("%w: negative solver tolerance", ErrBadOptions)
	}
	if opts.Beam < 0 {
		return fmt.Errorf("%w: beam %d", ErrBadOptions, opts.Beam)
	}
	if opts.ProgressEvery < 0 {
		return fmt.Errorf("%w: progress period %d", ErrBadOptions, opts.ProgressEvery)
	}
	switch opts.Seeding {
	case SeedGreedy, SeedSurvivors, SeedNone:
	default:
		return fmt.Errorf("%w: seeding %d", ErrBadOptions, opts.Seeding)
	}

	return nil
}
