package progress

import (
	"log/slog"

	"github.com/katalvlaran/cmrx/cmrx"
)

// Log writes one Info record per update and one when the search finishes.
type Log struct {
	logger *slog.Logger
	name   string
}

// NewLog returns a listener logging under the "problem" attribute name.
// A nil logger discards everything.
func NewLog(logger *slog.Logger, name string) *Log {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Log{logger: logger, name: name}
}

// Update logs p and never stops the search.
func (l *Log) Update(p cmrx.Progress) bool {
	l.logger.Info("search progress",
		slog.String("problem", l.name),
		slog.Int("iteration", p.Iteration),
		slog.Float64("lower_bound", p.LowerBound),
		slog.Float64("incumbent", p.Incumbent),
		slog.Float64("next_bound", p.NextBound),
		slog.Int("frontier", p.Frontier),
		slog.Int("cyclic_avoided", p.CyclicAvoided))

	return true
}

// Finished logs the summary of r.
func (l *Log) Finished(r *cmrx.Result) {
	l.logger.Info("search finished",
		slog.String("problem", l.name),
		slog.String("run_id", r.RunID),
		slog.Float64("objective", r.Objective),
		slog.Int("solver_calls", r.SolverCalls),
		slog.Int("improvements", r.Improvements),
		slog.Bool("cancelled", r.Cancelled))
}

// Limit stops the search once Progress.Iteration reaches Max. The check
// only runs when the engine calls Update, so the effective budget is
// rounded up to the listener period.
type Limit struct {
	Max int
}

// Update reports false when the budget is spent.
func (l Limit) Update(p cmrx.Progress) bool { return p.Iteration < l.Max }

// Finished is a no-op.
func (Limit) Finished(*cmrx.Result) {}

// Multi fans out to several listeners. Every listener sees every update;
// the search stops if any of them asks to.
type Multi []cmrx.ProgressListener

// Update forwards p to each listener.
func (m Multi) Update(p cmrx.Progress) bool {
	cont := true
	for _, l := range m {
		if !l.Update(p) {
			cont = false
		}
	}

	return cont
}

// Finished forwards r to each listener.
func (m Multi) Finished(r *cmrx.Result) {
	for _, l := range m {
		l.Finished(r)
	}
}
