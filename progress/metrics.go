package progress

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/katalvlaran/cmrx/cmrx"
)

// Metrics holds the cmrx collectors. One Metrics serves any number of
// concurrent solves; For binds a listener to one problem label.
type Metrics struct {
	lowerBound   *prometheus.GaugeVec
	incumbent    *prometheus.GaugeVec
	frontier     *prometheus.GaugeVec
	iteration    *prometheus.GaugeVec
	cyclic       *prometheus.GaugeVec
	solverCalls  *prometheus.CounterVec
	improvements *prometheus.CounterVec
	runs         *prometheus.CounterVec
}

// NewMetrics registers the collectors on reg. Like promauto, it panics if
// they are already registered there.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	label := []string{"problem"}

	return &Metrics{
		lowerBound: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "cmrx", Subsystem: "search", Name: "lower_bound",
			Help: "Bound of the last popped search node",
		}, label),
		incumbent: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "cmrx", Subsystem: "search", Name: "incumbent",
			Help: "Objective of the best feasible fit so far",
		}, label),
		frontier: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "cmrx", Subsystem: "search", Name: "frontier_size",
			Help: "Open search nodes",
		}, label),
		iteration: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "cmrx", Subsystem: "search", Name: "iteration",
			Help: "Loop iterations so far",
		}, label),
		cyclic: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "cmrx", Subsystem: "search", Name: "cyclic_avoided",
			Help: "Branches dropped as cyclic",
		}, label),
		solverCalls: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cmrx", Subsystem: "solver", Name: "calls_total",
			Help: "Monotone-regression solver calls of finished searches",
		}, label),
		improvements: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cmrx", Subsystem: "search", Name: "improvements_total",
			Help: "Incumbent improvements of finished searches",
		}, label),
		runs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cmrx", Subsystem: "search", Name: "runs_total",
			Help: "Finished searches by outcome (complete, cancelled)",
		}, []string{"problem", "outcome"}),
	}
}

// For returns a listener that reports under the given problem label.
func (m *Metrics) For(problem string) cmrx.ProgressListener {
	return &metricsListener{m: m, problem: problem}
}

type metricsListener struct {
	m       *Metrics
	problem string
}

func (l *metricsListener) Update(p cmrx.Progress) bool {
	l.m.lowerBound.WithLabelValues(l.problem).Set(p.LowerBound)
	l.m.incumbent.WithLabelValues(l.problem).Set(p.Incumbent)
	l.m.frontier.WithLabelValues(l.problem).Set(float64(p.Frontier))
	l.m.iteration.WithLabelValues(l.problem).Set(float64(p.Iteration))
	l.m.cyclic.WithLabelValues(l.problem).Set(float64(p.CyclicAvoided))

	return true
}

func (l *metricsListener) Finished(r *cmrx.Result) {
	l.m.incumbent.WithLabelValues(l.problem).Set(r.Objective)
	l.m.solverCalls.WithLabelValues(l.problem).Add(float64(r.SolverCalls))
	l.m.improvements.WithLabelValues(l.problem).Add(float64(r.Improvements))
	outcome := "complete"
	if r.Cancelled {
		outcome = "cancelled"
	}
	l.m.runs.WithLabelValues(l.problem, outcome).Inc()
}
