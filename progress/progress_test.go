package progress_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/cmrx/cmrx"
	"github.com/katalvlaran/cmrx/logging"
	"github.com/katalvlaran/cmrx/progress"
	"github.com/katalvlaran/cmrx/zone"
)

// crossing is the two-condition monotone problem with optimum 0.5.
func crossing() *cmrx.Problem {
	return &cmrx.Problem{
		Means:           [][]float64{{1, 2}, {2, 1}},
		Weights:         cmrx.Identity(2, 2),
		Covectors:       zone.Monotone(2),
		InfeasibleZones: []int{2},
	}
}

func run(t *testing.T, l cmrx.ProgressListener) *cmrx.Result {
	t.Helper()
	opts := cmrx.DefaultOptions()
	opts.Seeding = cmrx.SeedNone
	opts.ProgressEvery = 1
	opts.Listener = l
	res, err := cmrx.Solve(context.Background(), crossing(), nil, opts)
	require.NoError(t, err)

	return res
}

// gaugeValue reads the single sample of a gathered family.
func gaugeValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	mfs, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		if mf.GetName() == name {
			require.Len(t, mf.GetMetric(), 1)

			return mf.GetMetric()[0].GetGauge().GetValue()
		}
	}
	t.Fatalf("metric %s not gathered", name)

	return 0
}

func TestMetrics_RecordsRun(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := progress.NewMetrics(reg)
	res := run(t, m.For("crossing"))
	require.InDelta(t, 0.5, res.Objective, 1e-9)

	expected := `
# HELP cmrx_solver_calls_total Monotone-regression solver calls of finished searches
# TYPE cmrx_solver_calls_total counter
cmrx_solver_calls_total{problem="crossing"} 2
# HELP cmrx_search_runs_total Finished searches by outcome (complete, cancelled)
# TYPE cmrx_search_runs_total counter
cmrx_search_runs_total{outcome="complete",problem="crossing"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"cmrx_solver_calls_total", "cmrx_search_runs_total"))
	require.InDelta(t, 0.5, gaugeValue(t, reg, "cmrx_search_incumbent"), 1e-9)
	require.Equal(t, 2.0, gaugeValue(t, reg, "cmrx_search_iteration"))
}

func TestLog_WritesProgressAndSummary(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Config{JSON: true, Output: &buf})
	require.NoError(t, err)

	run(t, progress.NewLog(logger, "crossing"))
	out := buf.String()
	require.Equal(t, 3, strings.Count(out, `"msg":"search progress"`))
	require.Equal(t, 1, strings.Count(out, `"msg":"search finished"`))
	require.Contains(t, out, `"problem":"crossing"`)
}

func TestLimit_StopsSearch(t *testing.T) {
	require.False(t, progress.Limit{Max: 0}.Update(cmrx.Progress{}))
	require.True(t, progress.Limit{Max: 2}.Update(cmrx.Progress{Iteration: 1}))

	res := run(t, progress.Multi{progress.NewLog(nil, "quiet"), progress.Limit{Max: 1}})
	require.True(t, res.Cancelled)
	require.Len(t, res.Iterations, 2, "root iteration plus closing record")
}
