package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/cmrx/cmrx"
	"github.com/katalvlaran/cmrx/mr"
	"github.com/katalvlaran/cmrx/problemfile"
	"github.com/katalvlaran/cmrx/progress"
)

// solveFlags mirrors cmrx.Options plus the command-level knobs.
type solveFlags struct {
	easyFail       bool
	disallowCyclic bool
	tolerance      float64
	solverTol1     float64
	solverTol2     float64
	seeding        string
	beam           int
	target         float64
	progressEvery  int
	maxIterations  int
	timeout        time.Duration
	jobs           int
	metricsAddr    string
	withIterations bool
}

// solveOutput is one element of the JSON array printed by solve.
type solveOutput struct {
	File   string       `json:"file"`
	Name   string       `json:"name,omitempty"`
	Result *cmrx.Result `json:"result,omitempty"`
	Error  string       `json:"error,omitempty"`
}

func newSolveCmd(a *app) *cobra.Command {
	f := &solveFlags{}
	cmd := &cobra.Command{
		Use:   "solve FILE...",
		Short: "Solve problem files and print the results as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := f.options(cmd)
			if err != nil {
				return err
			}
			opts.Logger = a.logger

			return runSolve(cmd, a.logger, f, opts, args)
		},
	}
	fl := cmd.Flags()
	fl.BoolVar(&f.easyFail, "easy-fail", false, "abort on the first solver failure")
	fl.BoolVar(&f.disallowCyclic, "disallow-cyclic", false, "reject cyclic constraint sets and count them")
	fl.Float64Var(&f.tolerance, "tolerance", 0, "relative optimality gap in [0,1) (env "+envTolerance+")")
	fl.Float64Var(&f.solverTol1, "solver-tol1", 0, "primary solver tolerance (0 = default)")
	fl.Float64Var(&f.solverTol2, "solver-tol2", 0, "fallback solver tolerance (0 = default)")
	fl.StringVar(&f.seeding, "seed", cmrx.SeedGreedy.String(), "incumbent seeding: greedy, survivors, none")
	fl.IntVar(&f.beam, "beam", 0, "survivors beam width (0 = number of covectors)")
	fl.Float64Var(&f.target, "target", 0, "only decide whether the optimum is below this value")
	fl.IntVar(&f.progressEvery, "progress-every", cmrx.DefaultProgressEvery, "listener period in iterations")
	fl.IntVar(&f.maxIterations, "max-iterations", 0, "stop after this many iterations (0 = unlimited)")
	fl.DurationVar(&f.timeout, "timeout", 0, "per-problem time limit (0 = none)")
	fl.IntVar(&f.jobs, "jobs", 1, "problems solved concurrently")
	fl.StringVar(&f.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while solving")
	fl.BoolVar(&f.withIterations, "iterations", false, "include the iteration log in the output")

	return cmd
}

// options turns the flags into cmrx.Options.
func (f *solveFlags) options(cmd *cobra.Command) (cmrx.Options, error) {
	opts := cmrx.DefaultOptions()
	opts.EasyFail = f.easyFail
	opts.AllowCyclic = !f.disallowCyclic
	opts.Tolerance = f.tolerance
	if !cmd.Flags().Changed("tolerance") {
		if v := os.Getenv(envTolerance); v != "" {
			tol, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return opts, fmt.Errorf("%s: %w", envTolerance, err)
			}
			opts.Tolerance = tol
		}
	}
	opts.SolverTolerance1 = f.solverTol1
	opts.SolverTolerance2 = f.solverTol2
	seeding, err := cmrx.ParseSeedAlgo(f.seeding)
	if err != nil {
		return opts, fmt.Errorf("--seed %q: %w", f.seeding, err)
	}
	opts.Seeding = seeding
	opts.Beam = f.beam
	opts.ProgressEvery = f.progressEvery
	if cmd.Flags().Changed("target") {
		target := f.target
		opts.Target = &target
	}
	if f.jobs < 1 {
		return opts, fmt.Errorf("--jobs must be positive, got %d", f.jobs)
	}

	return opts, nil
}

func runSolve(cmd *cobra.Command, logger *slog.Logger, f *solveFlags, opts cmrx.Options, files []string) error {
	ctx := cmd.Context()

	// 1) Optional metrics endpoint.
	var metrics *progress.Metrics
	if f.metricsAddr != "" {
		reg := prometheus.NewRegistry()
		metrics = progress.NewMetrics(reg)
		stop, err := serveMetrics(f.metricsAddr, reg, logger)
		if err != nil {
			return err
		}
		defer stop()
	}

	// 2) Solve every file; one failure does not stop the others.
	outputs := make([]solveOutput, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.jobs)
	for i, path := range files {
		g.Go(func() error {
			outputs[i] = solveFile(gctx, logger, f, opts, metrics, path)

			return nil
		})
	}
	_ = g.Wait()

	// 3) Print in input order.
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(outputs); err != nil {
		return err
	}
	failed := 0
	for _, o := range outputs {
		if o.Error != "" {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d problems failed", failed, len(files))
	}

	return nil
}

func solveFile(ctx context.Context, logger *slog.Logger, f *solveFlags, opts cmrx.Options, metrics *progress.Metrics, path string) solveOutput {
	out := solveOutput{File: path}
	file, err := problemfile.Load(path)
	if err != nil {
		out.Error = err.Error()
		return out
	}
	out.Name = file.Name
	p, err := file.Problem()
	if err != nil {
		out.Error = err.Error()
		return out
	}

	listeners := progress.Multi{progress.NewLog(logger, file.Name)}
	if metrics != nil {
		listeners = append(listeners, metrics.For(file.Name))
	}
	if f.maxIterations > 0 {
		listeners = append(listeners, progress.Limit{Max: f.maxIterations})
	}
	opts.Listener = listeners
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	// Each problem gets its own solver so call counters stay per run.
	res, err := cmrx.Solve(ctx, p, mr.NewActiveSet(), opts)
	if res != nil && !f.withIterations {
		res.Iterations = nil
	}
	out.Result = res
	if err != nil {
		out.Error = err.Error()
	}

	return out
}

// serveMetrics starts a /metrics endpoint and returns its shutdown func.
func serveMetrics(addr string, reg *prometheus.Registry, logger *slog.Logger) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("metrics listener: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", slog.Any("err", err))
		}
	}()
	logger.Info("serving metrics", slog.String("addr", ln.Addr().String()))

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}
