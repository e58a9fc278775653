package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/cmrx/logging"
)

// Environment overrides, applied when the matching flag is not set.
const (
	envTolerance = "CMRX_TOLERANCE"
	envLogLevel  = "CMRX_LOG_LEVEL"
)

// app carries the state shared by the subcommands.
type app struct {
	logLevel string
	logJSON  bool
	logger   *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "cmrx",
		Short: "Conjoint monotone regression by branch-and-bound",
		Long: `cmrx fits condition means for several variables so that every variable
is ordered across conditions in one of the admissible joint directions
(covectors), minimising the weighted squared adjustment.

Subcommands:
  solve  - run the search on one or more problem files
  check  - report the most significant violation of the raw means
  zones  - list the infeasible zones of the monotone model`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := a.logLevel
			if !cmd.Flags().Changed("log-level") {
				if v := os.Getenv(envLogLevel); v != "" {
					level = v
				}
			}
			logger, err := logging.New(logging.Config{
				Level:   level,
				JSON:    a.logJSON,
				Service: "cmrx",
				Output:  cmd.ErrOrStderr(),
			})
			if err != nil {
				return err
			}
			a.logger = logger

			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "log level: debug, info, warn, error (env "+envLogLevel+")")
	root.PersistentFlags().BoolVar(&a.logJSON, "log-json", false, "log JSON records instead of text")

	root.AddCommand(newSolveCmd(a), newCheckCmd(a), newZonesCmd())

	return root
}
