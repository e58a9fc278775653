// Command cmrx solves conjoint monotone regression problems stored as
// YAML or JSON files.
//
//	cmrx solve --tolerance 0.01 problems/*.yaml
//	cmrx check problems/crossing.yaml
//	cmrx zones --nvar 3
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "cmrx:", err)
		stop()
		os.Exit(1)
	}
}
