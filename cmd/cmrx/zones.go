package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/cmrx/zone"
)

func newZonesCmd() *cobra.Command {
	var nvar int
	cmd := &cobra.Command{
		Use:   "zones",
		Short: "List the infeasible zones of the monotone model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			zones, err := zone.Infeasible(nvar, zone.Monotone(nvar))
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, z := range zones {
				if _, err = fmt.Fprintf(w, "%d\t%v\n", z, zone.Decode(z, nvar)); err != nil {
					return err
				}
			}

			return nil
		},
	}
	cmd.Flags().IntVarP(&nvar, "nvar", "n", 2, "number of variables")

	return cmd
}
