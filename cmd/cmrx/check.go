package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/cmrx/problemfile"
	"github.com/katalvlaran/cmrx/zone"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE",
		Short: "Report the most significant violation of the raw means",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := problemfile.Load(args[0])
			if err != nil {
				return err
			}
			p, err := file.Problem()
			if err != nil {
				return err
			}
			det, err := zone.NewDetector(p.NVar(), p.NCond(), p.InfeasibleZones)
			if err != nil {
				return err
			}
			v, bad := det.Check(p.Means)
			a.logger.Debug("checked", slog.String("problem", file.Name), slog.Bool("violation", bad))
			w := cmd.OutOrStdout()
			if !bad {
				_, err = fmt.Fprintf(w, "%s: feasible\n", file.Name)
				return err
			}
			_, err = fmt.Fprintf(w, "%s: conditions %d and %d violate zone %d (signs %v, volume %.6g)\n",
				file.Name, v.Row, v.Column, v.Zone, zone.Decode(v.Zone, p.NVar()), v.Volume)

			return err
		},
	}
}
