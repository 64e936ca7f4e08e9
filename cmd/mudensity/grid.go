package main

import (
	"github.com/spf13/cobra"

	"github.com/gogpu/mudensity"
)

func newGridCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "grid",
		Short: "Print the grid MU densities are calculated on.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			grid, err := mudensity.NewGrid(flags.options()...)
			if err != nil {
				return err
			}
			rows, cols := grid.Shape()
			out, p := cmd.OutOrStdout(), printer()
			fprintf(out, p, "mlc: %d samples from %.2f to %.2f mm\n", cols, grid.MLC[0], grid.MLC[cols-1])
			fprintf(out, p, "jaw: %d samples from %.2f to %.2f mm\n", rows, grid.Jaw[0], grid.Jaw[rows-1])
			fprintf(out, p, "cells: %d\n", rows*cols)
			return nil
		},
	}
}
