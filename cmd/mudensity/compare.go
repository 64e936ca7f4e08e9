package main

import (
	"github.com/spf13/cobra"

	"github.com/gogpu/mudensity"
	"github.com/gogpu/mudensity/display"
)

func newCompareCmd(flags *globalFlags) *cobra.Command {
	var (
		evaluated string
		reference string
		tolerance float64
		png       string
	)
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare the MU density of a delivered beam against its plan.",
		Long: `compare calculates the MU density of the first record in each file ` +
			`and reports how the evaluated density differs from the reference.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := flags.options()
			eval, err := readBeam(evaluated)
			if err != nil {
				return err
			}
			ref, err := readBeam(reference)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			evalDensity, err := eval.MUDensity(ctx, opts...)
			if err != nil {
				return err
			}
			refDensity, err := ref.MUDensity(ctx, opts...)
			if err != nil {
				return err
			}

			c, err := mudensity.Compare(evalDensity, refDensity, tolerance)
			if err != nil {
				return err
			}
			out, p := cmd.OutOrStdout(), printer()
			fprintf(out, p, "cells: %d\n", c.Cells)
			fprintf(out, p, "max |diff|: %.4f MU\n", c.MaxAbsDiff)
			fprintf(out, p, "mean diff: %.4f MU\n", c.MeanDiff)
			fprintf(out, p, "rms diff: %.4f MU\n", c.RMSDiff)
			fprintf(out, p, "correlation: %.4f\n", c.Correlation)
			fprintf(out, p, "pass rate (±%g MU): %.1f%%\n", tolerance, 100*c.PassRate)

			if png == "" {
				return nil
			}
			grid, err := mudensity.NewGrid(opts...)
			if err != nil {
				return err
			}
			img, err := display.Difference(grid, evalDensity, refDensity)
			if err != nil {
				return err
			}
			return display.SavePNG(png, img)
		},
	}
	cmd.Flags().StringVarP(&evaluated, "evaluated", "e", "", "delivered record file, typically from a log")
	cmd.Flags().StringVarP(&reference, "reference", "r", "", "reference record file, typically from the plan")
	cmd.Flags().Float64Var(&tolerance, "tolerance", 0.1, "per-cell pass tolerance in MU")
	cmd.Flags().StringVar(&png, "png", "", "write a difference map to this PNG file")
	_ = cmd.MarkFlagRequired("evaluated")
	_ = cmd.MarkFlagRequired("reference")
	return cmd
}
