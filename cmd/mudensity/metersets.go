package main

import (
	"errors"

	"github.com/spf13/cobra"
)

func newMetersetsCmd(flags *globalFlags) *cobra.Command {
	var (
		input  string
		angles []float64
	)
	cmd := &cobra.Command{
		Use:   "metersets",
		Short: "Print the MU delivered at each gantry angle.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(angles) == 0 {
				return errors.New("--angles is required")
			}
			beams, err := readBeams(input)
			if err != nil {
				return err
			}

			out, p := cmd.OutOrStdout(), printer()
			for b, beam := range beams {
				mu, err := beam.Metersets(angles, flags.gantryTolerance)
				if err != nil {
					return err
				}
				for k, angle := range angles {
					fprintf(out, p, "beam %d gantry %g: %.2f MU\n", b, angle, mu[k])
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "delivery record file (YAML or JSON)")
	cmd.Flags().Float64SliceVar(&angles, "angles", nil, "gantry angles in degrees")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
