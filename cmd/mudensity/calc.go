package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/gogpu/mudensity"
	"github.com/gogpu/mudensity/delivery"
	"github.com/gogpu/mudensity/display"
	"github.com/gogpu/mudensity/internal/parallel"
)

type calcFlags struct {
	input   string
	angles  []float64
	png     string
	workers int
}

// beamResult holds the densities of one beam, one per requested angle or
// a single whole-beam density.
type beamResult struct {
	beam      delivery.Delivery
	densities []*mat.Dense
}

func newCalcCmd(flags *globalFlags) *cobra.Command {
	cf := &calcFlags{}
	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Calculate the MU density of every beam in a record file.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCalc(cmd, flags, cf)
		},
	}
	cmd.Flags().StringVarP(&cf.input, "input", "i", "", "delivery record file (YAML or JSON)")
	cmd.Flags().Float64SliceVar(&cf.angles, "angles", nil, "split each beam by these gantry angles")
	cmd.Flags().StringVar(&cf.png, "png", "", "write a heatmap per density to PREFIX-<beam>[-<angle>].png")
	cmd.Flags().IntVar(&cf.workers, "workers", 0, "beams calculated concurrently (default GOMAXPROCS)")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func runCalc(cmd *cobra.Command, flags *globalFlags, cf *calcFlags) error {
	opts := flags.options()
	grid, err := mudensity.NewGrid(opts...)
	if err != nil {
		return err
	}
	beams, err := readBeams(cf.input)
	if err != nil {
		return err
	}

	results, err := calculateBeams(cmd.Context(), beams, cf.angles, cf.workers, opts)
	if err != nil {
		return err
	}

	out, p := cmd.OutOrStdout(), printer()
	res := flags.resolution
	for b, r := range results {
		for k, density := range r.densities {
			label := fmt.Sprintf("beam %d", b)
			if len(cf.angles) > 0 {
				label = fmt.Sprintf("beam %d gantry %g", b, cf.angles[k])
			}
			fprintf(out, p, "%s: %d control points, %.2f MU, peak %.3f MU, integral %.1f MU·mm²\n",
				label, r.beam.Len(), r.beam.TotalMU(), mat.Max(density), mat.Sum(density)*res*res)

			if cf.png == "" {
				continue
			}
			path := fmt.Sprintf("%s-%d.png", cf.png, b)
			if len(cf.angles) > 0 {
				path = fmt.Sprintf("%s-%d-%g.png", cf.png, b, cf.angles[k])
			}
			img, err := display.Heatmap(grid, density, display.WithTitle(label))
			if err != nil {
				return err
			}
			if err := display.SavePNG(path, img); err != nil {
				return err
			}
		}
	}
	return nil
}

// calculateBeams computes every beam on a worker pool. With angles, each
// beam is split by gantry angle first.
func calculateBeams(ctx context.Context, beams []delivery.Delivery, angles []float64, workers int, opts []mudensity.Option) ([]beamResult, error) {
	pool := parallel.NewWorkerPool(min(max(workers, 0), len(beams)))
	defer pool.Close()

	results := make([]beamResult, len(beams))
	tasks := make([]parallel.Task, len(beams))
	for i, beam := range beams {
		tasks[i] = func(ctx context.Context) error {
			results[i].beam = beam
			if len(angles) > 0 {
				densities, err := beam.MUDensityByGantry(ctx, angles, opts...)
				if err != nil {
					return fmt.Errorf("beam %d: %w", i, err)
				}
				results[i].densities = densities
				return nil
			}
			density, err := beam.MUDensity(ctx, opts...)
			if err != nil {
				return fmt.Errorf("beam %d: %w", i, err)
			}
			results[i].densities = []*mat.Dense{density}
			return nil
		}
	}

	if err := pool.Run(ctx, tasks); err != nil {
		return nil, err
	}
	return results, nil
}
