package mudensity

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Calculate returns the MU density of a whole beam on the grid returned by
// NewGrid with the same options.
//
// mu holds the cumulative monitor units at each control point, mlc the
// leaf pair positions (control point, leaf pair, bank) and jaw the jaw
// positions (control point, edge). All three must have one entry per
// control point.
//
// Control points that deliver no monitor units on either side are pruned
// first. Every pair of adjacent control points is then integrated on a
// local grid and added onto the full grid. ctx is checked between
// segments; a cancelled context aborts the calculation.
//
// Errors:
//   - ErrInvalidConfiguration: resolution does not divide half the max leaf
//     gap or a leaf pair width
//   - ErrShapeMismatch: sequences differ in length or a control point has
//     the wrong number of leaf pairs
//   - ErrOutOfRange: a leaf is beyond half the max leaf gap, a jaw beyond
//     the leaf stack or the monitor units decrease
func Calculate(ctx context.Context, mu []float64, mlc [][]LeafPair, jaw []JawPair, opts ...Option) (*mat.Dense, error) {
	cfg := NewConfig(opts...)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if err := checkControlPoints(cfg, mu, mlc, jaw); err != nil {
		return nil, err
	}

	total := len(mu)
	keep := RelevantControlPoints(mu)
	mu = SelectControlPoints(mu, keep)
	mlc = SelectControlPoints(mlc, keep)
	jaw = SelectControlPoints(jaw, keep)

	grid := fullGrid(cfg)
	rows, cols := grid.Shape()
	density := mat.NewDense(rows, cols, nil)

	in := newIntegrator(cfg)
	var segments, steps int
	for i := 0; i+1 < len(mu); i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("mudensity: calculation stopped before segment %d: %w", i, err)
		}

		deltaMU := mu[i+1] - mu[i]
		if deltaMU == 0 {
			continue
		}

		seg := in.integrate(
			[2][]LeafPair{mlc[i], mlc[i+1]},
			[2]JawPair{jaw[i], jaw[i+1]},
			deltaMU,
		)
		addToFullGrid(density, grid, seg, cfg.GridResolution)
		segments++
		steps += seg.timeSteps
	}

	logger := Logger()
	if logger.Enabled(ctx, slog.LevelDebug) {
		logger.Debug("mu density computed",
			"control_points", total,
			"pruned", total-len(keep),
			"segments", segments,
			"time_steps", steps,
			"rows", rows,
			"cols", cols,
		)
	}

	return density, nil
}

// addToFullGrid composites a segment onto the full grid by matching each
// local sample to the full grid sample within coordinateTolerance.
func addToFullGrid(density *mat.Dense, full Grid, seg segment, res float64) {
	nx := len(seg.grid.MLC)
	if nx == 0 || len(seg.grid.Jaw) == 0 {
		return
	}

	cols := make([]int, nx)
	for x, c := range seg.grid.MLC {
		idx, ok := axisIndex(full.MLC, c, res)
		if !ok {
			idx = -1
		}
		cols[x] = idx
	}

	raw := density.RawMatrix()
	var dropped int
	for y, c := range seg.grid.Jaw {
		row, ok := axisIndex(full.Jaw, c, res)
		if !ok {
			dropped += nx
			continue
		}
		dst := raw.Data[row*raw.Stride : row*raw.Stride+raw.Cols]
		src := seg.values[y*nx : (y+1)*nx]
		for x, col := range cols {
			if col < 0 {
				dropped++
				continue
			}
			dst[col] += src[x]
		}
	}

	if dropped > 0 && floats.Max(seg.values) > 0 {
		Logger().Warn("mu density samples outside the full grid were dropped",
			"samples", dropped)
	}
}

// checkControlPoints validates the alignment and range of a beam.
func checkControlPoints(cfg Config, mu []float64, mlc [][]LeafPair, jaw []JawPair) error {
	if len(mlc) != len(mu) || len(jaw) != len(mu) {
		return fmt.Errorf("%w: %d monitor units, %d mlc and %d jaw control points",
			ErrShapeMismatch, len(mu), len(mlc), len(jaw))
	}
	for i := 1; i < len(mu); i++ {
		if !(mu[i] >= mu[i-1]) {
			return fmt.Errorf("%w: monitor units fall from %v to %v at control point %d",
				ErrOutOfRange, mu[i-1], mu[i], i)
		}
	}
	if err := checkLeafRange(cfg, mlc); err != nil {
		return err
	}
	return checkJawRange(jaw, floats.Sum(cfg.LeafPairWidths))
}

// checkLeafRange reports control points with the wrong number of leaf pairs
// or a leaf beyond half the max leaf gap.
func checkLeafRange(cfg Config, mlc [][]LeafPair) error {
	half := cfg.MaxLeafGap / 2
	for i, cp := range mlc {
		if len(cp) != len(cfg.LeafPairWidths) {
			return fmt.Errorf("%w: control point %d has %d leaf pairs, want %d",
				ErrShapeMismatch, i, len(cp), len(cfg.LeafPairWidths))
		}
		for p, pair := range cp {
			for bank, v := range pair {
				if !(math.Abs(v) <= half) {
					return fmt.Errorf("%w: leaf pair %d bank %d at control point %d is %v mm, limit is %v mm",
						ErrOutOfRange, p, bank, i, v, half)
				}
			}
		}
	}
	return nil
}
