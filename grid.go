package mudensity

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// coordinateTolerance is the distance in mm within which a local grid
// sample is considered to coincide with a full grid sample (1 µm).
const coordinateTolerance = 1e-3

// Grid holds the sample positions of an MU density in mm.
// MLC runs along the direction of leaf travel, Jaw along the direction of
// jaw travel. Both axes are uniformly spaced and include their endpoints.
type Grid struct {
	MLC []float64
	Jaw []float64
}

// Shape returns the number of rows (jaw samples) and columns (MLC samples)
// of a density on this grid.
func (g Grid) Shape() (rows, cols int) {
	return len(g.Jaw), len(g.MLC)
}

// NewGrid returns the full grid an MU density is calculated on.
//
// The MLC axis spans [-MaxLeafGap/2, +MaxLeafGap/2]. The jaw axis is
// aligned so that a sample lies half a cell below the top of the reference
// leaf pair (index len(widths)/2) and extends to cover the whole leaf stack.
//
// Returns ErrInvalidConfiguration if the grid resolution does not exactly
// divide half the maximum leaf gap or any leaf pair width.
func NewGrid(opts ...Option) (Grid, error) {
	cfg := NewConfig(opts...)
	if err := cfg.validate(); err != nil {
		return Grid{}, err
	}
	return fullGrid(cfg), nil
}

// fullGrid builds the grid for an already validated configuration.
func fullGrid(cfg Config) Grid {
	res := cfg.GridResolution
	half := cfg.MaxLeafGap / 2

	_, topOfReference := leafCentres(cfg.LeafPairWidths)
	ref := referencePosition(topOfReference, res)
	total := floats.Sum(cfg.LeafPairWidths)

	top := math.Ceil((total/2-ref)/res)*res + ref
	bottom := ref - math.Ceil((total/2+ref)/res)*res

	return Grid{
		MLC: inclusiveAxis(-half, half, res),
		Jaw: inclusiveAxis(bottom, top, res),
	}
}

// LeafCentres returns the centre of every leaf pair along the jaw axis.
// The leaf stack is centred on zero.
func LeafCentres(widths []float64) []float64 {
	centres, _ := leafCentres(widths)
	return centres
}

// leafCentres returns the leaf pair centres and the top edge of the
// reference leaf pair.
func leafCentres(widths []float64) (centres []float64, topOfReference float64) {
	if len(widths) == 0 {
		return nil, 0
	}
	total := floats.Sum(widths)

	centres = make([]float64, len(widths))
	floats.CumSum(centres, widths)
	for i, w := range widths {
		centres[i] = centres[i] - w/2 - total/2
	}

	reference := len(widths) / 2
	topOfReference = centres[reference] + widths[reference]/2
	return centres, topOfReference
}

// referencePosition is the jaw axis position every grid is aligned to.
func referencePosition(topOfReference, res float64) float64 {
	return topOfReference - res/2
}

// inclusiveAxis returns start, start+step, ... up to and including stop.
// The sample count is rounded so floating point noise in (stop-start)
// neither drops nor adds the final sample. An empty axis is returned when
// stop lies before start.
func inclusiveAxis(start, stop, step float64) []float64 {
	n := int(math.Round((stop-start)/step)) + 1
	if n <= 0 {
		return []float64{}
	}
	axis := make([]float64, n)
	for i := range axis {
		axis[i] = start + float64(i)*step
	}
	return axis
}

// axisIndex maps a coordinate onto the index of the matching sample of a
// uniform axis. It reports false when no sample lies within
// coordinateTolerance.
func axisIndex(axis []float64, value, step float64) (int, bool) {
	if len(axis) == 0 {
		return 0, false
	}
	i := int(math.Round((value - axis[0]) / step))
	if i < 0 || i >= len(axis) {
		return 0, false
	}
	if math.Abs(axis[i]-value) >= coordinateTolerance {
		return 0, false
	}
	return i, true
}
