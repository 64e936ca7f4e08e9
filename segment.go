package mudensity

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// minTimeSteps is the lower bound on time samples for any segment,
// including stationary ones.
const minTimeSteps = 10

// segment is the MU density of one pair of adjacent control points on its
// local grid. values is row-major, len(grid.Jaw) rows by len(grid.MLC)
// columns.
type segment struct {
	grid      Grid
	values    []float64
	timeSteps int
}

// edge is one moving boundary of the field, travelling linearly from start
// to end over the segment.
type edge struct {
	start, end float64
}

// position returns where the edge is at time sample t of steps.
func (e edge) position(t, steps int) float64 {
	dt := (e.end - e.start) / float64(steps-1)
	return e.start + float64(t)*dt
}

// blockedFraction returns the fraction of a cell that an edge blocks.
// travelDiff is the signed distance from the edge to the cell centre,
// positive when the cell lies on the open side of the edge.
func blockedFraction(travelDiff, res float64) float64 {
	switch {
	case travelDiff <= -res/2:
		return 1
	case travelDiff >= res/2:
		return 0
	default:
		return (-travelDiff + res/2) / res
	}
}

// openFraction returns the open fraction of a cell centred at c lying
// between an edge at lo blocking everything below it (left leaf, bottom
// jaw) and an edge at hi blocking everything above it. Crossed edges leave
// the cell closed rather than negative.
func openFraction(c, lo, hi, res float64) float64 {
	blocked := blockedFraction(c-lo, res) + blockedFraction(-(c-hi), res)
	return math.Max(0, 1-blocked)
}

// CalculateSegment returns the MU density delivered between two adjacent
// control points, along with the local grid it is sampled on.
//
// mlc[0] and mlc[1] are the leaf pair positions at the start and end of the
// segment, jaw[0] and jaw[1] the jaw positions. Leaves and jaws travel
// linearly in time while deltaMU is delivered at a constant rate.
//
// The local grid only covers the leaf pairs inside the jaws and the extent
// travelled by those leaves; it is a sub-lattice of the grid returned by
// NewGrid. When every leaf pair in the field stays crossed the returned
// density is empty.
//
// Returns ErrInvalidConfiguration for a resolution that does not divide a
// leaf pair width, ErrShapeMismatch when the leaf count does not match the
// leaf pair widths and ErrOutOfRange when a leaf is beyond half the max leaf
// gap or a jaw is beyond the leaf stack.
func CalculateSegment(mlc [2][]LeafPair, jaw [2]JawPair, deltaMU float64, opts ...Option) (Grid, *mat.Dense, error) {
	cfg := NewConfig(opts...)
	if err := cfg.validateLeaves(); err != nil {
		return Grid{}, nil, err
	}
	if err := checkLeafRange(cfg, mlc[:]); err != nil {
		return Grid{}, nil, err
	}
	if err := checkJawRange(jaw[:], floats.Sum(cfg.LeafPairWidths)); err != nil {
		return Grid{}, nil, err
	}

	seg := newIntegrator(cfg).integrate(mlc, jaw, deltaMU)

	rows, cols := seg.grid.Shape()
	if rows == 0 || cols == 0 {
		return seg.grid, &mat.Dense{}, nil
	}
	return seg.grid, mat.NewDense(rows, cols, seg.values), nil
}

// integrator holds the leaf geometry shared by every segment of a beam.
type integrator struct {
	res       float64
	minSteps  int
	centres   []float64
	reference float64
}

func newIntegrator(cfg Config) *integrator {
	centres, topOfReference := leafCentres(cfg.LeafPairWidths)
	return &integrator{
		res:       cfg.GridResolution,
		minSteps:  cfg.MinStepPerPixel,
		centres:   centres,
		reference: referencePosition(topOfReference, cfg.GridResolution),
	}
}

// integrate computes one segment. Inputs are assumed validated.
func (in *integrator) integrate(mlc [2][]LeafPair, jaw [2]JawPair, deltaMU float64) segment {
	res := in.res

	jawAxis := in.jawAxis(jaw)
	leafOfRow, leaves := in.leafMap(jawAxis)
	mlcAxis := in.mlcAxis(mlc, leaves)

	seg := segment{grid: Grid{MLC: mlcAxis, Jaw: jawAxis}}
	nx, ny := len(mlcAxis), len(jawAxis)
	if nx == 0 || ny == 0 {
		return seg
	}

	left := make([]edge, len(leaves))
	right := make([]edge, len(leaves))
	for i, leaf := range leaves {
		left[i] = edge{start: -mlc[0][leaf][0], end: -mlc[1][leaf][0]}
		right[i] = edge{start: mlc[0][leaf][1], end: mlc[1][leaf][1]}
	}
	bottom := edge{start: -jaw[0][0], end: -jaw[1][0]}
	top := edge{start: jaw[0][1], end: jaw[1][1]}

	steps := in.timeSteps(left, right, []edge{bottom, top})
	seg.timeSteps = steps

	// Running sum over time samples bounds memory at one local grid.
	sum := make([]float64, ny*nx)
	mlcOpen := make([]float64, len(leaves)*nx)
	jawOpen := make([]float64, ny)

	for t := range steps {
		for i := range leaves {
			lo := left[i].position(t, steps)
			hi := right[i].position(t, steps)
			row := mlcOpen[i*nx : (i+1)*nx]
			for x, c := range mlcAxis {
				row[x] = openFraction(c, lo, hi, res)
			}
		}

		lo := bottom.position(t, steps)
		hi := top.position(t, steps)
		for y, c := range jawAxis {
			jawOpen[y] = openFraction(c, lo, hi, res)
		}

		for y, j := range jawOpen {
			if j == 0 {
				continue
			}
			leaf := leafOfRow[y]
			floats.AddScaled(sum[y*nx:(y+1)*nx], j, mlcOpen[leaf*nx:(leaf+1)*nx])
		}
	}

	for i := range sum {
		sum[i] = sum[i] / float64(steps) * deltaMU
	}
	seg.values = sum
	return seg
}

// jawAxis returns the jaw samples covering the extent of both jaw
// positions, aligned to the reference row. Half cells round to even.
func (in *integrator) jawAxis(jaw [2]JawPair) []float64 {
	res := in.res
	minY := math.Min(-jaw[0][0], -jaw[1][0])
	maxY := math.Max(jaw[0][1], jaw[1][1])

	top := math.RoundToEven((maxY-in.reference)/res)*res + in.reference
	bottom := in.reference - math.RoundToEven((-minY+in.reference)/res)*res
	return inclusiveAxis(bottom, top, res)
}

// leafMap assigns every jaw sample to its nearest leaf pair centre. It
// returns, per sample, an index into leaves, and the ascending list of
// leaf pairs that own at least one sample.
func (in *integrator) leafMap(jawAxis []float64) (leafOfRow []int, leaves []int) {
	leafOfRow = make([]int, len(jawAxis))
	for y, c := range jawAxis {
		nearest := 0
		best := math.Abs(c - in.centres[0])
		for p := 1; p < len(in.centres); p++ {
			if d := math.Abs(c - in.centres[p]); d < best {
				nearest, best = p, d
			}
		}
		if len(leaves) == 0 || leaves[len(leaves)-1] != nearest {
			leaves = append(leaves, nearest)
		}
		leafOfRow[y] = len(leaves) - 1
	}
	return leafOfRow, leaves
}

// mlcAxis returns the MLC samples covering every position of the given
// leaf pairs. Half cells round to even.
func (in *integrator) mlcAxis(mlc [2][]LeafPair, leaves []int) []float64 {
	if len(leaves) == 0 {
		return []float64{}
	}
	res := in.res
	minX, maxX := math.Inf(1), math.Inf(-1)
	for _, cp := range mlc {
		for _, leaf := range leaves {
			minX = math.Min(minX, -cp[leaf][0])
			maxX = math.Max(maxX, cp[leaf][1])
		}
	}
	minX = math.RoundToEven(minX/res) * res
	maxX = math.RoundToEven(maxX/res) * res
	return inclusiveAxis(minX, maxX, res)
}

// timeSteps returns the number of time samples for a segment so that no
// edge crosses more than one cell per minSteps samples.
func (in *integrator) timeSteps(groups ...[]edge) int {
	maxTravel := 0.0
	for _, group := range groups {
		for _, e := range group {
			maxTravel = math.Max(maxTravel, math.Abs(e.end-e.start))
		}
	}
	steps := int(math.Ceil(maxTravel/in.res)) * in.minSteps
	return max(steps, minTimeSteps)
}

// checkJawRange reports ErrOutOfRange when a jaw edge is beyond the leaf
// stack of the given total width.
func checkJawRange(jaw []JawPair, totalWidth float64) error {
	for i, cp := range jaw {
		for e, v := range cp {
			if !(math.Abs(v) <= totalWidth/2) {
				return fmt.Errorf("%w: jaw %d at control point %d is %v mm, limit is %v mm",
					ErrOutOfRange, e, i, v, totalWidth/2)
			}
		}
	}
	return nil
}
