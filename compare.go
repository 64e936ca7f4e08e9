package mudensity

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Comparison summarises the difference between an evaluated MU density
// (typically reconstructed from a delivery log) and a reference density
// (typically from the plan).
type Comparison struct {
	// Cells is the number of grid cells compared.
	Cells int
	// MaxAbsDiff is the largest absolute difference in MU.
	MaxAbsDiff float64
	// MeanDiff is the mean signed difference, evaluated minus reference.
	MeanDiff float64
	// RMSDiff is the root mean square difference.
	RMSDiff float64
	// Correlation is the Pearson correlation of the two densities. It is
	// NaN when either density is constant.
	Correlation float64
	// PassRate is the fraction of cells whose absolute difference is
	// within the tolerance given to Compare.
	PassRate float64
}

// Difference returns evaluated minus reference.
// Returns ErrShapeMismatch if the densities differ in shape.
func Difference(evaluated, reference mat.Matrix) (*mat.Dense, error) {
	if err := sameShape(evaluated, reference); err != nil {
		return nil, err
	}
	if r, c := evaluated.Dims(); r == 0 || c == 0 {
		return &mat.Dense{}, nil
	}
	var diff mat.Dense
	diff.Sub(evaluated, reference)
	return &diff, nil
}

// Compare returns summary statistics of evaluated against reference. A
// cell passes when its absolute difference is at most tolerance MU.
//
// Returns ErrShapeMismatch if the densities differ in shape.
func Compare(evaluated, reference mat.Matrix, tolerance float64) (Comparison, error) {
	if err := sameShape(evaluated, reference); err != nil {
		return Comparison{}, err
	}

	eval := flatten(evaluated)
	ref := flatten(reference)
	if len(eval) == 0 {
		return Comparison{}, nil
	}

	diff := make([]float64, len(eval))
	floats.SubTo(diff, eval, ref)

	var pass int
	var sumSquares float64
	for _, d := range diff {
		if math.Abs(d) <= tolerance {
			pass++
		}
		sumSquares += d * d
	}

	return Comparison{
		Cells:       len(diff),
		MaxAbsDiff:  math.Max(floats.Max(diff), -floats.Min(diff)),
		MeanDiff:    stat.Mean(diff, nil),
		RMSDiff:     math.Sqrt(sumSquares / float64(len(diff))),
		Correlation: stat.Correlation(eval, ref, nil),
		PassRate:    float64(pass) / float64(len(diff)),
	}, nil
}

func sameShape(a, b mat.Matrix) error {
	ar, ac := a.Dims()
	br, bc := b.Dims()
	if ar != br || ac != bc {
		return fmt.Errorf("%w: densities are %dx%d and %dx%d", ErrShapeMismatch, ar, ac, br, bc)
	}
	return nil
}

// flatten copies m into a row-major slice.
func flatten(m mat.Matrix) []float64 {
	r, c := m.Dims()
	out := make([]float64, 0, r*c)
	for i := range r {
		for j := range c {
			out = append(out, m.At(i, j))
		}
	}
	return out
}
