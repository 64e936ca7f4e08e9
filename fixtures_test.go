package mudensity

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// Three 5 mm leaf pairs, 10 mm max leaf gap: a 17 x 11 grid at 1 mm.
var (
	seedMU = []float64{0, 2, 5, 10}

	seedMLC = [][]LeafPair{
		{{1, 1}, {2, 2}, {3, 3}},
		{{2, 2}, {3, 3}, {4, 4}},
		{{-2, 3}, {-2, 4}, {-2, 5}},
		{{0, 0}, {0, 0}, {0, 0}},
	}

	seedJaw = []JawPair{
		{7.5, 7.5},
		{7.5, 7.5},
		{-2, 7.5},
		{0, 0},
	}

	// seedExpected is the reference density rounded to one decimal.
	seedExpected = [][]float64{
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0.3, 1.9, 2.2, 1.9, 0.4, 0, 0, 0},
		{0, 0, 0, 0.4, 2.2, 2.5, 2.2, 0.6, 0, 0, 0},
		{0, 0, 0, 0.4, 2.4, 2.8, 2.5, 0.8, 0, 0, 0},
		{0, 0, 0, 0.4, 2.5, 3.1, 2.8, 1.0, 0, 0, 0},
		{0, 0, 0, 0.4, 2.5, 3.4, 3.1, 1.3, 0, 0, 0},
		{0, 0, 0.4, 2.3, 3.2, 3.7, 3.7, 3.5, 1.6, 0, 0},
		{0, 0, 0.4, 2.3, 3.2, 3.8, 4.0, 3.8, 1.9, 0.1, 0},
		{0, 0, 0.4, 2.3, 3.2, 3.8, 4.3, 4.1, 2.3, 0.1, 0},
		{0, 0, 0.4, 2.3, 3.2, 3.9, 5.2, 4.7, 2.6, 0.2, 0},
		{0, 0, 0.4, 2.3, 3.2, 3.8, 5.4, 6.6, 3.8, 0.5, 0},
		{0, 0.3, 2.2, 3.0, 3.5, 4.0, 5.1, 7.5, 6.7, 3.9, 0.5},
		{0, 0.3, 2.2, 3.0, 3.5, 4.0, 4.7, 6.9, 6.7, 3.9, 0.5},
		{0, 0.3, 2.2, 3.0, 3.5, 4.0, 4.5, 6.3, 6.4, 3.9, 0.5},
		{0, 0.3, 2.2, 3.0, 3.5, 4.0, 4.5, 5.6, 5.7, 3.8, 0.5},
		{0, 0.3, 2.2, 3.0, 3.5, 4.0, 4.5, 5.1, 5.1, 3.3, 0.5},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
	}
)

func seedOptions() []Option {
	return []Option{
		WithMaxLeafGap(10),
		WithLeafPairWidths(5, 5, 5),
	}
}

// assertDenseNear fails the test if got and want differ anywhere by more
// than tol.
func assertDenseNear(t *testing.T, got *mat.Dense, want [][]float64, tol float64) {
	t.Helper()
	rows, cols := got.Dims()
	if rows != len(want) || (rows > 0 && cols != len(want[0])) {
		t.Fatalf("density is %dx%d, want %dx%d", rows, cols, len(want), len(want[0]))
	}
	for i := range rows {
		for j := range cols {
			if d := math.Abs(got.At(i, j) - want[i][j]); d > tol {
				t.Errorf("density[%d][%d] = %.4f, want %.4f (±%g)", i, j, got.At(i, j), want[i][j], tol)
			}
		}
	}
}

// assertSliceNear fails the test if got and want differ in length or by
// more than tol anywhere.
func assertSliceNear(t *testing.T, name string, got, want []float64, tol float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s has %d values, want %d: %v", name, len(got), len(want), got)
	}
	for i := range got {
		if d := math.Abs(got[i] - want[i]); d > tol {
			t.Errorf("%s[%d] = %.6f, want %.6f (±%g)", name, i, got[i], want[i], tol)
		}
	}
}
