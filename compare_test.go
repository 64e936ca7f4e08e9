package mudensity

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestDifference(t *testing.T) {
	a := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	b := mat.NewDense(2, 2, []float64{1, 1, 1, 1})

	diff, err := Difference(a, b)
	if err != nil {
		t.Fatalf("Difference() = %v", err)
	}
	want := mat.NewDense(2, 2, []float64{0, 1, 2, 3})
	if !mat.Equal(diff, want) {
		t.Errorf("Difference() = %v, want %v", mat.Formatted(diff), mat.Formatted(want))
	}

	if _, err := Difference(a, mat.NewDense(1, 2, nil)); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("Difference() error = %v, want ErrShapeMismatch", err)
	}
}

func TestCompare(t *testing.T) {
	ref := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	eval := mat.NewDense(2, 2, []float64{1, 2.05, 3, 3.7})

	got, err := Compare(eval, ref, 0.1)
	if err != nil {
		t.Fatalf("Compare() = %v", err)
	}
	if got.Cells != 4 {
		t.Errorf("Cells = %d, want 4", got.Cells)
	}
	if math.Abs(got.MaxAbsDiff-0.3) > 1e-12 {
		t.Errorf("MaxAbsDiff = %v, want 0.3", got.MaxAbsDiff)
	}
	if math.Abs(got.MeanDiff-(-0.0625)) > 1e-12 {
		t.Errorf("MeanDiff = %v, want -0.0625", got.MeanDiff)
	}
	wantRMS := math.Sqrt((0.05*0.05 + 0.3*0.3) / 4)
	if math.Abs(got.RMSDiff-wantRMS) > 1e-12 {
		t.Errorf("RMSDiff = %v, want %v", got.RMSDiff, wantRMS)
	}
	if got.PassRate != 0.75 {
		t.Errorf("PassRate = %v, want 0.75", got.PassRate)
	}
	if got.Correlation < 0.99 || got.Correlation > 1 {
		t.Errorf("Correlation = %v, want close to 1", got.Correlation)
	}
}

func TestCompareIdentical(t *testing.T) {
	density := mat.NewDense(2, 3, []float64{0, 1, 2, 3, 4, 5})
	got, err := Compare(density, density, 0)
	if err != nil {
		t.Fatalf("Compare() = %v", err)
	}
	if got.MaxAbsDiff != 0 || got.RMSDiff != 0 || got.PassRate != 1 {
		t.Errorf("Compare(d, d) = %+v, want a perfect match", got)
	}
}

func TestCompareShapeMismatch(t *testing.T) {
	_, err := Compare(mat.NewDense(2, 2, nil), mat.NewDense(2, 3, nil), 0.1)
	if !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("Compare() error = %v, want ErrShapeMismatch", err)
	}
}
