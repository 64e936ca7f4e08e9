package mudensity

import (
	"errors"
	"math"
	"testing"
)

func TestBlockedFraction(t *testing.T) {
	tests := []struct {
		name       string
		travelDiff float64
		want       float64
	}{
		{"deep behind the edge", -3, 1},
		{"exactly half a cell behind", -0.5, 1},
		{"on the edge", 0, 0.5},
		{"quarter cell open", 0.25, 0.25},
		{"exactly half a cell open", 0.5, 0},
		{"far into the field", 10, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := blockedFraction(tt.travelDiff, 1); got != tt.want {
				t.Errorf("blockedFraction(%v, 1) = %v, want %v", tt.travelDiff, got, tt.want)
			}
		})
	}
}

func TestOpenFraction(t *testing.T) {
	tests := []struct {
		name      string
		c, lo, hi float64
		want      float64
	}{
		{"fully open", 0, -3, 3, 1},
		{"left edge through centre", -3, -3, 3, 0.5},
		{"both edges through one cell", 0, -0.25, 0.25, 0.5},
		{"closed pair", 0, 0, 0, 0},
		{"crossed pair clamps to zero", 0, 2, -2, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := openFraction(tt.c, tt.lo, tt.hi, 1)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("openFraction() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEdgePosition(t *testing.T) {
	e := edge{start: -1, end: 2}
	if got := e.position(0, 4); got != -1 {
		t.Errorf("position(0) = %v, want -1", got)
	}
	if got := e.position(3, 4); got != 2 {
		t.Errorf("position(3) = %v, want 2", got)
	}
	if got := e.position(1, 4); got != 0 {
		t.Errorf("position(1) = %v, want 0", got)
	}
}

func TestCalculateSegment(t *testing.T) {
	mlc := [2][]LeafPair{
		{{1, 1}, {2, 2}},
		{{2, 2}, {3, 3}},
	}
	jaw := [2]JawPair{{1.5, 1.2}, {1.5, 1.2}}

	grid, density, err := CalculateSegment(mlc, jaw, 1, WithLeafPairWidths(2, 2))
	if err != nil {
		t.Fatalf("CalculateSegment() = %v", err)
	}

	assertSliceNear(t, "mlc", grid.MLC, []float64{-3, -2, -1, 0, 1, 2, 3}, 1e-12)
	assertSliceNear(t, "jaw", grid.Jaw, []float64{-1.5, -0.5, 0.5, 1.5}, 1e-12)

	want := [][]float64{
		{0, 0.07, 0.43, 0.5, 0.43, 0.07, 0},
		{0, 0.14, 0.86, 1, 0.86, 0.14, 0},
		{0.14, 0.86, 1, 1, 1, 0.86, 0.14},
		{0.03, 0.17, 0.2, 0.2, 0.2, 0.17, 0.03},
	}
	assertDenseNear(t, density, want, 0.005+1e-9)
}

func TestCalculateSegmentStationary(t *testing.T) {
	mlc := [2][]LeafPair{
		{{2, 2}, {2, 2}, {2, 2}},
		{{2, 2}, {2, 2}, {2, 2}},
	}
	jaw := [2]JawPair{{7.5, 7.5}, {7.5, 7.5}}
	opts := []Option{WithLeafPairWidths(5, 5, 5)}

	_, unit, err := CalculateSegment(mlc, jaw, 1, opts...)
	if err != nil {
		t.Fatalf("CalculateSegment() = %v", err)
	}
	_, scaled, err := CalculateSegment(mlc, jaw, 7, opts...)
	if err != nil {
		t.Fatalf("CalculateSegment() = %v", err)
	}

	rows, cols := unit.Dims()
	for i := range rows {
		for j := range cols {
			if d := math.Abs(scaled.At(i, j) - 7*unit.At(i, j)); d > 1e-12 {
				t.Fatalf("density[%d][%d] = %v, want %v", i, j, scaled.At(i, j), 7*unit.At(i, j))
			}
		}
	}

	// A stationary open field is 1 inside and 0.5 at the leaf tips.
	if got := unit.At(rows/2, cols/2); math.Abs(got-1) > 1e-12 {
		t.Errorf("centre = %v, want 1", got)
	}
	if got := unit.At(rows/2, 0); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("leaf tip = %v, want 0.5", got)
	}
}

func TestCalculateSegmentClosedLeaves(t *testing.T) {
	// Every leaf sits on the same closed position, so the MLC axis is the
	// single column at 0 and no MU gets through.
	mlc := [2][]LeafPair{
		{{0, 0}, {0, 0}, {0, 0}},
		{{0, 0}, {0, 0}, {0, 0}},
	}
	jaw := [2]JawPair{{7.5, 7.5}, {7.5, 7.5}}

	grid, density, err := CalculateSegment(mlc, jaw, 5, WithLeafPairWidths(5, 5, 5))
	if err != nil {
		t.Fatalf("CalculateSegment() = %v", err)
	}
	if len(grid.MLC) != 1 {
		t.Fatalf("len(MLC) = %d, want 1", len(grid.MLC))
	}
	rows, cols := density.Dims()
	for i := range rows {
		for j := range cols {
			if v := density.At(i, j); v != 0 {
				t.Fatalf("density[%d][%d] = %v, want 0", i, j, v)
			}
		}
	}
}

func TestCalculateSegmentErrors(t *testing.T) {
	opts := []Option{WithLeafPairWidths(5, 5, 5)}
	open := []LeafPair{{1, 1}, {1, 1}, {1, 1}}

	_, _, err := CalculateSegment([2][]LeafPair{open, open[:2]}, [2]JawPair{{5, 5}, {5, 5}}, 1, opts...)
	if !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("short control point: error = %v, want ErrShapeMismatch", err)
	}

	wide := []LeafPair{{1, 1}, {1, 6}, {1, 1}}
	_, _, err = CalculateSegment([2][]LeafPair{open, wide}, [2]JawPair{{5, 5}, {5, 5}}, 1,
		WithLeafPairWidths(5, 5, 5), WithMaxLeafGap(10))
	if !errors.Is(err, ErrOutOfRange) {
		t.Errorf("leaf beyond half the max leaf gap: error = %v, want ErrOutOfRange", err)
	}

	_, _, err = CalculateSegment([2][]LeafPair{open, open}, [2]JawPair{{5, 5}, {5, 9}}, 1, opts...)
	if !errors.Is(err, ErrOutOfRange) {
		t.Errorf("jaw beyond leaf stack: error = %v, want ErrOutOfRange", err)
	}

	_, _, err = CalculateSegment([2][]LeafPair{open, open}, [2]JawPair{{5, 5}, {5, 5}}, 1,
		WithLeafPairWidths(5, 5, 5), WithGridResolution(2))
	if !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("resolution 2 on 5 mm leaves: error = %v, want ErrInvalidConfiguration", err)
	}
}

func TestTimeSteps(t *testing.T) {
	in := &integrator{res: 1, minSteps: 10}
	tests := []struct {
		name  string
		edges []edge
		want  int
	}{
		{"stationary", []edge{{1, 1}}, 10},
		{"one cell", []edge{{0, 1}}, 10},
		{"fraction of a cell", []edge{{0, 0.2}}, 10},
		{"several cells", []edge{{0, 2}, {5, 1}}, 40},
		{"just over", []edge{{0, 3.01}}, 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := in.timeSteps(tt.edges); got != tt.want {
				t.Errorf("timeSteps() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLeafMapFirstMinimum(t *testing.T) {
	cfg := NewConfig(WithLeafPairWidths(2, 2))
	in := newIntegrator(cfg)

	// Centres are -1 and 1: a sample at 0 is equidistant and goes to the
	// lower leaf.
	leafOfRow, leaves := in.leafMap([]float64{-1.5, -0.5, 0, 0.5, 1.5})
	if got, want := leaves, []int{0, 1}; len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("leaves = %v, want %v", got, want)
	}
	wantRows := []int{0, 0, 0, 1, 1}
	for y, l := range leafOfRow {
		if l != wantRows[y] {
			t.Errorf("leafOfRow[%d] = %d, want %d", y, l, wantRows[y])
		}
	}
}
