package mudensity

import (
	"errors"
	"slices"
	"testing"
)

func TestRelevantControlPoints(t *testing.T) {
	tests := []struct {
		name string
		mu   []float64
		want []int
	}{
		{"empty", nil, []int{}},
		{"single", []float64{0}, []int{0}},
		{"all moving", []float64{0, 1, 2, 3}, []int{0, 1, 2, 3}},
		{"leading dwell", []float64{0, 0, 0, 1}, []int{0, 2, 3}},
		{"interior plateau", []float64{0, 1, 1, 1, 2}, []int{0, 1, 3, 4}},
		{"long plateau", []float64{0, 1, 1, 1, 1, 1, 2}, []int{0, 1, 5, 6}},
		{"constant", []float64{5, 5, 5, 5}, []int{0, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RelevantControlPoints(tt.mu); !slices.Equal(got, tt.want) {
				t.Errorf("RelevantControlPoints(%v) = %v, want %v", tt.mu, got, tt.want)
			}
		})
	}
}

func TestRemoveIrrelevantControlPoints(t *testing.T) {
	mu := []float64{0, 1, 1, 1, 2}
	mlc := make([][]LeafPair, len(mu))
	jaw := make([]JawPair, len(mu))
	for i := range mu {
		mlc[i] = []LeafPair{{float64(i), float64(i)}}
		jaw[i] = JawPair{float64(i), float64(i)}
	}

	gotMU, gotMLC, gotJaw, err := RemoveIrrelevantControlPoints(mu, mlc, jaw)
	if err != nil {
		t.Fatalf("RemoveIrrelevantControlPoints() = %v", err)
	}
	if want := []float64{0, 1, 1, 2}; !slices.Equal(gotMU, want) {
		t.Errorf("mu = %v, want %v", gotMU, want)
	}
	for i, want := range []float64{0, 1, 3, 4} {
		if gotMLC[i][0][0] != want || gotJaw[i][0] != want {
			t.Errorf("control point %d came from %v/%v, want %v", i, gotMLC[i][0][0], gotJaw[i][0], want)
		}
	}
}

func TestRemoveIrrelevantControlPointsShapeMismatch(t *testing.T) {
	_, _, _, err := RemoveIrrelevantControlPoints([]float64{0, 1}, make([][]LeafPair, 1), make([]JawPair, 2))
	if !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("error = %v, want ErrShapeMismatch", err)
	}
}
