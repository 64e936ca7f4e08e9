package mudensity

import "fmt"

// LeafPair holds the bipolar positions in mm of one MLC leaf pair:
// index 0 is bank A (left), index 1 is bank B (right). The pair is open
// over [-pair[0], +pair[1]].
type LeafPair [2]float64

// JawPair holds the bipolar positions in mm of the backup jaws: index 0 is
// the bottom (Y1) edge, index 1 the top (Y2) edge. The jaws are open over
// [-jaw[0], +jaw[1]].
type JawPair [2]float64

// RelevantControlPoints returns, in order, the indices of the control
// points that carry information for an MU density.
//
// A control point is irrelevant when the monitor units do not change on
// either side of it: mu[i-1] == mu[i] == mu[i+1]. The first and last
// control points are always kept.
func RelevantControlPoints(mu []float64) []int {
	keep := make([]int, 0, len(mu))
	for i := range mu {
		if i > 0 && i < len(mu)-1 && mu[i-1] == mu[i] && mu[i] == mu[i+1] {
			continue
		}
		keep = append(keep, i)
	}
	return keep
}

// SelectControlPoints returns the elements of s at the given indices.
func SelectControlPoints[T any](s []T, indices []int) []T {
	out := make([]T, len(indices))
	for i, idx := range indices {
		out[i] = s[idx]
	}
	return out
}

// RemoveIrrelevantControlPoints drops every control point that delivers no
// monitor units on either side, keeping mu, mlc and jaw aligned.
//
// Returns ErrShapeMismatch if the three sequences differ in length.
func RemoveIrrelevantControlPoints(mu []float64, mlc [][]LeafPair, jaw []JawPair) ([]float64, [][]LeafPair, []JawPair, error) {
	if len(mlc) != len(mu) || len(jaw) != len(mu) {
		return nil, nil, nil, fmt.Errorf("%w: %d monitor units, %d mlc and %d jaw control points",
			ErrShapeMismatch, len(mu), len(mlc), len(jaw))
	}

	keep := RelevantControlPoints(mu)
	return SelectControlPoints(mu, keep),
		SelectControlPoints(mlc, keep),
		SelectControlPoints(jaw, keep),
		nil
}
