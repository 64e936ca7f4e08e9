package delivery

import (
	"errors"
	"fmt"
	"slices"
)

// ErrAmbiguousAngle is returned by ToBipolar when an angle of exactly 180°
// sits between neighbours approaching from opposite sides, so it cannot be
// told apart from -180°.
var ErrAmbiguousAngle = errors.New("delivery: cannot resolve 180° as +180 or -180")

// ToBipolar converts angles in the IEC 0 to 360 convention to bipolar
// degrees. Angles above 180 become negative.
//
// An angle of exactly 180 takes the sign of its nearest neighbour that is
// not 180, so an arc arriving from the negative side ends at -180. When the
// nearest such neighbours on the left and on the right (equidistant ties
// resolved toward each side) disagree in sign, ErrAmbiguousAngle is
// returned. A sequence made entirely of 180 is returned unchanged.
func ToBipolar(angles []float64) ([]float64, error) {
	out := slices.Clone(angles)
	if !slices.ContainsFunc(out, func(a float64) bool { return a != 180 }) {
		return out, nil
	}

	var is180, not180 []int
	for i, a := range out {
		if a > 180 {
			out[i] = a - 360
		}
		if out[i] == 180 {
			is180 = append(is180, i)
		} else {
			not180 = append(not180, i)
		}
	}

	for _, i := range is180 {
		left, right := nearest(not180, i)
		negLeft, negRight := out[left] < 0, out[right] < 0
		if negLeft != negRight {
			return nil, fmt.Errorf("%w: index %d lies between %v° at %d and %v° at %d",
				ErrAmbiguousAngle, i, out[left], left, out[right], right)
		}
		if negLeft {
			out[i] = -180
		}
	}
	return out, nil
}

// nearest returns the elements of the ascending list candidates closest to
// i, resolving a tie toward the lower index (left) and toward the higher
// index (right) respectively.
func nearest(candidates []int, i int) (left, right int) {
	pos, _ := slices.BinarySearch(candidates, i)
	switch {
	case pos == 0:
		return candidates[0], candidates[0]
	case pos == len(candidates):
		last := candidates[len(candidates)-1]
		return last, last
	}

	below, above := candidates[pos-1], candidates[pos]
	switch db, da := i-below, above-i; {
	case db < da:
		return below, below
	case da < db:
		return above, above
	default:
		return below, above
	}
}
