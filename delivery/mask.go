package delivery

import (
	"fmt"
	"math"

	"github.com/gogpu/mudensity"
)

// muDecimals is the precision monitor units are rounded to after rebasing.
const muDecimals = 1e7

// MaskByGantry splits the record by gantry angle. For every requested angle
// it returns the contiguous run of control points whose gantry angle lies
// within tolerance degrees, with monitor units rebased to start at zero.
// The result is aligned with angles.
//
// Errors:
//   - mudensity.ErrDuplicateAngle: the matching control points form more
//     than one run
//   - mudensity.ErrMissingAngle: no control point matches and allowMissing
//     is false; with allowMissing the angle gets an empty record
func (d Delivery) MaskByGantry(angles []float64, tolerance float64, allowMissing bool) ([]Delivery, error) {
	out := make([]Delivery, len(angles))
	for i, angle := range angles {
		start, end, err := d.gantryRun(angle, tolerance)
		if err != nil {
			return nil, err
		}
		if start == end {
			if !allowMissing {
				return nil, fmt.Errorf("%w: no control point within %v° of gantry %v°",
					mudensity.ErrMissingAngle, tolerance, angle)
			}
			mudensity.Logger().Debug("gantry angle not delivered", "angle", angle)
			continue
		}
		out[i] = d.slice(start, end)
	}
	return out, nil
}

// Metersets returns the monitor units delivered at each gantry angle, 0 for
// angles with no matching control points.
//
// Returns mudensity.ErrDuplicateAngle as MaskByGantry does.
func (d Delivery) Metersets(angles []float64, tolerance float64) ([]float64, error) {
	masked, err := d.MaskByGantry(angles, tolerance, true)
	if err != nil {
		return nil, err
	}
	metersets := make([]float64, len(masked))
	for i, m := range masked {
		metersets[i] = m.TotalMU()
	}
	return metersets, nil
}

// gantryRun returns the half-open index range [start, end) of control
// points within tolerance of angle. start == end when none match.
func (d Delivery) gantryRun(angle, tolerance float64) (start, end int, err error) {
	runs := 0
	inRun := false
	for i, g := range d.gantry {
		near := math.Abs(g-angle) <= tolerance
		switch {
		case near && !inRun:
			runs++
			if runs > 1 {
				return 0, 0, fmt.Errorf("%w: gantry %v° matches control points %d-%d and again from %d",
					mudensity.ErrDuplicateAngle, angle, start, end-1, i)
			}
			start = i
			end = i + 1
			inRun = true
		case near:
			end = i + 1
		default:
			inRun = false
		}
	}
	return start, end, nil
}

// slice returns control points [start, end) with monitor units rebased to
// zero.
func (d Delivery) slice(start, end int) Delivery {
	base := d.mu[start]
	mu := make([]float64, end-start)
	for i, v := range d.mu[start:end] {
		mu[i] = math.RoundToEven((v-base)*muDecimals) / muDecimals
	}
	return Delivery{
		mu:         mu,
		gantry:     d.gantry[start:end:end],
		collimator: d.collimator[start:end:end],
		mlc:        d.mlc[start:end:end],
		jaw:        d.jaw[start:end:end],
	}
}
