package delivery

import (
	"fmt"
	"slices"

	"github.com/gogpu/mudensity"
)

// Delivery is the control point record of one beam. The five sequences are
// aligned: index i of each describes control point i.
//
// The zero value is an empty record, equal to Empty().
type Delivery struct {
	mu         []float64
	gantry     []float64
	collimator []float64
	mlc        [][]mudensity.LeafPair
	jaw        []mudensity.JawPair
}

// New returns a record of the given control points. The inputs are copied.
//
// mu is the cumulative monitor units at each control point. gantry and
// collimator are bipolar angles in degrees. mlc holds the leaf pair
// positions of every control point, jaw the jaw positions.
//
// Returns mudensity.ErrShapeMismatch if the sequences differ in length or
// the control points do not all have the same number of leaf pairs.
func New(mu, gantry, collimator []float64, mlc [][]mudensity.LeafPair, jaw []mudensity.JawPair) (Delivery, error) {
	n := len(mu)
	if len(gantry) != n || len(collimator) != n || len(mlc) != n || len(jaw) != n {
		return Delivery{}, fmt.Errorf("%w: %d monitor units, %d gantry, %d collimator, %d mlc and %d jaw control points",
			mudensity.ErrShapeMismatch, n, len(gantry), len(collimator), len(mlc), len(jaw))
	}
	for i := 1; i < n; i++ {
		if len(mlc[i]) != len(mlc[0]) {
			return Delivery{}, fmt.Errorf("%w: control point %d has %d leaf pairs, control point 0 has %d",
				mudensity.ErrShapeMismatch, i, len(mlc[i]), len(mlc[0]))
		}
	}

	return Delivery{
		mu:         slices.Clone(mu),
		gantry:     slices.Clone(gantry),
		collimator: slices.Clone(collimator),
		mlc:        cloneMLC(mlc),
		jaw:        slices.Clone(jaw),
	}, nil
}

// Empty returns a record with no control points.
func Empty() Delivery {
	return Delivery{}
}

// Len returns the number of control points.
func (d Delivery) Len() int {
	return len(d.mu)
}

// MonitorUnits returns a copy of the cumulative monitor units.
func (d Delivery) MonitorUnits() []float64 {
	return slices.Clone(d.mu)
}

// Gantry returns a copy of the gantry angles.
func (d Delivery) Gantry() []float64 {
	return slices.Clone(d.gantry)
}

// Collimator returns a copy of the collimator angles.
func (d Delivery) Collimator() []float64 {
	return slices.Clone(d.collimator)
}

// MLC returns a copy of the leaf pair positions.
func (d Delivery) MLC() [][]mudensity.LeafPair {
	return cloneMLC(d.mlc)
}

// Jaw returns a copy of the jaw positions.
func (d Delivery) Jaw() []mudensity.JawPair {
	return slices.Clone(d.jaw)
}

// TotalMU returns the cumulative monitor units at the last control point,
// or 0 for an empty record.
func (d Delivery) TotalMU() float64 {
	if len(d.mu) == 0 {
		return 0
	}
	return d.mu[len(d.mu)-1]
}

// Equal reports whether two records hold exactly the same control points.
// Values are compared with ==, so NaN never equals itself.
func (d Delivery) Equal(other Delivery) bool {
	return slices.Equal(d.mu, other.mu) &&
		slices.Equal(d.gantry, other.gantry) &&
		slices.Equal(d.collimator, other.collimator) &&
		slices.Equal(d.jaw, other.jaw) &&
		slices.EqualFunc(d.mlc, other.mlc, slices.Equal[[]mudensity.LeafPair])
}

// String returns a short summary of the record.
func (d Delivery) String() string {
	leaves := 0
	if len(d.mlc) > 0 {
		leaves = len(d.mlc[0])
	}
	return fmt.Sprintf("Delivery{control points: %d, leaf pairs: %d, MU: %g}", d.Len(), leaves, d.TotalMU())
}

// selectControlPoints returns the record restricted to the given indices.
func (d Delivery) selectControlPoints(indices []int) Delivery {
	return Delivery{
		mu:         mudensity.SelectControlPoints(d.mu, indices),
		gantry:     mudensity.SelectControlPoints(d.gantry, indices),
		collimator: mudensity.SelectControlPoints(d.collimator, indices),
		mlc:        mudensity.SelectControlPoints(d.mlc, indices),
		jaw:        mudensity.SelectControlPoints(d.jaw, indices),
	}
}

func cloneMLC(mlc [][]mudensity.LeafPair) [][]mudensity.LeafPair {
	if mlc == nil {
		return nil
	}
	out := make([][]mudensity.LeafPair, len(mlc))
	for i, cp := range mlc {
		out[i] = slices.Clone(cp)
	}
	return out
}
