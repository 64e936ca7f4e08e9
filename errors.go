package mudensity

import "errors"

// Sentinel errors returned (wrapped) by the engine. Use errors.Is to test.
var (
	// ErrInvalidConfiguration is returned when the grid resolution does not
	// exactly divide half the maximum leaf gap or a leaf pair width, or when
	// an option value is not positive.
	ErrInvalidConfiguration = errors.New("mudensity: invalid configuration")

	// ErrOutOfRange is returned when an MLC leaf travels further than half
	// the maximum leaf gap or a jaw travels beyond the leaf stack.
	ErrOutOfRange = errors.New("mudensity: position out of range")

	// ErrShapeMismatch is returned when control point sequences are not
	// aligned or a control point has the wrong number of leaf pairs.
	ErrShapeMismatch = errors.New("mudensity: shape mismatch")

	// ErrMissingAngle is returned when a requested gantry angle matches no
	// control point and missing angles are not allowed.
	ErrMissingAngle = errors.New("mudensity: gantry angle not found")

	// ErrDuplicateAngle is returned when a gantry angle matches more than
	// one disjoint run of control points.
	ErrDuplicateAngle = errors.New("mudensity: gantry angle matches disjoint control points")
)
