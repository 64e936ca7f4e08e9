// Package delivery holds the record of a linac beam delivery: cumulative
// monitor units with the gantry, collimator, MLC and jaw positions at every
// control point.
//
// A Delivery is an immutable value. Every manipulation returns a new
// record:
//
//	d, err := delivery.New(mu, gantry, collimator, mlc, jaw)
//	beams, err := d.MaskByGantry([]float64{0, 90}, 3, false)
//	density, err := beams[0].MUDensity(ctx, mudensity.WithGridResolution(0.5))
//
// Records are normally produced by ingestion code for DICOM plans, linac
// logs or treatment database rows. Decode and Encode read and write a plain
// YAML (or JSON) form of a record.
//
// Angles are bipolar: (-180, 180] degrees, so a continuous arc through 180
// stays continuous. ToBipolar converts from the IEC 0 to 360 convention.
package delivery
