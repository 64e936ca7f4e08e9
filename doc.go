// Package mudensity computes the MU density of a linear accelerator beam.
//
// # Overview
//
// An MU density is a two dimensional, fluence-equivalent map of a beam as
// seen from the source. Every cell holds the monitor units that passed
// through that location, weighted by the fraction of time the location was
// left open by both the multi-leaf collimator (MLC) and the backup jaws.
// Planned and delivered beams are compared through their MU densities to
// detect delivery faults.
//
// # Quick Start
//
//	import "github.com/gogpu/mudensity"
//
//	mu := []float64{0, 2, 5, 10}
//	density, err := mudensity.Calculate(ctx, mu, mlc, jaw,
//		mudensity.WithMaxLeafGap(10),
//		mudensity.WithLeafPairWidths(5, 5, 5),
//	)
//
//	grid, err := mudensity.NewGrid(
//		mudensity.WithMaxLeafGap(10),
//		mudensity.WithLeafPairWidths(5, 5, 5),
//	)
//
// The returned density is a *mat.Dense with one row per grid.Jaw sample and
// one column per grid.MLC sample.
//
// # Coordinate System
//
// All positions are in millimetres projected to the isocentre plane and use
// the bipolar convention:
//   - MLC bank 0 (A, left) leaf at p opens the field to -mlc[p][0]
//   - MLC bank 1 (B, right) leaf at p opens the field to +mlc[p][1]
//   - Jaw edge 0 (Y1, bottom) opens to -jaw[0], edge 1 (Y2, top) to +jaw[1]
//
// A negative value means the leaf or jaw has travelled across the isocentre.
//
// # Architecture
//
// The library is organized into:
//   - Engine (this package): grid, control point pruning, segment
//     integration, whole beam composition
//   - delivery: the immutable delivery record with merge and gantry masking
//   - display: rendering of densities to images
//
// # Determinism
//
// Every computation is a pure float64 function of its inputs. Nothing in
// the engine starts goroutines; beams may be processed concurrently by the
// caller.
package mudensity

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
