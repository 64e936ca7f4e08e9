package mudensity

// SingleMLCPair returns the MU density of one unit of MU delivered through
// a single leaf pair, sampled along the direction of leaf travel.
//
// left and right are the (start, end) positions of the left and right leaf
// tips in mm. Unlike the bipolar convention used elsewhere these are plain
// coordinates: the pair is open over [left, right]. The leaf pair is one
// grid cell wide and the jaws are fully open, so only the leaf motion
// shapes the result.
//
// Only the grid resolution and minimum step options are used.
//
// Example:
//
//	x, density, err := mudensity.SingleMLCPair([2]float64{-2.3, 3.1}, [2]float64{0, 7.7})
//	// x       = [-2 -1 0 1 2 3 4 5 6 7 8]
//	// density ≈ [0.064 0.244 0.408 0.475 0.530 0.572 0.481 0.352 0.224 0.096 0.004]
func SingleMLCPair(left, right [2]float64, opts ...Option) (x, density []float64, err error) {
	cfg := NewConfig(opts...)
	res := cfg.GridResolution
	cfg.LeafPairWidths = []float64{res}
	if err := cfg.validateLeaves(); err != nil {
		return nil, nil, err
	}

	mlc := [2][]LeafPair{
		{{-left[0], right[0]}},
		{{-left[1], right[1]}},
	}
	jaw := [2]JawPair{
		{res / 2, res / 2},
		{res / 2, res / 2},
	}

	seg := newIntegrator(cfg).integrate(mlc, jaw, 1)
	nx := len(seg.grid.MLC)
	if nx == 0 || len(seg.grid.Jaw) == 0 {
		return seg.grid.MLC, []float64{}, nil
	}
	return seg.grid.MLC, seg.values[:nx], nil
}
