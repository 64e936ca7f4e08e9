package delivery

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/gogpu/mudensity"
)

// MUDensity returns the MU density of the whole record on the grid given by
// mudensity.NewGrid with the same options.
func (d Delivery) MUDensity(ctx context.Context, opts ...mudensity.Option) (*mat.Dense, error) {
	f := d.FilterCPs()
	return mudensity.Calculate(ctx, f.mu, f.mlc, f.jaw, opts...)
}

// MUDensityByGantry returns one MU density per gantry angle, aligned with
// angles. Control points are matched to angles with the tolerance set by
// mudensity.WithGantryTolerance; mudensity.WithAllowMissingAngles turns an
// unmatched angle into a zero density instead of an error.
func (d Delivery) MUDensityByGantry(ctx context.Context, angles []float64, opts ...mudensity.Option) ([]*mat.Dense, error) {
	cfg := mudensity.NewConfig(opts...)
	masked, err := d.MaskByGantry(angles, cfg.GantryTolerance, cfg.AllowMissingAngles)
	if err != nil {
		return nil, err
	}

	densities := make([]*mat.Dense, len(masked))
	for i, m := range masked {
		densities[i], err = m.MUDensity(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("delivery: gantry %v°: %w", angles[i], err)
		}
	}
	return densities, nil
}
