package delivery

import (
	"slices"

	"github.com/gogpu/mudensity"
)

// Combine concatenates records in time. The first record is kept as is;
// the monitor units of each later record are rebased so that its first
// control point continues from the running total. Empty records are
// skipped.
//
// Combine(Empty(), d) is equal to d.
func Combine(records ...Delivery) Delivery {
	var out Delivery
	for _, r := range records {
		if r.Len() == 0 {
			continue
		}

		offset := 0.0
		if out.Len() > 0 {
			offset = out.TotalMU() - r.mu[0]
		}
		for _, v := range r.mu {
			out.mu = append(out.mu, v+offset)
		}
		out.gantry = append(out.gantry, r.gantry...)
		out.collimator = append(out.collimator, r.collimator...)
		out.mlc = append(out.mlc, r.mlc...)
		out.jaw = append(out.jaw, r.jaw...)
	}
	return out
}

// Merge returns d followed by others, as Combine does.
func (d Delivery) Merge(others ...Delivery) Delivery {
	return Combine(slices.Concat([]Delivery{d}, others)...)
}

// Strip keeps every skip-th control point, starting with the first. It is
// used to thin densely sampled logs before a quick preview calculation.
// A skip of 1 or less returns the record unchanged.
func (d Delivery) Strip(skip int) Delivery {
	if skip <= 1 {
		return d
	}
	indices := make([]int, 0, (d.Len()+skip-1)/skip)
	for i := 0; i < d.Len(); i += skip {
		indices = append(indices, i)
	}
	return d.selectControlPoints(indices)
}

// FilterCPs returns the record without the control points that deliver no
// monitor units on either side. Results are memoised by content.
func (d Delivery) FilterCPs() Delivery {
	return filtered(d)
}

func (d Delivery) filterCPs() Delivery {
	return d.selectControlPoints(mudensity.RelevantControlPoints(d.mu))
}
