package display

import (
	"image/color"
	"math"
	"sort"
)

// RGBA is a colour with components in [0, 1].
type RGBA struct {
	R, G, B, A float64
}

// RGB returns an opaque colour.
func RGB(r, g, b float64) RGBA {
	return RGBA{R: r, G: g, B: b, A: 1}
}

// Hex returns the colour of a "RRGGBB" or "#RRGGBB" string. Malformed input
// gives opaque black.
func Hex(hex string) RGBA {
	if hex != "" && hex[0] == '#' {
		hex = hex[1:]
	}
	if len(hex) != 6 {
		return RGB(0, 0, 0)
	}
	var r, g, b uint32
	parseHex(hex[0:2], &r)
	parseHex(hex[2:4], &g)
	parseHex(hex[4:6], &b)
	return RGB(float64(r)/255, float64(g)/255, float64(b)/255)
}

func parseHex(s string, val *uint32) {
	*val = 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		*val *= 16
		switch {
		case '0' <= c && c <= '9':
			*val += uint32(c - '0')
		case 'a' <= c && c <= 'f':
			*val += uint32(c - 'a' + 10)
		case 'A' <= c && c <= 'F':
			*val += uint32(c - 'A' + 10)
		default:
			return
		}
	}
}

// NRGBA converts to an 8-bit colour.
func (c RGBA) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: uint8(math.Round(clamp01(c.R) * 255)),
		G: uint8(math.Round(clamp01(c.G) * 255)),
		B: uint8(math.Round(clamp01(c.B) * 255)),
		A: uint8(math.Round(clamp01(c.A) * 255)),
	}
}

// Lerp interpolates linearly between c and other.
func (c RGBA) Lerp(other RGBA, t float64) RGBA {
	return RGBA{
		R: c.R + (other.R-c.R)*t,
		G: c.G + (other.G-c.G)*t,
		B: c.B + (other.B-c.B)*t,
		A: c.A + (other.A-c.A)*t,
	}
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// ColorStop is a colour at a position in a colour map.
type ColorStop struct {
	Offset float64 // Position in the map, 0.0 to 1.0
	Color  RGBA
}

// Colormap maps values in [0, 1] to colours by interpolating between
// stops sorted by offset. Values outside [0, 1] take the colour of the
// nearest end.
type Colormap []ColorStop

// At returns the colour at t.
func (m Colormap) At(t float64) RGBA {
	switch len(m) {
	case 0:
		return RGBA{}
	case 1:
		return m[0].Color
	}

	t = clamp01(t)
	idx := sort.Search(len(m), func(i int) bool {
		return m[i].Offset >= t
	})
	if idx == 0 {
		return m[0].Color
	}
	if idx >= len(m) {
		return m[len(m)-1].Color
	}

	lo, hi := m[idx-1], m[idx]
	if hi.Offset == lo.Offset {
		return lo.Color
	}
	return lo.Color.Lerp(hi.Color, (t-lo.Offset)/(hi.Offset-lo.Offset))
}

// evenStops spreads colours evenly over [0, 1].
func evenStops(colors ...RGBA) Colormap {
	m := make(Colormap, len(colors))
	for i, c := range colors {
		m[i] = ColorStop{Offset: float64(i) / float64(len(colors)-1), Color: c}
	}
	return m
}

var (
	// Viridis is a perceptually uniform sequential map, used for densities.
	Viridis = evenStops(
		Hex("440154"), Hex("472d7b"), Hex("3b528b"),
		Hex("2c728e"), Hex("21918c"), Hex("28ae80"),
		Hex("5ec962"), Hex("addc30"), Hex("fde725"),
	)

	// BlueWhiteRed is a diverging map centred on white, used for
	// differences.
	BlueWhiteRed = evenStops(RGB(0, 0, 1), RGB(1, 1, 1), RGB(1, 0, 0))

	// Missing is drawn for cells holding NaN.
	Missing = RGB(0.5, 0.5, 0.5)
)
