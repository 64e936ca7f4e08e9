package display

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"gonum.org/v1/gonum/mat"

	"github.com/gogpu/mudensity"
)

const (
	margin        = 8
	colorbarWidth = 16
	// targetPlotSize is the pixel size the longer side of the plot is
	// scaled up to when no cell size is set.
	targetPlotSize = 400
	maxCellSize    = 16
)

var face = basicfont.Face7x13

// Option configures a rendered heatmap.
type Option func(*config)

type config struct {
	colormap   Colormap
	vmin, vmax float64
	autoRange  bool
	title      string
	cellSize   int
	colorbar   bool
}

func defaultConfig() config {
	return config{
		colormap:  Viridis,
		autoRange: true,
		title:     "MU density",
		colorbar:  true,
	}
}

// WithColormap sets the colour map.
func WithColormap(m Colormap) Option {
	return func(c *config) {
		c.colormap = m
	}
}

// WithRange fixes the values mapped to the two ends of the colour map.
// By default the range is the minimum and maximum of the density.
func WithRange(vmin, vmax float64) Option {
	return func(c *config) {
		c.vmin, c.vmax = vmin, vmax
		c.autoRange = false
	}
}

// WithTitle sets the title drawn above the plot.
func WithTitle(title string) Option {
	return func(c *config) {
		c.title = title
	}
}

// WithCellSize sets the size in pixels of one grid cell. By default cells
// are scaled so the plot is about 400 pixels across.
func WithCellSize(px int) Option {
	return func(c *config) {
		c.cellSize = px
	}
}

// WithColorbar toggles the colour bar to the right of the plot.
func WithColorbar(show bool) Option {
	return func(c *config) {
		c.colorbar = show
	}
}

// layout holds the placement of every element of a heatmap image.
type layout struct {
	bounds   image.Rectangle
	plot     image.Rectangle
	colorbar image.Rectangle
	cellSize int
}

func newLayout(rows, cols int, cfg config, yLabelWidth int) layout {
	cell := cfg.cellSize
	if cell <= 0 {
		cell = max(1, min(maxCellSize, targetPlotSize/max(rows, cols, 1)))
	}

	lineHeight := face.Metrics().Height.Ceil()
	left := margin + lineHeight + margin + yLabelWidth + margin
	top := margin + lineHeight + margin
	plot := image.Rect(left, top, left+cols*cell, top+rows*cell)

	right := plot.Max.X + margin
	var bar image.Rectangle
	if cfg.colorbar {
		bar = image.Rect(right+margin, plot.Min.Y, right+margin+colorbarWidth, plot.Max.Y)
		right = bar.Max.X + margin + 10*face.Advance + margin
	}
	bottom := plot.Max.Y + margin + 2*lineHeight + margin

	return layout{
		bounds:   image.Rect(0, 0, right, bottom),
		plot:     plot,
		colorbar: bar,
		cellSize: cell,
	}
}

// Heatmap renders an MU density sampled on grid. Rows run down the image
// in order of increasing jaw position, columns left to right in order of
// increasing MLC position.
//
// Returns mudensity.ErrShapeMismatch if density does not match the grid.
func Heatmap(grid mudensity.Grid, density mat.Matrix, opts ...Option) (*image.RGBA, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	rows, cols := density.Dims()
	if gr, gc := grid.Shape(); gr != rows || gc != cols {
		return nil, fmt.Errorf("%w: density is %dx%d, grid is %dx%d",
			mudensity.ErrShapeMismatch, rows, cols, gr, gc)
	}
	if rows == 0 || cols == 0 {
		return nil, fmt.Errorf("%w: nothing to draw on an empty grid", mudensity.ErrShapeMismatch)
	}

	if cfg.autoRange {
		cfg.vmin, cfg.vmax = valueRange(density)
	}
	if !(cfg.vmax > cfg.vmin) {
		cfg.vmax = cfg.vmin + 1
	}

	yTicks := [2]string{formatTick(grid.Jaw[0]), formatTick(grid.Jaw[rows-1])}
	yLabelWidth := max(textWidth(yTicks[0]), textWidth(yTicks[1]))
	l := newLayout(rows, cols, cfg, yLabelWidth)

	img := image.NewRGBA(l.bounds)
	xdraw.Draw(img, img.Bounds(), image.White, image.Point{}, xdraw.Src)

	cells := image.NewNRGBA(image.Rect(0, 0, cols, rows))
	for i := range rows {
		for j := range cols {
			cells.SetNRGBA(j, i, cfg.colorAt(density.At(i, j)))
		}
	}
	xdraw.NearestNeighbor.Scale(img, l.plot, cells, cells.Bounds(), xdraw.Src, nil)

	lineHeight := face.Metrics().Height.Ceil()
	ascent := face.Metrics().Ascent.Ceil()

	drawText(img, (l.bounds.Dx()-textWidth(cfg.title))/2, margin+ascent, cfg.title)

	// Axis limits and labels.
	xLeft, xRight := formatTick(grid.MLC[0]), formatTick(grid.MLC[cols-1])
	tickY := l.plot.Max.Y + margin + ascent
	drawText(img, l.plot.Min.X, tickY, xLeft)
	drawText(img, l.plot.Max.X-textWidth(xRight), tickY, xRight)
	xLabel := "MLC direction (mm)"
	drawText(img, l.plot.Min.X+(l.plot.Dx()-textWidth(xLabel))/2, tickY+lineHeight, xLabel)

	tickX := l.plot.Min.X - margin
	drawText(img, tickX-textWidth(yTicks[0]), l.plot.Min.Y+ascent, yTicks[0])
	drawText(img, tickX-textWidth(yTicks[1]), l.plot.Max.Y, yTicks[1])
	yLabel := "Jaw direction (mm)"
	drawVerticalText(img, margin, l.plot.Min.Y+(l.plot.Dy()+textWidth(yLabel))/2, yLabel)

	if cfg.colorbar {
		cfg.drawColorbar(img, l.colorbar)
	}

	mudensity.Logger().Debug("heatmap rendered",
		"rows", rows,
		"cols", cols,
		"cell_size", l.cellSize,
		"vmin", cfg.vmin,
		"vmax", cfg.vmax)

	return img, nil
}

// Difference renders evaluated minus reference with a diverging colour map
// centred on zero. The range is symmetric and defaults to the largest
// absolute difference.
//
// Returns mudensity.ErrShapeMismatch if the densities or grid disagree in
// shape.
func Difference(grid mudensity.Grid, evaluated, reference mat.Matrix, opts ...Option) (*image.RGBA, error) {
	diff, err := mudensity.Difference(evaluated, reference)
	if err != nil {
		return nil, err
	}

	limit := 0.0
	if r, c := diff.Dims(); r > 0 && c > 0 {
		limit = math.Max(mat.Max(diff), -mat.Min(diff))
	}
	if limit == 0 {
		limit = 1
	}

	defaults := []Option{
		WithColormap(BlueWhiteRed),
		WithRange(-limit, limit),
		WithTitle("MU density difference"),
	}
	return Heatmap(grid, diff, append(defaults, opts...)...)
}

// SavePNG writes img to path as a PNG file.
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("display: encode %s: %w", path, err)
	}
	return f.Close()
}

func (cfg config) colorAt(v float64) color.NRGBA {
	if math.IsNaN(v) {
		return Missing.NRGBA()
	}
	return cfg.colormap.At((v - cfg.vmin) / (cfg.vmax - cfg.vmin)).NRGBA()
}

// drawColorbar fills r with the colour map, vmax at the top, and labels
// both ends.
func (cfg config) drawColorbar(img *image.RGBA, r image.Rectangle) {
	h := r.Dy()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		t := 1.0
		if h > 1 {
			t = 1 - float64(y-r.Min.Y)/float64(h-1)
		}
		c := cfg.colormap.At(t).NRGBA()
		for x := r.Min.X; x < r.Max.X; x++ {
			img.Set(x, y, c)
		}
	}

	ascent := face.Metrics().Ascent.Ceil()
	drawText(img, r.Max.X+margin, r.Min.Y+ascent, formatTick(cfg.vmax))
	drawText(img, r.Max.X+margin, r.Max.Y, formatTick(cfg.vmin))
}

// valueRange returns the smallest and largest non-NaN values of m.
func valueRange(m mat.Matrix) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	rows, cols := m.Dims()
	for i := range rows {
		for j := range cols {
			v := m.At(i, j)
			if math.IsNaN(v) {
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if math.IsInf(lo, 1) {
		return 0, 1
	}
	return lo, hi
}

func formatTick(v float64) string {
	return fmt.Sprintf("%.4g", v)
}

func textWidth(s string) int {
	return font.MeasureString(face, s).Ceil()
}

// drawText draws s in black with its baseline at y.
func drawText(dst *image.RGBA, x, y int, s string) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.Black,
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

// drawVerticalText draws s reading bottom to top, starting at (x, y) and
// extending upward.
func drawVerticalText(dst *image.RGBA, x, y int, s string) {
	w := textWidth(s)
	h := face.Metrics().Height.Ceil()
	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	d := &font.Drawer{
		Dst:  mask,
		Src:  image.Opaque,
		Face: face,
		Dot:  fixed.P(0, face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(s)

	// Rotate 90° anticlockwise: mask (mx, my) lands at (x+my, y-mx).
	for my := range h {
		for mx := range w {
			if mask.AlphaAt(mx, my).A == 0 {
				continue
			}
			dst.Set(x+my, y-mx, color.Black)
		}
	}
}
