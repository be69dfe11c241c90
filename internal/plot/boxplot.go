package plot

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	gonum "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/nao1215/florastat/internal/dataset"
)

// Default figure settings.
const (
	DefaultWidthInches  = 6.0
	DefaultHeightInches = 4.0
	DefaultTitle        = ""
)

// ErrUnsupportedFormat is returned when the output extension is not an image
// format the renderer can write.
var ErrUnsupportedFormat = errors.New("unsupported plot format")

// ErrEmptyTable is returned when there is nothing to plot.
var ErrEmptyTable = errors.New("no values to plot")

var formats = map[string]bool{
	"png": true, "svg": true, "pdf": true, "eps": true,
	"jpg": true, "jpeg": true, "tif": true, "tiff": true,
}

var lineColor = color.Gray{Y: 0x3c}

// legendHeadroom is the share of the value range added above the tallest
// whisker, so the legend in the top right corner does not cover a box.
const legendHeadroom = 0.25

// BoxPlotRenderer draws grouped box plots.
type BoxPlotRenderer struct {
	width   vg.Length
	height  vg.Length
	title   string
	palette []color.Color
	xLabel  string
	yLabel  string
}

// Option configures a BoxPlotRenderer.
type Option func(*BoxPlotRenderer)

// WithSize sets the figure size in inches. Non-positive values are ignored.
func WithSize(widthInches, heightInches float64) Option {
	return func(r *BoxPlotRenderer) {
		if widthInches > 0 {
			r.width = vg.Length(widthInches) * vg.Inch
		}
		if heightInches > 0 {
			r.height = vg.Length(heightInches) * vg.Inch
		}
	}
}

// WithTitle sets the plot title.
func WithTitle(title string) Option {
	return func(r *BoxPlotRenderer) {
		r.title = title
	}
}

// WithPalette sets the category fill colours.
func WithPalette(colors []color.Color) Option {
	return func(r *BoxPlotRenderer) {
		if len(colors) > 0 {
			r.palette = colors
		}
	}
}

// WithAxisLabels sets the x and y axis labels.
func WithAxisLabels(x, y string) Option {
	return func(r *BoxPlotRenderer) {
		r.xLabel = x
		r.yLabel = y
	}
}

// NewBoxPlotRenderer creates a renderer with a 6x4 inch figure and the
// dark palette.
func NewBoxPlotRenderer(opts ...Option) *BoxPlotRenderer {
	r := &BoxPlotRenderer{
		width:   vg.Length(DefaultWidthInches) * vg.Inch,
		height:  vg.Length(DefaultHeightInches) * vg.Inch,
		title:   DefaultTitle,
		palette: palettes[DefaultPalette],
		xLabel:  dataset.ColumnMeasurement,
		yLabel:  dataset.ColumnSize,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Build lays out the box plot of long: x is the measurement, y the size and
// each category gets its own box within a measurement slot.
func (r *BoxPlotRenderer) Build(long *dataset.LongTable) (*gonum.Plot, error) {
	if long == nil || long.Len() == 0 {
		return nil, ErrEmptyTable
	}

	measurements := long.Measurements()
	categories := long.Categories()

	p := gonum.New()
	p.Title.Text = r.title
	p.X.Label.Text = r.xLabel
	p.Y.Label.Text = r.yLabel
	p.Legend.Top = true
	p.Legend.Left = false

	// Each measurement slot is one unit wide; boxes share 80% of it.
	slot := 0.8 / float64(len(categories))
	boxWidth := r.width / vg.Length(len(measurements)*len(categories)+len(measurements)) * 0.8

	for ci, category := range categories {
		fill := r.palette[ci%len(r.palette)]
		offset := (float64(ci) - float64(len(categories)-1)/2) * slot

		for mi, measurement := range measurements {
			values := long.Values(category, measurement)
			if len(values) == 0 {
				continue
			}

			box, err := plotter.NewBoxPlot(boxWidth, float64(mi)+offset, plotter.Values(values))
			if err != nil {
				return nil, fmt.Errorf("failed to build box for %s/%s: %w", category, measurement, err)
			}
			box.FillColor = fill
			box.BoxStyle.Color = lineColor
			box.MedianStyle.Color = lineColor
			box.WhiskerStyle.Color = lineColor
			box.GlyphStyle.Color = lineColor
			p.Add(box)
		}

		p.Legend.Add(category, swatch{fill: fill})
	}

	p.Y.Max += (p.Y.Max - p.Y.Min) * legendHeadroom
	p.NominalX(measurements...)
	return p, nil
}

// Save renders long to path. The format is taken from the file extension
// and missing parent directories are created.
func (r *BoxPlotRenderer) Save(long *dataset.LongTable, path string) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create plot directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // Output path is provided by the user
	if err != nil {
		return fmt.Errorf("failed to create plot file: %w", err)
	}

	if _, err := r.WriteTo(f, long, format); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// WriteTo renders long in the given format ("png", "svg", ...) to w.
func (r *BoxPlotRenderer) WriteTo(w io.Writer, long *dataset.LongTable, format string) (int64, error) {
	format = strings.ToLower(format)
	if !formats[format] {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	p, err := r.Build(long)
	if err != nil {
		return 0, err
	}

	wt, err := p.WriterTo(r.width, r.height, format)
	if err != nil {
		return 0, fmt.Errorf("failed to render plot: %w", err)
	}
	n, err := wt.WriteTo(w)
	if err != nil {
		return n, fmt.Errorf("failed to write plot: %w", err)
	}
	return n, nil
}

// FormatOf returns the image format implied by the extension of path.
func FormatOf(path string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if !formats[ext] {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
	return ext, nil
}

// swatch is a legend entry: a rectangle filled with the category colour.
type swatch struct {
	fill color.Color
}

// Thumbnail implements plot.Thumbnailer.
func (s swatch) Thumbnail(c *draw.Canvas) {
	pts := []vg.Point{
		{X: c.Min.X, Y: c.Min.Y},
		{X: c.Min.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Min.Y},
	}
	c.FillPolygon(s.fill, c.ClipPolygonY(pts))
}
