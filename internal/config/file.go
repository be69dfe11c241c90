package config

import (
	"maps"

	"github.com/nao1215/florastat/internal/dataset"
)

// PlotSettings is the plot section of the configuration file.
type PlotSettings struct {
	// File is where the box plot is written.
	File string `yaml:"file,omitempty"`

	// Width and Height are the figure size in inches.
	Width  float64 `yaml:"width,omitempty"`
	Height float64 `yaml:"height,omitempty"`

	// Palette names the category colour palette ("dark", "deep", "muted").
	Palette string `yaml:"palette,omitempty"`

	// Title is drawn above the plot.
	Title string `yaml:"title,omitempty"`
}

// File represents the structure of the .florastat configuration file.
// Every field is optional; unset fields keep the built-in defaults.
type File struct {
	// Schema overrides the expected column layout.
	Schema *dataset.Schema `yaml:"schema,omitempty"`

	// LabelPrefix is stripped from every category label. A pointer so that
	// an explicit empty prefix can disable the cleanup.
	LabelPrefix *string `yaml:"labelPrefix,omitempty"`

	// Aggregations maps a measurement column to aggregation function names.
	Aggregations map[string][]string `yaml:"aggregations,omitempty"`

	// Head is the number of rows shown in previews.
	Head *int `yaml:"head,omitempty"`

	// BatchSize is the number of inputs analysed concurrently.
	BatchSize int `yaml:"batchSize,omitempty"`

	// Plot holds the box plot settings.
	Plot PlotSettings `yaml:"plot,omitempty"`
}

// Flag names whose values the configuration file may supply.
const (
	FlagPrefix    = "prefix"
	FlagAgg       = "agg"
	FlagHead      = "head"
	FlagBatch     = "batch"
	FlagPlot      = "plot"
	FlagPlotSize  = "plot-size"
	FlagPalette   = "palette"
	FlagPlotTitle = "title"
	FlagLabel     = "label"
)

// ApplyTo copies the values set in the file into c. Values whose flag was
// given on the command line, as reported by isSet, are left alone so that
// flags win over the file.
func (f *File) ApplyTo(c *Config, isSet func(flag string) bool) {
	if isSet == nil {
		isSet = func(string) bool { return false }
	}

	if f.Schema != nil {
		if len(f.Schema.Measurements) > 0 {
			c.Schema.Measurements = f.Schema.Measurements
		}
		if f.Schema.Label != "" && !isSet(FlagLabel) {
			c.Schema.Label = f.Schema.Label
		}
	}
	if f.LabelPrefix != nil && !isSet(FlagPrefix) {
		c.LabelPrefix = *f.LabelPrefix
	}
	if len(f.Aggregations) > 0 {
		// Flag overrides are merged on top of the file.
		merged := maps.Clone(f.Aggregations)
		if isSet(FlagAgg) {
			maps.Copy(merged, c.Aggregations)
		}
		c.Aggregations = merged
	}
	if f.Head != nil && !isSet(FlagHead) {
		c.Head = *f.Head
	}
	if f.BatchSize != 0 && !isSet(FlagBatch) {
		c.BatchSize = f.BatchSize
	}

	p := f.Plot
	if p.File != "" && !isSet(FlagPlot) {
		c.PlotFile = p.File
	}
	if !isSet(FlagPlotSize) {
		if p.Width != 0 {
			c.PlotWidth = p.Width
		}
		if p.Height != 0 {
			c.PlotHeight = p.Height
		}
	}
	if p.Palette != "" && !isSet(FlagPalette) {
		c.PlotPalette = p.Palette
	}
	if p.Title != "" && !isSet(FlagPlotTitle) {
		c.PlotTitle = p.Title
	}
}
