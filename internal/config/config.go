package config

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/adrg/xdg"

	"github.com/nao1215/florastat/internal/dataset"
	"github.com/nao1215/florastat/internal/plot"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "florastat"

	// DefaultHead is the number of rows shown in previews.
	DefaultHead = 5

	// DefaultBatchSize is the number of inputs analysed concurrently.
	DefaultBatchSize = 4

	// DefaultPlotWidth and DefaultPlotHeight are the figure size in inches.
	DefaultPlotWidth  = 6.0
	DefaultPlotHeight = 4.0

	// DefaultTable is the SQLite table read and written when none is named.
	DefaultTable = "iris"
)

// Config holds all configuration options for florastat.
// It is populated from CLI flags and the optional config file and passed
// through the application rather than kept in global state.
type Config struct {
	// Inputs are the CSV files to analyse.
	Inputs []string

	// ConfigFilePath is the path to the configuration file.
	// If empty, the file is searched for as described in FindConfigFile.
	ConfigFilePath string

	// Schema is the expected column layout of every input.
	Schema dataset.Schema

	// LabelPrefix is stripped from every category label.
	LabelPrefix string

	// Aggregations are per-column aggregation overrides, column name to
	// function names. They produce an extra grouped table.
	Aggregations map[string][]string

	// Head is the number of rows shown in previews.
	Head int

	// PlotFile is where the box plot is written. Empty disables plotting.
	// With several inputs the input name is inserted before the extension.
	PlotFile string

	// PlotWidth and PlotHeight are the figure size in inches.
	PlotWidth  float64
	PlotHeight float64

	// PlotPalette names the category colour palette.
	PlotPalette string

	// PlotTitle is drawn above the plot.
	PlotTitle string

	// JSONReport, MarkdownReport and HTMLReport select the report format.
	// At most one may be set; the default is plain text.
	JSONReport     bool
	MarkdownReport bool
	HTMLReport     bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	ReportFile string

	// BatchSize is the number of inputs analysed concurrently.
	BatchSize int

	// SQLitePath is a database written by the import command. When set the
	// table named Table is analysed instead of CSV inputs.
	SQLitePath string

	// Table is the SQLite table to analyse.
	Table string

	// Verbose enables detailed log output using slog.LevelDebug.
	Verbose bool
}

// NewConfig creates a new Config with default values.
// The default aggregation override reports the maximum petal length per
// species alongside the means and medians of the other columns.
func NewConfig() *Config {
	return &Config{
		Schema:      dataset.DefaultSchema(),
		LabelPrefix: dataset.DefaultLabelPrefix,
		Aggregations: map[string][]string{
			dataset.ColumnPetalLength: {string(dataset.AggMax)},
		},
		Head:        DefaultHead,
		PlotWidth:   DefaultPlotWidth,
		PlotHeight:  DefaultPlotHeight,
		PlotPalette: plot.DefaultPalette,
		BatchSize:   DefaultBatchSize,
		Table:       DefaultTable,
	}
}

// XDGConfigDir returns the XDG config directory for florastat.
// On Linux: ~/.config/florastat
// On macOS: ~/Library/Application Support/florastat
// On Windows: %APPDATA%\florastat
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGDataDir returns the XDG data directory for florastat, where the import
// command puts its database when no path is given.
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// DefaultDatabasePath returns the database used by import when no path is
// given.
func DefaultDatabasePath() string {
	return filepath.Join(XDGDataDir(), AppName+".db")
}

// Validate checks if the configuration is valid.
// It returns the first problem found.
func (c *Config) Validate() error {
	if len(c.Inputs) == 0 && c.SQLitePath == "" {
		return ErrNoInput
	}

	if len(c.Inputs) > 0 && c.SQLitePath != "" {
		return ErrConflictingInputs
	}

	if c.SQLitePath != "" && c.Table == "" {
		return ErrNoTable
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if c.Head < 0 {
		return ErrInvalidHead
	}

	formats := 0
	for _, on := range []bool{c.JSONReport, c.MarkdownReport, c.HTMLReport} {
		if on {
			formats++
		}
	}
	if formats > 1 {
		return ErrConflictingReportFormats
	}

	if err := validateSchema(c.Schema); err != nil {
		return err
	}

	if _, err := c.Overrides(); err != nil {
		return err
	}

	if c.PlotFile != "" {
		if c.PlotWidth <= 0 || c.PlotHeight <= 0 {
			return ErrInvalidPlotSize
		}
		if _, err := plot.FormatOf(c.PlotFile); err != nil {
			return err
		}
		if _, err := plot.Palette(c.PlotPalette); err != nil {
			return err
		}
	}

	return nil
}

func validateSchema(s dataset.Schema) error {
	if len(s.Measurements) == 0 {
		return fmt.Errorf("%w: no measurement columns", ErrInvalidSchema)
	}
	if s.Label == "" {
		return fmt.Errorf("%w: no label column", ErrInvalidSchema)
	}
	cols := s.Columns()
	sorted := slices.Clone(cols)
	slices.Sort(sorted)
	if len(slices.Compact(sorted)) != len(cols) {
		return fmt.Errorf("%w: duplicate column in %v", ErrInvalidSchema, cols)
	}
	return nil
}

// Overrides parses Aggregations against the schema.
func (c *Config) Overrides() (dataset.AggregationSpec, error) {
	spec, err := dataset.ParseAggregationSpec(c.Aggregations)
	if err != nil {
		return nil, err
	}
	for col, aggs := range spec {
		if !c.Schema.IsMeasurement(col) {
			return nil, fmt.Errorf("%w: %s", dataset.ErrUnknownColumn, col)
		}
		if len(aggs) == 0 {
			return nil, fmt.Errorf("%w: %s", dataset.ErrNoAggregation, col)
		}
	}
	return spec, nil
}

// Sources returns the names of the inputs to analyse: the CSV paths, or a
// single "database#table" entry for a SQLite input.
func (c *Config) Sources() []string {
	if c.SQLitePath != "" {
		return []string{c.SQLitePath + "#" + c.Table}
	}
	return c.Inputs
}

// PlotFileFor returns the plot path for one source. With a single source
// that is PlotFile itself; otherwise the source's base name is inserted
// before the extension, so "box.png" becomes "box-iris.png" for "iris.csv".
func (c *Config) PlotFileFor(source string) string {
	if c.PlotFile == "" || len(c.Sources()) <= 1 {
		return c.PlotFile
	}

	base := filepath.Base(strings.ReplaceAll(source, "#", "-"))
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	ext := filepath.Ext(c.PlotFile)
	return strings.TrimSuffix(c.PlotFile, ext) + "-" + stem + ext
}
