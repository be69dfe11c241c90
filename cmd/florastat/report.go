package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/nao1215/florastat/internal/config"
	"github.com/nao1215/florastat/internal/dataset"
	"github.com/nao1215/florastat/internal/model"
	"github.com/nao1215/florastat/internal/pipeline"
	"github.com/nao1215/florastat/internal/plot"
	"github.com/nao1215/florastat/internal/report"
	"github.com/spf13/cobra"
)

// errInvalidAgg is returned for a malformed --agg value.
var errInvalidAgg = errors.New("invalid aggregation flag (expected column=fn[,fn])")

// errInvalidPlotSize is returned for a malformed --plot-size value.
var errInvalidPlotSize = errors.New("invalid plot size (expected WIDTHxHEIGHT in inches)")

// NewReportCmd creates the report command.
func NewReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report [csv...]",
		Short: "Analyse Iris CSV files and print a report",
		Long: `Report loads each input, strips the label prefix from the species column and
prints:
- A preview, the shape and the column types of the raw and cleaned table
- The number of samples per species
- Descriptive statistics with an extra range row
- Mean and median of every measurement per species
- Per-column overrides (petal_length: max by default)

With --plot the measurements are reshaped to long form and drawn as a
box plot grouped by species. The image format follows the file extension
(png, svg, pdf, eps, jpg, tif).

Examples:
  # Analyse the bundled dataset
  florastat report data/Iris_Data.csv

  # Write a box plot and a Markdown report
  florastat report --plot box.png --markdown -o report.md data/Iris_Data.csv

  # Report the minimum and maximum sepal width per species
  florastat report --agg sepal_width=min,max data/Iris_Data.csv

  # Analyse a table imported with 'florastat import'
  florastat report --sqlite iris.db --table iris

Configuration file (.florastat) example:
  labelPrefix: "Iris-"
  aggregations:
    petal_length: [max]
  plot:
    file: box.png
    palette: dark`,
		Args: cobra.ArbitraryArgs,
		RunE: runReportCmd,
	}

	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .florastat in current or home directory)")

	// Analysis flags
	cmd.Flags().String(config.FlagPrefix, dataset.DefaultLabelPrefix,
		"Prefix stripped from every species label (empty disables cleaning)")
	cmd.Flags().String(config.FlagLabel, dataset.ColumnSpecies,
		"Name of the category column")
	cmd.Flags().StringArray(config.FlagAgg, nil,
		"Per-column aggregation override column=fn[,fn] (repeatable; fn: mean, median, max, min, std, sum, count)")
	cmd.Flags().Int(config.FlagHead, config.DefaultHead,
		"Number of rows shown in previews")
	cmd.Flags().IntP(config.FlagBatch, "b", config.DefaultBatchSize,
		"Number of inputs analysed concurrently")

	// Plot flags
	cmd.Flags().StringP(config.FlagPlot, "p", "",
		"Write a box plot grouped by species to this file")
	cmd.Flags().String(config.FlagPlotSize, "6x4",
		"Plot size in inches as WIDTHxHEIGHT")
	cmd.Flags().String(config.FlagPalette, plot.DefaultPalette,
		"Species colour palette ("+strings.Join(plot.PaletteNames(), ", ")+")")
	cmd.Flags().String(config.FlagPlotTitle, "",
		"Plot title")

	// SQLite input flags
	cmd.Flags().String("sqlite", "",
		"Analyse a table from this SQLite database instead of CSV files")
	cmd.Flags().String("table", config.DefaultTable,
		"SQLite table to analyse")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report")
	cmd.Flags().Bool("html", false,
		"Output HTML report")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed); .json, .md and .html pick the format")

	return cmd
}

// runReportCmd executes the report command.
func runReportCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return runReport(ctx, cfg, cmd.OutOrStdout(), logger)
}

// buildConfig creates a Config from cobra command flags and the
// configuration file. Flags given on the command line win over the file.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error

	if cfg.LabelPrefix, err = flags.GetString(config.FlagPrefix); err != nil {
		return nil, err
	}
	if cfg.Schema.Label, err = flags.GetString(config.FlagLabel); err != nil {
		return nil, err
	}
	if cfg.Head, err = flags.GetInt(config.FlagHead); err != nil {
		return nil, err
	}
	if cfg.BatchSize, err = flags.GetInt(config.FlagBatch); err != nil {
		return nil, err
	}

	aggs, err := flags.GetStringArray(config.FlagAgg)
	if err != nil {
		return nil, err
	}
	if len(aggs) > 0 {
		if cfg.Aggregations, err = parseAggFlags(aggs); err != nil {
			return nil, err
		}
	}

	if cfg.PlotFile, err = flags.GetString(config.FlagPlot); err != nil {
		return nil, err
	}
	size, err := flags.GetString(config.FlagPlotSize)
	if err != nil {
		return nil, err
	}
	if cfg.PlotWidth, cfg.PlotHeight, err = parsePlotSize(size); err != nil {
		return nil, err
	}
	if cfg.PlotPalette, err = flags.GetString(config.FlagPalette); err != nil {
		return nil, err
	}
	if cfg.PlotTitle, err = flags.GetString(config.FlagPlotTitle); err != nil {
		return nil, err
	}

	if cfg.SQLitePath, err = flags.GetString("sqlite"); err != nil {
		return nil, err
	}
	if cfg.Table, err = flags.GetString("table"); err != nil {
		return nil, err
	}

	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.HTMLReport, err = flags.GetBool("html"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = flags.GetString("output"); err != nil {
		return nil, err
	}

	if err := applyConfigFile(cmd, cfg); err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)
	cfg.Inputs = args

	return cfg, nil
}

// applyConfigFile reads the file named by --config, or the first one found
// in the search paths, into cfg. Flags given on the command line win.
func applyConfigFile(cmd *cobra.Command, cfg *config.Config) error {
	var err error
	if cfg.ConfigFilePath, err = cmd.Flags().GetString("config"); err != nil {
		return err
	}

	// If the user named a config file it must exist; otherwise a missing
	// file just means built-in defaults.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		file.ApplyTo(cfg, cmd.Flags().Changed)
	case cfg.ConfigFilePath != "":
		return fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}
	return nil
}

// parseAggFlags turns repeated "column=fn[,fn]" values into the
// configuration's override map. A column given twice keeps its last value.
func parseAggFlags(values []string) (map[string][]string, error) {
	out := make(map[string][]string, len(values))
	for _, v := range values {
		column, fns, ok := strings.Cut(v, "=")
		column = strings.TrimSpace(column)
		if !ok || column == "" || strings.TrimSpace(fns) == "" {
			return nil, fmt.Errorf("%w: %q", errInvalidAgg, v)
		}

		var names []string
		for _, fn := range strings.Split(fns, ",") {
			if fn = strings.TrimSpace(fn); fn != "" {
				names = append(names, fn)
			}
		}
		if len(names) == 0 {
			return nil, fmt.Errorf("%w: %q", errInvalidAgg, v)
		}
		out[column] = names
	}
	return out, nil
}

// parsePlotSize parses "WIDTHxHEIGHT" in inches.
func parsePlotSize(s string) (float64, float64, error) {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", errInvalidPlotSize, s)
	}
	width, err := strconv.ParseFloat(strings.TrimSpace(w), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", errInvalidPlotSize, s)
	}
	height, err := strconv.ParseFloat(strings.TrimSpace(h), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", errInvalidPlotSize, s)
	}
	if width <= 0 || height <= 0 {
		return 0, 0, fmt.Errorf("%w: %q", errInvalidPlotSize, s)
	}
	return width, height, nil
}

// runReport analyses every source and writes the reports in input order.
// Failed inputs are logged and reported together in the returned error.
func runReport(ctx context.Context, cfg *config.Config, stdout io.Writer, logger *slog.Logger) error {
	sources := cfg.Sources()

	logger.Info("starting analysis",
		"sources", sources,
		"batchSize", cfg.BatchSize,
		"plot", cfg.PlotFile,
	)

	plotOpts, err := plotOptions(cfg)
	if err != nil {
		return err
	}
	overrides, err := cfg.Overrides()
	if err != nil {
		return err
	}

	bp := pipeline.NewBatchProcessor(
		func(source string) *pipeline.Pipeline {
			return createPipeline(cfg, logger, overrides, plotOpts, source)
		},
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
		pipeline.WithBatchSchema(cfg.Schema),
	)

	startTime := time.Now()
	analyses, err := bp.ProcessBatch(ctx, sources)
	if err != nil {
		return fmt.Errorf("analysis cancelled: %w", err)
	}
	logger.Debug("analysis finished", "elapsed", time.Since(startTime).Round(time.Millisecond))

	var failures []error
	var succeeded []*model.Analysis
	for _, a := range analyses {
		if a.Failed() {
			logger.Error("analysis failed", "run", a.ID, "source", a.Source, "error", a.ErrorMessage)
			failures = append(failures, fmt.Errorf("%s: %w", a.Source, a.Error))
			continue
		}
		succeeded = append(succeeded, a)
	}

	if len(succeeded) > 0 {
		if err := outputReports(cfg, stdout, succeeded); err != nil {
			return err
		}
	}

	return errors.Join(failures...)
}

// plotOptions builds the renderer options from the configuration.
func plotOptions(cfg *config.Config) ([]plot.Option, error) {
	colors, err := plot.Palette(cfg.PlotPalette)
	if err != nil {
		return nil, err
	}
	return []plot.Option{
		plot.WithSize(cfg.PlotWidth, cfg.PlotHeight),
		plot.WithTitle(cfg.PlotTitle),
		plot.WithPalette(colors),
	}, nil
}

// createPipeline creates the analysis pipeline for one source.
func createPipeline(cfg *config.Config, logger *slog.Logger, overrides dataset.AggregationSpec, plotOpts []plot.Option, source string) *pipeline.Pipeline {
	pipelineOpts := []pipeline.Option{
		pipeline.WithLogger(logger),
	}

	configOpts := []pipeline.DefaultPipelineOption{
		pipeline.WithPipelineLabelPrefix(cfg.LabelPrefix),
		pipeline.WithPipelineHead(cfg.Head),
		pipeline.WithPipelineOverrides(overrides),
	}

	if cfg.SQLitePath != "" {
		configOpts = append(configOpts, pipeline.WithPipelineSQLite(cfg.SQLitePath, cfg.Table))
	}

	if path := cfg.PlotFileFor(source); path != "" {
		configOpts = append(configOpts, pipeline.WithPipelinePlot(path, plotOpts...))
	}

	return pipeline.DefaultPipeline(cfg.Schema, pipelineOpts, configOpts...)
}

// outputReports writes every analysis in the requested format to the
// report file, or to stdout when none is set.
func outputReports(cfg *config.Config, stdout io.Writer, analyses []*model.Analysis) error {
	output := stdout
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // Output path is provided by the user
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	}

	writer, err := report.New(reportFormat(cfg), output, getVersion(), cfg.Verbose)
	if err != nil {
		return err
	}
	_, err = report.WriteAll(writer, analyses)
	return err
}

// reportFormat maps the format flags to a report format. Without a flag
// the extension of the report file decides, falling back to text.
func reportFormat(cfg *config.Config) report.Format {
	switch {
	case cfg.JSONReport:
		return report.FormatJSON
	case cfg.MarkdownReport:
		return report.FormatMarkdown
	case cfg.HTMLReport:
		return report.FormatHTML
	}
	if ext := filepath.Ext(cfg.ReportFile); ext != "" {
		if format, err := report.ParseFormat(ext[1:]); err == nil {
			return format
		}
	}
	return report.FormatText
}
