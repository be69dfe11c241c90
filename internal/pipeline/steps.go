package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/nao1215/florastat/internal/database"
	"github.com/nao1215/florastat/internal/dataset"
	"github.com/nao1215/florastat/internal/model"
	"github.com/nao1215/florastat/internal/plot"
)

// DefaultHead is the number of rows kept in profile previews.
const DefaultHead = 5

// LoadStep reads the CSV file named by the analysis source.
type LoadStep struct {
	head   int
	logger *slog.Logger
}

// LoadStepOption configures a LoadStep.
type LoadStepOption func(*LoadStep)

// WithLoadHead sets how many rows the raw profile previews.
func WithLoadHead(n int) LoadStepOption {
	return func(s *LoadStep) {
		s.head = n
	}
}

// WithLoadLogger sets a custom logger for the load step.
func WithLoadLogger(logger *slog.Logger) LoadStepOption {
	return func(s *LoadStep) {
		s.logger = logger
	}
}

// NewLoadStep creates a step that loads analysis.Source as CSV.
func NewLoadStep(opts ...LoadStepOption) *LoadStep {
	s := &LoadStep{
		head:   DefaultHead,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *LoadStep) Name() string {
	return "load"
}

// Do loads the file, fingerprints it and profiles the raw table.
func (s *LoadStep) Do(_ context.Context, analysis *model.Analysis) error {
	data, err := os.ReadFile(analysis.Source)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	table, err := dataset.Read(bytes.NewReader(data), analysis.Schema)
	if err != nil {
		return fmt.Errorf("%s: %w", analysis.Source, err)
	}

	analysis.Checksum = dataset.Checksum(data)
	analysis.Table = table
	profile := dataset.Inspect(table, s.head)
	analysis.RawProfile = &profile

	s.logger.Debug("loaded table",
		"source", analysis.Source,
		"rows", table.Len(),
		"sha3", analysis.Checksum,
	)
	return nil
}

// SQLiteLoadStep reads a table from a SQLite database written by the import
// command.
type SQLiteLoadStep struct {
	dbPath string
	table  string
	head   int
	logger *slog.Logger
}

// SQLiteLoadStepOption configures a SQLiteLoadStep.
type SQLiteLoadStepOption func(*SQLiteLoadStep)

// WithSQLiteHead sets how many rows the raw profile previews.
func WithSQLiteHead(n int) SQLiteLoadStepOption {
	return func(s *SQLiteLoadStep) {
		s.head = n
	}
}

// WithSQLiteLogger sets a custom logger for the SQLite load step.
func WithSQLiteLogger(logger *slog.Logger) SQLiteLoadStepOption {
	return func(s *SQLiteLoadStep) {
		s.logger = logger
	}
}

// NewSQLiteLoadStep creates a step that loads table from the database at
// dbPath.
func NewSQLiteLoadStep(dbPath, table string, opts ...SQLiteLoadStepOption) *SQLiteLoadStep {
	s := &SQLiteLoadStep{
		dbPath: dbPath,
		table:  table,
		head:   DefaultHead,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *SQLiteLoadStep) Name() string {
	return "sqlite-load"
}

// Do opens the database read-only and loads the table.
func (s *SQLiteLoadStep) Do(ctx context.Context, analysis *model.Analysis) error {
	store, err := database.Open(s.dbPath, database.ReadOnlyOptions())
	if err != nil {
		return err
	}
	defer store.Close()

	table, err := store.ReadTable(ctx, s.table, analysis.Schema)
	if err != nil {
		return fmt.Errorf("%s: %w", s.dbPath, err)
	}

	// The checksum of the original CSV is kept with the import.
	imports, err := store.ListImports(ctx)
	if err != nil {
		return err
	}
	for _, imp := range imports {
		if imp.Name == s.table {
			analysis.Checksum = imp.Checksum
		}
	}

	analysis.Table = table
	profile := dataset.Inspect(table, s.head)
	analysis.RawProfile = &profile

	s.logger.Debug("loaded table from sqlite",
		"database", s.dbPath,
		"table", s.table,
		"rows", table.Len(),
	)
	return nil
}

// CleanStep strips a fixed prefix from every category label.
type CleanStep struct {
	prefix string
}

// NewCleanStep creates a cleanup step for prefix.
func NewCleanStep(prefix string) *CleanStep {
	return &CleanStep{prefix: prefix}
}

// Name returns the step name.
func (s *CleanStep) Name() string {
	return "clean"
}

// Do rewrites the label column in place.
func (s *CleanStep) Do(_ context.Context, analysis *model.Analysis) error {
	if analysis.Table == nil {
		return ErrNoTable
	}
	analysis.LabelPrefix = s.prefix
	analysis.CleanedLabels = dataset.Clean(analysis.Table, s.prefix)
	return nil
}

// InspectStep profiles the table: shape, types, preview and category counts.
type InspectStep struct {
	head int
}

// NewInspectStep creates a profile step previewing head rows.
func NewInspectStep(head int) *InspectStep {
	return &InspectStep{head: head}
}

// Name returns the step name.
func (s *InspectStep) Name() string {
	return "inspect"
}

// Do stores the profile of the current table.
func (s *InspectStep) Do(_ context.Context, analysis *model.Analysis) error {
	if analysis.Table == nil {
		return ErrNoTable
	}
	profile := dataset.Inspect(analysis.Table, s.head)
	analysis.Profile = &profile
	return nil
}

// DescribeStep computes descriptive statistics with the extra range row.
type DescribeStep struct{}

// NewDescribeStep creates a describe step.
func NewDescribeStep() *DescribeStep {
	return &DescribeStep{}
}

// Name returns the step name.
func (s *DescribeStep) Name() string {
	return "describe"
}

// Do stores the summary of the current table.
func (s *DescribeStep) Do(_ context.Context, analysis *model.Analysis) error {
	if analysis.Table == nil {
		return ErrNoTable
	}
	summary := dataset.Describe(analysis.Table)
	analysis.Summary = &summary
	return nil
}

// NamedSpec is an aggregation spec with the name it is reported under.
type NamedSpec struct {
	Name string
	Spec dataset.AggregationSpec
}

// Names of the standard aggregations.
const (
	AggregateMean       = "mean"
	AggregateMedian     = "median"
	AggregateMeanMedian = "mean, median"
	AggregatePerColumn  = "per-column"
)

// DefaultSpecs returns the standard grouped aggregations: mean, median and
// both together. If overrides is not empty a fourth, per-column spec is
// added in which each overridden column uses only its own functions.
func DefaultSpecs(schema dataset.Schema, overrides dataset.AggregationSpec) []NamedSpec {
	specs := []NamedSpec{
		{Name: AggregateMean, Spec: dataset.UniformAggregations(schema, dataset.AggMean)},
		{Name: AggregateMedian, Spec: dataset.UniformAggregations(schema, dataset.AggMedian)},
		{Name: AggregateMeanMedian, Spec: dataset.DefaultAggregations(schema)},
	}
	if len(overrides) == 0 {
		return specs
	}

	custom := dataset.DefaultAggregations(schema)
	for col, aggs := range overrides {
		custom = custom.With(col, aggs...)
	}
	return append(specs, NamedSpec{Name: AggregatePerColumn, Spec: custom})
}

// AggregateStep computes grouped aggregates per category.
type AggregateStep struct {
	specs []NamedSpec
}

// NewAggregateStep creates a step computing each spec in order.
func NewAggregateStep(specs ...NamedSpec) *AggregateStep {
	return &AggregateStep{specs: specs}
}

// Name returns the step name.
func (s *AggregateStep) Name() string {
	return "aggregate"
}

// Do appends one NamedAggregate per spec.
func (s *AggregateStep) Do(_ context.Context, analysis *model.Analysis) error {
	if analysis.Table == nil {
		return ErrNoTable
	}
	for _, spec := range s.specs {
		table, err := dataset.GroupAggregate(analysis.Table, spec.Spec)
		if err != nil {
			return fmt.Errorf("aggregation %q: %w", spec.Name, err)
		}
		analysis.Aggregates = append(analysis.Aggregates, model.NamedAggregate{
			Name:  spec.Name,
			Table: table,
		})
	}
	return nil
}

// ReshapeStep converts the table to long form for plotting.
type ReshapeStep struct{}

// NewReshapeStep creates a reshape step.
func NewReshapeStep() *ReshapeStep {
	return &ReshapeStep{}
}

// Name returns the step name.
func (s *ReshapeStep) Name() string {
	return "reshape"
}

// Do stores the long-form table and its row count.
func (s *ReshapeStep) Do(_ context.Context, analysis *model.Analysis) error {
	if analysis.Table == nil {
		return ErrNoTable
	}
	analysis.Long = dataset.Reshape(analysis.Table)
	analysis.LongRows = analysis.Long.Len()
	return nil
}

// PlotStep renders the grouped box plot to a file.
type PlotStep struct {
	path     string
	renderer *plot.BoxPlotRenderer
}

// NewPlotStep creates a step writing the plot to path.
func NewPlotStep(path string, renderer *plot.BoxPlotRenderer) *PlotStep {
	if renderer == nil {
		renderer = plot.NewBoxPlotRenderer()
	}
	return &PlotStep{path: path, renderer: renderer}
}

// Name returns the step name.
func (s *PlotStep) Name() string {
	return "plot"
}

// Do reshapes the table if needed and writes the image.
func (s *PlotStep) Do(ctx context.Context, analysis *model.Analysis) error {
	if analysis.Long == nil {
		if err := NewReshapeStep().Do(ctx, analysis); err != nil {
			return err
		}
	}
	if err := s.renderer.Save(analysis.Long, s.path); err != nil {
		return fmt.Errorf("failed to save plot: %w", err)
	}
	analysis.PlotFile = s.path
	return nil
}

// DefaultPipelineConfig holds configuration for the default pipeline.
type DefaultPipelineConfig struct {
	// SQLitePath, when set, loads Table from this database instead of
	// reading the analysis source as CSV.
	SQLitePath string

	// Table is the SQLite table to load.
	Table string

	// LabelPrefix is stripped from every category label.
	LabelPrefix string

	// Head is the number of preview rows in profiles.
	Head int

	// Overrides are per-column aggregation overrides.
	Overrides dataset.AggregationSpec

	// PlotFile is where the box plot is written. Empty skips plotting.
	PlotFile string

	// PlotOptions configure the box plot renderer.
	PlotOptions []plot.Option
}

// DefaultPipelineOption configures a DefaultPipelineConfig.
type DefaultPipelineOption func(*DefaultPipelineConfig)

// WithPipelineSQLite loads the table from a SQLite database.
func WithPipelineSQLite(dbPath, table string) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.SQLitePath = dbPath
		c.Table = table
	}
}

// WithPipelineLabelPrefix sets the label prefix to strip.
func WithPipelineLabelPrefix(prefix string) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.LabelPrefix = prefix
	}
}

// WithPipelineHead sets the number of preview rows.
func WithPipelineHead(n int) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Head = n
	}
}

// WithPipelineOverrides sets per-column aggregation overrides.
func WithPipelineOverrides(overrides dataset.AggregationSpec) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Overrides = overrides
	}
}

// WithPipelinePlot writes the box plot to path using opts.
func WithPipelinePlot(path string, opts ...plot.Option) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.PlotFile = path
		c.PlotOptions = opts
	}
}

// DefaultPipeline creates a pipeline with all analysis steps: load, clean,
// inspect, describe, aggregate, reshape and, when a plot file is set, plot.
//
// The first parameter accepts pipeline options (WithLogger, etc).
// The variadic parameter accepts pipeline config options.
func DefaultPipeline(schema dataset.Schema, pipelineOpts []Option, configOpts ...DefaultPipelineOption) *Pipeline {
	p := New(pipelineOpts...)

	cfg := &DefaultPipelineConfig{
		LabelPrefix: dataset.DefaultLabelPrefix,
		Head:        DefaultHead,
	}
	for _, opt := range configOpts {
		opt(cfg)
	}

	if cfg.SQLitePath != "" {
		p.AddStep(NewSQLiteLoadStep(cfg.SQLitePath, cfg.Table,
			WithSQLiteHead(cfg.Head), WithSQLiteLogger(p.logger)))
	} else {
		p.AddStep(NewLoadStep(WithLoadHead(cfg.Head), WithLoadLogger(p.logger)))
	}

	p.AddSteps(
		NewCleanStep(cfg.LabelPrefix),
		NewInspectStep(cfg.Head),
		NewDescribeStep(),
		NewAggregateStep(DefaultSpecs(schema, cfg.Overrides)...),
		NewReshapeStep(),
	)

	if cfg.PlotFile != "" {
		p.AddStep(NewPlotStep(cfg.PlotFile, plot.NewBoxPlotRenderer(cfg.PlotOptions...)))
	}

	return p
}
