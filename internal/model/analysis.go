package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/nao1215/florastat/internal/dataset"
)

// Analysis is the result of running the reporter over one input.
// Steps fill it in as the pipeline progresses; fields belonging to steps
// that did not run stay at their zero value.
type Analysis struct {
	// ID identifies this run in logs and reports.
	ID uuid.UUID `json:"id"`

	// Source names the input: a CSV path or "db.sqlite#table".
	Source string `json:"source"`

	// Checksum is the SHA3-256 digest of the input file, when it is a file.
	Checksum string `json:"checksum,omitempty"`

	// DateAnalyzed is when the analysis started.
	DateAnalyzed time.Time `json:"date_analyzed"`

	// Schema is the expected shape of the input.
	Schema dataset.Schema `json:"schema"`

	// LabelPrefix is the prefix stripped from category labels.
	LabelPrefix string `json:"label_prefix,omitempty"`

	// RawProfile is the profile of the table as loaded.
	RawProfile *dataset.Profile `json:"raw_profile,omitempty"`

	// CleanedLabels is the number of labels rewritten by the cleanup pass.
	CleanedLabels int `json:"cleaned_labels"`

	// Profile is the profile of the table after label cleanup.
	Profile *dataset.Profile `json:"profile,omitempty"`

	// Summary holds the descriptive statistics and range per measurement.
	Summary *dataset.Summary `json:"summary,omitempty"`

	// Aggregates holds the grouped aggregates, in the order they were computed.
	Aggregates []NamedAggregate `json:"aggregates,omitempty"`

	// LongRows is the row count of the long-form table used for plotting.
	LongRows int `json:"long_rows,omitempty"`

	// PlotFile is where the box plot was written, if it was rendered.
	PlotFile string `json:"plot_file,omitempty"`

	// Steps records every pipeline step that was started, in order.
	Steps []StepRecord `json:"steps,omitempty"`

	// Elapsed is the wall time of the pipeline run.
	Elapsed time.Duration `json:"elapsed"`

	// Cancelled is true if the run was interrupted before all steps ran.
	Cancelled bool `json:"cancelled,omitempty"`

	// Error is the error that stopped the pipeline, if any.
	Error error `json:"-"`

	// ErrorMessage is Error rendered for serialization.
	ErrorMessage string `json:"error,omitempty"` //nolint:tagliatelle // error is conventional

	// Table is the working table. Not serialized.
	Table *dataset.Table `json:"-"`

	// Long is the long-form table. Not serialized.
	Long *dataset.LongTable `json:"-"`
}

// NamedAggregate is one grouped aggregation with a display name such as
// "mean" or "mean, median".
type NamedAggregate struct {
	Name  string             `json:"name"`
	Table dataset.GroupTable `json:"table"`
}

// StepRecord is the outcome of one pipeline step.
type StepRecord struct {
	Name    string        `json:"name"`
	Elapsed time.Duration `json:"elapsed"`
	Failed  bool          `json:"failed,omitempty"`
}

// NewAnalysis creates an empty analysis of source.
func NewAnalysis(source string, schema dataset.Schema) *Analysis {
	return &Analysis{
		ID:           uuid.New(),
		Source:       source,
		DateAnalyzed: time.Now(),
		Schema:       schema,
	}
}

// SetError records err as the reason the run stopped.
func (a *Analysis) SetError(err error) {
	a.Error = err
	if err != nil {
		a.ErrorMessage = err.Error()
	}
}

// Failed reports whether the run stopped on an error.
func (a *Analysis) Failed() bool {
	return a.ErrorMessage != ""
}

// Aggregate returns the aggregate with the given name.
func (a *Analysis) Aggregate(name string) (dataset.GroupTable, bool) {
	for _, agg := range a.Aggregates {
		if agg.Name == name {
			return agg.Table, true
		}
	}
	return dataset.GroupTable{}, false
}

// PerformedSteps returns the names of the steps that completed without error.
func (a *Analysis) PerformedSteps() []string {
	names := make([]string, 0, len(a.Steps))
	for _, s := range a.Steps {
		if !s.Failed {
			names = append(names, s.Name)
		}
	}
	return names
}
