package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and can be matched with
// errors.Is().
var (
	// ErrNoInput is returned when neither a CSV file nor a SQLite database
	// is given.
	ErrNoInput = errors.New("no input specified: provide a CSV file or use --sqlite")

	// ErrConflictingInputs is returned when CSV files and --sqlite are both
	// given.
	ErrConflictingInputs = errors.New("conflicting inputs: CSV files and --sqlite cannot be used together")

	// ErrNoTable is returned when --sqlite is given without a table name.
	ErrNoTable = errors.New("no table specified: --sqlite requires --table")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrInvalidHead is returned when the preview row count is negative.
	ErrInvalidHead = errors.New("invalid head: must be non-negative")

	// ErrInvalidPlotSize is returned when the plot width or height is not
	// positive.
	ErrInvalidPlotSize = errors.New("invalid plot size: width and height must be positive")

	// ErrConflictingReportFormats is returned when more than one of --json,
	// --markdown and --html is specified.
	ErrConflictingReportFormats = errors.New("conflicting report formats: use only one of --json, --markdown and --html")

	// ErrInvalidSchema is returned when the schema has no measurements, no
	// label or repeats a column.
	ErrInvalidSchema = errors.New("invalid schema")
)
