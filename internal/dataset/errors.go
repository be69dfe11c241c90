package dataset

import "errors"

// Errors returned while loading and analysing a Table.
// Callers match them with errors.Is; the wrapping error carries the
// offending line or column.
var (
	// ErrSchemaMismatch is returned when the header does not contain exactly
	// the columns the schema expects.
	ErrSchemaMismatch = errors.New("schema mismatch")

	// ErrMalformedRow is returned when a row has the wrong number of fields,
	// a non-numeric measurement or an empty label.
	ErrMalformedRow = errors.New("malformed row")

	// ErrNoRows is returned when the input has a header but no data rows.
	ErrNoRows = errors.New("dataset has no rows")

	// ErrUnknownColumn is returned when an operation names a column that is
	// not a measurement column of the table.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrUnknownAggregation is returned for an aggregation name that is not
	// supported.
	ErrUnknownAggregation = errors.New("unknown aggregation")

	// ErrNoAggregation is returned when a column is listed with an empty
	// set of aggregation functions.
	ErrNoAggregation = errors.New("no aggregation functions for column")
)
