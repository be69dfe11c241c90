package database

import "errors"

var (
	// ErrNotFound is returned by Open when the database file does not exist
	// and CreateIfNotExists is false.
	ErrNotFound = errors.New("database not found")

	// ErrTableNotFound is returned when a named table does not exist.
	ErrTableNotFound = errors.New("table not found")

	// ErrInvalidIdentifier is returned for table or column names that are not
	// plain SQL identifiers.
	ErrInvalidIdentifier = errors.New("invalid identifier")
)
