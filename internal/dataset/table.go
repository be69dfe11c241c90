package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Table is an ordered sequence of measurement records with a fixed schema.
// Only the label column is ever rewritten after loading (see Clean).
type Table struct {
	schema Schema
	df     dataframe.DataFrame
}

// Load reads the CSV file at path into a Table.
// A missing or unreadable file returns the underlying I/O error; a header
// or row that does not fit the schema returns ErrSchemaMismatch or
// ErrMalformedRow.
func Load(path string, schema Schema) (*Table, error) {
	f, err := os.Open(path) //nolint:gosec // Dataset path is provided by the user
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	t, err := Read(f, schema)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Read parses CSV data with a header row into a Table.
func Read(r io.Reader, schema Schema) (*Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	var records [][]string
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedRow, parseErr.Line, parseErr.Err)
			}
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%w: missing header", ErrSchemaMismatch)
	}
	return LoadRecords(records, schema)
}

// LoadRecords builds a Table from raw records. The first record is the
// header; header columns may appear in any order but must match the schema
// exactly.
func LoadRecords(records [][]string, schema Schema) (*Table, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: missing header", ErrSchemaMismatch)
	}

	index, err := headerIndex(records[0], schema)
	if err != nil {
		return nil, err
	}

	rows := records[1:]
	if len(rows) == 0 {
		return nil, ErrNoRows
	}

	measures := make([][]float64, len(schema.Measurements))
	for i := range measures {
		measures[i] = make([]float64, len(rows))
	}
	labels := make([]string, len(rows))

	for r, row := range rows {
		// Header is line 1.
		line := r + 2
		if len(row) != len(index) {
			return nil, fmt.Errorf("%w: line %d: expected %d fields, got %d",
				ErrMalformedRow, line, len(index), len(row))
		}

		for i, name := range schema.Measurements {
			cell := strings.TrimSpace(row[index[name]])
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: line %d: column %s: %q is not a finite number",
					ErrMalformedRow, line, name, cell)
			}
			measures[i][r] = v
		}

		label := strings.TrimSpace(row[index[schema.Label]])
		if label == "" {
			return nil, fmt.Errorf("%w: line %d: empty %s", ErrMalformedRow, line, schema.Label)
		}
		labels[r] = label
	}

	cols := make([]series.Series, 0, len(schema.Measurements)+1)
	for i, name := range schema.Measurements {
		cols = append(cols, series.New(measures[i], series.Float, name))
	}
	cols = append(cols, series.New(labels, series.String, schema.Label))

	df := dataframe.New(cols...)
	if df.Err != nil {
		return nil, fmt.Errorf("failed to build table: %w", df.Err)
	}

	return &Table{schema: schema, df: df}, nil
}

// headerIndex maps each schema column to its position in header.
func headerIndex(header []string, schema Schema) (map[string]int, error) {
	want := schema.Columns()
	index := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("%w: duplicate column %q", ErrSchemaMismatch, name)
		}
		index[name] = i
	}

	for _, name := range want {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrSchemaMismatch, name)
		}
	}
	if len(index) != len(want) {
		return nil, fmt.Errorf("%w: expected columns %v, got %v", ErrSchemaMismatch, want, header)
	}
	return index, nil
}

// Schema returns the table schema.
func (t *Table) Schema() Schema {
	return t.schema
}

// Frame returns the underlying DataFrame.
func (t *Table) Frame() dataframe.DataFrame {
	return t.df
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return t.df.Nrow()
}

// Columns returns the column names in table order.
func (t *Table) Columns() []string {
	return t.df.Names()
}

// Labels returns the label column values.
func (t *Table) Labels() []string {
	return t.df.Col(t.schema.Label).Records()
}

// Values returns a copy of the values of a measurement column.
func (t *Table) Values(column string) ([]float64, error) {
	if !t.schema.IsMeasurement(column) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, column)
	}
	return t.df.Col(column).Float(), nil
}

// Head returns the header followed by the first n rows, formatted as strings.
func (t *Table) Head(n int) [][]string {
	return t.rows(n)
}

// Records returns the header followed by every row, formatted as strings.
func (t *Table) Records() [][]string {
	return t.rows(t.Len())
}

func (t *Table) rows(n int) [][]string {
	if n > t.Len() {
		n = t.Len()
	}
	if n < 0 {
		n = 0
	}

	cols := t.Columns()
	out := make([][]string, 0, n+1)
	out = append(out, cols)

	values := make([][]string, len(cols))
	for i, name := range cols {
		if t.schema.IsMeasurement(name) {
			fs := t.df.Col(name).Float()
			values[i] = make([]string, len(fs))
			for j, f := range fs {
				values[i][j] = strconv.FormatFloat(f, 'f', -1, 64)
			}
			continue
		}
		values[i] = t.df.Col(name).Records()
	}

	for r := 0; r < n; r++ {
		row := make([]string, len(cols))
		for c := range cols {
			row[c] = values[c][r]
		}
		out = append(out, row)
	}
	return out
}
