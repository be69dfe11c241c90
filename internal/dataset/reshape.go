package dataset

import (
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Column names of the long-form table.
const (
	ColumnMeasurement = "measurement"
	ColumnSize        = "size"
)

// LongTable is a table in long form: one row per (category, measurement,
// value) triple.
type LongTable struct {
	label        string
	measurements []string
	df           dataframe.DataFrame
}

// Reshape converts t from wide form (one column per measurement) to long
// form. Rows are emitted in source row order, measurements in schema order,
// so the result has t.Len() * len(measurements) rows.
func Reshape(t *Table) *LongTable {
	measurements := t.schema.Measurements
	labels := t.Labels()

	values := make([][]float64, len(measurements))
	for i, name := range measurements {
		values[i] = t.df.Col(name).Float()
	}

	n := len(labels) * len(measurements)
	categories := make([]string, 0, n)
	names := make([]string, 0, n)
	sizes := make([]float64, 0, n)
	for r, label := range labels {
		for i, name := range measurements {
			categories = append(categories, label)
			names = append(names, name)
			sizes = append(sizes, values[i][r])
		}
	}

	return &LongTable{
		label:        t.schema.Label,
		measurements: measurements,
		df: dataframe.New(
			series.New(categories, series.String, t.schema.Label),
			series.New(names, series.String, ColumnMeasurement),
			series.New(sizes, series.Float, ColumnSize),
		),
	}
}

// Len returns the number of long-form rows.
func (l *LongTable) Len() int {
	return l.df.Nrow()
}

// Frame returns the underlying DataFrame.
func (l *LongTable) Frame() dataframe.DataFrame {
	return l.df
}

// Label returns the name of the category column.
func (l *LongTable) Label() string {
	return l.label
}

// Measurements returns the measurement names in schema order.
func (l *LongTable) Measurements() []string {
	return l.measurements
}

// Categories returns the distinct categories in sorted order.
func (l *LongTable) Categories() []string {
	return Categories(l.df.Col(l.label).Records())
}

// Values returns the sizes recorded for one category and measurement, in
// row order.
func (l *LongTable) Values(category, measurement string) []float64 {
	cats := l.df.Col(l.label).Records()
	names := l.df.Col(ColumnMeasurement).Records()
	sizes := l.df.Col(ColumnSize).Float()

	var out []float64
	for i := range cats {
		if cats[i] == category && names[i] == measurement {
			out = append(out, sizes[i])
		}
	}
	return out
}
