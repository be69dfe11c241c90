package dataset

import "slices"

// Default column names of the flower measurement dataset.
const (
	ColumnSepalLength = "sepal_length"
	ColumnSepalWidth  = "sepal_width"
	ColumnPetalLength = "petal_length"
	ColumnPetalWidth  = "petal_width"
	ColumnSpecies     = "species"

	// DefaultLabelPrefix is stripped from species labels by Clean.
	DefaultLabelPrefix = "Iris-"
)

// Schema describes the fixed shape of a Table: the numeric measurement
// columns, in order, and the categorical label column.
type Schema struct {
	// Measurements are the numeric columns, in file order.
	Measurements []string `yaml:"measurements,omitempty" json:"measurements"`

	// Label is the categorical column used for grouping.
	Label string `yaml:"label,omitempty" json:"label"`
}

// DefaultSchema returns the schema of the flower measurement dataset.
func DefaultSchema() Schema {
	return Schema{
		Measurements: []string{
			ColumnSepalLength,
			ColumnSepalWidth,
			ColumnPetalLength,
			ColumnPetalWidth,
		},
		Label: ColumnSpecies,
	}
}

// Columns returns every column name: measurements first, then the label.
func (s Schema) Columns() []string {
	cols := make([]string, 0, len(s.Measurements)+1)
	cols = append(cols, s.Measurements...)
	return append(cols, s.Label)
}

// IsMeasurement reports whether name is one of the numeric columns.
func (s Schema) IsMeasurement(name string) bool {
	return slices.Contains(s.Measurements, name)
}
