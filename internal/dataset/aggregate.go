package dataset

import (
	"fmt"
	"slices"
	"strings"

	"github.com/go-gota/gota/series"
)

// Aggregation names a function that reduces one column of a group to a
// single value.
type Aggregation string

// Supported aggregations.
const (
	AggMean   Aggregation = "mean"
	AggMedian Aggregation = "median"
	AggMax    Aggregation = "max"
	AggMin    Aggregation = "min"
	AggStd    Aggregation = "std"
	AggSum    Aggregation = "sum"
	AggCount  Aggregation = "count"
)

var aggregations = []Aggregation{AggMean, AggMedian, AggMax, AggMin, AggStd, AggSum, AggCount}

// ParseAggregation resolves a case-insensitive aggregation name.
func ParseAggregation(name string) (Aggregation, error) {
	a := Aggregation(strings.ToLower(strings.TrimSpace(name)))
	if !slices.Contains(aggregations, a) {
		return "", fmt.Errorf("%w: %q", ErrUnknownAggregation, name)
	}
	return a, nil
}

func (a Aggregation) apply(s series.Series) float64 {
	switch a {
	case AggMean:
		return s.Mean()
	case AggMedian:
		return s.Median()
	case AggMax:
		return s.Max()
	case AggMin:
		return s.Min()
	case AggStd:
		return s.StdDev()
	case AggSum:
		return s.Sum()
	case AggCount:
		return float64(s.Len())
	default:
		panic("dataset: unchecked aggregation " + string(a))
	}
}

// AggregationSpec maps a measurement column to the aggregations applied to
// it. Columns it does not name are left out of the result.
type AggregationSpec map[string][]Aggregation

// UniformAggregations applies the same aggregations to every measurement.
func UniformAggregations(schema Schema, aggs ...Aggregation) AggregationSpec {
	spec := make(AggregationSpec, len(schema.Measurements))
	for _, col := range schema.Measurements {
		spec[col] = slices.Clone(aggs)
	}
	return spec
}

// DefaultAggregations computes mean and median for every measurement.
func DefaultAggregations(schema Schema) AggregationSpec {
	return UniformAggregations(schema, AggMean, AggMedian)
}

// With returns a copy of spec in which column is aggregated by aggs only.
func (spec AggregationSpec) With(column string, aggs ...Aggregation) AggregationSpec {
	out := make(AggregationSpec, len(spec)+1)
	for k, v := range spec {
		out[k] = slices.Clone(v)
	}
	out[column] = slices.Clone(aggs)
	return out
}

// ParseAggregationSpec builds a spec from column to function-name lists,
// as found in configuration files and flags.
func ParseAggregationSpec(raw map[string][]string) (AggregationSpec, error) {
	spec := make(AggregationSpec, len(raw))
	for col, names := range raw {
		aggs := make([]Aggregation, 0, len(names))
		for _, name := range names {
			a, err := ParseAggregation(name)
			if err != nil {
				return nil, fmt.Errorf("column %s: %w", col, err)
			}
			aggs = append(aggs, a)
		}
		spec[col] = aggs
	}
	return spec, nil
}

// AggregateColumn identifies one output column of a GroupTable.
type AggregateColumn struct {
	Column string      `json:"column"`
	Func   Aggregation `json:"func"`
}

// Name returns the display name, e.g. "petal_length_max".
func (c AggregateColumn) Name() string {
	return c.Column + "_" + string(c.Func)
}

// GroupSummary holds the aggregates of one category. Values line up with
// GroupTable.Columns.
type GroupSummary struct {
	Category string   `json:"category"`
	Size     int      `json:"size"`
	Values   []Number `json:"values"`
}

// GroupTable is the result of GroupAggregate: one row per category.
type GroupTable struct {
	Label   string            `json:"label"`
	Columns []AggregateColumn `json:"columns"`
	Groups  []GroupSummary    `json:"groups"`
}

// Value looks up the aggregate fn of column for category.
func (g GroupTable) Value(category, column string, fn Aggregation) (float64, bool) {
	c := slices.Index(g.Columns, AggregateColumn{Column: column, Func: fn})
	if c < 0 {
		return 0, false
	}
	for _, grp := range g.Groups {
		if grp.Category == category {
			return float64(grp.Values[c]), true
		}
	}
	return 0, false
}

// ColumnsFor returns the aggregations computed for column, in order.
func (g GroupTable) ColumnsFor(column string) []Aggregation {
	var out []Aggregation
	for _, c := range g.Columns {
		if c.Column == column {
			out = append(out, c.Func)
		}
	}
	return out
}

// GroupAggregate partitions t by its label column and applies spec to every
// partition. Groups are sorted by category; output columns follow the
// schema's measurement order and, within a column, the order given in spec.
func GroupAggregate(t *Table, spec AggregationSpec) (GroupTable, error) {
	for col, aggs := range spec {
		if !t.schema.IsMeasurement(col) {
			return GroupTable{}, fmt.Errorf("%w: %s", ErrUnknownColumn, col)
		}
		if len(aggs) == 0 {
			return GroupTable{}, fmt.Errorf("%w: %s", ErrNoAggregation, col)
		}
		for _, a := range aggs {
			if !slices.Contains(aggregations, a) {
				return GroupTable{}, fmt.Errorf("column %s: %w: %q", col, ErrUnknownAggregation, a)
			}
		}
	}

	var columns []AggregateColumn
	for _, col := range t.schema.Measurements {
		for _, a := range spec[col] {
			columns = append(columns, AggregateColumn{Column: col, Func: a})
		}
	}

	label := t.schema.Label
	labels := t.Labels()
	categories := Categories(labels)

	// Rows are selected by index rather than by comparing labels, so a
	// label the frame treats as missing (such as "NaN") still forms a group.
	rows := make(map[string][]int, len(categories))
	for i, l := range labels {
		rows[l] = append(rows[l], i)
	}

	groups := make([]GroupSummary, 0, len(categories))
	for _, category := range categories {
		part := t.df.Subset(rows[category])
		if part.Err != nil {
			return GroupTable{}, fmt.Errorf("failed to select group %s: %w", category, part.Err)
		}

		values := make([]Number, len(columns))
		for i, c := range columns {
			values[i] = Number(c.Func.apply(part.Col(c.Column)))
		}
		groups = append(groups, GroupSummary{
			Category: category,
			Size:     part.Nrow(),
			Values:   values,
		})
	}

	return GroupTable{
		Label:   label,
		Columns: columns,
		Groups:  groups,
	}, nil
}
