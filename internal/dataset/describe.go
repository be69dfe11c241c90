package dataset

import "slices"

// Statistic row names produced by Describe, in output order.
const (
	StatCount = "count"
	StatMean  = "mean"
	StatStd   = "std"
	StatMin   = "min"
	StatQ1    = "25%"
	StatQ2    = "50%"
	StatQ3    = "75%"
	StatMax   = "max"
	StatRange = "range"
)

// DescribeStats lists the statistic rows of a Summary.
var DescribeStats = []string{
	StatCount, StatMean, StatStd, StatMin, StatQ1, StatQ2, StatQ3, StatMax, StatRange,
}

// SummaryRow holds one statistic for every measurement column.
type SummaryRow struct {
	Stat   string   `json:"stat"`
	Values []Number `json:"values"`
}

// Summary is the descriptive statistics table of the measurement columns.
type Summary struct {
	Columns []string     `json:"columns"`
	Rows    []SummaryRow `json:"rows"`
}

// Value looks up one statistic of one column.
func (s Summary) Value(stat, column string) (float64, bool) {
	c := slices.Index(s.Columns, column)
	if c < 0 {
		return 0, false
	}
	for _, row := range s.Rows {
		if row.Stat == stat {
			return float64(row.Values[c]), true
		}
	}
	return 0, false
}

// Describe computes count, mean, sample standard deviation, min, quartiles
// and max of every measurement column, plus the range (max - min) as an
// extra row.
func Describe(t *Table) Summary {
	cols := t.schema.Measurements
	rows := make([]SummaryRow, len(DescribeStats))
	for i, stat := range DescribeStats {
		rows[i] = SummaryRow{Stat: stat, Values: make([]Number, len(cols))}
	}

	for c, name := range cols {
		s := t.df.Col(name)
		values := s.Float()
		lo, hi := s.Min(), s.Max()

		stats := []float64{
			float64(len(values)),
			s.Mean(),
			s.StdDev(),
			lo,
			quantile(values, 0.25),
			quantile(values, 0.50),
			quantile(values, 0.75),
			hi,
			hi - lo,
		}
		for i, v := range stats {
			rows[i].Values[c] = Number(v)
		}
	}

	return Summary{
		Columns: slices.Clone(cols),
		Rows:    rows,
	}
}
