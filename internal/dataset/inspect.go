package dataset

import (
	"cmp"
	"slices"
)

// ColumnInfo is the name and storage type of one column.
type ColumnInfo struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// CategoryCount is the number of rows carrying one label value.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Profile is a first look at a table: its shape, column types, a preview of
// the leading rows and how often each category occurs.
type Profile struct {
	Rows    int             `json:"rows"`
	Columns []ColumnInfo    `json:"columns"`
	Head    [][]string      `json:"head"`
	Counts  []CategoryCount `json:"counts"`
}

// ColumnNames returns the profiled column names in order.
func (p Profile) ColumnNames() []string {
	names := make([]string, len(p.Columns))
	for i, c := range p.Columns {
		names[i] = c.Name
	}
	return names
}

// Inspect profiles t, previewing the first head rows.
func Inspect(t *Table, head int) Profile {
	cols := t.Columns()
	info := make([]ColumnInfo, len(cols))
	for i, name := range cols {
		info[i] = ColumnInfo{
			Name: name,
			Type: string(t.df.Col(name).Type()),
		}
	}

	return Profile{
		Rows:    t.Len(),
		Columns: info,
		Head:    t.Head(head),
		Counts:  ValueCounts(t.Labels()),
	}
}

// ValueCounts counts each distinct label, most frequent first; ties are
// ordered by label.
func ValueCounts(labels []string) []CategoryCount {
	counts := make(map[string]int)
	for _, l := range labels {
		counts[l]++
	}

	out := make([]CategoryCount, 0, len(counts))
	for category, n := range counts {
		out = append(out, CategoryCount{Category: category, Count: n})
	}
	slices.SortFunc(out, func(a, b CategoryCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Category, b.Category)
	})
	return out
}

// Categories returns the distinct labels in sorted order.
func Categories(labels []string) []string {
	out := slices.Clone(labels)
	slices.Sort(out)
	return slices.Compact(out)
}
