package report

import (
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/nao1215/florastat/internal/dataset"
	"github.com/nao1215/florastat/internal/model"
)

const dateFormat = "2006-01-02 15:04:05 MST"

// summaryTable returns the describe output as a header and rows, one row
// per statistic.
func summaryTable(s *dataset.Summary, precision int) ([]string, [][]string) {
	header := append([]string{""}, s.Columns...)
	rows := make([][]string, len(s.Rows))
	for i, r := range s.Rows {
		row := make([]string, 0, len(r.Values)+1)
		row = append(row, r.Stat)
		for _, v := range r.Values {
			if r.Stat == dataset.StatCount {
				row = append(row, v.Format(0))
				continue
			}
			row = append(row, v.Format(precision))
		}
		rows[i] = row
	}
	return header, rows
}

// groupTable returns a grouped aggregate as a header and rows, one row per
// category.
func groupTable(g dataset.GroupTable, precision int) ([]string, [][]string) {
	header := make([]string, 0, len(g.Columns)+1)
	header = append(header, g.Label)
	for _, c := range g.Columns {
		header = append(header, c.Name())
	}

	rows := make([][]string, len(g.Groups))
	for i, grp := range g.Groups {
		row := make([]string, 0, len(grp.Values)+1)
		row = append(row, grp.Category)
		for j, v := range grp.Values {
			if g.Columns[j].Func == dataset.AggCount {
				row = append(row, v.Format(0))
				continue
			}
			row = append(row, v.Format(precision))
		}
		rows[i] = row
	}
	return header, rows
}

// countTable returns the category counts as rows.
func countTable(counts []dataset.CategoryCount) [][]string {
	rows := make([][]string, len(counts))
	for i, c := range counts {
		rows[i] = []string{c.Category, strconv.Itoa(c.Count)}
	}
	return rows
}

// typeTable returns the column types as rows.
func typeTable(cols []dataset.ColumnInfo) [][]string {
	rows := make([][]string, len(cols))
	for i, c := range cols {
		rows[i] = []string{c.Name, c.Type}
	}
	return rows
}

// alignTable lays out header and rows as right-aligned text columns with
// the given indent, the way data frames are printed in a terminal.
func alignTable(indent string, header []string, rows [][]string) string {
	var sb strings.Builder
	tw := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', tabwriter.AlignRight)

	writeRow := func(cells []string) {
		for _, c := range cells {
			tw.Write([]byte(c + "\t")) //nolint:errcheck // strings.Builder does not fail
		}
		tw.Write([]byte("\n")) //nolint:errcheck // strings.Builder does not fail
	}
	if header != nil {
		writeRow(header)
	}
	for _, r := range rows {
		writeRow(r)
	}
	_ = tw.Flush()

	lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	for i, l := range lines {
		lines[i] = indent + strings.TrimRight(l, " ")
	}
	return strings.Join(lines, "\n") + "\n"
}

// status describes how the run ended.
func status(a *model.Analysis) string {
	switch {
	case a.Cancelled:
		return "CANCELLED (partial results)"
	case a.Failed():
		return "ERROR - " + a.ErrorMessage
	default:
		return "Complete"
	}
}

// headBody drops the header row of a Head preview.
func headBody(head [][]string) [][]string {
	if len(head) == 0 {
		return nil
	}
	return head[1:]
}
