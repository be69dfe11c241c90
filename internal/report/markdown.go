package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/florastat/internal/model"
)

var titleCaser = cases.Title(language.English)

// MarkdownWriter outputs reports in GitHub-flavored Markdown, built with
// nao1215/markdown.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the analysis in Markdown format.
func (w *MarkdownWriter) Write(analysis *model.Analysis) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, analysis)
	w.writeProfile(md, analysis)
	w.writeSummary(md, analysis)
	w.writeAggregates(md, analysis)
	w.writePlot(md, analysis)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the title and the input information table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, a *model.Analysis) {
	md.H1("Florastat Report")
	md.PlainText("")

	rows := [][]string{
		{"Run", "`" + a.ID.String() + "`"},
		{"Source", "`" + a.Source + "`"},
		{"Date", a.DateAnalyzed.Format(dateFormat)},
	}
	if a.Checksum != "" {
		rows = append(rows, []string{"SHA3-256", "`" + a.Checksum + "`"})
	}
	if a.RawProfile != nil {
		rows = append(rows,
			[]string{"Rows", strconv.Itoa(a.RawProfile.Rows)},
			[]string{"Columns", strings.Join(a.RawProfile.ColumnNames(), ", ")},
		)
	}
	rows = append(rows, []string{"Status", w.getStatusText(a)})

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")

	switch {
	case a.Cancelled:
		md.Warningf("The analysis was cancelled; later sections are missing.")
		md.PlainText("")
	case a.Failed():
		md.Cautionf("The analysis stopped: %s", a.ErrorMessage)
		md.PlainText("")
	}
}

// getStatusText returns the status text based on analysis state.
func (w *MarkdownWriter) getStatusText(a *model.Analysis) string {
	if a.Cancelled {
		return "⚠️ Cancelled (partial results)"
	}
	if a.Failed() {
		return "❌ Error - " + a.ErrorMessage
	}
	return "✅ Complete"
}

// writeProfile writes the data types, cleaned preview and category counts.
func (w *MarkdownWriter) writeProfile(md *markdown.Markdown, a *model.Analysis) {
	if a.RawProfile != nil {
		md.H2("Data Types")
		md.PlainText("")
		md.Table(markdown.TableSet{
			Header: []string{"Column", "Type"},
			Rows:   typeTable(a.RawProfile.Columns),
		})
		md.PlainText("")
	}

	p := a.Profile
	if p == nil {
		return
	}

	md.H2("Preview")
	md.PlainText("")
	md.PlainTextf("Prefix `%s` removed from %d label(s).", a.LabelPrefix, a.CleanedLabels)
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: p.ColumnNames(),
		Rows:   headBody(p.Head),
	})
	md.PlainText("")

	md.H2("Value Counts")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{a.Schema.Label, "Count"},
		Rows:   countTable(p.Counts),
	})
	md.PlainText("")

	if len(p.Counts) > 0 {
		w.writePieChart(md, a)
	}
}

// writePieChart writes a mermaid pie chart of the category counts.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, a *model.Analysis) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle(titleCaser.String(a.Schema.Label)+" Distribution"),
		piechart.WithShowData(true),
	)

	for _, c := range a.Profile.Counts {
		chart.LabelAndIntValue(c.Category, uint64(c.Count)) //nolint:gosec // counts are never negative
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeSummary writes the descriptive statistics.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, a *model.Analysis) {
	if a.Summary == nil {
		return
	}

	md.H2("Descriptive Statistics")
	md.PlainText("")
	header, rows := summaryTable(a.Summary, w.precision)
	header[0] = "stat"
	md.Table(markdown.TableSet{Header: header, Rows: rows})
	md.PlainText("")
	md.Note("`std` is the sample standard deviation; `range` is `max - min`.")
	md.PlainText("")
}

// writeAggregates writes each grouped aggregate as a table.
func (w *MarkdownWriter) writeAggregates(md *markdown.Markdown, a *model.Analysis) {
	if len(a.Aggregates) == 0 {
		return
	}

	md.H2("Grouped Aggregates")
	md.PlainText("")
	for _, agg := range a.Aggregates {
		md.H3(agg.Name)
		md.PlainText("")
		header, rows := groupTable(agg.Table, w.precision)
		md.Table(markdown.TableSet{Header: header, Rows: rows})
		md.PlainText("")
	}
}

// writePlot writes the plot reference, embedding it when it is an image a
// Markdown viewer can show.
func (w *MarkdownWriter) writePlot(md *markdown.Markdown, a *model.Analysis) {
	if a.PlotFile == "" {
		return
	}

	md.H2("Box Plot")
	md.PlainText("")
	md.PlainTextf("%d long-form rows.", a.LongRows)
	md.PlainText("")
	md.PlainText("![box plot](" + a.PlotFile + ")")
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [florastat](https://github.com/nao1215/florastat)*")
}
