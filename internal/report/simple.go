package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nao1215/florastat/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// Tables are printed right-aligned in plain ASCII, which keeps the output
// readable in any terminal and easy to pipe to files.
type SimpleWriter struct {
	baseWriter

	// verbose adds the step timings.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// WithPrecision sets the number of decimals printed for statistics.
func WithPrecision(decimals int) SimpleWriterOption {
	return func(w *SimpleWriter) {
		if decimals >= 0 {
			w.precision = decimals
		}
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		verbose:    true,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the analysis in human-readable format. Sections for steps
// that did not run are left out.
func (w *SimpleWriter) Write(analysis *model.Analysis) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, analysis)
	w.writeRawProfile(&sb, analysis)
	w.writeProfile(&sb, analysis)
	w.writeSummary(&sb, analysis)
	w.writeAggregates(&sb, analysis)
	w.writePlot(&sb, analysis)
	w.writeSteps(&sb, analysis)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

func section(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")
}

// writeHeader writes the report header with input information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, a *model.Analysis) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                          FLORASTAT REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Run:       %s\n", a.ID))
	sb.WriteString(fmt.Sprintf("Source:    %s\n", a.Source))
	sb.WriteString(fmt.Sprintf("Date:      %s\n", a.DateAnalyzed.Format(dateFormat)))
	if a.Checksum != "" {
		sb.WriteString(fmt.Sprintf("SHA3-256:  %s\n", a.Checksum))
	}
	sb.WriteString(fmt.Sprintf("Status:    %s\n", status(a)))
	sb.WriteString("\n")
}

// writeRawProfile writes the table as loaded: preview, shape, columns and
// types.
func (w *SimpleWriter) writeRawProfile(sb *strings.Builder, a *model.Analysis) {
	p := a.RawProfile
	if p == nil {
		return
	}

	section(sb, "HEAD")
	sb.WriteString(alignTable("  ", p.ColumnNames(), headBody(p.Head)))
	sb.WriteString("\n")

	section(sb, "SHAPE")
	sb.WriteString(fmt.Sprintf("  Rows:    %d\n", p.Rows))
	sb.WriteString(fmt.Sprintf("  Columns: %s\n", strings.Join(p.ColumnNames(), ", ")))
	sb.WriteString("\n")

	section(sb, "DATA TYPES")
	sb.WriteString(alignTable("  ", nil, typeTable(p.Columns)))
	sb.WriteString("\n")
}

// writeProfile writes the cleaned preview and the category counts.
func (w *SimpleWriter) writeProfile(sb *strings.Builder, a *model.Analysis) {
	p := a.Profile
	if p == nil {
		return
	}

	section(sb, "CLEANED LABELS")
	sb.WriteString(fmt.Sprintf("  Prefix %q removed from %d label(s)\n\n", a.LabelPrefix, a.CleanedLabels))
	sb.WriteString(alignTable("  ", p.ColumnNames(), headBody(p.Head)))
	sb.WriteString("\n")

	section(sb, "VALUE COUNTS")
	sb.WriteString(alignTable("  ", nil, countTable(p.Counts)))
	sb.WriteString("\n")
}

// writeSummary writes the descriptive statistics with the range row.
func (w *SimpleWriter) writeSummary(sb *strings.Builder, a *model.Analysis) {
	if a.Summary == nil {
		return
	}

	section(sb, "DESCRIPTIVE STATISTICS")
	header, rows := summaryTable(a.Summary, w.precision)
	sb.WriteString(alignTable("  ", header, rows))
	sb.WriteString("\n")
}

// writeAggregates writes every grouped aggregate in computation order.
func (w *SimpleWriter) writeAggregates(sb *strings.Builder, a *model.Analysis) {
	for _, agg := range a.Aggregates {
		section(sb, "GROUPED BY "+strings.ToUpper(agg.Table.Label)+": "+strings.ToUpper(agg.Name))
		header, rows := groupTable(agg.Table, w.precision)
		sb.WriteString(alignTable("  ", header, rows))
		sb.WriteString("\n")
	}
}

// writePlot writes the long-form size and the plot location.
func (w *SimpleWriter) writePlot(sb *strings.Builder, a *model.Analysis) {
	if a.LongRows == 0 && a.PlotFile == "" {
		return
	}

	section(sb, "BOX PLOT")
	sb.WriteString(fmt.Sprintf("  Long-form rows: %d\n", a.LongRows))
	if a.PlotFile != "" {
		sb.WriteString(fmt.Sprintf("  Written to:     %s\n", a.PlotFile))
	}
	sb.WriteString("\n")
}

// writeSteps lists the step timings in verbose mode.
func (w *SimpleWriter) writeSteps(sb *strings.Builder, a *model.Analysis) {
	if !w.verbose || len(a.Steps) == 0 {
		return
	}

	section(sb, "STEPS")
	for _, s := range a.Steps {
		mark := ""
		if s.Failed {
			mark = "  (failed)"
		}
		sb.WriteString(fmt.Sprintf("  %-12s %10s%s\n", s.Name, s.Elapsed.Round(time.Microsecond), mark))
	}
	sb.WriteString(fmt.Sprintf("  %-12s %10s\n", "total", a.Elapsed.Round(time.Microsecond)))
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by florastat\n")
	sb.WriteString("https://github.com/nao1215/florastat\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
