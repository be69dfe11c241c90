package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"golang.org/x/net/html"

	"github.com/nao1215/florastat/internal/dataset"
	"github.com/nao1215/florastat/internal/model"
)

// createTestAnalysis runs the analysis steps over the bundled dataset.
func createTestAnalysis(t *testing.T) *model.Analysis {
	t.Helper()

	schema := dataset.DefaultSchema()
	a := model.NewAnalysis("testdata/iris.csv", schema)
	a.Checksum = "0123abcd"

	tbl, err := dataset.Load(a.Source, schema)
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	raw := dataset.Inspect(tbl, 5)
	a.RawProfile = &raw

	a.LabelPrefix = dataset.DefaultLabelPrefix
	a.CleanedLabels = dataset.Clean(tbl, a.LabelPrefix)
	profile := dataset.Inspect(tbl, 5)
	a.Profile = &profile

	summary := dataset.Describe(tbl)
	a.Summary = &summary

	specs := map[string]dataset.AggregationSpec{
		"mean":       dataset.UniformAggregations(schema, dataset.AggMean),
		"per-column": dataset.DefaultAggregations(schema).With(dataset.ColumnPetalLength, dataset.AggMax),
	}
	for _, name := range []string{"mean", "per-column"} {
		g, err := dataset.GroupAggregate(tbl, specs[name])
		if err != nil {
			t.Fatalf("failed to aggregate: %v", err)
		}
		a.Aggregates = append(a.Aggregates, model.NamedAggregate{Name: name, Table: g})
	}

	a.LongRows = dataset.Reshape(tbl).Len()
	a.PlotFile = "out/iris.png"
	for _, name := range []string{"load", "clean", "inspect", "describe", "aggregate", "reshape", "plot"} {
		a.Steps = append(a.Steps, model.StepRecord{Name: name, Elapsed: 2 * time.Millisecond})
	}
	return a
}

// TestSimpleWriter tests the human-readable report writer.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	n, err := NewSimpleWriter(&buf).Write(createTestAnalysis(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != buf.Len() {
		t.Errorf("expected %d bytes reported, got %d", buf.Len(), n)
	}
	output := buf.String()

	tests := []struct {
		name string
		want string
	}{
		{"header", "FLORASTAT REPORT"},
		{"source", "testdata/iris.csv"},
		{"checksum", "0123abcd"},
		{"status", "Complete"},
		{"raw preview", "Iris-setosa"},
		{"row count", "Rows:    150"},
		{"data types", "DATA TYPES"},
		{"cleanup", `Prefix "Iris-" removed from 150 label(s)`},
		{"value counts", "VALUE COUNTS"},
		{"describe", "DESCRIPTIVE STATISTICS"},
		{"range row", "range"},
		{"mean aggregate", "GROUPED BY SPECIES: MEAN"},
		{"override column", "petal_length_max"},
		{"long rows", "Long-form rows: 600"},
		{"plot file", "out/iris.png"},
		{"step timings", "STEPS"},
		{"step elapsed", "2ms"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if !strings.Contains(output, tt.want) {
				t.Errorf("expected output to contain %q", tt.want)
			}
		})
	}
}

func TestSimpleWriterNotVerbose(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, err := NewSimpleWriter(&buf, WithVerbose(false)).Write(createTestAnalysis(t)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "DATA TYPES") {
		t.Error("expected data types in every text report")
	}
	if strings.Contains(buf.String(), "STEPS") {
		t.Error("expected step timings to be omitted")
	}
}

func TestSimpleWriterPrecision(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, err := NewSimpleWriter(&buf, WithPrecision(1)).Write(createTestAnalysis(t)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Mean sepal length of setosa is 5.006.
	if strings.Contains(buf.String(), "5.006") {
		t.Errorf("expected one-decimal statistics, got:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), " 5.0 ") {
		t.Errorf("expected one-decimal setosa mean, got:\n%s", buf.String())
	}
}

func TestSimpleWriterWithError(t *testing.T) {
	t.Parallel()

	a := model.NewAnalysis("bad.csv", dataset.DefaultSchema())
	a.SetError(errors.New("bad.csv: malformed row"))

	var buf bytes.Buffer
	if _, err := NewSimpleWriter(&buf).Write(a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	output := buf.String()
	if !strings.Contains(output, "ERROR - bad.csv: malformed row") {
		t.Error("expected output to contain error status")
	}
	if strings.Contains(output, "DESCRIPTIVE STATISTICS") {
		t.Error("expected no statistics for a failed analysis")
	}
}

func TestAlignTable(t *testing.T) {
	t.Parallel()

	got := alignTable("  ", []string{"", "a"}, [][]string{{"x", "1.0"}, {"yy", "10.25"}})
	want := "       a\n  x     1.0\n  yy  10.25\n"
	lines := strings.Split(got, "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 3 lines, got %q", got)
	}
	for _, l := range lines[:3] {
		if !strings.HasPrefix(l, "  ") {
			t.Errorf("expected indented line, got %q", l)
		}
	}
	// Numbers are right-aligned: both rows end in the same column.
	if len(lines[1]) != len(lines[2]) {
		t.Errorf("expected right-aligned rows, got %q (want layout like %q)", got, want)
	}
}

// TestJSONWriter tests the JSON report writer.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("compact output is one line", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(createTestAnalysis(t)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Count(buf.String(), "\n") != 1 {
			t.Error("expected a single line of JSON")
		}
	})

	t.Run("round trips through a generic decoder", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).Write(createTestAnalysis(t)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var decoded map[string]any
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if decoded["source"] != "testdata/iris.csv" {
			t.Errorf("expected source, got %v", decoded["source"])
		}
		if decoded["long_rows"] != float64(600) {
			t.Errorf("expected 600 long rows, got %v", decoded["long_rows"])
		}
		if !strings.Contains(buf.String(), "\n  ") {
			t.Error("expected indented output")
		}
	})

	t.Run("custom indent", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithIndent("", "\t")).Write(createTestAnalysis(t)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "\n\t\"source\"") {
			t.Error("expected tab indentation")
		}
	})
}

func TestJSONWriterVersion(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, err := NewJSONWriter(&buf, WithVersion("v1.2.3")).Write(createTestAnalysis(t)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded JSONReport
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded.Version != "v1.2.3" {
		t.Errorf("expected version v1.2.3, got %q", decoded.Version)
	}
	if decoded.Analysis == nil || decoded.Analysis.Source != "testdata/iris.csv" {
		t.Error("expected wrapped analysis")
	}
}

// TestMarkdownWriter tests the Markdown report writer.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, err := NewMarkdownWriter(&buf).Write(createTestAnalysis(t)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	output := buf.String()

	for _, want := range []string{
		"# Florastat Report",
		"## Descriptive Statistics",
		"### per-column",
		"```mermaid",
		"pie",
		`"setosa"`,
		"| range",
		"![box plot](out/iris.png)",
		"✅ Complete",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q", want)
		}
	}
}

func TestMarkdownWriterWithError(t *testing.T) {
	t.Parallel()

	a := model.NewAnalysis("bad.csv", dataset.DefaultSchema())
	a.SetError(errors.New("schema mismatch"))

	var buf bytes.Buffer
	if _, err := NewMarkdownWriter(&buf).Write(a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	output := buf.String()
	if !strings.Contains(output, "[!CAUTION]") {
		t.Error("expected caution alert")
	}
	if strings.Contains(output, "mermaid") {
		t.Error("expected no pie chart without counts")
	}
}

// TestHTMLWriter tests the HTML report writer.
func TestHTMLWriter(t *testing.T) {
	t.Parallel()

	a := createTestAnalysis(t)
	a.Source = "<iris>.csv"

	var buf bytes.Buffer
	if _, err := NewHTMLWriter(&buf).Write(a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	output := buf.String()

	if !strings.HasPrefix(output, "<!DOCTYPE html>") {
		t.Errorf("expected doctype, got %q", output[:20])
	}
	if strings.Contains(output, "<iris>") {
		t.Error("expected source to be escaped")
	}

	doc, err := html.Parse(strings.NewReader(output))
	if err != nil {
		t.Fatalf("output does not parse: %v", err)
	}

	var tables, images int
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "table":
				tables++
			case "img":
				images++
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	// preview, counts, describe and two aggregates
	if tables != 5 {
		t.Errorf("expected 5 tables, got %d", tables)
	}
	if images != 1 {
		t.Errorf("expected 1 image, got %d", images)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		want    Format
		wantErr bool
	}{
		{name: "", want: FormatText},
		{name: "text", want: FormatText},
		{name: "TXT", want: FormatText},
		{name: "json", want: FormatJSON},
		{name: " Markdown ", want: FormatMarkdown},
		{name: "md", want: FormatMarkdown},
		{name: "html", want: FormatHTML},
		{name: "pdf", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseFormat(tt.name)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownFormat) {
					t.Errorf("expected ErrUnknownFormat, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format Format
		want   string
	}{
		{FormatText, "FLORASTAT REPORT"},
		{FormatJSON, `"version": "v0.1.0"`},
		{FormatMarkdown, "# Florastat Report"},
		{FormatHTML, "<html"},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			w, err := New(tt.format, &buf, "v0.1.0", false)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if _, err := w.Write(createTestAnalysis(t)); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("expected output to contain %q", tt.want)
			}
		})
	}

	t.Run("verbose text", func(t *testing.T) {
		t.Parallel()

		for _, verbose := range []bool{false, true} {
			var buf bytes.Buffer
			w, err := New(FormatText, &buf, "", verbose)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if _, err := w.Write(createTestAnalysis(t)); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := strings.Contains(buf.String(), "STEPS"); got != verbose {
				t.Errorf("verbose=%v: expected step timings %v, got %v", verbose, verbose, got)
			}
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		t.Parallel()

		if _, err := New(Format("pdf"), &bytes.Buffer{}, "", false); !errors.Is(err, ErrUnknownFormat) {
			t.Errorf("expected ErrUnknownFormat, got %v", err)
		}
	})
}

func TestWriteAll(t *testing.T) {
	t.Parallel()

	t.Run("documents in input order", func(t *testing.T) {
		t.Parallel()

		first, second := createTestAnalysis(t), createTestAnalysis(t)
		second.Source = "second.csv"

		var buf bytes.Buffer
		n, err := WriteAll(NewJSONWriter(&buf), []*model.Analysis{first, second})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != buf.Len() {
			t.Errorf("expected %d bytes, got %d", buf.Len(), n)
		}

		dec := json.NewDecoder(&buf)
		var sources []string
		for dec.More() {
			var a model.Analysis
			if err := dec.Decode(&a); err != nil {
				t.Fatalf("invalid JSON stream: %v", err)
			}
			sources = append(sources, a.Source)
		}
		if len(sources) != 2 || sources[0] != "testdata/iris.csv" || sources[1] != "second.csv" {
			t.Errorf("unexpected sources %v", sources)
		}
	})

	t.Run("error names the source", func(t *testing.T) {
		t.Parallel()

		_, err := WriteAll(NewJSONWriter(failingWriter{}), []*model.Analysis{createTestAnalysis(t)})
		if err == nil || !strings.Contains(err.Error(), "testdata/iris.csv") {
			t.Errorf("expected error naming the source, got %v", err)
		}
	})
}
