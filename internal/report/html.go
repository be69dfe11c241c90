package report

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/nao1215/florastat/internal/model"
)

const stylesheet = `
body { font-family: sans-serif; margin: 2em; color: #222; }
table { border-collapse: collapse; margin-bottom: 1.5em; }
th, td { border: 1px solid #ccc; padding: 0.25em 0.75em; }
td.num { text-align: right; font-variant-numeric: tabular-nums; }
.error { color: #a00; }
`

// HTMLWriter outputs a standalone HTML page. The page is built as an
// html.Node tree and rendered with golang.org/x/net/html, which takes care
// of escaping.
type HTMLWriter struct {
	baseWriter
}

// NewHTMLWriter creates an HTMLWriter that outputs to the given writer.
func NewHTMLWriter(output io.Writer) *HTMLWriter {
	return &HTMLWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the analysis as an HTML document.
func (w *HTMLWriter) Write(analysis *model.Analysis) (int, error) {
	doc := w.document(analysis)

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return 0, fmt.Errorf("failed to render html: %w", err)
	}
	buf.WriteByte('\n')
	return w.output.Write(buf.Bytes())
}

func (w *HTMLWriter) document(a *model.Analysis) *html.Node {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	title := "Florastat Report: " + a.Source
	head := element(atom.Head, nil,
		element(atom.Meta, []html.Attribute{{Key: "charset", Val: "utf-8"}}),
		element(atom.Title, nil, text(title)),
		element(atom.Style, nil, text(stylesheet)),
	)

	body := element(atom.Body, nil, element(atom.H1, nil, text(title)))

	info := [][]string{
		{"Run", a.ID.String()},
		{"Date", a.DateAnalyzed.Format(dateFormat)},
		{"Status", status(a)},
	}
	if a.Checksum != "" {
		info = append(info, []string{"SHA3-256", a.Checksum})
	}
	body.AppendChild(definitionList(info))

	if a.Failed() {
		body.AppendChild(element(atom.P, []html.Attribute{{Key: "class", Val: "error"}}, text(a.ErrorMessage)))
	}

	if p := a.Profile; p != nil {
		body.AppendChild(element(atom.H2, nil, text("Preview")))
		body.AppendChild(element(atom.P, nil,
			text(fmt.Sprintf("%d rows. Prefix %q removed from %d label(s).", p.Rows, a.LabelPrefix, a.CleanedLabels))))
		body.AppendChild(table(p.ColumnNames(), headBody(p.Head)))

		body.AppendChild(element(atom.H2, nil, text("Value Counts")))
		body.AppendChild(table([]string{a.Schema.Label, "count"}, countTable(p.Counts)))
	}

	if a.Summary != nil {
		body.AppendChild(element(atom.H2, nil, text("Descriptive Statistics")))
		header, rows := summaryTable(a.Summary, w.precision)
		body.AppendChild(table(header, rows))
	}

	for _, agg := range a.Aggregates {
		body.AppendChild(element(atom.H2, nil, text("Grouped: "+agg.Name)))
		header, rows := groupTable(agg.Table, w.precision)
		body.AppendChild(table(header, rows))
	}

	if a.PlotFile != "" {
		body.AppendChild(element(atom.H2, nil, text("Box Plot")))
		body.AppendChild(element(atom.Img, []html.Attribute{
			{Key: "src", Val: a.PlotFile},
			{Key: "alt", Val: "box plot of " + strconv.Itoa(a.LongRows) + " measurements"},
		}))
	}

	doc.AppendChild(element(atom.Html, []html.Attribute{{Key: "lang", Val: "en"}}, head, body))
	return doc
}

// element creates an element node with attributes and children.
func element(a atom.Atom, attrs []html.Attribute, children ...*html.Node) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
		Attr:     attrs,
	}
	for _, c := range children {
		n.AppendChild(c)
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// table builds a table; numeric cells are right-aligned.
func table(header []string, rows [][]string) *html.Node {
	tr := element(atom.Tr, nil)
	for _, h := range header {
		tr.AppendChild(element(atom.Th, nil, text(h)))
	}
	tbody := element(atom.Tbody, nil)
	for _, r := range rows {
		row := element(atom.Tr, nil)
		for _, c := range r {
			var attrs []html.Attribute
			if _, err := strconv.ParseFloat(c, 64); err == nil {
				attrs = []html.Attribute{{Key: "class", Val: "num"}}
			}
			row.AppendChild(element(atom.Td, attrs, text(c)))
		}
		tbody.AppendChild(row)
	}
	return element(atom.Table, nil, element(atom.Thead, nil, tr), tbody)
}

func definitionList(pairs [][]string) *html.Node {
	dl := element(atom.Dl, nil)
	for _, p := range pairs {
		dl.AppendChild(element(atom.Dt, nil, text(p[0])))
		dl.AppendChild(element(atom.Dd, nil, text(p[1])))
	}
	return dl
}
