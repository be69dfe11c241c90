package report

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/nao1215/florastat/internal/model"
)

// JSONWriter writes one JSON document per analysis. Compact documents are
// newline-delimited, so a batch can be read back with a json.Decoder.
type JSONWriter struct {
	baseWriter

	prefix  string
	indent  string
	version string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent indents nested values like json.MarshalIndent.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.prefix = prefix
		w.indent = indent
	}
}

// WithPrettyPrint indents with two spaces.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// WithVersion wraps each analysis in a JSONReport carrying version.
func WithVersion(version string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.version = version
	}
}

// NewJSONWriter creates a JSONWriter that writes bare analyses.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// JSONReport is the document written when a version is set.
type JSONReport struct {
	Version  string          `json:"version"`
	Analysis *model.Analysis `json:"analysis"`
}

// Write encodes analysis. Labels and paths are written verbatim, without
// HTML escaping.
func (w *JSONWriter) Write(analysis *model.Analysis) (int, error) {
	var v any = analysis
	if w.version != "" {
		v = JSONReport{Version: w.version, Analysis: analysis}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent(w.prefix, w.indent)
	if err := enc.Encode(v); err != nil {
		return 0, err
	}
	return w.output.Write(buf.Bytes())
}
