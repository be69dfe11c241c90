package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/florastat/internal/model"
)

// DefaultPrecision is the number of decimals printed for statistics.
const DefaultPrecision = 3

// Writer renders one analysis.
type Writer interface {
	// Write renders analysis and returns the number of bytes written.
	Write(analysis *model.Analysis) (int, error)
}

// Format names a report format.
type Format string

// Supported report formats.
const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// ErrUnknownFormat is returned for a format name that has no writer.
var ErrUnknownFormat = errors.New("unknown report format")

// ParseFormat returns the format called name. The empty name is text.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case "", "txt", FormatText:
		return FormatText, nil
	case "md", FormatMarkdown:
		return FormatMarkdown, nil
	case FormatJSON, FormatHTML:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// New returns the writer for format. version is embedded in JSON reports;
// verbose adds the step timings to text reports.
func New(format Format, output io.Writer, version string, verbose bool) (Writer, error) {
	switch format {
	case FormatText:
		return NewSimpleWriter(output, WithVerbose(verbose)), nil
	case FormatJSON:
		return NewJSONWriter(output, WithPrettyPrint(), WithVersion(version)), nil
	case FormatMarkdown:
		return NewMarkdownWriter(output), nil
	case FormatHTML:
		return NewHTMLWriter(output), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, string(format))
	}
}

// WriteAll renders every analysis with w, in order, and stops at the first
// error. The error names the source that could not be written.
func WriteAll(w Writer, analyses []*model.Analysis) (int, error) {
	total := 0
	for _, a := range analyses {
		n, err := w.Write(a)
		total += n
		if err != nil {
			return total, fmt.Errorf("failed to write report for %s: %w", a.Source, err)
		}
	}
	return total, nil
}

// baseWriter holds what every writer needs.
type baseWriter struct {
	output    io.Writer
	precision int
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output, precision: DefaultPrecision}
}
