package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/brandscan/brandscan/internal/model"
)

// JSONWriter outputs reports in JSON format.
// Useful for tool integration, APIs, and automated processing.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed output.
	indent bool

	// prefix and indentStr control the pretty-print format.
	prefix    string
	indentStr string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent sets custom indentation for pretty-printing.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.prefix = prefix
		w.indentStr = indent
	}
}

// WithPrettyPrint enables pretty-printing with default indentation.
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.prefix = ""
		w.indentStr = "  "
	}
}

// NewJSONWriter creates a new JSON report writer.
// By default, output is compact (single line).
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the scan report as JSON.
func (w *JSONWriter) Write(report *model.ScanReport) (int, error) {
	return w.writeJSON(report)
}

// writeJSON marshals and writes any value as JSON.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.prefix, w.indentStr)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to marshal report: %w", err)
	}

	// Trailing newline so concatenated reports stay line-delimited.
	data = append(data, '\n')

	return w.output.Write(data)
}

// JSONReport wraps a scan report with format metadata for API-style
// consumers that need to dispatch on a version field.
type JSONReport struct {
	// Version is the report format version.
	Version string `json:"version"`

	// Report is the full scan report.
	Report *model.ScanReport `json:"report"`

	// Summary is the one-line palette summary, for consumers that only
	// want the headline colors.
	Summary string `json:"summary,omitempty"`
}

// ReportVersion is the current JSON report format version.
const ReportVersion = "1.0"

// FullJSONWriter outputs versioned JSON reports with the wrapper
// structure. Prefer JSONWriter for plain report output.
type FullJSONWriter struct {
	*JSONWriter
}

// NewFullJSONWriter creates a writer for versioned JSON output.
func NewFullJSONWriter(output io.Writer, opts ...JSONWriterOption) *FullJSONWriter {
	return &FullJSONWriter{
		JSONWriter: NewJSONWriter(output, opts...),
	}
}

// Write outputs the scan report wrapped with version metadata.
func (w *FullJSONWriter) Write(report *model.ScanReport) (int, error) {
	wrapped := JSONReport{
		Version: ReportVersion,
		Report:  report,
		Summary: report.PaletteSummary(),
	}
	return w.writeJSON(wrapped)
}
