package report

import (
	"io"

	"github.com/brandscan/brandscan/internal/model"
)

// Writer is the interface for report output.
// Implementations write scan reports in different formats.
type Writer interface {
	// Write outputs a scan report.
	// Returns the number of bytes written and any error.
	Write(report *model.ScanReport) (int, error)
}

// MultiWriter writes reports to multiple writers.
// Useful for outputting to both terminal and file simultaneously.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a writer that duplicates its writes to all
// provided writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write writes the report to all underlying writers.
// Returns the total bytes written across all writers.
// If any writer fails, returns the error immediately.
func (m *MultiWriter) Write(report *model.ScanReport) (int, error) {
	total := 0
	for _, w := range m.writers {
		n, err := w.Write(report)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a base writer with the given output.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
