package report

import (
	"fmt"
	"io"

	"github.com/nao1215/docproof/internal/diff"
	"github.com/nao1215/docproof/internal/model"
)

// Format names an output format.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// Writer defines the interface for report output.
type Writer interface {
	// WriteVerification outputs the result of a verify run.
	// Returns the number of bytes written and any error encountered.
	WriteVerification(report *model.VerificationReport) (int, error)

	// WriteComparison outputs the changes between two diff indexes.
	WriteComparison(result *diff.Result) (int, error)
}

// NewWriter returns the Writer for format.
func NewWriter(format Format, output io.Writer) (Writer, error) {
	switch format {
	case FormatText, "":
		return NewSimpleWriter(output), nil
	case FormatJSON:
		return NewJSONWriter(output, WithPrettyPrint()), nil
	case FormatMarkdown:
		return NewMarkdownWriter(output), nil
	default:
		return nil, fmt.Errorf("unknown report format %q: use text, json or markdown", format)
	}
}

// MultiWriter writes to multiple Writers simultaneously.
// This is useful for outputting to both terminal and file.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// WriteVerification outputs the report to all configured Writers.
// Stops on first error encountered.
func (m *MultiWriter) WriteVerification(report *model.VerificationReport) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteVerification(report)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteComparison outputs the comparison to all configured Writers.
func (m *MultiWriter) WriteComparison(result *diff.Result) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteComparison(result)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// checkCounts tallies failed checks in AllChecks order.
func checkCounts(report *model.VerificationReport) map[model.Check]int {
	counts := make(map[model.Check]int, len(model.AllChecks))
	for _, v := range report.Violations() {
		counts[v.Check]++
	}
	return counts
}

var changeTypes = []diff.ChangeType{
	diff.PageAdded,
	diff.PageRemoved,
	diff.PageChanged,
	diff.MethodAdded,
	diff.MethodRemoved,
	diff.MethodChanged,
}
