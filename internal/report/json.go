package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/docproof/internal/diff"
	"github.com/nao1215/docproof/internal/model"
)

// JSONWriter outputs reports in JSON format for tool integration.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool

	indentPrefix string
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// VerificationJSON wraps a verification report with its summary counts.
type VerificationJSON struct {
	Summary VerificationSummary       `json:"summary"`
	Report  *model.VerificationReport `json:"report"`
	Checks  map[model.Check]int       `json:"failed_checks"`
}

// VerificationSummary is the headline of a verification run.
type VerificationSummary struct {
	Callables  int  `json:"callables"`
	Failed     int  `json:"failed"`
	Violations int  `json:"violations"`
	Passed     bool `json:"passed"`
}

// Summarize computes the headline of report.
func Summarize(report *model.VerificationReport) VerificationSummary {
	violations := len(report.Violations())
	return VerificationSummary{
		Callables:  len(report.Callables),
		Failed:     report.FailedCount(),
		Violations: violations,
		Passed:     violations == 0,
	}
}

// WriteVerification outputs the verification report in JSON format.
func (w *JSONWriter) WriteVerification(report *model.VerificationReport) (int, error) {
	return w.writeJSON(&VerificationJSON{
		Summary: Summarize(report),
		Report:  report,
		Checks:  checkCounts(report),
	})
}

// WriteComparison outputs the comparison in JSON format.
func (w *JSONWriter) WriteComparison(result *diff.Result) (int, error) {
	return w.writeJSON(result)
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}

	data = append(data, '\n')
	return w.output.Write(data)
}
