package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"

	"github.com/nao1215/docproof/internal/diff"
	"github.com/nao1215/docproof/internal/model"
)

const ruleWidth = 70

// SimpleWriter outputs human-readable text reports for terminal display.
type SimpleWriter struct {
	baseWriter

	// showPassed lists callables without violations too.
	showPassed bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowPassed lists passing callables in verification reports.
func WithShowPassed(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showPassed = show
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WriteVerification outputs the verification report in human-readable format.
func (w *SimpleWriter) WriteVerification(report *model.VerificationReport) (int, error) {
	var sb strings.Builder

	writeBanner(&sb, "DOCPROOF VERIFICATION")
	fmt.Fprintf(&sb, "Project:   %s\n", report.Project)
	fmt.Fprintf(&sb, "Run:       %s\n", report.RunID)
	if !report.StartedAt.IsZero() {
		fmt.Fprintf(&sb, "Started:   %s (%s)\n", report.StartedAt.Format("2006-01-02 15:04:05 MST"), humanize.Time(report.StartedAt))
	}
	fmt.Fprintf(&sb, "Duration:  %s\n\n", report.Duration.Round(time.Millisecond))

	w.writeCheckSummary(&sb, report)
	w.writeCallables(&sb, report)

	summary := Summarize(report)
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	if summary.Passed {
		fmt.Fprintf(&sb, "PASSED: %s verified\n", plural(summary.Callables, "callable"))
	} else {
		fmt.Fprintf(&sb, "FAILED: %s in %s of %s\n",
			plural(summary.Violations, "violation"),
			plural(summary.Failed, "callable"),
			humanize.Comma(int64(summary.Callables)))
	}

	return w.output.Write([]byte(sb.String()))
}

func (w *SimpleWriter) writeCheckSummary(sb *strings.Builder, report *model.VerificationReport) {
	writeSection(sb, "CHECKS")
	counts := checkCounts(report)
	for _, c := range model.AllChecks {
		status := "ok"
		if counts[c] > 0 {
			status = fmt.Sprintf("%s failed", humanize.Comma(int64(counts[c])))
		}
		fmt.Fprintf(sb, "  %-12s %s\n", strings.ToUpper(string(c))+":", status)
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeCallables(sb *strings.Builder, report *model.VerificationReport) {
	if report.FailedCount() == 0 && !w.showPassed {
		return
	}
	writeSection(sb, "CALLABLES")
	for _, c := range report.Callables {
		if c.Passed() {
			if w.showPassed {
				fmt.Fprintf(sb, "  [ok] %s.%s\n", c.Module, c.Method)
			}
			continue
		}
		fmt.Fprintf(sb, "  [!!] %s.%s (%s)\n", c.Module, c.Method, c.State)
		for _, v := range c.Violations {
			fmt.Fprintf(sb, "       - %s: %s\n", v.Check, v.Message)
		}
	}
	sb.WriteString("\n")
}

// WriteComparison outputs the comparison in human-readable format.
func (w *SimpleWriter) WriteComparison(result *diff.Result) (int, error) {
	var sb strings.Builder

	writeBanner(&sb, "DOCPROOF API CHANGES")
	if result.FromRun != "" || result.ToRun != "" {
		fmt.Fprintf(&sb, "From run:  %s\n", orDash(result.FromRun))
		fmt.Fprintf(&sb, "To run:    %s\n\n", orDash(result.ToRun))
	}

	if !result.HasChanges() {
		fmt.Fprintf(&sb, "No changes (%s unchanged)\n", plural(result.UnchangedPages, "page"))
		return w.output.Write([]byte(sb.String()))
	}

	writeSection(&sb, "SUMMARY")
	for _, t := range changeTypes {
		if n := result.Count(t); n > 0 {
			fmt.Fprintf(&sb, "  %-16s %s\n", string(t)+":", humanize.Comma(int64(n)))
		}
	}
	fmt.Fprintf(&sb, "  %-16s %s\n\n", "unchanged pages:", humanize.Comma(int64(result.UnchangedPages)))

	writeSection(&sb, "CHANGES")
	for _, c := range result.Changes {
		fmt.Fprintf(&sb, "  %s %s\n", changeIndicator(c.Type), changeTarget(c))
	}
	sb.WriteString("\n")

	return w.output.Write([]byte(sb.String()))
}

func writeBanner(sb *strings.Builder, title string) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n\n")
}

func writeSection(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n\n")
}

// changeIndicator returns a visual indicator for the change type.
func changeIndicator(t diff.ChangeType) string {
	switch t {
	case diff.PageAdded, diff.MethodAdded:
		return "[+]"
	case diff.PageRemoved, diff.MethodRemoved:
		return "[-]"
	default:
		return "[~]"
	}
}

func changeTarget(c diff.Change) string {
	if c.Method == "" {
		return c.Page
	}
	return c.Page + "#" + c.Method
}

func plural(n int, singular string) string {
	return humanize.Comma(int64(n)) + " " + english.PluralWord(n, singular, "")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
