package report

import (
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/docproof/internal/diff"
	"github.com/nao1215/docproof/internal/model"
)

// MarkdownWriter outputs reports in GitHub Flavored Markdown, suitable for
// pull request comments.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// WriteVerification outputs the verification report in Markdown format.
func (w *MarkdownWriter) WriteVerification(report *model.VerificationReport) (int, error) {
	md := markdown.NewMarkdown(w.output)
	summary := Summarize(report)

	md.H1("Documentation Verification")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Project", "`" + report.Project + "`"},
			{"Run", "`" + report.RunID + "`"},
			{"Callables", strconv.Itoa(summary.Callables)},
			{"Duration", report.Duration.Round(time.Millisecond).String()},
			{"Status", statusText(summary)},
		},
	})
	md.PlainText("")

	w.writeChecks(md, report)
	w.writeViolations(md, report)

	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by docproof*")

	return len(md.String()), md.Build()
}

func statusText(s VerificationSummary) string {
	if s.Passed {
		return "✅ Passed"
	}
	return "❌ " + plural(s.Violations, "violation")
}

func (w *MarkdownWriter) writeChecks(md *markdown.Markdown, report *model.VerificationReport) {
	md.H2("Checks")
	md.PlainText("")

	counts := checkCounts(report)
	rows := make([][]string, 0, len(model.AllChecks))
	for _, c := range model.AllChecks {
		rows = append(rows, []string{string(c), strconv.Itoa(counts[c])})
	}
	md.Table(markdown.TableSet{Header: []string{"Check", "Failures"}, Rows: rows})
	md.PlainText("")

	if len(report.Violations()) == 0 {
		md.Tip("Every documented callable passed verification.")
		md.PlainText("")
		return
	}

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Failures by check"),
		piechart.WithShowData(true),
	)
	for _, c := range model.AllChecks {
		if counts[c] > 0 {
			chart.LabelAndIntValue(string(c), uint64(counts[c])) //nolint:gosec // counts are positive
		}
	}
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
	md.Cautionf("%s failed verification.", plural(report.FailedCount(), "callable"))
	md.PlainText("")
}

func (w *MarkdownWriter) writeViolations(md *markdown.Markdown, report *model.VerificationReport) {
	violations := report.Violations()
	if len(violations) == 0 {
		return
	}

	md.H2("Violations")
	md.PlainText("")
	rows := make([][]string, len(violations))
	for i, v := range violations {
		rows[i] = []string{"`" + v.Module + "." + v.Method + "`", string(v.Check), truncateString(v.Message, 120)}
	}
	md.Table(markdown.TableSet{Header: []string{"Callable", "Check", "Message"}, Rows: rows})
	md.PlainText("")
}

// WriteComparison outputs the comparison in Markdown format.
func (w *MarkdownWriter) WriteComparison(result *diff.Result) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("API Changes")
	md.PlainText("")
	if result.FromRun != "" || result.ToRun != "" {
		md.PlainTextf("Comparing `%s` to `%s`.", orDash(result.FromRun), orDash(result.ToRun))
		md.PlainText("")
	}

	if !result.HasChanges() {
		md.Note("No API changes detected.")
		md.PlainText("")
		return len(md.String()), md.Build()
	}

	rows := make([][]string, 0, len(changeTypes)+1)
	for _, t := range changeTypes {
		if n := result.Count(t); n > 0 {
			rows = append(rows, []string{string(t), strconv.Itoa(n)})
		}
	}
	rows = append(rows, []string{"unchanged pages", strconv.Itoa(result.UnchangedPages)})
	md.Table(markdown.TableSet{Header: []string{"Change", "Count"}, Rows: rows})
	md.PlainText("")

	if n := result.Count(diff.PageRemoved) + result.Count(diff.MethodRemoved); n > 0 {
		md.Warningf("%s removed from the documentation.", plural(n, "entry"))
		md.PlainText("")
	}

	md.H2("Changes")
	md.PlainText("")
	items := make([]string, len(result.Changes))
	for i, c := range result.Changes {
		items[i] = changeIndicator(c.Type) + " `" + changeTarget(c) + "`"
	}
	md.BulletList(items...)
	md.PlainText("")

	return len(md.String()), md.Build()
}

// truncateString truncates a string to maxLen bytes with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
