// Package report renders verification and comparison results.
//
// This package contains writers for different output formats:
//   - SimpleWriter: Human-readable text output for terminal display
//   - JSONWriter: Structured JSON output for CI integration
//   - MarkdownWriter: GitHub Flavored Markdown for pull request comments
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed for multi-format output.
package report
