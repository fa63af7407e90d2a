// Package report aggregates run outcomes into a summary and writes it
// in several formats.
//
// This package contains writers for different output formats:
//   - ConsoleWriter: Colored human-readable output for terminal display
//   - JSONWriter: Structured JSON output for tool integration
//   - MarkdownWriter: Markdown output for documentation and sharing
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed for multi-format output.
package report
