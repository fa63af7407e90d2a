package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
)

// MarkdownWriter outputs summaries in Markdown format for documentation
// and sharing.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given
// writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the summary in Markdown format.
func (w *MarkdownWriter) Write(summary *Summary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, summary)
	w.writeStatuses(md, summary)
	w.writeTimings(md, summary)

	return len(md.String()), md.Build()
}

// writeHeader writes the run totals table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, summary *Summary) {
	md.H1("Load Test Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Total requests", strconv.Itoa(summary.Total)},
			{"HTTP responses", fmt.Sprintf("%d (%.2f%%)", summary.Responses, summary.ResponsePercent())},
			{"Failed requests", fmt.Sprintf("%d (%.2f%%)", summary.Failures, summary.FailurePercent())},
			{"Elapsed", fmt.Sprintf("%.2fs", summary.Elapsed.Seconds())},
			{"Concurrency level", strconv.Itoa(summary.Concurrency)},
			{"Requests per second", fmt.Sprintf("%.2f", summary.RequestsPerSecond())},
		},
	})
	md.PlainText("")
}

// writeStatuses writes the status histogram with a pie chart.
func (w *MarkdownWriter) writeStatuses(md *markdown.Markdown, summary *Summary) {
	rows := summary.SortedStatuses()
	if len(rows) == 0 {
		return
	}

	md.H2("Status Codes")
	md.PlainText("")

	tableRows := make([][]string, 0, len(rows))
	for _, row := range rows {
		tableRows = append(tableRows, []string{
			strconv.Itoa(row.Status),
			strconv.Itoa(row.Count),
			fmt.Sprintf("%.2f%%", summary.StatusPercent(row.Status)),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Status", "Requests", "Share"},
		Rows:   tableRows,
	})

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Status Code Distribution"),
		piechart.WithShowData(true),
	)
	for _, row := range rows {
		chart.LabelAndIntValue(strconv.Itoa(row.Status), uint64(row.Count))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeTimings writes the response time statistics.
func (w *MarkdownWriter) writeTimings(md *markdown.Markdown, summary *Summary) {
	md.H2("Response Times")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Statistic", "Value"},
		Rows: [][]string{
			{"Mean", fmt.Sprintf("%.2fms", millis(summary.Mean))},
			{"Median", fmt.Sprintf("%.2fms", millis(summary.Median))},
			{"95th percentile", fmt.Sprintf("%.2fms", millis(summary.P95))},
			{"99th percentile", fmt.Sprintf("%.2fms", millis(summary.P99))},
			{"Total body length", fmt.Sprintf("%d bytes", summary.TotalBodyLength)},
		},
	})
	md.PlainText("")
}
