package report

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

// ConsoleWriter outputs colored human-readable summaries for terminal
// display. Color is stripped automatically when the destination is not
// a terminal.
type ConsoleWriter struct {
	baseWriter
}

// NewConsoleWriter creates a ConsoleWriter that outputs to the given
// writer.
func NewConsoleWriter(output io.Writer) *ConsoleWriter {
	return &ConsoleWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the summary in human-readable format.
func (w *ConsoleWriter) Write(summary *Summary) (int, error) {
	var sb strings.Builder

	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	fmt.Fprintf(&sb, "\n*** Processed a total of %s requests in %.2f seconds!\n",
		green(strconv.Itoa(summary.Total)),
		summary.Elapsed.Seconds(),
	)
	fmt.Fprintf(&sb, "*** Received %s HTTP responses (%.2f%%) while %s requests failed (%.2f%%).\n\n",
		green(strconv.Itoa(summary.Responses)),
		summary.ResponsePercent(),
		red(strconv.Itoa(summary.Failures)),
		summary.FailurePercent(),
	)

	for _, row := range summary.SortedStatuses() {
		fmt.Fprintf(&sb, "* [status %s] : %s requests (%.2f%%)\n",
			statusColor(row.Status),
			green(strconv.Itoa(row.Count)),
			summary.StatusPercent(row.Status),
		)
	}

	fmt.Fprintf(&sb, "\n* Concurrency level: %d\n", summary.Concurrency)
	fmt.Fprintf(&sb, "* Requests per second: %.2f [#/sec] (mean)\n", summary.RequestsPerSecond())
	fmt.Fprintf(&sb, "* Mean response time per request: %.2fms\n", millis(summary.Mean))
	fmt.Fprintf(&sb, "* Median response time per request: %.2fms\n", millis(summary.Median))
	fmt.Fprintf(&sb, "* Total content body length of responses: %d bytes\n\n", summary.TotalBodyLength)

	fmt.Fprintf(&sb, "* 95th percentile response time: %s\n",
		green(fmt.Sprintf("%.0fms", millis(summary.P95))),
	)
	fmt.Fprintf(&sb, "* 99th percentile response time: %s\n\n",
		green(fmt.Sprintf("%.0fms", millis(summary.P99))),
	)

	return w.output.Write([]byte(sb.String()))
}

// statusColor renders a status code green for OK, yellow for a moved
// redirect, red otherwise.
func statusColor(status int) string {
	text := strconv.Itoa(status)
	switch status {
	case http.StatusOK:
		return color.GreenString(text)
	case http.StatusMovedPermanently:
		return color.YellowString(text)
	default:
		return color.RedString(text)
	}
}
