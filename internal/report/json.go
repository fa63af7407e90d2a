package report

import (
	"encoding/json"
	"io"
	"strconv"
)

// JSONWriter outputs summaries in JSON format for tool integration and
// programmatic processing.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	// When false, output is compact (no extra whitespace).
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
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
// This is a convenience wrapper for WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = ""
		w.indentString = "  "
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// jsonSummary is the wire representation of a Summary. Durations are
// expressed in fractional milliseconds.
type jsonSummary struct {
	Total             int            `json:"total"`
	Responses         int            `json:"responses"`
	Failures          int            `json:"failures"`
	StatusCounts      map[string]int `json:"status_counts"`
	TotalBodyLength   int64          `json:"total_body_length"`
	ElapsedSeconds    float64        `json:"elapsed_seconds"`
	Concurrency       int            `json:"concurrency"`
	RequestsPerSecond float64        `json:"requests_per_second"`
	MeanMS            float64        `json:"mean_ms"`
	MedianMS          float64        `json:"median_ms"`
	P95MS             float64        `json:"p95_ms"`
	P99MS             float64        `json:"p99_ms"`
}

// Write outputs the summary in JSON format.
func (w *JSONWriter) Write(summary *Summary) (int, error) {
	statuses := make(map[string]int, len(summary.StatusCounts))
	for status, count := range summary.StatusCounts {
		statuses[strconv.Itoa(status)] = count
	}

	v := jsonSummary{
		Total:             summary.Total,
		Responses:         summary.Responses,
		Failures:          summary.Failures,
		StatusCounts:      statuses,
		TotalBodyLength:   summary.TotalBodyLength,
		ElapsedSeconds:    summary.Elapsed.Seconds(),
		Concurrency:       summary.Concurrency,
		RequestsPerSecond: summary.RequestsPerSecond(),
		MeanMS:            millis(summary.Mean),
		MedianMS:          millis(summary.Median),
		P95MS:             millis(summary.P95),
		P99MS:             millis(summary.P99),
	}

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

	// Trailing newline for better terminal output.
	data = append(data, '\n')

	return w.output.Write(data)
}
