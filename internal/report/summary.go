package report

import (
	"sort"
	"time"

	"github.com/surgehttp/surge/internal/engine"
)

// Summary aggregates the outcomes of one run.
type Summary struct {
	// Total is the number of dispatched requests, successful or not.
	Total int

	// Responses is the number of requests that received an HTTP response.
	Responses int

	// Failures is the number of requests that failed at the transport
	// level.
	Failures int

	// StatusCounts maps each received status code to its count.
	StatusCounts map[int]int

	// TotalBodyLength is the sum of response body lengths in bytes.
	TotalBodyLength int64

	// Elapsed is the wall-clock duration of the run.
	Elapsed time.Duration

	// Concurrency is the permit count the run was configured with.
	Concurrency int

	// Mean is the arithmetic mean response time.
	Mean time.Duration

	// Median is the true median response time: the middle value of the
	// sorted response times, or the mean of the two middle values.
	Median time.Duration

	// P95 is the 95th percentile response time.
	P95 time.Duration

	// P99 is the 99th percentile response time.
	P99 time.Duration
}

// StatusCount is one row of the status histogram.
type StatusCount struct {
	// Status is the HTTP status code.
	Status int

	// Count is how many responses carried it.
	Count int
}

// Compute aggregates outcomes into a Summary. Failed requests count
// toward Total and Failures but contribute nothing to the timing
// statistics or the status histogram.
func Compute(outcomes []engine.Outcome, elapsed time.Duration, concurrency int) *Summary {
	s := &Summary{
		Total:        len(outcomes),
		StatusCounts: make(map[int]int),
		Elapsed:      elapsed,
		Concurrency:  concurrency,
	}

	durations := make([]time.Duration, 0, len(outcomes))
	var sum time.Duration
	for _, o := range outcomes {
		if o.Failed() {
			s.Failures++
			continue
		}
		s.Responses++
		s.StatusCounts[o.Status]++
		s.TotalBodyLength += int64(o.BodyLength)
		durations = append(durations, o.Duration)
		sum += o.Duration
	}

	if len(durations) == 0 {
		return s
	}

	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })

	s.Mean = sum / time.Duration(len(durations))
	s.Median = median(durations)
	s.P95 = percentile(durations, 0.95)
	s.P99 = percentile(durations, 0.99)

	return s
}

// median returns the middle value of a sorted slice, averaging the two
// middle values for even lengths.
func median(sorted []time.Duration) time.Duration {
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// percentile returns the value at the floor of len*p in a sorted slice.
func percentile(sorted []time.Duration, p float64) time.Duration {
	idx := int(float64(len(sorted)) * p)
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// millis converts a duration to fractional milliseconds.
func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// ResponsePercent returns the share of requests that got a response.
func (s *Summary) ResponsePercent() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Responses) / float64(s.Total) * 100
}

// FailurePercent returns the share of requests that failed.
func (s *Summary) FailurePercent() float64 {
	if s.Total == 0 {
		return 0
	}
	return 100 - s.ResponsePercent()
}

// StatusPercent returns the share of responses carrying the given code.
func (s *Summary) StatusPercent(status int) float64 {
	if s.Responses == 0 {
		return 0
	}
	return float64(s.StatusCounts[status]) / float64(s.Responses) * 100
}

// RequestsPerSecond returns the mean response throughput over the run.
func (s *Summary) RequestsPerSecond() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Responses) / s.Elapsed.Seconds()
}

// SortedStatuses returns the status histogram ordered by count,
// most frequent first. Ties break on the lower status code.
func (s *Summary) SortedStatuses() []StatusCount {
	rows := make([]StatusCount, 0, len(s.StatusCounts))
	for status, count := range s.StatusCounts {
		rows = append(rows, StatusCount{Status: status, Count: count})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Status < rows[j].Status
	})
	return rows
}
