package engine

import (
	"sync"
	"time"
)

// Outcome records the result of one HTTP request. A nil Err carries a
// response (status, duration, body length); a non-nil Err marks a
// transport failure.
type Outcome struct {
	// URL is the requested URL.
	URL string

	// Status is the HTTP status code. Zero on failure.
	Status int

	// Duration is the time from sending the request until the response
	// headers arrived.
	Duration time.Duration

	// BodyLength is the number of body bytes read.
	BodyLength int

	// Err is the transport error, if any.
	Err error
}

// Failed reports whether the outcome is a transport failure.
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// Recorder is the shared append-only results sink. Request tasks append
// under a mutex with short critical sections; the dispatcher reads it
// only after the run has drained.
type Recorder struct {
	mu       sync.Mutex
	outcomes []Outcome
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Record appends one outcome. Entries are never overwritten.
func (r *Recorder) Record(o Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, o)
}

// Len returns the number of recorded outcomes.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.outcomes)
}

// Snapshot returns a copy of the outcomes recorded so far, in
// completion order.
func (r *Recorder) Snapshot() []Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Outcome, len(r.outcomes))
	copy(out, r.outcomes)
	return out
}
