package engine

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/surgehttp/surge/internal/config"
	"github.com/surgehttp/surge/internal/crawler"
)

const (
	// drainPollInterval paces the dispatcher while it waits for
	// in-flight requests to finish.
	drainPollInterval = 10 * time.Millisecond

	// progressInterval is the minimum time between progress reports.
	progressInterval = time.Second
)

// Engine drives one load run: it owns the queue, the permit semaphore,
// the seen-URL set, and the results recorder.
type Engine struct {
	// cfg is the validated, immutable run configuration.
	cfg *config.Config

	// client is the shared HTTP client, immutable after construction.
	client *http.Client

	// extractor turns HTML bodies into new work items.
	extractor *crawler.Extractor

	// recorder is the shared results sink.
	recorder *Recorder

	// queue is the work queue; the dispatcher is its only consumer.
	queue *queue

	// sem is the permit semaphore bounding in-flight requests.
	sem *semaphore.Weighted

	// logger records per-request errors and debug traces.
	logger *slog.Logger

	// progress, when set, receives the periodic progress count.
	progress func(total uint64)
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithProgress sets a callback invoked at most once per second with the
// number of dispatched requests. It is called from the dispatcher
// goroutine.
func WithProgress(fn func(total uint64)) Option {
	return func(e *Engine) {
		e.progress = fn
	}
}

// New creates an Engine for the given configuration and shared client.
func New(cfg *config.Config, client *http.Client, opts ...Option) *Engine {
	e := &Engine{
		cfg:      cfg,
		client:   client,
		recorder: NewRecorder(),
		queue:    newQueue(),
		sem:      semaphore.NewWeighted(int64(cfg.Concurrency)),
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.logger == nil {
		e.logger = slog.Default()
	}
	e.extractor = crawler.NewExtractor(cfg.AllowList, e.logger)

	return e
}

// Run drives the load until a termination condition fires and returns
// the recorded outcomes in completion order.
//
// Cancelling ctx is the interrupt: the dispatcher stops dispatching and
// waits up to one request timeout for in-flight requests before
// returning. In-flight requests are never cancelled mid-call; they are
// bounded by the client's own timeout.
func (e *Engine) Run(ctx context.Context) []Outcome {
	var producers errgroup.Group
	producers.Go(func() error {
		e.feed()
		return nil
	})
	producers.Go(func() error {
		e.heartbeat()
		return nil
	})

	e.dispatch(ctx)

	// Closing the queue fails the producers' next push, so Wait
	// returns promptly.
	e.queue.close()
	_ = producers.Wait() //nolint:errcheck // Producers only return nil

	return e.recorder.Snapshot()
}

// Results returns the recorder for inspection during a run.
func (e *Engine) Results() *Recorder {
	return e.recorder
}

// dispatch is the consumer loop: one permit, one action per iteration.
func (e *Engine) dispatch(ctx context.Context) {
	var (
		total      uint64
		processing = true
		stopAt     time.Time
		seen       map[string]struct{}
	)
	if e.cfg.PreventDuplicates {
		seen = make(map[string]struct{})
	}

	started := time.Now()
	lastProgress := time.Now()
	permits := int64(e.cfg.Concurrency)

	for {
		// Request cap.
		if e.cfg.Requests != 0 && total >= e.cfg.Requests {
			processing = false
		}

		if !processing {
			// Drain mode: wait until nothing is in flight, or
			// until one request timeout has passed since the
			// interrupt.
			if total != 0 && e.sem.TryAcquire(permits) {
				e.sem.Release(permits)
				return
			}
			if !stopAt.IsZero() && time.Since(stopAt) > e.cfg.RequestTimeout {
				return
			}
			time.Sleep(drainPollInterval)
			continue
		}

		// Interrupt and duration cap.
		if ctx.Err() != nil {
			processing = false
			stopAt = time.Now()
			continue
		}
		if e.cfg.Duration != 0 && time.Since(started) >= e.cfg.Duration {
			processing = false
			continue
		}

		// One permit per action. The permit moves into the spawned
		// task; on tick or duplicate it is released right here.
		if err := e.sem.Acquire(ctx, 1); err != nil {
			continue
		}

		a, ok := <-e.queue.out
		if !ok {
			e.sem.Release(1)
			return
		}

		if time.Since(lastProgress) >= progressInterval {
			e.reportProgress(total)
			lastProgress = time.Now()
		}

		if a.tick {
			e.sem.Release(1)
			continue
		}

		if seen != nil {
			key := a.item.URL.String()
			if _, dup := seen[key]; dup {
				e.sem.Release(1)
				continue
			}
			seen[key] = struct{}{}
		}

		total++
		go e.execute(a.item)
	}
}

// reportProgress emits the periodic progress count.
func (e *Engine) reportProgress(total uint64) {
	if e.progress != nil {
		e.progress(total)
		return
	}
	e.logger.Info("progress", "processed", total)
}
