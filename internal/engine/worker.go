package engine

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/surgehttp/surge/internal/config"
	"github.com/surgehttp/surge/internal/crawler"
)

// execute performs a single HTTP request and, in discovery modes,
// pushes any extracted links back onto the queue. It runs in its own
// goroutine and releases the permit it was dispatched with.
func (e *Engine) execute(item crawler.Link) {
	defer e.sem.Release(1)

	target := item.URL.String()
	if e.cfg.RandomArguments && e.cfg.Mode != config.ModeDiscover {
		target = ExpandRandom(target)
	}

	req, err := http.NewRequest(e.cfg.Method, target, nil)
	if err != nil {
		e.logger.Error("build request", "url", target, "error", err)
		e.recorder.Record(Outcome{URL: target, Err: err})
		return
	}

	if e.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", e.cfg.UserAgent)
	}
	if e.cfg.BasicAuth != nil {
		req.SetBasicAuth(e.cfg.BasicAuth.Username, e.cfg.BasicAuth.Password)
	}
	for key, values := range e.cfg.Headers {
		for _, value := range values {
			if e.cfg.RandomArguments && e.cfg.Mode != config.ModeDiscover {
				value = ExpandRandom(value)
			}
			req.Header.Add(key, value)
		}
	}

	start := time.Now()
	resp, err := e.client.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		e.logger.Error("request failed", "url", target, "error", err)
		e.recorder.Record(Outcome{URL: target, Duration: elapsed, Err: err})
		return
	}
	defer resp.Body.Close() //nolint:errcheck // Read side only

	contentType := resp.Header.Get("Content-Type")

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		e.logger.Error("read body", "url", target, "error", err)
		e.recorder.Record(Outcome{
			URL:      target,
			Status:   resp.StatusCode,
			Duration: elapsed,
			Err:      err,
		})
		return
	}

	e.logger.Debug("request",
		"url", target,
		"status", resp.StatusCode,
		"duration", elapsed,
		"length", len(body),
	)
	e.recorder.Record(Outcome{
		URL:        target,
		Status:     resp.StatusCode,
		Duration:   elapsed,
		BodyLength: len(body),
	})

	if e.cfg.Mode == config.ModeSingle {
		return
	}
	if len(body) == 0 ||
		!strings.HasPrefix(contentType, "text/html") ||
		resp.StatusCode != http.StatusOK {
		return
	}

	links, err := e.extractor.Extract(body, item)
	if err != nil {
		e.logger.Debug("skip body", "url", target, "error", err)
		return
	}
	for _, link := range links {
		if !e.queue.push(action{item: link}) {
			break
		}
	}
}
