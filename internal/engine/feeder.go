package engine

import (
	"time"

	"github.com/surgehttp/surge/internal/config"
	"github.com/surgehttp/surge/internal/crawler"
)

// heartbeatInterval is how often a tick is injected into the queue.
const heartbeatInterval = 100 * time.Millisecond

// feed seeds the queue according to the run mode. It runs on its own
// goroutine, never reads the queue, and exits once a push fails.
func (e *Engine) feed() {
	switch e.cfg.Mode {
	case config.ModeDiscover:
		// One seed; the crawl frontier grows from discovered links.
		e.queue.push(action{item: crawler.Seed(e.cfg.URL)})

	case config.ModeSingle:
		// The same target over and over. The queue's high-water mark
		// and the dispatcher's permit semaphore provide the pacing.
		seed := crawler.Seed(e.cfg.URL)
		for e.queue.push(action{item: seed}) {
		}

	case config.ModeFile:
		// Cycle through the list with wrap-around.
		for i := 0; ; i++ {
			u := e.cfg.URLs[i%len(e.cfg.URLs)]
			if !e.queue.push(action{item: crawler.Seed(u)}) {
				return
			}
		}
	}
}

// heartbeat injects a tick every 100 ms so the dispatcher re-evaluates
// its termination conditions even when the queue is otherwise starved.
func (e *Engine) heartbeat() {
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	for range ticker.C {
		if !e.queue.push(action{tick: true}) {
			return
		}
	}
}
