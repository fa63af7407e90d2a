package engine

import (
	"sync"

	"github.com/surgehttp/surge/internal/crawler"
)

// action is one queue message: either a work item or a heartbeat tick.
type action struct {
	// tick marks a no-op wakeup message carrying no payload.
	tick bool

	// item is the work payload when tick is false.
	item crawler.Link
}

// queueHighWater is the buffered-item count above which producers block
// until the dispatcher drains. The queue stays logically unbounded --
// pushes never fail while it is open -- but a tight-loop feeder cannot
// outrun the dispatcher by more than this many items.
const queueHighWater = 65536

// queue is an unbounded multi-producer single-consumer FIFO of actions.
//
// Producers share push; the dispatcher alone receives from out. Closing
// the queue makes every subsequent (or blocked) push return false and
// eventually closes out, so the consumer's receive drops out.
type queue struct {
	in   chan action
	out  chan action
	done chan struct{}
	once sync.Once
}

// newQueue creates a queue and starts its pump goroutine.
func newQueue() *queue {
	q := &queue{
		in:   make(chan action),
		out:  make(chan action),
		done: make(chan struct{}),
	}
	go q.pump()
	return q
}

// push enqueues an action. Returns false once the queue is closed.
func (q *queue) push(a action) bool {
	select {
	case q.in <- a:
		return true
	case <-q.done:
		return false
	}
}

// close makes all pushes fail and unblocks the consumer. Idempotent.
func (q *queue) close() {
	q.once.Do(func() { close(q.done) })
}

// pump shuttles actions from in to out through an elastic buffer.
func (q *queue) pump() {
	defer close(q.out)

	var buf []action
	for {
		if len(buf) == 0 {
			select {
			case a := <-q.in:
				buf = append(buf, a)
			case <-q.done:
				return
			}
			continue
		}

		in := q.in
		if len(buf) >= queueHighWater {
			in = nil
		}

		select {
		case a := <-in:
			buf = append(buf, a)
		case q.out <- buf[0]:
			buf = buf[1:]
		case <-q.done:
			return
		}
	}
}
