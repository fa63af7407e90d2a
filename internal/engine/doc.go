// Package engine implements the request-generation core of surge.
//
// # Architecture
//
// The engine is a producer/consumer pipeline around one unbounded
// multi-producer single-consumer queue of actions:
//
//   - The feeder seeds the queue according to the run mode: one item in
//     discover mode, the same item in a loop in single mode, the URL
//     list with wrap-around in file mode.
//   - The heartbeat injects a no-op tick every 100 ms so the dispatcher
//     always wakes, even when the crawl frontier is empty.
//   - The dispatcher is the sole consumer. It acquires one permit from
//     a counting semaphore per action, applies the termination
//     conditions (request cap, duration cap, interrupt), and spawns a
//     request task per work item. The permit travels into the task and
//     is released when the task completes.
//   - Request tasks issue one HTTP call each, record the outcome in the
//     shared Recorder, and in discover/file mode push the links
//     extracted from HTML bodies back into the queue.
//
// # Termination
//
// Once a termination condition fires the dispatcher enters drain mode:
// it dispatches nothing further and exits when either every permit is
// free (no requests in flight) or one request timeout has elapsed since
// an interrupt. The semaphore's permit count doubling as the in-flight
// gauge is what makes the first condition sound.
package engine
