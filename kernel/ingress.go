package kernel

import "sync"

// readyQueue is actors_to_run: a stable FIFO so that, within one
// maestro turn, the order simcalls are answered matches the order
// issuers appear here (§5 ordering guarantee). Adapted from the
// teacher's mutex-backed ChunkedIngress — a plain mutex + slice beats
// lock-free under the contention profile this module actually needs
// (occasional concurrent resource-model completions, not a hot I/O
// path), so the chunking itself is dropped; the "mutex over lock-free"
// lesson is kept.
type readyQueue struct {
	mu      sync.Mutex
	items   []*Actor
	inQueue map[uint64]bool // de-dupes: an actor can only be queued once
}

func newReadyQueue() *readyQueue {
	return &readyQueue{inQueue: make(map[uint64]bool)}
}

// push appends a to the back of the queue, unless it's already queued.
func (q *readyQueue) push(a *Actor) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.inQueue[a.PID()] {
		return
	}
	q.inQueue[a.PID()] = true
	q.items = append(q.items, a)
}

// drain atomically takes the full current FIFO contents, leaving the
// queue empty for whatever gets pushed while draining.
func (q *readyQueue) drain() []*Actor {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	for _, a := range out {
		delete(q.inQueue, a.PID())
	}
	return out
}

func (q *readyQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// peek returns a snapshot of the current FIFO contents without
// draining, for callers (the liveness checker's Session bridge) that
// need to inspect the interleave set without committing to running
// it.
func (q *readyQueue) peek() []*Actor {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]*Actor, len(q.items))
	copy(out, q.items)
	return out
}

// removeOne drops exactly a from the queue, wherever it sits,
// preserving FIFO order of the rest. Reports whether a was queued.
func (q *readyQueue) removeOne(a *Actor) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.inQueue[a.PID()] {
		return false
	}
	for i, x := range q.items {
		if x == a {
			q.items = append(q.items[:i], q.items[i+1:]...)
			delete(q.inQueue, a.PID())
			return true
		}
	}
	return false
}
