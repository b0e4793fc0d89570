package kernel

import (
	"container/heap"
	"time"
)

// killTimerEntry fires a forced kill of actor at a given absolute
// simulated time.
type killTimerEntry struct {
	at    time.Duration
	actor *Actor
}

type killTimerHeap []*killTimerEntry

func (h killTimerHeap) Len() int            { return len(h) }
func (h killTimerHeap) Less(i, j int) bool  { return h[i].at < h[j].at }
func (h killTimerHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *killTimerHeap) Push(x any)         { *h = append(*h, x.(*killTimerEntry)) }
func (h *killTimerHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// setKillTime schedules a forced exit of a at absolute time t. A no-op
// if t is not strictly in the future, per the spec's boundary rule.
func (m *Maestro) setKillTime(a *Actor, t time.Duration) {
	now := m.resourceModel.Now()
	if t <= now {
		return
	}
	a.mu.Lock()
	a.killTimerActive = true
	a.mu.Unlock()
	heap.Push(&m.killTimers, &killTimerEntry{at: t, actor: a})
	// A waiter-less Sleep makes the resource model stop at t, so
	// serviceKillTimers runs at the kill time rather than at whatever
	// later event would otherwise be the next one.
	m.resourceModel.Schedule(NewSleep(m, t-now))
}

// serviceKillTimers fires every kill timer due at or before now.
func (m *Maestro) serviceKillTimers() {
	now := m.resourceModel.Now()
	for m.killTimers.Len() > 0 && m.killTimers[0].at <= now {
		e := heap.Pop(&m.killTimers).(*killTimerEntry)
		e.actor.mu.Lock()
		active := e.actor.killTimerActive
		e.actor.killTimerActive = false
		e.actor.mu.Unlock()
		if active && !e.actor.IsFinished() {
			m.Kill(e.actor)
		}
	}
}

func (m *Maestro) cancelKillTimer(a *Actor) {
	a.mu.Lock()
	a.killTimerActive = false
	a.mu.Unlock()
}

// killTimeOf returns a's currently scheduled absolute kill time, if any,
// for Restart (§4.3) to carry forward.
func (m *Maestro) killTimeOf(a *Actor) (time.Duration, bool) {
	a.mu.Lock()
	active := a.killTimerActive
	a.mu.Unlock()
	if !active {
		return 0, false
	}
	for _, e := range m.killTimers {
		if e.actor == a {
			return e.at, true
		}
	}
	return 0, false
}
