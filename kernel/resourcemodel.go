package kernel

import (
	"container/heap"
	"context"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

// ResourceModel is the external collaborator §6 describes: it decides
// when an activity's Action completes and supplies elapsed simulated
// time. The CPU/network/disk performance models themselves are out of
// scope (§1) — this interface is their contract to the core, and
// DefaultResourceModel below is the simplest implementation that
// satisfies it deterministically enough to drive the package's own
// end-to-end tests.
type ResourceModel interface {
	// Schedule binds a freshly-started Activity to a SurfAction and
	// begins tracking its completion.
	Schedule(a *Activity) SurfAction

	// Advance moves simulated time forward to the next scheduled
	// completion, firing every Activity due at that time. Returns false
	// if nothing is scheduled.
	Advance() (now time.Duration, fired []*Activity, ok bool)

	// Now returns the current simulated time.
	Now() time.Duration
}

// DefaultResourceModel is a single-speed deterministic model: Exec
// completes after flops/speed seconds, Sleep after its duration, Comm
// completes instantly once matched (bandwidth is not modeled). It
// drives completions through a min-heap exactly like the teacher's
// timerHeap, and dispatches the resulting Post calls through a
// semaphore-bounded pool so a burst of simultaneous completions cannot
// monopolize a single maestro turn (§5).
type DefaultResourceModel struct {
	speed float64 // flops per simulated second; default 1.0

	now   time.Duration
	heap  completionHeap
	sem   *semaphore.Weighted
	seq   uint64
}

// NewDefaultResourceModel creates a model running at speed flops/sec
// (1.0 if speed <= 0), dispatching up to maxConcurrentCompletions
// completion callbacks concurrently.
func NewDefaultResourceModel(speed float64, maxConcurrentCompletions int64) *DefaultResourceModel {
	if speed <= 0 {
		speed = 1
	}
	if maxConcurrentCompletions <= 0 {
		maxConcurrentCompletions = 8
	}
	return &DefaultResourceModel{
		speed: speed,
		sem:   semaphore.NewWeighted(maxConcurrentCompletions),
	}
}

func (m *DefaultResourceModel) Now() time.Duration { return m.now }

type completion struct {
	at  time.Duration
	seq uint64 // FIFO tie-break for equal deadlines
	act *Activity
	ok  bool
	err error
}

type completionHeap []*completion

func (h completionHeap) Len() int { return len(h) }
func (h completionHeap) Less(i, j int) bool {
	if h[i].at != h[j].at {
		return h[i].at < h[j].at
	}
	return h[i].seq < h[j].seq
}
func (h completionHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *completionHeap) Push(x any)   { *h = append(*h, x.(*completion)) }
func (h *completionHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

type surfAction struct {
	model *DefaultResourceModel
	c     *completion
}

func (a *surfAction) Cancel() {
	a.model.cancel(a.c)
}

func (m *DefaultResourceModel) cancel(c *completion) {
	for i, e := range m.heap {
		if e == c {
			heap.Remove(&m.heap, i)
			return
		}
	}
}

// Schedule computes a completion deadline per activity kind and pushes
// it onto the heap.
func (m *DefaultResourceModel) Schedule(a *Activity) SurfAction {
	var delay time.Duration
	ok := true
	switch a.Kind() {
	case ExecKind:
		if a.execHost != nil && !a.execHost.IsOn() {
			ok = false
		} else {
			secs := a.execFlops / m.speed
			delay = time.Duration(secs * float64(time.Second))
		}
	case SleepKind:
		delay = a.sleepDuration
	case CommKind:
		delay = 0 // bandwidth unmodeled: completes on the next Advance
	case SyncKind:
		delay = 0
	}

	m.seq++
	c := &completion{at: m.now + delay, seq: m.seq, act: a, ok: ok}
	heap.Push(&m.heap, c)
	return &surfAction{model: m, c: c}
}

// Advance pops every completion scheduled at the next (smallest)
// deadline and fires them.
func (m *DefaultResourceModel) Advance() (time.Duration, []*Activity, bool) {
	if m.heap.Len() == 0 {
		return m.now, nil, false
	}
	next := m.heap[0].at
	if next > m.now {
		m.now = next
	}

	var fired []*Activity
	var wg sync.WaitGroup
	ctx := context.Background()
	for m.heap.Len() > 0 && m.heap[0].at <= m.now {
		c := heap.Pop(&m.heap).(*completion)
		fired = append(fired, c.act)
		_ = m.sem.Acquire(ctx, 1)
		wg.Add(1)
		go func(c *completion) {
			defer wg.Done()
			defer m.sem.Release(1)
			c.act.Post(c.ok, errOrNil(c.ok, c.act))
		}(c)
	}
	// Every completion at this instant must be fully applied — waiters
	// answered, issuers re-enqueued — before maestro resumes draining
	// actors_to_run, or the single-runner invariant (§5) would be
	// observably violated by a half-posted completion.
	wg.Wait()
	return m.now, fired, true
}

func errOrNil(ok bool, a *Activity) error {
	if ok {
		return nil
	}
	if a.Kind() == ExecKind && a.execHost != nil {
		return HostFailureError(a.execHost.Name())
	}
	return ErrNetworkFailure
}
