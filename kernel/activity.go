package kernel

import (
	"sync"
	"time"
)

// ActivityKind tags the four blocking-work variants. Go has no tagged
// unions, so one struct carries all variant payloads and the accessors
// below assert Kind before returning them — the closest equivalent to
// the spec's "one sum type, matched at finish/cancel sites".
type ActivityKind int

const (
	ExecKind ActivityKind = iota
	CommKind
	SleepKind
	SyncKind
)

func (k ActivityKind) String() string {
	switch k {
	case ExecKind:
		return "exec"
	case CommKind:
		return "comm"
	case SleepKind:
		return "sleep"
	case SyncKind:
		return "sync"
	default:
		return "unknown"
	}
}

// ActivityState is the common state machine shared by every variant.
type ActivityState int

const (
	StateNew ActivityState = iota
	StateWaiting
	StateRunning
	StateSuspended
	StateDone
	StateFailed
	StateCanceled
)

func (s ActivityState) String() string {
	switch s {
	case StateNew:
		return "NEW"
	case StateWaiting:
		return "WAITING"
	case StateRunning:
		return "RUNNING"
	case StateSuspended:
		return "SUSPENDED"
	case StateDone:
		return "DONE"
	case StateFailed:
		return "FAILED"
	case StateCanceled:
		return "CANCELED"
	default:
		return "UNKNOWN"
	}
}

func (s ActivityState) Terminal() bool {
	return s == StateDone || s == StateFailed || s == StateCanceled
}

// runQueue is the subset of maestro's scheduling surface an Activity
// needs in order to reschedule issuers on completion, without importing
// maestro's whole turn machinery into the activity state machine.
type runQueue interface {
	enqueueReady(a *Actor)
}

// Activity is a blocking unit of simulated work: Exec, Comm, Sleep, or
// Sync. Once terminal its State never changes again and Simcalls is
// drained, per the spec's activity invariants.
type Activity struct {
	mu      sync.Mutex
	kind    ActivityKind
	state   ActivityState
	queue   runQueue
	action  SurfAction // resource-model handle, §6 external collaborator
	waiters []*Simcall // simcalls awaiting this activity's completion

	// Exec payload.
	execHost  *Host
	execFlops float64

	// Comm payload.
	commSrcMailbox string
	commDstMailbox string
	commBuffer     any
	commPeer       *Activity // the matched opposite-direction Comm, if any

	// Sleep payload.
	sleepDuration time.Duration

	// invisible marks the zero-duration placeholder Exec
	// SimGrid-style implementations back a bare suspend() with — per
	// Open Question #2 it must never appear in the checker's enabled
	// transition set.
	invisible bool

	err error // non-nil iff state == StateFailed or StateCanceled
}

// SurfAction is the resource-model handle an Activity is bound to; the
// resource/performance model (out of scope per §1) owns when it
// completes and calls Post. Modeled as an interface so Activity need
// not import the (external) resource-model package.
type SurfAction interface {
	// Cancel asks the resource model to abandon this action early.
	Cancel()
}

func newActivity(kind ActivityKind, q runQueue) *Activity {
	return &Activity{kind: kind, queue: q, state: StateNew}
}

// NewExec creates an Exec activity bound to host, sized in flops.
func NewExec(q runQueue, host *Host, flops float64) *Activity {
	a := newActivity(ExecKind, q)
	a.execHost = host
	a.execFlops = flops
	return a
}

// newPlaceholderExec creates the invisible zero-flop Exec that backs a
// bare Actor.Suspend call when the actor wasn't already waiting on
// anything (§4.2).
func newPlaceholderExec(q runQueue, host *Host) *Activity {
	a := NewExec(q, host, 0)
	a.invisible = true
	return a
}

// NewComm creates a Comm activity between two mailboxes carrying buf.
func NewComm(q runQueue, srcMailbox, dstMailbox string, buf any) *Activity {
	a := newActivity(CommKind, q)
	a.commSrcMailbox = srcMailbox
	a.commDstMailbox = dstMailbox
	a.commBuffer = buf
	return a
}

// NewSleep creates a Sleep activity for the given duration.
func NewSleep(q runQueue, d time.Duration) *Activity {
	a := newActivity(SleepKind, q)
	a.sleepDuration = d
	return a
}

// NewSync creates a raw synchronization activity.
func NewSync(q runQueue) *Activity {
	return newActivity(SyncKind, q)
}

func (a *Activity) Kind() ActivityKind { return a.kind }

func (a *Activity) State() ActivityState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Invisible reports whether this activity must be hidden from the
// checker's interleave-set enumeration (Open Question #2).
func (a *Activity) Invisible() bool { return a.invisible }

// Err returns the terminal error, if any (nil for DONE or non-terminal).
func (a *Activity) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.err
}

// Buffer returns the Comm payload; panics if called on a non-Comm.
func (a *Activity) Buffer() any {
	if a.kind != CommKind {
		panic(InvariantViolationError("Buffer called on a non-Comm activity"))
	}
	return a.commBuffer
}

// Mailboxes returns the Comm source/destination mailbox names.
func (a *Activity) Mailboxes() (src, dst string) {
	if a.kind != CommKind {
		panic(InvariantViolationError("Mailboxes called on a non-Comm activity"))
	}
	return a.commSrcMailbox, a.commDstMailbox
}

// Start transitions a new Activity to RUNNING, binding its SurfAction.
// Fails immediately (transitioning to FAILED) if the Exec's host is off.
func (a *Activity) Start(action SurfAction) {
	a.mu.Lock()
	if a.state != StateNew {
		a.mu.Unlock()
		return
	}
	if a.kind == ExecKind && a.execHost != nil && !a.execHost.IsOn() {
		a.mu.Unlock()
		a.finish(StateFailed, HostFailureError(a.execHost.Name()))
		return
	}
	a.action = action
	a.state = StateRunning
	a.mu.Unlock()
}

// Suspend pauses a RUNNING activity.
func (a *Activity) Suspend() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state == StateRunning {
		a.state = StateSuspended
	}
}

// Resume resumes a SUSPENDED activity.
func (a *Activity) Resume() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state == StateSuspended {
		a.state = StateRunning
	}
}

// Cancel transitions any non-terminal activity to CANCELED; a no-op on
// an already-terminal activity, per the spec's cancel-from-any-state
// rule.
func (a *Activity) Cancel() {
	a.mu.Lock()
	if a.state.Terminal() {
		a.mu.Unlock()
		return
	}
	action := a.action
	a.mu.Unlock()
	if action != nil {
		action.Cancel()
	}
	a.finish(StateCanceled, ErrCancellation)
}

// Post is called by the resource model on completion: ok selects DONE
// vs FAILED.
func (a *Activity) Post(ok bool, cause error) {
	if ok {
		a.finish(StateDone, nil)
		return
	}
	a.finish(StateFailed, cause)
}

// AddWaiter registers simcall s as awaiting this activity's completion.
// If the activity is already terminal, s is answered immediately.
func (a *Activity) AddWaiter(s *Simcall) {
	a.mu.Lock()
	if a.state.Terminal() {
		state, err := a.state, a.err
		a.mu.Unlock()
		s.answer(state, err)
		if a.queue != nil {
			a.queue.enqueueReady(s.issuer)
		}
		return
	}
	a.waiters = append(a.waiters, s)
	a.mu.Unlock()
}

// RemoveWaiter drops s from the waiter list without answering it.
func (a *Activity) RemoveWaiter(s *Simcall) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i, w := range a.waiters {
		if w == s {
			a.waiters = append(a.waiters[:i], a.waiters[i+1:]...)
			return
		}
	}
}

// finish is the single point that drains Simcalls: it sets the
// terminal state once, then answers every waiter and reschedules its
// issuer, per §4.2's "finish is the single point that drains simcalls".
func (a *Activity) finish(state ActivityState, err error) {
	a.mu.Lock()
	if a.state.Terminal() {
		a.mu.Unlock()
		return
	}
	a.state = state
	a.err = err
	waiters := a.waiters
	a.waiters = nil
	a.mu.Unlock()

	for _, w := range waiters {
		w.answer(state, err)
		if a.queue != nil {
			a.queue.enqueueReady(w.issuer)
		}
	}
}
