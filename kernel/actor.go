package kernel

import (
	"sync"
	"sync/atomic"
	"time"
)

// ActorCode is user actor code: it runs on the actor's Context until it
// returns, at which point the actor exits.
type ActorCode func(self *Actor)

// CreateArgs captures everything Actor.restart needs to re-create an
// equivalent actor: name, code, user data, host, properties, and the
// auto-restart/kill-time/on-exit configuration carried forward (§4.3
// restart). KillTime is an absolute simulated-time deadline; nil means
// no kill timer is scheduled.
type CreateArgs struct {
	Name        string
	Code        ActorCode
	Data        any
	Host        *Host
	Properties  map[string]string
	AutoRestart bool
	KillTime    *time.Duration
	OnExitHooks []func(failed bool)
}

// Actor is a simulated process: identity, placement, a Context, and the
// scheduling bookkeeping maestro and the checker need.
type Actor struct {
	maestro *Maestro
	ctx     *Context

	pid  uint64
	ppid uint64
	args CreateArgs

	mu                 sync.Mutex
	suspended          bool
	finished           bool
	daemon             bool
	waitingSynchro     *Activity
	pendingComms       []*Activity // outbound comms not yet matched
	onExitHooks        []func(failed bool)
	onTerminationHooks []func()
	pendingExc         error
	killTimerActive    bool
}

// PID returns the actor's globally unique, monotonically assigned process id.
func (a *Actor) PID() uint64 { return a.pid }

// PPID returns the parent actor's pid (maestro's pid if created at top level).
func (a *Actor) PPID() uint64 { return a.ppid }

// Name returns the actor's human-readable name.
func (a *Actor) Name() string { return a.args.Name }

// Host returns the host this actor is resident on.
func (a *Actor) Host() *Host { return a.args.Host }

// Data returns the user data pointer passed at creation.
func (a *Actor) Data() any { return a.args.Data }

// IsSuspended reports whether the actor is currently suspended.
func (a *Actor) IsSuspended() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.suspended
}

// IsFinished reports whether the actor has exited. Monotonic: once
// true, Finished never returns false again for this Actor.
func (a *Actor) IsFinished() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.finished
}

// IsDaemon reports the daemon flag.
func (a *Actor) IsDaemon() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.daemon
}

// Daemonize marks the actor as a daemon: it is ignored when computing
// "is any non-daemon still alive".
func (a *Actor) Daemonize() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.daemon = true
}

// Undaemonize clears the daemon flag. Daemonize();Undaemonize() is
// identity.
func (a *Actor) Undaemonize() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.daemon = false
}

// OnExit registers hook to run, in LIFO order, during the exit path,
// passed whether the exit was caused by a forceful kill.
func (a *Actor) OnExit(hook func(failed bool)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onExitHooks = append(a.onExitHooks, hook)
}

// OnTermination registers hook to run, in LIFO order, as exit's final
// step (§4.3 step 7) — after on-exit hooks and registry cleanup, distinct
// from OnExit, which runs earlier and is the user-facing hook list.
func (a *Actor) OnTermination(hook func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onTerminationHooks = append(a.onTerminationHooks, hook)
}

// waitOn installs activity as the actor's sole waiting_synchro,
// enforcing "at most one waiting_synchro at a time".
func (a *Actor) waitOn(act *Activity) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.waitingSynchro = act
}

func (a *Actor) clearWait(act *Activity) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.waitingSynchro == act {
		a.waitingSynchro = nil
	}
}

// WaitingSynchro returns the activity the actor is currently blocked
// on, or nil.
func (a *Actor) WaitingSynchro() *Activity {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.waitingSynchro
}

// addPendingComm / removePendingComm track outbound comms so the exit
// path can cancel them (§4.3 exit step 4).
func (a *Actor) addPendingComm(c *Activity) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pendingComms = append(a.pendingComms, c)
}

func (a *Actor) removePendingComm(c *Activity) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i, p := range a.pendingComms {
		if p == c {
			a.pendingComms = append(a.pendingComms[:i], a.pendingComms[i+1:]...)
			return
		}
	}
}

// failWaitingActivity cancels the actor's current waiting activity with
// a host-failure cause; called by Host.TurnOff.
func (a *Actor) failWaitingActivity(err error) {
	w := a.WaitingSynchro()
	if w == nil {
		return
	}
	w.finish(StateFailed, err)
}

// Suspend is idempotent: it parks the actor on a suspended placeholder
// Exec activity if it isn't already waiting on anything, per §4.3.
func (a *Actor) Suspend() {
	a.mu.Lock()
	if a.suspended {
		a.mu.Unlock()
		return
	}
	a.suspended = true
	needsPlaceholder := a.waitingSynchro == nil
	a.mu.Unlock()

	if needsPlaceholder {
		ph := newPlaceholderExec(a.maestro, a.Host())
		a.waitOn(ph)
		ph.Start(nil)
		ph.Suspend()
		s := newSimcall(a, SuspendCall)
		ph.AddWaiter(s)
		a.ctx.Suspend()
		a.clearWait(ph)
		a.yieldPoint()
		return
	}
	a.ctx.Suspend()
	a.yieldPoint()
}

// Resume is the idempotent inverse of Suspend; ignored if the actor is
// being killed (iwannadie).
func (a *Actor) Resume() {
	if a.ctx.IWannaDie() {
		return
	}
	a.mu.Lock()
	if !a.suspended {
		a.mu.Unlock()
		return
	}
	a.suspended = false
	ph := a.waitingSynchro
	a.mu.Unlock()

	if ph != nil && ph.Kind() == ExecKind && ph.Invisible() {
		ph.Cancel()
		a.clearWait(ph)
	}
	a.maestro.enqueueReady(a)
}

// ThrowException stores err as the actor's pending exception, resumes
// it if suspended, and cancels whatever it was waiting on — removing it
// from the pendingComms list first if it was a Comm, per §4.3.
func (a *Actor) ThrowException(err error) {
	a.mu.Lock()
	a.pendingExc = err
	w := a.waitingSynchro
	a.mu.Unlock()

	if w != nil {
		if w.Kind() == CommKind {
			a.removePendingComm(w)
		}
		w.Cancel()
	}
	a.Resume()
}

// takePendingException returns and clears the stored exception; called
// at the Context yield-return boundary to re-raise it (§7).
func (a *Actor) takePendingException() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	err := a.pendingExc
	a.pendingExc = nil
	return err
}

// yieldPoint is called by user code (via the helper wrappers in
// simcall_ops.go) after every suspension point, re-raising any pending
// exception as a panic. It does not read iwannadie itself: a kill
// reaches it as the ForcefulKill exception Maestro.Kill injects.
func (a *Actor) yieldPoint() {
	if err := a.takePendingException(); err != nil {
		panic(err)
	}
}

var pidCounter atomic.Uint64

func nextPID() uint64 { return pidCounter.Add(1) }
