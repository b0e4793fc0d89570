package kernel

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Maestro is the single scheduler: it owns the actor registry, the
// destroy list, the kill-timer queue, and the mailbox table, and
// repeatedly runs ready actors, answers their simcalls, advances
// simulated time, and wakes completions, per §4.4.
type Maestro struct {
	RunID uuid.UUID

	logger        *Logger
	resourceModel ResourceModel
	mailboxes     *mailboxRegistry
	ready         *readyQueue
	killTimers    killTimerHeap

	mu            sync.Mutex // guards registry/host/destroy-list state below
	registry      map[uint64]*Actor
	toDestroy     []*Actor
	watchedHosts  map[*Host]CreateArgs // auto_restart enrollment (§4.3 exit step 2)
	hostRegistry  map[string]*Host

	selfPID uint64 // maestro's own pid, used as ppid for top-level actors
}

// NewMaestro creates an idle Maestro.
func NewMaestro(opts ...MaestroOption) *Maestro {
	cfg := resolveMaestroOptions(opts)
	return &Maestro{
		RunID:         uuid.New(),
		logger:        cfg.logger,
		resourceModel: cfg.resourceModel,
		mailboxes:     newMailboxRegistry(),
		ready:         newReadyQueue(),
		registry:      make(map[uint64]*Actor),
		watchedHosts:  make(map[*Host]CreateArgs),
		hostRegistry:  make(map[string]*Host),
		selfPID:       0,
	}
}

// Logger exposes the configured structured logger.
func (m *Maestro) Logger() *Logger { return m.logger }

// Now returns the current simulated time.
func (m *Maestro) Now() time.Duration { return m.resourceModel.Now() }

// enqueueReady implements runQueue for Activity.
func (m *Maestro) enqueueReady(a *Actor) { m.ready.push(a) }

// RegisterHost adds a host to maestro's host table, keyed by name.
func (m *Maestro) RegisterHost(h *Host) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hostRegistry[h.Name()] = h
}

// Host looks up a previously-registered host by name.
func (m *Maestro) Host(name string) *Host {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hostRegistry[name]
}

// Create allocates and starts a new actor, per §4.3. Fails with
// KindHostFailure if host is off.
func (m *Maestro) Create(args CreateArgs, parent *Actor) (*Actor, error) {
	if args.Host != nil && !args.Host.IsOn() {
		return nil, HostFailureError(args.Host.Name())
	}

	ppid := m.selfPID
	if parent != nil {
		ppid = parent.pid
	}

	a := &Actor{
		maestro:     m,
		ctx:         NewContext(),
		pid:         nextPID(),
		ppid:        ppid,
		args:        args,
		onExitHooks: append([]func(bool){}, args.OnExitHooks...),
	}

	m.mu.Lock()
	m.registry[a.pid] = a
	m.mu.Unlock()
	if args.Host != nil {
		args.Host.addResident(a)
	}

	if args.KillTime != nil {
		m.setKillTime(a, *args.KillTime)
	}

	logEvent(m.logger, "actor created", map[string]any{
		"pid": a.pid, "ppid": a.ppid, "name": args.Name,
	})

	// Start drives a's body on its own goroutine up to its first
	// suspension point (a blocking simcall, an explicit Suspend, or
	// return/panic). Whatever it blocked on — if anything — is
	// responsible for re-enqueuing it via enqueueReady when it
	// completes; there is nothing further to schedule here.
	a.ctx.Start(m.actorBody(a, args))
	return a, nil
}

// actorBody wraps user code with the exit/cleanup path (§4.3): a
// pending exception thrown before the actor's first run is re-raised
// immediately, a panic anywhere in user code (ForcefulKill or
// otherwise) is recovered, and either way exit() runs for a exactly
// once. The exit counts as failed iff iwannadie is set, i.e. the actor
// was killed.
func (m *Maestro) actorBody(a *Actor, args CreateArgs) func() {
	return func() {
		defer func() {
			recover() // a ForcefulKill (or any other) panic unwinds scope, then exit() runs
			m.exit(a, a.ctx.IWannaDie())
		}()
		if err := a.takePendingException(); err != nil {
			panic(err)
		}
		args.Code(a)
	}
}

// Kill terminates target: a no-op if already finished. Otherwise sets
// iwannadie, cancels its waiting activity, injects a ForcefulKill
// exception, and reschedules it to unwind (§4.3).
func (m *Maestro) Kill(target *Actor) {
	if target.IsFinished() {
		return
	}
	target.ctx.RequestStop()
	logEvent(m.logger, "actor killed", map[string]any{"pid": target.pid})
	target.ThrowException(ForcefulKillError(target.pid))
}

// KillAll kills every live actor except self.
func (m *Maestro) KillAll(self *Actor) {
	for _, a := range m.liveActors() {
		if a == self {
			continue
		}
		m.Kill(a)
	}
}

func (m *Maestro) liveActors() []*Actor {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Actor, 0, len(m.registry))
	for _, a := range m.registry {
		out = append(out, a)
	}
	return out
}

// Restart captures target's construction args plus its current kill
// time and on-exit hook list, kills it, and creates a fresh actor
// carrying all of it forward (§4.3: "capture current construction args
// — name, code, data, host, properties, kill time, auto-restart,
// on-exit list"). Maestro itself (pid 0) cannot be restarted.
func (m *Maestro) Restart(target *Actor) (*Actor, error) {
	if target.pid == m.selfPID {
		return nil, InvariantViolationError("maestro cannot be restarted")
	}
	args := target.args

	target.mu.Lock()
	args.OnExitHooks = append([]func(bool){}, target.onExitHooks...)
	target.mu.Unlock()

	if kt, ok := m.killTimeOf(target); ok {
		args.KillTime = &kt
	} else {
		args.KillTime = nil
	}

	m.Kill(target)
	return m.Create(args, nil)
}

// SetKillTime schedules target's forced exit at absolute simulated time t.
func (m *Maestro) SetKillTime(target *Actor, t time.Duration) {
	m.setKillTime(target, t)
}

// exit runs the full exit/cleanup path for a (§4.3). It runs on a's own
// goroutine, as the deferred tail of actorBody: by the time it is
// called the body has already returned or panicked, so there is no
// separate "stop" simcall to issue — unwinding the goroutine after exit
// returns *is* the stop.
//  1. set finished
//  2. enroll for auto-restart if host is off
//  3. run on-exit hooks LIFO, passing failed
//  4. cancel pending outbound comms
//  5. remove from registries
//  6. push onto actors_to_destroy
//  7. fire on-termination hooks LIFO with iwannadie cleared, then set it
//     again before the goroutine actually stops
func (m *Maestro) exit(a *Actor, failed bool) {
	a.mu.Lock()
	if a.finished {
		a.mu.Unlock()
		return
	}
	a.finished = true
	hooks := make([]func(bool), len(a.onExitHooks))
	copy(hooks, a.onExitHooks)
	comms := a.pendingComms
	a.pendingComms = nil
	autoRestart := a.args.AutoRestart
	host := a.args.Host
	a.mu.Unlock()

	if autoRestart && host != nil && !host.IsOn() {
		m.mu.Lock()
		m.watchedHosts[host] = a.args
		m.mu.Unlock()
	}

	for i := len(hooks) - 1; i >= 0; i-- {
		hooks[i](failed)
	}

	for _, c := range comms {
		src, dst := c.Mailboxes()
		if src != "" {
			m.unmatchComm(src, c, false)
		}
		if dst != "" {
			m.unmatchComm(dst, c, true)
		}
		c.Cancel()
	}

	m.mu.Lock()
	delete(m.registry, a.pid)
	m.mu.Unlock()
	if host != nil {
		host.removeResident(a)
	}
	m.cancelKillTimer(a)

	m.mu.Lock()
	m.toDestroy = append(m.toDestroy, a)
	m.mu.Unlock()

	a.mu.Lock()
	termHooks := make([]func(), len(a.onTerminationHooks))
	copy(termHooks, a.onTerminationHooks)
	a.mu.Unlock()

	a.ctx.ClearStop()
	for i := len(termHooks) - 1; i >= 0; i-- {
		termHooks[i]()
	}
	a.ctx.RequestStop()

	logEvent(m.logger, "actor exited", map[string]any{"pid": a.pid, "failed": failed})
}

// serviceDestroyList drops maestro's references to exited actors,
// letting them be garbage-collected once user code also drops its
// references (§3 ownership note).
func (m *Maestro) serviceDestroyList() {
	m.mu.Lock()
	m.toDestroy = nil
	m.mu.Unlock()
}

// reviveWatchedHosts re-creates actors enrolled for auto-restart whose
// host has come back on, clearing their enrollment.
func (m *Maestro) reviveWatchedHosts() {
	m.mu.Lock()
	var revive []CreateArgs
	for h, args := range m.watchedHosts {
		if h.IsOn() {
			revive = append(revive, args)
			delete(m.watchedHosts, h)
		}
	}
	m.mu.Unlock()
	for _, args := range revive {
		_, _ = m.Create(args, nil)
	}
}

// nonDaemonCount returns the number of live, non-finished, non-daemon actors.
func (m *Maestro) nonDaemonCount() int {
	n := 0
	for _, a := range m.liveActors() {
		if !a.IsDaemon() {
			n++
		}
	}
	return n
}

// LiveActorCount returns the number of actors still registered
// (created but not yet exited), for callers that only need the count
// (e.g. a liveness Session's state summary) rather than the actors
// themselves.
func (m *Maestro) LiveActorCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.registry)
}

// AllFinished reports whether every non-daemon actor has exited.
func (m *Maestro) AllFinished() bool {
	return m.nonDaemonCount() == 0
}

// DebugState renders a deterministic byte encoding of maestro's
// observable scheduling state — live pids (sorted) with their
// finished/suspended/daemon flags, plus the ready queue's current FIFO
// order — for use as raw content behind a state.Snapshot fingerprint.
// Not a full memory dump: simulated resource-model internals and
// mailbox contents are intentionally excluded, since the (pid,
// lifecycle-flag) tuple is what actually determines which move the
// checker's interleave set enumerates next.
func (m *Maestro) DebugState() []byte {
	actors := m.liveActors()
	sort.Slice(actors, func(i, j int) bool { return actors[i].PID() < actors[j].PID() })

	var b strings.Builder
	for _, a := range actors {
		fmt.Fprintf(&b, "a%d:f=%t,s=%t,d=%t;", a.PID(), a.IsFinished(), a.IsSuspended(), a.IsDaemon())
	}
	b.WriteString("|ready:")
	for _, pid := range m.ReadyPIDs() {
		fmt.Fprintf(&b, "%d,", pid)
	}
	return []byte(b.String())
}
