package kernel

// Run drives the maestro loop to quiescence (§4.4): repeatedly drain
// actors_to_run, service the destroy/kill-timer bookkeeping, and — once
// nothing is ready — ask the resource model to advance simulated time.
// Returns once no non-daemon actor remains, after killing any daemons
// still alive.
func (m *Maestro) Run() error {
	for {
		for _, a := range m.ready.drain() {
			if !a.IsFinished() {
				a.ctx.Resume()
			}
		}

		m.serviceKillTimers()
		m.serviceDestroyList()
		m.reviveWatchedHosts()

		if m.ready.len() > 0 {
			continue
		}
		if m.nonDaemonCount() == 0 {
			break
		}
		if _, _, advanced := m.resourceModel.Advance(); !advanced {
			return InvariantViolationError("deadlock: no ready actor and no pending resource-model event with non-daemon actors still alive")
		}
	}
	m.killRemainingDaemons()
	return nil
}

// ReadyPIDs returns the pids of actors currently on the ready queue, in
// FIFO order — the interleave set a liveness Session adapter (§4.5)
// enumerates as its Enabled() moves.
func (m *Maestro) ReadyPIDs() []uint64 {
	ready := m.ready.peek()
	out := make([]uint64, len(ready))
	for i, a := range ready {
		out[i] = a.PID()
	}
	return out
}

// StepActor resumes exactly the ready actor pid, removing it from the
// ready queue, then services the same turn-end bookkeeping Run's main
// loop does: kill timers, destroyed actors, watched-host revival.
// Reports false if pid is not currently ready. Used by the liveness
// checker's Session bridge, which treats "which ready actor runs next"
// as one Move — a sound coarsening of the true simcall-level
// interleave set, since the scheduler never runs two ready actors
// concurrently regardless.
func (m *Maestro) StepActor(pid uint64) (bool, error) {
	a, ok := m.lookupActor(pid)
	if !ok || !m.ready.removeOne(a) {
		return false, nil
	}
	if !a.IsFinished() {
		a.ctx.Resume()
	}
	m.serviceKillTimers()
	m.serviceDestroyList()
	m.reviveWatchedHosts()
	return true, nil
}

func (m *Maestro) lookupActor(pid uint64) (*Actor, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.registry[pid]
	return a, ok
}

// killRemainingDaemons implements §4.4 step 5's tail and the shutdown
// cancellation order from §4.4: kill every surviving actor (daemons,
// by construction, since Run only reaches here once nonDaemonCount is
// zero), then drain whatever that unwinding pushed onto the ready
// queue and the destroy list.
func (m *Maestro) killRemainingDaemons() {
	for _, a := range m.liveActors() {
		m.Kill(a)
	}
	for {
		ready := m.ready.drain()
		if len(ready) == 0 {
			break
		}
		for _, a := range ready {
			if !a.IsFinished() {
				a.ctx.Resume()
			}
		}
	}
	m.serviceDestroyList()
}
