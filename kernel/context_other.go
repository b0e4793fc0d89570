//go:build !linux && !darwin

package kernel

// wakePipe falls back to a plain channel on platforms without an
// eventfd/kqueue-style self-pipe primitive. Functionally equivalent,
// just without the real syscall parking the teacher's poller uses on
// Unix.
type wakePipe struct {
	ch chan struct{}
}

func (w wakePipe) valid() bool { return w.ch != nil }

func (w wakePipe) park() error {
	<-w.ch
	return nil
}

func (w wakePipe) wake() error {
	w.ch <- struct{}{}
	return nil
}

func (w wakePipe) close() error { return nil }

// Attach adopts the calling goroutine as the actor's Context.
func (c *Context) Attach() error {
	c.attachWake = wakePipe{ch: make(chan struct{})}
	return c.attachWake.park()
}

// Detach releases an Attach-adopted goroutine.
func (c *Context) Detach() error {
	if !c.attachWake.valid() {
		return InvariantViolationError("detach called on a non-attached context")
	}
	return c.attachWake.wake()
}
