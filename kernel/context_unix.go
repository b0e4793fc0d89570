//go:build linux || darwin

package kernel

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// wakePipe is the self-pipe used to park an Attach-adopted OS thread
// and later wake it for Detach, grounded on the teacher's eventfd-based
// wake mechanism for its I/O poller. Unlike goroutine mode (two channel
// batons), an attached actor already owns its OS thread before
// simkernel exists, so parking it uses a real blocking syscall instead
// of a channel receive.
type wakePipe struct {
	readFD, writeFD int
}

func newWakePipe() (wakePipe, error) {
	fd, err := unix.Eventfd(0, unix.EFD_CLOEXEC)
	if err != nil {
		return wakePipe{}, fmt.Errorf("simkernel: create wake pipe: %w", err)
	}
	return wakePipe{readFD: fd, writeFD: fd}, nil
}

func (w wakePipe) valid() bool { return w.readFD > 0 }

// park blocks the calling (adopted) thread until wake is called.
func (w wakePipe) park() error {
	var buf [8]byte
	for {
		_, err := unix.Read(w.readFD, buf[:])
		if err == unix.EINTR {
			continue
		}
		return err
	}
}

// wake releases one park call.
func (w wakePipe) wake() error {
	buf := [8]byte{0, 0, 0, 0, 0, 0, 0, 1}
	_, err := unix.Write(w.writeFD, buf[:])
	return err
}

func (w wakePipe) close() error {
	if w.readFD <= 0 {
		return nil
	}
	return unix.Close(w.readFD)
}

// Attach adopts the calling OS thread as the actor's Context, blocking
// it on a self-pipe rather than a channel until the first Resume.
func (c *Context) Attach() error {
	wp, err := newWakePipe()
	if err != nil {
		return err
	}
	c.attachWake = wp
	return c.attachWake.park()
}

// Detach releases an Attach-adopted thread; called by maestro once the
// simulation has finished and the caller should unblock.
func (c *Context) Detach() error {
	if !c.attachWake.valid() {
		return InvariantViolationError("detach called on a non-attached context")
	}
	defer func() { _ = c.attachWake.close() }()
	return c.attachWake.wake()
}
