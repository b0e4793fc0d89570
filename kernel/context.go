package kernel

import (
	"sync"
	"sync/atomic"
)

// Context is the cooperative switch primitive between one actor and
// maestro. Exactly two logical coroutines exist per actor: maestro and
// the actor itself; at any instant either the actor runs and maestro is
// parked in Suspend, or maestro runs and the actor is parked between
// Resume calls. There is no actual OS-level coroutine switch here — Go
// has no stackful coroutines — so the handoff is modeled as two
// unbuffered batons, which gives the same strict alternation the spec
// requires without pretending to share a single stack.
type Context struct {
	// iwannadie signals maestro-initiated termination. Set through
	// RequestStop by Maestro.Kill; read by Actor.Resume (which is then
	// ignored) and by the exit path (which then reports a failed exit).
	iwannadie atomic.Bool

	toActor   chan struct{} // maestro -> actor: "you may run"
	toMaestro chan struct{} // actor -> maestro: "I yielded"

	startOnce sync.Once
	done      atomic.Bool

	// attachWake, when non-nil, backs Attach/Detach instead of the
	// channel baton pair; see context_unix.go.
	attachWake wakePipe
}

// NewContext allocates an unstarted Context.
func NewContext() *Context {
	return &Context{
		toActor:   make(chan struct{}),
		toMaestro: make(chan struct{}),
	}
}

// Start launches body on its own goroutine and blocks the calling
// goroutine (maestro) until the actor's first suspension point. body is
// the actor's entire lifetime; Start returns once it first calls
// Suspend, finishes, or panics.
func (c *Context) Start(body func()) {
	c.startOnce.Do(func() {
		go func() {
			<-c.toActor
			func() {
				defer func() {
					c.done.Store(true)
					c.toMaestro <- struct{}{}
				}()
				body()
			}()
		}()
	})
	c.toActor <- struct{}{}
	<-c.toMaestro
}

// Suspend yields from the actor back to maestro, and parks until the
// next Resume. Must only be called from the actor's own goroutine.
func (c *Context) Suspend() {
	c.toMaestro <- struct{}{}
	<-c.toActor
}

// Resume switches from maestro to the actor, and blocks until the actor
// yields again (via Suspend, return, or panic). Must only be called
// from maestro.
func (c *Context) Resume() {
	c.toActor <- struct{}{}
	<-c.toMaestro
}

// Stop unwinds the actor permanently. Maestro calls Stop instead of
// Resume once IWannaDie() is true and the actor has observed it; the
// actor's body is expected to return shortly after observing
// IWannaDie on its next Suspend return, per the
// "set iwannadie=false; run on-termination hooks; set iwannadie=true;
// stop" discipline in §4.1. Stop is unreachable after it returns: the
// actor goroutine has exited.
func (c *Context) Stop() {
	if c.done.Load() {
		return
	}
	c.Resume()
}

// RequestStop sets iwannadie.
func (c *Context) RequestStop() { c.iwannadie.Store(true) }

// ClearStop clears iwannadie, used by the exit path before running
// on-termination hooks (§4.3 step 7 first half).
func (c *Context) ClearStop() { c.iwannadie.Store(false) }

// IWannaDie reports whether maestro has requested termination.
func (c *Context) IWannaDie() bool { return c.iwannadie.Load() }

// Done reports whether the actor's body has returned.
func (c *Context) Done() bool { return c.done.Load() }
