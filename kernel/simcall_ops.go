package kernel

import (
	"math"
	"time"
)

// block is the common tail shared by every blocking simcall helper: it
// wires act as the actor's sole waiting_synchro, registers s as a
// waiter, yields to maestro, and re-raises any pending exception on
// return (§4.2, §4.3, §7).
func (a *Actor) block(act *Activity, kind SimcallKind, args ...any) (ActivityState, error) {
	s := newSimcall(a, kind, args...)
	a.waitOn(act)
	act.AddWaiter(s)
	a.ctx.Suspend()
	a.clearWait(act)
	a.yieldPoint()
	return s.Result()
}

// Exec blocks the actor until flops of computation complete on its
// host.
func (a *Actor) Exec(flops float64) error {
	act := NewExec(a.maestro, a.Host(), flops)
	act.Start(a.maestro.resourceModel.Schedule(act))
	_, err := a.block(act, ExecCall, flops)
	return err
}

// Sleep blocks the actor for simulated duration d.
func (a *Actor) Sleep(d time.Duration) error {
	act := NewSleep(a.maestro, d)
	act.Start(a.maestro.resourceModel.Schedule(act))
	_, err := a.block(act, SleepCall, d)
	return err
}

// Send blocks until buf is delivered to mbx (matched with a pending
// Recv), per the Comm FIFO-matching discipline (§4.2).
func (a *Actor) Send(mbx string, buf any) error {
	act := a.maestro.postSend(mbx, buf)
	a.addPendingComm(act)
	defer a.removePendingComm(act)
	_, err := a.block(act, SendCall, mbx, buf)
	return err
}

// Recv blocks until a value is received from mbx, returning the
// delivered buffer.
func (a *Actor) Recv(mbx string) (any, error) {
	act := a.maestro.postRecv(mbx)
	a.addPendingComm(act)
	defer a.removePendingComm(act)
	_, err := a.block(act, RecvCall, mbx)
	if err != nil {
		return nil, err
	}
	return act.Buffer(), nil
}

// infiniteWait approximates an unbounded Join timeout; the resource
// model still needs a concrete deadline to put on its heap, but any
// on-exit hook firing first completes the join long before this fires.
const infiniteWait = time.Duration(math.MaxInt64)

// Join blocks until target finishes, or timeout elapses (timeout <= 0
// means wait indefinitely). Installs an on-exit hook on target that
// completes the underlying Sleep early (§4.3).
func (a *Actor) Join(target *Actor, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = infiniteWait - a.maestro.Now()
	}
	act := NewSleep(a.maestro, timeout)
	if target.IsFinished() {
		act.Start(a.maestro.resourceModel.Schedule(act))
		act.finish(StateDone, nil)
	} else {
		target.OnExit(func(bool) { act.finish(StateDone, nil) })
		act.Start(a.maestro.resourceModel.Schedule(act))
	}
	_, err := a.block(act, JoinCall, target.pid, timeout)
	return err
}

// KillSelfOrOther raises a KillCall simcall that maestro answers
// synchronously (kill is not itself a blocking activity).
func (a *Actor) KillSelfOrOther(target *Actor) {
	s := newSimcall(a, KillCall, target.pid)
	a.maestro.Kill(target)
	s.answer(StateDone, nil)
}

// Yield is the bare cooperative yield: re-enqueues the actor onto
// actors_to_run and gives maestro a turn, without blocking on any
// activity.
func (a *Actor) Yield() {
	a.maestro.enqueueReady(a)
	a.ctx.Suspend()
	a.yieldPoint()
}
