package kernel

import "fmt"

// SimcallKind tags the observable request an actor posts to the
// kernel. NoneKind means the actor is currently running, not blocked on
// any call — the "idle" value §3 requires.
type SimcallKind int

const (
	NoneKind SimcallKind = iota
	ExecCall
	SendCall
	RecvCall
	SleepCall
	SuspendCall
	JoinCall
	KillCall
	YieldCall
)

func (k SimcallKind) String() string {
	switch k {
	case NoneKind:
		return "none"
	case ExecCall:
		return "exec"
	case SendCall:
		return "send"
	case RecvCall:
		return "recv"
	case SleepCall:
		return "sleep"
	case SuspendCall:
		return "suspend"
	case JoinCall:
		return "join"
	case KillCall:
		return "kill"
	case YieldCall:
		return "yield"
	default:
		return "unknown"
	}
}

// Simcall is a mediated request an actor posts to maestro. While Kind
// is non-None the issuer is suspended; Answer (called by maestro or by
// an Activity's finish) clears Kind and records the result, after which
// maestro reschedules the issuer.
type Simcall struct {
	issuer *Actor
	Kind   SimcallKind
	Args   []any

	resultState ActivityState
	resultErr   error
	answered    bool
}

func newSimcall(issuer *Actor, kind SimcallKind, args ...any) *Simcall {
	return &Simcall{issuer: issuer, Kind: kind, Args: args}
}

// Issuer returns the actor that raised this simcall.
func (s *Simcall) Issuer() *Actor { return s.issuer }

// String renders the call with its arguments, used by the liveness
// checker's counter-example trace (§4.5 "each pair's executed simcall
// rendered with its arguments").
func (s *Simcall) String() string {
	return fmt.Sprintf("%s(pid=%d, args=%v)", s.Kind, s.issuer.PID(), s.Args)
}

// answer clears Kind and stores the result; idempotent.
func (s *Simcall) answer(state ActivityState, err error) {
	if s.answered {
		return
	}
	s.answered = true
	s.resultState = state
	s.resultErr = err
	s.Kind = NoneKind
}

// Result returns the terminal activity state and error the simcall was
// answered with. Only meaningful once answered.
func (s *Simcall) Result() (ActivityState, error) {
	return s.resultState, s.resultErr
}

// Answered reports whether the simcall has been answered yet.
func (s *Simcall) Answered() bool { return s.answered }
