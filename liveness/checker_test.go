package liveness_test

import (
	"testing"

	"github.com/simkernel-go/simkernel/liveness"
	"github.com/simkernel-go/simkernel/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// togglingSession models end-to-end scenario 5 (spec §8): a one-actor
// world whose sole move flips a boolean flag every step, so p holds
// exactly every other transition.
type togglingSession struct {
	flag    bool
	initial bool
}

func newTogglingSession(initial bool) *togglingSession {
	return &togglingSession{flag: initial, initial: initial}
}

func (s *togglingSession) RestoreInitialState() error {
	s.flag = s.initial
	return nil
}

func (s *togglingSession) Observe() (state.Snapshot, map[string]bool, error) {
	return s.snapshot(), map[string]bool{"p": s.flag}, nil
}

func (s *togglingSession) Enabled() []liveness.Move {
	return []liveness.Move{{ActorPID: 1, Simcall: "toggle"}}
}

func (s *togglingSession) Execute(liveness.Move) (state.Snapshot, map[string]bool, error) {
	s.flag = !s.flag
	return s.snapshot(), map[string]bool{"p": s.flag}, nil
}

func (s *togglingSession) snapshot() state.Snapshot {
	b := []byte{0}
	if s.flag {
		b[0] = 1
	}
	return state.Capture(state.Summary{ActorsCount: 1}, b)
}

// neverPSession models end-to-end scenario 6: p never holds, however
// long the world runs.
type neverPSession struct{}

func (neverPSession) RestoreInitialState() error { return nil }
func (neverPSession) Observe() (state.Snapshot, map[string]bool, error) {
	return state.Capture(state.Summary{ActorsCount: 1}, []byte{0}), map[string]bool{"p": false}, nil
}
func (neverPSession) Enabled() []liveness.Move {
	return []liveness.Move{{ActorPID: 1, Simcall: "tick"}}
}
func (neverPSession) Execute(liveness.Move) (state.Snapshot, map[string]bool, error) {
	return state.Capture(state.Summary{ActorsCount: 1}, []byte{0}), map[string]bool{"p": false}, nil
}

// alwaysEventuallyPAutomaton is a never-claim monitor for "F G !p" —
// its negation, "G F p" ("always eventually p"), is the property under
// check; an accepting cycle here would mean GFp is violated.
const alwaysEventuallyPAutomaton = `
propositions: [p]
states:
  - {id: 0, kind: -1}
  - {id: 1, kind: 0}
  - {id: 2, kind: 1}
  - {id: 3, kind: 0}
transitions:
  - {from: 0, to: 1, label: "true"}
  - {from: 1, to: 1, label: "true"}
  - {from: 1, to: 2, label: "!p"}
  - {from: 2, to: 2, label: "!p"}
  - {from: 2, to: 3, label: "p"}
`

// eventuallyPAutomaton is a never-claim monitor for "G !p" — its
// negation, "F p" ("eventually p"), is the property under check; an
// accepting cycle here means p never holds, i.e. F p is violated.
const eventuallyPAutomaton = `
propositions: [p]
states:
  - {id: 0, kind: -1}
  - {id: 1, kind: 1}
  - {id: 2, kind: 0}
transitions:
  - {from: 0, to: 1, label: "true"}
  - {from: 1, to: 1, label: "!p"}
  - {from: 1, to: 2, label: "p"}
`

func TestCheckerNoViolationWhenPropertyHolds(t *testing.T) {
	a, err := liveness.LoadAutomatonYAML([]byte(alwaysEventuallyPAutomaton))
	require.NoError(t, err)

	session := newTogglingSession(false)
	checker := liveness.NewChecker(session, a)

	ce, err := checker.Run()
	require.NoError(t, err)
	assert.Nil(t, ce, "GF p should hold against a session that toggles p every step")
}

func TestCheckerReportsAcceptanceCycleWhenPropertyViolated(t *testing.T) {
	a, err := liveness.LoadAutomatonYAML([]byte(eventuallyPAutomaton))
	require.NoError(t, err)

	checker := liveness.NewChecker(neverPSession{}, a)
	ce, err := checker.Run()
	require.NoError(t, err)
	require.NotNil(t, ce, "F p is violated by a session where p never holds")
	assert.GreaterOrEqual(t, ce.Depth, 1)
	assert.NotEmpty(t, ce.Trace())
}

func TestCheckerRespectsMaxVisitedStates(t *testing.T) {
	a, err := liveness.LoadAutomatonYAML([]byte(alwaysEventuallyPAutomaton))
	require.NoError(t, err)

	session := newTogglingSession(false)
	checker := liveness.NewChecker(session, a, liveness.WithMaxVisitedStates(2))

	// Should terminate (not hang) and not panic even under a very tight
	// visited-pair bound.
	_, err = checker.Run()
	assert.NoError(t, err)
}

func TestCheckerDotOutput(t *testing.T) {
	a, err := liveness.LoadAutomatonYAML([]byte(eventuallyPAutomaton))
	require.NoError(t, err)

	checker := liveness.NewChecker(neverPSession{}, a, liveness.WithDotOutput())
	_, err = checker.Run()
	require.NoError(t, err)
	assert.Contains(t, checker.DotGraph(), "digraph liveness")
}
