package commands

import (
	"github.com/simkernel-go/simkernel/config"
	"github.com/simkernel-go/simkernel/kernel"
	"github.com/simkernel-go/simkernel/liveness"
	"github.com/simkernel-go/simkernel/state"
)

// maestroSession adapts a scenario-deployed Maestro to liveness.Session
// (§4.5): each Move is "let this one ready actor take its next turn",
// a sound coarsening of the simcall-level interleave set since the
// scheduler itself never runs two ready actors concurrently.
//
// It ships two canned propositions any property file's label
// expressions can reference — "all_done" and "ready_empty" — since a
// generic CLI has no way to observe domain-specific predicates without
// linking custom code; deployments that need richer propositions are
// expected to drive liveness.Checker directly against their own
// Session rather than through this command.
type maestroSession struct {
	scenario *config.Scenario
	m        *kernel.Maestro
}

func newMaestroSession(s *config.Scenario) *maestroSession {
	return &maestroSession{scenario: s}
}

func (s *maestroSession) RestoreInitialState() error {
	m, err := deploy(s.scenario)
	if err != nil {
		return err
	}
	s.m = m
	return nil
}

func (s *maestroSession) Observe() (state.Snapshot, map[string]bool, error) {
	return s.snapshot(), s.propositions(), nil
}

func (s *maestroSession) Enabled() []liveness.Move {
	pids := s.m.ReadyPIDs()
	moves := make([]liveness.Move, len(pids))
	for i, pid := range pids {
		moves[i] = liveness.Move{ActorPID: pid, Simcall: "step"}
	}
	return moves
}

func (s *maestroSession) Execute(mv liveness.Move) (state.Snapshot, map[string]bool, error) {
	if _, err := s.m.StepActor(mv.ActorPID); err != nil {
		return state.Snapshot{}, nil, err
	}
	return s.snapshot(), s.propositions(), nil
}

func (s *maestroSession) snapshot() state.Snapshot {
	return state.Capture(state.Summary{ActorsCount: s.m.LiveActorCount()}, s.m.DebugState())
}

func (s *maestroSession) propositions() map[string]bool {
	return map[string]bool{
		"all_done":    s.m.AllFinished(),
		"ready_empty": len(s.m.ReadyPIDs()) == 0,
	}
}
