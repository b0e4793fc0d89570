package commands

import (
	"github.com/simkernel-go/simkernel/config"
	"github.com/simkernel-go/simkernel/kernel"
)

// deploy builds a fresh Maestro from a scenario, creating every named
// host and actor entry it declares. Called once for a plain run, and
// once per RestoreInitialState during liveness checking (§4.5
// "Replay" drives the whole session from t=0 each time).
func deploy(s *config.Scenario) (*kernel.Maestro, error) {
	m := kernel.NewMaestro()

	hosts := make(map[string]*kernel.Host)
	for _, ae := range s.Actors {
		if ae.Host == "" {
			continue
		}
		if _, ok := hosts[ae.Host]; !ok {
			h := kernel.NewHost(ae.Host)
			hosts[ae.Host] = h
			m.RegisterHost(h)
		}
	}

	for _, ae := range s.Actors {
		code, err := lookupEntry(ae.Entry)
		if err != nil {
			return nil, err
		}
		a, err := m.Create(kernel.CreateArgs{
			Name:       ae.Name,
			Code:       code,
			Host:       hosts[ae.Host],
			Properties: ae.Properties,
		}, nil)
		if err != nil {
			return nil, err
		}
		if ae.Daemon {
			a.Daemonize()
		}
	}
	return m, nil
}

// applyOverrides applies the root command's --max-visited-states,
// --checkpoint-interval, and --dot-output flags over the scenario's own
// values, -1/"" meaning "leave the scenario's value alone".
func applyOverrides(s *config.Scenario) {
	if maxVisitedOverride >= 0 {
		s.MaxVisitedStates = maxVisitedOverride
	}
	if checkpointIntervalOverride >= 0 {
		s.CheckpointInterval = checkpointIntervalOverride
	}
	if dotOutputOverride != "" {
		s.DotOutput = dotOutputOverride
	}
}
