// Package config loads the scenario/configuration file consumed by
// cmd/simkernel-mc (§6 "CLI / config" contract): a property-file path,
// a max-visited-states bound, a checkpoint interval, an optional
// dot-output path, and the table of actor entries to spawn at t=0.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// ActorEntry names one actor to create when the scenario starts: which
// Go-registered entry point to run, which host to place it on, and any
// string properties forwarded to the actor (mirrors
// kernel.CreateArgs.Properties).
type ActorEntry struct {
	Name       string            `toml:"name"`
	Entry      string            `toml:"entry"`
	Host       string            `toml:"host"`
	Daemon     bool              `toml:"daemon"`
	Properties map[string]string `toml:"properties"`
}

// Scenario is the parsed contents of a scenario/config TOML file.
type Scenario struct {
	// PropertyFile is the path to the liveness property automaton (YAML),
	// empty if the run has no liveness checking attached.
	PropertyFile string `toml:"property_file"`
	// MaxVisitedStates bounds the checker's visited-pair set; 0 means
	// unbounded.
	MaxVisitedStates int `toml:"max_visited_states"`
	// CheckpointInterval enables direct-snapshot restore every N pairs
	// along the current DFS path; 0 disables checkpointing.
	CheckpointInterval int `toml:"checkpoint_interval"`
	// DotOutput, if set, is the path the exploration graph is rendered
	// to in GraphViz dot format.
	DotOutput string `toml:"dot_output"`

	Actors []ActorEntry `toml:"actors"`
}

// Load reads and parses a scenario file from path.
func Load(path string) (*Scenario, error) {
	var s Scenario
	if _, err := toml.DecodeFile(path, &s); err != nil {
		return nil, fmt.Errorf("config: decoding %s: %w", path, err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadBytes parses scenario data already read into memory (used by
// tests and by callers that source config from somewhere other than
// the filesystem).
func LoadBytes(data []byte) (*Scenario, error) {
	var s Scenario
	if _, err := toml.Decode(string(data), &s); err != nil {
		return nil, fmt.Errorf("config: decoding: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Scenario) validate() error {
	if s.MaxVisitedStates < 0 {
		return fmt.Errorf("config: max_visited_states must be >= 0, got %d", s.MaxVisitedStates)
	}
	if s.CheckpointInterval < 0 {
		return fmt.Errorf("config: checkpoint_interval must be >= 0, got %d", s.CheckpointInterval)
	}
	seen := make(map[string]bool, len(s.Actors))
	for _, a := range s.Actors {
		if a.Name == "" {
			return fmt.Errorf("config: actor entry missing name")
		}
		if a.Entry == "" {
			return fmt.Errorf("config: actor %q missing entry", a.Name)
		}
		if seen[a.Name] {
			return fmt.Errorf("config: duplicate actor name %q", a.Name)
		}
		seen[a.Name] = true
	}
	return nil
}

// HasLivenessCheck reports whether this scenario attaches the liveness
// checker (i.e. names a property file).
func (s *Scenario) HasLivenessCheck() bool { return s.PropertyFile != "" }
