package commands

import (
	"fmt"
	"os"

	"github.com/simkernel-go/simkernel/config"
	"github.com/simkernel-go/simkernel/liveness"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run a scenario under the liveness model checker",
	Long: `Load a scenario file and its property automaton, then explore every
interleaving the scheduler could choose looking for an acceptance
cycle. Exits non-zero if a liveness violation is found.`,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	s, err := config.Load(scenarioPath)
	if err != nil {
		return err
	}
	applyOverrides(s)

	if !s.HasLivenessCheck() {
		return fmt.Errorf("simkernel-mc: scenario %s declares no property_file", scenarioPath)
	}

	propertyYAML, err := os.ReadFile(s.PropertyFile)
	if err != nil {
		return fmt.Errorf("simkernel-mc: reading property file: %w", err)
	}
	automaton, err := liveness.LoadAutomatonYAML(propertyYAML)
	if err != nil {
		return err
	}

	var opts []liveness.Option
	if s.MaxVisitedStates > 0 {
		opts = append(opts, liveness.WithMaxVisitedStates(s.MaxVisitedStates))
	}
	if s.CheckpointInterval > 0 {
		opts = append(opts, liveness.WithCheckpointInterval(s.CheckpointInterval))
	}
	if s.DotOutput != "" {
		opts = append(opts, liveness.WithDotOutput())
	}

	checker := liveness.NewChecker(newMaestroSession(s), automaton, opts...)
	ce, err := checker.Run()
	if err != nil {
		return err
	}

	if s.DotOutput != "" {
		if err := os.WriteFile(s.DotOutput, []byte(checker.DotGraph()), 0o644); err != nil {
			return fmt.Errorf("simkernel-mc: writing dot output: %w", err)
		}
	}

	if ce != nil {
		fmt.Print(ce.Trace())
		return fmt.Errorf("liveness violation detected at depth %d", ce.Depth)
	}

	fmt.Println("no liveness violation found")
	return nil
}
