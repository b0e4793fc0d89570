package commands

import (
	"fmt"

	"github.com/simkernel-go/simkernel/config"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a scenario to completion",
	Long:  `Load a scenario file, deploy its actors, and run the scheduler until quiescence.`,
	RunE:  runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	s, err := config.Load(scenarioPath)
	if err != nil {
		return err
	}
	applyOverrides(s)

	m, err := deploy(s)
	if err != nil {
		return err
	}
	if err := m.Run(); err != nil {
		return err
	}
	fmt.Printf("run %s completed at t=%s\n", m.RunID, m.Now())
	return nil
}
