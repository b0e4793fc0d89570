package commands

import (
	"github.com/spf13/cobra"
)

var (
	// scenarioPath is the TOML scenario/config file (config.Load).
	scenarioPath string

	// maxVisitedOverride, when >= 0, overrides the scenario's
	// max_visited_states bound.
	maxVisitedOverride int

	// checkpointIntervalOverride, when >= 0, overrides the scenario's
	// checkpoint_interval.
	checkpointIntervalOverride int

	// dotOutputOverride, when non-empty, overrides the scenario's
	// dot_output path.
	dotOutputOverride string
)

// rootCmd is the base command for the CLI.
var rootCmd = &cobra.Command{
	Use:   "simkernel-mc",
	Short: "Discrete-event actor simulator and liveness model checker",
	Long: `simkernel-mc links the maestro scheduler and the nested-DFS
liveness checker the way a real simulator ships: load a scenario file,
run the registered actors, and optionally verify a liveness property
against every interleaving the scheduler could have chosen.`,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&scenarioPath, "scenario", "",
		"path to the scenario/config TOML file (required)",
	)
	rootCmd.PersistentFlags().IntVar(
		&maxVisitedOverride, "max-visited-states", -1,
		"override the scenario's max-visited-states bound (-1: use scenario value)",
	)
	rootCmd.PersistentFlags().IntVar(
		&checkpointIntervalOverride, "checkpoint-interval", -1,
		"override the scenario's checkpoint interval (-1: use scenario value)",
	)
	rootCmd.PersistentFlags().StringVar(
		&dotOutputOverride, "dot-output", "",
		"override the scenario's dot-output path",
	)

	_ = rootCmd.MarkPersistentFlagRequired("scenario")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(checkCmd)
}
