package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "planner",
		Short: "Scenario-driven planning stage sequencer",
		Long: `planner runs a scenario stage-sequencing state machine against a
declarative scenario definition: an ordered list of stages plus per-stage
parameters. Each planning tick advances the active stage until the scenario
finishes, fails, or runs out of its tick budget.`,
	}

	rootCmd.PersistentFlags().String("config", "", "Path to a planner runtime config file")

	rootCmd.AddCommand(
		newRunCmd(),
		newValidateCmd(),
		newVersionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("planner version %s\n", version)
		},
	}
}
