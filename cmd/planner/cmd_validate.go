package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meridianautonomy/planner/core"
	"github.com/meridianautonomy/planner/stages"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <scenario-file>...",
		Short: "Statically check scenario definitions",
		Long: `validate loads each scenario file and applies the same integrity
checks Scenario.Init enforces fatally at startup: a non-empty stage
sequence, a config block for every stage in the sequence, and a known
builder for every configured stage type.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := stages.NewRegistry()
			failed := 0
			for _, path := range args {
				if err := validateScenarioFile(path, registry); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
					failed++
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", path)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d scenario file(s) invalid", failed, len(args))
			}
			return nil
		},
	}
}

func validateScenarioFile(path string, factory core.StageFactory) error {
	cfg, err := core.LoadScenarioFile(path)
	if err != nil {
		return err
	}
	if err := core.Validate(cfg); err != nil {
		return err
	}
	// Integrity holds; make sure each configured stage can actually be
	// built, so runtime transitions cannot hit an unknown builder.
	injector := core.NewDependencyInjector()
	for _, block := range cfg.Stages {
		if _, err := factory.CreateStage(block, injector); err != nil {
			return fmt.Errorf("stage %q: %w", block.Type, err)
		}
	}
	return nil
}
