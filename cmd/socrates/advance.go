package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/socratesai/socrates/internal/agents"
	"github.com/socratesai/socrates/internal/orchestrator"
	"github.com/socratesai/socrates/internal/types"
)

var advanceForce bool

var advanceCmd = &cobra.Command{
	Use:   "advance <project-id>",
	Short: "Advance the project to the next phase",
	Long: `Advance the project to the next lifecycle phase.

The transition is gated on the maturity score of the current phase.
Use --force to skip the gate (the phase ordering is never skipped).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := orch.ProcessRequest(cmd.Context(), agents.NameQualityController, orchestrator.Request{
			Action: "advance_phase",
			Params: map[string]interface{}{
				"project_id": args[0],
				"force":      advanceForce,
			},
		})
		if err != nil {
			if errors.Is(err, types.ErrPhaseNotReady) {
				return fmt.Errorf("phase score is below the gate threshold (run 'socrates status %s', or use --force)", args[0])
			}
			if errors.Is(err, types.ErrInvalidPhaseTransition) {
				return fmt.Errorf("project is already in the final phase")
			}
			return err
		}
		payload := result.(map[string]interface{})
		color.Green("✓ Advanced %v → %v", payload["from"], payload["to"])
		return nil
	},
}

var conflictsCmd = &cobra.Command{
	Use:   "conflicts <project-id>",
	Short: "Scan the current phase's entries for contradictions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := orch.ProcessRequest(cmd.Context(), agents.NameConflictDetector, orchestrator.Request{
			Action: "detect_conflicts",
			Params: map[string]interface{}{"project_id": args[0]},
		})
		if err != nil {
			return err
		}
		conflicts := result.([]agents.Conflict)
		if len(conflicts) == 0 {
			color.Green("✓ No conflicts detected")
			return nil
		}
		for _, c := range conflicts {
			color.Red("✗ %s", c.Description)
			fmt.Printf("    entries: %s, %s\n", c.EntryA, c.EntryB)
		}
		return nil
	},
}

func init() {
	advanceCmd.Flags().BoolVar(&advanceForce, "force", false, "Skip the maturity gate")
	rootCmd.AddCommand(advanceCmd, conflictsCmd)
}
