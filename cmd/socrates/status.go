package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/socratesai/socrates/internal/agents"
	"github.com/socratesai/socrates/internal/orchestrator"
	"github.com/socratesai/socrates/internal/types"
)

var statusCmd = &cobra.Command{
	Use:   "status <project-id>",
	Short: "Show maturity scores for the project's current phase",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := orch.ProcessRequest(cmd.Context(), agents.NameQualityController, orchestrator.Request{
			Action: "compute_maturity",
			Params: map[string]interface{}{"project_id": args[0]},
		})
		if err != nil {
			return err
		}
		report := result.(*agents.MaturityReport)

		cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
		fmt.Printf("\n%s\n\n", cyan(fmt.Sprintf("=== Phase: %s ===", report.Phase)))
		for _, category := range types.Categories {
			score, ok := report.CategoryScores[category]
			if !ok {
				continue
			}
			fmt.Printf("  %-14s %s %.2f\n", category, scoreBar(score), score)
		}
		fmt.Printf("\n  Phase score: %.2f (gate %.2f)\n", report.PhaseScore, report.Threshold)

		if report.Ready {
			color.Green("\n✓ Ready to advance: socrates advance %s\n", report.ProjectID)
		} else {
			gray := color.New(color.FgHiBlack).SprintFunc()
			fmt.Printf("\n%s\n", gray("Keep answering questions to raise the score."))
		}
		return nil
	},
}

// scoreBar renders a ten-segment progress bar
func scoreBar(score float64) string {
	filled := int(score * 10)
	if filled > 10 {
		filled = 10
	}
	bar := ""
	for i := 0; i < 10; i++ {
		if i < filled {
			bar += "█"
		} else {
			bar += "░"
		}
	}
	return bar
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
