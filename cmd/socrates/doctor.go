package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/socratesai/socrates/internal/agents"
	"github.com/socratesai/socrates/internal/orchestrator"
	"github.com/socratesai/socrates/internal/types"
)

var usageProject string

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check system health",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := orch.ProcessRequest(cmd.Context(), agents.NameSystemMonitor, orchestrator.Request{
			Action: "health_check",
		})
		if err != nil {
			return err
		}
		report := result.(map[string]interface{})

		if report["status"] == "ok" {
			color.Green("✓ Status: ok")
			fmt.Printf("  Uptime: %vs\n", report["uptime_seconds"])
			fmt.Println("  Agents:")
			for _, name := range report["agents"].([]string) {
				fmt.Printf("    - %s\n", name)
			}
		} else {
			color.Red("✗ Status: %v", report["status"])
			fmt.Printf("  %v\n", report["error"])
		}
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show store statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := orch.ProcessRequest(cmd.Context(), agents.NameSystemMonitor, orchestrator.Request{
			Action: "get_statistics",
		})
		if err != nil {
			return err
		}
		stats := result.(*types.Statistics)

		fmt.Printf("Projects:   %d (%d active, %d archived)\n", stats.TotalProjects, stats.ActiveProjects, stats.ArchivedProjects)
		fmt.Printf("Entries:    %d\n", stats.TotalEntries)
		fmt.Printf("Turns:      %d\n", stats.TotalTurns)
		fmt.Printf("Notes:      %d\n", stats.TotalNotes)
		fmt.Printf("Documents:  %d\n", stats.TotalDocuments)
		return nil
	},
}

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show LLM token usage and cost",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := orch.ProcessRequest(cmd.Context(), agents.NameSystemMonitor, orchestrator.Request{
			Action: "get_llm_usage",
			Params: map[string]interface{}{"project_id": usageProject},
		})
		if err != nil {
			return err
		}
		summary := result.(*types.UsageSummary)

		fmt.Printf("Calls:          %d\n", summary.Calls)
		fmt.Printf("Input tokens:   %d\n", summary.InputTokens)
		fmt.Printf("Output tokens:  %d\n", summary.OutputTokens)
		fmt.Printf("Cost:           $%.4f\n", summary.CostUSD)
		return nil
	},
}

func init() {
	usageCmd.Flags().StringVar(&usageProject, "project", "", "Scope to a single project")
	rootCmd.AddCommand(doctorCmd, statsCmd, usageCmd)
}
