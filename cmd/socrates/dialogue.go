package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/socratesai/socrates/internal/agents"
	"github.com/socratesai/socrates/internal/orchestrator"
	"github.com/socratesai/socrates/internal/types"
)

var (
	askCategory      string
	answerCategory   string
	answerConfidence float64
)

var askCmd = &cobra.Command{
	Use:   "ask <project-id>",
	Short: "Generate the next Socratic question for a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		params := map[string]interface{}{"project_id": args[0]}
		if askCategory != "" {
			params["category"] = askCategory
		}
		result, err := orch.ProcessRequest(cmd.Context(), agents.NameSocraticCounselor, orchestrator.Request{
			Action: "generate_question",
			Params: params,
		})
		if err != nil {
			return err
		}
		payload := result.(map[string]interface{})
		color.Yellow("\n%s\n", payload["question"])
		return nil
	},
}

var answerCmd = &cobra.Command{
	Use:   "answer <project-id> <text>",
	Short: "Record an answer as a spec entry",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := orch.ProcessRequest(cmd.Context(), agents.NameSocraticCounselor, orchestrator.Request{
			Action: "record_answer",
			Params: map[string]interface{}{
				"project_id": args[0],
				"answer":     args[1],
				"category":   answerCategory,
				"confidence": answerConfidence,
				"author":     cfg.Actor,
			},
		})
		if err != nil {
			return err
		}
		entry := result.(*types.SpecEntry)
		color.Green("✓ Recorded entry %s under %s (confidence %.2f)", entry.ID, entry.Category, entry.Confidence)
		return nil
	},
}

var conversationCmd = &cobra.Command{
	Use:   "conversation <project-id>",
	Short: "Show the recent dialogue history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := orch.ProcessRequest(cmd.Context(), agents.NameSocraticCounselor, orchestrator.Request{
			Action: "get_conversation",
			Params: map[string]interface{}{"project_id": args[0]},
		})
		if err != nil {
			return err
		}
		turns := result.([]*types.ConversationTurn)
		if len(turns) == 0 {
			fmt.Println("No dialogue yet. Start with: socrates ask <project-id>")
			return nil
		}

		cyan := color.New(color.FgCyan).SprintFunc()
		for _, turn := range turns {
			speaker := turn.Role
			if turn.Role == "counselor" {
				speaker = cyan("socrates")
			}
			fmt.Printf("[%s] %s: %s\n", turn.CreatedAt.Format("15:04"), speaker, turn.Content)
		}
		return nil
	},
}

func init() {
	askCmd.Flags().StringVar(&askCategory, "category", "", "Focus the question on a category (goals, requirements, constraints, tech_stack)")
	answerCmd.Flags().StringVar(&answerCategory, "category", "requirements", "Category for the recorded entry")
	answerCmd.Flags().Float64Var(&answerConfidence, "confidence", 0.7, "Confidence in [0,1]")

	rootCmd.AddCommand(askCmd, answerCmd, conversationCmd)
}
