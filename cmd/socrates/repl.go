package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/socratesai/socrates/internal/repl"
)

var replProject string

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start the interactive Socratic dialogue shell",
	Long: `Start an interactive shell for Socratic dialogue.

Plain text input is recorded as an answer under the current category.
Slash commands control the session:
  /use <project-id>   select a project
  /ask                generate the next question
  /status             show maturity scores
  /advance            advance the phase

Type /help in the shell for the full command list.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := repl.New(&repl.Config{
			Orchestrator: orch,
			Actor:        cfg.Actor,
			ProjectID:    replProject,
		})
		if err != nil {
			return fmt.Errorf("failed to create shell: %w", err)
		}
		return r.Run(cmd.Context())
	},
}

func init() {
	replCmd.Flags().StringVar(&replProject, "project", "", "Preselect a project by ID")
	rootCmd.AddCommand(replCmd)
}
