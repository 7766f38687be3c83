package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/socratesai/socrates/internal/agents"
	"github.com/socratesai/socrates/internal/orchestrator"
	"github.com/socratesai/socrates/internal/types"
)

var noteBody string

var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Manage project notes",
}

var noteAddCmd = &cobra.Command{
	Use:   "add <project-id> <title>",
	Short: "Attach a note to a project",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := orch.ProcessRequest(cmd.Context(), agents.NameNoteManager, orchestrator.Request{
			Action: "create_note",
			Params: map[string]interface{}{
				"project_id": args[0],
				"title":      args[1],
				"body":       noteBody,
				"author":     cfg.Actor,
			},
		})
		if err != nil {
			return err
		}
		note := result.(*types.Note)
		color.Green("✓ Created note %s", note.ID)
		return nil
	},
}

var noteListCmd = &cobra.Command{
	Use:   "list <project-id>",
	Short: "List a project's notes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := orch.ProcessRequest(cmd.Context(), agents.NameNoteManager, orchestrator.Request{
			Action: "list_notes",
			Params: map[string]interface{}{"project_id": args[0]},
		})
		if err != nil {
			return err
		}
		notes := result.([]*types.Note)
		if len(notes) == 0 {
			fmt.Println("No notes.")
			return nil
		}
		for _, n := range notes {
			fmt.Printf("%-36s %s\n", n.ID, n.Title)
		}
		return nil
	},
}

var noteShowCmd = &cobra.Command{
	Use:   "show <note-id>",
	Short: "Show a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := orch.ProcessRequest(cmd.Context(), agents.NameNoteManager, orchestrator.Request{
			Action: "get_note",
			Params: map[string]interface{}{"note_id": args[0]},
		})
		if err != nil {
			return err
		}
		note := result.(*types.Note)

		cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
		fmt.Printf("\n%s\n", cyan(note.Title))
		if note.Author != "" {
			fmt.Printf("by %s, %s\n", note.Author, note.CreatedAt.Format("2006-01-02 15:04"))
		}
		fmt.Printf("\n%s\n", note.Body)
		return nil
	},
}

var noteDeleteCmd = &cobra.Command{
	Use:   "delete <note-id>",
	Short: "Delete a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := orch.ProcessRequest(cmd.Context(), agents.NameNoteManager, orchestrator.Request{
			Action: "delete_note",
			Params: map[string]interface{}{"note_id": args[0]},
		})
		if err != nil {
			return err
		}
		color.Green("✓ Deleted %s", args[0])
		return nil
	},
}

func init() {
	noteAddCmd.Flags().StringVar(&noteBody, "body", "", "Note body text")
	noteCmd.AddCommand(noteAddCmd, noteListCmd, noteShowCmd, noteDeleteCmd)
	rootCmd.AddCommand(noteCmd)
}
