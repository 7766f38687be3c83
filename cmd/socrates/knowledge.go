package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/socratesai/socrates/internal/agents"
	"github.com/socratesai/socrates/internal/orchestrator"
	"github.com/socratesai/socrates/internal/types"
)

var (
	kbProject string
	kbFile    string
	kbTopK    int
)

var kbCmd = &cobra.Command{
	Use:   "kb",
	Short: "Manage the knowledge base",
	Long: `Manage knowledge base documents.

Documents attached to a project are indexed in that project's collection;
documents without a project go to the shared knowledge collection.`,
}

var kbAddCmd = &cobra.Command{
	Use:   "add <title> [content]",
	Short: "Add a document to the knowledge base",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		content := ""
		if len(args) == 2 {
			content = args[1]
		}
		if kbFile != "" {
			data, err := os.ReadFile(kbFile)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", kbFile, err)
			}
			content = string(data)
		}
		if content == "" {
			return fmt.Errorf("provide content as an argument or with --file")
		}

		result, err := orch.ProcessRequest(cmd.Context(), agents.NameKnowledgeManager, orchestrator.Request{
			Action: "add_document",
			Params: map[string]interface{}{
				"title":      args[0],
				"content":    content,
				"project_id": kbProject,
			},
		})
		if err != nil {
			return err
		}
		doc := result.(*types.KnowledgeDocument)
		color.Green("✓ Indexed document %s", doc.ID)
		return nil
	},
}

var kbSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the knowledge base",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := orch.ProcessRequest(cmd.Context(), agents.NameKnowledgeManager, orchestrator.Request{
			Action: "search_documents",
			Params: map[string]interface{}{
				"query":      args[0],
				"project_id": kbProject,
				"top_k":      kbTopK,
			},
		})
		if err != nil {
			return err
		}
		matches := result.([]map[string]interface{})
		if len(matches) == 0 {
			fmt.Println("No matching documents.")
			return nil
		}

		gray := color.New(color.FgHiBlack).SprintFunc()
		for _, m := range matches {
			doc := m["document"].(*types.KnowledgeDocument)
			score := m["score"].(float64)
			fmt.Printf("%.3f  %-36s %s\n", score, doc.ID, doc.Title)
			if len(doc.Content) > 0 {
				fmt.Printf("       %s\n", gray(snippet(doc.Content, 100)))
			}
		}
		return nil
	},
}

var kbListCmd = &cobra.Command{
	Use:   "list",
	Short: "List knowledge base documents",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := orch.ProcessRequest(cmd.Context(), agents.NameKnowledgeManager, orchestrator.Request{
			Action: "list_documents",
			Params: map[string]interface{}{"project_id": kbProject},
		})
		if err != nil {
			return err
		}
		docs := result.([]*types.KnowledgeDocument)
		if len(docs) == 0 {
			fmt.Println("No documents.")
			return nil
		}
		for _, doc := range docs {
			fmt.Printf("%-36s %s\n", doc.ID, doc.Title)
		}
		return nil
	},
}

var kbDeleteCmd = &cobra.Command{
	Use:   "delete <document-id>",
	Short: "Delete a document from store and index",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := orch.ProcessRequest(cmd.Context(), agents.NameKnowledgeManager, orchestrator.Request{
			Action: "delete_document",
			Params: map[string]interface{}{"document_id": args[0]},
		})
		if err != nil {
			return err
		}
		color.Green("✓ Deleted %s", args[0])
		return nil
	},
}

// snippet returns the first n characters of s on a single line
func snippet(s string, n int) string {
	out := make([]rune, 0, n)
	for _, r := range s {
		if r == '\n' {
			r = ' '
		}
		out = append(out, r)
		if len(out) >= n {
			break
		}
	}
	return string(out)
}

func init() {
	kbCmd.PersistentFlags().StringVar(&kbProject, "project", "", "Scope to a project's collection")
	kbAddCmd.Flags().StringVar(&kbFile, "file", "", "Read document content from a file")
	kbSearchCmd.Flags().IntVar(&kbTopK, "top-k", 10, "Maximum number of results")

	kbCmd.AddCommand(kbAddCmd, kbSearchCmd, kbListCmd, kbDeleteCmd)
	rootCmd.AddCommand(kbCmd)
}
