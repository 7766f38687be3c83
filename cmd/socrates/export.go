package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/socratesai/socrates/internal/agents"
	"github.com/socratesai/socrates/internal/orchestrator"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export <project-id>",
	Short: "Export the accumulated specification as markdown",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := orch.ProcessRequest(cmd.Context(), agents.NameDocumentAgent, orchestrator.Request{
			Action: "export_specification",
			Params: map[string]interface{}{"project_id": args[0]},
		})
		if err != nil {
			return err
		}
		markdown := result.(map[string]interface{})["markdown"].(string)

		if exportOut == "" {
			fmt.Print(markdown)
			return nil
		}
		if err := os.WriteFile(exportOut, []byte(markdown), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", exportOut, err)
		}
		color.Green("✓ Wrote %s", exportOut)
		return nil
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary <project-id>",
	Short: "Generate an executive summary of the specification",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := orch.ProcessRequest(cmd.Context(), agents.NameDocumentAgent, orchestrator.Request{
			Action: "generate_summary",
			Params: map[string]interface{}{"project_id": args[0]},
		})
		if err != nil {
			return err
		}
		fmt.Println(result.(map[string]interface{})["summary"])
		return nil
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate <project-id>",
	Short: "Generate scaffold code from the accumulated specification",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := orch.ProcessRequest(cmd.Context(), agents.NameCodeGenerator, orchestrator.Request{
			Action: "generate_code",
			Params: map[string]interface{}{"project_id": args[0]},
		})
		if err != nil {
			return err
		}
		payload := result.(map[string]interface{})
		fmt.Println(payload["code"])
		fmt.Fprintf(os.Stderr, "model=%v input_tokens=%v output_tokens=%v\n",
			payload["model"], payload["input_tokens"], payload["output_tokens"])
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Write to a file instead of stdout")
	rootCmd.AddCommand(exportCmd, summaryCmd, generateCmd)
}
