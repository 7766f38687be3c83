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
	projectOwner           string
	projectGoals           string
	projectIncludeArchived bool
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects",
}

var projectCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new project in the discovery phase",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		owner := projectOwner
		if owner == "" {
			owner = cfg.Actor
		}
		result, err := orch.ProcessRequest(cmd.Context(), agents.NameProjectManager, orchestrator.Request{
			Action: "create_project",
			Params: map[string]interface{}{
				"name":  args[0],
				"goals": projectGoals,
				"owner": owner,
			},
		})
		if err != nil {
			return err
		}
		project := result.(*types.Project)

		green := color.New(color.FgGreen).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()
		fmt.Printf("%s Created project %s\n", green("✓"), cyan(project.Name))
		fmt.Printf("  ID:    %s\n", project.ID)
		fmt.Printf("  Phase: %s\n", project.Phase)
		return nil
	},
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := orch.ProcessRequest(cmd.Context(), agents.NameProjectManager, orchestrator.Request{
			Action: "list_projects",
			Params: map[string]interface{}{
				"owner":            projectOwner,
				"include_archived": projectIncludeArchived,
			},
		})
		if err != nil {
			return err
		}
		projects := result.([]*types.Project)
		if len(projects) == 0 {
			fmt.Println("No projects found. Create one with: socrates project create <name>")
			return nil
		}

		gray := color.New(color.FgHiBlack).SprintFunc()
		for _, p := range projects {
			marker := " "
			if p.Archived {
				marker = gray("A")
			}
			fmt.Printf("%s %-36s %-12s %s\n", marker, p.ID, p.Phase, p.Name)
		}
		return nil
	},
}

var projectShowCmd = &cobra.Command{
	Use:   "show <project-id>",
	Short: "Show a project's details and spec entries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := orch.ProcessRequest(cmd.Context(), agents.NameProjectManager, orchestrator.Request{
			Action: "get_project",
			Params: map[string]interface{}{"project_id": args[0]},
		})
		if err != nil {
			return err
		}
		project := result.(*types.Project)

		cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
		fmt.Printf("\n%s\n", cyan(project.Name))
		fmt.Printf("  ID:          %s\n", project.ID)
		fmt.Printf("  Phase:       %s\n", project.Phase)
		if project.Owner != "" {
			fmt.Printf("  Owner:       %s\n", project.Owner)
		}
		if project.Goals != "" {
			fmt.Printf("  Goals:       %s\n", project.Goals)
		}
		printProjectList("Requirements", project.Requirements)
		printProjectList("Tech stack", project.TechStack)
		printProjectList("Constraints", project.Constraints)
		printProjectList("Team", project.TeamMembers)
		fmt.Println()
		return nil
	},
}

var projectArchiveCmd = &cobra.Command{
	Use:   "archive <project-id>",
	Short: "Archive a project (read-only afterward)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := orch.ProcessRequest(cmd.Context(), agents.NameProjectManager, orchestrator.Request{
			Action: "archive_project",
			Params: map[string]interface{}{"project_id": args[0]},
		})
		if err != nil {
			return err
		}
		color.Green("✓ Archived %s", args[0])
		return nil
	},
}

var projectDeleteCmd = &cobra.Command{
	Use:   "delete <project-id>",
	Short: "Soft-delete a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := orch.ProcessRequest(cmd.Context(), agents.NameProjectManager, orchestrator.Request{
			Action: "delete_project",
			Params: map[string]interface{}{"project_id": args[0]},
		})
		if err != nil {
			return err
		}
		color.Green("✓ Deleted %s", args[0])
		return nil
	},
}

func printProjectList(label string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Printf("  %s:\n", label)
	for _, item := range items {
		fmt.Printf("    - %s\n", item)
	}
}

func init() {
	projectCreateCmd.Flags().StringVar(&projectGoals, "goals", "", "Initial goals statement")
	projectCreateCmd.Flags().StringVar(&projectOwner, "owner", "", "Project owner (defaults to actor)")
	projectListCmd.Flags().BoolVar(&projectIncludeArchived, "archived", false, "Include archived projects")
	projectListCmd.Flags().StringVar(&projectOwner, "owner", "", "Filter by owner")

	projectCmd.AddCommand(projectCreateCmd, projectListCmd, projectShowCmd, projectArchiveCmd, projectDeleteCmd)
	rootCmd.AddCommand(projectCmd)
}
