package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/socratesai/socrates/internal/ai"
	"github.com/socratesai/socrates/internal/orchestrator"
	"github.com/socratesai/socrates/internal/storage"
	"github.com/socratesai/socrates/internal/types"
)

// DocumentAgent renders the accumulated specification as documents: a
// human-readable markdown export, and an LLM-written executive summary.
type DocumentAgent struct {
	base
	store     storage.Storage
	generator ai.Generator
}

// NewDocumentAgent creates the document agent
func NewDocumentAgent(deps *Deps) *DocumentAgent {
	da := &DocumentAgent{
		store:     deps.Store,
		generator: deps.Generator,
	}
	da.base = base{
		name: NameDocumentAgent,
		actions: map[string]actionFunc{
			"generate_summary":     da.generateSummary,
			"export_specification": da.exportSpecification,
		},
	}
	return da
}

func (da *DocumentAgent) generateSummary(ctx context.Context, req orchestrator.Request) (interface{}, error) {
	projectID, err := requireString(req, "project_id")
	if err != nil {
		return nil, err
	}
	if da.generator == nil {
		return nil, fmt.Errorf("llm generator is not configured")
	}

	spec, err := da.renderSpecification(ctx, projectID)
	if err != nil {
		return nil, err
	}

	completion, err := da.generator.Generate(ctx, ai.GenerateRequest{
		Prompt:    "Summarize this project specification in three paragraphs:\n\n" + spec,
		Model:     ai.GetSimpleTaskModel(),
		ProjectID: projectID,
		Agent:     da.name,
		Operation: "generate_summary",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate summary: %w", err)
	}

	return map[string]interface{}{"summary": strings.TrimSpace(completion.Text)}, nil
}

func (da *DocumentAgent) exportSpecification(ctx context.Context, req orchestrator.Request) (interface{}, error) {
	projectID, err := requireString(req, "project_id")
	if err != nil {
		return nil, err
	}
	spec, err := da.renderSpecification(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"markdown": spec}, nil
}

// renderSpecification builds the markdown export from project fields and
// spec entries across all phases.
func (da *DocumentAgent) renderSpecification(ctx context.Context, projectID string) (string, error) {
	project, err := da.store.GetProject(ctx, projectID)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", project.Name)
	fmt.Fprintf(&b, "Owner: %s\nPhase: %s\n", project.Owner, project.Phase)
	if project.Goals != "" {
		fmt.Fprintf(&b, "\n## Goals\n\n%s\n", project.Goals)
	}

	writeSection := func(header string, items []string) {
		if len(items) == 0 {
			return
		}
		fmt.Fprintf(&b, "\n## %s\n\n", header)
		for _, item := range items {
			fmt.Fprintf(&b, "- %s\n", item)
		}
	}
	writeSection("Requirements", project.Requirements)
	writeSection("Tech Stack", project.TechStack)
	writeSection("Constraints", project.Constraints)
	writeSection("Team", project.TeamMembers)

	for _, phase := range types.Phases {
		entries, err := da.store.GetSpecEntries(ctx, projectID, phase)
		if err != nil {
			return "", err
		}
		if len(entries) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n## Phase: %s\n", phase)
		byCategory := make(map[types.Category][]*types.SpecEntry)
		for _, e := range entries {
			byCategory[e.Category] = append(byCategory[e.Category], e)
		}
		for _, category := range types.Categories {
			group := byCategory[category]
			if len(group) == 0 {
				continue
			}
			fmt.Fprintf(&b, "\n### %s\n\n", category)
			for _, e := range group {
				fmt.Fprintf(&b, "- %s (confidence %.2f)\n", e.Text, e.Confidence)
			}
		}
	}

	return b.String(), nil
}
