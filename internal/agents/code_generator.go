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

// CodeGenerator turns the accumulated specification into code via the LLM
// collaborator.
type CodeGenerator struct {
	base
	store     storage.Storage
	generator ai.Generator
}

// NewCodeGenerator creates the code generation agent
func NewCodeGenerator(deps *Deps) *CodeGenerator {
	cg := &CodeGenerator{
		store:     deps.Store,
		generator: deps.Generator,
	}
	cg.base = base{
		name: NameCodeGenerator,
		actions: map[string]actionFunc{
			"generate_code": cg.generateCode,
		},
	}
	return cg
}

const codeGenSystemPrompt = `You are a senior engineer generating code from a project specification.
Produce complete, runnable code that honors every listed requirement and constraint.
Use the specified tech stack. Explain nothing; output code with brief comments only.`

func (cg *CodeGenerator) generateCode(ctx context.Context, req orchestrator.Request) (interface{}, error) {
	projectID, err := requireString(req, "project_id")
	if err != nil {
		return nil, err
	}
	if cg.generator == nil {
		return nil, fmt.Errorf("llm generator is not configured")
	}

	project, err := cg.store.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	var allEntries []*types.SpecEntry
	for _, phase := range types.Phases {
		entries, err := cg.store.GetSpecEntries(ctx, projectID, phase)
		if err != nil {
			return nil, err
		}
		allEntries = append(allEntries, entries...)
	}

	completion, err := cg.generator.Generate(ctx, ai.GenerateRequest{
		Prompt:    cg.buildPrompt(project, allEntries, req.String("target")),
		System:    codeGenSystemPrompt,
		MaxTokens: 8192,
		ProjectID: projectID,
		Agent:     cg.name,
		Operation: "generate_code",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate code: %w", err)
	}

	return map[string]interface{}{
		"code":          completion.Text,
		"model":         completion.Model,
		"input_tokens":  completion.InputTokens,
		"output_tokens": completion.OutputTokens,
	}, nil
}

func (cg *CodeGenerator) buildPrompt(project *types.Project, entries []*types.SpecEntry, target string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Project: %s\n", project.Name)
	if project.Goals != "" {
		fmt.Fprintf(&b, "Goals: %s\n", project.Goals)
	}
	if target != "" {
		fmt.Fprintf(&b, "Generate: %s\n", target)
	}

	writeList := func(header string, items []string) {
		if len(items) == 0 {
			return
		}
		fmt.Fprintf(&b, "\n%s:\n", header)
		for _, item := range items {
			fmt.Fprintf(&b, "- %s\n", item)
		}
	}
	writeList("Requirements", project.Requirements)
	writeList("Tech stack", project.TechStack)
	writeList("Constraints", project.Constraints)

	if len(entries) > 0 {
		b.WriteString("\nElicited specification:\n")
		for _, e := range entries {
			fmt.Fprintf(&b, "- [%s/%s] %s\n", e.Phase, e.Category, e.Text)
		}
	}
	return b.String()
}
