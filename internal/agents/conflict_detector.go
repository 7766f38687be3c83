package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/socratesai/socrates/internal/ai"
	"github.com/socratesai/socrates/internal/events"
	"github.com/socratesai/socrates/internal/orchestrator"
	"github.com/socratesai/socrates/internal/storage"
	"github.com/socratesai/socrates/internal/types"
)

// ConflictDetector scans the accumulated spec entries of a phase for
// contradictions, using the LLM collaborator when available and a
// negation heuristic otherwise.
type ConflictDetector struct {
	base
	store     storage.Storage
	generator ai.Generator
	bus       *events.Bus
	logger    *zap.Logger
}

// Conflict describes one detected contradiction between two entries
type Conflict struct {
	EntryA      string `json:"entry_a"`
	EntryB      string `json:"entry_b"`
	Description string `json:"description"`
}

// NewConflictDetector creates the conflict detection agent
func NewConflictDetector(deps *Deps) *ConflictDetector {
	cd := &ConflictDetector{
		store:     deps.Store,
		generator: deps.Generator,
		bus:       deps.Bus,
		logger:    deps.Logger,
	}
	cd.base = base{
		name: NameConflictDetector,
		actions: map[string]actionFunc{
			"detect_conflicts": cd.detectConflicts,
		},
	}
	return cd
}

const conflictSystemPrompt = `You review project specification entries for contradictions.
Respond with a JSON array of objects: [{"entry_a": id, "entry_b": id, "description": text}].
Respond with [] when there are no conflicts. Output only JSON.`

func (cd *ConflictDetector) detectConflicts(ctx context.Context, req orchestrator.Request) (interface{}, error) {
	projectID, err := requireString(req, "project_id")
	if err != nil {
		return nil, err
	}

	project, err := cd.store.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	entries, err := cd.store.GetSpecEntries(ctx, projectID, project.Phase)
	if err != nil {
		return nil, err
	}
	if len(entries) < 2 {
		return []Conflict{}, nil
	}

	var conflicts []Conflict
	if cd.generator != nil {
		conflicts, err = cd.detectWithLLM(ctx, projectID, entries)
		if err != nil {
			// Collaborator failure falls back to the heuristic rather than
			// failing the whole request.
			cd.logger.Warn("llm conflict detection failed, using heuristic",
				zap.String("project_id", projectID),
				zap.Error(err))
			conflicts = detectByNegation(entries)
		}
	} else {
		conflicts = detectByNegation(entries)
	}

	if len(conflicts) > 0 {
		cd.bus.Emit(events.New(events.EventTypeConflictDetected, projectID, cd.name, "conflicting spec entries found", map[string]interface{}{
			"phase": string(project.Phase),
			"count": len(conflicts),
		}))
	}
	return conflicts, nil
}

func (cd *ConflictDetector) detectWithLLM(ctx context.Context, projectID string, entries []*types.SpecEntry) ([]Conflict, error) {
	var b strings.Builder
	b.WriteString("Specification entries:\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "%s [%s]: %s\n", e.ID, e.Category, e.Text)
	}

	completion, err := cd.generator.Generate(ctx, ai.GenerateRequest{
		Prompt:    b.String(),
		System:    conflictSystemPrompt,
		Model:     ai.GetSimpleTaskModel(),
		ProjectID: projectID,
		Agent:     cd.name,
		Operation: "detect_conflicts",
	})
	if err != nil {
		return nil, err
	}

	text := strings.TrimSpace(completion.Text)
	// Tolerate fenced output
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	var conflicts []Conflict
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &conflicts); err != nil {
		return nil, fmt.Errorf("failed to parse conflict response: %w", err)
	}
	return conflicts, nil
}

// detectByNegation flags entry pairs in the same category where one entry
// negates terms the other asserts. Crude, but catches direct "must"/"must
// not" contradictions without an LLM.
func detectByNegation(entries []*types.SpecEntry) []Conflict {
	conflicts := []Conflict{}
	for i := 0; i < len(entries); i++ {
		for j := i + 1; j < len(entries); j++ {
			a, b := entries[i], entries[j]
			if a.Category != b.Category {
				continue
			}
			if negates(a.Text, b.Text) || negates(b.Text, a.Text) {
				conflicts = append(conflicts, Conflict{
					EntryA:      a.ID,
					EntryB:      b.ID,
					Description: "entries assert opposite requirements",
				})
			}
		}
	}
	return conflicts
}

func negates(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	for _, pair := range [][2]string{
		{"must not", "must"},
		{"should not", "should"},
		{"cannot", "can"},
		{"never", "always"},
	} {
		if strings.Contains(la, pair[0]) && strings.Contains(lb, pair[1]) && !strings.Contains(lb, pair[0]) {
			// Require a shared content word beyond the modal itself
			if sharesKeyword(la, lb) {
				return true
			}
		}
	}
	return false
}

func sharesKeyword(a, b string) bool {
	words := make(map[string]bool)
	for _, w := range strings.Fields(a) {
		if len(w) > 4 {
			words[w] = true
		}
	}
	for _, w := range strings.Fields(b) {
		if len(w) > 4 && words[w] {
			return true
		}
	}
	return false
}
