package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/socratesai/socrates/internal/ai"
	"github.com/socratesai/socrates/internal/events"
	"github.com/socratesai/socrates/internal/orchestrator"
	"github.com/socratesai/socrates/internal/storage"
	"github.com/socratesai/socrates/internal/types"
)

// SocraticCounselor drives the structured elicitation dialogue: it asks
// the next question for the project's current phase and turns answers into
// categorized spec entries.
type SocraticCounselor struct {
	base
	store     storage.Storage
	generator ai.Generator
	bus       *events.Bus
	logger    *zap.Logger
}

// NewSocraticCounselor creates the dialogue agent
func NewSocraticCounselor(deps *Deps) *SocraticCounselor {
	sc := &SocraticCounselor{
		store:     deps.Store,
		generator: deps.Generator,
		bus:       deps.Bus,
		logger:    deps.Logger,
	}
	sc.base = base{
		name: NameSocraticCounselor,
		actions: map[string]actionFunc{
			"generate_question": sc.generateQuestion,
			"record_answer":     sc.recordAnswer,
			"get_conversation":  sc.getConversation,
		},
	}
	return sc
}

const counselorSystemPrompt = `You are a Socratic counselor guiding a user through project elicitation.
Ask one focused question at a time about the weakest area of the project specification.
Questions must be open-ended and specific to what is already known.`

func (sc *SocraticCounselor) generateQuestion(ctx context.Context, req orchestrator.Request) (interface{}, error) {
	projectID, err := requireString(req, "project_id")
	if err != nil {
		return nil, err
	}
	if sc.generator == nil {
		return nil, fmt.Errorf("llm generator is not configured")
	}

	project, err := sc.store.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.Archived {
		return nil, types.ErrProjectArchived
	}

	category := types.Category(req.String("category"))
	if category != "" && !category.IsValid() {
		return nil, fmt.Errorf("invalid category: %s", category)
	}

	entries, err := sc.store.GetSpecEntries(ctx, projectID, project.Phase)
	if err != nil {
		return nil, err
	}
	turns, err := sc.store.GetConversation(ctx, projectID, project.Phase, 10)
	if err != nil {
		return nil, err
	}

	completion, err := sc.generator.Generate(ctx, ai.GenerateRequest{
		Prompt:    sc.buildQuestionPrompt(project, category, entries, turns),
		System:    counselorSystemPrompt,
		ProjectID: projectID,
		Agent:     sc.name,
		Operation: "generate_question",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate question: %w", err)
	}

	question := strings.TrimSpace(completion.Text)
	turn := &types.ConversationTurn{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Phase:     project.Phase,
		Role:      "counselor",
		Content:   question,
	}
	if err := sc.store.AddConversationTurn(ctx, turn); err != nil {
		return nil, err
	}

	sc.bus.Emit(events.New(events.EventTypeQuestionGenerated, projectID, sc.name, "question generated", map[string]interface{}{
		"phase":    string(project.Phase),
		"category": string(category),
	}))
	return map[string]interface{}{
		"question": question,
		"phase":    string(project.Phase),
		"turn_id":  turn.ID,
	}, nil
}

func (sc *SocraticCounselor) recordAnswer(ctx context.Context, req orchestrator.Request) (interface{}, error) {
	projectID, err := requireString(req, "project_id")
	if err != nil {
		return nil, err
	}
	answer, err := requireString(req, "answer")
	if err != nil {
		return nil, err
	}

	category := types.Category(req.String("category"))
	if !category.IsValid() {
		return nil, fmt.Errorf("invalid category: %s", category)
	}

	confidence := 0.7
	if v, ok := req.Float("confidence"); ok {
		confidence = v
	}
	if confidence < 0 || confidence > 1 {
		return nil, fmt.Errorf("confidence must be between 0.0 and 1.0 (got %.2f)", confidence)
	}

	project, err := sc.store.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.Archived {
		return nil, types.ErrProjectArchived
	}

	turn := &types.ConversationTurn{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Phase:     project.Phase,
		Role:      "user",
		Content:   answer,
	}
	if err := sc.store.AddConversationTurn(ctx, turn); err != nil {
		return nil, err
	}

	entry := &types.SpecEntry{
		ID:         uuid.New().String(),
		ProjectID:  projectID,
		Phase:      project.Phase,
		Category:   category,
		Text:       answer,
		Confidence: confidence,
		Source:     "dialogue",
	}
	if err := sc.store.AddSpecEntry(ctx, entry); err != nil {
		return nil, err
	}

	sc.bus.Emit(events.New(events.EventTypeAnswerRecorded, projectID, sc.name, "answer recorded", map[string]interface{}{
		"phase":    string(project.Phase),
		"category": string(category),
	}))
	sc.bus.Emit(events.NewEntryAddedEvent(projectID, sc.name, entry.ID, string(project.Phase), string(category)))

	return entry, nil
}

func (sc *SocraticCounselor) getConversation(ctx context.Context, req orchestrator.Request) (interface{}, error) {
	projectID, err := requireString(req, "project_id")
	if err != nil {
		return nil, err
	}
	project, err := sc.store.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	phase := project.Phase
	if p := types.Phase(req.String("phase")); p != "" {
		if !p.IsValid() {
			return nil, fmt.Errorf("invalid phase: %s", p)
		}
		phase = p
	}

	limit, _ := req.Int("limit")
	return sc.store.GetConversation(ctx, projectID, phase, limit)
}

func (sc *SocraticCounselor) buildQuestionPrompt(project *types.Project, category types.Category, entries []*types.SpecEntry, turns []*types.ConversationTurn) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Project: %s\nPhase: %s\n", project.Name, project.Phase)
	if project.Goals != "" {
		fmt.Fprintf(&b, "Goals: %s\n", project.Goals)
	}
	if category != "" {
		fmt.Fprintf(&b, "Focus on the %s category.\n", category)
	}

	if len(entries) > 0 {
		b.WriteString("\nWhat we know so far:\n")
		for _, e := range entries {
			fmt.Fprintf(&b, "- [%s] %s\n", e.Category, e.Text)
		}
	}
	if len(turns) > 0 {
		b.WriteString("\nRecent conversation:\n")
		for _, t := range turns {
			fmt.Fprintf(&b, "%s: %s\n", t.Role, t.Content)
		}
	}

	b.WriteString("\nAsk the single most valuable next question.")
	return b.String()
}
