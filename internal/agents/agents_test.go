package agents

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/socratesai/socrates/internal/ai"
	"github.com/socratesai/socrates/internal/events"
	"github.com/socratesai/socrates/internal/orchestrator"
	"github.com/socratesai/socrates/internal/storage"
	"github.com/socratesai/socrates/internal/storage/sqlite"
	"github.com/socratesai/socrates/internal/types"
	"github.com/socratesai/socrates/internal/vector"
)

// stubGenerator returns canned completions without an API
type stubGenerator struct {
	text  string
	err   error
	calls int
}

func (g *stubGenerator) Generate(ctx context.Context, req ai.GenerateRequest) (*ai.Completion, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return &ai.Completion{
		Text:         g.text,
		Model:        "stub-model",
		InputTokens:  10,
		OutputTokens: 5,
		Duration:     time.Millisecond,
	}, nil
}

type harness struct {
	orch  *orchestrator.Orchestrator
	store storage.Storage
	bus   *events.Bus
	gen   *stubGenerator
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	store, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	index, err := vector.NewSQLiteIndex(&vector.Config{DB: store.DB()})
	if err != nil {
		t.Fatalf("Failed to create vector index: %v", err)
	}

	bus := events.NewBus(nil)
	orch := orchestrator.New(&orchestrator.Config{Bus: bus})
	gen := &stubGenerator{text: "What problem does this project solve?"}

	deps := &Deps{
		Store:     store,
		Generator: gen,
		Index:     index,
		Bus:       bus,
	}
	if err := RegisterAll(orch, deps); err != nil {
		t.Fatalf("RegisterAll failed: %v", err)
	}

	return &harness{orch: orch, store: store, bus: bus, gen: gen}
}

func (h *harness) call(t *testing.T, agent, action string, params map[string]interface{}) interface{} {
	t.Helper()
	result, err := h.orch.ProcessRequest(context.Background(), agent, orchestrator.Request{
		Action: action,
		Params: params,
	})
	if err != nil {
		t.Fatalf("%s/%s failed: %v", agent, action, err)
	}
	return result
}

func (h *harness) callErr(t *testing.T, agent, action string, params map[string]interface{}) error {
	t.Helper()
	_, err := h.orch.ProcessRequest(context.Background(), agent, orchestrator.Request{
		Action: action,
		Params: params,
	})
	if err == nil {
		t.Fatalf("%s/%s expected error, got none", agent, action)
	}
	return err
}

func (h *harness) createProject(t *testing.T) *types.Project {
	t.Helper()
	result := h.call(t, NameProjectManager, "create_project", map[string]interface{}{
		"name":  "test project",
		"owner": "alice",
	})
	return result.(*types.Project)
}

func (h *harness) recordAnswer(t *testing.T, projectID string, category types.Category, text string, confidence float64) *types.SpecEntry {
	t.Helper()
	result := h.call(t, NameSocraticCounselor, "record_answer", map[string]interface{}{
		"project_id": projectID,
		"answer":     text,
		"category":   string(category),
		"confidence": confidence,
	})
	return result.(*types.SpecEntry)
}

func TestRegisterAllRegistersTenAgents(t *testing.T) {
	h := newHarness(t)
	if n := len(h.orch.AgentNames()); n != 10 {
		t.Errorf("Expected 10 agents, got %d: %v", n, h.orch.AgentNames())
	}
}

func TestRegisterAllRequiresStore(t *testing.T) {
	orch := orchestrator.New(nil)
	if err := RegisterAll(orch, &Deps{}); err == nil {
		t.Error("Expected error for missing store")
	}
}

func TestRegisterAllDefaultsToOrchestratorBus(t *testing.T) {
	store, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	orch := orchestrator.New(nil)
	var received int
	orch.Subscribe(events.EventTypeProjectCreated, func(e *events.Event) error {
		received++
		return nil
	})

	// No bus in Deps: agents must fall back to the orchestrator's own bus
	if err := RegisterAll(orch, &Deps{Store: store}); err != nil {
		t.Fatalf("RegisterAll failed: %v", err)
	}
	_, err = orch.ProcessRequest(context.Background(), NameProjectManager, orchestrator.Request{
		Action: "create_project",
		Params: map[string]interface{}{"name": "p", "owner": "alice"},
	})
	if err != nil {
		t.Fatalf("create_project failed: %v", err)
	}
	if received != 1 {
		t.Errorf("Expected orchestrator subscribers to see agent events, got %d", received)
	}
}

func TestUnsupportedActionSurfaces(t *testing.T) {
	h := newHarness(t)
	err := h.callErr(t, NameProjectManager, "launch_rocket", nil)

	var unsupported *orchestrator.UnsupportedActionError
	if !errors.As(err, &unsupported) {
		t.Fatalf("Expected *UnsupportedActionError, got %v", err)
	}
	if unsupported.Agent != NameProjectManager || unsupported.Action != "launch_rocket" {
		t.Errorf("Unexpected error fields: %+v", unsupported)
	}
}

func TestProjectManagerLifecycle(t *testing.T) {
	h := newHarness(t)
	project := h.createProject(t)

	if project.Phase != types.PhaseDiscovery {
		t.Errorf("Expected new project in discovery, got %s", project.Phase)
	}

	// Array fields accumulate through the agent
	h.call(t, NameProjectManager, "add_requirement", map[string]interface{}{
		"project_id": project.ID, "requirement": "low latency",
	})
	h.call(t, NameProjectManager, "add_tech_stack", map[string]interface{}{
		"project_id": project.ID, "item": "sqlite",
	})
	h.call(t, NameProjectManager, "add_constraint", map[string]interface{}{
		"project_id": project.ID, "constraint": "single binary",
	})
	h.call(t, NameProjectManager, "add_team_member", map[string]interface{}{
		"project_id": project.ID, "member": "bob",
	})

	got := h.call(t, NameProjectManager, "get_project", map[string]interface{}{
		"project_id": project.ID,
	}).(*types.Project)
	if len(got.Requirements) != 1 || len(got.TechStack) != 1 || len(got.Constraints) != 1 || len(got.TeamMembers) != 1 {
		t.Errorf("Expected populated array fields, got %+v", got)
	}

	h.call(t, NameProjectManager, "archive_project", map[string]interface{}{
		"project_id": project.ID,
	})
	got = h.call(t, NameProjectManager, "get_project", map[string]interface{}{
		"project_id": project.ID,
	}).(*types.Project)
	if !got.Archived {
		t.Error("Expected archived project")
	}
}

func TestProjectManagerEmitsCreatedEvent(t *testing.T) {
	h := newHarness(t)

	var received []*events.Event
	h.bus.Subscribe(events.EventTypeProjectCreated, func(e *events.Event) error {
		received = append(received, e)
		return nil
	})

	project := h.createProject(t)
	if len(received) != 1 {
		t.Fatalf("Expected 1 project_created event, got %d", len(received))
	}
	if received[0].ProjectID != project.ID {
		t.Errorf("Expected event for project %s, got %s", project.ID, received[0].ProjectID)
	}
}

func TestGetMissingProjectWrapsSentinel(t *testing.T) {
	h := newHarness(t)
	err := h.callErr(t, NameProjectManager, "get_project", map[string]interface{}{
		"project_id": "nope",
	})

	var execErr *orchestrator.AgentExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("Expected *AgentExecutionError, got %v", err)
	}
	if !errors.Is(err, types.ErrProjectNotFound) {
		t.Error("Expected ErrProjectNotFound on the chain")
	}
}

func TestCounselorDialogue(t *testing.T) {
	h := newHarness(t)
	project := h.createProject(t)

	result := h.call(t, NameSocraticCounselor, "generate_question", map[string]interface{}{
		"project_id": project.ID,
	}).(map[string]interface{})
	if result["question"] != "What problem does this project solve?" {
		t.Errorf("Unexpected question: %v", result["question"])
	}
	if h.gen.calls != 1 {
		t.Errorf("Expected 1 LLM call, got %d", h.gen.calls)
	}

	entry := h.recordAnswer(t, project.ID, types.CategoryGoals, "automate invoicing", 0.9)
	if entry.Source != "dialogue" {
		t.Errorf("Expected dialogue source, got %q", entry.Source)
	}
	if entry.Phase != types.PhaseDiscovery {
		t.Errorf("Expected entry in current phase, got %s", entry.Phase)
	}

	// The question and answer both landed in the conversation history
	turns := h.call(t, NameSocraticCounselor, "get_conversation", map[string]interface{}{
		"project_id": project.ID,
	}).([]*types.ConversationTurn)
	if len(turns) != 2 {
		t.Fatalf("Expected 2 turns, got %d", len(turns))
	}
	if turns[0].Role != "counselor" || turns[1].Role != "user" {
		t.Errorf("Unexpected roles: %s, %s", turns[0].Role, turns[1].Role)
	}
}

func TestCounselorValidation(t *testing.T) {
	h := newHarness(t)
	project := h.createProject(t)

	// Invalid category
	err := h.callErr(t, NameSocraticCounselor, "record_answer", map[string]interface{}{
		"project_id": project.ID,
		"answer":     "text",
		"category":   "vibes",
	})
	if !errors.As(err, new(*orchestrator.AgentExecutionError)) {
		t.Errorf("Expected execution error, got %v", err)
	}

	// Out-of-range confidence
	h.callErr(t, NameSocraticCounselor, "record_answer", map[string]interface{}{
		"project_id": project.ID,
		"answer":     "text",
		"category":   string(types.CategoryGoals),
		"confidence": 1.5,
	})

	// Archived projects are read-only
	h.call(t, NameProjectManager, "archive_project", map[string]interface{}{
		"project_id": project.ID,
	})
	err = h.callErr(t, NameSocraticCounselor, "record_answer", map[string]interface{}{
		"project_id": project.ID,
		"answer":     "text",
		"category":   string(types.CategoryGoals),
	})
	if !errors.Is(err, types.ErrProjectArchived) {
		t.Errorf("Expected ErrProjectArchived, got %v", err)
	}
}

func TestCounselorEmitsEntryAdded(t *testing.T) {
	h := newHarness(t)
	project := h.createProject(t)

	var entryEvents []*events.Event
	h.bus.Subscribe(events.EventTypeEntryAdded, func(e *events.Event) error {
		entryEvents = append(entryEvents, e)
		return nil
	})

	entry := h.recordAnswer(t, project.ID, types.CategoryRequirements, "supports csv import", 0.8)
	if len(entryEvents) != 1 {
		t.Fatalf("Expected 1 entry_added event, got %d", len(entryEvents))
	}
	if entryEvents[0].Data["entry_id"] != entry.ID {
		t.Errorf("Expected entry id in event payload, got %v", entryEvents[0].Data)
	}
}

func fillPhase(t *testing.T, h *harness, projectID string) {
	t.Helper()
	for _, category := range types.Categories {
		h.recordAnswer(t, projectID, category, "first answer about "+string(category), 1.0)
		h.recordAnswer(t, projectID, category, "second answer about "+string(category), 1.0)
	}
}

func TestQualityControllerGating(t *testing.T) {
	h := newHarness(t)
	project := h.createProject(t)

	// Empty phase scores 0.0 and is not ready
	report := h.call(t, NameQualityController, "compute_maturity", map[string]interface{}{
		"project_id": project.ID,
	}).(*MaturityReport)
	if report.PhaseScore != 0.0 || report.Ready {
		t.Errorf("Expected empty phase to score 0.0 and not be ready, got %+v", report)
	}

	// Advancing below the gate fails
	err := h.callErr(t, NameQualityController, "advance_phase", map[string]interface{}{
		"project_id": project.ID,
	})
	if !errors.Is(err, types.ErrPhaseNotReady) {
		t.Errorf("Expected ErrPhaseNotReady, got %v", err)
	}

	// Two full-confidence answers per category clear the gate
	fillPhase(t, h, project.ID)
	report = h.call(t, NameQualityController, "check_phase_readiness", map[string]interface{}{
		"project_id": project.ID,
	}).(*MaturityReport)
	if !report.Ready {
		t.Fatalf("Expected phase ready, got score %v", report.PhaseScore)
	}

	result := h.call(t, NameQualityController, "advance_phase", map[string]interface{}{
		"project_id": project.ID,
	}).(map[string]interface{})
	if result["from"] != "discovery" || result["to"] != "requirements" {
		t.Errorf("Unexpected transition: %v", result)
	}

	got := h.call(t, NameProjectManager, "get_project", map[string]interface{}{
		"project_id": project.ID,
	}).(*types.Project)
	if got.Phase != types.PhaseRequirements {
		t.Errorf("Expected requirements phase, got %s", got.Phase)
	}
}

func TestQualityControllerForceAdvance(t *testing.T) {
	h := newHarness(t)
	project := h.createProject(t)

	result := h.call(t, NameQualityController, "advance_phase", map[string]interface{}{
		"project_id": project.ID,
		"force":      true,
	}).(map[string]interface{})
	if result["to"] != "requirements" {
		t.Errorf("Expected forced advance, got %v", result)
	}
}

func TestQualityControllerFinalPhase(t *testing.T) {
	h := newHarness(t)
	project := h.createProject(t)

	// Force through every phase
	for i := 0; i < len(types.Phases)-1; i++ {
		h.call(t, NameQualityController, "advance_phase", map[string]interface{}{
			"project_id": project.ID,
			"force":      true,
		})
	}

	err := h.callErr(t, NameQualityController, "advance_phase", map[string]interface{}{
		"project_id": project.ID,
		"force":      true,
	})
	if !errors.Is(err, types.ErrInvalidPhaseTransition) {
		t.Errorf("Expected ErrInvalidPhaseTransition at the final phase, got %v", err)
	}
}

func TestQualityControllerEmitsEvents(t *testing.T) {
	h := newHarness(t)
	project := h.createProject(t)
	fillPhase(t, h, project.ID)

	var ready, advanced int
	h.bus.Subscribe(events.EventTypePhaseReady, func(e *events.Event) error {
		ready++
		return nil
	})
	h.bus.Subscribe(events.EventTypePhaseAdvanced, func(e *events.Event) error {
		advanced++
		return nil
	})

	h.call(t, NameQualityController, "check_phase_readiness", map[string]interface{}{
		"project_id": project.ID,
	})
	if ready != 1 {
		t.Errorf("Expected 1 phase_ready event, got %d", ready)
	}

	h.call(t, NameQualityController, "advance_phase", map[string]interface{}{
		"project_id": project.ID,
	})
	if advanced != 1 {
		t.Errorf("Expected 1 phase_advanced event, got %d", advanced)
	}
}

func TestQualityControllerPersistsScores(t *testing.T) {
	h := newHarness(t)
	project := h.createProject(t)
	h.recordAnswer(t, project.ID, types.CategoryGoals, "one goal", 0.8)

	h.call(t, NameQualityController, "compute_maturity", map[string]interface{}{
		"project_id": project.ID,
	})

	scores, err := h.store.GetMaturityScores(context.Background(), project.ID, types.PhaseDiscovery)
	if err != nil {
		t.Fatalf("GetMaturityScores failed: %v", err)
	}
	// Four category rows plus one phase-level row
	if len(scores) != 5 {
		t.Errorf("Expected 5 persisted score rows, got %d", len(scores))
	}
}
