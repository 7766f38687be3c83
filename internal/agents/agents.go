// Package agents implements the ten capability agents behind the
// orchestrator's uniform call shape. Each agent owns a closed action table
// built at construction; the orchestrator never special-cases a variant.
package agents

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/socratesai/socrates/internal/ai"
	"github.com/socratesai/socrates/internal/events"
	"github.com/socratesai/socrates/internal/maturity"
	"github.com/socratesai/socrates/internal/orchestrator"
	"github.com/socratesai/socrates/internal/storage"
	"github.com/socratesai/socrates/internal/vector"
)

// Registration names for the ten agents
const (
	NameProjectManager    = "project_manager"
	NameSocraticCounselor = "socratic_counselor"
	NameCodeGenerator     = "code_generator"
	NameContextAnalyzer   = "context_analyzer"
	NameConflictDetector  = "conflict_detector"
	NameKnowledgeManager  = "knowledge_manager"
	NameDocumentAgent     = "document_agent"
	NameNoteManager       = "note_manager"
	NameSystemMonitor     = "system_monitor"
	NameQualityController = "quality_controller"
)

type actionFunc func(ctx context.Context, req orchestrator.Request) (interface{}, error)

// base carries the sub-dispatch table shared by every agent variant
type base struct {
	name    string
	actions map[string]actionFunc
}

func (b *base) Name() string {
	return b.name
}

// Handle dispatches on the request action over the closed table
func (b *base) Handle(ctx context.Context, req orchestrator.Request) (interface{}, error) {
	fn, ok := b.actions[req.Action]
	if !ok {
		return nil, &orchestrator.UnsupportedActionError{Agent: b.name, Action: req.Action}
	}
	return fn(ctx, req)
}

// Deps bundles the collaborators the agents share. Store is always
// required; the rest depend on which agents are constructed.
type Deps struct {
	Store     storage.Storage
	Generator ai.Generator
	Index     vector.Index
	Scorer    *maturity.Scorer
	Bus       *events.Bus
	Logger    *zap.Logger
}

func (d *Deps) normalize() error {
	if d.Store == nil {
		return fmt.Errorf("storage is required")
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	return nil
}

// RegisterAll constructs the ten agents and registers them with the
// orchestrator. This is the one-time startup step; the registry is
// read-only afterward.
func RegisterAll(o *orchestrator.Orchestrator, deps *Deps) error {
	if err := deps.normalize(); err != nil {
		return err
	}
	// Agents must emit on the bus the orchestrator's subscribers listen on
	if deps.Bus == nil {
		deps.Bus = o.Bus()
	}
	if deps.Scorer == nil {
		scorer, err := maturity.NewScorer(nil)
		if err != nil {
			return err
		}
		deps.Scorer = scorer
	}

	pm := NewProjectManager(deps)
	counselor := NewSocraticCounselor(deps)
	codegen := NewCodeGenerator(deps)
	analyzer := NewContextAnalyzer(deps)
	detector := NewConflictDetector(deps)
	km := NewKnowledgeManager(deps)
	doc := NewDocumentAgent(deps)
	notes := NewNoteManager(deps)
	monitor := NewSystemMonitor(deps, o)
	qc := NewQualityController(deps)

	for _, agent := range []orchestrator.Agent{pm, counselor, codegen, analyzer, detector, km, doc, notes, monitor, qc} {
		if err := o.RegisterAgent(agent.Name(), agent); err != nil {
			return fmt.Errorf("failed to register %s: %w", agent.Name(), err)
		}
	}
	return nil
}

// requireString fetches a mandatory string parameter
func requireString(req orchestrator.Request, key string) (string, error) {
	v := req.String(key)
	if v == "" {
		return "", fmt.Errorf("parameter %q is required", key)
	}
	return v, nil
}
