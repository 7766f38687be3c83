package agents

import (
	"context"

	"github.com/socratesai/socrates/internal/events"
	"github.com/socratesai/socrates/internal/maturity"
	"github.com/socratesai/socrates/internal/orchestrator"
	"github.com/socratesai/socrates/internal/storage"
	"github.com/socratesai/socrates/internal/types"
)

// QualityController recomputes maturity scores and gates phase
// transitions. Scoring itself is pure (internal/maturity); this agent owns
// the side effects: persisting scores, emitting phase_ready, and advancing
// the project phase.
type QualityController struct {
	base
	store  storage.Storage
	scorer *maturity.Scorer
	bus    *events.Bus
}

// NewQualityController creates the quality control agent
func NewQualityController(deps *Deps) *QualityController {
	qc := &QualityController{
		store:  deps.Store,
		scorer: deps.Scorer,
		bus:    deps.Bus,
	}
	qc.base = base{
		name: NameQualityController,
		actions: map[string]actionFunc{
			"compute_maturity":      qc.computeMaturity,
			"check_phase_readiness": qc.checkPhaseReadiness,
			"advance_phase":         qc.advancePhase,
		},
	}
	return qc
}

// MaturityReport is the result of a maturity recomputation
type MaturityReport struct {
	ProjectID      string                     `json:"project_id"`
	Phase          types.Phase                `json:"phase"`
	PhaseScore     float64                    `json:"phase_score"`
	CategoryScores map[types.Category]float64 `json:"category_scores"`
	Ready          bool                       `json:"ready"`
	Threshold      float64                    `json:"threshold"`
}

func (qc *QualityController) computeMaturity(ctx context.Context, req orchestrator.Request) (interface{}, error) {
	report, err := qc.recompute(ctx, req)
	if err != nil {
		return nil, err
	}

	qc.bus.Emit(events.NewMaturityUpdatedEvent(report.ProjectID, qc.name, string(report.Phase), report.PhaseScore))
	return report, nil
}

func (qc *QualityController) checkPhaseReadiness(ctx context.Context, req orchestrator.Request) (interface{}, error) {
	report, err := qc.recompute(ctx, req)
	if err != nil {
		return nil, err
	}

	if report.Ready {
		qc.bus.Emit(events.NewPhaseReadyEvent(report.ProjectID, qc.name, string(report.Phase), report.PhaseScore))
	}
	return report, nil
}

// advancePhase moves the project to the next phase once the gate threshold
// is met. Passing force=true skips the gate but never the ordering check.
func (qc *QualityController) advancePhase(ctx context.Context, req orchestrator.Request) (interface{}, error) {
	report, err := qc.recompute(ctx, req)
	if err != nil {
		return nil, err
	}

	force, _ := req.Params["force"].(bool)
	if !report.Ready && !force {
		return nil, types.ErrPhaseNotReady
	}

	next, ok := report.Phase.Next()
	if !ok {
		return nil, types.ErrInvalidPhaseTransition
	}
	if err := qc.store.UpdateProjectPhase(ctx, report.ProjectID, next); err != nil {
		return nil, err
	}

	qc.bus.Emit(events.NewPhaseAdvancedEvent(report.ProjectID, qc.name, string(report.Phase), string(next)))
	return map[string]interface{}{
		"project_id": report.ProjectID,
		"from":       string(report.Phase),
		"to":         string(next),
	}, nil
}

// recompute scores the project's current phase and persists the derived
// score rows.
func (qc *QualityController) recompute(ctx context.Context, req orchestrator.Request) (*MaturityReport, error) {
	projectID, err := requireString(req, "project_id")
	if err != nil {
		return nil, err
	}

	project, err := qc.store.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	entries, err := qc.store.GetSpecEntries(ctx, projectID, project.Phase)
	if err != nil {
		return nil, err
	}

	phaseScore, categoryScores, err := qc.scorer.ScoreEntries(project.Phase, entries)
	if err != nil {
		return nil, err
	}

	for category, score := range categoryScores {
		err := qc.store.SaveMaturityScore(ctx, &types.MaturityScore{
			ProjectID: projectID,
			Phase:     project.Phase,
			Category:  category,
			Score:     score,
		})
		if err != nil {
			return nil, err
		}
	}
	err = qc.store.SaveMaturityScore(ctx, &types.MaturityScore{
		ProjectID: projectID,
		Phase:     project.Phase,
		Score:     phaseScore,
	})
	if err != nil {
		return nil, err
	}

	return &MaturityReport{
		ProjectID:      projectID,
		Phase:          project.Phase,
		PhaseScore:     phaseScore,
		CategoryScores: categoryScores,
		Ready:          phaseScore >= qc.scorer.GateThreshold(),
		Threshold:      qc.scorer.GateThreshold(),
	}, nil
}
