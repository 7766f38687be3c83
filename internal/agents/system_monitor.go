package agents

import (
	"context"
	"sort"
	"time"

	"github.com/socratesai/socrates/internal/orchestrator"
	"github.com/socratesai/socrates/internal/storage"
)

// SystemMonitor reports on the health of the running system: registered
// agents, store contents, and LLM spend.
type SystemMonitor struct {
	base
	store     storage.Storage
	orch      *orchestrator.Orchestrator
	startedAt time.Time
}

// NewSystemMonitor creates the monitoring agent. It holds a reference to
// the orchestrator to report the registered agent set; registration order
// guarantees the orchestrator exists before any request reaches this agent.
func NewSystemMonitor(deps *Deps, orch *orchestrator.Orchestrator) *SystemMonitor {
	sm := &SystemMonitor{
		store:     deps.Store,
		orch:      orch,
		startedAt: time.Now(),
	}
	sm.base = base{
		name: NameSystemMonitor,
		actions: map[string]actionFunc{
			"health_check":   sm.healthCheck,
			"get_statistics": sm.getStatistics,
			"get_llm_usage":  sm.getLLMUsage,
		},
	}
	return sm
}

func (sm *SystemMonitor) healthCheck(ctx context.Context, req orchestrator.Request) (interface{}, error) {
	// A cheap store round-trip proves the database is reachable
	if _, err := sm.store.GetStatistics(ctx); err != nil {
		return map[string]interface{}{
			"status": "degraded",
			"error":  err.Error(),
		}, nil
	}

	agents := sm.orch.AgentNames()
	sort.Strings(agents)
	return map[string]interface{}{
		"status":         "ok",
		"uptime_seconds": int64(time.Since(sm.startedAt).Seconds()),
		"agents":         agents,
	}, nil
}

func (sm *SystemMonitor) getStatistics(ctx context.Context, req orchestrator.Request) (interface{}, error) {
	return sm.store.GetStatistics(ctx)
}

func (sm *SystemMonitor) getLLMUsage(ctx context.Context, req orchestrator.Request) (interface{}, error) {
	return sm.store.GetLLMUsage(ctx, req.String("project_id"))
}
