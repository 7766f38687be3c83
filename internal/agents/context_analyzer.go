package agents

import (
	"context"
	"fmt"

	"github.com/socratesai/socrates/internal/orchestrator"
	"github.com/socratesai/socrates/internal/storage"
	"github.com/socratesai/socrates/internal/vector"
)

// ContextAnalyzer surfaces related knowledge for a dialogue turn by
// querying the vector index over the project's knowledge base.
type ContextAnalyzer struct {
	base
	store storage.Storage
	index vector.Index
}

// NewContextAnalyzer creates the context analysis agent
func NewContextAnalyzer(deps *Deps) *ContextAnalyzer {
	ca := &ContextAnalyzer{
		store: deps.Store,
		index: deps.Index,
	}
	ca.base = base{
		name: NameContextAnalyzer,
		actions: map[string]actionFunc{
			"analyze_context": ca.analyzeContext,
			"find_similar":    ca.findSimilar,
		},
	}
	return ca
}

// analyzeContext combines the project's current spec state with vector
// matches for the query text.
func (ca *ContextAnalyzer) analyzeContext(ctx context.Context, req orchestrator.Request) (interface{}, error) {
	projectID, err := requireString(req, "project_id")
	if err != nil {
		return nil, err
	}
	query, err := requireString(req, "query")
	if err != nil {
		return nil, err
	}

	project, err := ca.store.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	entries, err := ca.store.GetSpecEntries(ctx, projectID, project.Phase)
	if err != nil {
		return nil, err
	}

	var matches []vector.Match
	if ca.index != nil {
		matches, err = ca.index.SearchSimilar(ctx, collectionFor(projectID), query, 5)
		if err != nil {
			return nil, fmt.Errorf("vector search failed: %w", err)
		}
	}

	return map[string]interface{}{
		"phase":       string(project.Phase),
		"entry_count": len(entries),
		"matches":     matches,
	}, nil
}

// findSimilar is a thin passthrough to the vector index
func (ca *ContextAnalyzer) findSimilar(ctx context.Context, req orchestrator.Request) (interface{}, error) {
	query, err := requireString(req, "query")
	if err != nil {
		return nil, err
	}
	if ca.index == nil {
		return nil, fmt.Errorf("vector index is not configured")
	}

	topK, ok := req.Int("top_k")
	if !ok {
		topK = 10
	}

	collection := collectionGlobal
	if projectID := req.String("project_id"); projectID != "" {
		if _, err := ca.store.GetProject(ctx, projectID); err != nil {
			return nil, err
		}
		collection = collectionFor(projectID)
	}
	return ca.index.SearchSimilar(ctx, collection, query, topK)
}

const collectionGlobal = "knowledge"

// collectionFor names the per-project vector collection
func collectionFor(projectID string) string {
	return "project:" + projectID
}
