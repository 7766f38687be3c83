package agents

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/socratesai/socrates/internal/events"
	"github.com/socratesai/socrates/internal/orchestrator"
	"github.com/socratesai/socrates/internal/storage"
	"github.com/socratesai/socrates/internal/types"
	"github.com/socratesai/socrates/internal/vector"
)

// KnowledgeManager owns the knowledge base: documents live in the
// relational store and are mirrored into the vector index for semantic
// search.
type KnowledgeManager struct {
	base
	store storage.Storage
	index vector.Index
	bus   *events.Bus
}

// NewKnowledgeManager creates the knowledge base agent
func NewKnowledgeManager(deps *Deps) *KnowledgeManager {
	km := &KnowledgeManager{
		store: deps.Store,
		index: deps.Index,
		bus:   deps.Bus,
	}
	km.base = base{
		name: NameKnowledgeManager,
		actions: map[string]actionFunc{
			"add_document":      km.addDocument,
			"search_documents":  km.searchDocuments,
			"delete_document":   km.deleteDocument,
			"delete_collection": km.deleteCollection,
			"list_documents":    km.listDocuments,
		},
	}
	return km
}

func (km *KnowledgeManager) collection(projectID string) string {
	if projectID == "" {
		return collectionGlobal
	}
	return collectionFor(projectID)
}

func (km *KnowledgeManager) addDocument(ctx context.Context, req orchestrator.Request) (interface{}, error) {
	title, err := requireString(req, "title")
	if err != nil {
		return nil, err
	}
	content, err := requireString(req, "content")
	if err != nil {
		return nil, err
	}
	projectID := req.String("project_id")

	metadata := map[string]string{}
	if raw, ok := req.Params["metadata"].(map[string]interface{}); ok {
		for k, v := range raw {
			if s, ok := v.(string); ok {
				metadata[k] = s
			}
		}
	}

	doc := &types.KnowledgeDocument{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Title:     title,
		Content:   content,
		Metadata:  metadata,
	}
	if err := km.store.CreateDocument(ctx, doc); err != nil {
		return nil, err
	}

	if km.index != nil {
		indexMeta := map[string]string{"title": title}
		for k, v := range metadata {
			indexMeta[k] = v
		}
		err := km.index.Add(ctx, km.collection(projectID), []vector.Document{{
			ID:       doc.ID,
			Content:  title + "\n" + content,
			Metadata: indexMeta,
		}})
		if err != nil {
			return nil, fmt.Errorf("failed to index document: %w", err)
		}
		km.bus.Emit(events.New(events.EventTypeDocumentIndexed, projectID, km.name, "document indexed", map[string]interface{}{
			"document_id": doc.ID,
		}))
	}

	return doc, nil
}

func (km *KnowledgeManager) searchDocuments(ctx context.Context, req orchestrator.Request) (interface{}, error) {
	query, err := requireString(req, "query")
	if err != nil {
		return nil, err
	}
	if km.index == nil {
		return nil, fmt.Errorf("vector index is not configured")
	}

	topK, ok := req.Int("top_k")
	if !ok {
		topK = 10
	}

	matches, err := km.index.SearchSimilar(ctx, km.collection(req.String("project_id")), query, topK)
	if err != nil {
		return nil, fmt.Errorf("document search failed: %w", err)
	}

	// Hydrate matches from the relational store so callers get full documents
	results := make([]map[string]interface{}, 0, len(matches))
	for _, match := range matches {
		doc, err := km.store.GetDocument(ctx, match.ID)
		if err != nil {
			// Index and store can drift if a delete raced; skip strays
			continue
		}
		results = append(results, map[string]interface{}{
			"document": doc,
			"score":    match.Score,
		})
	}
	return results, nil
}

func (km *KnowledgeManager) deleteDocument(ctx context.Context, req orchestrator.Request) (interface{}, error) {
	id, err := requireString(req, "document_id")
	if err != nil {
		return nil, err
	}

	doc, err := km.store.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := km.store.DeleteDocument(ctx, id); err != nil {
		return nil, err
	}
	if km.index != nil {
		if err := km.index.Delete(ctx, km.collection(doc.ProjectID), id); err != nil {
			return nil, fmt.Errorf("failed to remove document from index: %w", err)
		}
	}
	return map[string]interface{}{"document_id": id, "deleted": true}, nil
}

func (km *KnowledgeManager) deleteCollection(ctx context.Context, req orchestrator.Request) (interface{}, error) {
	projectID, err := requireString(req, "project_id")
	if err != nil {
		return nil, err
	}

	docs, err := km.store.ListDocuments(ctx, projectID)
	if err != nil {
		return nil, err
	}
	for _, doc := range docs {
		if err := km.store.DeleteDocument(ctx, doc.ID); err != nil {
			return nil, err
		}
	}
	if km.index != nil {
		if err := km.index.DeleteCollection(ctx, km.collection(projectID)); err != nil {
			return nil, fmt.Errorf("failed to delete index collection: %w", err)
		}
	}
	return map[string]interface{}{"project_id": projectID, "deleted": len(docs)}, nil
}

func (km *KnowledgeManager) listDocuments(ctx context.Context, req orchestrator.Request) (interface{}, error) {
	return km.store.ListDocuments(ctx, req.String("project_id"))
}
