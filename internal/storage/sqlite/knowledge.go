package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/socratesai/socrates/internal/types"
)

// CreateDocument inserts a knowledge document. The vector index mirror is
// the KnowledgeManager's job, not the store's.
func (s *Store) CreateDocument(ctx context.Context, doc *types.KnowledgeDocument) error {
	if doc.Title == "" {
		return fmt.Errorf("title is required")
	}
	if doc.ProjectID != "" {
		if err := s.projectExists(ctx, doc.ProjectID); err != nil {
			return err
		}
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}

	metaJSON, err := json.Marshal(doc.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal document metadata: %w", err)
	}

	var projectID interface{}
	if doc.ProjectID != "" {
		projectID = doc.ProjectID
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO knowledge_documents (id, project_id, title, content, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, doc.ID, projectID, doc.Title, doc.Content, string(metaJSON), doc.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create document %s: %w", doc.ID, err)
	}
	return nil
}

// GetDocument retrieves one knowledge document by id
func (s *Store) GetDocument(ctx context.Context, id string) (*types.KnowledgeDocument, error) {
	var d types.KnowledgeDocument
	var projectID sql.NullString
	var metaJSON string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, project_id, title, content, metadata, created_at
		FROM knowledge_documents WHERE id = ?
	`, id).Scan(&d.ID, &projectID, &d.Title, &d.Content, &metaJSON, &d.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, types.ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document %s: %w", id, err)
	}
	d.ProjectID = projectID.String
	if metaJSON != "" && metaJSON != "{}" {
		if err := json.Unmarshal([]byte(metaJSON), &d.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata for document %s: %w", id, err)
		}
	}
	return &d, nil
}

// ListDocuments returns documents for a project (or global documents when
// projectID is empty), newest first.
func (s *Store) ListDocuments(ctx context.Context, projectID string) ([]*types.KnowledgeDocument, error) {
	query := `
		SELECT id, project_id, title, content, metadata, created_at
		FROM knowledge_documents
	`
	args := []interface{}{}
	if projectID != "" {
		query += " WHERE project_id = ?"
		args = append(args, projectID)
	} else {
		query += " WHERE project_id IS NULL"
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []*types.KnowledgeDocument
	for rows.Next() {
		var d types.KnowledgeDocument
		var pid sql.NullString
		var metaJSON string
		if err := rows.Scan(&d.ID, &pid, &d.Title, &d.Content, &metaJSON, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		d.ProjectID = pid.String
		if metaJSON != "" && metaJSON != "{}" {
			if err := json.Unmarshal([]byte(metaJSON), &d.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal metadata for document %s: %w", d.ID, err)
			}
		}
		docs = append(docs, &d)
	}
	return docs, rows.Err()
}

// DeleteDocument removes a knowledge document
func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM knowledge_documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete document %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete of document %s: %w", id, err)
	}
	if n == 0 {
		return types.ErrDocumentNotFound
	}
	return nil
}
