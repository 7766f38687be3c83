package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/socratesai/socrates/internal/types"
)

// CreateNote inserts a new note
func (s *Store) CreateNote(ctx context.Context, note *types.Note) error {
	if err := note.Validate(); err != nil {
		return fmt.Errorf("invalid note: %w", err)
	}
	if err := s.projectExists(ctx, note.ProjectID); err != nil {
		return err
	}

	now := time.Now()
	if note.CreatedAt.IsZero() {
		note.CreatedAt = now
	}
	note.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notes (id, project_id, author, title, body, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, note.ID, note.ProjectID, note.Author, note.Title, note.Body, note.CreatedAt, note.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create note for project %s: %w", note.ProjectID, err)
	}
	return nil
}

// GetNote retrieves one note by id
func (s *Store) GetNote(ctx context.Context, id string) (*types.Note, error) {
	var n types.Note
	err := s.db.QueryRowContext(ctx, `
		SELECT id, project_id, author, title, body, created_at, updated_at
		FROM notes WHERE id = ?
	`, id).Scan(&n.ID, &n.ProjectID, &n.Author, &n.Title, &n.Body, &n.CreatedAt, &n.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, types.ErrNoteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get note %s: %w", id, err)
	}
	return &n, nil
}

// ListNotes returns all notes for a project, newest first
func (s *Store) ListNotes(ctx context.Context, projectID string) ([]*types.Note, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, project_id, author, title, body, created_at, updated_at
		FROM notes WHERE project_id = ?
		ORDER BY created_at DESC
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	var notes []*types.Note
	for rows.Next() {
		var n types.Note
		if err := rows.Scan(&n.ID, &n.ProjectID, &n.Author, &n.Title, &n.Body, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, &n)
	}
	return notes, rows.Err()
}

// UpdateNote replaces a note's title and body
func (s *Store) UpdateNote(ctx context.Context, id, title, body string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE notes SET title = ?, body = ?, updated_at = ? WHERE id = ?",
		title, body, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update note %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update of note %s: %w", id, err)
	}
	if n == 0 {
		return types.ErrNoteNotFound
	}
	return nil
}

// DeleteNote removes a note
func (s *Store) DeleteNote(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM notes WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete note %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete of note %s: %w", id, err)
	}
	if n == 0 {
		return types.ErrNoteNotFound
	}
	return nil
}
