package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/socratesai/socrates/internal/types"
)

// AddConversationTurn appends one dialogue turn
func (s *Store) AddConversationTurn(ctx context.Context, turn *types.ConversationTurn) error {
	if turn.ProjectID == "" {
		return fmt.Errorf("project_id is required")
	}
	if err := s.projectExists(ctx, turn.ProjectID); err != nil {
		return err
	}
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO conversation_history (id, project_id, phase, role, content, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, turn.ID, turn.ProjectID, turn.Phase, turn.Role, turn.Content, turn.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to add conversation turn for project %s: %w", turn.ProjectID, err)
	}
	return nil
}

// GetConversation returns the most recent turns for a (project, phase) key,
// oldest first, bounded by limit (0 = no limit).
func (s *Store) GetConversation(ctx context.Context, projectID string, phase types.Phase, limit int) ([]*types.ConversationTurn, error) {
	query := `
		SELECT id, project_id, phase, role, content, created_at
		FROM conversation_history WHERE project_id = ? AND phase = ?
		ORDER BY created_at DESC
	`
	args := []interface{}{projectID, phase}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversation: %w", err)
	}
	defer rows.Close()

	var turns []*types.ConversationTurn
	for rows.Next() {
		var t types.ConversationTurn
		if err := rows.Scan(&t.ID, &t.ProjectID, &t.Phase, &t.Role, &t.Content, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan conversation turn: %w", err)
		}
		turns = append(turns, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Reverse to chronological order
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}
