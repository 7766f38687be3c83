package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/socratesai/socrates/internal/types"
)

// AddSpecEntry appends one categorized spec entry. Entries are immutable
// once created; corrections append new entries rather than mutating.
func (s *Store) AddSpecEntry(ctx context.Context, entry *types.SpecEntry) error {
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("invalid spec entry: %w", err)
	}
	if err := s.projectExists(ctx, entry.ProjectID); err != nil {
		return err
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO spec_entries (id, project_id, phase, category, text, confidence, source, sort_order, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.ProjectID, entry.Phase, entry.Category, entry.Text,
		entry.Confidence, entry.Source, entry.SortOrder, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to add spec entry for project %s: %w", entry.ProjectID, err)
	}
	return nil
}

// GetSpecEntries returns all entries for a (project, phase) key in sort order
func (s *Store) GetSpecEntries(ctx context.Context, projectID string, phase types.Phase) ([]*types.SpecEntry, error) {
	return s.querySpecEntries(ctx, `
		SELECT id, project_id, phase, category, text, confidence, source, sort_order, created_at
		FROM spec_entries WHERE project_id = ? AND phase = ?
		ORDER BY sort_order, created_at
	`, projectID, phase)
}

// GetSpecEntriesByCategory returns entries for a (project, phase, category) key
func (s *Store) GetSpecEntriesByCategory(ctx context.Context, projectID string, phase types.Phase, category types.Category) ([]*types.SpecEntry, error) {
	return s.querySpecEntries(ctx, `
		SELECT id, project_id, phase, category, text, confidence, source, sort_order, created_at
		FROM spec_entries WHERE project_id = ? AND phase = ? AND category = ?
		ORDER BY sort_order, created_at
	`, projectID, phase, category)
}

func (s *Store) querySpecEntries(ctx context.Context, query string, args ...interface{}) ([]*types.SpecEntry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query spec entries: %w", err)
	}
	defer rows.Close()

	var entries []*types.SpecEntry
	for rows.Next() {
		var e types.SpecEntry
		if err := rows.Scan(&e.ID, &e.ProjectID, &e.Phase, &e.Category, &e.Text,
			&e.Confidence, &e.Source, &e.SortOrder, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan spec entry: %w", err)
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

// SaveMaturityScore upserts one derived score row. Category "" holds the
// phase-level score.
func (s *Store) SaveMaturityScore(ctx context.Context, score *types.MaturityScore) error {
	if score.Score < 0 || score.Score > 1 {
		return fmt.Errorf("score must be in [0.0, 1.0] (got %.4f)", score.Score)
	}
	if score.UpdatedAt.IsZero() {
		score.UpdatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO maturity_scores (project_id, phase, category, score, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(project_id, phase, category) DO UPDATE SET score = excluded.score, updated_at = excluded.updated_at
	`, score.ProjectID, score.Phase, score.Category, score.Score, score.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save maturity score for project %s: %w", score.ProjectID, err)
	}
	return nil
}

// GetMaturityScores returns the cached scores for a (project, phase) key
func (s *Store) GetMaturityScores(ctx context.Context, projectID string, phase types.Phase) ([]*types.MaturityScore, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT project_id, phase, category, score, updated_at
		FROM maturity_scores WHERE project_id = ? AND phase = ?
		ORDER BY category
	`, projectID, phase)
	if err != nil {
		return nil, fmt.Errorf("failed to query maturity scores: %w", err)
	}
	defer rows.Close()

	var scores []*types.MaturityScore
	for rows.Next() {
		var m types.MaturityScore
		if err := rows.Scan(&m.ProjectID, &m.Phase, &m.Category, &m.Score, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan maturity score: %w", err)
		}
		scores = append(scores, &m)
	}
	return scores, rows.Err()
}
