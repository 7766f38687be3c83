package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/socratesai/socrates/internal/types"
)

// RecordLLMUsage appends one usage row for a completed LLM call
func (s *Store) RecordLLMUsage(ctx context.Context, usage *types.LLMUsage) error {
	if usage.Model == "" {
		return fmt.Errorf("model is required")
	}
	if usage.CreatedAt.IsZero() {
		usage.CreatedAt = time.Now()
	}

	var projectID interface{}
	if usage.ProjectID != "" {
		projectID = usage.ProjectID
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO llm_usage (id, project_id, agent, operation, model, input_tokens, output_tokens, cost_usd, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, usage.ID, projectID, usage.Agent, usage.Operation, usage.Model,
		usage.InputTokens, usage.OutputTokens, usage.CostUSD, usage.DurationMS, usage.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record llm usage: %w", err)
	}
	return nil
}

// GetLLMUsage aggregates usage rows, optionally filtered by project
func (s *Store) GetLLMUsage(ctx context.Context, projectID string) (*types.UsageSummary, error) {
	query := `
		SELECT COUNT(*), COALESCE(SUM(input_tokens), 0), COALESCE(SUM(output_tokens), 0), COALESCE(SUM(cost_usd), 0.0)
		FROM llm_usage
	`
	args := []interface{}{}
	if projectID != "" {
		query += " WHERE project_id = ?"
		args = append(args, projectID)
	}

	var summary types.UsageSummary
	err := s.db.QueryRowContext(ctx, query, args...).Scan(
		&summary.Calls, &summary.InputTokens, &summary.OutputTokens, &summary.CostUSD)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate llm usage: %w", err)
	}
	return &summary, nil
}

// GetStatistics summarizes store contents for the system monitor
func (s *Store) GetStatistics(ctx context.Context) (*types.Statistics, error) {
	var stats types.Statistics

	counts := []struct {
		query string
		dest  *int
	}{
		{"SELECT COUNT(*) FROM projects WHERE deleted_at IS NULL", &stats.TotalProjects},
		{"SELECT COUNT(*) FROM projects WHERE deleted_at IS NULL AND archived = 0", &stats.ActiveProjects},
		{"SELECT COUNT(*) FROM projects WHERE deleted_at IS NULL AND archived = 1", &stats.ArchivedProjects},
		{"SELECT COUNT(*) FROM spec_entries", &stats.TotalEntries},
		{"SELECT COUNT(*) FROM notes", &stats.TotalNotes},
		{"SELECT COUNT(*) FROM knowledge_documents", &stats.TotalDocuments},
		{"SELECT COUNT(*) FROM conversation_history", &stats.TotalTurns},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("failed to gather statistics: %w", err)
		}
	}
	return &stats, nil
}
