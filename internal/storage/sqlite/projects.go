package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/socratesai/socrates/internal/types"
)

// CreateProject inserts a new project row
func (s *Store) CreateProject(ctx context.Context, project *types.Project) error {
	if err := project.Validate(); err != nil {
		return fmt.Errorf("invalid project: %w", err)
	}

	now := time.Now()
	if project.CreatedAt.IsZero() {
		project.CreatedAt = now
	}
	project.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO projects (id, name, owner, phase, goals, archived, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, project.ID, project.Name, project.Owner, project.Phase, project.Goals,
		boolToInt(project.Archived), project.CreatedAt, project.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create project %s: %w", project.ID, err)
	}
	return nil
}

// GetProject retrieves a project with its normalized array fields populated.
// Soft-deleted projects are treated as not found.
func (s *Store) GetProject(ctx context.Context, id string) (*types.Project, error) {
	var p types.Project
	var archived int
	var deletedAt sql.NullTime
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, owner, phase, goals, archived, created_at, updated_at, deleted_at
		FROM projects WHERE id = ? AND deleted_at IS NULL
	`, id).Scan(&p.ID, &p.Name, &p.Owner, &p.Phase, &p.Goals, &archived, &p.CreatedAt, &p.UpdatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, types.ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project %s: %w", id, err)
	}
	p.Archived = archived != 0
	if deletedAt.Valid {
		p.DeletedAt = &deletedAt.Time
	}

	if p.Requirements, err = s.stringColumn(ctx, "SELECT requirement FROM project_requirements WHERE project_id = ? ORDER BY id", id); err != nil {
		return nil, err
	}
	if p.TechStack, err = s.stringColumn(ctx, "SELECT item FROM project_tech_stack WHERE project_id = ? ORDER BY id", id); err != nil {
		return nil, err
	}
	if p.Constraints, err = s.stringColumn(ctx, "SELECT constraint_text FROM project_constraints WHERE project_id = ? ORDER BY id", id); err != nil {
		return nil, err
	}
	if p.TeamMembers, err = s.stringColumn(ctx, "SELECT member FROM project_team_members WHERE project_id = ? ORDER BY member", id); err != nil {
		return nil, err
	}

	return &p, nil
}

// ListProjects returns projects, optionally filtered by owner. Archived
// projects are included only when requested; soft-deleted rows never are.
func (s *Store) ListProjects(ctx context.Context, owner string, includeArchived bool) ([]*types.Project, error) {
	query := `
		SELECT id, name, owner, phase, goals, archived, created_at, updated_at
		FROM projects WHERE deleted_at IS NULL
	`
	args := []interface{}{}
	if owner != "" {
		query += " AND owner = ?"
		args = append(args, owner)
	}
	if !includeArchived {
		query += " AND archived = 0"
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []*types.Project
	for rows.Next() {
		var p types.Project
		var archived int
		if err := rows.Scan(&p.ID, &p.Name, &p.Owner, &p.Phase, &p.Goals, &archived, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project row: %w", err)
		}
		p.Archived = archived != 0
		projects = append(projects, &p)
	}
	return projects, rows.Err()
}

// UpdateProjectGoals replaces the free-form goals text
func (s *Store) UpdateProjectGoals(ctx context.Context, id, goals string) error {
	return s.updateProject(ctx, id, "UPDATE projects SET goals = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL", goals, time.Now(), id)
}

// UpdateProjectPhase moves the project to a new lifecycle phase
func (s *Store) UpdateProjectPhase(ctx context.Context, id string, phase types.Phase) error {
	if !phase.IsValid() {
		return fmt.Errorf("invalid phase: %s", phase)
	}
	return s.updateProject(ctx, id, "UPDATE projects SET phase = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL", phase, time.Now(), id)
}

// ArchiveProject sets the archived flag (soft archive, reversible in SQL)
func (s *Store) ArchiveProject(ctx context.Context, id string) error {
	return s.updateProject(ctx, id, "UPDATE projects SET archived = 1, updated_at = ? WHERE id = ? AND deleted_at IS NULL", time.Now(), id)
}

// DeleteProject soft-deletes the project. Child rows stay in place until a
// hard delete; readers filter on deleted_at.
func (s *Store) DeleteProject(ctx context.Context, id string) error {
	return s.updateProject(ctx, id, "UPDATE projects SET deleted_at = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL", time.Now(), time.Now(), id)
}

// AddRequirement appends one requirement row
func (s *Store) AddRequirement(ctx context.Context, projectID, requirement string) error {
	return s.insertProjectValue(ctx, projectID,
		"INSERT INTO project_requirements (project_id, requirement) VALUES (?, ?)", requirement)
}

// AddTechStack appends one tech stack row
func (s *Store) AddTechStack(ctx context.Context, projectID, item string) error {
	return s.insertProjectValue(ctx, projectID,
		"INSERT INTO project_tech_stack (project_id, item) VALUES (?, ?)", item)
}

// AddConstraint appends one constraint row
func (s *Store) AddConstraint(ctx context.Context, projectID, constraint string) error {
	return s.insertProjectValue(ctx, projectID,
		"INSERT INTO project_constraints (project_id, constraint_text) VALUES (?, ?)", constraint)
}

// AddTeamMember adds a member to the project. Adding the same member twice
// is a no-op.
func (s *Store) AddTeamMember(ctx context.Context, projectID, member string) error {
	return s.insertProjectValue(ctx, projectID,
		"INSERT OR IGNORE INTO project_team_members (project_id, member) VALUES (?, ?)", member)
}

func (s *Store) updateProject(ctx context.Context, id, query string, args ...interface{}) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update project %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update of project %s: %w", id, err)
	}
	if n == 0 {
		return types.ErrProjectNotFound
	}
	return nil
}

func (s *Store) insertProjectValue(ctx context.Context, projectID, query, value string) error {
	if err := s.projectExists(ctx, projectID); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, query, projectID, value); err != nil {
		return fmt.Errorf("failed to insert row for project %s: %w", projectID, err)
	}
	return nil
}

func (s *Store) projectExists(ctx context.Context, id string) error {
	var one int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM projects WHERE id = ? AND deleted_at IS NULL", id).Scan(&one)
	if err == sql.ErrNoRows {
		return types.ErrProjectNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to check project %s: %w", id, err)
	}
	return nil
}

func (s *Store) stringColumn(ctx context.Context, query string, args ...interface{}) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
