package agents

import (
	"context"

	"github.com/google/uuid"

	"github.com/socratesai/socrates/internal/events"
	"github.com/socratesai/socrates/internal/orchestrator"
	"github.com/socratesai/socrates/internal/storage"
	"github.com/socratesai/socrates/internal/types"
)

// ProjectManager owns project lifecycle and the normalized array-valued
// project fields.
type ProjectManager struct {
	base
	store storage.Storage
	bus   *events.Bus
}

// NewProjectManager creates the project manager agent
func NewProjectManager(deps *Deps) *ProjectManager {
	pm := &ProjectManager{
		store: deps.Store,
		bus:   deps.Bus,
	}
	pm.base = base{
		name: NameProjectManager,
		actions: map[string]actionFunc{
			"create_project":  pm.createProject,
			"get_project":     pm.getProject,
			"list_projects":   pm.listProjects,
			"update_goals":    pm.updateGoals,
			"add_requirement": pm.addRequirement,
			"add_tech_stack":  pm.addTechStack,
			"add_constraint":  pm.addConstraint,
			"add_team_member": pm.addTeamMember,
			"archive_project": pm.archiveProject,
			"delete_project":  pm.deleteProject,
		},
	}
	return pm
}

func (pm *ProjectManager) createProject(ctx context.Context, req orchestrator.Request) (interface{}, error) {
	name, err := requireString(req, "name")
	if err != nil {
		return nil, err
	}
	owner, err := requireString(req, "owner")
	if err != nil {
		return nil, err
	}

	project := &types.Project{
		ID:    uuid.New().String(),
		Name:  name,
		Owner: owner,
		Phase: types.PhaseDiscovery,
		Goals: req.String("goals"),
	}
	if err := pm.store.CreateProject(ctx, project); err != nil {
		return nil, err
	}

	pm.bus.Emit(events.New(events.EventTypeProjectCreated, project.ID, pm.name, "project created", map[string]interface{}{
		"name":  project.Name,
		"owner": project.Owner,
	}))
	return project, nil
}

func (pm *ProjectManager) getProject(ctx context.Context, req orchestrator.Request) (interface{}, error) {
	id, err := requireString(req, "project_id")
	if err != nil {
		return nil, err
	}
	return pm.store.GetProject(ctx, id)
}

func (pm *ProjectManager) listProjects(ctx context.Context, req orchestrator.Request) (interface{}, error) {
	includeArchived := false
	if v, ok := req.Params["include_archived"].(bool); ok {
		includeArchived = v
	}
	return pm.store.ListProjects(ctx, req.String("owner"), includeArchived)
}

func (pm *ProjectManager) updateGoals(ctx context.Context, req orchestrator.Request) (interface{}, error) {
	id, err := requireString(req, "project_id")
	if err != nil {
		return nil, err
	}
	goals, err := requireString(req, "goals")
	if err != nil {
		return nil, err
	}
	if err := pm.store.UpdateProjectGoals(ctx, id, goals); err != nil {
		return nil, err
	}
	return pm.store.GetProject(ctx, id)
}

func (pm *ProjectManager) addRequirement(ctx context.Context, req orchestrator.Request) (interface{}, error) {
	return pm.addProjectValue(ctx, req, "requirement", pm.store.AddRequirement)
}

func (pm *ProjectManager) addTechStack(ctx context.Context, req orchestrator.Request) (interface{}, error) {
	return pm.addProjectValue(ctx, req, "item", pm.store.AddTechStack)
}

func (pm *ProjectManager) addConstraint(ctx context.Context, req orchestrator.Request) (interface{}, error) {
	return pm.addProjectValue(ctx, req, "constraint", pm.store.AddConstraint)
}

func (pm *ProjectManager) addTeamMember(ctx context.Context, req orchestrator.Request) (interface{}, error) {
	return pm.addProjectValue(ctx, req, "member", pm.store.AddTeamMember)
}

func (pm *ProjectManager) addProjectValue(ctx context.Context, req orchestrator.Request, key string, insert func(context.Context, string, string) error) (interface{}, error) {
	id, err := requireString(req, "project_id")
	if err != nil {
		return nil, err
	}
	value, err := requireString(req, key)
	if err != nil {
		return nil, err
	}
	if err := insert(ctx, id, value); err != nil {
		return nil, err
	}
	return pm.store.GetProject(ctx, id)
}

func (pm *ProjectManager) archiveProject(ctx context.Context, req orchestrator.Request) (interface{}, error) {
	id, err := requireString(req, "project_id")
	if err != nil {
		return nil, err
	}
	if err := pm.store.ArchiveProject(ctx, id); err != nil {
		return nil, err
	}
	pm.bus.Emit(events.New(events.EventTypeProjectArchived, id, pm.name, "project archived", nil))
	return map[string]interface{}{"project_id": id, "archived": true}, nil
}

func (pm *ProjectManager) deleteProject(ctx context.Context, req orchestrator.Request) (interface{}, error) {
	id, err := requireString(req, "project_id")
	if err != nil {
		return nil, err
	}
	if err := pm.store.DeleteProject(ctx, id); err != nil {
		return nil, err
	}
	return map[string]interface{}{"project_id": id, "deleted": true}, nil
}
