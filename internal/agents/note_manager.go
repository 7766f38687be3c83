package agents

import (
	"context"

	"github.com/google/uuid"

	"github.com/socratesai/socrates/internal/events"
	"github.com/socratesai/socrates/internal/orchestrator"
	"github.com/socratesai/socrates/internal/storage"
	"github.com/socratesai/socrates/internal/types"
)

// NoteManager owns free-form notes attached to projects
type NoteManager struct {
	base
	store storage.Storage
	bus   *events.Bus
}

// NewNoteManager creates the note agent
func NewNoteManager(deps *Deps) *NoteManager {
	nm := &NoteManager{
		store: deps.Store,
		bus:   deps.Bus,
	}
	nm.base = base{
		name: NameNoteManager,
		actions: map[string]actionFunc{
			"create_note": nm.createNote,
			"get_note":    nm.getNote,
			"list_notes":  nm.listNotes,
			"update_note": nm.updateNote,
			"delete_note": nm.deleteNote,
		},
	}
	return nm
}

func (nm *NoteManager) createNote(ctx context.Context, req orchestrator.Request) (interface{}, error) {
	projectID, err := requireString(req, "project_id")
	if err != nil {
		return nil, err
	}
	title, err := requireString(req, "title")
	if err != nil {
		return nil, err
	}

	note := &types.Note{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Author:    req.String("author"),
		Title:     title,
		Body:      req.String("body"),
	}
	if err := nm.store.CreateNote(ctx, note); err != nil {
		return nil, err
	}

	nm.bus.Emit(events.New(events.EventTypeNoteCreated, projectID, nm.name, "note created", map[string]interface{}{
		"note_id": note.ID,
	}))
	return note, nil
}

func (nm *NoteManager) getNote(ctx context.Context, req orchestrator.Request) (interface{}, error) {
	id, err := requireString(req, "note_id")
	if err != nil {
		return nil, err
	}
	return nm.store.GetNote(ctx, id)
}

func (nm *NoteManager) listNotes(ctx context.Context, req orchestrator.Request) (interface{}, error) {
	projectID, err := requireString(req, "project_id")
	if err != nil {
		return nil, err
	}
	return nm.store.ListNotes(ctx, projectID)
}

func (nm *NoteManager) updateNote(ctx context.Context, req orchestrator.Request) (interface{}, error) {
	id, err := requireString(req, "note_id")
	if err != nil {
		return nil, err
	}
	title, err := requireString(req, "title")
	if err != nil {
		return nil, err
	}
	if err := nm.store.UpdateNote(ctx, id, title, req.String("body")); err != nil {
		return nil, err
	}
	return nm.store.GetNote(ctx, id)
}

func (nm *NoteManager) deleteNote(ctx context.Context, req orchestrator.Request) (interface{}, error) {
	id, err := requireString(req, "note_id")
	if err != nil {
		return nil, err
	}
	if err := nm.store.DeleteNote(ctx, id); err != nil {
		return nil, err
	}
	return map[string]interface{}{"note_id": id, "deleted": true}, nil
}
