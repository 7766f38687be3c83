package events

import "time"

// EventType represents the type of lifecycle event emitted by agents and
// the orchestrator.
type EventType string

const (
	// EventTypeProjectCreated indicates a new project was created
	EventTypeProjectCreated EventType = "project_created"
	// EventTypeProjectArchived indicates a project was archived
	EventTypeProjectArchived EventType = "project_archived"
	// EventTypeQuestionGenerated indicates the counselor produced a dialogue question
	EventTypeQuestionGenerated EventType = "question_generated"
	// EventTypeAnswerRecorded indicates a user answer was recorded
	EventTypeAnswerRecorded EventType = "answer_recorded"
	// EventTypeEntryAdded indicates a categorized spec entry was appended
	EventTypeEntryAdded EventType = "entry_added"
	// EventTypeConflictDetected indicates contradictory spec entries were found
	EventTypeConflictDetected EventType = "conflict_detected"
	// EventTypeMaturityUpdated indicates maturity scores were recomputed
	EventTypeMaturityUpdated EventType = "maturity_updated"
	// EventTypePhaseReady indicates a phase score crossed the gate threshold
	EventTypePhaseReady EventType = "phase_ready"
	// EventTypePhaseAdvanced indicates a project moved to the next phase
	EventTypePhaseAdvanced EventType = "phase_advanced"
	// EventTypeDocumentIndexed indicates a knowledge document entered the vector index
	EventTypeDocumentIndexed EventType = "document_indexed"
	// EventTypeNoteCreated indicates a note was created
	EventTypeNoteCreated EventType = "note_created"
	// EventTypeLLMCallCompleted indicates an LLM call finished (success or failure)
	EventTypeLLMCallCompleted EventType = "llm_call_completed"
)

// Event is an ephemeral lifecycle notification. Events are fire-and-forget:
// they are delivered synchronously to subscribers and never persisted.
type Event struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	ProjectID string                 `json:"project_id,omitempty"`
	AgentID   string                 `json:"agent_id,omitempty"`
	Message   string                 `json:"message,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty"`
}
