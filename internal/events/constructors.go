package events

import (
	"time"

	"github.com/google/uuid"
)

// New creates a generic event with the given type and payload.
func New(eventType EventType, projectID, agentID, message string, data map[string]interface{}) *Event {
	if data == nil {
		data = make(map[string]interface{})
	}
	return &Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now(),
		ProjectID: projectID,
		AgentID:   agentID,
		Message:   message,
		Data:      data,
	}
}

// NewPhaseReadyEvent creates a phase_ready event for a project whose phase
// score crossed the gate threshold.
func NewPhaseReadyEvent(projectID, agentID string, phase string, score float64) *Event {
	return New(EventTypePhaseReady, projectID, agentID, "phase ready to advance", map[string]interface{}{
		"phase": phase,
		"score": score,
	})
}

// NewPhaseAdvancedEvent creates a phase_advanced event recording the transition.
func NewPhaseAdvancedEvent(projectID, agentID string, from, to string) *Event {
	return New(EventTypePhaseAdvanced, projectID, agentID, "project advanced to next phase", map[string]interface{}{
		"from": from,
		"to":   to,
	})
}

// NewEntryAddedEvent creates an entry_added event for a new spec entry.
func NewEntryAddedEvent(projectID, agentID string, entryID string, phase, category string) *Event {
	return New(EventTypeEntryAdded, projectID, agentID, "spec entry added", map[string]interface{}{
		"entry_id": entryID,
		"phase":    phase,
		"category": category,
	})
}

// NewMaturityUpdatedEvent creates a maturity_updated event carrying the
// recomputed phase score.
func NewMaturityUpdatedEvent(projectID, agentID string, phase string, score float64) *Event {
	return New(EventTypeMaturityUpdated, projectID, agentID, "maturity scores recomputed", map[string]interface{}{
		"phase": phase,
		"score": score,
	})
}

// NewLLMCallCompletedEvent creates an llm_call_completed event with token counts.
func NewLLMCallCompletedEvent(projectID, agentID, operation, model string, inputTokens, outputTokens int64) *Event {
	return New(EventTypeLLMCallCompleted, projectID, agentID, "llm call completed", map[string]interface{}{
		"operation":     operation,
		"model":         model,
		"input_tokens":  inputTokens,
		"output_tokens": outputTokens,
	})
}
