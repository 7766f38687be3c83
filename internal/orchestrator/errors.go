package orchestrator

import "fmt"

// UnknownAgentError indicates a request addressed an agent name that was
// never registered. This is a caller mistake, never retried.
type UnknownAgentError struct {
	Agent string
}

func (e *UnknownAgentError) Error() string {
	return fmt.Sprintf("unknown agent: %s", e.Agent)
}

// DuplicateAgentError indicates a second registration attempt for a name.
// Registration is a one-time startup step, not a hot-swap mechanism, so the
// first registration is preserved.
type DuplicateAgentError struct {
	Agent string
}

func (e *DuplicateAgentError) Error() string {
	return fmt.Sprintf("agent already registered: %s", e.Agent)
}

// UnsupportedActionError indicates an agent received an action outside its
// closed action table.
type UnsupportedActionError struct {
	Agent  string
	Action string
}

func (e *UnsupportedActionError) Error() string {
	return fmt.Sprintf("agent %s does not support action %q", e.Agent, e.Action)
}

// AgentExecutionError wraps any failure raised inside an agent's Handle.
// The original cause stays on the chain so boundary layers can map domain
// conditions (e.g. types.ErrProjectNotFound) to their own status codes.
type AgentExecutionError struct {
	Agent  string
	Action string
	Cause  error
}

func (e *AgentExecutionError) Error() string {
	return fmt.Sprintf("agent %s failed executing %q: %v", e.Agent, e.Action, e.Cause)
}

func (e *AgentExecutionError) Unwrap() error {
	return e.Cause
}
