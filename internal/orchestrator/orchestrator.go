// Package orchestrator routes action-tagged requests to a fixed set of
// named agents and broadcasts lifecycle events to subscribers.
package orchestrator

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/socratesai/socrates/internal/events"
)

// Request is the uniform envelope for all agent calls: an action name plus
// arbitrary parameters.
type Request struct {
	Action string
	Params map[string]interface{}
}

// String returns a string parameter, or "" if absent or not a string.
func (r Request) String(key string) string {
	if v, ok := r.Params[key].(string); ok {
		return v
	}
	return ""
}

// Float returns a float64 parameter, accepting ints for convenience.
func (r Request) Float(key string) (float64, bool) {
	switch v := r.Params[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// Int returns an int parameter, accepting float64 for JSON-decoded payloads.
func (r Request) Int(key string) (int, bool) {
	switch v := r.Params[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	}
	return 0, false
}

// Agent is one business capability behind the uniform call shape. Each
// implementation dispatches internally on Request.Action over a closed set
// of actions fixed at construction time.
type Agent interface {
	// Name returns the registration name of the agent
	Name() string

	// Handle executes one action and returns its result. Unsupported
	// actions fail with *UnsupportedActionError.
	Handle(ctx context.Context, req Request) (interface{}, error)
}

// Orchestrator is the single entry point translating an
// (agent name, action, params) triple into a result. The name→agent
// registry is populated at startup and read-only afterward, so request
// dispatch takes no locks.
type Orchestrator struct {
	agents map[string]Agent
	bus    *events.Bus
	logger *zap.Logger
}

// Config holds orchestrator configuration
type Config struct {
	Bus    *events.Bus // Optional: a fresh bus is created if nil
	Logger *zap.Logger // Optional: defaults to zap.NewNop()
}

// New creates an orchestrator with an empty agent registry.
func New(cfg *Config) *Orchestrator {
	if cfg == nil {
		cfg = &Config{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	bus := cfg.Bus
	if bus == nil {
		bus = events.NewBus(logger)
	}
	return &Orchestrator{
		agents: make(map[string]Agent),
		bus:    bus,
		logger: logger,
	}
}

// RegisterAgent inserts an agent into the registry under the given name.
// Registering a name twice fails with *DuplicateAgentError and leaves the
// first registration in place.
func (o *Orchestrator) RegisterAgent(name string, agent Agent) error {
	if name == "" {
		return fmt.Errorf("agent name is required")
	}
	if agent == nil {
		return fmt.Errorf("agent is required")
	}
	if _, exists := o.agents[name]; exists {
		return &DuplicateAgentError{Agent: name}
	}
	o.agents[name] = agent
	o.logger.Debug("agent registered", zap.String("agent", name))
	return nil
}

// ProcessRequest looks up the agent by name and delegates to its Handle.
// Agent failures are wrapped in *AgentExecutionError with the original
// cause preserved on the error chain; caller mistakes
// (*UnknownAgentError, *UnsupportedActionError) pass through unwrapped.
func (o *Orchestrator) ProcessRequest(ctx context.Context, name string, req Request) (interface{}, error) {
	agent, ok := o.agents[name]
	if !ok {
		return nil, &UnknownAgentError{Agent: name}
	}

	result, err := agent.Handle(ctx, req)
	if err != nil {
		// Unsupported actions are a caller mistake, not an agent-internal
		// failure, and surface without wrapping.
		if unsupported, ok := err.(*UnsupportedActionError); ok {
			return nil, unsupported
		}
		return nil, &AgentExecutionError{Agent: name, Action: req.Action, Cause: err}
	}
	return result, nil
}

// Bus returns the event bus shared by the orchestrator and its agents.
func (o *Orchestrator) Bus() *events.Bus {
	return o.bus
}

// Emit publishes an event to all subscribers for its type.
func (o *Orchestrator) Emit(event *events.Event) {
	o.bus.Emit(event)
}

// Subscribe registers a handler on the orchestrator's bus.
func (o *Orchestrator) Subscribe(eventType events.EventType, handler events.Handler) events.Subscription {
	return o.bus.Subscribe(eventType, handler)
}

// Unsubscribe removes a handler from the orchestrator's bus.
func (o *Orchestrator) Unsubscribe(eventType events.EventType, id events.Subscription) {
	o.bus.Unsubscribe(eventType, id)
}

// AgentNames returns the registered agent names (for the system monitor).
func (o *Orchestrator) AgentNames() []string {
	names := make([]string, 0, len(o.agents))
	for name := range o.agents {
		names = append(names, name)
	}
	return names
}
