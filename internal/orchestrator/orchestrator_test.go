package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"

	"github.com/socratesai/socrates/internal/events"
)

// stubAgent echoes its input for a fixed action set
type stubAgent struct {
	name string
	fail error
}

func (a *stubAgent) Name() string { return a.name }

func (a *stubAgent) Handle(ctx context.Context, req Request) (interface{}, error) {
	switch req.Action {
	case "echo":
		if a.fail != nil {
			return nil, a.fail
		}
		return req.Params["value"], nil
	default:
		return nil, &UnsupportedActionError{Agent: a.name, Action: req.Action}
	}
}

func TestRegisterAndProcess(t *testing.T) {
	o := New(nil)
	if err := o.RegisterAgent("echo_agent", &stubAgent{name: "echo_agent"}); err != nil {
		t.Fatalf("RegisterAgent failed: %v", err)
	}

	result, err := o.ProcessRequest(context.Background(), "echo_agent", Request{
		Action: "echo",
		Params: map[string]interface{}{"value": 42},
	})
	if err != nil {
		t.Fatalf("ProcessRequest failed: %v", err)
	}
	if result != 42 {
		t.Errorf("Expected 42, got %v", result)
	}
}

func TestRegisterValidation(t *testing.T) {
	o := New(nil)
	if err := o.RegisterAgent("", &stubAgent{name: "x"}); err == nil {
		t.Error("Expected error for empty name")
	}
	if err := o.RegisterAgent("x", nil); err == nil {
		t.Error("Expected error for nil agent")
	}
}

func TestDuplicateRegistrationPreservesFirst(t *testing.T) {
	o := New(nil)
	first := &stubAgent{name: "worker"}
	second := &stubAgent{name: "worker", fail: errors.New("should never run")}

	if err := o.RegisterAgent("worker", first); err != nil {
		t.Fatalf("First registration failed: %v", err)
	}

	err := o.RegisterAgent("worker", second)
	var dup *DuplicateAgentError
	if !errors.As(err, &dup) {
		t.Fatalf("Expected *DuplicateAgentError, got %v", err)
	}
	if dup.Agent != "worker" {
		t.Errorf("Expected agent name in error, got %q", dup.Agent)
	}

	// The first registration still serves requests
	result, err := o.ProcessRequest(context.Background(), "worker", Request{
		Action: "echo",
		Params: map[string]interface{}{"value": "ok"},
	})
	if err != nil {
		t.Fatalf("ProcessRequest failed: %v", err)
	}
	if result != "ok" {
		t.Errorf("Expected first agent's result, got %v", result)
	}
}

func TestUnknownAgent(t *testing.T) {
	o := New(nil)
	_, err := o.ProcessRequest(context.Background(), "ghost", Request{Action: "echo"})

	var unknown *UnknownAgentError
	if !errors.As(err, &unknown) {
		t.Fatalf("Expected *UnknownAgentError, got %v", err)
	}
	if unknown.Agent != "ghost" {
		t.Errorf("Expected agent name in error, got %q", unknown.Agent)
	}
}

func TestUnsupportedActionPassesThrough(t *testing.T) {
	o := New(nil)
	if err := o.RegisterAgent("echo_agent", &stubAgent{name: "echo_agent"}); err != nil {
		t.Fatalf("RegisterAgent failed: %v", err)
	}

	_, err := o.ProcessRequest(context.Background(), "echo_agent", Request{Action: "fly"})

	var unsupported *UnsupportedActionError
	if !errors.As(err, &unsupported) {
		t.Fatalf("Expected *UnsupportedActionError, got %v", err)
	}
	// Caller mistakes are not wrapped as execution failures
	var execErr *AgentExecutionError
	if errors.As(err, &execErr) {
		t.Error("Unsupported action must not be wrapped in *AgentExecutionError")
	}
}

func TestAgentFailureWrapped(t *testing.T) {
	o := New(nil)
	cause := errors.New("db is gone")
	if err := o.RegisterAgent("flaky", &stubAgent{name: "flaky", fail: cause}); err != nil {
		t.Fatalf("RegisterAgent failed: %v", err)
	}

	_, err := o.ProcessRequest(context.Background(), "flaky", Request{Action: "echo"})

	var execErr *AgentExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("Expected *AgentExecutionError, got %v", err)
	}
	if execErr.Agent != "flaky" || execErr.Action != "echo" {
		t.Errorf("Expected agent and action on error, got %+v", execErr)
	}
	// The cause stays reachable on the chain
	if !errors.Is(err, cause) {
		t.Error("Expected errors.Is to find the original cause")
	}
}

func TestAgentNames(t *testing.T) {
	o := New(nil)
	for _, name := range []string{"b", "a", "c"} {
		if err := o.RegisterAgent(name, &stubAgent{name: name}); err != nil {
			t.Fatalf("RegisterAgent failed: %v", err)
		}
	}

	names := o.AgentNames()
	sort.Strings(names)
	want := []string{"a", "b", "c"}
	if fmt.Sprint(names) != fmt.Sprint(want) {
		t.Errorf("Expected %v, got %v", want, names)
	}
}

func TestOrchestratorBusIntegration(t *testing.T) {
	bus := events.NewBus(nil)
	o := New(&Config{Bus: bus})

	var received []*events.Event
	sub := o.Subscribe(events.EventTypeEntryAdded, func(e *events.Event) error {
		received = append(received, e)
		return nil
	})

	o.Emit(events.New(events.EventTypeEntryAdded, "p1", "tester", "added", nil))
	if len(received) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(received))
	}

	o.Unsubscribe(events.EventTypeEntryAdded, sub)
	o.Emit(events.New(events.EventTypeEntryAdded, "p1", "tester", "added", nil))
	if len(received) != 1 {
		t.Errorf("Expected no delivery after unsubscribe, got %d", len(received))
	}

	if o.Bus() != bus {
		t.Error("Expected Bus() to return the configured bus")
	}
}

func TestRequestParamHelpers(t *testing.T) {
	req := Request{Params: map[string]interface{}{
		"s": "text",
		"f": 0.5,
		"i": 3,
		"j": float64(7),
	}}

	if req.String("s") != "text" {
		t.Errorf("String: got %q", req.String("s"))
	}
	if req.String("missing") != "" {
		t.Error("String should return empty for missing key")
	}
	if v, ok := req.Float("f"); !ok || v != 0.5 {
		t.Errorf("Float: got %v %v", v, ok)
	}
	if v, ok := req.Float("i"); !ok || v != 3.0 {
		t.Errorf("Float from int: got %v %v", v, ok)
	}
	if v, ok := req.Int("j"); !ok || v != 7 {
		t.Errorf("Int from float64: got %v %v", v, ok)
	}
	if _, ok := req.Int("s"); ok {
		t.Error("Int should fail for a string value")
	}
}
