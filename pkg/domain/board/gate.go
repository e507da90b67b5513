package board

import (
	"fmt"
	"sync"

	"github.com/felixgeelhaar/statekit"
)

// State constants for the suggestion request machine.
// These must remain untyped string constants for statekit.StateID compatibility.
const (
	StateIdle       = "idle"
	StateRequesting = "requesting"

	EventRequest = "request"
	EventSettle  = "settle"
)

type gateContext struct{}

// SuggestionGate allows at most one suggestion request in flight.
type SuggestionGate struct {
	mu          sync.Mutex
	interpreter *statekit.Interpreter[gateContext]
}

// NewSuggestionGate builds the Idle/Requesting machine, starting Idle.
func NewSuggestionGate() (*SuggestionGate, error) {
	builder := statekit.NewMachine[gateContext]("suggestion-gate").
		WithInitial(statekit.StateID(StateIdle)).
		WithContext(gateContext{})

	builder.State(StateIdle).
		On(EventRequest).Target(StateRequesting).
		Done()

	builder.State(StateRequesting).
		On(EventSettle).Target(StateIdle).
		Done()

	machine, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build suggestion gate: %w", err)
	}

	interpreter := statekit.NewInterpreter(machine)
	interpreter.Start()

	return &SuggestionGate{interpreter: interpreter}, nil
}

// Acquire moves the gate to Requesting and returns the func that moves it back
// to Idle. Callers defer release so it runs on success and failure alike.
// Calling release more than once is harmless.
func (g *SuggestionGate) Acquire() (release func(), err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.current() != StateIdle {
		return nil, ErrSuggestionInFlight
	}
	g.interpreter.Send(statekit.Event{Type: EventRequest})
	if g.current() != StateRequesting {
		return nil, fmt.Errorf("suggestion gate stuck in %q", g.current())
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			defer g.mu.Unlock()
			g.interpreter.Send(statekit.Event{Type: EventSettle})
		})
	}, nil
}

// State returns the current machine state.
func (g *SuggestionGate) State() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.current()
}

// Busy reports whether a request is in flight.
func (g *SuggestionGate) Busy() bool {
	return g.State() == StateRequesting
}

func (g *SuggestionGate) current() string {
	return string(g.interpreter.State().Value)
}
