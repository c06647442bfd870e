package eventchain

import (
	"strings"
	"time"
)

// NoopEventName is the reserved successor name that ends a chain on purpose.
// Matching is case-insensitive.
const NoopEventName = "noop"

// Successor is a router's choice for the next step of a chain.
type Successor struct {
	// EventName is the logical name of the next event.
	// Empty, blank or NoopEventName means "no successor".
	EventName string

	// Delay is how long after the decision the next event becomes eligible.
	Delay time.Duration
}

// None is the Successor that ends the chain.
var None = Successor{}

// IsTerminal reports whether the successor ends the chain.
func (s Successor) IsTerminal() bool {
	return IsTerminalName(s.EventName)
}

// IsTerminalName reports whether name is empty, blank or the noop sentinel.
func IsTerminalName(name string) bool {
	name = strings.TrimSpace(name)
	return name == "" || strings.EqualFold(name, NoopEventName)
}

// Router decides the logical next step after an event finishes.
//
// Implementations must be pure: no I/O and no mutation of shared state, so
// that chains are replayable. Next must be total over any input/result pair
// and signals "no successor" through a terminal name rather than a panic.
type Router interface {
	// HasSuccessors reports whether the router can produce any successor.
	// When false, Next is never called.
	HasSuccessors() bool

	// Next chooses the successor for the finished event.
	Next(input, result any) Successor
}

// RouterFunc adapts a function to the Router interface.
// A RouterFunc always reports that it has successors.
type RouterFunc func(input, result any) Successor

// HasSuccessors returns true.
func (f RouterFunc) HasSuccessors() bool { return true }

// Next calls f.
func (f RouterFunc) Next(input, result any) Successor { return f(input, result) }

// Terminal is a Router for sink events that never have a successor.
var Terminal Router = terminalRouter{}

type terminalRouter struct{}

func (terminalRouter) HasSuccessors() bool     { return false }
func (terminalRouter) Next(_, _ any) Successor { return None }
func (terminalRouter) Targets() []string       { return nil }

// Targeted is implemented by routers that can list every event name they
// may choose. Graph.Validate uses it to catch wiring defects before a run.
type Targeted interface {
	Targets() []string
}
