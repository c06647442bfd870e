package eventchain

import (
	"errors"
	"fmt"
)

// Sentinel errors for chain resolution.
var (
	// ErrUnknownSuccessor indicates a router chose an event name the
	// directory cannot resolve. It is a wiring defect and must not be retried.
	ErrUnknownSuccessor = errors.New("unknown successor event")

	// ErrChainHalted indicates publishing was refused because the chain
	// previously hit a fatal configuration error.
	ErrChainHalted = errors.New("chain halted")

	// ErrNilEvent indicates Advance was called without a prior event.
	ErrNilEvent = errors.New("prior event cannot be nil")
)

// ConfigError is the fatal configuration error raised when a successor name
// does not resolve. It unwraps to ErrUnknownSuccessor.
type ConfigError struct {
	// Source is the event whose router made the choice, if known.
	Source string
	// EventName is the unresolvable successor name.
	EventName string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("router for %s: %v %q: no further events will be published",
			e.Source, ErrUnknownSuccessor, e.EventName)
	}
	return fmt.Sprintf("%v %q: no further events will be published", ErrUnknownSuccessor, e.EventName)
}

// Unwrap returns ErrUnknownSuccessor for errors.Is support.
func (e *ConfigError) Unwrap() error {
	return ErrUnknownSuccessor
}

// IsConfigError reports whether err is a fatal configuration error.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrUnknownSuccessor)
}

// PublishError wraps a sink failure for a resolved event.
type PublishError struct {
	// EventName is the event that could not be published.
	EventName string
	// ChainID is the chain the event belonged to.
	ChainID string
	// Err is the underlying sink error.
	Err error
}

// Error implements the error interface.
func (e *PublishError) Error() string {
	return fmt.Sprintf("publish %s (chain %s): %v", e.EventName, e.ChainID, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *PublishError) Unwrap() error {
	return e.Err
}
