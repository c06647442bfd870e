package eventchain

import (
	"time"

	"github.com/google/uuid"
)

// Event is one unit of schedulable work.
// Events are immutable once created. Ownership passes to the scheduling
// infrastructure as soon as the Chainer returns one.
type Event struct {
	// ID uniquely identifies this event.
	ID string

	// ChainID groups every event of one logical workflow.
	// A root event's ChainID equals its ID.
	ChainID string

	// CausationID is the ID of the event whose outcome produced this one.
	// Empty for root events.
	CausationID string

	// Name is the logical event name, resolvable in the Directory.
	Name string

	// ScheduledAt is the earliest time the event may execute.
	ScheduledAt time.Time

	// Payload is the opaque input handed to the event's processor.
	Payload any

	// Immediate marks events whose payload travels with the event itself.
	Immediate bool
}

// EventOption configures event creation.
type EventOption func(*eventConfig)

type eventConfig struct {
	id          string
	chainID     string
	causationID string
}

// WithEventID sets a specific event ID (default: auto-generated UUID).
func WithEventID(id string) EventOption {
	return func(cfg *eventConfig) {
		cfg.id = id
	}
}

// WithChainID places the event in an existing chain.
func WithChainID(id string) EventOption {
	return func(cfg *eventConfig) {
		cfg.chainID = id
	}
}

// WithCausationID records the event that caused this one.
func WithCausationID(id string) EventOption {
	return func(cfg *eventConfig) {
		cfg.causationID = id
	}
}

// WithParent inherits the parent's chain and records it as the cause.
// A nil parent is ignored.
func WithParent(parent *Event) EventOption {
	return func(cfg *eventConfig) {
		if parent == nil {
			return
		}
		cfg.chainID = parent.ChainID
		cfg.causationID = parent.ID
	}
}

// NewEvent creates an immediate event.
func NewEvent(name string, scheduledAt time.Time, payload any, opts ...EventOption) *Event {
	cfg := &eventConfig{
		id: uuid.New().String(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	// No chain ID means this event roots a new chain
	if cfg.chainID == "" {
		cfg.chainID = cfg.id
	}

	return &Event{
		ID:          cfg.id,
		ChainID:     cfg.chainID,
		CausationID: cfg.causationID,
		Name:        name,
		ScheduledAt: scheduledAt,
		Payload:     payload,
		Immediate:   true,
	}
}

// IsRoot reports whether the event started its chain.
func (e *Event) IsRoot() bool {
	return e.CausationID == ""
}

// DueIn returns how long until the event becomes eligible, relative to now.
// Events already due return zero.
func (e *Event) DueIn(now time.Time) time.Duration {
	if d := e.ScheduledAt.Sub(now); d > 0 {
		return d
	}
	return 0
}
