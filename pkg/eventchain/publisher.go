package eventchain

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/randalmurphal/eventchain/pkg/eventchain/observability"
)

// Sink receives events that are ready to be scheduled.
// Persisting, delaying and executing them is the sink's business.
type Sink interface {
	Publish(ctx context.Context, evt *Event) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, evt *Event) error

// Publish calls f.
func (f SinkFunc) Publish(ctx context.Context, evt *Event) error {
	return f(ctx, evt)
}

// MemorySink collects published events in memory.
// It is safe for concurrent use.
type MemorySink struct {
	mu     sync.Mutex
	events []*Event
}

// Publish implements Sink.
func (s *MemorySink) Publish(_ context.Context, evt *Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, evt)
	return nil
}

// Events returns a snapshot of the published events in order.
func (s *MemorySink) Events() []*Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Event, len(s.events))
	copy(out, s.events)
	return out
}

// Len returns the number of published events.
func (s *MemorySink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

// Drain returns and removes all published events.
func (s *MemorySink) Drain() []*Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.events
	s.events = nil
	return out
}

// PublisherOption configures a Publisher.
type PublisherOption func(*Publisher)

// WithPublisherLogger sets the logger for fatal errors and publish activity.
// Default: slog.Default().
func WithPublisherLogger(logger *slog.Logger) PublisherOption {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// WithPublisherMetrics sets the metrics recorder for published events.
func WithPublisherMetrics(m observability.MetricsRecorder) PublisherOption {
	return func(p *Publisher) {
		if m != nil {
			p.metrics = m
		}
	}
}

// WithPublisherClock sets the clock used to schedule root events.
func WithPublisherClock(clock Clock) PublisherOption {
	return func(p *Publisher) {
		if clock != nil {
			p.clock = clock
		}
	}
}

// Publisher drives chains on behalf of the scheduling infrastructure: it
// resolves successors through a Graph and hands continuations to a Sink.
//
// A fatal configuration error halts the offending chain: the error is logged
// once and every later Advance for that chain is refused with ErrChainHalted.
type Publisher struct {
	graph   *Graph
	sink    Sink
	clock   Clock
	logger  *slog.Logger
	metrics observability.MetricsRecorder

	halted sync.Map // chain ID -> struct{}
}

// NewPublisher creates a Publisher.
func NewPublisher(g *Graph, sink Sink, opts ...PublisherOption) *Publisher {
	p := &Publisher{
		graph:   g,
		sink:    sink,
		clock:   RealClock{},
		logger:  slog.Default(),
		metrics: observability.NoopMetrics{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start publishes the root event of a new chain, due immediately.
// An unknown name is a *ConfigError.
func (p *Publisher) Start(ctx context.Context, name string, payload any) (*Event, error) {
	if _, ok := p.graph.Directory().Lookup(name); !ok {
		err := &ConfigError{EventName: name}
		observability.LogConfigError(observability.EnrichLogger(p.logger, "", name), err)
		return nil, err
	}
	evt := NewEvent(name, p.clock.Now(), payload)
	if err := p.publish(ctx, evt); err != nil {
		return nil, err
	}
	return evt, nil
}

// Advance resolves and publishes the successor of prior, whose processing
// produced result.
//
// It returns the step outcome and, for fatal or sink failures, an error:
// a *ConfigError, ErrChainHalted, or a *PublishError.
func (p *Publisher) Advance(ctx context.Context, prior *Event, result any) (Outcome, error) {
	if prior == nil {
		return Outcome{}, ErrNilEvent
	}
	logger := observability.EnrichLogger(p.logger, prior.ChainID, prior.Name)
	if p.Halted(prior.ChainID) {
		observability.LogChainHalted(logger)
		return Terminated(ReasonChainHalted), fmt.Errorf("chain %s: %w", prior.ChainID, ErrChainHalted)
	}

	out := p.graph.Resolve(ctx, prior, result)
	switch out.Kind {
	case OutcomeConfigError:
		p.halted.Store(prior.ChainID, struct{}{})
		observability.LogConfigError(logger, out.Err)
		return out, out.Err
	case OutcomeContinue:
		if err := p.publish(ctx, out.Event); err != nil {
			return out, err
		}
	}
	return out, nil
}

// Halted reports whether the chain was stopped by a fatal error.
func (p *Publisher) Halted(chainID string) bool {
	_, ok := p.halted.Load(chainID)
	return ok
}

func (p *Publisher) publish(ctx context.Context, evt *Event) error {
	err := p.sink.Publish(ctx, evt)
	p.metrics.RecordPublish(ctx, evt.Name, err)
	logger := observability.EnrichLogger(p.logger, evt.ChainID, evt.Name)
	if err != nil {
		observability.LogPublishError(logger, err)
		return &PublishError{EventName: evt.Name, ChainID: evt.ChainID, Err: err}
	}
	observability.LogPublished(logger, evt.ScheduledAt)
	return nil
}
