package eventchain

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/randalmurphal/eventchain/pkg/eventchain/observability"
)

// Chainer resolves the successor of a finished event.
//
// A Chainer is stateless and safe for concurrent use: each call is a function
// of its arguments, the router and the read-only directory.
type Chainer struct {
	router    Router
	directory Directory
	cfg       chainerConfig
}

// NewChainer creates a Chainer consulting router and resolving names in dir.
// A nil router behaves like Terminal. A nil directory resolves nothing.
func NewChainer(router Router, dir Directory, opts ...Option) *Chainer {
	cfg := defaultChainerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if router == nil {
		router = Terminal
	}
	if dir == nil {
		dir = emptyDirectory{}
	}
	return &Chainer{
		router:    router,
		directory: dir,
		cfg:       cfg,
	}
}

// Source returns the name configured with WithSource.
func (c *Chainer) Source() string {
	return c.cfg.source
}

// Router returns the router the Chainer consults.
func (c *Chainer) Router() Router {
	return c.router
}

// NextEvent returns the next event of the chain, or nil when the chain ends.
// The only error is a *ConfigError for an unresolvable successor.
func (c *Chainer) NextEvent(ctx context.Context, input, result any) (*Event, error) {
	return c.Resolve(ctx, input, result).Result()
}

// Resolve returns the tagged outcome of one chain step. The resulting event,
// if any, roots a new chain.
func (c *Chainer) Resolve(ctx context.Context, input, result any) Outcome {
	return c.resolve(ctx, input, result, nil)
}

// ResolveFrom resolves the successor of prior, using its payload as the
// input. The resulting event joins prior's chain.
func (c *Chainer) ResolveFrom(ctx context.Context, prior *Event, result any) Outcome {
	var input any
	if prior != nil {
		input = prior.Payload
	}
	return c.resolve(ctx, input, result, prior)
}

func (c *Chainer) resolve(ctx context.Context, input, result any, parent *Event) (out Outcome) {
	elapsed := observability.TimedOperation()
	ctx, span := c.cfg.spans.StartStepSpan(ctx, c.cfg.source)
	defer func() {
		var err error
		if out.Err != nil {
			err = out.Err
		}
		c.cfg.spans.EndSpanWithError(span, err)
		c.record(ctx, out, elapsed())
	}()

	if !c.router.HasSuccessors() {
		return Terminated(ReasonNoSuccessors)
	}

	next := c.router.Next(input, result)
	if next.IsTerminal() {
		return Terminated(ReasonNoop)
	}

	capability, ok := c.directory.Lookup(next.EventName)
	if !ok {
		return Misconfigured(&ConfigError{Source: c.cfg.source, EventName: next.EventName})
	}

	// Handlers that cannot build their own input take the raw result
	data := Success(result)
	if capability.CanTransform() {
		data = capability.Transformer.Transform(ctx, input, result)
	}

	if !data.Succeeded() {
		c.cfg.spans.AddSpanEvent(ctx, "transform_failed",
			attribute.String("event", next.EventName),
			attribute.String("status", data.Status.String()),
		)
		if c.cfg.onTransformFailure != nil {
			c.cfg.onTransformFailure(ctx, c.cfg.source, next.EventName, data.Payload)
		}
		return Terminated(ReasonTransformFailed)
	}

	delay := next.Delay
	if delay < 0 {
		delay = 0
	}

	evt := NewEvent(next.EventName, c.cfg.clock.Now().Add(delay), data.Payload, WithParent(parent))
	return Continue(evt)
}

func (c *Chainer) record(ctx context.Context, out Outcome, durationMs float64) {
	c.cfg.metrics.RecordStep(ctx, c.cfg.source, out.Kind.String(), out.Reason.String(),
		time.Duration(durationMs*float64(time.Millisecond)))

	var next string
	if out.Event != nil {
		next = out.Event.Name
	}
	observability.LogStepOutcome(c.cfg.logger, c.cfg.source, out.Kind.String(), out.Reason.String(),
		next, durationMs)
}

type emptyDirectory struct{}

func (emptyDirectory) Lookup(string) (Capability, bool) { return Capability{}, false }
