// Package eventchain decides what a load test does next.
//
// When an event of a benchmark run finishes, eventchain turns its input and
// result into the next schedulable event, or into nothing. Chains of events
// built this way drive a load test over time.
//
// # Overview
//
//   - Router decides the logical successor (name and delay) of a finished event.
//   - Directory resolves successor names to handler capabilities.
//   - Transformer is an optional capability that builds the next payload.
//   - Chainer ties them together for one step.
//   - Graph holds a Chainer per event name.
//   - Publisher hands continuations to a Sink and halts broken chains.
//
// # Resolving one step
//
//	chainer := eventchain.NewChainer(router, dir)
//
//	evt, err := chainer.NextEvent(ctx, input, result)
//	switch {
//	case err != nil:
//	    // *ConfigError: the router chose a name the directory lacks.
//	    // Stop scheduling this chain.
//	case evt == nil:
//	    // The chain ended normally.
//	default:
//	    // Schedule evt at evt.ScheduledAt.
//	}
//
// Resolve returns the same information as a tagged Outcome, which also says
// why a chain ended (no successors, noop, failed transform).
//
// # Termination
//
// A chain ends normally when the router has no successors, when it picks an
// empty, blank or "noop" (any case) name, or when the successor's transformer
// returns anything but StatusSuccess. The last case is silent unless an observer is
// installed with WithTransformFailureObserver.
//
// A successor name missing from the directory is a fatal configuration
// error. It is never retried.
//
// # Concurrency
//
// Chainer, Graph and the directory are read-only after construction. Any
// number of goroutines may resolve steps at the same time.
package eventchain
