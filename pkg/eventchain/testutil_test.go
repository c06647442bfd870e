package eventchain_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/eventchain/pkg/eventchain"
	"github.com/randalmurphal/eventchain/pkg/eventchain/directory"
)

var testStart = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// stubRouter returns a fixed successor and counts decisions.
type stubRouter struct {
	successors bool
	next       eventchain.Successor
	calls      atomic.Int32

	lastInput  any
	lastResult any
}

func routeTo(name string, delay time.Duration) *stubRouter {
	return &stubRouter{
		successors: true,
		next:       eventchain.Successor{EventName: name, Delay: delay},
	}
}

func (r *stubRouter) HasSuccessors() bool { return r.successors }

func (r *stubRouter) Next(input, result any) eventchain.Successor {
	r.calls.Add(1)
	r.lastInput = input
	r.lastResult = result
	return r.next
}

// nopProcessor is a plain handler.
var nopProcessor = eventchain.ProcessorFunc(func(_ context.Context, evt *eventchain.Event) (any, error) {
	return evt.Payload, nil
})

// builderProcessor is a handler that builds its own input.
type builderProcessor struct {
	result eventchain.TransformResult
	calls  atomic.Int32
}

func (p *builderProcessor) Process(_ context.Context, evt *eventchain.Event) (any, error) {
	return evt.Payload, nil
}

func (p *builderProcessor) Transform(_ context.Context, _, _ any) eventchain.TransformResult {
	p.calls.Add(1)
	return p.result
}

// newDirectory builds a directory with plain handlers for names.
func newDirectory(t *testing.T, names ...string) *directory.Builder {
	t.Helper()
	b := directory.NewBuilder()
	for _, name := range names {
		b.Register(name, nopProcessor)
	}
	return b
}

func mustBuild(t *testing.T, b *directory.Builder) *directory.Directory {
	t.Helper()
	dir, err := b.Build()
	require.NoError(t, err)
	return dir
}
