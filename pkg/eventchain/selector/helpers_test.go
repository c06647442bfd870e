package selector_test

import (
	"context"
	"testing"

	"github.com/randalmurphal/eventchain/pkg/eventchain"
	"github.com/randalmurphal/eventchain/pkg/eventchain/directory"
)

func eventchainDirectory(t *testing.T, names ...string) *directory.Directory {
	t.Helper()
	b := directory.NewBuilder()
	for _, name := range names {
		b.Register(name, eventchain.ProcessorFunc(func(_ context.Context, evt *eventchain.Event) (any, error) {
			return evt.Payload, nil
		}))
	}
	return b.MustBuild()
}
