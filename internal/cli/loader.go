package cli

import (
	"context"
	"fmt"

	"github.com/randalmurphal/eventchain/pkg/eventchain"
	"github.com/randalmurphal/eventchain/pkg/eventchain/config"
	"github.com/randalmurphal/eventchain/pkg/eventchain/directory"
	"github.com/randalmurphal/eventchain/pkg/eventchain/selector"
)

// loadedChains is a chain file turned into a runnable graph.
type loadedChains struct {
	def   config.Definition
	dir   *directory.Directory
	graph *eventchain.Graph
}

// simulated stands in for real handlers: every defined event is processed
// by echoing its payload.
var simulated = eventchain.ProcessorFunc(func(_ context.Context, evt *eventchain.Event) (any, error) {
	return evt.Payload, nil
})

// loadChains parses path and registers a simulated handler for every
// defined event. Targets that are not defined stay unresolvable.
func loadChains(path string, chainerOpts []eventchain.Option, weightedOpts ...selector.WeightedOption) (*loadedChains, error) {
	def, err := config.LoadChains(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	b := directory.NewBuilder()
	for _, name := range def.Names() {
		b.Register(name, simulated)
	}
	dir, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("build directory: %w", err)
	}

	routers, err := selector.FromDefinition(def, weightedOpts...)
	if err != nil {
		return nil, fmt.Errorf("build selectors: %w", err)
	}

	return &loadedChains{
		def:   def,
		dir:   dir,
		graph: eventchain.NewGraph(dir, routers, chainerOpts...),
	}, nil
}
