package eventchain

import (
	"context"
	"errors"
	"sort"
)

// Graph holds one Chainer per event name, all sharing a directory.
// A Graph is immutable after construction and safe for concurrent use.
type Graph struct {
	directory Directory
	chainers  map[string]*Chainer
}

// NewGraph creates a Chainer for every router, keyed by the event whose
// outcome the router decides on. opts apply to every Chainer.
func NewGraph(dir Directory, routers map[string]Router, opts ...Option) *Graph {
	if dir == nil {
		dir = emptyDirectory{}
	}
	g := &Graph{
		directory: dir,
		chainers:  make(map[string]*Chainer, len(routers)),
	}
	for name, r := range routers {
		chainerOpts := append(append([]Option{}, opts...), WithSource(name))
		g.chainers[name] = NewChainer(r, dir, chainerOpts...)
	}
	return g
}

// Directory returns the directory shared by the graph's Chainers.
func (g *Graph) Directory() Directory {
	return g.directory
}

// Chainer returns the Chainer for events named name.
func (g *Graph) Chainer(name string) (*Chainer, bool) {
	c, ok := g.chainers[name]
	return c, ok
}

// Names returns the event names that have a router, sorted.
func (g *Graph) Names() []string {
	names := make([]string, 0, len(g.chainers))
	for name := range g.chainers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve resolves the successor of prior. Events without a router end
// their chain.
func (g *Graph) Resolve(ctx context.Context, prior *Event, result any) Outcome {
	if prior == nil {
		return Terminated(ReasonNoSuccessors)
	}
	c, ok := g.chainers[prior.Name]
	if !ok {
		return Terminated(ReasonNoSuccessors)
	}
	return c.ResolveFrom(ctx, prior, result)
}

// Validate checks every target a router declares against the directory.
// Routers that do not implement Targeted are skipped. Each unresolvable
// target is reported as a *ConfigError; the errors are joined.
func (g *Graph) Validate() error {
	var errs []error
	for _, name := range g.Names() {
		targeted, ok := g.chainers[name].router.(Targeted)
		if !ok {
			continue
		}
		for _, target := range targeted.Targets() {
			if _, found := g.directory.Lookup(target); !found {
				errs = append(errs, &ConfigError{Source: name, EventName: target})
			}
		}
	}
	return errors.Join(errs...)
}
