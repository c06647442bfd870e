package selector

import (
	"errors"
	"fmt"

	"github.com/randalmurphal/eventchain/pkg/eventchain"
	"github.com/randalmurphal/eventchain/pkg/eventchain/condition"
	"github.com/randalmurphal/eventchain/pkg/eventchain/config"
)

// FromDefinition builds one router per event of a parsed chain definition.
// opts apply to every weighted selector.
func FromDefinition(def config.Definition, opts ...WeightedOption) (map[string]eventchain.Router, error) {
	routers := make(map[string]eventchain.Router, len(def.Events))
	var errs []error

	for _, name := range def.Names() {
		r, err := build(def.Events[name], opts)
		if err != nil {
			errs = append(errs, fmt.Errorf("event %s: %w", name, err))
			continue
		}
		routers[name] = r
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return routers, nil
}

func build(ed config.EventDefinition, opts []WeightedOption) (eventchain.Router, error) {
	switch ed.Kind {
	case config.SelectorTerminal:
		return eventchain.Terminal, nil

	case config.SelectorSingle:
		return Single(ed.Next, ed.Delay), nil

	case config.SelectorWeighted:
		choices := make([]WeightedSuccessor, 0, len(ed.Successors))
		for _, s := range ed.Successors {
			choices = append(choices, WeightedSuccessor{EventName: s.Event, Weight: s.Weight, Delay: s.Delay})
		}
		return Weighted(choices, opts...)

	case config.SelectorConditional:
		rules := make([]Rule, 0, len(ed.Rules))
		for i, r := range ed.Rules {
			when, err := condition.Compile(r.When)
			if err != nil {
				return nil, fmt.Errorf("rules[%d]: %w", i, err)
			}
			rules = append(rules, Rule{
				When:      when,
				Successor: eventchain.Successor{EventName: r.Event, Delay: r.Delay},
			})
		}
		return Conditional(rules, eventchain.Successor{EventName: ed.Otherwise, Delay: ed.OtherwiseDelay}), nil

	default:
		return nil, fmt.Errorf("unknown selector kind %d", ed.Kind)
	}
}
