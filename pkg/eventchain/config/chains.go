package config

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"
)

// Sentinel errors for chain definitions.
var (
	// ErrNoEvents indicates the definition has no `events` mapping.
	ErrNoEvents = errors.New("no events defined")

	// ErrMixedSelectors indicates an event combines next, successors and rules.
	ErrMixedSelectors = errors.New("only one of next, successors or rules may be set")

	// ErrMissingField indicates a required field is absent.
	ErrMissingField = errors.New("missing required field")

	// ErrUnknownField indicates a key the definition does not know, usually a typo.
	ErrUnknownField = errors.New("unknown field")

	// ErrInvalidValue indicates a field holding a value of the wrong shape.
	ErrInvalidValue = errors.New("invalid value")
)

// SelectorKind identifies how an event chooses its successor.
type SelectorKind int

const (
	// SelectorTerminal events have no successors.
	SelectorTerminal SelectorKind = iota
	// SelectorSingle events always continue with one successor.
	SelectorSingle
	// SelectorWeighted events pick a successor at random by weight.
	SelectorWeighted
	// SelectorConditional events pick the first matching rule.
	SelectorConditional
)

// String returns the kind name.
func (k SelectorKind) String() string {
	switch k {
	case SelectorTerminal:
		return "terminal"
	case SelectorSingle:
		return "single"
	case SelectorWeighted:
		return "weighted"
	case SelectorConditional:
		return "conditional"
	default:
		return "unknown"
	}
}

// Definition is a parsed chain graph.
type Definition struct {
	Events map[string]EventDefinition
}

// EventDefinition describes how one event chooses its successor.
type EventDefinition struct {
	Name string
	Kind SelectorKind

	// Single
	Next  string
	Delay time.Duration

	// Weighted
	Successors []WeightedDefinition

	// Conditional
	Rules          []RuleDefinition
	Otherwise      string
	OtherwiseDelay time.Duration
}

// WeightedDefinition is one weighted choice.
type WeightedDefinition struct {
	Event  string
	Weight int
	Delay  time.Duration
}

// RuleDefinition is one conditional rule.
type RuleDefinition struct {
	When  string
	Event string
	Delay time.Duration
}

// FieldError locates a problem in a chain definition.
type FieldError struct {
	Event string
	Field string
	Err   error
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	return fmt.Sprintf("event %s: %s: %v", e.Event, e.Field, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *FieldError) Unwrap() error {
	return e.Err
}

// Names returns the defined event names, sorted.
func (d Definition) Names() []string {
	names := make([]string, 0, len(d.Events))
	for name := range d.Events {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseChains reads the `events` mapping of cfg.
// All problems are reported together.
func ParseChains(cfg Config) (Definition, error) {
	if !cfg.Has("events") {
		return Definition{}, ErrNoEvents
	}
	events := cfg.Sub("events")

	def := Definition{Events: make(map[string]EventDefinition, len(events.Raw()))}
	var errs []error
	for _, name := range events.Keys() {
		if _, ok := asMap(events.Raw()[name]); !ok {
			errs = append(errs, &FieldError{Event: name, Field: "events", Err: errors.New("must be a mapping")})
			continue
		}
		ed, err := parseEvent(name, events.Sub(name))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		def.Events[name] = ed
	}
	if len(errs) > 0 {
		return Definition{}, errors.Join(errs...)
	}
	return def, nil
}

// Keys accepted at each level of an event definition.
var (
	eventFields     = []string{"next", "delay", "successors", "rules", "otherwise", "otherwise_delay"}
	successorFields = []string{"event", "weight", "delay"}
	ruleFields      = []string{"when", "event", "delay"}
)

func parseEvent(name string, c Config) (EventDefinition, error) {
	ed := EventDefinition{Name: name}
	f := &fieldErrors{event: name}
	f.unknown(c, "", eventFields)

	set := 0
	for _, key := range []string{"next", "successors", "rules"} {
		if c.Has(key) {
			set++
		}
	}
	if set > 1 {
		f.add("selector", ErrMixedSelectors)
		return ed, f.err()
	}

	switch {
	case c.Has("next"):
		ed.Kind = SelectorSingle
		ed.Next = f.str(c, "", "next")
		if ed.Next == "" {
			f.add("next", ErrMissingField)
		}
		ed.Delay = f.duration(c, "", "delay")

	case c.Has("successors"):
		ed.Kind = SelectorWeighted
		for i, s := range f.list(c, "successors") {
			prefix := fmt.Sprintf("successors[%d].", i)
			f.unknown(s, prefix, successorFields)
			event := f.str(s, prefix, "event")
			if event == "" {
				f.add(prefix+"event", ErrMissingField)
			}
			ed.Successors = append(ed.Successors, WeightedDefinition{
				Event:  event,
				Weight: f.weight(s, prefix),
				Delay:  f.duration(s, prefix, "delay"),
			})
		}

	case c.Has("rules"):
		ed.Kind = SelectorConditional
		for i, r := range f.list(c, "rules") {
			prefix := fmt.Sprintf("rules[%d].", i)
			f.unknown(r, prefix, ruleFields)
			when := f.str(r, prefix, "when")
			if when == "" {
				f.add(prefix+"when", ErrMissingField)
			}
			ed.Rules = append(ed.Rules, RuleDefinition{
				When:  when,
				Event: f.str(r, prefix, "event"),
				Delay: f.duration(r, prefix, "delay"),
			})
		}
		ed.Otherwise = f.str(c, "", "otherwise")
		ed.OtherwiseDelay = f.duration(c, "", "otherwise_delay")

	default:
		ed.Kind = SelectorTerminal
	}

	if err := f.err(); err != nil {
		return EventDefinition{Name: name}, err
	}
	return ed, nil
}

// fieldErrors collects every problem found in one event definition.
type fieldErrors struct {
	event string
	errs  []error
}

func (f *fieldErrors) add(field string, err error) {
	f.errs = append(f.errs, &FieldError{Event: f.event, Field: field, Err: err})
}

func (f *fieldErrors) err() error {
	return errors.Join(f.errs...)
}

// unknown reports every key of c not in allowed.
func (f *fieldErrors) unknown(c Config, prefix string, allowed []string) {
	for _, key := range c.Keys() {
		if !slices.Contains(allowed, key) {
			f.add(prefix+key, ErrUnknownField)
		}
	}
}

// str reads an optional string field. A null value reads as empty.
func (f *fieldErrors) str(c Config, prefix, key string) string {
	v := c.Raw()[key]
	if v == nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		f.add(prefix+key, fmt.Errorf("%w: want a string, got %T", ErrInvalidValue, v))
		return ""
	}
	return strings.TrimSpace(s)
}

// duration reads an optional duration field.
func (f *fieldErrors) duration(c Config, prefix, key string) time.Duration {
	if !c.Has(key) {
		return 0
	}
	d, ok := c.LookupDuration(key)
	if !ok {
		f.add(prefix+key, fmt.Errorf("%w: %v is not a duration", ErrInvalidValue, c.Raw()[key]))
	}
	return d
}

// weight reads a successor weight, 1 when absent.
func (f *fieldErrors) weight(c Config, prefix string) int {
	if !c.Has("weight") {
		return 1
	}
	w, ok := c.LookupInt("weight")
	if !ok {
		f.add(prefix+"weight", fmt.Errorf("%w: %v is not an integer", ErrInvalidValue, c.Raw()["weight"]))
		return 1
	}
	return w
}

// list reads a list of mappings. Any other shape is reported.
func (f *fieldErrors) list(c Config, key string) []Config {
	items, ok := c.Raw()[key].([]any)
	if !ok {
		f.add(key, fmt.Errorf("%w: want a list, got %T", ErrInvalidValue, c.Raw()[key]))
		return nil
	}
	out := make([]Config, 0, len(items))
	for i, item := range items {
		m, ok := asMap(item)
		if !ok {
			f.add(fmt.Sprintf("%s[%d]", key, i), fmt.Errorf("%w: want a mapping, got %T", ErrInvalidValue, item))
			continue
		}
		out = append(out, New(m))
	}
	return out
}
