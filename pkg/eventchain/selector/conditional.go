package selector

import (
	"github.com/randalmurphal/eventchain/pkg/eventchain"
	"github.com/randalmurphal/eventchain/pkg/eventchain/condition"
)

// Rule maps a condition to a successor.
type Rule struct {
	When      *condition.Condition
	Successor eventchain.Successor
}

// ConditionalSelector picks the successor of the first matching rule, or the
// fallback when none match.
type ConditionalSelector struct {
	rules     []Rule
	otherwise eventchain.Successor
}

var (
	_ eventchain.Router   = (*ConditionalSelector)(nil)
	_ eventchain.Targeted = (*ConditionalSelector)(nil)
)

// Conditional creates a selector over rules, evaluated in order.
// Conditions see the step as `input` and `result` (see condition.Vars).
func Conditional(rules []Rule, otherwise eventchain.Successor) *ConditionalSelector {
	s := &ConditionalSelector{
		rules:     make([]Rule, 0, len(rules)),
		otherwise: otherwise,
	}
	for _, r := range rules {
		if r.When != nil {
			s.rules = append(s.rules, r)
		}
	}
	return s
}

// HasSuccessors reports whether any rule or the fallback can continue.
func (s *ConditionalSelector) HasSuccessors() bool {
	return len(s.Targets()) > 0
}

// Next evaluates the rules against the step.
func (s *ConditionalSelector) Next(input, result any) eventchain.Successor {
	vars := condition.Vars(input, result)
	for _, r := range s.rules {
		if r.When.Match(vars) {
			return r.Successor
		}
	}
	return s.otherwise
}

// Targets implements eventchain.Targeted.
func (s *ConditionalSelector) Targets() []string {
	var names []string
	for _, r := range s.rules {
		if !r.Successor.IsTerminal() {
			names = append(names, r.Successor.EventName)
		}
	}
	if !s.otherwise.IsTerminal() {
		names = append(names, s.otherwise.EventName)
	}
	return names
}
