package selector

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/randalmurphal/eventchain/pkg/eventchain"
)

// ErrNegativeWeight indicates a successor was given a weight below zero.
var ErrNegativeWeight = errors.New("negative weight")

// WeightedSuccessor is one choice of a WeightedSelector.
type WeightedSuccessor struct {
	EventName string
	Weight    int
	Delay     time.Duration
}

// WeightedOption configures a WeightedSelector.
type WeightedOption func(*WeightedSelector)

// WithIntN replaces the random source. fn must return a value in [0, n) and
// be safe for concurrent use. Default: math/rand/v2.IntN.
func WithIntN(fn func(n int) int) WeightedOption {
	return func(s *WeightedSelector) {
		if fn != nil {
			s.intN = fn
		}
	}
}

// WeightedSelector picks a successor at random, proportionally to weight.
// Zero-weight choices are kept as targets but never chosen.
type WeightedSelector struct {
	choices []WeightedSuccessor
	total   int
	intN    func(n int) int
}

var (
	_ eventchain.Router   = (*WeightedSelector)(nil)
	_ eventchain.Targeted = (*WeightedSelector)(nil)
)

// Weighted creates a weighted selector. A selector without choices, or whose
// weights sum to zero, has no successors.
func Weighted(choices []WeightedSuccessor, opts ...WeightedOption) (*WeightedSelector, error) {
	s := &WeightedSelector{
		choices: make([]WeightedSuccessor, len(choices)),
		intN:    rand.IntN,
	}
	copy(s.choices, choices)

	for _, c := range s.choices {
		if c.Weight < 0 {
			return nil, fmt.Errorf("successor %q: %w (%d)", c.EventName, ErrNegativeWeight, c.Weight)
		}
		s.total += c.Weight
	}

	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// HasSuccessors reports whether any choice has a positive weight.
func (s *WeightedSelector) HasSuccessors() bool {
	return s.total > 0
}

// Next draws a successor. Inputs do not influence the draw.
func (s *WeightedSelector) Next(_, _ any) eventchain.Successor {
	if s.total <= 0 {
		return eventchain.None
	}
	pick := s.intN(s.total)
	for _, c := range s.choices {
		if pick < c.Weight {
			return eventchain.Successor{EventName: c.EventName, Delay: c.Delay}
		}
		pick -= c.Weight
	}
	// Unreachable with a well-behaved intN
	return eventchain.None
}

// Targets implements eventchain.Targeted.
func (s *WeightedSelector) Targets() []string {
	var names []string
	for _, c := range s.choices {
		if !eventchain.IsTerminalName(c.EventName) {
			names = append(names, c.EventName)
		}
	}
	return names
}

// Choices returns a copy of the configured choices.
func (s *WeightedSelector) Choices() []WeightedSuccessor {
	out := make([]WeightedSuccessor, len(s.choices))
	copy(out, s.choices)
	return out
}
