package selector

import (
	"time"

	"github.com/randalmurphal/eventchain/pkg/eventchain"
)

// SingleSelector always chooses the same successor.
type SingleSelector struct {
	next eventchain.Successor
}

var (
	_ eventchain.Router   = (*SingleSelector)(nil)
	_ eventchain.Targeted = (*SingleSelector)(nil)
)

// Single returns a selector that always continues with name after delay.
// A terminal name yields a selector without successors.
func Single(name string, delay time.Duration) *SingleSelector {
	return &SingleSelector{
		next: eventchain.Successor{EventName: name, Delay: delay},
	}
}

// HasSuccessors reports whether the configured name is not terminal.
func (s *SingleSelector) HasSuccessors() bool {
	return !s.next.IsTerminal()
}

// Next returns the configured successor.
func (s *SingleSelector) Next(_, _ any) eventchain.Successor {
	return s.next
}

// Targets implements eventchain.Targeted.
func (s *SingleSelector) Targets() []string {
	if s.next.IsTerminal() {
		return nil
	}
	return []string{s.next.EventName}
}
