package eventchain

// OutcomeKind distinguishes the three results of one chain step.
type OutcomeKind int

const (
	// OutcomeTerminated is a normal end of the chain.
	OutcomeTerminated OutcomeKind = iota

	// OutcomeContinue carries the next event.
	OutcomeContinue

	// OutcomeConfigError is a fatal wiring defect.
	OutcomeConfigError
)

// String returns the kind name.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeTerminated:
		return "terminated"
	case OutcomeContinue:
		return "continue"
	case OutcomeConfigError:
		return "config_error"
	default:
		return "unknown"
	}
}

// Reason explains why a chain terminated normally.
type Reason int

const (
	// ReasonNone is used for non-terminated outcomes.
	ReasonNone Reason = iota

	// ReasonNoSuccessors means the router declared itself terminal.
	ReasonNoSuccessors

	// ReasonNoop means the router chose an empty, blank or noop name.
	ReasonNoop

	// ReasonTransformFailed means the successor's transformer returned FAILURE.
	ReasonTransformFailed

	// ReasonChainHalted means the chain was stopped by an earlier fatal error.
	ReasonChainHalted
)

// String returns the reason name.
func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonNoSuccessors:
		return "no_successors"
	case ReasonNoop:
		return "noop"
	case ReasonTransformFailed:
		return "transform_failed"
	case ReasonChainHalted:
		return "chain_halted"
	default:
		return "unknown"
	}
}

// Outcome is the tagged result of one chain step:
// Continue(Event) | Terminated(Reason) | ConfigError(name).
type Outcome struct {
	Kind OutcomeKind

	// Event is set only for OutcomeContinue.
	Event *Event

	// Reason is set only for OutcomeTerminated.
	Reason Reason

	// Err is set only for OutcomeConfigError.
	Err *ConfigError
}

// Continue returns an outcome carrying the next event.
func Continue(evt *Event) Outcome {
	return Outcome{Kind: OutcomeContinue, Event: evt}
}

// Terminated returns a normal-termination outcome.
func Terminated(reason Reason) Outcome {
	return Outcome{Kind: OutcomeTerminated, Reason: reason}
}

// Misconfigured returns a fatal outcome for an unresolvable successor.
func Misconfigured(err *ConfigError) Outcome {
	return Outcome{Kind: OutcomeConfigError, Err: err}
}

// Continues reports whether the outcome carries a next event.
func (o Outcome) Continues() bool { return o.Kind == OutcomeContinue }

// Fatal reports whether the outcome is a configuration error.
func (o Outcome) Fatal() bool { return o.Kind == OutcomeConfigError }

// Result converts the outcome to the (*Event, error) form used by NextEvent.
// Normal termination yields (nil, nil).
func (o Outcome) Result() (*Event, error) {
	switch o.Kind {
	case OutcomeContinue:
		return o.Event, nil
	case OutcomeConfigError:
		return nil, o.Err
	default:
		return nil, nil
	}
}
