package eventchain

import "context"

// Status tags the outcome of a transformation.
type Status int

const (
	// StatusUnknown is the zero value: a transformer that built nothing.
	// It ends the chain like StatusFailure.
	StatusUnknown Status = iota

	// StatusSuccess means the payload may be used for the next event.
	StatusSuccess

	// StatusFailure means the chain ends silently.
	StatusFailure
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "SUCCESS"
	case StatusFailure:
		return "FAILURE"
	default:
		return "UNKNOWN"
	}
}

// TransformResult wraps the output of a Transformer.
// The zero value does not continue the chain.
type TransformResult struct {
	Status  Status
	Payload any
}

// Succeeded reports whether the result may continue the chain.
func (r TransformResult) Succeeded() bool {
	return r.Status == StatusSuccess
}

// Success wraps a payload that continues the chain.
func Success(payload any) TransformResult {
	return TransformResult{Status: StatusSuccess, Payload: payload}
}

// Failure returns a result that ends the chain.
func Failure() TransformResult {
	return TransformResult{Status: StatusFailure}
}

// Processor executes one event. The Chainer never calls it; it is carried in
// the directory for the scheduling infrastructure.
type Processor interface {
	Process(ctx context.Context, evt *Event) (any, error)
}

// ProcessorFunc adapts a function to the Processor interface.
type ProcessorFunc func(ctx context.Context, evt *Event) (any, error)

// Process calls f.
func (f ProcessorFunc) Process(ctx context.Context, evt *Event) (any, error) {
	return f(ctx, evt)
}

// Transformer builds the input of an event from the previous step's input and
// result, instead of accepting the raw result.
type Transformer interface {
	Transform(ctx context.Context, input, result any) TransformResult
}

// TransformerFunc adapts a function to the Transformer interface.
type TransformerFunc func(ctx context.Context, input, result any) TransformResult

// Transform calls f.
func (f TransformerFunc) Transform(ctx context.Context, input, result any) TransformResult {
	return f(ctx, input, result)
}

// Capability is a resolved directory entry.
// Transformer is nil for plain handlers that accept the prior result verbatim.
type Capability struct {
	Name        string
	Processor   Processor
	Transformer Transformer
}

// CanTransform reports whether the handler builds its own input.
func (c Capability) CanTransform() bool {
	return c.Transformer != nil
}

// Directory is the read-only lookup from event name to handler capability.
// Implementations must be safe for concurrent reads.
type Directory interface {
	Lookup(name string) (Capability, bool)
}
