package directory

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/randalmurphal/eventchain/pkg/eventchain"
)

// Sentinel errors for directory building.
var (
	// ErrInvalidName indicates an empty, blank or reserved handler name.
	ErrInvalidName = errors.New("invalid handler name")

	// ErrDuplicateName indicates a name was registered twice.
	ErrDuplicateName = errors.New("duplicate handler name")

	// ErrNilProcessor indicates a handler was registered without a processor.
	ErrNilProcessor = errors.New("processor cannot be nil")
)

// RegistrationError describes one rejected registration.
type RegistrationError struct {
	Name string
	Err  error
}

// Error implements the error interface.
func (e *RegistrationError) Error() string {
	return fmt.Sprintf("register %q: %v", e.Name, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *RegistrationError) Unwrap() error {
	return e.Err
}

// Directory is an immutable name to capability lookup.
// All methods are safe for concurrent use.
type Directory struct {
	entries map[string]eventchain.Capability
}

var _ eventchain.Directory = (*Directory)(nil)

// Lookup returns the capability registered under name.
func (d *Directory) Lookup(name string) (eventchain.Capability, bool) {
	if d == nil {
		return eventchain.Capability{}, false
	}
	c, ok := d.entries[name]
	return c, ok
}

// Has returns true if name is registered.
func (d *Directory) Has(name string) bool {
	_, ok := d.Lookup(name)
	return ok
}

// Len returns the number of registered handlers.
func (d *Directory) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}

// Names returns all registered names, sorted.
func (d *Directory) Names() []string {
	if d == nil {
		return nil
	}
	names := make([]string, 0, len(d.entries))
	for name := range d.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Range calls fn for each entry in name order until fn returns false.
func (d *Directory) Range(fn func(name string, c eventchain.Capability) bool) {
	for _, name := range d.Names() {
		if !fn(name, d.entries[name]) {
			return
		}
	}
}

// Builder collects registrations for a Directory.
// A Builder is not safe for concurrent use.
type Builder struct {
	entries map[string]eventchain.Capability
	errs    []error
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{
		entries: make(map[string]eventchain.Capability),
	}
}

// Register adds a handler. If p also implements eventchain.Transformer it is
// recorded as a transforming handler.
func (b *Builder) Register(name string, p eventchain.Processor) *Builder {
	var t eventchain.Transformer
	if tp, ok := p.(eventchain.Transformer); ok {
		t = tp
	}
	return b.add(name, p, t)
}

// RegisterTransformer adds a handler with an explicit transformer.
// A nil transformer registers a plain handler.
func (b *Builder) RegisterTransformer(name string, p eventchain.Processor, t eventchain.Transformer) *Builder {
	return b.add(name, p, t)
}

func (b *Builder) add(name string, p eventchain.Processor, t eventchain.Transformer) *Builder {
	switch {
	case strings.TrimSpace(name) != name || eventchain.IsTerminalName(name):
		b.errs = append(b.errs, &RegistrationError{Name: name, Err: ErrInvalidName})
	case p == nil:
		b.errs = append(b.errs, &RegistrationError{Name: name, Err: ErrNilProcessor})
	default:
		if _, exists := b.entries[name]; exists {
			b.errs = append(b.errs, &RegistrationError{Name: name, Err: ErrDuplicateName})
			return b
		}
		b.entries[name] = eventchain.Capability{
			Name:        name,
			Processor:   p,
			Transformer: t,
		}
	}
	return b
}

// Build returns the immutable Directory, or every registration error joined.
// The builder may keep being used; later registrations do not affect
// directories already built.
func (b *Builder) Build() (*Directory, error) {
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}
	entries := make(map[string]eventchain.Capability, len(b.entries))
	for k, v := range b.entries {
		entries[k] = v
	}
	return &Directory{entries: entries}, nil
}

// MustBuild is like Build but panics on error.
func (b *Builder) MustBuild() *Directory {
	d, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("directory: %v", err))
	}
	return d
}
