package firmware

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrUnknownFormat is returned by Registry.New for names that were never registered.
	ErrUnknownFormat = errors.New("unknown firmware format")

	// ErrDuplicateFormat is returned by Registry.Register when the name is taken.
	ErrDuplicateFormat = errors.New("firmware format already registered")
)

// Factory creates a fresh parser for one format.
type Factory func() Parser

// Registry maps format names to parser factories.
// It is populated once at startup by the caller and read-only afterwards.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register binds name to f.
func (r *Registry) Register(name string, f Factory) error {
	if name == "" {
		return fmt.Errorf("format name cannot be empty")
	}
	if f == nil {
		return fmt.Errorf("format %q: factory cannot be nil", name)
	}
	if _, ok := r.factories[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateFormat, name)
	}
	r.factories[name] = f
	return nil
}

// New returns a parser for the named format.
func (r *Registry) New(name string) (Parser, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, name)
	}
	return f(), nil
}

// Names returns the registered format names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
