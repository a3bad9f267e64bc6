// Package registry holds the named function constructors that a
// declarative graph description (see internal/hcldef) can refer to by
// name, since an HCL document has no way to embed a Go closure directly.
package registry

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/vk/mdfgo"
)

// Factory builds a *mdf.Function from the arguments decoded out of a
// function block's body. It is the seam between a declarative graph file
// and the Go code that actually implements each named computation.
type Factory func(args map[string]any) (*mdf.Function, error)

// Registry maps a function block's `type` label to the Factory that knows
// how to build it.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a Factory under name. It panics on a duplicate name, since
// two factories registered under the same name is a programming error in
// the caller, not a runtime condition to recover from.
func (r *Registry) Register(name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[name]; exists {
		panic(fmt.Sprintf("registry: function type %q already registered", name))
	}
	slog.Debug("registering function type", "name", name)
	r.factories[name] = f
}

// Build looks up name and invokes its Factory with args.
func (r *Registry) Build(name string, args map[string]any) (*mdf.Function, error) {
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("registry: no function type registered as %q", name)
	}
	return f(args)
}

// Names returns every registered function type name, for diagnostics.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	return names
}
