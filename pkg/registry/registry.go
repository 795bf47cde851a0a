// Package registry maps capitalized markup tag names to component functions.
//
// Only the markup compiler consults the registry, and only for tags whose
// first letter is uppercase; lowercase tags are always native elements.
package registry

import (
	"sort"
	"sync"

	"github.com/vango-dev/vlite/pkg/vdom"
)

// Registry is a concurrency-safe name -> component mapping.
type Registry struct {
	mu    sync.RWMutex
	comps map[string]vdom.ComponentFunc
}

// Default is the process-wide registry used by the root vlite package.
var Default = New()

// New creates an empty registry.
func New() *Registry {
	return &Registry{comps: make(map[string]vdom.ComponentFunc)}
}

// Register stores fn under name, replacing any previous registration.
// It panics if fn is nil.
func (r *Registry) Register(name string, fn vdom.ComponentFunc) {
	if fn == nil {
		panic("registry: nil component for " + name)
	}
	r.mu.Lock()
	r.comps[name] = fn
	r.mu.Unlock()
}

// Lookup returns the component registered under name.
func (r *Registry) Lookup(name string) (vdom.ComponentFunc, bool) {
	r.mu.RLock()
	fn, ok := r.comps[name]
	r.mu.RUnlock()
	return fn, ok
}

// Unregister removes name from the registry.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	delete(r.comps, name)
	r.mu.Unlock()
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.comps))
	for name := range r.comps {
		names = append(names, name)
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}
