// Package modules holds compiled route and entry modules.
//
// In a compiled framework, route modules are ordinary Go values registered
// at startup. The registry separates registration (factories, permanent)
// from instantiation (cached per process). Development mode purges the
// instance cache between requests so that re-registration after a rebuild
// takes effect, without losing the factory table.
package modules

import (
	"sort"
	"strings"
	"sync"

	"github.com/remix-go/remix/internal/errors"
)

// Module is a compiled application module: a route module or the server
// entry module. Default carries the module's primary export; the request
// pipeline treats it as opaque and hands it to the entry hook.
type Module struct {
	ID      string
	Default any
}

// Factory produces a fresh Module instance. Factories run synchronously;
// a factory must not block on I/O it cannot complete inline.
type Factory func() (*Module, error)

// Registry maps module ids to factories and caches the produced instances.
// It is safe for concurrent use. The zero value is not usable; call
// NewRegistry.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	cache     map[string]*Module
}

// NewRegistry creates an empty module registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		cache:     make(map[string]*Module),
	}
}

// Register binds a factory to a module id. Registering an id again
// replaces the factory and drops any cached instance, so the next Load
// observes the new registration.
func (r *Registry) Register(id string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[id] = factory
	delete(r.cache, id)
}

// Load returns the module instance for id, invoking its factory on first
// use and caching the result.
func (r *Registry) Load(id string) (*Module, error) {
	r.mu.RLock()
	if m, ok := r.cache[id]; ok {
		r.mu.RUnlock()
		return m, nil
	}
	factory, ok := r.factories[id]
	r.mu.RUnlock()

	if !ok {
		return nil, errors.New("R140").WithDetail("Module '" + id + "' is not registered")
	}

	m, err := factory()
	if err != nil {
		return nil, errors.New("R141").
			WithDetail("Factory for module '" + id + "' failed").
			Wrap(err)
	}
	if m.ID == "" {
		m.ID = id
	}

	r.mu.Lock()
	r.cache[id] = m
	r.mu.Unlock()
	return m, nil
}

// Read returns the module instance for id. Unlike Load, a missing
// registration is a programming error in the rendering path, not a
// request-time condition, so Read panics instead of returning an error.
func (r *Registry) Read(id string) *Module {
	m, err := r.Load(id)
	if err != nil {
		panic(err)
	}
	return m
}

// Snapshot instantiates every module whose id starts with prefix and
// returns them as a map. The returned map is owned by the caller; later
// purges or re-registrations do not affect it.
func (r *Registry) Snapshot(prefix string) (map[string]*Module, error) {
	r.mu.RLock()
	ids := make([]string, 0, len(r.factories))
	for id := range r.factories {
		if strings.HasPrefix(id, prefix) {
			ids = append(ids, id)
		}
	}
	r.mu.RUnlock()

	sort.Strings(ids)

	snapshot := make(map[string]*Module, len(ids))
	for _, id := range ids {
		m, err := r.Load(id)
		if err != nil {
			return nil, err
		}
		snapshot[id] = m
	}
	return snapshot, nil
}

// Purge drops cached instances whose id starts with prefix. Factories
// survive a purge; the next Load re-runs them. An empty prefix purges the
// whole cache.
func (r *Registry) Purge(prefix string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id := range r.cache {
		if strings.HasPrefix(id, prefix) {
			delete(r.cache, id)
		}
	}
}

// IDs returns the registered module ids in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.factories))
	for id := range r.factories {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
