package registry

import (
	"fmt"
	"slices"
	"sync"

	"github.com/nfrund/codebattle/internal/config"
)

// Key is a type-safe, generic key for registering and retrieving services.
// The string value should be a unique identifier, e.g., "codebattle.Arena".
type Key[T any] string

// Registry is where the server and modules publish shared services during
// startup. Lookups happen at boot and in tests.
type Registry struct {
	mu       sync.RWMutex
	services map[string]any
	cfg      config.Provider
}

// New creates an empty registry carrying cfg.
func New(cfg config.Provider) *Registry {
	return &Registry{
		services: make(map[string]any),
		cfg:      cfg,
	}
}

// Config returns the configuration provider stored in the registry.
func (r *Registry) Config() config.Provider {
	return r.cfg
}

// Keys lists the registered keys in sorted order.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.services))
	for k := range r.services {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Set registers value under key, replacing any earlier value.
func Set[T any](r *Registry, key Key[T], value T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.services[string(key)] = value
}

// Get retrieves a service by key. A value stored under the same name with a
// different type is not found.
func Get[T any](r *Registry, key Key[T]) (T, bool) {
	r.mu.RLock()
	val := r.services[string(key)]
	r.mu.RUnlock()

	result, ok := val.(T)
	return result, ok
}

// MustGet retrieves a service or panics. Modules use it in Boot for
// dependencies the server always registers.
func MustGet[T any](r *Registry, key Key[T]) T {
	val, ok := Get(r, key)
	if !ok {
		panic(fmt.Sprintf("registry: no %T registered for key %q", val, string(key)))
	}
	return val
}
