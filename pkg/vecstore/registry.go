package vecstore

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// OpenFunc constructs a Provider from options. Registered implementations
// receive the full Options struct and pick out their own section.
type OpenFunc func(opts Options, logger *zap.Logger) (Provider, error)

// Registry associates provider names with constructors.
//
// A Registry is an explicit value owned by application start-up code, not a
// hidden process-wide singleton; construct one per process (or per test) and
// pass it to whatever opens providers. Registration normally happens once at
// start-up, but the map is guarded so providers may also be registered at
// runtime.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]OpenFunc
	order     []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]OpenFunc)}
}

// DefaultRegistry returns a fresh registry with the built-in providers
// registered: "qdrant" (remote) and "chromem" (local embedded).
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("qdrant", openQdrant)
	r.Register("chromem", openChromem)
	return r
}

// Register associates name with a constructor. Registering the same name
// twice overwrites the previous entry and keeps its registration order.
// The name is stored case-sensitively as given.
func (r *Registry) Register(name string, open OpenFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[name]; !exists {
		r.order = append(r.order, name)
	}
	r.providers[name] = open
}

// Get looks up a constructor by exact name.
func (r *Registry) Get(name string) (OpenFunc, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	open, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrProviderNotFound, name)
	}
	return open, nil
}

// Provider looks up a constructor case-insensitively. This is the lookup
// used by public entry points; a miss signals an unsupported provider,
// distinct from Get's not-found condition.
func (r *Registry) Provider(name string) (OpenFunc, error) {
	open, err := r.Get(strings.ToLower(name))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, name)
	}
	return open, nil
}

// Providers returns all registered names in registration order.
func (r *Registry) Providers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}
