package verifier

import (
	"errors"
	"sort"
	"sync"
)

// Registry errors.
var (
	ErrBackendExists   = errors.New("verifier: backend already registered")
	ErrBackendNotFound = errors.New("verifier: backend not found")
)

// DigestBackend is the name of the development backend.
const DigestBackend = "digest"

// Registry manages named proof verifier backends.
type Registry struct {
	mu       sync.RWMutex
	backends map[string]ProofVerifier
}

// NewRegistry creates a registry holding the built-in backends.
func NewRegistry() *Registry {
	r := &Registry{
		backends: make(map[string]ProofVerifier),
	}
	r.backends[DigestBackend] = DigestVerifier{}
	return r
}

// Register adds a backend under the given name.
func (r *Registry) Register(name string, v ProofVerifier) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.backends[name]; exists {
		return ErrBackendExists
	}
	r.backends[name] = v
	return nil
}

// Get retrieves a backend by name.
func (r *Registry) Get(name string) (ProofVerifier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.backends[name]
	if !ok {
		return nil, ErrBackendNotFound
	}
	return v, nil
}

// Names returns all registered backend names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.backends))
	for name := range r.backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
