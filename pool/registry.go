// File: pool/registry.go
// Author: momentics <momentics@gmail.com>
//
// Explicit named-pool collection. Replaces file-scope pool arrays with a
// value owned and passed by the caller; lifecycle is explicit.

package pool

import (
	"sort"
	"sync"

	"github.com/momentics/primkit/api"
)

// Registry is a concurrency-safe collection of named pools.
type Registry struct {
	mu    sync.RWMutex
	pools map[string]*Pool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{pools: make(map[string]*Pool)}
}

// Register adds a pool under its configured name.
func (r *Registry) Register(p *Pool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.pools[p.Name()]; ok {
		return api.NewError(api.ErrCodeAlreadyRegistered, "registry: duplicate pool name").
			WithContext("name", p.Name())
	}
	r.pools[p.Name()] = p
	return nil
}

// Get returns the named pool, or nil when absent.
func (r *Registry) Get(name string) *Pool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.pools[name]
}

// Names returns registered pool names in lexical order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.pools))
	for n := range r.pools {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// BySize returns the registered pools ordered by ascending block size.
// This is the pool list a Router consumes.
func (r *Registry) BySize() []*Pool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Pool, 0, len(r.pools))
	for _, p := range r.pools {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].BlockSize() != out[j].BlockSize() {
			return out[i].BlockSize() < out[j].BlockSize()
		}
		return out[i].Name() < out[j].Name()
	})
	return out
}

// CloseAll tears down every pool, stopping at the first failure.
func (r *Registry) CloseAll() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.pools {
		if err := p.Close(); err != nil {
			return err
		}
	}
	r.pools = make(map[string]*Pool)
	return nil
}
