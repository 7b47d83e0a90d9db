// Package llm defines the generation backend boundary: a Generator
// interface and a registry that maps routing backend IDs to concrete
// model clients.
package llm

import (
	"context"
	"fmt"
	"sort"

	"github.com/docustack/retriever/internal/types"
)

// Generator turns a prompt into text. Implementations wrap one model.
type Generator interface {
	Generate(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error)
}

// Registry maps backend IDs to generators. It is populated once at
// startup and read-only afterwards, so it needs no locking.
type Registry struct {
	backends map[types.BackendID]Generator
}

// NewRegistry creates a registry from explicit backend bindings.
// Passing the backends in keeps tests free of process-wide state.
func NewRegistry(backends map[types.BackendID]Generator) *Registry {
	if backends == nil {
		backends = make(map[types.BackendID]Generator)
	}
	return &Registry{backends: backends}
}

// Get returns the generator bound to the backend ID.
func (r *Registry) Get(id types.BackendID) (Generator, error) {
	g, ok := r.backends[id]
	if !ok {
		return nil, fmt.Errorf("no generation backend registered for %q", id)
	}
	return g, nil
}

// IDs returns the registered backend IDs in stable order.
func (r *Registry) IDs() []types.BackendID {
	ids := make([]types.BackendID, 0, len(r.backends))
	for id := range r.backends {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
