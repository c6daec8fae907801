package tools

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
)

// ErrUnknownCapability is returned when a name has no registered capability.
var ErrUnknownCapability = errors.New("unknown capability")

// Registry manages the capabilities available to the router and the tool-calling agent
type Registry struct {
	mu           sync.RWMutex
	order        []string
	capabilities map[string]Capability
	defined      map[*genkit.Genkit][]ai.ToolRef
}

// NewRegistry creates a new tool registry
func NewRegistry() *Registry {
	return &Registry{
		capabilities: make(map[string]Capability),
		defined:      make(map[*genkit.Genkit][]ai.ToolRef),
	}
}

// Register adds a capability. Names must be unique.
func (r *Registry) Register(c Capability) error {
	if c == nil || c.Name() == "" {
		return fmt.Errorf("capability must have a name")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.capabilities[c.Name()]; exists {
		return fmt.Errorf("capability %q already registered", c.Name())
	}
	r.capabilities[c.Name()] = c
	r.order = append(r.order, c.Name())
	return nil
}

// Get returns the capability registered under name
func (r *Registry) Get(name string) (Capability, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.capabilities[name]
	return c, ok
}

// List returns capabilities in registration order
func (r *Registry) List() []Capability {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Capability, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.capabilities[name])
	}
	return out
}

// Invoke runs a registered capability by name, passing the raw query through
func (r *Registry) Invoke(ctx context.Context, name string, query string) (string, error) {
	c, ok := r.Get(name)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownCapability, name)
	}
	return c.Invoke(ctx, query)
}

// GenkitTools defines every capability as a genkit tool on gk and returns the refs
// for ai.WithTools. Genkit rejects duplicate definitions, so results are cached per instance.
func (r *Registry) GenkitTools(gk *genkit.Genkit) []ai.ToolRef {
	r.mu.Lock()
	defer r.mu.Unlock()

	if refs, ok := r.defined[gk]; ok {
		return refs
	}

	refs := make([]ai.ToolRef, 0, len(r.order))
	for _, name := range r.order {
		c := r.capabilities[name]
		refs = append(refs, genkit.DefineTool[*Input, string](
			gk,
			c.Name(),
			c.Description(),
			func(ctx *ai.ToolContext, input *Input) (string, error) {
				query := ""
				if input != nil {
					query = input.Query
				}
				return c.Invoke(ctx, query)
			},
		))
	}
	r.defined[gk] = refs
	return refs
}
