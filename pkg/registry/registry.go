package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/heddle/pkg/domain"
	"github.com/aretw0/heddle/pkg/draft"
	"github.com/aretw0/heddle/pkg/operator"
)

// Registry manages the available operators.
type Registry struct {
	mu      sync.RWMutex
	ops     map[string]*operator.Operator
	aliases map[string]string // historical name -> current name
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		ops:     make(map[string]*operator.Operator),
		aliases: make(map[string]string),
	}
}

// Register validates op and adds it to the registry.
// Names and aliases must be unique across all registered operators.
func (r *Registry) Register(op *operator.Operator) error {
	if err := op.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, name := range append([]string{op.Name}, op.Aliases...) {
		if r.taken(name) {
			return fmt.Errorf("operator name %q already registered", name)
		}
	}
	r.ops[op.Name] = op
	for _, alias := range op.Aliases {
		r.aliases[alias] = op.Name
	}
	return nil
}

// MustRegister is Register that panics on error. Intended for static operator tables.
func (r *Registry) MustRegister(ops ...*operator.Operator) {
	for _, op := range ops {
		if err := r.Register(op); err != nil {
			panic(err)
		}
	}
}

func (r *Registry) taken(name string) bool {
	_, isOp := r.ops[name]
	_, isAlias := r.aliases[name]
	return isOp || isAlias
}

// Lookup finds an operator by current name or by any historical alias.
func (r *Registry) Lookup(name string) (*operator.Operator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if op, ok := r.ops[name]; ok {
		return op, true
	}
	if current, ok := r.aliases[name]; ok {
		return r.ops[current], true
	}
	return nil, false
}

// Get is Lookup returning domain.ErrOperatorNotFound for unknown names.
func (r *Registry) Get(name string) (*operator.Operator, error) {
	op, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrOperatorNotFound, name)
	}
	return op, nil
}

// List returns all operators sorted by name.
func (r *Registry) List() []*operator.Operator {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*operator.Operator, 0, len(r.ops))
	for _, op := range r.ops {
		out = append(out, op)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Names returns the sorted current names.
func (r *Registry) Names() []string {
	ops := r.List()
	names := make([]string, len(ops))
	for i, op := range ops {
		names[i] = op.Name
	}
	return names
}

// Invoke looks up an operator by name and runs it on graph-shaped inputs.
// Returns an error if the operator is not found.
func (r *Registry) Invoke(ctx context.Context, name string, inputs []operator.Input) ([]*draft.Draft, error) {
	op, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	return operator.Invoke(ctx, op, inputs)
}
