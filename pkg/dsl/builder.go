package dsl

import (
	"context"
	"fmt"

	"github.com/aretw0/heddle"
	"github.com/aretw0/heddle/pkg/domain"
)

// Builder manages the graph construction.
type Builder struct {
	nodes map[string]*NodeBuilder
	order []string
}

// New creates a new graph builder.
func New() *Builder {
	return &Builder{
		nodes: make(map[string]*NodeBuilder),
	}
}

func (b *Builder) add(key string, kind domain.NodeKind) *NodeBuilder {
	if nb, ok := b.nodes[key]; ok {
		if nb.kind != kind && nb.err == nil {
			nb.err = fmt.Errorf("node %q declared as %s and %s", key, nb.kind, kind)
		}
		return nb
	}
	nb := &NodeBuilder{key: key, kind: kind}
	b.nodes[key] = nb
	b.order = append(b.order, key)
	return nb
}

// Draft declares a seed draft node. If the key already exists, it returns the existing builder.
func (b *Builder) Draft(key string) *NodeBuilder {
	return b.add(key, domain.KindDraft)
}

// Op declares an operator node running the named operator.
// If the key already exists, it returns the existing builder.
func (b *Builder) Op(key, operator string) *NodeBuilder {
	nb := b.add(key, domain.KindOperator)
	nb.operator = operator
	return nb
}

// Build creates the workspace: nodes in declaration order, then connections, then a
// full recompute. It returns the node id of every key.
func (b *Builder) Build(ctx context.Context, opts ...heddle.Option) (*heddle.Workspace, map[string]domain.NodeID, error) {
	ws := heddle.New(opts...)
	ids := make(map[string]domain.NodeID, len(b.order))

	for _, key := range b.order {
		nb := b.nodes[key]
		if nb.err != nil {
			return nil, nil, nb.err
		}
		switch nb.kind {
		case domain.KindDraft:
			d := nb.draft
			if d != nil && d.UserName() == "" {
				d.SetName(key)
			}
			ids[key] = ws.AddDraft(ctx, d)
		case domain.KindOperator:
			id, err := ws.AddOperator(ctx, nb.operator, nb.params)
			if err != nil {
				return nil, nil, fmt.Errorf("node %q: %w", key, err)
			}
			ids[key] = id
		}
		if nb.bounds != nil {
			if _, err := ws.Move(ids[key], *nb.bounds); err != nil {
				return nil, nil, err
			}
		}
	}

	for _, key := range b.order {
		for _, in := range b.nodes[key].inputs {
			from, ok := ids[in.from]
			if !ok {
				return nil, nil, fmt.Errorf("node %q: unknown input %q", key, in.from)
			}
			if _, err := ws.Connect(ctx, from, ids[key], in.inlet); err != nil {
				return nil, nil, fmt.Errorf("node %q: %w", key, err)
			}
		}
	}

	if err := ws.RecomputeAll(ctx); err != nil {
		return nil, nil, err
	}
	return ws, ids, nil
}
