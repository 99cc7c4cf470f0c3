package dsl

import (
	"github.com/aretw0/heddle/pkg/domain"
	"github.com/aretw0/heddle/pkg/draft"
	"github.com/aretw0/heddle/pkg/operator"
)

type input struct {
	from  string
	inlet int
}

// NodeBuilder provides a fluent API for configuring a node.
// Errors are kept and reported by Build.
type NodeBuilder struct {
	key      string
	kind     domain.NodeKind
	operator string
	params   operator.Params
	draft    *draft.Draft
	inputs   []input
	bounds   *domain.Bounds
	err      error
}

// Pattern sets the drawdown of a draft node from one string per row.
func (n *NodeBuilder) Pattern(rows ...string) *NodeBuilder {
	d, err := draft.FromPattern(rows...)
	if err != nil && n.err == nil {
		n.err = err
	}
	if d != nil && n.draft != nil {
		d.SetName(n.draft.UserName())
	}
	n.draft = d
	return n
}

// Draft sets the payload of a draft node. The builder keeps a copy.
func (n *NodeBuilder) Draft(d *draft.Draft) *NodeBuilder {
	n.draft = d.Clone()
	return n
}

// Name sets the user name of a draft node (default: its key).
func (n *NodeBuilder) Name(name string) *NodeBuilder {
	if n.draft == nil {
		n.draft = draft.New(0, 0)
	}
	n.draft.SetName(name)
	return n
}

// Param sets one parameter value of an operator node.
func (n *NodeBuilder) Param(name string, value any) *NodeBuilder {
	if n.params == nil {
		n.params = operator.Params{}
	}
	n.params[name] = value
	return n
}

// Params merges parameter values into an operator node.
func (n *NodeBuilder) Params(p operator.Params) *NodeBuilder {
	for k, v := range p {
		n.Param(k, v)
	}
	return n
}

// From connects the given nodes to inlet 0, in order.
func (n *NodeBuilder) From(keys ...string) *NodeBuilder {
	return n.Into(0, keys...)
}

// Into connects the given nodes to an inlet, in order.
func (n *NodeBuilder) Into(inlet int, keys ...string) *NodeBuilder {
	for _, k := range keys {
		n.inputs = append(n.inputs, input{from: k, inlet: inlet})
	}
	return n
}

// At places the node on the canvas.
func (n *NodeBuilder) At(x, y float64) *NodeBuilder {
	n.bounds = &domain.Bounds{X: x, Y: y}
	return n
}
