package tree

import (
	"fmt"
	"slices"

	"github.com/aretw0/heddle/pkg/domain"
)

// AddConnection wires from -> cxn -> to, arriving at inlet on to, and returns the
// resolved inputs of to.
//
// Connections cannot be endpoints, a draft accepts a single inbound edge, drafts do
// not feed drafts directly, and an edge may not close a cycle. Violations return an
// error wrapping domain.ErrInvalidConnection and leave the tree unchanged.
func (t *Tree) AddConnection(from, to, cxn domain.NodeID, inlet int) ([]Link, error) {
	src, dst, c := t.get(from), t.get(to), t.get(cxn)

	switch {
	case c.kind != domain.KindConnection:
		return nil, invalid("node %d is not a connection", cxn)
	case len(c.inputs) > 0 || len(c.outputs) > 0:
		return nil, invalid("connection %d is already wired", cxn)
	case src.kind == domain.KindConnection || dst.kind == domain.KindConnection:
		return nil, invalid("connections cannot be wired to connections")
	case from == to:
		return nil, invalid("node %d cannot feed itself", from)
	case src.kind == domain.KindDraft && dst.kind == domain.KindDraft:
		return nil, invalid("draft %d cannot feed draft %d directly", from, to)
	case dst.kind == domain.KindDraft && len(dst.inputs) > 0:
		return nil, invalid("draft %d already has an input", to)
	case inlet < 0 || (dst.kind == domain.KindDraft && inlet != 0):
		return nil, invalid("inlet %d is not valid on node %d", inlet, to)
	case t.reaches(to, from):
		return nil, invalid("edge %d -> %d would create a cycle", from, to)
	}

	src.outputs = append(src.outputs, Link{Node: cxn, Inlet: inlet})
	c.inputs = []Link{{Node: from, Inlet: inlet}}
	c.outputs = []Link{{Node: to, Inlet: inlet}}
	dst.inputs = append(dst.inputs, Link{Node: cxn, Inlet: inlet})
	for _, r := range []*record{src, c, dst} {
		if r.state == Created {
			r.state = Wired
		}
	}
	t.MarkDirty(cxn)
	return t.Inputs(to), nil
}

// Connect creates a connection node and wires it from -> to at inlet.
func (t *Tree) Connect(from, to domain.NodeID, inlet int) (domain.NodeID, error) {
	t.get(from)
	t.get(to)
	cxn := t.NewConnection()
	if _, err := t.AddConnection(from, to, cxn, inlet); err != nil {
		t.nodes[cxn] = nil
		return domain.NoNode, err
	}
	return cxn, nil
}

// ConnectionBetween returns the connection wiring from -> to, if any.
func (t *Tree) ConnectionBetween(from, to domain.NodeID) (domain.NodeID, bool) {
	for _, o := range t.get(from).outputs {
		r := t.nodes[o.Node]
		if r.kind == domain.KindConnection && len(r.outputs) == 1 && r.outputs[0].Node == to {
			return o.Node, true
		}
	}
	return domain.NoNode, false
}

// RemoveNode severs every edge of id, clears the parent of its children and deletes it.
// Removing the connection from an operator to a draft it generated also releases the
// draft, which keeps no owner it cannot be reached from. Nodes downstream of id are
// marked dirty. It returns the connections left with no input or no output, which are
// invalid and should be removed by the caller.
func (t *Tree) RemoveNode(id domain.NodeID) []domain.NodeID {
	r := t.get(id)
	t.MarkDirty(id)

	if r.kind == domain.KindConnection {
		for _, out := range r.outputs {
			child := t.nodes[out.Node]
			for _, in := range r.inputs {
				if child.parent == in.Node {
					child.parent = domain.NoNode
				}
			}
		}
	}

	for _, in := range r.inputs {
		n := t.nodes[in.Node]
		n.outputs = slices.DeleteFunc(n.outputs, func(l Link) bool { return l.Node == id })
	}
	for _, out := range r.outputs {
		n := t.nodes[out.Node]
		n.inputs = slices.DeleteFunc(n.inputs, func(l Link) bool { return l.Node == id })
	}
	for _, n := range t.nodes {
		if n != nil && n.parent == id {
			n.parent = domain.NoNode
		}
	}
	t.nodes[id] = nil
	return t.OrphanedConnections()
}

// OrphanedConnections returns the connections with zero inputs or zero outputs.
func (t *Tree) OrphanedConnections() []domain.NodeID {
	return t.filter(func(r *record) bool {
		return r.kind == domain.KindConnection && (len(r.inputs) == 0 || len(r.outputs) == 0)
	})
}

// RemoveOrphans removes every orphaned connection and returns their ids.
func (t *Tree) RemoveOrphans() []domain.NodeID {
	orphans := t.OrphanedConnections()
	for _, id := range orphans {
		t.RemoveNode(id)
	}
	return orphans
}

// RemoveOperatorCascade removes an operator, the drafts it generated and every
// connection left orphaned. It returns all removed ids in removal order.
func (t *Tree) RemoveOperatorCascade(op domain.NodeID) []domain.NodeID {
	if t.get(op).kind != domain.KindOperator {
		panic(fmt.Sprintf("tree: node %d is not an operator", op))
	}
	var removed []domain.NodeID
	for _, child := range t.Children(op) {
		t.RemoveNode(child)
		removed = append(removed, child)
	}
	t.RemoveNode(op)
	removed = append(removed, op)
	return append(removed, t.RemoveOrphans()...)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidConnection, fmt.Sprintf(format, args...))
}
