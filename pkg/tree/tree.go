package tree

import (
	"fmt"
	"slices"

	"github.com/aretw0/heddle/pkg/domain"
)

// State is the lifecycle state of a node.
type State int

const (
	Created State = iota + 1
	Wired
	Clean
	Dirty
	Removed
)

func (s State) String() string {
	switch s {
	case Created:
		return "created"
	case Wired:
		return "wired"
	case Clean:
		return "clean"
	case Dirty:
		return "dirty"
	case Removed:
		return "removed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Link is one ordered neighbour of a node, paired with the inlet index the edge
// arrives at on its operator end.
type Link struct {
	Node  domain.NodeID
	Inlet int
}

type record struct {
	kind    domain.NodeKind
	parent  domain.NodeID
	inputs  []Link
	outputs []Link
	state   State
	dirty   bool
}

// Tree is the dependency graph. The zero value is not usable; call New.
type Tree struct {
	nodes []*record // arena indexed by id; nil once removed
}

// New returns an empty tree.
func New() *Tree {
	return &Tree{nodes: []*record{nil}}
}

func (t *Tree) get(id domain.NodeID) *record {
	if id <= domain.NoNode || int(id) >= len(t.nodes) || t.nodes[id] == nil {
		panic(fmt.Errorf("tree: %w: %d", domain.ErrNodeNotFound, id))
	}
	return t.nodes[id]
}

// Add creates a node of the given kind and returns its id. Ids increase monotonically
// and are never reused.
func (t *Tree) Add(kind domain.NodeKind) domain.NodeID {
	id := domain.NodeID(len(t.nodes))
	t.nodes = append(t.nodes, &record{kind: kind, state: Created, dirty: true})
	return id
}

// AddDraft creates a draft node.
func (t *Tree) AddDraft() domain.NodeID { return t.Add(domain.KindDraft) }

// AddOperator creates an operator node.
func (t *Tree) AddOperator() domain.NodeID { return t.Add(domain.KindOperator) }

// NewConnection creates an unwired connection node.
func (t *Tree) NewConnection() domain.NodeID { return t.Add(domain.KindConnection) }

// Has reports whether id is a live node.
func (t *Tree) Has(id domain.NodeID) bool {
	return id > domain.NoNode && int(id) < len(t.nodes) && t.nodes[id] != nil
}

// Kind returns the kind of node id.
func (t *Tree) Kind(id domain.NodeID) domain.NodeKind { return t.get(id).kind }

// Lookup returns the kind of id, or false when id is not a live node.
func (t *Tree) Lookup(id domain.NodeID) (domain.NodeKind, bool) {
	if !t.Has(id) {
		return 0, false
	}
	return t.nodes[id].kind, true
}

// State returns the lifecycle state of id. Removed ids report Removed; ids that were
// never created panic.
func (t *Tree) State(id domain.NodeID) State {
	if id > domain.NoNode && int(id) < len(t.nodes) && t.nodes[id] == nil {
		return Removed
	}
	return t.get(id).state
}

// Nodes returns every live node id in ascending order.
func (t *Tree) Nodes() []domain.NodeID {
	return t.filter(func(*record) bool { return true })
}

// NodesOfKind returns the live nodes of a kind in ascending order.
func (t *Tree) NodesOfKind(kind domain.NodeKind) []domain.NodeID {
	return t.filter(func(r *record) bool { return r.kind == kind })
}

// Connections returns every live connection id in ascending order.
func (t *Tree) Connections() []domain.NodeID { return t.NodesOfKind(domain.KindConnection) }

// Len returns the number of live nodes.
func (t *Tree) Len() int { return len(t.Nodes()) }

func (t *Tree) filter(keep func(*record) bool) []domain.NodeID {
	var out []domain.NodeID
	for i, r := range t.nodes {
		if r != nil && keep(r) {
			out = append(out, domain.NodeID(i))
		}
	}
	return out
}

// Edges returns the raw input and output links of id, connections included.
func (t *Tree) Edges(id domain.NodeID) (inputs, outputs []Link) {
	r := t.get(id)
	return slices.Clone(r.inputs), slices.Clone(r.outputs)
}

// Inputs returns the non-connection nodes feeding id, in edge order, each with the
// inlet it arrives at.
func (t *Tree) Inputs(id domain.NodeID) []Link {
	var out []Link
	for _, in := range t.get(id).inputs {
		if t.nodes[in.Node].kind != domain.KindConnection {
			out = append(out, in)
			continue
		}
		for _, src := range t.nodes[in.Node].inputs {
			out = append(out, Link{Node: src.Node, Inlet: in.Inlet})
		}
	}
	return out
}

// Outputs returns the non-connection nodes fed by id, in edge order, each with the
// inlet it arrives at.
func (t *Tree) Outputs(id domain.NodeID) []Link {
	var out []Link
	for _, o := range t.get(id).outputs {
		if t.nodes[o.Node].kind != domain.KindConnection {
			out = append(out, o)
			continue
		}
		out = append(out, t.nodes[o.Node].outputs...)
	}
	return out
}

// SetParent records that operator generated draft. NoNode clears the parent.
func (t *Tree) SetParent(draft, operator domain.NodeID) {
	r := t.get(draft)
	if operator != domain.NoNode && t.get(operator).kind != domain.KindOperator {
		panic(fmt.Sprintf("tree: parent %d of %d is not an operator", operator, draft))
	}
	r.parent = operator
}

// Parent returns the operator that generated id, or NoNode.
func (t *Tree) Parent(id domain.NodeID) domain.NodeID { return t.get(id).parent }

// Children returns the nodes whose parent is id, in ascending order.
func (t *Tree) Children(id domain.NodeID) []domain.NodeID {
	t.get(id)
	return t.filter(func(r *record) bool { return r.parent == id })
}

// IsDirty reports whether id needs recomputation or redraw.
func (t *Tree) IsDirty(id domain.NodeID) bool { return t.get(id).dirty }

// DirtyNodes returns every dirty node in ascending order.
func (t *Tree) DirtyNodes() []domain.NodeID {
	return t.filter(func(r *record) bool { return r.dirty })
}

// MarkDirty flags id and every node downstream of it.
func (t *Tree) MarkDirty(id domain.NodeID) {
	t.get(id)
	t.walk(id, func(r *record) []Link { return r.outputs }, func(n domain.NodeID) {
		r := t.nodes[n]
		r.dirty = true
		if r.state == Clean {
			r.state = Dirty
		}
	})
}

// MarkClean records a successful recompute or redraw of id.
func (t *Tree) MarkClean(id domain.NodeID) {
	r := t.get(id)
	r.dirty = false
	r.state = Clean
}
