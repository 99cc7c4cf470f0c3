package tree

import (
	"slices"

	"github.com/aretw0/heddle/pkg/domain"
)

// walk visits id and every node reachable through next, breadth first, once each.
func (t *Tree) walk(id domain.NodeID, next func(*record) []Link, visit func(domain.NodeID)) {
	seen := map[domain.NodeID]bool{id: true}
	queue := []domain.NodeID{id}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		visit(n)
		for _, l := range next(t.nodes[n]) {
			if !seen[l.Node] {
				seen[l.Node] = true
				queue = append(queue, l.Node)
			}
		}
	}
}

func (t *Tree) operators(id domain.NodeID, next func(*record) []Link) []domain.NodeID {
	t.get(id)
	out := []domain.NodeID{}
	t.walk(id, next, func(n domain.NodeID) {
		if n != id && t.nodes[n].kind == domain.KindOperator {
			out = append(out, n)
		}
	})
	return out
}

// UpstreamOperators returns every operator feeding id directly or transitively,
// nearest first. Connections and drafts are passed through.
func (t *Tree) UpstreamOperators(id domain.NodeID) []domain.NodeID {
	return t.operators(id, func(r *record) []Link { return r.inputs })
}

// DownstreamOperators returns every operator fed by id directly or transitively,
// nearest first. Connections and drafts are passed through.
func (t *Tree) DownstreamOperators(id domain.NodeID) []domain.NodeID {
	return t.operators(id, func(r *record) []Link { return r.outputs })
}

// reaches reports whether to is downstream of (or equal to) from.
func (t *Tree) reaches(from, to domain.NodeID) bool {
	found := false
	t.walk(from, func(r *record) []Link { return r.outputs }, func(n domain.NodeID) {
		if n == to {
			found = true
		}
	})
	return found
}

// RecomputeOrder returns the operators to run after a change at id: id itself when it
// is an operator, then every downstream operator, ordered so each runs after all of
// its upstream operators in the set.
func (t *Tree) RecomputeOrder(id domain.NodeID) []domain.NodeID {
	t.get(id)
	return t.topoOperators([]domain.NodeID{id})
}

// OperatorOrder returns every operator in dependency order, upstream first.
func (t *Tree) OperatorOrder() []domain.NodeID {
	return t.topoOperators(t.Nodes())
}

// topoOperators runs a depth-first search from each start along outputs and returns
// the operators of the reversed post-order.
func (t *Tree) topoOperators(starts []domain.NodeID) []domain.NodeID {
	var post []domain.NodeID
	seen := make(map[domain.NodeID]bool)
	var visit func(domain.NodeID)
	visit = func(n domain.NodeID) {
		seen[n] = true
		for _, l := range t.nodes[n].outputs {
			if !seen[l.Node] {
				visit(l.Node)
			}
		}
		post = append(post, n)
	}
	for _, s := range starts {
		if !seen[s] {
			visit(s)
		}
	}

	slices.Reverse(post)
	out := []domain.NodeID{}
	for _, n := range post {
		if t.nodes[n].kind == domain.KindOperator {
			out = append(out, n)
		}
	}
	return out
}

// Roots returns the operators with no upstream operator, in ascending order.
func (t *Tree) Roots() []domain.NodeID {
	var out []domain.NodeID
	for _, id := range t.NodesOfKind(domain.KindOperator) {
		if len(t.UpstreamOperators(id)) == 0 {
			out = append(out, id)
		}
	}
	return out
}

// MoveImpact returns the nodes whose screen position must update when id moves:
// id itself, its parent if any, and the children it parents.
func (t *Tree) MoveImpact(id domain.NodeID) []domain.NodeID {
	out := []domain.NodeID{id}
	if p := t.get(id).parent; p != domain.NoNode {
		out = append(out, p)
	}
	return append(out, t.Children(id)...)
}
