package tree_test

import (
	"errors"
	"testing"

	"github.com/aretw0/heddle/pkg/domain"
	"github.com/aretw0/heddle/pkg/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chain builds A(draft) -> B(op) -> C(op) -> D(draft).
func chain(t *testing.T) (tr *tree.Tree, a, b, c, d domain.NodeID) {
	t.Helper()
	tr = tree.New()
	a, b, c, d = tr.AddDraft(), tr.AddOperator(), tr.AddOperator(), tr.AddDraft()
	for _, e := range [][2]domain.NodeID{{a, b}, {b, c}, {c, d}} {
		_, err := tr.Connect(e[0], e[1], 0)
		require.NoError(t, err)
	}
	tr.SetParent(d, c)
	return tr, a, b, c, d
}

func assertNoReference(t *testing.T, tr *tree.Tree, id domain.NodeID) {
	t.Helper()
	for _, n := range tr.Nodes() {
		in, out := tr.Edges(n)
		for _, l := range append(in, out...) {
			assert.NotEqual(t, id, l.Node, "node %d still references %d", n, id)
		}
	}
}

func TestIdsAreMonotonic(t *testing.T) {
	tr := tree.New()
	a := tr.AddDraft()
	b := tr.AddOperator()
	tr.RemoveNode(b)
	c := tr.AddDraft()

	assert.Equal(t, domain.NodeID(1), a)
	assert.Greater(t, c, b)
	assert.False(t, tr.Has(b))
	assert.Equal(t, tree.Removed, tr.State(b))
	assert.Equal(t, []domain.NodeID{a, c}, tr.Nodes())
}

func TestAddConnectionResolvesInputs(t *testing.T) {
	tr := tree.New()
	a, b, op := tr.AddDraft(), tr.AddDraft(), tr.AddOperator()

	inputs, err := tr.AddConnection(a, op, tr.NewConnection(), 0)
	require.NoError(t, err)
	assert.Equal(t, []tree.Link{{Node: a, Inlet: 0}}, inputs)

	inputs, err = tr.AddConnection(b, op, tr.NewConnection(), 1)
	require.NoError(t, err)
	assert.Equal(t, []tree.Link{{Node: a, Inlet: 0}, {Node: b, Inlet: 1}}, inputs)

	assert.Equal(t, []tree.Link{{Node: op, Inlet: 1}}, tr.Outputs(b))
	assert.Len(t, tr.Connections(), 2)

	cxn, ok := tr.ConnectionBetween(a, op)
	require.True(t, ok)
	assert.Equal(t, domain.KindConnection, tr.Kind(cxn))
}

func TestAddConnectionRejects(t *testing.T) {
	tr, a, b, c, d := chain(t)
	other := tr.AddDraft()
	cxn := tr.Connections()[0]

	tests := []struct {
		name     string
		from, to domain.NodeID
		conn     domain.NodeID
		inlet    int
	}{
		{"not a connection", a, b, other, 0},
		{"already wired", a, c, cxn, 0},
		{"connection endpoint", cxn, c, tr.NewConnection(), 0},
		{"self loop", b, b, tr.NewConnection(), 0},
		{"draft to draft", a, other, tr.NewConnection(), 0},
		{"second input on draft", b, d, tr.NewConnection(), 0},
		{"inlet on draft", b, other, tr.NewConnection(), 2},
		{"negative inlet", a, c, tr.NewConnection(), -1},
		{"cycle", c, b, tr.NewConnection(), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := len(tr.Nodes())
			_, err := tr.AddConnection(tt.from, tt.to, tt.conn, tt.inlet)
			assert.ErrorIs(t, err, domain.ErrInvalidConnection)
			assert.Len(t, tr.Nodes(), before)
		})
	}

	_, err := tr.Connect(d, b, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidConnection)
}

func TestTraversal(t *testing.T) {
	tr, a, b, c, d := chain(t)

	assert.Equal(t, []domain.NodeID{b, c}, tr.DownstreamOperators(a))
	assert.Equal(t, []domain.NodeID{c, b}, tr.UpstreamOperators(d))
	assert.Equal(t, []domain.NodeID{c}, tr.DownstreamOperators(b))
	assert.Empty(t, tr.UpstreamOperators(a))
	assert.Equal(t, []domain.NodeID{b}, tr.Roots())
}

func TestRecomputeOrderIsTopological(t *testing.T) {
	// a -> op1 -> x -> op3
	//   \-> op2 ------^
	tr := tree.New()
	a := tr.AddDraft()
	op1, op2, op3 := tr.AddOperator(), tr.AddOperator(), tr.AddOperator()
	x := tr.AddDraft()
	for _, e := range [][3]domain.NodeID{{a, op1, 0}, {a, op2, 0}, {op1, x, 0}, {x, op3, 0}, {op2, op3, 1}} {
		_, err := tr.Connect(e[0], e[1], int(e[2]))
		require.NoError(t, err)
	}

	order := tr.RecomputeOrder(a)
	require.ElementsMatch(t, []domain.NodeID{op1, op2, op3}, order)
	assert.Equal(t, op3, order[2])

	assert.Equal(t, []domain.NodeID{op2, op3}, tr.RecomputeOrder(op2))
}

func TestRemoveNode(t *testing.T) {
	tr, a, b, c, d := chain(t)

	orphans := tr.RemoveNode(b)
	assertNoReference(t, tr, b)
	require.Len(t, orphans, 2, "a->b and b->c connections lose an end")
	for _, o := range orphans {
		assert.Equal(t, domain.KindConnection, tr.Kind(o))
	}
	assert.Equal(t, orphans, tr.OrphanedConnections())
	assert.True(t, tr.IsDirty(c))

	removed := tr.RemoveOrphans()
	assert.Equal(t, orphans, removed)
	assert.Empty(t, tr.OrphanedConnections())
	assert.Empty(t, tr.Outputs(a))
	assert.Empty(t, tr.Inputs(c))
	assert.Equal(t, []tree.Link{{Node: d, Inlet: 0}}, tr.Outputs(c))
}

func TestRemoveClearsChildren(t *testing.T) {
	tr, _, _, c, d := chain(t)
	assert.Equal(t, []domain.NodeID{d}, tr.Children(c))

	tr.RemoveNode(c)
	assert.Equal(t, domain.NoNode, tr.Parent(d))
}

func TestRemoveOutputConnectionReleasesChild(t *testing.T) {
	tr, _, _, c, d := chain(t)
	cxn, ok := tr.ConnectionBetween(c, d)
	require.True(t, ok)

	tr.RemoveNode(cxn)
	assert.Equal(t, domain.NoNode, tr.Parent(d))
	assert.Empty(t, tr.Children(c))
	assert.Empty(t, tr.UpstreamOperators(d))
	assert.Equal(t, []domain.NodeID{c}, tr.MoveImpact(c))

	// an input connection leaves ownership alone
	tr2, a2, b2, c2, d2 := chain(t)
	in, ok := tr2.ConnectionBetween(a2, b2)
	require.True(t, ok)
	tr2.RemoveNode(in)
	assert.Equal(t, c2, tr2.Parent(d2))
}

func TestRemoveOperatorCascade(t *testing.T) {
	tr, a, b, c, d := chain(t)

	removed := tr.RemoveOperatorCascade(c)
	assert.Equal(t, []domain.NodeID{d, c}, removed[:2])
	assert.Len(t, removed, 4, "b->c and c->d connections go too")
	assert.True(t, tr.Has(a))
	assert.True(t, tr.Has(b))
	assert.Empty(t, tr.OrphanedConnections())
	assert.Len(t, tr.Connections(), 1)
}

func TestMoveImpact(t *testing.T) {
	tr, a, _, c, d := chain(t)
	assert.Equal(t, []domain.NodeID{a}, tr.MoveImpact(a))
	assert.Equal(t, []domain.NodeID{c, d}, tr.MoveImpact(c))
	assert.Equal(t, []domain.NodeID{d, c}, tr.MoveImpact(d))
}

func TestLifecycle(t *testing.T) {
	tr := tree.New()
	a, op := tr.AddDraft(), tr.AddOperator()
	assert.Equal(t, tree.Created, tr.State(a))
	assert.True(t, tr.IsDirty(a))

	cxn, err := tr.Connect(a, op, 0)
	require.NoError(t, err)
	assert.Equal(t, tree.Wired, tr.State(a))
	assert.Equal(t, tree.Wired, tr.State(op))

	tr.MarkClean(a)
	tr.MarkClean(op)
	assert.Equal(t, tree.Clean, tr.State(op))
	assert.Equal(t, []domain.NodeID{cxn}, tr.DirtyNodes())

	tr.MarkDirty(a)
	assert.Equal(t, tree.Dirty, tr.State(a))
	assert.Equal(t, tree.Dirty, tr.State(op))

	tr.RemoveNode(op)
	assert.Equal(t, tree.Removed, tr.State(op))
}

func TestUnknownIdsPanic(t *testing.T) {
	tr := tree.New()
	a := tr.AddDraft()
	tr.RemoveNode(a)

	for name, fn := range map[string]func(){
		"kind":       func() { tr.Kind(a) },
		"inputs":     func() { tr.Inputs(99) },
		"remove":     func() { tr.RemoveNode(a) },
		"downstream": func() { tr.DownstreamOperators(0) },
		"state":      func() { tr.State(42) },
	} {
		t.Run(name, func(t *testing.T) {
			defer func() {
				r := recover()
				require.NotNil(t, r)
				err, ok := r.(error)
				require.True(t, ok)
				assert.True(t, errors.Is(err, domain.ErrNodeNotFound))
			}()
			fn()
		})
	}

	_, ok := tr.Lookup(a)
	assert.False(t, ok)
}

func TestOperatorOrder(t *testing.T) {
	tr := tree.New()
	late := tr.AddOperator()
	early := tr.AddOperator()
	mid := tr.AddDraft()
	_, err := tr.Connect(early, mid, 0)
	require.NoError(t, err)
	_, err = tr.Connect(mid, late, 0)
	require.NoError(t, err)

	assert.Equal(t, []domain.NodeID{early, late}, tr.OperatorOrder())
}
