package heddle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/aretw0/heddle/pkg/domain"
	"github.com/aretw0/heddle/pkg/draft"
	"github.com/aretw0/heddle/pkg/operator"
	"github.com/aretw0/heddle/pkg/ops"
	"github.com/aretw0/heddle/pkg/registry"
	"github.com/aretw0/heddle/pkg/schema"
	"github.com/aretw0/heddle/pkg/tree"
	"github.com/google/uuid"
)

// childOffset is how far below its operator a newly generated draft is placed.
const childOffset = 120

type opNode struct {
	op     *operator.Operator
	params operator.Params
}

// Workspace is the high-level entry point of the library. It owns a dependency tree,
// the payload of every node and the registry operators are resolved from.
//
// A Workspace assumes a single writer. Hosts that mutate it from several goroutines
// serialize access, e.g. through session.Manager.
type Workspace struct {
	id       string
	tree     *tree.Tree
	registry *registry.Registry
	drafts   map[domain.NodeID]*draft.Draft
	names    map[domain.NodeID]string
	ops      map[domain.NodeID]*opNode
	bounds   map[domain.NodeID]domain.Bounds
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
}

// Option defines a functional option for configuring the Workspace.
type Option func(*Workspace)

// WithID sets the workspace id (default: a random UUID).
func WithID(id string) Option {
	return func(w *Workspace) {
		w.id = id
	}
}

// WithRegistry sets the operator registry (default: ops.Default()).
func WithRegistry(r *registry.Registry) Option {
	return func(w *Workspace) {
		w.registry = r
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(w *Workspace) {
		w.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the workspace.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Workspace) {
		w.logger = logger
	}
}

// New creates an empty workspace.
func New(opts ...Option) *Workspace {
	w := &Workspace{
		tree:   tree.New(),
		drafts: make(map[domain.NodeID]*draft.Draft),
		names:  make(map[domain.NodeID]string),
		ops:    make(map[domain.NodeID]*opNode),
		bounds: make(map[domain.NodeID]domain.Bounds),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.id == "" {
		w.id = uuid.NewString()
	}
	if w.registry == nil {
		w.registry = ops.Default()
	}
	if w.logger == nil {
		w.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	w.logger = w.logger.With("workspace", w.id)
	return w
}

// ID returns the workspace id.
func (w *Workspace) ID() string { return w.id }

// Tree returns the dependency graph for queries. Mutate the workspace through its
// own methods so node payloads stay in sync.
func (w *Workspace) Tree() *tree.Tree { return w.tree }

// Registry returns the operator registry.
func (w *Workspace) Registry() *registry.Registry { return w.registry }

func (w *Workspace) base() domain.EventBase {
	return domain.EventBase{Timestamp: time.Now(), Workspace: w.id}
}

func (w *Workspace) created(ctx context.Context, id domain.NodeID) {
	kind := w.tree.Kind(id)
	w.logger.Debug("node created", "node", id, "kind", kind)
	if w.hooks.OnNodeCreated != nil {
		w.hooks.OnNodeCreated(ctx, &domain.NodeEvent{EventBase: w.base(), NodeID: id, Kind: kind})
	}
}

func (w *Workspace) check(id domain.NodeID, kind domain.NodeKind) error {
	got, ok := w.tree.Lookup(id)
	if !ok {
		return fmt.Errorf("%w: %d", domain.ErrNodeNotFound, id)
	}
	if got != kind {
		return fmt.Errorf("node %d is a %s, not a %s", id, got, kind)
	}
	return nil
}

// AddDraft adds a user-created draft node. A nil draft creates a node with no payload
// yet, to be filled by an upstream operator.
func (w *Workspace) AddDraft(ctx context.Context, d *draft.Draft) domain.NodeID {
	id := w.tree.AddDraft()
	if d != nil {
		w.drafts[id] = d
		w.names[id] = d.UserName()
	}
	w.created(ctx, id)
	return id
}

// AddOperator adds an operator node resolved by name or alias.
func (w *Workspace) AddOperator(ctx context.Context, name string, params operator.Params) (domain.NodeID, error) {
	op, err := w.registry.Get(name)
	if err != nil {
		return domain.NoNode, err
	}
	id := w.tree.AddOperator()
	w.ops[id] = &opNode{op: op, params: params.Clone()}
	w.created(ctx, id)
	return id, nil
}

// Connect wires from -> to at the given inlet of to and returns the connection id.
// Wiring an operator to a draft makes the draft one of the operator's outputs.
func (w *Workspace) Connect(ctx context.Context, from, to domain.NodeID, inlet int) (domain.NodeID, error) {
	for _, id := range []domain.NodeID{from, to} {
		if !w.tree.Has(id) {
			return domain.NoNode, fmt.Errorf("%w: %d", domain.ErrNodeNotFound, id)
		}
	}
	if n, ok := w.ops[to]; ok {
		if inlets := n.op.ResolvedInlets(); inlet >= len(inlets) {
			return domain.NoNode, fmt.Errorf("%w: %s has %d inlets, got inlet %d",
				domain.ErrInvalidConnection, n.op.Name, len(inlets), inlet)
		}
	}

	cxn, err := w.tree.Connect(from, to, inlet)
	if err != nil {
		return domain.NoNode, err
	}
	if w.tree.Kind(from) == domain.KindOperator && w.tree.Kind(to) == domain.KindDraft {
		w.tree.SetParent(to, from)
	}
	w.created(ctx, cxn)
	return cxn, nil
}

// SetParams replaces the parameters of an operator node and marks it dirty.
func (w *Workspace) SetParams(id domain.NodeID, params operator.Params) error {
	if err := w.check(id, domain.KindOperator); err != nil {
		return err
	}
	w.ops[id].params = params.Clone()
	w.tree.MarkDirty(id)
	return nil
}

// SetDraft replaces the payload of a draft node and marks everything downstream dirty.
func (w *Workspace) SetDraft(id domain.NodeID, d *draft.Draft) error {
	if err := w.check(id, domain.KindDraft); err != nil {
		return err
	}
	w.drafts[id] = d
	w.applyName(id)
	w.tree.MarkDirty(id)
	return nil
}

// SetName sets the user name of a draft node. It survives recomputation.
func (w *Workspace) SetName(id domain.NodeID, name string) error {
	if err := w.check(id, domain.KindDraft); err != nil {
		return err
	}
	w.names[id] = name
	w.applyName(id)
	return nil
}

func (w *Workspace) applyName(id domain.NodeID) {
	if d := w.drafts[id]; d != nil {
		d.SetName(w.names[id])
	}
}

// SetParent records that the operator generated the draft.
func (w *Workspace) SetParent(draftID, opID domain.NodeID) error {
	if err := w.check(draftID, domain.KindDraft); err != nil {
		return err
	}
	if err := w.check(opID, domain.KindOperator); err != nil {
		return err
	}
	w.tree.SetParent(draftID, opID)
	return nil
}

// Draft returns the payload of a draft node, if it has one.
func (w *Workspace) Draft(id domain.NodeID) (*draft.Draft, bool) {
	d, ok := w.drafts[id]
	return d, ok && d != nil
}

// Operator returns the operator and parameters of an operator node.
func (w *Workspace) Operator(id domain.NodeID) (*operator.Operator, operator.Params, bool) {
	n, ok := w.ops[id]
	if !ok {
		return nil, nil, false
	}
	return n.op, n.params.Clone(), true
}

// Outputs returns the drafts generated by an operator node.
func (w *Workspace) Outputs(id domain.NodeID) []domain.NodeID {
	if !w.tree.Has(id) {
		return nil
	}
	return w.tree.Children(id)
}

// Bounds returns the screen rectangle of a node.
func (w *Workspace) Bounds(id domain.NodeID) domain.Bounds { return w.bounds[id] }

// Move places a node at b. Drafts generated by the node move along with it. It returns
// every node whose position must be redrawn.
func (w *Workspace) Move(id domain.NodeID, b domain.Bounds) ([]domain.NodeID, error) {
	if !w.tree.Has(id) {
		return nil, fmt.Errorf("%w: %d", domain.ErrNodeNotFound, id)
	}
	old := w.bounds[id]
	dx, dy := b.X-old.X, b.Y-old.Y
	w.bounds[id] = b
	for _, child := range w.tree.Children(id) {
		cb := w.bounds[child]
		cb.X, cb.Y = cb.X+dx, cb.Y+dy
		w.bounds[child] = cb
	}
	return w.tree.MoveImpact(id), nil
}

// Remove deletes a node. Removing an operator also removes the drafts it generated.
// Connections left without an input or an output are removed as well. It returns
// every removed id.
func (w *Workspace) Remove(ctx context.Context, id domain.NodeID) ([]domain.NodeID, error) {
	kind, ok := w.tree.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %d", domain.ErrNodeNotFound, id)
	}

	kinds := make(map[domain.NodeID]domain.NodeKind)
	for _, n := range w.tree.Nodes() {
		kinds[n] = w.tree.Kind(n)
	}

	var removed []domain.NodeID
	if kind == domain.KindOperator {
		removed = w.tree.RemoveOperatorCascade(id)
	} else {
		orphans := w.tree.RemoveNode(id)
		if len(orphans) > 0 {
			w.logger.Warn("removing orphaned connections", "node", id, "connections", orphans)
		}
		removed = append([]domain.NodeID{id}, w.tree.RemoveOrphans()...)
	}

	for _, r := range removed {
		delete(w.drafts, r)
		delete(w.names, r)
		delete(w.ops, r)
		delete(w.bounds, r)
		w.logger.Debug("node removed", "node", r)
		if w.hooks.OnNodeRemoved != nil {
			w.hooks.OnNodeRemoved(ctx, &domain.NodeEvent{EventBase: w.base(), NodeID: r, Kind: kinds[r]})
		}
	}
	return removed, nil
}

// Inputs builds the tagged inputs an operator node sees: its own parameters, and the
// drafts arriving at each inlet. An upstream operator contributes all of its outputs.
func (w *Workspace) Inputs(id domain.NodeID) ([]operator.Input, error) {
	if err := w.check(id, domain.KindOperator); err != nil {
		return nil, err
	}
	inputs := []operator.Input{operator.ParentInput(w.ops[id].params)}
	for _, in := range w.tree.Inputs(id) {
		var ds []*draft.Draft
		switch w.tree.Kind(in.Node) {
		case domain.KindDraft:
			if d, ok := w.Draft(in.Node); ok {
				ds = append(ds, d)
			}
		case domain.KindOperator:
			for _, child := range w.tree.Children(in.Node) {
				if d, ok := w.Draft(child); ok {
					ds = append(ds, d)
				}
			}
		}
		inputs = append(inputs, operator.ChildInput(in.Inlet, ds...))
	}
	return inputs, nil
}

// Recompute runs the operator at id (if it is one) and every operator downstream of
// it, upstream first.
func (w *Workspace) Recompute(ctx context.Context, id domain.NodeID) error {
	if !w.tree.Has(id) {
		return fmt.Errorf("%w: %d", domain.ErrNodeNotFound, id)
	}
	return w.recompute(ctx, id, w.tree.RecomputeOrder(id))
}

// RecomputeAll runs every dirty operator in dependency order.
func (w *Workspace) RecomputeAll(ctx context.Context) error {
	var order []domain.NodeID
	for _, op := range w.tree.OperatorOrder() {
		if w.tree.IsDirty(op) {
			order = append(order, op)
		}
	}
	return w.recompute(ctx, domain.NoNode, order)
}

func (w *Workspace) recompute(ctx context.Context, root domain.NodeID, order []domain.NodeID) error {
	start := time.Now()
	w.logger.Debug("recompute", "root", root, "operators", order)
	for _, op := range order {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := w.run(ctx, op); err != nil {
			return err
		}
	}
	if w.hooks.OnRecompute != nil {
		w.hooks.OnRecompute(ctx, &domain.RecomputeEvent{
			EventBase: w.base(),
			Root:      root,
			Operators: order,
			Duration:  time.Since(start),
		})
	}
	return nil
}

// run invokes one operator node and attaches its results to its child drafts.
func (w *Workspace) run(ctx context.Context, id domain.NodeID) error {
	n := w.ops[id]
	inputs, err := w.Inputs(id)
	if err != nil {
		return err
	}

	event := &domain.InvokeEvent{EventBase: w.base(), NodeID: id, Operator: n.op.Name, Inputs: countDrafts(inputs)}
	out, err := w.invoke(ctx, n.op, event, func() ([]*draft.Draft, error) {
		return operator.Invoke(ctx, n.op, inputs)
	})
	if err != nil {
		return fmt.Errorf("recompute node %d: %w", id, err)
	}
	w.attach(ctx, id, out)
	return nil
}

// invoke wraps an operator call with hooks and logging. Invalid parameter values are
// logged and reported as an empty result.
func (w *Workspace) invoke(ctx context.Context, op *operator.Operator, event *domain.InvokeEvent, call func() ([]*draft.Draft, error)) ([]*draft.Draft, error) {
	if w.hooks.OnInvoke != nil {
		w.hooks.OnInvoke(ctx, event)
	}
	start := time.Now()
	out, err := call()
	if invalidParams(err) {
		w.logger.Warn("invalid operator parameters", "operator", op.Name, "node", event.NodeID, "error", err)
		out, err = []*draft.Draft{}, nil
	}
	event.Duration = time.Since(start)
	event.Outputs = len(out)
	event.Empty = err == nil && len(out) == 0
	event.Err = err
	if event.Empty {
		w.logger.Warn("operator produced no drafts", "operator", op.Name, "node", event.NodeID)
	}
	if w.hooks.OnInvokeResult != nil {
		w.hooks.OnInvokeResult(ctx, event)
	}
	return out, err
}

// attach stores outputs on the operator's child drafts in order, creating children as
// needed. Children beyond the number of outputs keep their node but lose their payload.
func (w *Workspace) attach(ctx context.Context, id domain.NodeID, out []*draft.Draft) {
	children := w.tree.Children(id)
	for k, d := range out {
		var child domain.NodeID
		if k < len(children) {
			child = children[k]
		} else {
			child = w.AddDraft(ctx, nil)
			if _, err := w.Connect(ctx, id, child, 0); err != nil {
				// a fresh draft node always accepts its first input
				panic(err)
			}
			b := w.bounds[id]
			b.Y += childOffset
			b.X += float64(k) * childOffset
			w.bounds[child] = b
		}
		w.drafts[child] = d
		w.applyName(child)
	}
	for _, child := range children[min(len(out), len(children)):] {
		delete(w.drafts, child)
	}

	w.tree.MarkClean(id)
	inputs, _ := w.tree.Edges(id)
	for _, in := range inputs {
		w.tree.MarkClean(in.Node)
	}
	for _, in := range w.tree.Inputs(id) {
		if w.tree.Kind(in.Node) == domain.KindDraft {
			w.tree.MarkClean(in.Node)
		}
	}
	for _, child := range w.tree.Children(id) {
		w.tree.MarkDirty(child)
		if cxn, ok := w.tree.ConnectionBetween(id, child); ok {
			w.tree.MarkClean(cxn)
		}
		w.tree.MarkClean(child)
	}
}

// InvokeStandalone steps one operator outside the graph on the current draft.
// Only pipe operators with required parameters and seeds with optional drafts qualify.
func (w *Workspace) InvokeStandalone(ctx context.Context, name string, current *draft.Draft, params operator.Params) (*draft.Draft, error) {
	op, err := w.registry.Get(name)
	if err != nil {
		return nil, err
	}
	inputs := 0
	if current != nil {
		inputs = 1
	}
	event := &domain.InvokeEvent{EventBase: w.base(), Operator: op.Name, Inputs: inputs}
	out, err := w.invoke(ctx, op, event, func() ([]*draft.Draft, error) {
		d, err := operator.InvokeStandalone(ctx, op, current, params)
		if d == nil {
			return []*draft.Draft{}, err
		}
		return []*draft.Draft{d}, err
	})
	if err != nil || len(out) == 0 {
		return nil, err
	}
	return out[0], nil
}

// Drafts returns every draft node that has a payload, in ascending order.
func (w *Workspace) Drafts() []domain.NodeID {
	var out []domain.NodeID
	for id, d := range w.drafts {
		if d != nil {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return out
}

func countDrafts(inputs []operator.Input) int {
	n := 0
	for _, in := range inputs {
		n += len(in.Drafts)
	}
	return n
}

func invalidParams(err error) bool {
	var aggr *schema.AggregateError
	return errors.As(err, &aggr)
}
