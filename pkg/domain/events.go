package domain

import (
	"context"
	"time"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Workspace string    `json:"workspace,omitempty"`
}

// NodeEvent represents the creation or removal of a node.
type NodeEvent struct {
	EventBase
	NodeID NodeID   `json:"node_id"`
	Kind   NodeKind `json:"kind"`
}

// InvokeEvent represents an operator invocation.
type InvokeEvent struct {
	EventBase
	NodeID   NodeID `json:"node_id,omitempty"` // NoNode for standalone invocations
	Operator string `json:"operator"`
	Inputs   int    `json:"inputs"`
	Outputs  int    `json:"outputs,omitempty"`
	// Empty is set when the operator short-circuited on a missing mandatory input.
	Empty    bool          `json:"empty,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`
	Err      error         `json:"-"`
}

// RecomputeEvent represents one recompute pass started at Root.
type RecomputeEvent struct {
	EventBase
	Root      NodeID        `json:"root"`
	Operators []NodeID      `json:"operators"`
	Duration  time.Duration `json:"duration"`
}

// LifecycleHooks defines callbacks for workspace observability.
type LifecycleHooks struct {
	OnNodeCreated  func(context.Context, *NodeEvent)
	OnNodeRemoved  func(context.Context, *NodeEvent)
	OnInvoke       func(context.Context, *InvokeEvent)
	OnInvokeResult func(context.Context, *InvokeEvent)
	OnRecompute    func(context.Context, *RecomputeEvent)
}

// JoinHooks returns hooks that call every non-nil callback of hs in order.
func JoinHooks(hs ...LifecycleHooks) LifecycleHooks {
	var out LifecycleHooks
	for _, h := range hs {
		out.OnNodeCreated = chain(out.OnNodeCreated, h.OnNodeCreated)
		out.OnNodeRemoved = chain(out.OnNodeRemoved, h.OnNodeRemoved)
		out.OnInvoke = chain(out.OnInvoke, h.OnInvoke)
		out.OnInvokeResult = chain(out.OnInvokeResult, h.OnInvokeResult)
		out.OnRecompute = chain(out.OnRecompute, h.OnRecompute)
	}
	return out
}

func chain[E any](a, b func(context.Context, *E)) func(context.Context, *E) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *E) {
		a(ctx, e)
		b(ctx, e)
	}
}
