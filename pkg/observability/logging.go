package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/heddle/pkg/domain"
)

// LoggingHooks returns lifecycle hooks that write every event to logger.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnNodeCreated: func(ctx context.Context, e *domain.NodeEvent) {
			logger.DebugContext(ctx, "node_created", "workspace", e.Workspace, "node", e.NodeID, "kind", e.Kind)
		},
		OnNodeRemoved: func(ctx context.Context, e *domain.NodeEvent) {
			logger.DebugContext(ctx, "node_removed", "workspace", e.Workspace, "node", e.NodeID)
		},
		OnInvoke: func(ctx context.Context, e *domain.InvokeEvent) {
			logger.DebugContext(ctx, "operator_invoke", "operator", e.Operator, "node", e.NodeID, "inputs", e.Inputs)
		},
		OnInvokeResult: func(ctx context.Context, e *domain.InvokeEvent) {
			attrs := []any{
				"operator", e.Operator,
				"node", e.NodeID,
				"outputs", e.Outputs,
				"duration", e.Duration,
			}
			if e.Err != nil {
				logger.ErrorContext(ctx, "operator_failed", append(attrs, "error", e.Err)...)
				return
			}
			logger.InfoContext(ctx, "operator_return", attrs...)
		},
		OnRecompute: func(ctx context.Context, e *domain.RecomputeEvent) {
			logger.InfoContext(ctx, "recompute",
				"workspace", e.Workspace,
				"root", e.Root,
				"operators", len(e.Operators),
				"duration", e.Duration,
			)
		},
	}
}
