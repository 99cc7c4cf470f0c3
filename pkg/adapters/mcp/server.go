package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/heddle"
	"github.com/aretw0/heddle/internal/dto"
	"github.com/aretw0/heddle/internal/logging"
	"github.com/aretw0/heddle/internal/presentation/graph"
	"github.com/aretw0/heddle/pkg/document"
	"github.com/aretw0/heddle/pkg/operator"
	"github.com/aretw0/heddle/pkg/registry"
	"github.com/aretw0/heddle/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	operatorsURI = "heddle://operators"
	workspaceURI = "heddle://workspaces/{id}"
)

// InvokeResponse is the structured result of invoke_operator.
type InvokeResponse struct {
	Draft *dto.Draft `json:"draft,omitempty" jsonschema_description:"The resulting draft, absent when the result is empty"`
	Empty bool       `json:"empty" jsonschema_description:"True when mandatory inputs were missing"`
}

// Server wraps an operator registry and exposes it as an MCP Server.
type Server struct {
	registry  *registry.Registry
	sessions  *session.Manager
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithSessions also exposes the workspaces of mgr.
func WithSessions(mgr *session.Manager) Option {
	return func(s *Server) {
		s.sessions = mgr
	}
}

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(reg *registry.Registry, opts ...Option) *Server {
	s := &Server{
		registry: reg,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.mcpServer = server.NewMCPServer("heddle-mcp", strings.TrimSpace(heddle.Version),
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithRecovery(),
	)
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying server, e.g. for in-process clients.
func (s *Server) MCPServer() *server.MCPServer { return s.mcpServer }

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the SSE transport on addr until ctx is canceled.
func (s *Server) ServeSSE(ctx context.Context, addr string) error {
	baseURL := "http://localhost" + addr
	if !strings.HasPrefix(addr, ":") {
		baseURL = "http://" + addr
	}
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_operators",
		mcp.WithDescription("List every registered operator with its classification, inlets and parameters."),
	), s.handleListOperators)

	s.mcpServer.AddTool(mcp.NewTool("describe_operator",
		mcp.WithDescription("Describe one operator in markdown. Aliases are accepted."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Operator name or alias")),
	), s.handleDescribeOperator)

	s.mcpServer.AddTool(mcp.NewTool("invoke_operator",
		mcp.WithDescription("Step a standalone operator (pipe with required parameters, or seed) on a draft. "+
			"Drafts are one string per row: 'x' raised, '.' lowered, '?' unset."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Operator name or alias")),
		mcp.WithObject("draft", mcp.Description("Current draft: {name, pattern: [rows...]}")),
		mcp.WithObject("params", mcp.Description("Parameter values by name")),
		mcp.WithOutputSchema[InvokeResponse](),
	), mcp.NewStructuredToolHandler(s.handleInvokeOperator))

	if s.sessions == nil {
		return
	}

	s.mcpServer.AddTool(mcp.NewTool("list_workspaces",
		mcp.WithDescription("List the ids of stored workspaces."),
	), s.handleListWorkspaces)

	s.mcpServer.AddTool(mcp.NewTool("show_workspace",
		mcp.WithDescription("Render a stored workspace graph as a Mermaid flowchart."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Workspace id")),
	), s.handleShowWorkspace)
}

func (s *Server) handleListOperators(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ops := s.registry.List()
	out := make([]dto.Operator, len(ops))
	for i, op := range ops {
		out[i] = dto.FromOperator(op)
	}
	jsonBytes, err := json.Marshal(out)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleDescribeOperator(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	op, err := s.registry.Get(name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(op.Doc()), nil
}

func (s *Server) handleInvokeOperator(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (InvokeResponse, error) {
	name, _ := args["name"].(string)
	op, err := s.registry.Get(name)
	if err != nil {
		return InvokeResponse{}, err
	}
	in, err := dto.DecodeInvoke(args)
	if err != nil {
		return InvokeResponse{}, err
	}
	current, err := in.Draft.ToDraft()
	if err != nil {
		return InvokeResponse{}, err
	}

	next, err := operator.InvokeStandalone(ctx, op, current, in.Params)
	if err != nil {
		s.logger.Warn("MCP invoke failed", "operator", op.Name, "error", err)
		return InvokeResponse{}, err
	}
	if next == nil {
		return InvokeResponse{Empty: true}, nil
	}
	return InvokeResponse{Draft: dto.FromDraft(next)}, nil
}

func (s *Server) handleListWorkspaces(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ids, err := s.sessions.List(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
	}
	jsonBytes, _ := json.Marshal(ids)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleShowWorkspace(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ws, err := s.sessions.Open(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("open failed: %v", err)), nil
	}
	return mcp.NewToolResultText(graph.GenerateMermaid(ws, graph.DirtyOverlay(ws))), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(operatorsURI, "Operator Catalog",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		ops := s.registry.List()
		out := make([]dto.Operator, len(ops))
		for i, op := range ops {
			out[i] = dto.FromOperator(op)
		}
		jsonBytes, err := json.Marshal(out)
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      operatorsURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})

	if s.sessions == nil {
		return
	}

	s.mcpServer.AddResourceTemplate(mcp.NewResourceTemplate(workspaceURI, "Workspace Document",
		mcp.WithTemplateMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		id := strings.TrimPrefix(request.Params.URI, "heddle://workspaces/")
		ws, err := s.sessions.Open(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to open workspace: %w", err)
		}
		jsonBytes, err := document.Marshal(document.Export(ws), document.JSON)
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      request.Params.URI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
