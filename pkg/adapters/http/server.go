package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/aretw0/heddle"
	"github.com/aretw0/heddle/internal/dto"
	"github.com/aretw0/heddle/internal/logging"
	"github.com/aretw0/heddle/internal/presentation/graph"
	"github.com/aretw0/heddle/pkg/document"
	"github.com/aretw0/heddle/pkg/domain"
	"github.com/aretw0/heddle/pkg/operator"
	"github.com/aretw0/heddle/pkg/registry"
	"github.com/aretw0/heddle/pkg/schema"
	"github.com/aretw0/heddle/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server serves the operator registry and the workspaces of a session manager.
type Server struct {
	Registry *registry.Registry
	Sessions *session.Manager
	Streams  *StreamManager

	gatherer prometheus.Gatherer
	logger   *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics serves the collectors of g on /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// NewServer creates a Server.
func NewServer(reg *registry.Registry, mgr *session.Manager, opts ...Option) *Server {
	s := &Server{
		Registry: reg,
		Sessions: mgr,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams = NewStreamManager(s.logger)
	return s
}

// NewHandler creates the HTTP handler for a registry and session manager.
func NewHandler(reg *registry.Registry, mgr *session.Manager, opts ...Option) http.Handler {
	return NewServer(reg, mgr, opts...).Routes()
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/operators", func(r chi.Router) {
		r.Get("/", s.ListOperators)
		r.Get("/{name}", s.GetOperator)
		r.Post("/{name}/invoke", s.InvokeOperator)
	})

	r.Route("/workspaces", func(r chi.Router) {
		r.Get("/", s.ListWorkspaces)
		r.Post("/", s.CreateWorkspace)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetWorkspace)
			r.Put("/", s.PutWorkspace)
			r.Delete("/", s.DeleteWorkspace)
			r.Get("/mermaid", s.GetMermaid)
			r.Get("/events", s.SubscribeEvents)
			r.Post("/nodes", s.AddNode)
			r.Delete("/nodes/{node}", s.RemoveNode)
			r.Put("/nodes/{node}/params", s.SetParams)
			r.Get("/drafts/{node}", s.GetDraft)
			r.Post("/connections", s.Connect)
		})
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// -- Helpers --

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// fail maps domain errors to status codes.
func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrWorkspaceNotFound),
		errors.Is(err, domain.ErrNodeNotFound),
		errors.Is(err, domain.ErrOperatorNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidConnection),
		errors.Is(err, errBadRequest),
		invalidParams(err):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		s.logger.Error(op+" failed", "error", err)
	} else {
		s.logger.Warn(op+" rejected", "error", err)
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

var errBadRequest = errors.New("bad request")

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

func invalidParams(err error) bool {
	var aggr *schema.AggregateError
	return errors.As(err, &aggr)
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return badRequest("invalid request body: %v", err)
	}
	return nil
}

func nodeParam(r *http.Request) (domain.NodeID, error) {
	n, err := strconv.Atoi(chi.URLParam(r, "node"))
	if err != nil {
		return domain.NoNode, badRequest("invalid node id %q", chi.URLParam(r, "node"))
	}
	return domain.NodeID(n), nil
}

// update runs fn on a stored workspace and broadcasts the change.
func (s *Server) update(ctx context.Context, id, event string, fn func(ctx context.Context, ws *heddle.Workspace) (any, error)) (any, error) {
	var result any
	_, err := s.Sessions.Update(ctx, id, func(ctx context.Context, ws *heddle.Workspace) error {
		var err error
		if result, err = fn(ctx, ws); err != nil {
			return err
		}
		return ws.RecomputeAll(ctx)
	})
	if err != nil {
		return nil, err
	}
	if msg, err := json.Marshal(map[string]any{"type": event, "result": result}); err == nil {
		s.Streams.Broadcast(id, string(msg))
	}
	return result, nil
}

// -- Handlers --

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"app":       "heddle-http",
		"version":   strings.TrimSpace(heddle.Version),
		"operators": len(s.Registry.Names()),
	})
}

// ListOperators handles GET /operators.
func (s *Server) ListOperators(w http.ResponseWriter, r *http.Request) {
	ops := s.Registry.List()
	out := make([]dto.Operator, len(ops))
	for i, op := range ops {
		out[i] = dto.FromOperator(op)
	}
	s.writeJSON(w, http.StatusOK, out)
}

// GetOperator handles GET /operators/{name}. It accepts aliases.
func (s *Server) GetOperator(w http.ResponseWriter, r *http.Request) {
	op, err := s.Registry.Get(chi.URLParam(r, "name"))
	if err != nil {
		s.fail(w, "GetOperator", err)
		return
	}
	s.writeJSON(w, http.StatusOK, struct {
		dto.Operator
		Doc string `json:"doc"`
	}{dto.FromOperator(op), op.Doc()})
}

// InvokeOperator handles POST /operators/{name}/invoke, stepping a standalone
// operator on the posted draft. An empty result is answered with a null draft.
func (s *Server) InvokeOperator(w http.ResponseWriter, r *http.Request) {
	var body dto.Invoke
	if err := decode(r, &body); err != nil {
		s.fail(w, "InvokeOperator", err)
		return
	}
	current, err := body.Draft.ToDraft()
	if err != nil {
		s.fail(w, "InvokeOperator", badRequest("%v", err))
		return
	}
	op, err := s.Registry.Get(chi.URLParam(r, "name"))
	if err != nil {
		s.fail(w, "InvokeOperator", err)
		return
	}
	if !op.Classification.Standalone() {
		s.fail(w, "InvokeOperator", badRequest("operator %s (%s) cannot be invoked standalone", op.Name, op.Classification))
		return
	}
	next, err := operator.InvokeStandalone(r.Context(), op, current, body.Params)
	if err != nil {
		s.fail(w, "InvokeOperator", err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"draft": dto.FromDraft(next)})
}

// ListWorkspaces handles GET /workspaces.
func (s *Server) ListWorkspaces(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Sessions.List(r.Context())
	if err != nil {
		s.fail(w, "ListWorkspaces", err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"workspaces": ids})
}

// CreateWorkspace handles POST /workspaces.
func (s *Server) CreateWorkspace(w http.ResponseWriter, r *http.Request) {
	ws, err := s.Sessions.Create(r.Context())
	if err != nil {
		s.fail(w, "CreateWorkspace", err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]string{"id": ws.ID()})
}

// GetWorkspace handles GET /workspaces/{id}, answering with the stored document.
func (s *Server) GetWorkspace(w http.ResponseWriter, r *http.Request) {
	ws, err := s.Sessions.Open(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, "GetWorkspace", err)
		return
	}
	s.writeJSON(w, http.StatusOK, document.Export(ws))
}

// PutWorkspace handles PUT /workspaces/{id}, replacing the workspace with the posted
// document after checking that it replays.
func (s *Server) PutWorkspace(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var doc domain.Document
	if err := decode(r, &doc); err != nil {
		s.fail(w, "PutWorkspace", err)
		return
	}
	ws, err := document.Import(r.Context(), &doc, heddle.WithID(id), heddle.WithRegistry(s.Registry))
	if err != nil {
		s.fail(w, "PutWorkspace", badRequest("%v", err))
		return
	}
	if err := s.Sessions.Save(r.Context(), ws); err != nil {
		s.fail(w, "PutWorkspace", err)
		return
	}
	s.Streams.Broadcast(id, `{"type":"replaced"}`)
	s.writeJSON(w, http.StatusOK, document.Export(ws))
}

// DeleteWorkspace handles DELETE /workspaces/{id}.
func (s *Server) DeleteWorkspace(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.Sessions.Delete(r.Context(), id); err != nil {
		s.fail(w, "DeleteWorkspace", err)
		return
	}
	s.Streams.Broadcast(id, `{"type":"deleted"}`)
	w.WriteHeader(http.StatusNoContent)
}

// GetMermaid handles GET /workspaces/{id}/mermaid.
func (s *Server) GetMermaid(w http.ResponseWriter, r *http.Request) {
	ws, err := s.Sessions.Open(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, "GetMermaid", err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(graph.GenerateMermaid(ws, graph.DirtyOverlay(ws))))
}

type addNodeRequest struct {
	Kind     domain.NodeKind `json:"kind"`
	Draft    *dto.Draft      `json:"draft,omitempty"`
	Operator string          `json:"operator,omitempty"`
	Params   map[string]any  `json:"params,omitempty"`
	Bounds   *domain.Bounds  `json:"bounds,omitempty"`
}

// AddNode handles POST /workspaces/{id}/nodes for drafts and operators.
func (s *Server) AddNode(w http.ResponseWriter, r *http.Request) {
	var body addNodeRequest
	if err := decode(r, &body); err != nil {
		s.fail(w, "AddNode", err)
		return
	}
	result, err := s.update(r.Context(), chi.URLParam(r, "id"), "node_added", func(ctx context.Context, ws *heddle.Workspace) (any, error) {
		var id domain.NodeID
		switch body.Kind {
		case domain.KindDraft:
			d, err := body.Draft.ToDraft()
			if err != nil {
				return nil, badRequest("%v", err)
			}
			id = ws.AddDraft(ctx, d)
		case domain.KindOperator:
			var err error
			if id, err = ws.AddOperator(ctx, body.Operator, body.Params); err != nil {
				return nil, err
			}
		default:
			return nil, badRequest("nodes of kind %s are created by connecting", body.Kind)
		}
		if body.Bounds != nil {
			if _, err := ws.Move(id, *body.Bounds); err != nil {
				return nil, err
			}
		}
		return map[string]domain.NodeID{"id": id}, nil
	})
	if err != nil {
		s.fail(w, "AddNode", err)
		return
	}
	s.writeJSON(w, http.StatusCreated, result)
}

// RemoveNode handles DELETE /workspaces/{id}/nodes/{node}.
func (s *Server) RemoveNode(w http.ResponseWriter, r *http.Request) {
	node, err := nodeParam(r)
	if err != nil {
		s.fail(w, "RemoveNode", err)
		return
	}
	result, err := s.update(r.Context(), chi.URLParam(r, "id"), "node_removed", func(ctx context.Context, ws *heddle.Workspace) (any, error) {
		removed, err := ws.Remove(ctx, node)
		if err != nil {
			return nil, err
		}
		return map[string][]domain.NodeID{"removed": removed}, nil
	})
	if err != nil {
		s.fail(w, "RemoveNode", err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

// SetParams handles PUT /workspaces/{id}/nodes/{node}/params.
func (s *Server) SetParams(w http.ResponseWriter, r *http.Request) {
	node, err := nodeParam(r)
	if err != nil {
		s.fail(w, "SetParams", err)
		return
	}
	var params map[string]any
	if err := decode(r, &params); err != nil {
		s.fail(w, "SetParams", err)
		return
	}
	result, err := s.update(r.Context(), chi.URLParam(r, "id"), "params_changed", func(ctx context.Context, ws *heddle.Workspace) (any, error) {
		if err := ws.SetParams(node, params); err != nil {
			return nil, err
		}
		return map[string]domain.NodeID{"id": node}, nil
	})
	if err != nil {
		s.fail(w, "SetParams", err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

type connectRequest struct {
	From  domain.NodeID `json:"from"`
	To    domain.NodeID `json:"to"`
	Inlet int           `json:"inlet"`
}

// Connect handles POST /workspaces/{id}/connections.
func (s *Server) Connect(w http.ResponseWriter, r *http.Request) {
	var body connectRequest
	if err := decode(r, &body); err != nil {
		s.fail(w, "Connect", err)
		return
	}
	result, err := s.update(r.Context(), chi.URLParam(r, "id"), "connected", func(ctx context.Context, ws *heddle.Workspace) (any, error) {
		cxn, err := ws.Connect(ctx, body.From, body.To, body.Inlet)
		if err != nil {
			return nil, err
		}
		return map[string]domain.NodeID{"id": cxn}, nil
	})
	if err != nil {
		s.fail(w, "Connect", err)
		return
	}
	s.writeJSON(w, http.StatusCreated, result)
}

// GetDraft handles GET /workspaces/{id}/drafts/{node}.
func (s *Server) GetDraft(w http.ResponseWriter, r *http.Request) {
	node, err := nodeParam(r)
	if err != nil {
		s.fail(w, "GetDraft", err)
		return
	}
	ws, err := s.Sessions.Open(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, "GetDraft", err)
		return
	}
	d, ok := ws.Draft(node)
	if !ok {
		s.fail(w, "GetDraft", fmt.Errorf("%w: no draft at %d", domain.ErrNodeNotFound, node))
		return
	}
	s.writeJSON(w, http.StatusOK, dto.FromDraft(d))
}

// SubscribeEvents handles GET /workspaces/{id}/events (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	id := chi.URLParam(r, "id")
	ch, cancel := s.Streams.Subscribe(id)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()
	s.logger.Info("SSE: subscribed", "workspace", id)

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE: client disconnected", "workspace", id)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}
