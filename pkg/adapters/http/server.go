package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/navstack/internal/presentation/graph"
	"github.com/aretw0/navstack/pkg/domain"
	"github.com/aretw0/navstack/pkg/ports"
	"github.com/aretw0/navstack/pkg/registry"
	"github.com/aretw0/navstack/pkg/runner"
	"github.com/go-chi/chi/v5"
)

//go:generate mockgen -source=server.go -destination=mocks/mocks.go -package=mocks Engine

// Engine defines the part of the navigation engine the routes drive.
type Engine interface {
	Send(ctx context.Context, a domain.Action) error
	State() domain.Stack
	Registry() *registry.Registry
}

// DefaultSendTimeout bounds how long a request waits for its reducer pass.
const DefaultSendTimeout = 5 * time.Second

// Server serves the headless surface and forwards user actions to the engine.
type Server struct {
	Engine  Engine
	Surface *Surface
	Metrics http.Handler
	Timeout time.Duration
	Logger  *slog.Logger
}

// ViewResponse is the JSON shape of one displayed view.
type ViewResponse struct {
	ID      domain.ID      `json:"id"`
	Title   string         `json:"title"`
	Variant domain.Variant `json:"variant"`
	Payload domain.Payload `json:"payload"`
	Body    string         `json:"body,omitempty"`
	Actions []string       `json:"actions,omitempty"`
}

// StackResponse lists the displayed views, root first.
type StackResponse struct {
	Views []ViewResponse `json:"views"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewHandler creates the HTTP handler for the engine and its surface.
// metrics may be nil.
func NewHandler(engine Engine, surface *Surface, metrics http.Handler, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		Engine:  engine,
		Surface: surface,
		Metrics: metrics,
		Timeout: DefaultSendTimeout,
		Logger:  logger,
	}
	return enableCORS(s.Routes())
}

// Routes registers the endpoints on a chi router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/health", s.GetHealth)
	r.Get("/stack", s.GetStack)
	r.Get("/stack/graph", s.GetGraph)
	r.Get("/events", s.SubscribeEvents)
	r.Post("/items/{id}/actions/{name}", s.PostItemAction)
	r.Post("/pop", s.PostPop)
	r.Post("/pop-to-root", s.PostPopToRoot)
	r.Post("/back", s.PostBack)
	if s.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.Metrics)
	}
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetStack handles the GET /stack request.
func (s *Server) GetStack(w http.ResponseWriter, r *http.Request) {
	s.writeStack(w, http.StatusOK)
}

// GetGraph handles the GET /stack/graph request, answering with a Mermaid
// flowchart of the engine stack. Items not yet displayed are marked pending.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	chart := graph.GenerateMermaid(s.Engine.State(), &graph.Overlay{Shown: s.Surface.Shown()})
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, chart)
}

// PostItemAction handles the POST /items/{id}/actions/{name} request.
func (s *Server) PostItemAction(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid item id: %w", err))
		return
	}

	item, ok := s.Engine.State().Find(id)
	if !ok {
		s.writeError(w, http.StatusNotFound, fmt.Errorf("item %s is not on the stack", id))
		return
	}

	name := strings.TrimSpace(chi.URLParam(r, "name"))
	inner, err := s.Engine.Registry().Decode(item.Payload.Variant(), name)
	if err != nil {
		s.Logger.Warn("PostItemAction: action rejected", "id", id, "action", name, "err", err)
		s.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	s.send(w, r, domain.ItemAction{ID: id, Inner: inner})
}

// PostPop handles the POST /pop request.
func (s *Server) PostPop(w http.ResponseWriter, r *http.Request) {
	s.send(w, r, domain.Pop{})
}

// PostPopToRoot handles the POST /pop-to-root request.
func (s *Server) PostPopToRoot(w http.ResponseWriter, r *http.Request) {
	s.send(w, r, domain.PopToRoot{})
}

// PostBack handles the POST /back request: the surface drops its top view
// on its own, as an interactive back gesture would, and the engine catches
// up asynchronously.
func (s *Server) PostBack(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.Surface.Back(); !ok {
		s.writeError(w, http.StatusConflict, errors.New("the root view cannot be dismissed"))
		return
	}
	s.writeStack(w, http.StatusAccepted)
}

// SubscribeEvents handles the GET /events request (SSE).
// Each message is a JSON-encoded domain.StackDiff.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.Logger.Error("SubscribeEvents: streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Surface.Streams().Subscribe()
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.Logger.Debug("SSE client disconnected")
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

func (s *Server) send(w http.ResponseWriter, r *http.Request, a domain.Action) {
	ctx, cancel := context.WithTimeout(r.Context(), s.Timeout)
	defer cancel()

	if err := s.Engine.Send(ctx, a); err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, runner.ErrStopped):
			status = http.StatusServiceUnavailable
		case errors.Is(err, context.DeadlineExceeded):
			status = http.StatusGatewayTimeout
		}
		s.Logger.Error("dispatch failed", "action", domain.Kind(a), "err", err)
		s.writeError(w, status, err)
		return
	}
	s.writeStack(w, http.StatusOK)
}

func (s *Server) writeStack(w http.ResponseWriter, status int) {
	s.writeJSON(w, status, NewStackResponse(s.Surface.Views()))
}

// NewStackResponse describes the given views, root first.
func NewStackResponse(views []ports.View) StackResponse {
	resp := StackResponse{Views: make([]ViewResponse, len(views))}
	for i, v := range views {
		resp.Views[i] = NewViewResponse(v)
	}
	return resp
}

// NewViewResponse describes one view. Screens contribute a body and actions.
func NewViewResponse(v ports.View) ViewResponse {
	resp := ViewResponse{
		ID:      v.ID,
		Title:   v.Item.Title,
		Payload: v.Item.Payload,
	}
	if v.Item.Payload != nil {
		resp.Variant = v.Item.Payload.Variant()
	}
	if screen, ok := v.Renderable.(ports.Screen); ok {
		resp.Body = screen.Body(v.Item.Payload)
		resp.Actions = screen.Actions()
	}
	return resp
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("response encode failed", "err", err)
	}
}
