// Package http exposes the rendering collaborator contract over HTTP, one
// session per kiosk pane. Handlers are thin JSON wrappers over the Session
// surface; the UI never inspects the graph directly.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/opencourtlab/guideway"
	mapview "github.com/opencourtlab/guideway/internal/presentation/graph"
	"github.com/opencourtlab/guideway/pkg/domain"
	"github.com/opencourtlab/guideway/pkg/graph"
	"github.com/opencourtlab/guideway/pkg/ports"
	"github.com/opencourtlab/guideway/pkg/summary"
)

// Server hosts kiosk sessions over HTTP. Each session id owns an independent
// engine instance and persisted storage key, so two panes of a dual-pane
// view never share mutable state.
type Server struct {
	graph      *graph.Graph
	store      ports.StateStore
	sink       ports.CompletionSink
	phaseRules []summary.PhaseRule
	logger     *slog.Logger

	mu       sync.Mutex
	sessions map[string]*guideway.Session
}

// Option configures the Server.
type Option func(*Server)

// WithStore enables session persistence.
func WithStore(store ports.StateStore) Option {
	return func(s *Server) {
		s.store = store
	}
}

// WithCompletionSink registers the back-office callback.
func WithCompletionSink(sink ports.CompletionSink) Option {
	return func(s *Server) {
		s.sink = sink
	}
}

// WithPhaseRules injects the summarizer's phase table.
func WithPhaseRules(rules []summary.PhaseRule) Option {
	return func(s *Server) {
		s.phaseRules = rules
	}
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a Server over a validated graph.
func NewServer(g *graph.Graph, opts ...Option) *Server {
	s := &Server{
		graph:    g,
		logger:   slog.Default(),
		sessions: make(map[string]*guideway.Session),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the chi router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/graph/mermaid", s.handleMermaid)

	r.Post("/sessions", s.handleCreate)
	r.Route("/sessions/{id}", func(r chi.Router) {
		r.Get("/current", s.handleCurrent)
		r.Get("/options", s.handleOptions)
		r.Post("/advance", s.handleAdvance)
		r.Post("/back", s.handleBack)
		r.Post("/reset", s.handleReset)
		r.Get("/summary", s.handleSummary)
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// session returns the live Session for id, opening (and restoring) it on
// first touch.
func (s *Server) session(ctx context.Context, id string) (*guideway.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[id]; ok {
		return sess, nil
	}

	opts := []guideway.Option{
		guideway.WithSessionID(id),
		guideway.WithPhaseRules(s.phaseRules),
		guideway.WithLogger(s.logger),
	}
	if s.store != nil {
		opts = append(opts, guideway.WithStore(s.store))
	}
	if s.sink != nil {
		opts = append(opts, guideway.WithCompletionSink(s.sink))
	}

	sess, err := guideway.Open(ctx, s.graph, opts...)
	if err != nil {
		return nil, err
	}
	s.sessions[id] = sess
	return sess, nil
}

// --- Wire types ---

type createResponse struct {
	SessionID string `json:"session_id"`
}

type advanceRequest struct {
	Label string `json:"label"`
}

type stepResponse struct {
	View   summary.View             `json:"view"`
	Record *domain.CompletionRecord `json:"record,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// --- Handlers ---

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	id := uuid.NewString()
	if _, err := s.session(r.Context(), id); err != nil {
		s.fail(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, createResponse{SessionID: id})
}

func (s *Server) handleCurrent(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.Current())
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, http.StatusInternalServerError, err)
		return
	}
	choices := sess.Options()
	if choices == nil {
		choices = []domain.Choice{}
	}
	writeJSON(w, http.StatusOK, choices)
}

func (s *Server) handleAdvance(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, http.StatusInternalServerError, err)
		return
	}

	var body advanceRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.fail(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	record, err := sess.Advance(r.Context(), body.Label)
	if err != nil {
		var invalid *domain.InvalidChoiceError
		if errors.As(err, &invalid) {
			// The one error class that reaches the end user.
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
				Error: "that choice isn't available right now",
			})
			return
		}
		s.fail(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, stepResponse{
		View:   sess.Summary().View,
		Record: record,
	})
}

func (s *Server) handleBack(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, http.StatusInternalServerError, err)
		return
	}
	if err := sess.Back(r.Context()); err != nil {
		s.fail(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, stepResponse{View: sess.Summary().View})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, http.StatusInternalServerError, err)
		return
	}
	if err := sess.Reset(r.Context()); err != nil {
		s.fail(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, stepResponse{View: sess.Summary().View})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.Summary())
}

func (s *Server) handleMermaid(w http.ResponseWriter, r *http.Request) {
	var overlay *mapview.Overlay
	if id := r.URL.Query().Get("session"); id != "" {
		sess, err := s.session(r.Context(), id)
		if err != nil {
			s.fail(w, http.StatusInternalServerError, err)
			return
		}
		state := sess.State()
		overlay = &mapview.Overlay{
			VisitedNodes: state.VisitedIDs(),
			CurrentNode:  state.CurrentID,
		}
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(mapview.GenerateMermaid(s.graph, overlay)))
}

func (s *Server) fail(w http.ResponseWriter, status int, err error) {
	s.logger.Error("request failed", "err", err)
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "err", err)
	}
}
