package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wricardo/mcp-training/rivercrossing/game/config"
	"github.com/wricardo/mcp-training/rivercrossing/game/engine"
	"github.com/wricardo/mcp-training/rivercrossing/game/search"
	"github.com/wricardo/mcp-training/rivercrossing/game/service"
	"github.com/wricardo/mcp-training/rivercrossing/game/session"
	"github.com/wricardo/mcp-training/rivercrossing/transport/websocket"
)

// Replay playback interval bounds.
const (
	DefaultPlayInterval = 500 * time.Millisecond
	MinPlayInterval     = 10 * time.Millisecond
	MaxPlayInterval     = 10 * time.Second
)

// Option configures a Server.
type Option func(*Server)

// WithMetrics serves the collectors of gatherer on /metrics.
func WithMetrics(gatherer prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = gatherer
	}
}

// Server represents the REST API server
type Server struct {
	service  service.SolverService
	hub      *websocket.Hub
	router   *mux.Router
	gatherer prometheus.Gatherer

	// Running playbacks by session ID
	mu      sync.Mutex
	players map[string]context.CancelFunc
}

// NewServer creates a new API server. hub may be nil, in which case replay
// frames are not broadcast and /ws is unavailable.
func NewServer(solver service.SolverService, hub *websocket.Hub, opts ...Option) *Server {
	s := &Server{
		service: solver,
		hub:     hub,
		router:  mux.NewRouter(),
		players: make(map[string]context.CancelFunc),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	// Solving
	api.HandleFunc("/solve", s.handleSolve).Methods("POST")

	// Configuration
	api.HandleFunc("/configs", s.handleListConfigs).Methods("GET")
	api.HandleFunc("/configs", s.handleCreateConfig).Methods("POST")
	api.HandleFunc("/configs/{name}", s.handleGetConfig).Methods("GET")
	api.HandleFunc("/configs/{name}/compare", s.handleCompare).Methods("GET")

	// Replay sessions
	api.HandleFunc("/sessions", s.handleCreateSession).Methods("POST")
	api.HandleFunc("/sessions", s.handleListSessions).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleGetSession).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleDeleteSession).Methods("DELETE")
	api.HandleFunc("/sessions/{id}/step", s.handleStep).Methods("POST")
	api.HandleFunc("/sessions/{id}/reset", s.handleReset).Methods("POST")
	api.HandleFunc("/sessions/{id}/play", s.handlePlay).Methods("POST")
	api.HandleFunc("/sessions/{id}/pause", s.handlePause).Methods("POST")

	if s.hub != nil {
		s.router.HandleFunc("/ws", s.handleWebSocket)
	}
	if s.gatherer != nil {
		s.router.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close stops every running playback
func (s *Server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, cancel := range s.players {
		cancel()
		delete(s.players, id)
	}
}

// HandleCommand applies a replay command received over the websocket and
// broadcasts the resulting frame.
func (s *Server) HandleCommand(ctx context.Context, sessionID string, cmd websocket.Command) {
	var (
		frame *service.ReplayFrame
		err   error
	)
	switch cmd.Action {
	case websocket.ActionStep:
		s.stopPlayer(sessionID)
		delta := cmd.Delta
		if delta == 0 {
			delta = 1
		}
		frame, err = s.service.Step(ctx, sessionID, delta)
	case websocket.ActionReset:
		s.stopPlayer(sessionID)
		frame, err = s.service.Reset(ctx, sessionID)
	default:
		err = fmt.Errorf("unknown action %q", cmd.Action)
	}

	if err != nil {
		slog.Warn("replay command failed", "session", sessionID, "action", cmd.Action, "error", err)
		if s.hub != nil {
			s.hub.BroadcastEvent(sessionID, websocket.EventError, map[string]string{"error": err.Error()})
		}
		return
	}
	s.broadcast(frame)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]any{"error": message, "code": status})
}

// respondServiceError maps service errors to HTTP status codes
func respondServiceError(w http.ResponseWriter, err error) {
	respondError(w, errorStatus(err), err.Error())
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, config.ErrConfigNotFound):
		return http.StatusNotFound
	case errors.Is(err, search.ErrUnknownStrategy),
		errors.Is(err, search.ErrOptionViolation),
		errors.Is(err, engine.ErrUnknownHeuristic),
		errors.Is(err, engine.ErrInvalidConfig),
		errors.Is(err, config.ErrInvalidConfig):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNoSolution),
		errors.Is(err, search.ErrNotFound),
		errors.Is(err, search.ErrExpansionLimit):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// decodeBody decodes an optional JSON body into v
func decodeBody(r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Solve Handlers

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	var req service.SolveRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sol, err := s.service.Solve(r.Context(), req)
	if err != nil && !errors.Is(err, search.ErrNotFound) {
		respondServiceError(w, err)
		return
	}

	// An exhausted search is a normal answer: found is false
	respondJSON(w, http.StatusOK, sol)
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	configID := configName(r)

	cmp, err := s.service.Compare(r.Context(), configID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, cmp)
}

// Configuration Handlers

func (s *Server) handleListConfigs(w http.ResponseWriter, r *http.Request) {
	configs, err := s.service.ListConfigs(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, configs)
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.service.LoadConfig(r.Context(), configName(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, cfg)
}

func (s *Server) handleCreateConfig(w http.ResponseWriter, r *http.Request) {
	var cfg engine.PuzzleConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if cfg.Name == "" {
		respondError(w, http.StatusBadRequest, "Config name is required")
		return
	}
	if err := engine.ValidatePuzzleConfig(&cfg); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.service.SaveConfig(r.Context(), cfg.Name, &cfg); err != nil {
		respondError(w, errorStatus(err), fmt.Sprintf("Failed to save config: %v", err))
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"message":   "Configuration saved successfully",
		"config_id": cfg.Name,
	})
}

// configName reads the {name} route variable without its file extension
func configName(r *http.Request) string {
	name := mux.Vars(r)["name"]
	for _, ext := range []string{".json", ".yaml", ".yml"} {
		name = strings.TrimSuffix(name, ext)
	}
	return name
}

// Session Handlers

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req service.SolveRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	info, err := s.service.CreateSession(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, info)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.service.ListSessions(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	total := len(sessions)

	query := r.URL.Query()
	sortBy := query.Get("sort") // "created", "accessed" (default)
	order := query.Get("order") // "asc", "desc" (default)
	if sortBy == "" {
		sortBy = "accessed"
	}
	if order == "" {
		order = "desc"
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		var ti, tj time.Time
		if sortBy == "created" {
			ti, tj = sessions[i].CreatedAt, sessions[j].CreatedAt
		} else {
			ti, tj = sessions[i].LastAccessedAt, sessions[j].LastAccessedAt
		}
		if order == "asc" {
			return ti.Before(tj)
		}
		return ti.After(tj)
	})

	if l, err := strconv.Atoi(query.Get("limit")); err == nil && l > 0 && l < len(sessions) {
		sessions = sessions[:l]
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"count":    len(sessions),
		"total":    total,
		"sessions": sessions,
		"sort":     sortBy,
		"order":    order,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	info, err := s.service.GetSession(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, info)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]
	s.stopPlayer(sessionID)

	if err := s.service.DeleteSession(r.Context(), sessionID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Session %s deleted", sessionID),
	})
}

// Replay Handlers

func (s *Server) handleStep(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	req := struct {
		Delta int `json:"delta"`
	}{Delta: 1}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.stopPlayer(sessionID)
	frame, err := s.service.Step(r.Context(), sessionID, req.Delta)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	s.broadcast(frame)

	slog.Info("replay step", "session", sessionID, "delta", req.Delta, "index", frame.Index, "total", frame.Total)
	respondJSON(w, http.StatusOK, frame)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	s.stopPlayer(sessionID)
	frame, err := s.service.Reset(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	s.broadcast(frame)

	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Replay reset successfully",
		"frame":   frame,
	})
}

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		IntervalMS int `json:"interval_ms"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	interval := playInterval(req.IntervalMS)

	info, err := s.service.GetSession(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	remaining := 0
	if info.Frame != nil {
		remaining = info.Frame.Total - info.Frame.Index
	}
	if remaining > 0 {
		s.startPlayer(info.ID, interval)
	}

	respondJSON(w, http.StatusAccepted, map[string]any{
		"session_id":  info.ID,
		"interval_ms": interval.Milliseconds(),
		"remaining":   remaining,
	})
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	info, err := s.service.GetSession(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	stopped := s.stopPlayer(info.ID)
	respondJSON(w, http.StatusOK, map[string]any{
		"session_id": info.ID,
		"stopped":    stopped,
		"frame":      info.Frame,
	})
}

// playInterval clamps a requested interval in milliseconds
func playInterval(ms int) time.Duration {
	if ms <= 0 {
		return DefaultPlayInterval
	}
	d := time.Duration(ms) * time.Millisecond
	return min(max(d, MinPlayInterval), MaxPlayInterval)
}

// startPlayer advances a session one step per interval until the replay is done,
// replacing any playback already running for the session
func (s *Server) startPlayer(sessionID string, interval time.Duration) {
	ctx, cancel := context.WithCancel(context.Background())
	key := playerKey(sessionID)

	s.mu.Lock()
	if prev, ok := s.players[key]; ok {
		prev()
	}
	s.players[key] = cancel
	s.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		defer s.finishPlayer(ctx, sessionID)

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				frame, err := s.service.Step(ctx, sessionID, 1)
				if err != nil {
					slog.Warn("playback stopped", "session", sessionID, "error", err)
					return
				}
				s.broadcast(frame)
				if frame.Done {
					return
				}
			}
		}
	}()
}

// finishPlayer forgets a playback unless it was already replaced
func (s *Server) finishPlayer(ctx context.Context, sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := playerKey(sessionID)
	if cancel, ok := s.players[key]; ok && ctx.Err() == nil {
		cancel()
		delete(s.players, key)
	}
}

// stopPlayer cancels the playback of a session and reports whether one was running
func (s *Server) stopPlayer(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := playerKey(sessionID)
	cancel, ok := s.players[key]
	if ok {
		cancel()
		delete(s.players, key)
	}
	return ok
}

// playing reports whether a playback is running for a session
func (s *Server) playing(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.players[playerKey(sessionID)]
	return ok
}

// playerKey folds case the way session IDs are matched
func playerKey(sessionID string) string {
	return strings.ToLower(sessionID)
}

func (s *Server) broadcast(frame *service.ReplayFrame) {
	if s.hub != nil && frame != nil {
		s.hub.BroadcastFrame(frame)
	}
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "session parameter required", http.StatusBadRequest)
		return
	}

	info, err := s.service.GetSession(r.Context(), sessionID)
	if err != nil {
		http.Error(w, "Invalid session", http.StatusNotFound)
		return
	}

	s.hub.ServeWS(w, r, info.ID)
	s.broadcast(info.Frame)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
