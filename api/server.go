package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/wricardo/mancala/game/config"
	"github.com/wricardo/mancala/game/engine"
	"github.com/wricardo/mancala/game/layout"
	"github.com/wricardo/mancala/game/service"
	"github.com/wricardo/mancala/game/session"
	"github.com/wricardo/mancala/transport/websocket"
)

// Server represents the REST API server
type Server struct {
	service service.GameService
	hub     *websocket.Hub
	router  *mux.Router
	handler http.Handler
}

// NewServer creates a new API server. hub may be nil, in which case no
// WebSocket updates are pushed.
func NewServer(gameService service.GameService, hub *websocket.Hub) *Server {
	s := &Server{
		service: gameService,
		hub:     hub,
		router:  mux.NewRouter(),
	}

	s.setupRoutes()
	s.handler = middleware.RequestID(middleware.Recoverer(s.router))
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	// Session management
	api.HandleFunc("/sessions", s.handleCreateSession).Methods("POST")
	api.HandleFunc("/sessions", s.handleListSessions).Methods("GET")
	// Must be registered before the {id} pattern
	api.HandleFunc("/sessions/unified", s.handleUnifiedSessions).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleGetSession).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleDeleteSession).Methods("DELETE")

	// Game operations
	api.HandleFunc("/sessions/{id}/state", s.handleGetGameState).Methods("GET")
	api.HandleFunc("/sessions/{id}/board", s.handleGetBoard).Methods("GET")
	api.HandleFunc("/sessions/{id}/move", s.handleMove).Methods("POST")
	api.HandleFunc("/sessions/{id}/bulk-move", s.handleBulkMove).Methods("POST")
	api.HandleFunc("/sessions/{id}/click", s.handleClick).Methods("POST")
	api.HandleFunc("/sessions/{id}/reset", s.handleReset).Methods("POST")
	api.HandleFunc("/sessions/{id}/history", s.handleGetHistory).Methods("GET")

	// Configuration
	api.HandleFunc("/configs", s.handleListConfigs).Methods("GET")
	api.HandleFunc("/configs", s.handleCreateConfig).Methods("POST")
	api.HandleFunc("/configs/{name}", s.handleGetConfig).Methods("GET")

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps domain errors onto HTTP status codes
func respondServiceError(w http.ResponseWriter, err error) {
	respondError(w, statusFor(err), err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, config.ErrConfigNotFound),
		errors.Is(err, service.ErrConfigUnavailable):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrInvalidMove):
		return http.StatusConflict
	case errors.Is(err, config.ErrInvalidConfig),
		errors.Is(err, engine.ErrInvalidRules),
		errors.Is(err, session.ErrInvalidSessionID):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// broadcast pushes the new state and its events to WebSocket watchers
func (s *Server) broadcast(sessionID string, state *engine.GameState, events []service.GameEvent) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastToSession(sessionID, state)
	if len(events) > 0 {
		s.hub.BroadcastEvent(sessionID, websocket.EventGameEvents, events)
	}
}

// Session Handlers

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ConfigID   string `json:"config_id,omitempty"`
		ConfigName string `json:"config_name,omitempty"` // Deprecated, use config_id
	}

	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	configID := req.ConfigID
	if configID == "" {
		configID = req.ConfigName
	}

	info, err := s.service.CreateSession(r.Context(), configID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	log.Info().Str("session", info.ID).Str("config", info.ConfigName).Msg("session created")
	respondJSON(w, http.StatusCreated, info)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.service.ListSessions(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	query := r.URL.Query()
	sortBy := query.Get("sort") // "created" or "accessed"
	if sortBy != "created" {
		sortBy = "accessed"
	}
	order := query.Get("order")
	if order != "asc" {
		order = "desc"
	}

	sort.Slice(sessions, func(i, j int) bool {
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

	total := len(sessions)
	if l, err := strconv.Atoi(query.Get("limit")); err == nil && l > 0 && l < total {
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
	info, err := s.service.GetSession(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, info)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	if err := s.service.DeleteSession(r.Context(), sessionID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Session %s deleted", sessionID),
	})
}

// Game Operation Handlers

func (s *Server) handleGetGameState(w http.ResponseWriter, r *http.Request) {
	state, err := s.service.GetGameState(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, state)
}

func (s *Server) handleGetBoard(w http.ResponseWriter, r *http.Request) {
	state, err := s.service.GetGameState(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, layout.Render(layout.StateView(state)))
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		Pit   *int `json:"pit"`
		Reset bool `json:"reset,omitempty"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Pit == nil {
		respondError(w, http.StatusBadRequest, "pit is required")
		return
	}

	result, err := s.service.Move(r.Context(), sessionID, *req.Pit, req.Reset)
	if err != nil {
		log.Info().Str("session", sessionID).Int("pit", *req.Pit).Err(err).Msg("move rejected")
		respondServiceError(w, err)
		return
	}

	s.broadcast(sessionID, result.GameState, result.Events)
	logMove(sessionID, result)

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		X int `json:"x"`
		Y int `json:"y"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.service.Click(r.Context(), sessionID, req.X, req.Y)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if result.Success {
		s.broadcast(sessionID, result.GameState, result.Events)
	}
	logMove(sessionID, result)

	respondJSON(w, http.StatusOK, result)
}

// logMove writes one compact line per sowing
func logMove(sessionID string, result *service.MoveResult) {
	if result.Step == nil {
		log.Debug().Str("session", sessionID).Bool("no_op", result.NoOp).Msg(result.Message)
		return
	}

	step := result.Step
	log.Info().
		Str("session", sessionID).
		Str("player", string(step.Player)).
		Int("pit", step.Pit).
		Int("sown", step.Sown).
		Int("last", step.LastIndex).
		Bool("extra_turn", step.ExtraTurn).
		Int("captured", step.Captured).
		Int("store", step.StoreAfter).
		Bool("game_over", step.GameOver).
		Msg("move")
}

func (s *Server) handleBulkMove(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		Pits  []int `json:"pits"`
		Reset bool  `json:"reset,omitempty"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Pits) == 0 {
		respondError(w, http.StatusBadRequest, "pits must not be empty")
		return
	}

	result, err := s.service.BulkMove(r.Context(), sessionID, req.Pits, req.Reset)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcast(sessionID, result.GameState, result.Events)

	log.Info().
		Str("session", sessionID).
		Int("executed", result.MovesExecuted).
		Int("requested", result.RequestedMoves).
		Str("stop", result.StopReasonCode).
		Int("store_a", result.EndBoard[engine.StoreA]).
		Int("store_b", result.EndBoard[engine.StoreB]).
		Msg("bulk move")

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	state, err := s.service.Reset(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcast(sessionID, state, nil)

	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Game reset successfully",
		"state":   state,
	})
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	opts := service.HistoryOptions{
		Page:  1,
		Limit: 20,
		Order: "desc",
	}

	query := r.URL.Query()
	if p, err := strconv.Atoi(query.Get("page")); err == nil && p > 0 {
		opts.Page = p
	}
	if l, err := strconv.Atoi(query.Get("limit")); err == nil && l > 0 {
		opts.Limit = l
	}
	if order := query.Get("order"); order == "asc" || order == "desc" {
		opts.Order = order
	}

	history, err := s.service.GetMoveHistory(r.Context(), sessionID, opts)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, history)
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
	name := strings.TrimSuffix(mux.Vars(r)["name"], ".json")

	rules, err := s.service.LoadConfig(r.Context(), name)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, rules)
}

func (s *Server) handleCreateConfig(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ConfigID string `json:"config_id"`
		engine.Rules
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ConfigID == "" {
		respondError(w, http.StatusBadRequest, "config_id is required")
		return
	}

	if err := s.service.SaveConfig(r.Context(), req.ConfigID, &req.Rules); err != nil {
		respondError(w, statusFor(err), fmt.Sprintf("Failed to save config: %v", err))
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"message":   "Configuration saved successfully",
		"config_id": req.ConfigID,
	})
}

// handleUnifiedSessions returns several sessions at once, filtered by id list
// or by rule set
func (s *Server) handleUnifiedSessions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var sessions []*service.SessionInfo
	if ids := query.Get("sessionIds"); ids != "" {
		for _, id := range strings.Split(ids, ",") {
			id = strings.TrimSpace(id)
			if id == "" {
				continue
			}
			if info, err := s.service.GetSession(r.Context(), id); err == nil {
				sessions = append(sessions, info)
			}
		}
	} else {
		all, err := s.service.ListSessions(r.Context())
		if err != nil {
			respondServiceError(w, err)
			return
		}
		configName := query.Get("configName")
		for _, info := range all {
			if configName == "" || info.ConfigName == configName {
				sessions = append(sessions, info)
			}
		}
	}

	entries := make([]map[string]any, 0, len(sessions))
	for _, info := range sessions {
		entries = append(entries, map[string]any{
			"session_id":    info.ID,
			"config_name":   info.ConfigName,
			"game_state":    info.GameState,
			"board":         layout.Render(layout.StateView(info.GameState)),
			"created_at":    info.CreatedAt,
			"last_accessed": info.LastAccessedAt,
		})
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"count":    len(entries),
		"sessions": entries,
	})
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "session parameter required", http.StatusBadRequest)
		return
	}
	if s.hub == nil {
		http.Error(w, "websocket updates disabled", http.StatusServiceUnavailable)
		return
	}

	if _, err := s.service.GetSession(r.Context(), sessionID); err != nil {
		http.Error(w, "Invalid session", http.StatusNotFound)
		return
	}

	s.hub.ServeWS(w, r, sessionID)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
