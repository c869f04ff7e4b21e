// Package api provides HTTP handlers for the tutor API.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/SriHarshitha88/Multi-Agent-Tutor/pkg/tutor"
)

// Handler serves the tutoring endpoints.
type Handler struct {
	svc      *tutor.Service
	provider string
	log      *slog.Logger
}

// NewHandler creates a new Handler with common dependencies. provider
// labels the configured model backend in health output.
func NewHandler(svc *tutor.Service, provider string, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{svc: svc, provider: provider, log: log}
}

// RegisterRoutes mounts every endpoint on the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Root)
	r.Get("/health", h.Health)
	r.Post("/ask", h.Ask)
	r.Get("/agents", h.Agents)
	r.Get("/routing", h.Routing)
	r.Route("/sessions/{sessionID}", func(r chi.Router) {
		r.Get("/", h.SessionInfo)
		r.Delete("/", h.ClearSession)
	})
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// Root describes the service.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]any{
		"message":     "Multi-Agent Tutoring System",
		"version":     "1.0.0",
		"description": "An AI tutor that routes questions to specialist agents",
		"endpoints": map[string]string{
			"ask":      "POST /ask",
			"agents":   "GET /agents",
			"routing":  "GET /routing?query=...",
			"sessions": "GET /sessions/{id}",
			"health":   "GET /health",
		},
	})
}

// Health reports readiness along with the registered specialists.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	agents := make([]string, 0, 4)
	for _, cap := range h.svc.ListHandlers() {
		agents = append(agents, cap.Key)
	}
	JSON(w, http.StatusOK, map[string]any{
		"status":   "healthy",
		"agents":   agents,
		"provider": h.provider,
	})
}

// AskRequest is the body of POST /ask.
type AskRequest struct {
	Query     string `json:"query"`
	Context   string `json:"context,omitempty"`
	UserID    string `json:"user_id,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

// Ask answers one student query.
func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	resp, err := h.svc.Process(r.Context(), req.Query, req.Context, req.UserID, req.SessionID)
	if err != nil {
		if errors.Is(err, tutor.ErrEmptyQuery) {
			Error(w, http.StatusBadRequest, "query must not be empty")
			return
		}
		h.log.Error("ask failed", "error", err)
		Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	JSON(w, http.StatusOK, resp)
}

// Agents lists the coordinator and every specialist with their tools.
func (h *Handler) Agents(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]any{
		"agents": h.svc.ListHandlers(),
	})
}

// Routing dry-runs the routing decision for a query without answering it.
func (h *Handler) Routing(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		Error(w, http.StatusBadRequest, "query parameter is required")
		return
	}
	JSON(w, http.StatusOK, h.svc.RoutingInfo(r.Context(), query))
}

// SessionInfo reports turn count and agent usage for one session.
func (h *Handler) SessionInfo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	info := h.svc.SessionInfo(r.Context(), id)
	if !info.Exists {
		Error(w, http.StatusNotFound, "session not found")
		return
	}
	JSON(w, http.StatusOK, info)
}

// ClearSession wipes one session's history.
func (h *Handler) ClearSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	if !h.svc.ClearSession(r.Context(), id) {
		Error(w, http.StatusNotFound, "session not found")
		return
	}
	JSON(w, http.StatusOK, map[string]any{
		"session_id": id,
		"cleared":    true,
	})
}
