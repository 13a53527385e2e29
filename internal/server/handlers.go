package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

// resolveRequest is the POST /api/v1/resolve body.
type resolveRequest struct {
	Ticket string `json:"ticket"`
}

// errorResponse is the uniform error envelope.
type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"version":   s.deps.Version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.deps.Version})
}

// handleResolve runs the full pipeline on a ticket body. The response is
// always 200 with the structured result; per-hostname failures live in the
// result's error section, matching CLI behavior.
func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	if s.deps.Pipeline == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "resolution pipeline is not configured"})
		return
	}

	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Ticket) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "ticket text is required"})
		return
	}

	result := s.deps.Pipeline.Run(r.Context(), req.Ticket)
	writeJSON(w, http.StatusOK, result)
}

// handleHostname resolves a single hostname to its support group.
func (s *Server) handleHostname(w http.ResponseWriter, r *http.Request) {
	if s.deps.Groups == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "group resolver is not configured"})
		return
	}

	hostname := chi.URLParam(r, "hostname")
	lookup, err := s.deps.Groups.Resolve(r.Context(), hostname)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	status := http.StatusOK
	if !lookup.Found {
		status = http.StatusNotFound
	}
	writeJSON(w, status, lookup)
}

// handleGroupContacts resolves a support group to its contact bundle.
func (s *Server) handleGroupContacts(w http.ResponseWriter, r *http.Request) {
	if s.deps.Contacts == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "contact resolver is not configured"})
		return
	}

	group := chi.URLParam(r, "group")
	bundle, err := s.deps.Contacts.Resolve(r.Context(), group)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	status := http.StatusOK
	if !bundle.Found {
		status = http.StatusNotFound
	}
	writeJSON(w, status, bundle)
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// nolint:errcheck // response already committed
	_ = json.NewEncoder(w).Encode(value)
}
