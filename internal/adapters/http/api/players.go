// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
)

// PlayersHandler handles registration, unregistration and listing.
type PlayersHandler struct {
	deps         Dependencies
	maxListLimit int
}

// NewPlayersHandler creates a new players handler.
func NewPlayersHandler(deps Dependencies, maxListLimit int) *PlayersHandler {
	return &PlayersHandler{deps: deps, maxListLimit: maxListLimit}
}

// registerRequest mirrors the POST /players body.
type registerRequest struct {
	Name   string `json:"name"`
	Rating int    `json:"rating"`
}

func (r registerRequest) validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrMissingName
	}
	return nil
}

// HandlePlayers handles POST /players and GET /players.
func (h *PlayersHandler) HandlePlayers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.handleRegister(w, r)
	case http.MethodGet:
		h.handleList(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *PlayersHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	if err := h.deps.Register(r.Context(), req.Name, req.Rating); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PlayersHandler) handleList(w http.ResponseWriter, r *http.Request) {
	limit := h.maxListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
		if n < limit {
			limit = n
		}
	}

	rows, err := h.deps.List(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// HandlePlayerByName handles DELETE /players/{name}.
func (h *PlayersHandler) HandlePlayerByName(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.NotFound(w, r)
		return
	}
	name := strings.TrimPrefix(r.URL.Path, "/players/")
	if name == "" || strings.Contains(name, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	// Unregistering an unknown player is a no-op, so this is idempotent.
	if err := h.deps.Unregister(r.Context(), name); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
