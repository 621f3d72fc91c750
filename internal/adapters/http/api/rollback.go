// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/leomash/rankdb/internal/adapters/repository"
)

// RollbackHandler handles rollback requests.
type RollbackHandler struct {
	deps Dependencies
}

// NewRollbackHandler creates a new rollback handler.
func NewRollbackHandler(deps Dependencies) *RollbackHandler {
	return &RollbackHandler{deps: deps}
}

// rollbackRequest mirrors the POST /rollback body.
type rollbackRequest struct {
	Steps int `json:"steps"`
}

// HandleRollback handles POST /rollback requests.
func (h *RollbackHandler) HandleRollback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req rollbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	if err := h.deps.Rollback(r.Context(), req.Steps); err != nil {
		if errors.Is(err, repository.ErrNegativeSteps) {
			writeError(w, http.StatusBadRequest, "bad_request", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
