// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/leomash/rankdb/internal/adapters/repository"
	"github.com/leomash/rankdb/internal/domain/types"
)

// PlayerRow mirrors the read shape returned by leaderboard queries.
type PlayerRow = types.PlayerRow

// Dependencies required by the HTTP handlers. The interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	Register(ctx context.Context, name string, rating int) error
	Unregister(ctx context.Context, name string) error
	Rank(ctx context.Context, name string) (PlayerRow, error)
	List(ctx context.Context, limit int) ([]PlayerRow, error)
	Rollback(ctx context.Context, steps int) error
}

// Server wires HTTP routes for the leaderboard API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	playersHandler  *PlayersHandler
	rankHandler     *RankHandler
	rollbackHandler *RollbackHandler
}

// NewServer creates an API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxListLimit int) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		playersHandler:  NewPlayersHandler(deps, maxListLimit),
		rankHandler:     NewRankHandler(deps),
		rollbackHandler: NewRollbackHandler(deps),
	}
}

// Register attaches all routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/players", MetricsMiddleware(s.playersHandler.HandlePlayers, "players"))
	mux.HandleFunc("/players/", MetricsMiddleware(s.playersHandler.HandlePlayerByName, "players"))
	mux.HandleFunc("/rank/", MetricsMiddleware(s.rankHandler.HandleGetRank, "rank"))
	mux.HandleFunc("/rollback", MetricsMiddleware(s.rollbackHandler.HandleRollback, "rollback"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// isNotFound translates upstream not-found errors to 404.
func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
