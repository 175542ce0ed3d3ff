// Package api declares the read-only HTTP surface over the persisted
// pipeline outputs and its route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/albrektsson/gw2-guild-leaderboard/internal/adapters/gw2"
	"github.com/albrektsson/gw2-guild-leaderboard/internal/domain/types"
)

// Dependencies required by the HTTP handlers. An interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	Leaderboard(ctx context.Context) (*types.LeaderboardDoc, error)
	GuildInfo(ctx context.Context) (gw2.GuildInfo, error)
	Emblem(ctx context.Context) ([]byte, error)
}

// Server wires HTTP routes for the leaderboard API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	leaderboardHandler *LeaderboardHandler
	guildHandler       *GuildHandler
	emblemHandler      *EmblemHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		leaderboardHandler: NewLeaderboardHandler(deps),
		guildHandler:       NewGuildHandler(deps),
		emblemHandler:      NewEmblemHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("/guild", MetricsMiddleware(s.guildHandler.HandleGetGuild, "guild"))
	mux.HandleFunc("/emblem.svg", MetricsMiddleware(s.emblemHandler.HandleGetEmblem, "emblem"))
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
