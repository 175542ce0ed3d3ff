package api

import (
	"context"
	"net/http"

	"github.com/albrektsson/gw2-guild-leaderboard/internal/adapters/gw2"
)

// GuildDependencies defines the interface for guild metadata reads.
type GuildDependencies interface {
	GuildInfo(ctx context.Context) (gw2.GuildInfo, error)
}

// GuildHandler serves the stored guild metadata.
type GuildHandler struct {
	deps GuildDependencies
}

// NewGuildHandler creates a new guild handler.
func NewGuildHandler(deps GuildDependencies) *GuildHandler {
	return &GuildHandler{deps: deps}
}

// HandleGetGuild handles GET /guild requests.
func (h *GuildHandler) HandleGetGuild(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	info, err := h.deps.GuildInfo(r.Context())
	if err != nil {
		writeError(w, http.StatusNotFound, "no_guild_info", err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}
