package api

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/albrektsson/gw2-guild-leaderboard/internal/domain/types"
)

// LeaderboardDependencies defines the interface for leaderboard reads.
type LeaderboardDependencies interface {
	Leaderboard(ctx context.Context) (*types.LeaderboardDoc, error)
}

// LeaderboardHandler serves the last computed leaderboard document.
type LeaderboardHandler struct {
	deps LeaderboardDependencies
}

// NewLeaderboardHandler creates a new leaderboard handler.
func NewLeaderboardHandler(deps LeaderboardDependencies) *LeaderboardHandler {
	return &LeaderboardHandler{deps: deps}
}

// HandleGetLeaderboard handles GET /leaderboard requests.
func (h *LeaderboardHandler) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	doc, err := h.deps.Leaderboard(r.Context())
	if err != nil {
		// Only a missing snapshot means "not computed yet"; a corrupt or
		// unreadable one is a server-side failure.
		if errors.Is(err, os.ErrNotExist) {
			writeError(w, http.StatusNotFound, "not_computed", ErrNotComputed)
			return
		}
		writeError(w, http.StatusInternalServerError, "leaderboard_unavailable", err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}
