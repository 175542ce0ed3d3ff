package api

import (
	"context"
	"net/http"
)

// EmblemDependencies defines the interface for emblem reads.
type EmblemDependencies interface {
	Emblem(ctx context.Context) ([]byte, error)
}

// EmblemHandler serves the cached guild emblem.
type EmblemHandler struct {
	deps EmblemDependencies
}

// NewEmblemHandler creates a new emblem handler.
func NewEmblemHandler(deps EmblemDependencies) *EmblemHandler {
	return &EmblemHandler{deps: deps}
}

// HandleGetEmblem handles GET /emblem.svg requests.
func (h *EmblemHandler) HandleGetEmblem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	svg, err := h.deps.Emblem(r.Context())
	if err != nil {
		writeError(w, http.StatusNotFound, "no_emblem", err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(svg)
}
