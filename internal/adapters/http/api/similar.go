package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/simumatch/internal/domain/embedding"
)

// SimilarDependencies defines the interface for the embedding path.
type SimilarDependencies interface {
	Similar(ctx context.Context, name string, topK *int) (embedding.Match, error)
}

// SimilarHandler handles embedding similarity requests.
type SimilarHandler struct {
	deps SimilarDependencies
}

// NewSimilarHandler creates a new similar handler.
func NewSimilarHandler(deps SimilarDependencies) *SimilarHandler {
	return &SimilarHandler{deps: deps}
}

// HandleSimilar handles GET /similar?name=&top_k= requests.
func (h *SimilarHandler) HandleSimilar(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		writeError(w, r, fmt.Errorf("%w: missing name", ErrBadRequest))
		return
	}
	topK, err := queryInt(r, "top_k")
	if err != nil {
		writeError(w, r, err)
		return
	}
	match, err := h.deps.Similar(r.Context(), name, topK)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, match)
}
