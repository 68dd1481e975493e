package api

import (
	"context"
	"net/http"

	"github.com/okian/simumatch/internal/domain/model"
)

// ProfileDependencies defines the interface for profile summaries.
type ProfileDependencies interface {
	Summarize(ctx context.Context, records []model.RawActivityRecord, windowDays int) (model.FitnessProfile, error)
}

// ProfileHandler handles profile requests.
type ProfileHandler struct {
	deps ProfileDependencies
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(deps ProfileDependencies) *ProfileHandler {
	return &ProfileHandler{deps: deps}
}

// HandleProfile handles POST /profile requests.
func (h *ProfileHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := decode(r, w, &req); err != nil {
		writeError(w, r, err)
		return
	}
	records, err := toRecords(req.Records)
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := h.deps.Summarize(r.Context(), records, req.WindowDays)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, p)
}
