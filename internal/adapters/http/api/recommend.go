package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	service "github.com/okian/simumatch/internal/app"
	"github.com/okian/simumatch/internal/domain/model"
)

// RecommendDependencies defines the interface for recommendations.
type RecommendDependencies interface {
	Recommend(ctx context.Context, in service.RecommendInput) (service.Recommendation, error)
	RecommendForAthlete(ctx context.Context, athleteID string, in service.RecommendInput) (service.Recommendation, error)
}

// RecommendHandler handles recommendation requests.
type RecommendHandler struct {
	deps RecommendDependencies
}

// NewRecommendHandler creates a new recommend handler.
func NewRecommendHandler(deps RecommendDependencies) *RecommendHandler {
	return &RecommendHandler{deps: deps}
}

// HandleRecommend handles POST /recommend requests.
func (h *RecommendHandler) HandleRecommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := decode(r, w, &req); err != nil {
		writeError(w, r, err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		writeError(w, r, err)
		return
	}
	rec, err := h.deps.Recommend(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, rec)
}

// HandleAthleteRecommendations handles GET /athletes/{athleteID}/recommendations.
// Query parameters: top_k, window_days, strategy, and for the learned
// strategy age, gender and num_events.
func (h *RecommendHandler) HandleAthleteRecommendations(w http.ResponseWriter, r *http.Request) {
	athleteID := strings.TrimSpace(chi.URLParam(r, "athleteID"))
	if athleteID == "" {
		writeError(w, r, fmt.Errorf("%w: missing athlete id", ErrBadRequest))
		return
	}
	in, err := athleteQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rec, err := h.deps.RecommendForAthlete(r.Context(), athleteID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, rec)
}

func athleteQuery(r *http.Request) (service.RecommendInput, error) {
	q := r.URL.Query()
	var in service.RecommendInput
	if raw := q.Get("strategy"); raw != "" {
		st, err := model.ParseStrategy(raw)
		if err != nil {
			return in, fmt.Errorf("%w: %v", ErrBadRequest, err)
		}
		in.Strategy = st
	}

	var err error
	if in.TopK, err = queryInt(r, "top_k"); err != nil {
		return in, err
	}
	window, err := queryInt(r, "window_days")
	if err != nil {
		return in, err
	}
	if window != nil {
		in.WindowDays = *window
	}

	if gender := q.Get("gender"); gender != "" {
		age, err := queryInt(r, "age")
		if err != nil {
			return in, err
		}
		events, err := queryInt(r, "num_events")
		if err != nil {
			return in, err
		}
		a := service.AthleteInput{Gender: gender}
		if age != nil {
			a.Age = *age
		}
		if events != nil {
			a.NumEvents = *events
		}
		if err := validate.Struct(a); err != nil {
			return in, fmt.Errorf("%w: %v", ErrBadRequest, err)
		}
		in.Athlete = &a
	}
	return in, nil
}
