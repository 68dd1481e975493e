// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	service "github.com/okian/simumatch/internal/app"
	"github.com/okian/simumatch/internal/domain/embedding"
	"github.com/okian/simumatch/internal/domain/model"
	"github.com/okian/simumatch/pkg/logger"
	"github.com/okian/simumatch/pkg/metrics"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	StatsProvider

	Summarize(ctx context.Context, records []model.RawActivityRecord, windowDays int) (model.FitnessProfile, error)
	Recommend(ctx context.Context, in service.RecommendInput) (service.Recommendation, error)
	RecommendForAthlete(ctx context.Context, athleteID string, in service.RecommendInput) (service.Recommendation, error)
	Similar(ctx context.Context, name string, topK *int) (embedding.Match, error)
	Catalog(ctx context.Context) ([]model.EventProfile, error)
}

// Server wires HTTP routes for the matcher API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	recommendHandler *RecommendHandler
	profileHandler   *ProfileHandler
	similarHandler   *SimilarHandler
	eventsHandler    *EventsHandler

	requestTimeout time.Duration
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithRequestTimeout bounds the handling time of every request.
func WithRequestTimeout(d time.Duration) ServerOption {
	return func(s *Server) {
		if d > 0 {
			s.requestTimeout = d
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...ServerOption) *Server {
	s := &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(deps),
		recommendHandler: NewRecommendHandler(deps),
		profileHandler:   NewProfileHandler(deps),
		similarHandler:   NewSimilarHandler(deps),
		eventsHandler:    NewEventsHandler(deps),
		requestTimeout:   5 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes returns the chi router serving every endpoint.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		r.Use(chimiddleware.Timeout(s.requestTimeout))

		r.Get("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
		r.Get("/events", MetricsMiddleware(s.eventsHandler.HandleListEvents, "events"))
		r.Get("/similar", MetricsMiddleware(s.similarHandler.HandleSimilar, "similar"))
		r.Post("/profile", MetricsMiddleware(s.profileHandler.HandleProfile, "profile"))
		r.Post("/recommend", MetricsMiddleware(s.recommendHandler.HandleRecommend, "recommend"))
		r.Get("/athletes/{athleteID}/recommendations",
			MetricsMiddleware(s.recommendHandler.HandleAthleteRecommendations, "athlete_recommendations"))
	})

	return r
}

type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// writeJSON encodes v before committing status; an encode failure is sent as a 500.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		logger.Get().Error(r.Context(), "encode response",
			logger.String("path", r.URL.Path),
			logger.Error(err),
		)
		status = http.StatusInternalServerError
		body, _ = json.Marshal(errorResponse{
			Code:      "internal_error",
			Message:   http.StatusText(status),
			RequestID: chimiddleware.GetReqID(r.Context()),
		})
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	msg := http.StatusText(status)
	if err != nil && status < http.StatusInternalServerError {
		msg = err.Error()
	}
	if status >= http.StatusInternalServerError {
		logger.Get().Error(r.Context(), "request failed",
			logger.String("path", r.URL.Path),
			logger.Error(err),
		)
	}
	writeJSON(w, r, status, errorResponse{Code: code, Message: msg, RequestID: chimiddleware.GetReqID(r.Context())})
}
