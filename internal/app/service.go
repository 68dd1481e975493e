// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/simumatch/internal/adapters/repository"
	"github.com/okian/simumatch/internal/domain/embedding"
	"github.com/okian/simumatch/internal/domain/learned"
	"github.com/okian/simumatch/internal/domain/model"
	"github.com/okian/simumatch/internal/domain/profile"
	"github.com/okian/simumatch/internal/domain/ranking"
	"github.com/okian/simumatch/internal/domain/scoring"
	"github.com/okian/simumatch/pkg/logger"
	"github.com/okian/simumatch/pkg/metrics"
)

// Service-level sentinel errors.
var (
	ErrNotStarted            = errors.New("service not started")
	ErrEmbeddingsUnavailable = errors.New("embedding matcher not loaded")
)

// AthleteInput carries the static attributes the learned strategy needs.
// AvgRunPace and VDOT are derived from the profile when omitted.
type AthleteInput struct {
	Age        int      `json:"age" validate:"gte=0,lte=120"`
	Gender     string   `json:"gender" validate:"required"`
	NumEvents  int      `json:"num_events" validate:"gte=0"`
	AvgRunPace *float64 `json:"avg_run_pace,omitempty" validate:"omitempty,gt=0"`
	VDOT       *float64 `json:"vdot_est,omitempty" validate:"omitempty,gt=0"`
}

// RecommendInput is one recommendation request. A nil TopK or an empty
// Strategy falls back to the configured defaults; WindowDays 0 likewise.
type RecommendInput struct {
	Records    []model.RawActivityRecord
	WindowDays int
	TopK       *int
	Strategy   model.Strategy
	Athlete    *AthleteInput
}

// Recommendation is the ranked answer with the profile it was computed from.
// RequestID is the caller's request id when the context carries one.
type Recommendation struct {
	RequestID string                     `json:"request_id"`
	Strategy  model.Strategy             `json:"strategy"`
	Profile   model.FitnessProfile       `json:"profile"`
	Scores    []model.CompatibilityScore `json:"scores"`
}

// Service implements the API dependencies for the matcher.
type Service struct {
	mu sync.RWMutex

	// Collaborators
	store   repository.Store
	catalog repository.CatalogLoader

	// Immutable after Start
	orchestrator *ranking.Orchestrator
	matcher      *embedding.Matcher

	// Configuration
	windowDays      int
	defaultTopK     int
	maxTopK         int
	defaultStrategy model.Strategy
	scorerOpts      []scoring.Option
	modelPath       string
	model           learned.Regressor

	// State
	started   bool
	startedAt time.Time

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore sets the record and embedding source. It also serves the
// catalog unless WithCatalogLoader is given.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithCatalogLoader sets a separate catalog source.
func WithCatalogLoader(c repository.CatalogLoader) Option {
	return func(s *Service) {
		if c != nil {
			s.catalog = c
		}
	}
}

// WithWindowDays sets the default profile window.
func WithWindowDays(days int) Option {
	return func(s *Service) {
		if days > 0 {
			s.windowDays = days
		}
	}
}

// WithTopK sets the default and maximum result sizes.
func WithTopK(defaultK, maxK int) Option {
	return func(s *Service) {
		if defaultK > 0 && maxK >= defaultK {
			s.defaultTopK = defaultK
			s.maxTopK = maxK
		}
	}
}

// WithDefaultStrategy sets the strategy used when a request names none.
func WithDefaultStrategy(st model.Strategy) Option {
	return func(s *Service) {
		if st != "" {
			s.defaultStrategy = st
		}
	}
}

// WithScorerOptions tunes the rule scorer.
func WithScorerOptions(opts ...scoring.Option) Option {
	return func(s *Service) {
		s.scorerOpts = append(s.scorerOpts, opts...)
	}
}

// WithModelPath loads a learned model artifact on Start.
func WithModelPath(path string) Option {
	return func(s *Service) {
		s.modelPath = path
	}
}

// WithModel sets an already loaded learned model.
func WithModel(m learned.Regressor) Option {
	return func(s *Service) {
		s.model = m
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		windowDays:      profile.DefaultWindow,
		defaultTopK:     5,
		maxTopK:         50,
		defaultStrategy: model.StrategyRule,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start loads the catalog, the optional model and the optional embedding
// tables, and freezes them into the ranking context.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore()
	}
	if s.catalog == nil {
		s.catalog = s.store
	}

	s.logger.Info(ctx, "starting matcher service...")

	events, err := s.catalog.LoadCatalog(ctx)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	if s.model == nil && s.modelPath != "" {
		m, err := loadModel(s.modelPath)
		if err != nil {
			return err
		}
		s.model = m
	}
	if s.model != nil && !learned.DefaultSchema().Equal(s.model.Schema()) {
		return fmt.Errorf("%w: model schema %q is not the serving schema", learned.ErrFeatureSchemaMismatch, s.model.Schema().Version)
	}

	opts := []ranking.Option{
		ranking.WithCatalog(events),
		ranking.WithScorer(scoring.NewRuleScorer(s.scorerOpts...)),
	}
	if s.model != nil {
		opts = append(opts, ranking.WithModel(s.model))
	}
	rc, err := ranking.NewContext(opts...)
	if err != nil {
		return fmt.Errorf("build ranking context: %w", err)
	}
	s.orchestrator = ranking.NewOrchestrator(rc)

	s.matcher, err = s.loadMatcher(ctx)
	if err != nil {
		return err
	}

	metrics.UpdateCatalogSize(len(events))
	metrics.UpdateModelLoaded(s.model != nil)

	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "matcher service started",
		logger.Int("events", len(events)),
		logger.Bool("learned", s.model != nil),
		logger.Bool("embeddings", s.matcher != nil),
		logger.Int("windowDays", s.windowDays),
	)

	return nil
}

func loadModel(path string) (*learned.LinearModel, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return nil, fmt.Errorf("open model: %w", err)
	}
	defer f.Close()

	m, err := learned.LoadArtifact(f)
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", path, err)
	}
	return m, nil
}

// loadMatcher returns nil without error when either table is absent.
func (s *Service) loadMatcher(ctx context.Context) (*embedding.Matcher, error) {
	tables := make(map[repository.EmbeddingKind]*embedding.Table, 2)
	for _, kind := range []repository.EmbeddingKind{repository.EmbeddingAthlete, repository.EmbeddingEvent} {
		labels, vectors, err := s.store.LoadEmbeddings(ctx, kind)
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Info(ctx, "embedding path disabled", logger.String("missing", string(kind)))
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("load %s embeddings: %w", kind, err)
		}
		t, err := embedding.NewTable(labels, vectors)
		if err != nil {
			return nil, fmt.Errorf("%s embeddings: %w", kind, err)
		}
		t = t.Dedupe(ctx)
		metrics.UpdateEmbeddingRows(string(kind), t.Len())
		tables[kind] = t
	}
	return embedding.NewMatcher(tables[repository.EmbeddingAthlete], tables[repository.EmbeddingEvent])
}

// Stop releases the collaborators.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping matcher service...")

	if closer, ok := s.store.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			s.logger.Warn(context.Background(), "close store", logger.Error(err))
		}
	}

	s.started = false
	s.logger.Info(context.Background(), "matcher service stopped")
}

func (s *Service) ready() (*ranking.Orchestrator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.orchestrator, nil
}

// Summarize computes a fitness profile. A zero window uses the default.
func (s *Service) Summarize(ctx context.Context, records []model.RawActivityRecord, windowDays int) (model.FitnessProfile, error) {
	if windowDays == 0 {
		windowDays = s.windowDays
	}
	p, err := profile.Summarize(records, windowDays)
	if err != nil {
		metrics.RecordErrorByComponent("profile", errorType(err))
		return model.FitnessProfile{}, err
	}
	metrics.RecordProfileSummary(p.RecordCount)
	s.log().Debug(ctx, "profile computed",
		logger.Int("records", p.RecordCount),
		logger.Float64("weeklyKm", p.WeeklyKm),
	)
	return p, nil
}

// Recommend summarizes the records and ranks the catalog against them.
func (s *Service) Recommend(ctx context.Context, in RecommendInput) (Recommendation, error) {
	o, err := s.ready()
	if err != nil {
		return Recommendation{}, err
	}

	p, err := s.Summarize(ctx, in.Records, in.WindowDays)
	if err != nil {
		return Recommendation{}, err
	}

	strategy := in.Strategy
	if strategy == "" {
		strategy = s.defaultStrategy
	}
	req := ranking.Request{Profile: p, TopK: s.ResolveTopK(in.TopK), Strategy: strategy}
	if strategy == model.StrategyLearned && in.Athlete != nil {
		a, err := buildAthlete(p, *in.Athlete)
		if err != nil {
			return Recommendation{}, s.fail(ctx, "ranking", err)
		}
		req.Athlete = &a
	}

	start := time.Now()
	scores, err := o.Recommend(req)
	if err != nil {
		return Recommendation{}, s.fail(ctx, "ranking", err)
	}
	metrics.RecordScoringLatency(string(strategy), float64(time.Since(start).Microseconds())/1000.0)
	metrics.RecordRecommendation(string(strategy))

	requestID, ok := logger.RequestIDFromContext(ctx)
	if !ok {
		requestID = uuid.NewString()
	}
	return Recommendation{
		RequestID: requestID,
		Strategy:  strategy,
		Profile:   p,
		Scores:    scores,
	}, nil
}

// RecommendForAthlete loads the athlete's records before recommending.
func (s *Service) RecommendForAthlete(ctx context.Context, athleteID string, in RecommendInput) (Recommendation, error) {
	if _, err := s.ready(); err != nil {
		return Recommendation{}, err
	}
	records, err := s.store.LoadRecords(ctx, athleteID)
	if err != nil {
		return Recommendation{}, s.fail(ctx, "repository", err)
	}
	in.Records = records
	return s.Recommend(ctx, in)
}

// Similar resolves an athlete name on the embedding path and returns its
// nearest events.
func (s *Service) Similar(ctx context.Context, name string, topK *int) (embedding.Match, error) {
	if _, err := s.ready(); err != nil {
		return embedding.Match{}, err
	}
	s.mu.RLock()
	m := s.matcher
	s.mu.RUnlock()
	if m == nil {
		return embedding.Match{}, ErrEmbeddingsUnavailable
	}

	match, err := m.Similar(name, s.ResolveTopK(topK))
	if errors.Is(err, embedding.ErrNotFound) {
		metrics.RecordAthleteResolution("not_found")
		return embedding.Match{}, err
	}
	if err != nil {
		return embedding.Match{}, s.fail(ctx, "embedding", err)
	}
	metrics.RecordAthleteResolution("found")
	return match, nil
}

// Catalog returns the frozen events in id order.
func (s *Service) Catalog(_ context.Context) ([]model.EventProfile, error) {
	o, err := s.ready()
	if err != nil {
		return nil, err
	}
	return o.Context().Catalog(), nil
}

// ResolveTopK applies the default to a missing value and caps it at the
// maximum. Non-positive values pass through so ranking can reject them.
func (s *Service) ResolveTopK(k *int) int {
	if k == nil {
		return s.defaultTopK
	}
	return min(*k, s.maxTopK)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":         s.started,
		"windowDays":      s.windowDays,
		"defaultTopK":     s.defaultTopK,
		"maxTopK":         s.maxTopK,
		"defaultStrategy": string(s.defaultStrategy),
	}

	if s.started {
		stats["catalogEvents"] = len(s.orchestrator.Context().Catalog())
		stats["learnedModel"] = s.orchestrator.Context().HasModel()
		stats["embeddings"] = s.matcher != nil
		if s.matcher != nil {
			stats["embeddingAthletes"] = s.matcher.Athletes.Len()
			stats["embeddingEvents"] = s.matcher.Events.Len()
		}
		stats["uptimeSeconds"] = int(time.Since(s.startedAt).Seconds())
	}

	return stats
}

func (s *Service) log() logger.Logger {
	if s.logger == nil {
		return logger.Get()
	}
	return s.logger
}

// fail records err against component and returns it unchanged.
func (s *Service) fail(ctx context.Context, component string, err error) error {
	kind := errorType(err)
	if kind == "schema_mismatch" {
		metrics.RecordSchemaMismatch()
	}
	metrics.RecordErrorByComponent(component, kind)
	s.log().Debug(ctx, "request failed", logger.String("component", component), logger.Error(err))
	return err
}

func buildAthlete(p model.FitnessProfile, in AthleteInput) (model.Athlete, error) {
	if in.AvgRunPace != nil {
		pace := *in.AvgRunPace
		p.AvgPaceMinPerKm = &pace
	}
	if in.VDOT == nil {
		return learned.AthleteFromProfile(p, in.Age, in.Gender, in.NumEvents)
	}
	if p.AvgPaceMinPerKm == nil {
		return model.Athlete{}, fmt.Errorf("%w: %s is unknown", learned.ErrFeatureSchemaMismatch, learned.FeatureAvgRunPace)
	}
	return model.Athlete{
		Age:        in.Age,
		Gender:     in.Gender,
		AvgRunPace: *p.AvgPaceMinPerKm,
		VDOT:       *in.VDOT,
		NumEvents:  in.NumEvents,
	}, nil
}

func errorType(err error) string {
	switch {
	case errors.Is(err, profile.ErrEmptyInput):
		return "empty_input"
	case errors.Is(err, profile.ErrInvalidWindow):
		return "invalid_window"
	case errors.Is(err, profile.ErrOutOfRange):
		return "out_of_range"
	case errors.Is(err, ranking.ErrInvalidTopK), errors.Is(err, embedding.ErrInvalidTopK):
		return "invalid_top_k"
	case errors.Is(err, learned.ErrFeatureSchemaMismatch):
		return "schema_mismatch"
	case errors.Is(err, ranking.ErrUnknownStrategy):
		return "unknown_strategy"
	case errors.Is(err, ranking.ErrAthleteRequired):
		return "athlete_required"
	case errors.Is(err, ranking.ErrModelUnavailable):
		return "model_unavailable"
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, embedding.ErrNotFound):
		return "not_found"
	case errors.Is(err, repository.ErrUnavailable):
		return "unavailable"
	case errors.Is(err, embedding.ErrDimensionMismatch):
		return "dimension_mismatch"
	default:
		return "internal"
	}
}
