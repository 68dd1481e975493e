package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver
	"github.com/pgvector/pgvector-go"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/okian/simumatch/internal/domain/model"
	"github.com/okian/simumatch/pkg/logger"
	"github.com/okian/simumatch/pkg/metrics"
)

const (
	sourcePostgres = "postgres"

	defaultMaxConns        = 10
	defaultBreakerFailures = 5
	defaultBreakerTimeout  = 30 * time.Second
	breakerHalfOpenProbes  = 1
)

const (
	queryActivities = `SELECT start_date, distance_m, average_speed_mps
		FROM activities WHERE athlete_id = $1`
	queryReadiness = `SELECT day, score FROM readiness WHERE athlete_id = $1`
	querySleep     = `SELECT day, duration_s FROM sleep_sessions WHERE athlete_id = $1`
	queryMood      = `SELECT day, score FROM mood WHERE athlete_id = $1`
	queryCatalog   = `SELECT event_id, name, distance_km, target_pace_min_per_km, elevation_gain_m,
		endurance_weight, speed_weight, expected_weekly_km, category, description
		FROM events ORDER BY event_id`
	queryAthleteEmbeddings = `SELECT label, embedding FROM athlete_embeddings ORDER BY id`
	queryEventEmbeddings   = `SELECT label, embedding FROM event_embeddings ORDER BY id`
)

// eventRow mirrors the events table.
type eventRow struct {
	EventID            string          `db:"event_id"`
	Name               string          `db:"name"`
	DistanceKm         float64         `db:"distance_km"`
	TargetPaceMinPerKm sql.NullFloat64 `db:"target_pace_min_per_km"`
	ElevationGainM     sql.NullFloat64 `db:"elevation_gain_m"`
	EnduranceWeight    float64         `db:"endurance_weight"`
	SpeedWeight        float64         `db:"speed_weight"`
	ExpectedWeeklyKm   float64         `db:"expected_weekly_km"`
	Category           sql.NullString  `db:"category"`
	Description        sql.NullString  `db:"description"`
}

func (r eventRow) toModel() model.EventProfile {
	e := model.EventProfile{
		EventID:          r.EventID,
		Name:             r.Name,
		DistanceKm:       r.DistanceKm,
		ElevationGainM:   r.ElevationGainM.Float64,
		EnduranceWeight:  r.EnduranceWeight,
		SpeedWeight:      r.SpeedWeight,
		ExpectedWeeklyKm: r.ExpectedWeeklyKm,
		Category:         r.Category.String,
		Description:      r.Description.String,
	}
	if v, ok := finite(r.TargetPaceMinPerKm); ok {
		e.TargetPaceMinPerKm = model.Float(v)
	}
	return e
}

// embeddingRow mirrors both embedding tables.
type embeddingRow struct {
	Label     string          `db:"label"`
	Embedding pgvector.Vector `db:"embedding"`
}

// PostgresStore is a Store backed by PostgreSQL with the pgvector extension.
// Every query runs through a circuit breaker so an unhealthy database fails
// fast instead of stacking up request timeouts.
type PostgresStore struct {
	db  *sqlx.DB
	cb  *gobreaker.CircuitBreaker[any]
	log logger.Logger
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore connects to dsn and verifies the connection.
func NewPostgresStore(ctx context.Context, dsn string, opts ...PostgresOption) (*PostgresStore, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: connect: %w", ErrUnavailable, err)
	}
	return NewPostgresStoreFromDB(db, opts...), nil
}

// NewPostgresStoreFromDB wraps an existing handle.
func NewPostgresStoreFromDB(db *sqlx.DB, opts ...PostgresOption) *PostgresStore {
	cfg := postgresConfig{
		maxConns:        defaultMaxConns,
		breakerFailures: defaultBreakerFailures,
		breakerTimeout:  defaultBreakerTimeout,
		breakerName:     sourcePostgres,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	db.SetMaxOpenConns(cfg.maxConns)
	db.SetMaxIdleConns(max(1, cfg.maxConns/2))
	db.SetConnMaxLifetime(5 * time.Minute)

	log := logger.Named("postgres")
	metrics.UpdateBreakerState(cfg.breakerName, breakerStateValue(gobreaker.StateClosed))

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        cfg.breakerName,
		MaxRequests: breakerHalfOpenProbes,
		Timeout:     cfg.breakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.breakerFailures
		},
		IsSuccessful: func(err error) bool {
			// A missing athlete is an answer, not a database failure.
			return err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn(context.Background(), "circuit breaker state change",
				logger.String("breaker", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()))
			metrics.UpdateBreakerState(name, breakerStateValue(to))
		},
	})

	return &PostgresStore{db: db, cb: cb, log: log}
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// Ping checks the database through the breaker.
func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := execute(s, "ping", func() (struct{}, error) {
		return struct{}{}, s.db.PingContext(ctx)
	})
	return err
}

// LoadRecords reads every source table of one athlete and normalizes them
// into daily records.
func (s *PostgresStore) LoadRecords(ctx context.Context, athleteID string) ([]model.RawActivityRecord, error) {
	return execute(s, "load_records", func() ([]model.RawActivityRecord, error) {
		var src Sources
		if err := s.db.SelectContext(ctx, &src.Activities, queryActivities, athleteID); err != nil {
			return nil, fmt.Errorf("activities: %w", err)
		}
		if err := s.db.SelectContext(ctx, &src.Readiness, queryReadiness, athleteID); err != nil {
			return nil, fmt.Errorf("readiness: %w", err)
		}
		if err := s.db.SelectContext(ctx, &src.Sleep, querySleep, athleteID); err != nil {
			return nil, fmt.Errorf("sleep: %w", err)
		}
		if err := s.db.SelectContext(ctx, &src.Mood, queryMood, athleteID); err != nil {
			return nil, fmt.Errorf("mood: %w", err)
		}

		records := NormalizeDaily(src)
		if len(records) == 0 {
			return nil, fmt.Errorf("athlete %q: %w", athleteID, ErrNotFound)
		}
		return records, nil
	})
}

// LoadCatalog reads and validates the events table.
func (s *PostgresStore) LoadCatalog(ctx context.Context) ([]model.EventProfile, error) {
	return execute(s, "load_catalog", func() ([]model.EventProfile, error) {
		var rows []eventRow
		if err := s.db.SelectContext(ctx, &rows, queryCatalog); err != nil {
			return nil, fmt.Errorf("events: %w", err)
		}
		events := make([]model.EventProfile, 0, len(rows))
		for _, r := range rows {
			e := r.toModel()
			if err := e.Validate(); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
			}
			events = append(events, e)
		}
		return events, nil
	})
}

// LoadEmbeddings reads one embedding table in id order.
func (s *PostgresStore) LoadEmbeddings(ctx context.Context, kind EmbeddingKind) ([]string, [][]float32, error) {
	query := queryEventEmbeddings
	switch kind {
	case EmbeddingAthlete:
		query = queryAthleteEmbeddings
	case EmbeddingEvent:
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	rows, err := execute(s, "load_embeddings", func() ([]embeddingRow, error) {
		var rows []embeddingRow
		if err := s.db.SelectContext(ctx, &rows, query); err != nil {
			return nil, fmt.Errorf("%s embeddings: %w", kind, err)
		}
		return rows, nil
	})
	if err != nil {
		return nil, nil, err
	}

	labels := make([]string, len(rows))
	vectors := make([][]float32, len(rows))
	for i, r := range rows {
		labels[i] = r.Label
		vectors[i] = r.Embedding.Slice()
	}
	return labels, vectors, nil
}

// execute runs fn through the breaker and records its latency. An open
// breaker surfaces as ErrUnavailable.
func execute[T any](s *PostgresStore, operation string, fn func() (T, error)) (T, error) {
	defer observe(sourcePostgres, operation, time.Now())

	var zero T
	out, err := s.cb.Execute(func() (any, error) {
		return fn()
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.RecordErrorByComponent(sourcePostgres, "breaker_open")
			return zero, fmt.Errorf("%w: %s: %w", ErrUnavailable, operation, err)
		}
		if !errors.Is(err, ErrNotFound) {
			metrics.RecordErrorByComponent(sourcePostgres, operation)
		}
		return zero, err
	}
	v, _ := out.(T)
	return v, nil
}

func breakerStateValue(st gobreaker.State) float64 {
	switch st {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
