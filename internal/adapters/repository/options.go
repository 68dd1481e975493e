package repository

import (
	"time"

	"github.com/okian/simumatch/internal/domain/model"
)

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithCatalog replaces the default catalog.
func WithCatalog(events []model.EventProfile) Option {
	return func(s *MemoryStore) {
		s.catalog = append([]model.EventProfile(nil), events...)
	}
}

// WithRecords seeds the records of one athlete.
func WithRecords(athleteID string, records []model.RawActivityRecord) Option {
	return func(s *MemoryStore) {
		s.records[athleteID] = append([]model.RawActivityRecord(nil), records...)
	}
}

// WithEmbeddings seeds one embedding table.
func WithEmbeddings(kind EmbeddingKind, labels []string, vectors [][]float32) Option {
	return func(s *MemoryStore) {
		s.embeddings[kind] = embeddingRows{labels: labels, vectors: vectors}
	}
}

// PostgresOption applies a configuration option to the PostgresStore.
type PostgresOption func(*postgresConfig)

type postgresConfig struct {
	maxConns        int
	breakerFailures uint32
	breakerTimeout  time.Duration
	breakerName     string
}

// WithMaxConns bounds the connection pool.
func WithMaxConns(n int) PostgresOption {
	return func(c *postgresConfig) {
		if n > 0 {
			c.maxConns = n
		}
	}
}

// WithBreaker sets how many consecutive failures open the circuit and how
// long it stays open before probing again.
func WithBreaker(failures uint32, timeout time.Duration) PostgresOption {
	return func(c *postgresConfig) {
		if failures > 0 {
			c.breakerFailures = failures
		}
		if timeout > 0 {
			c.breakerTimeout = timeout
		}
	}
}

// WithBreakerName sets the breaker name used in logs and metrics.
func WithBreakerName(name string) PostgresOption {
	return func(c *postgresConfig) {
		if name != "" {
			c.breakerName = name
		}
	}
}
