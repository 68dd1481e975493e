package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/simumatch/internal/domain/model"
	"github.com/okian/simumatch/pkg/metrics"
)

const sourceMemory = "memory"

type embeddingRows struct {
	labels  []string
	vectors [][]float32
}

// MemoryStore is an in-process Store seeded with DefaultCatalog.
type MemoryStore struct {
	mu         sync.RWMutex
	catalog    []model.EventProfile
	records    map[string][]model.RawActivityRecord
	embeddings map[EmbeddingKind]embeddingRows
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an in-memory store with configuration options.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		catalog:    DefaultCatalog(),
		records:    make(map[string][]model.RawActivityRecord),
		embeddings: make(map[EmbeddingKind]embeddingRows),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// PutRecords replaces the records of one athlete.
func (s *MemoryStore) PutRecords(athleteID string, records []model.RawActivityRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[athleteID] = append([]model.RawActivityRecord(nil), records...)
}

// PutEmbeddings replaces one embedding table.
func (s *MemoryStore) PutEmbeddings(kind EmbeddingKind, labels []string, vectors [][]float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.embeddings[kind] = embeddingRows{labels: labels, vectors: vectors}
}

// LoadRecords returns a copy of the athlete's records.
func (s *MemoryStore) LoadRecords(_ context.Context, athleteID string) ([]model.RawActivityRecord, error) {
	defer observe(sourceMemory, "load_records", time.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()

	records, ok := s.records[athleteID]
	if !ok || len(records) == 0 {
		return nil, fmt.Errorf("athlete %q: %w", athleteID, ErrNotFound)
	}
	return append([]model.RawActivityRecord(nil), records...), nil
}

// LoadCatalog returns a copy of the catalog.
func (s *MemoryStore) LoadCatalog(_ context.Context) ([]model.EventProfile, error) {
	defer observe(sourceMemory, "load_catalog", time.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.EventProfile(nil), s.catalog...), nil
}

// LoadEmbeddings returns the table stored for kind.
func (s *MemoryStore) LoadEmbeddings(_ context.Context, kind EmbeddingKind) ([]string, [][]float32, error) {
	defer observe(sourceMemory, "load_embeddings", time.Now())

	if _, err := ParseEmbeddingKind(string(kind)); err != nil {
		return nil, nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, ok := s.embeddings[kind]
	if !ok {
		return nil, nil, fmt.Errorf("%s embeddings: %w", kind, ErrNotFound)
	}
	vectors := make([][]float32, len(rows.vectors))
	for i, v := range rows.vectors {
		vectors[i] = append([]float32(nil), v...)
	}
	return append([]string(nil), rows.labels...), vectors, nil
}

func observe(source, operation string, start time.Time) {
	metrics.RecordRepositoryQueryLatency(source, operation, float64(time.Since(start).Microseconds())/1000.0)
}
