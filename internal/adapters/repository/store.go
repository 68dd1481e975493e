// Package repository loads activity records, the event catalog and
// embedding tables from the collaborators around the matcher.
package repository

import (
	"context"
	"fmt"

	"github.com/okian/simumatch/internal/domain/model"
)

// EmbeddingKind names an embedding table.
type EmbeddingKind string

const (
	EmbeddingAthlete EmbeddingKind = "athlete"
	EmbeddingEvent   EmbeddingKind = "event"
)

// ParseEmbeddingKind validates a kind name.
func ParseEmbeddingKind(s string) (EmbeddingKind, error) {
	switch k := EmbeddingKind(s); k {
	case EmbeddingAthlete, EmbeddingEvent:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// RecordLoader returns the normalized daily records of one athlete.
type RecordLoader interface {
	// LoadRecords returns ErrNotFound if the athlete has no records.
	LoadRecords(ctx context.Context, athleteID string) ([]model.RawActivityRecord, error)
}

// CatalogLoader returns the event catalog.
type CatalogLoader interface {
	LoadCatalog(ctx context.Context) ([]model.EventProfile, error)
}

// EmbeddingLoader returns a label-aligned embedding table.
type EmbeddingLoader interface {
	// LoadEmbeddings returns labels and vectors row by row.
	LoadEmbeddings(ctx context.Context, kind EmbeddingKind) ([]string, [][]float32, error)
}

// Store bundles every loader.
type Store interface {
	RecordLoader
	CatalogLoader
	EmbeddingLoader
}
