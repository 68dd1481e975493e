package embedding

import "errors"

// Sentinel kinds for embedding errors.
var (
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
	ErrMisaligned        = errors.New("labels and vectors are not aligned")
	ErrNotFound          = errors.New("no matching label")
	ErrInvalidTopK       = errors.New("top_k must be positive")
)
