package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrNotFound       = errors.New("not found")
	ErrUnknownKind    = errors.New("unknown embedding kind")
	ErrInvalidCatalog = errors.New("invalid event catalog")
	ErrUnavailable    = errors.New("repository unavailable")
)
