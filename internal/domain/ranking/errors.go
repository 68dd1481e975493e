package ranking

import "errors"

// Sentinel kinds for ranking errors.
var (
	ErrInvalidTopK      = errors.New("top_k must be positive")
	ErrAthleteRequired  = errors.New("learned strategy needs athlete attributes")
	ErrModelUnavailable = errors.New("learned strategy has no model loaded")
	ErrUnknownStrategy  = errors.New("unknown ranking strategy")
	ErrDuplicateEvent   = errors.New("duplicate event id in catalog")
)
