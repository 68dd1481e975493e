package profile

import "errors"

// Sentinel kinds for profile errors.
var (
	ErrEmptyInput    = errors.New("no activity records to summarize")
	ErrInvalidWindow = errors.New("window must be a positive number of days")
	ErrInvalidEffort = errors.New("effort distance and duration must be positive")
	ErrOutOfRange    = errors.New("activity totals are out of range")
)
