package learned

import "errors"

// Sentinel kinds for learned scorer errors.
var (
	ErrFeatureSchemaMismatch = errors.New("feature schema mismatch")
	ErrInvalidArtifact       = errors.New("invalid model artifact")
	ErrNoModel               = errors.New("no learned model")
)
