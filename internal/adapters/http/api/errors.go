package api

import (
	"errors"
	"net/http"

	"github.com/okian/simumatch/internal/adapters/repository"
	service "github.com/okian/simumatch/internal/app"
	"github.com/okian/simumatch/internal/domain/embedding"
	"github.com/okian/simumatch/internal/domain/learned"
	"github.com/okian/simumatch/internal/domain/profile"
	"github.com/okian/simumatch/internal/domain/ranking"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
)

// classify maps a domain error to a status code and a stable error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, profile.ErrEmptyInput),
		errors.Is(err, profile.ErrInvalidWindow),
		errors.Is(err, profile.ErrOutOfRange),
		errors.Is(err, ranking.ErrInvalidTopK),
		errors.Is(err, embedding.ErrInvalidTopK),
		errors.Is(err, ranking.ErrUnknownStrategy),
		errors.Is(err, ranking.ErrAthleteRequired):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, embedding.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, learned.ErrFeatureSchemaMismatch):
		return http.StatusUnprocessableEntity, "schema_mismatch"
	case errors.Is(err, ranking.ErrModelUnavailable),
		errors.Is(err, service.ErrEmbeddingsUnavailable),
		errors.Is(err, service.ErrNotStarted),
		errors.Is(err, repository.ErrUnavailable):
		return http.StatusServiceUnavailable, "unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
