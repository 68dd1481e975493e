// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/okian/simumatch/internal/domain/model"
)

// CatalogProvider lists the event catalog.
type CatalogProvider interface {
	Catalog(ctx context.Context) ([]model.EventProfile, error)
}

// EventsHandler handles catalog requests.
type EventsHandler struct {
	deps CatalogProvider
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(deps CatalogProvider) *EventsHandler {
	return &EventsHandler{deps: deps}
}

type eventsResponse struct {
	Events []model.EventProfile `json:"events"`
}

// HandleListEvents handles GET /events requests.
func (h *EventsHandler) HandleListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.deps.Catalog(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, eventsResponse{Events: events})
}
