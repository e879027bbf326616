package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/xavierca1/lead-intake/internal/infra/http/middleware"
	"github.com/xavierca1/lead-intake/internal/infra/integration/places"
	"github.com/xavierca1/lead-intake/internal/usecase"
)

// PlacesHandler proxies address lookups so the API key stays server side.
type PlacesHandler struct {
	Places PlacesSearcher
	Logger *zap.Logger
}

func NewPlacesHandler(searcher PlacesSearcher, logger *zap.Logger) *PlacesHandler {
	return &PlacesHandler{Places: searcher, Logger: logger}
}

func (h *PlacesHandler) Autocomplete(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	input := q.Get("input")
	if len(input) < 2 {
		badRequest(w, "input must have at least 2 characters")
		return
	}

	predictions, err := h.Places.Autocomplete(r.Context(), input, q.Get("session_token"))
	if err != nil {
		h.upstreamFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, predictions)
}

func (h *PlacesHandler) Details(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	placeID := q.Get("place_id")
	if placeID == "" {
		badRequest(w, "place_id is required")
		return
	}

	place, err := h.Places.Details(r.Context(), placeID, q.Get("session_token"))
	if errors.Is(err, places.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "place not found", Code: "PLACE_NOT_FOUND"})
		return
	}
	if err != nil {
		h.upstreamFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, place)
}

func (h *PlacesHandler) upstreamFailure(w http.ResponseWriter, err error) {
	middleware.RecordIntegrationError("google_places")
	h.Logger.Error("places lookup failed", zap.Error(err))
	writeJSON(w, http.StatusBadGateway, ErrorResponse{Error: "address lookup unavailable", Code: usecase.CodeUpstream})
}
