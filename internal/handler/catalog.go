package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/roamio/backend/internal/domain"
)

// ListDestinations handles GET /destinations.
func (s *Server) ListDestinations(w http.ResponseWriter, r *http.Request) {
	dests, err := s.catalog.ListDestinations(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal", "internal error")
		return
	}
	respondJSON(w, http.StatusOK, dests)
}

// ListPlaces handles GET /destinations/{destinationID}/places.
func (s *Server) ListPlaces(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "destinationID"))
	if err != nil {
		badRequest(w, "destinationID must be a UUID")
		return
	}

	places, err := s.catalog.ListPlaces(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			notFound(w, "destination not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal", "internal error")
		return
	}
	respondJSON(w, http.StatusOK, places)
}
