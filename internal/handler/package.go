package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/roamio/backend/internal/domain"
)

// packageRequest is the JSON body accepted by CreatePackage and UpdatePackage.
// There is intentionally no rating field: ratings are carried server-side.
type packageRequest struct {
	DestinationID uuid.UUID             `json:"destination_id"`
	Title         string                `json:"title"`
	Description   string                `json:"description"`
	Duration      int                   `json:"duration"`
	Price         float64               `json:"price"`
	MainImageURL  string                `json:"main_image_url"`
	Places        []uuid.UUID           `json:"places"`
	Itinerary     []domain.ItineraryDay `json:"itinerary"`
}

// pagination echoes the applied paging values alongside list responses.
type pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// packageListResponse is the body of GET /packages.
type packageListResponse struct {
	Data       []domain.Package `json:"data"`
	Pagination pagination       `json:"pagination"`
}

// CreatePackage handles POST /packages. Admin only.
func (s *Server) CreatePackage(w http.ResponseWriter, r *http.Request) {
	pkg, ok := decodePackage(w, r)
	if !ok {
		return
	}

	created, err := s.packages.Create(r.Context(), pkg)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			validationError(w, err)
			return
		}
		respondError(w, http.StatusInternalServerError, "internal", "internal error")
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// ListPackages handles GET /packages.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListPackages(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	params := domain.NewPaginationParams(page, limit)

	pkgs, total, err := s.packages.ListPaged(r.Context(), params)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal", "internal error")
		return
	}

	respondJSON(w, http.StatusOK, packageListResponse{
		Data:       pkgs,
		Pagination: pagination{Page: params.Page, Limit: params.Limit, Total: total},
	})
}

// GetPackage handles GET /packages/{packageID}.
func (s *Server) GetPackage(w http.ResponseWriter, r *http.Request) {
	id, ok := packageID(w, r)
	if !ok {
		return
	}

	pkg, err := s.packages.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			notFound(w, "package not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal", "internal error")
		return
	}
	respondJSON(w, http.StatusOK, pkg)
}

// UpdatePackage handles PUT /packages/{packageID}. Admin only.
func (s *Server) UpdatePackage(w http.ResponseWriter, r *http.Request) {
	id, ok := packageID(w, r)
	if !ok {
		return
	}
	pkg, ok := decodePackage(w, r)
	if !ok {
		return
	}
	pkg.ID = id

	updated, err := s.packages.Update(r.Context(), pkg)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			notFound(w, "package not found")
		case errors.Is(err, domain.ErrValidation):
			validationError(w, err)
		default:
			respondError(w, http.StatusInternalServerError, "internal", "internal error")
		}
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// DeletePackage handles DELETE /packages/{packageID}. Admin only.
func (s *Server) DeletePackage(w http.ResponseWriter, r *http.Request) {
	id, ok := packageID(w, r)
	if !ok {
		return
	}

	if err := s.packages.Delete(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			notFound(w, "package not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal", "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- request helpers -------------------------------------------------------

// packageID parses the {packageID} URL parameter, writing a 422 on failure.
func packageID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "packageID"))
	if err != nil {
		badRequest(w, "packageID must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

// decodePackage parses the request body into a domain.Package, writing a 422
// on malformed JSON.
func decodePackage(w http.ResponseWriter, r *http.Request) (domain.Package, bool) {
	var req packageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "request body must be valid JSON")
		return domain.Package{}, false
	}

	return domain.Package{
		DestinationID: req.DestinationID,
		Title:         req.Title,
		Description:   req.Description,
		Duration:      req.Duration,
		Price:         req.Price,
		MainImageURL:  req.MainImageURL,
		Places:        req.Places,
		Itinerary:     req.Itinerary,
	}, true
}
