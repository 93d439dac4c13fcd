// Package domain contains the core data types for the Roamio booking backend.
// This package has zero external dependencies beyond uuid and is imported by
// every other internal package (repo, service, auth, handler, draft).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Package represents a sellable multi-day travel itinerary tied to one destination.
// A package is the top-level aggregate; itinerary days and included places belong to it.
type Package struct {
	ID            uuid.UUID      `json:"id"`
	DestinationID uuid.UUID      `json:"destination_id"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	Duration      int            `json:"duration"` // days, always equals len(Itinerary)
	Price         float64        `json:"price"`
	Rating        float64        `json:"rating"` // operator-maintained; carried unchanged on update
	MainImageURL  string         `json:"main_image_url"`
	Places        []uuid.UUID    `json:"places"` // ids of included places, unordered
	Itinerary     []ItineraryDay `json:"itinerary"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}
