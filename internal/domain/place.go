package domain

import "github.com/google/uuid"

// Destination is an externally-managed location entity that scopes packages
// and places. The backend only ever reads destinations; they are seeded by
// operators out of band.
type Destination struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Place is a point of interest that can be attached to a package.
// Places are read-only here — they are selected into packages, never mutated.
type Place struct {
	ID            uuid.UUID `json:"id"`
	DestinationID uuid.UUID `json:"destination_id"`
	Name          string    `json:"name"`
	ImageURL      string    `json:"image_url"`
}
