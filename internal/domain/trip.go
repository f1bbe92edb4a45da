// Package domain contains the core data types for the trip booking API.
// This package has almost no external dependencies and is imported by every
// other internal package (repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Trip is a bookable travel offering.
// Slug is the external identifier used in URLs; ID never leaves the server.
type Trip struct {
	ID          uuid.UUID
	Slug        string
	Title       string
	Description string
	StartDate   time.Time
	EndDate     time.Time
	Location    string
	Price       Money
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SortDirection is the ORDER BY direction for a trip listing.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// TripSortFields lists the columns a listing may be ordered by.
// Anything else is rejected before it gets near SQL.
var TripSortFields = []string{
	"slug", "title", "description", "start_date", "end_date",
	"location", "price", "created_at", "updated_at",
}

// IsTripSortField reports whether field is in TripSortFields.
func IsTripSortField(field string) bool {
	for _, f := range TripSortFields {
		if f == field {
			return true
		}
	}
	return false
}

// TripFilter narrows and orders a trip listing. The zero value lists every
// trip in creation order.
type TripFilter struct {
	// Search is matched as a substring against title, description and location.
	Search string
	// PriceFrom and PriceTo are inclusive bounds; nil means unbounded.
	PriceFrom *Money
	PriceTo   *Money
	// OrderBy must be one of TripSortFields, or empty.
	OrderBy   string
	Direction SortDirection
}

// TripInput is a create or update payload exactly as the client sent it.
// Dates and price stay textual until the service has parsed them, so every
// bad field can be reported in a single response.
type TripInput struct {
	Slug        string
	Title       string
	Description string
	StartDate   string
	EndDate     string
	Location    string
	Price       string
}

// TripQuery holds the raw listing query parameters.
type TripQuery struct {
	Search    string
	PriceFrom string
	PriceTo   string
	OrderBy   string
	Direction string
}
