package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/tripbook/backend/internal/domain"
	"github.com/pkordes/tripbook/backend/internal/middleware"
)

// TripRequest is the body of POST /trips and PUT/PATCH /trips/{slug}.
type TripRequest struct {
	Slug        flexString `json:"slug"`
	Title       flexString `json:"title"`
	Description flexString `json:"description"`
	StartDate   flexString `json:"start_date"`
	EndDate     flexString `json:"end_date"`
	Location    flexString `json:"location"`
	Price       flexString `json:"price"`
}

// Trip is the JSON representation of a trip.
type Trip struct {
	Slug        string             `json:"slug"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	StartDate   openapi_types.Date `json:"start_date"`
	EndDate     openapi_types.Date `json:"end_date"`
	Location    string             `json:"location"`
	Price       domain.Money       `json:"price"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// BookingRequest is the body of POST /trips/{slug}/bookings.
type BookingRequest struct {
	Quantity flexString `json:"quantity"`
}

// Booking is the JSON representation of a booking.
type Booking struct {
	ID         uuid.UUID    `json:"id"`
	TripID     uuid.UUID    `json:"trip_id"`
	UserID     uuid.UUID    `json:"user_id"`
	Quantity   int          `json:"quantity"`
	TotalPrice domain.Money `json:"total_price"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// DataResponse wraps a single resource or a list under "data".
type DataResponse[T any] struct {
	Data T `json:"data"`
}

// MessageResponse is returned by DELETE /trips/{slug}.
type MessageResponse struct {
	Message string `json:"message"`
}

// ListTrips handles GET /trips.
// Supports ?search=, ?price_from=, ?price_to=, ?order_by= and ?direction=.
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	trips, err := s.trips.List(r.Context(), domain.TripQuery{
		Search:    q.Get("search"),
		PriceFrom: q.Get("price_from"),
		PriceTo:   q.Get("price_to"),
		OrderBy:   q.Get("order_by"),
		Direction: q.Get("direction"),
	})
	if err != nil {
		s.writeError(w, r, err, "trip not found")
		return
	}

	data := make([]Trip, len(trips))
	for i, t := range trips {
		data[i] = tripToResponse(t)
	}
	writeJSON(w, http.StatusOK, DataResponse[[]Trip]{Data: data})
}

// CreateTrip handles POST /trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var body TripRequest
	if !decodeBody(w, r, &body) {
		return
	}

	created, err := s.trips.Create(r.Context(), body.toInput())
	if err != nil {
		s.writeError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusCreated, DataResponse[Trip]{Data: tripToResponse(created)})
}

// GetTrip handles GET /trips/{slug}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	trip, err := s.trips.Get(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		s.writeError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusOK, DataResponse[Trip]{Data: tripToResponse(trip)})
}

// UpdateTrip handles PUT and PATCH /trips/{slug}. Both replace the whole trip.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	var body TripRequest
	if !decodeBody(w, r, &body) {
		return
	}

	updated, err := s.trips.Update(r.Context(), chi.URLParam(r, "slug"), body.toInput())
	if err != nil {
		s.writeError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusOK, DataResponse[Trip]{Data: tripToResponse(updated)})
}

// DeleteTrip handles DELETE /trips/{slug}.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	if err := s.trips.Delete(r.Context(), chi.URLParam(r, "slug")); err != nil {
		s.writeError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Trip deleted successfully"})
}

// BookTrip handles POST /trips/{slug}/bookings. The booking is owned by the
// caller the authenticator put into the request context.
func (s *Server) BookTrip(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized", "authentication required"))
		return
	}

	var body BookingRequest
	if !decodeBody(w, r, &body) {
		return
	}

	booking, err := s.trips.Book(r.Context(), chi.URLParam(r, "slug"), caller, domain.BookingInput{
		Quantity: string(body.Quantity),
	})
	if err != nil {
		s.writeError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusCreated, DataResponse[Booking]{Data: bookingToResponse(booking)})
}

// --- mapping helpers --------------------------------------------------------

func (b TripRequest) toInput() domain.TripInput {
	return domain.TripInput{
		Slug:        string(b.Slug),
		Title:       string(b.Title),
		Description: string(b.Description),
		StartDate:   string(b.StartDate),
		EndDate:     string(b.EndDate),
		Location:    string(b.Location),
		Price:       string(b.Price),
	}
}

func tripToResponse(t domain.Trip) Trip {
	return Trip{
		Slug:        t.Slug,
		Title:       t.Title,
		Description: t.Description,
		StartDate:   openapi_types.Date{Time: t.StartDate},
		EndDate:     openapi_types.Date{Time: t.EndDate},
		Location:    t.Location,
		Price:       t.Price,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func bookingToResponse(b domain.Booking) Booking {
	return Booking{
		ID:         b.ID,
		TripID:     b.TripID,
		UserID:     b.UserID,
		Quantity:   b.Quantity,
		TotalPrice: b.TotalPrice,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}
