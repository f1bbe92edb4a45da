// Package handler implements the HTTP handlers for the trip booking API.
// All handlers are methods on Server. Methods are split into resource files
// (health.go, trip.go, user.go) but share the same Server struct so they can
// access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/tripbook/backend/internal/domain"
)

// TripServicer defines the business operations the trip handlers depend on.
// Defining the interface here, in the consumer package, lets handler tests
// inject a mock without touching the database or service layer.
type TripServicer interface {
	List(ctx context.Context, q domain.TripQuery) ([]domain.Trip, error)
	Create(ctx context.Context, in domain.TripInput) (domain.Trip, error)
	Get(ctx context.Context, slug string) (domain.Trip, error)
	Update(ctx context.Context, slug string, in domain.TripInput) (domain.Trip, error)
	Delete(ctx context.Context, slug string) error
	Book(ctx context.Context, slug string, caller domain.Caller, in domain.BookingInput) (domain.Booking, error)
}

// UserServicer defines the business operations the user handlers depend on.
type UserServicer interface {
	List(ctx context.Context) ([]domain.User, error)
	Get(ctx context.Context, id uuid.UUID) (domain.User, error)
	Update(ctx context.Context, in domain.UserUpdate) (domain.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Server holds the dependencies shared by every handler.
type Server struct {
	trips TripServicer
	users UserServicer
	log   *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
// A nil logger falls back to slog.Default().
func NewServer(trips TripServicer, users UserServicer, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{trips: trips, users: users, log: log}
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(nil, nil, nil)
}

// Routes returns the API router. authn guards every /trips and /users route;
// /healthz and /openapi.yaml stay public.
func (s *Server) Routes(authn func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Group(func(r chi.Router) {
		r.Use(authn)

		r.Route("/trips", func(r chi.Router) {
			r.Get("/", s.ListTrips)
			r.Post("/", s.CreateTrip)
			r.Route("/{slug}", func(r chi.Router) {
				r.Get("/", s.GetTrip)
				r.Put("/", s.UpdateTrip)
				r.Patch("/", s.UpdateTrip)
				r.Delete("/", s.DeleteTrip)
				r.Post("/bookings", s.BookTrip)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", s.ListUsers)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.GetUser)
				r.Put("/", s.UpdateUser)
				r.Patch("/", s.UpdateUser)
				r.Delete("/", s.DeleteUser)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, notFoundBody("route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody("method_not_allowed", "method not allowed"))
	})

	return r
}
