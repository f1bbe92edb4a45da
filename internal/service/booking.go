package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/tripbook/backend/internal/domain"
	"github.com/pkordes/tripbook/backend/internal/repo"
)

// errNoCaller means a booking was attempted without an authenticated user.
// The auth middleware makes this unreachable through HTTP.
var errNoCaller = errors.New("booking requires an authenticated caller")

// BookingService records bookings. It is only reached through
// TripService.Book, which has already resolved the trip and checked the
// quantity.
type BookingService struct {
	repo repo.BookingRepo
}

// NewBookingService constructs a BookingService backed by the provided repo.
func NewBookingService(r repo.BookingRepo) *BookingService {
	return &BookingService{repo: r}
}

// Create persists a booking of quantity places on trip for caller.
// The total is always derived from the trip's current price.
func (s *BookingService) Create(ctx context.Context, trip domain.Trip, caller domain.Caller, quantity int) (domain.Booking, error) {
	if caller.UserID == uuid.Nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Create: %w", errNoCaller)
	}

	total, err := trip.Price.Times(quantity)
	if err != nil {
		verr := domain.NewValidationError("quantity", "the quantity is too large for the price of this trip")
		return domain.Booking{}, fmt.Errorf("service.BookingService.Create: %w", verr)
	}

	booking, err := s.repo.Create(ctx, domain.Booking{
		TripID:     trip.ID,
		UserID:     caller.UserID,
		Quantity:   quantity,
		TotalPrice: total,
	})
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Create: %w", err)
	}
	return booking, nil
}
