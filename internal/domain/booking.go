package domain

import (
	"time"

	"github.com/google/uuid"
)

// Booking links a user to a trip. TotalPrice is fixed when the booking is
// created and is never recomputed, even if the trip price changes later.
type Booking struct {
	ID         uuid.UUID
	TripID     uuid.UUID
	UserID     uuid.UUID
	Quantity   int
	TotalPrice Money
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// BookingInput is a booking payload as sent by the client.
type BookingInput struct {
	Quantity string
}
