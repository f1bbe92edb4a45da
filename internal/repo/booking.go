package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/tripbook/backend/internal/domain"
)

// BookingRepo defines the persistence operations for Bookings.
// Bookings are immutable, so there is no Update or Delete.
type BookingRepo interface {
	// Create inserts a booking and returns the persisted record.
	Create(ctx context.Context, booking domain.Booking) (domain.Booking, error)
}

const bookingColumns = `id, trip_id, user_id, quantity, total_price_cents, created_at, updated_at`

// pgBookingRepo is the Postgres implementation of BookingRepo.
type pgBookingRepo struct {
	db db
}

// NewBookingRepo constructs a BookingRepo backed by the provided db connection.
func NewBookingRepo(db db) BookingRepo {
	return &pgBookingRepo{db: db}
}

// Create inserts a booking row.
// Returns domain.ErrNotFound if the trip is gone and domain.ErrUnknownCaller
// if the user is gone.
func (r *pgBookingRepo) Create(ctx context.Context, booking domain.Booking) (domain.Booking, error) {
	const q = `
		INSERT INTO bookings (trip_id, user_id, quantity, total_price_cents)
		VALUES (@trip_id, @user_id, @quantity, @total_price_cents)
		RETURNING ` + bookingColumns

	args := pgx.NamedArgs{
		"trip_id":           booking.TripID,
		"user_id":           booking.UserID,
		"quantity":          booking.Quantity,
		"total_price_cents": int64(booking.TotalPrice),
	}

	result, err := scanBooking(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.Create: %w", translateForeignKey(err))
	}
	return result, nil
}

func scanBooking(s scanner) (domain.Booking, error) {
	var (
		b              domain.Booking
		id, trip, user pgtype.UUID
		total          int64
	)

	err := s.Scan(&id, &trip, &user, &b.Quantity, &total, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Booking{}, domain.ErrNotFound
		}
		return domain.Booking{}, err
	}

	b.ID = uuid.UUID(id.Bytes)
	b.TripID = uuid.UUID(trip.Bytes)
	b.UserID = uuid.UUID(user.Bytes)
	b.TotalPrice = domain.Money(total)
	return b, nil
}
