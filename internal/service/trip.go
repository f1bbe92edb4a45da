// Package service contains the business logic for the trip booking API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here; services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/tripbook/backend/internal/domain"
	"github.com/pkordes/tripbook/backend/internal/repo"
)

// quantityRange bounds a booking quantity to what the bookings.quantity
// INTEGER column can hold.
var quantityRange = fmt.Sprintf("min=1,max=%d", math.MaxInt32)

// Booker creates the booking for a resolved trip.
// Implemented by *BookingService.
type Booker interface {
	Create(ctx context.Context, trip domain.Trip, caller domain.Caller, quantity int) (domain.Booking, error)
}

// TripService implements the trip catalog: listing, CRUD by slug, and booking.
type TripService struct {
	repo     repo.TripRepo
	bookings Booker
}

// NewTripService constructs a TripService backed by the provided repo.
// Book delegates to bookings once the trip and quantity check out.
func NewTripService(r repo.TripRepo, bookings Booker) *TripService {
	return &TripService{repo: r, bookings: bookings}
}

// List returns the trips matching q.
// Returns domain.ErrValidation for an unparseable price bound or an unknown
// sort field or direction.
func (s *TripService) List(ctx context.Context, q domain.TripQuery) ([]domain.Trip, error) {
	filter, err := ParseTripQuery(q)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.List: %w", err)
	}
	trips, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.List: %w", err)
	}
	if trips == nil {
		return []domain.Trip{}, nil
	}
	return trips, nil
}

// Create validates and persists a new trip.
func (s *TripService) Create(ctx context.Context, in domain.TripInput) (domain.Trip, error) {
	trip, err := s.validate(ctx, in, uuid.Nil)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	created, err := s.repo.Create(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	return created, nil
}

// Get returns the trip with the given slug.
func (s *TripService) Get(ctx context.Context, slug string) (domain.Trip, error) {
	trip, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Get: %w", err)
	}
	return trip, nil
}

// Update replaces every field of the trip currently at slug.
// The new slug may equal the old one; it only has to be unique among the
// other trips.
func (s *TripService) Update(ctx context.Context, slug string, in domain.TripInput) (domain.Trip, error) {
	current, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}

	trip, err := s.validate(ctx, in, current.ID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	trip.ID = current.ID

	updated, err := s.repo.Update(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	return updated, nil
}

// Delete removes the trip with the given slug.
func (s *TripService) Delete(ctx context.Context, slug string) error {
	if err := s.repo.Delete(ctx, slug); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}

// Book resolves the trip, checks the quantity, and records a booking owned
// by caller. The trip lookup happens first, so an unknown slug is reported
// as not found even when the payload is also invalid.
func (s *TripService) Book(ctx context.Context, slug string, caller domain.Caller, in domain.BookingInput) (domain.Booking, error) {
	trip, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.TripService.Book: %w", err)
	}

	var rules fieldRules
	qty, _ := rules.integer("quantity", in.Quantity, quantityRange)
	if err := rules.err(); err != nil {
		return domain.Booking{}, fmt.Errorf("service.TripService.Book: %w", err)
	}

	booking, err := s.bookings.Create(ctx, trip, caller, qty)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.TripService.Book: %w", err)
	}
	return booking, nil
}

// validate checks every field of in and, when the slug is otherwise valid,
// whether another trip already uses it. exceptID excludes the trip being
// updated; pass uuid.Nil on create.
func (s *TripService) validate(ctx context.Context, in domain.TripInput, exceptID uuid.UUID) (domain.Trip, error) {
	var rules fieldRules

	trip := domain.Trip{
		Slug:        rules.required("slug", in.Slug),
		Title:       rules.required("title", in.Title),
		Description: rules.required("description", in.Description),
		Location:    rules.required("location", in.Location),
	}
	rules.maxLen("slug", trip.Slug, 255)
	rules.maxLen("title", trip.Title, 255)
	rules.maxLen("location", trip.Location, 255)

	start, startOK := rules.date("start_date", in.StartDate)
	end, endOK := rules.date("end_date", in.EndDate)
	if startOK && endOK && !end.After(start) {
		rules.errs.Add("end_date", "the end_date must be a date after start_date")
	}
	trip.StartDate, trip.EndDate = start, end

	if price, ok := rules.money("price", in.Price); ok {
		if price < 0 {
			rules.errs.Add("price", "the price must be at least 0")
		}
		trip.Price = price
	}

	if trip.Slug != "" && !rules.errs.Has("slug") {
		taken, err := s.repo.SlugTaken(ctx, trip.Slug, exceptID)
		if err != nil {
			return domain.Trip{}, err
		}
		if taken {
			rules.errs.Add("slug", "the slug has already been taken")
		}
	}

	if err := rules.err(); err != nil {
		return domain.Trip{}, err
	}
	return trip, nil
}

// ParseTripQuery turns raw listing parameters into a TripFilter.
// Empty parameters are treated as absent. Direction defaults to ascending
// and is only consulted when OrderBy is set.
func ParseTripQuery(q domain.TripQuery) (domain.TripFilter, error) {
	var (
		rules  fieldRules
		filter = domain.TripFilter{Search: strings.TrimSpace(q.Search), Direction: domain.SortAsc}
	)

	if strings.TrimSpace(q.PriceFrom) != "" {
		if m, ok := rules.money("price_from", q.PriceFrom); ok {
			filter.PriceFrom = &m
		}
	}
	if strings.TrimSpace(q.PriceTo) != "" {
		if m, ok := rules.money("price_to", q.PriceTo); ok {
			filter.PriceTo = &m
		}
	}

	if orderBy := strings.TrimSpace(q.OrderBy); orderBy != "" {
		if !domain.IsTripSortField(orderBy) {
			rules.errs.Add("order_by", "the order_by must be one of: "+strings.Join(domain.TripSortFields, ", "))
		}
		filter.OrderBy = orderBy

		switch dir := domain.SortDirection(strings.ToLower(strings.TrimSpace(q.Direction))); dir {
		case "", domain.SortAsc:
			filter.Direction = domain.SortAsc
		case domain.SortDesc:
			filter.Direction = domain.SortDesc
		default:
			rules.errs.Add("direction", "the direction must be asc or desc")
		}
	}

	if err := rules.err(); err != nil {
		return domain.TripFilter{}, err
	}
	return filter, nil
}
