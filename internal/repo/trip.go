// Package repo contains all database access logic for the trip booking API.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/tripbook/backend/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TripRepo defines the persistence operations for Trips.
type TripRepo interface {
	// Create inserts a new trip and returns the persisted record.
	// A duplicate slug yields a *domain.ValidationError for "slug".
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetBySlug retrieves a trip by its slug.
	// Returns domain.ErrNotFound if no trip has that slug.
	GetBySlug(ctx context.Context, slug string) (domain.Trip, error)

	// List returns the trips matching filter.
	List(ctx context.Context, filter domain.TripFilter) ([]domain.Trip, error)

	// Update overwrites every mutable field of the trip identified by trip.ID.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// Delete removes a trip by slug. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, slug string) error

	// SlugTaken reports whether a trip other than exceptID already uses slug.
	// Pass uuid.Nil as exceptID to check against every trip.
	SlugTaken(ctx context.Context, slug string, exceptID uuid.UUID) (bool, error)
}

// tripSortColumns maps public sort field names to SQL columns.
// Only names present here can reach an ORDER BY clause.
var tripSortColumns = map[string]string{
	"slug":        "slug",
	"title":       "title",
	"description": "description",
	"start_date":  "start_date",
	"end_date":    "end_date",
	"location":    "location",
	"price":       "price_cents",
	"created_at":  "created_at",
	"updated_at":  "updated_at",
}

const tripColumns = `id, slug, title, description, start_date, end_date, location, price_cents, created_at, updated_at`

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

// Create inserts a new trip row and returns the full persisted record.
func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		INSERT INTO trips (slug, title, description, start_date, end_date, location, price_cents)
		VALUES (@slug, @title, @description, @start_date, @end_date, @location, @price_cents)
		RETURNING ` + tripColumns

	row := r.db.QueryRow(ctx, q, tripArgs(trip))
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", translateUnique(err))
	}
	return result, nil
}

// GetBySlug retrieves a trip by slug.
func (r *pgTripRepo) GetBySlug(ctx context.Context, slug string) (domain.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM trips WHERE slug = @slug`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"slug": slug})
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetBySlug: %w", err)
	}
	return result, nil
}

// List builds the WHERE and ORDER BY clauses from filter. User input only
// ever travels as a bind parameter; the ORDER BY column comes from
// tripSortColumns.
func (r *pgTripRepo) List(ctx context.Context, filter domain.TripFilter) ([]domain.Trip, error) {
	var (
		where []string
		args  = pgx.NamedArgs{}
	)

	if filter.Search != "" {
		where = append(where, `(title ILIKE @search OR description ILIKE @search OR location ILIKE @search)`)
		args["search"] = "%" + escapeLike(filter.Search) + "%"
	}
	if filter.PriceFrom != nil {
		where = append(where, `price_cents >= @price_from`)
		args["price_from"] = int64(*filter.PriceFrom)
	}
	if filter.PriceTo != nil {
		where = append(where, `price_cents <= @price_to`)
		args["price_to"] = int64(*filter.PriceTo)
	}

	var q strings.Builder
	q.WriteString(`SELECT ` + tripColumns + ` FROM trips`)
	if len(where) > 0 {
		q.WriteString(` WHERE ` + strings.Join(where, ` AND `))
	}

	order := `created_at ASC, id ASC`
	if col, ok := tripSortColumns[filter.OrderBy]; ok {
		dir := `ASC`
		if filter.Direction == domain.SortDesc {
			dir = `DESC`
		}
		order = col + ` ` + dir + `, id ASC`
	}
	q.WriteString(` ORDER BY ` + order)

	rows, err := r.db.Query(ctx, q.String(), args)
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.List: %w", err)
	}
	defer rows.Close()

	trips := []domain.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TripRepo.List: scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TripRepo.List: rows: %w", err)
	}

	return trips, nil
}

// Update overwrites the mutable fields of a trip and returns the updated record.
func (r *pgTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		UPDATE trips
		SET slug        = @slug,
		    title       = @title,
		    description = @description,
		    start_date  = @start_date,
		    end_date    = @end_date,
		    location    = @location,
		    price_cents = @price_cents,
		    updated_at  = now()
		WHERE id = @id
		RETURNING ` + tripColumns

	args := tripArgs(trip)
	args["id"] = trip.ID

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", translateUnique(err))
	}
	return result, nil
}

// Delete removes a trip by slug. Its bookings go with it (ON DELETE CASCADE).
func (r *pgTripRepo) Delete(ctx context.Context, slug string) error {
	const q = `DELETE FROM trips WHERE slug = @slug`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"slug": slug})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// SlugTaken checks for another trip with the same slug.
func (r *pgTripRepo) SlugTaken(ctx context.Context, slug string, exceptID uuid.UUID) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM trips WHERE slug = @slug AND id <> @except_id)`

	var taken bool
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"slug": slug, "except_id": exceptID}).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("repo.TripRepo.SlugTaken: %w", err)
	}
	return taken, nil
}

func tripArgs(trip domain.Trip) pgx.NamedArgs {
	return pgx.NamedArgs{
		"slug":        trip.Slug,
		"title":       trip.Title,
		"description": trip.Description,
		"start_date":  pgtype.Date{Time: trip.StartDate, Valid: true},
		"end_date":    pgtype.Date{Time: trip.EndDate, Valid: true},
		"location":    trip.Location,
		"price_cents": int64(trip.Price),
	}
}

// escapeLike escapes the LIKE metacharacters so a search for "50%" matches
// the literal text.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scan helpers
// to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanTrip maps a single database row into a domain.Trip.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t          domain.Trip
		id         pgtype.UUID
		start, end pgtype.Date
		price      int64
	)

	err := s.Scan(&id, &t.Slug, &t.Title, &t.Description, &start, &end, &t.Location, &price, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	t.StartDate = start.Time
	t.EndDate = end.Time
	t.Price = domain.Money(price)
	return t, nil
}
