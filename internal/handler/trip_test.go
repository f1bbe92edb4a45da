package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/tripbook/backend/internal/domain"
	"github.com/pkordes/tripbook/backend/internal/handler"
	"github.com/pkordes/tripbook/backend/internal/middleware"
)

// mockTripServicer is a test double for handler.TripServicer.
// Set only the method fields your test needs.
type mockTripServicer struct {
	list   func(ctx context.Context, q domain.TripQuery) ([]domain.Trip, error)
	create func(ctx context.Context, in domain.TripInput) (domain.Trip, error)
	get    func(ctx context.Context, slug string) (domain.Trip, error)
	update func(ctx context.Context, slug string, in domain.TripInput) (domain.Trip, error)
	delete func(ctx context.Context, slug string) error
	book   func(ctx context.Context, slug string, caller domain.Caller, in domain.BookingInput) (domain.Booking, error)
}

func (m *mockTripServicer) List(ctx context.Context, q domain.TripQuery) ([]domain.Trip, error) {
	return m.list(ctx, q)
}
func (m *mockTripServicer) Create(ctx context.Context, in domain.TripInput) (domain.Trip, error) {
	return m.create(ctx, in)
}
func (m *mockTripServicer) Get(ctx context.Context, slug string) (domain.Trip, error) {
	return m.get(ctx, slug)
}
func (m *mockTripServicer) Update(ctx context.Context, slug string, in domain.TripInput) (domain.Trip, error) {
	return m.update(ctx, slug, in)
}
func (m *mockTripServicer) Delete(ctx context.Context, slug string) error {
	return m.delete(ctx, slug)
}
func (m *mockTripServicer) Book(ctx context.Context, slug string, caller domain.Caller, in domain.BookingInput) (domain.Booking, error) {
	return m.book(ctx, slug, caller, in)
}

// compile-time check: mockTripServicer must satisfy handler.TripServicer.
var _ handler.TripServicer = (*mockTripServicer)(nil)

// ---- helpers ---------------------------------------------------------------

var testCaller = domain.Caller{UserID: uuid.MustParse("6f1c1b5e-7d0e-4b8a-9a43-1f2d3c4b5a69")}

// asCaller stands in for the JWT authenticator and authenticates every request
// as testCaller.
func asCaller(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(middleware.WithCaller(r.Context(), testCaller)))
	})
}

// newHTTPHandler wires a Server with the given mocks into the chi router.
// This mirrors how main.go wires it in production.
func newHTTPHandler(trips handler.TripServicer, users handler.UserServicer) http.Handler {
	return handler.NewServer(trips, users, nil).Routes(asCaller)
}

func tripFixture() domain.Trip {
	return domain.Trip{
		ID:          uuid.New(),
		Slug:        "alps-hike",
		Title:       "Alps Hike",
		Description: "Two weeks in the mountains",
		StartDate:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		Location:    "Chamonix",
		Price:       domain.Money(120050),
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(h http.Handler, method, target string, body *bytes.Buffer) *httptest.ResponseRecorder {
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, body)
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) handler.ErrorDetail {
	t.Helper()
	var resp handler.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp.Error
}

// ---- POST /trips -----------------------------------------------------------

func TestCreateTrip_201(t *testing.T) {
	fixture := tripFixture()
	var got domain.TripInput
	svc := &mockTripServicer{
		create: func(_ context.Context, in domain.TripInput) (domain.Trip, error) {
			got = in
			return fixture, nil
		},
	}

	rec := do(newHTTPHandler(svc, nil), http.MethodPost, "/trips", jsonBody(t, map[string]any{
		"slug":        "alps-hike",
		"title":       "Alps Hike",
		"description": "Two weeks in the mountains",
		"start_date":  "2025-06-01",
		"end_date":    "2025-06-15",
		"location":    "Chamonix",
		"price":       1200.5,
	}))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "1200.5", got.Price, "numeric price is passed through as text")
	assert.Equal(t, "2025-06-01", got.StartDate)

	var resp struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "alps-hike", resp.Data["slug"])
	assert.Equal(t, "2025-06-01", resp.Data["start_date"])
	assert.Equal(t, "2025-06-15", resp.Data["end_date"])
	assert.Equal(t, "1200.50", resp.Data["price"])
	assert.NotContains(t, resp.Data, "id")
}

func TestCreateTrip_422_ValidationError(t *testing.T) {
	svc := &mockTripServicer{
		create: func(_ context.Context, _ domain.TripInput) (domain.Trip, error) {
			verr := domain.NewValidationError("title", "the title field is required")
			verr.Add("price", "the price must be at least 0")
			return domain.Trip{}, verr
		},
	}

	rec := do(newHTTPHandler(svc, nil), http.MethodPost, "/trips", jsonBody(t, map[string]any{"price": -1}))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	detail := decodeError(t, rec)
	assert.Equal(t, "validation_error", detail.Code)
	assert.Equal(t, []string{"the title field is required"}, detail.Fields["title"])
	assert.Equal(t, []string{"the price must be at least 0"}, detail.Fields["price"])
}

func TestCreateTrip_EmptyBodyReachesService(t *testing.T) {
	called := false
	svc := &mockTripServicer{
		create: func(_ context.Context, in domain.TripInput) (domain.Trip, error) {
			called = true
			assert.Equal(t, domain.TripInput{}, in)
			return domain.Trip{}, domain.NewValidationError("slug", "the slug field is required")
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/trips", nil)
	rec := httptest.NewRecorder()
	newHTTPHandler(svc, nil).ServeHTTP(rec, req)

	assert.True(t, called)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCreateTrip_422_MalformedJSON(t *testing.T) {
	svc := &mockTripServicer{
		create: func(_ context.Context, _ domain.TripInput) (domain.Trip, error) {
			t.Fatal("service must not be called")
			return domain.Trip{}, nil
		},
	}

	rec := do(newHTTPHandler(svc, nil), http.MethodPost, "/trips", bytes.NewBufferString(`{"title":`))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCreateTrip_500_HidesInternalError(t *testing.T) {
	svc := &mockTripServicer{
		create: func(_ context.Context, _ domain.TripInput) (domain.Trip, error) {
			return domain.Trip{}, errors.New("connection refused")
		},
	}

	rec := do(newHTTPHandler(svc, nil), http.MethodPost, "/trips", jsonBody(t, map[string]any{}))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

// ---- GET /trips ------------------------------------------------------------

func TestListTrips_200(t *testing.T) {
	var got domain.TripQuery
	svc := &mockTripServicer{
		list: func(_ context.Context, q domain.TripQuery) ([]domain.Trip, error) {
			got = q
			return []domain.Trip{tripFixture(), tripFixture()}, nil
		},
	}

	rec := do(newHTTPHandler(svc, nil), http.MethodGet,
		"/trips?search=alp&price_from=10&price_to=2000&order_by=price&direction=desc", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.TripQuery{
		Search:    "alp",
		PriceFrom: "10",
		PriceTo:   "2000",
		OrderBy:   "price",
		Direction: "desc",
	}, got)

	var resp handler.DataResponse[[]handler.Trip]
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp.Data, 2)
}

func TestListTrips_200_Empty(t *testing.T) {
	svc := &mockTripServicer{
		list: func(_ context.Context, _ domain.TripQuery) ([]domain.Trip, error) { return []domain.Trip{}, nil },
	}

	rec := do(newHTTPHandler(svc, nil), http.MethodGet, "/trips", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	// Must be a JSON array, not null.
	assert.JSONEq(t, `{"data":[]}`, rec.Body.String())
}

func TestListTrips_422_BadOrderBy(t *testing.T) {
	svc := &mockTripServicer{
		list: func(_ context.Context, _ domain.TripQuery) ([]domain.Trip, error) {
			return nil, domain.NewValidationError("order_by", "the selected order_by is invalid")
		},
	}

	rec := do(newHTTPHandler(svc, nil), http.MethodGet, "/trips?order_by=password", nil)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decodeError(t, rec).Fields, "order_by")
}

// ---- GET /trips/{slug} -----------------------------------------------------

func TestGetTrip_200(t *testing.T) {
	fixture := tripFixture()
	var gotSlug string
	svc := &mockTripServicer{
		get: func(_ context.Context, slug string) (domain.Trip, error) {
			gotSlug = slug
			return fixture, nil
		},
	}

	rec := do(newHTTPHandler(svc, nil), http.MethodGet, "/trips/alps-hike", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alps-hike", gotSlug)

	var resp handler.DataResponse[handler.Trip]
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, fixture.Title, resp.Data.Title)
	assert.Equal(t, fixture.Price, resp.Data.Price)
}

func TestGetTrip_404(t *testing.T) {
	svc := &mockTripServicer{
		get: func(_ context.Context, _ string) (domain.Trip, error) { return domain.Trip{}, domain.ErrNotFound },
	}

	rec := do(newHTTPHandler(svc, nil), http.MethodGet, "/trips/missing", nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	detail := decodeError(t, rec)
	assert.Equal(t, "not_found", detail.Code)
	assert.Equal(t, "trip not found", detail.Message)
}

// ---- PUT/PATCH /trips/{slug} -----------------------------------------------

func TestUpdateTrip_200(t *testing.T) {
	fixture := tripFixture()
	fixture.Title = "Updated"
	for _, method := range []string{http.MethodPut, http.MethodPatch} {
		t.Run(method, func(t *testing.T) {
			var gotSlug string
			svc := &mockTripServicer{
				update: func(_ context.Context, slug string, in domain.TripInput) (domain.Trip, error) {
					gotSlug = slug
					assert.Equal(t, "Updated", in.Title)
					return fixture, nil
				},
			}

			rec := do(newHTTPHandler(svc, nil), method, "/trips/alps-hike", jsonBody(t, map[string]any{"title": "Updated"}))

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "alps-hike", gotSlug)
			var resp handler.DataResponse[handler.Trip]
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, "Updated", resp.Data.Title)
		})
	}
}

func TestUpdateTrip_404(t *testing.T) {
	svc := &mockTripServicer{
		update: func(_ context.Context, _ string, _ domain.TripInput) (domain.Trip, error) {
			return domain.Trip{}, domain.ErrNotFound
		},
	}

	rec := do(newHTTPHandler(svc, nil), http.MethodPut, "/trips/missing", jsonBody(t, map[string]any{"title": "X"}))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ---- DELETE /trips/{slug} --------------------------------------------------

func TestDeleteTrip_200(t *testing.T) {
	svc := &mockTripServicer{
		delete: func(_ context.Context, _ string) error { return nil },
	}

	rec := do(newHTTPHandler(svc, nil), http.MethodDelete, "/trips/alps-hike", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Trip deleted successfully"}`, rec.Body.String())
}

func TestDeleteTrip_404(t *testing.T) {
	svc := &mockTripServicer{
		delete: func(_ context.Context, _ string) error { return domain.ErrNotFound },
	}

	rec := do(newHTTPHandler(svc, nil), http.MethodDelete, "/trips/missing", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ---- POST /trips/{slug}/bookings -------------------------------------------

func TestBookTrip_201(t *testing.T) {
	tripID := uuid.New()
	var gotCaller domain.Caller
	var gotQty string
	svc := &mockTripServicer{
		book: func(_ context.Context, slug string, caller domain.Caller, in domain.BookingInput) (domain.Booking, error) {
			assert.Equal(t, "alps-hike", slug)
			gotCaller = caller
			gotQty = in.Quantity
			return domain.Booking{
				ID:         uuid.New(),
				TripID:     tripID,
				UserID:     caller.UserID,
				Quantity:   3,
				TotalPrice: domain.Money(15000),
			}, nil
		},
	}

	rec := do(newHTTPHandler(svc, nil), http.MethodPost, "/trips/alps-hike/bookings", jsonBody(t, map[string]any{"quantity": 3}))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, testCaller, gotCaller)
	assert.Equal(t, "3", gotQty)

	var resp struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "150.00", resp.Data["total_price"])
	assert.Equal(t, testCaller.UserID.String(), resp.Data["user_id"])
	assert.Equal(t, tripID.String(), resp.Data["trip_id"])
}

func TestBookTrip_422_Quantity(t *testing.T) {
	svc := &mockTripServicer{
		book: func(_ context.Context, _ string, _ domain.Caller, _ domain.BookingInput) (domain.Booking, error) {
			return domain.Booking{}, domain.NewValidationError("quantity", "the quantity must be at least 1")
		},
	}

	rec := do(newHTTPHandler(svc, nil), http.MethodPost, "/trips/alps-hike/bookings", jsonBody(t, map[string]any{"quantity": 0}))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decodeError(t, rec).Fields, "quantity")
}

func TestBookTrip_404(t *testing.T) {
	svc := &mockTripServicer{
		book: func(_ context.Context, _ string, _ domain.Caller, _ domain.BookingInput) (domain.Booking, error) {
			return domain.Booking{}, domain.ErrNotFound
		},
	}

	rec := do(newHTTPHandler(svc, nil), http.MethodPost, "/trips/missing/bookings", jsonBody(t, map[string]any{"quantity": 1}))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBookTrip_401_WithoutCaller(t *testing.T) {
	svc := &mockTripServicer{
		book: func(_ context.Context, _ string, _ domain.Caller, _ domain.BookingInput) (domain.Booking, error) {
			t.Fatal("service must not be called")
			return domain.Booking{}, nil
		},
	}
	passThrough := func(next http.Handler) http.Handler { return next }
	h := handler.NewServer(svc, nil, nil).Routes(passThrough)

	req := httptest.NewRequest(http.MethodPost, "/trips/alps-hike/bookings", strings.NewReader(`{"quantity":1}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBookTrip_413_BodyTooLarge(t *testing.T) {
	svc := &mockTripServicer{}
	h := middleware.NewMaxBodySizeHandler(16)(newHTTPHandler(svc, nil))

	req := httptest.NewRequest(http.MethodPost, "/trips/alps-hike/bookings",
		strings.NewReader(`{"quantity":"`+strings.Repeat("1", 64)+`"}`))
	req.ContentLength = -1
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestBookTrip_422_TrailingData(t *testing.T) {
	for _, body := range []string{`{"quantity":1}garbage`, `{"quantity":1}{"quantity":2}`} {
		t.Run(body, func(t *testing.T) {
			svc := &mockTripServicer{
				book: func(_ context.Context, _ string, _ domain.Caller, _ domain.BookingInput) (domain.Booking, error) {
					t.Fatal("service must not be called")
					return domain.Booking{}, nil
				},
			}

			rec := do(newHTTPHandler(svc, nil), http.MethodPost, "/trips/alps-hike/bookings", bytes.NewBufferString(body))

			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		})
	}
}

func TestBookTrip_TrailingWhitespaceIsAccepted(t *testing.T) {
	svc := &mockTripServicer{
		book: func(_ context.Context, _ string, _ domain.Caller, _ domain.BookingInput) (domain.Booking, error) {
			return domain.Booking{Quantity: 1}, nil
		},
	}

	rec := do(newHTTPHandler(svc, nil), http.MethodPost, "/trips/alps-hike/bookings", bytes.NewBufferString("{\"quantity\":1}\n  "))

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestBookTrip_401_CallerNoLongerExists(t *testing.T) {
	svc := &mockTripServicer{
		book: func(_ context.Context, _ string, _ domain.Caller, _ domain.BookingInput) (domain.Booking, error) {
			return domain.Booking{}, fmt.Errorf("repo.BookingRepo.Create: %w", domain.ErrUnknownCaller)
		},
	}

	rec := do(newHTTPHandler(svc, nil), http.MethodPost, "/trips/alps-hike/bookings", jsonBody(t, map[string]any{"quantity": 1}))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", decodeError(t, rec).Code)
}
