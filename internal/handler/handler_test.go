package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"classbook/internal/model"
	"classbook/internal/repository"
	"classbook/internal/service"
)

func newTestRouter(t *testing.T) (chi.Router, *repository.MemoryStore) {
	t.Helper()

	store := repository.NewMemoryStore()
	svc := service.NewBookingService(store, store, zap.NewNop())
	h := NewBookingHandler(svc, "Asia/Kolkata")

	r := chi.NewRouter()
	r.Get("/health", HealthCheck)
	r.Route("/classes", func(r chi.Router) {
		r.Post("/", h.CreateClass)
		r.Get("/", h.ListClasses)
		r.Get("/{id}", h.GetClass)
		r.Get("/{id}/bookings", h.ListClassBookings)
	})
	r.Post("/book", h.Book)
	r.Get("/bookings", h.ListBookings)
	return r, store
}

func seedClass(t *testing.T, store *repository.MemoryStore, slots int) *model.FitnessClass {
	t.Helper()
	class, err := store.Create(context.Background(), model.CreateClassRequest{
		Name:           "Yoga",
		ScheduledAt:    time.Date(2026, 9, 1, 7, 0, 0, 0, time.UTC),
		Instructor:     "Anita",
		AvailableSlots: slots,
	})
	require.NoError(t, err)
	return class
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHealthCheck(t *testing.T) {
	r, _ := newTestRouter(t)
	rec := doJSON(t, r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListClassesInvalidTimezone(t *testing.T) {
	r, store := newTestRouter(t)
	seedClass(t, store, 3)

	rec := doJSON(t, r, http.MethodGet, "/classes?tz=Not/AZone", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp model.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "invalid timezone", resp.Error)
}

func TestListClassesProjected(t *testing.T) {
	r, store := newTestRouter(t)
	seedClass(t, store, 3)

	rec := doJSON(t, r, http.MethodGet, "/classes?tz=Asia/Kolkata", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var classes []model.FitnessClass
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &classes))
	require.Len(t, classes, 1)

	// 07:00 UTC renders as 12:30 IST; the instant is unchanged.
	want := time.Date(2026, 9, 1, 7, 0, 0, 0, time.UTC)
	assert.True(t, classes[0].ScheduledAt.Equal(want))
	_, offset := classes[0].ScheduledAt.Zone()
	assert.Equal(t, 5*3600+30*60, offset)
}

func TestListClassesDefaultsToConfiguredZone(t *testing.T) {
	r, store := newTestRouter(t)
	seedClass(t, store, 3)

	rec := doJSON(t, r, http.MethodGet, "/classes", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var classes []model.FitnessClass
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &classes))
	require.Len(t, classes, 1)
	_, offset := classes[0].ScheduledAt.Zone()
	assert.Equal(t, 5*3600+30*60, offset, "default zone Asia/Kolkata should apply")
}

func TestListClassesEmpty(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doJSON(t, r, http.MethodGet, "/classes", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestCreateClass(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/classes", model.CreateClassRequest{
		Name:           "Zumba",
		ScheduledAt:    time.Date(2026, 9, 2, 18, 0, 0, 0, time.UTC),
		Instructor:     "Ravi",
		AvailableSlots: 8,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var class model.FitnessClass
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &class))
	assert.NotZero(t, class.ID)
	assert.Equal(t, 8, class.AvailableSlots)
}

func TestBookSuccess(t *testing.T) {
	r, store := newTestRouter(t)
	class := seedClass(t, store, 2)

	rec := doJSON(t, r, http.MethodPost, "/book", model.BookingRequest{
		ClassID:     class.ID,
		ClientName:  "Priya",
		ClientEmail: "priya@example.com",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var booking model.Booking
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &booking))
	assert.Equal(t, class.ID, booking.ClassID)
	assert.Equal(t, "priya@example.com", booking.ClientEmail)
	assert.NotEmpty(t, booking.Reference)
}

func TestBookClassNotFound(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/book", model.BookingRequest{
		ClassID:     999,
		ClientName:  "Priya",
		ClientEmail: "priya@example.com",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBookConflictWhenFull(t *testing.T) {
	r, store := newTestRouter(t)
	class := seedClass(t, store, 1)

	first := doJSON(t, r, http.MethodPost, "/book", model.BookingRequest{
		ClassID:     class.ID,
		ClientName:  "Priya",
		ClientEmail: "priya@example.com",
	})
	require.Equal(t, http.StatusCreated, first.Code)

	second := doJSON(t, r, http.MethodPost, "/book", model.BookingRequest{
		ClassID:     class.ID,
		ClientName:  "Ravi",
		ClientEmail: "ravi@example.com",
	})
	assert.Equal(t, http.StatusConflict, second.Code)

	var resp model.ErrorResponse
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &resp))
	assert.Equal(t, "no slots available", resp.Error)
}

func TestBookInvalidClient(t *testing.T) {
	r, store := newTestRouter(t)
	class := seedClass(t, store, 2)

	rec := doJSON(t, r, http.MethodPost, "/book", model.BookingRequest{
		ClassID:     class.ID,
		ClientName:  "Priya",
		ClientEmail: "not-an-email",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBookMalformedBody(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/book", bytes.NewBufferString(`{"class_id": "one"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListBookingsRequiresEmail(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doJSON(t, r, http.MethodGet, "/bookings", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListBookingsByEmail(t *testing.T) {
	r, store := newTestRouter(t)
	class := seedClass(t, store, 5)

	for _, email := range []string{"priya@example.com", "ravi@example.com"} {
		rec := doJSON(t, r, http.MethodPost, "/book", model.BookingRequest{
			ClassID:     class.ID,
			ClientName:  "Client",
			ClientEmail: email,
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doJSON(t, r, http.MethodGet, "/bookings?email=priya@example.com", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var bookings []model.Booking
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bookings))
	require.Len(t, bookings, 1)
	assert.Equal(t, "priya@example.com", bookings[0].ClientEmail)
}

func TestGetClassNotFound(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doJSON(t, r, http.MethodGet, "/classes/999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListClassBookings(t *testing.T) {
	r, store := newTestRouter(t)
	class := seedClass(t, store, 5)

	rec := doJSON(t, r, http.MethodPost, "/book", model.BookingRequest{
		ClassID:     class.ID,
		ClientName:  "Priya",
		ClientEmail: "priya@example.com",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, r, http.MethodGet, fmt.Sprintf("/classes/%d/bookings", class.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var bookings []model.Booking
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bookings))
	require.Len(t, bookings, 1)
	assert.Equal(t, class.ID, bookings[0].ClassID)

	rec = doJSON(t, r, http.MethodGet, "/classes/999/bookings", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
