// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"classbook/internal/model"
	"classbook/internal/repository"
	"classbook/internal/service"
	"classbook/internal/timezone"
)

// BookingHandler holds all HTTP handlers for the class booking API.
type BookingHandler struct {
	svc *service.BookingService

	// defaultZone is the display timezone used when a request names none.
	// It is configured, trusted input: the internal projection fallback
	// covers it, so it is never rejected the way a client's tz= is.
	defaultZone string
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(svc *service.BookingService, defaultZone string) *BookingHandler {
	return &BookingHandler{svc: svc, defaultZone: defaultZone}
}

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20) // 1 MB limit
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func classID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// ─── Handlers ─────────────────────────────────────────────────────────────────

// CreateClass handles POST /classes
// Creates a new class with the given name, schedule, instructor and capacity.
func (h *BookingHandler) CreateClass(w http.ResponseWriter, r *http.Request) {
	var req model.CreateClassRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	class, err := h.svc.CreateClass(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, class)
}

// ListClasses handles GET /classes?tz=Zone
// Returns all classes with scheduled_at projected into the requested
// timezone. An unrecognised tz is a client error; when tz is absent the
// configured default applies.
func (h *BookingHandler) ListClasses(w http.ResponseWriter, r *http.Request) {
	tz := r.URL.Query().Get("tz")
	if tz == "" {
		tz = h.defaultZone
	} else if !timezone.Valid(tz) {
		writeError(w, http.StatusBadRequest, "invalid timezone")
		return
	}

	classes, err := h.svc.ListClasses(r.Context(), tz)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list classes")
		return
	}

	// Return an empty array rather than null for better client compatibility.
	if classes == nil {
		classes = []model.FitnessClass{}
	}

	writeJSON(w, http.StatusOK, classes)
}

// GetClass handles GET /classes/{id}
// Returns a single class with its schedule projected.
func (h *BookingHandler) GetClass(w http.ResponseWriter, r *http.Request) {
	id, err := classID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid class id")
		return
	}

	tz := r.URL.Query().Get("tz")
	if tz == "" {
		tz = h.defaultZone
	} else if !timezone.Valid(tz) {
		writeError(w, http.StatusBadRequest, "invalid timezone")
		return
	}

	class, err := h.svc.GetClass(r.Context(), id, tz)
	if err != nil {
		if errors.Is(err, repository.ErrClassNotFound) {
			writeError(w, http.StatusNotFound, "class not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get class")
		return
	}

	writeJSON(w, http.StatusOK, class)
}

// Book handles POST /book
// Performs a concurrency-safe reservation of one slot in the requested class.
func (h *BookingHandler) Book(w http.ResponseWriter, r *http.Request) {
	var req model.BookingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	booking, err := h.svc.Reserve(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrClassNotFound):
			writeError(w, http.StatusNotFound, "class not found")
		case errors.Is(err, repository.ErrNoSlots):
			writeError(w, http.StatusConflict, "no slots available")
		case errors.Is(err, service.ErrInvalidClient):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to create booking")
		}
		return
	}

	writeJSON(w, http.StatusCreated, booking)
}

// ListBookings handles GET /bookings?email=
// Returns all bookings made with the given client email.
func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		writeError(w, http.StatusBadRequest, "email query parameter is required")
		return
	}

	bookings, err := h.svc.ListBookingsForClient(r.Context(), email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list bookings")
		return
	}

	if bookings == nil {
		bookings = []model.Booking{}
	}

	writeJSON(w, http.StatusOK, bookings)
}

// ListClassBookings handles GET /classes/{id}/bookings
// Returns all bookings referencing a given class.
func (h *BookingHandler) ListClassBookings(w http.ResponseWriter, r *http.Request) {
	id, err := classID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid class id")
		return
	}

	bookings, err := h.svc.ListBookingsByClass(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrClassNotFound) {
			writeError(w, http.StatusNotFound, "class not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to list bookings")
		return
	}

	if bookings == nil {
		bookings = []model.Booking{}
	}

	writeJSON(w, http.StatusOK, bookings)
}

// ─── Health check ─────────────────────────────────────────────────────────────

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
