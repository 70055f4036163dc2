// Package service implements business logic, validation, and orchestration
// between HTTP handlers and the repository layer.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"classbook/internal/model"
	"classbook/internal/repository"
	"classbook/internal/timezone"
)

// ErrInvalidClient is returned when a booking request carries an empty
// client name or an email that is not email-shaped.
var ErrInvalidClient = errors.New("invalid client details")

// BookingService orchestrates class and booking operations.
type BookingService struct {
	classes  repository.ClassStore
	bookings repository.BookingStore
	validate *validator.Validate
	log      *zap.Logger
}

// NewBookingService constructs a BookingService with its dependencies.
func NewBookingService(
	classes repository.ClassStore,
	bookings repository.BookingStore,
	log *zap.Logger,
) *BookingService {
	return &BookingService{
		classes:  classes,
		bookings: bookings,
		validate: validator.New(),
		log:      log,
	}
}

// CreateClass validates the request and delegates to the store.
func (s *BookingService) CreateClass(ctx context.Context, req model.CreateClassRequest) (*model.FitnessClass, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Instructor = strings.TrimSpace(req.Instructor)
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid class: %s", err)
	}
	return s.classes.Create(ctx, req)
}

// ListClasses returns all classes with scheduled_at projected into the
// requested display zone. Capacity is read fresh from the store on every
// call; nothing is cached. An unknown zone leaves times in UTC, the
// projection's silent fallback.
func (s *BookingService) ListClasses(ctx context.Context, zone string) ([]model.FitnessClass, error) {
	classes, err := s.classes.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range classes {
		classes[i].ScheduledAt = timezone.Project(classes[i].ScheduledAt, zone)
	}
	return classes, nil
}

// GetClass returns a single class with its schedule projected into zone.
func (s *BookingService) GetClass(ctx context.Context, id int64, zone string) (*model.FitnessClass, error) {
	class, err := s.classes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	class.ScheduledAt = timezone.Project(class.ScheduledAt, zone)
	return class, nil
}

// Reserve validates the client details, then delegates the concurrency-safe
// reservation to the booking store. Class existence and capacity are always
// re-checked inside the store's atomic unit, regardless of any validation
// done at the boundary.
func (s *BookingService) Reserve(ctx context.Context, req model.BookingRequest) (*model.Booking, error) {
	req.ClientName = strings.TrimSpace(req.ClientName)
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidClient, err)
	}

	s.log.Info("reservation attempt",
		zap.Int64("class_id", req.ClassID),
		zap.String("client_email", req.ClientEmail),
	)

	booking, err := s.bookings.Reserve(ctx, req.ClassID, req.ClientName, req.ClientEmail)
	if err != nil {
		// Surface domain errors directly so handlers can set correct HTTP status.
		if errors.Is(err, repository.ErrClassNotFound) || errors.Is(err, repository.ErrNoSlots) {
			s.log.Warn("reservation rejected",
				zap.Int64("class_id", req.ClassID),
				zap.Error(err),
			)
			return nil, err
		}
		return nil, fmt.Errorf("reserve slot: %w", err)
	}

	s.log.Info("reservation committed",
		zap.Int64("booking_id", booking.ID),
		zap.Int64("class_id", booking.ClassID),
	)
	return booking, nil
}

// ListBookingsForClient returns all bookings whose client_email exactly
// matches email.
func (s *BookingService) ListBookingsForClient(ctx context.Context, email string) ([]model.Booking, error) {
	return s.bookings.ListByEmail(ctx, email)
}

// ListBookingsByClass returns all bookings referencing the given class,
// or ErrClassNotFound when the class does not exist.
func (s *BookingService) ListBookingsByClass(ctx context.Context, classID int64) ([]model.Booking, error) {
	if _, err := s.classes.GetByID(ctx, classID); err != nil {
		return nil, err
	}
	return s.bookings.ListByClass(ctx, classID)
}
