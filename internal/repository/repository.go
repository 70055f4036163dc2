// Package repository implements persistence for classes and bookings.
// Two backing stores are provided: PostgreSQL via pgx (no ORM) and an
// in-memory store for demos and tests. Both honour the same contract:
// a reservation checks capacity, appends the booking, and decrements
// available_slots as one atomic unit.
package repository

import (
	"context"
	"errors"

	"classbook/internal/model"
)

// ErrClassNotFound is returned when no class with the requested id exists.
var ErrClassNotFound = errors.New("class not found")

// ErrNoSlots is returned when a class exists but has no remaining capacity.
var ErrNoSlots = errors.New("no slots available")

// ClassStore is the durable record of fitness classes and their capacity.
type ClassStore interface {
	// Create inserts a new class and assigns its id.
	Create(ctx context.Context, req model.CreateClassRequest) (*model.FitnessClass, error)
	// List returns all classes in stable id order.
	List(ctx context.Context) ([]model.FitnessClass, error)
	// GetByID returns a single class or ErrClassNotFound.
	GetByID(ctx context.Context, id int64) (*model.FitnessClass, error)
}

// BookingStore is the append-only ledger of bookings, plus the
// reservation engine that writes to it.
type BookingStore interface {
	// Reserve atomically checks capacity on the class, appends a booking
	// and decrements available_slots by one. It fails with
	// ErrClassNotFound or ErrNoSlots without any state change.
	Reserve(ctx context.Context, classID int64, clientName, clientEmail string) (*model.Booking, error)
	// ListByEmail returns bookings whose client_email exactly matches
	// email (case-sensitive), in stable id order.
	ListByEmail(ctx context.Context, email string) ([]model.Booking, error)
	// ListByClass returns bookings referencing the given class.
	ListByClass(ctx context.Context, classID int64) ([]model.Booking, error)
}
