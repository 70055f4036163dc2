// Package model defines the core domain types for the class booking system.
package model

import "time"

// FitnessClass represents one scheduled session with bookable slots.
// ScheduledAt is always stored as a UTC instant; read paths may project it
// into a display timezone without touching the stored value.
type FitnessClass struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	ScheduledAt    time.Time `json:"scheduled_at"`
	Instructor     string    `json:"instructor"`
	AvailableSlots int       `json:"available_slots"`
	CreatedAt      time.Time `json:"created_at"`
}

// HasCapacity returns true while at least one slot remains.
func (c *FitnessClass) HasCapacity() bool {
	return c.AvailableSlots > 0
}

// Booking represents one client's committed claim on one slot of a class.
// Bookings are append-only: created by the reservation engine, never
// updated or deleted.
type Booking struct {
	ID          int64     `json:"id"`
	ClassID     int64     `json:"class_id"`
	ClientName  string    `json:"client_name"`
	ClientEmail string    `json:"client_email"`
	Reference   string    `json:"reference"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateClassRequest is the payload for creating a new class.
type CreateClassRequest struct {
	Name           string    `json:"name" validate:"required"`
	ScheduledAt    time.Time `json:"scheduled_at" validate:"required"`
	Instructor     string    `json:"instructor" validate:"required"`
	AvailableSlots int       `json:"available_slots" validate:"gte=0"`
}

// BookingRequest is the payload for reserving a slot in a class.
// ClassID carries no shape validation: an unknown id is reported by the
// reservation engine as a not-found failure, not a validation one.
type BookingRequest struct {
	ClassID     int64  `json:"class_id"`
	ClientName  string `json:"client_name" validate:"required"`
	ClientEmail string `json:"client_email" validate:"required,email"`
}

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}
