package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"classbook/internal/model"
)

// ClassRepository is the PostgreSQL-backed ClassStore.
type ClassRepository struct {
	db *pgxpool.Pool
}

// NewClassRepository constructs a ClassRepository.
func NewClassRepository(db *pgxpool.Pool) *ClassRepository {
	return &ClassRepository{db: db}
}

// Create inserts a new class and returns it with its assigned id.
// ScheduledAt is normalised to UTC before storage.
func (r *ClassRepository) Create(ctx context.Context, req model.CreateClassRequest) (*model.FitnessClass, error) {
	class := &model.FitnessClass{
		Name:           req.Name,
		ScheduledAt:    req.ScheduledAt.UTC(),
		Instructor:     req.Instructor,
		AvailableSlots: req.AvailableSlots,
		CreatedAt:      time.Now().UTC(),
	}

	err := r.db.QueryRow(ctx,
		`INSERT INTO classes (name, scheduled_at, instructor, available_slots, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		class.Name, class.ScheduledAt, class.Instructor, class.AvailableSlots, class.CreatedAt,
	).Scan(&class.ID)
	if err != nil {
		return nil, fmt.Errorf("insert class: %w", err)
	}
	return class, nil
}

// List returns all classes ordered by id.
func (r *ClassRepository) List(ctx context.Context) ([]model.FitnessClass, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, scheduled_at, instructor, available_slots, created_at
		 FROM classes
		 ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	defer rows.Close()

	var classes []model.FitnessClass
	for rows.Next() {
		var c model.FitnessClass
		if err := rows.Scan(&c.ID, &c.Name, &c.ScheduledAt, &c.Instructor, &c.AvailableSlots, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan class: %w", err)
		}
		classes = append(classes, c)
	}
	return classes, rows.Err()
}

// GetByID returns a single class or ErrClassNotFound.
func (r *ClassRepository) GetByID(ctx context.Context, id int64) (*model.FitnessClass, error) {
	var c model.FitnessClass
	err := r.db.QueryRow(ctx,
		`SELECT id, name, scheduled_at, instructor, available_slots, created_at
		 FROM classes WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.Name, &c.ScheduledAt, &c.Instructor, &c.AvailableSlots, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrClassNotFound
		}
		return nil, fmt.Errorf("get class: %w", err)
	}
	return &c, nil
}

// BookingRepository is the PostgreSQL-backed BookingStore.
type BookingRepository struct {
	db *pgxpool.Pool
}

// NewBookingRepository constructs a BookingRepository.
func NewBookingRepository(db *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{db: db}
}

// Reserve performs a concurrency-safe booking inside a serialised transaction.
//
// Two naive read-then-write reservations can both observe the same free slot
// before either commits, overbooking the class. SELECT ... FOR UPDATE takes a
// row-level exclusive lock on the class row the moment the SELECT executes,
// so concurrent reservations on the same class are serialised until COMMIT or
// ROLLBACK. Reservations against different classes never contend: the lock is
// per-row, not global.
func (r *BookingRepository) Reserve(ctx context.Context, classID int64, clientName, clientEmail string) (*model.Booking, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	// Ensure the transaction is resolved on every exit path.
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	// Step 1: lock the class row and read its remaining capacity.
	var slots int
	err = tx.QueryRow(ctx,
		`SELECT available_slots
		 FROM classes
		 WHERE id = $1
		 FOR UPDATE`,
		classID,
	).Scan(&slots)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = ErrClassNotFound
			return nil, err
		}
		return nil, fmt.Errorf("lock class row: %w", err)
	}

	// Step 2: guard against overbooking.
	if slots <= 0 {
		err = ErrNoSlots
		return nil, err
	}

	// Step 3: decrement the counter within the same transaction.
	_, err = tx.Exec(ctx,
		`UPDATE classes SET available_slots = available_slots - 1 WHERE id = $1`,
		classID,
	)
	if err != nil {
		return nil, fmt.Errorf("decrement available_slots: %w", err)
	}

	// Step 4: append the booking record.
	booking := &model.Booking{
		ClassID:     classID,
		ClientName:  clientName,
		ClientEmail: clientEmail,
		Reference:   uuid.New().String(),
		CreatedAt:   time.Now().UTC(),
	}
	err = tx.QueryRow(ctx,
		`INSERT INTO bookings (class_id, client_name, client_email, reference, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		booking.ClassID, booking.ClientName, booking.ClientEmail, booking.Reference, booking.CreatedAt,
	).Scan(&booking.ID)
	if err != nil {
		return nil, fmt.Errorf("insert booking: %w", err)
	}

	// Step 5: commit — only now do readers see the booking and the decrement.
	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	return booking, nil
}

// ListByEmail returns all bookings whose client_email exactly matches email.
func (r *BookingRepository) ListByEmail(ctx context.Context, email string) ([]model.Booking, error) {
	return r.listWhere(ctx,
		`SELECT id, class_id, client_name, client_email, reference, created_at
		 FROM bookings
		 WHERE client_email = $1
		 ORDER BY id`,
		email,
	)
}

// ListByClass returns all bookings referencing the given class.
func (r *BookingRepository) ListByClass(ctx context.Context, classID int64) ([]model.Booking, error) {
	return r.listWhere(ctx,
		`SELECT id, class_id, client_name, client_email, reference, created_at
		 FROM bookings
		 WHERE class_id = $1
		 ORDER BY id`,
		classID,
	)
}

func (r *BookingRepository) listWhere(ctx context.Context, query string, arg any) ([]model.Booking, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []model.Booking
	for rows.Next() {
		var b model.Booking
		if err := rows.Scan(&b.ID, &b.ClassID, &b.ClientName, &b.ClientEmail, &b.Reference, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}
