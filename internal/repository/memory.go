package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"classbook/internal/model"
)

// MemoryStore implements ClassStore and BookingStore with in-process maps.
// It is used by the test suite and by the "memory" store driver for demos.
//
// A single mutex guards both collections: Reserve's check-then-mutate must
// be one critical section, and the store is small enough that finer locking
// buys nothing. Readers take the read lock, so a query never observes a
// booking without its paired decrement.
type MemoryStore struct {
	mu            sync.RWMutex
	classes       map[int64]*model.FitnessClass
	bookings      map[int64]*model.Booking
	nextClassID   int64
	nextBookingID int64
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		classes:  make(map[int64]*model.FitnessClass),
		bookings: make(map[int64]*model.Booking),
	}
}

// Create inserts a new class and assigns the next id.
func (s *MemoryStore) Create(ctx context.Context, req model.CreateClassRequest) (*model.FitnessClass, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextClassID++
	class := &model.FitnessClass{
		ID:             s.nextClassID,
		Name:           req.Name,
		ScheduledAt:    req.ScheduledAt.UTC(),
		Instructor:     req.Instructor,
		AvailableSlots: req.AvailableSlots,
		CreatedAt:      time.Now().UTC(),
	}
	s.classes[class.ID] = class

	c := *class
	return &c, nil
}

// List returns all classes in id order.
func (s *MemoryStore) List(ctx context.Context) ([]model.FitnessClass, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var classes []model.FitnessClass
	for _, c := range s.classes {
		classes = append(classes, *c)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i].ID < classes[j].ID })
	return classes, nil
}

// GetByID returns a copy of the class or ErrClassNotFound.
func (s *MemoryStore) GetByID(ctx context.Context, id int64) (*model.FitnessClass, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	class, ok := s.classes[id]
	if !ok {
		return nil, ErrClassNotFound
	}
	c := *class
	return &c, nil
}

// Reserve checks capacity, appends a booking and decrements the slot count
// under one lock acquisition, mirroring the transactional contract of the
// PostgreSQL store.
func (s *MemoryStore) Reserve(ctx context.Context, classID int64, clientName, clientEmail string) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	class, ok := s.classes[classID]
	if !ok {
		return nil, ErrClassNotFound
	}
	if class.AvailableSlots <= 0 {
		return nil, ErrNoSlots
	}

	class.AvailableSlots--

	s.nextBookingID++
	booking := &model.Booking{
		ID:          s.nextBookingID,
		ClassID:     classID,
		ClientName:  clientName,
		ClientEmail: clientEmail,
		Reference:   uuid.New().String(),
		CreatedAt:   time.Now().UTC(),
	}
	s.bookings[booking.ID] = booking

	b := *booking
	return &b, nil
}

// ListByEmail returns bookings with an exact, case-sensitive email match.
func (s *MemoryStore) ListByEmail(ctx context.Context, email string) ([]model.Booking, error) {
	return s.listWhere(func(b *model.Booking) bool { return b.ClientEmail == email })
}

// ListByClass returns bookings referencing the given class.
func (s *MemoryStore) ListByClass(ctx context.Context, classID int64) ([]model.Booking, error) {
	return s.listWhere(func(b *model.Booking) bool { return b.ClassID == classID })
}

func (s *MemoryStore) listWhere(match func(*model.Booking) bool) ([]model.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var bookings []model.Booking
	for _, b := range s.bookings {
		if match(b) {
			bookings = append(bookings, *b)
		}
	}
	sort.Slice(bookings, func(i, j int) bool { return bookings[i].ID < bookings[j].ID })
	return bookings, nil
}
