package store

import (
	"context"
	"slices"
	"sync"

	"roomly/internal/validation"
	"roomly/pkg/model"
)

type txKey struct{}

// MemoryStore keeps every collection in process memory. Reads may run in
// parallel; writes and transactions are exclusive.
type MemoryStore struct {
	mu        sync.RWMutex
	rooms     []*model.Room
	customers []*model.Customer
	bookings  []*model.Booking

	lastRoomID     int64
	lastCustomerID int64
	lastBookingID  int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// lock and rlock are no-ops inside ExecuteTransaction, which already holds
// the write lock.
func (s *MemoryStore) lock(ctx context.Context) func() {
	if s.inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *MemoryStore) rlock(ctx context.Context) func() {
	if s.inTx(ctx) {
		return func() {}
	}
	s.mu.RLock()
	return s.mu.RUnlock
}

// inTx reports whether ctx belongs to a transaction of this store. A
// transaction context of another store does not hold this store's lock.
func (s *MemoryStore) inTx(ctx context.Context) bool {
	marked, _ := ctx.Value(txKey{}).(*MemoryStore)
	return marked == s
}

func (s *MemoryStore) CreateRoom(ctx context.Context, room *model.Room) error {
	defer s.lock(ctx)()

	if validation.IsDuplicateName(s.rooms, room.Name) {
		return ErrDuplicateName
	}
	s.lastRoomID++
	room.ID = s.lastRoomID
	s.rooms = append(s.rooms, cloneRoom(room))
	return nil
}

func (s *MemoryStore) ListRooms(ctx context.Context) ([]*model.Room, error) {
	defer s.rlock(ctx)()

	rooms := make([]*model.Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		rooms = append(rooms, cloneRoom(r))
	}
	return rooms, nil
}

func (s *MemoryStore) FindRoomByID(ctx context.Context, id int64) (*model.Room, error) {
	defer s.rlock(ctx)()

	if r := s.roomByID(id); r != nil {
		return cloneRoom(r), nil
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) MarkRoomBooked(ctx context.Context, id int64) error {
	defer s.lock(ctx)()

	r := s.roomByID(id)
	if r == nil {
		return ErrNotFound
	}
	r.IsBooked = true
	return nil
}

// roomByID relies on ids being assigned densely from 1.
func (s *MemoryStore) roomByID(id int64) *model.Room {
	if id < 1 || id > int64(len(s.rooms)) {
		return nil
	}
	return s.rooms[id-1]
}

func (s *MemoryStore) CreateCustomer(ctx context.Context, customer *model.Customer) error {
	defer s.lock(ctx)()

	if validation.IsDuplicateName(s.customers, customer.Name) {
		return ErrDuplicateName
	}
	s.lastCustomerID++
	customer.ID = s.lastCustomerID
	c := *customer
	s.customers = append(s.customers, &c)
	return nil
}

func (s *MemoryStore) ListCustomers(ctx context.Context) ([]*model.Customer, error) {
	defer s.rlock(ctx)()

	customers := make([]*model.Customer, 0, len(s.customers))
	for _, c := range s.customers {
		cp := *c
		customers = append(customers, &cp)
	}
	return customers, nil
}

func (s *MemoryStore) FindCustomerByName(ctx context.Context, name string) (*model.Customer, error) {
	defer s.rlock(ctx)()

	for _, c := range s.customers {
		if c.Name == name {
			cp := *c
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) AppendBooking(ctx context.Context, booking *model.Booking) error {
	defer s.lock(ctx)()

	for _, b := range s.bookings {
		if b.Key == booking.Key {
			return ErrDuplicateKey
		}
	}
	s.lastBookingID++
	booking.ID = s.lastBookingID
	b := *booking
	s.bookings = append(s.bookings, &b)
	return nil
}

func (s *MemoryStore) ListBookings(ctx context.Context) ([]*model.Booking, error) {
	return s.FindBookings(ctx, BookingFilter{})
}

func (s *MemoryStore) FindBookings(ctx context.Context, filter BookingFilter) ([]*model.Booking, error) {
	defer s.rlock(ctx)()

	bookings := make([]*model.Booking, 0)
	for _, b := range s.bookings {
		if filter.Matches(b) {
			cp := *b
			bookings = append(bookings, &cp)
		}
	}
	return bookings, nil
}

func (s *MemoryStore) FindBookingByKey(ctx context.Context, key string) (*model.Booking, error) {
	defer s.rlock(ctx)()

	for _, b := range s.bookings {
		if b.Key == key {
			cp := *b
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

// ExecuteTransaction runs fn under the write lock. If fn fails, or ctx is
// done by the time fn returns, bookings appended and rooms flagged during fn
// are rolled back. fn is not run at all when ctx is already done.
func (s *MemoryStore) ExecuteTransaction(ctx context.Context, fn TransactionFunc) error {
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	bookingCount := len(s.bookings)
	lastBookingID := s.lastBookingID
	booked := make([]bool, len(s.rooms))
	for i, r := range s.rooms {
		booked[i] = r.IsBooked
	}

	err := fn(context.WithValue(ctx, txKey{}, s))
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		s.bookings = s.bookings[:bookingCount]
		s.lastBookingID = lastBookingID
		for i := range booked {
			s.rooms[i].IsBooked = booked[i]
		}
		return err
	}
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

func cloneRoom(r *model.Room) *model.Room {
	cp := *r
	cp.Amenities = slices.Clone(r.Amenities)
	return &cp
}

var _ Store = (*MemoryStore)(nil)
