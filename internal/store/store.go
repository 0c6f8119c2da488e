// Package store owns the rooms, customers and bookings collections.
package store

import (
	"context"
	"errors"

	"roomly/pkg/model"
)

var (
	ErrNotFound = errors.New("entity not found")

	ErrDuplicateName = errors.New("an entity with the same name already exists")

	ErrDuplicateKey = errors.New("a booking with the same key already exists")
)

// TransactionFunc runs inside ExecuteTransaction. Store calls made with the
// ctx it receives take part in the transaction.
type TransactionFunc func(ctx context.Context) error

// BookingFilter narrows FindBookings. Nil fields match everything; set
// fields match exactly.
type BookingFilter struct {
	RoomID       *int64
	CustomerName *string
	RoomName     *string
}

func (f BookingFilter) Matches(b *model.Booking) bool {
	if f.RoomID != nil && b.RoomID != *f.RoomID {
		return false
	}
	if f.CustomerName != nil && b.CustomerName != *f.CustomerName {
		return false
	}
	if f.RoomName != nil && b.RoomName != *f.RoomName {
		return false
	}
	return true
}

// Store is the persistence boundary. Identifiers are assigned by the store,
// start at 1 and are never reused. Listings are returned in insertion order.
type Store interface {
	CreateRoom(ctx context.Context, room *model.Room) error
	ListRooms(ctx context.Context) ([]*model.Room, error)
	FindRoomByID(ctx context.Context, id int64) (*model.Room, error)
	MarkRoomBooked(ctx context.Context, id int64) error

	CreateCustomer(ctx context.Context, customer *model.Customer) error
	ListCustomers(ctx context.Context) ([]*model.Customer, error)
	FindCustomerByName(ctx context.Context, name string) (*model.Customer, error)

	AppendBooking(ctx context.Context, booking *model.Booking) error
	ListBookings(ctx context.Context) ([]*model.Booking, error)
	FindBookings(ctx context.Context, filter BookingFilter) ([]*model.Booking, error)
	FindBookingByKey(ctx context.Context, key string) (*model.Booking, error)

	ExecuteTransaction(ctx context.Context, fn TransactionFunc) error
	Ping(ctx context.Context) error
}
