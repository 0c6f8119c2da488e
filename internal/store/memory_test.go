package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"roomly/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SequentialIDs(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	for i := 1; i <= 3; i++ {
		room := &model.Room{Name: fmt.Sprintf("Room %d", i)}
		require.NoError(t, s.CreateRoom(ctx, room))
		assert.Equal(t, int64(i), room.ID)
	}

	customer := &model.Customer{Name: "Alice"}
	require.NoError(t, s.CreateCustomer(ctx, customer))
	assert.Equal(t, int64(1), customer.ID, "each collection counts from 1")

	booking := &model.Booking{Key: "k1", RoomID: 1}
	require.NoError(t, s.AppendBooking(ctx, booking))
	assert.Equal(t, int64(1), booking.ID)
}

func TestMemoryStore_DuplicateNamesIgnoreCase(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.CreateRoom(ctx, &model.Room{Name: "Room A"}))
	err := s.CreateRoom(ctx, &model.Room{Name: "room a"})
	assert.ErrorIs(t, err, ErrDuplicateName)

	require.NoError(t, s.CreateCustomer(ctx, &model.Customer{Name: "Alice"}))
	err = s.CreateCustomer(ctx, &model.Customer{Name: "ALICE"})
	assert.ErrorIs(t, err, ErrDuplicateName)

	rooms, err := s.ListRooms(ctx)
	require.NoError(t, err)
	assert.Len(t, rooms, 1)
}

func TestMemoryStore_Lookups(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.CreateRoom(ctx, &model.Room{Name: "Room A", Amenities: model.Blob(`["tv"]`)}))
	require.NoError(t, s.CreateCustomer(ctx, &model.Customer{Name: "Alice"}))

	room, err := s.FindRoomByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Room A", room.Name)

	_, err = s.FindRoomByID(ctx, 2)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.FindRoomByID(ctx, 0)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.FindCustomerByName(ctx, "Alice")
	assert.NoError(t, err)
	_, err = s.FindCustomerByName(ctx, "alice")
	assert.ErrorIs(t, err, ErrNotFound, "customer lookup is case-sensitive")
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.CreateRoom(ctx, &model.Room{Name: "Room A", Amenities: model.Blob(`["tv"]`)}))

	room, err := s.FindRoomByID(ctx, 1)
	require.NoError(t, err)
	room.IsBooked = true
	room.Amenities[2] = 'x'

	stored, err := s.FindRoomByID(ctx, 1)
	require.NoError(t, err)
	assert.False(t, stored.IsBooked)
	assert.Equal(t, model.Blob(`["tv"]`), stored.Amenities)
}

func TestMemoryStore_MarkRoomBooked(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.CreateRoom(ctx, &model.Room{Name: "Room A"}))

	require.NoError(t, s.MarkRoomBooked(ctx, 1))
	room, err := s.FindRoomByID(ctx, 1)
	require.NoError(t, err)
	assert.True(t, room.IsBooked)

	assert.ErrorIs(t, s.MarkRoomBooked(ctx, 9), ErrNotFound)
}

func TestMemoryStore_FindBookings(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	seed := []*model.Booking{
		{Key: "1", RoomID: 1, RoomName: "Room A", CustomerName: "Alice"},
		{Key: "2", RoomID: 2, RoomName: "Room B", CustomerName: "Alice"},
		{Key: "3", RoomID: 1, RoomName: "Room A", CustomerName: "Bob"},
		{Key: "4", RoomID: 1, RoomName: "Room A", CustomerName: "Alice"},
	}
	for _, b := range seed {
		require.NoError(t, s.AppendBooking(ctx, b))
	}

	roomID := int64(1)
	alice := "Alice"
	roomA := "Room A"

	byRoom, err := s.FindBookings(ctx, BookingFilter{RoomID: &roomID})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "3", "4"}, keys(byRoom))

	forAlice, err := s.FindBookings(ctx, BookingFilter{CustomerName: &alice, RoomName: &roomA})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "4"}, keys(forAlice))

	all, err := s.ListBookings(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	found, err := s.FindBookingByKey(ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, "Bob", found.CustomerName)

	_, err = s.FindBookingByKey(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.AppendBooking(ctx, &model.Booking{Key: "1"}), ErrDuplicateKey)
}

func TestMemoryStore_TransactionRollback(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.CreateRoom(ctx, &model.Room{Name: "Room A"}))

	boom := errors.New("boom")
	err := s.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		if err := s.AppendBooking(txCtx, &model.Booking{Key: "k", RoomID: 1}); err != nil {
			return err
		}
		if err := s.MarkRoomBooked(txCtx, 1); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	bookings, err := s.ListBookings(ctx)
	require.NoError(t, err)
	assert.Empty(t, bookings)

	room, err := s.FindRoomByID(ctx, 1)
	require.NoError(t, err)
	assert.False(t, room.IsBooked)

	next := &model.Booking{Key: "k2", RoomID: 1}
	require.NoError(t, s.AppendBooking(ctx, next))
	assert.Equal(t, int64(1), next.ID, "rolled back ids are handed out again")
}

func TestMemoryStore_TransactionCommit(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.CreateRoom(ctx, &model.Room{Name: "Room A"}))

	err := s.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		if _, err := s.FindRoomByID(txCtx, 1); err != nil {
			return err
		}
		if err := s.AppendBooking(txCtx, &model.Booking{Key: "k", RoomID: 1}); err != nil {
			return err
		}
		return s.MarkRoomBooked(txCtx, 1)
	})
	require.NoError(t, err)

	room, err := s.FindRoomByID(ctx, 1)
	require.NoError(t, err)
	assert.True(t, room.IsBooked)
}

func TestMemoryStore_ConcurrentCreatesKeepIDsDense(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = s.CreateCustomer(ctx, &model.Customer{Name: fmt.Sprintf("customer-%d", i)})
		}(i)
	}
	wg.Wait()

	customers, err := s.ListCustomers(ctx)
	require.NoError(t, err)
	require.Len(t, customers, n)
	for i, c := range customers {
		assert.Equal(t, int64(i+1), c.ID)
	}
}

func keys(bookings []*model.Booking) []string {
	out := make([]string, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, b.Key)
	}
	return out
}

func TestMemoryStore_TransactionSkippedWhenContextDone(t *testing.T) {
	s := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ran := false
	err := s.ExecuteTransaction(ctx, func(context.Context) error {
		ran = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, ran)
}

func TestMemoryStore_TransactionRollsBackWhenContextEnds(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.CreateRoom(context.Background(), &model.Room{Name: "Room A"}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err := s.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		if err := s.AppendBooking(txCtx, &model.Booking{Key: "k", RoomID: 1}); err != nil {
			return err
		}
		if err := s.MarkRoomBooked(txCtx, 1); err != nil {
			return err
		}
		cancel()
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)

	bookings, err := s.ListBookings(context.Background())
	require.NoError(t, err)
	assert.Empty(t, bookings)

	room, err := s.FindRoomByID(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, room.IsBooked)
}

func TestMemoryStore_TransactionContextIsPerStore(t *testing.T) {
	ctx := context.Background()
	first := NewMemoryStore()
	second := NewMemoryStore()
	require.NoError(t, second.CreateRoom(ctx, &model.Room{Name: "Room A"}))

	boom := errors.New("boom")
	err := first.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		// second must open its own transaction, with its own rollback.
		return second.ExecuteTransaction(txCtx, func(innerCtx context.Context) error {
			if err := second.AppendBooking(innerCtx, &model.Booking{Key: "k", RoomID: 1}); err != nil {
				return err
			}
			return boom
		})
	})
	assert.ErrorIs(t, err, boom)

	bookings, err := second.ListBookings(ctx)
	require.NoError(t, err)
	assert.Empty(t, bookings)
}
