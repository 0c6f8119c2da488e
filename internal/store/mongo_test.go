package store

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"roomly/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TestBuildBookingFilter(t *testing.T) {
	roomID := int64(3)
	name := "Alice"

	assert.Equal(t, bson.M{}, buildBookingFilter(BookingFilter{}))
	assert.Equal(t, bson.M{"room_id": int64(3)}, buildBookingFilter(BookingFilter{RoomID: &roomID}))
	assert.Equal(t,
		bson.M{"customer_name": "Alice", "room_name": "Room A"},
		buildBookingFilter(BookingFilter{CustomerName: &name, RoomName: ptr("Room A")}),
	)
}

func ptr(s string) *string { return &s }

// newTestMongoStore connects to ROOMLY_TEST_MONGO_URI and returns a store on a
// throwaway database. Tests are skipped when the variable is unset.
func newTestMongoStore(t *testing.T) *MongoStore {
	t.Helper()

	uri := os.Getenv("ROOMLY_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("ROOMLY_TEST_MONGO_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)

	dbName := fmt.Sprintf("roomly_test_%d", time.Now().UnixNano())
	t.Cleanup(func() {
		_ = client.Database(dbName).Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})

	s := NewMongoStore(client, dbName, MongoConfig{ReadTimeout: 5 * time.Second, WriteTimeout: 5 * time.Second})
	require.NoError(t, s.EnsureIndexes(ctx))
	return s
}

func TestMongoStore_RoomsAndCustomers(t *testing.T) {
	s := newTestMongoStore(t)
	ctx := context.Background()

	first := &model.Room{Name: "Room A", Seats: 4, Amenities: model.Blob(`["tv"]`), HourlyRate: 10}
	require.NoError(t, s.CreateRoom(ctx, first))
	assert.Equal(t, int64(1), first.ID)

	second := &model.Room{Name: "Room B", Seats: 8, HourlyRate: 12.5}
	require.NoError(t, s.CreateRoom(ctx, second))
	assert.Equal(t, int64(2), second.ID)

	assert.ErrorIs(t, s.CreateRoom(ctx, &model.Room{Name: "ROOM a"}), ErrDuplicateName)

	rooms, err := s.ListRooms(ctx)
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, "Room A", rooms[0].Name)
	assert.Equal(t, model.Blob(`["tv"]`), rooms[0].Amenities)
	assert.Empty(t, rooms[1].Amenities)

	require.NoError(t, s.CreateCustomer(ctx, &model.Customer{Name: "Alice"}))
	assert.ErrorIs(t, s.CreateCustomer(ctx, &model.Customer{Name: "alice"}), ErrDuplicateName)

	_, err = s.FindCustomerByName(ctx, "alice")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMongoStore_Bookings(t *testing.T) {
	s := newTestMongoStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateRoom(ctx, &model.Room{Name: "Room A", Seats: 4, HourlyRate: 10}))

	booking := &model.Booking{Key: "1-Alice-2024-05-01-09:00-10:00", RoomID: 1, RoomName: "Room A", CustomerName: "Alice"}
	require.NoError(t, s.AppendBooking(ctx, booking))
	assert.Equal(t, int64(1), booking.ID)
	require.NoError(t, s.MarkRoomBooked(ctx, 1))

	assert.ErrorIs(t, s.AppendBooking(ctx, &model.Booking{Key: booking.Key}), ErrDuplicateKey)

	room, err := s.FindRoomByID(ctx, 1)
	require.NoError(t, err)
	assert.True(t, room.IsBooked)

	found, err := s.FindBookingByKey(ctx, booking.Key)
	require.NoError(t, err)
	assert.Equal(t, "Alice", found.CustomerName)
}
