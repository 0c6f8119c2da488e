package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"roomly/internal/store"
	"roomly/internal/validation"
	"roomly/pkg/config"
	apperrors "roomly/pkg/errors"
	"roomly/pkg/kafka"
	"roomly/pkg/logger"
	"roomly/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, event kafka.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func newTestService(t *testing.T) (RoomService, *store.MemoryStore, *mockPublisher) {
	t.Helper()
	log := logger.Discard()
	st := store.NewMemoryStore()
	pub := &mockPublisher{}
	svc := NewRoomService(st, validation.NewRequestValidator(log), pub, &config.Config{Log: log})
	return svc, st, pub
}

func validRoom(name string) model.RoomRequest {
	return model.RoomRequest{
		Name:       name,
		Seats:      json.Number("10"),
		Amenities:  model.Blob(`["Projector","TV"]`),
		HourlyRate: json.Number("25.5"),
	}
}

func TestCreateRoom_Success(t *testing.T) {
	svc, _, pub := newTestService(t)
	pub.On("Publish", mock.Anything, mock.MatchedBy(func(e kafka.Event) bool {
		return e.Type == kafka.EventRoomCreated && e.Key == "1"
	})).Return(nil).Once()

	room, err := svc.CreateRoom(context.Background(), validRoom("  Board Room "))
	require.NoError(t, err)

	assert.Equal(t, int64(1), room.ID)
	assert.Equal(t, "Board Room", room.Name)
	assert.Equal(t, 10, room.Seats)
	assert.Equal(t, 25.5, room.HourlyRate)
	assert.Equal(t, model.Blob(`["Projector","TV"]`), room.Amenities)
	assert.False(t, room.IsBooked)
	pub.AssertExpectations(t)
}

func TestCreateRoom_SequentialIDs(t *testing.T) {
	svc, _, pub := newTestService(t)
	pub.On("Publish", mock.Anything, mock.Anything).Return(nil)

	for i := 1; i <= 3; i++ {
		room, err := svc.CreateRoom(context.Background(), validRoom(fmt.Sprintf("Room %d", i)))
		require.NoError(t, err)
		assert.Equal(t, int64(i), room.ID)
	}
}

func TestCreateRoom_MissingFields(t *testing.T) {
	svc, _, pub := newTestService(t)

	tests := []struct {
		name   string
		req    model.RoomRequest
		fields []string
	}{
		{
			name:   "empty request",
			req:    model.RoomRequest{},
			fields: []string{"name", "seats", "amenities", "hourly_rate"},
		},
		{
			name: "blank name after trimming",
			req: func() model.RoomRequest {
				r := validRoom("   ")
				return r
			}(),
			fields: []string{"name"},
		},
		{
			name: "zero seats count as absent",
			req: func() model.RoomRequest {
				r := validRoom("A")
				r.Seats = json.Number("0")
				return r
			}(),
			fields: []string{"seats"},
		},
		{
			name: "nil amenities",
			req: func() model.RoomRequest {
				r := validRoom("A")
				r.Amenities = nil
				return r
			}(),
			fields: []string{"amenities"},
		},
		{
			name: "null amenities",
			req: func() model.RoomRequest {
				r := validRoom("A")
				r.Amenities = model.Blob("null")
				return r
			}(),
			fields: []string{"amenities"},
		},
		{
			name: "empty string amenities",
			req: func() model.RoomRequest {
				r := validRoom("A")
				r.Amenities = model.Blob(`""`)
				return r
			}(),
			fields: []string{"amenities"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateRoom(context.Background(), tt.req)
			require.Error(t, err)
			appErr := apperrors.AsAppError(err)
			assert.Equal(t, apperrors.CodeMissingField, appErr.Code)
			assert.Equal(t, tt.fields, appErr.Details["fields"])
		})
	}
	pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestCreateRoom_EmptyAmenitiesArePresent(t *testing.T) {
	svc, _, pub := newTestService(t)
	pub.On("Publish", mock.Anything, mock.Anything).Return(nil)

	req := validRoom("Quiet Room")
	req.Amenities = model.Blob(`[]`)

	room, err := svc.CreateRoom(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, model.Blob(`[]`), room.Amenities)
}

func TestCreateRoom_AmenitiesStoredVerbatim(t *testing.T) {
	svc, st, pub := newTestService(t)
	pub.On("Publish", mock.Anything, mock.Anything).Return(nil)

	blobs := []string{
		`["Projector","projector"," Wi-Fi ",""]`,
		`"projector, wifi"`,
		`{"tv":true,"seats_layout":"u-shape"}`,
	}
	for i, blob := range blobs {
		req := validRoom(fmt.Sprintf("Room %d", i))
		require.NoError(t, json.Unmarshal([]byte(`{"amenities":`+blob+`}`), &req))

		room, err := svc.CreateRoom(context.Background(), req)
		require.NoError(t, err, blob)
		assert.Equal(t, blob, string(room.Amenities))

		stored, err := st.FindRoomByID(context.Background(), room.ID)
		require.NoError(t, err)
		assert.Equal(t, blob, string(stored.Amenities))

		out, err := json.Marshal(stored)
		require.NoError(t, err)
		assert.Contains(t, string(out), `"amenities":`+blob)
	}
}

func TestCreateRoom_InnerWhitespaceKept(t *testing.T) {
	svc, _, pub := newTestService(t)
	pub.On("Publish", mock.Anything, mock.Anything).Return(nil)

	room, err := svc.CreateRoom(context.Background(), validRoom(" Room  A "))
	require.NoError(t, err)
	assert.Equal(t, "Room  A", room.Name)
}

func TestCreateRoom_NumericShape(t *testing.T) {
	svc, st, pub := newTestService(t)
	pub.On("Publish", mock.Anything, mock.Anything).Return(nil)

	tests := []struct {
		name    string
		seats   any
		rate    any
		wantErr bool
		message string
	}{
		{"decimal seats", json.Number("4.5"), json.Number("10"), true, "`seats` must be an integer"},
		{"string seats", "4", json.Number("10"), true, "`seats` must be an integer"},
		{"negative seats", json.Number("-2"), json.Number("10"), true, "`seats` must be a positive integer"},
		{"string rate", json.Number("4"), "10", true, "`hourly_rate` must be an integer or float (decimal)"},
		{"negative rate", json.Number("4"), json.Number("-1.5"), true, "`hourly_rate` must be positive"},
		{"integer rate", json.Number("4"), json.Number("10"), false, ""},
		{"decimal rate", json.Number("4"), json.Number("10.75"), false, ""},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRoom(fmt.Sprintf("Room %d", i))
			req.Seats = tt.seats
			req.HourlyRate = tt.rate

			_, err := svc.CreateRoom(context.Background(), req)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			appErr := apperrors.AsAppError(err)
			assert.Equal(t, apperrors.CodeValidation, appErr.Code)
			assert.Equal(t, tt.message, appErr.Message)
		})
	}

	rooms, err := st.ListRooms(context.Background())
	require.NoError(t, err)
	assert.Len(t, rooms, 2, "rejected rooms are not stored")
}

func TestCreateRoom_DuplicateNameIgnoresCase(t *testing.T) {
	svc, _, pub := newTestService(t)
	pub.On("Publish", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.CreateRoom(context.Background(), validRoom("Room A"))
	require.NoError(t, err)

	_, err = svc.CreateRoom(context.Background(), validRoom("room a"))
	require.Error(t, err)
	appErr := apperrors.AsAppError(err)
	assert.Equal(t, apperrors.CodeDuplicateName, appErr.Code)
	assert.Equal(t, "A room with the same name already exists", appErr.Message)

	rooms, err := svc.ListRooms(context.Background())
	require.NoError(t, err)
	assert.Len(t, rooms, 1)
}

func TestCreateRoom_PublisherFailureDoesNotFail(t *testing.T) {
	svc, _, pub := newTestService(t)
	pub.On("Publish", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	room, err := svc.CreateRoom(context.Background(), validRoom("Room A"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), room.ID)
}

func TestCreateRoom_ConcurrentDuplicates(t *testing.T) {
	svc, _, pub := newTestService(t)
	pub.On("Publish", mock.Anything, mock.Anything).Return(nil)

	const n = 20
	var wg sync.WaitGroup
	var mu sync.Mutex
	created := 0
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := "Shared Room"
			if i%2 == 0 {
				name = "SHARED ROOM"
			}
			if _, err := svc.CreateRoom(context.Background(), validRoom(name)); err == nil {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, created)
}

func TestCreateCustomer(t *testing.T) {
	svc, _, pub := newTestService(t)
	pub.On("Publish", mock.Anything, mock.MatchedBy(func(e kafka.Event) bool {
		return e.Type == kafka.EventCustomerCreated
	})).Return(nil)

	customer, err := svc.CreateCustomer(context.Background(), model.CustomerRequest{Name: " Alice "})
	require.NoError(t, err)
	assert.Equal(t, int64(1), customer.ID)
	assert.Equal(t, "Alice", customer.Name)

	_, err = svc.CreateCustomer(context.Background(), model.CustomerRequest{Name: "ALICE"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeDuplicateName))

	_, err = svc.CreateCustomer(context.Background(), model.CustomerRequest{})
	require.Error(t, err)
	appErr := apperrors.AsAppError(err)
	assert.Equal(t, apperrors.CodeMissingField, appErr.Code)
	assert.Equal(t, []string{"name"}, appErr.Details["fields"])

	customers, err := svc.ListCustomers(context.Background())
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, "Alice", customers[0].Name)
}
