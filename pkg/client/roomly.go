package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"roomly/pkg/model"
)

// RoomlyClient is a typed client for the public booking API.
type RoomlyClient struct {
	httpClient     *HttpClient
	idempotencyKey string
}

func NewRoomlyClient(baseURL string) *RoomlyClient {
	return &RoomlyClient{httpClient: NewHttpClient(baseURL)}
}

// HTTP exposes the underlying client for raw requests.
func (c *RoomlyClient) HTTP() *HttpClient {
	return c.httpClient
}

// WithIdempotencyKey returns a copy whose write calls carry key.
func (c *RoomlyClient) WithIdempotencyKey(key string) *RoomlyClient {
	clone := *c
	clone.idempotencyKey = key
	return &clone
}

func (c *RoomlyClient) CreateRoom(ctx context.Context, req model.RoomRequest) (*model.Room, error) {
	var room model.Room
	if err := c.post(ctx, "/api/v1/rooms", req, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

func (c *RoomlyClient) ListRooms(ctx context.Context) ([]model.Room, error) {
	var rooms []model.Room
	if err := c.get(ctx, "/api/v1/rooms", &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

func (c *RoomlyClient) CreateCustomer(ctx context.Context, name string) (*model.Customer, error) {
	var customer model.Customer
	if err := c.post(ctx, "/api/v1/customers", model.CustomerRequest{Name: name}, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

func (c *RoomlyClient) ListCustomers(ctx context.Context) ([]model.Customer, error) {
	var customers []model.Customer
	if err := c.get(ctx, "/api/v1/customers", &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

func (c *RoomlyClient) Book(ctx context.Context, req model.BookingRequest) (*model.Booking, error) {
	var booking model.Booking
	if err := c.post(ctx, "/api/v1/bookings", req, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

func (c *RoomlyClient) ListBookings(ctx context.Context) ([]model.Booking, error) {
	var bookings []model.Booking
	if err := c.get(ctx, "/api/v1/bookings", &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (c *RoomlyClient) ListBookingsFor(ctx context.Context, customerName, roomName string) ([]model.Booking, error) {
	path := "/api/v1/bookings/" + url.PathEscape(customerName) + "/" + url.PathEscape(roomName)

	var bookings []model.Booking
	if err := c.get(ctx, path, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (c *RoomlyClient) post(ctx context.Context, path string, body, target any) error {
	var headers map[string]string
	if c.idempotencyKey != "" {
		headers = map[string]string{"Idempotency-Key": c.idempotencyKey}
	}

	resp, err := c.httpClient.POSTWithHeaders(ctx, path, body, headers)
	if err != nil {
		return err
	}
	return decodeData(resp, target)
}

func (c *RoomlyClient) get(ctx context.Context, path string, target any) error {
	resp, err := c.httpClient.GET(ctx, path)
	if err != nil {
		return err
	}
	return decodeData(resp, target)
}

func decodeData(resp *Response, target any) error {
	if err := AsAPIError(resp); err != nil {
		return err
	}

	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	if err := resp.DecodeJSON(&wrapper); err != nil {
		return fmt.Errorf("could not decode response wrapper: %s: %w", resp.String(), err)
	}
	if err := json.Unmarshal(wrapper.Data, target); err != nil {
		return fmt.Errorf("could not decode response data: %w", err)
	}
	return nil
}
