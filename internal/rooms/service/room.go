package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"sync"

	"roomly/internal/store"
	"roomly/internal/validation"
	"roomly/pkg/config"
	apperrors "roomly/pkg/errors"
	"roomly/pkg/kafka"
	"roomly/pkg/middleware"
	"roomly/pkg/model"
	"roomly/pkg/sanitizer"
)

type RoomService interface {
	CreateRoom(ctx context.Context, req model.RoomRequest) (*model.Room, error)
	ListRooms(ctx context.Context) ([]*model.Room, error)

	CreateCustomer(ctx context.Context, req model.CustomerRequest) (*model.Customer, error)
	ListCustomers(ctx context.Context) ([]*model.Customer, error)
}

type roomService struct {
	// mu makes the duplicate-name check and the insert one step.
	mu        sync.Mutex
	store     store.Store
	validator *validation.RequestValidator
	publisher kafka.Publisher
	cfg       *config.Config
}

func NewRoomService(
	store store.Store,
	validator *validation.RequestValidator,
	publisher kafka.Publisher,
	cfg *config.Config,
) RoomService {
	return &roomService{
		store:     store,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
	}
}

// roomFields is the order missing fields are reported in.
var roomFields = []string{"name", "seats", "amenities", "hourly_rate"}

func (s *roomService) CreateRoom(ctx context.Context, req model.RoomRequest) (*model.Room, error) {
	req.Name = sanitizer.NormalizeName(req.Name)

	if missing := s.missingRoomFields(req); len(missing) > 0 {
		s.cfg.Log.Warn("Room request is missing fields", "fields", missing)
		return nil, apperrors.MissingField(missing...)
	}

	seats, err := parseSeats(req.Seats)
	if err != nil {
		return nil, err
	}
	rate, err := parseHourlyRate(req.HourlyRate)
	if err != nil {
		return nil, err
	}

	room := &model.Room{
		Name:       req.Name,
		Seats:      seats,
		Amenities:  slices.Clone(req.Amenities),
		HourlyRate: rate,
		IsBooked:   false,
	}

	s.mu.Lock()
	err = s.store.CreateRoom(ctx, room)
	s.mu.Unlock()

	if err != nil {
		if errors.Is(err, store.ErrDuplicateName) {
			return nil, apperrors.DuplicateName("Room", room.Name)
		}
		s.cfg.Log.Error("Failed to create room",
			"name", room.Name,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to create room", err)
	}

	s.cfg.Log.Info("Room created successfully",
		"room_id", room.ID,
		"name", room.Name,
		"seats", room.Seats,
	)

	s.publish(ctx, kafka.EventRoomCreated, room.ID, room)
	return room, nil
}

func (s *roomService) missingRoomFields(req model.RoomRequest) []string {
	absent := map[string]bool{}

	var fieldErrs validation.FieldErrors
	if err := s.validator.Validate(req); err != nil && errors.As(err, &fieldErrs) {
		for _, field := range fieldErrs.Missing() {
			absent[field] = true
		}
	}
	if validation.IsBlankValue(req.Seats) {
		absent["seats"] = true
	}
	if req.Amenities.IsEmpty() {
		absent["amenities"] = true
	}
	if validation.IsBlankValue(req.HourlyRate) {
		absent["hourly_rate"] = true
	}

	var missing []string
	for _, field := range roomFields {
		if absent[field] {
			missing = append(missing, field)
		}
	}
	return missing
}

func parseSeats(v any) (int, error) {
	if !validation.IsIntegerValue(v) {
		return 0, apperrors.Validation("`seats` must be an integer", map[string]any{
			"field": "seats",
		})
	}
	f, _ := validation.AsFloat(v)
	if f <= 0 || f > math.MaxInt32 {
		return 0, apperrors.Validation("`seats` must be a positive integer", map[string]any{
			"field": "seats",
			"value": strconv.FormatFloat(f, 'f', -1, 64),
		})
	}
	return int(f), nil
}

func parseHourlyRate(v any) (float64, error) {
	if !validation.IsIntegerValue(v) && !validation.IsDecimalValue(v) {
		return 0, apperrors.Validation("`hourly_rate` must be an integer or float (decimal)", map[string]any{
			"field": "hourly_rate",
		})
	}
	f, _ := validation.AsFloat(v)
	if f <= 0 {
		return 0, apperrors.Validation("`hourly_rate` must be positive", map[string]any{
			"field": "hourly_rate",
			"value": strconv.FormatFloat(f, 'f', -1, 64),
		})
	}
	return f, nil
}

func (s *roomService) ListRooms(ctx context.Context) ([]*model.Room, error) {
	rooms, err := s.store.ListRooms(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list rooms", "error", err)
		return nil, apperrors.Internal("Failed to retrieve rooms", err)
	}
	return rooms, nil
}

func (s *roomService) CreateCustomer(ctx context.Context, req model.CustomerRequest) (*model.Customer, error) {
	req.Name = sanitizer.NormalizeName(req.Name)

	if err := s.validator.Validate(req); err != nil {
		var fieldErrs validation.FieldErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs.Missing()) > 0 {
			return nil, apperrors.MissingField(fieldErrs.Missing()...)
		}
		return nil, apperrors.Validation("Customer validation failed", map[string]any{
			"errors": err,
		})
	}

	customer := &model.Customer{Name: req.Name}

	s.mu.Lock()
	err := s.store.CreateCustomer(ctx, customer)
	s.mu.Unlock()

	if err != nil {
		if errors.Is(err, store.ErrDuplicateName) {
			return nil, apperrors.DuplicateName("Customer", customer.Name)
		}
		s.cfg.Log.Error("Failed to create customer",
			"name", customer.Name,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to register customer", err)
	}

	s.cfg.Log.Info("Customer registered successfully",
		"customer_id", customer.ID,
		"name", customer.Name,
	)

	s.publish(ctx, kafka.EventCustomerCreated, customer.ID, customer)
	return customer, nil
}

func (s *roomService) ListCustomers(ctx context.Context) ([]*model.Customer, error) {
	customers, err := s.store.ListCustomers(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list customers", "error", err)
		return nil, apperrors.Internal("Failed to retrieve customers", err)
	}
	return customers, nil
}

func (s *roomService) publish(ctx context.Context, eventType string, id int64, payload any) {
	err := s.publisher.Publish(ctx, kafka.Event{
		Type:          eventType,
		Key:           fmt.Sprintf("%d", id),
		CorrelationID: middleware.RequestIDFromContext(ctx),
		Payload:       payload,
	})
	if err != nil {
		s.cfg.Log.Warn("Event not published",
			"event_type", eventType,
			"id", id,
			"error", err,
		)
	}
}
