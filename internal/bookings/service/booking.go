package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"roomly/internal/overlap"
	"roomly/internal/store"
	"roomly/internal/validation"
	"roomly/pkg/config"
	apperrors "roomly/pkg/errors"
	"roomly/pkg/kafka"
	"roomly/pkg/middleware"
	"roomly/pkg/model"
	"roomly/pkg/sanitizer"
)

const (
	KindRooms     = "rooms"
	KindCustomers = "customers"
	KindBookings  = "bookings"
)

type BookingService interface {
	Book(ctx context.Context, req model.BookingRequest) (*model.Booking, error)

	ListAll(ctx context.Context, kind string) (any, error)
	ListBookings(ctx context.Context) ([]*model.Booking, error)
	ListBookingsFor(ctx context.Context, customerName, roomName string) ([]*model.Booking, error)
}

type Option func(*bookingService)

// WithClock replaces time.Now as the source of booked_at.
func WithClock(now func() time.Time) Option {
	return func(s *bookingService) {
		s.now = now
	}
}

type bookingService struct {
	// mu covers every check and the write that follows so that concurrent
	// bookings are decided one at a time.
	mu        sync.Mutex
	store     store.Store
	validator *validation.RequestValidator
	publisher kafka.Publisher
	cfg       *config.Config
	now       func() time.Time
}

func NewBookingService(
	store store.Store,
	validator *validation.RequestValidator,
	publisher kafka.Publisher,
	cfg *config.Config,
	opts ...Option,
) BookingService {
	s := &bookingService{
		store:     store,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *bookingService) Book(ctx context.Context, req model.BookingRequest) (*model.Booking, error) {
	req.CustomerName = sanitizer.NormalizeName(req.CustomerName)

	slot, err := s.validate(req)
	if err != nil {
		s.cfg.Log.Warn("Booking request rejected",
			"room_id", req.RoomID,
			"customer_name", req.CustomerName,
			"error", err,
		)
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// The caller may have given up while waiting for the lock.
	if err := ctx.Err(); err != nil {
		s.cfg.Log.Warn("Booking abandoned before it was processed",
			"room_id", req.RoomID,
			"customer_name", req.CustomerName,
			"error", err,
		)
		return nil, apperrors.Timeout("Booking request timed out")
	}

	var booking *model.Booking
	err = s.store.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		room, err := s.findRoom(txCtx, req.RoomID)
		if err != nil {
			return err
		}
		if err := s.findCustomer(txCtx, req.CustomerName); err != nil {
			return err
		}

		key := req.Key()
		if err := s.checkDuplicate(txCtx, key); err != nil {
			return err
		}
		if err := s.checkOverlap(txCtx, req.RoomID, slot); err != nil {
			return err
		}

		booking = &model.Booking{
			Key:          key,
			BookedAt:     s.now().UTC().Truncate(time.Millisecond),
			RoomName:     room.Name,
			RoomID:       room.ID,
			CustomerName: req.CustomerName,
			Date:         req.Date,
			StartTime:    req.StartTime,
			EndTime:      req.EndTime,
		}
		if err := s.store.AppendBooking(txCtx, booking); err != nil {
			if errors.Is(err, store.ErrDuplicateKey) {
				return apperrors.DuplicateBooking(key)
			}
			return fmt.Errorf("failed to append booking: %w", err)
		}
		if err := s.store.MarkRoomBooked(txCtx, room.ID); err != nil {
			return fmt.Errorf("failed to mark room booked: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			s.cfg.Log.Warn("Booking abandoned, nothing was stored",
				"room_id", req.RoomID,
				"customer_name", req.CustomerName,
				"error", err,
			)
			return nil, apperrors.Timeout("Booking request timed out")
		}
		if apperrors.IsAppError(err) {
			s.cfg.Log.Info("Booking rejected",
				"room_id", req.RoomID,
				"customer_name", req.CustomerName,
				"code", apperrors.AsAppError(err).Code,
			)
			return nil, err
		}
		s.cfg.Log.Error("Failed to create booking",
			"room_id", req.RoomID,
			"customer_name", req.CustomerName,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to create booking", err)
	}

	s.cfg.Log.Info("Booking created successfully",
		"booking_id", booking.ID,
		"booking_key", booking.Key,
		"room_id", booking.RoomID,
	)

	s.publish(ctx, booking)
	return booking, nil
}

// validate runs the checks that need no stored state: required fields first,
// then formats and the time range.
func (s *bookingService) validate(req model.BookingRequest) (overlap.Interval, error) {
	if err := s.validator.Validate(req); err != nil {
		var fieldErrs validation.FieldErrors
		if errors.As(err, &fieldErrs) {
			if missing := fieldErrs.Missing(); len(missing) > 0 {
				return overlap.Interval{}, apperrors.MissingField(missing...)
			}
		}
		return overlap.Interval{}, apperrors.Validation("Booking validation failed", map[string]any{
			"errors": err,
		})
	}

	slot, err := overlap.FromSlot(req.Date, req.StartTime, req.EndTime)
	if err != nil {
		return overlap.Interval{}, apperrors.Validation("Booking validation failed", map[string]any{
			"error": err.Error(),
		})
	}
	if !slot.End.After(slot.Start) {
		return overlap.Interval{}, apperrors.Validation("end_time must be after start_time", map[string]any{
			"start_time": req.StartTime,
			"end_time":   req.EndTime,
		})
	}
	return slot, nil
}

func (s *bookingService) findRoom(ctx context.Context, id int64) (*model.Room, error) {
	room, err := s.store.FindRoomByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Room", fmt.Sprintf("%d", id))
		}
		return nil, fmt.Errorf("failed to find room: %w", err)
	}
	return room, nil
}

func (s *bookingService) findCustomer(ctx context.Context, name string) error {
	if _, err := s.store.FindCustomerByName(ctx, name); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.NotFound("Customer").WithDetails(map[string]any{
				"resource": "Customer",
				"name":     name,
			})
		}
		return fmt.Errorf("failed to find customer: %w", err)
	}
	return nil
}

func (s *bookingService) checkDuplicate(ctx context.Context, key string) error {
	_, err := s.store.FindBookingByKey(ctx, key)
	switch {
	case err == nil:
		return apperrors.DuplicateBooking(key)
	case errors.Is(err, store.ErrNotFound):
		return nil
	default:
		return fmt.Errorf("failed to check duplicate booking: %w", err)
	}
}

// checkOverlap compares slot with the bookings of the same room, or with all
// bookings when the overlap scope is global.
func (s *bookingService) checkOverlap(ctx context.Context, roomID int64, slot overlap.Interval) error {
	var filter store.BookingFilter
	if s.cfg.OverlapScope != config.OverlapScopeGlobal {
		filter.RoomID = &roomID
	}

	existing, err := s.store.FindBookings(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to load bookings: %w", err)
	}

	conflicting := make([]*model.Booking, 0)
	for _, b := range existing {
		other, err := overlap.FromSlot(b.Date, b.StartTime, b.EndTime)
		if err != nil {
			s.cfg.Log.Warn("Skipping booking with unreadable slot",
				"booking_id", b.ID,
				"error", err,
			)
			continue
		}
		if overlap.IntervalsOverlap(other, slot) {
			conflicting = append(conflicting, b)
		}
	}

	if len(conflicting) > 0 {
		return apperrors.Overlap(len(conflicting), conflicting)
	}
	return nil
}

func (s *bookingService) ListAll(ctx context.Context, kind string) (any, error) {
	var (
		result any
		err    error
	)
	switch kind {
	case KindRooms:
		result, err = s.store.ListRooms(ctx)
	case KindCustomers:
		result, err = s.store.ListCustomers(ctx)
	case KindBookings:
		result, err = s.store.ListBookings(ctx)
	default:
		return nil, apperrors.InvalidInput(fmt.Sprintf("unknown collection %q", kind))
	}
	if err != nil {
		s.cfg.Log.Error("Failed to list collection",
			"kind", kind,
			"error", err,
		)
		return nil, apperrors.Internal(fmt.Sprintf("Failed to retrieve %s", kind), err)
	}
	return result, nil
}

func (s *bookingService) ListBookings(ctx context.Context) ([]*model.Booking, error) {
	bookings, err := s.store.ListBookings(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings", "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}
	return bookings, nil
}

func (s *bookingService) ListBookingsFor(ctx context.Context, customerName, roomName string) ([]*model.Booking, error) {
	bookings, err := s.store.FindBookings(ctx, store.BookingFilter{
		CustomerName: &customerName,
		RoomName:     &roomName,
	})
	if err != nil {
		s.cfg.Log.Error("Failed to find bookings",
			"customer_name", customerName,
			"room_name", roomName,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}
	return bookings, nil
}

func (s *bookingService) publish(ctx context.Context, booking *model.Booking) {
	err := s.publisher.Publish(ctx, kafka.Event{
		Type:          kafka.EventBookingCreated,
		Key:           fmt.Sprintf("%d", booking.RoomID),
		CorrelationID: middleware.RequestIDFromContext(ctx),
		Payload:       booking,
	})
	if err != nil {
		s.cfg.Log.Warn("Event not published",
			"event_type", kafka.EventBookingCreated,
			"booking_id", booking.ID,
			"error", err,
		)
	}
}
