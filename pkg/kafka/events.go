package kafka

import (
	"context"
	"time"

	"roomly/pkg/logger"
)

const (
	EventRoomCreated     = "room.created"
	EventCustomerCreated = "customer.created"
	EventBookingCreated  = "booking.created"

	eventSchemaVersion = "1"
)

// Event is a domain event published after a successful write.
type Event struct {
	Type          string
	Key           string
	CorrelationID string
	Payload       any
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// EventPublisher publishes domain events through a Producer. Publishing is
// detached from the caller's context so a finished request does not cancel
// an in-flight write.
type EventPublisher struct {
	producer *Producer
	source   string
	timeout  time.Duration
	log      *logger.Logger
}

func NewEventPublisher(producer *Producer, source string, timeout time.Duration, log *logger.Logger) *EventPublisher {
	return &EventPublisher{
		producer: producer,
		source:   source,
		timeout:  timeout,
		log:      log,
	}
}

func (p *EventPublisher) Publish(ctx context.Context, event Event) error {
	msg, err := NewMessage().
		WithKey(event.Key).
		WithValue(event.Payload).
		WithEventType(event.Type).
		WithSource(p.source).
		WithCorrelationID(event.CorrelationID).
		WithHeader(HeaderSchemaVersion, eventSchemaVersion).
		Build()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	if err := p.producer.Publish(ctx, msg); err != nil {
		p.log.Warn("Failed to publish event",
			"event_type", event.Type,
			"key", event.Key,
			"event_id", msg.GetEventID(),
			"error", err,
		)
		return err
	}
	return nil
}

func (p *EventPublisher) Close() error {
	return p.producer.Close()
}

// NopPublisher drops every event. It is used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

var (
	_ Publisher = (*EventPublisher)(nil)
	_ Publisher = NopPublisher{}
)
