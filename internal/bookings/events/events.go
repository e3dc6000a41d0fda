package events

import (
	"context"
	"time"

	"venuebook/pkg/kafka"
	kafka_config "venuebook/pkg/kafka/config"
	kafka_middleware "venuebook/pkg/kafka/middleware"
	"venuebook/pkg/logger"
	"venuebook/pkg/middleware"
	"venuebook/pkg/model"
)

const (
	BookingCreated   = "booking.created"
	BookingConfirmed = "booking.confirmed"
	BookingCancelled = "booking.cancelled"

	schemaVersion = "1"
	source        = "bookings"
)

// BookingEvent is the payload of every booking lifecycle event.
type BookingEvent struct {
	BookingID  string          `json:"booking_id"`
	Venue      model.VenueType `json:"venue"`
	Date       time.Time       `json:"date"`
	StartTime  string          `json:"start_time"`
	EndTime    string          `json:"end_time"`
	Status     model.Status    `json:"status"`
	OccurredAt time.Time       `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, eventType string, booking *model.Booking) error
	Close() error
}

type producer interface {
	Publish(ctx context.Context, msg kafka.Message) error
	Close() error
}

type kafkaPublisher struct {
	producer producer
}

// NewPublisher returns a Kafka backed publisher, or a no-op one when no
// brokers are configured.
func NewPublisher(cfg *kafka_config.Config, log *logger.Logger) (Publisher, error) {
	if cfg == nil || !cfg.Enabled() {
		log.Info("Kafka brokers not configured, booking events disabled")
		return NoopPublisher(), nil
	}
	p, err := kafka.NewProducer(cfg, log)
	if err != nil {
		return nil, err
	}
	p.Use(kafka_middleware.LoggingProducerMiddleware(log))
	return &kafkaPublisher{producer: p}, nil
}

func (p *kafkaPublisher) Publish(ctx context.Context, eventType string, b *model.Booking) error {
	msg, err := kafka.NewMessage().
		WithKey(b.ID).
		WithValue(BookingEvent{
			BookingID:  b.ID,
			Venue:      b.VenueType,
			Date:       b.Date,
			StartTime:  b.StartTime,
			EndTime:    b.EndTime,
			Status:     b.EffectiveStatus(),
			OccurredAt: time.Now().UTC(),
		}).
		WithEventType(eventType).
		WithCorrelationID(middleware.RequestIDFrom(ctx)).
		WithSchemaVersion(schemaVersion).
		WithSource(source).
		Build()
	if err != nil {
		return err
	}
	return p.producer.Publish(ctx, msg)
}

func (p *kafkaPublisher) Close() error {
	return p.producer.Close()
}

type noopPublisher struct{}

func NoopPublisher() Publisher { return noopPublisher{} }

func (noopPublisher) Publish(context.Context, string, *model.Booking) error { return nil }

func (noopPublisher) Close() error { return nil }
