package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
)

type fakeWriter struct {
	written []kafka.Message
	err     error
	closed  bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.written = append(f.written, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func buildMessage(t *testing.T, key string) Message {
	t.Helper()
	msg, err := NewMessage().
		WithKey(key).
		WithValue(map[string]string{"status": "confirmed"}).
		WithEventType("booking.confirmed").
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return msg
}

func TestProducer_Publish(t *testing.T) {
	writer := &fakeWriter{}
	p := newProducer(writer, "venuebook.bookings")

	if err := p.Publish(context.Background(), buildMessage(t, "booking-1")); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if len(writer.written) != 1 {
		t.Fatalf("expected 1 message written, got %d", len(writer.written))
	}
	if string(writer.written[0].Key) != "booking-1" {
		t.Errorf("key = %s, want booking-1", writer.written[0].Key)
	}

	var sawEventID bool
	for _, h := range writer.written[0].Headers {
		if h.Key == HeaderEventID && len(h.Value) > 0 {
			sawEventID = true
		}
	}
	if !sawEventID {
		t.Errorf("expected an event-id header")
	}
}

func TestProducer_RejectsInvalidMessages(t *testing.T) {
	p := newProducer(&fakeWriter{}, "topic")

	if err := p.Publish(context.Background(), Message{Value: []byte("{}")}); !errors.Is(err, ErrEmptyKey) {
		t.Errorf("expected ErrEmptyKey, got %v", err)
	}
	if err := p.Publish(context.Background(), Message{Key: "k"}); !errors.Is(err, ErrEmptyValue) {
		t.Errorf("expected ErrEmptyValue, got %v", err)
	}
}

func TestProducer_FailedWriteGoesToDLQ(t *testing.T) {
	writeErr := errors.New("broker unavailable")
	p := newProducer(&fakeWriter{err: writeErr}, "topic")
	dlq := &fakeWriter{}
	p.dlqWriter = dlq

	err := p.Publish(context.Background(), buildMessage(t, "booking-2"))
	if !errors.Is(err, writeErr) {
		t.Fatalf("expected original write error, got %v", err)
	}
	if len(dlq.written) != 1 {
		t.Fatalf("expected 1 DLQ message, got %d", len(dlq.written))
	}
}

func TestProducer_MiddlewareOrder(t *testing.T) {
	p := newProducer(&fakeWriter{}, "topic")
	var order []string
	p.Use(func(ctx context.Context, msg Message, next func(context.Context, Message) error) error {
		order = append(order, "outer")
		return next(ctx, msg)
	})
	p.Use(func(ctx context.Context, msg Message, next func(context.Context, Message) error) error {
		order = append(order, "inner")
		return next(ctx, msg)
	})

	if err := p.Publish(context.Background(), buildMessage(t, "booking-3")); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if len(order) != 2 || order[0] != "outer" || order[1] != "inner" {
		t.Errorf("middleware order = %v, want [outer inner]", order)
	}
}

func TestProducer_PublishAfterClose(t *testing.T) {
	writer := &fakeWriter{}
	p := newProducer(writer, "topic")

	if err := p.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !writer.closed {
		t.Errorf("expected writer to be closed")
	}
	if err := p.Publish(context.Background(), buildMessage(t, "booking-4")); !errors.Is(err, ErrProducerClosed) {
		t.Errorf("expected ErrProducerClosed, got %v", err)
	}
}

func TestMessageBuilder_ValueEncodingError(t *testing.T) {
	_, err := NewMessage().WithKey("k").WithValue(make(chan int)).Build()
	if err == nil {
		t.Errorf("expected encoding error for unsupported value")
	}
}
