// Package messaging publishes domain events to RabbitMQ.
package messaging

import (
	"context"
	"log/slog"
)

// Publisher emits domain events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, eventType string, data any) error
	Close() error
}

type contextKey string

const correlationIDKey contextKey = "correlation_id"

// WithCorrelationID adds a correlation ID to the context
func WithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return context.WithValue(ctx, correlationIDKey, correlationID)
}

func correlationID(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDKey).(string); ok {
		return id
	}
	return ""
}

// Emit publishes an event and logs a failure instead of returning it.
// State changes are already committed when events go out.
func Emit(ctx context.Context, p Publisher, logger *slog.Logger, eventType string, data any) {
	if err := p.Publish(ctx, eventType, data); err != nil {
		logger.Warn("Failed to publish event", "event_type", eventType, "error", err)
	}
}

// Noop discards events. Used when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, string, any) error { return nil }

func (Noop) Close() error { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	ch     chan *Event
	source string
}

// NewRecorder returns a Recorder buffering up to size events; further events are dropped.
func NewRecorder(size int) *Recorder {
	return &Recorder{ch: make(chan *Event, size), source: "recorder"}
}

func (r *Recorder) Publish(ctx context.Context, eventType string, data any) error {
	event, err := NewEvent(eventType, r.source, correlationID(ctx), data)
	if err != nil {
		return err
	}
	select {
	case r.ch <- event:
	default:
	}
	return nil
}

func (r *Recorder) Close() error { return nil }

// Types drains the buffer and returns the event types in publish order.
func (r *Recorder) Types() []string {
	var types []string
	for {
		select {
		case e := <-r.ch:
			types = append(types, e.Type)
		default:
			return types
		}
	}
}
