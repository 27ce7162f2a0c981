package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/ariefcatur/go-storefront/internal/storefront"
)

const eventVersion = 1

type publisher interface {
	Publish(ctx context.Context, key, value []byte, headers ...kafka.Header) error
}

// Emitter wraps payloads in a v1 envelope keyed by the wizard session.
type Emitter struct {
	p        publisher
	producer string
	now      func() time.Time
}

func NewEmitter(p publisher, producer string) *Emitter {
	return &Emitter{p: p, producer: producer, now: time.Now}
}

func (e *Emitter) Emit(ctx context.Context, eventType, correlationID string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", eventType, err)
	}
	env := storefront.Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  eventVersion,
		OccurredAt:    e.now().UTC(),
		Producer:      e.producer,
		TraceID:       middleware.GetReqID(ctx),
		CorrelationID: correlationID,
		Payload:       raw,
	}
	return e.p.Publish(ctx, storefront.PartitionKey(correlationID), MustMarshal(env),
		kafka.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafka.Header{Key: "x-event-version", Value: []byte(strconv.Itoa(eventVersion))},
	)
}
