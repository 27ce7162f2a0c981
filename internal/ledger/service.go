// Package ledger consumes wizard submission events into a Postgres audit table.
package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/ariefcatur/go-storefront/internal/kafka"
	"github.com/ariefcatur/go-storefront/internal/logger"
	"github.com/ariefcatur/go-storefront/internal/redisx"
	"github.com/ariefcatur/go-storefront/internal/storefront"
)

type Recorder interface {
	Record(ctx context.Context, e Entry) (bool, error)
}

// Deduper is the fast-path replay filter in front of the ledger table.
type Deduper interface {
	Seen(ctx context.Context, eventID string) (bool, error)
	Mark(ctx context.Context, eventID string) error
}

type RedisDedup struct {
	Redis   *redis.Client
	Service string
}

func (d *RedisDedup) key(eventID string) string {
	return fmt.Sprintf(redisx.KeyDedup, d.Service, eventID)
}

func (d *RedisDedup) Seen(ctx context.Context, eventID string) (bool, error) {
	return redisx.Exists(ctx, d.Redis, d.key(eventID))
}

func (d *RedisDedup) Mark(ctx context.Context, eventID string) error {
	return d.Redis.Set(ctx, d.key(eventID), "1", redisx.TTLDedup).Err()
}

type Service struct {
	Repo  Recorder
	Dedup Deduper // optional
	Log   *logger.Logger
}

// HandleSubmission is installed as the consumer handler.
func (s *Service) HandleSubmission(ctx context.Context, m kafkago.Message) error {
	env, err := kafkax.UnmarshalEnvelope(m.Value)
	if err != nil {
		// poison message, committing it is the only way forward
		s.log().Error("drop undecodable message", "offset", m.Offset, "err", err)
		return nil
	}

	if s.Dedup != nil {
		if seen, err := s.Dedup.Seen(ctx, env.EventID); err != nil {
			s.log().Warn("dedup lookup failed", "event_id", env.EventID, "err", err)
		} else if seen {
			return nil
		}
	}

	entry, ok, err := toEntry(env)
	if err != nil {
		s.log().Error("drop event with bad payload", "event_id", env.EventID, "event_type", env.EventType, "err", err)
		return nil
	}
	if !ok {
		return nil
	}

	inserted, err := s.Repo.Record(ctx, entry)
	if err != nil {
		return fmt.Errorf("record %s: %w", env.EventID, err)
	}
	if s.Dedup != nil {
		if err := s.Dedup.Mark(ctx, env.EventID); err != nil {
			s.log().Warn("dedup mark failed", "event_id", env.EventID, "err", err)
		}
	}
	s.log().Debug("submission recorded", "event_id", env.EventID, "event_type", env.EventType, "inserted", inserted, "session_id", env.CorrelationID)
	return nil
}

func (s *Service) log() *logger.Logger {
	if s.Log == nil {
		return logger.Nop()
	}
	return s.Log
}

// toEntry maps a known event into a ledger row; ok is false for event types the
// ledger does not track.
func toEntry(env storefront.Envelope) (Entry, bool, error) {
	id, err := uuid.Parse(env.EventID)
	if err != nil {
		return Entry{}, false, fmt.Errorf("event id %q: %w", env.EventID, err)
	}
	e := Entry{
		EventID:    id.String(),
		EventType:  env.EventType,
		SessionID:  env.CorrelationID,
		TraceID:    env.TraceID,
		OccurredAt: env.OccurredAt,
		Outcome:    "completed",
	}
	switch env.EventType {
	case storefront.EventConfigurationSaved:
		p, err := kafkax.UnwrapPayload[storefront.ConfigurationSavedPayload](env.Payload)
		if err != nil {
			return e, false, err
		}
		e.Wizard, e.EntityID, e.Amount = storefront.WizardVehicle, p.ConfigurationID, p.TotalPrice
		e.Message = string(p.Status)
	case storefront.EventOrderPlaced:
		p, err := kafkax.UnwrapPayload[storefront.OrderPlacedPayload](env.Payload)
		if err != nil {
			return e, false, err
		}
		e.Wizard, e.EntityID, e.OrderID, e.Amount = storefront.WizardVehicle, p.ConfigurationID, p.OrderID, p.FinalPrice
	case storefront.EventAppointmentBooked:
		p, err := kafkax.UnwrapPayload[storefront.AppointmentBookedPayload](env.Payload)
		if err != nil {
			return e, false, err
		}
		e.Wizard, e.EntityID, e.Amount = storefront.WizardBooking, p.AppointmentID, p.TotalCost
	case storefront.EventSubmissionFailed:
		p, err := kafkax.UnwrapPayload[storefront.SubmissionFailedPayload](env.Payload)
		if err != nil {
			return e, false, err
		}
		e.Wizard, e.Outcome = p.Wizard, "failed"
		e.Message = fmt.Sprintf("%s: %s", p.Kind, p.Message)
	default:
		return e, false, nil
	}
	if e.SessionID == "" {
		return e, false, fmt.Errorf("missing correlation id")
	}
	return e, true, nil
}
