// Package event publishes domain facts about reservations and room availability.
package event

//go:generate go run go.uber.org/mock/mockgen -source=./event.go -destination=./mocks/event_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"housing/config"
	"housing/infras/kafka"
	"housing/infras/otel"
	"housing/shared/constant"

	"github.com/rs/zerolog/log"
)

const (
	TypeReservationCreated       = "reservation.created"
	TypeReservationUpdated       = "reservation.updated"
	TypeReservationDeleted       = "reservation.deleted"
	TypeRoomAvailabilityChanged  = "room.availability.changed"
	TypeRoomAvailabilityDiverged = "room.availability.diverged"
)

type Event struct {
	Type       string    `json:"type"`
	Key        string    `json:"key"`
	Payload    any       `json:"payload,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Availability is the payload of room availability events.
type Availability struct {
	RoomID   string `json:"room_id"`
	Reserved bool   `json:"reserved"`
	Reason   string `json:"reason,omitempty"`
}

type Publisher interface {
	Publish(ctx context.Context, topic string, events ...Event) error
}

// New returns a Kafka backed publisher, or one that drops events when Kafka is disabled.
func New(cfg *config.Config, client kafka.Client, otl otel.Otel) Publisher {
	if !cfg.Kafka.Enable {
		log.Info().Msg("Kafka disabled, domain events will not be published")

		return noopPublisher{}
	}

	return &kafkaPublisher{client: client, otel: otl}
}

type kafkaPublisher struct {
	client kafka.Client
	otel   otel.Otel
}

func (p *kafkaPublisher) Publish(ctx context.Context, topic string, events ...Event) (err error) {
	ctx, scope := p.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".Publish")
	defer scope.End()
	defer scope.TraceIfError(&err)

	scope.SetAttribute("event.topic", topic)

	messages := make([]kafka.Message, 0, len(events))
	for _, ev := range events {
		messages = append(messages, kafka.Message{Key: ev.Key, Value: ev})
	}

	if err = p.client.SendMessages(ctx, topic, messages...); err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("failed to publish events")

		return fmt.Errorf("failed to publish events: %w", err)
	}

	return nil
}

type noopPublisher struct{}

func (noopPublisher) Publish(_ context.Context, topic string, events ...Event) error {
	for _, ev := range events {
		log.Debug().Str("topic", topic).Str("type", ev.Type).Str("key", ev.Key).Msg("event dropped")
	}

	return nil
}
