// Package availability repairs room availability flags that a reservation write
// could not bring back in line with the reservations table.
package availability

import (
	"context"
	"errors"
	"fmt"

	"housing/config"
	"housing/infras/kafka"
	"housing/infras/otel"
	"housing/internal/domains/reservation/service"
	"housing/shared/constant"
	"housing/shared/event"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

var ErrMissingRoom = errors.New("divergence event without room id")

type divergence struct {
	Type    string             `json:"type"`
	Payload event.Availability `json:"payload"`
}

type Worker struct {
	client       kafka.Client
	availability service.Availability
	cfg          *config.Config
	otel         otel.Otel
}

func New(client kafka.Client, availability service.Availability, cfg *config.Config, otel otel.Otel) *Worker {
	return &Worker{
		client:       client,
		availability: availability,
		cfg:          cfg,
		otel:         otel,
	}
}

// Run consumes the room availability topic until ctx is done.
func (w *Worker) Run(ctx context.Context) error {
	topic := w.cfg.Kafka.Topics.RoomAvailability

	log.Info().Str("topic", topic).Msg("Availability worker started")

	if err := w.client.Consume(ctx, w.cfg.Kafka.ConsumerGroup, topic, w.Handle); err != nil {
		return fmt.Errorf("failed to consume %s: %w", topic, err)
	}

	return nil
}

// Handle resyncs the room named by a divergence event. Other event types on the topic are ignored.
func (w *Worker) Handle(ctx context.Context, message kafkaGo.Message) (err error) {
	ctx, scope := w.otel.NewScope(ctx, constant.OtelWorkerScopeName, constant.OtelWorkerScopeName+".Handle")
	defer scope.End()
	defer scope.TraceIfError(&err)

	ev, err := kafka.Decode[divergence](message)
	if err != nil {
		return fmt.Errorf("failed to decode availability event: %w", err)
	}

	if ev.Type != event.TypeRoomAvailabilityDiverged {
		return nil
	}

	roomID := ev.Payload.RoomID
	if roomID == constant.Empty {
		roomID = string(message.Key)
	}

	if roomID == constant.Empty {
		return ErrMissingRoom
	}

	scope.SetAttribute("room.id", roomID)

	if err = w.availability.Resync(ctx, roomID); err != nil {
		log.Error().Err(err).Str("room_id", roomID).Msg("failed to repair room availability")

		return fmt.Errorf("failed to resync room %s: %w", roomID, err)
	}

	log.Info().Str("room_id", roomID).Str("cause", ev.Payload.Reason).Msg("room availability repaired")

	return nil
}
