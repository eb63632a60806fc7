package availability_test

import (
	"context"
	"errors"
	"testing"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"housing/config"
	kafkaMocks "housing/infras/kafka/mocks"
	"housing/infras/otel/mocks"
	reservationMocks "housing/internal/domains/reservation/mocks"
	"housing/internal/workers/availability"
	"housing/shared/failure"
)

const roomID = "6f1c0a5e-2b1e-4d55-9a43-9f1f2b0c7e11"

func newWorker(t *testing.T) (*availability.Worker, *reservationMocks.MockAvailability, *kafkaMocks.MockClient) {
	t.Helper()

	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.Kafka.ConsumerGroup = "housing-availability"
	cfg.Kafka.Topics.RoomAvailability = "room-availability"

	mockAvailability := reservationMocks.NewMockAvailability(ctrl)
	mockClient := kafkaMocks.NewMockClient(ctrl)

	return availability.New(mockClient, mockAvailability, cfg, mocks.NewOtel()), mockAvailability, mockClient
}

func TestWorker_Handle(t *testing.T) {
	tests := []struct {
		name      string
		message   kafkaGo.Message
		setupMock func(m *reservationMocks.MockAvailability)
		wantErr   error
		anyErr    bool
	}{
		{
			name: "divergence resyncs the room",
			message: kafkaGo.Message{
				Key:   []byte(roomID),
				Value: []byte(`{"type":"room.availability.diverged","key":"` + roomID + `","payload":{"room_id":"` + roomID + `","reserved":false,"reason":"count failed"}}`),
			},
			setupMock: func(m *reservationMocks.MockAvailability) {
				m.EXPECT().Resync(gomock.Any(), roomID).Return(nil)
			},
		},
		{
			name: "room id falls back to the message key",
			message: kafkaGo.Message{
				Key:   []byte(roomID),
				Value: []byte(`{"type":"room.availability.diverged","payload":{}}`),
			},
			setupMock: func(m *reservationMocks.MockAvailability) {
				m.EXPECT().Resync(gomock.Any(), roomID).Return(nil)
			},
		},
		{
			name: "changed events are ignored",
			message: kafkaGo.Message{
				Key:   []byte(roomID),
				Value: []byte(`{"type":"room.availability.changed","payload":{"room_id":"` + roomID + `","reserved":true}}`),
			},
			setupMock: func(_ *reservationMocks.MockAvailability) {},
		},
		{
			name:      "event without room",
			message:   kafkaGo.Message{Value: []byte(`{"type":"room.availability.diverged","payload":{}}`)},
			setupMock: func(_ *reservationMocks.MockAvailability) {},
			wantErr:   availability.ErrMissingRoom,
		},
		{
			name:      "malformed payload",
			message:   kafkaGo.Message{Value: []byte(`{not json`)},
			setupMock: func(_ *reservationMocks.MockAvailability) {},
			anyErr:    true,
		},
		{
			name: "resync failure is returned",
			message: kafkaGo.Message{
				Value: []byte(`{"type":"room.availability.diverged","payload":{"room_id":"` + roomID + `"}}`),
			},
			setupMock: func(m *reservationMocks.MockAvailability) {
				m.EXPECT().Resync(gomock.Any(), roomID).Return(failure.NotFound("room not found"))
			},
			anyErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			worker, mockAvailability, _ := newWorker(t)
			tt.setupMock(mockAvailability)

			err := worker.Handle(context.Background(), tt.message)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.anyErr:
				assert.Error(t, err)
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func TestWorker_Run(t *testing.T) {
	worker, _, mockClient := newWorker(t)

	mockClient.EXPECT().
		Consume(gomock.Any(), "housing-availability", "room-availability", gomock.Any()).
		Return(nil)

	assert.NoError(t, worker.Run(context.Background()))

	worker, _, mockClient = newWorker(t)

	mockClient.EXPECT().
		Consume(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("broker unreachable"))

	assert.Error(t, worker.Run(context.Background()))
}
