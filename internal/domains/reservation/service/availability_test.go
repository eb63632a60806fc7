package service_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"housing/infras/otel/mocks"
	"housing/internal/domains/reservation/service"
	roomModel "housing/internal/domains/room/model"
	"housing/shared/constant"
	gDto "housing/shared/dto"
	"housing/shared/event"
	"housing/shared/failure"
	"housing/shared/lock"
	lockMocks "housing/shared/lock/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newAvailability(t *testing.T, locker lock.Locker) (service.Availability, *fixture) {
	t.Helper()

	f := newFixture(t)
	if locker == nil {
		locker = lock.NewMemory(mocks.NewOtel(), time.Second)
	}

	return service.NewAvailability(f.repo, f.rooms, locker, f.publisher, f.cfg, f.cache, mocks.NewOtel()), f
}

func TestAvailability_ResyncLocked(t *testing.T) {
	tests := []struct {
		name       string
		count      int
		reserved   bool
		wantUpdate bool
	}{
		{name: "first reservation flags the room", count: 1, reserved: false, wantUpdate: true},
		{name: "last reservation gone clears the flag", count: 0, reserved: true, wantUpdate: true},
		{name: "flag already set is left alone", count: 3, reserved: true},
		{name: "flag already clear is left alone", count: 0, reserved: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			availability, f := newAvailability(t, nil)

			f.repo.EXPECT().CountByRoom(gomock.Any(), roomA).Return(tt.count, nil)
			f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(roomModel.Room{ID: roomA, Reserved: tt.reserved}, nil)

			if tt.wantUpdate {
				f.rooms.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, !tt.reserved, fields[roomModel.FieldReserved])
						assert.Equal(t, constant.ActorSystem, fields[constant.FieldModifiedBy])

						return nil
					})
				f.publisher.EXPECT().
					Publish(gomock.Any(), "room-availability", gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, events ...event.Event) error {
						assert.Equal(t, event.TypeRoomAvailabilityChanged, events[0].Type)
						assert.Equal(t, event.Availability{RoomID: roomA, Reserved: !tt.reserved}, events[0].Payload)

						return nil
					})
			}

			assert.NoError(t, availability.ResyncLocked(context.Background(), roomA))
		})
	}
}

func TestAvailability_ResyncLocked_Errors(t *testing.T) {
	t.Run("unknown room", func(t *testing.T) {
		availability, f := newAvailability(t, nil)

		f.repo.EXPECT().CountByRoom(gomock.Any(), roomA).Return(0, nil)
		f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(roomModel.Room{}, nil)

		err := availability.ResyncLocked(context.Background(), roomA)

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("count failure", func(t *testing.T) {
		availability, f := newAvailability(t, nil)

		f.repo.EXPECT().CountByRoom(gomock.Any(), roomA).Return(0, errors.New("connection refused"))

		assert.Error(t, availability.ResyncLocked(context.Background(), roomA))
	})

	t.Run("update failure", func(t *testing.T) {
		availability, f := newAvailability(t, nil)

		f.repo.EXPECT().CountByRoom(gomock.Any(), roomA).Return(1, nil)
		f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(roomModel.Room{ID: roomA}, nil)
		f.rooms.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("serialization failure"))

		assert.Error(t, availability.ResyncLocked(context.Background(), roomA))
	})

	t.Run("publish failure is not an error", func(t *testing.T) {
		availability, f := newAvailability(t, nil)

		f.repo.EXPECT().CountByRoom(gomock.Any(), roomA).Return(1, nil)
		f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(roomModel.Room{ID: roomA}, nil)
		f.rooms.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("broker down"))

		assert.NoError(t, availability.ResyncLocked(context.Background(), roomA))
	})
}

func TestAvailability_Resync(t *testing.T) {
	t.Run("takes the reservation lock of the room", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		locker := lockMocks.NewMockLocker(ctrl)
		availability, f := newAvailability(t, locker)

		released := false
		locker.EXPECT().
			Acquire(gomock.Any(), "reservation:room:"+roomA).
			Return(lock.Release(func() { released = true }), nil)
		f.repo.EXPECT().CountByRoom(gomock.Any(), roomA).Return(0, nil)
		f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(roomModel.Room{ID: roomA}, nil)

		require.NoError(t, availability.Resync(context.Background(), roomA))
		assert.True(t, released)
	})

	t.Run("busy room", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		locker := lockMocks.NewMockLocker(ctrl)
		availability, _ := newAvailability(t, locker)

		locker.EXPECT().Acquire(gomock.Any(), gomock.Any()).Return(nil, lock.ErrBusy)

		err := availability.Resync(context.Background(), roomA)

		assert.ErrorIs(t, err, lock.ErrBusy)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})
}

func TestAvailability_ResyncAll(t *testing.T) {
	t.Run("walks every page and counts corrections", func(t *testing.T) {
		availability, f := newAvailability(t, nil)

		firstPage := make([]roomModel.Room, 200)
		for i := range firstPage {
			firstPage[i] = roomModel.Room{ID: fmt.Sprintf("room-%03d", i)}
		}

		gomock.InOrder(
			f.rooms.EXPECT().
				GetAll(gomock.Any(), gDto.QueryParams{Page: 1, Limit: 200, SortBy: roomModel.FieldID, SortDir: gDto.SortDirAsc}, gomock.Any(), roomModel.FieldID).
				Return(firstPage, nil),
			f.rooms.EXPECT().
				GetAll(gomock.Any(), gDto.QueryParams{Page: 2, Limit: 200, SortBy: roomModel.FieldID, SortDir: gDto.SortDirAsc}, gomock.Any(), roomModel.FieldID).
				Return([]roomModel.Room{{ID: "room-200", Reserved: true}}, nil),
		)

		f.repo.EXPECT().CountByRoom(gomock.Any(), gomock.Any()).Return(0, nil).Times(200)
		f.repo.EXPECT().CountByRoom(gomock.Any(), "room-200").Return(0, nil)

		f.rooms.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, filter gDto.FilterGroup, _ ...string) (roomModel.Room, error) {
				_, args := filter.GetWhereClause()
				id, _ := args[roomModel.FieldID].(string)

				return roomModel.Room{ID: id, Reserved: id == "room-200"}, nil
			}).
			Times(201)
		f.rooms.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		changed, err := availability.ResyncAll(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 1, changed)
	})

	t.Run("room failures are joined", func(t *testing.T) {
		availability, f := newAvailability(t, nil)

		f.rooms.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]roomModel.Room{{ID: "room-1"}, {ID: "room-2"}}, nil)
		f.repo.EXPECT().CountByRoom(gomock.Any(), "room-1").Return(0, errors.New("timeout"))
		f.repo.EXPECT().CountByRoom(gomock.Any(), "room-2").Return(0, nil)
		f.rooms.EXPECT().Get(gomock.Any(), gomock.Any()).Return(roomModel.Room{ID: "room-2"}, nil)

		changed, err := availability.ResyncAll(context.Background())

		assert.Equal(t, 0, changed)
		assert.ErrorContains(t, err, "room room-1")
	})

	t.Run("listing failure stops the walk", func(t *testing.T) {
		availability, f := newAvailability(t, nil)

		f.rooms.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("connection refused"))

		_, err := availability.ResyncAll(context.Background())

		assert.Error(t, err)
	})
}
