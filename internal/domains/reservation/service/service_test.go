package service_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"housing/config"
	"housing/infras/otel/mocks"
	centerMocks "housing/internal/domains/center/mocks"
	reasonMocks "housing/internal/domains/reason/mocks"
	reservationMocks "housing/internal/domains/reservation/mocks"
	"housing/internal/domains/reservation/model"
	"housing/internal/domains/reservation/model/dto"
	"housing/internal/domains/reservation/service"
	roomMocks "housing/internal/domains/room/mocks"
	"housing/internal/scheduling"
	cacheMocks "housing/shared/cache/mocks"
	"housing/shared/constant"
	gDto "housing/shared/dto"
	"housing/shared/event"
	eventMocks "housing/shared/event/mocks"
	"housing/shared/failure"
	"housing/shared/lock"
	lockMocks "housing/shared/lock/mocks"
	"housing/shared/timezone"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	roomA  = "7d6b7f5e-5f2c-4b8e-9b59-1a0d8f1a0001"
	roomB  = "7d6b7f5e-5f2c-4b8e-9b59-1a0d8f1a0002"
	reason = "0f0e4a58-6a34-4d8b-8d3f-2c1e9d4b0001"
	center = "c3a1b2d4-1111-4c2d-9e8f-000000000001"
)

var today = time.Date(2025, 3, 10, 9, 30, 0, 0, timezone.GetLocation())

func date(value string) time.Time {
	t, err := timezone.Parse(constant.DateOnlyFormat, value)
	if err != nil {
		panic(err)
	}

	return t
}

func span(id, start, end string) scheduling.Span {
	e := date(end)

	return scheduling.Span{ID: id, Start: date(start), End: &e}
}

type fixture struct {
	repo         *reservationMocks.MockReservation
	availability *reservationMocks.MockAvailability
	rooms        *roomMocks.MockRoom
	reasons      *reasonMocks.MockReason
	centers      *centerMocks.MockCenter
	publisher    *eventMocks.MockPublisher
	cache        *cacheMocks.MockRedisCache
	cfg          *config.Config
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := &fixture{
		repo:         reservationMocks.NewMockReservation(ctrl),
		availability: reservationMocks.NewMockAvailability(ctrl),
		rooms:        roomMocks.NewMockRoom(ctrl),
		reasons:      reasonMocks.NewMockReason(ctrl),
		centers:      centerMocks.NewMockCenter(ctrl),
		publisher:    eventMocks.NewMockPublisher(ctrl),
		cache:        cacheMocks.NewMockRedisCache(ctrl),
		cfg:          &config.Config{},
	}

	f.cfg.Cache.TTL = 3600
	f.cfg.Kafka.Topics.Reservation = "reservations"
	f.cfg.Kafka.Topics.RoomAvailability = "room-availability"

	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	// background cache invalidation must finish before the controller checks its calls
	t.Cleanup(func() { time.Sleep(10 * time.Millisecond) })

	return f
}

func (f *fixture) service(locker lock.Locker) service.Reservation {
	if locker == nil {
		locker = lock.NewMemory(mocks.NewOtel(), time.Second)
	}

	return service.New(f.repo, f.rooms, f.reasons, f.centers, f.availability, locker, timezone.Fixed(today), f.publisher, f.cfg, f.cache, mocks.NewOtel())
}

func (f *fixture) expectLookups() {
	f.rooms.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
	f.reasons.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
}

func TestReservationService_Create(t *testing.T) {
	t.Run("free room is reserved and flagged", func(t *testing.T) {
		f := newFixture(t)
		svc := f.service(nil)

		f.expectLookups()
		f.repo.EXPECT().
			FindOverlapping(gomock.Any(), roomA, date("2025-03-10"), date("2025-03-15"), "").
			Return([]scheduling.Span{}, nil)

		var inserted model.Reservation
		f.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, r model.Reservation) error {
				inserted = r

				return nil
			})
		f.availability.EXPECT().ResyncLocked(gomock.Any(), roomA).Return(nil)
		f.publisher.EXPECT().
			Publish(gomock.Any(), "reservations", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, events ...event.Event) error {
				require.Len(t, events, 1)
				assert.Equal(t, event.TypeReservationCreated, events[0].Type)

				return nil
			})

		ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "housing-office")
		res, err := svc.Create(ctx, dto.CreateReservationRequest{RoomID: roomA, ReasonID: reason, StartDate: "2025-03-10", EndDate: "2025-03-15"})

		require.NoError(t, err)
		assert.Equal(t, inserted.ID, res.ID)
		assert.Equal(t, "2025-03-10", res.StartDate)
		assert.Equal(t, "2025-03-15", res.EndDate)
		assert.Equal(t, "2025-03-10", res.CreationDate)
		assert.Equal(t, "housing-office", inserted.CreatedBy)
	})

	t.Run("overlap is rejected without writing", func(t *testing.T) {
		f := newFixture(t)
		svc := f.service(nil)

		f.expectLookups()
		f.repo.EXPECT().
			FindOverlapping(gomock.Any(), roomA, date("2025-03-12"), date("2025-03-14"), "").
			Return([]scheduling.Span{span("res-1", "2025-03-10", "2025-03-15")}, nil)

		_, err := svc.Create(context.Background(), dto.CreateReservationRequest{RoomID: roomA, ReasonID: reason, StartDate: "2025-03-12", EndDate: "2025-03-14"})

		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
		assert.EqualError(t, err, "reservation already exists for room/dates")
	})

	t.Run("back to back reservation is accepted", func(t *testing.T) {
		f := newFixture(t)
		svc := f.service(nil)

		f.expectLookups()
		f.repo.EXPECT().
			FindOverlapping(gomock.Any(), roomA, date("2025-03-15"), date("2025-03-20"), "").
			Return([]scheduling.Span{span("res-1", "2025-03-10", "2025-03-15")}, nil)
		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
		f.availability.EXPECT().ResyncLocked(gomock.Any(), roomA).Return(nil)
		f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		_, err := svc.Create(context.Background(), dto.CreateReservationRequest{RoomID: roomA, ReasonID: reason, StartDate: "2025-03-15", EndDate: "2025-03-20"})

		assert.NoError(t, err)
	})

	t.Run("interval is checked before any lookup", func(t *testing.T) {
		tests := []struct {
			name    string
			req     dto.CreateReservationRequest
			wantErr error
		}{
			{
				name:    "start after end",
				req:     dto.CreateReservationRequest{RoomID: roomA, ReasonID: reason, StartDate: "2025-03-15", EndDate: "2025-03-12"},
				wantErr: scheduling.ErrStartAfterEnd,
			},
			{
				name:    "missing end",
				req:     dto.CreateReservationRequest{RoomID: roomA, ReasonID: reason, StartDate: "2025-03-15"},
				wantErr: scheduling.ErrEndDateRequired,
			},
			{
				name:    "past start",
				req:     dto.CreateReservationRequest{RoomID: roomA, ReasonID: reason, StartDate: "2025-03-09", EndDate: "2025-03-12"},
				wantErr: scheduling.ErrDateInPast,
			},
			{
				name:    "single day",
				req:     dto.CreateReservationRequest{RoomID: roomA, ReasonID: reason, StartDate: "2025-03-12", EndDate: "2025-03-12"},
				wantErr: scheduling.ErrMinimumOneDay,
			},
			{
				name:    "unparseable date",
				req:     dto.CreateReservationRequest{RoomID: roomA, ReasonID: reason, StartDate: "12/03/2025", EndDate: "2025-03-14"},
				wantErr: failure.InvalidDateFormat,
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				f := newFixture(t)
				svc := f.service(nil)

				_, err := svc.Create(context.Background(), tt.req)

				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
			})
		}
	})

	t.Run("unknown room", func(t *testing.T) {
		f := newFixture(t)
		svc := f.service(nil)

		f.rooms.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		_, err := svc.Create(context.Background(), dto.CreateReservationRequest{RoomID: roomA, ReasonID: reason, StartDate: "2025-03-10", EndDate: "2025-03-15"})

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
		assert.EqualError(t, err, "room not found")
	})

	t.Run("unknown reason", func(t *testing.T) {
		f := newFixture(t)
		svc := f.service(nil)

		f.rooms.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.reasons.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		_, err := svc.Create(context.Background(), dto.CreateReservationRequest{RoomID: roomA, ReasonID: reason, StartDate: "2025-03-10", EndDate: "2025-03-15"})

		assert.EqualError(t, err, "reservation reason not found")
	})

	t.Run("storage failure is a server error", func(t *testing.T) {
		f := newFixture(t)
		svc := f.service(nil)

		f.expectLookups()
		f.repo.EXPECT().FindOverlapping(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("connection refused"))

		_, err := svc.Create(context.Background(), dto.CreateReservationRequest{RoomID: roomA, ReasonID: reason, StartDate: "2025-03-10", EndDate: "2025-03-15"})

		assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
	})

	t.Run("resync failure after insert is reported, not returned", func(t *testing.T) {
		f := newFixture(t)
		svc := f.service(nil)

		f.expectLookups()
		f.repo.EXPECT().FindOverlapping(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return([]scheduling.Span{}, nil)
		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
		f.availability.EXPECT().ResyncLocked(gomock.Any(), roomA).Return(errors.New("deadlock detected"))
		f.publisher.EXPECT().
			Publish(gomock.Any(), "room-availability", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, events ...event.Event) error {
				assert.Equal(t, event.TypeRoomAvailabilityDiverged, events[0].Type)
				assert.Equal(t, roomA, events[0].Key)

				return nil
			})
		f.publisher.EXPECT().Publish(gomock.Any(), "reservations", gomock.Any()).Return(errors.New("broker down"))

		_, err := svc.Create(context.Background(), dto.CreateReservationRequest{RoomID: roomA, ReasonID: reason, StartDate: "2025-03-10", EndDate: "2025-03-15"})

		assert.NoError(t, err)
	})
}

func TestReservationService_Update(t *testing.T) {
	existing := model.Reservation{
		ID:           "res-1",
		RoomID:       roomA,
		ReasonID:     reason,
		StartDate:    date("2025-03-10"),
		EndDate:      date("2025-03-15"),
		CreationDate: date("2025-03-01"),
	}

	t.Run("shifting within its own range excludes itself", func(t *testing.T) {
		f := newFixture(t)
		svc := f.service(nil)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing, nil).Times(2)
		f.expectLookups()
		f.repo.EXPECT().
			FindOverlapping(gomock.Any(), roomA, date("2025-03-11"), date("2025-03-14"), "res-1").
			Return([]scheduling.Span{span("res-1", "2025-03-10", "2025-03-15")}, nil)
		f.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, date("2025-03-11"), fields[model.FieldStartDate])
				assert.Equal(t, date("2025-03-14"), fields[model.FieldEndDate])

				return nil
			})
		f.availability.EXPECT().ResyncLocked(gomock.Any(), roomA).Return(nil)
		f.publisher.EXPECT().Publish(gomock.Any(), "reservations", gomock.Any()).Return(nil)

		res, err := svc.Update(context.Background(), dto.UpdateReservationRequest{RoomID: roomA, ReasonID: reason, StartDate: "2025-03-11", EndDate: "2025-03-14"}, "res-1")

		require.NoError(t, err)
		assert.Equal(t, "2025-03-11", res.StartDate)
		assert.Equal(t, "2025-03-01", res.CreationDate)
	})

	t.Run("moving rooms locks both and resyncs both", func(t *testing.T) {
		f := newFixture(t)

		ctrl := gomock.NewController(t)
		locker := lockMocks.NewMockLocker(ctrl)
		svc := f.service(locker)

		released := false
		locker.EXPECT().
			Acquire(gomock.Any(), "reservation:room:"+roomA, "reservation:room:"+roomB).
			Return(lock.Release(func() { released = true }), nil)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing, nil).Times(2)
		f.expectLookups()
		f.repo.EXPECT().FindOverlapping(gomock.Any(), roomB, gomock.Any(), gomock.Any(), "res-1").Return([]scheduling.Span{}, nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		gomock.InOrder(
			f.availability.EXPECT().ResyncLocked(gomock.Any(), roomA).Return(nil),
			f.availability.EXPECT().ResyncLocked(gomock.Any(), roomB).Return(nil),
		)
		f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		res, err := svc.Update(context.Background(), dto.UpdateReservationRequest{RoomID: roomB, ReasonID: reason, StartDate: "2025-03-10", EndDate: "2025-03-15"}, "res-1")

		require.NoError(t, err)
		assert.Equal(t, roomB, res.RoomID)
		assert.True(t, released)
	})

	t.Run("concurrent move is a conflict", func(t *testing.T) {
		f := newFixture(t)
		svc := f.service(nil)

		moved := existing
		moved.RoomID = roomB

		gomock.InOrder(
			f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing, nil),
			f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(moved, nil),
		)
		f.expectLookups()

		_, err := svc.Update(context.Background(), dto.UpdateReservationRequest{RoomID: roomA, ReasonID: reason, StartDate: "2025-03-11", EndDate: "2025-03-14"}, "res-1")

		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("overlap with another reservation", func(t *testing.T) {
		f := newFixture(t)
		svc := f.service(nil)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing, nil).Times(2)
		f.expectLookups()
		f.repo.EXPECT().
			FindOverlapping(gomock.Any(), roomA, gomock.Any(), gomock.Any(), "res-1").
			Return([]scheduling.Span{span("res-2", "2025-03-16", "2025-03-20")}, nil)

		_, err := svc.Update(context.Background(), dto.UpdateReservationRequest{RoomID: roomA, ReasonID: reason, StartDate: "2025-03-12", EndDate: "2025-03-18"}, "res-1")

		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("unknown reservation", func(t *testing.T) {
		f := newFixture(t)
		svc := f.service(nil)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Reservation{}, nil)

		_, err := svc.Update(context.Background(), dto.UpdateReservationRequest{RoomID: roomA, ReasonID: reason, StartDate: "2025-03-11", EndDate: "2025-03-14"}, "missing")

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("past dates are refused before the lookup", func(t *testing.T) {
		f := newFixture(t)
		svc := f.service(nil)

		_, err := svc.Update(context.Background(), dto.UpdateReservationRequest{RoomID: roomA, ReasonID: reason, StartDate: "2025-03-01", EndDate: "2025-03-14"}, "res-1")

		assert.ErrorIs(t, err, scheduling.ErrDateInPast)
	})
}

func TestReservationService_Delete(t *testing.T) {
	existing := model.Reservation{ID: "res-1", RoomID: roomA, StartDate: date("2025-03-10"), EndDate: date("2025-03-15")}

	t.Run("last reservation frees the room", func(t *testing.T) {
		f := newFixture(t)
		svc := f.service(nil)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing, nil).Times(2)
		f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
		f.availability.EXPECT().ResyncLocked(gomock.Any(), roomA).Return(nil)
		f.publisher.EXPECT().
			Publish(gomock.Any(), "reservations", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, events ...event.Event) error {
				assert.Equal(t, event.TypeReservationDeleted, events[0].Type)

				return nil
			})

		assert.NoError(t, svc.Delete(context.Background(), "res-1"))
	})

	t.Run("unknown reservation", func(t *testing.T) {
		f := newFixture(t)
		svc := f.service(nil)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Reservation{}, nil)

		err := svc.Delete(context.Background(), "missing")

		assert.EqualError(t, err, "reservation not found")
	})

	t.Run("storage failure", func(t *testing.T) {
		f := newFixture(t)
		svc := f.service(nil)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing, nil).Times(2)
		f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))

		err := svc.Delete(context.Background(), "res-1")

		assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
	})
}

func TestReservationService_ListByCenter(t *testing.T) {
	params := gDto.QueryParams{Page: 1, Limit: 10}

	t.Run("unknown center", func(t *testing.T) {
		f := newFixture(t)
		svc := f.service(nil)

		f.centers.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		_, err := svc.ListByCenter(context.Background(), center, params)

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("no reservation is no content", func(t *testing.T) {
		f := newFixture(t)
		svc := f.service(nil)

		f.centers.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
		f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, nil)
		f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Reservation{}, nil)

		_, err := svc.ListByCenter(context.Background(), center, params)

		assert.Equal(t, http.StatusNoContent, failure.GetCode(err))
	})

	t.Run("reservations of the center", func(t *testing.T) {
		f := newFixture(t)
		svc := f.service(nil)

		f.centers.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
		f.repo.EXPECT().
			Count(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (int, error) {
				where, args := filter.GetWhereClause()
				assert.Equal(t, "(floors.center_id = :center_id)", where)
				assert.Equal(t, center, args["center_id"])

				return 2, nil
			})
		f.repo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, p gDto.QueryParams, _ gDto.FilterGroup, _ ...string) ([]model.Reservation, error) {
				assert.Equal(t, "reservations.start_date", p.SortBy)

				return []model.Reservation{
					{ID: "res-1", RoomID: roomA, StartDate: date("2025-03-10"), EndDate: date("2025-03-15")},
					{ID: "res-2", RoomID: roomB, StartDate: date("2025-03-11"), EndDate: date("2025-03-12")},
				}, nil
			})

		res, err := svc.ListByCenter(context.Background(), center, params)

		require.NoError(t, err)
		assert.Equal(t, 2, res.TotalData)
		assert.Len(t, res.Reservations, 2)
	})
}

func TestReservationService_Get(t *testing.T) {
	t.Run("cache miss reads storage", func(t *testing.T) {
		f := newFixture(t)
		svc := f.service(nil)

		f.cache.EXPECT().Get(gomock.Any(), "reservation:get:res-1", gomock.Any()).Return(errors.New("cache miss"))
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Reservation{ID: "res-1", RoomID: roomA, StartDate: date("2025-03-10"), EndDate: date("2025-03-15")}, nil)

		res, err := svc.Get(context.Background(), "res-1")

		require.NoError(t, err)
		assert.Equal(t, roomA, res.RoomID)
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)
		svc := f.service(nil)

		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Reservation{}, nil)

		_, err := svc.Get(context.Background(), "res-9")

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestReservationService_Create_ConcurrentOverlaps(t *testing.T) {
	f := newFixture(t)
	svc := f.service(nil)

	var (
		mu     sync.Mutex
		stored []scheduling.Span
	)

	f.rooms.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil).AnyTimes()
	f.reasons.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil).AnyTimes()
	f.repo.EXPECT().
		FindOverlapping(gomock.Any(), roomA, gomock.Any(), gomock.Any(), "").
		DoAndReturn(func(context.Context, string, time.Time, time.Time, string) ([]scheduling.Span, error) {
			mu.Lock()
			spans := append([]scheduling.Span{}, stored...)
			mu.Unlock()

			// widen the window between the check and the insert
			time.Sleep(time.Millisecond)

			return spans, nil
		}).
		AnyTimes()
	f.repo.EXPECT().
		Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, r model.Reservation) error {
			mu.Lock()
			defer mu.Unlock()

			end := r.EndDate
			stored = append(stored, scheduling.Span{ID: r.ID, Start: r.StartDate, End: &end})

			return nil
		}).
		AnyTimes()
	f.availability.EXPECT().ResyncLocked(gomock.Any(), roomA).Return(nil).AnyTimes()
	f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	const attempts = 20

	var (
		wg        sync.WaitGroup
		conflicts int
		conflictM sync.Mutex
	)

	for range attempts {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := svc.Create(context.Background(), dto.CreateReservationRequest{RoomID: roomA, ReasonID: reason, StartDate: "2025-03-10", EndDate: "2025-03-15"})
			if err != nil {
				assert.Equal(t, http.StatusConflict, failure.GetCode(err))

				conflictM.Lock()
				conflicts++
				conflictM.Unlock()
			}
		}()
	}

	wg.Wait()

	assert.Len(t, stored, 1)
	assert.Equal(t, attempts-1, conflicts)
}
