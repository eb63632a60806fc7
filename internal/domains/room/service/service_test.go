package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"housing/config"
	"housing/infras/otel/mocks"
	floorMocks "housing/internal/domains/floor/mocks"
	roomMocks "housing/internal/domains/room/mocks"
	"housing/internal/domains/room/model"
	"housing/internal/domains/room/model/dto"
	"housing/internal/domains/room/service"
	cacheMocks "housing/shared/cache/mocks"
	"housing/shared/constant"
	gDto "housing/shared/dto"
	"housing/shared/failure"
)

const floorID = "2b0d6c1e-9f7a-4e55-8d0b-3c4e5f6a7b80"

func TestRoomService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := roomMocks.NewMockRoom(ctrl)
	mockFloor := floorMocks.NewMockFloor(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, mockFloor, cfg, mockCache, mocks.NewOtel())

	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	notUsable := false

	tests := []struct {
		name       string
		req        dto.CreateRoomRequest
		setupMock  func()
		wantCode   int
		wantUsable bool
	}{
		{
			name: "usable by default",
			req:  dto.CreateRoomRequest{FloorID: floorID, Number: "B-104"},
			setupMock: func() {
				mockFloor.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				mockRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantUsable: true,
		},
		{
			name: "explicitly out of service",
			req:  dto.CreateRoomRequest{FloorID: floorID, Number: "B-105", Usable: &notUsable},
			setupMock: func() {
				mockFloor.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				mockRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "unknown floor",
			req:  dto.CreateRoomRequest{FloorID: floorID, Number: "B-104"},
			setupMock: func() {
				mockFloor.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "duplicate number on floor",
			req:  dto.CreateRoomRequest{FloorID: floorID, Number: "B-104"},
			setupMock: func() {
				mockFloor.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				mockRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(failure.Conflict("room conflicts with an existing record"))
			},
			wantCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "warden")
			res, err := svc.Create(ctx, tt.req)

			time.Sleep(10 * time.Millisecond)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.NotEmpty(t, res.ID)
			assert.Equal(t, tt.wantUsable, res.Usable)
			assert.False(t, res.Reserved)
			assert.Equal(t, "warden", res.CreatedBy)
		})
	}
}

func TestRoomService_GetAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := roomMocks.NewMockRoom(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, floorMocks.NewMockFloor(ctrl), cfg, mockCache, mocks.NewOtel())

	params := gDto.QueryParams{Page: 1, Limit: 10}
	filter := gDto.FilterGroup{Filters: []any{gDto.Filter{Field: model.FieldReserved, Value: false, Operator: gDto.FilterOperatorEq}}}

	tests := []struct {
		name      string
		setupMock func()
		wantErr   bool
		wantTotal int
	}{
		{
			name: "cache hit",
			setupMock: func() {
				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, value any) error {
						*value.(*dto.GetRoomsResponse) = dto.GetRoomsResponse{TotalData: 4, TotalPage: 1}

						return nil
					})
			},
			wantTotal: 4,
		},
		{
			name: "cache miss",
			setupMock: func() {
				mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).Times(2)
				mockRepo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(2, nil)
				mockRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Room{{ID: "r1"}, {ID: "r2"}}, nil)
				mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)
			},
			wantTotal: 2,
		},
		{
			name: "repository error",
			setupMock: func() {
				mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).Times(2)
				mockRepo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.GetAll(context.Background(), params, filter)

			time.Sleep(10 * time.Millisecond)

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantTotal, res.TotalData)
		})
	}
}

func TestRoomService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := roomMocks.NewMockRoom(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	cfg := &config.Config{}

	svc := service.New(mockRepo, floorMocks.NewMockFloor(ctrl), cfg, mockCache, mocks.NewOtel())

	mockCache.EXPECT().Get(gomock.Any(), "room:get:r1", gomock.Any()).Return(errors.New("cache miss"))
	mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{ID: "r1", Number: "A-1", Usable: true, Reserved: true}, nil)
	mockCache.EXPECT().Save(gomock.Any(), "room:get:r1", gomock.Any(), gomock.Any()).Return(nil)

	res, err := svc.Get(context.Background(), "r1")

	time.Sleep(10 * time.Millisecond)

	assert.NoError(t, err)
	assert.True(t, res.Reserved)

	mockCache.EXPECT().Get(gomock.Any(), "room:get:r2", gomock.Any()).Return(errors.New("cache miss"))
	mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{}, nil)

	_, err = svc.Get(context.Background(), "r2")

	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}

func TestRoomService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := roomMocks.NewMockRoom(ctrl)
	mockFloor := floorMocks.NewMockFloor(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	svc := service.New(mockRepo, mockFloor, &config.Config{}, mockCache, mocks.NewOtel())

	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	usable := false

	tests := []struct {
		name      string
		req       dto.UpdateRoomRequest
		setupMock func()
		wantCode  int
	}{
		{
			name: "mark out of service",
			req:  dto.UpdateRoomRequest{Usable: &usable},
			setupMock: func() {
				mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				mockRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, false, fields[model.FieldUsable])
						assert.NotContains(t, fields, model.FieldReserved)

						return nil
					})
			},
		},
		{
			name: "move to unknown floor",
			req:  dto.UpdateRoomRequest{FloorID: floorID},
			setupMock: func() {
				mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				mockFloor.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "unknown room",
			req:  dto.UpdateRoomRequest{Number: "C-1"},
			setupMock: func() {
				mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.Update(context.Background(), tt.req, "r1")

			time.Sleep(10 * time.Millisecond)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestRoomService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := roomMocks.NewMockRoom(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	svc := service.New(mockRepo, floorMocks.NewMockFloor(ctrl), &config.Config{}, mockCache, mocks.NewOtel())

	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	tests := []struct {
		name      string
		setupMock func()
		wantCode  int
	}{
		{
			name: "success",
			setupMock: func() {
				mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				mockRepo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "still referenced by reservations",
			setupMock: func() {
				mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				mockRepo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(failure.Conflict("room is referenced by or references a missing record"))
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "not found",
			setupMock: func() {
				mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.Delete(context.Background(), "r1")

			time.Sleep(10 * time.Millisecond)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}
