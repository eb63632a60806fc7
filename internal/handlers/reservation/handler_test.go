package reservation_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"housing/infras/otel/mocks"
	"housing/internal/domains/reservation/model/dto"
	"housing/internal/handlers/reservation"
	gDto "housing/shared/dto"
	"housing/shared/failure"
)

type fakeService struct {
	create       func(req dto.CreateReservationRequest) (dto.ReservationResponse, error)
	listByCenter func(centerID string, params gDto.QueryParams) (dto.GetReservationsResponse, error)
	listByRoom   func(roomID string) (dto.GetReservationsResponse, error)
}

func (f *fakeService) Create(_ context.Context, req dto.CreateReservationRequest) (dto.ReservationResponse, error) {
	return f.create(req)
}

func (f *fakeService) Update(_ context.Context, _ dto.UpdateReservationRequest, _ string) (dto.ReservationResponse, error) {
	return dto.ReservationResponse{}, nil
}

func (f *fakeService) Delete(_ context.Context, _ string) error {
	return nil
}

func (f *fakeService) Get(_ context.Context, id string) (dto.ReservationResponse, error) {
	return dto.ReservationResponse{}, failure.NotFound("reservation not found")
}

func (f *fakeService) ListByCenter(_ context.Context, centerID string, params gDto.QueryParams) (dto.GetReservationsResponse, error) {
	return f.listByCenter(centerID, params)
}

func (f *fakeService) ListByRoom(_ context.Context, roomID string, _ gDto.QueryParams) (dto.GetReservationsResponse, error) {
	return f.listByRoom(roomID)
}

const validBody = `{"room_id":"7d6b7f5e-5f2c-4b8e-9b59-1a0d8f1a0001","reason_id":"0f0e4a58-6a34-4d8b-8d3f-2c1e9d4b0001","start_date":"2025-03-10","end_date":"2025-03-15"}`

func newRouter(svc *fakeService) http.Handler {
	handler := reservation.New(svc, mocks.NewOtel())

	router := chi.NewRouter()
	router.Route("/v1", handler.Router)

	return router
}

func TestHandler_CreateReservation(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		create   func(req dto.CreateReservationRequest) (dto.ReservationResponse, error)
		wantCode int
		wantBody string
	}{
		{
			name: "created",
			body: validBody,
			create: func(req dto.CreateReservationRequest) (dto.ReservationResponse, error) {
				return dto.ReservationResponse{ID: "res-1", RoomID: req.RoomID, StartDate: req.StartDate, EndDate: req.EndDate}, nil
			},
			wantCode: http.StatusCreated,
			wantBody: `"id":"res-1"`,
		},
		{
			name:     "malformed date is rejected before the service",
			body:     strings.Replace(validBody, "2025-03-10", "10/03/2025", 1),
			wantCode: http.StatusBadRequest,
			wantBody: "start_date must use the YYYY-MM-DD format",
		},
		{
			name: "overlap",
			body: validBody,
			create: func(dto.CreateReservationRequest) (dto.ReservationResponse, error) {
				return dto.ReservationResponse{}, failure.Conflict("reservation already exists for room/dates")
			},
			wantCode: http.StatusConflict,
			wantBody: "reservation already exists for room/dates",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newRouter(&fakeService{create: tt.create})

			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/v1/reservations", strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantCode, recorder.Code)
			assert.Contains(t, recorder.Body.String(), tt.wantBody)
		})
	}
}

func TestHandler_GetCenterReservations(t *testing.T) {
	var gotCenter string
	var gotParams gDto.QueryParams

	router := newRouter(&fakeService{
		listByCenter: func(centerID string, params gDto.QueryParams) (dto.GetReservationsResponse, error) {
			gotCenter = centerID
			gotParams = params

			return dto.GetReservationsResponse{}, failure.NoContent("no reservation for this center")
		},
	})

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/v1/centers/c-1/reservations?page=2", nil))

	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Empty(t, recorder.Body.String())
	assert.Equal(t, "c-1", gotCenter)
	assert.Equal(t, 2, gotParams.Page)
	assert.Equal(t, 10, gotParams.Limit)
}

func TestHandler_GetRoomReservations(t *testing.T) {
	router := newRouter(&fakeService{
		listByRoom: func(roomID string) (dto.GetReservationsResponse, error) {
			return dto.GetReservationsResponse{
				Reservations: []dto.ReservationResponse{{ID: "res-1", RoomID: roomID}},
				TotalData:    1,
				TotalPage:    1,
			}, nil
		},
	})

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/v1/rooms/r-1/reservations", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"room_id":"r-1"`)
}

func TestHandler_GetReservationByID_NotFound(t *testing.T) {
	router := newRouter(&fakeService{})

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/v1/reservations/missing", nil))

	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.JSONEq(t, `{"error":"reservation not found"}`, recorder.Body.String())
}
