package reservation

import (
	"housing/infras/otel"
	"housing/internal/domains/reservation/model/dto"
	"housing/internal/domains/reservation/service"
	"housing/shared"
	"housing/shared/constant"
	gDto "housing/shared/dto"
	"housing/shared/validator"
	"housing/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service service.Reservation
	otel    otel.Otel
}

func New(service service.Reservation, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/reservations", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateReservation)
		routerGroup.Get("/{id}", handler.GetReservationByID)
		routerGroup.Put("/{id}", handler.UpdateReservation)
		routerGroup.Delete("/{id}", handler.DeleteReservation)
	})

	router.Get("/centers/{id}/reservations", handler.GetCenterReservations)
	router.Get("/rooms/{id}/reservations", handler.GetRoomReservations)
}

// CreateReservation handles the creation of a new reservation.
// @Summary Create a new reservation
// @Description Reserve a room over [start_date, end_date). Dates use YYYY-MM-DD, the end is exclusive and at least one day after the start.
// @Tags Reservation
// @Accept json
// @Produce json
// @Param X-User-ID header string false "Acting user"
// @Param request body dto.CreateReservationRequest true "Create Reservation Request"
// @Success 201 {object} response.Data[dto.ReservationResponse] "Reservation created"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations [post]
func (handler *Handler) CreateReservation(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateReservation")
	defer scope.End()

	req := dto.CreateReservationRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		response.Fail(writer, scope, err, "failed to validate request body")

		return
	}

	reservation, err := handler.service.Create(ctx, req)
	if err != nil {
		response.Fail(writer, scope, err, "failed to create reservation")

		return
	}

	scope.AddEvent("Reservation created successfully by user " + shared.Actor(ctx))

	response.WithJSON(writer, http.StatusCreated, reservation)
}

// GetReservationByID retrieves a reservation by its ID.
// @Summary Get a reservation by ID
// @Tags Reservation
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Success 200 {object} response.Data[dto.ReservationResponse] "Reservation details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations/{id} [get]
func (handler *Handler) GetReservationByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetReservationByID")
	defer scope.End()

	reservation, err := handler.service.Get(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		response.Fail(w, scope, err, "failed to get reservation by ID")

		return
	}

	response.WithJSON(w, http.StatusOK, reservation)
}

// UpdateReservation replaces a reservation.
// @Summary Update a reservation by ID
// @Description Replace room, reason and dates of a reservation. The reservation never conflicts with itself.
// @Tags Reservation
// @Accept json
// @Produce json
// @Param X-User-ID header string false "Acting user"
// @Param id path string true "Reservation ID"
// @Param request body dto.UpdateReservationRequest true "Update Reservation Request"
// @Success 200 {object} response.Data[dto.ReservationResponse] "Reservation updated"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations/{id} [put]
func (handler *Handler) UpdateReservation(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateReservation")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateReservationRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		response.Fail(w, scope, err, "failed to validate request body")

		return
	}

	reservation, err := handler.service.Update(ctx, req, id)
	if err != nil {
		scope.SetAttribute("reservation_id", id)
		response.Fail(w, scope, err, "failed to update reservation")

		return
	}

	scope.AddEvent("Reservation updated successfully by user " + shared.Actor(ctx))

	response.WithJSON(w, http.StatusOK, reservation)
}

// DeleteReservation deletes a reservation by its ID.
// @Summary Delete a reservation by ID
// @Tags Reservation
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Success 200 {object} response.Message "Reservation deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations/{id} [delete]
func (handler *Handler) DeleteReservation(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteReservation")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.SetAttribute("reservation_id", id)
		response.Fail(w, scope, err, "failed to delete reservation")

		return
	}

	scope.AddEvent("Reservation deleted successfully by user " + shared.Actor(ctx))

	response.WithMessage(w, http.StatusOK, "Reservation deleted successfully")
}

// GetCenterReservations lists the reservations of every room of a training center.
// @Summary List reservations of a center
// @Description Responds 204 when the center has no reservation.
// @Tags Reservation
// @Accept json
// @Produce json
// @Param id path string true "Center ID"
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetReservationsResponse] "Reservations of the center"
// @Success 204 "No reservation for this center"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/centers/{id}/reservations [get]
func (handler *Handler) GetCenterReservations(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetCenterReservations")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	reservations, err := handler.service.ListByCenter(ctx, chi.URLParam(r, constant.RequestParamID), queryParams)
	if err != nil {
		response.Fail(w, scope, err, "failed to list reservations of center")

		return
	}

	response.WithJSON(w, http.StatusOK, reservations)
}

// GetRoomReservations lists the reservations of a room.
// @Summary List reservations of a room
// @Tags Reservation
// @Accept json
// @Produce json
// @Param id path string true "Room ID"
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetReservationsResponse] "Reservations of the room"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms/{id}/reservations [get]
func (handler *Handler) GetRoomReservations(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRoomReservations")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	reservations, err := handler.service.ListByRoom(ctx, chi.URLParam(r, constant.RequestParamID), queryParams)
	if err != nil {
		response.Fail(w, scope, err, "failed to list reservations of room")

		return
	}

	response.WithJSON(w, http.StatusOK, reservations)
}
