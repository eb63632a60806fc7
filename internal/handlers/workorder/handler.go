package workorder

import (
	"housing/infras/otel"
	"housing/internal/domains/workorder/model/dto"
	"housing/internal/domains/workorder/service"
	"housing/shared"
	"housing/shared/constant"
	gDto "housing/shared/dto"
	"housing/shared/validator"
	"housing/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service service.WorkOrder
	otel    otel.Otel
}

func New(service service.WorkOrder, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/work-orders", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateWorkOrder)
		routerGroup.Get("/{id}", handler.GetWorkOrderByID)
		routerGroup.Put("/{id}", handler.UpdateWorkOrder)
		routerGroup.Delete("/{id}", handler.DeleteWorkOrder)
	})

	router.Get("/rooms/{id}/work-orders", handler.GetRoomWorkOrders)
}

// CreateWorkOrder handles the creation of a new work order.
// @Summary Create a new work order
// @Description Schedule maintenance work on a room. The end date is optional and may equal the start date.
// @Tags WorkOrder
// @Accept json
// @Produce json
// @Param X-User-ID header string false "Acting user"
// @Param request body dto.CreateWorkOrderRequest true "Create Work Order Request"
// @Success 201 {object} response.Data[dto.WorkOrderResponse] "Work order created"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/work-orders [post]
func (handler *Handler) CreateWorkOrder(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateWorkOrder")
	defer scope.End()

	req := dto.CreateWorkOrderRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		response.Fail(writer, scope, err, "failed to validate request body")

		return
	}

	workOrder, err := handler.service.Create(ctx, req)
	if err != nil {
		response.Fail(writer, scope, err, "failed to create work order")

		return
	}

	scope.AddEvent("Work order created successfully by user " + shared.Actor(ctx))

	response.WithJSON(writer, http.StatusCreated, workOrder)
}

// GetWorkOrderByID retrieves a work order by its ID.
// @Summary Get a work order by ID
// @Tags WorkOrder
// @Accept json
// @Produce json
// @Param id path string true "Work order ID"
// @Success 200 {object} response.Data[dto.WorkOrderResponse] "Work order details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/work-orders/{id} [get]
func (handler *Handler) GetWorkOrderByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetWorkOrderByID")
	defer scope.End()

	workOrder, err := handler.service.Get(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		response.Fail(w, scope, err, "failed to get work order by ID")

		return
	}

	response.WithJSON(w, http.StatusOK, workOrder)
}

// UpdateWorkOrder replaces a work order.
// @Summary Update a work order by ID
// @Description Replace every field of a work order. An absent end date or commentary clears it.
// @Tags WorkOrder
// @Accept json
// @Produce json
// @Param X-User-ID header string false "Acting user"
// @Param id path string true "Work order ID"
// @Param request body dto.UpdateWorkOrderRequest true "Update Work Order Request"
// @Success 200 {object} response.Data[dto.WorkOrderResponse] "Work order updated"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/work-orders/{id} [put]
func (handler *Handler) UpdateWorkOrder(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateWorkOrder")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateWorkOrderRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		response.Fail(w, scope, err, "failed to validate request body")

		return
	}

	workOrder, err := handler.service.Update(ctx, req, id)
	if err != nil {
		scope.SetAttribute("work_order_id", id)
		response.Fail(w, scope, err, "failed to update work order")

		return
	}

	scope.AddEvent("Work order updated successfully by user " + shared.Actor(ctx))

	response.WithJSON(w, http.StatusOK, workOrder)
}

// DeleteWorkOrder deletes a work order by its ID.
// @Summary Delete a work order by ID
// @Tags WorkOrder
// @Accept json
// @Produce json
// @Param id path string true "Work order ID"
// @Success 200 {object} response.Message "Work order deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/work-orders/{id} [delete]
func (handler *Handler) DeleteWorkOrder(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteWorkOrder")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.SetAttribute("work_order_id", id)
		response.Fail(w, scope, err, "failed to delete work order")

		return
	}

	scope.AddEvent("Work order deleted successfully by user " + shared.Actor(ctx))

	response.WithMessage(w, http.StatusOK, "Work order deleted successfully")
}

// GetRoomWorkOrders lists the work orders of a room.
// @Summary List work orders of a room
// @Tags WorkOrder
// @Accept json
// @Produce json
// @Param id path string true "Room ID"
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetWorkOrdersResponse] "Work orders of the room"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms/{id}/work-orders [get]
func (handler *Handler) GetRoomWorkOrders(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRoomWorkOrders")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	workOrders, err := handler.service.ListByRoom(ctx, chi.URLParam(r, constant.RequestParamID), queryParams)
	if err != nil {
		response.Fail(w, scope, err, "failed to list work orders of room")

		return
	}

	response.WithJSON(w, http.StatusOK, workOrders)
}
