package dto

import (
	"time"

	"housing/internal/domains/workorder/model"
	"housing/internal/scheduling"
	"housing/shared"
	"housing/shared/constant"
	gDto "housing/shared/dto"
	gModel "housing/shared/model"
	"housing/shared/timezone"

	"github.com/google/uuid"
)

type CreateWorkOrderRequest struct {
	RoomID     string  `json:"room_id"      validate:"required,uuid"`
	WorkTypeID string  `json:"work_type_id" validate:"required,uuid"`
	StartDate  string  `json:"start_date"   validate:"required,dateonly"`
	EndDate    string  `json:"end_date"     validate:"omitempty,dateonly"`
	Commentary *string `json:"commentary"   validate:"omitempty,max=500"`
}

func (c *CreateWorkOrderRequest) Interval() (scheduling.Interval, error) {
	return scheduling.ParseInterval(c.StartDate, c.EndDate)
}

func (c *CreateWorkOrderRequest) ToModel(interval scheduling.Interval, user string) model.WorkOrder {
	now := timezone.Now()

	return model.WorkOrder{
		ID:         uuid.NewString(),
		RoomID:     c.RoomID,
		WorkTypeID: c.WorkTypeID,
		StartDate:  interval.Start,
		EndDate:    interval.End,
		Commentary: c.Commentary,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

// UpdateWorkOrderRequest replaces every business field; an absent end or commentary clears it.
type UpdateWorkOrderRequest struct {
	RoomID     string  `json:"room_id"      validate:"required,uuid"`
	WorkTypeID string  `json:"work_type_id" validate:"required,uuid"`
	StartDate  string  `json:"start_date"   validate:"required,dateonly"`
	EndDate    string  `json:"end_date"     validate:"omitempty,dateonly"`
	Commentary *string `json:"commentary"   validate:"omitempty,max=500"`
}

func (u *UpdateWorkOrderRequest) Interval() (scheduling.Interval, error) {
	return scheduling.ParseInterval(u.StartDate, u.EndDate)
}

func (u *UpdateWorkOrderRequest) ToFields(interval scheduling.Interval, user string) map[string]any {
	return map[string]any{
		model.FieldRoomID:        u.RoomID,
		model.FieldWorkTypeID:    u.WorkTypeID,
		model.FieldStartDate:     interval.Start,
		model.FieldEndDate:       interval.End,
		model.FieldCommentary:    u.Commentary,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}
}

type WorkOrderResponse struct {
	ID         string  `json:"id"`
	RoomID     string  `json:"room_id"`
	WorkTypeID string  `json:"work_type_id"`
	StartDate  string  `json:"start_date"`
	EndDate    *string `json:"end_date"`
	Commentary *string `json:"commentary"`
	gDto.Metadata
}

func (r *WorkOrderResponse) FromModel(model model.WorkOrder) {
	r.ID = model.ID
	r.RoomID = model.RoomID
	r.WorkTypeID = model.WorkTypeID
	r.StartDate = model.StartDate.Format(constant.DateOnlyFormat)
	r.EndDate = formatDate(model.EndDate)
	r.Commentary = model.Commentary
	r.Metadata.FromModel(model.Metadata)
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}

	formatted := t.Format(constant.DateOnlyFormat)

	return &formatted
}

type GetWorkOrdersResponse struct {
	WorkOrders []WorkOrderResponse `json:"work_orders"`
	TotalPage  int                 `json:"total_page"`
	TotalData  int                 `json:"total_data"`
}

func (r *GetWorkOrdersResponse) FromModels(models []model.WorkOrder, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.WorkOrders = make([]WorkOrderResponse, len(models))
	for i, mod := range models {
		r.WorkOrders[i].FromModel(mod)
	}
}
