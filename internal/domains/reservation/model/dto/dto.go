package dto

import (
	"time"

	"housing/internal/domains/reservation/model"
	"housing/internal/scheduling"
	"housing/shared"
	"housing/shared/constant"
	gDto "housing/shared/dto"
	gModel "housing/shared/model"
	"housing/shared/timezone"

	"github.com/google/uuid"
)

// CreateReservationRequest leaves end_date optional at the tag level so the interval
// rules can report a missing end with their own message.
type CreateReservationRequest struct {
	RoomID    string `json:"room_id"    validate:"required,uuid"`
	ReasonID  string `json:"reason_id"  validate:"required,uuid"`
	StartDate string `json:"start_date" validate:"required,dateonly"`
	EndDate   string `json:"end_date"   validate:"omitempty,dateonly"`
}

func (c *CreateReservationRequest) Interval() (scheduling.Interval, error) {
	return scheduling.ParseInterval(c.StartDate, c.EndDate)
}

func (c *CreateReservationRequest) ToModel(interval scheduling.Interval, today time.Time, user string) model.Reservation {
	now := timezone.Now()

	return model.Reservation{
		ID:           uuid.NewString(),
		RoomID:       c.RoomID,
		ReasonID:     c.ReasonID,
		StartDate:    interval.Start,
		EndDate:      *interval.End,
		CreationDate: today,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

// UpdateReservationRequest replaces every business field of a reservation.
type UpdateReservationRequest struct {
	RoomID    string `json:"room_id"    validate:"required,uuid"`
	ReasonID  string `json:"reason_id"  validate:"required,uuid"`
	StartDate string `json:"start_date" validate:"required,dateonly"`
	EndDate   string `json:"end_date"   validate:"omitempty,dateonly"`
}

func (u *UpdateReservationRequest) Interval() (scheduling.Interval, error) {
	return scheduling.ParseInterval(u.StartDate, u.EndDate)
}

func (u *UpdateReservationRequest) ToFields(interval scheduling.Interval, user string) map[string]any {
	return map[string]any{
		model.FieldRoomID:        u.RoomID,
		model.FieldReasonID:      u.ReasonID,
		model.FieldStartDate:     interval.Start,
		model.FieldEndDate:       *interval.End,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}
}

type ReservationResponse struct {
	ID           string `json:"id"`
	RoomID       string `json:"room_id"`
	ReasonID     string `json:"reason_id"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	CreationDate string `json:"creation_date"`
	gDto.Metadata
}

func (r *ReservationResponse) FromModel(model model.Reservation) {
	r.ID = model.ID
	r.RoomID = model.RoomID
	r.ReasonID = model.ReasonID
	r.StartDate = model.StartDate.Format(constant.DateOnlyFormat)
	r.EndDate = model.EndDate.Format(constant.DateOnlyFormat)
	r.CreationDate = model.CreationDate.Format(constant.DateOnlyFormat)
	r.Metadata.FromModel(model.Metadata)
}

type GetReservationsResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
	TotalPage    int                   `json:"total_page"`
	TotalData    int                   `json:"total_data"`
}

func (r *GetReservationsResponse) FromModels(models []model.Reservation, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Reservations = make([]ReservationResponse, len(models))
	for i, mod := range models {
		r.Reservations[i].FromModel(mod)
	}
}
