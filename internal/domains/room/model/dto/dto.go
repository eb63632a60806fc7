package dto

import (
	"housing/internal/domains/room/model"
	"housing/shared"
	gDto "housing/shared/dto"
	gModel "housing/shared/model"
	"housing/shared/timezone"

	"github.com/google/uuid"
)

type CreateRoomRequest struct {
	FloorID string `json:"floor_id" validate:"required,uuid"`
	Number  string `json:"number"   validate:"required,max=20"`
	Usable  *bool  `json:"usable"   validate:"omitempty"`
}

func (c *CreateRoomRequest) ToModel(user string) model.Room {
	usable := true
	if c.Usable != nil {
		usable = *c.Usable
	}

	now := timezone.Now()

	return model.Room{
		ID:      uuid.NewString(),
		FloorID: c.FloorID,
		Number:  c.Number,
		Usable:  usable,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

// UpdateRoomRequest has no reserved field: availability is derived from reservations.
type UpdateRoomRequest struct {
	FloorID string `db:"floor_id" json:"floor_id" validate:"omitempty,uuid"`
	Number  string `db:"number"   json:"number"   validate:"omitempty,max=20"`
	Usable  *bool  `db:"usable"   json:"usable"   validate:"omitempty"`
}

type RoomResponse struct {
	ID       string `json:"id"`
	FloorID  string `json:"floor_id"`
	Number   string `json:"number"`
	Usable   bool   `json:"usable"`
	Reserved bool   `json:"reserved"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(model model.Room) {
	r.ID = model.ID
	r.FloorID = model.FloorID
	r.Number = model.Number
	r.Usable = model.Usable
	r.Reserved = model.Reserved
	r.Metadata.FromModel(model.Metadata)
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetRoomsResponse) FromModels(models []model.Room, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
	}
}
