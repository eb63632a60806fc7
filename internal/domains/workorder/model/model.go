package model

import (
	"time"

	"housing/shared/model"
)

const (
	TableName  = "work_orders"
	EntityName = "work order"

	FieldID         = "id"
	FieldRoomID     = "room_id"
	FieldWorkTypeID = "work_type_id"
	FieldStartDate  = "start_date"
	FieldEndDate    = "end_date"
	FieldCommentary = "commentary"
)

const (
	CachePrefixGet    = "work-order:get"
	CachePrefixGetAll = "work-order:gets"
)

// LockNamespace keeps work-order writers off the reservation lock keys of the same room.
const LockNamespace = "work-order:room"

// WorkOrder is planned maintenance on a room. EndDate is nil while the end is unknown.
type WorkOrder struct {
	ID         string     `db:"id"`
	RoomID     string     `db:"room_id"`
	WorkTypeID string     `db:"work_type_id"`
	StartDate  time.Time  `db:"start_date"`
	EndDate    *time.Time `db:"end_date"`
	Commentary *string    `db:"commentary"`
	model.Metadata
}
