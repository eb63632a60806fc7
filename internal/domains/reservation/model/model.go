package model

import (
	"time"

	"housing/shared/model"
)

const (
	TableName  = "reservations"
	EntityName = "reservation"

	FieldID           = "id"
	FieldRoomID       = "room_id"
	FieldReasonID     = "reason_id"
	FieldStartDate    = "start_date"
	FieldEndDate      = "end_date"
	FieldCreationDate = "creation_date"
)

const (
	CachePrefixGet    = "reservation:get"
	CachePrefixGetAll = "reservation:gets"
)

// LockNamespace prefixes the per-room lock keys of reservation writers.
const LockNamespace = "reservation:room"

// Reservation occupies a room over [StartDate, EndDate).
type Reservation struct {
	ID           string    `db:"id"`
	RoomID       string    `db:"room_id"`
	ReasonID     string    `db:"reason_id"`
	StartDate    time.Time `db:"start_date"`
	EndDate      time.Time `db:"end_date"`
	CreationDate time.Time `db:"creation_date"`
	model.Metadata
}

// GetJoinQuery lets listings filter on the floor and center of the reserved room.
func (Reservation) GetJoinQuery() string {
	return "JOIN rooms ON rooms.id = reservations.room_id JOIN floors ON floors.id = rooms.floor_id"
}
