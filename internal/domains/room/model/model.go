package model

import "housing/shared/model"

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID       = "id"
	FieldFloorID  = "floor_id"
	FieldNumber   = "number"
	FieldUsable   = "usable"
	FieldReserved = "reserved"
)

const (
	CachePrefixGet    = "room:get"
	CachePrefixGetAll = "room:gets"
	CachePrefixCount  = "room:count"
)

// Room is a lodging unit on a floor. Reserved mirrors the existence of reservations
// and is only written by the availability synchronizer.
type Room struct {
	ID       string `db:"id"`
	FloorID  string `db:"floor_id"`
	Number   string `db:"number"`
	Usable   bool   `db:"usable"`
	Reserved bool   `db:"reserved"`
	model.Metadata
}
