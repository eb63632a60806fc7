package model

import "housing/shared/model"

const (
	TableName  = "reservation_reasons"
	EntityName = "reservation reason"

	FieldID    = "id"
	FieldLabel = "label"
)

// Reason explains why a room is reserved (internship, exam session, ...).
type Reason struct {
	ID    string `db:"id"`
	Label string `db:"label"`
	model.Metadata
}
