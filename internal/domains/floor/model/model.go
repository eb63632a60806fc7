package model

import "housing/shared/model"

const (
	TableName  = "floors"
	EntityName = "floor"

	FieldID       = "id"
	FieldCenterID = "center_id"
	FieldLabel    = "label"
)

type Floor struct {
	ID       string `db:"id"`
	CenterID string `db:"center_id"`
	Label    string `db:"label"`
	model.Metadata
}
