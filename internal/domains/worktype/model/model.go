package model

import "housing/shared/model"

const (
	TableName  = "work_types"
	EntityName = "work type"

	FieldID    = "id"
	FieldLabel = "label"
)

type WorkType struct {
	ID    string `db:"id"`
	Label string `db:"label"`
	model.Metadata
}
