package model

import "housing/shared/model"

const (
	TableName  = "centers"
	EntityName = "center"

	FieldID   = "id"
	FieldName = "name"
	FieldCity = "city"
)

// Center is a training center hosting residents.
type Center struct {
	ID   string `db:"id"`
	Name string `db:"name"`
	City string `db:"city"`
	model.Metadata
}
