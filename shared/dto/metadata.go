package dto

import (
	"housing/shared/constant"
	"housing/shared/model"
	"housing/shared/timezone"
)

// Metadata is the audit block of every response, rendered in the application timezone.
type Metadata struct {
	CreatedAt  string `json:"created_at"`
	ModifiedAt string `json:"modified_at"`
	CreatedBy  string `json:"created_by,omitempty"`
	ModifiedBy string `json:"modified_by,omitempty"`
}

func (m *Metadata) FromModel(meta model.Metadata) {
	*m = Metadata{
		CreatedAt:  timezone.Format(meta.CreatedAt, constant.DateFormat),
		ModifiedAt: timezone.Format(meta.ModifiedAt, constant.DateFormat),
		CreatedBy:  meta.CreatedBy,
		ModifiedBy: meta.ModifiedBy,
	}
}
