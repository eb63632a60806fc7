package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"housing/infras/otel"
	"housing/infras/postgres"
	"housing/internal/domains/reason/model"
	gDto "housing/shared/dto"
	gRepo "housing/shared/repository"
)

type Reason interface {
	Insert(ctx context.Context, model model.Reason) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Reason, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Reason, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Reason]
}

func New(db *postgres.Connection, otel otel.Otel) Reason {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Reason](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}
