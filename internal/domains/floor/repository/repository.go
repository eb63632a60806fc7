package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"housing/infras/otel"
	"housing/infras/postgres"
	"housing/internal/domains/floor/model"
	gDto "housing/shared/dto"
	gRepo "housing/shared/repository"
)

type Floor interface {
	Insert(ctx context.Context, model model.Floor) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Floor, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Floor, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Floor]
}

func New(db *postgres.Connection, otel otel.Otel) Floor {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Floor](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}
