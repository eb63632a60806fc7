package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"housing/infras/otel"
	"housing/infras/postgres"
	"housing/internal/domains/workorder/model"
	"housing/internal/scheduling"
	"housing/shared/constant"
	gDto "housing/shared/dto"
	gRepo "housing/shared/repository"
)

type WorkOrder interface {
	Insert(ctx context.Context, model model.WorkOrder) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.WorkOrder, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.WorkOrder, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	FindDuplicates(ctx context.Context, roomID, workTypeID string, start time.Time, end *time.Time, excludeID string) ([]scheduling.Span, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.WorkOrder]
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) WorkOrder {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.WorkOrder](model.EntityName, model.TableName, model.FieldID, db, otel),
		otel:       otel,
	}
}

// FindDuplicates narrows on room, type and start; the end is compared by the caller
// because a NULL end never matches with "=".
func (r *repositoryImpl) FindDuplicates(ctx context.Context, roomID, workTypeID string, start time.Time, _ *time.Time, excludeID string) ([]scheduling.Span, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".workOrder.FindDuplicates")
	defer scope.End()

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldRoomID, Value: roomID, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{Field: model.FieldWorkTypeID, Value: workTypeID, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{Field: model.FieldStartDate, Value: start, Operator: gDto.FilterOperatorEq, Table: model.TableName},
		},
	}

	if excludeID != constant.Empty {
		filter.Filters = append(filter.Filters, gDto.Filter{
			ArgName:  "exclude_id",
			Field:    model.FieldID,
			Value:    excludeID,
			Operator: gDto.FilterOperatorNotEq,
			Table:    model.TableName,
		})
	}

	rows, err := r.GetAll(gRepo.WithPrimary(ctx), gDto.QueryParams{}, filter, model.FieldID, model.FieldStartDate, model.FieldEndDate)
	if err != nil {
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to find duplicate work orders: %w", err)
	}

	spans := make([]scheduling.Span, 0, len(rows))
	for _, row := range rows {
		spans = append(spans, scheduling.Span{ID: row.ID, Start: row.StartDate, End: row.EndDate})
	}

	return spans, nil
}
