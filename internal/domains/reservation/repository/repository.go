package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"housing/infras/otel"
	"housing/infras/postgres"
	"housing/internal/domains/reservation/model"
	"housing/internal/scheduling"
	"housing/shared"
	"housing/shared/constant"
	gDto "housing/shared/dto"
	gRepo "housing/shared/repository"
)

type Reservation interface {
	Insert(ctx context.Context, model model.Reservation) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Reservation, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Reservation, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	FindOverlapping(ctx context.Context, roomID string, start, end time.Time, excludeID string) ([]scheduling.Span, error)
	CountByRoom(ctx context.Context, roomID string) (int, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Reservation]
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Reservation {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Reservation](model.EntityName, model.TableName, model.FieldID, db, otel),
		otel:       otel,
	}
}

// FindOverlapping selects reservations of roomID with start < end and end > start.
// It reads the primary since its result gates a write.
func (r *repositoryImpl) FindOverlapping(ctx context.Context, roomID string, start, end time.Time, excludeID string) ([]scheduling.Span, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.FindOverlapping")
	defer scope.End()

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldRoomID, Value: roomID, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{ArgName: "candidate_end", Field: model.FieldStartDate, Value: end, Operator: gDto.FilterOperatorLess, Table: model.TableName},
			gDto.Filter{ArgName: "candidate_start", Field: model.FieldEndDate, Value: start, Operator: gDto.FilterOperatorGreater, Table: model.TableName},
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

		return nil, fmt.Errorf("failed to find overlapping reservations: %w", err)
	}

	spans := make([]scheduling.Span, 0, len(rows))
	for _, row := range rows {
		end := row.EndDate
		spans = append(spans, scheduling.Span{ID: row.ID, Start: row.StartDate, End: &end})
	}

	return spans, nil
}

// CountByRoom counts every reservation of roomID, past ones included.
func (r *repositoryImpl) CountByRoom(ctx context.Context, roomID string) (int, error) {
	return r.Count(gRepo.WithPrimary(ctx), shared.FilterByID(roomID, model.FieldRoomID, model.TableName)) //nolint:wrapcheck
}
