package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"housing/infras/otel"
	"housing/infras/postgres"
	"housing/shared/constant"
	"housing/shared/dto"
	"housing/shared/failure"
	"housing/shared/logger"
	"maps"
	"reflect"
	"slices"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var errRequiredFilter = errors.New("required filter")

type primaryKey struct{}

// WithPrimary routes reads made with ctx to the write pool. Checks that guard a write
// under the room lock use it so replication lag cannot hide a conflicting row.
func WithPrimary(ctx context.Context) context.Context {
	return context.WithValue(ctx, primaryKey{}, true)
}

func usesPrimary(ctx context.Context) bool {
	primary, _ := ctx.Value(primaryKey{}).(bool)

	return primary
}

// Joiner is implemented by models whose listings need joined tables, e.g. to filter
// reservations by the center of their room.
type Joiner interface {
	GetJoinQuery() string
}

type column struct {
	name  string
	table string
	alias string
}

func (c column) qualified() string {
	return c.table + "." + c.name
}

func (c column) selectExpr() string {
	if c.alias != "" {
		return c.qualified() + " AS " + c.alias
	}

	return c.qualified()
}

// Repository implements CRUD over one table for a model T whose fields carry db tags.
// Embedded structs (model.Metadata) are flattened; a `table` tag selects a joined column.
type Repository[T any] struct {
	db            *postgres.Connection
	otel          otel.Otel
	table         string
	entity        string
	primaryColumn string
	columns       []column
	insertColumns []string
	join          string
}

func NewRepository[T any](entityName, tableName, primaryColumn string, dbConnection *postgres.Connection, otl otel.Otel) Repository[T] {
	var zero T

	columns, insertColumns := getColumns(tableName, reflect.TypeOf(zero))

	var join string
	if joiner, ok := any(zero).(Joiner); ok {
		join = joiner.GetJoinQuery()
	}

	return Repository[T]{
		db:            dbConnection,
		otel:          otl,
		table:         tableName,
		entity:        entityName,
		primaryColumn: primaryColumn,
		columns:       columns,
		insertColumns: insertColumns,
		join:          join,
	}
}

func (repo *Repository[T]) scope(ctx context.Context, operation string) (context.Context, otel.Scope) {
	return repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, fmt.Sprintf("%s.%s.%s", constant.OtelRepositoryScopeName, repo.entity, operation))
}

func (repo *Repository[T]) reader(ctx context.Context) *sqlx.DB {
	if usesPrimary(ctx) {
		return repo.db.Write
	}

	return repo.db.Read
}

// run prepares query on db and hands the statement to fn. Failures are logged with their
// stack and marked on the span.
func (repo *Repository[T]) run(ctx context.Context, scope otel.Scope, db *sqlx.DB, query, action string, fn func(stmt *sqlx.NamedStmt) error) error {
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	stmt, err := db.PrepareNamedContext(ctx, query)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to prepare %s (%s): %w", action, repo.entity, err)
	}
	defer stmt.Close()

	if err = fn(stmt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return err
		}

		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to %s (%s): %w", action, repo.entity, repo.translate(err))
	}

	return nil
}

func (repo *Repository[T]) Insert(ctx context.Context, model T) error {
	ctx, scope := repo.scope(ctx, "Insert")
	defer scope.End()

	placeholders := make([]string, len(repo.insertColumns))
	for idx, col := range repo.insertColumns {
		placeholders[idx] = ":" + col
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", repo.table, strings.Join(repo.insertColumns, ", "), strings.Join(placeholders, ", "))

	return repo.run(ctx, scope, repo.db.Write, query, "insert", func(stmt *sqlx.NamedStmt) error {
		_, err := stmt.ExecContext(ctx, model)

		return err //nolint:wrapcheck
	})
}

func (repo *Repository[T]) Exist(ctx context.Context, filter dto.FilterGroup) (bool, error) {
	ctx, scope := repo.scope(ctx, "Exist")
	defer scope.End()

	where, args := whereClause(filter)
	if where == "" {
		return false, errRequiredFilter
	}

	query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s %s %s)", repo.table, repo.join, where)

	var exist bool

	err := repo.run(ctx, scope, repo.reader(ctx), query, "check existence", func(stmt *sqlx.NamedStmt) error {
		return stmt.GetContext(ctx, &exist, args) //nolint:wrapcheck
	})

	return exist, err
}

// Get returns the zero T when nothing matches; callers test the primary key for emptiness.
func (repo *Repository[T]) Get(ctx context.Context, filter dto.FilterGroup, columns ...string) (T, error) {
	ctx, scope := repo.scope(ctx, "Get")
	defer scope.End()

	where, args := whereClause(filter)
	query := fmt.Sprintf("SELECT %s FROM %s %s %s LIMIT 1", repo.selectList(columns), repo.table, repo.join, where)

	var model T

	err := repo.run(ctx, scope, repo.reader(ctx), query, "get", func(stmt *sqlx.NamedStmt) error {
		return stmt.GetContext(ctx, &model, args) //nolint:wrapcheck
	})
	if errors.Is(err, sql.ErrNoRows) {
		var zero T

		return zero, nil
	}

	return model, err
}

func (repo *Repository[T]) GetAll(ctx context.Context, params dto.QueryParams, filter dto.FilterGroup, columns ...string) ([]T, error) {
	ctx, scope := repo.scope(ctx, "GetAll")
	defer scope.End()

	where, args := whereClause(filter)

	parts := []string{fmt.Sprintf("SELECT %s FROM %s %s %s", repo.selectList(columns), repo.table, repo.join, where)}

	if order := repo.orderBy(params); order != "" {
		parts = append(parts, order)
	}

	if params.Limit > 0 {
		args["limit"] = params.Limit
		parts = append(parts, "LIMIT :limit")

		if params.Page > 1 {
			args["offset"] = (params.Page - 1) * params.Limit
			parts = append(parts, "OFFSET :offset")
		}
	}

	models := []T{}

	err := repo.run(ctx, scope, repo.reader(ctx), strings.Join(parts, " "), "list", func(stmt *sqlx.NamedStmt) error {
		return stmt.SelectContext(ctx, &models, args) //nolint:wrapcheck
	})

	return models, err
}

func (repo *Repository[T]) Count(ctx context.Context, filter dto.FilterGroup) (int, error) {
	ctx, scope := repo.scope(ctx, "Count")
	defer scope.End()

	where, args := whereClause(filter)
	query := fmt.Sprintf("SELECT COUNT(%s.%s) FROM %s %s %s", repo.table, repo.primaryColumn, repo.table, repo.join, where)

	var count int

	err := repo.run(ctx, scope, repo.reader(ctx), query, "count", func(stmt *sqlx.NamedStmt) error {
		return stmt.GetContext(ctx, &count, args) //nolint:wrapcheck
	})

	return count, err
}

// Update sets the columns of fields on every row matching filter. The filter is required.
func (repo *Repository[T]) Update(ctx context.Context, fields map[string]any, filter dto.FilterGroup) error {
	ctx, scope := repo.scope(ctx, "Update")
	defer scope.End()

	where, args := whereClause(filter)
	if where == "" {
		return errRequiredFilter
	}

	assignments := make([]string, 0, len(fields))
	for _, col := range slices.Sorted(maps.Keys(fields)) {
		assignments = append(assignments, fmt.Sprintf("%s = :%s", col, col))
	}

	maps.Copy(args, fields)

	query := fmt.Sprintf("UPDATE %s SET %s %s", repo.table, strings.Join(assignments, ", "), where)

	return repo.run(ctx, scope, repo.db.Write, query, "update", func(stmt *sqlx.NamedStmt) error {
		_, err := stmt.ExecContext(ctx, args)

		return err //nolint:wrapcheck
	})
}

func (repo *Repository[T]) Delete(ctx context.Context, filter dto.FilterGroup) error {
	ctx, scope := repo.scope(ctx, "Delete")
	defer scope.End()

	where, args := whereClause(filter)
	if where == "" {
		return errRequiredFilter
	}

	query := fmt.Sprintf("DELETE FROM %s %s", repo.table, where)

	return repo.run(ctx, scope, repo.db.Write, query, "delete", func(stmt *sqlx.NamedStmt) error {
		_, err := stmt.ExecContext(ctx, args)

		return err //nolint:wrapcheck
	})
}

// translate maps constraint violations to 409 failures. The overlap exclusion constraint
// on reservations lands here when two writers race past the lock.
func (repo *Repository[T]) translate(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch string(pqErr.Code) {
	case constant.PqErrorCodeUniqueViolation, constant.PqErrorCodeExclusionViolation:
		return failure.Conflict(fmt.Sprintf("%s conflicts with an existing record", repo.entity))
	case constant.PqErrorCodeFkViolation:
		return failure.Conflict(fmt.Sprintf("%s is referenced by or references a missing record", repo.entity))
	default:
		return err
	}
}

// orderBy accepts only known columns. A bare name is qualified with its table so joins
// cannot make it ambiguous. Direction defaults to ASC.
func (repo *Repository[T]) orderBy(params dto.QueryParams) string {
	if params.SortBy == "" {
		return ""
	}

	idx := slices.IndexFunc(repo.columns, func(c column) bool {
		return c.name == params.SortBy || c.qualified() == params.SortBy
	})
	if idx < 0 {
		return ""
	}

	direction := params.SortDir
	if direction != dto.SortDirDesc {
		direction = dto.SortDirAsc
	}

	return fmt.Sprintf("ORDER BY %s %s", repo.columns[idx].qualified(), direction)
}

func (repo *Repository[T]) selectList(only []string) string {
	exprs := make([]string, 0, len(repo.columns))

	for _, col := range repo.columns {
		if len(only) > 0 && !slices.Contains(only, col.name) {
			continue
		}

		exprs = append(exprs, col.selectExpr())
	}

	return strings.Join(exprs, ", ")
}

func whereClause(filter dto.FilterGroup) (string, map[string]any) {
	where, args := filter.GetWhereClause()
	if where == "" {
		return "", map[string]any{}
	}

	return "WHERE " + where, args
}

func getColumns(table string, reflectType reflect.Type) (columns []column, insertColumns []string) {
	for i := range reflectType.NumField() {
		field := reflectType.Field(i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			embedded, embeddedInsert := getColumns(table, field.Type)
			columns = append(columns, embedded...)
			insertColumns = append(insertColumns, embeddedInsert...)

			continue
		}

		dbTag := field.Tag.Get("db")
		if dbTag == "" || dbTag == "-" {
			continue
		}

		source := field.Tag.Get("table")
		if source == "" {
			source = table
			insertColumns = append(insertColumns, dbTag)
		}

		if name := field.Tag.Get("column"); name != "" {
			columns = append(columns, column{name: name, table: source, alias: dbTag})
		} else {
			columns = append(columns, column{name: dbTag, table: source})
		}
	}

	return columns, insertColumns
}
