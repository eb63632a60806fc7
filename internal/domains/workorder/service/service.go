package service

import (
	"context"
	"fmt"

	"housing/config"
	"housing/infras/otel"
	roomModel "housing/internal/domains/room/model"
	roomRepository "housing/internal/domains/room/repository"
	"housing/internal/domains/workorder/model"
	"housing/internal/domains/workorder/model/dto"
	"housing/internal/domains/workorder/repository"
	workTypeModel "housing/internal/domains/worktype/model"
	workTypeRepository "housing/internal/domains/worktype/repository"
	"housing/internal/scheduling"
	"housing/shared"
	"housing/shared/cache"
	"housing/shared/constant"
	gDto "housing/shared/dto"
	"housing/shared/failure"
	"housing/shared/lock"
	"housing/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	messageDuplicate = "work order already exists for room/type/dates"
	messageMoved     = "work order was moved to another room concurrently, retry"
)

type WorkOrder interface {
	Create(ctx context.Context, req dto.CreateWorkOrderRequest) (dto.WorkOrderResponse, error)
	Update(ctx context.Context, req dto.UpdateWorkOrderRequest, id string) (dto.WorkOrderResponse, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (dto.WorkOrderResponse, error)
	ListByRoom(ctx context.Context, roomID string, params gDto.QueryParams) (dto.GetWorkOrdersResponse, error)
}

type serviceImpl struct {
	repo         repository.WorkOrder
	roomRepo     roomRepository.Room
	workTypeRepo workTypeRepository.WorkType
	conflicts    scheduling.ConflictFinder
	locker       lock.Locker
	clock        timezone.Clock
	cfg          *config.Config
	cache        cache.RedisCache
	otel         otel.Otel
}

func New(
	repo repository.WorkOrder,
	roomRepo roomRepository.Room,
	workTypeRepo workTypeRepository.WorkType,
	locker lock.Locker,
	clock timezone.Clock,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) WorkOrder {
	return &serviceImpl{
		repo:         repo,
		roomRepo:     roomRepo,
		workTypeRepo: workTypeRepo,
		conflicts:    scheduling.NewExactMatch(repo),
		locker:       locker,
		clock:        clock,
		cfg:          cfg,
		cache:        cache,
		otel:         otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateWorkOrderRequest) (res dto.WorkOrderResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(&err)

	interval, err := req.Interval()
	if err != nil {
		return res, err
	}

	if err = scheduling.ValidateInterval(interval, scheduling.WorkOrderRules, timezone.Today(s.clock)); err != nil {
		return res, err
	}

	if err = s.ensureRoom(ctx, req.RoomID); err != nil {
		return res, err
	}

	if err = s.ensureWorkType(ctx, req.WorkTypeID); err != nil {
		return res, err
	}

	workOrder := req.ToModel(interval, shared.Actor(ctx))

	err = s.withRoomLock(ctx, func() error {
		candidate := scheduling.Candidate{ScopeID: req.RoomID, KindID: req.WorkTypeID, Start: interval.Start, End: interval.End}
		if err := s.ensureUnique(ctx, candidate); err != nil {
			return err
		}

		if err := s.repo.Insert(ctx, workOrder); err != nil {
			log.Error().Err(err).Msg("failed to insert work order")

			return fmt.Errorf("failed to insert work order: %w", err)
		}

		return nil
	}, req.RoomID)
	if err != nil {
		return res, err
	}

	res.FromModel(workOrder)
	s.invalidate(ctx, workOrder.ID)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateWorkOrderRequest, id string) (res dto.WorkOrderResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(&err)

	interval, err := req.Interval()
	if err != nil {
		return res, err
	}

	if err = scheduling.ValidateInterval(interval, scheduling.WorkOrderRules, timezone.Today(s.clock)); err != nil {
		return res, err
	}

	current, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	if err = s.ensureRoom(ctx, req.RoomID); err != nil {
		return res, err
	}

	if err = s.ensureWorkType(ctx, req.WorkTypeID); err != nil {
		return res, err
	}

	user := shared.Actor(ctx)

	err = s.withRoomLock(ctx, func() error {
		fresh, err := s.find(ctx, id)
		if err != nil {
			return err
		}

		if fresh.RoomID != current.RoomID {
			return failure.Conflict(messageMoved) // nolint:wrapcheck
		}

		candidate := scheduling.Candidate{ScopeID: req.RoomID, KindID: req.WorkTypeID, Start: interval.Start, End: interval.End, ExcludeID: id}
		if err := s.ensureUnique(ctx, candidate); err != nil {
			return err
		}

		if err := s.repo.Update(ctx, req.ToFields(interval, user), shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
			log.Error().Err(err).Msg("failed to update work order")

			return fmt.Errorf("failed to update work order: %w", err)
		}

		return nil
	}, current.RoomID, req.RoomID)
	if err != nil {
		return res, err
	}

	current.RoomID = req.RoomID
	current.WorkTypeID = req.WorkTypeID
	current.StartDate = interval.Start
	current.EndDate = interval.End
	current.Commentary = req.Commentary
	current.ModifiedAt = timezone.Now()
	current.ModifiedBy = user

	res.FromModel(current)
	s.invalidate(ctx, id)

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if _, err = s.find(ctx, id); err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete work order")

		return fmt.Errorf("failed to delete work order: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.WorkOrderResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(&err)

	cacheKey := shared.BuildCacheKey(model.CachePrefixGet, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	workOrder, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(workOrder)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save work order to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) ListByRoom(ctx context.Context, roomID string, params gDto.QueryParams) (res dto.GetWorkOrdersResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListByRoom")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if err = s.ensureRoom(ctx, roomID); err != nil {
		return res, err
	}

	if params.SortBy == constant.Empty {
		params.SortBy = model.FieldStartDate
		params.SortDir = gDto.SortDirAsc
	}

	filter := shared.FilterByID(roomID, model.FieldRoomID, model.TableName)
	cacheKey := shared.BuildCacheKeyWithQuery(model.CachePrefixGetAll, params, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count work orders")

		return res, fmt.Errorf("failed to count work orders: %w", err)
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get work orders")

		return res, fmt.Errorf("failed to get work orders: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save work orders to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) find(ctx context.Context, id string) (model.WorkOrder, error) {
	workOrder, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get work order")

		return workOrder, fmt.Errorf("failed to get work order: %w", err)
	}

	if workOrder.ID == constant.Empty {
		return workOrder, failure.NotFound("work order not found") // nolint:wrapcheck
	}

	return workOrder, nil
}

func (s *serviceImpl) ensureRoom(ctx context.Context, roomID string) error {
	exist, err := s.roomRepo.Exist(ctx, shared.FilterByID(roomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check room existence")

		return fmt.Errorf("failed to check room existence: %w", err)
	}

	if !exist {
		return failure.NotFound("room not found") // nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) ensureWorkType(ctx context.Context, workTypeID string) error {
	exist, err := s.workTypeRepo.Exist(ctx, shared.FilterByID(workTypeID, workTypeModel.FieldID, workTypeModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check work type existence")

		return fmt.Errorf("failed to check work type existence: %w", err)
	}

	if !exist {
		return failure.NotFound("work type not found") // nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) ensureUnique(ctx context.Context, candidate scheduling.Candidate) error {
	ids, err := s.conflicts.FindConflicts(ctx, candidate)
	if err != nil {
		log.Error().Err(err).Msg("failed to look up duplicate work orders")

		return fmt.Errorf("failed to look up duplicate work orders: %w", err)
	}

	if len(ids) > 0 {
		log.Warn().Str("room_id", candidate.ScopeID).Strs("duplicates", ids).Msg("work order duplicates existing ones")

		return failure.Conflict(messageDuplicate) // nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) withRoomLock(ctx context.Context, fn func() error, roomIDs ...string) error {
	keys := make([]string, 0, len(roomIDs))
	for _, roomID := range roomIDs {
		keys = append(keys, lock.Key(model.LockNamespace, roomID))
	}

	release, err := s.locker.Acquire(ctx, keys...)
	if err != nil {
		log.Error().Err(err).Strs("keys", keys).Msg("failed to lock rooms")

		return fmt.Errorf("failed to lock rooms: %w", err)
	}
	defer release()

	return fn()
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(model.CachePrefixGet, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete work order cache")
		}

		shared.InvalidateCaches(c, s.cache, model.CachePrefixGetAll)
	}()
}
