package service

import (
	"context"
	"fmt"

	"housing/config"
	"housing/infras/otel"
	centerModel "housing/internal/domains/center/model"
	centerRepository "housing/internal/domains/center/repository"
	floorModel "housing/internal/domains/floor/model"
	reasonModel "housing/internal/domains/reason/model"
	reasonRepository "housing/internal/domains/reason/repository"
	"housing/internal/domains/reservation/model"
	"housing/internal/domains/reservation/model/dto"
	"housing/internal/domains/reservation/repository"
	roomModel "housing/internal/domains/room/model"
	roomRepository "housing/internal/domains/room/repository"
	"housing/internal/scheduling"
	"housing/shared"
	"housing/shared/cache"
	"housing/shared/constant"
	gDto "housing/shared/dto"
	"housing/shared/event"
	"housing/shared/failure"
	"housing/shared/lock"
	"housing/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	messageConflict = "reservation already exists for room/dates"
	messageMoved    = "reservation was moved to another room concurrently, retry"
	messageNoRows   = "no reservation for this center"
)

type Reservation interface {
	Create(ctx context.Context, req dto.CreateReservationRequest) (dto.ReservationResponse, error)
	Update(ctx context.Context, req dto.UpdateReservationRequest, id string) (dto.ReservationResponse, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (dto.ReservationResponse, error)
	ListByCenter(ctx context.Context, centerID string, params gDto.QueryParams) (dto.GetReservationsResponse, error)
	ListByRoom(ctx context.Context, roomID string, params gDto.QueryParams) (dto.GetReservationsResponse, error)
}

type serviceImpl struct {
	repo         repository.Reservation
	roomRepo     roomRepository.Room
	reasonRepo   reasonRepository.Reason
	centerRepo   centerRepository.Center
	availability Availability
	conflicts    scheduling.ConflictFinder
	locker       lock.Locker
	clock        timezone.Clock
	publisher    event.Publisher
	cfg          *config.Config
	cache        cache.RedisCache
	otel         otel.Otel
}

func New(
	repo repository.Reservation,
	roomRepo roomRepository.Room,
	reasonRepo reasonRepository.Reason,
	centerRepo centerRepository.Center,
	availability Availability,
	locker lock.Locker,
	clock timezone.Clock,
	publisher event.Publisher,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Reservation {
	return &serviceImpl{
		repo:         repo,
		roomRepo:     roomRepo,
		reasonRepo:   reasonRepo,
		centerRepo:   centerRepo,
		availability: availability,
		conflicts:    scheduling.NewRangeOverlap(repo),
		locker:       locker,
		clock:        clock,
		publisher:    publisher,
		cfg:          cfg,
		cache:        cache,
		otel:         otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateReservationRequest) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(&err)

	today := timezone.Today(s.clock)

	interval, err := req.Interval()
	if err != nil {
		return res, err
	}

	if err = scheduling.ValidateInterval(interval, scheduling.ReservationRules, today); err != nil {
		return res, err
	}

	if err = s.ensureRoom(ctx, req.RoomID); err != nil {
		return res, err
	}

	if err = s.ensureReason(ctx, req.ReasonID); err != nil {
		return res, err
	}

	reservation := req.ToModel(interval, today, shared.Actor(ctx))

	err = s.withRoomLock(ctx, func() error {
		if err := s.ensureFree(ctx, scheduling.Candidate{ScopeID: req.RoomID, Start: interval.Start, End: interval.End}); err != nil {
			return err
		}

		if err := s.repo.Insert(ctx, reservation); err != nil {
			log.Error().Err(err).Msg("failed to insert reservation")

			return fmt.Errorf("failed to insert reservation: %w", err)
		}

		s.resyncOrReport(ctx, req.RoomID)

		return nil
	}, req.RoomID)
	if err != nil {
		return res, err
	}

	res.FromModel(reservation)

	s.invalidate(ctx, reservation.ID)
	s.publish(ctx, event.TypeReservationCreated, res)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateReservationRequest, id string) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(&err)

	today := timezone.Today(s.clock)

	interval, err := req.Interval()
	if err != nil {
		return res, err
	}

	if err = scheduling.ValidateInterval(interval, scheduling.ReservationRules, today); err != nil {
		return res, err
	}

	current, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	if err = s.ensureRoom(ctx, req.RoomID); err != nil {
		return res, err
	}

	if err = s.ensureReason(ctx, req.ReasonID); err != nil {
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

		candidate := scheduling.Candidate{ScopeID: req.RoomID, Start: interval.Start, End: interval.End, ExcludeID: id}
		if err := s.ensureFree(ctx, candidate); err != nil {
			return err
		}

		filter := shared.FilterByID(id, model.FieldID, model.TableName)
		if err := s.repo.Update(ctx, req.ToFields(interval, user), filter); err != nil {
			log.Error().Err(err).Msg("failed to update reservation")

			return fmt.Errorf("failed to update reservation: %w", err)
		}

		if fresh.RoomID != req.RoomID {
			s.resyncOrReport(ctx, fresh.RoomID)
		}

		s.resyncOrReport(ctx, req.RoomID)

		current = fresh

		return nil
	}, current.RoomID, req.RoomID)
	if err != nil {
		return res, err
	}

	current.RoomID = req.RoomID
	current.ReasonID = req.ReasonID
	current.StartDate = interval.Start
	current.EndDate = *interval.End
	current.ModifiedAt = timezone.Now()
	current.ModifiedBy = user

	res.FromModel(current)

	s.invalidate(ctx, id)
	s.publish(ctx, event.TypeReservationUpdated, res)

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(&err)

	current, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	err = s.withRoomLock(ctx, func() error {
		fresh, err := s.find(ctx, id)
		if err != nil {
			return err
		}

		if fresh.RoomID != current.RoomID {
			return failure.Conflict(messageMoved) // nolint:wrapcheck
		}

		if err := s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
			log.Error().Err(err).Msg("failed to delete reservation")

			return fmt.Errorf("failed to delete reservation: %w", err)
		}

		s.resyncOrReport(ctx, fresh.RoomID)

		return nil
	}, current.RoomID)
	if err != nil {
		return err
	}

	var res dto.ReservationResponse
	res.FromModel(current)

	s.invalidate(ctx, id)
	s.publish(ctx, event.TypeReservationDeleted, res)

	return nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(&err)

	cacheKey := shared.BuildCacheKey(model.CachePrefixGet, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for reservation")

		return res, nil
	}

	reservation, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(reservation)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reservation to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) ListByCenter(ctx context.Context, centerID string, params gDto.QueryParams) (res dto.GetReservationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListByCenter")
	defer scope.End()
	defer scope.TraceIfError(&err)

	exist, err := s.centerRepo.Exist(ctx, shared.FilterByID(centerID, centerModel.FieldID, centerModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check center existence")

		return res, fmt.Errorf("failed to check center existence: %w", err)
	}

	if !exist {
		return res, failure.NotFound("center not found") // nolint:wrapcheck
	}

	res, err = s.list(ctx, params, shared.FilterByID(centerID, floorModel.FieldCenterID, floorModel.TableName))
	if err != nil {
		return res, err
	}

	if res.TotalData == 0 {
		return res, failure.NoContent(messageNoRows) // nolint:wrapcheck
	}

	return res, nil
}

func (s *serviceImpl) ListByRoom(ctx context.Context, roomID string, params gDto.QueryParams) (res dto.GetReservationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListByRoom")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if err = s.ensureRoom(ctx, roomID); err != nil {
		return res, err
	}

	return s.list(ctx, params, shared.FilterByID(roomID, model.FieldRoomID, model.TableName))
}

func (s *serviceImpl) list(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetReservationsResponse, err error) {
	if params.SortBy == constant.Empty {
		params.SortBy = model.TableName + "." + model.FieldStartDate
		params.SortDir = gDto.SortDirAsc
	}

	cacheKey := shared.BuildCacheKeyWithQuery(model.CachePrefixGetAll, params, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for reservations")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count reservations")

		return res, fmt.Errorf("failed to count reservations: %w", err)
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservations")

		return res, fmt.Errorf("failed to get reservations: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reservations to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) find(ctx context.Context, id string) (model.Reservation, error) {
	reservation, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservation")

		return reservation, fmt.Errorf("failed to get reservation: %w", err)
	}

	if reservation.ID == constant.Empty {
		return reservation, failure.NotFound("reservation not found") // nolint:wrapcheck
	}

	return reservation, nil
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

func (s *serviceImpl) ensureReason(ctx context.Context, reasonID string) error {
	exist, err := s.reasonRepo.Exist(ctx, shared.FilterByID(reasonID, reasonModel.FieldID, reasonModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check reservation reason existence")

		return fmt.Errorf("failed to check reservation reason existence: %w", err)
	}

	if !exist {
		return failure.NotFound("reservation reason not found") // nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) ensureFree(ctx context.Context, candidate scheduling.Candidate) error {
	ids, err := s.conflicts.FindConflicts(ctx, candidate)
	if err != nil {
		log.Error().Err(err).Msg("failed to look up overlapping reservations")

		return fmt.Errorf("failed to look up overlapping reservations: %w", err)
	}

	if len(ids) > 0 {
		log.Warn().Str("room_id", candidate.ScopeID).Strs("conflicts", ids).Msg("reservation overlaps existing ones")

		return failure.Conflict(messageConflict) // nolint:wrapcheck
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

// resyncOrReport runs after a committed write, so a failure here must not fail the request.
func (s *serviceImpl) resyncOrReport(ctx context.Context, roomID string) {
	err := s.availability.ResyncLocked(ctx, roomID)
	if err == nil {
		return
	}

	log.Error().Err(err).Bool("divergence", true).Str("room_id", roomID).Msg("room availability diverged from reservations")

	ev := event.Event{
		Type:       event.TypeRoomAvailabilityDiverged,
		Key:        roomID,
		Payload:    event.Availability{RoomID: roomID, Reason: err.Error()},
		OccurredAt: timezone.Now(),
	}

	if err := s.publisher.Publish(ctx, s.cfg.Kafka.Topics.RoomAvailability, ev); err != nil {
		log.Error().Err(err).Str("room_id", roomID).Msg("failed to publish availability divergence")
	}
}

func (s *serviceImpl) publish(ctx context.Context, eventType string, res dto.ReservationResponse) {
	ev := event.Event{Type: eventType, Key: res.ID, Payload: res, OccurredAt: timezone.Now()}

	if err := s.publisher.Publish(ctx, s.cfg.Kafka.Topics.Reservation, ev); err != nil {
		log.Error().Err(err).Str("reservation_id", res.ID).Msg("failed to publish reservation event")
	}
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(model.CachePrefixGet, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete reservation cache")
		}

		shared.InvalidateCaches(c, s.cache, model.CachePrefixGetAll)
	}()
}
