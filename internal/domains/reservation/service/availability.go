package service

//go:generate go run go.uber.org/mock/mockgen -source=./availability.go -destination=../mocks/availability_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"

	"housing/config"
	"housing/infras/otel"
	"housing/internal/domains/reservation/model"
	"housing/internal/domains/reservation/repository"
	roomModel "housing/internal/domains/room/model"
	roomRepository "housing/internal/domains/room/repository"
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

const resyncPageSize = 200

// Availability keeps Room.reserved equal to "at least one reservation references the room".
type Availability interface {
	// Resync takes the room lock, then recomputes the flag.
	Resync(ctx context.Context, roomID string) error
	// ResyncLocked recomputes the flag; the caller already holds the room lock.
	ResyncLocked(ctx context.Context, roomID string) error
	// ResyncAll walks every room and returns how many flags were corrected.
	ResyncAll(ctx context.Context) (int, error)
}

type availabilityImpl struct {
	repo      repository.Reservation
	roomRepo  roomRepository.Room
	locker    lock.Locker
	publisher event.Publisher
	cfg       *config.Config
	cache     cache.RedisCache
	otel      otel.Otel
}

func NewAvailability(repo repository.Reservation, roomRepo roomRepository.Room, locker lock.Locker, publisher event.Publisher, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Availability {
	return &availabilityImpl{
		repo:      repo,
		roomRepo:  roomRepo,
		locker:    locker,
		publisher: publisher,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
	}
}

func (a *availabilityImpl) Resync(ctx context.Context, roomID string) (err error) {
	ctx, scope := a.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Resync")
	defer scope.End()
	defer scope.TraceIfError(&err)

	release, err := a.locker.Acquire(ctx, lock.Key(model.LockNamespace, roomID))
	if err != nil {
		log.Error().Err(err).Str("room_id", roomID).Msg("failed to lock room for resync")

		return fmt.Errorf("failed to lock room: %w", err)
	}
	defer release()

	_, err = a.resync(ctx, roomID)

	return err
}

func (a *availabilityImpl) ResyncLocked(ctx context.Context, roomID string) (err error) {
	ctx, scope := a.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ResyncLocked")
	defer scope.End()
	defer scope.TraceIfError(&err)

	_, err = a.resync(ctx, roomID)

	return err
}

func (a *availabilityImpl) ResyncAll(ctx context.Context) (changed int, err error) {
	ctx, scope := a.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ResyncAll")
	defer scope.End()
	defer scope.TraceIfError(&err)

	params := gDto.QueryParams{Page: 1, Limit: resyncPageSize, SortBy: roomModel.FieldID, SortDir: gDto.SortDirAsc}

	var errs []error

	for {
		rooms, err := a.roomRepo.GetAll(ctx, params, gDto.FilterGroup{}, roomModel.FieldID)
		if err != nil {
			log.Error().Err(err).Int("page", params.Page).Msg("failed to list rooms for resync")

			return changed, fmt.Errorf("failed to list rooms: %w", err)
		}

		for _, room := range rooms {
			release, err := a.locker.Acquire(ctx, lock.Key(model.LockNamespace, room.ID))
			if err != nil {
				errs = append(errs, fmt.Errorf("room %s: %w", room.ID, err))

				continue
			}

			updated, err := a.resync(ctx, room.ID)
			release()

			if err != nil {
				errs = append(errs, fmt.Errorf("room %s: %w", room.ID, err))

				continue
			}

			if updated {
				changed++
			}
		}

		if len(rooms) < params.Limit {
			break
		}

		params.Page++
	}

	log.Info().Int("changed", changed).Int("failed", len(errs)).Msg("room availability reconciled")

	return changed, errors.Join(errs...)
}

// resync writes the flag only when it differs, so repeated calls are no-ops.
func (a *availabilityImpl) resync(ctx context.Context, roomID string) (bool, error) {
	count, err := a.repo.CountByRoom(ctx, roomID)
	if err != nil {
		log.Error().Err(err).Str("room_id", roomID).Msg("failed to count reservations of room")

		return false, fmt.Errorf("failed to count reservations: %w", err)
	}

	filter := shared.FilterByID(roomID, roomModel.FieldID, roomModel.TableName)

	room, err := a.roomRepo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Str("room_id", roomID).Msg("failed to get room")

		return false, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty {
		return false, failure.NotFound("room not found") // nolint:wrapcheck
	}

	reserved := count > 0
	if room.Reserved == reserved {
		return false, nil
	}

	fields := map[string]any{
		roomModel.FieldReserved:  reserved,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: constant.ActorSystem,
	}

	if err = a.roomRepo.Update(ctx, fields, filter); err != nil {
		log.Error().Err(err).Str("room_id", roomID).Msg("failed to update room availability")

		return false, fmt.Errorf("failed to update room availability: %w", err)
	}

	log.Info().Str("room_id", roomID).Bool("reserved", reserved).Msg("room availability changed")

	// the single room entry goes synchronously so a read right after a forced resync sees the flag
	if err := a.cache.Delete(ctx, shared.BuildCacheKey(roomModel.CachePrefixGet, roomID)); err != nil {
		log.Error().Err(err).Msg("failed to delete room cache")
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, a.cache, roomModel.CachePrefixGetAll)
		shared.InvalidateCaches(c, a.cache, roomModel.CachePrefixCount)
	}()

	ev := event.Event{
		Type:       event.TypeRoomAvailabilityChanged,
		Key:        roomID,
		Payload:    event.Availability{RoomID: roomID, Reserved: reserved},
		OccurredAt: timezone.Now(),
	}

	if err := a.publisher.Publish(ctx, a.cfg.Kafka.Topics.RoomAvailability, ev); err != nil {
		log.Error().Err(err).Str("room_id", roomID).Msg("failed to publish availability change")
	}

	return true, nil
}
