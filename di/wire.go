//go:build wireinject
// +build wireinject

package di

import (
	"housing/config"
	"housing/infras/kafka"
	"housing/infras/otel"
	"housing/infras/postgres"
	"housing/infras/redis"
	"housing/shared/cache"
	"housing/shared/event"
	"housing/shared/lock"
	"housing/shared/timezone"
	"housing/transport/http"
	"housing/transport/http/middleware"
	"housing/transport/http/router"

	centerRepository "housing/internal/domains/center/repository"
	floorRepository "housing/internal/domains/floor/repository"
	reasonRepository "housing/internal/domains/reason/repository"
	reservationRepository "housing/internal/domains/reservation/repository"
	reservationService "housing/internal/domains/reservation/service"
	roomRepository "housing/internal/domains/room/repository"
	roomService "housing/internal/domains/room/service"
	workOrderRepository "housing/internal/domains/workorder/repository"
	workOrderService "housing/internal/domains/workorder/service"
	workTypeRepository "housing/internal/domains/worktype/repository"

	reservationHandler "housing/internal/handlers/reservation"
	roomHandler "housing/internal/handlers/room"
	workOrderHandler "housing/internal/handlers/workorder"

	availabilityWorker "housing/internal/workers/availability"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	kafka.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	lock.New,
	event.New,
	timezone.NewClock,
)

var availabilityHelpers = wire.NewSet(
	cache.NewRedisCache,
	lock.New,
	event.New,
)

var referenceDomain = wire.NewSet(
	centerRepository.New,
	floorRepository.New,
	reasonRepository.New,
	workTypeRepository.New,
)

var roomDomain = wire.NewSet(
	roomRepository.New,
	roomService.New,
)

var reservationDomain = wire.NewSet(
	reservationRepository.New,
	reservationService.NewAvailability,
	reservationService.New,
)

var workOrderDomain = wire.NewSet(
	workOrderRepository.New,
	workOrderService.New,
)

var domains = wire.NewSet(
	referenceDomain,
	roomDomain,
	reservationDomain,
	workOrderDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	roomHandler.New,
	reservationHandler.New,
	workOrderHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}

func InitializeAvailability() reservationService.Availability {
	wire.Build(
		configurations,
		infrastructures,
		availabilityHelpers,
		reservationRepository.New,
		roomRepository.New,
		reservationService.NewAvailability,
	)

	return nil
}

func InitializeWorker() *availabilityWorker.Worker {
	wire.Build(
		configurations,
		infrastructures,
		availabilityHelpers,
		reservationRepository.New,
		roomRepository.New,
		reservationService.NewAvailability,
		availabilityWorker.New,
	)

	return nil
}
