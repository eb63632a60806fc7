package router

import (
	"housing/internal/handlers/reservation"
	"housing/internal/handlers/room"
	"housing/internal/handlers/workorder"

	"github.com/go-chi/chi/v5"
)

// Registrar mounts the routes of one domain under the version group.
type Registrar interface {
	Router(router chi.Router)
}

type DomainHandlers struct {
	Room        room.Handler
	Reservation reservation.Handler
	WorkOrder   workorder.Handler
}

// registrars lists the domains in mount order. Rooms come first because the other
// domains add routes nested under /rooms/{id}.
func (d *DomainHandlers) registrars() []Registrar {
	return []Registrar{&d.Room, &d.Reservation, &d.WorkOrder}
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(v1 chi.Router) {
		for _, registrar := range r.DomainHandlers.registrars() {
			registrar.Router(v1)
		}
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{DomainHandlers: domainHandlers}
}
