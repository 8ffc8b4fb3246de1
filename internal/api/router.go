package api

import (
	"logistics-network-service/internal/api/handlers"
	"logistics-network-service/internal/ports"
	"logistics-network-service/internal/services"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps are the collaborators the HTTP API needs. Store and Logger are
// optional; the fleet routes are mounted only when Dispatcher is set.
type Deps struct {
	Network              *services.Network
	Repo                 ports.NetworkRepository
	Store                ports.NetworkWriter
	Dispatcher           *services.Dispatcher
	DefaultSortingCenter string
	Logger               *log.Logger
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(deps Deps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = log.Default()
	}

	health := &handlers.HealthHandler{Network: deps.Network}
	network := &handlers.NetworkHandler{Network: deps.Network, Store: deps.Store}
	plans := &handlers.PlanHandler{
		Repo:                 deps.Repo,
		Network:              deps.Network,
		DefaultSortingCenter: deps.DefaultSortingCenter,
	}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware(logger))
	r.Use(loggingMiddleware)

	r.Get("/health", health.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/locations", func(r chi.Router) {
		r.Get("/", network.ListLocations)
		r.Post("/", network.CreateLocation)
		r.Get("/{name}/neighbors", network.Neighbors)
	})

	r.Post("/links", network.PutLink)
	r.Delete("/links", network.DeleteLink)

	r.Route("/routes", func(r chi.Router) {
		r.Get("/shortest", network.ShortestRoute)
		r.Get("/path", network.Path)
		r.Get("/reachable", network.Reachable)
	})

	r.Get("/traversals", network.Traverse)
	r.Post("/plans", plans.Plan)

	if deps.Dispatcher != nil {
		dispatch := &handlers.DispatchHandler{Dispatcher: deps.Dispatcher}

		r.Route("/vehicles", func(r chi.Router) {
			r.Get("/", dispatch.ListVehicles)
			r.Post("/", dispatch.CreateVehicle)
			r.Post("/{plate}/queue", dispatch.QueueVehicle)
		})
		r.Route("/missions", func(r chi.Router) {
			r.Get("/", dispatch.ListMissions)
			r.Post("/", dispatch.CreateTask)
			r.Post("/auto", dispatch.CreateAutoTask)
			r.Get("/{id}", dispatch.GetMission)
			r.Post("/{id}/outcome", dispatch.RecordOutcome)
		})
		r.Get("/stats", dispatch.Stats)
	}

	return r
}
