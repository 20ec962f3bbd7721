package api

import (
	"itinerary-planner-service/internal/api/handlers"
	"itinerary-planner-service/internal/platform/metrics"
	"itinerary-planner-service/internal/ports"
	"itinerary-planner-service/internal/services"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Options tune the planning endpoint.
type Options struct {
	TravelUnit       time.Duration
	FetchConcurrency int
	Planner          services.PlannerConfig
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(repo ports.TripRepository, provider ports.TravelProvider, opts Options, logger zerolog.Logger) http.Handler {
	router := chi.NewRouter()

	router.Use(ensureRequestID)
	router.Use(middleware.RequestID)
	router.Use(loggingMiddleware(logger))
	router.Use(middleware.Recoverer)

	tripHandler := &handlers.TripHandler{Repo: repo}
	itineraryHandler := &handlers.ItineraryHandler{
		Repo:             repo,
		Provider:         provider,
		TravelUnit:       opts.TravelUnit,
		FetchConcurrency: opts.FetchConcurrency,
		Planner:          opts.Planner,
	}

	router.Get("/health", handlers.Health)
	router.Get("/trip", tripHandler.Get)
	router.Post("/itineraries", itineraryHandler.Plan)
	router.Method(http.MethodGet, "/metrics", metrics.Handler())

	return router
}
