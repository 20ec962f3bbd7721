package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"itinerary-planner-service/internal/adapters/cache"
	"itinerary-planner-service/internal/adapters/repositories"
	"itinerary-planner-service/internal/adapters/travel"
	"itinerary-planner-service/internal/api"
	"itinerary-planner-service/internal/config"
	"itinerary-planner-service/internal/platform/db"
	"itinerary-planner-service/internal/platform/logging"
	"itinerary-planner-service/internal/ports"
	"itinerary-planner-service/internal/services"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// main is the application composition root.
// It wires concrete adapters (SQLite, ORS, caches) behind ports and starts the HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	logger := logging.Setup(cfg.Environment)

	if err := run(cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg *config.Config, logger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithContext(ctx)

	tripDB, err := db.OpenSQLite(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer tripDB.Close()

	// Initialize schema and seed demo data on startup for local runs.
	if err := initAndSeed(ctx, tripDB, cfg.SeedPath, logger); err != nil {
		return err
	}
	repo := repositories.NewSqliteTripRepository(tripDB)

	provider, closeProvider, err := newTravelProvider(ctx, cfg, tripDB, repo, logger)
	if err != nil {
		return err
	}
	defer closeProvider()

	router := api.NewRouter(repo, provider, api.Options{
		TravelUnit:       cfg.TravelUnit,
		FetchConcurrency: cfg.TravelFetchConcurrency,
		Planner:          services.PlannerConfig{Timeout: cfg.PlanTimeout},
	}, logger)

	// Timeouts are tuned for cold-cache planning (external API latency).
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func initAndSeed(ctx context.Context, tripDB *sql.DB, seedPath string, logger zerolog.Logger) error {
	if err := repositories.InitSchema(ctx, tripDB); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	seed, err := repositories.LoadTripSeed(seedPath)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Warn().Str("path", seedPath).Msg("no seed file, keeping stored trip")
		return nil
	}
	if err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if err := repositories.SeedTrip(ctx, tripDB, seed); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}
	logger.Info().
		Int("activities", len(seed.Activities)).
		Int("time_blocks", len(seed.TimeBlocks)).
		Msg("trip seeded")
	return nil
}

// newTravelProvider picks OpenRouteService when a key is configured, with the
// most shared travel cache available, and otherwise the trip's own legs.
func newTravelProvider(
	ctx context.Context,
	cfg *config.Config,
	tripDB *sql.DB,
	repo ports.TripRepository,
	logger zerolog.Logger,
) (ports.TravelProvider, func(), error) {
	noop := func() {}

	if cfg.ORSAPIKey == "" {
		legs, err := repo.ListTravelLegs(ctx)
		if err != nil {
			return nil, noop, fmt.Errorf("load travel legs: %w", err)
		}
		logger.Info().Int("legs", len(legs)).Msg("using static travel table")
		return travel.NewStaticTravelProvider(travel.LegsFromTrip(legs), true), noop, nil
	}

	var closers []func()
	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}

	var travelCache ports.TravelCache = cache.NewSQLTravelCache(tripDB, cache.SQLite)
	var geocodeCache ports.GeocodeCache = cache.NewSQLGeocodeCache(tripDB, cache.SQLite)
	cacheKind := "sqlite"

	if cfg.DatabaseURL != "" {
		pg, err := db.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, noop, err
		}
		closers = append(closers, func() { pg.Close() })

		if err := repositories.InitPostgresSchema(ctx, pg); err != nil {
			closeAll()
			return nil, noop, err
		}
		travelCache = cache.NewSQLTravelCache(pg, cache.Postgres)
		geocodeCache = cache.NewSQLGeocodeCache(pg, cache.Postgres)
		cacheKind = "postgres"
	}

	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:         cfg.RedisAddr,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  2 * time.Second,
			WriteTimeout: 2 * time.Second,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := client.Ping(pingCtx).Err()
		cancel()

		if err != nil {
			logger.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unavailable, keeping " + cacheKind + " travel cache")
			client.Close()
		} else {
			closers = append(closers, func() { client.Close() })
			travelCache = cache.NewRedisTravelCache(client, cfg.TravelCacheTTL)
			cacheKind = "redis"
		}
	}

	provider, err := travel.NewORSTravelProvider(cfg.ORSAPIKey, travelCache, geocodeCache)
	if err != nil {
		closeAll()
		return nil, noop, err
	}
	logger.Info().Str("travel_cache", cacheKind).Msg("using OpenRouteService travel provider")
	return provider, closeAll, nil
}
