package main

import (
	"context"
	"fmt"
	"itinerary-planner-service/internal/adapters/repositories"
	"itinerary-planner-service/internal/config"
	"itinerary-planner-service/internal/platform/db"
	"itinerary-planner-service/internal/platform/logging"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var logger zerolog.Logger

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	// flag defaults below read the environment, so .env goes first
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:           "dbtool",
		Short:         "Schema and seed management for the itinerary planner",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = logging.Setup(config.Get("APP_ENV", "development"))
		},
	}

	root.AddCommand(newInitSQLiteCmd(), newSeedCmd(), newInitPostgresCmd())
	return root
}

func newInitSQLiteCmd() *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:   "init-sqlite",
		Short: "Create the trip and cache tables in SQLite",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sqlite, err := db.OpenSQLite(ctx, dbPath)
			if err != nil {
				return err
			}
			defer sqlite.Close()

			if err := repositories.InitSchema(ctx, sqlite); err != nil {
				return err
			}
			logger.Info().Str("db", dbPath).Msg("schema ready")
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", config.Get("DB_PATH", "data/app.db"), "SQLite database file")
	return cmd
}

func newSeedCmd() *cobra.Command {
	var dbPath, seedPath string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Replace the stored trip with a JSON or YAML trip file",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			seed, err := repositories.LoadTripSeed(seedPath)
			if err != nil {
				return err
			}

			sqlite, err := db.OpenSQLite(ctx, dbPath)
			if err != nil {
				return err
			}
			defer sqlite.Close()

			if err := repositories.InitSchema(ctx, sqlite); err != nil {
				return err
			}
			if err := repositories.SeedTrip(ctx, sqlite, seed); err != nil {
				return err
			}
			logger.Info().
				Str("seed", seedPath).
				Int("activities", len(seed.Activities)).
				Int("time_blocks", len(seed.TimeBlocks)).
				Int("travel", len(seed.Travel)).
				Msg("seeding complete")
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", config.Get("DB_PATH", "data/app.db"), "SQLite database file")
	cmd.Flags().StringVar(&seedPath, "file", config.Get("SEED_PATH", "data/seeds/trip.json"), "trip seed file (.json, .yaml, .yml)")
	return cmd
}

func newInitPostgresCmd() *cobra.Command {
	var databaseURL string
	cmd := &cobra.Command{
		Use:   "init-postgres",
		Short: "Create the shared travel and geocode cache tables in Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			if databaseURL == "" {
				return fmt.Errorf("DATABASE_URL or --database-url is required")
			}

			ctx := cmd.Context()
			pg, err := db.OpenPostgres(ctx, databaseURL)
			if err != nil {
				return err
			}
			defer pg.Close()

			if err := repositories.InitPostgresSchema(ctx, pg); err != nil {
				return err
			}
			logger.Info().Msg("postgres cache schema ready")
			return nil
		},
	}
	cmd.Flags().StringVar(&databaseURL, "database-url", config.Get("DATABASE_URL", ""), "Postgres connection URL")
	return cmd
}

// executeContext is used by tests to run a command line.
func executeContext(ctx context.Context, args ...string) error {
	root := newRootCmd()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}
