package main

import (
	"context"
	"flag"
	"os"

	"cafe-finder/internal/config"
	"cafe-finder/internal/logging"
	"cafe-finder/internal/metrics"
	"cafe-finder/internal/places"
	"cafe-finder/internal/ratelimit"
	"cafe-finder/internal/repository"
	"cafe-finder/internal/service"

	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "configs", "Directory containing app.env")
	dryRun := flag.Bool("dry-run", false, "Collect cafes without writing to the database")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Error().Err(err).Msg("cannot load config")
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel, cfg.LogPretty)

	if err := cfg.ValidateForSync(); err != nil {
		log.Error().Err(err).Msg("invalid config")
		os.Exit(1)
	}

	os.Exit(run(cfg, *dryRun))
}

func run(cfg config.Config, dryRun bool) int {
	ctx := context.Background()

	conn, err := repository.NewPool(ctx, cfg.DBSource, cfg.DBPassword)
	if err != nil {
		log.Error().Err(err).Msg("cannot connect to db")
		return 1
	}
	defer conn.Close()

	if err := conn.Ping(ctx); err != nil {
		log.Error().Err(err).Msg("cannot reach db")
		return 1
	}

	repo := repository.NewRepository(conn)
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Error().Err(err).Msg("cannot create cafes table")
		return 1
	}

	searcher := places.WithBreaker(places.NewClient(cfg.PlacesConfig()), cfg.BreakerThreshold, cfg.BreakerCooldown)

	aggregator := service.NewAggregator(searcher, ratelimit.NewPacer(cfg.RequestInterval), cfg.Grid())
	syncService := service.NewSyncService(aggregator, repo, cfg.Bounds()).WithDryRun(dryRun)

	summary, err := syncService.Run(ctx)
	if err != nil {
		log.Error().Err(err).Msg("sync failed")
		return 1
	}

	if !dryRun {
		if total, err := repo.CountCafes(ctx); err != nil {
			log.Warn().Err(err).Msg("cannot count stored cafes")
		} else {
			log.Info().Int("stored", total).Msg("cafes in database")
		}
	}

	if cfg.MetricsTextfile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsTextfile); err != nil {
			log.Warn().Err(err).Str("path", cfg.MetricsTextfile).Msg("cannot write metrics")
		}
	}

	log.Info().
		Int("success", summary.Succeeded).
		Int("errors", summary.Failed).
		Msg("sync summary")

	return 0
}
