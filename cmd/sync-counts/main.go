package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"time"

	"tourops/internal/config"
	"tourops/internal/database"
	"tourops/internal/logger"
	"tourops/internal/repository"
	"tourops/internal/search"
	"tourops/internal/service"
)

func main() {
	var reindex bool
	flag.BoolVar(&reindex, "reindex", false, "also rebuild the departures search index")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	slog.Info("Starting counter synchronization")

	db, err := database.Connect(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	defer db.Close()

	repos := repository.NewRepositories(db)

	if err := syncCounts(context.Background(), repos.Transports); err != nil {
		logger.Fatal("Counter synchronization failed", "error", err)
	}

	if reindex {
		if err := reindexDepartures(context.Background(), repos); err != nil {
			logger.Fatal("Departure reindex failed", "error", err)
		}
	}

	slog.Info("Counter synchronization completed successfully")
}

// syncCounts rebuilds every leg's assigned_guests projection from the seat
// assignment rows. Run after manual data fixes or bulk imports that bypass
// the API.
func syncCounts(ctx context.Context, transportRepo *repository.TransportRepository) error {
	start := time.Now()

	changed, err := transportRepo.RecomputeAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to recompute transport counters: %w", err)
	}

	slog.Info("Counter synchronization completed",
		"legs_corrected", changed,
		"duration", time.Since(start).String())

	return nil
}

func reindexDepartures(ctx context.Context, repos *repository.Repositories) error {
	searchClient, err := search.NewDepartureSearchClient(config.LoadElasticsearchConfig())
	if err != nil {
		return fmt.Errorf("failed to connect to Elasticsearch: %w", err)
	}

	departureService := service.NewDepartureService(repos.Departures, searchClient)

	start := time.Now()
	indexed, err := departureService.ReindexAll(ctx)
	if err != nil {
		return err
	}

	slog.Info("Departure reindex completed",
		"indexed", indexed,
		"duration", time.Since(start).String())

	return nil
}
