package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/kreuzberg-io/kreuzberg/internal/config"
	"github.com/kreuzberg-io/kreuzberg/internal/coordinator"
	"github.com/kreuzberg-io/kreuzberg/internal/extract"
	"github.com/kreuzberg-io/kreuzberg/internal/logger"
	"github.com/kreuzberg-io/kreuzberg/internal/manifest"
	"github.com/kreuzberg-io/kreuzberg/internal/scan"
	"github.com/kreuzberg-io/kreuzberg/internal/store"
)

func main() {
	appLogger := logger.New(&logger.Config{
		Level:       "info",
		Format:      "json",
		ServiceName: "kreuzberg-ingest",
	})
	logger.SetDefaultLogger(appLogger)
	defer logger.Sync()

	configPath := flag.String("config", "", "Path to config file (defaults to KREUZBERG_CONFIG)")
	inputDir := flag.String("input", "", "Input directory override")
	outputDir := flag.String("output", "", "Output directory override")
	limit := flag.Int("limit", 0, "Maximum number of files to process (0 = all)")
	dryRun := flag.Bool("dry-run", false, "Extract without persisting to any store")
	overwrite := flag.Bool("overwrite-manifest", false, "Truncate the manifest instead of appending")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load config")
	}
	if *inputDir != "" {
		cfg.Input.Dir = *inputDir
	}
	if *outputDir != "" {
		cfg.Output.Dir = *outputDir
	}

	appLogger.WithFields(logger.Fields{
		"input":   cfg.Input.Dir,
		"output":  cfg.Output.Dir,
		"limit":   *limit,
		"dry_run": *dryRun,
	}).Info("Starting coordinator")

	stores := store.NewSet(cfg, appLogger)
	defer stores.Close()

	sink, err := manifest.NewSink(cfg.Output.Dir, &manifest.Options{Overwrite: *overwrite})
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to open manifest sink")
	}
	defer sink.Close()

	scanner := scan.New(cfg.Input.Dir, cfg.Input.Extensions, cfg.Input.SkipHidden)

	coord := coordinator.New(
		extract.NewPipeline(),
		scanner,
		stores,
		sink,
		appLogger,
		&coordinator.Config{
			Workers:    cfg.Ingest.Workers,
			BatchSize:  cfg.Ingest.BatchSize,
			RetryCount: cfg.Ingest.RetryCount,
			RetryDelay: cfg.Ingest.RetryDelay,
		},
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		appLogger.Info("Received shutdown signal, canceling...")
		cancel()
	}()

	job, err := coord.Run(ctx, &coordinator.Options{
		Limit:  *limit,
		DryRun: *dryRun,
	})
	if err != nil {
		appLogger.WithError(err).Fatal("Job aborted")
	}

	appLogger.WithFields(logger.Fields{
		logger.FieldJobID: job.ID,
		"total":           job.TotalItems,
		"persisted":       job.PersistedItems,
		"failed":          job.FailedItems,
	}).Info("Job finished")

	// Exit code reflects whether any document ended in failed status.
	if job.FailedItems > 0 {
		logger.Sync()
		os.Exit(1)
	}
}
