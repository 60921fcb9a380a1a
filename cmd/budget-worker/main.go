package main

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"budgeter/internal/amqp"
	"budgeter/internal/cli"
	"budgeter/internal/config"
	"budgeter/internal/export"
	"budgeter/internal/export/sheets"
	"budgeter/internal/log"
	"budgeter/internal/worker"
)

func main() {
	boot := cli.SetupLogger("info", log.ComponentWorker)
	cli.LoadEnvFile(boot)
	cfg := cli.LoadAndValidateConfig(boot)
	logger := cli.SetupLogger(cfg.LogLevel, log.ComponentWorker)

	ctx, stop := cli.SignalContext(logger)
	defer stop()

	logger.Info("Starting budget-worker", "backend", cfg.DataBackend, "queue", cfg.AMQPQueue)
	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Worker exited with error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Worker shutdown complete")
}

func run(ctx context.Context, cfg *config.Config, logger *log.Logger) error {
	// The worker writes storage itself, so it always opens the backend in
	// sync mode regardless of COMMIT_MODE.
	local := *cfg
	local.CommitMode = config.CommitSync
	res, err := cli.OpenBackend(ctx, &local, logger)
	if err != nil {
		return err
	}
	defer cli.RunCleanup(logger, "backend", res.Cleanup)

	// Mirroring into Google Sheets is optional
	var mirror export.Sink
	if cfg.SheetsEnabled() {
		sink, err := sheets.New(ctx, cli.SheetsConfig(cfg))
		if err != nil {
			return err
		}
		mirror = sink
		logger.Info("Google Sheets mirror enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Google Sheets mirror disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		return err
	}
	defer cli.RunCleanup(logger, "amqp", client.Close)

	w := worker.NewCommitWorker(res.Store, mirror)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := client.ConsumeSnapshots(gctx, w.HandleSnapshot)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if !client.Healthy() {
					logger.Warn("AMQP connection unhealthy")
				}
				if v, ok := w.AppliedVersion(cfg.StorageKey); ok {
					logger.Debug("Worker heartbeat", log.FieldStorageKey, cfg.StorageKey, log.FieldVersion, v)
				}
			}
		}
	})
	return g.Wait()
}
