package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"budgeter/internal/cache"
	"budgeter/internal/cli"
	"budgeter/internal/config"
	"budgeter/internal/dashboard"
	"budgeter/internal/export"
	"budgeter/internal/export/sheets"
	apphttp "budgeter/internal/http"
	"budgeter/internal/ledger"
	"budgeter/internal/log"
	"budgeter/internal/middleware/ratelimit"
	"budgeter/internal/services"
)

func main() {
	boot := cli.SetupLogger("info", log.ComponentApp)
	cli.LoadEnvFile(boot)
	cfg := cli.LoadAndValidateConfig(boot)
	logger := cli.SetupLogger(cfg.LogLevel, log.ComponentApp)

	ctx, stop := cli.SignalContext(logger)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Server exited with error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

func run(ctx context.Context, cfg *config.Config, logger *log.Logger) error {
	res, err := cli.OpenBackend(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cli.RunCleanup(logger, "backend", res.Cleanup)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	deriver := dashboard.NewDeriver(cfg.ViewCacheSize, cfg.ViewCacheTTL)
	caches := cache.NewManager()
	caches.Register(deriver.Cache())
	caches.StartCleanup(cfg.ViewCacheTTL)
	defer caches.Stop()

	store := ledger.NewStore(cfg.StorageKey, res.Store, res.Committer)
	app := services.NewAppService(store, cfg.Filter(),
		services.WithMetrics(services.NewPrometheusMetrics(reg)),
		services.WithDeriver(deriver),
	)
	entries := app.Load(ctx)
	f := app.Filter()
	logger.Info("Ledger loaded",
		log.FieldStorageKey, store.Key(),
		"entries", len(entries),
		log.FieldTimeRange, f.TimeRange,
		log.FieldCurrency, f.Currency)

	sinks := map[string]export.Sink{"file": export.NewFileSink(cfg.ExportDir)}
	if cfg.SheetsEnabled() {
		sink, err := sheets.New(ctx, cli.SheetsConfig(cfg))
		if err != nil {
			logger.Warn("Google Sheets export disabled", log.FieldError, err)
		} else {
			sinks["sheets"] = sink
		}
	}

	srv := apphttp.NewServer(":"+cfg.Port, app, apphttp.Options{
		Logger: logger,
		RateLimit: ratelimit.Config{
			RequestsPerSecond: cfg.RateLimitRPS,
			Burst:             cfg.RateLimitBurst,
		},
		Ready:    res.Ready,
		Registry: reg,
		Sinks:    sinks,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting budgeter server",
			"port", cfg.Port,
			"backend", cfg.DataBackend,
			"commit_mode", cfg.CommitMode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
