// Command budget-export writes the filtered dashboard entries once, to a CSV
// file, stdout or Google Sheets, and exits.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"budgeter/internal/cli"
	"budgeter/internal/config"
	"budgeter/internal/core"
	"budgeter/internal/export"
	"budgeter/internal/export/sheets"
	"budgeter/internal/ledger"
	"budgeter/internal/log"
	"budgeter/internal/services"
)

func main() {
	boot := cli.SetupLogger("info", log.ComponentExport)
	cli.LoadEnvFile(boot)
	cfg := cli.LoadAndValidateConfig(boot)
	logger := cli.SetupLogger(cfg.LogLevel, log.ComponentExport)

	target := flag.String("to", "file", "export target: file, stdout or sheets")
	rng := flag.String("range", "", "time range (Week, Month, Quarter, Year, All); defaults to DEFAULT_TIME_RANGE")
	currency := flag.String("currency", "", "currency code; defaults to the most used one in the ledger")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := run(ctx, cfg, logger, *target, *rng, *currency); err != nil {
		logger.Error("Export failed", log.FieldError, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *log.Logger, target, rng, currency string) error {
	// Exports only read the ledger
	local := *cfg
	local.CommitMode = config.CommitSync
	res, err := cli.OpenBackend(ctx, &local, logger)
	if err != nil {
		return err
	}
	defer cli.RunCleanup(logger, "backend", res.Cleanup)

	app := services.NewAppService(ledger.NewStore(cfg.StorageKey, res.Store, nil), cfg.Filter())
	app.Load(ctx)

	if rng != "" {
		r, err := core.ParseTimeRange(rng)
		if err != nil {
			return fmt.Errorf("range %q: %w", rng, err)
		}
		if err := app.SetTimeRange(r); err != nil {
			return err
		}
	}
	if currency != "" {
		if err := app.SetCurrency(currency); err != nil {
			return fmt.Errorf("currency %q: %w", currency, err)
		}
	}

	var sink export.Sink
	switch target {
	case "stdout":
		_, content := app.ExportCSV()
		_, err := fmt.Fprintln(os.Stdout, content)
		return err
	case "file":
		sink = export.NewFileSink(cfg.ExportDir)
	case "sheets":
		s, err := sheets.New(ctx, cli.SheetsConfig(cfg))
		if err != nil {
			return err
		}
		sink = s
	default:
		return fmt.Errorf("unknown export target %q", target)
	}

	ref, err := app.Export(ctx, sink, target)
	if err != nil {
		return err
	}
	f := app.Filter()
	logger.Info("Export completed",
		log.FieldExportRef, ref,
		log.FieldTimeRange, f.TimeRange,
		log.FieldCurrency, f.Currency)
	return nil
}
