package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"shootbook/internal/amqp"
	"shootbook/internal/backend"
	"shootbook/internal/cli"
	"shootbook/internal/config"
	"shootbook/internal/log"
	"shootbook/internal/metrics"
	"shootbook/internal/sheets"
	gsheet "shootbook/internal/sheets/google"
	mem "shootbook/internal/sheets/memory"
	"shootbook/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	cfg, logger := cli.LoadAndValidateConfig()
	logger = logger.WithComponent(log.ComponentWorker)

	logger.Info("Starting shootbook-worker")
	if err := run(cfg, logger); err != nil {
		logger.Error("Worker stopped with error", log.FieldError, err.Error())
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}

func run(cfg *config.Config, logger *log.Logger) error {
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return fmt.Errorf("backend configuration: %w", err)
	}

	ctx, stop := cli.GracefulShutdown(logger)
	defer stop()

	reader, closeReader, err := backend.NewFactory(logger).OpenReader(ctx, backendCfg)
	if err != nil {
		return fmt.Errorf("open %s data source: %w", cfg.DataBackend, err)
	}
	defer closeReader()

	exporter, err := newExporter(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initialize Google Sheets client: %w", err)
	}

	reg := prometheus.NewRegistry()
	syncWorker := worker.NewSheetsSyncWorker(reader, exporter, metrics.NewSyncMetrics(reg), logger)

	// Catch up with anything written while the worker was down
	if err := syncWorker.SyncAll(ctx, worker.TriggerStartup); err != nil {
		logger.Error("Startup sync failed", log.FieldError, err.Error())
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return ignoreCanceled(syncWorker.RunPeriodic(gctx, cfg.SyncInterval))
	})

	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			return fmt.Errorf("initialize AMQP client: %w", err)
		}
		defer client.Close()
		g.Go(func() error {
			return ignoreCanceled(client.ConsumeRecordChanged(gctx, syncWorker.HandleRecordChanged))
		})
	} else {
		logger.Info("AMQP disabled, relying on periodic sync only", "interval", cfg.SyncInterval.String())
	}

	if cfg.WorkerMetricsPort != "" {
		srv := &http.Server{
			Addr:              ":" + cfg.WorkerMetricsPort,
			Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
			ReadHeaderTimeout: 10 * time.Second,
		}
		g.Go(func() error {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	return g.Wait()
}

// newExporter returns the Google Sheets exporter, or an in-memory one when
// no spreadsheet is configured so the worker can run locally.
func newExporter(ctx context.Context, cfg *config.Config, logger *log.Logger) (sheets.Exporter, error) {
	if cfg.GoogleSpreadsheetID == "" {
		logger.Info("Google Sheets disabled - no GOOGLE_SPREADSHEET_ID provided, exporting to memory")
		return mem.New(), nil
	}
	client, err := gsheet.New(ctx, gsheet.Config{
		SpreadsheetID: cfg.GoogleSpreadsheetID,
		ShootsSheet:   cfg.GoogleShootsSheet,
		LeadsSheet:    cfg.GoogleLeadsSheet,
	}, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	return client, nil
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
