package worker

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"shootbook/internal/amqp"
	"shootbook/internal/log"
	"shootbook/internal/metrics"
	"shootbook/internal/sheets"
	"shootbook/internal/store"
)

// Sync triggers.
const (
	TriggerEvent    = "event"
	TriggerPeriodic = "periodic"
	TriggerStartup  = "startup"
)

// SheetsSyncWorker mirrors the shoot and lead collections into a
// spreadsheet. Each sync rewrites one whole collection from the store, so
// a late or duplicated event is harmless.
type SheetsSyncWorker struct {
	source   store.Reader
	exporter sheets.Exporter
	metrics  *metrics.SyncMetrics
	logger   *log.Logger
}

func NewSheetsSyncWorker(source store.Reader, exporter sheets.Exporter, m *metrics.SyncMetrics, logger *log.Logger) *SheetsSyncWorker {
	if logger == nil {
		logger = log.Default()
	}
	return &SheetsSyncWorker{
		source:   source,
		exporter: exporter,
		metrics:  m,
		logger:   logger.WithComponent(log.ComponentWorker),
	}
}

// HandleRecordChanged re-exports the collection the event belongs to.
func (w *SheetsSyncWorker) HandleRecordChanged(ctx context.Context, msg *amqp.RecordChanged) error {
	w.logger.InfoContext(ctx, "Processing record change",
		log.FieldKind, msg.Kind,
		log.FieldRecordID, msg.ID,
		log.FieldOperation, msg.Op)
	return w.SyncKind(ctx, msg.Kind, TriggerEvent)
}

// SyncKind exports one collection.
func (w *SheetsSyncWorker) SyncKind(ctx context.Context, kind, trigger string) error {
	start := time.Now()
	var (
		rows int
		err  error
	)
	switch kind {
	case amqp.KindShoot:
		rows, err = w.syncShoots(ctx)
	case amqp.KindLead:
		rows, err = w.syncLeads(ctx)
	default:
		return fmt.Errorf("unknown record kind %q", kind)
	}
	w.metrics.ObserveSync(kind, trigger, rows, err)
	if err != nil {
		w.logger.ErrorContext(ctx, "Sheet sync failed",
			log.FieldKind, kind,
			"trigger", trigger,
			log.FieldError, err.Error())
		return err
	}
	w.logger.InfoContext(ctx, "Sheet sync complete",
		log.FieldKind, kind,
		"trigger", trigger,
		log.FieldRecordCount, rows,
		log.FieldDuration, time.Since(start).Milliseconds())
	return nil
}

func (w *SheetsSyncWorker) syncShoots(ctx context.Context) (int, error) {
	shoots, err := w.source.ListShoots(ctx)
	if err != nil {
		return 0, fmt.Errorf("read shoots: %w", err)
	}
	return w.exporter.ExportShoots(ctx, shoots)
}

func (w *SheetsSyncWorker) syncLeads(ctx context.Context) (int, error) {
	leads, err := w.source.ListLeads(ctx)
	if err != nil {
		return 0, fmt.Errorf("read leads: %w", err)
	}
	return w.exporter.ExportLeads(ctx, leads)
}

// SyncAll exports both collections concurrently.
func (w *SheetsSyncWorker) SyncAll(ctx context.Context, trigger string) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, kind := range []string{amqp.KindShoot, amqp.KindLead} {
		kind := kind
		g.Go(func() error {
			return w.SyncKind(gctx, kind, trigger)
		})
	}
	return g.Wait()
}

// RunPeriodic performs a full sync every interval until ctx is done. This
// catches events lost while the worker or the broker was down.
func (w *SheetsSyncWorker) RunPeriodic(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.SyncAll(ctx, TriggerPeriodic); err != nil {
				w.logger.ErrorContext(ctx, "Periodic sync failed", log.FieldError, err.Error())
			}
		}
	}
}
