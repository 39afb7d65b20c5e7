package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"masjid/internal/amqp"
	"masjid/internal/core"
	"masjid/internal/ports"
)

const defaultConcurrency = 4

// errInFlight reports that another goroutine is already mirroring the row.
var errInFlight = errors.New("transaction already being mirrored")

// MirrorWorker copies audit rows to the spreadsheet mirror. Rows arrive
// through AMQP events; ProcessPending is the backup sweep for lost messages.
type MirrorWorker struct {
	queue       ports.MirrorQueue
	mirror      ports.TransactionMirror
	batchSize   int
	concurrency int

	// inflight holds row ids currently being mirrored so the event handler
	// and the sweep never append the same row twice at once.
	inflight sync.Map
}

func NewMirrorWorker(queue ports.MirrorQueue, mirror ports.TransactionMirror, batchSize int) *MirrorWorker {
	if batchSize <= 0 {
		batchSize = 10
	}
	return &MirrorWorker{
		queue:       queue,
		mirror:      mirror,
		batchSize:   batchSize,
		concurrency: defaultConcurrency,
	}
}

// HandleRecorded processes a single transaction.recorded message from AMQP
func (w *MirrorWorker) HandleRecorded(ctx context.Context, msg *amqp.TransactionRecordedMessage) error {
	slog.InfoContext(ctx, "Processing transaction message", "transaction_id", msg.ID)

	rec, mirrored, err := w.queue.GetTransaction(ctx, msg.ID)
	if errors.Is(err, core.ErrNotFound) {
		// Requeueing cannot make a missing row appear.
		slog.WarnContext(ctx, "Transaction not found, dropping message", "transaction_id", msg.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get transaction: %w", err)
	}
	if mirrored {
		slog.DebugContext(ctx, "Transaction already mirrored", "transaction_id", msg.ID)
		return nil
	}

	if err := w.mirrorOne(ctx, rec); !errors.Is(err, errInFlight) {
		return err
	}
	// The other writer owns the row; if it fails the sweep retries it.
	slog.DebugContext(ctx, "Transaction mirror in progress elsewhere", "transaction_id", msg.ID)
	return nil
}

// ProcessPending mirrors up to one batch of unmirrored rows and returns how
// many were written.
func (w *MirrorWorker) ProcessPending(ctx context.Context) (int, error) {
	return w.sweep(ctx, w.batchSize)
}

// StartupSyncCheck runs a larger sweep when the worker starts, to catch up
// on rows recorded while it was down.
func (w *MirrorWorker) StartupSyncCheck(ctx context.Context) error {
	n, err := w.sweep(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("startup sync: %w", err)
	}
	slog.InfoContext(ctx, "Startup sync completed", "mirrored", n)
	return nil
}

func (w *MirrorWorker) sweep(ctx context.Context, limit int) (int, error) {
	pending, err := w.queue.ListUnmirrored(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("list unmirrored: %w", err)
	}
	if len(pending) == 0 {
		return 0, nil
	}

	slog.InfoContext(ctx, "Processing pending transactions", "count", len(pending))

	var done atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.concurrency)
	for _, rec := range pending {
		g.Go(func() error {
			err := w.mirrorOne(gctx, rec)
			if errors.Is(err, errInFlight) {
				return nil
			}
			if err != nil {
				// One bad row must not stop the rest of the batch.
				slog.ErrorContext(gctx, "Failed to mirror transaction", "transaction_id", rec.ID, "error", err)
				return nil
			}
			done.Add(1)
			return nil
		})
	}
	g.Wait()

	return int(done.Load()), ctx.Err()
}

func (w *MirrorWorker) mirrorOne(ctx context.Context, rec core.TransactionRecord) error {
	if _, busy := w.inflight.LoadOrStore(rec.ID, struct{}{}); busy {
		return errInFlight
	}
	defer w.inflight.Delete(rec.ID)

	ref, err := w.mirror.AppendTransaction(ctx, rec)
	if err != nil {
		return fmt.Errorf("append to mirror: %w", err)
	}

	if err := w.queue.MarkMirrored(ctx, rec.ID); err != nil {
		// The row is in the sheet; a later sweep may append it again.
		slog.ErrorContext(ctx, "Failed to mark as mirrored", "transaction_id", rec.ID, "error", err)
		return nil
	}

	slog.InfoContext(ctx, "Transaction mirrored",
		"transaction_id", rec.ID,
		"donor_id", rec.DonorID,
		"sheets_ref", ref)

	return nil
}
