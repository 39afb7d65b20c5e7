package services

import (
	"context"
	"fmt"
	"time"

	"masjid/internal/core"
	"masjid/internal/log"
	"masjid/internal/ports"
)

// ReconcileResult is the outcome of one reconciliation. AuditErr is set when
// the ledger write succeeded but the audit trail could not be written.
type ReconcileResult struct {
	Donor    core.Donor
	Records  []core.TransactionRecord
	AuditErr error
}

// LedgerService applies contribution events to donor ledgers and records
// them in the audit log.
type LedgerService struct {
	ledger    ports.DonorLedger
	audit     ports.TransactionLog
	publisher ports.EventPublisher
	logger    *log.Logger
	slog      *log.StructuredLogger
	now       func() time.Time
}

// NewLedgerService wires the service. publisher may be nil when no broker is
// configured.
func NewLedgerService(ledger ports.DonorLedger, audit ports.TransactionLog, publisher ports.EventPublisher, logger *log.Logger) *LedgerService {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentLedger)
	return &LedgerService{
		ledger:    ledger,
		audit:     audit,
		publisher: publisher,
		logger:    logger,
		slog:      log.NewStructuredLogger(logger),
		now:       time.Now,
	}
}

// Reconcile validates req, applies it to the donor-year in one write, then
// appends one audit record per month. Only the ledger write can fail the
// call.
func (s *LedgerService) Reconcile(ctx context.Context, req core.ReconcileRequest) (ReconcileResult, error) {
	req, err := req.Normalize()
	if err != nil {
		return ReconcileResult{}, err
	}

	donor, err := s.ledger.ApplyContribution(ctx, req.DonorID, req.Tahun, req.Months, req.Amount, req.Mode)
	if err != nil {
		return ReconcileResult{}, fmt.Errorf("apply contribution: %w", err)
	}
	result := ReconcileResult{Donor: donor}

	fields := func() log.LogFields {
		return log.NewFields().WithContribution(req.DonorID, req.Tahun, req.Months, req.Amount, req.Mode.String())
	}

	records, err := s.audit.AppendTransactions(ctx, core.TransactionsFor(req, s.now()))
	if err != nil {
		result.AuditErr = err
		s.slog.LogPartialFailure(ctx, "Ledger updated but audit records were not written", err,
			log.ComponentLedger, log.OpAudit, fields())
		return result, nil
	}
	result.Records = records

	s.slog.LogReconciled(ctx, req.DonorID, req.Tahun, req.Months, req.Amount, req.Mode.String(), len(records))
	s.publish(ctx, records)

	return result, nil
}

// SetMonth overwrites one month, named by its column key, with nominal.
func (s *LedgerService) SetMonth(ctx context.Context, donorID int64, tahun int, monthKey string, nominal int64) (ReconcileResult, error) {
	month, err := core.MonthKeyToNumber(monthKey)
	if err != nil {
		return ReconcileResult{}, err
	}
	return s.Reconcile(ctx, core.ReconcileRequest{
		DonorID: donorID,
		Tahun:   tahun,
		Months:  []int{month},
		Amount:  nominal,
		Mode:    core.ModeReplace,
	})
}

func (s *LedgerService) publish(ctx context.Context, records []core.TransactionRecord) {
	if s.publisher == nil {
		s.logger.DebugContext(ctx, "No event publisher configured, skipping transaction events")
		return
	}
	for _, rec := range records {
		if err := s.publishOne(ctx, rec); err != nil {
			s.slog.LogPartialFailure(ctx, "Failed to publish transaction event", err,
				log.ComponentAMQP, log.OpPublish, log.NewFields().With(log.FieldTransactionID, rec.ID))
		}
	}
}

// publishOne turns a publisher panic into an error so the committed ledger
// write is still reported.
func (s *LedgerService) publishOne(ctx context.Context, rec core.TransactionRecord) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("publisher panic: %v", r)
			s.slog.LogError(ctx, "Event publisher panicked", err, log.ErrorTypeInternal,
				log.ComponentAMQP, log.OpPublish, log.NewFields().With(log.FieldTransactionID, rec.ID))
		}
	}()
	return s.publisher.PublishTransactionRecorded(ctx, rec)
}
