package ports

import (
	"context"

	"masjid/internal/core"
)

// Persistence ports. Implementations return errors matching core.ErrNotFound
// for missing rows and core.ErrDownstream for driver failures.
type (
	DonorStore interface {
		ListDonors(ctx context.Context, tahun int, search string) ([]core.Donor, error)
		GetDonor(ctx context.Context, id int64) (core.Donor, error)
		CreateDonor(ctx context.Context, d core.Donor) (core.Donor, error)
		UpdateDonor(ctx context.Context, id int64, p core.DonorPatch) (core.Donor, error)
		DeleteDonor(ctx context.Context, id int64) error
	}

	// DonorLedger applies a contribution to the months of one donor-year as a
	// single write and returns the row as stored afterwards.
	DonorLedger interface {
		ApplyContribution(ctx context.Context, donorID int64, tahun int, months []int, amount int64, mode core.WriteMode) (core.Donor, error)
	}

	// TransactionLog is the append-only audit trail of reconciliations.
	TransactionLog interface {
		AppendTransactions(ctx context.Context, recs []core.TransactionRecord) ([]core.TransactionRecord, error)
		ListTransactions(ctx context.Context, f core.TransactionFilter) ([]core.TransactionRecord, error)
	}

	// MirrorQueue exposes audit rows that still need copying to the mirror.
	MirrorQueue interface {
		GetTransaction(ctx context.Context, id int64) (core.TransactionRecord, bool, error)
		ListUnmirrored(ctx context.Context, limit int) ([]core.TransactionRecord, error)
		MarkMirrored(ctx context.Context, id int64) error
	}

	// Aggregator computes read-side sums. Null cells count as zero.
	Aggregator interface {
		SumMonth(ctx context.Context, src core.LedgerSource, tahun, bulan int) (int64, error)
		SumYear(ctx context.Context, src core.LedgerSource, tahun int) (int64, error)
		// SumExpenses sums expenses of a month, or of the whole year when bulan is 0.
		SumExpenses(ctx context.Context, tahun, bulan int) (int64, error)
	}

	ExpenseStore interface {
		ListExpenses(ctx context.Context, f core.ExpenseFilter) ([]core.Expense, error)
		GetExpense(ctx context.Context, id int64) (core.Expense, error)
		CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error)
		UpdateExpense(ctx context.Context, id int64, p core.ExpensePatch) (core.Expense, error)
		DeleteExpense(ctx context.Context, id int64) error
	}

	VisionStore interface {
		ListVisionMission(ctx context.Context, jenis string) ([]core.VisionMission, error)
		GetVisionMission(ctx context.Context, id int64) (core.VisionMission, error)
		CreateVisionMission(ctx context.Context, v core.VisionMission) (core.VisionMission, error)
		UpdateVisionMission(ctx context.Context, id int64, p core.VisionMissionPatch) (core.VisionMission, error)
		DeleteVisionMission(ctx context.Context, id int64) error
	}

	ProgramStore interface {
		ListPrograms(ctx context.Context, f core.ProgramFilter) ([]core.Program, error)
		GetProgram(ctx context.Context, id int64) (core.Program, error)
		CreateProgram(ctx context.Context, p core.Program) (core.Program, error)
		UpdateProgram(ctx context.Context, id int64, p core.ProgramPatch) (core.Program, error)
		DeleteProgram(ctx context.Context, id int64) error
		ToggleProgram(ctx context.Context, id int64) (core.Program, error)
	}

	CollectionBoxStore interface {
		ListCollectionBoxes(ctx context.Context, tahun int) ([]core.CollectionBox, error)
		GetCollectionBox(ctx context.Context, id int64) (core.CollectionBox, error)
		CreateCollectionBox(ctx context.Context, b core.CollectionBox) (core.CollectionBox, error)
		UpdateCollectionBox(ctx context.Context, id int64, p core.CollectionBoxPatch) (core.CollectionBox, error)
		DeleteCollectionBox(ctx context.Context, id int64) error
		ToggleCollectionBox(ctx context.Context, id int64) (core.CollectionBox, error)
	}
)

// Outbound side effects.
type (
	EventPublisher interface {
		PublishTransactionRecorded(ctx context.Context, rec core.TransactionRecord) error
	}

	// TransactionMirror copies audit rows to an external spreadsheet.
	TransactionMirror interface {
		AppendTransaction(ctx context.Context, rec core.TransactionRecord) (rowRef string, err error)
	}
)

// Store bundles every persistence port; backends implement all of them.
type Store interface {
	DonorStore
	DonorLedger
	TransactionLog
	MirrorQueue
	Aggregator
	ExpenseStore
	VisionStore
	ProgramStore
	CollectionBoxStore
}
