package backend

import (
	"context"

	"masjid/internal/core"
	"masjid/internal/ports"
)

// readOnlyStore serves reads from the wrapped store and rejects every
// mutation with core.ErrForbidden.
type readOnlyStore struct {
	ports.Store
}

// ReadOnly wraps store for the anonymous role.
func ReadOnly(store ports.Store) ports.Store {
	if ro, ok := store.(readOnlyStore); ok {
		return ro
	}
	return readOnlyStore{Store: store}
}

func (readOnlyStore) CreateDonor(context.Context, core.Donor) (core.Donor, error) {
	return core.Donor{}, core.ErrForbidden
}

func (readOnlyStore) UpdateDonor(context.Context, int64, core.DonorPatch) (core.Donor, error) {
	return core.Donor{}, core.ErrForbidden
}

func (readOnlyStore) DeleteDonor(context.Context, int64) error {
	return core.ErrForbidden
}

func (readOnlyStore) ApplyContribution(context.Context, int64, int, []int, int64, core.WriteMode) (core.Donor, error) {
	return core.Donor{}, core.ErrForbidden
}

func (readOnlyStore) AppendTransactions(context.Context, []core.TransactionRecord) ([]core.TransactionRecord, error) {
	return nil, core.ErrForbidden
}

func (readOnlyStore) MarkMirrored(context.Context, int64) error {
	return core.ErrForbidden
}

func (readOnlyStore) CreateExpense(context.Context, core.Expense) (core.Expense, error) {
	return core.Expense{}, core.ErrForbidden
}

func (readOnlyStore) UpdateExpense(context.Context, int64, core.ExpensePatch) (core.Expense, error) {
	return core.Expense{}, core.ErrForbidden
}

func (readOnlyStore) DeleteExpense(context.Context, int64) error {
	return core.ErrForbidden
}

func (readOnlyStore) CreateVisionMission(context.Context, core.VisionMission) (core.VisionMission, error) {
	return core.VisionMission{}, core.ErrForbidden
}

func (readOnlyStore) UpdateVisionMission(context.Context, int64, core.VisionMissionPatch) (core.VisionMission, error) {
	return core.VisionMission{}, core.ErrForbidden
}

func (readOnlyStore) DeleteVisionMission(context.Context, int64) error {
	return core.ErrForbidden
}

func (readOnlyStore) CreateProgram(context.Context, core.Program) (core.Program, error) {
	return core.Program{}, core.ErrForbidden
}

func (readOnlyStore) UpdateProgram(context.Context, int64, core.ProgramPatch) (core.Program, error) {
	return core.Program{}, core.ErrForbidden
}

func (readOnlyStore) DeleteProgram(context.Context, int64) error {
	return core.ErrForbidden
}

func (readOnlyStore) ToggleProgram(context.Context, int64) (core.Program, error) {
	return core.Program{}, core.ErrForbidden
}

func (readOnlyStore) CreateCollectionBox(context.Context, core.CollectionBox) (core.CollectionBox, error) {
	return core.CollectionBox{}, core.ErrForbidden
}

func (readOnlyStore) UpdateCollectionBox(context.Context, int64, core.CollectionBoxPatch) (core.CollectionBox, error) {
	return core.CollectionBox{}, core.ErrForbidden
}

func (readOnlyStore) DeleteCollectionBox(context.Context, int64) error {
	return core.ErrForbidden
}

func (readOnlyStore) ToggleCollectionBox(context.Context, int64) (core.CollectionBox, error) {
	return core.CollectionBox{}, core.ErrForbidden
}
