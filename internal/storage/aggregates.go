package storage

import (
	"context"
	"fmt"
	"strings"

	"masjid/internal/core"
)

// ledgerTables whitelists the tables that can be summed; table and column
// names are never taken from input directly.
var ledgerTables = map[core.LedgerSource]string{
	core.SourceDonatur:   "donatur",
	core.SourceKotakAmal: "kotak_amal",
}

func ledgerTable(src core.LedgerSource) (string, error) {
	table, ok := ledgerTables[src]
	if !ok {
		return "", fmt.Errorf("%w: sumber %q", core.ErrInvalidInput, src)
	}
	return table, nil
}

// yearTotalExpr adds the twelve month cells of one row, null cells as 0.
var yearTotalExpr = func() string {
	parts := make([]string, 0, 12)
	for _, k := range core.MonthKeys() {
		parts = append(parts, "COALESCE("+string(k)+", 0)")
	}
	return strings.Join(parts, " + ")
}()

func (r *Repository) SumMonth(ctx context.Context, src core.LedgerSource, tahun, bulan int) (int64, error) {
	table, err := ledgerTable(src)
	if err != nil {
		return 0, err
	}
	col, err := core.MonthNumberToKey(bulan)
	if err != nil {
		return 0, err
	}
	query := fmt.Sprintf("SELECT COALESCE(SUM(%s), 0) FROM %s WHERE tahun = ?", col, table)
	return r.sum(ctx, "sum_month_"+table, query, tahun)
}

func (r *Repository) SumYear(ctx context.Context, src core.LedgerSource, tahun int) (int64, error) {
	table, err := ledgerTable(src)
	if err != nil {
		return 0, err
	}
	query := fmt.Sprintf("SELECT COALESCE(SUM(%s), 0) FROM %s WHERE tahun = ?", yearTotalExpr, table)
	return r.sum(ctx, "sum_year_"+table, query, tahun)
}

func (r *Repository) SumExpenses(ctx context.Context, tahun, bulan int) (int64, error) {
	if bulan == 0 {
		return r.sum(ctx, "sum_pengeluaran", "SELECT COALESCE(SUM(jumlah), 0) FROM pengeluaran WHERE tahun = ?", tahun)
	}
	return r.sum(ctx, "sum_pengeluaran",
		"SELECT COALESCE(SUM(jumlah), 0) FROM pengeluaran WHERE tahun = ? AND bulan = ?", tahun, bulan)
}

func (r *Repository) sum(ctx context.Context, op, query string, args ...any) (int64, error) {
	var total int64
	if err := r.db.GetContext(ctx, &total, r.db.Rebind(query), args...); err != nil {
		return 0, &OperationError{Op: op, Err: err}
	}
	return total, nil
}
