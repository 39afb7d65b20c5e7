package storage

import (
	"context"
	"strings"
	"time"

	"masjid/internal/core"
)

type expenseRow struct {
	ID         int64     `db:"id"`
	Tahun      int       `db:"tahun"`
	Bulan      int       `db:"bulan"`
	Hari       int       `db:"hari"`
	Kategori   string    `db:"kategori"`
	Keterangan string    `db:"keterangan"`
	Jumlah     int64     `db:"jumlah"`
	CreatedAt  time.Time `db:"created_at"`
}

func (e expenseRow) toCore() core.Expense {
	return core.Expense{
		ID:         e.ID,
		Tahun:      e.Tahun,
		Bulan:      e.Bulan,
		Hari:       e.Hari,
		Kategori:   e.Kategori,
		Keterangan: e.Keterangan,
		Jumlah:     e.Jumlah,
		CreatedAt:  e.CreatedAt,
	}
}

const selectExpense = "SELECT id, tahun, bulan, hari, kategori, keterangan, jumlah, created_at FROM pengeluaran"

func (r *Repository) ListExpenses(ctx context.Context, f core.ExpenseFilter) ([]core.Expense, error) {
	var (
		where []string
		args  []any
	)
	if f.Tahun != 0 {
		where = append(where, "tahun = ?")
		args = append(args, f.Tahun)
	}
	if f.Bulan != 0 {
		where = append(where, "bulan = ?")
		args = append(args, f.Bulan)
	}
	if f.Kategori != "" {
		where = append(where, "kategori = ?")
		args = append(args, f.Kategori)
	}
	query := selectExpense
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY tahun DESC, bulan DESC, hari DESC, id"

	var rows []expenseRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, &OperationError{Op: "list_pengeluaran", Err: err}
	}
	out := make([]core.Expense, len(rows))
	for i, row := range rows {
		out[i] = row.toCore()
	}
	return out, nil
}

func (r *Repository) GetExpense(ctx context.Context, id int64) (core.Expense, error) {
	var row expenseRow
	if err := r.db.GetContext(ctx, &row, r.db.Rebind(selectExpense+" WHERE id = ?"), id); err != nil {
		return core.Expense{}, wrap("get_pengeluaran", "pengeluaran", id, err)
	}
	return row.toCore(), nil
}

func (r *Repository) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	id, err := insertReturningID(ctx, r.db,
		`INSERT INTO pengeluaran (tahun, bulan, hari, kategori, keterangan, jumlah, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`,
		e.Tahun, e.Bulan, e.Hari, e.Kategori, e.Keterangan, e.Jumlah, time.Now().UTC())
	if err != nil {
		return core.Expense{}, &OperationError{Op: "create_pengeluaran", Err: err}
	}
	return r.GetExpense(ctx, id)
}

func (r *Repository) UpdateExpense(ctx context.Context, id int64, p core.ExpensePatch) (core.Expense, error) {
	var set setList
	if p.Tahun != nil {
		set.add("tahun", *p.Tahun)
	}
	if p.Bulan != nil {
		set.add("bulan", *p.Bulan)
	}
	if p.Hari != nil {
		set.add("hari", *p.Hari)
	}
	if p.Kategori != nil {
		set.add("kategori", *p.Kategori)
	}
	if p.Keterangan != nil {
		set.add("keterangan", *p.Keterangan)
	}
	if p.Jumlah != nil {
		set.add("jumlah", *p.Jumlah)
	}
	if err := r.update(ctx, "pengeluaran", "pengeluaran", id, set); err != nil {
		return core.Expense{}, err
	}
	return r.GetExpense(ctx, id)
}

func (r *Repository) DeleteExpense(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "pengeluaran", "pengeluaran", id)
}
