package storage

import (
	"context"
	"strings"
	"time"

	"masjid/internal/core"
)

type transactionRow struct {
	ID        int64     `db:"id"`
	DonorID   int64     `db:"donatur_id"`
	Tahun     int       `db:"tahun"`
	Bulan     int       `db:"bulan"`
	Jumlah    int64     `db:"jumlah"`
	Mode      string    `db:"mode"`
	CreatedAt time.Time `db:"created_at"`
	Mirrored  bool      `db:"mirrored"`
}

func (t transactionRow) toCore() core.TransactionRecord {
	return core.TransactionRecord{
		ID:        t.ID,
		DonorID:   t.DonorID,
		Tahun:     t.Tahun,
		Bulan:     t.Bulan,
		Jumlah:    t.Jumlah,
		Mode:      core.WriteMode(t.Mode),
		CreatedAt: t.CreatedAt,
	}
}

const selectTransaction = `SELECT id, donatur_id, tahun, bulan, jumlah, mode, created_at,
	mirrored_at IS NOT NULL AS mirrored FROM transaksi_donatur`

// AppendTransactions inserts all records in one transaction; either every
// record is stored or none is.
func (r *Repository) AppendTransactions(ctx context.Context, recs []core.TransactionRecord) ([]core.TransactionRecord, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, &OperationError{Op: "begin_transaction", Err: err}
	}
	defer tx.Rollback()

	out := make([]core.TransactionRecord, len(recs))
	for i, rec := range recs {
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = time.Now()
		}
		rec.CreatedAt = rec.CreatedAt.UTC()
		id, err := insertReturningID(ctx, tx,
			`INSERT INTO transaksi_donatur (donatur_id, tahun, bulan, jumlah, mode, created_at)
			VALUES (?, ?, ?, ?, ?, ?) RETURNING id`,
			rec.DonorID, rec.Tahun, rec.Bulan, rec.Jumlah, string(rec.Mode), rec.CreatedAt)
		if err != nil {
			return nil, &OperationError{Op: "insert_transaksi", Err: err}
		}
		rec.ID = id
		out[i] = rec
	}

	if err := tx.Commit(); err != nil {
		return nil, &OperationError{Op: "commit_transaction", Err: err}
	}
	return out, nil
}

func (r *Repository) ListTransactions(ctx context.Context, f core.TransactionFilter) ([]core.TransactionRecord, error) {
	var (
		where []string
		args  []any
	)
	if f.DonorID != 0 {
		where = append(where, "donatur_id = ?")
		args = append(args, f.DonorID)
	}
	if f.Tahun != 0 {
		where = append(where, "tahun = ?")
		args = append(args, f.Tahun)
	}
	query := selectTransaction
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id DESC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}
	return r.selectTransactions(ctx, "list_transaksi", query, args...)
}

func (r *Repository) GetTransaction(ctx context.Context, id int64) (core.TransactionRecord, bool, error) {
	var row transactionRow
	if err := r.db.GetContext(ctx, &row, r.db.Rebind(selectTransaction+" WHERE id = ?"), id); err != nil {
		return core.TransactionRecord{}, false, wrap("get_transaksi", "transaksi", id, err)
	}
	return row.toCore(), row.Mirrored, nil
}

func (r *Repository) ListUnmirrored(ctx context.Context, limit int) ([]core.TransactionRecord, error) {
	query := selectTransaction + " WHERE mirrored_at IS NULL ORDER BY id"
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	return r.selectTransactions(ctx, "list_unmirrored", query, args...)
}

func (r *Repository) MarkMirrored(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx,
		r.db.Rebind("UPDATE transaksi_donatur SET mirrored_at = ? WHERE id = ?"), time.Now().UTC(), id)
	if err != nil {
		return &OperationError{Op: "mark_mirrored", Err: err}
	}
	return expectOne(res, "mark_mirrored", "transaksi", id)
}

func (r *Repository) selectTransactions(ctx context.Context, op, query string, args ...any) ([]core.TransactionRecord, error) {
	var rows []transactionRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, &OperationError{Op: op, Err: err}
	}
	out := make([]core.TransactionRecord, len(rows))
	for i, row := range rows {
		out[i] = row.toCore()
	}
	return out, nil
}
