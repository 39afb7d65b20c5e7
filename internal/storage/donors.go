package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"masjid/internal/core"
)

type donorRow struct {
	ID     int64  `db:"id"`
	Nama   string `db:"nama"`
	Alamat string `db:"alamat"`
	Tahun  int    `db:"tahun"`
	monthColumns
}

func (d donorRow) toCore() core.Donor {
	return core.Donor{ID: d.ID, Nama: d.Nama, Alamat: d.Alamat, Tahun: d.Tahun, Bulan: d.amounts()}
}

var selectDonor = "SELECT id, nama, alamat, tahun, " + monthColumnList + " FROM donatur"

func (r *Repository) ListDonors(ctx context.Context, tahun int, search string) ([]core.Donor, error) {
	var (
		where []string
		args  []any
	)
	if tahun != 0 {
		where = append(where, "tahun = ?")
		args = append(args, tahun)
	}
	if q := strings.TrimSpace(search); q != "" {
		where = append(where, "LOWER(nama) LIKE ?")
		args = append(args, "%"+strings.ToLower(q)+"%")
	}
	query := selectDonor
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY nama, id"

	var rows []donorRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, &OperationError{Op: "list_donatur", Err: err}
	}
	out := make([]core.Donor, len(rows))
	for i, row := range rows {
		out[i] = row.toCore()
	}
	return out, nil
}

func (r *Repository) GetDonor(ctx context.Context, id int64) (core.Donor, error) {
	return getDonor(ctx, r.db, id)
}

func getDonor(ctx context.Context, q sqlx.ExtContext, id int64) (core.Donor, error) {
	var row donorRow
	if err := sqlx.GetContext(ctx, q, &row, q.Rebind(selectDonor+" WHERE id = ?"), id); err != nil {
		return core.Donor{}, wrap("get_donatur", "donatur", id, err)
	}
	return row.toCore(), nil
}

func (r *Repository) CreateDonor(ctx context.Context, d core.Donor) (core.Donor, error) {
	query := "INSERT INTO donatur (nama, alamat, tahun, " + monthColumnList + ") VALUES (" +
		placeholders(15) + ") RETURNING id"
	args := append([]any{d.Nama, d.Alamat, d.Tahun}, monthArgs(d.Bulan)...)
	id, err := insertReturningID(ctx, r.db, query, args...)
	if err != nil {
		return core.Donor{}, &OperationError{Op: "create_donatur", Err: err}
	}
	return r.GetDonor(ctx, id)
}

func (r *Repository) UpdateDonor(ctx context.Context, id int64, p core.DonorPatch) (core.Donor, error) {
	var set setList
	if p.Nama != nil {
		set.add("nama", *p.Nama)
	}
	if p.Alamat != nil {
		set.add("alamat", *p.Alamat)
	}
	if p.Tahun != nil {
		set.add("tahun", *p.Tahun)
	}
	set.addMonths(p.Bulan)
	if err := r.update(ctx, "donatur", "donatur", id, set); err != nil {
		return core.Donor{}, err
	}
	return r.GetDonor(ctx, id)
}

func (r *Repository) DeleteDonor(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "donatur", "donatur", id)
}

// contributionExpr is the SET expression that applies mode to one month
// column inside the database, so concurrent writers never lose an update.
func contributionExpr(col string, mode core.WriteMode) string {
	switch mode {
	case core.ModeReplace:
		return col + " = ?"
	case core.ModeAccumulate:
		return col + " = COALESCE(" + col + ", 0) + ?"
	default:
		return col + " = CASE WHEN COALESCE(" + col + ", 0) = 0 THEN ? ELSE " + col + " END"
	}
}

// ApplyContribution writes amount to every month of the donor-year with one
// UPDATE and reads the row back in the same transaction.
func (r *Repository) ApplyContribution(ctx context.Context, donorID int64, tahun int, months []int, amount int64, mode core.WriteMode) (core.Donor, error) {
	if len(months) == 0 {
		return core.Donor{}, core.ErrNoMonths
	}
	sets := make([]string, 0, len(months))
	args := make([]any, 0, 2*len(months)+2)
	var guards []string
	for _, m := range months {
		key, err := core.MonthNumberToKey(m)
		if err != nil {
			return core.Donor{}, err
		}
		sets = append(sets, contributionExpr(string(key), mode))
		args = append(args, amount)
	}
	args = append(args, donorID, tahun)
	if mode == core.ModeAccumulate {
		// A row whose sum would leave BIGINT range is not updated at all.
		for _, m := range months {
			key, _ := core.MonthNumberToKey(m)
			guards = append(guards, " AND COALESCE("+string(key)+", 0) <= ?")
			args = append(args, core.AccumulateLimit(amount))
		}
	}
	query := "UPDATE donatur SET " + strings.Join(sets, ", ") + " WHERE id = ? AND tahun = ?" + strings.Join(guards, "")

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return core.Donor{}, &OperationError{Op: "begin_transaction", Err: err}
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, tx.Rebind(query), args...)
	if err != nil {
		return core.Donor{}, &OperationError{Op: "apply_contribution", Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return core.Donor{}, &OperationError{Op: "apply_contribution", Err: err}
	}
	if n == 0 {
		if len(guards) > 0 {
			var count int
			err := tx.GetContext(ctx, &count, tx.Rebind("SELECT COUNT(*) FROM donatur WHERE id = ? AND tahun = ?"), donorID, tahun)
			if err != nil {
				return core.Donor{}, &OperationError{Op: "apply_contribution", Err: err}
			}
			if count > 0 {
				return core.Donor{}, core.ErrAmountOverflow
			}
		}
		return core.Donor{}, fmt.Errorf("%w: donatur %d tahun %d", core.ErrNotFound, donorID, tahun)
	}

	donor, err := getDonor(ctx, tx, donorID)
	if err != nil {
		return core.Donor{}, err
	}
	if err := tx.Commit(); err != nil {
		return core.Donor{}, &OperationError{Op: "commit_transaction", Err: err}
	}
	return donor, nil
}
