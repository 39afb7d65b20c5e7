package storage

import (
	"context"
	"database/sql"
	"strings"

	"github.com/jmoiron/sqlx"

	"masjid/internal/core"
	"masjid/internal/ports"
)

var _ ports.Store = (*Repository)(nil)

// Repository implements every persistence port on one sqlx pool. Queries are
// written with ? placeholders and rebound for the connected driver.
type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) DB() *sqlx.DB { return r.db }

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// monthColumnList is "jan, feb, ..., des".
var monthColumnList = func() string {
	keys := core.MonthKeys()
	cols := make([]string, len(keys))
	for i, k := range keys {
		cols[i] = string(k)
	}
	return strings.Join(cols, ", ")
}()

// monthColumns scans the twelve nullable month cells of a ledger row.
type monthColumns struct {
	Jan sql.NullInt64 `db:"jan"`
	Feb sql.NullInt64 `db:"feb"`
	Mar sql.NullInt64 `db:"mar"`
	Apr sql.NullInt64 `db:"apr"`
	Mei sql.NullInt64 `db:"mei"`
	Jun sql.NullInt64 `db:"jun"`
	Jul sql.NullInt64 `db:"jul"`
	Aug sql.NullInt64 `db:"aug"`
	Sep sql.NullInt64 `db:"sep"`
	Okt sql.NullInt64 `db:"okt"`
	Nov sql.NullInt64 `db:"nov"`
	Des sql.NullInt64 `db:"des"`
}

func (c monthColumns) amounts() core.MonthlyAmounts {
	cells := [12]sql.NullInt64{c.Jan, c.Feb, c.Mar, c.Apr, c.Mei, c.Jun, c.Jul, c.Aug, c.Sep, c.Okt, c.Nov, c.Des}
	var out core.MonthlyAmounts
	for i, v := range cells {
		out[i] = v.Int64
	}
	return out
}

// monthArgs returns the insert arguments for the month cells. Empty months
// are stored as NULL.
func monthArgs(m core.MonthlyAmounts) []any {
	args := make([]any, len(m))
	for i, v := range m {
		if v == 0 {
			args[i] = nil
			continue
		}
		args[i] = v
	}
	return args
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// setList accumulates the SET clause of a partial update.
type setList struct {
	cols []string
	args []any
}

func (s *setList) add(col string, v any) {
	s.cols = append(s.cols, col+" = ?")
	s.args = append(s.args, v)
}

func (s *setList) addMonths(cells map[int]int64) {
	for m, v := range cells {
		key, err := core.MonthNumberToKey(m)
		if err != nil {
			continue
		}
		s.add(string(key), v)
	}
}

// update runs UPDATE table SET ... WHERE id = ? and reports not found when
// no row matched. An empty set only checks that the row exists.
func (r *Repository) update(ctx context.Context, table, entity string, id int64, set setList) error {
	if len(set.cols) == 0 {
		var one int
		err := r.db.GetContext(ctx, &one, r.db.Rebind("SELECT 1 FROM "+table+" WHERE id = ?"), id)
		return wrap("update_"+table, entity, id, err)
	}
	query := "UPDATE " + table + " SET " + strings.Join(set.cols, ", ") + " WHERE id = ?"
	res, err := r.db.ExecContext(ctx, r.db.Rebind(query), append(set.args, id)...)
	if err != nil {
		return &OperationError{Op: "update_" + table, Err: err}
	}
	return expectOne(res, "update_"+table, entity, id)
}

func (r *Repository) deleteByID(ctx context.Context, table, entity string, id int64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM "+table+" WHERE id = ?"), id)
	if err != nil {
		return &OperationError{Op: "delete_" + table, Err: err}
	}
	return expectOne(res, "delete_"+table, entity, id)
}

func (r *Repository) toggle(ctx context.Context, table, entity string, id int64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind("UPDATE "+table+" SET aktif = NOT aktif WHERE id = ?"), id)
	if err != nil {
		return &OperationError{Op: "toggle_" + table, Err: err}
	}
	return expectOne(res, "toggle_"+table, entity, id)
}

func expectOne(res sql.Result, op, entity string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return &OperationError{Op: op, Err: err}
	}
	if n == 0 {
		return notFound(entity, id)
	}
	return nil
}

// insertReturningID runs an INSERT ... RETURNING id on q.
func insertReturningID(ctx context.Context, q sqlx.ExtContext, query string, args ...any) (int64, error) {
	var id int64
	if err := q.QueryRowxContext(ctx, q.Rebind(query), args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}
