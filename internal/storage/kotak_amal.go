package storage

import (
	"context"

	"masjid/internal/core"
)

type collectionBoxRow struct {
	ID     int64  `db:"id"`
	Nama   string `db:"nama"`
	Lokasi string `db:"lokasi"`
	Tahun  int    `db:"tahun"`
	Aktif  bool   `db:"aktif"`
	monthColumns
}

func (b collectionBoxRow) toCore() core.CollectionBox {
	return core.CollectionBox{ID: b.ID, Nama: b.Nama, Lokasi: b.Lokasi, Tahun: b.Tahun, Aktif: b.Aktif, Bulan: b.amounts()}
}

var selectCollectionBox = "SELECT id, nama, lokasi, tahun, aktif, " + monthColumnList + " FROM kotak_amal"

func (r *Repository) ListCollectionBoxes(ctx context.Context, tahun int) ([]core.CollectionBox, error) {
	query := selectCollectionBox
	var args []any
	if tahun != 0 {
		query += " WHERE tahun = ?"
		args = append(args, tahun)
	}
	query += " ORDER BY id"

	var rows []collectionBoxRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, &OperationError{Op: "list_kotak_amal", Err: err}
	}
	out := make([]core.CollectionBox, len(rows))
	for i, row := range rows {
		out[i] = row.toCore()
	}
	return out, nil
}

func (r *Repository) GetCollectionBox(ctx context.Context, id int64) (core.CollectionBox, error) {
	var row collectionBoxRow
	if err := r.db.GetContext(ctx, &row, r.db.Rebind(selectCollectionBox+" WHERE id = ?"), id); err != nil {
		return core.CollectionBox{}, wrap("get_kotak_amal", "kotak amal", id, err)
	}
	return row.toCore(), nil
}

func (r *Repository) CreateCollectionBox(ctx context.Context, b core.CollectionBox) (core.CollectionBox, error) {
	query := "INSERT INTO kotak_amal (nama, lokasi, tahun, aktif, " + monthColumnList + ") VALUES (" +
		placeholders(16) + ") RETURNING id"
	args := append([]any{b.Nama, b.Lokasi, b.Tahun, b.Aktif}, monthArgs(b.Bulan)...)
	id, err := insertReturningID(ctx, r.db, query, args...)
	if err != nil {
		return core.CollectionBox{}, &OperationError{Op: "create_kotak_amal", Err: err}
	}
	return r.GetCollectionBox(ctx, id)
}

func (r *Repository) UpdateCollectionBox(ctx context.Context, id int64, p core.CollectionBoxPatch) (core.CollectionBox, error) {
	var set setList
	if p.Nama != nil {
		set.add("nama", *p.Nama)
	}
	if p.Lokasi != nil {
		set.add("lokasi", *p.Lokasi)
	}
	if p.Tahun != nil {
		set.add("tahun", *p.Tahun)
	}
	if p.Aktif != nil {
		set.add("aktif", *p.Aktif)
	}
	set.addMonths(p.Bulan)
	if err := r.update(ctx, "kotak_amal", "kotak amal", id, set); err != nil {
		return core.CollectionBox{}, err
	}
	return r.GetCollectionBox(ctx, id)
}

func (r *Repository) DeleteCollectionBox(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "kotak_amal", "kotak amal", id)
}

func (r *Repository) ToggleCollectionBox(ctx context.Context, id int64) (core.CollectionBox, error) {
	if err := r.toggle(ctx, "kotak_amal", "kotak amal", id); err != nil {
		return core.CollectionBox{}, err
	}
	return r.GetCollectionBox(ctx, id)
}
