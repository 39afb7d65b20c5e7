package storage

import (
	"context"

	"masjid/internal/core"
)

type visionRow struct {
	ID     int64  `db:"id"`
	Jenis  string `db:"jenis"`
	Isi    string `db:"isi"`
	Urutan int    `db:"urutan"`
}

type programRow struct {
	ID        int64  `db:"id"`
	Nama      string `db:"nama"`
	Deskripsi string `db:"deskripsi"`
	Kategori  string `db:"kategori"`
	Aktif     bool   `db:"aktif"`
}

const (
	selectVision  = "SELECT id, jenis, isi, urutan FROM visi_misi"
	selectProgram = "SELECT id, nama, deskripsi, kategori, aktif FROM program"
)

func (r *Repository) ListVisionMission(ctx context.Context, jenis string) ([]core.VisionMission, error) {
	query := selectVision
	var args []any
	if jenis != "" {
		query += " WHERE jenis = ?"
		args = append(args, jenis)
	}
	query += " ORDER BY jenis, urutan, id"

	var rows []visionRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, &OperationError{Op: "list_visi_misi", Err: err}
	}
	out := make([]core.VisionMission, len(rows))
	for i, v := range rows {
		out[i] = core.VisionMission(v)
	}
	return out, nil
}

func (r *Repository) GetVisionMission(ctx context.Context, id int64) (core.VisionMission, error) {
	var row visionRow
	if err := r.db.GetContext(ctx, &row, r.db.Rebind(selectVision+" WHERE id = ?"), id); err != nil {
		return core.VisionMission{}, wrap("get_visi_misi", "visi-misi", id, err)
	}
	return core.VisionMission(row), nil
}

func (r *Repository) CreateVisionMission(ctx context.Context, v core.VisionMission) (core.VisionMission, error) {
	id, err := insertReturningID(ctx, r.db,
		"INSERT INTO visi_misi (jenis, isi, urutan) VALUES (?, ?, ?) RETURNING id", v.Jenis, v.Isi, v.Urutan)
	if err != nil {
		return core.VisionMission{}, &OperationError{Op: "create_visi_misi", Err: err}
	}
	v.ID = id
	return v, nil
}

func (r *Repository) UpdateVisionMission(ctx context.Context, id int64, p core.VisionMissionPatch) (core.VisionMission, error) {
	var set setList
	if p.Jenis != nil {
		set.add("jenis", *p.Jenis)
	}
	if p.Isi != nil {
		set.add("isi", *p.Isi)
	}
	if p.Urutan != nil {
		set.add("urutan", *p.Urutan)
	}
	if err := r.update(ctx, "visi_misi", "visi-misi", id, set); err != nil {
		return core.VisionMission{}, err
	}
	return r.GetVisionMission(ctx, id)
}

func (r *Repository) DeleteVisionMission(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "visi_misi", "visi-misi", id)
}

func (r *Repository) ListPrograms(ctx context.Context, f core.ProgramFilter) ([]core.Program, error) {
	query := selectProgram + " WHERE 1 = 1"
	var args []any
	if f.Kategori != "" {
		query += " AND kategori = ?"
		args = append(args, f.Kategori)
	}
	if f.HanyaAktif {
		query += " AND aktif = ?"
		args = append(args, true)
	}
	query += " ORDER BY id"

	var rows []programRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, &OperationError{Op: "list_program", Err: err}
	}
	out := make([]core.Program, len(rows))
	for i, p := range rows {
		out[i] = core.Program(p)
	}
	return out, nil
}

func (r *Repository) GetProgram(ctx context.Context, id int64) (core.Program, error) {
	var row programRow
	if err := r.db.GetContext(ctx, &row, r.db.Rebind(selectProgram+" WHERE id = ?"), id); err != nil {
		return core.Program{}, wrap("get_program", "program", id, err)
	}
	return core.Program(row), nil
}

func (r *Repository) CreateProgram(ctx context.Context, p core.Program) (core.Program, error) {
	id, err := insertReturningID(ctx, r.db,
		"INSERT INTO program (nama, deskripsi, kategori, aktif) VALUES (?, ?, ?, ?) RETURNING id",
		p.Nama, p.Deskripsi, p.Kategori, p.Aktif)
	if err != nil {
		return core.Program{}, &OperationError{Op: "create_program", Err: err}
	}
	p.ID = id
	return p, nil
}

func (r *Repository) UpdateProgram(ctx context.Context, id int64, p core.ProgramPatch) (core.Program, error) {
	var set setList
	if p.Nama != nil {
		set.add("nama", *p.Nama)
	}
	if p.Deskripsi != nil {
		set.add("deskripsi", *p.Deskripsi)
	}
	if p.Kategori != nil {
		set.add("kategori", *p.Kategori)
	}
	if p.Aktif != nil {
		set.add("aktif", *p.Aktif)
	}
	if err := r.update(ctx, "program", "program", id, set); err != nil {
		return core.Program{}, err
	}
	return r.GetProgram(ctx, id)
}

func (r *Repository) DeleteProgram(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "program", "program", id)
}

func (r *Repository) ToggleProgram(ctx context.Context, id int64) (core.Program, error) {
	if err := r.toggle(ctx, "program", "program", id); err != nil {
		return core.Program{}, err
	}
	return r.GetProgram(ctx, id)
}
