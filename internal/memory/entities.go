package memory

import (
	"cmp"
	"context"
	"slices"

	"masjid/internal/core"
)

// Expenses

func (s *Store) ListExpenses(_ context.Context, f core.ExpenseFilter) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := sortedByID(s.expenses, func(e core.Expense) bool {
		return (f.Tahun == 0 || e.Tahun == f.Tahun) &&
			(f.Bulan == 0 || e.Bulan == f.Bulan) &&
			(f.Kategori == "" || e.Kategori == f.Kategori)
	})
	slices.SortStableFunc(out, func(a, b core.Expense) int {
		return cmp.Or(cmp.Compare(b.Tahun, a.Tahun), cmp.Compare(b.Bulan, a.Bulan), cmp.Compare(b.Hari, a.Hari))
	})
	return out, nil
}

func (s *Store) GetExpense(_ context.Context, id int64) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.expenses[id]
	if !ok {
		return core.Expense{}, notFound("pengeluaran", id)
	}
	return e, nil
}

func (s *Store) CreateExpense(_ context.Context, e core.Expense) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = s.id()
	e.CreatedAt = s.now()
	s.expenses[e.ID] = e
	return e, nil
}

func (s *Store) UpdateExpense(_ context.Context, id int64, p core.ExpensePatch) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.expenses[id]
	if !ok {
		return core.Expense{}, notFound("pengeluaran", id)
	}
	e = p.ApplyTo(e)
	s.expenses[id] = e
	return e, nil
}

func (s *Store) DeleteExpense(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.expenses[id]; !ok {
		return notFound("pengeluaran", id)
	}
	delete(s.expenses, id)
	return nil
}

// Vision and mission

func (s *Store) ListVisionMission(_ context.Context, jenis string) ([]core.VisionMission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := sortedByID(s.visions, func(v core.VisionMission) bool {
		return jenis == "" || v.Jenis == jenis
	})
	slices.SortStableFunc(out, func(a, b core.VisionMission) int {
		return cmp.Or(cmp.Compare(a.Jenis, b.Jenis), cmp.Compare(a.Urutan, b.Urutan))
	})
	return out, nil
}

func (s *Store) GetVisionMission(_ context.Context, id int64) (core.VisionMission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.visions[id]
	if !ok {
		return core.VisionMission{}, notFound("visi-misi", id)
	}
	return v, nil
}

func (s *Store) CreateVisionMission(_ context.Context, v core.VisionMission) (core.VisionMission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v.ID = s.id()
	s.visions[v.ID] = v
	return v, nil
}

func (s *Store) UpdateVisionMission(_ context.Context, id int64, p core.VisionMissionPatch) (core.VisionMission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.visions[id]
	if !ok {
		return core.VisionMission{}, notFound("visi-misi", id)
	}
	v = p.ApplyTo(v)
	s.visions[id] = v
	return v, nil
}

func (s *Store) DeleteVisionMission(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.visions[id]; !ok {
		return notFound("visi-misi", id)
	}
	delete(s.visions, id)
	return nil
}

// Programs

func (s *Store) ListPrograms(_ context.Context, f core.ProgramFilter) ([]core.Program, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedByID(s.programs, func(p core.Program) bool {
		return (f.Kategori == "" || p.Kategori == f.Kategori) && (!f.HanyaAktif || p.Aktif)
	}), nil
}

func (s *Store) GetProgram(_ context.Context, id int64) (core.Program, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.programs[id]
	if !ok {
		return core.Program{}, notFound("program", id)
	}
	return p, nil
}

func (s *Store) CreateProgram(_ context.Context, p core.Program) (core.Program, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.id()
	s.programs[p.ID] = p
	return p, nil
}

func (s *Store) UpdateProgram(_ context.Context, id int64, patch core.ProgramPatch) (core.Program, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.programs[id]
	if !ok {
		return core.Program{}, notFound("program", id)
	}
	p = patch.ApplyTo(p)
	s.programs[id] = p
	return p, nil
}

func (s *Store) DeleteProgram(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.programs[id]; !ok {
		return notFound("program", id)
	}
	delete(s.programs, id)
	return nil
}

func (s *Store) ToggleProgram(_ context.Context, id int64) (core.Program, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.programs[id]
	if !ok {
		return core.Program{}, notFound("program", id)
	}
	p.Aktif = !p.Aktif
	s.programs[id] = p
	return p, nil
}

// Collection boxes

func (s *Store) ListCollectionBoxes(_ context.Context, tahun int) ([]core.CollectionBox, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedByID(s.boxes, func(b core.CollectionBox) bool {
		return tahun == 0 || b.Tahun == tahun
	}), nil
}

func (s *Store) GetCollectionBox(_ context.Context, id int64) (core.CollectionBox, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.boxes[id]
	if !ok {
		return core.CollectionBox{}, notFound("kotak amal", id)
	}
	return b, nil
}

func (s *Store) CreateCollectionBox(_ context.Context, b core.CollectionBox) (core.CollectionBox, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b.ID = s.id()
	s.boxes[b.ID] = b
	return b, nil
}

func (s *Store) UpdateCollectionBox(_ context.Context, id int64, p core.CollectionBoxPatch) (core.CollectionBox, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.boxes[id]
	if !ok {
		return core.CollectionBox{}, notFound("kotak amal", id)
	}
	b = p.ApplyTo(b)
	s.boxes[id] = b
	return b, nil
}

func (s *Store) DeleteCollectionBox(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.boxes[id]; !ok {
		return notFound("kotak amal", id)
	}
	delete(s.boxes, id)
	return nil
}

func (s *Store) ToggleCollectionBox(_ context.Context, id int64) (core.CollectionBox, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.boxes[id]
	if !ok {
		return core.CollectionBox{}, notFound("kotak amal", id)
	}
	b.Aktif = !b.Aktif
	s.boxes[id] = b
	return b, nil
}
