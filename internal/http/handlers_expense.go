package http

import (
	"net/http"

	"masjid/internal/core"
	applog "masjid/internal/log"
)

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tahun, _, err := queryInt(q, "tahun")
	if err != nil {
		writeError(w, r, err, applog.OpList)
		return
	}
	bulan, _, err := queryInt(q, "bulan")
	if err != nil {
		writeError(w, r, err, applog.OpList)
		return
	}

	items, err := s.store.ListExpenses(r.Context(), core.ExpenseFilter{
		Tahun:    tahun,
		Bulan:    bulan,
		Kategori: sanitizeInput(q.Get("kategori")),
	})
	if err != nil {
		writeError(w, r, err, applog.OpList)
		return
	}
	writeData(w, mapSlice(items, newExpenseJSON))
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err, applog.OpRead)
		return
	}
	e, err := s.store.GetExpense(r.Context(), id)
	if err != nil {
		writeError(w, r, err, applog.OpRead)
		return
	}
	writeData(w, newExpenseJSON(e))
}

func expensePatch(p *RequestBodyParser) (core.ExpensePatch, error) {
	var (
		patch core.ExpensePatch
		err   error
	)
	if patch.Tahun, err = optInt(p, "tahun"); err != nil {
		return patch, err
	}
	if patch.Bulan, err = optInt(p, "bulan"); err != nil {
		return patch, err
	}
	if patch.Hari, err = optInt(p, "hari"); err != nil {
		return patch, err
	}
	if patch.Jumlah, err = optInt64Amount(p, "jumlah"); err != nil {
		return patch, err
	}
	patch.Kategori = optString(p, "kategori")
	patch.Keterangan = optString(p, "keterangan")
	return patch, nil
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(w, r)
	if err := p.Parse(); err != nil {
		writeError(w, r, err, applog.OpCreate)
		return
	}
	patch, err := expensePatch(p)
	if err != nil {
		writeError(w, r, err, applog.OpCreate)
		return
	}

	e := patch.ApplyTo(core.Expense{})
	if err := e.Validate(); err != nil {
		writeError(w, r, err, applog.OpCreate)
		return
	}

	created, err := s.store.CreateExpense(r.Context(), e)
	if err != nil {
		writeError(w, r, err, applog.OpCreate)
		return
	}
	writeCreated(w, newExpenseJSON(created))
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err, applog.OpUpdate)
		return
	}
	p := NewRequestBodyParser(w, r)
	if err := p.Parse(); err != nil {
		writeError(w, r, err, applog.OpUpdate)
		return
	}
	patch, err := expensePatch(p)
	if err != nil {
		writeError(w, r, err, applog.OpUpdate)
		return
	}
	if patch.IsEmpty() {
		writeError(w, r, errNothingToUpdate, applog.OpUpdate)
		return
	}

	before, err := s.store.GetExpense(r.Context(), id)
	if err != nil {
		writeError(w, r, err, applog.OpUpdate)
		return
	}
	if err := patch.ApplyTo(before).Validate(); err != nil {
		writeError(w, r, err, applog.OpUpdate)
		return
	}

	updated, err := s.store.UpdateExpense(r.Context(), id, patch)
	if err != nil {
		writeError(w, r, err, applog.OpUpdate)
		return
	}
	writeData(w, newExpenseJSON(updated))
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err, applog.OpDelete)
		return
	}
	if err := s.store.DeleteExpense(r.Context(), id); err != nil {
		writeError(w, r, err, applog.OpDelete)
		return
	}
	writeData(w, map[string]int64{"id": id})
}
