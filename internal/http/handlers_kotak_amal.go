package http

import (
	"net/http"

	"masjid/internal/core"
	applog "masjid/internal/log"
)

func (s *Server) handleListCollectionBoxes(w http.ResponseWriter, r *http.Request) {
	tahun, _, err := queryInt(r.URL.Query(), "tahun")
	if err != nil {
		writeError(w, r, err, applog.OpList)
		return
	}
	items, err := s.store.ListCollectionBoxes(r.Context(), tahun)
	if err != nil {
		writeError(w, r, err, applog.OpList)
		return
	}
	writeData(w, mapSlice(items, newCollectionBoxJSON))
}

func (s *Server) handleGetCollectionBox(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err, applog.OpRead)
		return
	}
	b, err := s.store.GetCollectionBox(r.Context(), id)
	if err != nil {
		writeError(w, r, err, applog.OpRead)
		return
	}
	writeData(w, newCollectionBoxJSON(b))
}

func collectionBoxPatch(p *RequestBodyParser) (core.CollectionBoxPatch, error) {
	patch := core.CollectionBoxPatch{
		Nama:   optString(p, "nama"),
		Lokasi: optString(p, "lokasi"),
	}
	var err error
	if patch.Tahun, err = optInt(p, "tahun"); err != nil {
		return patch, err
	}
	if patch.Aktif, err = optBool(p, "aktif"); err != nil {
		return patch, err
	}
	patch.Bulan, err = p.GetMonthCells()
	return patch, err
}

func (s *Server) handleCreateCollectionBox(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(w, r)
	if err := p.Parse(); err != nil {
		writeError(w, r, err, applog.OpCreate)
		return
	}
	patch, err := collectionBoxPatch(p)
	if err != nil {
		writeError(w, r, err, applog.OpCreate)
		return
	}
	if err := patch.Validate(); err != nil {
		writeError(w, r, err, applog.OpCreate)
		return
	}
	b := patch.ApplyTo(core.CollectionBox{Aktif: true})
	if err := b.Validate(); err != nil {
		writeError(w, r, err, applog.OpCreate)
		return
	}
	created, err := s.store.CreateCollectionBox(r.Context(), b)
	if err != nil {
		writeError(w, r, err, applog.OpCreate)
		return
	}
	writeCreated(w, newCollectionBoxJSON(created))
}

func (s *Server) handleUpdateCollectionBox(w http.ResponseWriter, r *http.Request) {
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
	patch, err := collectionBoxPatch(p)
	if err != nil {
		writeError(w, r, err, applog.OpUpdate)
		return
	}
	if patch.IsEmpty() {
		writeError(w, r, errNothingToUpdate, applog.OpUpdate)
		return
	}
	if err := patch.Validate(); err != nil {
		writeError(w, r, err, applog.OpUpdate)
		return
	}
	current, err := s.store.GetCollectionBox(r.Context(), id)
	if err != nil {
		writeError(w, r, err, applog.OpUpdate)
		return
	}
	if err := patch.ApplyTo(current).Validate(); err != nil {
		writeError(w, r, err, applog.OpUpdate)
		return
	}
	updated, err := s.store.UpdateCollectionBox(r.Context(), id, patch)
	if err != nil {
		writeError(w, r, err, applog.OpUpdate)
		return
	}
	writeData(w, newCollectionBoxJSON(updated))
}

func (s *Server) handleDeleteCollectionBox(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err, applog.OpDelete)
		return
	}
	if err := s.store.DeleteCollectionBox(r.Context(), id); err != nil {
		writeError(w, r, err, applog.OpDelete)
		return
	}
	writeData(w, map[string]int64{"id": id})
}

func (s *Server) handleToggleCollectionBox(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err, applog.OpUpdate)
		return
	}
	b, err := s.store.ToggleCollectionBox(r.Context(), id)
	if err != nil {
		writeError(w, r, err, applog.OpUpdate)
		return
	}
	writeData(w, newCollectionBoxJSON(b))
}
