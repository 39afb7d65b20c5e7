package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"masjid/internal/core"
	applog "masjid/internal/log"
)

var errNothingToUpdate = fmt.Errorf("%w: tidak ada data yang diubah", core.ErrInvalidInput)

func (s *Server) handleListVisionMission(w http.ResponseWriter, r *http.Request) {
	jenis := strings.ToLower(sanitizeInput(r.URL.Query().Get("jenis")))
	if jenis != "" && jenis != core.JenisVisi && jenis != core.JenisMisi {
		writeError(w, r, fmt.Errorf("%w: jenis harus visi atau misi", core.ErrInvalidInput), applog.OpList)
		return
	}
	items, err := s.store.ListVisionMission(r.Context(), jenis)
	if err != nil {
		writeError(w, r, err, applog.OpList)
		return
	}
	writeData(w, mapSlice(items, newVisionMissionJSON))
}

func (s *Server) handleGetVisionMission(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err, applog.OpRead)
		return
	}
	v, err := s.store.GetVisionMission(r.Context(), id)
	if err != nil {
		writeError(w, r, err, applog.OpRead)
		return
	}
	writeData(w, newVisionMissionJSON(v))
}

func visionMissionPatch(p *RequestBodyParser) (core.VisionMissionPatch, error) {
	patch := core.VisionMissionPatch{Isi: optString(p, "isi")}
	if j := optString(p, "jenis"); j != nil {
		lower := strings.ToLower(*j)
		patch.Jenis = &lower
	}
	var err error
	patch.Urutan, err = optInt(p, "urutan")
	return patch, err
}

func (s *Server) handleCreateVisionMission(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(w, r)
	if err := p.Parse(); err != nil {
		writeError(w, r, err, applog.OpCreate)
		return
	}
	patch, err := visionMissionPatch(p)
	if err != nil {
		writeError(w, r, err, applog.OpCreate)
		return
	}
	v := patch.ApplyTo(core.VisionMission{})
	if err := v.Validate(); err != nil {
		writeError(w, r, err, applog.OpCreate)
		return
	}
	created, err := s.store.CreateVisionMission(r.Context(), v)
	if err != nil {
		writeError(w, r, err, applog.OpCreate)
		return
	}
	writeCreated(w, newVisionMissionJSON(created))
}

func (s *Server) handleUpdateVisionMission(w http.ResponseWriter, r *http.Request) {
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
	patch, err := visionMissionPatch(p)
	if err != nil {
		writeError(w, r, err, applog.OpUpdate)
		return
	}
	if patch.IsEmpty() {
		writeError(w, r, errNothingToUpdate, applog.OpUpdate)
		return
	}
	current, err := s.store.GetVisionMission(r.Context(), id)
	if err != nil {
		writeError(w, r, err, applog.OpUpdate)
		return
	}
	if err := patch.ApplyTo(current).Validate(); err != nil {
		writeError(w, r, err, applog.OpUpdate)
		return
	}
	updated, err := s.store.UpdateVisionMission(r.Context(), id, patch)
	if err != nil {
		writeError(w, r, err, applog.OpUpdate)
		return
	}
	writeData(w, newVisionMissionJSON(updated))
}

func (s *Server) handleDeleteVisionMission(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err, applog.OpDelete)
		return
	}
	if err := s.store.DeleteVisionMission(r.Context(), id); err != nil {
		writeError(w, r, err, applog.OpDelete)
		return
	}
	writeData(w, map[string]int64{"id": id})
}

func (s *Server) handleListPrograms(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := core.ProgramFilter{Kategori: sanitizeInput(q.Get("kategori"))}
	if v := strings.TrimSpace(q.Get("aktif")); v != "" {
		aktif, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: parameter aktif harus true atau false", core.ErrInvalidInput), applog.OpList)
			return
		}
		f.HanyaAktif = aktif
	}

	items, err := s.store.ListPrograms(r.Context(), f)
	if err != nil {
		writeError(w, r, err, applog.OpList)
		return
	}
	writeData(w, mapSlice(items, newProgramJSON))
}

func (s *Server) handleGetProgram(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err, applog.OpRead)
		return
	}
	pr, err := s.store.GetProgram(r.Context(), id)
	if err != nil {
		writeError(w, r, err, applog.OpRead)
		return
	}
	writeData(w, newProgramJSON(pr))
}

func programPatch(p *RequestBodyParser) (core.ProgramPatch, error) {
	patch := core.ProgramPatch{
		Nama:      optString(p, "nama"),
		Deskripsi: optString(p, "deskripsi"),
		Kategori:  optString(p, "kategori"),
	}
	var err error
	patch.Aktif, err = optBool(p, "aktif")
	return patch, err
}

func (s *Server) handleCreateProgram(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(w, r)
	if err := p.Parse(); err != nil {
		writeError(w, r, err, applog.OpCreate)
		return
	}
	patch, err := programPatch(p)
	if err != nil {
		writeError(w, r, err, applog.OpCreate)
		return
	}
	// new programs are active unless stated otherwise
	pr := patch.ApplyTo(core.Program{Aktif: true})
	if err := pr.Validate(); err != nil {
		writeError(w, r, err, applog.OpCreate)
		return
	}
	created, err := s.store.CreateProgram(r.Context(), pr)
	if err != nil {
		writeError(w, r, err, applog.OpCreate)
		return
	}
	writeCreated(w, newProgramJSON(created))
}

func (s *Server) handleUpdateProgram(w http.ResponseWriter, r *http.Request) {
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
	patch, err := programPatch(p)
	if err != nil {
		writeError(w, r, err, applog.OpUpdate)
		return
	}
	if patch.IsEmpty() {
		writeError(w, r, errNothingToUpdate, applog.OpUpdate)
		return
	}
	current, err := s.store.GetProgram(r.Context(), id)
	if err != nil {
		writeError(w, r, err, applog.OpUpdate)
		return
	}
	if err := patch.ApplyTo(current).Validate(); err != nil {
		writeError(w, r, err, applog.OpUpdate)
		return
	}
	updated, err := s.store.UpdateProgram(r.Context(), id, patch)
	if err != nil {
		writeError(w, r, err, applog.OpUpdate)
		return
	}
	writeData(w, newProgramJSON(updated))
}

func (s *Server) handleDeleteProgram(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err, applog.OpDelete)
		return
	}
	if err := s.store.DeleteProgram(r.Context(), id); err != nil {
		writeError(w, r, err, applog.OpDelete)
		return
	}
	writeData(w, map[string]int64{"id": id})
}

func (s *Server) handleToggleProgram(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err, applog.OpUpdate)
		return
	}
	pr, err := s.store.ToggleProgram(r.Context(), id)
	if err != nil {
		writeError(w, r, err, applog.OpUpdate)
		return
	}
	writeData(w, newProgramJSON(pr))
}
