package http

import (
	"net/http"

	"masjid/internal/core"
	applog "masjid/internal/log"
	"masjid/internal/services"
)

// handleContributionUpdate overwrites one month of a donor-year:
// {donaturId, bulan: "jan".."des", tahun, nominal}.
func (s *Server) handleContributionUpdate(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(w, r)
	if err := p.Parse(); err != nil {
		writeError(w, r, err, applog.OpReconcile)
		return
	}

	donorID, ok, err := p.GetInt64("donaturId")
	if err == nil && !ok {
		err = requireField("donaturId")
	}
	if err != nil {
		writeError(w, r, err, applog.OpReconcile)
		return
	}
	tahun, ok, err := p.GetInt("tahun")
	if err == nil && !ok {
		err = requireField("tahun")
	}
	if err != nil {
		writeError(w, r, err, applog.OpReconcile)
		return
	}
	monthKey := p.Get("bulan")
	if monthKey == "" {
		writeError(w, r, requireField("bulan"), applog.OpReconcile)
		return
	}
	nominal, ok, err := p.GetAmount("nominal")
	if err == nil && !ok {
		err = requireField("nominal")
	}
	if err != nil {
		writeError(w, r, err, applog.OpReconcile)
		return
	}

	res, err := s.ledger.SetMonth(r.Context(), donorID, tahun, monthKey, nominal)
	if err != nil {
		writeError(w, r, err, applog.OpReconcile)
		return
	}
	s.writeReconciled(w, res)
}

// handleBilling applies a contribution to one or more months:
// {donaturId, tahun, jumlah, bulan?, bulanList?, mode?}.
func (s *Server) handleBilling(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(w, r)
	if err := p.Parse(); err != nil {
		writeError(w, r, err, applog.OpReconcile)
		return
	}

	req, err := billingRequest(p)
	if err != nil {
		writeError(w, r, err, applog.OpReconcile)
		return
	}

	res, err := s.ledger.Reconcile(r.Context(), req)
	if err != nil {
		writeError(w, r, err, applog.OpReconcile)
		return
	}
	s.writeReconciled(w, res)
}

func billingRequest(p *RequestBodyParser) (core.ReconcileRequest, error) {
	var req core.ReconcileRequest

	donorID, ok, err := p.GetInt64("donaturId")
	if err != nil {
		return req, err
	}
	if !ok {
		return req, requireField("donaturId")
	}
	tahun, ok, err := p.GetInt("tahun")
	if err != nil {
		return req, err
	}
	if !ok {
		return req, requireField("tahun")
	}
	jumlah, ok, err := p.GetAmount("jumlah")
	if err != nil {
		return req, err
	}
	if !ok {
		return req, requireField("jumlah")
	}
	mode, err := core.ParseWriteMode(p.Get("mode"))
	if err != nil {
		return req, err
	}

	single, err := optInt(p, "bulan")
	if err != nil {
		return req, err
	}
	list, err := p.GetIntList("bulanList")
	if err != nil {
		return req, err
	}
	months, err := core.SelectMonths(single, list)
	if err != nil {
		return req, err
	}

	return core.ReconcileRequest{
		DonorID: donorID,
		Tahun:   tahun,
		Months:  months,
		Amount:  jumlah,
		Mode:    mode,
	}, nil
}

func (s *Server) writeReconciled(w http.ResponseWriter, res services.ReconcileResult) {
	b := NewJSONResponse().Data(newDonorJSON(res.Donor))
	if res.AuditErr != nil {
		b.Header("X-Audit-Status", "failed")
	}
	b.Write(w)
}

func (s *Server) handleListDonors(w http.ResponseWriter, r *http.Request) {
	tahun, _, err := queryInt(r.URL.Query(), "tahun")
	if err != nil {
		writeError(w, r, err, applog.OpList)
		return
	}
	search := sanitizeInput(r.URL.Query().Get("q"))

	donors, err := s.store.ListDonors(r.Context(), tahun, search)
	if err != nil {
		writeError(w, r, err, applog.OpList)
		return
	}
	writeData(w, mapSlice(donors, newDonorJSON))
}

func (s *Server) handleGetDonor(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err, applog.OpRead)
		return
	}
	d, err := s.store.GetDonor(r.Context(), id)
	if err != nil {
		writeError(w, r, err, applog.OpRead)
		return
	}
	writeData(w, newDonorJSON(d))
}

func (s *Server) handleCreateDonor(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(w, r)
	if err := p.Parse(); err != nil {
		writeError(w, r, err, applog.OpCreate)
		return
	}

	tahun, ok, err := p.GetInt("tahun")
	if err == nil && !ok {
		err = requireField("tahun")
	}
	if err != nil {
		writeError(w, r, err, applog.OpCreate)
		return
	}
	cells, err := p.GetMonthCells()
	if err != nil {
		writeError(w, r, err, applog.OpCreate)
		return
	}

	d := core.Donor{Nama: p.Get("nama"), Alamat: p.Get("alamat"), Tahun: tahun}
	for m, v := range cells {
		d.Bulan[m-1] = v
	}
	if err := d.Validate(); err != nil {
		writeError(w, r, err, applog.OpCreate)
		return
	}

	created, err := s.store.CreateDonor(r.Context(), d)
	if err != nil {
		writeError(w, r, err, applog.OpCreate)
		return
	}
	writeCreated(w, newDonorJSON(created))
}

func (s *Server) handleUpdateDonor(w http.ResponseWriter, r *http.Request) {
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

	patch := core.DonorPatch{Nama: optString(p, "nama"), Alamat: optString(p, "alamat")}
	if patch.Tahun, err = optInt(p, "tahun"); err != nil {
		writeError(w, r, err, applog.OpUpdate)
		return
	}
	if patch.Bulan, err = p.GetMonthCells(); err != nil {
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

	updated, err := s.store.UpdateDonor(r.Context(), id, patch)
	if err != nil {
		writeError(w, r, err, applog.OpUpdate)
		return
	}
	writeData(w, newDonorJSON(updated))
}

func (s *Server) handleDeleteDonor(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err, applog.OpDelete)
		return
	}
	if err := s.store.DeleteDonor(r.Context(), id); err != nil {
		writeError(w, r, err, applog.OpDelete)
		return
	}
	writeData(w, map[string]int64{"id": id})
}

// handleDonorTransactions lists the audit trail of one donor, newest first.
func (s *Server) handleDonorTransactions(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err, applog.OpList)
		return
	}
	tahun, _, err := queryInt(r.URL.Query(), "tahun")
	if err != nil {
		writeError(w, r, err, applog.OpList)
		return
	}
	if _, err := s.store.GetDonor(r.Context(), id); err != nil {
		writeError(w, r, err, applog.OpList)
		return
	}

	recs, err := s.store.ListTransactions(r.Context(), core.TransactionFilter{
		DonorID: id,
		Tahun:   tahun,
		Limit:   transactionLimit,
	})
	if err != nil {
		writeError(w, r, err, applog.OpList)
		return
	}
	writeData(w, mapSlice(recs, newTransactionJSON))
}
