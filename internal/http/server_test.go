package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"masjid/internal/core"
	applog "masjid/internal/log"
	"masjid/internal/memory"
	"masjid/internal/middleware/ratelimit"
	"masjid/internal/ports"
	"masjid/internal/services"
)

func testLogger() *applog.Logger {
	return applog.New(applog.Config{Component: "test", Handler: slog.NewTextHandler(io.Discard, nil)})
}

func newTestServer(t *testing.T, store ports.Store) *Server {
	t.Helper()
	logger := testLogger()
	srv := NewServer(":0", Dependencies{
		Store:   store,
		Ledger:  services.NewLedgerService(store, store, nil, logger),
		Summary: services.NewSummaryService(store),
		Logger:  logger,
	})
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return srv
}

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func do(t *testing.T, srv *Server, method, target, body string) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if strings.HasPrefix(body, "{") {
		req.Header.Set("Content-Type", "application/json")
	} else if body != "" {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)

	var resp apiResponse
	if rr.Body.Len() > 0 && strings.HasPrefix(rr.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
			t.Fatalf("%s %s: invalid JSON %q: %v", method, target, rr.Body.String(), err)
		}
	}
	return rr, resp
}

func decodeData[T any](t *testing.T, resp apiResponse) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(resp.Data, &v); err != nil {
		t.Fatalf("decode data %s: %v", resp.Data, err)
	}
	return v
}

func seedDonor(t *testing.T, store *memory.Store, bulan core.MonthlyAmounts) core.Donor {
	t.Helper()
	d, err := store.CreateDonor(context.Background(), core.Donor{Nama: "Siti", Alamat: "Jl. Melati", Tahun: 2024, Bulan: bulan})
	if err != nil {
		t.Fatalf("seed donor: %v", err)
	}
	return d
}

func TestHealthAndReady(t *testing.T) {
	srv := newTestServer(t, memory.New())

	for _, path := range []string{"/healthz", "/readyz"} {
		rr, resp := do(t, srv, http.MethodGet, path, "")
		if rr.Code != http.StatusOK || !resp.Success {
			t.Fatalf("%s status=%d body=%s", path, rr.Code, rr.Body.String())
		}
		if rr.Header().Get("X-Content-Type-Options") != "nosniff" {
			t.Errorf("%s missing security headers", path)
		}
		if rr.Header().Get("X-Request-ID") == "" {
			t.Errorf("%s missing request id", path)
		}
	}
}

func TestReadyFailure(t *testing.T) {
	store := memory.New()
	srv := NewServer(":0", Dependencies{
		Store:   store,
		Ledger:  services.NewLedgerService(store, store, nil, testLogger()),
		Summary: services.NewSummaryService(store),
		Logger:  testLogger(),
		Ready:   func(context.Context) error { return errors.New("db down") },
	})
	defer srv.Shutdown(context.Background())

	rr, resp := do(t, srv, http.MethodGet, "/readyz", "")
	if rr.Code != http.StatusServiceUnavailable || resp.Success {
		t.Fatalf("readyz status=%d body=%s", rr.Code, rr.Body.String())
	}
}

func TestBilling_MultiMonthReplace(t *testing.T) {
	store := memory.New()
	donor := seedDonor(t, store, core.MonthlyAmounts{0, 7000})
	srv := newTestServer(t, store)

	body := `{"donaturId": ` + itoa(donor.ID) + `, "tahun": 2024, "jumlah": 50000, "bulanList": [5, 1, 3, 3], "mode": "replace"}`
	rr, resp := do(t, srv, http.MethodPost, "/penagihan-donatur", body)
	if rr.Code != http.StatusOK || !resp.Success {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}

	got := decodeData[map[string]any](t, resp)
	for key, want := range map[string]float64{"jan": 50000, "feb": 7000, "mar": 50000, "apr": 0, "mei": 50000, "total": 157000} {
		if got[key] != want {
			t.Errorf("%s = %v, want %v", key, got[key], want)
		}
	}

	recs, err := store.ListTransactions(context.Background(), core.TransactionFilter{DonorID: donor.ID})
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 3 {
		t.Fatalf("audit records = %d, want 3", len(recs))
	}

	rr, resp = do(t, srv, http.MethodGet, "/donatur/"+itoa(donor.ID)+"/transaksi?tahun=2024", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("transaksi status=%d", rr.Code)
	}
	if list := decodeData[[]transactionJSON](t, resp); len(list) != 3 {
		t.Errorf("transaksi = %d entries, want 3", len(list))
	}
}

func TestBilling_DefaultModeIsSkip(t *testing.T) {
	store := memory.New()
	donor := seedDonor(t, store, core.MonthlyAmounts{0, 0, 10000})
	srv := newTestServer(t, store)

	form := "donaturId=" + itoa(donor.ID) + "&tahun=2024&jumlah=Rp25.000&bulanList=2,3"
	rr, resp := do(t, srv, http.MethodPost, "/penagihan-donatur", form)
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	got := decodeData[donorJSON](t, resp)
	if got.Feb != 25000 {
		t.Errorf("feb = %d, want 25000 (empty month filled)", got.Feb)
	}
	if got.Mar != 10000 {
		t.Errorf("mar = %d, want 10000 (non-zero month kept)", got.Mar)
	}
}

func TestBilling_Accumulate(t *testing.T) {
	store := memory.New()
	donor := seedDonor(t, store, core.MonthlyAmounts{10000})
	srv := newTestServer(t, store)

	body := `{"donaturId": ` + itoa(donor.ID) + `, "tahun": 2024, "jumlah": 2500, "bulan": 1, "mode": "accumulate"}`
	for i := 0; i < 2; i++ {
		if rr, _ := do(t, srv, http.MethodPost, "/penagihan-donatur", body); rr.Code != http.StatusOK {
			t.Fatalf("call %d status=%d", i, rr.Code)
		}
	}
	d, _ := store.GetDonor(context.Background(), donor.ID)
	if d.Bulan.Get(1) != 15000 {
		t.Errorf("jan = %d, want 15000", d.Bulan.Get(1))
	}
}

func TestBilling_AccumulateOverflowRejected(t *testing.T) {
	store := memory.New()
	donor := seedDonor(t, store, core.MonthlyAmounts{5: 1})
	srv := newTestServer(t, store)

	body := `{"donaturId": ` + itoa(donor.ID) + `, "tahun": 2024, "jumlah": 9223372036854775807, "bulan": 6, "mode": "accumulate"}`
	rr, resp := do(t, srv, http.MethodPost, "/penagihan-donatur", body)
	if rr.Code != http.StatusBadRequest || resp.Success {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	d, _ := store.GetDonor(context.Background(), donor.ID)
	if d.Bulan.Get(6) != 1 {
		t.Errorf("jun = %d, want 1", d.Bulan.Get(6))
	}
	if recs, _ := store.ListTransactions(context.Background(), core.TransactionFilter{}); len(recs) != 0 {
		t.Errorf("rejected request wrote %d audit records", len(recs))
	}
}

func TestBilling_Validation(t *testing.T) {
	store := memory.New()
	donor := seedDonor(t, store, core.MonthlyAmounts{})
	srv := newTestServer(t, store)
	id := itoa(donor.ID)

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"no months", `{"donaturId": ` + id + `, "tahun": 2024, "jumlah": 1000}`, http.StatusBadRequest},
		{"month out of range", `{"donaturId": ` + id + `, "tahun": 2024, "jumlah": 1000, "bulan": 13}`, http.StatusBadRequest},
		{"bad mode", `{"donaturId": ` + id + `, "tahun": 2024, "jumlah": 1000, "bulan": 1, "mode": "overwrite"}`, http.StatusBadRequest},
		{"negative amount", `{"donaturId": ` + id + `, "tahun": 2024, "jumlah": -1, "bulan": 1}`, http.StatusBadRequest},
		{"missing donor id", `{"tahun": 2024, "jumlah": 1000, "bulan": 1}`, http.StatusBadRequest},
		{"year out of range", `{"donaturId": ` + id + `, "tahun": 1999, "jumlah": 1000, "bulan": 1}`, http.StatusBadRequest},
		{"malformed json", `{"donaturId": `, http.StatusBadRequest},
		{"unknown donor", `{"donaturId": 999, "tahun": 2024, "jumlah": 1000, "bulan": 1}`, http.StatusNotFound},
		{"wrong year for donor", `{"donaturId": ` + id + `, "tahun": 2025, "jumlah": 1000, "bulan": 1}`, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr, resp := do(t, srv, http.MethodPost, "/penagihan-donatur", tt.body)
			if rr.Code != tt.wantStatus {
				t.Fatalf("status=%d, want %d body=%s", rr.Code, tt.wantStatus, rr.Body.String())
			}
			if resp.Success || resp.Error == "" {
				t.Errorf("expected failure envelope, got %s", rr.Body.String())
			}
		})
	}

	recs, _ := store.ListTransactions(context.Background(), core.TransactionFilter{})
	if len(recs) != 0 {
		t.Errorf("rejected requests wrote %d audit records", len(recs))
	}
}

func TestContributionUpdate(t *testing.T) {
	store := memory.New()
	donor := seedDonor(t, store, core.MonthlyAmounts{0, 9000})
	srv := newTestServer(t, store)
	id := itoa(donor.ID)

	rr, resp := do(t, srv, http.MethodPost, "/donor-contribution-update",
		`{"donaturId": `+id+`, "bulan": "FEB", "tahun": 2024, "nominal": 25000}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	if got := decodeData[donorJSON](t, resp); got.Feb != 25000 {
		t.Errorf("feb = %d, want 25000", got.Feb)
	}

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"bad month key", `{"donaturId": ` + id + `, "bulan": "xyz", "tahun": 2024, "nominal": 1}`, http.StatusBadRequest},
		{"missing nominal", `{"donaturId": ` + id + `, "bulan": "jan", "tahun": 2024}`, http.StatusBadRequest},
		{"missing month", `{"donaturId": ` + id + `, "tahun": 2024, "nominal": 1}`, http.StatusBadRequest},
		{"unknown donor", `{"donaturId": 404, "bulan": "jan", "tahun": 2024, "nominal": 1}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rr, _ := do(t, srv, http.MethodPost, "/donor-contribution-update", tt.body); rr.Code != tt.wantStatus {
				t.Errorf("status=%d, want %d", rr.Code, tt.wantStatus)
			}
		})
	}
}

func TestIncomeEndpoints(t *testing.T) {
	store := memory.New()
	seedDonor(t, store, core.MonthlyAmounts{1000, 2000})
	seedDonor(t, store, core.MonthlyAmounts{500})
	if _, err := store.CreateCollectionBox(context.Background(), core.CollectionBox{Nama: "Kotak Jumat", Tahun: 2024, Bulan: core.MonthlyAmounts{300}, Aktif: true}); err != nil {
		t.Fatal(err)
	}
	srv := newTestServer(t, store)

	rr, resp := do(t, srv, http.MethodGet, "/pemasukan/bulanan?year=2024&month=1", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("bulanan status=%d body=%s", rr.Code, rr.Body.String())
	}
	month := decodeData[monthTotalJSON](t, resp)
	if month.Jumlah != 1800 || month.Year != 2024 || month.Month != 1 || month.Timestamp.IsZero() {
		t.Errorf("bulanan = %+v", month)
	}

	rr, resp = do(t, srv, http.MethodGet, "/pemasukan/tahunan?year=2024", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("tahunan status=%d", rr.Code)
	}
	if year := decodeData[yearTotalJSON](t, resp); year.Jumlah != 3800 {
		t.Errorf("tahunan jumlah = %d, want 3800", year.Jumlah)
	}

	for _, target := range []string{
		"/pemasukan/bulanan?year=abc&month=1",
		"/pemasukan/bulanan?year=2024&month=x",
		"/pemasukan/bulanan?year=2024",
		"/pemasukan/bulanan?year=2024&month=13",
		"/pemasukan/tahunan",
		"/pengeluaran/tahunan?year=dua",
	} {
		if rr, resp := do(t, srv, http.MethodGet, target, ""); rr.Code != http.StatusBadRequest || resp.Success {
			t.Errorf("%s status=%d, want 400", target, rr.Code)
		}
	}
}

func TestYearSummaryReflectsWrites(t *testing.T) {
	store := memory.New()
	donor := seedDonor(t, store, core.MonthlyAmounts{1000})
	srv := newTestServer(t, store)

	_, resp := do(t, srv, http.MethodGet, "/ringkasan?year=2024", "")
	if got := decodeData[summaryJSON](t, resp); got.Donatur != 1000 || len(got.PerBulan) != 12 {
		t.Fatalf("summary = %+v", got)
	}

	body := `{"donaturId": ` + itoa(donor.ID) + `, "tahun": 2024, "jumlah": 4000, "bulan": 2}`
	if rr, _ := do(t, srv, http.MethodPost, "/penagihan-donatur", body); rr.Code != http.StatusOK {
		t.Fatalf("billing status=%d", rr.Code)
	}
	if rr, _ := do(t, srv, http.MethodPost, "/pengeluaran", `{"tahun": 2024, "bulan": 2, "hari": 3, "kategori": "Listrik", "keterangan": "PLN", "jumlah": 1500}`); rr.Code != http.StatusCreated {
		t.Fatalf("expense status=%d", rr.Code)
	}

	_, resp = do(t, srv, http.MethodGet, "/ringkasan?year=2024", "")
	got := decodeData[summaryJSON](t, resp)
	if got.Donatur != 5000 || got.Pengeluaran != 1500 || got.Saldo != 3500 {
		t.Errorf("summary after writes = %+v", got)
	}
	if feb := got.PerBulan[1]; feb.BulanKey != "feb" || feb.Pemasukan != 4000 || feb.Saldo != 2500 {
		t.Errorf("feb balance = %+v", feb)
	}

	// A write that bypasses the HTTP layer, as the admin CLI and the
	// mirror worker do, must show up on the next read.
	if _, err := store.ApplyContribution(context.Background(), donor.ID, 2024, []int{3}, 700, core.ModeAccumulate); err != nil {
		t.Fatalf("ApplyContribution: %v", err)
	}
	_, resp = do(t, srv, http.MethodGet, "/ringkasan?year=2024", "")
	got = decodeData[summaryJSON](t, resp)
	_, resp = do(t, srv, http.MethodGet, "/pemasukan/tahunan?year=2024", "")
	year := decodeData[yearTotalJSON](t, resp)
	if got.Donatur != 5700 || got.Pemasukan != year.Jumlah {
		t.Errorf("summary after direct write = %+v, yearly income = %d", got, year.Jumlah)
	}
}

func TestDonorCRUD(t *testing.T) {
	srv := newTestServer(t, memory.New())

	rr, resp := do(t, srv, http.MethodPost, "/donatur", `{"nama": "Hasan", "alamat": "Blok C", "tahun": 2024, "jan": 5000}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status=%d body=%s", rr.Code, rr.Body.String())
	}
	created := decodeData[donorJSON](t, resp)
	id := itoa(created.ID)
	if created.Jan != 5000 || created.Nama != "Hasan" {
		t.Errorf("created = %+v", created)
	}

	if rr, _ := do(t, srv, http.MethodPost, "/donatur", `{"nama": "", "tahun": 2024}`); rr.Code != http.StatusBadRequest {
		t.Errorf("create without name status=%d", rr.Code)
	}

	rr, resp = do(t, srv, http.MethodPatch, "/donatur/"+id, `{"alamat": "Blok D", "des": 100}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("patch status=%d body=%s", rr.Code, rr.Body.String())
	}
	if updated := decodeData[donorJSON](t, resp); updated.Alamat != "Blok D" || updated.Des != 100 || updated.Jan != 5000 {
		t.Errorf("updated = %+v", updated)
	}

	if rr, _ := do(t, srv, http.MethodPatch, "/donatur/"+id, `{}`); rr.Code != http.StatusBadRequest {
		t.Errorf("empty patch status=%d", rr.Code)
	}

	_, resp = do(t, srv, http.MethodGet, "/donatur?tahun=2024&q=has", "")
	if list := decodeData[[]donorJSON](t, resp); len(list) != 1 {
		t.Errorf("search results = %d, want 1", len(list))
	}

	if rr, _ := do(t, srv, http.MethodDelete, "/donatur/"+id, ""); rr.Code != http.StatusOK {
		t.Errorf("delete status=%d", rr.Code)
	}
	if rr, _ := do(t, srv, http.MethodGet, "/donatur/"+id, ""); rr.Code != http.StatusNotFound {
		t.Errorf("get after delete status=%d", rr.Code)
	}
	if rr, _ := do(t, srv, http.MethodGet, "/donatur/abc", ""); rr.Code != http.StatusBadRequest {
		t.Errorf("non numeric id status=%d", rr.Code)
	}
}

func TestContentEndpoints(t *testing.T) {
	srv := newTestServer(t, memory.New())

	rr, resp := do(t, srv, http.MethodPost, "/program", `{"nama": "Kajian Subuh", "kategori": "dakwah"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("program create status=%d body=%s", rr.Code, rr.Body.String())
	}
	prog := decodeData[programJSON](t, resp)
	if !prog.Aktif {
		t.Error("new program should be active")
	}
	rr, resp = do(t, srv, http.MethodPost, "/program/"+itoa(prog.ID)+"/toggle", "")
	if rr.Code != http.StatusOK || decodeData[programJSON](t, resp).Aktif {
		t.Errorf("toggle status=%d body=%s", rr.Code, rr.Body.String())
	}
	_, resp = do(t, srv, http.MethodGet, "/program?aktif=true", "")
	if list := decodeData[[]programJSON](t, resp); len(list) != 0 {
		t.Errorf("active programs = %d, want 0", len(list))
	}

	if rr, _ := do(t, srv, http.MethodPost, "/visi-misi", `{"jenis": "tujuan", "isi": "x"}`); rr.Code != http.StatusBadRequest {
		t.Errorf("bad jenis status=%d", rr.Code)
	}
	rr, _ = do(t, srv, http.MethodPost, "/visi-misi", "jenis=Visi&isi=Menjadi+pusat+ibadah&urutan=1")
	if rr.Code != http.StatusCreated {
		t.Fatalf("visi create status=%d body=%s", rr.Code, rr.Body.String())
	}
	_, resp = do(t, srv, http.MethodGet, "/visi-misi?jenis=visi", "")
	if list := decodeData[[]visionMissionJSON](t, resp); len(list) != 1 || list[0].Jenis != "visi" {
		t.Errorf("visi list = %+v", list)
	}

	rr, resp = do(t, srv, http.MethodPost, "/kotak-amal", `{"nama": "Kotak Utama", "lokasi": "Serambi", "tahun": 2024, "mar": 12000}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("kotak amal create status=%d body=%s", rr.Code, rr.Body.String())
	}
	box := decodeData[collectionBoxJSON](t, resp)
	if box.Mar != 12000 || !box.Aktif {
		t.Errorf("box = %+v", box)
	}
	if rr, _ := do(t, srv, http.MethodPatch, "/kotak-amal/"+itoa(box.ID), `{"apr": -5}`); rr.Code != http.StatusBadRequest {
		t.Errorf("negative month status=%d", rr.Code)
	}
	if rr, _ := do(t, srv, http.MethodPost, "/kotak-amal/999/toggle", ""); rr.Code != http.StatusNotFound {
		t.Errorf("toggle unknown box status=%d", rr.Code)
	}
}

// readOnlyStore rejects every write the way the anonymous role does.
type readOnlyStore struct {
	*memory.Store
}

func (readOnlyStore) ApplyContribution(context.Context, int64, int, []int, int64, core.WriteMode) (core.Donor, error) {
	return core.Donor{}, core.ErrForbidden
}

type brokenStore struct {
	*memory.Store
}

func (brokenStore) ListDonors(context.Context, int, string) ([]core.Donor, error) {
	return nil, errors.New("pq: connection refused to 10.0.0.5")
}

func (brokenStore) GetDonor(context.Context, int64) (core.Donor, error) {
	panic("boom")
}

type auditFailingStore struct {
	*memory.Store
}

func (auditFailingStore) AppendTransactions(context.Context, []core.TransactionRecord) ([]core.TransactionRecord, error) {
	return nil, errors.New("disk full")
}

func TestBilling_AuditFailureIsFlagged(t *testing.T) {
	base := memory.New()
	donor := seedDonor(t, base, core.MonthlyAmounts{})
	srv := newTestServer(t, auditFailingStore{base})

	rr, resp := do(t, srv, http.MethodPost, "/penagihan-donatur",
		`{"donaturId": `+itoa(donor.ID)+`, "tahun": 2024, "jumlah": 7000, "bulan": 4}`)
	if rr.Code != http.StatusOK || !resp.Success {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	if rr.Header().Get("X-Audit-Status") != "failed" {
		t.Error("missing X-Audit-Status header")
	}
	if got := decodeData[donorJSON](t, resp); got.Apr != 7000 {
		t.Errorf("apr = %d, want 7000", got.Apr)
	}
}

func TestErrorMapping(t *testing.T) {
	base := memory.New()
	donor := seedDonor(t, base, core.MonthlyAmounts{})

	srv := newTestServer(t, readOnlyStore{base})
	rr, resp := do(t, srv, http.MethodPost, "/penagihan-donatur",
		`{"donaturId": `+itoa(donor.ID)+`, "tahun": 2024, "jumlah": 1, "bulan": 1}`)
	if rr.Code != http.StatusForbidden || resp.Error != msgForbidden {
		t.Errorf("forbidden: status=%d body=%s", rr.Code, rr.Body.String())
	}

	srv = newTestServer(t, brokenStore{base})
	rr, resp = do(t, srv, http.MethodGet, "/donatur", "")
	if rr.Code != http.StatusInternalServerError || resp.Error != msgInternal {
		t.Errorf("downstream: status=%d body=%s", rr.Code, rr.Body.String())
	}
	if strings.Contains(rr.Body.String(), "10.0.0.5") {
		t.Error("internal details leaked to the client")
	}

	rr, resp = do(t, srv, http.MethodGet, "/donatur/1", "")
	if rr.Code != http.StatusInternalServerError || resp.Success {
		t.Errorf("panic: status=%d body=%s", rr.Code, rr.Body.String())
	}
}

func TestWriteRateLimit(t *testing.T) {
	store := memory.New()
	logger := testLogger()
	srv := NewServer(":0", Dependencies{
		Store:      store,
		Ledger:     services.NewLedgerService(store, store, nil, logger),
		Summary:    services.NewSummaryService(store),
		Logger:     logger,
		WriteLimit: ratelimit.Config{WritesPerWindow: 1, Window: time.Minute},
	})
	defer srv.Shutdown(context.Background())

	if rr, _ := do(t, srv, http.MethodPost, "/program", `{"nama": "A"}`); rr.Code != http.StatusCreated {
		t.Fatalf("first write status=%d", rr.Code)
	}
	rr, resp := do(t, srv, http.MethodPost, "/program", `{"nama": "B"}`)
	if rr.Code != http.StatusTooManyRequests || resp.Error != msgTooManyWrites {
		t.Errorf("second write status=%d body=%s", rr.Code, rr.Body.String())
	}
	if rr.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After")
	}
	if rr, _ := do(t, srv, http.MethodGet, "/program", ""); rr.Code != http.StatusOK {
		t.Errorf("reads must not be limited, status=%d", rr.Code)
	}
}

func TestMetrics(t *testing.T) {
	store := memory.New()
	logger := testLogger()
	srv := NewServer(":0", Dependencies{
		Store:      store,
		Ledger:     services.NewLedgerService(store, store, nil, logger),
		Summary:    services.NewSummaryService(store),
		Logger:     logger,
		WriteLimit: ratelimit.Config{WritesPerWindow: 1, Window: time.Minute},
	})
	defer srv.Shutdown(context.Background())

	do(t, srv, http.MethodPost, "/program", `{"nama": "A"}`)
	do(t, srv, http.MethodPost, "/program", `{"nama": "B"}`)
	do(t, srv, http.MethodGet, "/.env", "")

	rr, _ := do(t, srv, http.MethodGet, "/metrics", "")
	if rr.Code != http.StatusOK || !strings.HasPrefix(rr.Header().Get("Content-Type"), "text/plain") {
		t.Fatalf("status=%d content-type=%q", rr.Code, rr.Header().Get("Content-Type"))
	}
	body := rr.Body.String()
	for _, want := range []string{
		"# TYPE http_requests_total counter\nhttp_requests_total 4\n",
		"write_rate_limited_total 1\n",
		"write_rate_limit_clients 1\n",
		"security_suspicious_requests_total 1\n",
		"http_server_errors_total 0\n",
		"# TYPE uptime_seconds gauge\n",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %q:\n%s", want, body)
		}
	}
}

func itoa(n int64) string {
	b, _ := json.Marshal(n)
	return string(b)
}
