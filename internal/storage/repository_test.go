package storage

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"masjid/internal/core"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "masjid.db")
	if err := RunMigrations(SQLite, dsn); err != nil {
		t.Fatalf("migrations: %v", err)
	}
	db, err := Open(context.Background(), SQLite, dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	repo := NewRepository(db)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestParseDialect(t *testing.T) {
	for in, want := range map[string]Dialect{"sqlite": SQLite, " Postgres ": Postgres} {
		got, err := ParseDialect(in)
		if err != nil || got != want {
			t.Errorf("ParseDialect(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseDialect("mysql"); err == nil {
		t.Error("expected error for mysql")
	}
}

func TestRunMigrationsIsIdempotent(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "masjid.db")
	for i := 0; i < 2; i++ {
		if err := RunMigrations(SQLite, dsn); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}
}

func TestDonorCRUD(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	var bulan core.MonthlyAmounts
	bulan[0] = 10000
	d, err := repo.CreateDonor(ctx, core.Donor{Nama: "Budi", Alamat: "Jl. Melati", Tahun: 2024, Bulan: bulan})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if d.ID == 0 || d.Bulan.Get(1) != 10000 || d.Bulan.Get(2) != 0 {
		t.Fatalf("unexpected donor %+v", d)
	}

	nama := "Budi Santoso"
	updated, err := repo.UpdateDonor(ctx, d.ID, core.DonorPatch{Nama: &nama, Bulan: map[int]int64{3: 7000}})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Nama != nama || updated.Bulan.Get(3) != 7000 || updated.Bulan.Get(1) != 10000 {
		t.Fatalf("unexpected update %+v", updated)
	}

	list, err := repo.ListDonors(ctx, 2024, "santoso")
	if err != nil || len(list) != 1 {
		t.Fatalf("list: %v %+v", err, list)
	}
	if list, _ := repo.ListDonors(ctx, 2023, ""); len(list) != 0 {
		t.Fatalf("expected no donors for 2023, got %d", len(list))
	}

	if err := repo.DeleteDonor(ctx, d.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetDonor(ctx, d.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if err := repo.DeleteDonor(ctx, d.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestApplyContributionModes(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	var bulan core.MonthlyAmounts
	bulan[5] = 20000 // jun
	d, err := repo.CreateDonor(ctx, core.Donor{Nama: "Siti", Tahun: 2024, Bulan: bulan})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	tests := []struct {
		name   string
		months []int
		amount int64
		mode   core.WriteMode
		check  map[int]int64
	}{
		{"skip fills empty month", []int{5}, 50000, core.ModeSkip, map[int]int64{5: 50000}},
		{"skip keeps filled month", []int{5}, 1, core.ModeSkip, map[int]int64{5: 50000}},
		{"accumulate adds", []int{6}, 30000, core.ModeAccumulate, map[int]int64{6: 50000}},
		{"accumulate on null cell", []int{7}, 1500, core.ModeAccumulate, map[int]int64{7: 1500}},
		{"replace overwrites", []int{1, 3}, 9000, core.ModeReplace, map[int]int64{1: 9000, 3: 9000, 6: 50000}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.ApplyContribution(ctx, d.ID, 2024, tt.months, tt.amount, tt.mode)
			if err != nil {
				t.Fatalf("apply: %v", err)
			}
			for m, want := range tt.check {
				if got.Bulan.Get(m) != want {
					t.Errorf("month %d = %d, want %d", m, got.Bulan.Get(m), want)
				}
			}
		})
	}
}

func TestApplyContributionUnknownDonorYear(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	d, err := repo.CreateDonor(ctx, core.Donor{Nama: "Ahmad", Tahun: 2024})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := repo.ApplyContribution(ctx, d.ID, 2025, []int{1}, 100, core.ModeReplace); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not found for other year, got %v", err)
	}
	if _, err := repo.ApplyContribution(ctx, 999, 2024, []int{1}, 100, core.ModeReplace); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not found for unknown donor, got %v", err)
	}
}

func TestApplyContributionOverflow(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	var bulan core.MonthlyAmounts
	bulan[5] = 1 // jun
	d, err := repo.CreateDonor(ctx, core.Donor{Nama: "Hasan", Tahun: 2024, Bulan: bulan})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = repo.ApplyContribution(ctx, d.ID, 2024, []int{1, 6}, math.MaxInt64, core.ModeAccumulate)
	if !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	got, err := repo.GetDonor(ctx, d.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Bulan.Get(1) != 0 || got.Bulan.Get(6) != 1 {
		t.Fatalf("rejected accumulate changed the row: %v", got.Bulan)
	}

	got, err = repo.ApplyContribution(ctx, d.ID, 2024, []int{6}, math.MaxInt64-1, core.ModeAccumulate)
	if err != nil {
		t.Fatalf("accumulate up to the limit: %v", err)
	}
	if got.Bulan.Get(6) != math.MaxInt64 {
		t.Fatalf("jun = %d, want %d", got.Bulan.Get(6), int64(math.MaxInt64))
	}

	if _, err := repo.ApplyContribution(ctx, 999, 2024, []int{1}, 1, core.ModeAccumulate); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not found for unknown donor, got %v", err)
	}
}

func TestApplyContributionConcurrentAccumulate(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	d, err := repo.CreateDonor(ctx, core.Donor{Nama: "Rahmat", Tahun: 2024})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	const writers = 20
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.ApplyContribution(ctx, d.ID, 2024, []int{4}, 1000, core.ModeAccumulate); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("apply: %v", err)
	}

	got, err := repo.GetDonor(ctx, d.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Bulan.Get(4) != writers*1000 {
		t.Fatalf("april = %d, want %d", got.Bulan.Get(4), writers*1000)
	}
}

func TestTransactionsAndMirrorQueue(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	req := core.ReconcileRequest{DonorID: 7, Tahun: 2024, Months: []int{1, 3, 5}, Amount: 25000, Mode: core.ModeReplace}
	recs, err := repo.AppendTransactions(ctx, core.TransactionsFor(req, time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)))
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if len(recs) != 3 || recs[0].ID == 0 || recs[0].CreatedAt.IsZero() {
		t.Fatalf("unexpected records %+v", recs)
	}

	list, err := repo.ListTransactions(ctx, core.TransactionFilter{DonorID: 7, Limit: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].Bulan != 5 {
		t.Fatalf("expected newest first, got %+v", list)
	}

	pending, err := repo.ListUnmirrored(ctx, 10)
	if err != nil || len(pending) != 3 {
		t.Fatalf("pending: %v %d", err, len(pending))
	}
	if err := repo.MarkMirrored(ctx, pending[0].ID); err != nil {
		t.Fatalf("mark: %v", err)
	}
	rec, mirrored, err := repo.GetTransaction(ctx, pending[0].ID)
	if err != nil || !mirrored || rec.Mode != core.ModeReplace {
		t.Fatalf("get: %+v %v %v", rec, mirrored, err)
	}
	if pending, _ := repo.ListUnmirrored(ctx, 10); len(pending) != 2 {
		t.Fatalf("expected 2 pending after mark, got %d", len(pending))
	}
	if err := repo.MarkMirrored(ctx, 12345); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAggregatesTreatNullAsZero(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	var a, b core.MonthlyAmounts
	a[4] = 50000 // mei
	b[4] = 25000
	b[0] = 1000
	for _, d := range []core.Donor{
		{Nama: "A", Tahun: 2024, Bulan: a},
		{Nama: "B", Tahun: 2024, Bulan: b},
		{Nama: "C", Tahun: 2024},
		{Nama: "D", Tahun: 2023, Bulan: a},
	} {
		if _, err := repo.CreateDonor(ctx, d); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	var box core.MonthlyAmounts
	box[4] = 5000
	if _, err := repo.CreateCollectionBox(ctx, core.CollectionBox{Nama: "Kotak 1", Tahun: 2024, Aktif: true, Bulan: box}); err != nil {
		t.Fatalf("create box: %v", err)
	}

	if got, err := repo.SumMonth(ctx, core.SourceDonatur, 2024, 5); err != nil || got != 75000 {
		t.Errorf("SumMonth donatur = %d, %v", got, err)
	}
	if got, err := repo.SumMonth(ctx, core.SourceDonatur, 2024, 2); err != nil || got != 0 {
		t.Errorf("SumMonth empty month = %d, %v", got, err)
	}
	if got, err := repo.SumYear(ctx, core.SourceDonatur, 2024); err != nil || got != 76000 {
		t.Errorf("SumYear donatur = %d, %v", got, err)
	}
	if got, err := repo.SumYear(ctx, core.SourceKotakAmal, 2024); err != nil || got != 5000 {
		t.Errorf("SumYear kotak amal = %d, %v", got, err)
	}
	if got, err := repo.SumYear(ctx, core.SourceDonatur, 2030); err != nil || got != 0 {
		t.Errorf("SumYear empty year = %d, %v", got, err)
	}
	if _, err := repo.SumMonth(ctx, core.LedgerSource("users"), 2024, 1); !errors.Is(err, core.ErrInvalidInput) {
		t.Errorf("expected invalid input for unknown source, got %v", err)
	}
	if _, err := repo.SumMonth(ctx, core.SourceDonatur, 2024, 13); !errors.Is(err, core.ErrInvalidInput) {
		t.Errorf("expected invalid input for month 13, got %v", err)
	}
}

func TestExpensesAndSums(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	for _, e := range []core.Expense{
		{Tahun: 2024, Bulan: 3, Hari: 1, Kategori: "listrik", Keterangan: "PLN", Jumlah: 400000},
		{Tahun: 2024, Bulan: 3, Hari: 5, Kategori: "kebersihan", Keterangan: "Sabun", Jumlah: 50000},
		{Tahun: 2024, Bulan: 4, Hari: 2, Kategori: "listrik", Keterangan: "PLN", Jumlah: 420000},
	} {
		if _, err := repo.CreateExpense(ctx, e); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	if got, _ := repo.SumExpenses(ctx, 2024, 3); got != 450000 {
		t.Errorf("march = %d", got)
	}
	if got, _ := repo.SumExpenses(ctx, 2024, 0); got != 870000 {
		t.Errorf("year = %d", got)
	}

	list, err := repo.ListExpenses(ctx, core.ExpenseFilter{Tahun: 2024, Kategori: "listrik"})
	if err != nil || len(list) != 2 || list[0].Bulan != 4 {
		t.Fatalf("list: %v %+v", err, list)
	}

	jumlah := int64(1000)
	updated, err := repo.UpdateExpense(ctx, list[0].ID, core.ExpensePatch{Jumlah: &jumlah})
	if err != nil || updated.Jumlah != 1000 || updated.Keterangan != "PLN" {
		t.Fatalf("update: %v %+v", err, updated)
	}
	if _, err := repo.UpdateExpense(ctx, 999, core.ExpensePatch{Jumlah: &jumlah}); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestContentStores(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	if _, err := repo.CreateVisionMission(ctx, core.VisionMission{Jenis: core.JenisMisi, Isi: "Misi kedua", Urutan: 2}); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.CreateVisionMission(ctx, core.VisionMission{Jenis: core.JenisMisi, Isi: "Misi pertama", Urutan: 1}); err != nil {
		t.Fatal(err)
	}
	misi, err := repo.ListVisionMission(ctx, core.JenisMisi)
	if err != nil || len(misi) != 2 || misi[0].Isi != "Misi pertama" {
		t.Fatalf("list misi: %v %+v", err, misi)
	}

	p, err := repo.CreateProgram(ctx, core.Program{Nama: "Kajian Subuh", Kategori: "kajian", Aktif: true})
	if err != nil {
		t.Fatal(err)
	}
	toggled, err := repo.ToggleProgram(ctx, p.ID)
	if err != nil || toggled.Aktif {
		t.Fatalf("toggle: %v %+v", err, toggled)
	}
	active, err := repo.ListPrograms(ctx, core.ProgramFilter{HanyaAktif: true})
	if err != nil || len(active) != 0 {
		t.Fatalf("active programs: %v %+v", err, active)
	}
	if _, err := repo.ToggleProgram(ctx, 999); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	box, err := repo.CreateCollectionBox(ctx, core.CollectionBox{Nama: "Kotak Jumat", Tahun: 2024, Aktif: true})
	if err != nil {
		t.Fatal(err)
	}
	box, err = repo.UpdateCollectionBox(ctx, box.ID, core.CollectionBoxPatch{Bulan: map[int]int64{12: 300000}})
	if err != nil || box.Bulan.Get(12) != 300000 {
		t.Fatalf("update box: %v %+v", err, box)
	}
	box, err = repo.ToggleCollectionBox(ctx, box.ID)
	if err != nil || box.Aktif {
		t.Fatalf("toggle box: %v %+v", err, box)
	}
}

func TestOperationErrorIsDownstream(t *testing.T) {
	err := wrap("get_donatur", "donatur", 1, errors.New("disk I/O error"))
	if !errors.Is(err, core.ErrDownstream) {
		t.Fatal("expected operation error to match ErrDownstream")
	}
	if errors.Is(err, core.ErrNotFound) {
		t.Fatal("operation error must not match ErrNotFound")
	}
}
