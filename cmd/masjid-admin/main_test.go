package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"masjid/internal/backend"
	"masjid/internal/core"
	"masjid/internal/memory"
	"masjid/internal/storage"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runApp(t, &app{}, args...)
}

func runApp(t *testing.T, a *app, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(a)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := execute(a, cmd)
	return out.String(), err
}

func setSQLiteEnv(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "masjid.db")
	t.Setenv("DATA_BACKEND", "sqlite")
	t.Setenv("SQLITE_DB_PATH", path)
	t.Setenv("CLIENT_ROLE", "service")
	t.Setenv("AMQP_URL", "")
	t.Setenv("LOG_LEVEL", "error")
	return path
}

func seedDonor(t *testing.T, path string) core.Donor {
	t.Helper()
	ctx := context.Background()
	db, err := storage.Open(ctx, storage.SQLite, path)
	if err != nil {
		t.Fatal(err)
	}
	repo := storage.NewRepository(db)
	defer repo.Close()

	d, err := repo.CreateDonor(ctx, core.Donor{Nama: "Fatimah", Tahun: 2024, Bulan: core.MonthlyAmounts{0, 0, 10000}})
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestMigrateThenReconcile(t *testing.T) {
	path := setSQLiteEnv(t)

	out, err := runCmd(t, "migrate")
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if !strings.Contains(out, "Migrations applied") {
		t.Errorf("migrate output = %q", out)
	}

	d := seedDonor(t, path)
	out, err = runCmd(t, "rekonsiliasi",
		"--donatur", strconv.FormatInt(d.ID, 10), "--tahun", "2024", "--bulan", "2,3", "--jumlah", "Rp50.000")
	if err != nil {
		t.Fatalf("rekonsiliasi: %v\n%s", err, out)
	}
	if !strings.Contains(out, "2 audit record(s) written") {
		t.Errorf("rekonsiliasi output = %q", out)
	}

	out, err = runCmd(t, "ringkasan", "--tahun", "2024", "--json")
	if err != nil {
		t.Fatalf("ringkasan: %v", err)
	}
	// skip mode leaves March at 10000 and fills February.
	if !strings.Contains(out, `"Donatur": 60000`) {
		t.Errorf("ringkasan output = %q", out)
	}
}

func TestReconcileRejectsBadInput(t *testing.T) {
	setSQLiteEnv(t)

	tests := []struct {
		name string
		args []string
	}{
		{"bad amount", []string{"rekonsiliasi", "--donatur", "1", "--tahun", "2024", "--bulan", "1", "--jumlah", "lima"}},
		{"bad mode", []string{"rekonsiliasi", "--donatur", "1", "--tahun", "2024", "--bulan", "1", "--jumlah", "1000", "--mode", "double"}},
		{"missing flag", []string{"rekonsiliasi", "--donatur", "1", "--tahun", "2024"}},
		{"unknown donor", []string{"rekonsiliasi", "--donatur", "99", "--tahun", "2024", "--bulan", "1", "--jumlah", "1000"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runCmd(t, tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestBackendClosedOnCommandError(t *testing.T) {
	t.Setenv("DATA_BACKEND", "memory")
	t.Setenv("AMQP_URL", "")
	t.Setenv("LOG_LEVEL", "error")

	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{"unknown donor", []string{"rekonsiliasi", "--donatur", "99", "--tahun", "2024", "--bulan", "1", "--jumlah", "1000"}, true},
		{"bad mode", []string{"rekonsiliasi", "--donatur", "1", "--tahun", "2024", "--bulan", "1", "--jumlah", "1000", "--mode", "double"}, true},
		{"success", []string{"ringkasan", "--tahun", "2024"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			closed := 0
			a := &app{backend: &backend.Backend{
				Store:   memory.New(),
				Cleanup: func() error { closed++; return nil },
			}}

			_, err := runApp(t, a, tt.args...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if closed != 1 {
				t.Errorf("backend closed %d times, want 1", closed)
			}
			if a.backend != nil {
				t.Error("backend still attached after execute")
			}
		})
	}
}

func TestCloseErrorSurfaces(t *testing.T) {
	t.Setenv("DATA_BACKEND", "memory")
	t.Setenv("LOG_LEVEL", "error")

	closeErr := errors.New("close failed")
	a := &app{backend: &backend.Backend{Store: memory.New(), Cleanup: func() error { return closeErr }}}
	if _, err := runApp(t, a, "ringkasan", "--tahun", "2024"); !errors.Is(err, closeErr) {
		t.Errorf("err = %v, want %v", err, closeErr)
	}
}

func TestSummaryTable(t *testing.T) {
	t.Setenv("DATA_BACKEND", "memory")
	t.Setenv("AMQP_URL", "")
	t.Setenv("LOG_LEVEL", "error")

	out, err := runCmd(t, "ringkasan", "--tahun", "2024")
	if err != nil {
		t.Fatalf("ringkasan: %v", err)
	}
	for _, want := range []string{"Pemasukan", "jan", "des", "total"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestMigrateMemoryBackend(t *testing.T) {
	t.Setenv("DATA_BACKEND", "memory")
	t.Setenv("LOG_LEVEL", "error")

	if _, err := runCmd(t, "migrate"); err == nil {
		t.Error("expected error for memory backend")
	}
}
