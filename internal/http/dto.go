package http

import (
	"time"

	"masjid/internal/core"
)

// Response payloads. Field names follow the column names clients already
// use (donaturId, bulanList, jan..des).

type monthsJSON struct {
	Jan int64 `json:"jan"`
	Feb int64 `json:"feb"`
	Mar int64 `json:"mar"`
	Apr int64 `json:"apr"`
	Mei int64 `json:"mei"`
	Jun int64 `json:"jun"`
	Jul int64 `json:"jul"`
	Aug int64 `json:"aug"`
	Sep int64 `json:"sep"`
	Okt int64 `json:"okt"`
	Nov int64 `json:"nov"`
	Des int64 `json:"des"`
}

func newMonthsJSON(m core.MonthlyAmounts) monthsJSON {
	return monthsJSON{
		Jan: m[0], Feb: m[1], Mar: m[2], Apr: m[3], Mei: m[4], Jun: m[5],
		Jul: m[6], Aug: m[7], Sep: m[8], Okt: m[9], Nov: m[10], Des: m[11],
	}
}

type donorJSON struct {
	ID     int64  `json:"id"`
	Nama   string `json:"nama"`
	Alamat string `json:"alamat"`
	Tahun  int    `json:"tahun"`
	monthsJSON
	Total int64 `json:"total"`
}

func newDonorJSON(d core.Donor) donorJSON {
	return donorJSON{
		ID:         d.ID,
		Nama:       d.Nama,
		Alamat:     d.Alamat,
		Tahun:      d.Tahun,
		monthsJSON: newMonthsJSON(d.Bulan),
		Total:      d.Bulan.Total(),
	}
}

type transactionJSON struct {
	ID        int64     `json:"id"`
	DonaturID int64     `json:"donaturId"`
	Tahun     int       `json:"tahun"`
	Bulan     int       `json:"bulan"`
	BulanKey  string    `json:"bulanKey"`
	Jumlah    int64     `json:"jumlah"`
	Mode      string    `json:"mode"`
	CreatedAt time.Time `json:"createdAt"`
}

func newTransactionJSON(t core.TransactionRecord) transactionJSON {
	key, _ := core.MonthNumberToKey(t.Bulan)
	return transactionJSON{
		ID:        t.ID,
		DonaturID: t.DonorID,
		Tahun:     t.Tahun,
		Bulan:     t.Bulan,
		BulanKey:  key.String(),
		Jumlah:    t.Jumlah,
		Mode:      t.Mode.String(),
		CreatedAt: t.CreatedAt,
	}
}

type expenseJSON struct {
	ID         int64     `json:"id"`
	Tahun      int       `json:"tahun"`
	Bulan      int       `json:"bulan"`
	Hari       int       `json:"hari"`
	Kategori   string    `json:"kategori"`
	Keterangan string    `json:"keterangan"`
	Jumlah     int64     `json:"jumlah"`
	CreatedAt  time.Time `json:"createdAt"`
}

func newExpenseJSON(e core.Expense) expenseJSON {
	return expenseJSON{
		ID:         e.ID,
		Tahun:      e.Tahun,
		Bulan:      e.Bulan,
		Hari:       e.Hari,
		Kategori:   e.Kategori,
		Keterangan: e.Keterangan,
		Jumlah:     e.Jumlah,
		CreatedAt:  e.CreatedAt,
	}
}

type visionMissionJSON struct {
	ID     int64  `json:"id"`
	Jenis  string `json:"jenis"`
	Isi    string `json:"isi"`
	Urutan int    `json:"urutan"`
}

func newVisionMissionJSON(v core.VisionMission) visionMissionJSON {
	return visionMissionJSON{ID: v.ID, Jenis: v.Jenis, Isi: v.Isi, Urutan: v.Urutan}
}

type programJSON struct {
	ID        int64  `json:"id"`
	Nama      string `json:"nama"`
	Deskripsi string `json:"deskripsi"`
	Kategori  string `json:"kategori"`
	Aktif     bool   `json:"aktif"`
}

func newProgramJSON(p core.Program) programJSON {
	return programJSON{ID: p.ID, Nama: p.Nama, Deskripsi: p.Deskripsi, Kategori: p.Kategori, Aktif: p.Aktif}
}

type collectionBoxJSON struct {
	ID     int64  `json:"id"`
	Nama   string `json:"nama"`
	Lokasi string `json:"lokasi"`
	Tahun  int    `json:"tahun"`
	Aktif  bool   `json:"aktif"`
	monthsJSON
	Total int64 `json:"total"`
}

func newCollectionBoxJSON(b core.CollectionBox) collectionBoxJSON {
	return collectionBoxJSON{
		ID:         b.ID,
		Nama:       b.Nama,
		Lokasi:     b.Lokasi,
		Tahun:      b.Tahun,
		Aktif:      b.Aktif,
		monthsJSON: newMonthsJSON(b.Bulan),
		Total:      b.Bulan.Total(),
	}
}

type monthTotalJSON struct {
	Jumlah    int64     `json:"jumlah"`
	Year      int       `json:"year"`
	Month     int       `json:"month"`
	Timestamp time.Time `json:"timestamp"`
}

func newMonthTotalJSON(t core.MonthTotal) monthTotalJSON {
	return monthTotalJSON{Jumlah: t.Jumlah, Year: t.Year, Month: t.Month, Timestamp: t.Timestamp}
}

type yearTotalJSON struct {
	Jumlah    int64     `json:"jumlah"`
	Year      int       `json:"year"`
	Timestamp time.Time `json:"timestamp"`
}

func newYearTotalJSON(t core.YearTotal) yearTotalJSON {
	return yearTotalJSON{Jumlah: t.Jumlah, Year: t.Year, Timestamp: t.Timestamp}
}

type monthBalanceJSON struct {
	Month       int    `json:"month"`
	BulanKey    string `json:"bulanKey"`
	Pemasukan   int64  `json:"pemasukan"`
	Pengeluaran int64  `json:"pengeluaran"`
	Saldo       int64  `json:"saldo"`
}

type summaryJSON struct {
	Year        int                `json:"year"`
	Donatur     int64              `json:"donatur"`
	KotakAmal   int64              `json:"kotakAmal"`
	Pemasukan   int64              `json:"pemasukan"`
	Pengeluaran int64              `json:"pengeluaran"`
	Saldo       int64              `json:"saldo"`
	PerBulan    []monthBalanceJSON `json:"perBulan"`
	Timestamp   time.Time          `json:"timestamp"`
}

func newSummaryJSON(s core.YearSummary) summaryJSON {
	out := summaryJSON{
		Year:        s.Year,
		Donatur:     s.Donatur,
		KotakAmal:   s.KotakAmal,
		Pemasukan:   s.Pemasukan(),
		Pengeluaran: s.Pengeluaran,
		Saldo:       s.Saldo(),
		PerBulan:    make([]monthBalanceJSON, 0, len(s.PerBulan)),
		Timestamp:   s.Timestamp,
	}
	for _, b := range s.PerBulan {
		key, _ := core.MonthNumberToKey(b.Month)
		out.PerBulan = append(out.PerBulan, monthBalanceJSON{
			Month:       b.Month,
			BulanKey:    key.String(),
			Pemasukan:   b.Pemasukan,
			Pengeluaran: b.Pengeluaran,
			Saldo:       b.Saldo(),
		})
	}
	return out
}

func mapSlice[T, U any](in []T, f func(T) U) []U {
	out := make([]U, 0, len(in))
	for _, v := range in {
		out = append(out, f(v))
	}
	return out
}
