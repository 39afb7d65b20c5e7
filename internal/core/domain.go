package core

import (
	"strings"
	"time"
)

const (
	maxNameLen = 200
	maxTextLen = 5000
)

type (
	// Donor is a donor's contribution ledger for one year.
	Donor struct {
		ID     int64
		Nama   string
		Alamat string
		Tahun  int
		Bulan  MonthlyAmounts
	}

	// DonorPatch carries a partial donor update; nil fields are left alone.
	DonorPatch struct {
		Nama   *string
		Alamat *string
		Tahun  *int
		Bulan  map[int]int64
	}

	// Expense is a single outgoing payment (pengeluaran).
	Expense struct {
		ID         int64
		Tahun      int
		Bulan      int
		Hari       int
		Kategori   string
		Keterangan string
		Jumlah     int64
		CreatedAt  time.Time
	}

	ExpensePatch struct {
		Tahun      *int
		Bulan      *int
		Hari       *int
		Kategori   *string
		Keterangan *string
		Jumlah     *int64
	}

	ExpenseFilter struct {
		Tahun    int
		Bulan    int
		Kategori string
	}

	// VisionMission is one vision or mission statement.
	VisionMission struct {
		ID     int64
		Jenis  string
		Isi    string
		Urutan int
	}

	VisionMissionPatch struct {
		Jenis  *string
		Isi    *string
		Urutan *int
	}

	// Program is an activity run by the mosque.
	Program struct {
		ID        int64
		Nama      string
		Deskripsi string
		Kategori  string
		Aktif     bool
	}

	ProgramPatch struct {
		Nama      *string
		Deskripsi *string
		Kategori  *string
		Aktif     *bool
	}

	ProgramFilter struct {
		Kategori   string
		HanyaAktif bool
	}

	// CollectionBox is a kotak amal with its monthly collected amounts.
	CollectionBox struct {
		ID     int64
		Nama   string
		Lokasi string
		Tahun  int
		Bulan  MonthlyAmounts
		Aktif  bool
	}

	CollectionBoxPatch struct {
		Nama   *string
		Lokasi *string
		Tahun  *int
		Aktif  *bool
		Bulan  map[int]int64
	}
)

// LedgerSource names a twelve-column income table that can be aggregated.
type LedgerSource string

const (
	SourceDonatur   LedgerSource = "donatur"
	SourceKotakAmal LedgerSource = "kotak_amal"
)

func (s LedgerSource) IsValid() bool {
	return s == SourceDonatur || s == SourceKotakAmal
}

const (
	JenisVisi = "visi"
	JenisMisi = "misi"
)

func validateName(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return invalid("%s wajib diisi", field)
	}
	if len(v) > maxNameLen {
		return invalid("%s terlalu panjang (maks %d karakter)", field, maxNameLen)
	}
	return nil
}

func validateMonthCells(cells map[int]int64) error {
	for m, v := range cells {
		if err := ValidateMonth(m); err != nil {
			return err
		}
		if v < 0 {
			return ErrInvalidAmount
		}
	}
	return nil
}

func (d Donor) Validate() error {
	if err := validateName("nama", d.Nama); err != nil {
		return err
	}
	if len(d.Alamat) > maxNameLen {
		return invalid("alamat terlalu panjang (maks %d karakter)", maxNameLen)
	}
	if err := ValidateYear(d.Tahun); err != nil {
		return err
	}
	for _, v := range d.Bulan {
		if v < 0 {
			return ErrInvalidAmount
		}
	}
	return nil
}

func (p DonorPatch) Validate() error {
	if p.Nama != nil {
		if err := validateName("nama", *p.Nama); err != nil {
			return err
		}
	}
	if p.Alamat != nil && len(*p.Alamat) > maxNameLen {
		return invalid("alamat terlalu panjang (maks %d karakter)", maxNameLen)
	}
	if p.Tahun != nil {
		if err := ValidateYear(*p.Tahun); err != nil {
			return err
		}
	}
	return validateMonthCells(p.Bulan)
}

// IsEmpty reports whether the patch changes nothing.
func (p DonorPatch) IsEmpty() bool {
	return p.Nama == nil && p.Alamat == nil && p.Tahun == nil && len(p.Bulan) == 0
}

// ApplyTo returns d with the patch applied.
func (p DonorPatch) ApplyTo(d Donor) Donor {
	if p.Nama != nil {
		d.Nama = *p.Nama
	}
	if p.Alamat != nil {
		d.Alamat = *p.Alamat
	}
	if p.Tahun != nil {
		d.Tahun = *p.Tahun
	}
	for m, v := range p.Bulan {
		d.Bulan[m-1] = v
	}
	return d
}

func (e Expense) Validate() error {
	if err := ValidateYear(e.Tahun); err != nil {
		return err
	}
	if err := ValidateMonth(e.Bulan); err != nil {
		return err
	}
	if e.Hari < 1 || e.Hari > 31 {
		return invalid("hari harus antara 1 dan 31")
	}
	if err := validateName("kategori", e.Kategori); err != nil {
		return err
	}
	if strings.TrimSpace(e.Keterangan) == "" {
		return invalid("keterangan wajib diisi")
	}
	if len(e.Keterangan) > maxNameLen {
		return invalid("keterangan terlalu panjang (maks %d karakter)", maxNameLen)
	}
	if e.Jumlah <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (p ExpensePatch) IsEmpty() bool {
	return p.Tahun == nil && p.Bulan == nil && p.Hari == nil && p.Kategori == nil &&
		p.Keterangan == nil && p.Jumlah == nil
}

func (p ExpensePatch) ApplyTo(e Expense) Expense {
	if p.Tahun != nil {
		e.Tahun = *p.Tahun
	}
	if p.Bulan != nil {
		e.Bulan = *p.Bulan
	}
	if p.Hari != nil {
		e.Hari = *p.Hari
	}
	if p.Kategori != nil {
		e.Kategori = *p.Kategori
	}
	if p.Keterangan != nil {
		e.Keterangan = *p.Keterangan
	}
	if p.Jumlah != nil {
		e.Jumlah = *p.Jumlah
	}
	return e
}

func (v VisionMission) Validate() error {
	if v.Jenis != JenisVisi && v.Jenis != JenisMisi {
		return invalid("jenis harus visi atau misi")
	}
	if strings.TrimSpace(v.Isi) == "" {
		return invalid("isi wajib diisi")
	}
	if len(v.Isi) > maxTextLen {
		return invalid("isi terlalu panjang (maks %d karakter)", maxTextLen)
	}
	if v.Urutan < 0 {
		return invalid("urutan tidak boleh negatif")
	}
	return nil
}

func (p VisionMissionPatch) IsEmpty() bool {
	return p.Jenis == nil && p.Isi == nil && p.Urutan == nil
}

func (p VisionMissionPatch) ApplyTo(v VisionMission) VisionMission {
	if p.Jenis != nil {
		v.Jenis = *p.Jenis
	}
	if p.Isi != nil {
		v.Isi = *p.Isi
	}
	if p.Urutan != nil {
		v.Urutan = *p.Urutan
	}
	return v
}

func (p Program) Validate() error {
	if err := validateName("nama", p.Nama); err != nil {
		return err
	}
	if len(p.Deskripsi) > maxTextLen {
		return invalid("deskripsi terlalu panjang (maks %d karakter)", maxTextLen)
	}
	if len(p.Kategori) > maxNameLen {
		return invalid("kategori terlalu panjang (maks %d karakter)", maxNameLen)
	}
	return nil
}

func (p ProgramPatch) IsEmpty() bool {
	return p.Nama == nil && p.Deskripsi == nil && p.Kategori == nil && p.Aktif == nil
}

func (p ProgramPatch) ApplyTo(pr Program) Program {
	if p.Nama != nil {
		pr.Nama = *p.Nama
	}
	if p.Deskripsi != nil {
		pr.Deskripsi = *p.Deskripsi
	}
	if p.Kategori != nil {
		pr.Kategori = *p.Kategori
	}
	if p.Aktif != nil {
		pr.Aktif = *p.Aktif
	}
	return pr
}

func (b CollectionBox) Validate() error {
	if err := validateName("nama", b.Nama); err != nil {
		return err
	}
	if len(b.Lokasi) > maxNameLen {
		return invalid("lokasi terlalu panjang (maks %d karakter)", maxNameLen)
	}
	if err := ValidateYear(b.Tahun); err != nil {
		return err
	}
	for _, v := range b.Bulan {
		if v < 0 {
			return ErrInvalidAmount
		}
	}
	return nil
}

func (p CollectionBoxPatch) IsEmpty() bool {
	return p.Nama == nil && p.Lokasi == nil && p.Tahun == nil && p.Aktif == nil && len(p.Bulan) == 0
}

func (p CollectionBoxPatch) ApplyTo(b CollectionBox) CollectionBox {
	if p.Nama != nil {
		b.Nama = *p.Nama
	}
	if p.Lokasi != nil {
		b.Lokasi = *p.Lokasi
	}
	if p.Tahun != nil {
		b.Tahun = *p.Tahun
	}
	if p.Aktif != nil {
		b.Aktif = *p.Aktif
	}
	for m, v := range p.Bulan {
		b.Bulan[m-1] = v
	}
	return b
}

// Validate checks the month cells of the patch; the merged box is validated
// separately.
func (p CollectionBoxPatch) Validate() error {
	return validateMonthCells(p.Bulan)
}
