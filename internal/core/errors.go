package core

import (
	"errors"
	"fmt"
)

// Error categories. Handlers map these to HTTP status codes; anything that
// matches none of them is treated as a downstream failure.
var (
	ErrInvalidInput = errors.New("data tidak valid")
	ErrNotFound     = errors.New("data tidak ditemukan")
	ErrForbidden    = errors.New("akses ditolak")
	ErrDownstream   = errors.New("layanan penyimpanan gagal")
)

var (
	ErrInvalidMonth  = fmt.Errorf("%w: bulan harus antara 1 dan 12", ErrInvalidInput)
	ErrInvalidYear   = fmt.Errorf("%w: tahun tidak valid", ErrInvalidInput)
	ErrInvalidAmount = fmt.Errorf("%w: jumlah tidak valid", ErrInvalidInput)
	ErrInvalidMode   = fmt.Errorf("%w: mode harus skip, replace, atau accumulate", ErrInvalidInput)
	ErrNoMonths      = fmt.Errorf("%w: minimal satu bulan harus dipilih", ErrInvalidInput)
	ErrInvalidID     = fmt.Errorf("%w: id tidak valid", ErrInvalidInput)

	ErrAmountOverflow = fmt.Errorf("%w: jumlah melebihi batas maksimum", ErrInvalidAmount)
)

// invalid builds an ErrInvalidInput with a field specific message.
func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidInput}, args...)...)
}

// ValidateYear checks the year is inside the range the ledger accepts.
func ValidateYear(year int) error {
	if year < MinYear || year > MaxYear {
		return ErrInvalidYear
	}
	return nil
}

// ValidateMonth checks the month number is in 1..12.
func ValidateMonth(month int) error {
	if month < 1 || month > 12 {
		return ErrInvalidMonth
	}
	return nil
}

const (
	MinYear = 2000
	MaxYear = 2100
)
