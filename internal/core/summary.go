package core

import "time"

// MonthTotal is an aggregate for one month of one year.
type MonthTotal struct {
	Year      int
	Month     int
	Jumlah    int64
	Timestamp time.Time
}

// YearTotal is an aggregate for a whole year.
type YearTotal struct {
	Year      int
	Jumlah    int64
	Timestamp time.Time
}

// MonthBalance is income against expense for one month.
type MonthBalance struct {
	Month       int
	Pemasukan   int64
	Pengeluaran int64
}

// Saldo is income minus expense.
func (b MonthBalance) Saldo() int64 { return b.Pemasukan - b.Pengeluaran }

// YearSummary is the yearly dashboard projection.
type YearSummary struct {
	Year        int
	Donatur     int64
	KotakAmal   int64
	Pengeluaran int64
	PerBulan    [12]MonthBalance
	Timestamp   time.Time
}

// Pemasukan is the total income of the year.
func (s YearSummary) Pemasukan() int64 { return s.Donatur + s.KotakAmal }

// Saldo is the yearly balance.
func (s YearSummary) Saldo() int64 { return s.Pemasukan() - s.Pengeluaran }

// SumMonth sums one month's column across rows.
func SumMonth(rows []MonthlyAmounts, month int) (int64, error) {
	if err := ValidateMonth(month); err != nil {
		return 0, err
	}
	var sum int64
	for _, r := range rows {
		sum += r.Get(month)
	}
	return sum, nil
}

// SumYear sums all twelve columns across rows.
func SumYear(rows []MonthlyAmounts) int64 {
	var sum int64
	for _, r := range rows {
		sum += r.Total()
	}
	return sum
}
