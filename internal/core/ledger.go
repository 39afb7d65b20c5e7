package core

import (
	"math"
	"slices"
	"strings"
	"time"
)

// WriteMode decides how a new amount combines with the value already stored
// for a month.
type WriteMode string

const (
	// ModeSkip writes the amount only when the month is still empty (zero).
	ModeSkip WriteMode = "skip"
	// ModeReplace overwrites the month unconditionally.
	ModeReplace WriteMode = "replace"
	// ModeAccumulate adds the amount to the current value.
	ModeAccumulate WriteMode = "accumulate"
)

// ParseWriteMode parses a mode name. An empty string selects ModeSkip.
func ParseWriteMode(s string) (WriteMode, error) {
	m := WriteMode(strings.ToLower(strings.TrimSpace(s)))
	if m == "" {
		return ModeSkip, nil
	}
	if !m.IsValid() {
		return "", ErrInvalidMode
	}
	return m, nil
}

func (m WriteMode) IsValid() bool {
	switch m {
	case ModeSkip, ModeReplace, ModeAccumulate:
		return true
	default:
		return false
	}
}

func (m WriteMode) String() string { return string(m) }

// ApplyMode returns the value a month holds after writing amount under mode.
func ApplyMode(current, amount int64, mode WriteMode) int64 {
	switch mode {
	case ModeReplace:
		return amount
	case ModeAccumulate:
		return current + amount
	default:
		if current != 0 {
			return current
		}
		return amount
	}
}

// MonthlyAmounts holds one value per calendar month, index 0 being January.
// A cell that is null in storage reads as 0.
type MonthlyAmounts [12]int64

// Get returns the value for month 1..12; out of range months read as 0.
func (m MonthlyAmounts) Get(month int) int64 {
	if month < 1 || month > 12 {
		return 0
	}
	return m[month-1]
}

// Set stores value for month 1..12.
func (m *MonthlyAmounts) Set(month int, value int64) error {
	if err := ValidateMonth(month); err != nil {
		return err
	}
	m[month-1] = value
	return nil
}

// Total sums all twelve months.
func (m MonthlyAmounts) Total() int64 {
	var sum int64
	for _, v := range m {
		sum += v
	}
	return sum
}

// ByKey returns the amounts keyed by column name.
func (m MonthlyAmounts) ByKey() map[MonthKey]int64 {
	out := make(map[MonthKey]int64, len(monthKeys))
	for i, k := range monthKeys {
		out[k] = m[i]
	}
	return out
}

// AccumulateLimit is the largest value a month may hold before amount can be
// added to it without overflowing int64.
func AccumulateLimit(amount int64) int64 {
	return math.MaxInt64 - amount
}

// Apply returns a copy with amount written to every month under mode.
// Months must already be validated. An accumulate that would overflow any
// month fails with ErrAmountOverflow and leaves m untouched.
func (m MonthlyAmounts) Apply(months []int, amount int64, mode WriteMode) (MonthlyAmounts, error) {
	out := m
	for _, month := range months {
		if mode == ModeAccumulate && out[month-1] > AccumulateLimit(amount) {
			return m, ErrAmountOverflow
		}
		out[month-1] = ApplyMode(out[month-1], amount, mode)
	}
	return out, nil
}

// ReconcileRequest is one contribution event against a donor's yearly ledger.
type ReconcileRequest struct {
	DonorID int64
	Tahun   int
	Months  []int
	Amount  int64
	Mode    WriteMode
}

// Normalize validates the request and returns a copy whose months are
// de-duplicated and sorted ascending.
func (r ReconcileRequest) Normalize() (ReconcileRequest, error) {
	if r.DonorID <= 0 {
		return r, ErrInvalidID
	}
	if err := ValidateYear(r.Tahun); err != nil {
		return r, err
	}
	if r.Amount < 0 {
		return r, ErrInvalidAmount
	}
	if r.Mode == "" {
		r.Mode = ModeSkip
	}
	if !r.Mode.IsValid() {
		return r, ErrInvalidMode
	}
	if len(r.Months) == 0 {
		return r, ErrNoMonths
	}
	months := make([]int, 0, len(r.Months))
	for _, m := range r.Months {
		if err := ValidateMonth(m); err != nil {
			return r, err
		}
		months = append(months, m)
	}
	slices.Sort(months)
	r.Months = slices.Compact(months)
	return r, nil
}

// SelectMonths resolves the month selector of a billing request: a non-empty
// list wins over the single month. Supplying neither is an error.
func SelectMonths(single *int, list []int) ([]int, error) {
	if len(list) > 0 {
		return list, nil
	}
	if single != nil {
		return []int{*single}, nil
	}
	return nil, ErrNoMonths
}

// TransactionRecord is one append-only audit entry of a reconciliation.
type TransactionRecord struct {
	ID        int64
	DonorID   int64
	Tahun     int
	Bulan     int
	Jumlah    int64
	Mode      WriteMode
	CreatedAt time.Time
}

// TransactionsFor builds the audit records for a normalized request, one per
// month in ascending order.
func TransactionsFor(req ReconcileRequest, at time.Time) []TransactionRecord {
	recs := make([]TransactionRecord, 0, len(req.Months))
	for _, m := range req.Months {
		recs = append(recs, TransactionRecord{
			DonorID:   req.DonorID,
			Tahun:     req.Tahun,
			Bulan:     m,
			Jumlah:    req.Amount,
			Mode:      req.Mode,
			CreatedAt: at,
		})
	}
	return recs
}

// TransactionFilter narrows a transaction listing. Zero values match all.
type TransactionFilter struct {
	DonorID int64
	Tahun   int
	Limit   int
}
