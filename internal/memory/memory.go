// Package memory implements every persistence port in process memory. It
// backs DATA_BACKEND=memory and the handler and service tests.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"masjid/internal/core"
	"masjid/internal/ports"
)

var _ ports.Store = (*Store)(nil)

type Store struct {
	mu     sync.Mutex
	nextID int64
	now    func() time.Time

	donors       map[int64]core.Donor
	transactions []core.TransactionRecord
	mirrored     map[int64]bool
	expenses     map[int64]core.Expense
	visions      map[int64]core.VisionMission
	programs     map[int64]core.Program
	boxes        map[int64]core.CollectionBox
}

func New() *Store {
	return &Store{
		now:      time.Now,
		donors:   map[int64]core.Donor{},
		mirrored: map[int64]bool{},
		expenses: map[int64]core.Expense{},
		visions:  map[int64]core.VisionMission{},
		programs: map[int64]core.Program{},
		boxes:    map[int64]core.CollectionBox{},
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func notFound(what string, id int64) error {
	return fmt.Errorf("%w: %s %d", core.ErrNotFound, what, id)
}

func sortedByID[T any](m map[int64]T, keep func(T) bool) []T {
	ids := make([]int64, 0, len(m))
	for id, v := range m {
		if keep == nil || keep(v) {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, m[id])
	}
	return out
}

// Donors

func (s *Store) ListDonors(_ context.Context, tahun int, search string) ([]core.Donor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := strings.ToLower(strings.TrimSpace(search))
	out := sortedByID(s.donors, func(d core.Donor) bool {
		if tahun != 0 && d.Tahun != tahun {
			return false
		}
		return q == "" || strings.Contains(strings.ToLower(d.Nama), q)
	})
	slices.SortStableFunc(out, func(a, b core.Donor) int { return cmp.Compare(a.Nama, b.Nama) })
	return out, nil
}

func (s *Store) GetDonor(_ context.Context, id int64) (core.Donor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.donors[id]
	if !ok {
		return core.Donor{}, notFound("donatur", id)
	}
	return d, nil
}

func (s *Store) CreateDonor(_ context.Context, d core.Donor) (core.Donor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d.ID = s.id()
	s.donors[d.ID] = d
	return d, nil
}

func (s *Store) UpdateDonor(_ context.Context, id int64, p core.DonorPatch) (core.Donor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.donors[id]
	if !ok {
		return core.Donor{}, notFound("donatur", id)
	}
	d = p.ApplyTo(d)
	s.donors[id] = d
	return d, nil
}

func (s *Store) DeleteDonor(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.donors[id]; !ok {
		return notFound("donatur", id)
	}
	delete(s.donors, id)
	return nil
}

// ApplyContribution computes and stores all months under one lock, which
// gives the same atomicity as the single UPDATE of the SQL store.
func (s *Store) ApplyContribution(_ context.Context, donorID int64, tahun int, months []int, amount int64, mode core.WriteMode) (core.Donor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.donors[donorID]
	if !ok || d.Tahun != tahun {
		return core.Donor{}, fmt.Errorf("%w: donatur %d tahun %d", core.ErrNotFound, donorID, tahun)
	}
	bulan, err := d.Bulan.Apply(months, amount, mode)
	if err != nil {
		return core.Donor{}, err
	}
	d.Bulan = bulan
	s.donors[donorID] = d
	return d, nil
}

// Transactions

func (s *Store) AppendTransactions(_ context.Context, recs []core.TransactionRecord) ([]core.TransactionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.TransactionRecord, len(recs))
	for i, r := range recs {
		r.ID = s.id()
		if r.CreatedAt.IsZero() {
			r.CreatedAt = s.now()
		}
		s.transactions = append(s.transactions, r)
		out[i] = r
	}
	return out, nil
}

func (s *Store) ListTransactions(_ context.Context, f core.TransactionFilter) ([]core.TransactionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.TransactionRecord
	for i := len(s.transactions) - 1; i >= 0; i-- {
		r := s.transactions[i]
		if f.DonorID != 0 && r.DonorID != f.DonorID {
			continue
		}
		if f.Tahun != 0 && r.Tahun != f.Tahun {
			continue
		}
		out = append(out, r)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out, nil
}

func (s *Store) GetTransaction(_ context.Context, id int64) (core.TransactionRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.transactions {
		if r.ID == id {
			return r, s.mirrored[id], nil
		}
	}
	return core.TransactionRecord{}, false, notFound("transaksi", id)
}

func (s *Store) ListUnmirrored(_ context.Context, limit int) ([]core.TransactionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.TransactionRecord
	for _, r := range s.transactions {
		if s.mirrored[r.ID] {
			continue
		}
		out = append(out, r)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *Store) MarkMirrored(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mirrored[id] = true
	return nil
}

// Aggregates

func (s *Store) ledgerRows(src core.LedgerSource, tahun int) ([]core.MonthlyAmounts, error) {
	var rows []core.MonthlyAmounts
	switch src {
	case core.SourceDonatur:
		for _, d := range s.donors {
			if d.Tahun == tahun {
				rows = append(rows, d.Bulan)
			}
		}
	case core.SourceKotakAmal:
		for _, b := range s.boxes {
			if b.Tahun == tahun {
				rows = append(rows, b.Bulan)
			}
		}
	default:
		return nil, fmt.Errorf("%w: sumber %q", core.ErrInvalidInput, src)
	}
	return rows, nil
}

func (s *Store) SumMonth(_ context.Context, src core.LedgerSource, tahun, bulan int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.ledgerRows(src, tahun)
	if err != nil {
		return 0, err
	}
	return core.SumMonth(rows, bulan)
}

func (s *Store) SumYear(_ context.Context, src core.LedgerSource, tahun int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.ledgerRows(src, tahun)
	if err != nil {
		return 0, err
	}
	return core.SumYear(rows), nil
}

func (s *Store) SumExpenses(_ context.Context, tahun, bulan int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sum int64
	for _, e := range s.expenses {
		if e.Tahun == tahun && (bulan == 0 || e.Bulan == bulan) {
			sum += e.Jumlah
		}
	}
	return sum, nil
}
