package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"masjid/internal/core"
	"masjid/internal/ports"
)

// maxSummaryQueries bounds the aggregate queries a yearly summary runs at
// once.
const maxSummaryQueries = 4

// SummaryService answers income and expense totals. Income is the sum of
// donor contributions and collection boxes.
type SummaryService struct {
	agg ports.Aggregator
	now func() time.Time
}

func NewSummaryService(agg ports.Aggregator) *SummaryService {
	return &SummaryService{agg: agg, now: time.Now}
}

func validatePeriod(tahun, bulan int) error {
	if err := core.ValidateYear(tahun); err != nil {
		return err
	}
	return core.ValidateMonth(bulan)
}

// IncomeMonth sums donor and collection box income for one month.
func (s *SummaryService) IncomeMonth(ctx context.Context, tahun, bulan int) (core.MonthTotal, error) {
	if err := validatePeriod(tahun, bulan); err != nil {
		return core.MonthTotal{}, err
	}
	var donors, boxes int64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		donors, err = s.agg.SumMonth(gctx, core.SourceDonatur, tahun, bulan)
		return err
	})
	g.Go(func() (err error) {
		boxes, err = s.agg.SumMonth(gctx, core.SourceKotakAmal, tahun, bulan)
		return err
	})
	if err := g.Wait(); err != nil {
		return core.MonthTotal{}, fmt.Errorf("income %d-%02d: %w", tahun, bulan, err)
	}
	return core.MonthTotal{Year: tahun, Month: bulan, Jumlah: donors + boxes, Timestamp: s.now()}, nil
}

// IncomeYear sums donor and collection box income for the whole year.
func (s *SummaryService) IncomeYear(ctx context.Context, tahun int) (core.YearTotal, error) {
	if err := core.ValidateYear(tahun); err != nil {
		return core.YearTotal{}, err
	}
	var donors, boxes int64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		donors, err = s.agg.SumYear(gctx, core.SourceDonatur, tahun)
		return err
	})
	g.Go(func() (err error) {
		boxes, err = s.agg.SumYear(gctx, core.SourceKotakAmal, tahun)
		return err
	})
	if err := g.Wait(); err != nil {
		return core.YearTotal{}, fmt.Errorf("income %d: %w", tahun, err)
	}
	return core.YearTotal{Year: tahun, Jumlah: donors + boxes, Timestamp: s.now()}, nil
}

func (s *SummaryService) ExpenseMonth(ctx context.Context, tahun, bulan int) (core.MonthTotal, error) {
	if err := validatePeriod(tahun, bulan); err != nil {
		return core.MonthTotal{}, err
	}
	sum, err := s.agg.SumExpenses(ctx, tahun, bulan)
	if err != nil {
		return core.MonthTotal{}, fmt.Errorf("expenses %d-%02d: %w", tahun, bulan, err)
	}
	return core.MonthTotal{Year: tahun, Month: bulan, Jumlah: sum, Timestamp: s.now()}, nil
}

func (s *SummaryService) ExpenseYear(ctx context.Context, tahun int) (core.YearTotal, error) {
	if err := core.ValidateYear(tahun); err != nil {
		return core.YearTotal{}, err
	}
	sum, err := s.agg.SumExpenses(ctx, tahun, 0)
	if err != nil {
		return core.YearTotal{}, fmt.Errorf("expenses %d: %w", tahun, err)
	}
	return core.YearTotal{Year: tahun, Jumlah: sum, Timestamp: s.now()}, nil
}

// YearSummary builds yearly totals plus income, expense and balance for each
// month.
func (s *SummaryService) YearSummary(ctx context.Context, tahun int) (core.YearSummary, error) {
	if err := core.ValidateYear(tahun); err != nil {
		return core.YearSummary{}, err
	}
	summary := core.YearSummary{Year: tahun}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxSummaryQueries)
	g.Go(func() (err error) {
		summary.Donatur, err = s.agg.SumYear(gctx, core.SourceDonatur, tahun)
		return err
	})
	g.Go(func() (err error) {
		summary.KotakAmal, err = s.agg.SumYear(gctx, core.SourceKotakAmal, tahun)
		return err
	})
	g.Go(func() (err error) {
		summary.Pengeluaran, err = s.agg.SumExpenses(gctx, tahun, 0)
		return err
	})
	for m := 1; m <= 12; m++ {
		g.Go(func() error {
			donors, err := s.agg.SumMonth(gctx, core.SourceDonatur, tahun, m)
			if err != nil {
				return err
			}
			boxes, err := s.agg.SumMonth(gctx, core.SourceKotakAmal, tahun, m)
			if err != nil {
				return err
			}
			out, err := s.agg.SumExpenses(gctx, tahun, m)
			if err != nil {
				return err
			}
			summary.PerBulan[m-1] = core.MonthBalance{Month: m, Pemasukan: donors + boxes, Pengeluaran: out}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return core.YearSummary{}, fmt.Errorf("summary %d: %w", tahun, err)
	}
	summary.Timestamp = s.now()
	return summary, nil
}
