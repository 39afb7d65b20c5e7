package http

import (
	"context"
	"net/http"

	"masjid/internal/core"
	applog "masjid/internal/log"
)

type monthTotalFunc func(ctx context.Context, tahun, bulan int) (core.MonthTotal, error)
type yearTotalFunc func(ctx context.Context, tahun int) (core.YearTotal, error)

func (s *Server) handleIncomeMonth(w http.ResponseWriter, r *http.Request) {
	s.serveMonthTotal(w, r, s.summary.IncomeMonth)
}

func (s *Server) handleIncomeYear(w http.ResponseWriter, r *http.Request) {
	s.serveYearTotal(w, r, s.summary.IncomeYear)
}

func (s *Server) handleExpenseMonth(w http.ResponseWriter, r *http.Request) {
	s.serveMonthTotal(w, r, s.summary.ExpenseMonth)
}

func (s *Server) handleExpenseYear(w http.ResponseWriter, r *http.Request) {
	s.serveYearTotal(w, r, s.summary.ExpenseYear)
}

// serveMonthTotal answers ?year=&month= with {jumlah, year, month, timestamp}.
func (s *Server) serveMonthTotal(w http.ResponseWriter, r *http.Request, fn monthTotalFunc) {
	q := r.URL.Query()
	year, err := requireQueryInt(q, "year")
	if err != nil {
		writeError(w, r, err, applog.OpAggregate)
		return
	}
	month, err := requireQueryInt(q, "month")
	if err != nil {
		writeError(w, r, err, applog.OpAggregate)
		return
	}

	total, err := fn(r.Context(), year, month)
	if err != nil {
		writeError(w, r, err, applog.OpAggregate)
		return
	}
	writeData(w, newMonthTotalJSON(total))
}

// serveYearTotal answers ?year= with {jumlah, year, timestamp}.
func (s *Server) serveYearTotal(w http.ResponseWriter, r *http.Request, fn yearTotalFunc) {
	year, err := requireQueryInt(r.URL.Query(), "year")
	if err != nil {
		writeError(w, r, err, applog.OpAggregate)
		return
	}

	total, err := fn(r.Context(), year)
	if err != nil {
		writeError(w, r, err, applog.OpAggregate)
		return
	}
	writeData(w, newYearTotalJSON(total))
}

// handleYearSummary serves the yearly dashboard. It is computed on every
// request so writes from the admin CLI and the mirror worker show up at once.
func (s *Server) handleYearSummary(w http.ResponseWriter, r *http.Request) {
	year, err := requireQueryInt(r.URL.Query(), "year")
	if err != nil {
		writeError(w, r, err, applog.OpAggregate)
		return
	}

	summary, err := s.summary.YearSummary(r.Context(), year)
	if err != nil {
		writeError(w, r, err, applog.OpAggregate)
		return
	}
	writeData(w, newSummaryJSON(summary))
}
