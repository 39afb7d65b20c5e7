package http

import (
	"context"
	"net/http"
	"runtime/debug"
	"sync"
	"time"

	applog "masjid/internal/log"
	"masjid/internal/middleware/ratelimit"
	"masjid/internal/middleware/security"
	"masjid/internal/middleware/trace"
	"masjid/internal/ports"
	"masjid/internal/services"
)

const transactionLimit = 200

// Dependencies are the collaborators the API needs. Store may be the
// read-only wrapper of an anonymous client.
type Dependencies struct {
	Store   ports.Store
	Ledger  *services.LedgerService
	Summary *services.SummaryService
	Logger  *applog.Logger
	// Ready reports whether backing services are reachable; nil means always
	// ready.
	Ready      func(context.Context) error
	WriteLimit ratelimit.Config
}

// Server is the JSON API.
type Server struct {
	http.Server
	store   ports.Store
	ledger  *services.LedgerService
	summary *services.SummaryService
	logger  *applog.Logger
	ready   func(context.Context) error

	detector *security.Detector
	tracer   *trace.Middleware
	limiter  *ratelimit.Limiter
	started  time.Time

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, deps Dependencies) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	logger = logger.WithComponent(applog.ComponentHTTP)

	s := &Server{
		store:    deps.Store,
		ledger:   deps.Ledger,
		summary:  deps.Summary,
		logger:   logger,
		ready:    deps.Ready,
		detector: security.NewDetector(logger),
		limiter:  ratelimit.NewLimiter(deps.WriteLimit),
		started:  time.Now(),
	}
	s.tracer = trace.NewMiddleware(s.detector.ExtractClientIP, logger)

	mux := http.NewServeMux()
	s.routes(mux)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.middleware(mux),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	// ledger
	mux.HandleFunc("POST /donor-contribution-update", s.handleContributionUpdate)
	mux.HandleFunc("POST /penagihan-donatur", s.handleBilling)

	mux.HandleFunc("GET /donatur", s.handleListDonors)
	mux.HandleFunc("POST /donatur", s.handleCreateDonor)
	mux.HandleFunc("GET /donatur/{id}", s.handleGetDonor)
	mux.HandleFunc("PATCH /donatur/{id}", s.handleUpdateDonor)
	mux.HandleFunc("DELETE /donatur/{id}", s.handleDeleteDonor)
	mux.HandleFunc("GET /donatur/{id}/transaksi", s.handleDonorTransactions)

	// reports
	mux.HandleFunc("GET /pemasukan/bulanan", s.handleIncomeMonth)
	mux.HandleFunc("GET /pemasukan/tahunan", s.handleIncomeYear)
	mux.HandleFunc("GET /pengeluaran/bulanan", s.handleExpenseMonth)
	mux.HandleFunc("GET /pengeluaran/tahunan", s.handleExpenseYear)
	mux.HandleFunc("GET /ringkasan", s.handleYearSummary)

	mux.HandleFunc("GET /pengeluaran", s.handleListExpenses)
	mux.HandleFunc("POST /pengeluaran", s.handleCreateExpense)
	mux.HandleFunc("GET /pengeluaran/{id}", s.handleGetExpense)
	mux.HandleFunc("PATCH /pengeluaran/{id}", s.handleUpdateExpense)
	mux.HandleFunc("DELETE /pengeluaran/{id}", s.handleDeleteExpense)

	// content
	mux.HandleFunc("GET /visi-misi", s.handleListVisionMission)
	mux.HandleFunc("POST /visi-misi", s.handleCreateVisionMission)
	mux.HandleFunc("GET /visi-misi/{id}", s.handleGetVisionMission)
	mux.HandleFunc("PATCH /visi-misi/{id}", s.handleUpdateVisionMission)
	mux.HandleFunc("DELETE /visi-misi/{id}", s.handleDeleteVisionMission)

	mux.HandleFunc("GET /program", s.handleListPrograms)
	mux.HandleFunc("POST /program", s.handleCreateProgram)
	mux.HandleFunc("GET /program/{id}", s.handleGetProgram)
	mux.HandleFunc("PATCH /program/{id}", s.handleUpdateProgram)
	mux.HandleFunc("DELETE /program/{id}", s.handleDeleteProgram)
	mux.HandleFunc("POST /program/{id}/toggle", s.handleToggleProgram)

	mux.HandleFunc("GET /kotak-amal", s.handleListCollectionBoxes)
	mux.HandleFunc("POST /kotak-amal", s.handleCreateCollectionBox)
	mux.HandleFunc("GET /kotak-amal/{id}", s.handleGetCollectionBox)
	mux.HandleFunc("PATCH /kotak-amal/{id}", s.handleUpdateCollectionBox)
	mux.HandleFunc("DELETE /kotak-amal/{id}", s.handleDeleteCollectionBox)
	mux.HandleFunc("POST /kotak-amal/{id}/toggle", s.handleToggleCollectionBox)
}

// middleware wraps the mux. Outermost first: panic recovery, tracing, the
// request-scoped logger, security headers, suspicious request detection and
// write limiting.
func (s *Server) middleware(h http.Handler) http.Handler {
	h = s.limiter.Middleware(s.detector.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
		ErrorResponse(http.StatusTooManyRequests, msgTooManyWrites).Write(w)
	})(h)
	h = s.detector.Middleware(h)
	h = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(h)
	h = applog.Middleware(s.logger, trace.RequestIDFromRequest)(h)
	h = s.tracer.Middleware(h)
	return s.recoverer(h)
}

// recoverer converts a panic in any handler into the generic 500 envelope.
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				s.logger.ErrorContext(r.Context(), "Handler panic recovered",
					"panic", rec,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
					"error_type", applog.ErrorTypeInternal)
				InternalServerError().Write(w)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// Shutdown stops background goroutines and the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeData(w, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.ready(ctx); err != nil {
			s.logger.WarnContext(r.Context(), "Readiness check failed", "error", err)
			ErrorResponse(http.StatusServiceUnavailable, "Layanan belum siap").Write(w)
			return
		}
	}
	writeData(w, map[string]string{"status": "ready"})
}
