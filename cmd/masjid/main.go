package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"masjid/internal/cli"
	apphttp "masjid/internal/http"
	"masjid/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger("app")

	cfg := cli.LoadAndValidateConfig(logger)
	b := cli.InitBackend(context.Background(), logger, cfg)

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Dependencies{
		Store:   b.Store,
		Ledger:  services.NewLedgerService(b.Store, b.Store, b.Publisher, logger),
		Summary: services.NewSummaryService(b.Store),
		Logger:  logger,
		Ready:   b.Ready,
	})

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	})

	logger.Info("Starting masjid server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"role", cfg.ClientRole,
		"events_enabled", b.Publisher != nil)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		b.Close()
		os.Exit(1)
	}

	<-ctx.Done()
	<-done
	if err := b.Close(); err != nil {
		logger.Warn("Backend cleanup failed", "error", err)
	}
	logger.Info("Server stopped gracefully")
}
