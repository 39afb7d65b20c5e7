package main

import (
	"context"
	"errors"
	"os"
	"time"

	"masjid/internal/amqp"
	"masjid/internal/cli"
	gsheet "masjid/internal/sheets/google"
	"masjid/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger("worker")
	logger.Info("Starting masjid-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if err := cfg.ValidateMirror(); err != nil {
		logger.Error("Mirror configuration validation failed", "error", err)
		os.Exit(1)
	}

	// The worker marks rows as mirrored, so its store always runs with the
	// service role. It consumes events itself and never publishes.
	storeCfg := *cfg
	storeCfg.ClientRole = "service"
	storeCfg.AMQPURL = ""

	b := cli.InitBackend(context.Background(), logger, &storeCfg)
	defer b.Close()

	sheetsClient, err := gsheet.New(context.Background(), gsheet.Options{
		SpreadsheetID:   cfg.GoogleSpreadsheetID,
		SheetName:       cfg.GoogleSheetName,
		CredentialsJSON: cfg.GoogleServiceAccountJSON,
		CredentialsFile: cfg.GoogleServiceAccountFile,
	})
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", "error", err)
		os.Exit(1)
	}
	logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)

	mirrorWorker := worker.NewMirrorWorker(b.Store, sheetsClient, cfg.SyncBatchSize)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	logger.Info("Performing startup sync check...")
	if err := mirrorWorker.StartupSyncCheck(ctx); err != nil {
		logger.Error("Failed startup sync check", "error", err)
	}

	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()

		go func() {
			err := amqpClient.ConsumeTransactionRecorded(ctx, mirrorWorker.HandleRecorded)
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Message consumption failed", "error", err)
			}
		}()
	} else {
		logger.Info("AMQP disabled, relying on periodic sync only")
	}

	ticker := time.NewTicker(cfg.SyncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			<-done
			logger.Info("Worker shutdown complete")
			return
		case <-ticker.C:
			if n, err := mirrorWorker.ProcessPending(ctx); err != nil {
				logger.Error("Periodic sync failed", "error", err)
			} else if n > 0 {
				logger.Info("Periodic sync mirrored transactions", "count", n)
			}
		}
	}
}
