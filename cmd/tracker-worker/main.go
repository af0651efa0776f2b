package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/yinsights8/personal-expense-tracker-mcp/internal/amqp"
	"github.com/yinsights8/personal-expense-tracker-mcp/internal/config"
	applog "github.com/yinsights8/personal-expense-tracker-mcp/internal/log"
	"github.com/yinsights8/personal-expense-tracker-mcp/internal/sheets"
	gsheet "github.com/yinsights8/personal-expense-tracker-mcp/internal/sheets/google"
	mem "github.com/yinsights8/personal-expense-tracker-mcp/internal/sheets/memory"
	"github.com/yinsights8/personal-expense-tracker-mcp/internal/storage"
	"github.com/yinsights8/personal-expense-tracker-mcp/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentWorker)
	applog.SetDefault(logger)

	logger.Info("Starting tracker-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the export worker")
		os.Exit(1)
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Error("Failed to open ledger store", applog.FieldError, err, applog.FieldPath, cfg.DBPath)
		os.Exit(1)
	}
	defer store.Close()

	// Without a spreadsheet id the worker still drains the queue, appending
	// into an in-process store. Useful for local runs against a live broker.
	var appender sheets.RecordAppender
	if cfg.GoogleSpreadsheetID != "" {
		client, err := gsheet.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", applog.FieldError, err)
			os.Exit(1)
		}
		appender = client
		logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		appender = mem.New()
		logger.Info("Google Sheets disabled - exporting to in-memory store")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	exportWorker := worker.NewExportWorker(store, appender)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Consuming record events", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	if err := amqpClient.ConsumeRecordEvents(ctx, exportWorker.HandleRecordEvent); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Record event consumption failed", applog.FieldError, err)
		os.Exit(1)
	}

	logger.Info("Worker stopped gracefully")
}
