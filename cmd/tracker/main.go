package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/yinsights8/personal-expense-tracker-mcp/internal/amqp"
	"github.com/yinsights8/personal-expense-tracker-mcp/internal/catalog"
	"github.com/yinsights8/personal-expense-tracker-mcp/internal/config"
	apphttp "github.com/yinsights8/personal-expense-tracker-mcp/internal/http"
	applog "github.com/yinsights8/personal-expense-tracker-mcp/internal/log"
	"github.com/yinsights8/personal-expense-tracker-mcp/internal/services"
	"github.com/yinsights8/personal-expense-tracker-mcp/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	logger.Info("Starting tracker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Error("Failed to open ledger store", applog.FieldError, err, applog.FieldPath, cfg.DBPath)
		os.Exit(1)
	}

	if err := catalog.EnsureDefault(cfg.CategoriesPath); err != nil {
		logger.Error("Failed to seed category catalog", applog.FieldError, err, applog.FieldPath, cfg.CategoriesPath)
		os.Exit(1)
	}

	// AMQP is optional: without a URL the service runs standalone and no
	// record events are published.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
			os.Exit(1)
		}
		logger.Info("AMQP event bus connected", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}

	service := services.NewLedgerService(store, amqpClient)
	defer func() {
		if err := service.Close(); err != nil {
			logger.Error("Failed to close ledger service", applog.FieldError, err)
		}
	}()

	srv := apphttp.NewServer(":"+cfg.Port, service, cfg.CategoriesPath)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting tracker server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", applog.FieldError, err)
		os.Exit(1)
	}

	logger.Info("Server stopped gracefully")
}
