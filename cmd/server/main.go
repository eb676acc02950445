package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/vytor/lingoflash/internal/analysis"
	"github.com/vytor/lingoflash/internal/api"
	"github.com/vytor/lingoflash/internal/config"
	"github.com/vytor/lingoflash/internal/db"
	"github.com/vytor/lingoflash/internal/logger"
	"github.com/vytor/lingoflash/internal/repository/sqlstore"
	"github.com/vytor/lingoflash/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithFormat(logger.ParseFormat(cfg.LogFormat)),
		logger.WithColors(logger.ParseFormat(cfg.LogFormat) == logger.FormatText),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("LingoFlash Server Starting")
	log.Info("===========================================")
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_driver=%s", cfg.DBDriver)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("log_format=%s", cfg.LogFormat)
	log.Debug("webhook_configured=%v", cfg.WebhookURL != "")
	log.Debug("webhook_timeout=%s", cfg.WebhookTimeout)
	log.Debug("import_max_bytes=%d", cfg.ImportMaxBytes)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	database, err := db.Open(ctx, cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	flashcardRepo := sqlstore.NewFlashcardRepository(database.DB)
	languageRepo := sqlstore.NewLanguageRepository(database.DB)
	sessionRepo := sqlstore.NewStudySessionRepository(database.DB)
	analyticsRepo := sqlstore.NewWordAnalyticsRepository(database.DB)
	txManager := db.NewTxManager(database.DB)

	analyzer := analysis.NewClient(cfg.WebhookURL, cfg.WebhookTimeout)
	if !analyzer.Enabled() {
		log.Warn("AI_WEBHOOK_URL not set, session analysis disabled")
	}

	flashcardService := services.NewFlashcardService(flashcardRepo, languageRepo)

	srv := &api.Server{
		Flashcards:     flashcardService,
		Languages:      services.NewLanguageService(languageRepo),
		Study:          services.NewStudyService(flashcardRepo, sessionRepo, analyticsRepo, txManager, analyzer),
		Import:         services.NewImportService(flashcardService),
		DB:             database,
		AllowedOrigins: cfg.AllowedOrigins(),
		ImportMaxBytes: cfg.ImportMaxBytes,
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("received shutdown signal, initiating graceful shutdown")
	case err := <-serverErr:
		log.Error("HTTP server error: %v", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Info("===========================================")
	log.Info("LingoFlash Server Stopped")
	log.Info("===========================================")
}
