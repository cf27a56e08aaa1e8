package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/gdlpessoa/telegram-cti-monitoring/internal/biz/usecase"
	"github.com/gdlpessoa/telegram-cti-monitoring/internal/conf"
	"github.com/gdlpessoa/telegram-cti-monitoring/internal/data"
	"github.com/gdlpessoa/telegram-cti-monitoring/internal/metrics"
	"github.com/gdlpessoa/telegram-cti-monitoring/internal/server"
	"github.com/gdlpessoa/telegram-cti-monitoring/internal/service"
	"github.com/gdlpessoa/telegram-cti-monitoring/ocr"
	"github.com/gdlpessoa/telegram-cti-monitoring/telegram"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := conf.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger := newLogger(cfg.LogLevel)
	logger.Info().
		Strs("groups", cfg.Monitor.Groups).
		Strs("keywords", []string(cfg.Monitor.Keywords)).
		Int64("alert_group_id", cfg.Telegram.AlertChatID).
		Msg("configuration loaded")

	// Initialize clients
	tgClient := telegram.NewClient(telegram.Options{
		APIID:       cfg.Telegram.APIID,
		APIHash:     cfg.Telegram.APIHash,
		PhoneNumber: cfg.Telegram.PhoneNumber,
		SessionPath: cfg.Telegram.SessionPath,
		Groups:      cfg.Monitor.Groups,
		Logger:      logger,
	})
	ocrClient := ocr.NewClient(cfg.OCR.Language)

	// Initialize repository layer
	repos, err := data.NewRepositories(tgClient, ocrClient, cfg.Storage.DBPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	defer repos.Store.Close()
	logger.Info().Str("db", cfg.Storage.DBPath).Msg("database ready")

	// Initialize usecase layer
	dispatcher := usecase.NewDispatcher(repos.Notifier, cfg.Telegram.AlertChatID, logger)
	pipeline := usecase.NewPipeline(repos.Store, repos.Extractor, dispatcher, cfg.Monitor.Keywords, logger)

	// Initialize server and services
	srv := server.NewTelegramServer(tgClient, pipeline, logger)
	stats := service.NewStatsReporter(repos.Store, time.Duration(cfg.Stats.IntervalMinutes)*time.Minute, logger)

	if cfg.MetricsAddr != "" {
		go func() {
			if err := metrics.Serve(cfg.MetricsAddr); err != nil {
				logger.Error().Err(err).Msg("metrics server error")
			}
		}()
		logger.Info().Str("addr", cfg.MetricsAddr).Msg("metrics listener started")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Println("\nShutting down...")
		stats.Stop()
		srv.Stop()
		cancel()
	}()

	stats.Start(ctx)

	if err := srv.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("monitor stopped with error")
	}
	logger.Info().Msg("monitor stopped")
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}
