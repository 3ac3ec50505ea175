package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"poa_tracker/internal/app"
	"poa_tracker/internal/domain/poa"
	"poa_tracker/internal/infra/config"
	idb "poa_tracker/internal/infra/database"
	"poa_tracker/internal/infra/httpapi"
	"poa_tracker/internal/infra/logger"
	"poa_tracker/internal/infra/metrics"
	"poa_tracker/internal/infra/scheduler"
	itg "poa_tracker/internal/infra/telegram"

	"github.com/prometheus/client_golang/prometheus"
	"gopkg.in/telebot.v3"
)

func main() {
	fmt.Println("Power of Attorney Tracker starting...")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Could not load application configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg)
	log := logger.Get()
	log.Infof("Configuration loaded. LogLevel: %s, Environment: %s, Port: %s, Thresholds: %v",
		cfg.LogLevel, cfg.Environment, cfg.Port, cfg.NotifyThresholdDays)

	// Database. A missing or unreachable database degrades the service
	// instead of killing it; the health endpoint reports the state.
	var db *sql.DB
	if cfg.DatabaseURL == "" {
		log.Error("DATABASE_URL is not set. Starting degraded, data endpoints disabled.")
	} else {
		db, err = idb.NewPostgresConnection(cfg.DatabaseURL)
		if err != nil {
			log.Errorf("Database connection is not healthy: %v", err)
		}
		if db != nil {
			defer db.Close()
			if err := idb.RunMigrations(cfg.DatabaseURL); err != nil {
				log.Errorf("Could not apply database migrations: %v", err)
			} else {
				log.Info("Database schema is up to date.")
			}
		}
	}

	// Metrics registry, passed explicitly to whoever records or serves them.
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// Telegram bot. Missing or invalid credentials also degrade rather
	// than crash: records can still be managed, reminders just won't go out.
	var botReady bool
	var tgClient *itg.TelebotAdapter
	if cfg.TelegramToken == "" {
		log.Error("TELEGRAM_TOKEN is not set. Expiry notifications are disabled.")
	} else {
		bot, err := telebot.NewBot(telebot.Settings{
			Token: cfg.TelegramToken,
			// Bounded timeout so one unreachable Telegram API call cannot
			// stall the scan loop indefinitely.
			Client: &http.Client{Timeout: 10 * time.Second},
		})
		if err != nil {
			log.Errorf("Could not create Telegram bot: %v. Expiry notifications are disabled.", err)
		} else {
			tgClient = itg.NewTelebotAdapter(bot)
			botReady = true
			log.Info("Telegram bot initialized.")
		}
	}

	var dispatcher *app.Dispatcher
	if tgClient != nil {
		dispatcher = app.NewDispatcher(tgClient, cfg.DefaultChatID, log, collector)
	} else {
		dispatcher = app.NewDispatcher(nil, cfg.DefaultChatID, log, collector)
	}

	// Expiry scan service and scheduler, wired only when storage exists.
	var store httpapi.RecordStore
	var pinger httpapi.DBPinger
	var scanner httpapi.ScanTrigger
	var expiryScheduler *scheduler.ExpiryScheduler
	if db != nil {
		repo := idb.NewPostgresPOARepository(db)
		store = repo
		pinger = db

		scanService := app.NewExpiryScanService(repo, dispatcher, poa.Thresholds(cfg.NotifyThresholdDays), log, collector)
		scanner = scanService

		expiryScheduler = scheduler.NewExpiryScheduler(scanService, cfg.CronSpecExpiryCheck, log)
		expiryScheduler.Start()
	}

	router := httpapi.NewRouter(&httpapi.RouterDeps{
		Store:    store,
		Scanner:  scanner,
		DB:       pinger,
		BotReady: botReady,
		Port:     cfg.Port,
		Logger:   log,
		Gatherer: registry,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Infof("HTTP server listening on port %s.", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: HTTP server failed: %v", err)
		}
	}()

	log.Info("Application setup complete.")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("HTTP server shutdown error: %v", err)
	}

	if expiryScheduler != nil {
		expiryScheduler.Stop()
	}
	// db.Close() is handled by defer
	log.Info("Application shut down gracefully.")
}
