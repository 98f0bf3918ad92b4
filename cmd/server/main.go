package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"manual-estoico-landing/internal/bot"
	"manual-estoico-landing/internal/config"
	"manual-estoico-landing/internal/content"
	"manual-estoico-landing/internal/core"
	"manual-estoico-landing/internal/i18n"
	"manual-estoico-landing/internal/logging"
	"manual-estoico-landing/internal/metrics"
	"manual-estoico-landing/internal/scheduler"
	"manual-estoico-landing/internal/store"
	"manual-estoico-landing/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("Invalid configuration: %v", err)
	}

	log, err := logging.Setup(cfg.LogLevel, cfg.LogFormat, cfg.InstanceName)
	if err != nil {
		logrus.Fatalf("Failed to set up logging: %v", err)
	}
	if cfg.UsesDefaultSecret() {
		log.Warn("Using default session secret. Set SESSION_SECRET environment variable in production!")
	}

	// Initialize the database store
	log.Info("Initializing database...")
	db, err := store.NewStore(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	catalog, err := content.Load(cfg.CatalogPath)
	if err != nil {
		log.Fatalf("Failed to load content catalog: %v", err)
	}
	translator, err := i18n.Load(cfg.DefaultLocale)
	if err != nil {
		log.Fatalf("Failed to load locales: %v", err)
	}

	// Initialize the core service
	clock := clockwork.NewRealClock()
	pageOpts := core.PageOptions{
		CountdownStart:       core.CountdownFromDuration(cfg.CountdownStart),
		CountdownTick:        cfg.CountdownTick,
		SpotsInitial:         cfg.SpotsInitial,
		ScarcityPeriod:       cfg.ScarcityPeriod,
		NotificationPeriod:   cfg.NotificationPeriod,
		NotificationDuration: cfg.NotificationDuration,
		Modules:              len(catalog.Modules),
		FAQ:                  len(catalog.FAQ),
		BonusTotal:           catalog.BonusTotal,
		Clock:                clock,
	}
	views := core.NewViews(pageOpts, cfg.ViewIdleTTL)
	service := core.NewService(db, views, core.NewNavigator(cfg.CheckoutURL))

	m := metrics.New()
	service.SetRecorder(m)

	sched, err := scheduler.New(clock)
	if err != nil {
		log.Fatalf("Failed to initialize scheduler: %v", err)
	}
	if err := sched.AddHousekeeping(cfg.HousekeepingInterval, service, m); err != nil {
		log.Fatalf("Failed to schedule housekeeping: %v", err)
	}
	sched.Start()

	// Initialize the web server
	server, err := web.NewServer(service, web.Options{
		SessionSecret: cfg.SessionSecret,
		PublicURL:     cfg.PublicURL,
		Catalog:       catalog,
		Translator:    translator,
		Metrics:       m.Handler(),
		Logger:        log,
	})
	if err != nil {
		log.Fatalf("Failed to initialize web server: %v", err)
	}

	// Initialize and start Telegram bot if token is provided
	var telegramBot *bot.Bot
	if cfg.TelegramBotToken != "" {
		log.Info("Initializing Telegram bot...")
		telegramBot, err = bot.NewBot(cfg.TelegramBotToken, service, translator, cfg.TelegramAdminChatID)
		if err != nil {
			log.WithError(err).Warn("Failed to initialize Telegram bot, continuing without it")
			telegramBot = nil
		} else {
			service.SetNotifier(telegramBot)
			go telegramBot.Start()
		}
	} else {
		log.Info("TELEGRAM_BOT_TOKEN not set, Telegram bot will not be started")
	}

	// request contexts derive from baseCtx so event streams end on shutdown
	baseCtx, stopStreams := context.WithCancel(context.Background())
	defer stopStreams()

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.Router(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
		BaseContext:  func(net.Listener) context.Context { return baseCtx },
	}

	go func() {
		log.WithFields(logrus.Fields{
			"addr":     addr,
			"checkout": cfg.CheckoutURL,
			"locales":  translator.Available(),
		}).Info("🚀 Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Setup signal handling for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	log.Infof("Received signal %v, initiating graceful shutdown...", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	stopStreams()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Error during server shutdown")
	}
	log.Info("✓ HTTP server stopped")

	if err := sched.Shutdown(); err != nil {
		log.WithError(err).Error("Error stopping scheduler")
	}
	if telegramBot != nil {
		telegramBot.Stop()
		log.Info("✓ Telegram bot stopped")
	}
	log.Info("Shutdown complete")
}
