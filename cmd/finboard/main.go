package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"finboard/internal/alerts"
	"finboard/internal/cache"
	"finboard/internal/config"
	"finboard/internal/dashboard"
	"finboard/internal/gateway"
	apphttp "finboard/internal/http"
	"finboard/internal/insights"
	"finboard/internal/log"
	"finboard/internal/prefs"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err.Error())
		os.Exit(1)
	}

	gw := gateway.New(cfg.APIBaseURL, gateway.WithTimeout(cfg.GatewayTimeout))

	prefsStore, err := prefs.NewStore(cfg.SQLitePrefsPath)
	if err != nil {
		logger.Error("Failed to open preferences store", log.FieldError, err.Error(), "path", cfg.SQLitePrefsPath)
		os.Exit(1)
	}
	defer prefsStore.Close()

	// A stored budget preference overrides the configured default.
	budgetLimit := cfg.MonthlyBudgetLimit
	if p, err := prefsStore.Load(context.Background()); err == nil && p.MonthlyBudget > 0 {
		budgetLimit = p.MonthlyBudget
		logger.Info("Using stored monthly budget", log.FieldAmount, budgetLimit)
	}

	ctrlOpts := []dashboard.ControllerOption{dashboard.WithGSTThreshold(cfg.GSTThreshold)}

	// Alert bus is optional: without AMQP the dashboard still works, alerts
	// are just not published.
	var bus *alerts.Client
	if cfg.AMQPURL != "" {
		bus, err = alerts.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Alert bus unavailable, continuing without publishing", log.FieldError, err.Error())
		} else {
			defer bus.Close()
			ctrlOpts = append(ctrlOpts, dashboard.WithAlertPublisher(bus))
			logger.Info("Alert bus connected", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	insightSvc := insights.NewService(gw, cfg.InsightCacheSize, cfg.InsightCacheTTL, logger)
	ctrlOpts = append(ctrlOpts, dashboard.WithInsightProvider(insightSvc))

	manager := cache.NewManager()
	manager.Register(insightSvc.Cache())

	ctrl := dashboard.NewController(gw, budgetLimit, logger, ctrlOpts...)

	srv := apphttp.NewServer(":"+cfg.Port, ctrl, logger, apphttp.Options{
		Prefs:           prefsStore,
		Invoices:        gw,
		CacheManager:    manager,
		CleanupInterval: cfg.CacheCleanupInterval,
		TrustedProxies:  cfg.TrustedProxies,
	})

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err.Error())
		}
		cancel()
	}()

	logger.Info("Starting finboard server",
		"port", cfg.Port,
		"api_base_url", cfg.APIBaseURL,
		log.FieldOperation, log.OpStartup)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", log.FieldError, err.Error(), "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully", log.FieldOperation, log.OpShutdown)
}
