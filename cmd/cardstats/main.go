package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"cardstats/internal/amqp"
	"cardstats/internal/cache"
	"cardstats/internal/cli"
	apphttp "cardstats/internal/http"
	applog "cardstats/internal/log"
	"cardstats/internal/market"
	"cardstats/internal/report"
	"cardstats/internal/services"
	"cardstats/internal/views"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger.Logger)

	ctx := context.Background()
	backend := cli.OpenLedger(ctx, logger.WithComponent(applog.ComponentLedger).Logger, cfg)

	// Report-saved events are optional; without AMQP the saver just writes files.
	var events *amqp.Client
	if cfg.AMQPURL != "" {
		var err error
		events, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without report events", "error", err)
			events = nil
		} else {
			logger.Info("Initialized AMQP client", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	marketClient := market.NewClient(market.Options{
		ExchangeAPIKey: cfg.ExchangeAPIKey,
		StockAPIKey:    cfg.StockAPIKey,
		Timeout:        cfg.LookupTimeout,
		CacheSize:      cfg.MarketCacheSize,
		CacheTTL:       cfg.MarketCacheTTL,
		Logger:         logger.WithComponent(applog.ComponentMarket).Logger,
	})

	caches := cache.NewManager()
	caches.Register(marketClient.Cache())
	caches.StartCleanup(time.Minute)

	reportLog := logger.WithComponent(applog.ComponentReport).Logger
	saver := report.NewSaver(cfg.ReportsDir, reportLog, events)
	reportSvc := services.NewReportService(backend.Reader, report.NewGenerator(reportLog), saver, reportLog)

	assembler := views.NewAssembler(
		backend.Reader,
		marketClient,
		marketClient,
		func() market.UserSettings {
			return market.LoadSettings(cfg.UserSettingsPath, logger.WithComponent(applog.ComponentMarket).Logger)
		},
		logger.WithComponent(applog.ComponentViews).Logger,
	)

	srv := apphttp.NewServer(":"+cfg.Port, assembler, reportSvc, logger.WithComponent(applog.ComponentHTTP).Logger)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	shutdownCtx := cli.GracefulShutdown(logger.Logger, 30*time.Second, func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(stopCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		caches.Stop()
		if events != nil {
			if err := events.Close(); err != nil {
				logger.Error("AMQP close error", "error", err)
			}
		}
		if backend.Cleanup != nil {
			if err := backend.Cleanup(); err != nil {
				logger.Error("Ledger cleanup error", "error", err)
			}
		}
	})

	logger.Info("Starting cardstats server", "port", cfg.Port, "backend", cfg.LedgerBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-shutdownCtx.Done()
	logger.Info("Server stopped gracefully")
}
