package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"kharcha/internal/cli"
	"kharcha/internal/core"
	"kharcha/internal/events"
	"kharcha/internal/httpapi"
	"kharcha/internal/ledger"
	"kharcha/internal/report"
	"kharcha/internal/settings"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	store, closeStore := cli.OpenStore(logger, cfg)

	led := ledger.New(store, ledger.Options{
		Key:       cfg.StorageKey,
		Zone:      core.LoadZone(cfg.TimeZone),
		QueueSize: cfg.PersistQueueSize,
	})
	led.Load(context.Background())
	logger.Info("Ledger loaded", "transactions", led.Len(), "zone", cfg.TimeZone)

	prefs := settings.New(store)
	prefs.Load(context.Background())

	// Optional AMQP change feed; the ledger works identically without it.
	var publisher *events.Client
	if cfg.AMQPURL != "" {
		var err error
		publisher, err = events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, continuing without change feed", "error", err)
		} else {
			logger.Info("AMQP change feed enabled",
				"exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	srv := httpapi.NewServer(":"+cfg.Port, httpapi.Handlers{
		Ledger:   led,
		Reports:  report.NewCached(led),
		Settings: prefs,
	})
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	})

	changes, unsubscribe := led.Subscribe()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting kharcha server", "port", cfg.Port, "backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case c, ok := <-changes:
				if !ok {
					return nil
				}
				if c.Op == ledger.OpLoad {
					continue
				}
				if err := publisher.PublishLedgerChange(gctx, string(c.Op), c.ID, c.Len); err != nil {
					slog.WarnContext(gctx, "Failed to publish ledger change",
						"op", string(c.Op), "error", err)
				}
			}
		}
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err, "port", cfg.Port)
	}
	<-done

	unsubscribe()
	if err := led.Flush(5 * time.Second); err != nil {
		logger.Warn("Pending ledger writes did not drain", "error", err)
	}
	led.Close()
	if publisher != nil {
		publisher.Close()
	}
	if err := closeStore(); err != nil {
		logger.Error("Failed to close store", "error", err)
	}
	logger.Info("Server stopped gracefully")
}
