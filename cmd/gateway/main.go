package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"maktub/internal/gateway"
	"maktub/internal/letters"
	"maktub/internal/notify"
	"maktub/internal/proxy"
	"maktub/internal/sheetclient"
	"maktub/pkg/config"
	"maktub/pkg/logger"
	"maktub/pkg/mq"
	redisclient "maktub/pkg/redis"
)

func main() {
	cfg := config.Load()

	logg := logger.NewLogger()
	defer logg.Sync()

	logg.Info("Starting gateway...",
		zap.String("upstream", cfg.Upstream.BaseURL),
		zap.String("sheet_store", cfg.SheetStore.BaseURL),
	)

	// Redis backs the durable letter cache.
	rdb := redisclient.NewClient(cfg.Redis)
	defer rdb.Close()

	// MQ publisher for sync notifications. The gateway still runs when
	// the broker is down; notifications are just dropped.
	var notifier letters.Notifier = letters.NopNotifier{}
	publisher, err := mq.NewPublisher(cfg.MQ.URL)
	if err != nil {
		logg.Warn("MQ publisher unavailable, sync notifications disabled", zap.Error(err))
	} else {
		defer publisher.Close()
		notifier = notify.NewMQNotifier(publisher, logg)
	}

	// Letter data access: sheet store client behind the cache.
	storeClient := sheetclient.New(cfg.SheetStore, logg)

	cacheTTL := cfg.Cache.Duration
	if cacheTTL <= 0 {
		cacheTTL = letters.DefaultCacheDuration
	}
	cache := letters.NewCache(context.Background(), cacheTTL, letters.NewRedisStore(rdb), logg)
	letterService := letters.NewService(cache, storeClient, logg)

	syncInterval := cfg.Sync.Interval
	if syncInterval <= 0 {
		syncInterval = letters.DefaultSyncInterval
	}
	syncer := letters.NewSyncer(letterService, syncInterval, notifier, logg)
	syncer.Start(context.Background())
	defer syncer.Stop()

	// Handlers
	proxyHandler := proxy.NewHandler(cfg.Upstream, logg)
	lettersHandler := gateway.NewLettersHandler(letterService, cfg.Cache.ItemsPerPage, logg)
	settingsHandler := gateway.NewSettingsHandler(storeClient, logg)

	router := gateway.NewRouter(
		proxyHandler,
		lettersHandler,
		settingsHandler,
		cfg.JWT.Secret,
		rdb,
		logg,
	)

	srv := &http.Server{
		Addr:    cfg.Server.Port,
		Handler: router.Engine,
	}

	go func() {
		logg.Info("Gateway listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server start failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logg.Info("Shutting down gateway gracefully...")

	syncer.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logg.Error("HTTP server shutdown error", zap.Error(err))
	}

	logg.Info("Gateway shutdown complete")
}
