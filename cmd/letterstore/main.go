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

	"maktub/internal/store"
	"maktub/internal/store/handler"
	"maktub/internal/store/repository"
	"maktub/internal/store/service"
	"maktub/pkg/config"
	"maktub/pkg/db"
	"maktub/pkg/logger"
	"maktub/pkg/mq"
)

func main() {
	cfg := config.Load()

	logg := logger.NewLogger()
	defer logg.Sync()

	logg.Info("Starting letterstore...",
		zap.String("db_host", cfg.DB.Host),
		zap.Int("db_port", cfg.DB.Port),
	)

	// DB
	dbConn, err := db.NewConnection(cfg.DB, logg)
	if err != nil {
		logg.Fatal("Failed to init DB", zap.Error(err))
	}
	defer dbConn.Close()

	// MQ publisher for letter lifecycle events.
	var publisher service.EventPublisher = service.NopPublisher{}
	mqPublisher, err := mq.NewPublisher(cfg.MQ.URL)
	if err != nil {
		logg.Warn("MQ publisher unavailable, lifecycle events disabled", zap.Error(err))
	} else {
		defer mqPublisher.Close()
		publisher = mqPublisher
	}

	// Repositories
	letterRepo := repository.NewLetterRepository(dbConn)
	userRepo := repository.NewUserRepository(dbConn)
	whitelistRepo := repository.NewWhitelistRepository(dbConn)
	settingsRepo := repository.NewSettingsRepository(dbConn)

	// Services
	authService := service.NewAuthService(userRepo, whitelistRepo, cfg.Auth, cfg.JWT.Secret, logg)
	whitelistService := service.NewWhitelistService(whitelistRepo, logg)
	letterService := service.NewLetterService(letterRepo, publisher, logg)

	// Handlers
	actionHandler := handler.NewActionHandler(authService, whitelistService, letterService, logg)
	sheetsHandler := handler.NewSheetsHandler(letterRepo, whitelistRepo, settingsRepo, logg)

	router := store.NewRouter(actionHandler, sheetsHandler, dbConn, logg)

	srv := &http.Server{
		Addr:    cfg.Server.Port,
		Handler: router.Engine,
	}

	go func() {
		logg.Info("Letterstore listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server start failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logg.Info("Shutting down letterstore gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logg.Error("HTTP server shutdown error", zap.Error(err))
	}

	logg.Info("Letterstore shutdown complete")
}
