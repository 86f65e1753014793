package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	contracts "maktub/contracts/mq"
	"maktub/internal/store/repository"
	"maktub/internal/worker"
	"maktub/pkg/config"
	"maktub/pkg/db"
	"maktub/pkg/logger"
	"maktub/pkg/mq"
	redisclient "maktub/pkg/redis"
)

const dedupTTL = 24 * time.Hour

func main() {
	cfg := config.Load()

	logg := logger.NewLogger()
	defer logg.Sync()

	logg.Info("Starting notifyworker...",
		zap.String("db_host", cfg.DB.Host),
		zap.String("mq_url", cfg.MQ.URL),
	)

	// DB
	dbConn, err := db.NewConnection(cfg.DB, logg)
	if err != nil {
		logg.Fatal("Failed to init DB", zap.Error(err))
	}
	defer dbConn.Close()

	// Redis for event dedup.
	rdb := redisclient.NewClient(cfg.Redis)
	defer rdb.Close()

	notificationRepo := repository.NewNotificationLogRepository(dbConn)
	deduper := worker.NewDeduper(rdb, dedupTTL)
	svc := worker.NewNotificationService(notificationRepo, deduper, logg)

	consumers := []struct {
		queue      string
		routingKey string
		handler    mq.MessageHandler
	}{
		{"letters.changed.q", contracts.RoutingLettersChanged, svc.HandleLettersChanged},
		{"letter.reviewed.q", contracts.RoutingLetterReviewed, svc.HandleLetterReviewed},
		{"letter.deleted.q", contracts.RoutingLetterDeleted, svc.HandleLetterDeleted},
	}

	for _, c := range consumers {
		consumer, err := mq.NewConsumer(cfg.MQ.URL, c.queue, c.routingKey, logg)
		if err != nil {
			logg.Fatal("Failed to init consumer",
				zap.String("queue", c.queue),
				zap.Error(err))
		}
		defer consumer.Close()

		consumer.SetHandler(c.handler)

		go func(consumer *mq.Consumer, queue string) {
			if err := consumer.StartConsuming(); err != nil {
				logg.Fatal("Consumer failed",
					zap.String("queue", queue),
					zap.Error(err))
			}
		}(consumer, c.queue)
	}

	logg.Info("notifyworker is fully initialized and running")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logg.Info("notifyworker shutdown complete")
}
