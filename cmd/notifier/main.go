package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/ec-storefront/internal/config"
	"github.com/example/ec-storefront/internal/email"
	"github.com/example/ec-storefront/internal/infrastructure/kafka"
	"github.com/example/ec-storefront/internal/logging"
	"github.com/example/ec-storefront/internal/notification"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load(getEnv("STOREFRONT_CONFIG", ""))
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	if !cfg.Kafka.Enabled() {
		logger.Fatal("STOREFRONT_KAFKA_BROKERS is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var sender notification.Sender
	if cfg.SMTP.Enabled() {
		sender = email.NewService(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.From)
		logger.Info("sending confirmations",
			zap.String("smtp", cfg.SMTP.Host+":"+cfg.SMTP.Port),
			zap.String("to", cfg.SMTP.NotifyTo))
	} else {
		logger.Info("smtp disabled, confirmations are only logged")
	}

	handler := notification.NewHandler(sender, cfg.SMTP.NotifyTo, logger.Named("notifier"))

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.GroupID, logger.Named("consumer"))
	defer consumer.Close()

	logger.Info("starting event consumer",
		zap.Strings("brokers", cfg.Kafka.Brokers),
		zap.String("topic", cfg.Kafka.Topic),
		zap.String("group", cfg.Kafka.GroupID))

	if err := consumer.Consume(ctx, handler.HandleEvent); err != nil && ctx.Err() == nil {
		logger.Error("consumer error", zap.Error(err))
	}
	logger.Info("shutting down")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
