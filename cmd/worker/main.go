package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/dummydata/config"
	"github.com/Domenick1991/dummydata/internal/audit"
	"github.com/Domenick1991/dummydata/internal/kafka"
	"github.com/Domenick1991/dummydata/internal/logger"
	"go.uber.org/zap"
)

// The worker consumes generation events and writes them to the audit log.
func main() {
	cfg, err := config.LoadConfig(config.PathFromEnv())
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zl, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zl.Sync()

	if len(cfg.Kafka.Brokers) == 0 || cfg.Kafka.GenerationTopic == "" {
		zl.Fatal("kafka.brokers and kafka.generation_topic must be set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.GenerationTopic, zl)
	defer consumer.Close()

	recorder := audit.NewRecorder(zl)

	zl.Info("audit worker started", zap.String("topic", cfg.Kafka.GenerationTopic), zap.String("group", cfg.Kafka.GroupID))
	if err := consumer.Consume(ctx, recorder.Record); err != nil {
		zl.Error("consumer stopped", zap.Error(err))
	}
	zl.Info("audit worker stopped")
}
