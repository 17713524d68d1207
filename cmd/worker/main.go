package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/itww/admin-api/adapters/event"
	"github.com/itww/admin-api/adapters/persistence"
	"github.com/itww/admin-api/internal/config"
	"github.com/itww/admin-api/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		os.Stderr.WriteString("FATAL: cannot load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()
	appLogger.Info("Starting ITWW Admin audit worker...")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database
	dbPool, err := persistence.NewPostgresPool(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot connect Postgres", err)
	}
	defer dbPool.Close()

	// Repositories
	auditRepo := persistence.NewPostgresAuditRepo(dbPool)

	// Kafka Consumer
	consumer, err := event.NewAuditConsumer(cfg, auditRepo, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot initialize Kafka consumer", err)
	}
	defer consumer.Close()

	appLogger.Info("Worker listening", zap.String("topic", cfg.Kafka.Topic), zap.String("group_id", cfg.Kafka.GroupID))
	if err := consumer.Run(ctx); err != nil {
		appLogger.Error("Worker stopped with error", err)
	}
	appLogger.Info("Worker exited")
}
