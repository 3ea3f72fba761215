package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/khoahotran/profile-dashboard/adapters/event"
	"github.com/khoahotran/profile-dashboard/adapters/persistence"
	revisionUC "github.com/khoahotran/profile-dashboard/internal/application/usecase/revision"
	"github.com/khoahotran/profile-dashboard/internal/config"
	"github.com/khoahotran/profile-dashboard/pkg/logger"
	"github.com/khoahotran/profile-dashboard/pkg/tracing"
)

func main() {
	exitCode := 0
	defer func() { os.Exit(exitCode) }()

	fmt.Println("Starting Profile Dashboard Worker...")

	// Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()

	if len(cfg.Kafka.Brokers) == 0 {
		appLogger.Fatal("Worker needs Kafka brokers", errors.New("kafka.brokers is empty"))
	}

	shutdownTracing, err := tracing.Setup(cfg, appLogger, "profile-dashboard-worker")
	if err != nil {
		appLogger.Fatal("Cannot init tracing", err)
	}
	defer shutdownTracing(context.Background())

	// Store
	store, err := persistence.OpenStore(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot open document store", err)
	}
	defer store.Close()

	// Worker Use Case
	processEventUC := revisionUC.NewProcessProfileEventUseCase(store.Profiles, store.Revisions, appLogger)

	// Kafka Consumer
	consumer, err := event.NewProfileEventConsumer(cfg, processEventUC, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot init Kafka consumer", err)
	}
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appLogger.Info("Worker listening", zap.String("topic", event.TopicProfileEvents), zap.String("group_id", cfg.Kafka.GroupID))
	if err := consumer.Run(ctx); err != nil {
		// Exit with the offset uncommitted; the group redelivers it on restart.
		appLogger.Error("Worker stopped on unprocessable event", err)
		exitCode = 1
		return
	}
	appLogger.Info("Worker stopped")
}
