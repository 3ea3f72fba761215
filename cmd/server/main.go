package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/khoahotran/profile-dashboard/adapters/event"
	httpAdapter "github.com/khoahotran/profile-dashboard/adapters/http"
	"github.com/khoahotran/profile-dashboard/adapters/persistence"
	"github.com/khoahotran/profile-dashboard/internal/application/service"
	profileUC "github.com/khoahotran/profile-dashboard/internal/application/usecase/profile"
	searchUC "github.com/khoahotran/profile-dashboard/internal/application/usecase/search"
	"github.com/khoahotran/profile-dashboard/internal/config"
	"github.com/khoahotran/profile-dashboard/pkg/logger"
	"github.com/khoahotran/profile-dashboard/pkg/tracing"
)

func main() {
	fmt.Println("Start Profile Dashboard API Server...")
	startedAt := time.Now()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()

	shutdownTracing, err := tracing.Setup(cfg, appLogger, "profile-dashboard-api")
	if err != nil {
		appLogger.Fatal("Cannot init tracing", err)
	}

	// Initialize dependencies
	store, err := persistence.OpenStore(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot open document store", err, zap.String("driver", cfg.Store.Driver))
	}
	defer store.Close()

	var publisher service.ProfileEventPublisher = service.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaClient, err := event.NewKafkaProducerClient(cfg, appLogger)
		if err != nil {
			appLogger.Fatal("Cannot init Kafka", err)
		}
		defer kafkaClient.Close()
		publisher = kafkaClient
	} else {
		appLogger.Warn("No Kafka brokers configured, profile events are dropped")
	}

	// Use Cases
	profileUseCase := profileUC.NewProfileUseCase(store.Profiles, store.Revisions, publisher, appLogger, cfg.StoreTimeout())
	searchUseCase := searchUC.NewSearchUseCase(store.Profiles, appLogger, cfg.StoreTimeout())

	if cfg.Seed.Enabled {
		if _, err := profileUseCase.ExecuteSeed(context.Background()); err != nil {
			appLogger.Error("Seeding default profile failed", err)
		}
	}

	// HTTP
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := httpAdapter.NewRouter(httpAdapter.Handlers{
		Profile: httpAdapter.NewProfileHandler(profileUseCase, appLogger),
		Search:  httpAdapter.NewSearchHandler(searchUseCase, appLogger),
		Health:  httpAdapter.NewHealthHandler(cfg.App.Env, cfg.App.Version, startedAt),
	}, appLogger, !cfg.IsProduction())

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		appLogger.Info("Server running",
			zap.String("port", cfg.App.Port),
			zap.String("environment", cfg.App.Env),
			zap.String("store", cfg.Store.Driver))
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("Cannot run server", err)
		}
	case sig := <-quit:
		appLogger.Info("Shutdown signal received", zap.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			appLogger.Error("Graceful shutdown failed", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownTracing(ctx); err != nil {
		appLogger.Error("Failed to flush traces", err)
	}
	appLogger.Info("Server stopped")
}
