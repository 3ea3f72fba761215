package main

import (
	"context"
	"fmt"
	"log"

	"go.uber.org/zap"

	"github.com/khoahotran/profile-dashboard/adapters/persistence"
	profileUC "github.com/khoahotran/profile-dashboard/internal/application/usecase/profile"
	"github.com/khoahotran/profile-dashboard/internal/config"
	"github.com/khoahotran/profile-dashboard/pkg/logger"
)

func main() {
	fmt.Println("seeding default profile...")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("cannot load config: %v", err)
	}
	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()

	store, err := persistence.OpenStore(cfg, appLogger)
	if err != nil {
		log.Fatalf("cannot open store: %v", err)
	}
	defer store.Close()

	uc := profileUC.NewProfileUseCase(store.Profiles, store.Revisions, nil, appLogger, cfg.StoreTimeout())
	out, err := uc.ExecuteSeed(context.Background())
	if err != nil {
		log.Fatalf("cannot seed profile: %v", err)
	}

	if !out.Seeded {
		fmt.Println("profiles already exist, nothing to do.")
		return
	}
	appLogger.Info("Seeded profile", zap.String("id", out.Profile.ID.String()))
	fmt.Printf("added default profile '%s' successfully!\n", out.Profile.Email)
}
