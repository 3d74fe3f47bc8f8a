package main

import (
	"context"
	"flag"
	"log"

	"softskill_backend/internal/app"
	"softskill_backend/internal/config"
	"softskill_backend/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	configDir := flag.String("config", "configs", "directory holding config.yaml")
	migrateOnly := flag.Bool("migrate-only", false, "run the database migration and exit")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg.MigrateOnly = *migrateOnly

	application, err := app.NewApp(cfg)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer logger.Log.Sync()

	if cfg.MigrateOnly {
		logger.Log.Info("Database migration finished")
		application.Close(context.Background())
		return
	}

	if err := application.Run(); err != nil {
		logger.Log.Fatal("Server error", zap.Error(err))
	}
}
