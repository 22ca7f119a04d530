package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"fbwsupplies_sync/config"
	"fbwsupplies_sync/internal/supplies/app"
	"fbwsupplies_sync/pkg/dbconnect/postgres"
	"fbwsupplies_sync/pkg/logger"
)

func main() {
	// .env необязателен: в CI конфигурация приходит из окружения
	_ = godotenv.Load()

	var cfg *config.AppConfig
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			fail(fmt.Errorf("loading config %s: %w", path, err))
		}
		cfg = loaded
	} else {
		cfg = config.NewAppConfig()
	}

	log.Printf("Started FBW supplies sync")

	syncLog := logger.NewLogger(os.Stdout, "")
	syncApp := app.NewSyncApp(cfg, postgres.NewPgConnector(cfg.Postgres), syncLog)

	if err := syncApp.Run(context.Background()); err != nil {
		fail(err)
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
	os.Exit(1)
}
