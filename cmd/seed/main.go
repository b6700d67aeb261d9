package main

import (
	"context"
	"flag"

	"propertyhub-backend/internal/config"
	"propertyhub-backend/internal/infrastructure/database"
	"propertyhub-backend/internal/platform/logger"

	"github.com/rs/zerolog/log"
)

func main() {
	password := flag.String("password", "password123", "password for every seeded user")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load")
	}
	logger.Setup(cfg.LogLevel, cfg.IsProduction())
	if cfg.IsProduction() {
		log.Fatal().Msg("refusing to seed a production database")
	}

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("database open")
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}
	if err := database.Seed(context.Background(), db, *password); err != nil {
		log.Fatal().Err(err).Msg("seed")
	}
	log.Info().Msg("seed complete")
}
