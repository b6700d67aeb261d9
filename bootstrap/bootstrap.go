package bootstrap

import (
	"propertyhub-backend/internal/config"
	"propertyhub-backend/internal/interfaces/router"
	"propertyhub-backend/internal/platform/logger"

	"github.com/gofiber/fiber/v2"
)

// New creates the Fiber app for the serverless entry point, which cannot import
// internal packages itself.
func New() (*fiber.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger.Setup(cfg.LogLevel, cfg.IsProduction())
	app, _, _, err := router.CreateApp(cfg)
	return app, err
}
