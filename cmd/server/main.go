package main

import (
	"os"
	"os/signal"
	"syscall"

	"biblioteca-api/internal/adapters/http/middleware"
	"biblioteca-api/internal/adapters/http/routes"
	"biblioteca-api/internal/adapters/persistence/models"
	"biblioteca-api/internal/adapters/persistence/repositories"
	"biblioteca-api/internal/config"
	"biblioteca-api/internal/core/services"
	"biblioteca-api/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.L().Fatal().Err(err).Msg("failed to load configuration")
	}

	logger.Init(cfg.AppMode, cfg.LogLevel)

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		logger.L().Fatal().Err(err).Msg("failed to connect to database")
	}
	defer func() {
		if err := config.CloseDatabase(); err != nil {
			logger.L().Error().Err(err).Msg("failed to close database")
		}
	}()

	if err := models.AutoMigrate(db); err != nil {
		logger.L().Fatal().Err(err).Msg("failed to run migrations")
	}

	if err := config.NewSeeder(db).Run(); err != nil {
		logger.L().Error().Err(err).Msg("seeding failed")
	}

	reminder := services.NewReminderService(repositories.NewReservationRepository(db))
	reminder.Start()
	defer reminder.Stop()

	app := fiber.New(fiber.Config{
		AppName:      "biblioteca-api",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	middleware.Setup(app, cfg)
	routes.Setup(app, db, cfg)

	// Graceful shutdown on SIGINT/SIGTERM
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		logger.L().Info().Msg("shutting down server")
		if err := app.Shutdown(); err != nil {
			logger.L().Error().Err(err).Msg("server shutdown failed")
		}
	}()

	logger.L().Info().Str("port", cfg.Port).Str("mode", cfg.AppMode).Msg("server starting")
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.L().Fatal().Err(err).Msg("server stopped unexpectedly")
	}

	logger.L().Info().Msg("server exited")
}
