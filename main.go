// main.go
package main

import (
	"context"
	"log"
	"time"

	"health-predict/cmd"
	"health-predict/internal/data/migrations"
	"health-predict/internal/data/repository"
	"health-predict/internal/notify"
	"health-predict/internal/wire"
	"health-predict/pkg/database"
	"health-predict/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	// Apply schema migrations before opening the pool
	migrateCtx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := migrations.Run(migrateCtx, config.Database.DSN()); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}

	logger.Info("Migrations applied")

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// Best-effort sweep of long-expired sessions; a failure here must not
	// block startup
	sweepCtx, cancelSweep := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelSweep()

	if err := repos.Session.DeleteExpired(sweepCtx); err != nil {
		logger.Warn("Failed to sweep expired sessions", zap.Error(err))
	}

	// Delivery gateways for verification codes
	notifier := notify.New(config, logger)

	// Wire all dependencies
	app := wire.Wiring(repos, notifier, config, logger)

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	cmd.APIServer(app.Router, config.App.Port)
}
