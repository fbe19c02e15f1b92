package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/localnerve/roadmapdb/internal/config"
	"github.com/localnerve/roadmapdb/internal/database"
	"github.com/localnerve/roadmapdb/internal/logger"
	"github.com/localnerve/roadmapdb/internal/router"

	_ "github.com/localnerve/roadmapdb/docs/api" // Swagger docs
)

// @title RoadmapDB API
// @version 1.0.0
// @description Learning roadmap data service: roadmaps as graphs of courses, with categories, skills, tags, documents, favorites, notifications and progress.

// @contact.name API Support
// @contact.url https://github.com/localnerve/roadmapdb
// @contact.email info@localnerve.com

// @license.name AGPL-3.0
// @license.url https://www.gnu.org/licenses/agpl-3.0.html

// @host localhost:3000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLog, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer appLog.Sync()

	// Connect to database
	db, err := database.Connect(cfg, appLog)
	if err != nil {
		appLog.Fatal("Failed to connect to database", "error", err)
	}
	defer database.Close(db)

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		appLog.Fatal("Failed to run migrations", "error", err)
	}

	app := router.New(cfg, db, appLog, router.DefaultOptions())

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		appLog.Info("Gracefully shutting down...")
		if err := app.ShutdownWithTimeout(router.ShutdownTimeout); err != nil {
			appLog.Error("Shutdown did not complete", "error", err)
		}
	}()

	// Start server
	appLog.Info("Starting server", "port", cfg.Port, "apiPrefix", cfg.APIPrefix, "graphSyncMode", cfg.GraphSyncMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		appLog.Fatal("Failed to start server", "error", err)
	}

	appLog.Info("Server stopped")
}
