package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/localnerve/roadmapdb/internal/config"
	"github.com/localnerve/roadmapdb/internal/database"
	"github.com/localnerve/roadmapdb/internal/logger"
	"github.com/localnerve/roadmapdb/internal/services"
)

// probeTimeout bounds the whole probe
const probeTimeout = 5 * time.Second

func main() {
	os.Exit(run())
}

// run prints one JSON health result and returns the process exit code
func run() int {
	probeLog, err := logger.New("prod")
	if err != nil {
		probeLog = logger.Nop()
	}
	defer probeLog.Sync()

	cfg, err := config.Load()
	if err != nil {
		return report(services.HealthCheckResult{
			Status:       "unhealthy",
			ErrorMessage: fmt.Sprintf("Configuration error: %v", err),
		})
	}

	db, err := database.Connect(cfg, logger.Nop())
	if err != nil {
		probeLog.Error("Health check failed - connect", "dbType", cfg.DBType, "error", err)
		return report(services.HealthCheckResult{
			Status:       "unhealthy",
			Database:     "unreachable",
			ErrorMessage: fmt.Sprintf("Database connection error: %v", err),
		})
	}
	defer database.Close(db)

	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	return report(services.HealthCheck(ctx, cfg, db, probeLog))
}

func report(result services.HealthCheckResult) int {
	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to marshal health check result: %v\n", err)
		return 1
	}
	fmt.Println(string(output))

	if !result.Healthy() {
		return 1
	}
	return 0
}
