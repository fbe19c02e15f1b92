package services

import (
	"context"
	"fmt"
	"time"

	"github.com/localnerve/roadmapdb/internal/config"
	"github.com/localnerve/roadmapdb/internal/logger"
	"github.com/localnerve/roadmapdb/internal/utils"
	"gorm.io/gorm"
)

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status       string            `json:"status"`
	Database     string            `json:"database"`
	Listener     string            `json:"listener,omitempty"`
	Details      map[string]string `json:"details,omitempty"`
	ErrorMessage string            `json:"error,omitempty"`
}

// Healthy reports whether every check passed
func (r HealthCheckResult) Healthy() bool {
	return r.Status == "healthy"
}

// HealthCheck pings the database and, when HEALTHCHECK_URL is set, the HTTP listener
func HealthCheck(ctx context.Context, cfg *config.Config, db *gorm.DB, log *logger.Logger) HealthCheckResult {
	result := HealthCheckResult{
		Status:  "healthy",
		Details: make(map[string]string),
	}

	// Check database connectivity
	sqlDB, err := db.DB()
	if err != nil {
		result.Status = "unhealthy"
		result.Database = "error"
		result.Details["database_error"] = err.Error()
		result.ErrorMessage = fmt.Sprintf("Database connection error: %v", err)
		log.Error("Health check failed - database connection", "error", err)
	} else {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := sqlDB.PingContext(pingCtx); err != nil {
			result.Status = "unhealthy"
			result.Database = "unreachable"
			result.Details["database_ping_error"] = err.Error()
			result.ErrorMessage = fmt.Sprintf("Database ping failed: %v", err)
			log.Error("Health check failed - database ping", "error", err)
		} else {
			result.Database = "ok"
			result.Details["database_type"] = cfg.DBType
			result.Details["database_name"] = cfg.DBDatabase
		}
	}

	// Check the HTTP listener when probing from outside the server process
	if cfg.HealthcheckURL != "" {
		if err := utils.Probe(ctx, cfg.HealthcheckURL, utils.ListenerTimeout); err != nil {
			result.Status = "unhealthy"
			result.Listener = "unreachable"
			result.Details["listener_error"] = err.Error()
			if result.ErrorMessage == "" {
				result.ErrorMessage = fmt.Sprintf("Listener ping failed: %v", err)
			} else {
				result.ErrorMessage += fmt.Sprintf("; Listener ping failed: %v", err)
			}
			log.Error("Health check failed - listener ping", "error", err)
		} else {
			result.Listener = "ok"
			result.Details["listener_url"] = cfg.HealthcheckURL
		}
	}

	if result.Healthy() {
		log.Debug("Health check passed - all systems operational")
	}

	return result
}
