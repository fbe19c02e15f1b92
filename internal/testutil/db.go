package testutil

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/localnerve/roadmapdb/internal/database"
	"gorm.io/gorm"
)

// NewTestDB creates a migrated in-memory SQLite database with foreign keys enforced.
// It uses the pure Go driver so tests need no cgo.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:?_pragma=foreign_keys(1)"), database.GormConfig("silent"))
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get underlying SQL DB: %v", err)
	}
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}
