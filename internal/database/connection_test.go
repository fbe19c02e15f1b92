package database_test

import (
	"strings"
	"testing"

	"github.com/localnerve/roadmapdb/internal/config"
	"github.com/localnerve/roadmapdb/internal/database"
	"github.com/localnerve/roadmapdb/internal/logger"
	"github.com/localnerve/roadmapdb/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialectorSelection(t *testing.T) {
	cases := map[string]string{
		"sqlite":      "sqlite",
		"sqlite-pure": "sqlite",
		"mysql":       "mysql",
		"mariadb":     "mysql",
		"postgres":    "postgres",
		"postgresql":  "postgres",
		"sqlserver":   "sqlserver",
		"mssql":       "sqlserver",
	}
	for dbType, name := range cases {
		d, err := database.Dialector(&config.Config{DBType: dbType, DBDatabase: "x", DBHost: "h", DBPort: "1"})
		require.NoError(t, err, dbType)
		assert.Equal(t, name, d.Name(), dbType)
	}

	_, err := database.Dialector(&config.Config{DBType: "oracle"})
	assert.Error(t, err)
}

func TestMySQLDSNEscapesCredentials(t *testing.T) {
	dsn := database.MySQLDSN(&config.Config{
		DBUser:     "app",
		DBPassword: "p@ss/word",
		DBHost:     "db",
		DBPort:     "3306",
		DBDatabase: "roadmaps",
	})

	assert.True(t, strings.HasPrefix(dsn, "app:p@ss/word@tcp(db:3306)/roadmaps?"), dsn)
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "charset=utf8mb4")
}

func TestConnectPureSQLiteEnablesForeignKeys(t *testing.T) {
	cfg := &config.Config{
		DBType:            "sqlite-pure",
		DBDatabase:        ":memory:",
		DBConnectionLimit: 5,
		DBLogLevel:        "silent",
	}
	db, err := database.Connect(cfg, logger.Nop())
	require.NoError(t, err)
	defer database.Close(db)

	var fk int
	require.NoError(t, db.Raw("PRAGMA foreign_keys").Scan(&fk).Error)
	assert.Equal(t, 1, fk)

	require.NoError(t, database.AutoMigrate(db))
	for _, m := range models.All() {
		assert.True(t, db.Migrator().HasTable(m), "%T", m)
	}
}
