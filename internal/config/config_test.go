package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("DB_DATABASE", "roadmap.db")
	t.Setenv("JWT_SECRET", "test-secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "/api", cfg.APIPrefix)
	assert.Equal(t, "sqlite", cfg.DBType)
	assert.Equal(t, 5, cfg.DBConnectionLimit)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, GraphSyncBestEffort, cfg.GraphSyncMode)
	assert.False(t, cfg.HideInternalErrors)
	assert.Empty(t, cfg.CORSOrigins)
}

func TestLoadRequiredFields(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("DB_DATABASE", "")
	t.Setenv("JWT_SECRET", "x")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_DATABASE")

	t.Setenv("DB_DATABASE", "x.db")
	t.Setenv("JWT_SECRET", "")
	_, err = Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadRejectsUnknownValues(t *testing.T) {
	setRequired(t)
	t.Setenv("GRAPH_SYNC_MODE", "sometimes")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GRAPH_SYNC_MODE")

	t.Setenv("GRAPH_SYNC_MODE", "atomic")
	t.Setenv("DB_TYPE", "oracle")
	_, err = Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_TYPE")
}

func TestLoadParsesTypedValues(t *testing.T) {
	setRequired(t)
	t.Setenv("DB_TYPE", "postgres")
	t.Setenv("JWT_TTL", "3600")
	t.Setenv("HIDE_INTERNAL_ERRORS", "true")
	t.Setenv("CORS_ORIGINS", "http://a.test, ,http://b.test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, time.Hour, cfg.JWTTTL)
	assert.True(t, cfg.HideInternalErrors)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
}

func TestLoadReadsEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("DB_DATABASE=fromfile.db\nJWT_SECRET=filesecret\nPORT=4000\n"), 0o600))

	t.Setenv("ENV_FILE", envFile)
	// godotenv does not override variables already set, so clear them first
	for _, k := range []string{"DB_DATABASE", "JWT_SECRET", "PORT"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "fromfile.db", cfg.DBDatabase)
	assert.Equal(t, "4000", cfg.Port)
}

func TestLoadDatabaseSkipsAuthKeys(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("DB_DATABASE", "roadmap.db")
	t.Setenv("JWT_SECRET", "")

	cfg, err := LoadDatabase()
	require.NoError(t, err)
	assert.Equal(t, "roadmap.db", cfg.DBDatabase)

	t.Setenv("DB_DATABASE", "")
	_, err = LoadDatabase()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_DATABASE")
}
