package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Graph sync modes
const (
	GraphSyncBestEffort = "best-effort"
	GraphSyncAtomic     = "atomic"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port               string   `validate:"required,numeric"`
	APIPrefix          string   `validate:"required,startswith=/"`
	AppEnv             string   `validate:"oneof=development production test"`
	LogMode            string   `validate:"oneof=dev prod"`
	CORSOrigins        []string `validate:"dive,required"`
	HideInternalErrors bool
	HealthcheckURL     string `validate:"omitempty,url"`

	// Database configuration
	DBType            string `validate:"oneof=sqlite sqlite-pure mysql mariadb postgres postgresql sqlserver mssql"`
	DBHost            string
	DBPort            string
	DBDatabase        string `validate:"required"`
	DBUser            string
	DBPassword        string
	DBConnectionLimit int    `validate:"min=1"`
	DBLogLevel        string `validate:"oneof=silent error warn info"`

	// Auth configuration
	JWTSecret string        `validate:"required"`
	JWTTTL    time.Duration `validate:"min=1s"`

	// Graph reconciliation policy
	GraphSyncMode string `validate:"oneof=best-effort atomic"`
}

var validate = validator.New()

// Load loads configuration from an optional .env file and environment variables
func Load() (*Config, error) {
	envFile := getEnv("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	cfg := fromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadDatabase loads the same configuration but only requires the database keys.
// Command line tools that never issue tokens use it.
func LoadDatabase() (*Config, error) {
	envFile := getEnv("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	cfg := fromEnv()
	err := validate.StructPartial(cfg, "DBType", "DBDatabase", "DBConnectionLimit", "DBLogLevel")
	if err != nil {
		return nil, validationError(err)
	}
	return cfg, nil
}

func fromEnv() *Config {
	cfg := &Config{
		Port:               getEnv("PORT", "3000"),
		APIPrefix:          getEnv("API_PREFIX", "/api"),
		AppEnv:             getEnv("APP_ENV", "development"),
		LogMode:            getEnv("LOG_MODE", "dev"),
		CORSOrigins:        getEnvAsList("CORS_ORIGINS"),
		HideInternalErrors: getEnvAsBool("HIDE_INTERNAL_ERRORS", false),
		HealthcheckURL:     getEnv("HEALTHCHECK_URL", ""),
		DBType:             getEnv("DB_TYPE", "sqlite"),
		DBHost:             getEnv("DB_HOST", "localhost"),
		DBPort:             getEnv("DB_PORT", ""),
		DBDatabase:         getEnv("DB_DATABASE", ""),
		DBUser:             getEnv("DB_USER", ""),
		DBPassword:         getEnv("DB_PASSWORD", ""),
		DBConnectionLimit:  getEnvAsInt("DB_CONNECTION_LIMIT", 5),
		DBLogLevel:         getEnv("DB_LOG_LEVEL", "warn"),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		JWTTTL:             getEnvAsDuration("JWT_TTL", 24*time.Hour),
		GraphSyncMode:      getEnv("GRAPH_SYNC_MODE", GraphSyncBestEffort),
	}

	if cfg.DBPort == "" {
		cfg.DBPort = defaultPort(cfg.DBType)
	}
	return cfg
}

// Validate checks the struct tags and reports the first failing env key
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return validationError(err)
	}
	return nil
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("%s is invalid (%s)", envKey(fe.StructField()), fe.Tag())
	}
	return err
}

// envKey maps a Config field name back to its environment variable
func envKey(field string) string {
	keys := map[string]string{
		"Port":              "PORT",
		"APIPrefix":         "API_PREFIX",
		"AppEnv":            "APP_ENV",
		"LogMode":           "LOG_MODE",
		"CORSOrigins":       "CORS_ORIGINS",
		"HealthcheckURL":    "HEALTHCHECK_URL",
		"DBType":            "DB_TYPE",
		"DBDatabase":        "DB_DATABASE",
		"DBConnectionLimit": "DB_CONNECTION_LIMIT",
		"DBLogLevel":        "DB_LOG_LEVEL",
		"JWTSecret":         "JWT_SECRET",
		"JWTTTL":            "JWT_TTL",
		"GraphSyncMode":     "GRAPH_SYNC_MODE",
	}
	if k, ok := keys[field]; ok {
		return k
	}
	return field
}

func defaultPort(dbType string) string {
	switch dbType {
	case "mysql", "mariadb":
		return "3306"
	case "postgres", "postgresql":
		return "5432"
	case "sqlserver", "mssql":
		return "1433"
	}
	return ""
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsBool gets an environment variable as a bool or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration accepts Go durations ("24h") or plain seconds
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(valueStr); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

// getEnvAsList splits a comma separated variable, dropping blanks
func getEnvAsList(key string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
