package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/localnerve/roadmapdb/internal/config"
	"github.com/localnerve/roadmapdb/internal/database"
	"github.com/localnerve/roadmapdb/internal/logger"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	// Global flags
	envFile    string
	verbose    bool
	jsonOutput bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "roadmapctl",
	Short: "Maintenance tool for the roadmap database",
	Long: `roadmapctl works directly against the roadmap database configured by the
DB_* environment variables (or an .env file).

It can compare the stored JSON snapshots of a roadmap with its node and edge
rows, regenerate the snapshots from the rows, run migrations and print the
resulting schema.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Path to an .env file (default ./.env when present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
}

// connect opens the configured database
func connect() (*gorm.DB, *logger.Logger, error) {
	if envFile != "" {
		os.Setenv("ENV_FILE", envFile)
	}
	cfg, err := config.LoadDatabase()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if !verbose {
		cfg.DBLogLevel = "silent"
	}

	log := logger.Nop()
	if verbose {
		if log, err = logger.New("dev"); err != nil {
			return nil, nil, err
		}
	}

	db, err := database.Connect(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return db, log, nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
