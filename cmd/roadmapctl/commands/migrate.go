package commands

import (
	"fmt"

	"github.com/localnerve/roadmapdb/internal/database"
	"github.com/localnerve/roadmapdb/internal/models"
	"github.com/spf13/cobra"
)

// migrateCmd creates or updates the schema
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update every table",
	Long: `Migrate runs the same automatic migration the server runs at startup.
Existing data is kept; missing tables, columns and indexes are added.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, _, err := connect()
		if err != nil {
			return err
		}
		defer database.Close(db)

		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		fmt.Printf("Migrated %d models\n", len(models.All()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
