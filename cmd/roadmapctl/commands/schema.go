package commands

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/glebarez/sqlite"
	"github.com/localnerve/roadmapdb/internal/database"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	// Schema flags
	inMemory bool
)

// TableSchema is one table as reported by the database
type TableSchema struct {
	Name    string         `json:"name"`
	Columns []ColumnSchema `json:"columns"`
	Indexes []IndexSchema  `json:"indexes,omitempty"`
}

// ColumnSchema is one column of a table
type ColumnSchema struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	Nullable   bool   `json:"nullable"`
	PrimaryKey bool   `json:"primaryKey"`
}

// IndexSchema is one index of a table
type IndexSchema struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
	Unique  bool     `json:"unique"`
}

// schemaCmd prints the tables gorm manages
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print tables, columns and indexes",
	Long: `Schema reads the table definitions from the configured database.

With --memory the models are migrated into a throwaway in-memory SQLite
database first, which shows what the migration creates without touching
a real database.

Examples:
  roadmapctl schema
  roadmapctl schema --memory --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := schemaDB()
		if err != nil {
			return err
		}
		defer database.Close(db)

		tables, err := readSchema(db)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(tables)
		}
		printSchema(tables)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)

	schemaCmd.Flags().BoolVar(&inMemory, "memory", false, "Migrate into an in-memory SQLite database and print that schema")
}

func schemaDB() (*gorm.DB, error) {
	if !inMemory {
		db, _, err := connect()
		return db, err
	}

	db, err := gorm.Open(sqlite.Open(":memory:?_pragma=foreign_keys(1)"), database.GormConfig("silent"))
	if err != nil {
		return nil, err
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return db, nil
}

func readSchema(db *gorm.DB) ([]TableSchema, error) {
	migrator := db.Migrator()

	names, err := migrator.GetTables()
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	sort.Strings(names)

	tables := make([]TableSchema, 0, len(names))
	for _, name := range names {
		columnTypes, err := migrator.ColumnTypes(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read columns of %s: %w", name, err)
		}

		table := TableSchema{Name: name}
		for _, ct := range columnTypes {
			col := ColumnSchema{Name: ct.Name(), Type: ct.DatabaseTypeName()}
			if nullable, ok := ct.Nullable(); ok {
				col.Nullable = nullable
			}
			if pk, ok := ct.PrimaryKey(); ok {
				col.PrimaryKey = pk
			}
			table.Columns = append(table.Columns, col)
		}

		// not every dialect reports indexes
		if indexes, err := migrator.GetIndexes(name); err == nil {
			for _, idx := range indexes {
				unique, _ := idx.Unique()
				table.Indexes = append(table.Indexes, IndexSchema{
					Name:    idx.Name(),
					Columns: idx.Columns(),
					Unique:  unique,
				})
			}
		}

		tables = append(tables, table)
	}
	return tables, nil
}

func printSchema(tables []TableSchema) {
	for _, table := range tables {
		fmt.Printf("\n=== Table: %s ===\n", table.Name)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "COLUMN\tTYPE\tNULL\tPK")
		for _, col := range table.Columns {
			fmt.Fprintf(w, "%s\t%s\t%v\t%v\n", col.Name, col.Type, col.Nullable, col.PrimaryKey)
		}
		w.Flush()

		for _, idx := range table.Indexes {
			kind := "index"
			if idx.Unique {
				kind = "unique"
			}
			fmt.Printf("  %s %s %v\n", kind, idx.Name, idx.Columns)
		}
	}
}
