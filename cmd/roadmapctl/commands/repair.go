package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/localnerve/roadmapdb/internal/database"
	"github.com/localnerve/roadmapdb/internal/services"
	"github.com/spf13/cobra"
)

var (
	// Repair flags
	repairAll bool
)

// repairCmd rewrites snapshot columns from the relational rows
var repairCmd = &cobra.Command{
	Use:   "repair [roadmap-id]",
	Short: "Rebuild a roadmap's JSON snapshot from its node and edge rows",
	Long: `Repair overwrites nodesData and edgesData with the wire shape rebuilt from
the node and edge rows. Rows whose stored data is not valid JSON are written with
a placeholder and counted.

Examples:
  roadmapctl repair 12
  roadmapctl repair --all`,
	Args: func(cmd *cobra.Command, args []string) error {
		if repairAll {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if repairAll {
			return runRepairAll(cmd.Context())
		}
		id, err := parseRoadmapID(args[0])
		if err != nil {
			return err
		}
		return runRepair(cmd.Context(), id)
	},
}

func init() {
	rootCmd.AddCommand(repairCmd)

	repairCmd.Flags().BoolVar(&repairAll, "all", false, "Repair every roadmap")
}

func runRepair(ctx context.Context, id uint) error {
	db, log, err := connect()
	if err != nil {
		return err
	}
	defer database.Close(db)

	result, err := services.NewGraphDebugService(db, log).Repair(ctx, id)
	if err != nil {
		return fmt.Errorf("repair roadmap %d: %w", id, err)
	}
	if jsonOutput {
		return printJSON(result)
	}
	printRepairResult(*result)
	return nil
}

func runRepairAll(ctx context.Context) error {
	db, log, err := connect()
	if err != nil {
		return err
	}
	defer database.Close(db)

	results, err := services.NewGraphDebugService(db, log).RepairAll(ctx)
	if jsonOutput {
		if perr := printJSON(results); perr != nil {
			return perr
		}
	} else {
		for _, r := range results {
			printRepairResult(r)
		}
		fmt.Printf("%d roadmap(s) repaired\n", len(results))
	}
	return err
}

func printRepairResult(r services.RepairResult) {
	fmt.Printf("roadmap %d: %d nodes, %d edges", r.RoadmapID, r.NodesCount, r.EdgesCount)
	if r.Placeholders > 0 {
		fmt.Printf(", %d placeholder(s)", r.Placeholders)
	}
	fmt.Println()
}

func parseRoadmapID(arg string) (uint, error) {
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("roadmap id must be a positive integer")
	}
	return uint(id), nil
}
