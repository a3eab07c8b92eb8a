package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kilianp07/stripboard/core/model"
	"github.com/kilianp07/stripboard/core/sched"
)

var routeFile string

var routeCmd = &cobra.Command{
	Use:   "route",
	Short: "Compute a company-move tour over geocoded locations",
	RunE:  planRoute,
}

func init() {
	routeCmd.Flags().StringVar(&routeFile, "locations", "", "locations JSON file")
	rootCmd.AddCommand(routeCmd)
}

func planRoute(cmd *cobra.Command, args []string) error {
	if routeFile == "" {
		return fmt.Errorf("--locations is required")
	}
	data, err := os.ReadFile(routeFile)
	if err != nil {
		return fmt.Errorf("read locations: %w", err)
	}
	var locs []model.Location
	if err := json.Unmarshal(data, &locs); err != nil {
		return fmt.Errorf("parse locations: %w", err)
	}
	tour, km, err := sched.PlanTour(locs)
	if err != nil {
		return err
	}
	for _, idx := range tour {
		fmt.Printf("%d\t%s\n", idx, locs[idx].Name)
	}
	fmt.Printf("total distance: %.1f km\n", km)
	return nil
}
