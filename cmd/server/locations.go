package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jengzang/crowdscan-backend-go/internal/models"
	"github.com/jengzang/crowdscan-backend-go/internal/repository"
	"github.com/jengzang/crowdscan-backend-go/internal/seed"
)

var (
	locationsYAML   bool
	locationsRemove string
)

var locationsCmd = &cobra.Command{
	Use:   "locations",
	Short: "List monitored locations and their gates",
	Long: `List every monitored gate with its coordinates and latest density.
With --remove the given location and its gates are deleted from the
directory; stored readings are kept.`,
	RunE: runLocations,
}

func init() {
	rootCmd.AddCommand(locationsCmd)
	locationsCmd.Flags().BoolVar(&locationsYAML, "yaml", false, "Print as a seed file")
	locationsCmd.Flags().StringVar(&locationsRemove, "remove", "", "Delete the location with this id")
}

func runLocations(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	directory := repository.NewLocationRepository(db)
	if locationsRemove != "" {
		if err := directory.Delete(ctx, locationsRemove); err != nil {
			return err
		}
		fmt.Printf("Removed location %s\n", locationsRemove)
		return nil
	}

	locations, err := directory.ListAll(ctx)
	if err != nil {
		return err
	}

	if locationsYAML {
		out, err := seed.Marshal(locations)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(out)
		return err
	}

	if len(locations) == 0 {
		fmt.Println("No monitored locations. Run 'crowdscan seed' first.")
		return nil
	}

	readings := repository.NewReadingRepository(db)
	latest, err := readings.LatestPerGate(ctx, "")
	if err != nil {
		return err
	}
	total, err := readings.Count(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "LOCATION\tNAME\tGATE\tGATE NAME\tLAT\tLNG\tLATEST")
	for _, loc := range locations {
		for _, g := range loc.Gates {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.4f\t%.4f\t%s\n",
				loc.LocationID, loc.LocationName, g.GateID, g.Name, g.Coordinates.Lat, g.Coordinates.Lng,
				latestDensity(latest, loc.LocationID, g.GateID))
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\n%d locations, %d readings stored\n", len(locations), total)
	return nil
}

func latestDensity(readings []models.Reading, locationID, gateID string) string {
	for _, r := range readings {
		if r.LocationID == locationID && r.GateID == gateID {
			return fmt.Sprintf("%.2f", r.Density)
		}
	}
	return "-"
}
