package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/internmatch/internal/database"
	"github.com/vijay-prabhu/internmatch/internal/output"
)

var listingsCmd = &cobra.Command{
	Use:   "listings",
	Short: "List internship listings",
	Long: `List internship listings. By default only listings with open capacity,
which are the ones considered for matching, are shown.

Examples:
  internmatch listings          # Listings in the matching pool
  internmatch listings --all    # Include listings without capacity
  internmatch listings -o json  # Output as JSON`,
	RunE: runListings,
}

var listingsAll bool

func init() {
	rootCmd.AddCommand(listingsCmd)

	listingsCmd.Flags().BoolVar(&listingsAll, "all", false, "Include listings without capacity")
}

func runListings(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	var listings []database.Listing
	if listingsAll {
		listings, err = a.db.ListListings(cmd.Context())
	} else {
		listings, err = a.db.ListAvailableListings(cmd.Context())
	}
	if err != nil {
		return fmt.Errorf("failed to list listings: %w", err)
	}
	if listings == nil {
		listings = []database.Listing{}
	}

	return output.Output(outputFmt, listings)
}
