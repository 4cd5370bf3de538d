package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/internmatch/internal/seed"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import profiles or listings from a file",
	Long: `Import student profiles or internship listings from a JSON or TOML file.
Existing records with the same ID are updated.

Examples:
  internmatch import profiles students.json
  internmatch import listings listings.toml`,
}

var importProfilesCmd = &cobra.Command{
	Use:   "profiles <file>",
	Short: "Import student profiles",
	Args:  cobra.ExactArgs(1),
	RunE:  runImportProfiles,
}

var importListingsCmd = &cobra.Command{
	Use:   "listings <file>",
	Short: "Import internship listings",
	Args:  cobra.ExactArgs(1),
	RunE:  runImportListings,
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.AddCommand(importProfilesCmd)
	importCmd.AddCommand(importListingsCmd)
}

func runImportProfiles(cmd *cobra.Command, args []string) error {
	f, err := seed.Load(args[0])
	if err != nil {
		return err
	}
	if len(f.Profiles) == 0 {
		return fmt.Errorf("%s contains no profiles", args[0])
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	n, err := seed.ImportProfiles(cmd.Context(), a.db, f.Profiles, a.logger)
	if err != nil {
		return err
	}

	fmt.Printf("Imported %d profile(s) from %s\n", n, args[0])
	return nil
}

func runImportListings(cmd *cobra.Command, args []string) error {
	f, err := seed.Load(args[0])
	if err != nil {
		return err
	}
	if len(f.Listings) == 0 {
		return fmt.Errorf("%s contains no listings", args[0])
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	n, err := seed.ImportListings(cmd.Context(), a.db, f.Listings, a.logger)
	if err != nil {
		return err
	}

	fmt.Printf("Imported %d listing(s) from %s\n", n, args[0])
	return nil
}
