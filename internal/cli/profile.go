package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/internmatch/internal/database"
	"github.com/vijay-prabhu/internmatch/internal/output"
)

var profileCmd = &cobra.Command{
	Use:   "profile <student-id>",
	Short: "Show a student profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfile,
}

func init() {
	rootCmd.AddCommand(profileCmd)
}

func runProfile(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	p, err := a.db.GetProfile(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get profile: %w", err)
	}
	if p == nil {
		return fmt.Errorf("profile not found: %s", args[0])
	}

	return output.Output(outputFmt, p)
}

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List student profiles",
	Args:  cobra.NoArgs,
	RunE:  runProfiles,
}

func init() {
	rootCmd.AddCommand(profilesCmd)
}

func runProfiles(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	profiles, err := a.db.ListProfiles(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list profiles: %w", err)
	}
	if profiles == nil {
		profiles = []database.StudentProfile{}
	}

	return output.Output(outputFmt, profiles)
}
