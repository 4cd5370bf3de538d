package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/internmatch/internal/database"
	"github.com/vijay-prabhu/internmatch/internal/output"
)

var applyCmd = &cobra.Command{
	Use:   "apply <student-id> <listing-id> <match-id>",
	Short: "Apply to a listing from a match",
	Long: `Record an application for one of the student's matches and mark the match
applied. Running it again for the same match changes nothing.`,
	Args: cobra.ExactArgs(3),
	RunE: runApply,
}

func init() {
	rootCmd.AddCommand(applyCmd)
}

func runApply(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	engine, err := a.engine()
	if err != nil {
		return err
	}

	app, err := engine.ApplyToListing(cmd.Context(), args[0], args[1], args[2])
	if err != nil {
		return err
	}

	return output.Output(outputFmt, app)
}

var applicationsCmd = &cobra.Command{
	Use:   "applications <student-id>",
	Short: "Show a student's applications",
	Args:  cobra.ExactArgs(1),
	RunE:  runApplications,
}

func init() {
	rootCmd.AddCommand(applicationsCmd)
}

func runApplications(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	apps, err := a.db.ListApplicationsByStudent(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to list applications: %w", err)
	}
	if apps == nil {
		apps = []database.Application{}
	}

	return output.Output(outputFmt, apps)
}
