package cli

import (
	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/internmatch/internal/output"
)

var matchesCmd = &cobra.Command{
	Use:   "matches <student-id>",
	Short: "Show a student's stored matches",
	Args:  cobra.ExactArgs(1),
	RunE:  runMatches,
}

func init() {
	rootCmd.AddCommand(matchesCmd)
}

func runMatches(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	engine, err := a.engine()
	if err != nil {
		return err
	}

	matches, err := engine.GetExistingMatches(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	return output.Output(outputFmt, matches)
}
