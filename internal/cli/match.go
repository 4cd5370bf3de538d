package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/internmatch/internal/matcher"
	"github.com/vijay-prabhu/internmatch/internal/output"
)

var matchCmd = &cobra.Command{
	Use:   "match <student-id>",
	Short: "Generate matches for a student",
	Long: `Score every listing with open capacity against the student's profile,
replace the student's stored matches with the new ranking and print it.

Examples:
  internmatch match student-1
  internmatch match student-1 -o json`,
	Args: cobra.ExactArgs(1),
	RunE: runMatch,
}

var matchQuiet bool

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().BoolVarP(&matchQuiet, "quiet", "q", false, "Do not show progress")
}

func runMatch(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	var opts []matcher.Option
	if !matchQuiet && outputFmt != "json" {
		opts = append(opts, matcher.WithProgress(NewTerminal().Progress))
	}

	engine, err := a.engine(opts...)
	if err != nil {
		return err
	}

	matches, err := engine.GenerateMatches(cmd.Context(), args[0])
	if err != nil {
		var runErr *matcher.RunError
		if !errors.As(err, &runErr) || !runErr.Ranked() {
			return err
		}
		// show the ranking even though it was not stored
		if outErr := output.Output(outputFmt, matches); outErr != nil {
			return outErr
		}
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Warning: these matches were not saved; 'internmatch matches' still shows the previous set.")
		return err
	}

	return output.Output(outputFmt, matches)
}
