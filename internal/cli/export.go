package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/internmatch/internal/output"
)

var exportCmd = &cobra.Command{
	Use:   "export <student-id>",
	Short: "Export a student's matches to CSV or JSON",
	Long: `Export the stored matches of one student.

Supported formats:
  - csv: Comma-separated values (spreadsheet-compatible)
  - json: JSON array of match rows

Examples:
  internmatch export student-1 --format=csv > matches.csv
  internmatch export student-1 --format=json > matches.json`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

var exportFormat string

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Export format (csv, json)")
}

func runExport(cmd *cobra.Command, args []string) error {
	if exportFormat != "csv" && exportFormat != "json" {
		return fmt.Errorf("unknown format: %s (use csv or json)", exportFormat)
	}

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

	if exportFormat == "json" {
		return output.ExportJSON(os.Stdout, matches)
	}
	return output.ExportCSV(os.Stdout, matches)
}
