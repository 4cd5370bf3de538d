package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/vijay-prabhu/internmatch/internal/database"
)

// ExportRow is one match flattened for export
type ExportRow struct {
	MatchID     string   `json:"match_id"`
	StudentID   string   `json:"student_id"`
	ListingID   string   `json:"listing_id"`
	CompanyName string   `json:"company_name"`
	Role        string   `json:"role"`
	Location    string   `json:"location"`
	Sector      string   `json:"sector"`
	Score       int      `json:"score"`
	Status      string   `json:"status"`
	Reasons     []string `json:"reasons"`
	CreatedAt   string   `json:"created_at"`
}

// ToExportRows flattens matches, keeping their order
func ToExportRows(matches []database.Match) []ExportRow {
	rows := make([]ExportRow, len(matches))
	for i, m := range matches {
		row := ExportRow{
			MatchID:   m.ID,
			StudentID: m.StudentID,
			ListingID: m.ListingID,
			Score:     m.Score,
			Status:    string(m.Status),
			Reasons:   m.Reasons,
			CreatedAt: m.CreatedAt.Format(time.RFC3339),
		}
		if m.Listing != nil {
			row.CompanyName = m.Listing.CompanyName
			row.Role = m.Listing.Role
			row.Location = m.Listing.Location
			row.Sector = m.Listing.Sector
		}
		rows[i] = row
	}
	return rows
}

// ExportCSV writes matches as CSV; reasons are joined with " | "
func ExportCSV(w io.Writer, matches []database.Match) error {
	cw := csv.NewWriter(w)

	header := []string{
		"match_id", "student_id", "listing_id", "company_name", "role",
		"location", "sector", "score", "status", "reasons", "created_at",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, row := range ToExportRows(matches) {
		record := []string{
			row.MatchID,
			row.StudentID,
			row.ListingID,
			row.CompanyName,
			row.Role,
			row.Location,
			row.Sector,
			strconv.Itoa(row.Score),
			row.Status,
			strings.Join(row.Reasons, " | "),
			row.CreatedAt,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ExportJSON writes matches as an indented JSON array
func ExportJSON(w io.Writer, matches []database.Match) error {
	if err := JSONTo(w, ToExportRows(matches)); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
