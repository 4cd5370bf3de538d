package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/vijay-prabhu/internmatch/internal/database"
)

// TableTo writes data as a formatted table to the given writer
func TableTo(w io.Writer, data any) error {
	switch v := data.(type) {
	case []database.Match:
		return matchesTable(w, v)
	case []database.Listing:
		return listingsTable(w, v)
	case []database.StudentProfile:
		return profilesTable(w, v)
	case *database.StudentProfile:
		return profileDetail(w, v)
	case []database.Application:
		return applicationsTable(w, v)
	case *database.Application:
		return applicationDetail(w, v)
	case *database.Stats:
		return statsTable(w, v)
	default:
		return fmt.Errorf("unsupported data type for table output: %T", data)
	}
}

func matchesTable(w io.Writer, matches []database.Match) error {
	if len(matches) == 0 {
		fmt.Fprintln(w, "No matches found.")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("#", "Score", "Company", "Role", "Location", "Status", "Match ID")

	for i, m := range matches {
		company, role, location := m.ListingID, "", ""
		if m.Listing != nil {
			company = m.Listing.CompanyName
			role = m.Listing.Role
			location = m.Listing.Location
		}

		if err := table.Append([]string{
			strconv.Itoa(i + 1),
			fmt.Sprintf("%d%%", m.Score),
			truncate(company, 24),
			truncate(role, 28),
			truncate(location, 20),
			string(m.Status),
			m.ID,
		}); err != nil {
			return err
		}
	}

	if err := table.Render(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	for i, m := range matches {
		fmt.Fprintf(w, "%d. %s\n", i+1, strings.Join(m.Reasons, "; "))
	}
	return nil
}

func listingsTable(w io.Writer, listings []database.Listing) error {
	if len(listings) == 0 {
		fmt.Fprintln(w, "No listings found.")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("ID", "Company", "Role", "Location", "Sector", "Capacity", "Skills")

	for _, l := range listings {
		if err := table.Append([]string{
			l.ID,
			truncate(l.CompanyName, 24),
			truncate(l.Role, 28),
			truncate(l.Location, 20),
			truncate(l.Sector, 16),
			strconv.Itoa(l.Capacity),
			truncate(strings.Join(l.SkillsRequired, ", "), 40),
		}); err != nil {
			return err
		}
	}

	return table.Render()
}

func profilesTable(w io.Writer, profiles []database.StudentProfile) error {
	if len(profiles) == 0 {
		fmt.Fprintln(w, "No profiles found.")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("Student", "Skills", "Locations", "CGPA", "Work Type")

	for _, p := range profiles {
		if err := table.Append([]string{
			p.ID,
			truncate(strings.Join(p.TechnicalSkills, ", "), 32),
			truncate(strings.Join(p.LocationPreferences, ", "), 24),
			orNone(p.CGPA),
			orNone(string(p.WorkType)),
		}); err != nil {
			return err
		}
	}

	return table.Render()
}

func profileDetail(w io.Writer, p *database.StudentProfile) error {
	fmt.Fprintf(w, "Student:     %s\n", p.ID)
	fmt.Fprintf(w, "Technical:   %s\n", orNone(strings.Join(p.TechnicalSkills, ", ")))
	fmt.Fprintf(w, "Soft:        %s\n", orNone(strings.Join(p.SoftSkills, ", ")))
	fmt.Fprintf(w, "Interests:   %s\n", orNone(strings.Join(p.DomainInterests, ", ")))
	fmt.Fprintf(w, "Locations:   %s\n", orNone(strings.Join(p.LocationPreferences, ", ")))
	fmt.Fprintf(w, "Work type:   %s\n", orNone(string(p.WorkType)))
	fmt.Fprintf(w, "CGPA:        %s\n", orNone(p.CGPA))
	fmt.Fprintf(w, "Year:        %s\n", orNone(string(p.YearOfStudy)))
	fmt.Fprintf(w, "Duration:    %s\n", orNone(p.Duration))
	if !p.UpdatedAt.IsZero() {
		fmt.Fprintf(w, "Updated:     %s\n", p.UpdatedAt.Format("Jan 02, 2006"))
	}
	return nil
}

func applicationDetail(w io.Writer, a *database.Application) error {
	fmt.Fprintf(w, "Application: %s\n", a.ID)
	fmt.Fprintf(w, "Student:     %s\n", a.StudentID)
	fmt.Fprintf(w, "Listing:     %s\n", a.ListingID)
	if a.MatchID != nil {
		fmt.Fprintf(w, "Match:       %s\n", *a.MatchID)
	}
	fmt.Fprintf(w, "Status:      %s\n", a.Status)
	fmt.Fprintf(w, "Submitted:   %s\n", a.CreatedAt.Format("Jan 02, 2006 15:04"))
	return nil
}

func applicationsTable(w io.Writer, apps []database.Application) error {
	if len(apps) == 0 {
		fmt.Fprintln(w, "No applications found.")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("Listing", "Status", "Submitted", "Application ID")

	for _, a := range apps {
		if err := table.Append([]string{
			a.ListingID,
			string(a.Status),
			a.CreatedAt.Format("Jan 02, 2006"),
			a.ID,
		}); err != nil {
			return err
		}
	}

	return table.Render()
}

func statsTable(w io.Writer, s *database.Stats) error {
	table := tablewriter.NewWriter(w)
	table.Header("Metric", "Count")

	rows := [][]string{
		{"Profiles", strconv.Itoa(s.Profiles)},
		{"Listings", strconv.Itoa(s.Listings)},
		{"Available listings", strconv.Itoa(s.AvailableListings)},
		{"Matches", strconv.Itoa(s.Matches)},
		{"Applied matches", strconv.Itoa(s.AppliedMatches)},
		{"Applications", strconv.Itoa(s.Applications)},
	}
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return err
		}
	}

	return table.Render()
}

func orNone(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// truncate shortens s to max runes
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
