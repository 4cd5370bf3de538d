package scoring

import (
	"fmt"
	"strings"

	"github.com/vijay-prabhu/internmatch/internal/database"
)

// maxListedSkills caps how many matched skills a reason names
const maxListedSkills = 3

// Reasons explains a score in display order, recomputing every sub-score
func Reasons(p *database.StudentProfile, l *database.Listing, raw float64) []string {
	return ReasonsFor(p, l, Evaluate(p, l), raw)
}

// ReasonsFor explains a score from an already computed breakdown.
// Output is identical to Reasons when b came from Evaluate(p, l).
func ReasonsFor(p *database.StudentProfile, l *database.Listing, b Breakdown, raw float64) []string {
	var reasons []string

	switch {
	case b.Skills > 0.7:
		reason := "Strong skills match"
		if matched := MatchedSkills(p, l, maxListedSkills); len(matched) > 0 {
			reason += ": " + strings.Join(matched, ", ")
		}
		reasons = append(reasons, reason)
	case b.Skills > 0.4:
		reasons = append(reasons, "Partial skills alignment")
	}

	switch {
	case b.Location > 0.8:
		reasons = append(reasons, "Perfect location match: "+l.Location)
	case b.Location > 0.5:
		reasons = append(reasons, "Good location fit: "+l.Location)
	}

	if b.Sector > 0.8 {
		reasons = append(reasons, "Matches your interest in "+l.Sector)
	}

	if r := academicReason(p.CGPA); r != "" {
		reasons = append(reasons, r)
	}

	if b.Availability > 0.8 {
		reasons = append(reasons, "Good availability match for your schedule")
	}

	if len(reasons) == 0 {
		reasons = append(reasons, fmt.Sprintf("Good overall match (%d%% compatibility)", DisplayScore(raw)))
	}

	return reasons
}

// academicReason is silent below 7.5 and quotes the CGPA as entered
func academicReason(raw string) string {
	cgpa := ParseCGPA(raw)

	var tier string
	switch {
	case cgpa >= 9.0:
		tier = "Outstanding"
	case cgpa >= 8.5:
		tier = "Excellent"
	case cgpa >= 7.5:
		tier = "Strong"
	default:
		return ""
	}

	return fmt.Sprintf("%s academic performance (CGPA: %s)", tier, strings.TrimSpace(raw))
}
