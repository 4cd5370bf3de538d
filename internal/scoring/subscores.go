package scoring

import (
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/vijay-prabhu/internmatch/internal/database"
)

// Neutral is returned when the profile or listing carries no signal for a criterion
const Neutral = 0.5

const (
	exactSkillCredit   = 1.0
	partialSkillCredit = 0.7
	skillSimilarityMin = 0.6

	sectorSimilarityMin = 0.7
)

// remoteToken must appear verbatim in the location preferences for the remote bonus
const remoteToken = "Remote"

// SkillsScore measures coverage of the listing's required skills by the student's
// technical and soft skills.
func SkillsScore(p *database.StudentProfile, l *database.Listing) float64 {
	if len(l.SkillsRequired) == 0 {
		return Neutral
	}

	studentSkills := normalizeAll(p.Skills())

	credit := 0.0
	for _, required := range l.SkillsRequired {
		credit += skillCredit(studentSkills, normalize(required))
	}

	return credit / float64(len(l.SkillsRequired))
}

// skillCredit returns the credit earned by one required skill
func skillCredit(studentSkills []string, required string) float64 {
	for _, skill := range studentSkills {
		if skill == required {
			return exactSkillCredit
		}
	}
	for _, skill := range studentSkills {
		if Similarity(skill, required) > skillSimilarityMin {
			return partialSkillCredit
		}
	}
	return 0
}

// MatchedSkills returns required skills the student has exactly, in listing order and casing
func MatchedSkills(p *database.StudentProfile, l *database.Listing, limit int) []string {
	studentSkills := normalizeAll(p.Skills())

	var matched []string
	for _, required := range l.SkillsRequired {
		if limit > 0 && len(matched) == limit {
			break
		}
		if slices.Contains(studentSkills, normalize(required)) {
			matched = append(matched, required)
		}
	}
	return matched
}

// LocationScore compares location preferences with the listing location.
// Checks run in order: exact, containment, remote preference, fallback.
func LocationScore(p *database.StudentProfile, l *database.Listing) float64 {
	if len(p.LocationPreferences) == 0 {
		return Neutral
	}

	location := normalize(l.Location)
	preferences := normalizeAll(p.LocationPreferences)

	if slices.Contains(preferences, location) {
		return 1.0
	}

	for _, pref := range preferences {
		if pref == "" || location == "" {
			continue
		}
		if strings.Contains(location, pref) || strings.Contains(pref, location) {
			return 0.8
		}
	}

	if p.WorkType == database.WorkTypeRemote && slices.Contains(p.LocationPreferences, remoteToken) {
		return 0.9
	}

	return 0.3
}

// SectorScore compares domain interests with the listing sector
func SectorScore(p *database.StudentProfile, l *database.Listing) float64 {
	if len(p.DomainInterests) == 0 {
		return Neutral
	}

	sector := normalize(l.Sector)
	for _, interest := range p.DomainInterests {
		interest = normalize(interest)
		if interest == sector || Similarity(interest, sector) > sectorSimilarityMin {
			return 1.0
		}
	}

	return 0.2
}

// maxCGPA is the top of the grading scale
const maxCGPA = 10.0

// leadingNumber matches the decimal number a CGPA entry starts with, as in "8.5/10"
var leadingNumber = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?`)

// ParseCGPA reads the number at the start of the profile CGPA, so "8.5/10" and
// "8.5 CGPA" read as 8.5; absent, malformed or out-of-scale values read as zero
func ParseCGPA(raw string) float64 {
	cgpa, err := strconv.ParseFloat(leadingNumber.FindString(strings.TrimSpace(raw)), 64)
	if err != nil || math.IsNaN(cgpa) || cgpa < 0 || cgpa > maxCGPA {
		return 0
	}
	return cgpa
}

// AcademicScore maps CGPA onto coarse tiers; the top tier scores 0.8
func AcademicScore(p *database.StudentProfile, _ *database.Listing) float64 {
	cgpa := ParseCGPA(p.CGPA)

	switch {
	case cgpa >= 9.0:
		return 0.8
	case cgpa >= 8.0:
		return 0.6
	case cgpa >= 7.0:
		return 0.4
	case cgpa >= 6.0:
		return 0.2
	default:
		return 0.1
	}
}

// AffirmativeScore adds small bonuses for a disclosed gender and for final-year students
func AffirmativeScore(p *database.StudentProfile, _ *database.Listing) float64 {
	score := 0.5

	if p.Gender != database.GenderUnset && p.Gender != database.GenderPreferNotToSay {
		score += 0.1
	}

	if p.YearOfStudy == database.YearThird || p.YearOfStudy == database.YearFourth {
		score += 0.2
	}

	return min(score, 1.0)
}

// AvailabilityScore is a placeholder: listings carry no duration yet, so any stated
// duration scores the same against every listing.
func AvailabilityScore(p *database.StudentProfile, _ *database.Listing) float64 {
	if strings.TrimSpace(p.Duration) == "" {
		return Neutral
	}
	return 0.8
}

func normalizeAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = normalize(v)
	}
	return out
}
