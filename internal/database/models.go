package database

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// validate caches struct metadata across calls
var validate = validator.New()

// WorkType is the kind of engagement a student is looking for
type WorkType string

const (
	WorkTypeUnset    WorkType = ""
	WorkTypeFullTime WorkType = "full-time"
	WorkTypePartTime WorkType = "part-time"
	WorkTypeRemote   WorkType = "remote"
	WorkTypeHybrid   WorkType = "hybrid"
)

// Gender as entered on the profile form
type Gender string

const (
	GenderUnset          Gender = ""
	GenderMale           Gender = "male"
	GenderFemale         Gender = "female"
	GenderOther          Gender = "other"
	GenderPreferNotToSay Gender = "prefer-not-to-say"
)

// YearOfStudy is the student's current year
type YearOfStudy string

const (
	YearUnset     YearOfStudy = ""
	YearFirst     YearOfStudy = "1st"
	YearSecond    YearOfStudy = "2nd"
	YearThird     YearOfStudy = "3rd"
	YearFourth    YearOfStudy = "4th"
	YearGraduated YearOfStudy = "graduated"
)

// MatchStatus represents the state of a match
type MatchStatus string

const (
	MatchStatusPending MatchStatus = "pending"
	MatchStatusApplied MatchStatus = "applied"
)

// ApplicationStatusSubmitted is the only status the engine writes
const ApplicationStatusSubmitted = "submitted"

// StudentProfile is a candidate as seen by the matching engine.
// CGPA keeps the raw entered text; scoring treats anything unparsable as zero.
type StudentProfile struct {
	ID                  string      `json:"id" toml:"id" validate:"required"`
	TechnicalSkills     []string    `json:"technical_skills" toml:"technical_skills"`
	SoftSkills          []string    `json:"soft_skills" toml:"soft_skills"`
	DomainInterests     []string    `json:"domain_interests" toml:"domain_interests"`
	LocationPreferences []string    `json:"location_preferences" toml:"location_preferences"`
	WorkType            WorkType    `json:"work_type" toml:"work_type" validate:"omitempty,oneof=full-time part-time remote hybrid"`
	CGPA                string      `json:"cgpa,omitempty" toml:"cgpa"`
	Gender              Gender      `json:"gender" toml:"gender" validate:"omitempty,oneof=male female other prefer-not-to-say"`
	YearOfStudy         YearOfStudy `json:"year_of_study" toml:"year_of_study" validate:"omitempty,oneof=1st 2nd 3rd 4th graduated"`
	Duration            string      `json:"duration,omitempty" toml:"duration"`
	CreatedAt           time.Time   `json:"created_at" toml:"-"`
	UpdatedAt           time.Time   `json:"updated_at" toml:"-"`
}

// Skills returns technical skills followed by soft skills
func (p *StudentProfile) Skills() []string {
	skills := make([]string, 0, len(p.TechnicalSkills)+len(p.SoftSkills))
	skills = append(skills, p.TechnicalSkills...)
	return append(skills, p.SoftSkills...)
}

// Validate checks enum fields and required identifiers
func (p *StudentProfile) Validate() error {
	return validate.Struct(p)
}

// Listing is an internship opportunity
type Listing struct {
	ID             string    `json:"id" toml:"id" validate:"required"`
	CompanyName    string    `json:"company_name" toml:"company_name" validate:"required"`
	Role           string    `json:"role" toml:"role" validate:"required"`
	SkillsRequired []string  `json:"skills_required" toml:"skills_required"`
	Location       string    `json:"location" toml:"location"`
	Sector         string    `json:"sector" toml:"sector"`
	Capacity       int       `json:"capacity" toml:"capacity" validate:"min=0"`
	CreatedAt      time.Time `json:"created_at" toml:"-"`
}

// Available reports whether the listing can enter the matching pool
func (l *Listing) Available() bool {
	return l.Capacity > 0
}

// Validate checks required listing fields
func (l *Listing) Validate() error {
	return validate.Struct(l)
}

// Match is one ranked (student, listing) pairing
type Match struct {
	ID        string      `json:"id"`
	StudentID string      `json:"student_id"`
	ListingID string      `json:"listing_id"`
	Listing   *Listing    `json:"listing,omitempty"`
	Score     int         `json:"score"`
	Reasons   []string    `json:"reasons"`
	Status    MatchStatus `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
}

// Application records that a student applied to a listing from a match
type Application struct {
	ID        string    `json:"id"`
	StudentID string    `json:"student_id"`
	ListingID string    `json:"listing_id"`
	MatchID   *string   `json:"match_id,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Stats represents aggregate store counts
type Stats struct {
	Profiles          int `json:"profiles"`
	Listings          int `json:"listings"`
	AvailableListings int `json:"available_listings"`
	Matches           int `json:"matches"`
	AppliedMatches    int `json:"applied_matches"`
	Applications      int `json:"applications"`
}

// encodeList stores a string list as JSON text; nil becomes "[]"
func encodeList(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// decodeList parses a JSON text column back into a string list
func decodeList(column, raw string) ([]string, error) {
	if raw == "" {
		return []string{}, nil
	}
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", column, err)
	}
	if values == nil {
		values = []string{}
	}
	return values, nil
}
