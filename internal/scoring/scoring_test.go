package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vijay-prabhu/internmatch/internal/database"
)

const epsilon = 1e-9

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"both empty", "", "", 1.0},
		{"identical", "golang", "golang", 1.0},
		{"case and space folded", "  Python ", "python", 1.0},
		{"classic edit distance", "kitten", "sitting", 4.0 / 7.0},
		{"suffix", "React", "ReactJS", 5.0 / 7.0},
		{"one empty", "sql", "", 0.0},
		{"unrelated", "abc", "xyz", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Similarity(tt.a, tt.b), epsilon)
		})
	}
}

func TestSimilarity_Symmetric(t *testing.T) {
	words := []string{"", "Go", "golang", "Machine Learning", "ML", "Bengaluru", "Bangalore", "naïve"}
	for _, a := range words {
		for _, b := range words {
			assert.Equal(t, Similarity(a, b), Similarity(b, a), "%q vs %q", a, b)
			s := Similarity(a, b)
			assert.GreaterOrEqual(t, s, 0.0)
			assert.LessOrEqual(t, s, 1.0)
		}
		assert.Equal(t, 1.0, Similarity(a, a))
	}
}

func TestSkillsScore(t *testing.T) {
	tests := []struct {
		name     string
		student  []string
		soft     []string
		required []string
		want     float64
	}{
		{"no requirements is neutral", []string{"Go"}, nil, nil, 0.5},
		{"no requirements with empty profile", nil, nil, []string{}, 0.5},
		{"exact matches ignore case", []string{"python", "SQL"}, nil, []string{"Python", "SQL"}, 1.0},
		{"soft skills count", nil, []string{"Communication"}, []string{"communication"}, 1.0},
		{"similar skill earns partial credit", []string{"ReactJS"}, nil, []string{"React", "Docker"}, 0.35},
		{"nothing in common", []string{"Photoshop"}, nil, []string{"Kubernetes"}, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &database.StudentProfile{TechnicalSkills: tt.student, SoftSkills: tt.soft}
			l := &database.Listing{SkillsRequired: tt.required}
			assert.InDelta(t, tt.want, SkillsScore(p, l), epsilon)
		})
	}
}

func TestMatchedSkills(t *testing.T) {
	p := &database.StudentProfile{
		TechnicalSkills: []string{"docker", "go", "sql", "python"},
		SoftSkills:      []string{"teamwork"},
	}
	l := &database.Listing{SkillsRequired: []string{"Python", "Rust", "Go", "SQL", "Docker"}}

	assert.Equal(t, []string{"Python", "Go", "SQL"}, MatchedSkills(p, l, 3))
	assert.Equal(t, []string{"Python", "Go", "SQL", "Docker"}, MatchedSkills(p, l, 0))
}

func TestLocationScore(t *testing.T) {
	tests := []struct {
		name     string
		prefs    []string
		workType database.WorkType
		location string
		want     float64
	}{
		{"no preferences", nil, database.WorkTypeUnset, "Bangalore", 0.5},
		{"exact", []string{"Bangalore"}, database.WorkTypeUnset, "Bangalore", 1.0},
		{"exact ignores case", []string{"bangalore "}, database.WorkTypeUnset, "Bangalore", 1.0},
		{"preference contains location", []string{"Bangalore Tech Park"}, database.WorkTypeUnset, "Bangalore", 0.8},
		{"location contains preference", []string{"Pune"}, database.WorkTypeUnset, "Pune, Maharashtra", 0.8},
		{"remote worker", []string{"Remote"}, database.WorkTypeRemote, "Chennai", 0.9},
		{"remote token is case sensitive", []string{"remote"}, database.WorkTypeRemote, "Chennai", 0.3},
		{"remote token needs remote work type", []string{"Remote"}, database.WorkTypeHybrid, "Chennai", 0.3},
		{"exact wins over remote", []string{"Remote"}, database.WorkTypeRemote, "Remote", 1.0},
		{"empty location never contains", []string{"Delhi"}, database.WorkTypeUnset, "", 0.3},
		{"no overlap", []string{"Delhi"}, database.WorkTypeFullTime, "Mumbai", 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &database.StudentProfile{LocationPreferences: tt.prefs, WorkType: tt.workType}
			l := &database.Listing{Location: tt.location}
			assert.InDelta(t, tt.want, LocationScore(p, l), epsilon)
		})
	}
}

func TestSectorScore(t *testing.T) {
	tests := []struct {
		name      string
		interests []string
		sector    string
		want      float64
	}{
		{"no interests", nil, "Fintech", 0.5},
		{"equal ignoring case", []string{"FinTech"}, "Fintech", 1.0},
		{"close spelling", []string{"Health care"}, "Healthcare", 1.0},
		{"different", []string{"Education"}, "Fintech", 0.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &database.StudentProfile{DomainInterests: tt.interests}
			l := &database.Listing{Sector: tt.sector}
			assert.InDelta(t, tt.want, SectorScore(p, l), epsilon)
		})
	}
}

func TestAcademicScore(t *testing.T) {
	tests := []struct {
		cgpa string
		want float64
	}{
		{"10", 0.8},
		{"9.0", 0.8},
		{"8.5", 0.6},
		{"7", 0.4},
		{"6.2", 0.2},
		{"5.9", 0.1},
		{"", 0.1},
		{"n/a", 0.1},
		{"11", 0.1},
		{"-3", 0.1},
		{"8.5/10", 0.6},
		{" 9.1 CGPA", 0.8},
		{".", 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.cgpa, func(t *testing.T) {
			p := &database.StudentProfile{CGPA: tt.cgpa}
			assert.InDelta(t, tt.want, AcademicScore(p, &database.Listing{}), epsilon)
		})
	}
}

func TestAffirmativeScore(t *testing.T) {
	tests := []struct {
		name   string
		gender database.Gender
		year   database.YearOfStudy
		want   float64
	}{
		{"base", database.GenderUnset, database.YearFirst, 0.5},
		{"prefer not to say", database.GenderPreferNotToSay, database.YearSecond, 0.5},
		{"gender set", database.GenderOther, database.YearGraduated, 0.6},
		{"final years", database.GenderUnset, database.YearThird, 0.7},
		{"both", database.GenderFemale, database.YearFourth, 0.8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &database.StudentProfile{Gender: tt.gender, YearOfStudy: tt.year}
			assert.InDelta(t, tt.want, AffirmativeScore(p, &database.Listing{}), epsilon)
		})
	}
}

func TestAvailabilityScore(t *testing.T) {
	l := &database.Listing{}
	assert.Equal(t, 0.5, AvailabilityScore(&database.StudentProfile{}, l))
	assert.Equal(t, 0.5, AvailabilityScore(&database.StudentProfile{Duration: "  "}, l))
	assert.Equal(t, 0.8, AvailabilityScore(&database.StudentProfile{Duration: "3 months"}, l))
}

func TestWeights(t *testing.T) {
	require.NoError(t, DefaultWeights.Validate())
	assert.InDelta(t, 1.0, DefaultWeights.Sum(), epsilon)

	short := DefaultWeights
	short.Skills = 0.30
	assert.Error(t, short.Validate())

	negative := DefaultWeights
	negative.Skills = 0.65
	negative.Location = -0.10
	require.InDelta(t, 1.0, negative.Sum(), epsilon)
	assert.Error(t, negative.Validate())
}

func TestScore_Capped(t *testing.T) {
	heavy := Weights{Skills: 2, Location: 2}
	assert.Equal(t, 1.0, heavy.Score(Breakdown{Skills: 1, Location: 1}))
}

func TestThreshold(t *testing.T) {
	assert.False(t, PassesThreshold(0.40))
	assert.True(t, PassesThreshold(0.41))
	assert.False(t, PassesThreshold(0.0))
}

func TestThreshold_DefaultWeightsBoundary(t *testing.T) {
	// 0.2 + 0.03 + 0.01 + 0.08 + 0.08 sums to slightly above 0.4 in floating point
	b := Breakdown{Location: 1.0, Sector: 0.2, Academic: 0.1, Affirmative: 0.8, Availability: 0.8}
	raw := DefaultWeights.Score(b)

	assert.InDelta(t, 0.40, raw, epsilon)
	assert.False(t, PassesThreshold(raw))

	b.Skills = 0.1
	assert.True(t, PassesThreshold(DefaultWeights.Score(b)))
}

func TestParseCGPA(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"8.7", 8.7},
		{"8.5/10", 8.5},
		{"8.5 CGPA", 8.5},
		{"  7 ", 7},
		{".9", 0.9},
		{"CGPA 8.5", 0},
		{"", 0},
		{"10.5/10", 0},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.InDelta(t, tt.want, ParseCGPA(tt.raw), epsilon)
		})
	}
}

func TestDisplayScore(t *testing.T) {
	assert.Equal(t, 0, DisplayScore(0))
	assert.Equal(t, 100, DisplayScore(1))
	assert.Equal(t, 62, DisplayScore(0.62))
	assert.Equal(t, 73, DisplayScore(0.7349))
}

func TestScoresBounded(t *testing.T) {
	profiles := []*database.StudentProfile{
		{},
		{
			TechnicalSkills:     []string{"Go", "SQL", "Docker"},
			SoftSkills:          []string{"Leadership"},
			DomainInterests:     []string{"Fintech", "Cloud"},
			LocationPreferences: []string{"Remote", "Hyderabad"},
			WorkType:            database.WorkTypeRemote,
			CGPA:                "10",
			Gender:              database.GenderMale,
			YearOfStudy:         database.YearFourth,
			Duration:            "6 months",
		},
		{CGPA: "garbage", LocationPreferences: []string{""}, DomainInterests: []string{""}},
	}
	listings := []*database.Listing{
		{},
		{SkillsRequired: []string{"go", "sql"}, Location: "Hyderabad", Sector: "Fintech", Capacity: 2},
		{SkillsRequired: []string{"Figma"}, Location: "Remote", Sector: "Design", Capacity: 1},
	}

	for _, p := range profiles {
		for _, l := range listings {
			b := Evaluate(p, l)
			for _, s := range []float64{b.Skills, b.Location, b.Sector, b.Academic, b.Affirmative, b.Availability} {
				assert.GreaterOrEqual(t, s, 0.0)
				assert.LessOrEqual(t, s, 1.0)
			}
			raw := DefaultWeights.Score(b)
			assert.GreaterOrEqual(t, raw, 0.0)
			assert.LessOrEqual(t, raw, 1.0)
			assert.Equal(t, raw, DefaultWeights.Aggregate(p, l))
		}
	}
}

func TestReasons_Order(t *testing.T) {
	p := &database.StudentProfile{
		TechnicalSkills:     []string{"python", "sql"},
		DomainInterests:     []string{"fintech"},
		LocationPreferences: []string{"Bangalore"},
		CGPA:                "9.2",
		Duration:            "3 months",
	}
	l := &database.Listing{
		SkillsRequired: []string{"Python", "SQL"},
		Location:       "Bangalore",
		Sector:         "Fintech",
	}

	raw := DefaultWeights.Aggregate(p, l)
	assert.Equal(t, []string{
		"Strong skills match: Python, SQL",
		"Perfect location match: Bangalore",
		"Matches your interest in Fintech",
		"Outstanding academic performance (CGPA: 9.2)",
	}, Reasons(p, l, raw))
}

func TestReasons_Tiers(t *testing.T) {
	tests := []struct {
		name    string
		profile *database.StudentProfile
		listing *database.Listing
		want    []string
	}{
		{
			name:    "partial skills and nearby location",
			profile: &database.StudentProfile{LocationPreferences: []string{"Bangalore Tech Park"}, CGPA: "8.6"},
			listing: &database.Listing{Location: "Bangalore"},
			want: []string{
				"Partial skills alignment",
				"Good location fit: Bangalore",
				"Excellent academic performance (CGPA: 8.6)",
			},
		},
		{
			name:    "remote preference reads as perfect",
			profile: &database.StudentProfile{LocationPreferences: []string{"Remote"}, WorkType: database.WorkTypeRemote, CGPA: "7.5"},
			listing: &database.Listing{SkillsRequired: []string{"Go"}, Location: "Pune"},
			want: []string{
				"Perfect location match: Pune",
				"Strong academic performance (CGPA: 7.5)",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := DefaultWeights.Aggregate(tt.profile, tt.listing)
			assert.Equal(t, tt.want, Reasons(tt.profile, tt.listing, raw))
		})
	}
}

func TestReasons_Fallback(t *testing.T) {
	p := &database.StudentProfile{CGPA: "7.4"}
	l := &database.Listing{SkillsRequired: []string{"Go"}}

	reasons := ReasonsFor(p, l, Breakdown{Location: 0.5, Sector: 0.5}, 0.62)
	assert.Equal(t, []string{"Good overall match (62% compatibility)"}, reasons)
}

func TestReasonsFor_MatchesReasons(t *testing.T) {
	p := &database.StudentProfile{
		TechnicalSkills:     []string{"Go"},
		LocationPreferences: []string{"Delhi"},
		CGPA:                "8.0",
	}
	l := &database.Listing{SkillsRequired: []string{"Go", "Kafka"}, Location: "New Delhi", Sector: "Logistics"}

	b := Evaluate(p, l)
	raw := DefaultWeights.Score(b)
	assert.Equal(t, Reasons(p, l, raw), ReasonsFor(p, l, b, raw))
}
