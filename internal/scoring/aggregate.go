package scoring

import (
	"fmt"
	"math"

	"github.com/vijay-prabhu/internmatch/internal/database"
)

// Threshold is the raw score a pairing must strictly exceed to become a match
const Threshold = 0.4

// weightSumTolerance absorbs floating-point error when checking that weights sum to one
const weightSumTolerance = 1e-9

// scoreTolerance absorbs the error of summing weighted sub-scores, so a total that is
// 0.4 in exact arithmetic does not pass the threshold as 0.40000000000000008
const scoreTolerance = 1e-9

// Weights configures how much each sub-score contributes to the overall score
type Weights struct {
	Skills       float64
	Location     float64
	Sector       float64
	Academic     float64
	Affirmative  float64
	Availability float64
}

// DefaultWeights is the fixed process-wide weighting
var DefaultWeights = Weights{
	Skills:       0.35,
	Location:     0.20,
	Sector:       0.15,
	Academic:     0.10,
	Affirmative:  0.10,
	Availability: 0.10,
}

// Sum returns the total of all weights
func (w Weights) Sum() float64 {
	return w.Skills + w.Location + w.Sector + w.Academic + w.Affirmative + w.Availability
}

// Validate checks that weights are non-negative and sum to 1.0
func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"skills":       w.Skills,
		"location":     w.Location,
		"sector":       w.Sector,
		"academic":     w.Academic,
		"affirmative":  w.Affirmative,
		"availability": w.Availability,
	} {
		if v < 0 {
			return fmt.Errorf("weight %s must be non-negative, got %v", name, v)
		}
	}

	if sum := w.Sum(); math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("weights must sum to 1.0, got %v", sum)
	}
	return nil
}

// Breakdown holds the six sub-scores of one (profile, listing) pair
type Breakdown struct {
	Skills       float64 `json:"skills"`
	Location     float64 `json:"location"`
	Sector       float64 `json:"sector"`
	Academic     float64 `json:"academic"`
	Affirmative  float64 `json:"affirmative"`
	Availability float64 `json:"availability"`
}

// Evaluate computes every sub-score for the pair
func Evaluate(p *database.StudentProfile, l *database.Listing) Breakdown {
	return Breakdown{
		Skills:       SkillsScore(p, l),
		Location:     LocationScore(p, l),
		Sector:       SectorScore(p, l),
		Academic:     AcademicScore(p, l),
		Affirmative:  AffirmativeScore(p, l),
		Availability: AvailabilityScore(p, l),
	}
}

// Score combines a breakdown into the overall raw score, capped at 1.0
func (w Weights) Score(b Breakdown) float64 {
	total := b.Skills*w.Skills +
		b.Location*w.Location +
		b.Sector*w.Sector +
		b.Academic*w.Academic +
		b.Affirmative*w.Affirmative +
		b.Availability*w.Availability

	return min(total, 1.0)
}

// Aggregate evaluates and scores the pair in one step
func (w Weights) Aggregate(p *database.StudentProfile, l *database.Listing) float64 {
	return w.Score(Evaluate(p, l))
}

// DisplayScore converts a raw score to the 0-100 scale shown to students
func DisplayScore(raw float64) int {
	return int(math.Round(raw * 100))
}

// PassesThreshold reports whether a raw score qualifies as a match.
// Scores within scoreTolerance of the threshold count as equal to it and are rejected.
func PassesThreshold(raw float64) bool {
	return raw > Threshold+scoreTolerance
}
