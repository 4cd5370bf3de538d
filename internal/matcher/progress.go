package matcher

// Phase is a step of one matching run
type Phase string

const (
	PhaseLoadingProfile Phase = "loading_profile"
	PhaseLoadingPool    Phase = "loading_pool"
	PhaseScoring        Phase = "scoring"
	PhaseFiltering      Phase = "filtering"
	PhaseRanking        Phase = "ranking"
	PhasePersisting     Phase = "persisting"
	PhaseDone           Phase = "done"
	PhaseFailed         Phase = "failed"
)

// Progress represents the state of a matching run
type Progress struct {
	StudentID   string
	Phase       Phase
	Current     int    // Items handled so far in this phase
	Total       int    // Items in this phase
	Description string // Human-readable description
}

// ProgressCallback is called from the goroutine running the pipeline
type ProgressCallback func(Progress)

// Percentage returns the completion percentage (0-100)
func (p Progress) Percentage() int {
	if p.Total == 0 {
		return 0
	}
	return (p.Current * 100) / p.Total
}
