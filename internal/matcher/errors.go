package matcher

import (
	"errors"
	"fmt"

	"github.com/vijay-prabhu/internmatch/internal/database"
)

var (
	// ErrProfileNotFound means the student has no stored profile
	ErrProfileNotFound = errors.New("profile not found")

	// ErrPoolLoad means the listing pool could not be read
	ErrPoolLoad = errors.New("failed to load listing pool")

	// ErrPersistence means ranking finished but the match set was not stored
	ErrPersistence = errors.New("failed to store matches")

	// ErrMatchNotFound means the match does not belong to the student and listing
	ErrMatchNotFound = database.ErrMatchNotFound

	// ErrMissingID is returned when a required identifier is empty
	ErrMissingID = errors.New("missing identifier")
)

// RunError reports the phase in which a matching run stopped
type RunError struct {
	StudentID string
	Phase     Phase
	Err       error
}

func (e *RunError) Error() string {
	if e.Ranked() {
		return fmt.Sprintf("matches for %s were ranked but not saved: %v", e.StudentID, e.Err)
	}
	return fmt.Sprintf("matching for %s failed while %s: %v", e.StudentID, e.Phase, e.Err)
}

func (e *RunError) Unwrap() error {
	return e.Err
}

// Ranked reports whether a ranked match list was produced before the failure
func (e *RunError) Ranked() bool {
	return e.Phase == PhasePersisting
}
