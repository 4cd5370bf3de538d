package cli

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/vijay-prabhu/internmatch/internal/matcher"
)

// ANSI color codes
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorPurple = "\033[35m"
	ColorCyan   = "\033[36m"
	ColorWhite  = "\033[37m"
	ColorGray   = "\033[90m"
)

// Spinner frames for animated progress
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Terminal writes progress to stderr, animated only when stderr is a terminal
type Terminal struct {
	IsTerminal   bool
	UseColor     bool
	out          io.Writer
	spinnerIndex int
}

// NewTerminal creates a new Terminal instance
func NewTerminal() *Terminal {
	isTerminal := term.IsTerminal(int(os.Stderr.Fd()))
	return &Terminal{
		IsTerminal: isTerminal,
		UseColor:   isTerminal,
		out:        os.Stderr,
	}
}

// ClearLine clears the current line (terminal only)
func (t *Terminal) ClearLine() {
	if t.IsTerminal {
		fmt.Fprint(t.out, "\r\033[K")
	}
}

// Spinner returns the next spinner frame
func (t *Terminal) Spinner() string {
	if !t.IsTerminal {
		return ""
	}
	frame := spinnerFrames[t.spinnerIndex]
	t.spinnerIndex = (t.spinnerIndex + 1) % len(spinnerFrames)
	return frame
}

// Color wraps text in ANSI color codes (terminal only)
func (t *Terminal) Color(color, text string) string {
	if !t.UseColor {
		return text
	}
	return color + text + ColorReset
}

// Progress renders one matcher progress update
func (t *Terminal) Progress(p matcher.Progress) {
	msg := p.Description
	switch p.Phase {
	case matcher.PhaseScoring, matcher.PhaseFiltering, matcher.PhaseRanking, matcher.PhasePersisting:
		if p.Total > 0 {
			msg = fmt.Sprintf("%s: %d/%d (%d%%)", p.Description, p.Current, p.Total, p.Percentage())
		}
	case matcher.PhaseDone, matcher.PhaseFailed:
		t.ClearLine()
		return
	}

	if !t.IsTerminal {
		fmt.Fprintln(t.out, msg)
		return
	}

	t.ClearLine()
	fmt.Fprint(t.out, t.Color(PhaseColor(p.Phase), t.Spinner()+" "+msg))
}

// PhaseColor returns the color for a matching phase
func PhaseColor(phase matcher.Phase) string {
	switch phase {
	case matcher.PhaseLoadingProfile, matcher.PhaseLoadingPool:
		return ColorCyan
	case matcher.PhaseScoring:
		return ColorBlue
	case matcher.PhaseFiltering, matcher.PhaseRanking:
		return ColorYellow
	case matcher.PhasePersisting:
		return ColorPurple
	case matcher.PhaseDone:
		return ColorGreen
	case matcher.PhaseFailed:
		return ColorRed
	default:
		return ColorWhite
	}
}
