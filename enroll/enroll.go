// Package enroll implements the card enrollment workflow of the terminal: it waits for a request line on the
// serial link, asks the user to present a card within a bounded time window and reports the card UID (or a
// timeout) back over the same link.
package enroll

import (
	"errors"
	"time"

	"github.com/callebjorkell/rfid-enroll/ui"
)

// Status lines written to the serial link.
const (
	StatusWaiting      = "STATUS: Waiting for card"
	StatusStillWaiting = "STATUS: Still waiting for card"
	StatusTimeout      = "STATUS: Timeout - No card detected"
	UIDPrefix          = "UID: "
)

// Texts rendered on the display.
const (
	textWaitingForData = "Waiting for data..."
	textEnrolling      = "Enrolling..."
	textPlaceCard      = "Place Card"
	textPleasePlace    = "Please place card"
	textSuccess        = "Success!"
	textTimeout        = "Timeout!"
)

// position of the idle prompt
const (
	promptX = 10
	promptY = 30
)

// ErrEnrollmentTimeout is reported when no card was presented before the deadline.
var ErrEnrollmentTimeout = errors.New("enrollment timeout: no card detected")

// CardReader is a synchronous card presence check plus UID read. ReadUID is only called after IsCardPresent
// returned true within the same attempt.
type CardReader interface {
	IsCardPresent() bool
	ReadUID() string
}

// Display renders user feedback.
type Display = ui.Display

// LineChannel is a line oriented link to the remote peer.
type LineChannel interface {
	// Available reports whether a complete line can be read without blocking.
	Available() bool
	ReadLine() (string, error)
	WriteLine(line string) error
	// Flush pushes everything written so far out to the peer.
	Flush() error
}

// Outcome of a single Tick.
type Outcome int

const (
	OutcomeIdle Outcome = iota
	OutcomeEnrolled
	OutcomeTimeout
)

func (o Outcome) String() string {
	switch o {
	case OutcomeIdle:
		return "idle"
	case OutcomeEnrolled:
		return "enrolled"
	case OutcomeTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Result describes how a Tick ended.
type Result struct {
	Outcome Outcome
	// UID is only set when Outcome is OutcomeEnrolled.
	UID string
	// Err is ErrEnrollmentTimeout when Outcome is OutcomeTimeout.
	Err error
	// Elapsed is the time spent waiting for the card.
	Elapsed time.Duration
}
