package enroll

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Timing holds the delays and deadlines of an enrollment attempt.
type Timing struct {
	// SettleDelay is how long "Enrolling..." stays up before the card prompt.
	SettleDelay time.Duration `validate:"gt=0"`
	// RepeatInterval is the spacing of the "still waiting" reminders.
	RepeatInterval time.Duration `validate:"gt=0,ltefield=Timeout"`
	// Timeout is the absolute deadline for presenting a card, measured from the start of the wait.
	Timeout time.Duration `validate:"gt=0"`
	// PollInterval throttles the presence checks.
	PollInterval time.Duration `validate:"gt=0,ltfield=Timeout"`
	// SuccessDwell keeps the UID on the display after a successful read.
	SuccessDwell time.Duration `validate:"gt=0"`
	// TimeoutDwell keeps the timeout message on the display.
	TimeoutDwell time.Duration `validate:"gt=0"`
}

// DefaultTiming returns the timings the terminal runs with unless configured otherwise.
func DefaultTiming() Timing {
	return Timing{
		SettleDelay:    1000 * time.Millisecond,
		RepeatInterval: 2000 * time.Millisecond,
		Timeout:        60000 * time.Millisecond,
		PollInterval:   100 * time.Millisecond,
		SuccessDwell:   2000 * time.Millisecond,
		TimeoutDwell:   1000 * time.Millisecond,
	}
}

var validate = validator.New()

// Validate checks that all timings are positive and that polling happens within the deadline.
func (t Timing) Validate() error {
	if err := validate.Struct(t); err != nil {
		return fmt.Errorf("invalid timing: %w", err)
	}
	return nil
}

func (t Timing) String() string {
	return fmt.Sprintf("settle: %v, repeat: %v, timeout: %v, poll: %v, success dwell: %v, timeout dwell: %v",
		t.SettleDelay, t.RepeatInterval, t.Timeout, t.PollInterval, t.SuccessDwell, t.TimeoutDwell)
}
