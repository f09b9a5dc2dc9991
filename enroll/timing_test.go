package enroll

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultTiming(t *testing.T) {
	d := DefaultTiming()

	assert.Equal(t, time.Second, d.SettleDelay)
	assert.Equal(t, 2*time.Second, d.RepeatInterval)
	assert.Equal(t, time.Minute, d.Timeout)
	assert.Equal(t, 100*time.Millisecond, d.PollInterval)
	assert.Equal(t, 2*time.Second, d.SuccessDwell)
	assert.Equal(t, time.Second, d.TimeoutDwell)
	assert.NoError(t, d.Validate())
}

func TestTimingValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Timing)
		valid  bool
	}{
		{"defaults", func(*Timing) {}, true},
		{"zero settle", func(t *Timing) { t.SettleDelay = 0 }, false},
		{"negative poll", func(t *Timing) { t.PollInterval = -time.Millisecond }, false},
		{"poll longer than timeout", func(t *Timing) { t.PollInterval = 2 * time.Minute }, false},
		{"repeat longer than timeout", func(t *Timing) { t.RepeatInterval = 2 * time.Minute }, false},
		{"repeat equal to timeout", func(t *Timing) { t.RepeatInterval = t.Timeout }, true},
		{"zero dwell", func(t *Timing) { t.SuccessDwell = 0 }, false},
		{"short timeout", func(t *Timing) { t.Timeout = 5 * time.Second }, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			timing := DefaultTiming()
			tc.modify(&timing)
			err := timing.Validate()
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
