package edge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		line   string
		status Status
		uid    string
	}{
		{"STATUS: Waiting for card", StatusWaiting, ""},
		{"STATUS: Waiting for card\r", StatusWaiting, ""},
		{"STATUS: Still waiting for card", StatusStillWaiting, ""},
		{"STATUS: Timeout - No card detected", StatusTimeout, ""},
		{"UID: 04A1B2C3", StatusUID, "04A1B2C3"},
		{"UID:04a1b2c3", StatusUID, "04a1b2c3"},
		{"UID: ", StatusUnknown, ""},
		{"Serial is available", StatusUnknown, ""},
		{"", StatusUnknown, ""},
	}

	for _, tc := range tests {
		t.Run(tc.line, func(t *testing.T) {
			s, uid := ParseStatus(tc.line)
			assert.Equal(t, tc.status, s)
			assert.Equal(t, tc.uid, uid)
		})
	}
}
