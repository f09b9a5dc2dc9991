package edge

import (
	"strings"

	"github.com/callebjorkell/rfid-enroll/enroll"
)

// Status is the kind of a line sent by a terminal.
type Status int

const (
	StatusUnknown Status = iota
	StatusWaiting
	StatusStillWaiting
	StatusTimeout
	StatusUID
)

func (s Status) String() string {
	switch s {
	case StatusWaiting:
		return "waiting"
	case StatusStillWaiting:
		return "still waiting"
	case StatusTimeout:
		return "timeout"
	case StatusUID:
		return "uid"
	default:
		return "unknown"
	}
}

// ParseStatus classifies a line from the terminal. For UID lines the UID is returned as well.
func ParseStatus(line string) (Status, string) {
	line = strings.TrimSpace(line)
	switch {
	case strings.HasPrefix(line, enroll.StatusStillWaiting):
		return StatusStillWaiting, ""
	case strings.HasPrefix(line, enroll.StatusWaiting):
		return StatusWaiting, ""
	case strings.HasPrefix(line, enroll.StatusTimeout):
		return StatusTimeout, ""
	case strings.HasPrefix(line, strings.TrimSpace(enroll.UIDPrefix)):
		uid := strings.TrimSpace(strings.TrimPrefix(line, strings.TrimSpace(enroll.UIDPrefix)))
		if uid == "" {
			return StatusUnknown, ""
		}
		return StatusUID, uid
	default:
		return StatusUnknown, ""
	}
}
