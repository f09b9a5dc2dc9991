package enroll

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// State of the wait-for-card phase.
type State int

const (
	// Waiting means no card has been seen yet and the deadline has not passed.
	Waiting State = iota
	// CardDetected is terminal: the reader reported a card.
	CardDetected
	// TimedOut is terminal: the absolute deadline passed without a card.
	TimedOut
)

func (s State) String() string {
	switch s {
	case Waiting:
		return "waiting"
	case CardDetected:
		return "card detected"
	case TimedOut:
		return "timed out"
	default:
		return "unknown"
	}
}

// Session is one wait-for-card phase. Poll evaluates a single iteration and never blocks, so an outer scheduler
// can interleave other work between polls.
type Session struct {
	Request Request

	reader  CardReader
	display Display
	channel LineChannel
	clock   Clock
	timing  Timing

	started      time.Time
	lastMessage  time.Time
	messageShown bool
	state        State
	polls        int
	reminders    int
}

func newSession(req Request, w *Workflow) *Session {
	return &Session{
		Request: req,
		reader:  w.reader,
		display: w.display,
		channel: w.channel,
		clock:   w.clock,
		timing:  w.timing,
		started: w.clock.Now(),
		state:   Waiting,
	}
}

// Poll runs one iteration: the deadline check, the reminder heartbeat and the presence check. Once a terminal
// state is reached it is returned without touching any collaborator.
func (s *Session) Poll() State {
	if s.state != Waiting {
		return s.state
	}

	now := s.clock.Now()
	if now.Sub(s.started) >= s.timing.Timeout {
		s.state = TimedOut
		return s.state
	}

	if !s.messageShown || now.Sub(s.lastMessage) >= s.timing.RepeatInterval {
		s.display.ShowMessage(textPleasePlace)
		writeStatus(s.channel, StatusStillWaiting)
		s.lastMessage = now
		s.messageShown = true
		s.reminders++
	}

	s.polls++
	if s.reader.IsCardPresent() {
		log.Debugf("Card detected after %v polls", s.polls)
		s.state = CardDetected
	}
	return s.state
}

// State returns the state reached by the last Poll.
func (s *Session) State() State {
	return s.state
}

// Elapsed is the time since the wait started.
func (s *Session) Elapsed() time.Duration {
	return s.clock.Now().Sub(s.started)
}

// Reminders is the number of "still waiting" reminders sent so far.
func (s *Session) Reminders() int {
	return s.reminders
}

func writeStatus(c LineChannel, line string) {
	if err := c.WriteLine(line); err != nil {
		log.Warnf("Could not write %q: %v", line, err)
		return
	}
	if err := c.Flush(); err != nil {
		log.Warnf("Could not flush %q: %v", line, err)
	}
}
