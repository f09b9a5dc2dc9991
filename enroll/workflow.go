package enroll

import (
	"context"
	"time"

	"github.com/callebjorkell/rfid-enroll/ui"
	log "github.com/sirupsen/logrus"
)

// Workflow drives enrollment attempts. It is meant to be ticked from a single goroutine; the reader, display
// and channel are owned by it.
type Workflow struct {
	reader  CardReader
	display Display
	channel LineChannel
	clock   Clock
	timing  Timing
	decoder Decoder

	pending *Request
}

// Option customizes a Workflow.
type Option func(*Workflow)

// WithTiming replaces the default timings.
func WithTiming(t Timing) Option {
	return func(w *Workflow) { w.timing = t }
}

// WithClock replaces the system clock, mostly for tests.
func WithClock(c Clock) Option {
	return func(w *Workflow) { w.clock = c }
}

// WithDecoder sets how request lines are turned into a Request.
func WithDecoder(d Decoder) Option {
	return func(w *Workflow) { w.decoder = d }
}

// New creates a workflow with the default timing, the system clock and the opaque decoder.
func New(reader CardReader, display Display, channel LineChannel, opts ...Option) *Workflow {
	w := &Workflow{
		reader:  reader,
		display: display,
		channel: channel,
		clock:   SystemClock,
		timing:  DefaultTiming(),
		decoder: Opaque,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Tick shows the idle prompt and, if a request line is waiting, runs a complete enrollment attempt. An attempt
// blocks until a card is read or the timeout passes.
func (w *Workflow) Tick() Result {
	s, ok := w.Begin()
	if !ok {
		return Result{Outcome: OutcomeIdle}
	}
	for s.Poll() == Waiting {
		w.clock.Sleep(w.timing.PollInterval)
	}
	return w.Finish(s)
}

// Begin shows the idle prompt and starts an attempt if a request line is available. It returns false when the
// workflow is idle.
func (w *Workflow) Begin() (*Session, bool) {
	w.display.ShowMessageAtPos(promptX, promptY, textWaitingForData)
	w.display.ShowMode(ui.Enrollment, false)

	if !w.channel.Available() {
		return nil, false
	}
	line, err := w.channel.ReadLine()
	if err != nil {
		log.Warnf("Could not read request line: %v", err)
		return nil, false
	}

	req, err := w.decoder.Decode(line)
	if err != nil {
		log.WithError(err).Warn("Request could not be decoded, forwarding it as is")
		req = Request{Payload: line}
	}
	w.pending = &req
	log.WithField("length", len(line)).Info("Enrollment request received")

	w.display.ShowMessage(textEnrolling)
	w.clock.Sleep(w.timing.SettleDelay)
	w.display.ShowMessage(textPlaceCard)

	writeStatus(w.channel, StatusWaiting)

	return newSession(req, w), true
}

// Finish reports the result of a session that reached a terminal state and clears the pending request.
func (w *Workflow) Finish(s *Session) Result {
	defer func() { w.pending = nil }()

	elapsed := s.Elapsed()
	if s.State() != CardDetected {
		log.WithField("elapsed", elapsed).Warn("No card presented in time")
		writeStatus(w.channel, StatusTimeout)
		w.display.ShowMessage(textTimeout)
		w.clock.Sleep(w.timing.TimeoutDwell)
		return Result{Outcome: OutcomeTimeout, Err: ErrEnrollmentTimeout, Elapsed: elapsed}
	}

	uid := w.reader.ReadUID()
	w.display.ShowMessage(textSuccess)
	writeStatus(w.channel, UIDPrefix+uid)
	w.display.ShowMessage(uid)
	log.WithFields(log.Fields{"uid": uid, "elapsed": elapsed}).Info("Card enrolled")

	w.clock.Sleep(w.timing.SuccessDwell)
	return Result{Outcome: OutcomeEnrolled, UID: uid, Elapsed: elapsed}
}

// Pending returns the request of the attempt in progress, if any.
func (w *Workflow) Pending() (Request, bool) {
	if w.pending == nil {
		return Request{}, false
	}
	return *w.pending, true
}

// Run ticks the workflow every idle interval until the context is cancelled. The context is only checked
// between ticks; an attempt in progress always runs to its own deadline.
func (w *Workflow) Run(ctx context.Context, idle time.Duration) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		r := w.Tick()
		if r.Outcome != OutcomeIdle {
			log.Debugf("Attempt finished: %v", r.Outcome)
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(idle):
		}
	}
}
