package enroll

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/callebjorkell/rfid-enroll/ui"
)

type fakeClock struct {
	now   time.Time
	slept time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(d time.Duration) {
	c.now = c.now.Add(d)
	c.slept += d
}

// scriptedReader reports a card on the presentOn-th presence check. Zero means never.
type scriptedReader struct {
	presentOn int
	uid       string
	checks    int
	reads     int
	clock     *fakeClock
	checkedAt []time.Time
}

func (r *scriptedReader) IsCardPresent() bool {
	r.checks++
	if r.clock != nil {
		r.checkedAt = append(r.checkedAt, r.clock.Now())
	}
	return r.presentOn > 0 && r.checks >= r.presentOn
}

func (r *scriptedReader) ReadUID() string {
	r.reads++
	return r.uid
}

type displayCall struct {
	kind string
	text string
}

var _ ui.Display = (*recordingDisplay)(nil)

type recordingDisplay struct {
	calls []displayCall
}

func (d *recordingDisplay) ShowMessageAtPos(x, y int, text string) {
	d.calls = append(d.calls, displayCall{kind: fmt.Sprintf("pos(%d,%d)", x, y), text: text})
}

func (d *recordingDisplay) ShowMessage(text string) {
	d.calls = append(d.calls, displayCall{kind: "msg", text: text})
}

func (d *recordingDisplay) ShowMode(mode ui.Mode, highlighted bool) {
	d.calls = append(d.calls, displayCall{kind: "mode", text: fmt.Sprintf("%v:%v", mode, highlighted)})
}

func (d *recordingDisplay) messages() []string {
	var out []string
	for _, c := range d.calls {
		if c.kind == "msg" {
			out = append(out, c.text)
		}
	}
	return out
}

type sentLine struct {
	line string
	at   time.Time
}

type recordingChannel struct {
	in        []string
	out       []sentLine
	unflushed int
	flushes   int
	clock     *fakeClock
	writeErr  error
}

func (c *recordingChannel) Available() bool {
	return len(c.in) > 0
}

func (c *recordingChannel) ReadLine() (string, error) {
	if len(c.in) == 0 {
		return "", io.EOF
	}
	l := c.in[0]
	c.in = c.in[1:]
	return l, nil
}

func (c *recordingChannel) WriteLine(line string) error {
	if c.writeErr != nil {
		return c.writeErr
	}
	var at time.Time
	if c.clock != nil {
		at = c.clock.Now()
	}
	c.out = append(c.out, sentLine{line: line, at: at})
	c.unflushed++
	return nil
}

func (c *recordingChannel) Flush() error {
	c.flushes++
	c.unflushed = 0
	return nil
}

func (c *recordingChannel) lines() []string {
	var out []string
	for _, l := range c.out {
		out = append(out, l.line)
	}
	return out
}

func (c *recordingChannel) count(line string) int {
	n := 0
	for _, l := range c.out {
		if l.line == line {
			n++
		}
	}
	return n
}

func (c *recordingChannel) withPrefix(prefix string) []sentLine {
	var out []sentLine
	for _, l := range c.out {
		if strings.HasPrefix(l.line, prefix) {
			out = append(out, l)
		}
	}
	return out
}

type testEnv struct {
	clock    *fakeClock
	reader   *scriptedReader
	display  *recordingDisplay
	channel  *recordingChannel
	workflow *Workflow
}

func newTestEnv(presentOn int, uid string, lines ...string) *testEnv {
	clock := newFakeClock()
	env := &testEnv{
		clock:   clock,
		reader:  &scriptedReader{presentOn: presentOn, uid: uid, clock: clock},
		display: &recordingDisplay{},
		channel: &recordingChannel{in: lines, clock: clock},
	}
	env.workflow = New(env.reader, env.display, env.channel, WithClock(clock))
	return env
}
