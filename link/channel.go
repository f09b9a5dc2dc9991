// Package link frames a serial connection into lines.
package link

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"sync"

	log "github.com/sirupsen/logrus"
)

// MaxLineSize is the longest line accepted from the peer. Longer lines are dropped.
const MaxLineSize = 1 << 20

// drainer is implemented by serial ports that can wait for their transmit buffer to empty.
type drainer interface {
	Drain() error
}

// Channel reads and writes newline terminated lines. Incoming lines are collected in the background so
// Available can answer without blocking.
type Channel struct {
	rw      io.ReadWriter
	w       *bufio.Writer
	lines   chan string
	done    chan struct{}
	pending *string

	errLock sync.Mutex
	readErr error
}

// NewChannel starts reading lines from rw.
func NewChannel(rw io.ReadWriter) *Channel {
	c := &Channel{
		rw:    rw,
		w:     bufio.NewWriter(rw),
		lines: make(chan string, 16),
		done:  make(chan struct{}),
	}
	go c.readLoop()
	return c
}

func (c *Channel) readLoop() {
	defer close(c.done)
	defer close(c.lines)

	split := &lineSplitter{max: MaxLineSize}
	s := bufio.NewScanner(c.rw)
	s.Buffer(make([]byte, 4096), MaxLineSize)
	s.Split(split.split)
	for s.Scan() {
		c.lines <- s.Text()
	}

	err := s.Err()
	if err == nil {
		err = io.EOF
	}
	log.Debugf("Link read loop stopped: %v", err)
	c.errLock.Lock()
	c.readErr = err
	c.errLock.Unlock()
}

// lineSplitter is bufio.ScanLines that skips lines longer than max instead of failing the scan.
type lineSplitter struct {
	max      int
	dropping bool
}

func (l *lineSplitter) split(data []byte, atEOF bool) (int, []byte, error) {
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		if l.dropping {
			l.dropping = false
			log.Warnf("Dropped a line longer than %v bytes", l.max)
			return i + 1, nil, nil
		}
		return i + 1, dropCR(data[:i]), nil
	}
	if l.dropping || len(data) >= l.max {
		l.dropping = true
		return len(data), nil, nil
	}
	if atEOF && len(data) > 0 {
		return len(data), dropCR(data), nil
	}
	return 0, nil, nil
}

func dropCR(data []byte) []byte {
	if len(data) > 0 && data[len(data)-1] == '\r' {
		return data[:len(data)-1]
	}
	return data
}

// Available reports whether a line has been received and not read yet.
func (c *Channel) Available() bool {
	if c.pending != nil {
		return true
	}
	select {
	case l, ok := <-c.lines:
		if !ok {
			return false
		}
		c.pending = &l
		return true
	default:
		return false
	}
}

// ReadLine returns the next line, blocking until one arrives. io.EOF is returned once the connection is gone.
func (c *Channel) ReadLine() (string, error) {
	return c.Next(context.Background())
}

// Next is ReadLine with cancellation.
func (c *Channel) Next(ctx context.Context) (string, error) {
	if c.pending != nil {
		l := *c.pending
		c.pending = nil
		return l, nil
	}
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case l, ok := <-c.lines:
		if !ok {
			return "", c.closedErr()
		}
		return l, nil
	}
}

// Done is closed once nothing more can be read from the connection.
func (c *Channel) Done() <-chan struct{} {
	return c.done
}

// Err is nil while the connection is readable, and the reason it stopped afterwards.
func (c *Channel) Err() error {
	select {
	case <-c.done:
		return c.closedErr()
	default:
		return nil
	}
}

func (c *Channel) closedErr() error {
	c.errLock.Lock()
	defer c.errLock.Unlock()
	if c.readErr != nil {
		return c.readErr
	}
	return io.EOF
}

// WriteLine buffers a line. Nothing is guaranteed to reach the peer before Flush.
func (c *Channel) WriteLine(line string) error {
	_, err := c.w.WriteString(line + "\n")
	return err
}

// Flush writes the buffered lines and, for serial ports, waits until they have been transmitted.
func (c *Channel) Flush() error {
	if err := c.w.Flush(); err != nil {
		return err
	}
	if d, ok := c.rw.(drainer); ok {
		return d.Drain()
	}
	return nil
}

// Close closes the underlying connection if it can be closed.
func (c *Channel) Close() error {
	if closer, ok := c.rw.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
