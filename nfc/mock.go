//go:build !pi
// +build !pi

package nfc

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	mockUID   = "deadbeef"
	mockDelay = 5 * time.Second
)

// CreateReader returns a simulated reader: a card shows up a while after the first presence check and is taken
// away again once its UID has been read.
func CreateReader() (CardReader, error) {
	log.Infof("Using simulated card reader, card %v appears %v into every attempt", mockUID, mockDelay)
	return newMockReader(mockUID, mockDelay, time.Now), nil
}

type mockReader struct {
	lock    sync.Mutex
	uid     string
	delay   time.Duration
	now     func() time.Time
	waiting time.Time
}

func newMockReader(uid string, delay time.Duration, now func() time.Time) *mockReader {
	return &mockReader{uid: uid, delay: delay, now: now}
}

func (m *mockReader) Close() error {
	return nil
}

func (m *mockReader) IsCardPresent() bool {
	m.lock.Lock()
	defer m.lock.Unlock()

	if m.waiting.IsZero() {
		m.waiting = m.now()
	}
	return m.now().Sub(m.waiting) >= m.delay
}

func (m *mockReader) ReadUID() string {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.waiting = time.Time{}
	return m.uid
}
