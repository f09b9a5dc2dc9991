package edge

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/callebjorkell/rfid-enroll/jobs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedLink struct {
	replies []string
	sent    []string
	flushes int
	// block makes Next wait for the context once the replies are used up.
	block bool
}

func (l *scriptedLink) WriteLine(line string) error {
	l.sent = append(l.sent, line)
	return nil
}

func (l *scriptedLink) Flush() error {
	l.flushes++
	return nil
}

func (l *scriptedLink) Next(ctx context.Context) (string, error) {
	if len(l.replies) == 0 {
		if l.block {
			<-ctx.Done()
			return "", ctx.Err()
		}
		return "", io.EOF
	}
	r := l.replies[0]
	l.replies = l.replies[1:]
	return r, nil
}

type memoryStore struct {
	history []jobs.Status
	last    jobs.Job
}

func (m *memoryStore) StoreJob(j jobs.Job) error {
	m.history = append(m.history, j.Status)
	m.last = j
	return nil
}

func newJob(t *testing.T, store *memoryStore, req Request) (*Requester, jobs.Job) {
	r := NewRequester(store, time.Second)
	j, err := r.NewJob(req)
	require.NoError(t, err)
	return r, j
}

func TestRunSuccess(t *testing.T) {
	store := &memoryStore{}
	req := Request{Username: "ada", UniqueID: "U123", Payload: "ABC123"}
	r, j := newJob(t, store, req)
	link := &scriptedLink{replies: []string{
		"STATUS: Waiting for card",
		"STATUS: Still waiting for card",
		"STATUS: Still waiting for card",
		"UID: 04A1B2C3",
	}}

	err := r.Run(context.Background(), link, req, &j)

	require.NoError(t, err)
	assert.Equal(t, []string{"ABC123"}, link.sent)
	assert.Equal(t, 1, link.flushes)
	assert.Equal(t, jobs.Completed, j.Status)
	assert.Equal(t, "04A1B2C3", j.UID)
	assert.NotNil(t, j.CompletedAt)
	assert.Equal(t, []jobs.Status{jobs.Initiated, jobs.WaitingForCard, jobs.Completed}, store.history)
	assert.Equal(t, j, store.last)
}

func TestRunDefaultsPayloadToUniqueID(t *testing.T) {
	store := &memoryStore{}
	req := Request{Username: "ada", UniqueID: "U123"}
	r, j := newJob(t, store, req)
	link := &scriptedLink{replies: []string{"UID: 01"}}

	require.NoError(t, r.Run(context.Background(), link, req, &j))
	assert.Equal(t, []string{"U123"}, link.sent)
}

func TestRunTimeout(t *testing.T) {
	store := &memoryStore{}
	req := Request{Username: "ada", UniqueID: "U123"}
	r, j := newJob(t, store, req)
	link := &scriptedLink{replies: []string{
		"STATUS: Waiting for card",
		"STATUS: Still waiting for card",
		"STATUS: Timeout - No card detected",
	}}

	err := r.Run(context.Background(), link, req, &j)

	assert.Error(t, err)
	assert.Equal(t, jobs.Failed, j.Status)
	assert.Empty(t, j.UID)
	assert.Equal(t, jobs.Failed, store.last.Status)
}

func TestRunLinkClosed(t *testing.T) {
	store := &memoryStore{}
	req := Request{Username: "ada", UniqueID: "U123"}
	r, j := newJob(t, store, req)

	err := r.Run(context.Background(), &scriptedLink{replies: []string{"STATUS: Waiting for card"}}, req, &j)

	assert.True(t, errors.Is(err, ErrNoResult))
	assert.Equal(t, jobs.Failed, j.Status)
}

func TestRunGivesUp(t *testing.T) {
	store := &memoryStore{}
	req := Request{Username: "ada", UniqueID: "U123"}
	r := NewRequester(store, 20*time.Millisecond)
	j, err := r.NewJob(req)
	require.NoError(t, err)

	err = r.Run(context.Background(), &scriptedLink{block: true}, req, &j)

	assert.True(t, errors.Is(err, ErrNoResult))
	assert.Equal(t, jobs.Failed, j.Status)
}

func TestNewJob(t *testing.T) {
	store := &memoryStore{}
	r := NewRequester(store, 0)

	j, err := r.NewJob(Request{Username: "ada", UniqueID: "U123"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(j.ID, "enroll_"))
	assert.Equal(t, jobs.Initiated, j.Status)
	assert.Equal(t, DefaultWait, r.wait)

	r.Connecting(&j)
	assert.Equal(t, jobs.Connecting, store.last.Status)
}

func TestRequestValidate(t *testing.T) {
	tests := []struct {
		name  string
		req   Request
		valid bool
	}{
		{"complete", Request{Username: "ada", UniqueID: "U123", Payload: "x"}, true},
		{"no payload", Request{Username: "ada", UniqueID: "U123"}, true},
		{"no username", Request{UniqueID: "U123"}, false},
		{"no unique id", Request{Username: "ada"}, false},
		{"multi line payload", Request{Username: "ada", UniqueID: "U123", Payload: "a\nb"}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.req.Validate()
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
