//go:build !pi
// +build !pi

package nfc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMockReader(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	r := newMockReader("0411223344", 3*time.Second, clock)

	assert.False(t, r.IsCardPresent())
	now = now.Add(2 * time.Second)
	assert.False(t, r.IsCardPresent())
	now = now.Add(time.Second)
	assert.True(t, r.IsCardPresent())
	assert.Equal(t, "0411223344", r.ReadUID())

	// the card is gone after the read, the next attempt waits again
	now = now.Add(time.Second)
	assert.False(t, r.IsCardPresent())
	now = now.Add(3 * time.Second)
	assert.True(t, r.IsCardPresent())
}

func TestCreateReader(t *testing.T) {
	r, err := CreateReader()
	assert.NoError(t, err)
	assert.False(t, r.IsCardPresent())
	assert.NoError(t, r.Close())
}
