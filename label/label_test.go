package label

import (
	"bytes"
	"image/png"
	"testing"
	"time"

	"github.com/callebjorkell/rfid-enroll/jobs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate(t *testing.T) {
	buf := new(bytes.Buffer)
	err := Create(Card{Username: "Ada Lovelace", UniqueID: "E-1815", UID: "04a1b2c3"}, buf)
	require.NoError(t, err)

	img, err := png.Decode(buf)
	require.NoError(t, err)
	assert.Equal(t, width, img.Bounds().Dx())
	assert.Equal(t, height, img.Bounds().Dy())

	r, g, b, _ := img.At(0, 0).RGBA()
	assert.Equal(t, []uint32{0xffff, 0xffff, 0xffff}, []uint32{r, g, b}, "background should be white")

	r, _, _, _ = img.At(margin/2, height/2).RGBA()
	assert.Less(t, r, uint32(0x8000), "border should be drawn")
}

func TestFromJob(t *testing.T) {
	j := jobs.Job{
		ID:        "enroll_1",
		Username:  "Ada Lovelace",
		UniqueID:  "E-1815",
		Status:    jobs.WaitingForCard,
		CreatedAt: time.Now(),
	}

	_, err := FromJob(j)
	assert.ErrorIs(t, err, ErrNotEnrolled)

	j.Update(jobs.Completed, "Card enrolled", "")
	_, err = FromJob(j)
	assert.ErrorIs(t, err, ErrNotEnrolled, "a completed job without UID has nothing to print")

	j.UID = "04A1B2C3"
	c, err := FromJob(j)
	require.NoError(t, err)
	assert.Equal(t, Card{Username: "Ada Lovelace", UniqueID: "E-1815", UID: "04A1B2C3"}, c)
}
