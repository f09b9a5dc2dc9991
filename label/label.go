// Package label renders printable labels for enrolled cards.
package label

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/callebjorkell/rfid-enroll/jobs"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// image size of 81.6x50mm (85.60 mm × 53.98 with 2mm margin on each side) at 600 DPI
// = 1928 x 1181 pix

const width = 1928
const height = 1181
const margin = 120

var ErrNotEnrolled = errors.New("job has not enrolled a card")

type Card struct {
	Username string
	UniqueID string
	UID      string
}

// FromJob returns the label content of a completed enrollment job.
func FromJob(j jobs.Job) (Card, error) {
	if j.Status != jobs.Completed || j.UID == "" {
		return Card{}, fmt.Errorf("%v: %w", j.ID, ErrNotEnrolled)
	}
	return Card{Username: j.Username, UniqueID: j.UniqueID, UID: j.UID}, nil
}

func Create(c Card, out io.Writer) error {
	l := gg.NewContext(width, height)
	l.SetRGB(1, 1, 1)
	l.Clear()

	l.SetRGB(0, 0, 0)
	l.DrawRectangle(margin/2, margin/2, width-margin, height-margin)
	l.SetLineWidth(6)
	l.Stroke()

	if err := renderString(l, gobold.TTF, strings.ToUpper(c.Username), 140, 380); err != nil {
		return err
	}
	l.SetRGB(0.4, 0.4, 0.4)
	if err := renderString(l, goregular.TTF, c.UniqueID, 96, 680); err != nil {
		return err
	}
	if err := renderString(l, goregular.TTF, "UID "+strings.ToUpper(c.UID), 64, 960); err != nil {
		return err
	}

	if err := l.EncodePNG(out); err != nil {
		return fmt.Errorf("could not render PNG: %w", err)
	}
	return nil
}

func renderString(c *gg.Context, ttf []byte, s string, size, y float64) error {
	f, err := truetype.Parse(ttf)
	if err != nil {
		return fmt.Errorf("could not load the font: %w", err)
	}
	c.SetFontFace(truetype.NewFace(f, &truetype.Options{Size: size}))

	lines := c.WordWrap(s, width-2*margin)
	for i, line := range lines {
		c.DrawStringAnchored(line, float64(width/2), y+float64(i)*size*1.2, 0.5, 0.5)
	}
	return nil
}
