package ui

import (
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/nfnt/resize"
	"golang.org/x/image/font/basicfont"
)

// All positions are given on a 128x64 canvas. Panels of another size get a scaled image.
const (
	CanvasWidth  = 128
	CanvasHeight = 64

	headerHeight = 14
	lineHeight   = 14
)

// Canvas renders the display layout: a mode header on top and a message body below it.
type Canvas struct {
	dc            *gg.Context
	width, height int

	body   string
	header string
	dirty  bool
}

// NewCanvas creates a canvas producing images of the given panel size.
func NewCanvas(width, height int) *Canvas {
	dc := gg.NewContext(CanvasWidth, CanvasHeight)
	dc.SetFontFace(basicfont.Face7x13)
	dc.SetColor(color.Black)
	dc.Clear()
	return &Canvas{dc: dc, width: width, height: height, dirty: true}
}

// Message replaces the body with centered, word wrapped text.
func (c *Canvas) Message(text string) {
	key := "msg:" + text
	if key == c.body {
		return
	}
	c.body, c.dirty = key, true

	c.clearBody()
	c.dc.SetColor(color.White)
	lines := c.dc.WordWrap(text, CanvasWidth-4)
	top := headerHeight + (CanvasHeight-headerHeight-len(lines)*lineHeight)/2 + lineHeight/2
	for i, line := range lines {
		c.dc.DrawStringAnchored(line, CanvasWidth/2, float64(top+i*lineHeight), 0.5, 0.5)
	}
}

// MessageAt replaces the body with text whose baseline starts at x, y.
func (c *Canvas) MessageAt(x, y int, text string) {
	key := fmt.Sprintf("pos:%d,%d:%s", x, y, text)
	if key == c.body {
		return
	}
	c.body, c.dirty = key, true

	c.clearBody()
	c.dc.SetColor(color.White)
	c.dc.DrawString(text, float64(x), float64(y))
}

// Mode draws the mode indicator. A highlighted mode is drawn inverted.
func (c *Canvas) Mode(m Mode, highlighted bool) {
	key := m.String()
	if highlighted {
		key += "*"
	}
	if key == c.header {
		return
	}
	c.header, c.dirty = key, true

	fg, bg := color.Color(color.White), color.Color(color.Black)
	if highlighted {
		fg, bg = bg, fg
	}
	c.dc.SetColor(bg)
	c.dc.DrawRectangle(0, 0, CanvasWidth, headerHeight)
	c.dc.Fill()
	c.dc.SetColor(fg)
	c.dc.DrawString(m.String(), 2, headerHeight-3)
}

// Dirty reports whether anything changed since the last call to Image.
func (c *Canvas) Dirty() bool {
	return c.dirty
}

// Image returns the rendered frame in panel size.
func (c *Canvas) Image() image.Image {
	c.dirty = false
	img := c.dc.Image()
	if c.width == CanvasWidth && c.height == CanvasHeight {
		return img
	}
	return resize.Resize(uint(c.width), uint(c.height), img, resize.NearestNeighbor)
}

func (c *Canvas) clearBody() {
	c.dc.SetColor(color.Black)
	c.dc.DrawRectangle(0, headerHeight, CanvasWidth, CanvasHeight-headerHeight)
	c.dc.Fill()
}
