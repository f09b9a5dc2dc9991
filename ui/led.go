//go:build pi
// +build pi

package ui

import (
	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpioreg"
)

// colorLed is a common anode RGB LED, so a low pin means lit.
type colorLed struct {
	r gpio.PinIO
	g gpio.PinIO
	b gpio.PinIO
}

func newColorLed() *colorLed {
	c := &colorLed{
		r: gpioreg.ByName("GPIO6"),
		g: gpioreg.ByName("GPIO5"),
		b: gpioreg.ByName("GPIO13"),
	}
	c.Off()
	return c
}

func (c *colorLed) Blue() {
	c.Off()
	c.b.Out(gpio.Low)
}

func (c *colorLed) Cyan() {
	c.Off()
	c.g.Out(gpio.Low)
	c.b.Out(gpio.Low)
}

func (c *colorLed) White() {
	c.r.Out(gpio.Low)
	c.g.Out(gpio.Low)
	c.b.Out(gpio.Low)
}

func (c *colorLed) Off() {
	c.r.Out(gpio.High)
	c.g.Out(gpio.High)
	c.b.Out(gpio.High)
}

// showMode lights the LED in the color of the mode, white when the mode is highlighted.
func (c *colorLed) showMode(m Mode, highlighted bool) {
	switch {
	case highlighted:
		c.White()
	case m == Enrollment:
		c.Blue()
	case m == Attendance:
		c.Cyan()
	default:
		c.Off()
	}
}
