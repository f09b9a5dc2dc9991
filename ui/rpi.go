//go:build pi
// +build pi

package ui

import (
	"fmt"
	"image"

	"github.com/sirupsen/logrus"
	"periph.io/x/periph/conn/i2c"
	"periph.io/x/periph/conn/i2c/i2creg"
	"periph.io/x/periph/devices/ssd1306"
	"periph.io/x/periph/host"
)

type oledDisplay struct {
	bus    i2c.BusCloser
	dev    *ssd1306.Dev
	canvas *Canvas
	led    *colorLed
	mode   Mode
	hl     bool
}

// CreateDisplay opens the SSD1306 on the first I2C bus and the status LED.
func CreateDisplay() (Display, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("unable to initialize periph: %w", err)
	}

	logrus.Infoln("Initializing display")
	bus, err := i2creg.Open("")
	if err != nil {
		return nil, fmt.Errorf("could not open i2c bus: %w", err)
	}
	dev, err := ssd1306.NewI2C(bus, &ssd1306.DefaultOpts)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("could not initialize ssd1306: %w", err)
	}

	b := dev.Bounds()
	logrus.Debugf("Display is %vx%v", b.Dx(), b.Dy())
	return &oledDisplay{
		bus:    bus,
		dev:    dev,
		canvas: NewCanvas(b.Dx(), b.Dy()),
		led:    newColorLed(),
		mode:   -1,
	}, nil
}

func (d *oledDisplay) ShowMessageAtPos(x, y int, text string) {
	d.canvas.MessageAt(x, y, text)
	d.push()
}

func (d *oledDisplay) ShowMessage(text string) {
	d.canvas.Message(text)
	d.push()
}

func (d *oledDisplay) ShowMode(mode Mode, highlighted bool) {
	if mode != d.mode || highlighted != d.hl {
		d.led.showMode(mode, highlighted)
		d.mode, d.hl = mode, highlighted
	}
	d.canvas.Mode(mode, highlighted)
	d.push()
}

func (d *oledDisplay) push() {
	if !d.canvas.Dirty() {
		return
	}
	if err := d.dev.Draw(d.dev.Bounds(), d.canvas.Image(), image.Point{}); err != nil {
		logrus.Warnf("Could not draw to display: %v", err)
	}
}
