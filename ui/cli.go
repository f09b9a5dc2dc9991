//go:build !pi
// +build !pi

package ui

import (
	log "github.com/sirupsen/logrus"
)

// CreateDisplay returns a display that writes to the log. Repeated identical output is only logged at debug level.
func CreateDisplay() (Display, error) {
	return &cliDisplay{}, nil
}

type cliDisplay struct {
	text string
	mode string
}

func (d *cliDisplay) ShowMessageAtPos(x, y int, text string) {
	d.show(text, log.Fields{"x": x, "y": y})
}

func (d *cliDisplay) ShowMessage(text string) {
	d.show(text, nil)
}

func (d *cliDisplay) ShowMode(mode Mode, highlighted bool) {
	m := mode.String()
	if highlighted {
		m = "[" + m + "]"
	}
	if m == d.mode {
		return
	}
	d.mode = m
	log.Infof("Display mode: %v", m)
}

func (d *cliDisplay) show(text string, fields log.Fields) {
	entry := log.WithFields(fields)
	if text == d.text {
		entry.Debugf("Display: %v", text)
		return
	}
	d.text = text
	entry.Infof("Display: %v", text)
}
