package link

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"go.bug.st/serial"
)

// Config describes a serial port.
type Config struct {
	PortName string
	BaudRate int
}

// Open opens a serial port with 8N1 framing and wraps it in a Channel.
func Open(cfg Config) (*Channel, error) {
	port, err := serial.Open(cfg.PortName, &serial.Mode{
		BaudRate: cfg.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("could not open serial port %v: %w", cfg.PortName, err)
	}
	// anything left over from before we connected is not ours
	if err := port.ResetInputBuffer(); err != nil {
		log.Debugf("Could not reset input buffer of %v: %v", cfg.PortName, err)
	}
	log.Infof("Opened %v at %v baud", cfg.PortName, cfg.BaudRate)
	return NewChannel(port), nil
}

// Ports lists the serial ports found on the system.
func Ports() ([]string, error) {
	return serial.GetPortsList()
}
