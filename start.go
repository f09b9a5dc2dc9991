package main

import (
	"context"

	"github.com/callebjorkell/rfid-enroll/enroll"
	"github.com/callebjorkell/rfid-enroll/link"
	"github.com/callebjorkell/rfid-enroll/nfc"
	"github.com/callebjorkell/rfid-enroll/ui"
	"github.com/denisbrodbeck/machineid"
	log "github.com/sirupsen/logrus"
)

func startTerminal() {
	t := timing()
	if err := t.Validate(); err != nil {
		log.Fatal(err)
	}

	reader, err := nfc.CreateReader()
	if err != nil {
		log.Fatal(err)
	}
	defer reader.Close()

	display, err := ui.CreateDisplay()
	if err != nil {
		log.Fatal(err)
	}

	channel, err := link.Open(link.Config{PortName: *startPort, BaudRate: *startBaud})
	if err != nil {
		log.Fatal(err)
	}
	defer channel.Close()

	log.WithField("device", deviceID()).Infof("Enrollment terminal started (%v)", t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-channel.Done():
			cancel()
		case <-ctx.Done():
		}
	}()

	w := enroll.New(reader, display, channel, enroll.WithTiming(t))
	if err := w.Run(ctx, *idleInterval); err != nil {
		if linkErr := channel.Err(); linkErr != nil {
			log.Fatalf("Serial link to the host is gone: %v", linkErr)
		}
		log.Error(err)
	}
}

func deviceID() string {
	id, err := machineid.ProtectedID("rfid-enroll")
	if err != nil {
		log.Debugf("No machine id: %v", err)
		return "unknown"
	}
	return id[:12]
}
