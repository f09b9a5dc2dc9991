package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/callebjorkell/rfid-enroll/edge"
	"github.com/callebjorkell/rfid-enroll/enroll"
	"github.com/callebjorkell/rfid-enroll/jobs"
	"github.com/callebjorkell/rfid-enroll/link"
	log "github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"
)

var defaults = enroll.DefaultTiming()

var (
	app    = kingpin.New("rfid-enroll", "RFID card enrollment over a serial link: the terminal that reads the cards, and the host tool that asks for them.")
	debug  = app.Flag("debug", "Enable debug logging.").Short('d').Bool()
	dbFile = app.Flag("db", "Database file for enrollment jobs.").Default("jobs.db").Envar("ENROLL_DB").String()

	start        = app.Command("start", "Start the enrollment terminal and wait for requests on the serial link.")
	startPort    = start.Flag("port", "Serial port connected to the host.").Default("/dev/ttyS0").Envar("ENROLL_PORT").String()
	startBaud    = start.Flag("baud", "Baud rate of the serial link.").Default("9600").Envar("ENROLL_BAUD").Int()
	settleDelay  = start.Flag("settle-delay", "How long the enrolling message is shown before asking for a card.").Default(defaults.SettleDelay.String()).Duration()
	repeatEvery  = start.Flag("repeat-interval", "Interval between 'still waiting' reminders.").Default(defaults.RepeatInterval.String()).Duration()
	cardTimeout  = start.Flag("timeout", "How long to wait for a card, counted from the first prompt.").Default(defaults.Timeout.String()).Envar("ENROLL_TIMEOUT").Duration()
	pollInterval = start.Flag("poll-interval", "Interval between card presence checks.").Default(defaults.PollInterval.String()).Duration()
	successDwell = start.Flag("success-dwell", "How long the UID stays on the display.").Default(defaults.SuccessDwell.String()).Duration()
	timeoutDwell = start.Flag("timeout-dwell", "How long the timeout message stays on the display.").Default(defaults.TimeoutDwell.String()).Duration()
	idleInterval = start.Flag("idle-interval", "Interval between checks for new requests.").Default("50ms").Duration()

	request         = app.Command("request", "Send an enrollment request to a terminal and wait for the card UID.")
	requestPort     = request.Flag("port", "Serial port connected to the terminal.").Default("/dev/ttyUSB0").Envar("ENROLL_PORT").String()
	requestBaud     = request.Flag("baud", "Baud rate of the serial link.").Default("9600").Envar("ENROLL_BAUD").Int()
	requestUser     = request.Flag("user", "Name of the person being enrolled.").Required().String()
	requestUniqueId = request.Flag("unique-id", "Unique ID of the person being enrolled.").Required().String()
	requestWait     = request.Flag("wait", "How long to wait for the terminal to report a result.").Default(edge.DefaultWait.String()).Duration()
	requestPayload  = request.Arg("payload", "Request payload sent to the terminal. Defaults to the unique ID.").String()

	dump      = app.Command("dump", "Dump the enrollment jobs of the last hour.")
	dumpJobId = dump.Flag("job", "Only dump the job with this ID.").String()

	remove      = app.Command("remove", "Remove an enrollment job.")
	removeJobId = remove.Arg("job", "ID of the job to remove.").Required().String()

	labelCmd   = app.Command("label", "Generate a printable label for an enrolled card.")
	labelJobId = labelCmd.Arg("job", "ID of a completed enrollment job.").Required().String()
	labelFile  = labelCmd.Flag("out", "Output file. Defaults to <uid>.png.").Short('o').String()

	ports = app.Command("ports", "List the serial ports of this machine.")
)

func main() {
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-signalChan
		os.Exit(0)
	}()

	cmd := kingpin.MustParse(app.Parse(os.Args[1:]))
	if *debug {
		log.SetLevel(log.DebugLevel)
	}

	switch cmd {
	case start.FullCommand():
		startTerminal()
	case request.FullCommand():
		requestEnrollment()
	case dump.FullCommand():
		if *dumpJobId != "" {
			dumpJob(*dumpJobId)
		} else {
			dumpAll()
		}
	case remove.FullCommand():
		removeJob(*removeJobId)
	case labelCmd.FullCommand():
		createLabel(*labelJobId, *labelFile)
	case ports.FullCommand():
		listPorts()
	default:
		kingpin.FatalUsage("Unrecognized command")
	}
}

func timing() enroll.Timing {
	return enroll.Timing{
		SettleDelay:    *settleDelay,
		RepeatInterval: *repeatEvery,
		Timeout:        *cardTimeout,
		PollInterval:   *pollInterval,
		SuccessDwell:   *successDwell,
		TimeoutDwell:   *timeoutDwell,
	}
}

func openDB() *jobs.DB {
	db, err := jobs.NewDB(*dbFile)
	if err != nil {
		log.Fatal(err)
	}
	return db
}

func listPorts() {
	p, err := link.Ports()
	if err != nil {
		log.Fatal(err)
	}
	if len(p) == 0 {
		fmt.Println("No serial ports found...")
	}
	for _, name := range p {
		fmt.Println(name)
	}
}

func checkLength(s string, l int) string {
	if len(s) > l {
		return s[:l] + "…"
	}
	return s
}

func since(t time.Time) string {
	return time.Since(t).Round(time.Second).String()
}
