// Package edge is the host side of the enrollment line protocol: it hands a request to a terminal and follows
// the status lines until a card UID or a timeout comes back.
package edge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/callebjorkell/rfid-enroll/jobs"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// DefaultWait covers the terminal's own deadline plus its settle and dwell times.
const DefaultWait = 75 * time.Second

// ErrNoResult means the terminal never reported a UID or a timeout.
var ErrNoResult = errors.New("no result from terminal")

var validate = validator.New()

// Request is an enrollment request for one person.
type Request struct {
	Username string `validate:"required"`
	UniqueID string `validate:"required,printascii"`
	// Payload is the line sent to the terminal. It defaults to the unique id.
	Payload string `validate:"excludesall=\n"`
}

func (r Request) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}
	return nil
}

// Link is the host end of the serial line.
type Link interface {
	WriteLine(line string) error
	Flush() error
	Next(ctx context.Context) (string, error)
}

// JobStore persists job progress.
type JobStore interface {
	StoreJob(j jobs.Job) error
}

// Requester runs enrollment jobs against one terminal.
type Requester struct {
	store JobStore
	wait  time.Duration
}

// NewRequester creates a requester that saves jobs in store and waits at most wait for a result. A wait of zero
// or less means DefaultWait.
func NewRequester(store JobStore, wait time.Duration) *Requester {
	if wait <= 0 {
		wait = DefaultWait
	}
	return &Requester{store: store, wait: wait}
}

// NewJob validates the request and records a new job for it.
func (r *Requester) NewJob(req Request) (jobs.Job, error) {
	if err := req.Validate(); err != nil {
		return jobs.Job{}, err
	}
	j := jobs.Job{
		ID:        fmt.Sprintf("enroll_%v", uuid.New()),
		Username:  req.Username,
		UniqueID:  req.UniqueID,
		Status:    jobs.Initiated,
		Progress:  "Starting enrollment...",
		Message:   "Enrollment process initiated",
		CreatedAt: time.Now(),
	}
	return j, r.save(j)
}

// Connecting marks the job while the link is being opened.
func (r *Requester) Connecting(j *jobs.Job) {
	j.Update(jobs.Connecting, "Connecting to terminal...", "Establishing connection with the terminal")
	r.save(*j)
}

// Fail marks the job as failed.
func (r *Requester) Fail(j *jobs.Job, progress string, err error) {
	j.Update(jobs.Failed, progress, err.Error())
	r.save(*j)
}

// Run sends the request over the link and follows the terminal until it reports a result. The job is updated
// along the way and returned in its final state.
func (r *Requester) Run(ctx context.Context, link Link, req Request, j *jobs.Job) error {
	payload := req.Payload
	if payload == "" {
		payload = req.UniqueID
	}

	if err := link.WriteLine(payload); err != nil {
		r.Fail(j, "Could not send request", err)
		return fmt.Errorf("could not send request: %w", err)
	}
	if err := link.Flush(); err != nil {
		r.Fail(j, "Could not send request", err)
		return fmt.Errorf("could not send request: %w", err)
	}
	log.WithField("job", j.ID).Info("Enrollment request sent")

	ctx, cancel := context.WithTimeout(ctx, r.wait)
	defer cancel()

	for {
		line, err := link.Next(ctx)
		if err != nil {
			err = fmt.Errorf("%w: %v", ErrNoResult, err)
			r.Fail(j, "Terminal stopped responding", err)
			return err
		}

		status, uid := ParseStatus(line)
		log.WithFields(log.Fields{"job": j.ID, "status": status}).Debugf("Terminal: %v", line)
		switch status {
		case StatusWaiting:
			j.Update(jobs.WaitingForCard, "Please present RFID card on terminal",
				"Ready to scan RFID card. Please present your card to the terminal.")
			r.save(*j)
		case StatusStillWaiting:
			if j.Status != jobs.WaitingForCard {
				j.Update(jobs.WaitingForCard, "Please present RFID card on terminal", j.Message)
				r.save(*j)
			}
		case StatusUID:
			j.UID = uid
			j.Update(jobs.Completed, "Enrollment completed successfully",
				fmt.Sprintf("Enrollment successful for %v with UID %v", j.Username, uid))
			r.save(*j)
			return nil
		case StatusTimeout:
			r.Fail(j, "No card presented", errors.New("the terminal timed out waiting for a card"))
			return fmt.Errorf("enrollment of %v failed: no card presented", j.Username)
		}
	}
}

func (r *Requester) save(j jobs.Job) error {
	if err := r.store.StoreJob(j); err != nil {
		log.WithField("job", j.ID).Warnf("Could not store job: %v", err)
		return err
	}
	return nil
}
