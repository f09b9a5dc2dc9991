package jobs

import (
	"encoding/json"
	"fmt"
	"time"
)

// Status of a host side enrollment job.
type Status string

const (
	Initiated      Status = "INITIATED"
	Connecting     Status = "CONNECTING"
	WaitingForCard Status = "WAITING_FOR_CARD"
	Completed      Status = "COMPLETED"
	Failed         Status = "FAILED"
)

// Done reports whether the job has reached a final status.
func (s Status) Done() bool {
	return s == Completed || s == Failed
}

// Job tracks one enrollment request sent to a terminal.
type Job struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	UniqueID string `json:"unique_id"`
	Status   Status `json:"status"`
	// Progress is a short human readable description of the current step.
	Progress string `json:"progress"`
	Message  string `json:"message,omitempty"`
	// UID is the card UID once the job completed.
	UID         string     `json:"uid,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func (j Job) String() string {
	b, err := json.MarshalIndent(j, "", "  ")
	if err != nil {
		return fmt.Sprintf("ID: %v, status: %v", j.ID, j.Status)
	}
	return string(b)
}

// Update moves the job to a new status. Final statuses get a completion time.
func (j *Job) Update(s Status, progress, message string) {
	j.Status = s
	j.Progress = progress
	j.Message = message
	if s.Done() {
		now := time.Now()
		j.CompletedAt = &now
	}
}
