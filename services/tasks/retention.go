package tasks

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TypeArchiveRequest = "request:archive"

// ArchiveRequestPayload names the terminal request to clean up.
type ArchiveRequestPayload struct {
	RequestID string `json:"request_id"`
}

// NewArchiveRequestTask builds a deferred archival task firing at the given
// time.
func NewArchiveRequestTask(requestID string, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(ArchiveRequestPayload{RequestID: requestID})
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeArchiveRequest, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt)}

	return task, opts, nil
}

// RequestArchiver schedules a request for removal once its retention window
// elapses. Terminal requests stay visible to admins in the meantime; their
// status check alone keeps them non-re-approvable.
type RequestArchiver struct {
	Client    *asynq.Client
	Retention time.Duration
}

func (a *RequestArchiver) ScheduleArchive(requestID string) error {
	task, opts, err := NewArchiveRequestTask(requestID, time.Now().Add(a.Retention))
	if err != nil {
		return err
	}
	_, err = a.Client.Enqueue(task, opts...)
	return err
}
