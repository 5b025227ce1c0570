package uploader

import (
	"github.com/google/uuid"

	"github.com/interviewpro/cli/pkg/domain"
)

// Status tracks a task through the upload saga.
type Status string

const (
	// StatusPending: accepted, waiting for a worker slot.
	StatusPending Status = "pending"
	// StatusTransferring: presigned, bytes moving to storage.
	StatusTransferring Status = "transferring"
	// StatusConfirmed: the API has registered the CV record.
	StatusConfirmed Status = "confirmed"
	// StatusFailed: some step failed; Err says which.
	StatusFailed Status = "failed"
)

// Task is one file moving through presign, transfer, and confirm. Each task
// succeeds or fails on its own; a batch never shares fate.
type Task struct {
	ID        string
	Path      string
	Filename  string
	MimeType  string
	SizeBytes int64
	RoleID    *int

	Status Status
	Err    error

	// CV is the record returned by the confirm step, set once confirmed.
	CV *domain.CV
}

func newTask(path string, roleID *int) *Task {
	return &Task{
		ID:     uuid.NewString(),
		Path:   path,
		RoleID: roleID,
		Status: StatusPending,
	}
}

// Done reports whether the task has reached a terminal status.
func (t *Task) Done() bool {
	return t.Status == StatusConfirmed || t.Status == StatusFailed
}
