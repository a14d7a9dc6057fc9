package scheduler

import "errors"

var (
	// ErrSchedulerNotRunning is returned when trying to submit a job to a stopped scheduler
	ErrSchedulerNotRunning = errors.New("scheduler is not running")

	// ErrJobQueueFull is returned when the job queue is full
	ErrJobQueueFull = errors.New("job queue is full")

	// ErrInvalidJobType is returned for unknown sync job types
	ErrInvalidJobType = errors.New("invalid sync job type")

	// ErrSyncAlreadyRunning is returned when a sync of the same type already holds the lease
	ErrSyncAlreadyRunning = errors.New("sync already in progress for this type")
)
