package client

// Job status values reported in job_status.
const (
	StatusCompleted          = "COMPLETED"
	StatusExempt             = "EXEMPT"
	StatusCompletedWithError = "COMPLETED WITH ERROR"
	StatusSubmitted          = "SUBMITTED"
	StatusSequentiallyQueued = "SEQUENTIALLY QUEUED"
	StatusProcessingStarting = "PROCESSING STARTING"
	StatusTerminated         = "TERMINATED"
	StatusCanceled           = "CANCELED"
)

// IsTerminal reports whether a job in this status will not change again.
func IsTerminal(status string) bool {
	switch status {
	case StatusCompleted, StatusCompletedWithError, StatusTerminated, StatusCanceled:
		return true
	}
	return false
}

// IsQueued reports whether the job is still waiting for resources.
func IsQueued(status string) bool {
	return status == StatusSubmitted || status == StatusSequentiallyQueued
}
