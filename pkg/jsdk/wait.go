package jsdk

import (
	"context"
	"fmt"
	"time"

	"github.com/quatton/jarvice/pkg/client"
	"github.com/quatton/jarvice/pkg/jsdk/jerr"
)

// WaitFor polls the job's status every PollInterval until it reaches a
// terminal status and returns that last status. There is no timeout; cancel
// ctx to stop waiting.
func (s *JobService) WaitFor(ctx context.Context, ref JobRef) (*client.JobStatusEntry, error) {
	entry, err := s.currentStatus(ctx, ref)
	if err != nil {
		return nil, err
	}
	if client.IsTerminal(entry.JobStatus) {
		return entry, nil
	}

	interval := s.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := entry.JobStatus
	s.log.Info("waiting for job", "job", ref.String(), "status", last)
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			entry, err := s.currentStatus(ctx, ref)
			if err != nil {
				return nil, err
			}
			if entry.JobStatus != last {
				s.log.Info("job status changed", "job", ref.String(), "status", entry.JobStatus)
				last = entry.JobStatus
			}
			if client.IsTerminal(entry.JobStatus) {
				return entry, nil
			}
		}
	}
}

// currentStatus returns the status entry of ref. The status listing is keyed
// by job number; a lookup by name takes the first entry.
func (s *JobService) currentStatus(ctx context.Context, ref JobRef) (*client.JobStatusEntry, error) {
	statuses, err := s.Status(ctx, ref)
	if err != nil {
		return nil, err
	}

	key := ""
	if id, ok := ref.(ByID); ok {
		key = id.String()
	}
	if _, found := statuses.Get(key); !found && statuses.Len() > 0 {
		key = statuses.Keys()[0]
	}
	entry, found := statuses.Get(key)
	if !found {
		return nil, jerr.New(jerr.CodeAPI, &client.APIError{Message: fmt.Sprintf("no status returned for job %s", ref)})
	}
	return &entry, nil
}
