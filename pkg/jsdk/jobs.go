package jsdk

import (
	"context"
	"fmt"
	"strconv"

	"github.com/quatton/jarvice/pkg/client"
	"github.com/quatton/jarvice/pkg/jsdk/jerr"
)

// ConnectPlaceholder replaces an address or password the server did not send.
const ConnectPlaceholder = "NONE"

// Tail returns the last lines of a running job's output. lines == 0 leaves
// the count to the server; a negative count is a usage error.
func (s *JobService) Tail(ctx context.Context, ref JobRef, lines int) (string, error) {
	params, err := tailParams(ref, lines)
	if err != nil {
		return "", err
	}
	out, err := s.Client.Tail(ctx, params)
	return out, apiError(err)
}

// Output returns the output of a job that has ended.
func (s *JobService) Output(ctx context.Context, ref JobRef, lines int) (string, error) {
	params, err := tailParams(ref, lines)
	if err != nil {
		return "", err
	}
	out, err := s.Client.Output(ctx, params)
	return out, apiError(err)
}

func tailParams(ref JobRef, lines int) (client.TailParams, error) {
	if lines < 0 {
		return client.TailParams{}, jerr.Usagef("lines must not be negative, got %d", lines)
	}
	sel, err := selectorFor(ref)
	if err != nil {
		return client.TailParams{}, err
	}
	params := client.TailParams{JobSelector: sel}
	if lines > 0 {
		params.Lines = &lines
	}
	return params, nil
}

// Connect returns the address and password of a job's interactive session.
func (s *JobService) Connect(ctx context.Context, ref JobRef) (address, password string, err error) {
	sel, err := selectorFor(ref)
	if err != nil {
		return "", "", err
	}
	info, err := s.Client.Connect(ctx, sel)
	if err != nil {
		return "", "", apiError(err)
	}
	return orPlaceholder(info.Address), orPlaceholder(info.Password), nil
}

func orPlaceholder(s *string) string {
	if s == nil || *s == "" {
		return ConnectPlaceholder
	}
	return *s
}

// Shutdown asks a job to stop gracefully.
func (s *JobService) Shutdown(ctx context.Context, ref JobRef) error {
	sel, err := selectorFor(ref)
	if err != nil {
		return err
	}
	s.log.Debug("shutting down job", "job", ref.String())
	return apiError(s.Client.Shutdown(ctx, sel))
}

// Terminate stops a job immediately.
func (s *JobService) Terminate(ctx context.Context, ref JobRef) error {
	sel, err := selectorFor(ref)
	if err != nil {
		return err
	}
	s.log.Debug("terminating job", "job", ref.String())
	return apiError(s.Client.Terminate(ctx, sel))
}

func (s *JobService) Info(ctx context.Context, ref JobRef) (*client.RuntimeInfo, error) {
	sel, err := selectorFor(ref)
	if err != nil {
		return nil, err
	}
	info, err := s.Client.Info(ctx, sel)
	return info, apiError(err)
}

func (s *JobService) Status(ctx context.Context, ref JobRef) (*client.OrderedMap[client.JobStatusEntry], error) {
	sel, err := selectorFor(ref)
	if err != nil {
		return nil, err
	}
	status, err := s.Client.Status(ctx, sel)
	return status, apiError(err)
}

// Action runs one of the application-defined actions of a job.
func (s *JobService) Action(ctx context.Context, name string, ref JobRef) error {
	if name == "" {
		return jerr.Usagef("an action name is required")
	}
	sel, err := selectorFor(ref)
	if err != nil {
		return err
	}
	return apiError(s.Client.Action(ctx, client.ActionParams{JobSelector: sel, Action: name}))
}

// ListJobs lists current jobs, or finished ones when completed is set.
func (s *JobService) ListJobs(ctx context.Context, completed bool) (*client.OrderedMap[client.JobEntry], error) {
	var params *client.JobsParams
	if completed {
		params = &client.JobsParams{Completed: &completed}
	}
	jobs, err := s.Client.Jobs(ctx, params)
	return jobs, apiError(err)
}

// ShutdownAll shuts down every current job, in listing order. It stops at
// the first failure and returns the IDs signaled before it.
func (s *JobService) ShutdownAll(ctx context.Context) ([]string, error) {
	return s.signalAll(ctx, "shutdown", s.Shutdown)
}

// TerminateAll is ShutdownAll with Terminate.
func (s *JobService) TerminateAll(ctx context.Context) ([]string, error) {
	return s.signalAll(ctx, "terminate", s.Terminate)
}

func (s *JobService) signalAll(ctx context.Context, verb string, signal func(context.Context, JobRef) error) ([]string, error) {
	jobs, err := s.ListJobs(ctx, false)
	if err != nil {
		return nil, err
	}

	var done []string
	for _, id := range jobs.Keys() {
		ref, err := refFromKey(id)
		if err != nil {
			return done, err
		}
		if err := signal(ctx, ref); err != nil {
			return done, fmt.Errorf("%s job %s: %w", verb, id, err)
		}
		done = append(done, id)
	}
	return done, nil
}

// refFromKey turns a listing key, which is the job number, into a JobRef.
func refFromKey(key string) (JobRef, error) {
	n, err := strconv.ParseInt(key, 10, 64)
	if err != nil {
		return nil, jerr.New(jerr.CodeAPI, &client.APIError{Message: fmt.Sprintf("unexpected job key %q in listing", key)})
	}
	return ByID(n), nil
}

// ListApps lists applications. A non-empty name narrows the listing.
func (s *JobService) ListApps(ctx context.Context, name string) (*client.OrderedMap[client.AppDescriptor], error) {
	apps, err := s.Client.Apps(ctx, optional(name))
	return apps, apiError(err)
}

// ListMachines lists machine types. A non-empty name narrows the listing.
func (s *JobService) ListMachines(ctx context.Context, name string) (*client.OrderedMap[client.MachineDef], error) {
	machines, err := s.Client.Machines(ctx, optional(name))
	return machines, apiError(err)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
