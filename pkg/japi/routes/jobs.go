package routes

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/quatton/jarvice/pkg/client"
	"github.com/quatton/jarvice/pkg/japi/schemas"
	"github.com/quatton/jarvice/pkg/japi/services/jobs"
)

type ListJobsInput struct {
	AuthParams
	Completed bool `query:"completed" doc:"List ended jobs instead of current ones"`
}

type ListJobsOutput struct {
	Body *client.OrderedMap[client.JobEntry]
}

type JobStatusOutput struct {
	Body *client.OrderedMap[client.JobStatusEntry]
}

type JobInfoOutput struct {
	Body client.RuntimeInfo
}

type JobConnectOutput struct {
	Body client.ConnectInfo
}

type JobOutputInput struct {
	JobParams
	Lines int `query:"lines" minimum:"0" doc:"Return only the last N lines"`
}

type TextOutput struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}

type JobActionInput struct {
	JobParams
	Action string `query:"action" required:"true" minLength:"1" doc:"Action name"`
}

type JobControlOutput struct {
	Body schemas.StatusResponse
}

type SubmitJobInput struct {
	AuthParams
	Body schemas.SubmitRequest
}

type SubmitJobOutput struct {
	Body client.SubmitResponse
}

// storeError maps job store failures to HTTP errors.
func storeError(err error) error {
	if errors.Is(err, jobs.ErrNotFound) {
		return huma.Error404NotFound(err.Error())
	}
	return huma.Error400BadRequest(err.Error())
}

func text(s string) *TextOutput {
	return &TextOutput{ContentType: "text/plain; charset=utf-8", Body: []byte(s)}
}

// RegisterJobs registers the job endpoints under /jarvice.
func RegisterJobs(api huma.API, store *jobs.Store, account Account) {
	tags := []string{TagJobs.String()}

	huma.Register(api, huma.Operation{
		OperationID: "list-jobs",
		Method:      http.MethodGet,
		Path:        "/jarvice/jobs",
		Summary:     "List jobs",
		Description: "Lists the caller's current jobs keyed by job number, or ended jobs with completed=true",
		Tags:        tags,
	}, func(ctx context.Context, input *ListJobsInput) (*ListJobsOutput, error) {
		if err := account.authorize(input.AuthParams); err != nil {
			return nil, err
		}
		return &ListJobsOutput{Body: store.List(input.Username, input.Completed)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "submit-job",
		Method:      http.MethodPost,
		Path:        "/jarvice/submit",
		Summary:     "Submit a job",
		Description: "Queues a job from a JARVICE job descriptor. The descriptor's user block identifies the caller",
		Tags:        tags,
	}, func(ctx context.Context, input *SubmitJobInput) (*SubmitJobOutput, error) {
		body := input.Body
		username, apiKey := input.Username, input.APIKey
		if body.User != nil && body.User.Username != "" {
			username, apiKey = body.User.Username, body.User.APIKey
		}
		if err := account.check(username, apiKey); err != nil {
			return nil, err
		}

		spec := jobs.Spec{App: body.App, Project: body.JobProject, Walltime: body.Walltime}
		if body.Application != nil {
			spec.Command = body.Application.Command
		}
		if body.Machine != nil {
			spec.MachineType = body.Machine.Type
			spec.Nodes = body.Machine.Nodes
		}

		resp, err := store.Submit(username, spec)
		if err != nil {
			return nil, storeError(err)
		}
		return &SubmitJobOutput{Body: resp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "job-status",
		Method:      http.MethodGet,
		Path:        "/jarvice/status",
		Summary:     "Job status",
		Description: "Returns the detailed status of one job keyed by its number",
		Tags:        tags,
	}, func(ctx context.Context, input *JobParams) (*JobStatusOutput, error) {
		sel, err := account.authorizeJob(*input)
		if err != nil {
			return nil, err
		}
		status, err := store.Status(input.Username, sel)
		if err != nil {
			return nil, storeError(err)
		}
		return &JobStatusOutput{Body: status}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "job-info",
		Method:      http.MethodGet,
		Path:        "/jarvice/info",
		Summary:     "Job runtime information",
		Description: "Returns the address, password and actions of a job",
		Tags:        tags,
	}, func(ctx context.Context, input *JobParams) (*JobInfoOutput, error) {
		sel, err := account.authorizeJob(*input)
		if err != nil {
			return nil, err
		}
		info, err := store.Info(input.Username, sel)
		if err != nil {
			return nil, storeError(err)
		}
		return &JobInfoOutput{Body: info}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "job-connect",
		Method:      http.MethodGet,
		Path:        "/jarvice/connect",
		Summary:     "Connection details",
		Description: "Returns the address and password of a running job; both are absent otherwise",
		Tags:        tags,
	}, func(ctx context.Context, input *JobParams) (*JobConnectOutput, error) {
		sel, err := account.authorizeJob(*input)
		if err != nil {
			return nil, err
		}
		conn, err := store.Connect(input.Username, sel)
		if err != nil {
			return nil, storeError(err)
		}
		return &JobConnectOutput{Body: conn}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "job-tail",
		Method:      http.MethodGet,
		Path:        "/jarvice/tail",
		Summary:     "Tail a running job",
		Description: "Returns the output of a running job as plain text",
		Tags:        tags,
	}, func(ctx context.Context, input *JobOutputInput) (*TextOutput, error) {
		sel, err := account.authorizeJob(input.JobParams)
		if err != nil {
			return nil, err
		}
		out, err := store.Tail(input.Username, sel, input.Lines)
		if err != nil {
			return nil, storeError(err)
		}
		return text(out), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "job-output",
		Method:      http.MethodGet,
		Path:        "/jarvice/output",
		Summary:     "Output of an ended job",
		Description: "Returns the output of a job that has ended as plain text",
		Tags:        tags,
	}, func(ctx context.Context, input *JobOutputInput) (*TextOutput, error) {
		sel, err := account.authorizeJob(input.JobParams)
		if err != nil {
			return nil, err
		}
		out, err := store.Output(input.Username, sel, input.Lines)
		if err != nil {
			return nil, storeError(err)
		}
		return text(out), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "job-shutdown",
		Method:      http.MethodGet,
		Path:        "/jarvice/shutdown",
		Summary:     "Shut down a job",
		Description: "Ends a job gracefully; its status becomes COMPLETED",
		Tags:        tags,
	}, func(ctx context.Context, input *JobParams) (*JobControlOutput, error) {
		sel, err := account.authorizeJob(*input)
		if err != nil {
			return nil, err
		}
		if err := store.Shutdown(input.Username, sel); err != nil {
			return nil, storeError(err)
		}
		return &JobControlOutput{Body: schemas.StatusResponse{Status: "shutdown requested"}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "job-terminate",
		Method:      http.MethodGet,
		Path:        "/jarvice/terminate",
		Summary:     "Terminate a job",
		Description: "Ends a job immediately; its status becomes TERMINATED",
		Tags:        tags,
	}, func(ctx context.Context, input *JobParams) (*JobControlOutput, error) {
		sel, err := account.authorizeJob(*input)
		if err != nil {
			return nil, err
		}
		if err := store.Terminate(input.Username, sel); err != nil {
			return nil, storeError(err)
		}
		return &JobControlOutput{Body: schemas.StatusResponse{Status: "terminated"}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "job-action",
		Method:      http.MethodGet,
		Path:        "/jarvice/action",
		Summary:     "Run a job action",
		Description: "Runs one of the application-defined actions of a running job",
		Tags:        tags,
	}, func(ctx context.Context, input *JobActionInput) (*JobControlOutput, error) {
		sel, err := account.authorizeJob(input.JobParams)
		if err != nil {
			return nil, err
		}
		if err := store.Action(input.Username, sel, input.Action); err != nil {
			return nil, storeError(err)
		}
		return &JobControlOutput{Body: schemas.StatusResponse{Status: "action requested"}}, nil
	})
}
