package jsdk_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/quatton/jarvice/pkg/client"
	"github.com/quatton/jarvice/pkg/japi"
	"github.com/quatton/jarvice/pkg/japi/routes"
	"github.com/quatton/jarvice/pkg/japi/services/jobs"
	"github.com/quatton/jarvice/pkg/jlog"
	"github.com/quatton/jarvice/pkg/jsdk"
	"github.com/quatton/jarvice/pkg/jsdk/jerr"
)

// startServer runs the stand-in API with jobs that start at once and run
// for runFor.
func startServer(t *testing.T, runFor time.Duration) *jsdk.JobService {
	t.Helper()
	api := japi.NewApi(jlog.Discard())
	store := jobs.NewStore(jobs.Options{RunDuration: runFor})
	routes.RegisterAPI(api.Api, store, routes.Account{Username: "alice", APIKey: "secret"})

	srv := httptest.NewServer(api.Router)
	t.Cleanup(srv.Close)

	svc, err := jsdk.NewJobService(
		jsdk.Credentials{Username: "alice", APIKey: "secret", BaseURL: srv.URL},
		jsdk.WithPollInterval(10*time.Millisecond),
	)
	if err != nil {
		t.Fatalf("NewJobService error = %v", err)
	}
	return svc
}

func TestAgainstStandInServer(t *testing.T) {
	svc := startServer(t, time.Hour)
	ctx := context.Background()

	job, err := svc.Submit(ctx, []byte(`{"app":"jarvice-sim","machine":{"type":"n3","nodes":2}}`))
	if err != nil {
		t.Fatalf("Submit error = %v", err)
	}
	ref := jsdk.ByID(job.Number)

	listing, err := svc.ListJobs(ctx, false)
	if err != nil {
		t.Fatalf("ListJobs error = %v", err)
	}
	entry, ok := listing.Get("1")
	if !ok || entry.JobOwnerUsername != "alice" || entry.JobStatus != client.StatusProcessingStarting {
		t.Errorf("listing = %v %+v", listing.Keys(), entry)
	}

	addr, password, err := svc.Connect(ctx, jsdk.ByName(job.Name))
	if err != nil || addr == "NONE" || password == "NONE" {
		t.Errorf("Connect = %q %q %v", addr, password, err)
	}

	out, err := svc.Tail(ctx, ref, 1)
	if err != nil || !strings.HasPrefix(out, "[+0s] jarvice-sim run on 2 x n3") {
		t.Errorf("Tail = %q %v", out, err)
	}

	if err := svc.Action(ctx, "restart", ref); err != nil {
		t.Errorf("Action error = %v", err)
	}

	ended, err := svc.TerminateAll(ctx)
	if err != nil || len(ended) != 1 || ended[0] != "1" {
		t.Errorf("TerminateAll = %v %v", ended, err)
	}

	final, err := svc.WaitFor(ctx, ref)
	if err != nil || final.JobStatus != client.StatusTerminated {
		t.Errorf("WaitFor = %+v %v", final, err)
	}

	err = svc.Shutdown(ctx, ref)
	if !jerr.IsCode(err, jerr.CodeAPI) || !strings.Contains(err.Error(), "already ended") {
		t.Errorf("Shutdown ended job error = %v", err)
	}

	machines, err := svc.ListMachines(ctx, "nw32")
	if err != nil || machines.Len() != 1 {
		t.Errorf("ListMachines = %v %v", machines.Keys(), err)
	}
}

func TestWaitForCompletionAgainstStandInServer(t *testing.T) {
	svc := startServer(t, 50*time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	job, err := svc.Submit(ctx, []byte(`{"app":"hello-world"}`))
	if err != nil {
		t.Fatalf("Submit error = %v", err)
	}
	final, err := svc.WaitFor(ctx, jsdk.ByID(job.Number))
	if err != nil {
		t.Fatalf("WaitFor error = %v", err)
	}
	if final.JobStatus != client.StatusCompleted {
		t.Errorf("final status = %q", final.JobStatus)
	}

	out, err := svc.Output(ctx, jsdk.ByID(job.Number), 1)
	if err != nil || !strings.HasSuffix(out, "COMPLETED\n") {
		t.Errorf("Output = %q %v", out, err)
	}
}

func TestWrongAPIKeyAgainstStandInServer(t *testing.T) {
	api := japi.NewApi(jlog.Discard())
	routes.RegisterAPI(api.Api, jobs.NewStore(jobs.Options{}), routes.Account{Username: "alice", APIKey: "secret"})
	srv := httptest.NewServer(api.Router)
	defer srv.Close()

	svc, err := jsdk.NewJobService(jsdk.Credentials{Username: "alice", APIKey: "nope", BaseURL: srv.URL})
	if err != nil {
		t.Fatal(err)
	}
	_, err = svc.ListJobs(context.Background(), false)
	if !jerr.IsCode(err, jerr.CodeAPI) || !strings.Contains(err.Error(), "invalid user or API key") {
		t.Errorf("ListJobs error = %v", err)
	}
}
