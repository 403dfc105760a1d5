package routes

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/quatton/jarvice/pkg/client"
	"github.com/quatton/jarvice/pkg/japi"
	"github.com/quatton/jarvice/pkg/japi/services/jobs"
)

const auth = "username=alice&apikey=secret"

func newTestAPI(t *testing.T) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	japi.RegisterSchemas(api.OpenAPI().Components.Schemas)
	store := jobs.NewStore(jobs.Options{RunDuration: time.Hour})
	RegisterAPI(api, store, Account{Username: "alice", APIKey: "secret"})
	return api
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		t.Fatalf("decode %s: %v", body, err)
	}
	return v
}

func submitJob(t *testing.T, api humatest.TestAPI, body map[string]any) client.SubmitResponse {
	t.Helper()
	resp := api.Post("/jarvice/submit?"+auth, body)
	if resp.Code != http.StatusOK {
		t.Fatalf("submit status = %d, body %s", resp.Code, resp.Body.String())
	}
	return decode[client.SubmitResponse](t, resp.Body.Bytes())
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)
	resp := api.Get("/health")
	if resp.Code != http.StatusOK || !strings.Contains(resp.Body.String(), `"ok"`) {
		t.Fatalf("health = %d %s", resp.Code, resp.Body.String())
	}
}

func TestCredentialsRequired(t *testing.T) {
	api := newTestAPI(t)

	for _, path := range []string{
		"/jarvice/jobs",
		"/jarvice/jobs?username=alice&apikey=wrong",
		"/jarvice/status?username=bob&apikey=secret&number=1",
		"/jarvice/apps?username=alice",
	} {
		if resp := api.Get(path); resp.Code != http.StatusUnauthorized {
			t.Errorf("GET %s = %d, want 401", path, resp.Code)
		}
	}
}

func TestJobSelectorValidation(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		query string
		code  int
		msg   string
	}{
		{"", http.StatusBadRequest, "number or name is required"},
		{"&number=1&name=x", http.StatusBadRequest, "not both"},
		{"&number=42", http.StatusNotFound, "job not found"},
		{"&name=missing", http.StatusNotFound, "job not found"},
	}
	for _, tt := range tests {
		resp := api.Get("/jarvice/status?" + auth + tt.query)
		if resp.Code != tt.code || !strings.Contains(resp.Body.String(), tt.msg) {
			t.Errorf("status%s = %d %s, want %d containing %q", tt.query, resp.Code, resp.Body.String(), tt.code, tt.msg)
		}
	}
}

func TestSubmitAndInspect(t *testing.T) {
	api := newTestAPI(t)

	job := submitJob(t, api, map[string]any{
		"app":         "jarvice-sim",
		"application": map[string]any{"command": "run", "geometry": "1904x881"},
		"machine":     map[string]any{"type": "n3", "nodes": 2},
		"walltime":    "01:00:00",
		"user":        map[string]any{"username": "alice", "apikey": "secret"},
		"nae_ignored": true,
	})
	if job.Number != 1 {
		t.Errorf("job number = %d, want 1", job.Number)
	}

	resp := api.Get("/jarvice/jobs?" + auth)
	listing := decode[*client.OrderedMap[client.JobEntry]](t, resp.Body.Bytes())
	entry, ok := listing.Get("1")
	if !ok || entry.JobName != job.Name || entry.JobStatus != client.StatusProcessingStarting {
		t.Errorf("jobs listing = %s", resp.Body.String())
	}

	resp = api.Get("/jarvice/status?" + auth + "&name=" + job.Name)
	status := decode[*client.OrderedMap[client.JobStatusEntry]](t, resp.Body.Bytes())
	if s, ok := status.Get("1"); !ok || s.JobWalltime != "01:00:00" {
		t.Errorf("status = %s", resp.Body.String())
	}

	resp = api.Get("/jarvice/connect?" + auth + "&number=1")
	conn := decode[client.ConnectInfo](t, resp.Body.Bytes())
	if conn.Address == nil || conn.Password == nil {
		t.Errorf("connect = %s", resp.Body.String())
	}

	resp = api.Get("/jarvice/tail?" + auth + "&number=1&lines=1")
	if resp.Code != http.StatusOK || !strings.HasPrefix(resp.Header().Get("Content-Type"), "text/plain") {
		t.Errorf("tail = %d %q", resp.Code, resp.Header().Get("Content-Type"))
	}
	if got := resp.Body.String(); got != "[+0s] jarvice-sim run on 2 x n3\n" {
		t.Errorf("tail body = %q", got)
	}

	if resp = api.Get("/jarvice/action?" + auth + "&number=1&action=checkpoint"); resp.Code != http.StatusOK {
		t.Errorf("action = %d %s", resp.Code, resp.Body.String())
	}
	if resp = api.Get("/jarvice/action?" + auth + "&number=1&action=bogus"); resp.Code != http.StatusBadRequest {
		t.Errorf("unknown action = %d, want 400", resp.Code)
	}

	if resp = api.Get("/jarvice/output?" + auth + "&number=1"); resp.Code != http.StatusBadRequest {
		t.Errorf("output of running job = %d, want 400", resp.Code)
	}
	if resp = api.Get("/jarvice/terminate?" + auth + "&number=1"); resp.Code != http.StatusOK {
		t.Errorf("terminate = %d %s", resp.Code, resp.Body.String())
	}
	if resp = api.Get("/jarvice/shutdown?" + auth + "&number=1"); resp.Code != http.StatusBadRequest {
		t.Errorf("shutdown of ended job = %d, want 400", resp.Code)
	}
	if resp = api.Get("/jarvice/output?" + auth + "&number=1"); resp.Code != http.StatusOK {
		t.Errorf("output = %d %s", resp.Code, resp.Body.String())
	}

	resp = api.Get("/jarvice/jobs?" + auth + "&completed=true")
	done := decode[*client.OrderedMap[client.JobEntry]](t, resp.Body.Bytes())
	if e, ok := done.Get("1"); !ok || e.JobStatus != client.StatusTerminated {
		t.Errorf("completed listing = %s", resp.Body.String())
	}
}

func TestSubmitValidation(t *testing.T) {
	api := newTestAPI(t)

	resp := api.Post("/jarvice/submit?"+auth, map[string]any{"app": "nope"})
	if resp.Code != http.StatusBadRequest || !strings.Contains(resp.Body.String(), "unknown application") {
		t.Errorf("unknown app = %d %s", resp.Code, resp.Body.String())
	}

	resp = api.Post("/jarvice/submit", map[string]any{
		"app":  "hello-world",
		"user": map[string]any{"username": "alice", "apikey": "wrong"},
	})
	if resp.Code != http.StatusUnauthorized {
		t.Errorf("bad descriptor credentials = %d, want 401", resp.Code)
	}
}

func TestCatalog(t *testing.T) {
	api := newTestAPI(t)

	resp := api.Get("/jarvice/apps?" + auth)
	apps := decode[*client.OrderedMap[client.AppDescriptor]](t, resp.Body.Bytes())
	if got := apps.Keys(); len(got) != 3 || got[0] != "jarvice-sim" {
		t.Errorf("apps = %v", got)
	}

	resp = api.Get("/jarvice/machines?" + auth + "&name=ng1")
	machines := decode[*client.OrderedMap[client.MachineDef]](t, resp.Body.Bytes())
	if m, ok := machines.Get("ng1"); machines.Len() != 1 || !ok || m.GPUs != 1 {
		t.Errorf("machines = %s", resp.Body.String())
	}

	if resp = api.Get("/jarvice/apps?" + auth + "&name=nope"); resp.Code != http.StatusNotFound {
		t.Errorf("unknown app = %d, want 404", resp.Code)
	}
}
