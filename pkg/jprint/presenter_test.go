package jprint

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/quatton/jarvice/pkg/client"
)

func decode[V any](t *testing.T, payload string) *client.OrderedMap[V] {
	t.Helper()
	var m client.OrderedMap[V]
	if err := json.Unmarshal([]byte(payload), &m); err != nil {
		t.Fatalf("decoding fixture: %v", err)
	}
	return &m
}

const jobsFixture = `{
  "12": {"job_name": "20240101-sim-1", "job_application": "sim", "job_command": "run",
         "job_owner_username": "alice", "job_status": "COMPLETED",
         "job_stats": {"queue_time": 3, "compute_time": 3723},
         "job_api_submission": {"machine": {"type": "n3", "nodes": 2}}},
  "3":  {"job_name": "a-job-name-far-too-long-for-the-column", "job_application": "app",
         "job_command": "cmd", "job_owner_username": "bob", "job_status": "SUBMITTED",
         "job_stats": {"queue_time": 42}, "job_custom": "kept"}
}`

func TestPlainJobsHeaderOnceRowsInOrder(t *testing.T) {
	var out bytes.Buffer
	p := New(ModePlain, &out)
	if err := p.RenderJobs(decode[client.JobEntry](t, jobsFixture)); err != nil {
		t.Fatalf("RenderJobs failed: %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and two rows, got %d lines:\n%s", len(lines), out.String())
	}
	if strings.Count(out.String(), "Machine type") != 1 {
		t.Errorf("header must be printed once")
	}

	want := "12   20240101-sim-1       sim/run              alice           CD 1:02:03    2    n3                "
	if lines[1] != want {
		t.Errorf("unexpected first row\n got %q\nwant %q", lines[1], want)
	}
	if !strings.HasPrefix(lines[2], "3    a-job-name-far-to... app/cmd") {
		t.Errorf("unexpected second row %q", lines[2])
	}
	if fields := strings.Fields(lines[2]); fields[len(fields)-1] != "#" || fields[len(fields)-2] != "#" {
		t.Errorf("expected placeholders for missing machine, got %q", lines[2])
	}
	for _, l := range lines {
		if len(l) != len(lines[0]) {
			t.Errorf("rows are not aligned: %q", l)
		}
	}
}

func TestPlainJobsRunningRow(t *testing.T) {
	jobs := decode[client.JobEntry](t, `{"101": {"job_status": "PROCESSING STARTING", "job_name": "sim1",
		"job_application": "app-x", "job_command": "run", "job_owner_username": "alice",
		"job_stats": {"compute_time": 60}, "job_api_submission": {"machine": {"nodes": 4, "type": "n1"}}}}`)

	var out bytes.Buffer
	if err := New(ModePlain, &out).RenderJobs(jobs); err != nil {
		t.Fatalf("RenderJobs failed: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header and one row, got %q", out.String())
	}
	want := "101  sim1                 app-x/run            alice            R 0:01:00    4    n1                "
	if lines[1] != want {
		t.Errorf("unexpected row\n got %q\nwant %q", lines[1], want)
	}
}

func TestPlainJobsEmptyListPrintsHeader(t *testing.T) {
	var out bytes.Buffer
	if err := New(ModePlain, &out).RenderJobs(nil); err != nil {
		t.Fatalf("RenderJobs failed: %v", err)
	}
	if strings.Count(out.String(), "\n") != 1 || !strings.HasPrefix(out.String(), "ID ") {
		t.Errorf("expected header only, got %q", out.String())
	}
}

func TestJSONJobsKeepsUnknownFieldsAndOrder(t *testing.T) {
	var out bytes.Buffer
	if err := New(ModeJSON, &out).RenderJobs(decode[client.JobEntry](t, jobsFixture)); err != nil {
		t.Fatalf("RenderJobs failed: %v", err)
	}
	s := out.String()
	if !strings.Contains(s, `"job_custom": "kept"`) {
		t.Errorf("unknown field lost:\n%s", s)
	}
	if strings.Index(s, `"12"`) > strings.Index(s, `"3"`) {
		t.Errorf("server order not preserved:\n%s", s)
	}
	if strings.Contains(s, "\x1b[") {
		t.Errorf("JSON output must not contain escape codes")
	}
}

func TestPlainRuntimeInfo(t *testing.T) {
	var info client.RuntimeInfo
	payload := `{"address":"10.0.0.5","password":"pw","url":"https://10.0.0.5/","about":"desktop",
	             "actions":{"restart":"Restart the session","stop":"Stop it"}}`
	if err := json.Unmarshal([]byte(payload), &info); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := New(ModePlain, &out).RenderRuntimeInfo(&info); err != nil {
		t.Fatalf("RenderRuntimeInfo failed: %v", err)
	}
	want := "address: 10.0.0.5\npassword: pw\nurl: https://10.0.0.5/\nabout: desktop\n" +
		"actions:\nrestart: Restart the session\nstop: Stop it\n"
	if out.String() != want {
		t.Errorf("unexpected info block\n got %q\nwant %q", out.String(), want)
	}
}

func TestPlainRuntimeInfoWithoutActions(t *testing.T) {
	var out bytes.Buffer
	if err := New(ModePlain, &out).RenderRuntimeInfo(&client.RuntimeInfo{Address: "a"}); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out.String(), "actions") {
		t.Errorf("actions heading must be omitted, got %q", out.String())
	}
}

func TestPlainStatus(t *testing.T) {
	statuses := decode[client.JobStatusEntry](t, `{
	  "7": {"job_name": "j7", "job_project": "p", "job_application": "sim", "job_command": "run",
	        "job_status": "COMPLETED WITH ERROR", "job_substatus": "exit 1",
	        "job_submit_time": 1700000000, "job_start_time": 0, "job_walltime": "01:00:00"},
	  "8": {"job_name": "j8", "job_application": "sim", "job_command": "run", "job_status": "SUBMITTED"}
	}`)

	var out bytes.Buffer
	if err := New(ModePlain, &out, WithLocation(time.UTC)).RenderStatus(statuses); err != nil {
		t.Fatalf("RenderStatus failed: %v", err)
	}

	blocks := strings.Split(out.String(), "\n\n")
	if len(blocks) != 2 {
		t.Fatalf("expected two blocks, got %q", out.String())
	}
	want := "ID: 7\nJob Name: j7\nProject: p\nApplication: sim/run\nStatus: COMPLETED WITH ERROR ( F)\n" +
		"SStatus: exit 1\nSubmit Time: 2023-11-14 22:13:20\nWalltime: 01:00:00"
	if blocks[0] != want {
		t.Errorf("unexpected block\n got %q\nwant %q", blocks[0], want)
	}
	if strings.Contains(blocks[1], "Time") || strings.Contains(blocks[1], "Walltime") {
		t.Errorf("unset times must be omitted: %q", blocks[1])
	}
}

func TestPlainMachinesUsesWorkerFields(t *testing.T) {
	machines := decode[client.MachineDef](t, `{
	  "n3": {"mc_description": "16 core", "mc_arch": "x86_64", "mc_cores": 16, "mc_ram": 64,
	         "mc_gpus": 0, "mc_properties": "ssd", "mc_price": 1.5, "mc_scale_min": 1, "mc_scale_max": 8},
	  "w1": {"mc_description": "worker", "mc_arch": "x86_64", "mc_cores": 2, "mc_slave_cores": 32,
	         "mc_slave_ram": 128, "mc_slave_gpus": 4, "mc_slave_properties": "gpu"}
	}`)

	var out bytes.Buffer
	if err := New(ModePlain, &out).RenderMachines(machines); err != nil {
		t.Fatalf("RenderMachines failed: %v", err)
	}
	s := out.String()
	if !strings.HasPrefix(s, "n3\nDescription: 16 core\nArch: x86_64\nCores: 16\nRAM: 64\n") {
		t.Errorf("unexpected machine block:\n%s", s)
	}
	if !strings.Contains(s, "Price: 1.5\n") || !strings.Contains(s, "Max Scale: 8\n") {
		t.Errorf("missing fields:\n%s", s)
	}
	if !strings.Contains(s, "w1\nDescription: worker\nArch: x86_64\nCores: 32\nRAM: 128\nGPUs: 4\nProperties: gpu\n") {
		t.Errorf("worker machine should report mc_slave_* values:\n%s", s)
	}
}

func TestPlainApps(t *testing.T) {
	apps := decode[client.AppDescriptor](t, `{
	  "sim": {"id": "sim", "data": {"name": "Simulator", "author": "ACME",
	          "commands": {"run": {"description": "Run"}, "gui": {"description": "Desktop"}}}},
	  "bare": {"id": "bare"},
	  "nocmd": {"id": "nocmd", "data": {"name": "No Commands", "author": "X"}}
	}`)

	var out bytes.Buffer
	if err := New(ModePlain, &out).RenderApps(apps); err != nil {
		t.Fatalf("RenderApps failed: %v", err)
	}
	want := "sim : Simulator ACME : [run,gui]\nbare\nnocmd : No Commands X\n"
	if out.String() != want {
		t.Errorf("unexpected apps\n got %q\nwant %q", out.String(), want)
	}

	out.Reset()
	sim, _ := apps.Get("sim")
	if err := New(ModePlain, &out).RenderApp(sim); err != nil {
		t.Fatal(err)
	}
	if out.String() != "Simulator ACME\nrun : Run\ngui : Desktop\n" {
		t.Errorf("unexpected app %q", out.String())
	}
}

func TestPlainConnect(t *testing.T) {
	var out bytes.Buffer
	if err := New(ModePlain, &out).RenderConnect("10.0.0.5", "NONE"); err != nil {
		t.Fatal(err)
	}
	if out.String() != "Address : 10.0.0.5\nPassword : NONE\n" {
		t.Errorf("unexpected connect output %q", out.String())
	}
}

func TestStyledJobsTable(t *testing.T) {
	var out bytes.Buffer
	p := New(ModeStyled, &out, WithColor(false))
	if err := p.RenderJobs(decode[client.JobEntry](t, jobsFixture)); err != nil {
		t.Fatalf("RenderJobs failed: %v", err)
	}
	s := out.String()
	if strings.Contains(s, "\x1b[") {
		t.Errorf("colors were disabled but output has escapes:\n%s", s)
	}
	if !strings.Contains(s, "a-job-name-far-too-long-for-the-column") {
		t.Errorf("styled table must not truncate cells:\n%s", s)
	}

	lines := strings.Split(strings.TrimSuffix(s, "\n"), "\n")
	if len(lines) != 6 {
		t.Fatalf("expected 3 rules, a header and 2 rows, got %d lines:\n%s", len(lines), s)
	}
	if !strings.HasPrefix(lines[0], "┌") || !strings.HasPrefix(lines[2], "├") || !strings.HasPrefix(lines[5], "└") {
		t.Errorf("expected a box-drawn table:\n%s", s)
	}
	if !strings.Contains(lines[1], "Machine type") {
		t.Errorf("header must keep its case: %q", lines[1])
	}
	width := len([]rune(lines[0]))
	for _, l := range lines {
		if len([]rune(l)) != width {
			t.Errorf("table lines differ in width:\n%s", s)
			break
		}
	}
}

func TestStyledRowsColoredByStatus(t *testing.T) {
	var out bytes.Buffer
	p := New(ModeStyled, &out, WithColor(true))
	if err := p.RenderJobs(decode[client.JobEntry](t, jobsFixture)); err != nil {
		t.Fatal(err)
	}
	s := out.String()
	// gray for the completed job, yellow for the queued one
	if !strings.Contains(s, "\x1b[90m12") || !strings.Contains(s, "\x1b[33m3") {
		t.Errorf("rows not colored by status:\n%q", s)
	}
}
