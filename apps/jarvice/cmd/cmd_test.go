package cmd

import (
	"bytes"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/quatton/jarvice/pkg/japi"
	"github.com/quatton/jarvice/pkg/japi/routes"
	"github.com/quatton/jarvice/pkg/japi/services/jobs"
	"github.com/quatton/jarvice/pkg/jlog"
	"github.com/quatton/jarvice/pkg/jsdk"
	"github.com/quatton/jarvice/pkg/jsdk/jerr"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/zalando/go-keyring"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv(jsdk.EnvUsername, "")
	t.Setenv(jsdk.EnvAPIKey, "")
	t.Setenv(jsdk.EnvURL, "")
	keyring.MockInit()
}

// resetFlags undoes the flag values left behind by a previous execution of
// the shared command tree.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	cfgFile = ""

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestReportError(t *testing.T) {
	var buf bytes.Buffer
	if code := reportError(&buf, jerr.Usagef("bad flag")); code != exitUsage {
		t.Errorf("usage exit code = %d, want %d", code, exitUsage)
	}
	if buf.String() != "Error: bad flag\n" {
		t.Errorf("printed %q", buf.String())
	}
	buf.Reset()
	if code := reportError(&buf, jerr.Configf("missing username")); code != exitFailure {
		t.Errorf("config exit code = %d, want %d", code, exitFailure)
	}
}

func TestJobRefIsValidatedFirst(t *testing.T) {
	isolate(t)

	tests := [][]string{
		{"status"},
		{"status", "-j", "1", "-n", "job"},
		{"tail", "--jobname", ""},
		{"wait-for"},
	}
	for _, args := range tests {
		_, err := execute(t, args...)
		if !jerr.IsCode(err, jerr.CodeUsage) {
			t.Errorf("%v: error = %v, want usage error", args, err)
		}
	}
}

func TestUsageErrors(t *testing.T) {
	isolate(t)

	tests := [][]string{
		{"frobnicate"},
		{"jobs", "--no-such-flag"},
		{"submit"},
		{"download", "a", "b"},
		{"status", "-j", "notanumber"},
		{"tail", "-j", "1", "--lines=-2"},
		{"--no-rich", "-o", "json", "jobs"},
	}
	for _, args := range tests {
		_, err := execute(t, args...)
		if !jerr.IsCode(err, jerr.CodeUsage) {
			t.Errorf("%v: error = %v, want usage error", args, err)
		}
	}
}

func TestMissingCredentials(t *testing.T) {
	isolate(t)

	_, err := execute(t, "jobs")
	if !jerr.IsCode(err, jerr.CodeConfig) {
		t.Fatalf("error = %v, want config error", err)
	}
	for _, want := range []string{"--username", "JARVICE_API_KEY", "--url"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestVersionNeedsNoCredentials(t *testing.T) {
	isolate(t)

	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.HasPrefix(out, "jarvice ") {
		t.Errorf("version output = %q", out)
	}
}

func TestCommandsAgainstStandInServer(t *testing.T) {
	isolate(t)

	api := japi.NewApi(jlog.Discard())
	store := jobs.NewStore(jobs.Options{RunDuration: time.Hour})
	routes.RegisterAPI(api.Api, store, routes.Account{Username: "alice", APIKey: "secret"})
	srv := httptest.NewServer(api.Router)
	defer srv.Close()

	cfg := filepath.Join(t.TempDir(), "jarvice.cfg")
	ini := "[auth]\nusername = alice\napikey = secret\nurl = " + srv.URL + "\n"
	if err := os.WriteFile(cfg, []byte(ini), 0o600); err != nil {
		t.Fatal(err)
	}
	descriptor := filepath.Join(t.TempDir(), "job.json")
	if err := os.WriteFile(descriptor, []byte(`{"app":"jarvice-sim","machine":{"type":"n3","nodes":2}}`), 0o600); err != nil {
		t.Fatal(err)
	}

	run := func(args ...string) string {
		t.Helper()
		args = append([]string{"--config", cfg, "--no-rich"}, args...)
		out, err := execute(t, args...)
		if err != nil {
			t.Fatalf("%v: %v", args, err)
		}
		return out
	}

	out := run("submit", descriptor)
	if !strings.Contains(out, "- ID  : 1\n") {
		t.Errorf("submit output = %q", out)
	}

	out = run("jobs")
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[1], "1    ") || !strings.Contains(lines[1], "jarvice-sim/run") {
		t.Errorf("jobs output = %q", out)
	}

	out = run("connect", "-j", "1")
	if !strings.HasPrefix(out, "Address : 10.0.0.2\nPassword : ") {
		t.Errorf("connect output = %q", out)
	}

	out = run("status", "-j", "1")
	if !strings.Contains(out, "PROCESSING STARTING ( R)") {
		t.Errorf("status output = %q", out)
	}

	out, err := execute(t, "--config", cfg, "-o", "json", "machines", "ng1")
	if err != nil || !strings.Contains(out, `"mc_gpus": 1`) {
		t.Errorf("machines output = %q, error = %v", out, err)
	}

	out = run("terminate-all")
	if out != "Terminated : 1\n" {
		t.Errorf("terminate-all output = %q", out)
	}

	out = run("wait-for", "-j", "1", "--interval", "10ms")
	if out != "Job 1 ended: TERMINATED (ST)\n" {
		t.Errorf("wait-for output = %q", out)
	}

	if _, err := execute(t, "--config", cfg, "ls", "vault"); !jerr.IsCode(err, jerr.CodeNotImplemented) {
		t.Errorf("ls error = %v, want not implemented", err)
	}
	if _, err := execute(t, "--config", cfg, "shutdown", "-j", "1"); !jerr.IsCode(err, jerr.CodeAPI) {
		t.Errorf("shutdown of ended job error = %v, want API error", err)
	}
}

func TestAuthLoginAndLogout(t *testing.T) {
	isolate(t)

	api := japi.NewApi(jlog.Discard())
	routes.RegisterAPI(api.Api, jobs.NewStore(jobs.Options{}), routes.Account{Username: "alice", APIKey: "secret"})
	srv := httptest.NewServer(api.Router)
	defer srv.Close()

	identity := []string{"--url", srv.URL, "-u", "alice"}

	if _, err := execute(t, append(identity, "auth", "login", "-k", "wrong")...); !jerr.IsCode(err, jerr.CodeAPI) {
		t.Fatalf("login with wrong key error = %v, want API error", err)
	}
	if _, err := execute(t, append(identity, "auth", "login", "-k", "secret")...); err != nil {
		t.Fatalf("login error = %v", err)
	}

	// The saved key stands in for --apikey.
	if _, err := execute(t, append(identity, "jobs")...); err != nil {
		t.Fatalf("jobs with saved key error = %v", err)
	}

	if _, err := execute(t, append(identity, "auth", "logout")...); err != nil {
		t.Fatalf("logout error = %v", err)
	}
	if _, err := execute(t, append(identity, "jobs")...); !jerr.IsCode(err, jerr.CodeConfig) {
		t.Errorf("jobs after logout error = %v, want config error", err)
	}
}
