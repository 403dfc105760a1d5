package cmd

import (
	"log/slog"
	"os"

	"github.com/quatton/jarvice/pkg/jlog"
	"github.com/quatton/jarvice/pkg/jprint"
	"github.com/quatton/jarvice/pkg/jsdk"
	"github.com/spf13/cobra"
)

// newLogger logs to stderr at level, or at debug level with --debug.
func newLogger(cfg *jsdk.Config, level slog.Level) *jlog.Logger {
	if cfg.Debug {
		return jlog.NewVerbose()
	}
	return jlog.NewLogger(level, os.Stderr)
}

// newService resolves credentials and builds the JobService for one command.
// Commands that only print warnings use slog.LevelWarn.
func newService(cmd *cobra.Command, level slog.Level, opts ...jsdk.Option) (*jsdk.JobService, error) {
	cfg, err := GetConfig(cmd)
	if err != nil {
		return nil, err
	}
	creds, err := cfg.Credentials()
	if err != nil {
		return nil, err
	}
	opts = append([]jsdk.Option{jsdk.WithLogger(newLogger(cfg, level))}, opts...)
	return jsdk.NewJobService(creds, opts...)
}

// newPresenter picks the renderer from --output and --no-rich. --no-rich
// overrides an output mode read from the config file; the root command
// rejects it next to an explicit --output. Auto mode resolves against the
// command's output writer.
func newPresenter(cmd *cobra.Command) (jprint.Presenter, error) {
	cfg, err := GetConfig(cmd)
	if err != nil {
		return nil, err
	}
	mode, err := jprint.ParseMode(cfg.Output)
	if err != nil {
		return nil, err
	}
	if noRich, _ := cmd.Flags().GetBool("no-rich"); noRich {
		mode = jprint.ModePlain
	}
	return jprint.New(mode, cmd.OutOrStdout()), nil
}
