package cmd

import (
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/quatton/jarvice/pkg/jprint"
	"github.com/quatton/jarvice/pkg/jsdk"
	"github.com/quatton/jarvice/pkg/jsdk/jerr"
	"github.com/spf13/cobra"
)

var waitForCmd = jobCommand(&cobra.Command{
	Use:   "wait-for",
	Short: "Wait for a job to end",
	Long: `Poll the status of a job until it has ended, then print its final status.
Interrupt with Ctrl-C to stop waiting; the job is left running.`,
}, func(cmd *cobra.Command, ref jsdk.JobRef) error {
	interval, err := cmd.Flags().GetDuration("interval")
	if err != nil {
		return err
	}
	if interval <= 0 {
		return jerr.Usagef("--interval must be positive, got %s", interval)
	}

	svc, err := newService(cmd, slog.LevelInfo, jsdk.WithPollInterval(interval))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	final, err := svc.WaitFor(ctx, ref)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Job %s ended: %s (%s)\n", ref, final.JobStatus, jprint.ShortStatus(final.JobStatus))
	return nil
})

func init() {
	rootCmd.AddCommand(waitForCmd)
	waitForCmd.Flags().Duration("interval", jsdk.DefaultPollInterval, "Time between status checks")
}
