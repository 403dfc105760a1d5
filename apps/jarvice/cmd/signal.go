package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/quatton/jarvice/pkg/jsdk"
	"github.com/spf13/cobra"
)

var shutdownCmd = jobCommand(&cobra.Command{
	Use:   "shutdown",
	Short: "Cleanly shutdown a job (with shutdown signal)",
}, func(cmd *cobra.Command, ref jsdk.JobRef) error {
	svc, err := newService(cmd, slog.LevelWarn)
	if err != nil {
		return err
	}
	return svc.Shutdown(cmd.Context(), ref)
})

var terminateCmd = jobCommand(&cobra.Command{
	Use:   "terminate",
	Short: "Force termination of a job (like kill -9)",
}, func(cmd *cobra.Command, ref jsdk.JobRef) error {
	svc, err := newService(cmd, slog.LevelWarn)
	if err != nil {
		return err
	}
	return svc.Terminate(cmd.Context(), ref)
})

type bulkFunc func(svc *jsdk.JobService, ctx context.Context) ([]string, error)

// bulkCommand signals every current job. The IDs signaled are printed even
// when a later job fails.
func bulkCommand(use, short, verb string, signal bulkFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService(cmd, slog.LevelWarn)
			if err != nil {
				return err
			}
			done, err := signal(svc, cmd.Context())
			for _, id := range done {
				fmt.Fprintf(cmd.OutOrStdout(), "%s : %s\n", verb, id)
			}
			return err
		},
	}
}

func init() {
	rootCmd.AddCommand(
		shutdownCmd,
		terminateCmd,
		bulkCommand("shutdown-all", "Cleanly shutdown all currently running jobs", "Shutdown", (*jsdk.JobService).ShutdownAll),
		bulkCommand("terminate-all", "Force termination of all jobs (like kill -9)", "Terminated", (*jsdk.JobService).TerminateAll),
	)
}
