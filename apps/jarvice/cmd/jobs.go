package cmd

import (
	"log/slog"

	"github.com/quatton/jarvice/pkg/jprint"
	"github.com/spf13/cobra"
)

var (
	jobsVerbose   bool
	jobsCompleted bool
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Get a list of currently running jobs",
	Long: `Get a list of currently running jobs, or of ended jobs with --completed.

Job Status:
  CD  The job has completed successfully.
  CG  The job is finishing but some processes are still active.
   F  The job terminated with a non-zero exit code and failed to execute.
  PD  The job is waiting for resource allocation. It will eventually run.
   R  The job currently is allocated to a node and is running.
  ST  A running job has been canceled or terminated.
  UN  Unknown status.`,
	Args: usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService(cmd, slog.LevelWarn)
		if err != nil {
			return err
		}
		jobs, err := svc.ListJobs(cmd.Context(), jobsCompleted)
		if err != nil {
			return err
		}

		var p jprint.Presenter
		if jobsVerbose {
			p = jprint.New(jprint.ModeJSON, cmd.OutOrStdout())
		} else if p, err = newPresenter(cmd); err != nil {
			return err
		}
		return p.RenderJobs(jobs)
	},
}

func init() {
	rootCmd.AddCommand(jobsCmd)
	jobsCmd.Flags().BoolVarP(&jobsVerbose, "verbose", "v", false, "Full JSON payload")
	jobsCmd.Flags().BoolVar(&jobsCompleted, "completed", false, "List jobs that have ended")
}
