package cmd

import (
	"github.com/quatton/jarvice/pkg/jsdk"
	"github.com/spf13/cobra"
)

const (
	jobIDFlag   = "jobid"
	jobNameFlag = "jobname"
)

func addJobRefFlags(cmd *cobra.Command) {
	cmd.Flags().Int64P(jobIDFlag, "j", 0, "ID of the job [required or --jobname required]")
	cmd.Flags().StringP(jobNameFlag, "n", "", "Name of the job [required or --jobid required]")
}

// jobRefFromFlags returns the job named by exactly one of --jobid and --jobname.
func jobRefFromFlags(cmd *cobra.Command) (jsdk.JobRef, error) {
	var (
		id   *int64
		name *string
	)
	if cmd.Flags().Changed(jobIDFlag) {
		v, err := cmd.Flags().GetInt64(jobIDFlag)
		if err != nil {
			return nil, err
		}
		id = &v
	}
	if cmd.Flags().Changed(jobNameFlag) {
		v, err := cmd.Flags().GetString(jobNameFlag)
		if err != nil {
			return nil, err
		}
		name = &v
	}
	return jsdk.ParseJobRef(id, name)
}

// jobCommand builds a command acting on one job. The job reference is
// validated before credentials are resolved.
func jobCommand(c *cobra.Command, run func(cmd *cobra.Command, ref jsdk.JobRef) error) *cobra.Command {
	c.RunE = func(cmd *cobra.Command, args []string) error {
		ref, err := jobRefFromFlags(cmd)
		if err != nil {
			return err
		}
		return run(cmd, ref)
	}
	if c.Args == nil {
		c.Args = usageArgs(cobra.NoArgs)
	}
	addJobRefFlags(c)
	return c
}
