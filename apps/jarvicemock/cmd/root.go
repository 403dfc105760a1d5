package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "jarvice-mock",
	Short: "Local stand-in for the JARVICE scheduler API",
	Long: `jarvice-mock serves the /jarvice/* REST endpoints from an in-memory job
store so that the jarvice CLI can be exercised without a JARVICE XE cluster.
Jobs are queued for JARVICE_MOCK_QUEUE_DELAY, run for JARVICE_MOCK_RUN_DURATION
and then complete.`,
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
