package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/quatton/jarvice/pkg/jsdk/jerr"
	"github.com/spf13/cobra"
)

var submitCmd = &cobra.Command{
	Use:   "submit <job.json>",
	Short: "Submit a job",
	Long: `Submit a job described by a JARVICE job JSON file.

The "user" block of the file is replaced with the credentials in use.

Examples:
  jarvice submit job.json`,
	Args: usageArgs(cobra.ExactArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		descriptor, err := os.ReadFile(args[0])
		if err != nil {
			return jerr.Usagef("reading job file: %w", err)
		}

		svc, err := newService(cmd, slog.LevelWarn)
		if err != nil {
			return err
		}
		resp, err := svc.Submit(cmd.Context(), descriptor)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Submitted:")
		fmt.Fprintf(out, "- ID  : %d\n", resp.Number)
		fmt.Fprintf(out, "- Name: %s\n", resp.Name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(submitCmd)
}
