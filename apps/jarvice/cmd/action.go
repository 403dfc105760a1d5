package cmd

import (
	"fmt"
	"log/slog"

	"github.com/quatton/jarvice/pkg/jsdk"
	"github.com/spf13/cobra"
)

var actionCmd = &cobra.Command{
	Use:        "action <name>",
	Short:      "Perform a configured action on your job",
	Long:       `Perform one of the actions listed by 'jarvice info' on a running job.`,
	Deprecated: "actions will be removed from the JARVICE API",
	Args:       usageArgs(cobra.ExactArgs(1)),
}

func init() {
	jobCommand(actionCmd, func(cmd *cobra.Command, ref jsdk.JobRef) error {
		name := cmd.Flags().Arg(0)
		svc, err := newService(cmd, slog.LevelWarn)
		if err != nil {
			return err
		}
		if err := svc.Action(cmd.Context(), name, ref); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Action requested : %s\n", name)
		return nil
	})
	rootCmd.AddCommand(actionCmd)
}
