package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/quatton/jarvice/pkg/jsdk"
	"github.com/quatton/jarvice/pkg/jsdk/jerr"
	"github.com/spf13/cobra"
)

type outputFunc func(svc *jsdk.JobService, ctx context.Context, ref jsdk.JobRef, lines int) (string, error)

// outputCommand prints text returned by tail or output.
func outputCommand(use, short string, fetch outputFunc) *cobra.Command {
	c := jobCommand(&cobra.Command{Use: use, Short: short}, func(cmd *cobra.Command, ref jsdk.JobRef) error {
		lines, err := cmd.Flags().GetInt("lines")
		if err != nil {
			return err
		}
		if lines < 0 {
			return jerr.Usagef("--lines must not be negative, got %d", lines)
		}
		svc, err := newService(cmd, slog.LevelWarn)
		if err != nil {
			return err
		}
		text, err := fetch(svc, cmd.Context(), ref, lines)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), text)
		if text != "" && !strings.HasSuffix(text, "\n") {
			fmt.Fprintln(cmd.OutOrStdout())
		}
		return nil
	})
	c.Flags().IntP("lines", "l", 0, "Number of lines to display (0 for the server default)")
	return c
}

func init() {
	rootCmd.AddCommand(
		outputCommand("tail", "See the output/error of a currently running job", (*jsdk.JobService).Tail),
		outputCommand("output", "See the output of a job that has ended", (*jsdk.JobService).Output),
	)
}
