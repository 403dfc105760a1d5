package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

var downloadCmd = &cobra.Command{
	Use:   "download <source> <destination> <vault>",
	Short: "Download file or directory",
	Args:  usageArgs(cobra.ExactArgs(3)),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService(cmd, slog.LevelWarn)
		if err != nil {
			return err
		}
		return svc.Download(cmd.Context(), args[0], args[1], args[2])
	},
}

var uploadCmd = &cobra.Command{
	Use:   "upload <source> <destination> <vault>",
	Short: "Upload file or directory",
	Args:  usageArgs(cobra.ExactArgs(3)),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService(cmd, slog.LevelWarn)
		if err != nil {
			return err
		}
		return svc.Upload(cmd.Context(), args[0], args[1], args[2])
	},
}

var lsDir string

var lsCmd = &cobra.Command{
	Use:   "ls <vault>",
	Short: "List files",
	Args:  usageArgs(cobra.ExactArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService(cmd, slog.LevelWarn)
		if err != nil {
			return err
		}
		files, err := svc.Ls(cmd.Context(), args[0], lsDir)
		if err != nil {
			return err
		}
		for _, f := range files {
			fmt.Fprintln(cmd.OutOrStdout(), f)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(downloadCmd, uploadCmd, lsCmd)
	lsCmd.Flags().StringVarP(&lsDir, "dir", "d", "", "Remote directory")
}
