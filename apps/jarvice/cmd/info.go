package cmd

import (
	"log/slog"

	"github.com/quatton/jarvice/pkg/jsdk"
	"github.com/spf13/cobra"
)

var infoCmd = jobCommand(&cobra.Command{
	Use:   "info",
	Short: "Get the stats on your job",
	Long:  `Print how to reach a job (address, password, url) and the actions it accepts.`,
}, func(cmd *cobra.Command, ref jsdk.JobRef) error {
	svc, err := newService(cmd, slog.LevelWarn)
	if err != nil {
		return err
	}
	info, err := svc.Info(cmd.Context(), ref)
	if err != nil {
		return err
	}
	p, err := newPresenter(cmd)
	if err != nil {
		return err
	}
	return p.RenderRuntimeInfo(info)
})

var statusCmd = jobCommand(&cobra.Command{
	Use:   "status",
	Short: "Get status of a job",
}, func(cmd *cobra.Command, ref jsdk.JobRef) error {
	svc, err := newService(cmd, slog.LevelWarn)
	if err != nil {
		return err
	}
	statuses, err := svc.Status(cmd.Context(), ref)
	if err != nil {
		return err
	}
	p, err := newPresenter(cmd)
	if err != nil {
		return err
	}
	return p.RenderStatus(statuses)
})

func init() {
	rootCmd.AddCommand(infoCmd, statusCmd)
}
