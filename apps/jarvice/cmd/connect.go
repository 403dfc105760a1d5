package cmd

import (
	"log/slog"

	"github.com/quatton/jarvice/pkg/jsdk"
	"github.com/spf13/cobra"
)

var connectCmd = jobCommand(&cobra.Command{
	Use:   "connect",
	Short: "Get connection details (address, password)",
	Long: `Print the address and password of a job's interactive session.
Either is NONE while the job is still starting.`,
}, func(cmd *cobra.Command, ref jsdk.JobRef) error {
	svc, err := newService(cmd, slog.LevelWarn)
	if err != nil {
		return err
	}
	address, password, err := svc.Connect(cmd.Context(), ref)
	if err != nil {
		return err
	}
	p, err := newPresenter(cmd)
	if err != nil {
		return err
	}
	return p.RenderConnect(address, password)
})

func init() {
	rootCmd.AddCommand(connectCmd)
}
