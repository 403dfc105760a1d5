package cmd

import (
	"fmt"
	"log/slog"

	"github.com/quatton/jarvice/pkg/client"
	"github.com/quatton/jarvice/pkg/jsdk/jerr"
	"github.com/spf13/cobra"
)

var appsCmd = &cobra.Command{
	Use:   "apps [name]",
	Short: "List apps, or describe one app and its commands",
	Args:  usageArgs(cobra.MaximumNArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := ""
		if len(args) == 1 {
			name = args[0]
		}

		svc, err := newService(cmd, slog.LevelWarn)
		if err != nil {
			return err
		}
		apps, err := svc.ListApps(cmd.Context(), name)
		if err != nil {
			return err
		}
		p, err := newPresenter(cmd)
		if err != nil {
			return err
		}

		if name == "" {
			return p.RenderApps(apps)
		}
		app, ok := apps.Get(name)
		if !ok {
			return jerr.New(jerr.CodeAPI, &client.APIError{Message: fmt.Sprintf("application %q not found", name)})
		}
		return p.RenderApp(app)
	},
}

var machinesCmd = &cobra.Command{
	Use:   "machines [name]",
	Short: "List all instances, or describe one machine type",
	Args:  usageArgs(cobra.MaximumNArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := ""
		if len(args) == 1 {
			name = args[0]
		}

		svc, err := newService(cmd, slog.LevelWarn)
		if err != nil {
			return err
		}
		machines, err := svc.ListMachines(cmd.Context(), name)
		if err != nil {
			return err
		}
		p, err := newPresenter(cmd)
		if err != nil {
			return err
		}
		return p.RenderMachines(machines)
	},
}

func init() {
	rootCmd.AddCommand(appsCmd, machinesCmd)
}
