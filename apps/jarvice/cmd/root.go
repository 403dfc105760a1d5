package cmd

import (
	"context"
	"errors"
	"os"

	"github.com/quatton/jarvice/pkg/jsdk"
	"github.com/quatton/jarvice/pkg/jsdk/jerr"
	"github.com/spf13/cobra"
)

type contextKey string

const configContextKey contextKey = "jarviceconfig"

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "jarvice",
		Short: "The JARVICE CLI for interacting with JARVICE XE",
		Long: `jarvice submits jobs to a JARVICE XE scheduler and manages them through
its REST API: inspect status and output, connect to interactive sessions,
shut jobs down, and list the applications and machine types on offer.

Credentials are read, in order of precedence, from the --username, --apikey
and --url flags, from JARVICE_USER, JARVICE_API_KEY and JARVICE_API_URL, from
the [auth] section of ~/.jarvice.cfg, and for the API key from the OS keyring
(see 'jarvice auth login').`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if noRich, _ := cmd.Flags().GetBool("no-rich"); noRich && cmd.Flags().Changed("output") {
				return jerr.Usagef("--no-rich cannot be combined with --output")
			}

			cfg, err := jsdk.LoadConfig(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}

			ctx := context.WithValue(cmd.Context(), configContextKey, cfg)
			cmd.SetContext(ctx)

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return jerr.Usagef("unknown command %q for %q", args[0], cmd.CommandPath())
			}
			return cmd.Help()
		},
	}
)

// GetConfig retrieves the Config from the command context
func GetConfig(cmd *cobra.Command) (*jsdk.Config, error) {
	ctx := cmd.Context()
	cfg, ok := ctx.Value(configContextKey).(*jsdk.Config)
	if !ok {
		return nil, errors.New("no config in context")
	}
	return cfg, nil
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(reportError(os.Stderr, err))
	}
}

func init() {
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return jerr.New(jerr.CodeUsage, err)
	})

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "credentials file, INI with an [auth] section or YAML (default ~/.jarvice.cfg)")
	flags.String("url", "", "URL of JARVICE XE")
	flags.StringP("username", "u", "", "login name in JARVICE XE")
	flags.StringP("apikey", "k", "", "API key in JARVICE XE")
	flags.StringP("output", "o", "auto", "output format: auto, plain, styled or json")
	flags.Bool("no-rich", false, "plain output without colors, same as --output plain")
	flags.Bool("debug", false, "log API requests to stderr")
}
