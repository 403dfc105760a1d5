package cmd

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/quatton/jarvice/pkg/jsdk"
	"github.com/quatton/jarvice/pkg/jsdk/jerr"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the API key saved in the OS keyring (login, logout)",
	Long: `Save or remove the API key of an account in the OS keyring.

A saved key is used whenever no API key is given by flag, environment or
config file. Keys are stored per username and API URL.

Examples:
  jarvice auth login -u alice --url https://cloud.nimbix.net/api
  jarvice auth logout -u alice --url https://cloud.nimbix.net/api`,
}

var loginSkipVerify bool

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Save an API key in the OS keyring",
	Long: `Save the API key of an account in the OS keyring. The key is taken from
--apikey or JARVICE_API_KEY when set, otherwise it is read from stdin.
It is checked against the API before it is saved unless --skip-verify is given.`,
	Args: usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig(cmd)
		if err != nil {
			return err
		}
		if err := requireIdentity(cfg); err != nil {
			return err
		}

		apiKey := cfg.APIKey
		if apiKey == "" {
			if apiKey, err = promptAPIKey(cmd.ErrOrStderr(), cmd.InOrStdin()); err != nil {
				return err
			}
		}

		if !loginSkipVerify {
			creds := jsdk.Credentials{Username: cfg.Username, APIKey: apiKey, BaseURL: cfg.BaseURL}
			svc, err := jsdk.NewJobService(creds, jsdk.WithLogger(newLogger(cfg, slog.LevelWarn)))
			if err != nil {
				return err
			}
			if _, err := svc.ListJobs(cmd.Context(), false); err != nil {
				return fmt.Errorf("verifying API key: %w", err)
			}
		}

		if err := jsdk.SaveAPIKey(cfg.Username, cfg.BaseURL, apiKey); err != nil {
			return jerr.Configf("saving API key to keyring: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "API key saved for %s on %s\n", cfg.Username, cfg.BaseURL)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove a saved API key from the OS keyring",
	Args:  usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig(cmd)
		if err != nil {
			return err
		}
		if err := requireIdentity(cfg); err != nil {
			return err
		}
		if err := jsdk.DeleteAPIKey(cfg.Username, cfg.BaseURL); err != nil {
			return jerr.Configf("removing API key from keyring: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "API key removed for %s on %s\n", cfg.Username, cfg.BaseURL)
		return nil
	},
}

// requireIdentity checks the fields that name a keyring entry.
func requireIdentity(cfg *jsdk.Config) error {
	var missing []string
	if cfg.Username == "" {
		missing = append(missing, fmt.Sprintf("username (--username, %s)", jsdk.EnvUsername))
	}
	if cfg.BaseURL == "" {
		missing = append(missing, fmt.Sprintf("API URL (--url, %s)", jsdk.EnvURL))
	}
	if len(missing) > 0 {
		return jerr.Configf("missing %s", strings.Join(missing, ", "))
	}
	return nil
}

// promptAPIKey reads the key without echo from a terminal, or as one line
// from any other input.
func promptAPIKey(prompt io.Writer, in io.Reader) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(prompt, "API key: ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", fmt.Errorf("reading API key: %w", err)
		}
		return validKey(string(b))
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("reading API key: %w", err)
	}
	return validKey(line)
}

func validKey(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", jerr.Usagef("no API key given")
	}
	return s, nil
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd, logoutCmd)
	loginCmd.Flags().BoolVar(&loginSkipVerify, "skip-verify", false, "Save the key without checking it against the API")
}
