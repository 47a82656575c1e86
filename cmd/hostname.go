package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/venvctl/internal/app"
	"github.com/firefly-engineering/venvctl/internal/hostname"
)

var hostnameCmd = &cobra.Command{
	Use:   "hostname",
	Short: "Print the hostname used for target matching",
	Long: `Prints the hostname venvctl matches target machine patterns against.

The first non-empty variable from hostname_env in the settings wins
(VENVCTL_HOSTNAME, then HOSTNAME, by default); otherwise the first line
hostname_command prints on stdout is used.`,
	Args: cobra.NoArgs,
	RunE: runHostname,
}

func init() {
	rootCmd.AddCommand(hostnameCmd)
}

func runHostname(cmd *cobra.Command, args []string) error {
	res, err := app.Default.Hostname(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), res.Hostname)
	switch res.Source {
	case hostname.SourceEnv:
		fmt.Fprintf(cmd.ErrOrStderr(), "source: environment variable %s\n", res.Origin)
	case hostname.SourceCommand:
		fmt.Fprintf(cmd.ErrOrStderr(), "source: command %q\n", res.Origin)
	}
	return nil
}
