package cmd

import (
	"github.com/spf13/cobra"

	"github.com/firefly-engineering/venvctl/internal/app"
	"github.com/firefly-engineering/venvctl/internal/target"
)

var checkHost string

var checkCmd = &cobra.Command{
	Use:   "check <identifier>",
	Short: "Check whether a host may use an environment",
	Long: `Matches the current hostname (or --host) against the environment's target
machines. Exits with status 4 when the host is not allowed.`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeIdentifier,
	RunE:              runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkHost, "host", "", "Hostname to check instead of the current host")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	entry, err := loadEntry(ctx, args[0])
	if err != nil {
		return err
	}

	host := checkHost
	if host == "" {
		h, err := app.Default.Hostname(ctx)
		if err != nil {
			return err
		}
		host = h.Hostname
	}

	if err := target.Check(entry.Targets(), host); err != nil {
		return err
	}
	logSuccess("%s may use %s (targets: %s)", host, entry.Name, target.Format(entry.Targets()))
	return nil
}
