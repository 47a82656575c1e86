package cmd

import (
	"fmt"
	"path/filepath"

	shellquote "github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"

	"github.com/firefly-engineering/venvctl/internal/app"
	"github.com/firefly-engineering/venvctl/internal/audit"
	"github.com/firefly-engineering/venvctl/internal/errors"
	"github.com/firefly-engineering/venvctl/internal/provision"
)

var activateCmd = &cobra.Command{
	Use:   "activate <identifier>",
	Short: "Print the shell command that activates an environment",
	Long: `Checks that this host is a target machine and prints a source command
for the environment's activate script. Use it with eval:

  eval "$(venvctl activate torch)"`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeIdentifier,
	RunE:              runActivate,
}

func init() {
	rootCmd.AddCommand(activateCmd)
}

func runActivate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	entry, err := loadEntry(ctx, args[0])
	if err != nil {
		return err
	}

	host, err := requireTarget(ctx, entry)
	if err != nil {
		return err
	}

	if !provision.IsVenv(app.Default.FS, entry.VenvPath) {
		return errors.New(errors.ExitGeneralError,
			fmt.Sprintf("%s is not provisioned at %s; run venvctl create in %s", entry.Name, entry.VenvPath, entry.ProjectDir))
	}

	recordEvent(audit.Event{
		Type:        audit.EventActivate,
		Environment: entry.Name,
		ID:          entry.ID,
		Host:        host,
	})

	script := filepath.Join(entry.VenvPath, "bin", "activate")
	fmt.Fprintln(cmd.OutOrStdout(), shellquote.Join("source", script))
	return nil
}
