package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/venvctl/internal/app"
	"github.com/firefly-engineering/venvctl/internal/audit"
	"github.com/firefly-engineering/venvctl/internal/errors"
	"github.com/firefly-engineering/venvctl/internal/logging"
	"github.com/firefly-engineering/venvctl/internal/provision"
)

var (
	removeYes   bool
	removePurge bool
)

var removeCmd = &cobra.Command{
	Use:     "remove <identifier>",
	Aliases: []string{"rm"},
	Short:   "Deregister an environment",
	Long: `Removes an environment from the registry.

With --purge the virtualenv directory and the environment's history are
deleted as well. On a terminal you are asked to confirm unless --yes is given
or confirm_remove is false in the settings.`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeIdentifier,
	RunE:              runRemove,
}

func init() {
	removeCmd.Flags().BoolVarP(&removeYes, "yes", "y", false, "Do not ask for confirmation")
	removeCmd.Flags().BoolVar(&removePurge, "purge", false, "Also delete the virtualenv directory and history")
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	store, reg, err := openRegistry()
	if err != nil {
		return err
	}

	entry, err := resolveEntry(cmd.Context(), reg, args[0])
	if err != nil {
		return err
	}

	if !removeYes && settings().ConfirmRemove && isInteractive() {
		what := "Remove " + entry.Name
		if removePurge {
			what += " and delete " + entry.VenvPath
		}
		if !confirm(what + "?") {
			logInfo("Aborted")
			return nil
		}
	}

	if _, ok := reg.Deregister(entry.Name); !ok {
		return errors.EnvironmentNotFound(entry.Name)
	}
	if err := store.Save(reg); err != nil {
		return err
	}

	if removePurge {
		if err := provision.Purge(app.Default.FS, entry.VenvPath, logging.Logger); err != nil {
			logWarning("Removed %s from the registry but could not delete %s: %v", entry.Name, entry.VenvPath, err)
			return err
		}
		if err := app.Default.Audit().Remove(entry.Name); err != nil {
			logging.Warn("failed to remove audit log", "environment", entry.Name, "error", err)
		}
		logSuccess("Removed %s and deleted %s", entry.Name, entry.VenvPath)
		return nil
	}

	recordEvent(audit.Event{
		Type:        audit.EventRemove,
		Environment: entry.Name,
		ID:          entry.ID,
		Details:     entry.VenvPath,
	})
	logSuccess("Removed %s (%s)", entry.Name, entry.ShortID())
	return nil
}

// confirm asks a yes/no question on stdin. Anything but y or yes is no.
func confirm(question string) bool {
	fmt.Fprintf(logging.Stdout, "%s [y/N] ", question)

	line, err := bufio.NewReader(app.Default.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
