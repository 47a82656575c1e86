package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/venvctl/internal/app"
	"github.com/firefly-engineering/venvctl/internal/audit"
	"github.com/firefly-engineering/venvctl/internal/logging"
	"github.com/firefly-engineering/venvctl/internal/registry"
)

var gcForce bool

var gcCmd = &cobra.Command{
	Use:   "gc",
	Short: "Remove registry entries whose environment is gone",
	Long: `Reconciles the registry with the filesystem.

Without --force, prints what would be cleaned (dry run).
With --force, deregisters stale entries. Their history is kept.

Detects:
  - Stale entries: registered environments whose venv directory no longer exists`,
	Args: cobra.NoArgs,
	RunE: runGC,
}

func init() {
	gcCmd.Flags().BoolVar(&gcForce, "force", false, "Actually remove stale entries (default is dry run)")
	rootCmd.AddCommand(gcCmd)
}

func runGC(cmd *cobra.Command, args []string) error {
	fs := app.Default.FS

	store, reg, err := openRegistry()
	if err != nil {
		return err
	}

	var stale []*registry.Entry
	for _, e := range reg.Entries() {
		if !fs.Exists(e.VenvPath) {
			stale = append(stale, e)
		}
	}

	if len(stale) == 0 {
		logInfo("Nothing to clean up")
		return nil
	}

	if !gcForce {
		printGCDryRun(cmd.OutOrStdout(), stale)
		return nil
	}

	return executeGC(stale, store, reg)
}

func printGCDryRun(w io.Writer, stale []*registry.Entry) {
	fmt.Fprintln(w, "Dry run (use --force to actually clean up):")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Stale entries (venv directory missing):")
	for _, e := range stale {
		fmt.Fprintf(w, "  %s (%s) %s\n", e.Name, e.ShortID(), e.VenvPath)
	}
}

func executeGC(stale []*registry.Entry, store *registry.Store, reg *registry.Registry) error {
	for _, e := range stale {
		logInfo("Deregistering stale environment: %s", e.Name)
		if _, ok := reg.Deregister(e.Name); !ok {
			logError("Failed to deregister %s", e.Name)
		}
	}
	if err := store.Save(reg); err != nil {
		return err
	}

	for _, e := range stale {
		recordEvent(audit.Event{
			Type:        audit.EventGC,
			Environment: e.Name,
			ID:          e.ID,
			Details:     "venv missing: " + e.VenvPath,
		})
		logging.Debug("deregistered stale environment", "name", e.Name)
	}

	logSuccess("Garbage collection complete")
	return nil
}
