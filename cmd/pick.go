package cmd

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/venvctl/internal/app"
	"github.com/firefly-engineering/venvctl/internal/logging"
	"github.com/firefly-engineering/venvctl/internal/registry"
	"github.com/firefly-engineering/venvctl/internal/tui"
)

var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Interactive environment picker",
	Long: `Opens an interactive TUI for selecting an environment and prints its id.

Use arrow keys or j/k to navigate, / to filter, Enter to select.

Markers:
  ✓  usable on this host
  ✗  this host is not a target machine
  ○  venv directory missing

Combine with other commands:
  eval "$(venvctl activate "$(venvctl pick)")"`,
	Args: cobra.NoArgs,
	RunE: runPick,
}

func init() {
	rootCmd.AddCommand(pickCmd)
}

func runPick(cmd *cobra.Command, args []string) error {
	logging.Debug("picker mode started")

	_, reg, err := openRegistry()
	if err != nil {
		return err
	}

	entries := reg.Entries()
	if len(entries) == 0 {
		logInfo("No environments registered. Create one with: venvctl create")
		return nil
	}

	opts := tui.PickerOptions{FS: app.Default.FS}
	if host, err := app.Default.Hostname(cmd.Context()); err == nil {
		opts.Hostname = host.Hostname
	} else {
		logging.Debug("hostname unavailable for picker", "error", err)
	}

	var result tui.PickerResult
	if isInteractive() {
		result, err = tui.RunPicker(entries, opts)
	} else {
		result, err = pickByNumber(entries, opts)
	}
	if err != nil {
		return fmt.Errorf("picker error: %w", err)
	}

	logging.Debug("picker result", "action", result.Action)

	if result.Action == tui.ActionSelect && result.Entry != nil {
		fmt.Fprintln(cmd.OutOrStdout(), result.Entry.ID)
	}
	return nil
}

// pickByNumber prints the numbered listing to stderr and reads a choice from
// stdin. An empty or out-of-range answer quits.
func pickByNumber(entries []*registry.Entry, opts tui.PickerOptions) (tui.PickerResult, error) {
	fmt.Fprint(logging.Stderr, tui.SimplePicker(entries, opts))
	fmt.Fprintf(logging.Stderr, "Select [1-%d]: ", len(entries))

	line, err := bufio.NewReader(app.Default.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return tui.PickerResult{Action: tui.ActionQuit}, nil
	}

	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || n < 1 || n > len(entries) {
		return tui.PickerResult{Action: tui.ActionQuit}, nil
	}
	return tui.PickerResult{Action: tui.ActionSelect, Entry: entries[n-1]}, nil
}
