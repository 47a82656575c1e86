package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/venvctl/internal/app"
)

var historyCmd = &cobra.Command{
	Use:   "history <name>",
	Short: "Display the audit trail for an environment",
	Long: `Shows the recorded events for an environment. The argument is resolved like
any other identifier; a name that is no longer registered is read as-is.`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeIdentifier,
	RunE:              runHistory,
}

var historyJSON bool

func init() {
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "Output events as JSON lines")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	name := args[0]
	if entry, err := loadEntry(cmd.Context(), name); err == nil {
		name = entry.Name
	}

	events, err := app.Default.Audit().Events(name)
	if err != nil {
		return fmt.Errorf("failed to read audit log: %w", err)
	}

	if len(events) == 0 {
		logInfo("No events found for environment %s", name)
		return nil
	}

	out := cmd.OutOrStdout()
	for _, e := range events {
		if historyJSON {
			data, err := json.Marshal(e)
			if err != nil {
				return fmt.Errorf("failed to marshal event: %w", err)
			}
			fmt.Fprintln(out, string(data))
			continue
		}

		ts := e.Timestamp.Local().Format("2006-01-02 15:04:05")
		subject := e.Environment
		if e.Host != "" {
			subject += " @" + e.Host
		}
		if e.Details != "" {
			fmt.Fprintf(out, "[%s] %-8s %s (%s)\n", ts, e.Type, subject, e.Details)
		} else {
			fmt.Fprintf(out, "[%s] %-8s %s\n", ts, e.Type, subject)
		}
	}

	return nil
}
