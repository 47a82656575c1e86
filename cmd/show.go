package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/venvctl/internal/app"
	"github.com/firefly-engineering/venvctl/internal/health"
	"github.com/firefly-engineering/venvctl/internal/provision"
)

var showOutput string

var showCmd = &cobra.Command{
	Use:               "show <identifier>",
	Short:             "Show an environment",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeIdentifier,
	RunE:              runShow,
}

func init() {
	showCmd.Flags().StringVarP(&showOutput, "output", "o", outputTable, "Output format: table, json or yaml")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	if err := validateOutput(showOutput); err != nil {
		return err
	}

	entry, err := loadEntry(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if showOutput != outputTable {
		return writeStructured(cmd.OutOrStdout(), showOutput, entry)
	}

	status := "provisioned"
	if !provision.IsVenv(app.Default.FS, entry.VenvPath) {
		status = "not provisioned"
	}

	host := ""
	if res, err := app.Default.Hostname(cmd.Context()); err == nil {
		host = res.Hostname
	}
	check := health.Check(app.Default.FS, entry, host, time.Now())

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Name:\t%s\n", entry.Name)
	fmt.Fprintf(w, "ID:\t%s\n", entry.ID)
	fmt.Fprintf(w, "Project:\t%s\n", entry.ProjectDir)
	fmt.Fprintf(w, "Venv:\t%s (%s)\n", entry.VenvPath, status)
	fmt.Fprintf(w, "Status:\t%s\n", health.FormatStatus(check.Status()))
	if check.VenvPresent {
		fmt.Fprintf(w, "Age:\t%s\n", health.FormatAge(check.Age))
	}
	fmt.Fprintf(w, "Targets:\t%s\n", entry.TargetMachines)
	if entry.Description != "" {
		fmt.Fprintf(w, "Description:\t%s\n", entry.Description)
	}
	return w.Flush()
}
