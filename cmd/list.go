package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/venvctl/internal/app"
	"github.com/firefly-engineering/venvctl/internal/health"
	"github.com/firefly-engineering/venvctl/internal/registry"
	"github.com/firefly-engineering/venvctl/internal/target"
)

var listOutput string

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List registered environments",
	Args:    cobra.NoArgs,
	RunE:    runList,
}

func init() {
	listCmd.Flags().StringVarP(&listOutput, "output", "o", outputTable, "Output format: table, json or yaml")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	if err := validateOutput(listOutput); err != nil {
		return err
	}

	_, reg, err := openRegistry()
	if err != nil {
		return err
	}
	entries := reg.Entries()

	if listOutput != outputTable {
		if entries == nil {
			entries = []*registry.Entry{}
		}
		return writeStructured(cmd.OutOrStdout(), listOutput, entries)
	}

	if len(entries) == 0 {
		logInfo("No environments registered. Create one with: venvctl create")
		return nil
	}

	// Status is best effort; an undetectable host only skips the target check.
	host := ""
	if res, err := app.Default.Hostname(cmd.Context()); err == nil {
		host = res.Hostname
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSTATUS\tTARGETS\tPROJECT")
	fmt.Fprintln(w, "--\t----\t------\t-------\t-------")

	for _, e := range entries {
		targets := e.TargetMachines
		if targets == "" {
			targets = target.AnyDisplay
		}
		status := health.FormatStatus(health.GetSummary(app.Default.FS, e, host))
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", e.ShortID(), e.Name, status, targets, e.ProjectDir)
	}

	return w.Flush()
}
