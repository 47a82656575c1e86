package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <identifier>",
	Short: "Print the full id of an environment",
	Long: `Resolves a name, id, id prefix or "." and prints the full id.

Exit codes: 2 not found, 3 ambiguous.`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeIdentifier,
	RunE:              runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	entry, err := loadEntry(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), entry.ID)
	return nil
}
