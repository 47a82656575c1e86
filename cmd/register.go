package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/venvctl/internal/audit"
	"github.com/firefly-engineering/venvctl/internal/target"
)

var (
	registerProjectDir  string
	registerBaseDir     string
	registerDescription string
	registerTargets     []string
)

var registerCmd = &cobra.Command{
	Use:   "register <name>",
	Short: "Register or update an environment",
	Long: `Registers an environment for a project directory without provisioning it.

Registering an existing name updates that entry in place and keeps its id.
Target patterns may be exact hostnames, globs (gpu*), domain suffixes
(.cluster.example), hostname components, or one of *, any, localhost, local.
No --target means any machine.`,
	Args: cobra.ExactArgs(1),
	RunE: runRegister,
}

func init() {
	registerCmd.Flags().StringVarP(&registerProjectDir, "project-dir", "p", "", "Project directory (default: current directory)")
	registerCmd.Flags().StringVar(&registerBaseDir, "base-dir", "", "Directory holding the venv, relative to the project (default from settings)")
	registerCmd.Flags().StringVarP(&registerDescription, "description", "d", "", "Free-text description")
	registerCmd.Flags().StringArrayVarP(&registerTargets, "target", "t", nil, "Allowed target machine pattern (repeatable)")
	rootCmd.AddCommand(registerCmd)
}

func runRegister(cmd *cobra.Command, args []string) error {
	name := args[0]

	dir, err := projectDir(registerProjectDir)
	if err != nil {
		return err
	}

	baseDir := registerBaseDir
	if baseDir == "" {
		baseDir = settings().DefaultBaseDir
	}

	store, reg, err := openRegistry()
	if err != nil {
		return err
	}

	entry, created, err := reg.Register(name, dir, baseDir, registerDescription, registerTargets)
	if err != nil {
		return err
	}
	if err := store.Save(reg); err != nil {
		return err
	}

	eventType := audit.EventUpdate
	if created {
		eventType = audit.EventRegister
	}
	recordEvent(audit.Event{
		Type:        eventType,
		Environment: entry.Name,
		ID:          entry.ID,
		Details:     fmt.Sprintf("project=%s targets=%s", entry.ProjectDir, target.Format(registerTargets)),
	})

	if created {
		logSuccess("Registered %s (%s)", entry.Name, entry.ShortID())
	} else {
		logSuccess("Updated %s (%s)", entry.Name, entry.ShortID())
	}
	fmt.Fprintln(cmd.OutOrStdout(), entry.ID)
	return nil
}
