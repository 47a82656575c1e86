package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/venvctl/internal/app"
	"github.com/firefly-engineering/venvctl/internal/audit"
	"github.com/firefly-engineering/venvctl/internal/logging"
	"github.com/firefly-engineering/venvctl/internal/target"
)

var (
	createProjectDir string
	createForceHost  bool
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create the environment described by a project's spec file",
	Long: `Reads the environment spec file (venvctl.json by default) from the project
directory, checks that this host is one of its target machines, registers the
environment and provisions its virtualenv.

The registry is only updated when provisioning succeeds.`,
	Args: cobra.NoArgs,
	RunE: runCreate,
}

func init() {
	createCmd.Flags().StringVarP(&createProjectDir, "project-dir", "p", "", "Project directory (default: current directory)")
	createCmd.Flags().BoolVar(&createForceHost, "force-host", false, "Provision even if this host is not a target machine")
	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	dir, err := projectDir(createProjectDir)
	if err != nil {
		return err
	}

	spec, err := app.Default.SpecSource().Load(dir)
	if err != nil {
		return err
	}
	logging.Debug("loaded environment spec", "name", spec.Name, "project", dir)
	if err := target.Validate(spec.TargetMachines); err != nil {
		return err
	}

	host, err := app.Default.Hostname(ctx)
	if err != nil {
		return err
	}
	if err := target.Check(spec.TargetMachines, host.Hostname); err != nil {
		if !createForceHost {
			return err
		}
		logWarning("%v; continuing because of --force-host", err)
	}

	baseDir := spec.BaseDir
	if baseDir == "" {
		baseDir = settings().DefaultBaseDir
	}

	store, reg, err := openRegistry()
	if err != nil {
		return err
	}

	entry, created, err := reg.Register(spec.Name, dir, baseDir, spec.Description, spec.TargetMachines)
	if err != nil {
		return err
	}

	logInfo("Provisioning %s in %s", entry.Name, entry.VenvPath)
	result, err := app.Default.Provisioner().Provision(ctx, entry, spec)
	if err != nil {
		return err
	}

	if err := store.Save(reg); err != nil {
		return err
	}

	if created {
		recordEvent(audit.Event{
			Type:        audit.EventRegister,
			Environment: entry.Name,
			ID:          entry.ID,
			Host:        host.Hostname,
			Details:     fmt.Sprintf("project=%s targets=%s", entry.ProjectDir, entry.TargetMachines),
		})
	}
	recordEvent(audit.Event{
		Type:        audit.EventCreate,
		Environment: entry.Name,
		ID:          entry.ID,
		Host:        host.Hostname,
		Details:     strings.Join(result.Steps, "; "),
	})

	logSuccess("Created %s (%s) with %s", entry.Name, entry.ShortID(), result.Python)
	fmt.Fprintln(cmd.OutOrStdout(), entry.ID)
	return nil
}
